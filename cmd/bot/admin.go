package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/ticketeer/pkg/entities"
	"github.com/Jacobbrewer1/ticketeer/pkg/ticketing"
)

func setupController(i *discordgo.InteractionCreate, data discordgo.ApplicationCommandInteractionData) (ticketing.Action, error) {
	opts := optionMap(data.Options)

	cfg := entities.CommunityConfig{
		CommunityID:      i.GuildID,
		SupportRoleID:    opts.string(roleOptionName),
		ClosedCategoryID: opts.string(categoryOptionName),
		LogChannelID:     opts.string(logChannelOptionName),
	}

	if s := opts.string(colorOptionName); s != "" {
		color, err := parseColor(s)
		if err != nil {
			return nil, err
		}
		cfg.PanelColor = color
	}

	return ticketing.Setup{Config: cfg}, nil
}

// parseColor parses a hex colour such as "#5865F2" or "5865f2".
func parseColor(s string) (int, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	color, err := strconv.ParseUint(hex, 16, 24)
	if err != nil || len(hex) != 6 {
		return 0, usageError(fmt.Sprintf("%q is not a colour, use six hex digits such as #5865F2", s))
	}
	return int(color), nil
}

func panelController(i *discordgo.InteractionCreate, data discordgo.ApplicationCommandInteractionData) (ticketing.Action, error) {
	opts := optionMap(data.Options)

	return ticketing.DefinePanel{
		Panel: entities.Panel{
			CommunityID: i.GuildID,
			Name:        opts.string(nameOptionName),
			ChannelID:   opts.string(channelOptionName),
			Title:       opts.string(titleOptionName),
			Description: opts.string(descriptionOptionName),
			ImageURL:    opts.string(imageURLOptionName),
		},
	}, nil
}

func panelsController(i *discordgo.InteractionCreate, data discordgo.ApplicationCommandInteractionData) (ticketing.Action, error) {
	sub, opts, err := subcommand(data)
	if err != nil {
		return nil, err
	}

	switch sub {
	case listSubCmdName:
		return ticketing.ListPanels{CommunityID: i.GuildID}, nil
	case deleteSubCmdName:
		return ticketing.DeletePanel{CommunityID: i.GuildID, Name: opts.string(nameOptionName)}, nil
	default:
		return nil, fmt.Errorf("%w: /%s %s", errUnhandledInteraction, data.Name, sub)
	}
}
