package main

import (
	"fmt"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/ticketeer/pkg/messages"
	"github.com/Jacobbrewer1/ticketeer/pkg/panels"
	"github.com/Jacobbrewer1/ticketeer/pkg/ticketing"
)

// ticketController handles /ticket. Every subcommand acts on the channel it is used in.
func ticketController(i *discordgo.InteractionCreate, data discordgo.ApplicationCommandInteractionData) (ticketing.Action, error) {
	sub, opts, err := subcommand(data)
	if err != nil {
		return nil, err
	}

	switch sub {
	case addSubCmdName:
		return ticketing.AddMember{ChannelID: i.ChannelID, UserID: opts.string(userOptionName)}, nil
	case removeSubCmdName:
		return ticketing.RemoveMember{ChannelID: i.ChannelID, UserID: opts.string(userOptionName)}, nil
	case closeSubCmdName:
		return ticketing.Close{ChannelID: i.ChannelID}, nil
	case openSubCmdName:
		return ticketing.Reopen{ChannelID: i.ChannelID}, nil
	case deleteSubCmdName:
		return ticketing.Delete{ChannelID: i.ChannelID}, nil
	case transcriptSubCmdName:
		return ticketing.Transcript{ChannelID: i.ChannelID}, nil
	default:
		return nil, fmt.Errorf("%w: /%s %s", errUnhandledInteraction, data.Name, sub)
	}
}

// buttonAction handles the panel and close buttons.
func buttonAction(i *discordgo.InteractionCreate, customID string) (ticketing.Action, error) {
	if customID == ticketing.CloseTicketButtonID {
		return ticketing.Close{ChannelID: i.ChannelID}, nil
	}

	panelName, ok := panels.ResolveOnCreate(customID)
	if !ok {
		return nil, fmt.Errorf("%w: button %s", errUnhandledInteraction, customID)
	}

	if i.Member == nil || i.Member.User == nil {
		return nil, usageError(messages.ErrGuildOnly)
	}

	return ticketing.Create{
		CommunityID: i.GuildID,
		Handle:      i.Member.User.Username,
		PanelName:   panelName,
	}, nil
}
