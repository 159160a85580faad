package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/ticketeer/pkg/messages"
	"github.com/Jacobbrewer1/ticketeer/pkg/policy"
	"github.com/Jacobbrewer1/ticketeer/pkg/ticketing"
)

// errUnhandledInteraction is returned for interactions the bot does not own, such as other bots' buttons.
var errUnhandledInteraction = errors.New("unhandled interaction")

// usageError is a problem with the command options. Its text is shown to the user as is.
type usageError string

func (e usageError) Error() string {
	return string(e)
}

// commandController turns a slash command into an engine action.
type commandController func(i *discordgo.InteractionCreate, data discordgo.ApplicationCommandInteractionData) (ticketing.Action, error)

// commandControllers are keyed by command name.
var commandControllers = map[string]commandController{
	setupCmdName:  setupController,
	panelCmdName:  panelController,
	panelsCmdName: panelsController,
	ticketCmdName: ticketController,
}

// actionFor builds the engine action for the interaction.
func actionFor(i *discordgo.InteractionCreate) (ticketing.Action, error) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		data := i.ApplicationCommandData()
		controller, ok := commandControllers[data.Name]
		if !ok {
			return nil, fmt.Errorf("%w: command %s", errUnhandledInteraction, data.Name)
		}
		return controller(i, data)
	case discordgo.InteractionMessageComponent:
		return buttonAction(i, i.MessageComponentData().CustomID)
	default:
		return nil, fmt.Errorf("%w: type %d", errUnhandledInteraction, i.Type)
	}
}

// callerFor describes the member that triggered the interaction.
func callerFor(i *discordgo.InteractionCreate) (policy.Caller, error) {
	if i.Member == nil || i.Member.User == nil {
		return policy.Caller{}, usageError(messages.ErrGuildOnly)
	}

	return policy.Caller{
		UserID:          i.Member.User.ID,
		RoleIDs:         i.Member.Roles,
		IsAdministrator: i.Member.Permissions&discordgo.PermissionAdministrator == discordgo.PermissionAdministrator,
	}, nil
}

type options map[string]*discordgo.ApplicationCommandInteractionDataOption

func optionMap(opts []*discordgo.ApplicationCommandInteractionDataOption) options {
	m := make(options, len(opts))
	for _, o := range opts {
		m[o.Name] = o
	}
	return m
}

// string returns the trimmed value of the option, or "" when it was not given.
// User, role and channel options carry their ID as a string.
func (o options) string(name string) string {
	opt, ok := o[name]
	if !ok {
		return ""
	}
	s, _ := opt.Value.(string)
	return strings.TrimSpace(s)
}

// subcommand returns the subcommand that was used with its options.
func subcommand(data discordgo.ApplicationCommandInteractionData) (string, options, error) {
	if len(data.Options) == 0 || data.Options[0].Type != discordgo.ApplicationCommandOptionSubCommand {
		return "", nil, usageError(fmt.Sprintf("/%s needs a subcommand", data.Name))
	}

	sub := data.Options[0]
	return sub.Name, optionMap(sub.Options), nil
}

// isLongRunning reports whether the interaction must be acknowledged before the action runs.
func isLongRunning(action ticketing.Action) bool {
	switch action.(type) {
	case ticketing.Close, ticketing.Delete, ticketing.Transcript:
		return true
	default:
		return false
	}
}

// isPublic reports whether the reply is shown to everyone in the channel.
func isPublic(action ticketing.Action) bool {
	switch action.(type) {
	case ticketing.AddMember, ticketing.RemoveMember, ticketing.Close, ticketing.Reopen:
		return true
	default:
		return false
	}
}
