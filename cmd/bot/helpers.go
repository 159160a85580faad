package main

import (
	"log/slog"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/ticketeer/pkg/gateway"
	"github.com/Jacobbrewer1/ticketeer/pkg/logging"
	"github.com/Jacobbrewer1/ticketeer/pkg/policy"
)

func ephemeralFlags(ephemeral bool) discordgo.MessageFlags {
	if ephemeral {
		return discordgo.MessageFlagsEphemeral
	}
	return 0
}

// respondDeferred acknowledges the interaction so the reply can follow once the work is done.
func (a *App) respondDeferred(i *discordgo.InteractionCreate, ephemeral bool) error {
	return a.s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Flags: ephemeralFlags(ephemeral),
		},
	})
}

// respond sends the reply, editing the acknowledgement of a deferred interaction.
func (a *App) respond(l *slog.Logger, i *discordgo.InteractionCreate, r reply, ephemeral, deferred bool) {
	var err error
	if deferred {
		_, err = a.s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
			Content: &r.content,
			Files:   r.files,
		})
	} else {
		err = a.s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseChannelMessageWithSource,
			Data: &discordgo.InteractionResponseData{
				Content: r.content,
				Files:   r.files,
				Flags:   ephemeralFlags(ephemeral),
			},
		})
	}

	switch {
	case err == nil:
	case gateway.IsUnknownChannel(err):
		// The channel was deleted by the action itself.
		l.Debug("Interaction channel is gone, reply dropped")
	default:
		l.Error("Error responding to interaction", slog.String(logging.KeyError, err.Error()))
	}
}

// respondError tells the user what went wrong. Errors the user did not cause are logged.
// A deferred acknowledgement may be public, so it is replaced by a private follow up.
func (a *App) respondError(l *slog.Logger, i *discordgo.InteractionCreate, kind policy.Kind, err error, deferred bool) {
	msg, unexpected := replyForError(kind, err)
	if unexpected {
		l.Error("Error handling interaction", slog.String(logging.KeyError, err.Error()))
	} else {
		l.Debug("Interaction refused", slog.String(logging.KeyError, err.Error()))
	}

	if !deferred {
		a.respond(l, i, reply{content: msg}, true, false)
		return
	}

	if err := a.s.InteractionResponseDelete(i.Interaction); err != nil {
		l.Warn("Error removing acknowledgement", slog.String(logging.KeyError, err.Error()))
	}
	if _, err := a.s.FollowupMessageCreate(i.Interaction, true, &discordgo.WebhookParams{
		Content: msg,
		Flags:   discordgo.MessageFlagsEphemeral,
	}); err != nil {
		l.Error("Error responding to interaction", slog.String(logging.KeyError, err.Error()))
	}
}
