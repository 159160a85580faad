package main

import (
	"log/slog"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/ticketeer/pkg/logging"
)

// guildJoinedHandler registers the slash commands in every guild the bot sees, including the guilds
// sent when the session connects.
func (a *App) guildJoinedHandler() func(s *discordgo.Session, g *discordgo.GuildCreate) {
	return func(_ *discordgo.Session, g *discordgo.GuildCreate) {
		// Guild create is sent again on reconnect, so register reports whether this call did the work.
		registered, err := a.commands.register(g.ID)
		if registered {
			a.l.Info("Joined guild",
				slog.String(logging.KeyGuild, g.ID),
				slog.String("name", g.Name),
			)
		}
		if err != nil {
			a.l.Error("Error registering commands for guild",
				slog.String(logging.KeyGuild, g.ID),
				slog.String(logging.KeyError, err.Error()),
			)
		}
	}
}

func (a *App) guildLeaveHandler() func(s *discordgo.Session, g *discordgo.GuildDelete) {
	return func(_ *discordgo.Session, g *discordgo.GuildDelete) {
		if g.Unavailable {
			a.l.Warn("Guild unavailable", slog.String(logging.KeyGuild, g.ID))
			return
		}

		a.l.Info("Left guild", slog.String(logging.KeyGuild, g.ID))

		// Discord removes guild commands itself.
		a.commands.forget(g.ID)
	}
}
