package main

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/ticketeer/cmd/bot/monitoring"
)

// commandClient creates and deletes guild slash commands. It is implemented by *discordgo.Session.
type commandClient interface {
	ApplicationCommandCreate(appID string, guildID string, cmd *discordgo.ApplicationCommand, options ...discordgo.RequestOption) (*discordgo.ApplicationCommand, error)
	ApplicationCommandDelete(appID, guildID, cmdID string, options ...discordgo.RequestOption) error
}

// guildCommands tracks the slash commands registered in each guild.
type guildCommands struct {
	client commandClient
	appID  string
	defs   []*discordgo.ApplicationCommand

	mu sync.Mutex

	// byGuild holds the created commands by guild ID. A guild is present from the moment its
	// registration starts.
	byGuild map[string][]*discordgo.ApplicationCommand
}

func newGuildCommands(client commandClient, appID string, defs []*discordgo.ApplicationCommand) *guildCommands {
	return &guildCommands{
		client:  client,
		appID:   appID,
		defs:    defs,
		byGuild: make(map[string][]*discordgo.ApplicationCommand),
	}
}

// register creates the commands in the guild. It returns false when the guild is already registered
// or being registered. Commands created before a failure are kept so that unregisterAll removes them.
func (g *guildCommands) register(guildID string) (bool, error) {
	g.mu.Lock()
	if _, ok := g.byGuild[guildID]; ok {
		g.mu.Unlock()
		return false, nil
	}
	g.byGuild[guildID] = nil
	g.setGauge()
	g.mu.Unlock()

	created := make([]*discordgo.ApplicationCommand, 0, len(g.defs))
	var err error
	for _, def := range g.defs {
		cmd, createErr := g.client.ApplicationCommandCreate(g.appID, guildID, def)
		if createErr != nil {
			err = fmt.Errorf("error creating %s command for guild %s: %w", def.Name, guildID, createErr)
			break
		}
		created = append(created, cmd)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	// Discord removes the commands of a guild the bot left.
	if _, ok := g.byGuild[guildID]; ok {
		g.byGuild[guildID] = created
	}
	return true, err
}

// forget drops the guild without deleting its commands.
func (g *guildCommands) forget(guildID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.byGuild, guildID)
	g.setGauge()
}

// unregisterAll deletes every command it created.
func (g *guildCommands) unregisterAll() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	var errs []error
	for guildID, cmds := range g.byGuild {
		for _, cmd := range cmds {
			if err := g.client.ApplicationCommandDelete(g.appID, guildID, cmd.ID); err != nil {
				errs = append(errs, fmt.Errorf("error deleting %s command for guild %s: %w", cmd.Name, guildID, err))
			}
		}
		delete(g.byGuild, guildID)
	}
	g.setGauge()
	return errors.Join(errs...)
}

// registered returns the commands created in the guild.
func (g *guildCommands) registered(guildID string) []*discordgo.ApplicationCommand {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]*discordgo.ApplicationCommand(nil), g.byGuild[guildID]...)
}

// setGauge must be called with mu held.
func (g *guildCommands) setGauge() {
	monitoring.TotalDiscordGuilds.Set(float64(len(g.byGuild)))
}
