package main

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/stretchr/testify/require"
)

type fakeCommandClient struct {
	mu      sync.Mutex
	created []string
	deleted []string

	// failOn fails the create of the named command.
	failOn string

	// entered and release block every create when set.
	entered chan struct{}
	release chan struct{}
}

func (f *fakeCommandClient) ApplicationCommandCreate(_ string, guildID string, cmd *discordgo.ApplicationCommand, _ ...discordgo.RequestOption) (*discordgo.ApplicationCommand, error) {
	if f.entered != nil {
		f.entered <- struct{}{}
		<-f.release
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if cmd.Name == f.failOn {
		return nil, errors.New("rate limited")
	}
	f.created = append(f.created, guildID+"/"+cmd.Name)
	return &discordgo.ApplicationCommand{
		ID:      fmt.Sprintf("%s-%d", cmd.Name, len(f.created)),
		GuildID: guildID,
		Name:    cmd.Name,
	}, nil
}

func (f *fakeCommandClient) ApplicationCommandDelete(_, guildID, cmdID string, _ ...discordgo.RequestOption) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, guildID+"/"+cmdID)
	return nil
}

var testDefs = []*discordgo.ApplicationCommand{
	{Name: "setup"},
	{Name: "ticket"},
	{Name: "panel"},
}

func TestGuildCommands_RegisterOnce(t *testing.T) {
	client := new(fakeCommandClient)
	commands := newGuildCommands(client, "app", testDefs)

	registered, err := commands.register("guild")
	require.NoError(t, err)
	require.True(t, registered)
	require.Len(t, commands.registered("guild"), len(testDefs))

	registered, err = commands.register("guild")
	require.NoError(t, err)
	require.False(t, registered)
	require.Len(t, client.created, len(testDefs))
}

func TestGuildCommands_ConcurrentRegister(t *testing.T) {
	client := &fakeCommandClient{
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	commands := newGuildCommands(client, "app", testDefs)

	done := make(chan error, 1)
	go func() {
		_, err := commands.register("guild")
		done <- err
	}()

	// The first registration is in flight.
	<-client.entered

	registered, err := commands.register("guild")
	require.NoError(t, err)
	require.False(t, registered)

	close(client.release)
	for range testDefs[1:] {
		<-client.entered
	}
	require.NoError(t, <-done)
	require.Len(t, client.created, len(testDefs))
}

func TestGuildCommands_FailureKeepsCreated(t *testing.T) {
	client := &fakeCommandClient{failOn: "ticket"}
	commands := newGuildCommands(client, "app", testDefs)

	registered, err := commands.register("guild")
	require.Error(t, err)
	require.True(t, registered)
	require.Len(t, commands.registered("guild"), 1)

	require.NoError(t, commands.unregisterAll())
	require.Equal(t, []string{"guild/setup-1"}, client.deleted)
	require.Empty(t, commands.registered("guild"))
}

func TestGuildCommands_Forget(t *testing.T) {
	client := new(fakeCommandClient)
	commands := newGuildCommands(client, "app", testDefs)

	_, err := commands.register("guild")
	require.NoError(t, err)

	commands.forget("guild")
	require.NoError(t, commands.unregisterAll())
	require.Empty(t, client.deleted)

	registered, err := commands.register("guild")
	require.NoError(t, err)
	require.True(t, registered)
}
