package panels

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Jacobbrewer1/ticketeer/pkg/dataaccess/dataaccesstest"
	"github.com/Jacobbrewer1/ticketeer/pkg/entities"
	"github.com/Jacobbrewer1/ticketeer/pkg/gateway/gatewaytest"
	"github.com/Jacobbrewer1/ticketeer/pkg/logging"
	"github.com/stretchr/testify/require"
)

func newTestRegistry(t *testing.T) (*Registry, *gatewaytest.Fake) {
	l, err := logging.CommonLogger(logging.NewConfig(`tests`))
	require.NoError(t, err)

	gw := gatewaytest.New()
	return NewRegistry(l, dataaccesstest.NewSQLiteStore(t), gw), gw
}

func TestResolveOnCreate(t *testing.T) {
	tests := []struct {
		name     string
		customID string
		want     string
		wantOK   bool
	}{
		{name: "named panel", customID: "open_ticket_button:billing", want: "billing", wantOK: true},
		{name: "name with separator", customID: "open_ticket_button:a:b", want: "a:b", wantOK: true},
		{name: "legacy button", customID: "open_ticket_button", want: "", wantOK: true},
		{name: "other button", customID: "close_ticket_button", wantOK: false},
		{name: "prefix lookalike", customID: "open_ticket_buttons:x", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ResolveOnCreate(tt.customID)
			require.Equal(t, tt.wantOK, ok)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestCustomID_RoundTrip(t *testing.T) {
	for _, name := range []string{"support", "Billing Help", "x"} {
		got, ok := ResolveOnCreate(CustomID(name))
		require.True(t, ok)
		require.Equal(t, name, got)
	}
}

func TestRegistry_Define(t *testing.T) {
	r, gw := newTestRegistry(t)
	ctx := context.Background()
	ch := gw.AddChannel("guild", "support")

	panel := &entities.Panel{
		CommunityID: "guild",
		Name:        " billing ",
		ChannelID:   ch.ID,
		Title:       "Billing",
		ImageURL:    "https://example.com/banner.png",
	}
	require.NoError(t, r.Define(ctx, panel, 0x00ff00))

	sent := gw.Sent(ch.ID)
	require.Len(t, sent, 1)
	msg := sent[0].Message
	require.Equal(t, "Billing", msg.Embed.Title)
	require.Equal(t, defaultDescription, msg.Embed.Description)
	require.Equal(t, 0x00ff00, msg.Embed.Color)
	require.Len(t, msg.Buttons, 1)
	require.Equal(t, "open_ticket_button:billing", msg.Buttons[0].CustomID)

	got, err := r.Lookup(ctx, "guild", "billing")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, sent[0].ID, got.MessageID)
	require.Equal(t, "Billing", got.Title)

	// Redefining replaces every field.
	require.NoError(t, r.Define(ctx, &entities.Panel{CommunityID: "guild", Name: "billing", ChannelID: ch.ID}, 0))
	got, err = r.Lookup(ctx, "guild", "billing")
	require.NoError(t, err)
	require.Empty(t, got.Title)
	require.Empty(t, got.ImageURL)
}

func TestRegistry_DefineInvalid(t *testing.T) {
	r, gw := newTestRegistry(t)
	ctx := context.Background()
	ch := gw.AddChannel("guild", "support")

	tests := []struct {
		name  string
		panel *entities.Panel
	}{
		{name: "missing name", panel: &entities.Panel{CommunityID: "guild", ChannelID: ch.ID}},
		{name: "missing channel", panel: &entities.Panel{CommunityID: "guild", Name: "x"}},
		{name: "name too long", panel: &entities.Panel{CommunityID: "guild", Name: strings.Repeat("x", 100), ChannelID: ch.ID}},
		{name: "bad image url", panel: &entities.Panel{CommunityID: "guild", Name: "x", ChannelID: ch.ID, ImageURL: "javascript:alert(1)"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.ErrorIs(t, r.Define(ctx, tt.panel, 0), ErrInvalidPanel)
		})
	}
	require.Empty(t, gw.Sent(ch.ID))
}

func TestRegistry_DefinePublishFailure(t *testing.T) {
	r, gw := newTestRegistry(t)
	ctx := context.Background()
	ch := gw.AddChannel("guild", "support")
	gw.FailOn(gatewaytest.OpSendMessage, ch.ID, errors.New("missing access"))

	err := r.Define(ctx, &entities.Panel{CommunityID: "guild", Name: "billing", ChannelID: ch.ID}, 0)
	require.Error(t, err)

	got, err := r.Lookup(ctx, "guild", "billing")
	require.NoError(t, err)
	require.Nil(t, got, "a panel that was never published is not saved")
}

func TestRegistry_ListAndDelete(t *testing.T) {
	r, gw := newTestRegistry(t)
	ctx := context.Background()
	ch := gw.AddChannel("guild", "support")

	for _, name := range []string{"general", "billing"} {
		require.NoError(t, r.Define(ctx, &entities.Panel{CommunityID: "guild", Name: name, ChannelID: ch.ID}, 0))
	}

	panels, err := r.List(ctx, "guild")
	require.NoError(t, err)
	require.Len(t, panels, 2)
	require.Equal(t, "billing", panels[0].Name)

	require.NoError(t, r.Delete(ctx, "guild", "billing"))
	require.ErrorIs(t, r.Delete(ctx, "guild", "billing"), ErrUnknownPanel)

	got, err := r.Lookup(ctx, "guild", "billing")
	require.NoError(t, err)
	require.Nil(t, got)
}
