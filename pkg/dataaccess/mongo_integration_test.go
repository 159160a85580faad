//go:build integration

package dataaccess

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/Jacobbrewer1/ticketeer/pkg/custom"
	"github.com/Jacobbrewer1/ticketeer/pkg/dataaccess/connection"
	"github.com/Jacobbrewer1/ticketeer/pkg/entities"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
)

func TestMongoStore_Integration(t *testing.T) {
	ctx := context.Background()

	container, err := mongodb.Run(ctx, "mongo:7")
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = container.Terminate(context.Background())
	})

	uri, err := container.ConnectionString(ctx)
	require.NoError(t, err)

	client, err := (&connection.MongoDB{ConnectionString: uri}).Connect(ctx, slog.Default())
	require.NoError(t, err)

	s := NewMongoStore(slog.Default(), client, "ticketeer_test")
	t.Cleanup(func() {
		_ = s.Close(context.Background())
	})
	require.NoError(t, Migrate(ctx, s))
	require.NoError(t, s.Ping(ctx))

	now := custom.NewUnixTime(time.Now())
	ticket := &entities.Ticket{
		ChannelID:   "chan",
		CommunityID: "guild",
		OwnerID:     "owner",
		PanelName:   "support",
		Status:      entities.TicketStatusOpen,
		CreatedAt:   now,
	}
	require.NoError(t, s.CreateTicket(ctx, ticket))
	require.ErrorIs(t, s.CreateTicket(ctx, ticket), ErrAlreadyExists)

	member := &entities.TicketMember{ChannelID: "chan", UserID: "x", AddedAt: now}
	require.NoError(t, s.AddMember(ctx, member))
	require.NoError(t, s.AddMember(ctx, member))

	members, err := s.ListMembers(ctx, "chan")
	require.NoError(t, err)
	require.Len(t, members, 1)

	require.NoError(t, s.TransitionTicket(ctx, "chan", TicketTransition{
		From:     entities.TicketStatusOpen,
		To:       entities.TicketStatusClosed,
		ClosedAt: now,
		ClosedBy: "staff",
	}))
	require.ErrorIs(t, s.TransitionTicket(ctx, "chan", TicketTransition{
		From: entities.TicketStatusOpen,
		To:   entities.TicketStatusClosed,
	}), ErrStatusConflict)

	got, err := s.GetTicket(ctx, "chan")
	require.NoError(t, err)
	require.Equal(t, entities.TicketStatusClosed, got.Status)
	require.Equal(t, now.Unix(), got.ClosedAt.Unix())

	require.NoError(t, s.DeleteTicket(ctx, "chan"))
	_, err = s.GetTicket(ctx, "chan")
	require.ErrorIs(t, err, ErrNotFound)

	members, err = s.ListMembers(ctx, "chan")
	require.NoError(t, err)
	require.Empty(t, members)
}
