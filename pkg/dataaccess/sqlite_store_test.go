package dataaccess

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/Jacobbrewer1/ticketeer/pkg/custom"
	"github.com/Jacobbrewer1/ticketeer/pkg/dataaccess/connection"
	"github.com/Jacobbrewer1/ticketeer/pkg/entities"
	"github.com/stretchr/testify/require"
)

// setupSQLiteStore creates an in memory store with the schema applied.
func setupSQLiteStore(t *testing.T) Store {
	t.Helper()

	db, err := (&connection.SQLite{Path: ":memory:"}).Connect()
	require.NoError(t, err)

	s := NewSQLiteStore(slog.Default(), db)
	require.NoError(t, Migrate(context.Background(), s))

	t.Cleanup(func() {
		_ = s.Close(context.Background())
	})
	return s
}

func seedTicket(t *testing.T, s Store, channelID, ownerID string) *entities.Ticket {
	t.Helper()

	ticket := &entities.Ticket{
		ChannelID:   channelID,
		CommunityID: "guild",
		OwnerID:     ownerID,
		PanelName:   "support",
		Status:      entities.TicketStatusOpen,
		CreatedAt:   custom.NewUnixTime(time.Unix(1700000000, 0)),
	}
	require.NoError(t, s.CreateTicket(context.Background(), ticket))
	require.NoError(t, s.AddMember(context.Background(), &entities.TicketMember{
		ChannelID: channelID,
		UserID:    ownerID,
		AddedAt:   ticket.CreatedAt,
	}))
	return ticket
}

func TestSQLiteStore_Config(t *testing.T) {
	s := setupSQLiteStore(t)
	ctx := context.Background()

	_, err := s.GetConfig(ctx, "guild")
	require.ErrorIs(t, err, ErrNotFound)

	cfg := &entities.CommunityConfig{
		CommunityID:      "guild",
		SupportRoleID:    "role",
		ClosedCategoryID: "closed",
		LogChannelID:     "logs",
		PanelColor:       0xff0000,
	}
	require.NoError(t, s.SaveConfig(ctx, cfg))

	got, err := s.GetConfig(ctx, "guild")
	require.NoError(t, err)
	require.Equal(t, cfg, got)

	// Setup replaces the config wholesale.
	replacement := &entities.CommunityConfig{CommunityID: "guild", SupportRoleID: "other"}
	require.NoError(t, s.SaveConfig(ctx, replacement))

	got, err = s.GetConfig(ctx, "guild")
	require.NoError(t, err)
	require.Equal(t, replacement, got)
}

func TestSQLiteStore_Panels(t *testing.T) {
	s := setupSQLiteStore(t)
	ctx := context.Background()

	require.NoError(t, s.SavePanel(ctx, &entities.Panel{CommunityID: "guild", Name: "support", ChannelID: "c1", Title: "Support"}))
	require.NoError(t, s.SavePanel(ctx, &entities.Panel{CommunityID: "guild", Name: "billing", ChannelID: "c2"}))
	require.NoError(t, s.SavePanel(ctx, &entities.Panel{CommunityID: "other", Name: "support", ChannelID: "c3"}))

	// Full replace, not merge.
	require.NoError(t, s.SavePanel(ctx, &entities.Panel{CommunityID: "guild", Name: "support", ChannelID: "c4"}))

	got, err := s.GetPanel(ctx, "guild", "support")
	require.NoError(t, err)
	require.Equal(t, "c4", got.ChannelID)
	require.Empty(t, got.Title)

	panels, err := s.ListPanels(ctx, "guild")
	require.NoError(t, err)
	require.Len(t, panels, 2)
	require.Equal(t, "billing", panels[0].Name)
	require.Equal(t, "support", panels[1].Name)

	require.NoError(t, s.DeletePanel(ctx, "guild", "support"))
	require.ErrorIs(t, s.DeletePanel(ctx, "guild", "support"), ErrNotFound)

	_, err = s.GetPanel(ctx, "guild", "support")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteStore_Tickets(t *testing.T) {
	s := setupSQLiteStore(t)
	ctx := context.Background()

	ticket := seedTicket(t, s, "chan", "owner")
	require.ErrorIs(t, s.CreateTicket(ctx, ticket), ErrAlreadyExists)

	got, err := s.GetTicket(ctx, "chan")
	require.NoError(t, err)
	require.Equal(t, ticket, got)
	require.True(t, got.ClosedAt.IsZero())

	closedAt := custom.NewUnixTime(time.Unix(1700000500, 0))
	require.NoError(t, s.TransitionTicket(ctx, "chan", TicketTransition{
		From:     entities.TicketStatusOpen,
		To:       entities.TicketStatusClosed,
		ClosedAt: closedAt,
		ClosedBy: "staff",
	}))

	// A second close loses the compare-and-set.
	err = s.TransitionTicket(ctx, "chan", TicketTransition{From: entities.TicketStatusOpen, To: entities.TicketStatusClosed})
	require.ErrorIs(t, err, ErrStatusConflict)

	require.NoError(t, s.TransitionTicket(ctx, "chan", TicketTransition{
		From: entities.TicketStatusClosed,
		To:   entities.TicketStatusOpen,
	}))

	got, err = s.GetTicket(ctx, "chan")
	require.NoError(t, err)
	require.Equal(t, entities.TicketStatusOpen, got.Status)
	require.Equal(t, closedAt.Unix(), got.ClosedAt.Unix(), "reopen keeps the close time")
	require.Equal(t, "staff", got.ClosedBy)

	err = s.TransitionTicket(ctx, "missing", TicketTransition{From: entities.TicketStatusOpen, To: entities.TicketStatusClosed})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteStore_ListTickets(t *testing.T) {
	s := setupSQLiteStore(t)
	ctx := context.Background()

	seedTicket(t, s, "a", "u1")
	seedTicket(t, s, "b", "u2")
	require.NoError(t, s.CreateTicket(ctx, &entities.Ticket{
		ChannelID:   "c",
		CommunityID: "elsewhere",
		OwnerID:     "u3",
		Status:      entities.TicketStatusOpen,
		CreatedAt:   custom.NewUnixTime(time.Unix(1700000001, 0)),
	}))
	require.NoError(t, s.TransitionTicket(ctx, "b", TicketTransition{From: entities.TicketStatusOpen, To: entities.TicketStatusClosed}))

	all, err := s.ListTickets(ctx, "", "")
	require.NoError(t, err)
	require.Len(t, all, 3)

	guild, err := s.ListTickets(ctx, "guild", "")
	require.NoError(t, err)
	require.Len(t, guild, 2)

	open, err := s.ListTickets(ctx, "", entities.TicketStatusOpen)
	require.NoError(t, err)
	require.Len(t, open, 2)

	closed, err := s.ListTickets(ctx, "guild", entities.TicketStatusClosed)
	require.NoError(t, err)
	require.Len(t, closed, 1)
	require.Equal(t, "b", closed[0].ChannelID)
}

func TestSQLiteStore_Members(t *testing.T) {
	s := setupSQLiteStore(t)
	ctx := context.Background()

	seedTicket(t, s, "chan", "owner")

	member := &entities.TicketMember{ChannelID: "chan", UserID: "x", AddedAt: custom.NewUnixTime(time.Unix(1700000100, 0))}
	require.NoError(t, s.AddMember(ctx, member))
	require.NoError(t, s.AddMember(ctx, member), "adding a member twice is a no-op")

	members, err := s.ListMembers(ctx, "chan")
	require.NoError(t, err)
	require.Len(t, members, 2)
	require.Equal(t, "owner", members[0].UserID)
	require.Equal(t, "x", members[1].UserID)

	require.NoError(t, s.RemoveMember(ctx, "chan", "x"))
	require.ErrorIs(t, s.RemoveMember(ctx, "chan", "x"), ErrNotFound)

	members, err = s.ListMembers(ctx, "chan")
	require.NoError(t, err)
	require.Len(t, members, 1)
}

func TestSQLiteStore_DeleteTicket(t *testing.T) {
	s := setupSQLiteStore(t)
	ctx := context.Background()

	seedTicket(t, s, "chan", "owner")
	require.NoError(t, s.AddMember(ctx, &entities.TicketMember{ChannelID: "chan", UserID: "x", AddedAt: custom.NewUnixTime(time.Now())}))
	seedTicket(t, s, "keep", "owner")

	require.NoError(t, s.DeleteTicket(ctx, "chan"))

	_, err := s.GetTicket(ctx, "chan")
	require.ErrorIs(t, err, ErrNotFound)

	members, err := s.ListMembers(ctx, "chan")
	require.NoError(t, err)
	require.Empty(t, members)

	members, err = s.ListMembers(ctx, "keep")
	require.NoError(t, err)
	require.Len(t, members, 1)

	require.ErrorIs(t, s.DeleteTicket(ctx, "chan"), ErrNotFound)
}

func TestSQLiteStore_ConcurrentClose(t *testing.T) {
	s := setupSQLiteStore(t)
	ctx := context.Background()

	seedTicket(t, s, "chan", "owner")

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		wins      int
		conflicts int
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.TransitionTicket(ctx, "chan", TicketTransition{From: entities.TicketStatusOpen, To: entities.TicketStatusClosed})

			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				wins++
			} else if errors.Is(err, ErrStatusConflict) {
				conflicts++
			}
		}()
	}
	wg.Wait()

	require.Equal(t, 1, wins)
	require.Equal(t, 7, conflicts)
}
