package dataaccess

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Jacobbrewer1/ticketeer/pkg/dataaccess/monitoring"
	"github.com/Jacobbrewer1/ticketeer/pkg/entities"
	"github.com/Jacobbrewer1/ticketeer/pkg/logging"
	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"
)

const (
	sqliteDalName = "sqlite_dal"

	sqliteDatabase = "sqlite"
)

type sqliteStore struct {
	// l is the logger.
	l *slog.Logger

	// db is the database handle.
	db *sqlx.DB
}

// NewSQLiteStore creates a store backed by the given SQLite database.
func NewSQLiteStore(l *slog.Logger, db *sqlx.DB) Store {
	return &sqliteStore{
		l:  l.With(slog.String(logging.KeyDal, sqliteDalName)),
		db: db,
	}
}

func observe(query, table string) func() {
	return monitoring.ObserveQuery(sqliteDalName, query, sqliteDatabase, table)
}

// isConstraintError reports whether err is a primary key or unique violation.
func isConstraintError(err error) bool {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	return sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey ||
		sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
}

// Migrate creates the schema.
func (s *sqliteStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, sqliteSchema); err != nil {
		return fmt.Errorf("error creating schema: %w", err)
	}
	return nil
}

func (s *sqliteStore) Ping(ctx context.Context) error {
	defer observe("ping", "-")()

	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("error pinging sqlite: %w", err)
	}
	return nil
}

func (s *sqliteStore) Close(_ context.Context) error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("error closing sqlite: %w", err)
	}
	return nil
}

func (s *sqliteStore) SaveConfig(ctx context.Context, cfg *entities.CommunityConfig) error {
	defer observe("save_config", "community_configs")()

	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO community_configs (community_id, support_role_id, closed_category_id, log_channel_id, panel_color)
		VALUES (:community_id, :support_role_id, :closed_category_id, :log_channel_id, :panel_color)
		ON CONFLICT (community_id) DO UPDATE SET
			support_role_id = excluded.support_role_id,
			closed_category_id = excluded.closed_category_id,
			log_channel_id = excluded.log_channel_id,
			panel_color = excluded.panel_color`, cfg)
	if err != nil {
		return fmt.Errorf("error saving config: %w", err)
	}
	return nil
}

func (s *sqliteStore) GetConfig(ctx context.Context, communityID string) (*entities.CommunityConfig, error) {
	defer observe("get_config", "community_configs")()

	cfg := new(entities.CommunityConfig)
	err := s.db.GetContext(ctx, cfg, `SELECT * FROM community_configs WHERE community_id = ?`, communityID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("error getting config: %w", err)
	}
	return cfg, nil
}

func (s *sqliteStore) SavePanel(ctx context.Context, panel *entities.Panel) error {
	defer observe("save_panel", "panels")()

	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO panels (community_id, name, channel_id, title, description, image_url, message_id)
		VALUES (:community_id, :name, :channel_id, :title, :description, :image_url, :message_id)
		ON CONFLICT (community_id, name) DO UPDATE SET
			channel_id = excluded.channel_id,
			title = excluded.title,
			description = excluded.description,
			image_url = excluded.image_url,
			message_id = excluded.message_id`, panel)
	if err != nil {
		return fmt.Errorf("error saving panel: %w", err)
	}
	return nil
}

func (s *sqliteStore) GetPanel(ctx context.Context, communityID, name string) (*entities.Panel, error) {
	defer observe("get_panel", "panels")()

	panel := new(entities.Panel)
	err := s.db.GetContext(ctx, panel, `SELECT * FROM panels WHERE community_id = ? AND name = ?`, communityID, name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("error getting panel: %w", err)
	}
	return panel, nil
}

func (s *sqliteStore) ListPanels(ctx context.Context, communityID string) ([]*entities.Panel, error) {
	defer observe("list_panels", "panels")()

	panels := make([]*entities.Panel, 0)
	err := s.db.SelectContext(ctx, &panels, `SELECT * FROM panels WHERE community_id = ? ORDER BY name`, communityID)
	if err != nil {
		return nil, fmt.Errorf("error listing panels: %w", err)
	}
	return panels, nil
}

func (s *sqliteStore) DeletePanel(ctx context.Context, communityID, name string) error {
	defer observe("delete_panel", "panels")()

	res, err := s.db.ExecContext(ctx, `DELETE FROM panels WHERE community_id = ? AND name = ?`, communityID, name)
	if err != nil {
		return fmt.Errorf("error deleting panel: %w", err)
	}
	return expectAffected(res)
}

func (s *sqliteStore) CreateTicket(ctx context.Context, ticket *entities.Ticket) error {
	defer observe("create_ticket", "tickets")()

	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO tickets (channel_id, community_id, owner_id, panel_name, status, closed_by, created_at, closed_at)
		VALUES (:channel_id, :community_id, :owner_id, :panel_name, :status, :closed_by, :created_at, :closed_at)`, ticket)
	if isConstraintError(err) {
		return ErrAlreadyExists
	} else if err != nil {
		return fmt.Errorf("error creating ticket: %w", err)
	}
	return nil
}

func (s *sqliteStore) GetTicket(ctx context.Context, channelID string) (*entities.Ticket, error) {
	defer observe("get_ticket", "tickets")()

	ticket := new(entities.Ticket)
	err := s.db.GetContext(ctx, ticket, `SELECT * FROM tickets WHERE channel_id = ?`, channelID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("error getting ticket: %w", err)
	}
	return ticket, nil
}

func (s *sqliteStore) ListTickets(ctx context.Context, communityID string, status entities.TicketStatus) ([]*entities.Ticket, error) {
	defer observe("list_tickets", "tickets")()

	tickets := make([]*entities.Ticket, 0)
	err := s.db.SelectContext(ctx, &tickets, `
		SELECT * FROM tickets
		WHERE (? = '' OR community_id = ?) AND (? = '' OR status = ?)
		ORDER BY created_at, channel_id`, communityID, communityID, status, status)
	if err != nil {
		return nil, fmt.Errorf("error listing tickets: %w", err)
	}
	return tickets, nil
}

func (s *sqliteStore) TransitionTicket(ctx context.Context, channelID string, tr TicketTransition) error {
	defer observe("transition_ticket", "tickets")()

	var (
		res sql.Result
		err error
	)
	if tr.To == entities.TicketStatusClosed {
		res, err = s.db.ExecContext(ctx,
			`UPDATE tickets SET status = ?, closed_at = ?, closed_by = ? WHERE channel_id = ? AND status = ?`,
			tr.To, tr.ClosedAt, tr.ClosedBy, channelID, tr.From)
	} else {
		res, err = s.db.ExecContext(ctx,
			`UPDATE tickets SET status = ? WHERE channel_id = ? AND status = ?`,
			tr.To, channelID, tr.From)
	}
	if err != nil {
		return fmt.Errorf("error transitioning ticket: %w", err)
	}

	if err := expectAffected(res); errors.Is(err, ErrNotFound) {
		// Work out whether the ticket is gone or someone else moved it first.
		if _, err := s.GetTicket(ctx, channelID); err != nil {
			return err
		}
		return ErrStatusConflict
	} else if err != nil {
		return err
	}
	return nil
}

func (s *sqliteStore) DeleteTicket(ctx context.Context, channelID string) error {
	defer observe("delete_ticket", "tickets")()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	defer func() {
		// Rollback after commit is a no-op.
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM ticket_members WHERE channel_id = ?`, channelID); err != nil {
		return fmt.Errorf("error removing members: %w", err)
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM tickets WHERE channel_id = ?`, channelID)
	if err != nil {
		return fmt.Errorf("error deleting ticket: %w", err)
	}
	if err := expectAffected(res); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("error committing transaction: %w", err)
	}
	return nil
}

func (s *sqliteStore) AddMember(ctx context.Context, member *entities.TicketMember) error {
	defer observe("add_member", "ticket_members")()

	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO ticket_members (channel_id, user_id, added_at)
		VALUES (:channel_id, :user_id, :added_at)
		ON CONFLICT (channel_id, user_id) DO NOTHING`, member)
	if err != nil {
		return fmt.Errorf("error adding member: %w", err)
	}
	return nil
}

func (s *sqliteStore) RemoveMember(ctx context.Context, channelID, userID string) error {
	defer observe("remove_member", "ticket_members")()

	res, err := s.db.ExecContext(ctx, `DELETE FROM ticket_members WHERE channel_id = ? AND user_id = ?`, channelID, userID)
	if err != nil {
		return fmt.Errorf("error removing member: %w", err)
	}
	return expectAffected(res)
}

func (s *sqliteStore) ListMembers(ctx context.Context, channelID string) ([]*entities.TicketMember, error) {
	defer observe("list_members", "ticket_members")()

	members := make([]*entities.TicketMember, 0)
	err := s.db.SelectContext(ctx, &members,
		`SELECT * FROM ticket_members WHERE channel_id = ? ORDER BY added_at, rowid`, channelID)
	if err != nil {
		return nil, fmt.Errorf("error listing members: %w", err)
	}
	return members, nil
}

// expectAffected returns ErrNotFound when the statement touched no rows.
func expectAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error reading affected rows: %w", err)
	} else if n == 0 {
		return ErrNotFound
	}
	return nil
}
