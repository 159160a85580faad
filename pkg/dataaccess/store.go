package dataaccess

import (
	"context"
	"errors"

	"github.com/Jacobbrewer1/ticketeer/pkg/custom"
	"github.com/Jacobbrewer1/ticketeer/pkg/entities"
)

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrAlreadyExists is returned when inserting a record whose key is already taken.
	ErrAlreadyExists = errors.New("record already exists")

	// ErrStatusConflict is returned when a ticket is no longer in the status a transition expected.
	ErrStatusConflict = errors.New("ticket status changed concurrently")
)

// ConfigDal persists guild ticketing configuration.
type ConfigDal interface {
	// SaveConfig replaces the configuration for a guild.
	SaveConfig(ctx context.Context, cfg *entities.CommunityConfig) error

	// GetConfig gets the configuration for a guild.
	GetConfig(ctx context.Context, communityID string) (*entities.CommunityConfig, error)
}

// PanelDal persists ticket panels.
type PanelDal interface {
	// SavePanel replaces the panel with the same guild and name.
	SavePanel(ctx context.Context, panel *entities.Panel) error

	// GetPanel gets a panel by guild and name.
	GetPanel(ctx context.Context, communityID, name string) (*entities.Panel, error)

	// ListPanels lists the panels of a guild ordered by name.
	ListPanels(ctx context.Context, communityID string) ([]*entities.Panel, error)

	// DeletePanel deletes a panel. Tickets created from it are left untouched.
	DeletePanel(ctx context.Context, communityID, name string) error
}

// TicketTransition describes a compare-and-set status change of a ticket.
type TicketTransition struct {
	// From is the status the ticket must currently have.
	From entities.TicketStatus

	// To is the status to move the ticket to.
	To entities.TicketStatus

	// ClosedAt is recorded when To is closed.
	ClosedAt custom.UnixTime

	// ClosedBy is recorded when To is closed.
	ClosedBy string
}

// TicketDal persists tickets.
type TicketDal interface {
	// CreateTicket inserts a new ticket. Returns ErrAlreadyExists if the channel already has a ticket.
	CreateTicket(ctx context.Context, ticket *entities.Ticket) error

	// GetTicket gets a ticket by its channel.
	GetTicket(ctx context.Context, channelID string) (*entities.Ticket, error)

	// ListTickets lists tickets. An empty community ID matches every guild, an empty status matches every status.
	ListTickets(ctx context.Context, communityID string, status entities.TicketStatus) ([]*entities.Ticket, error)

	// TransitionTicket atomically moves a ticket between statuses.
	// Returns ErrStatusConflict when the ticket is not in the expected status.
	TransitionTicket(ctx context.Context, channelID string, tr TicketTransition) error

	// DeleteTicket deletes a ticket and all of its members.
	DeleteTicket(ctx context.Context, channelID string) error
}

// MemberDal persists ticket membership.
type MemberDal interface {
	// AddMember records a member. Adding an existing member is a no-op.
	AddMember(ctx context.Context, member *entities.TicketMember) error

	// RemoveMember removes a member from a ticket.
	RemoveMember(ctx context.Context, channelID, userID string) error

	// ListMembers lists the members of a ticket in the order they were added.
	ListMembers(ctx context.Context, channelID string) ([]*entities.TicketMember, error)
}

// Store is the persistent store for all ticketing data.
type Store interface {
	ConfigDal
	PanelDal
	TicketDal
	MemberDal

	// Ping checks that the store is reachable.
	Ping(ctx context.Context) error

	// Close releases the resources held by the store.
	Close(ctx context.Context) error
}
