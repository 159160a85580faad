package entities

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Jacobbrewer1/ticketeer/pkg/custom"
)

// TicketStatus is the state of a ticket.
type TicketStatus string

const (
	// TicketStatusOpen is the status of a ticket that is in progress.
	TicketStatusOpen TicketStatus = "open"

	// TicketStatusClosed is the status of a ticket that has been closed but not deleted.
	TicketStatusClosed TicketStatus = "closed"
)

// IsValid reports whether the status is a known status.
func (s TicketStatus) IsValid() bool {
	switch s {
	case TicketStatusOpen, TicketStatusClosed:
		return true
	default:
		return false
	}
}

// Ticket is a ticket. There is exactly one ticket per ticket channel.
type Ticket struct {
	// ChannelID is the ID of the channel that the ticket is in.
	ChannelID string `json:"channel_id" bson:"channel_id" db:"channel_id"`

	// CommunityID is the ID of the guild that the ticket is in.
	CommunityID string `json:"community_id" bson:"community_id" db:"community_id"`

	// OwnerID is the ID of the user that created the ticket.
	OwnerID string `json:"owner_id" bson:"owner_id" db:"owner_id"`

	// PanelName is the name of the panel the ticket was created from. The panel may no longer exist.
	PanelName string `json:"panel_name" bson:"panel_name" db:"panel_name"`

	// Status is the status of the ticket.
	Status TicketStatus `json:"status" bson:"status" db:"status"`

	// ClosedBy is the ID of the user that last closed the ticket.
	ClosedBy string `json:"closed_by" bson:"closed_by" db:"closed_by"`

	// CreatedAt is the time that the ticket was created.
	CreatedAt custom.UnixTime `json:"created_at" bson:"created_at" db:"created_at"`

	// ClosedAt is the time that the ticket was last closed. It is kept when the ticket is reopened.
	ClosedAt custom.UnixTime `json:"closed_at" bson:"closed_at" db:"closed_at"`
}

// IsOpen reports whether the ticket is open.
func (t *Ticket) IsOpen() bool {
	return t.Status == TicketStatusOpen
}

// ticketPrefix is the prefix of every ticket channel name.
const ticketPrefix = "ticket-"

// invalidChannelChars matches everything Discord does not allow in a text channel name.
var invalidChannelChars = regexp.MustCompile(`[^a-z0-9_-]+`)

// TicketChannelName returns the channel name for a ticket opened by the user with the given handle.
// For example, a user with the handle "Otter" gets the channel "ticket-otter".
func TicketChannelName(handle string) string {
	name := strings.ToLower(strings.TrimSpace(handle))
	name = invalidChannelChars.ReplaceAllString(name, "-")
	name = strings.Trim(name, "-")
	if name == "" {
		name = "user"
	}
	return fmt.Sprintf("%s%s", ticketPrefix, name)
}
