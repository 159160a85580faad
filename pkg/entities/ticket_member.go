package entities

import "github.com/Jacobbrewer1/ticketeer/pkg/custom"

// TicketMember is a user that has been granted access to a ticket. The owner is always a member.
type TicketMember struct {
	// ChannelID is the ID of the ticket channel.
	ChannelID string `json:"channel_id" bson:"channel_id" db:"channel_id"`

	// UserID is the ID of the member.
	UserID string `json:"user_id" bson:"user_id" db:"user_id"`

	// AddedAt is the time the member was first added.
	AddedAt custom.UnixTime `json:"added_at" bson:"added_at" db:"added_at"`
}
