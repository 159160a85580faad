// Package gateway is the narrow contract the ticket engine uses to drive the chat platform.
package gateway

import (
	"context"
	"errors"
	"fmt"
)

// ErrChannelNotFound is returned when the platform does not know the channel.
var ErrChannelNotFound = errors.New("channel not found")

// Gateway is the channel, permission and messaging surface of the platform.
type Gateway interface {
	// CreateChannel creates a text channel in the community with the given permission overwrites.
	CreateChannel(ctx context.Context, communityID, name string, overwrites []Overwrite) (*Channel, error)

	// SetChannelParent moves the channel under the given category.
	SetChannelParent(ctx context.Context, channelID, categoryID string) error

	// DeleteChannel deletes the channel. The reason is recorded in the audit log.
	DeleteChannel(ctx context.Context, channelID, reason string) error

	// GrantAccess sets the principal's overwrite on the channel.
	GrantAccess(ctx context.Context, channelID string, p Principal, access Access) error

	// RevokeAccess removes the principal's overwrite from the channel.
	RevokeAccess(ctx context.Context, channelID string, p Principal) error

	// SendMessage posts the message to the channel and returns the ID of the posted message.
	SendMessage(ctx context.Context, channelID string, m *Message) (string, error)

	// Channels lists the channels of the community.
	Channels(ctx context.Context, communityID string) ([]*Channel, error)

	// ChannelExists reports whether the channel is still live.
	ChannelExists(ctx context.Context, channelID string) (bool, error)
}

// Channel is a platform channel.
type Channel struct {
	ID          string
	CommunityID string
	Name        string
	ParentID    string
}

// PrincipalType is the kind of principal an overwrite targets.
type PrincipalType int

const (
	PrincipalUser PrincipalType = iota
	PrincipalRole
)

// Principal is a user or a role.
type Principal struct {
	ID   string
	Type PrincipalType
}

// User returns the principal for a user.
func User(id string) Principal {
	return Principal{ID: id, Type: PrincipalUser}
}

// Role returns the principal for a role.
func Role(id string) Principal {
	return Principal{ID: id, Type: PrincipalRole}
}

// Everyone returns the @everyone role of the community, which shares the community's ID.
func Everyone(communityID string) Principal {
	return Role(communityID)
}

// String returns the principal in mention form.
func (p Principal) String() string {
	if p.Type == PrincipalRole {
		return fmt.Sprintf("<@&%s>", p.ID)
	}
	return fmt.Sprintf("<@%s>", p.ID)
}

// Access is the set of channel capabilities granted or denied.
type Access struct {
	// View lets the principal see the channel and its history.
	View bool

	// Send lets the principal post messages and attachments.
	Send bool
}

// ViewSend is full participant access.
var ViewSend = Access{View: true, Send: true}

// Overwrite is a channel permission overwrite for a principal.
type Overwrite struct {
	Principal Principal
	Allow     Access
	Deny      Access
}

// ButtonStyle is the look of a message button.
type ButtonStyle int

const (
	ButtonPrimary ButtonStyle = iota
	ButtonSecondary
	ButtonDanger
)

// Button is an interactive button on a message.
type Button struct {
	Label    string
	CustomID string
	Style    ButtonStyle
}

// Embed is a rich block on a message.
type Embed struct {
	Title       string
	Description string
	ImageURL    string
	Color       int
}

// File is a message attachment.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Message is a message to send to a channel.
type Message struct {
	Content string
	Embed   *Embed
	Buttons []Button
	Files   []File
}

// GatewayError wraps a failed platform call.
type GatewayError struct {
	// Op is the gateway operation that failed.
	Op string

	// Err is the platform error.
	Err error
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("gateway %s: %v", e.Op, e.Err)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}

func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &GatewayError{Op: op, Err: err}
}
