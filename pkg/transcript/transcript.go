// Package transcript renders the message history of a channel into an archive file.
package transcript

import (
	"context"
	"fmt"
	"time"
)

// Options control an export.
type Options struct {
	// FullHistory reads every message in the channel. Without it only the latest page is read.
	FullHistory bool

	// EmbedImages inlines image attachments into the archive so it survives the channel being deleted.
	EmbedImages bool
}

// Archive is a rendered transcript.
type Archive struct {
	Filename     string
	ContentType  string
	Data         []byte
	MessageCount int
}

// Exporter renders a channel's history.
type Exporter interface {
	Export(ctx context.Context, channelID string, opts Options) (*Archive, error)
}

// ExportError wraps a failed export.
type ExportError struct {
	ChannelID string
	Err       error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("error exporting transcript for channel %s: %v", e.ChannelID, e.Err)
}

func (e *ExportError) Unwrap() error {
	return e.Err
}

// Message is a message read from channel history.
type Message struct {
	ID          string
	AuthorID    string
	AuthorName  string
	AvatarURL   string
	Content     string
	Timestamp   time.Time
	Attachments []Attachment
}

// Attachment is a file attached to a message.
type Attachment struct {
	Filename    string
	URL         string
	ContentType string
}

// History reads channel history a page at a time.
type History interface {
	// Before returns up to limit messages older than beforeID, newest first.
	// An empty beforeID starts from the latest message.
	Before(ctx context.Context, channelID, beforeID string, limit int) ([]*Message, error)
}
