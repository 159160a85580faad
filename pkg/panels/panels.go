// Package panels manages the named "open ticket" buttons of a guild.
package panels

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Jacobbrewer1/ticketeer/pkg/dataaccess"
	"github.com/Jacobbrewer1/ticketeer/pkg/entities"
	"github.com/Jacobbrewer1/ticketeer/pkg/gateway"
	"github.com/Jacobbrewer1/ticketeer/pkg/logging"
)

const (
	// OpenTicketButtonID is the custom ID prefix of every panel button.
	OpenTicketButtonID = "open_ticket_button"

	// customIDSeparator separates the button prefix from the panel name.
	customIDSeparator = ":"

	// maxCustomIDLength is the longest custom ID Discord accepts.
	maxCustomIDLength = 100

	// ticketEmoji is shown on the panel button. (Envelope with arrow)
	ticketEmoji = "\U0001F4E9"

	defaultTitle = "How can we help?"

	defaultDescription = "If you have any questions or inquiries, please click on the button below to contact the staff by opening a ticket!"
)

var (
	// ErrInvalidPanel is returned when a panel cannot be published as given.
	ErrInvalidPanel = errors.New("invalid panel")

	// ErrUnknownPanel is returned when the named panel does not exist.
	ErrUnknownPanel = errors.New("unknown panel")
)

// CustomID returns the custom ID of the button for the named panel.
func CustomID(name string) string {
	return OpenTicketButtonID + customIDSeparator + name
}

// ResolveOnCreate maps a button custom ID back to the panel name.
// Buttons published before panels were named carry no name and resolve to "".
func ResolveOnCreate(customID string) (string, bool) {
	if customID == OpenTicketButtonID {
		return "", true
	}

	name, ok := strings.CutPrefix(customID, OpenTicketButtonID+customIDSeparator)
	if !ok {
		return "", false
	}
	return name, true
}

// Registry defines and publishes panels.
type Registry struct {
	l     *slog.Logger
	store dataaccess.PanelDal
	gw    gateway.Gateway
}

// NewRegistry creates a new Registry.
func NewRegistry(l *slog.Logger, store dataaccess.PanelDal, gw gateway.Gateway) *Registry {
	return &Registry{
		l:     l,
		store: store,
		gw:    gw,
	}
}

// Define publishes the panel button in the panel's channel and replaces the stored panel.
func (r *Registry) Define(ctx context.Context, panel *entities.Panel, color int) error {
	panel.Name = strings.TrimSpace(panel.Name)
	if err := validate(panel); err != nil {
		return err
	}

	msgID, err := r.gw.SendMessage(ctx, panel.ChannelID, Message(panel, color))
	if err != nil {
		return fmt.Errorf("error publishing panel: %w", err)
	}
	panel.MessageID = msgID

	if err := r.store.SavePanel(ctx, panel); err != nil {
		return fmt.Errorf("error saving panel: %w", err)
	}

	r.l.Info("Panel published",
		slog.String(logging.KeyGuild, panel.CommunityID),
		slog.String(logging.KeyPanel, panel.Name),
		slog.String(logging.KeyChannel, panel.ChannelID),
	)
	return nil
}

// Lookup returns the named panel, or nil when it does not exist.
func (r *Registry) Lookup(ctx context.Context, communityID, name string) (*entities.Panel, error) {
	panel, err := r.store.GetPanel(ctx, communityID, name)
	switch {
	case errors.Is(err, dataaccess.ErrNotFound):
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("error getting panel: %w", err)
	}
	return panel, nil
}

// List returns the panels of the guild ordered by name.
func (r *Registry) List(ctx context.Context, communityID string) ([]*entities.Panel, error) {
	panels, err := r.store.ListPanels(ctx, communityID)
	if err != nil {
		return nil, fmt.Errorf("error listing panels: %w", err)
	}
	return panels, nil
}

// Delete deletes the named panel. The published button is left in place and resolves to the default text.
func (r *Registry) Delete(ctx context.Context, communityID, name string) error {
	err := r.store.DeletePanel(ctx, communityID, name)
	switch {
	case errors.Is(err, dataaccess.ErrNotFound):
		return fmt.Errorf("%w: %s", ErrUnknownPanel, name)
	case err != nil:
		return fmt.Errorf("error deleting panel: %w", err)
	}

	r.l.Info("Panel deleted",
		slog.String(logging.KeyGuild, communityID),
		slog.String(logging.KeyPanel, name),
	)
	return nil
}

// Message builds the published panel message.
func Message(panel *entities.Panel, color int) *gateway.Message {
	title := panel.Title
	if title == "" {
		title = defaultTitle
	}

	description := panel.Description
	if description == "" {
		description = defaultDescription
	}

	return &gateway.Message{
		Embed: &gateway.Embed{
			Title:       title,
			Description: description,
			ImageURL:    panel.ImageURL,
			Color:       color,
		},
		Buttons: []gateway.Button{
			{
				Label:    fmt.Sprintf("%s Open Ticket", ticketEmoji),
				CustomID: CustomID(panel.Name),
				Style:    gateway.ButtonPrimary,
			},
		},
	}
}

func validate(panel *entities.Panel) error {
	switch {
	case panel.CommunityID == "":
		return fmt.Errorf("%w: missing guild", ErrInvalidPanel)
	case panel.Name == "":
		return fmt.Errorf("%w: missing name", ErrInvalidPanel)
	case panel.ChannelID == "":
		return fmt.Errorf("%w: missing channel", ErrInvalidPanel)
	case len(CustomID(panel.Name)) > maxCustomIDLength:
		return fmt.Errorf("%w: name %q is too long", ErrInvalidPanel, panel.Name)
	case panel.ImageURL != "" && !strings.HasPrefix(panel.ImageURL, "https://") && !strings.HasPrefix(panel.ImageURL, "http://"):
		return fmt.Errorf("%w: image url must be http or https", ErrInvalidPanel)
	}
	return nil
}
