package ticketing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Jacobbrewer1/ticketeer/pkg/custom"
	"github.com/Jacobbrewer1/ticketeer/pkg/dataaccess"
	"github.com/Jacobbrewer1/ticketeer/pkg/entities"
	"github.com/Jacobbrewer1/ticketeer/pkg/gateway"
	"github.com/Jacobbrewer1/ticketeer/pkg/logging"
	"github.com/Jacobbrewer1/ticketeer/pkg/messages"
	"github.com/Jacobbrewer1/ticketeer/pkg/policy"
	"github.com/Jacobbrewer1/ticketeer/pkg/transcript"
)

const (
	// CloseTicketButtonID is the custom ID of the close button posted in every ticket.
	CloseTicketButtonID = "close_ticket_button"

	// closeEmoji is shown on the close button. (Padlock)
	closeEmoji = "\U0001F510"
)

// archiveOptions are used for every transcript the engine exports.
var archiveOptions = transcript.Options{FullHistory: true, EmbedImages: true}

// CreateResult is the outcome of Create.
type CreateResult struct {
	Ticket   *entities.Ticket
	Channel  *gateway.Channel
	Failures []StepFailure
}

// CloseResult is the outcome of Close.
type CloseResult struct {
	Ticket   *entities.Ticket
	Archive  *transcript.Archive
	Failures []StepFailure
}

// ReopenResult is the outcome of Reopen.
type ReopenResult struct {
	Ticket   *entities.Ticket
	Failures []StepFailure
}

// DeleteResult is the outcome of Delete.
type DeleteResult struct {
	Ticket   *entities.Ticket
	Archive  *transcript.Archive
	Failures []StepFailure
}

// Create opens a ticket channel for the caller.
// No row is written unless the channel was created, and the channel is removed again if the rows cannot be written.
func (e *Engine) Create(ctx context.Context, caller policy.Caller, communityID, handle, panelName string) (res *CreateResult, err error) {
	defer func() {
		if res != nil {
			e.finish(policy.KindCreate, nil, res.Failures)
		} else {
			e.finishUnlessDenied(policy.KindCreate, err)
		}
	}()

	cfg, err := e.config(ctx, communityID)
	if err != nil {
		return nil, err
	}

	name := entities.TicketChannelName(handle)

	// Listing channels is only worth it once the guild is set up.
	subject := policy.Subject{Config: cfg}
	if cfg.IsConfigured() {
		subject.HasLiveTicket, err = e.hasLiveChannel(ctx, communityID, name)
		if err != nil {
			return nil, err
		}
	}
	if err := e.authorize(policy.KindCreate, caller, subject); err != nil {
		return nil, err
	}

	panel, err := e.panels.Lookup(ctx, communityID, panelName)
	if err != nil {
		// The panel only provides display text.
		e.l.Warn("Error resolving panel for new ticket",
			slog.String(logging.KeyPanel, panelName),
			slog.String(logging.KeyError, err.Error()),
		)
		panel = nil
	}

	ch, err := e.gw.CreateChannel(ctx, communityID, name, []gateway.Overwrite{
		{Principal: gateway.Everyone(communityID), Deny: gateway.ViewSend},
		{Principal: gateway.User(caller.UserID), Allow: gateway.ViewSend},
		{Principal: gateway.Role(cfg.SupportRoleID), Allow: gateway.ViewSend},
	})
	if err != nil {
		return nil, fmt.Errorf("error creating ticket channel: %w", err)
	}

	// Two creates for the same user can both pass the duplicate check. The earliest channel wins.
	lost, err := e.lostCreateRace(ctx, communityID, name, ch.ID)
	switch {
	case err != nil:
		return nil, e.compensateCreate(ctx, ch.ID, "duplicate check failed", err)
	case lost:
		return nil, e.compensateCreate(ctx, ch.ID, "duplicate ticket", &ForbiddenError{
			Kind:   ErrDuplicateTicket,
			Reason: "you already have an open ticket",
		})
	}

	now := custom.NewUnixTime(e.opts.Now())
	t := &entities.Ticket{
		ChannelID:   ch.ID,
		CommunityID: communityID,
		OwnerID:     caller.UserID,
		PanelName:   panelName,
		Status:      entities.TicketStatusOpen,
		CreatedAt:   now,
	}
	if err := e.insertTicket(ctx, t); err != nil {
		return nil, e.compensateCreate(ctx, ch.ID, "ticket could not be saved", err)
	}

	failures := e.newStepFailures(ch.ID)
	_, err = e.gw.SendMessage(ctx, ch.ID, welcomeMessage(t, panel, cfg.PanelColor))
	failures.add(StepSendWelcome, ch.ID, err)

	e.l.Info("Ticket created",
		slog.String(logging.KeyGuild, communityID),
		slog.String(logging.KeyChannel, ch.ID),
		slog.String(logging.KeyUser, caller.UserID),
		slog.String(logging.KeyPanel, panelName),
	)

	return &CreateResult{Ticket: t, Channel: ch, Failures: failures.list}, nil
}

// hasLiveChannel reports whether the guild has a channel with the ticket name.
func (e *Engine) hasLiveChannel(ctx context.Context, communityID, name string) (bool, error) {
	chs, err := e.gw.Channels(ctx, communityID)
	if err != nil {
		return false, fmt.Errorf("error listing channels: %w", err)
	}

	for _, ch := range chs {
		if strings.EqualFold(ch.Name, name) {
			return true, nil
		}
	}
	return false, nil
}

// lostCreateRace reports whether another channel with the ticket name was created before channelID.
func (e *Engine) lostCreateRace(ctx context.Context, communityID, name, channelID string) (bool, error) {
	chs, err := e.gw.Channels(ctx, communityID)
	if err != nil {
		return false, fmt.Errorf("error listing channels: %w", err)
	}

	for _, ch := range chs {
		if ch.ID != channelID && strings.EqualFold(ch.Name, name) && createdBefore(ch.ID, channelID) {
			return true, nil
		}
	}
	return false, nil
}

// createdBefore orders channel IDs. Snowflakes grow with time, so a shorter ID is always older.
func createdBefore(a, b string) bool {
	if len(a) != len(b) {
		return len(a) < len(b)
	}
	return a < b
}

// insertTicket writes the ticket and its owner membership.
func (e *Engine) insertTicket(ctx context.Context, t *entities.Ticket) error {
	if err := e.store.CreateTicket(ctx, t); err != nil {
		return fmt.Errorf("error saving ticket: %w", err)
	}

	err := e.store.AddMember(ctx, &entities.TicketMember{
		ChannelID: t.ChannelID,
		UserID:    t.OwnerID,
		AddedAt:   t.CreatedAt,
	})
	if err == nil {
		return nil
	}

	if delErr := e.store.DeleteTicket(ctx, t.ChannelID); delErr != nil {
		err = errors.Join(err, fmt.Errorf("error removing ticket: %w", delErr))
	}
	return fmt.Errorf("error saving ticket owner: %w", err)
}

// compensateCreate deletes a channel that will not get a ticket.
func (e *Engine) compensateCreate(ctx context.Context, channelID, reason string, cause error) error {
	if err := e.gw.DeleteChannel(ctx, channelID, reason); err != nil {
		e.l.Error("Error removing channel of unsaved ticket",
			slog.String(logging.KeyChannel, channelID),
			slog.String(logging.KeyError, err.Error()),
		)
		return errors.Join(cause, fmt.Errorf("error removing channel: %w", err))
	}
	return cause
}

func welcomeMessage(t *entities.Ticket, panel *entities.Panel, color int) *gateway.Message {
	msg := &gateway.Message{
		Content: fmt.Sprintf(messages.TicketWelcome, t.OwnerID),
		Buttons: []gateway.Button{
			{
				Label:    fmt.Sprintf("%s Close", closeEmoji),
				CustomID: CloseTicketButtonID,
				Style:    gateway.ButtonSecondary,
			},
		},
	}

	if panel != nil && (panel.Title != "" || panel.Description != "") {
		msg.Embed = &gateway.Embed{
			Title:       panel.Title,
			Description: panel.Description,
			Color:       color,
		}
	}
	return msg
}

// AddMember grants the user access to the ticket. Adding an existing member is not an error.
// Members added to a closed ticket are only recorded and get access when the ticket is reopened.
func (e *Engine) AddMember(ctx context.Context, caller policy.Caller, channelID, userID string) (t *entities.Ticket, err error) {
	defer func() { e.finishUnlessDenied(policy.KindAddMember, err) }()

	t, _, err = e.loadTicket(ctx, policy.KindAddMember, caller, channelID, userID)
	if err != nil {
		return nil, err
	}

	// The row comes first so that close strips everyone who was ever granted access.
	if err := e.store.AddMember(ctx, &entities.TicketMember{
		ChannelID: channelID,
		UserID:    userID,
		AddedAt:   custom.NewUnixTime(e.opts.Now()),
	}); err != nil {
		return nil, fmt.Errorf("error saving member: %w", err)
	}

	if t.IsOpen() {
		if err := e.gw.GrantAccess(ctx, channelID, gateway.User(userID), gateway.ViewSend); err != nil {
			return nil, fmt.Errorf("error granting access: %w", err)
		}
	}

	e.l.Info("Ticket member added",
		slog.String(logging.KeyChannel, channelID),
		slog.String(logging.KeyUser, userID),
	)
	return t, nil
}

// RemoveMember takes the user's access to the ticket away. The owner cannot be removed.
func (e *Engine) RemoveMember(ctx context.Context, caller policy.Caller, channelID, userID string) (t *entities.Ticket, err error) {
	defer func() { e.finishUnlessDenied(policy.KindRemoveMember, err) }()

	t, _, err = e.loadTicket(ctx, policy.KindRemoveMember, caller, channelID, userID)
	if err != nil {
		return nil, err
	}

	if err := e.gw.RevokeAccess(ctx, channelID, gateway.User(userID)); err != nil {
		return nil, fmt.Errorf("error revoking access: %w", err)
	}

	// A failure here leaves the row of a user without access, so a reopen would grant it again.
	// Removing the user again repairs it. The user may also have had access without being recorded.
	if err := e.store.RemoveMember(ctx, channelID, userID); err != nil && !errors.Is(err, dataaccess.ErrNotFound) {
		return nil, fmt.Errorf("error removing member: %w", err)
	}

	e.l.Info("Ticket member removed",
		slog.String(logging.KeyChannel, channelID),
		slog.String(logging.KeyUser, userID),
	)
	return t, nil
}

// Close closes the ticket. The ticket is marked closed even when later steps fail; every failed step
// is reported in the result.
func (e *Engine) Close(ctx context.Context, caller policy.Caller, channelID string) (res *CloseResult, err error) {
	defer func() {
		if res != nil {
			e.finish(policy.KindClose, nil, res.Failures)
		} else {
			e.finishUnlessDenied(policy.KindClose, err)
		}
	}()

	t, cfg, err := e.loadTicket(ctx, policy.KindClose, caller, channelID, "")
	if err != nil {
		return nil, err
	}
	if !t.IsOpen() {
		return nil, ErrAlreadyClosed
	}

	failures := e.newStepFailures(channelID)

	archive, err := e.exporter.Export(ctx, channelID, archiveOptions)
	failures.add(StepExportTranscript, channelID, err)

	closedAt := custom.NewUnixTime(e.opts.Now())
	if err := e.transition(ctx, channelID, dataaccess.TicketTransition{
		From:     entities.TicketStatusOpen,
		To:       entities.TicketStatusClosed,
		ClosedAt: closedAt,
		ClosedBy: caller.UserID,
	}); err != nil {
		return nil, err
	}
	t.Status = entities.TicketStatusClosed
	t.ClosedAt = closedAt
	t.ClosedBy = caller.UserID

	if cfg != nil && cfg.ClosedCategoryID != "" {
		failures.add(StepSetParent, cfg.ClosedCategoryID, e.gw.SetChannelParent(ctx, channelID, cfg.ClosedCategoryID))
	}

	members, err := e.store.ListMembers(ctx, channelID)
	failures.add(StepListMembers, channelID, err)
	for _, m := range members {
		if m.UserID == t.OwnerID || m.UserID == caller.UserID {
			continue
		}
		failures.add(StepRevokeAccess, m.UserID, e.gw.RevokeAccess(ctx, channelID, gateway.User(m.UserID)))
	}

	e.postTranscript(ctx, cfg, t, caller, archive, failures)

	e.l.Info("Ticket closed",
		slog.String(logging.KeyChannel, channelID),
		slog.String(logging.KeyUser, caller.UserID),
		slog.Int("failures", len(failures.list)),
	)

	return &CloseResult{Ticket: t, Archive: archive, Failures: failures.list}, nil
}

// Reopen reopens a closed ticket and gives every recorded member access again.
func (e *Engine) Reopen(ctx context.Context, caller policy.Caller, channelID string) (res *ReopenResult, err error) {
	defer func() {
		if res != nil {
			e.finish(policy.KindReopen, nil, res.Failures)
		} else {
			e.finishUnlessDenied(policy.KindReopen, err)
		}
	}()

	t, _, err := e.loadTicket(ctx, policy.KindReopen, caller, channelID, "")
	if err != nil {
		return nil, err
	}
	if t.IsOpen() {
		return nil, ErrNotClosed
	}

	if err := e.transition(ctx, channelID, dataaccess.TicketTransition{
		From: entities.TicketStatusClosed,
		To:   entities.TicketStatusOpen,
	}); err != nil {
		return nil, err
	}
	t.Status = entities.TicketStatusOpen

	failures := e.newStepFailures(channelID)

	members, err := e.store.ListMembers(ctx, channelID)
	failures.add(StepListMembers, channelID, err)
	for _, m := range members {
		failures.add(StepGrantAccess, m.UserID, e.gw.GrantAccess(ctx, channelID, gateway.User(m.UserID), gateway.ViewSend))
	}

	e.l.Info("Ticket reopened",
		slog.String(logging.KeyChannel, channelID),
		slog.String(logging.KeyUser, caller.UserID),
		slog.Int("failures", len(failures.list)),
	)

	return &ReopenResult{Ticket: t, Failures: failures.list}, nil
}

// Delete removes the ticket rows and then the channel.
func (e *Engine) Delete(ctx context.Context, caller policy.Caller, channelID string) (res *DeleteResult, err error) {
	defer func() {
		if res != nil {
			e.finish(policy.KindDelete, nil, res.Failures)
		} else {
			e.finishUnlessDenied(policy.KindDelete, err)
		}
	}()

	t, cfg, err := e.loadTicket(ctx, policy.KindDelete, caller, channelID, "")
	if err != nil {
		return nil, err
	}

	failures := e.newStepFailures(channelID)

	archive, err := e.exporter.Export(ctx, channelID, archiveOptions)
	if err != nil && e.opts.RequireTranscriptOnDelete {
		return nil, fmt.Errorf("error exporting transcript: %w", err)
	}
	failures.add(StepExportTranscript, channelID, err)

	e.postTranscript(ctx, cfg, t, caller, archive, failures)

	if err := e.store.DeleteTicket(ctx, channelID); err != nil && !errors.Is(err, dataaccess.ErrNotFound) {
		return nil, fmt.Errorf("error deleting ticket: %w", err)
	}

	err = e.gw.DeleteChannel(ctx, channelID, fmt.Sprintf("Ticket deleted by %s", caller.UserID))
	if err != nil && !gateway.IsUnknownChannel(err) {
		failures.add(StepDeleteChannel, channelID, err)
	}

	e.l.Info("Ticket deleted",
		slog.String(logging.KeyChannel, channelID),
		slog.String(logging.KeyUser, caller.UserID),
		slog.Int("failures", len(failures.list)),
	)

	return &DeleteResult{Ticket: t, Archive: archive, Failures: failures.list}, nil
}

// Transcript exports the ticket transcript without changing anything.
func (e *Engine) Transcript(ctx context.Context, caller policy.Caller, channelID string) (archive *transcript.Archive, err error) {
	defer func() { e.finishUnlessDenied(policy.KindTranscript, err) }()

	if _, _, err := e.loadTicket(ctx, policy.KindTranscript, caller, channelID, ""); err != nil {
		return nil, err
	}

	archive, err = e.exporter.Export(ctx, channelID, archiveOptions)
	if err != nil {
		return nil, fmt.Errorf("error exporting transcript: %w", err)
	}
	return archive, nil
}

// transition moves the ticket between statuses and maps store conflicts onto engine errors.
func (e *Engine) transition(ctx context.Context, channelID string, tr dataaccess.TicketTransition) error {
	err := e.store.TransitionTicket(ctx, channelID, tr)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, dataaccess.ErrNotFound):
		return ErrNotATicketChannel
	case errors.Is(err, dataaccess.ErrStatusConflict) && tr.To == entities.TicketStatusClosed:
		return ErrAlreadyClosed
	case errors.Is(err, dataaccess.ErrStatusConflict):
		return ErrNotClosed
	default:
		return fmt.Errorf("error updating ticket status: %w", err)
	}
}

// postTranscript posts the archive to the guild's log channel when one is configured.
func (e *Engine) postTranscript(ctx context.Context, cfg *entities.CommunityConfig, t *entities.Ticket, caller policy.Caller, archive *transcript.Archive, failures *stepFailures) {
	if cfg == nil || cfg.LogChannelID == "" || archive == nil {
		return
	}

	_, err := e.gw.SendMessage(ctx, cfg.LogChannelID, &gateway.Message{
		Content: fmt.Sprintf(messages.TranscriptLog, t.ChannelID, t.OwnerID, caller.UserID),
		Files: []gateway.File{
			{Name: archive.Filename, ContentType: archive.ContentType, Data: archive.Data},
		},
	})
	failures.add(StepPostTranscript, cfg.LogChannelID, err)
}

// finishUnlessDenied records the outcome of an operation that returns no step failures.
// Denials are already counted by authorize.
func (e *Engine) finishUnlessDenied(kind policy.Kind, err error) {
	if isDenied(err) {
		return
	}
	e.finish(kind, err, nil)
}

func isDenied(err error) bool {
	var denied *policy.DeniedError
	return errors.As(err, &denied)
}
