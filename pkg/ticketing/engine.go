// Package ticketing runs the ticket lifecycle: create, add and remove members, close, reopen and delete.
package ticketing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Jacobbrewer1/ticketeer/pkg/dataaccess"
	"github.com/Jacobbrewer1/ticketeer/pkg/entities"
	"github.com/Jacobbrewer1/ticketeer/pkg/gateway"
	"github.com/Jacobbrewer1/ticketeer/pkg/logging"
	"github.com/Jacobbrewer1/ticketeer/pkg/panels"
	"github.com/Jacobbrewer1/ticketeer/pkg/policy"
	"github.com/Jacobbrewer1/ticketeer/pkg/transcript"
)

// Options change how the engine behaves.
type Options struct {
	// Policy is passed to every authorization decision.
	Policy policy.Options

	// RequireTranscriptOnDelete stops a delete when the transcript cannot be exported.
	RequireTranscriptOnDelete bool

	// Now is the clock. Defaults to time.Now.
	Now func() time.Time
}

// Engine performs ticket actions. It holds no ticket state: every operation re-reads the store.
type Engine struct {
	l        *slog.Logger
	store    dataaccess.Store
	gw       gateway.Gateway
	exporter transcript.Exporter
	panels   *panels.Registry
	opts     Options
}

// NewEngine creates a new Engine.
func NewEngine(l *slog.Logger, store dataaccess.Store, gw gateway.Gateway, exporter transcript.Exporter, registry *panels.Registry, opts Options) *Engine {
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &Engine{
		l:        l,
		store:    store,
		gw:       gw,
		exporter: exporter,
		panels:   registry,
		opts:     opts,
	}
}

// Perform runs the action on behalf of the caller.
func (e *Engine) Perform(ctx context.Context, caller policy.Caller, action Action) (*Result, error) {
	switch a := action.(type) {
	case Setup:
		cfg, err := e.Setup(ctx, caller, &a.Config)
		return &Result{Config: cfg}, err
	case DefinePanel:
		panel, err := e.DefinePanel(ctx, caller, &a.Panel)
		return &Result{Panel: panel}, err
	case ListPanels:
		list, err := e.ListPanels(ctx, caller, a.CommunityID)
		return &Result{Panels: list}, err
	case DeletePanel:
		return &Result{}, e.DeletePanel(ctx, caller, a.CommunityID, a.Name)
	case Create:
		res, err := e.Create(ctx, caller, a.CommunityID, a.Handle, a.PanelName)
		if err != nil {
			return nil, err
		}
		return &Result{Ticket: res.Ticket, Failures: res.Failures}, nil
	case AddMember:
		t, err := e.AddMember(ctx, caller, a.ChannelID, a.UserID)
		return &Result{Ticket: t}, err
	case RemoveMember:
		t, err := e.RemoveMember(ctx, caller, a.ChannelID, a.UserID)
		return &Result{Ticket: t}, err
	case Close:
		res, err := e.Close(ctx, caller, a.ChannelID)
		if err != nil {
			return nil, err
		}
		return &Result{Ticket: res.Ticket, Archive: res.Archive, Failures: res.Failures}, nil
	case Reopen:
		res, err := e.Reopen(ctx, caller, a.ChannelID)
		if err != nil {
			return nil, err
		}
		return &Result{Ticket: res.Ticket, Failures: res.Failures}, nil
	case Delete:
		res, err := e.Delete(ctx, caller, a.ChannelID)
		if err != nil {
			return nil, err
		}
		return &Result{Ticket: res.Ticket, Archive: res.Archive, Failures: res.Failures}, nil
	case Transcript:
		archive, err := e.Transcript(ctx, caller, a.ChannelID)
		return &Result{Archive: archive}, err
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownAction, action)
	}
}

// config returns the guild configuration, or nil when the guild was never set up.
func (e *Engine) config(ctx context.Context, communityID string) (*entities.CommunityConfig, error) {
	cfg, err := e.store.GetConfig(ctx, communityID)
	switch {
	case errors.Is(err, dataaccess.ErrNotFound):
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("error getting config: %w", err)
	}
	return cfg, nil
}

// ticket returns the ticket of the channel with its guild configuration. The ticket is nil when the
// channel is not a ticket.
func (e *Engine) ticket(ctx context.Context, channelID string) (*entities.Ticket, *entities.CommunityConfig, error) {
	t, err := e.store.GetTicket(ctx, channelID)
	switch {
	case errors.Is(err, dataaccess.ErrNotFound):
		return nil, nil, nil
	case err != nil:
		return nil, nil, fmt.Errorf("error getting ticket: %w", err)
	}

	cfg, err := e.config(ctx, t.CommunityID)
	if err != nil {
		return nil, nil, err
	}
	return t, cfg, nil
}

// authorize asks the policy whether the caller may act on the subject.
func (e *Engine) authorize(kind policy.Kind, caller policy.Caller, subject policy.Subject) error {
	d := policy.CanPerform(kind, caller, subject, e.opts.Policy)
	if d.Allowed {
		return nil
	}

	TotalOperations.WithLabelValues(kind.String(), outcomeDenied).Inc()
	e.l.Debug("Action denied",
		slog.String(logging.KeyAction, kind.String()),
		slog.String(logging.KeyUser, caller.UserID),
		slog.String("reason", d.Reason),
	)
	return d.Err()
}

// loadTicket reads the ticket and authorizes the caller against it.
func (e *Engine) loadTicket(ctx context.Context, kind policy.Kind, caller policy.Caller, channelID, targetID string) (*entities.Ticket, *entities.CommunityConfig, error) {
	t, cfg, err := e.ticket(ctx, channelID)
	if err != nil {
		return nil, nil, err
	}

	if err := e.authorize(kind, caller, policy.Subject{Config: cfg, Ticket: t, TargetID: targetID}); err != nil {
		return nil, nil, err
	}
	return t, cfg, nil
}

// finish records the outcome of an operation.
func (e *Engine) finish(kind policy.Kind, err error, failures []StepFailure) {
	outcome := outcomeOK
	switch {
	case err != nil:
		outcome = outcomeError
	case len(failures) > 0:
		outcome = outcomePartial
	}
	TotalOperations.WithLabelValues(kind.String(), outcome).Inc()
}

// stepFailures collects the failures of a multi step operation.
type stepFailures struct {
	l         *slog.Logger
	channelID string
	list      []StepFailure
}

func (e *Engine) newStepFailures(channelID string) *stepFailures {
	return &stepFailures{l: e.l, channelID: channelID}
}

// add records the failure when err is not nil.
func (s *stepFailures) add(step, target string, err error) {
	if err == nil {
		return
	}

	TotalStepFailures.WithLabelValues(step).Inc()
	s.l.Warn("Ticket step failed",
		slog.String(logging.KeyChannel, s.channelID),
		slog.String("step", step),
		slog.String("target", target),
		slog.String(logging.KeyError, err.Error()),
	)
	s.list = append(s.list, StepFailure{Step: step, Target: target, Err: err})
}
