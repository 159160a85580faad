package ticketing

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Jacobbrewer1/ticketeer/pkg/entities"
	"github.com/Jacobbrewer1/ticketeer/pkg/logging"
	"github.com/Jacobbrewer1/ticketeer/pkg/policy"
)

// maxColor is the largest RGB colour.
const maxColor = 0xFFFFFF

// Setup replaces the ticketing configuration of the guild.
func (e *Engine) Setup(ctx context.Context, caller policy.Caller, cfg *entities.CommunityConfig) (_ *entities.CommunityConfig, err error) {
	defer func() { e.finishUnlessDenied(policy.KindSetup, err) }()

	if err := e.authorize(policy.KindSetup, caller, policy.Subject{}); err != nil {
		return nil, err
	}

	switch {
	case cfg.CommunityID == "":
		return nil, fmt.Errorf("%w: missing guild", ErrInvalidConfig)
	case cfg.SupportRoleID == "":
		return nil, fmt.Errorf("%w: missing support role", ErrInvalidConfig)
	case cfg.PanelColor < 0 || cfg.PanelColor > maxColor:
		return nil, fmt.Errorf("%w: colour must be between 0 and %#06x", ErrInvalidConfig, maxColor)
	}

	if err := e.store.SaveConfig(ctx, cfg); err != nil {
		return nil, fmt.Errorf("error saving config: %w", err)
	}

	e.l.Info("Ticketing configured",
		slog.String(logging.KeyGuild, cfg.CommunityID),
		slog.String(logging.KeyUser, caller.UserID),
	)
	return cfg, nil
}

// DefinePanel publishes the panel in its channel and replaces the stored panel of the same name.
func (e *Engine) DefinePanel(ctx context.Context, caller policy.Caller, panel *entities.Panel) (_ *entities.Panel, err error) {
	defer func() { e.finishUnlessDenied(policy.KindPanel, err) }()

	if err := e.authorize(policy.KindPanel, caller, policy.Subject{}); err != nil {
		return nil, err
	}

	cfg, err := e.config(ctx, panel.CommunityID)
	if err != nil {
		return nil, err
	}

	color := 0
	if cfg != nil {
		color = cfg.PanelColor
	}

	if err := e.panels.Define(ctx, panel, color); err != nil {
		return nil, err
	}
	return panel, nil
}

// ListPanels lists the panels of the guild.
func (e *Engine) ListPanels(ctx context.Context, caller policy.Caller, communityID string) (_ []*entities.Panel, err error) {
	defer func() { e.finishUnlessDenied(policy.KindPanel, err) }()

	if err := e.authorize(policy.KindPanel, caller, policy.Subject{}); err != nil {
		return nil, err
	}
	return e.panels.List(ctx, communityID)
}

// DeletePanel deletes the panel. Tickets opened from it keep the panel name.
func (e *Engine) DeletePanel(ctx context.Context, caller policy.Caller, communityID, name string) (err error) {
	defer func() { e.finishUnlessDenied(policy.KindPanel, err) }()

	if err := e.authorize(policy.KindPanel, caller, policy.Subject{}); err != nil {
		return err
	}
	return e.panels.Delete(ctx, communityID, name)
}
