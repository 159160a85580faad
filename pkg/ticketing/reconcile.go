package ticketing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Jacobbrewer1/ticketeer/pkg/dataaccess"
	"github.com/Jacobbrewer1/ticketeer/pkg/logging"
)

// Reconcile deletes the rows of tickets whose channel was deleted outside the bot.
// It returns the number of tickets removed.
func (e *Engine) Reconcile(ctx context.Context) (int, error) {
	tickets, err := e.store.ListTickets(ctx, "", "")
	if err != nil {
		return 0, fmt.Errorf("error listing tickets: %w", err)
	}

	removed := 0
	for _, t := range tickets {
		if err := ctx.Err(); err != nil {
			return removed, err
		}

		exists, err := e.gw.ChannelExists(ctx, t.ChannelID)
		if err != nil {
			// Unknown is not gone.
			e.l.Warn("Error checking ticket channel",
				slog.String(logging.KeyChannel, t.ChannelID),
				slog.String(logging.KeyError, err.Error()),
			)
			continue
		}
		if exists {
			continue
		}

		if err := e.store.DeleteTicket(ctx, t.ChannelID); err != nil && !errors.Is(err, dataaccess.ErrNotFound) {
			e.l.Error("Error removing ticket of deleted channel",
				slog.String(logging.KeyChannel, t.ChannelID),
				slog.String(logging.KeyError, err.Error()),
			)
			continue
		}

		removed++
		TotalReconciledTickets.Inc()
		e.l.Info("Removed ticket of deleted channel",
			slog.String(logging.KeyGuild, t.CommunityID),
			slog.String(logging.KeyChannel, t.ChannelID),
		)
	}

	return removed, nil
}
