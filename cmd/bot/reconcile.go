package main

import (
	"fmt"
	"log/slog"

	"github.com/Jacobbrewer1/ticketeer/cmd/bot/monitoring"
	"github.com/Jacobbrewer1/ticketeer/pkg/logging"
)

// startReconciler schedules the removal of tickets whose channel was deleted while the bot was not looking.
func (a *App) startReconciler() error {
	if a.c.ReconcileSchedule == "" {
		a.l.Info("Reconciler disabled")
		return nil
	}

	if _, err := a.cron.AddFunc(a.c.ReconcileSchedule, a.reconcile); err != nil {
		return fmt.Errorf("error scheduling reconciler: %w", err)
	}

	a.cron.Start()
	a.l.Info("Reconciler scheduled", slog.String("schedule", a.c.ReconcileSchedule))
	return nil
}

func (a *App) reconcile() {
	removed, err := a.engine.Reconcile(a.ctx)
	if err != nil {
		monitoring.TotalReconcileRuns.WithLabelValues("error").Inc()
		a.l.Error("Error reconciling tickets", slog.String(logging.KeyError, err.Error()))
		return
	}

	monitoring.TotalReconcileRuns.WithLabelValues("ok").Inc()
	a.l.Debug("Reconciled tickets", slog.Int("removed", removed))
}
