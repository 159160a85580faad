package ticketing

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeOK      = "ok"
	outcomeDenied  = "denied"
	outcomeError   = "error"
	outcomePartial = "partial"
)

var (
	// TotalOperations is the total number of engine operations by action and outcome.
	TotalOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticketing_total_operations",
			Help: "Total number of ticket operations",
		},
		[]string{"action", "outcome"},
	)

	// TotalStepFailures is the total number of steps that failed inside an operation.
	TotalStepFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticketing_total_step_failures",
			Help: "Total number of failed steps inside ticket operations",
		},
		[]string{"step"},
	)

	// TotalReconciledTickets is the total number of tickets removed because their channel was gone.
	TotalReconciledTickets = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ticketing_total_reconciled_tickets",
			Help: "Total number of tickets removed because their channel no longer exists",
		},
	)
)
