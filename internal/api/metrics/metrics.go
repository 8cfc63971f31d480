// Package metrics defines and registers all custom Prometheus metrics for the
// risk back office API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation via promauto.
package metrics

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/traderisk/risk-backoffice/internal/core/domain"
	"github.com/traderisk/risk-backoffice/internal/core/ports"
	"github.com/traderisk/risk-backoffice/internal/core/query"
)

const namespace = "risk"

// ── Query metrics ─────────────────────────────────────────────────────────────

// QueryDuration measures aggregation round trips.
// Labels:
//   - collection: the collection the plan ran against (e.g. "clients")
//   - outcome: "ok", "timeout" or "error"
var QueryDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "query_duration_seconds",
		Help:      "Duration of list aggregations, by collection and outcome.",
		Buckets:   prometheus.DefBuckets, // .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10
	},
	[]string{"collection", "outcome"},
)

// QueryRowsReturned tracks page sizes actually returned.
var QueryRowsReturned = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "query_rows_returned",
		Help:      "Number of rows returned per list page.",
		Buckets:   []float64{0, 1, 5, 10, 25, 50, 100},
	},
)

// ── Column preference metrics ─────────────────────────────────────────────────

// ColumnUpdatesTotal counts column selection writes.
// Labels:
//   - module: the module whose selection changed
//   - mode: "set" or "reset"
var ColumnUpdatesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "column_updates_total",
		Help:      "Total number of column selection updates, by module and mode.",
	},
	[]string{"module", "mode"},
)

// ── Overdue metrics ───────────────────────────────────────────────────────────

// OverdueLookbackSteps records how many months a last-list lookup stepped back.
var OverdueLookbackSteps = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "overdue_lookback_steps",
		Help:      "Months stepped back to find the previous overdue list.",
		Buckets:   []float64{1, 2, 3, 6, 12, 18, 24},
	},
)

// ── Credit limit metrics ──────────────────────────────────────────────────────

// CreditLimitTransitionsTotal counts applied credit-limit actions.
// Labels:
//   - action: "modify" or "surrender"
//   - status: the resulting status (e.g. "PENDING_APPROVAL")
var CreditLimitTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "credit_limit_transitions_total",
		Help:      "Total number of credit-limit transitions, by action and resulting status.",
	},
	[]string{"action", "status"},
)

// IdempotencyTotal counts Idempotency-Key decisions.
// Label:
//   - result: "hit" (replayed, skipped) or "miss" (new request, applied)
var IdempotencyTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "idempotency_total",
		Help:      "Total number of idempotency checks, labelled by result (hit/miss).",
	},
	[]string{"result"},
)

// ── Instrumentation ───────────────────────────────────────────────────────────

type instrumentedExecutor struct {
	next ports.PipelineExecutor
}

// InstrumentExecutor wraps next so every plan execution is timed.
func InstrumentExecutor(next ports.PipelineExecutor) ports.PipelineExecutor {
	return &instrumentedExecutor{next: next}
}

func (e *instrumentedExecutor) Execute(ctx context.Context, plan *query.Plan) ([]domain.Record, int64, error) {
	start := time.Now()
	docs, total, err := e.next.Execute(ctx, plan)
	QueryDuration.WithLabelValues(plan.Collection, outcome(err)).Observe(time.Since(start).Seconds())
	if err == nil {
		QueryRowsReturned.Observe(float64(len(docs)))
	}
	return docs, total, err
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrQueryTimeout):
		return "timeout"
	}
	return "error"
}
