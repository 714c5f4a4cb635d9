// Package metrics holds the Prometheus collectors of the bulk action service.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	BulkActionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rule_bulk_actions_total",
			Help: "Total number of bulk action requests by action, dry run flag and result",
		},
		[]string{"action", "dry_run", "result"},
	)

	RuleOutcomesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rule_bulk_rule_outcomes_total",
			Help: "Total number of per-rule outcomes by action and outcome",
		},
		[]string{"action", "outcome"},
	)

	ValidationFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rule_bulk_validation_failures_total",
			Help: "Total number of bulk action requests rejected by validation",
		},
	)

	RuleEngineDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "rule_bulk_engine_request_duration_seconds",
			Help:    "Duration of rule engine calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"action"},
	)
)

// Result label values for BulkActionsTotal.
const (
	ResultSucceeded = "succeeded"
	ResultPartial   = "partial"
	ResultError     = "error"
)

// RecordBulkAction counts a finished bulk action.
func RecordBulkAction(action string, dryRun bool, result string) {
	BulkActionsTotal.WithLabelValues(action, strconv.FormatBool(dryRun), result).Inc()
}

// RecordOutcomes adds the summary counts of a bulk action.
func RecordOutcomes(action string, succeeded, skipped, failed int) {
	RuleOutcomesTotal.WithLabelValues(action, "succeeded").Add(float64(succeeded))
	RuleOutcomesTotal.WithLabelValues(action, "skipped").Add(float64(skipped))
	RuleOutcomesTotal.WithLabelValues(action, "failed").Add(float64(failed))
}
