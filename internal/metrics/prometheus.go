package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// SubmissionsIngested counts graded submissions that reached the
	// scoring pipeline, labeled by verdict and ingest path.
	SubmissionsIngested = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pulse_submissions_ingested_total",
			Help: "Total graded submissions processed by the scoring pipeline",
		},
		[]string{"verdict", "source"},
	)

	// IntegrityChecks counts completed plagiarism checks by outcome.
	IntegrityChecks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pulse_integrity_checks_total",
			Help: "Total integrity checks run",
		},
		[]string{"outcome"},
	)

	// SubmissionsFlagged counts submissions flagged for plagiarism.
	SubmissionsFlagged = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "pulse_submissions_flagged_total",
			Help: "Total submissions flagged by the integrity check",
		},
	)

	// IntegrityCheckDuration measures end-to-end check duration.
	IntegrityCheckDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pulse_integrity_check_duration_seconds",
			Help:    "Integrity check duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// MetricsUpdateDuration measures the synchronous record update.
	MetricsUpdateDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pulse_metrics_update_duration_seconds",
			Help:    "Performance record update duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)
)

// InitPrometheus registers all collectors with the default registry.
func InitPrometheus() {
	prometheus.MustRegister(
		SubmissionsIngested,
		IntegrityChecks,
		SubmissionsFlagged,
		IntegrityCheckDuration,
		MetricsUpdateDuration,
	)
}
