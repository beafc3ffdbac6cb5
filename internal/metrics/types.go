package metrics

import "github.com/prometheus/client_golang/prometheus"

// Service holds all the Prometheus metrics for the application.
// By defining them all in one place, we ensure consistency in naming and labeling.
type Service struct {
	SetsRecorded         prometheus.Counter
	OverridesApplied     prometheus.Counter
	MatchesCompleted     prometheus.Counter
	ScoreRequestDuration prometheus.Histogram
	SlackNotifSent       prometheus.Counter
	SlackNotifFailed     prometheus.Counter
	StartupTimeSeconds   prometheus.Gauge
}

// Persistent counter keys used with the MetricsStore.
const (
	KeySetsRecorded     = "sets_recorded"
	KeyOverridesApplied = "overrides_applied"
	KeyMatchesCompleted = "matches_completed"
)
