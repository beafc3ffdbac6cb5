package metrics

// Metrics defines the interface for collecting application metrics.
// This decouples the application from the specific metrics implementation (e.g., Prometheus).
type Metrics interface {
	IncSetsRecorded()
	IncOverridesApplied()
	IncMatchesCompleted()
	ObserveScoreRequestDuration(duration float64)
	IncSlackNotifSent()
	IncSlackNotifFailed()
	SetStartupTime(duration float64)
}

// MetricsStore persists named counters across restarts, independent of the
// Prometheus registry.
type MetricsStore interface {
	Increment(key string)
	GetAll() (map[string]int, error)
}
