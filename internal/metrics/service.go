package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the Prometheus metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		SetsRecorded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rallydesk_sets_recorded_total",
			Help: "The total number of set scores recorded.",
		}),
		OverridesApplied: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rallydesk_overrides_applied_total",
			Help: "The total number of manual set corrections applied.",
		}),
		MatchesCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rallydesk_matches_completed_total",
			Help: "The total number of matches that reached a decided state.",
		}),
		ScoreRequestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "rallydesk_score_request_duration_seconds",
			Help:    "The duration of score and override request handling.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		SlackNotifSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rallydesk_slack_notifications_sent_total",
			Help: "The total number of Slack notifications successfully sent.",
		}),
		SlackNotifFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rallydesk_slack_notifications_failed_total",
			Help: "The total number of Slack notifications that failed to send.",
		}),
		StartupTimeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "rallydesk_startup_duration_seconds",
			Help: "The duration of the application startup in seconds.",
		}),
	}

	reg.MustRegister(
		s.SetsRecorded,
		s.OverridesApplied,
		s.MatchesCompleted,
		s.ScoreRequestDuration,
		s.SlackNotifSent,
		s.SlackNotifFailed,
		s.StartupTimeSeconds,
	)

	return s
}

func (s *Service) IncSetsRecorded() {
	s.SetsRecorded.Inc()
}

func (s *Service) IncOverridesApplied() {
	s.OverridesApplied.Inc()
}

func (s *Service) IncMatchesCompleted() {
	s.MatchesCompleted.Inc()
}

func (s *Service) ObserveScoreRequestDuration(duration float64) {
	s.ScoreRequestDuration.Observe(duration)
}

func (s *Service) IncSlackNotifSent() {
	s.SlackNotifSent.Inc()
}

func (s *Service) IncSlackNotifFailed() {
	s.SlackNotifFailed.Inc()
}

func (s *Service) SetStartupTime(duration float64) {
	s.StartupTimeSeconds.Set(duration)
}
