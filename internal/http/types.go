package http

import (
	"net/http"

	"github.com/rallydesk/rallydesk/internal/config"
	"github.com/rallydesk/rallydesk/internal/metrics"
	"github.com/rallydesk/rallydesk/internal/notifier"
	"github.com/rallydesk/rallydesk/internal/pubsub"
	"github.com/rallydesk/rallydesk/internal/tournament"
)

type Server struct {
	Store          tournament.TournamentStore
	Metrics        metrics.Metrics
	MetricsStore   metrics.MetricsStore
	MetricsHandler http.Handler
	Cfg            config.Config
	Notifier       notifier.Notifier
	PubSub         pubsub.PubSubClient
	Router         *http.ServeMux
}
