package http

import (
	"net/http"

	"github.com/rallydesk/rallydesk/internal/config"
	"github.com/rallydesk/rallydesk/internal/metrics"
	"github.com/rallydesk/rallydesk/internal/notifier"
	"github.com/rallydesk/rallydesk/internal/pubsub"
	"github.com/rallydesk/rallydesk/internal/tournament"
)

func NewServer(store tournament.TournamentStore, metricsSvc metrics.Metrics, metricsStore metrics.MetricsStore, metricsHandler http.Handler, cfg config.Config, notifier notifier.Notifier, pubsub pubsub.PubSubClient) *Server {
	server := &Server{
		Store:          store,
		Metrics:        metricsSvc,
		MetricsStore:   metricsStore,
		MetricsHandler: metricsHandler,
		Cfg:            cfg,
		Notifier:       notifier,
		PubSub:         pubsub,
		Router:         http.NewServeMux(),
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	// All handlers are wrapped with middleware using the Chain helper.
	// This makes it easy to add more middlewares in the future, like an authentication middleware.
	s.Router.Handle("/metrics", s.MetricsHandler)
	s.Router.Handle("GET /health", Chain(s.HealthCheckHandler(), paramsMiddleware))
	s.Router.Handle("/clear", Chain(s.ClearStoreHandler(), paramsMiddleware))

	s.Router.Handle("POST /players", Chain(s.CreatePlayerHandler(), paramsMiddleware))
	s.Router.Handle("GET /players", Chain(s.ListPlayersHandler(), paramsMiddleware))
	s.Router.Handle("PUT /players/{id}", Chain(s.UpdatePlayerHandler(), paramsMiddleware))
	s.Router.Handle("DELETE /players/{id}", Chain(s.DeletePlayerHandler(), paramsMiddleware))

	s.Router.Handle("POST /teams", Chain(s.CreateTeamHandler(), paramsMiddleware))
	s.Router.Handle("GET /teams", Chain(s.ListTeamsHandler(), paramsMiddleware))
	s.Router.Handle("DELETE /teams/{id}", Chain(s.DeleteTeamHandler(), paramsMiddleware))

	s.Router.Handle("POST /tournaments", Chain(s.CreateTournamentHandler(), paramsMiddleware))
	s.Router.Handle("GET /tournaments", Chain(s.ListTournamentsHandler(), paramsMiddleware))
	s.Router.Handle("GET /tournaments/{id}", Chain(s.GetTournamentHandler(), paramsMiddleware))
	s.Router.Handle("PUT /tournaments/{id}", Chain(s.UpdateTournamentHandler(), paramsMiddleware))
	s.Router.Handle("GET /tournaments/{id}/rules", Chain(s.GetRulesHandler(), paramsMiddleware))
	s.Router.Handle("POST /tournaments/{id}/participants", Chain(s.AddParticipantHandler(), paramsMiddleware))
	s.Router.Handle("GET /tournaments/{id}/participants", Chain(s.ListParticipantsHandler(), paramsMiddleware))
	s.Router.Handle("DELETE /tournaments/{id}/participants/{playerID}", Chain(s.RemoveParticipantHandler(), paramsMiddleware))
	s.Router.Handle("GET /tournaments/{id}/matches", Chain(s.ListMatchesHandler(), paramsMiddleware))

	s.Router.Handle("POST /resources", Chain(s.CreateResourceHandler(), paramsMiddleware))
	s.Router.Handle("GET /resources", Chain(s.ListResourcesHandler(), paramsMiddleware))
	s.Router.Handle("PUT /resources/{id}", Chain(s.UpdateResourceHandler(), paramsMiddleware))
	s.Router.Handle("DELETE /resources/{id}", Chain(s.DeleteResourceHandler(), paramsMiddleware))

	s.Router.Handle("POST /matches", Chain(s.CreateMatchHandler(), paramsMiddleware))
	s.Router.Handle("GET /matches/{id}", Chain(s.GetMatchHandler(), paramsMiddleware))
	s.Router.Handle("POST /matches/{id}/start", Chain(s.StartMatchHandler(), paramsMiddleware))
	s.Router.Handle("POST /matches/{id}/score", Chain(s.ScoreMatchHandler(), paramsMiddleware))
	s.Router.Handle("POST /matches/{id}/override", Chain(s.OverrideMatchHandler(), paramsMiddleware))

	s.Router.Handle("GET /leaderboard/{sport}", Chain(s.LeaderboardHandler(), paramsMiddleware))
	s.Router.Handle("GET /stats/dashboard", Chain(s.DashboardStatsHandler(), paramsMiddleware))
	s.Router.Handle("GET /stats/counters", Chain(s.CountersHandler(), paramsMiddleware))

	s.Router.Handle("POST /slack/command/leaderboard", Chain(s.LeaderboardCommandHandler(), paramsMiddleware, s.slackVerifyMiddleware))
	s.Router.Handle("POST /notify-result", Chain(s.NotifyResultHandler(), paramsMiddleware))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
