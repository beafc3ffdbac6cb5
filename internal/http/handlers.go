package http

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/rallydesk/rallydesk/internal/metrics"
	"github.com/rallydesk/rallydesk/internal/pubsub"
	"github.com/rallydesk/rallydesk/internal/scoring"
	"github.com/rallydesk/rallydesk/internal/tournament"
	"github.com/slack-go/slack"
)

func (s *Server) HealthCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Received health check request")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK!")
	}
}

func (s *Server) ClearStoreHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		matchID := r.URL.Query().Get("matchID")
		if matchID != "" {
			log.Info("Received request to clear a specific match", "matchID", matchID)
			s.Store.ClearMatch(matchID)
			w.WriteHeader(http.StatusOK)
			fmt.Fprintf(w, "Cleared match %s from store!", matchID)
			return
		}
		log.Info("Received request to clear entire store")
		s.Store.Clear()
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "Store cleared!")
	}
}

func (s *Server) CreatePlayerHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var player tournament.PlayerInfo
		if err := json.NewDecoder(r.Body).Decode(&player); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if player.Name == "" {
			writeError(w, http.StatusBadRequest, "player name is required")
			return
		}
		if player.ID == "" {
			player.ID = uuid.NewString()
		}
		if err := s.Store.UpsertPlayer(player); err != nil {
			log.Error("Failed to upsert player", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to save player")
			return
		}
		writeJSON(w, http.StatusCreated, player)
	}
}

func (s *Server) ListPlayersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		players, err := s.Store.ListPlayers(r.URL.Query().Get("sport"))
		if err != nil {
			log.Error("Failed to get players from store", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to get players")
			return
		}
		writeJSON(w, http.StatusOK, players)
	}
}

func (s *Server) UpdatePlayerHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var player tournament.PlayerInfo
		if err := json.NewDecoder(r.Body).Decode(&player); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		player.ID = r.PathValue("id")
		if player.Name == "" {
			writeError(w, http.StatusBadRequest, "player name is required")
			return
		}
		if _, err := s.Store.GetPlayer(player.ID); errors.Is(err, tournament.ErrNotFound) {
			writeError(w, http.StatusNotFound, "player not found")
			return
		}
		if err := s.Store.UpsertPlayer(player); err != nil {
			log.Error("Failed to update player", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to save player")
			return
		}
		writeJSON(w, http.StatusOK, player)
	}
}

func (s *Server) DeletePlayerHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := s.Store.DeletePlayer(r.PathValue("id"))
		if errors.Is(err, tournament.ErrNotFound) {
			writeError(w, http.StatusNotFound, "player not found")
			return
		}
		if err != nil {
			log.Error("Failed to delete player", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to delete player")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) CreateTeamHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var team tournament.Team
		if err := json.NewDecoder(r.Body).Decode(&team); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if team.Name == "" {
			writeError(w, http.StatusBadRequest, "team name is required")
			return
		}
		if team.ID == "" {
			team.ID = uuid.NewString()
		}
		if err := s.Store.UpsertTeam(team); err != nil {
			log.Error("Failed to upsert team", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to save team")
			return
		}
		writeJSON(w, http.StatusCreated, team)
	}
}

func (s *Server) ListTeamsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		teams, err := s.Store.ListTeams(r.URL.Query().Get("sport"))
		if err != nil {
			log.Error("Failed to get teams from store", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to get teams")
			return
		}
		writeJSON(w, http.StatusOK, teams)
	}
}

func (s *Server) DeleteTeamHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := s.Store.DeleteTeam(r.PathValue("id"))
		if errors.Is(err, tournament.ErrNotFound) {
			writeError(w, http.StatusNotFound, "team not found")
			return
		}
		if err != nil {
			log.Error("Failed to delete team", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to delete team")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) CreateTournamentHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var t tournament.Tournament
		if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if t.Name == "" || t.Sport == "" {
			writeError(w, http.StatusBadRequest, "tournament name and sport are required")
			return
		}
		if t.MatchType == "" {
			t.MatchType = tournament.MatchTypeSingles
		}
		if t.MatchType != tournament.MatchTypeSingles && t.MatchType != tournament.MatchTypeDoubles {
			writeError(w, http.StatusBadRequest, "match_type must be singles or doubles")
			return
		}
		// Table tennis defaults: best of five, eleven points, win by two.
		if t.Rules.SetsToWin == 0 {
			t.Rules.SetsToWin = 3
		}
		if t.Rules.PointsPerSet == 0 {
			t.Rules.PointsPerSet = 11
			t.Rules.WinByTwo = true
		}
		if t.Rules.SetsToWin < 1 || t.Rules.PointsPerSet < 1 {
			writeError(w, http.StatusBadRequest, "scoring rules must be positive")
			return
		}
		if t.ID == "" {
			t.ID = uuid.NewString()
		}
		if t.Status == "" {
			t.Status = "active"
		}
		if t.CreatedAt == 0 {
			t.CreatedAt = time.Now().Unix()
		}
		if err := s.Store.CreateTournament(t); err != nil {
			log.Error("Failed to create tournament", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to create tournament")
			return
		}
		writeJSON(w, http.StatusCreated, t)
	}
}

func (s *Server) GetTournamentHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t, err := s.Store.GetTournament(r.PathValue("id"))
		if errors.Is(err, tournament.ErrNotFound) {
			writeError(w, http.StatusNotFound, "tournament not found")
			return
		}
		if err != nil {
			log.Error("Failed to get tournament", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to get tournament")
			return
		}
		writeJSON(w, http.StatusOK, t)
	}
}

func (s *Server) UpdateTournamentHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var t tournament.Tournament
		if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		t.ID = r.PathValue("id")
		if t.Name == "" || t.Sport == "" {
			writeError(w, http.StatusBadRequest, "tournament name and sport are required")
			return
		}
		if t.MatchType == "" {
			t.MatchType = tournament.MatchTypeSingles
		}
		if t.MatchType != tournament.MatchTypeSingles && t.MatchType != tournament.MatchTypeDoubles {
			writeError(w, http.StatusBadRequest, "match_type must be singles or doubles")
			return
		}
		err := s.Store.UpdateTournament(t)
		if errors.Is(err, tournament.ErrNotFound) {
			writeError(w, http.StatusNotFound, "tournament not found")
			return
		}
		if err != nil {
			log.Error("Failed to update tournament", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to update tournament")
			return
		}
		writeJSON(w, http.StatusOK, t)
	}
}

func (s *Server) ListTournamentsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tournaments, err := s.Store.ListTournaments()
		if err != nil {
			log.Error("Failed to get tournaments from store", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to get tournaments")
			return
		}
		writeJSON(w, http.StatusOK, tournaments)
	}
}

func (s *Server) GetRulesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rules, err := s.Store.GetScoringRules(r.PathValue("id"))
		if errors.Is(err, tournament.ErrNotFound) {
			writeError(w, http.StatusNotFound, "tournament not found")
			return
		}
		if err != nil {
			log.Error("Failed to get scoring rules", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to get scoring rules")
			return
		}
		writeJSON(w, http.StatusOK, rules)
	}
}

func (s *Server) AddParticipantHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			PlayerID string `json:"player_id"`
			Seed     int    `json:"seed"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.PlayerID == "" {
			writeError(w, http.StatusBadRequest, "player_id is required")
			return
		}
		tournamentID := r.PathValue("id")
		t, err := s.Store.GetTournament(tournamentID)
		if errors.Is(err, tournament.ErrNotFound) {
			writeError(w, http.StatusNotFound, "tournament not found")
			return
		}
		// Doubles tournaments enter teams, singles enter players.
		if t != nil && t.MatchType == tournament.MatchTypeDoubles {
			if _, err := s.Store.GetTeam(body.PlayerID); errors.Is(err, tournament.ErrNotFound) {
				writeError(w, http.StatusNotFound, "team not found")
				return
			}
		} else {
			if _, err := s.Store.GetPlayer(body.PlayerID); errors.Is(err, tournament.ErrNotFound) {
				writeError(w, http.StatusNotFound, "player not found")
				return
			}
		}
		if err := s.Store.AddParticipant(tournamentID, body.PlayerID, body.Seed); err != nil {
			log.Error("Failed to add participant", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to add participant")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) ListParticipantsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		players, err := s.Store.ListParticipants(r.PathValue("id"))
		if err != nil {
			log.Error("Failed to list participants", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to list participants")
			return
		}
		writeJSON(w, http.StatusOK, players)
	}
}

func (s *Server) RemoveParticipantHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := s.Store.RemoveParticipant(r.PathValue("id"), r.PathValue("playerID"))
		if errors.Is(err, tournament.ErrNotFound) {
			writeError(w, http.StatusNotFound, "participant not found")
			return
		}
		if err != nil {
			log.Error("Failed to remove participant", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to remove participant")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) CreateResourceHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var resource tournament.Resource
		if err := json.NewDecoder(r.Body).Decode(&resource); err != nil || resource.Name == "" {
			writeError(w, http.StatusBadRequest, "resource name is required")
			return
		}
		if resource.ID == "" {
			resource.ID = uuid.NewString()
		}
		if resource.Type == "" {
			resource.Type = "table"
		}
		if err := s.Store.UpsertResource(resource); err != nil {
			log.Error("Failed to upsert resource", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to save resource")
			return
		}
		writeJSON(w, http.StatusCreated, resource)
	}
}

func (s *Server) ListResourcesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resources, err := s.Store.ListResources()
		if err != nil {
			log.Error("Failed to list resources", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to list resources")
			return
		}
		writeJSON(w, http.StatusOK, resources)
	}
}

func (s *Server) UpdateResourceHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var resource tournament.Resource
		if err := json.NewDecoder(r.Body).Decode(&resource); err != nil || resource.Name == "" {
			writeError(w, http.StatusBadRequest, "resource name is required")
			return
		}
		resource.ID = r.PathValue("id")
		if resource.Type == "" {
			resource.Type = "table"
		}
		if err := s.Store.UpsertResource(resource); err != nil {
			log.Error("Failed to update resource", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to save resource")
			return
		}
		writeJSON(w, http.StatusOK, resource)
	}
}

func (s *Server) DeleteResourceHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := s.Store.DeleteResource(r.PathValue("id"))
		if errors.Is(err, tournament.ErrNotFound) {
			writeError(w, http.StatusNotFound, "resource not found")
			return
		}
		if err != nil {
			log.Error("Failed to delete resource", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to delete resource")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) CreateMatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var match tournament.Match
		if err := json.NewDecoder(r.Body).Decode(&match); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if match.TournamentID == "" || match.Participant1 == "" || match.Participant2 == "" {
			writeError(w, http.StatusBadRequest, "tournament_id and both participants are required")
			return
		}
		if match.Participant1 == match.Participant2 {
			writeError(w, http.StatusBadRequest, "participants must be distinct")
			return
		}
		if _, err := s.Store.GetTournament(match.TournamentID); errors.Is(err, tournament.ErrNotFound) {
			writeError(w, http.StatusNotFound, "tournament not found")
			return
		}
		if match.ID == "" {
			match.ID = uuid.NewString()
		}
		if err := s.Store.CreateMatch(&match); err != nil {
			log.Error("Failed to create match", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to create match")
			return
		}
		writeJSON(w, http.StatusCreated, match)
	}
}

func (s *Server) GetMatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		match, err := s.Store.GetMatch(r.PathValue("id"))
		if errors.Is(err, tournament.ErrNotFound) {
			writeError(w, http.StatusNotFound, "match not found")
			return
		}
		if err != nil {
			log.Error("Failed to get match", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to get match")
			return
		}
		writeJSON(w, http.StatusOK, match)
	}
}

func (s *Server) ListMatchesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		matches, err := s.Store.ListMatches(r.PathValue("id"))
		if err != nil {
			log.Error("Failed to list matches", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to list matches")
			return
		}
		writeJSON(w, http.StatusOK, matches)
	}
}

func (s *Server) StartMatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		matchID := r.PathValue("id")
		isDryRun := isDryRunFromContext(r)

		match, err := s.Store.StartMatch(matchID)
		if errors.Is(err, tournament.ErrNotFound) {
			writeError(w, http.StatusNotFound, "match not found")
			return
		}
		if errors.Is(err, scoring.ErrMatchDecided) {
			writeError(w, http.StatusConflict, "match is already completed")
			return
		}
		if err != nil {
			log.Error("Failed to start match", "error", err, "matchID", matchID)
			writeError(w, http.StatusInternalServerError, "failed to start match")
			return
		}

		if err := s.Notifier.SendMatchStartedNotification(match, s.playerNames(match), isDryRun); err != nil {
			log.Error("Failed to send match started notification", "error", err, "matchID", matchID)
		}
		writeJSON(w, http.StatusOK, match)
	}
}

// ScoreMatchHandler records a completed set on a live match. The set number
// may address the next set or replace an existing one; completion is
// recomputed over the whole series either way.
func (s *Server) ScoreMatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		defer func() {
			s.Metrics.ObserveScoreRequestDuration(time.Since(start).Seconds())
		}()

		matchID := r.PathValue("id")
		isDryRun := isDryRunFromContext(r)

		var body struct {
			SetNumber       int   `json:"set_number"`
			Score1          int   `json:"score1"`
			Score2          int   `json:"score2"`
			ExpectedVersion int64 `json:"expected_version"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		match, rules, ok := s.loadMatchAndRules(w, matchID)
		if !ok {
			return
		}
		if match.Status != scoring.StatusLive {
			writeError(w, http.StatusConflict, "match is not live")
			return
		}
		// Clients that read the match before scoring can pass the version they
		// saw; a mismatch means another scorer got there first.
		if body.ExpectedVersion != 0 && body.ExpectedVersion != match.Version {
			writeError(w, http.StatusConflict, fmt.Sprintf("version conflict: match is at version %d", match.Version))
			return
		}
		if body.SetNumber == 0 {
			body.SetNumber = match.CurrentSet
		}

		set := scoring.SetScore{SetNumber: body.SetNumber, Score1: body.Score1, Score2: body.Score2}
		newSets, err := scoring.AppendSet(match.Sets, set, rules)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		state := scoring.Resolve(scoring.MatchState{
			Status:       match.Status,
			Sets:         newSets,
			Participant1: match.Participant1,
			Participant2: match.Participant2,
		}, rules)

		saved, err := s.Store.SaveMatchState(matchID, state, currentSetFor(state))
		if err != nil {
			log.Error("Failed to save match state", "error", err, "matchID", matchID)
			writeError(w, http.StatusInternalServerError, "failed to save match state")
			return
		}

		s.Metrics.IncSetsRecorded()
		s.MetricsStore.Increment(metrics.KeySetsRecorded)
		if !isDryRun {
			if err := s.PubSub.SendMessage(pubsub.EventScoreRecorded, saved); err != nil {
				log.Error("Failed to publish score event", "error", err, "matchID", matchID)
			}
		}
		if saved.Status == scoring.StatusCompleted {
			s.onMatchCompleted(saved, isDryRun)
		}

		log.Info("Recorded set", "matchID", matchID, "set", set.SetNumber, "status", saved.Status, "version", saved.Version)
		writeJSON(w, http.StatusOK, saved)
	}
}

// OverrideMatchHandler corrects a historical set and recomputes winner and
// status over the whole series. A completed match can revert to live when the
// correction removes the deciding condition.
func (s *Server) OverrideMatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		defer func() {
			s.Metrics.ObserveScoreRequestDuration(time.Since(start).Seconds())
		}()

		matchID := r.PathValue("id")
		isDryRun := isDryRunFromContext(r)

		var body struct {
			SetNumber int `json:"set_number"`
			Score1    int `json:"score1"`
			Score2    int `json:"score2"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		match, rules, ok := s.loadMatchAndRules(w, matchID)
		if !ok {
			return
		}

		prevStatus := match.Status
		state, err := scoring.ApplyOverride(match.State(), body.SetNumber, body.Score1, body.Score2, rules)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		saved, err := s.Store.SaveMatchState(matchID, state, currentSetFor(state))
		if err != nil {
			log.Error("Failed to save corrected match state", "error", err, "matchID", matchID)
			writeError(w, http.StatusInternalServerError, "failed to save match state")
			return
		}

		s.Metrics.IncOverridesApplied()
		s.MetricsStore.Increment(metrics.KeyOverridesApplied)
		if !isDryRun {
			if err := s.PubSub.SendMessage(pubsub.EventOverrideApplied, saved); err != nil {
				log.Error("Failed to publish override event", "error", err, "matchID", matchID)
			}
		}

		switch {
		case prevStatus != scoring.StatusCompleted && saved.Status == scoring.StatusCompleted:
			s.onMatchCompleted(saved, isDryRun)
		default:
			if err := s.Notifier.SendOverrideNotification(saved, s.playerNames(saved), isDryRun); err != nil {
				log.Error("Failed to send override notification", "error", err, "matchID", matchID)
			}
		}

		log.Info("Applied override", "matchID", matchID, "set", body.SetNumber, "status", saved.Status, "version", saved.Version)
		writeJSON(w, http.StatusOK, saved)
	}
}

func (s *Server) LeaderboardHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries, err := s.Store.Leaderboard(r.PathValue("sport"))
		if err != nil {
			log.Error("Failed to get leaderboard", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to get leaderboard")
			return
		}
		writeJSON(w, http.StatusOK, entries)
	}
}

func (s *Server) DashboardStatsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := s.Store.DashboardStats()
		if err != nil {
			log.Error("Failed to get dashboard stats", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to get dashboard stats")
			return
		}
		writeJSON(w, http.StatusOK, stats)
	}
}

func (s *Server) CountersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		counters, err := s.MetricsStore.GetAll()
		if err != nil {
			log.Error("Failed to get persisted counters", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to get counters")
			return
		}
		writeJSON(w, http.StatusOK, counters)
	}
}

// LeaderboardCommandHandler returns a handler for the /leaderboard Slack command.
func (s *Server) LeaderboardCommandHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Error parsing form", http.StatusBadRequest)
			return
		}
		sport := r.FormValue("text")
		if sport == "" {
			sport = "table-tennis"
		}

		entries, err := s.Store.Leaderboard(sport)
		if err != nil {
			log.Error("Failed to get leaderboard for slash command", "error", err)
			http.Error(w, "Failed to get leaderboard", http.StatusInternalServerError)
			return
		}

		msg, err := s.Notifier.FormatLeaderboardResponse(entries)
		if err != nil {
			log.Error("Failed to format leaderboard", "error", err)
			http.Error(w, "Failed to format leaderboard", http.StatusInternalServerError)
			return
		}

		slackMsg, ok := msg.(slack.Message)
		if !ok {
			log.Error("Failed to cast message to slack.Message")
			http.Error(w, "Invalid message format for Slack", http.StatusInternalServerError)
			return
		}
		respondWithSlackMsg(w, slackMsg)
	}
}

// NotifyResultHandler handles Pub/Sub push deliveries for completed matches.
func (s *Server) NotifyResultHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bodyBytes, err := io.ReadAll(r.Body)
		if err != nil {
			log.Error("Failed to read request body", "error", err)
			http.Error(w, "Failed to read request body", http.StatusInternalServerError)
			return
		}
		log.Debug("Received notify result message", "body", string(bodyBytes))

		var pubsubMsg struct {
			Subscription string `json:"subscription"`
			Message      struct {
				Data string `json:"data"` // base64-encoded message payload
			} `json:"message"`
		}
		if err := json.Unmarshal(bodyBytes, &pubsubMsg); err != nil {
			log.Error("Failed to unmarshal wrapper JSON", "error", err)
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		rawData, err := base64.StdEncoding.DecodeString(pubsubMsg.Message.Data)
		if err != nil {
			log.Error("Failed to decode base64 data", "error", err)
			http.Error(w, "Invalid base64 data", http.StatusBadRequest)
			return
		}

		isDryRun := isDryRunFromContext(r)
		var match tournament.Match
		if err := s.PubSub.ProcessMessage(rawData, &match); err != nil {
			http.Error(w, "Invalid message payload", http.StatusBadRequest)
			return
		}
		if err := s.Notifier.SendResultNotification(&match, s.playerNames(&match), isDryRun); err != nil {
			log.Error("Failed to notify result", "error", err, "matchID", match.ID)
			http.Error(w, "Failed to notify result", http.StatusInternalServerError)
			return
		}
		w.Write([]byte("OK"))
	}
}

// loadMatchAndRules fetches a match and its tournament's rules, writing the
// error response itself when either lookup fails.
func (s *Server) loadMatchAndRules(w http.ResponseWriter, matchID string) (*tournament.Match, scoring.Rules, bool) {
	match, err := s.Store.GetMatch(matchID)
	if errors.Is(err, tournament.ErrNotFound) {
		writeError(w, http.StatusNotFound, "match not found")
		return nil, scoring.Rules{}, false
	}
	if err != nil {
		log.Error("Failed to get match", "error", err, "matchID", matchID)
		writeError(w, http.StatusInternalServerError, "failed to get match")
		return nil, scoring.Rules{}, false
	}
	rules, err := s.Store.GetScoringRules(match.TournamentID)
	if err != nil {
		log.Error("Failed to get scoring rules", "error", err, "matchID", matchID)
		writeError(w, http.StatusInternalServerError, "failed to get scoring rules")
		return nil, scoring.Rules{}, false
	}
	return match, rules, true
}

// onMatchCompleted fires the side effects of a match reaching a decided state.
func (s *Server) onMatchCompleted(match *tournament.Match, dryRun bool) {
	s.Metrics.IncMatchesCompleted()
	s.MetricsStore.Increment(metrics.KeyMatchesCompleted)
	if !dryRun {
		if err := s.PubSub.SendMessage(pubsub.EventMatchCompleted, match); err != nil {
			log.Error("Failed to publish match completed event", "error", err, "matchID", match.ID)
		}
	}
	if err := s.Notifier.SendResultNotification(match, s.playerNames(match), dryRun); err != nil {
		log.Error("Failed to send result notification", "error", err, "matchID", match.ID)
	}
}

// playerNames resolves both participants' display names. Participants are
// players in singles tournaments and teams in doubles; anything unresolved
// falls back to its raw ID in the notification.
func (s *Server) playerNames(match *tournament.Match) map[string]string {
	names := make(map[string]string, 2)
	for _, id := range []string{match.Participant1, match.Participant2} {
		if player, err := s.Store.GetPlayer(id); err == nil {
			names[id] = player.Name
			continue
		}
		if team, err := s.Store.GetTeam(id); err == nil {
			names[id] = team.Name
		}
	}
	return names
}

// currentSetFor derives the set the scoreboard should edit next.
func currentSetFor(state scoring.MatchState) int {
	if state.Status == scoring.StatusCompleted {
		return len(state.Sets)
	}
	return len(state.Sets) + 1
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Failed to write response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// respondWithSlackMsg is a helper to format and write a Slack message as an HTTP response.
func respondWithSlackMsg(w http.ResponseWriter, msg slack.Message) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(msg); err != nil {
		log.Error("Failed to encode slack message to JSON", "error", err)
	}
}
