package platform

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rallydesk/rallydesk/internal/scoring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetMatch(t *testing.T) {
	mockJSONResponse := `{
		"id": "match-abc",
		"tournament_id": "tourn-1",
		"round_number": 2,
		"match_number": 3,
		"participant1_id": "player-alice",
		"participant2_id": "player-bob",
		"resource_id": "table-4",
		"status": "live",
		"scores": [
			{ "set_number": 1, "score1": 11, "score2": 5 },
			{ "set_number": 2, "score1": 9, "score2": 11 }
		],
		"current_set": 3,
		"version": 7
	}`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/matches/match-abc", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintln(w, mockJSONResponse)
	}))
	defer server.Close()

	client := APIClient{
		httpClient: server.Client(),
		BaseURL:    server.URL,
	}

	match, err := client.GetMatch(context.Background(), "match-abc")

	require.NoError(t, err)
	assert.Equal(t, "match-abc", match.MatchID)
	assert.Equal(t, "tourn-1", match.TournamentID)
	assert.Equal(t, int64(7), match.Version)
	assert.Equal(t, 3, match.CurrentSet)
	assert.Equal(t, scoring.StatusLive, match.State.Status)
	assert.Equal(t, "player-alice", match.State.Participant1)
	require.Len(t, match.State.Sets, 2)
	assert.Equal(t, scoring.SetScore{SetNumber: 2, Score1: 9, Score2: 11}, match.State.Sets[1])
}

func TestGetMatchNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"match not found"}`, http.StatusNotFound)
	}))
	defer server.Close()

	client := APIClient{httpClient: server.Client(), BaseURL: server.URL}

	_, err := client.GetMatch(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetScoringRules(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/tournaments/tourn-1/rules", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintln(w, `{"sets_to_win": 3, "points_per_set": 11, "win_by_two": true}`)
	}))
	defer server.Close()

	client := APIClient{httpClient: server.Client(), BaseURL: server.URL}

	rules, err := client.GetScoringRules(context.Background(), "tourn-1")

	require.NoError(t, err)
	assert.Equal(t, scoring.Rules{SetsToWin: 3, PointsPerSet: 11, WinByTwo: true}, rules)
}

func TestSubmitSet(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/matches/match-abc/score", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintln(w, `{
			"id": "match-abc",
			"tournament_id": "tourn-1",
			"participant1_id": "player-alice",
			"participant2_id": "player-bob",
			"status": "live",
			"scores": [{ "set_number": 1, "score1": 11, "score2": 5 }],
			"current_set": 2,
			"version": 2
		}`)
	}))
	defer server.Close()

	client := APIClient{httpClient: server.Client(), BaseURL: server.URL}

	match, err := client.SubmitSet(context.Background(), "match-abc", scoring.SetScore{SetNumber: 1, Score1: 11, Score2: 5})

	require.NoError(t, err)
	assert.Equal(t, int64(2), match.Version)
	assert.Equal(t, 2, match.CurrentSet)
	require.Len(t, match.State.Sets, 1)
}

func TestSubmitSetRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprintln(w, `{"error":"set cannot end in a tie"}`)
	}))
	defer server.Close()

	client := APIClient{httpClient: server.Client(), BaseURL: server.URL}

	_, err := client.SubmitSet(context.Background(), "match-abc", scoring.SetScore{SetNumber: 1, Score1: 11, Score2: 11})

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRejected))
	assert.Contains(t, err.Error(), "set cannot end in a tie")
}

func TestListMatches(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/tournaments/tourn-1/matches", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintln(w, `[
			{ "id": "m1", "round_number": 1, "match_number": 1, "status": "completed" },
			{ "id": "m2", "round_number": 1, "match_number": 2, "status": "live" }
		]`)
	}))
	defer server.Close()

	client := APIClient{httpClient: server.Client(), BaseURL: server.URL}

	matches, err := client.ListMatches(context.Background(), "tourn-1")

	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "m1", matches[0].MatchID)
	assert.Equal(t, scoring.StatusLive, matches[1].Status)
}
