package tournament_test

import (
	"testing"
	"time"

	"github.com/rallydesk/rallydesk/internal/database"
	"github.com/rallydesk/rallydesk/internal/scoring"
	"github.com/rallydesk/rallydesk/internal/tournament"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var tableTennisRules = scoring.Rules{SetsToWin: 3, PointsPerSet: 11, WinByTwo: true}

// setupTestDB creates a temporary in-memory SQLite database for testing.
func setupTestDB(t *testing.T) (tournament.TournamentStore, func()) {
	t.Helper()

	db, dbTeardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)

	store := tournament.New(db)
	return store, dbTeardown
}

// seedMatch registers two players, a tournament, and one scheduled match.
func seedMatch(t *testing.T, store tournament.TournamentStore) *tournament.Match {
	t.Helper()

	require.NoError(t, store.UpsertPlayer(tournament.PlayerInfo{ID: "player-alice", Name: "Alice", Sport: "table-tennis"}))
	require.NoError(t, store.UpsertPlayer(tournament.PlayerInfo{ID: "player-bob", Name: "Bob", Sport: "table-tennis"}))
	require.NoError(t, store.CreateTournament(tournament.Tournament{
		ID:        "tourn-1",
		Name:      "Spring Open",
		Sport:     "table-tennis",
		Status:    "active",
		Rules:     tableTennisRules,
		CreatedAt: time.Now().Unix(),
	}))
	require.NoError(t, store.AddParticipant("tourn-1", "player-alice", 1))
	require.NoError(t, store.AddParticipant("tourn-1", "player-bob", 2))

	match := &tournament.Match{
		ID:           "match-1",
		TournamentID: "tourn-1",
		RoundNumber:  1,
		MatchNumber:  1,
		Participant1: "player-alice",
		Participant2: "player-bob",
	}
	require.NoError(t, store.CreateMatch(match))
	return match
}

func TestUpsertAndListPlayers(t *testing.T) {
	store, teardown := setupTestDB(t)
	defer teardown()

	require.NoError(t, store.UpsertPlayer(tournament.PlayerInfo{ID: "p1", Name: "Alice", Sport: "table-tennis"}))
	require.NoError(t, store.UpsertPlayer(tournament.PlayerInfo{ID: "p2", Name: "Bob", Sport: "padel"}))
	require.NoError(t, store.UpsertPlayer(tournament.PlayerInfo{ID: "p1", Name: "Alice B", Sport: "table-tennis"}))

	all, err := store.ListPlayers("")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	tt, err := store.ListPlayers("table-tennis")
	require.NoError(t, err)
	require.Len(t, tt, 1)
	assert.Equal(t, "Alice B", tt[0].Name, "upsert should update the name")

	player, err := store.GetPlayer("p2")
	require.NoError(t, err)
	assert.Equal(t, "Bob", player.Name)

	_, err = store.GetPlayer("missing")
	assert.ErrorIs(t, err, tournament.ErrNotFound)
}

func TestTournamentRules(t *testing.T) {
	store, teardown := setupTestDB(t)
	defer teardown()

	require.NoError(t, store.CreateTournament(tournament.Tournament{
		ID:    "tourn-1",
		Name:  "Spring Open",
		Sport: "table-tennis",
		Rules: tableTennisRules,
	}))

	rules, err := store.GetScoringRules("tourn-1")
	require.NoError(t, err)
	assert.Equal(t, tableTennisRules, rules)

	_, err = store.GetScoringRules("missing")
	assert.ErrorIs(t, err, tournament.ErrNotFound)

	got, err := store.GetTournament("tourn-1")
	require.NoError(t, err)
	assert.Equal(t, "Spring Open", got.Name)
	assert.Equal(t, tableTennisRules, got.Rules)
}

func TestStartMatch(t *testing.T) {
	store, teardown := setupTestDB(t)
	defer teardown()
	seedMatch(t, store)

	match, err := store.StartMatch("match-1")
	require.NoError(t, err)
	assert.Equal(t, scoring.StatusLive, match.Status)
	assert.Equal(t, int64(2), match.Version)

	// Starting again is a no-op.
	again, err := store.StartMatch("match-1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), again.Version)
}

func TestSaveMatchStateBumpsVersion(t *testing.T) {
	store, teardown := setupTestDB(t)
	defer teardown()
	seedMatch(t, store)

	_, err := store.StartMatch("match-1")
	require.NoError(t, err)

	state := scoring.MatchState{
		Status:       scoring.StatusLive,
		Sets:         []scoring.SetScore{{SetNumber: 1, Score1: 11, Score2: 5}},
		Participant1: "player-alice",
		Participant2: "player-bob",
	}
	saved, err := store.SaveMatchState("match-1", state, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), saved.Version)
	assert.Equal(t, 2, saved.CurrentSet)

	got, err := store.GetMatch("match-1")
	require.NoError(t, err)
	require.Len(t, got.Sets, 1)
	assert.Equal(t, scoring.SetScore{SetNumber: 1, Score1: 11, Score2: 5}, got.Sets[0])
}

func TestSaveMatchStateRecordsAndRevertsTallies(t *testing.T) {
	store, teardown := setupTestDB(t)
	defer teardown()
	seedMatch(t, store)

	_, err := store.StartMatch("match-1")
	require.NoError(t, err)

	completed := scoring.MatchState{
		Status: scoring.StatusCompleted,
		Sets: []scoring.SetScore{
			{SetNumber: 1, Score1: 11, Score2: 5},
			{SetNumber: 2, Score1: 11, Score2: 7},
			{SetNumber: 3, Score1: 11, Score2: 9},
		},
		Participant1: "player-alice",
		Participant2: "player-bob",
		WinnerID:     "player-alice",
	}
	_, err = store.SaveMatchState("match-1", completed, 3)
	require.NoError(t, err)

	alice, err := store.GetPlayer("player-alice")
	require.NoError(t, err)
	assert.Equal(t, 1, alice.MatchesPlayed)
	assert.Equal(t, 1, alice.MatchesWon)
	assert.Equal(t, 3, alice.SetsWon)
	assert.Equal(t, 0, alice.SetsLost)

	bob, err := store.GetPlayer("player-bob")
	require.NoError(t, err)
	assert.Equal(t, 1, bob.MatchesLost)
	assert.Equal(t, 3, bob.SetsLost)

	// An override flips set 2 and reverts the match to live; the recorded
	// win/loss must be backed out.
	reverted := completed
	reverted.Status = scoring.StatusLive
	reverted.Sets = []scoring.SetScore{
		{SetNumber: 1, Score1: 11, Score2: 5},
		{SetNumber: 2, Score1: 7, Score2: 11},
		{SetNumber: 3, Score1: 11, Score2: 9},
	}
	reverted.WinnerID = ""
	_, err = store.SaveMatchState("match-1", reverted, 4)
	require.NoError(t, err)

	alice, err = store.GetPlayer("player-alice")
	require.NoError(t, err)
	assert.Equal(t, 0, alice.MatchesPlayed)
	assert.Equal(t, 0, alice.MatchesWon)
	assert.Equal(t, 0, alice.SetsWon)

	bob, err = store.GetPlayer("player-bob")
	require.NoError(t, err)
	assert.Equal(t, 0, bob.MatchesLost)
	assert.Equal(t, 0, bob.SetsLost)
}

func TestLeaderboard(t *testing.T) {
	store, teardown := setupTestDB(t)
	defer teardown()
	seedMatch(t, store)

	_, err := store.StartMatch("match-1")
	require.NoError(t, err)

	completed := scoring.MatchState{
		Status: scoring.StatusCompleted,
		Sets: []scoring.SetScore{
			{SetNumber: 1, Score1: 11, Score2: 5},
			{SetNumber: 2, Score1: 9, Score2: 11},
			{SetNumber: 3, Score1: 11, Score2: 7},
			{SetNumber: 4, Score1: 11, Score2: 8},
		},
		Participant1: "player-alice",
		Participant2: "player-bob",
		WinnerID:     "player-alice",
	}
	_, err = store.SaveMatchState("match-1", completed, 5)
	require.NoError(t, err)

	entries, err := store.Leaderboard("table-tennis")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "player-alice", entries[0].PlayerID)
	assert.Equal(t, 3, entries[0].SetsWon)
	assert.Equal(t, 1, entries[0].SetsLost)
	assert.InDelta(t, 100.0, entries[0].WinPercentage, 0.001)
	assert.Equal(t, "player-bob", entries[1].PlayerID)
	assert.InDelta(t, 0.0, entries[1].WinPercentage, 0.001)

	empty, err := store.Leaderboard("padel")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestListMatchesAndParticipants(t *testing.T) {
	store, teardown := setupTestDB(t)
	defer teardown()
	seedMatch(t, store)

	second := &tournament.Match{
		ID:           "match-2",
		TournamentID: "tourn-1",
		RoundNumber:  1,
		MatchNumber:  2,
		Participant1: "player-bob",
		Participant2: "player-alice",
	}
	require.NoError(t, store.CreateMatch(second))

	matches, err := store.ListMatches("tourn-1")
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "match-1", matches[0].ID)
	assert.Equal(t, scoring.StatusScheduled, matches[0].Status)

	participants, err := store.ListParticipants("tourn-1")
	require.NoError(t, err)
	require.Len(t, participants, 2)
	assert.Equal(t, "player-alice", participants[0].ID, "participants come back in seed order")
}

func TestDashboardStatsAndClear(t *testing.T) {
	store, teardown := setupTestDB(t)
	defer teardown()
	seedMatch(t, store)
	require.NoError(t, store.UpsertTeam(tournament.Team{ID: "team-a", Name: "Team A", Sport: "padel"}))

	_, err := store.StartMatch("match-1")
	require.NoError(t, err)

	stats, err := store.DashboardStats()
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Tournaments)
	assert.Equal(t, 1, stats.ActiveTournaments)
	assert.Equal(t, 2, stats.Players)
	assert.Equal(t, 1, stats.Teams)
	assert.Equal(t, 1, stats.Matches)
	assert.Equal(t, 1, stats.LiveMatches)
	assert.Equal(t, 0, stats.CompletedMatches)

	store.ClearMatch("match-1")
	_, err = store.GetMatch("match-1")
	assert.ErrorIs(t, err, tournament.ErrNotFound)

	store.Clear()
	stats, err = store.DashboardStats()
	require.NoError(t, err)
	assert.Equal(t, tournament.DashboardStats{}, stats)
}

func TestTeams(t *testing.T) {
	store, teardown := setupTestDB(t)
	defer teardown()

	require.NoError(t, store.UpsertTeam(tournament.Team{
		ID:        "team-aces",
		Name:      "The Aces",
		Sport:     "padel",
		PlayerIDs: []string{"p1", "p2"},
	}))
	require.NoError(t, store.UpsertTeam(tournament.Team{
		ID:    "team-smash",
		Name:  "Smash Bros",
		Sport: "table-tennis",
	}))
	// Upsert with the same id swaps the roster without touching tallies.
	require.NoError(t, store.UpsertTeam(tournament.Team{
		ID:        "team-aces",
		Name:      "The Aces",
		Sport:     "padel",
		PlayerIDs: []string{"p1", "p3"},
	}))

	all, err := store.ListTeams("")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	padel, err := store.ListTeams("padel")
	require.NoError(t, err)
	require.Len(t, padel, 1)
	assert.Equal(t, []string{"p1", "p3"}, padel[0].PlayerIDs)

	team, err := store.GetTeam("team-smash")
	require.NoError(t, err)
	assert.Equal(t, "Smash Bros", team.Name)
	assert.Empty(t, team.PlayerIDs)

	require.NoError(t, store.DeleteTeam("team-smash"))
	_, err = store.GetTeam("team-smash")
	assert.ErrorIs(t, err, tournament.ErrNotFound)
	assert.ErrorIs(t, store.DeleteTeam("team-smash"), tournament.ErrNotFound)
}

func TestDoublesTalliesBookAgainstTeams(t *testing.T) {
	store, teardown := setupTestDB(t)
	defer teardown()

	require.NoError(t, store.UpsertTeam(tournament.Team{ID: "team-a", Name: "Team A", Sport: "padel", PlayerIDs: []string{"p1", "p2"}}))
	require.NoError(t, store.UpsertTeam(tournament.Team{ID: "team-b", Name: "Team B", Sport: "padel", PlayerIDs: []string{"p3", "p4"}}))
	require.NoError(t, store.CreateTournament(tournament.Tournament{
		ID:        "tourn-d",
		Name:      "Doubles Cup",
		Sport:     "padel",
		Status:    "active",
		MatchType: tournament.MatchTypeDoubles,
		Rules:     scoring.Rules{SetsToWin: 2, PointsPerSet: 6, WinByTwo: true},
	}))

	match := &tournament.Match{
		ID:           "match-d1",
		TournamentID: "tourn-d",
		RoundNumber:  1,
		MatchNumber:  1,
		Participant1: "team-a",
		Participant2: "team-b",
	}
	require.NoError(t, store.CreateMatch(match))
	_, err := store.StartMatch("match-d1")
	require.NoError(t, err)

	completed := scoring.MatchState{
		Status: scoring.StatusCompleted,
		Sets: []scoring.SetScore{
			{SetNumber: 1, Score1: 6, Score2: 3},
			{SetNumber: 2, Score1: 6, Score2: 4},
		},
		Participant1: "team-a",
		Participant2: "team-b",
		WinnerID:     "team-a",
	}
	_, err = store.SaveMatchState("match-d1", completed, 2)
	require.NoError(t, err)

	teamA, err := store.GetTeam("team-a")
	require.NoError(t, err)
	assert.Equal(t, 1, teamA.MatchesPlayed)
	assert.Equal(t, 1, teamA.MatchesWon)
	assert.Equal(t, 2, teamA.SetsWon)

	teamB, err := store.GetTeam("team-b")
	require.NoError(t, err)
	assert.Equal(t, 1, teamB.MatchesLost)
	assert.Equal(t, 2, teamB.SetsLost)

	// Reverting to live backs the team tallies out again.
	reverted := completed
	reverted.Status = scoring.StatusLive
	reverted.WinnerID = ""
	_, err = store.SaveMatchState("match-d1", reverted, 3)
	require.NoError(t, err)

	teamA, err = store.GetTeam("team-a")
	require.NoError(t, err)
	assert.Equal(t, 0, teamA.MatchesPlayed)
	assert.Equal(t, 0, teamA.MatchesWon)

	teamB, err = store.GetTeam("team-b")
	require.NoError(t, err)
	assert.Equal(t, 0, teamB.MatchesLost)
	assert.Equal(t, 0, teamB.SetsLost)
}

func TestUpdateTournament(t *testing.T) {
	store, teardown := setupTestDB(t)
	defer teardown()
	seedMatch(t, store)

	got, err := store.GetTournament("tourn-1")
	require.NoError(t, err)

	updated := *got
	updated.Name = "Spring Open II"
	updated.Status = "completed"
	require.NoError(t, store.UpdateTournament(updated))

	got, err = store.GetTournament("tourn-1")
	require.NoError(t, err)
	assert.Equal(t, "Spring Open II", got.Name)
	assert.Equal(t, "completed", got.Status)
	assert.Equal(t, tournament.MatchTypeSingles, got.MatchType)

	updated.ID = "missing"
	assert.ErrorIs(t, store.UpdateTournament(updated), tournament.ErrNotFound)
}

func TestDeleteVerbs(t *testing.T) {
	store, teardown := setupTestDB(t)
	defer teardown()
	seedMatch(t, store)

	require.NoError(t, store.RemoveParticipant("tourn-1", "player-bob"))
	participants, err := store.ListParticipants("tourn-1")
	require.NoError(t, err)
	require.Len(t, participants, 1)
	assert.Equal(t, "player-alice", participants[0].ID)
	assert.ErrorIs(t, store.RemoveParticipant("tourn-1", "player-bob"), tournament.ErrNotFound)

	require.NoError(t, store.DeletePlayer("player-bob"))
	_, err = store.GetPlayer("player-bob")
	assert.ErrorIs(t, err, tournament.ErrNotFound)
	assert.ErrorIs(t, store.DeletePlayer("player-bob"), tournament.ErrNotFound)

	require.NoError(t, store.UpsertResource(tournament.Resource{ID: "r1", Name: "Court 1", Type: "court"}))
	require.NoError(t, store.DeleteResource("r1"))
	resources, err := store.ListResources()
	require.NoError(t, err)
	assert.Empty(t, resources)
	assert.ErrorIs(t, store.DeleteResource("r1"), tournament.ErrNotFound)
}

func TestResources(t *testing.T) {
	store, teardown := setupTestDB(t)
	defer teardown()

	require.NoError(t, store.UpsertResource(tournament.Resource{ID: "r1", Name: "Table 1", Type: "table"}))
	require.NoError(t, store.UpsertResource(tournament.Resource{ID: "r1", Name: "Table 1A", Type: "table"}))

	resources, err := store.ListResources()
	require.NoError(t, err)
	require.Len(t, resources, 1)
	assert.Equal(t, "Table 1A", resources[0].Name)
}
