package tournament

import (
	"database/sql"
	"errors"
	"sync"

	"github.com/rallydesk/rallydesk/internal/scoring"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// store handles all database operations for tournaments.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}

// PlayerInfo represents a registered player.
type PlayerInfo struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Sport         string `json:"sport"`
	Club          string `json:"club,omitempty"`
	MatchesPlayed int    `json:"matches_played"`
	MatchesWon    int    `json:"matches_won"`
	MatchesLost   int    `json:"matches_lost"`
	SetsWon       int    `json:"sets_won"`
	SetsLost      int    `json:"sets_lost"`
}

// Team is a fixed pairing of players competing together in doubles
// tournaments. Tally columns mirror PlayerInfo so match results book against
// either collection the same way.
type Team struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Sport         string   `json:"sport"`
	PlayerIDs     []string `json:"player_ids"`
	MatchesPlayed int      `json:"matches_played"`
	MatchesWon    int      `json:"matches_won"`
	MatchesLost   int      `json:"matches_lost"`
	SetsWon       int      `json:"sets_won"`
	SetsLost      int      `json:"sets_lost"`
}

// Match type of a tournament: singles matches are played between players,
// doubles matches between teams.
const (
	MatchTypeSingles = "singles"
	MatchTypeDoubles = "doubles"
)

// Tournament represents a competition with its scoring rules.
type Tournament struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Sport     string        `json:"sport"`
	Status    string        `json:"status"`
	MatchType string        `json:"match_type"`
	Rules     scoring.Rules `json:"rules"`
	StartTime int64         `json:"start_time,omitempty"`
	CreatedAt int64         `json:"created_at"`
}

// Resource is a playable surface matches are scheduled on, e.g. a table or
// court.
type Resource struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// Match is the authoritative server-side record of a single match. Version
// increases monotonically with every accepted write so clients can order
// records and discard stale responses.
type Match struct {
	ID            string              `json:"id"`
	TournamentID  string              `json:"tournament_id"`
	RoundNumber   int                 `json:"round_number"`
	MatchNumber   int                 `json:"match_number"`
	Participant1  string              `json:"participant1_id"`
	Participant2  string              `json:"participant2_id"`
	ResourceID    string              `json:"resource_id,omitempty"`
	ScheduledTime int64               `json:"scheduled_time,omitempty"`
	Status        scoring.MatchStatus `json:"status"`
	Sets          []scoring.SetScore  `json:"scores"`
	CurrentSet    int                 `json:"current_set"`
	WinnerID      string              `json:"winner_id,omitempty"`
	Version       int64               `json:"version"`
}

// State projects the match into the scoring engine's shape.
func (m *Match) State() scoring.MatchState {
	return scoring.MatchState{
		Status:       m.Status,
		Sets:         m.Sets,
		Participant1: m.Participant1,
		Participant2: m.Participant2,
		WinnerID:     m.WinnerID,
	}
}

// LeaderboardEntry represents a player's standing within a sport.
type LeaderboardEntry struct {
	PlayerID      string  `json:"player_id"`
	PlayerName    string  `json:"player_name"`
	MatchesPlayed int     `json:"matches_played"`
	MatchesWon    int     `json:"matches_won"`
	MatchesLost   int     `json:"matches_lost"`
	SetsWon       int     `json:"sets_won"`
	SetsLost      int     `json:"sets_lost"`
	WinPercentage float64 `json:"win_percentage"`
}

// DashboardStats is the aggregate view shown on the operator dashboard.
type DashboardStats struct {
	Tournaments       int `json:"tournaments"`
	ActiveTournaments int `json:"active_tournaments"`
	Players           int `json:"players"`
	Teams             int `json:"teams"`
	Matches           int `json:"matches"`
	LiveMatches       int `json:"live_matches"`
	CompletedMatches  int `json:"completed_matches"`
}
