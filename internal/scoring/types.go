package scoring

import "errors"

var (
	// ErrInvalidScore is returned for negative points or a set ending in a tie.
	ErrInvalidScore = errors.New("invalid score")
	// ErrMatchDecided is returned when a new set is appended after the series
	// is already decided. Edits of existing sets go through ApplyOverride.
	ErrMatchDecided = errors.New("match already decided")
)

// Rules holds the per-competition scoring configuration. Immutable once a
// tournament is created.
type Rules struct {
	SetsToWin    int  `json:"sets_to_win"`
	PointsPerSet int  `json:"points_per_set"`
	WinByTwo     bool `json:"win_by_two"`
}

// Side identifies one of the two participants of a match.
type Side int

const (
	SideNone Side = 0
	Side1    Side = 1
	Side2    Side = 2
)

// SetScore is the recorded score of a single set. SetNumber is 1-based and
// contiguous within a match.
type SetScore struct {
	SetNumber int `json:"set_number"`
	Score1    int `json:"score1"`
	Score2    int `json:"score2"`
}

// MatchStatus is the lifecycle state of a match.
type MatchStatus string

const (
	StatusPending   MatchStatus = "pending"
	StatusScheduled MatchStatus = "scheduled"
	StatusLive      MatchStatus = "live"
	StatusCompleted MatchStatus = "completed"
)

// MatchState is the scoring-relevant projection of a match. WinnerID is set
// if and only if Status is completed.
type MatchState struct {
	Status       MatchStatus `json:"status"`
	Sets         []SetScore  `json:"sets"`
	Participant1 string      `json:"participant1_id"`
	Participant2 string      `json:"participant2_id"`
	WinnerID     string      `json:"winner_id,omitempty"`
}

// Evaluation is the combined answer for a scoreboard asking "where does this
// match stand" after a point is scored.
type Evaluation struct {
	SetComplete   bool
	MatchComplete bool
	Winner        Side
}
