package platform

import (
	"errors"

	"github.com/rallydesk/rallydesk/internal/scoring"
)

var (
	// ErrNotFound is returned when the platform has no record of the match.
	ErrNotFound = errors.New("match not found")
	// ErrRejected is returned when the platform refuses an update, e.g. an
	// invalid score line or a write against a finished match.
	ErrRejected = errors.New("update rejected by platform")
)

// MatchSummary is the lightweight listing shape returned by ListMatches.
type MatchSummary struct {
	MatchID     string
	RoundNumber int
	MatchNumber int
	Status      scoring.MatchStatus
}

// MatchRecord is the authoritative view of a single match as held by the
// platform. Version increases monotonically with every accepted write, so
// two records of the same match can be ordered without comparing scores.
type MatchRecord struct {
	MatchID      string
	TournamentID string
	RoundNumber  int
	MatchNumber  int
	ResourceID   string
	CurrentSet   int
	Version      int64
	State        scoring.MatchState
}

// matchPayload mirrors the platform's JSON match representation.
type matchPayload struct {
	ID            string             `json:"id"`
	TournamentID  string             `json:"tournament_id"`
	RoundNumber   int                `json:"round_number"`
	MatchNumber   int                `json:"match_number"`
	Participant1  string             `json:"participant1_id"`
	Participant2  string             `json:"participant2_id"`
	ResourceID    string             `json:"resource_id,omitempty"`
	ScheduledTime int64              `json:"scheduled_time,omitempty"`
	Status        string             `json:"status"`
	Scores        []scoring.SetScore `json:"scores"`
	CurrentSet    int                `json:"current_set"`
	WinnerID      string             `json:"winner_id,omitempty"`
	Version       int64              `json:"version"`
}

func (p matchPayload) toRecord() MatchRecord {
	return MatchRecord{
		MatchID:      p.ID,
		TournamentID: p.TournamentID,
		RoundNumber:  p.RoundNumber,
		MatchNumber:  p.MatchNumber,
		ResourceID:   p.ResourceID,
		CurrentSet:   p.CurrentSet,
		Version:      p.Version,
		State: scoring.MatchState{
			Status:       scoring.MatchStatus(p.Status),
			Sets:         p.Scores,
			Participant1: p.Participant1,
			Participant2: p.Participant2,
			WinnerID:     p.WinnerID,
		},
	}
}

// setPayload is the request body for score and override submissions.
type setPayload struct {
	SetNumber int `json:"set_number"`
	Score1    int `json:"score1"`
	Score2    int `json:"score2"`
}

type errorPayload struct {
	Error string `json:"error"`
}
