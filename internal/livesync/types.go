package livesync

import (
	"context"
	"errors"

	"github.com/rallydesk/rallydesk/internal/platform"
	"github.com/rallydesk/rallydesk/internal/scoring"
)

var (
	// ErrSaveInFlight is returned when a set submission is attempted while a
	// previous submission has not yet resolved.
	ErrSaveInFlight = errors.New("a save is already in flight")
	// ErrMatchNotLive is returned when points are entered for a match that is
	// not currently live.
	ErrMatchNotLive = errors.New("match is not live")
)

// Point entries are clamped to this range at the input boundary. Domain
// validation is still enforced on submission.
const (
	MinPoints = 0
	MaxPoints = 99
)

// SessionState describes where a scoring session is in its lifecycle.
type SessionState string

const (
	// StateIdle means no unsaved local edits exist for the current set.
	StateIdle SessionState = "idle"
	// StateEditing means local point edits exist that have not been submitted.
	StateEditing SessionState = "editing"
	// StateSaving means a set submission is in flight.
	StateSaving SessionState = "saving"
)

// RemoteUpdate is raised when a poll detects that the authoritative set
// history diverged from the local snapshot. By the time the handler runs the
// local session has already been replaced with the remote record.
type RemoteUpdate struct {
	MatchID string
	Record  platform.MatchRecord
}

// MatchService is the slice of the platform API a scoring session needs.
// platform.PlatformClient satisfies it.
type MatchService interface {
	GetMatch(ctx context.Context, matchID string) (platform.MatchRecord, error)
	GetScoringRules(ctx context.Context, tournamentID string) (scoring.Rules, error)
	SubmitSet(ctx context.Context, matchID string, set scoring.SetScore) (platform.MatchRecord, error)
}
