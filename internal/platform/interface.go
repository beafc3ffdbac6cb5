package platform

import (
	"context"

	"github.com/rallydesk/rallydesk/internal/scoring"
)

// PlatformClient defines the interface for interacting with the RallyDesk
// platform API. This allows for mock implementations to be used in tests.
type PlatformClient interface {
	ListMatches(ctx context.Context, tournamentID string) ([]MatchSummary, error)
	GetMatch(ctx context.Context, matchID string) (MatchRecord, error)
	GetScoringRules(ctx context.Context, tournamentID string) (scoring.Rules, error)
	StartMatch(ctx context.Context, matchID string) (MatchRecord, error)
	SubmitSet(ctx context.Context, matchID string, set scoring.SetScore) (MatchRecord, error)
	OverrideSet(ctx context.Context, matchID string, set scoring.SetScore) (MatchRecord, error)
}
