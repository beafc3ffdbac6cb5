package notifier

import (
	"github.com/rallydesk/rallydesk/internal/tournament"
)

// Notifier defines a high-level interface for sending notifications about business events.
// This decouples the rest of the application from the specific notification provider (e.g., Slack).
type Notifier interface {
	// For matches going live
	SendMatchStartedNotification(match *tournament.Match, names map[string]string, dryRun bool) error
	// For completed matches
	SendResultNotification(match *tournament.Match, names map[string]string, dryRun bool) error
	// For corrected results
	SendOverrideNotification(match *tournament.Match, names map[string]string, dryRun bool) error
	// For slash commands
	SendLeaderboard(entries []tournament.LeaderboardEntry, dryRun bool) error

	// For formatting responses for slash commands
	FormatLeaderboardResponse(entries []tournament.LeaderboardEntry) (any, error)
}
