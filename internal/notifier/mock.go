package notifier

import (
	"sync"

	"github.com/rallydesk/rallydesk/internal/tournament"
)

// Mock is a mock implementation of the Notifier interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	// Call records
	SendMatchStartedNotificationCalls []*tournament.Match
	SendResultNotificationCalls       []*tournament.Match
	SendOverrideNotificationCalls     []*tournament.Match
	SendLeaderboardCalls              [][]tournament.LeaderboardEntry

	// Spies for format functions
	FormatLeaderboardResponseFunc func(entries []tournament.LeaderboardEntry) (any, error)

	LastLeaderboardResponse any
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

// Reset clears all call records.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendMatchStartedNotificationCalls = nil
	m.SendResultNotificationCalls = nil
	m.SendOverrideNotificationCalls = nil
	m.SendLeaderboardCalls = nil
	m.LastLeaderboardResponse = nil
}

func (m *Mock) SendMatchStartedNotification(match *tournament.Match, names map[string]string, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendMatchStartedNotificationCalls = append(m.SendMatchStartedNotificationCalls, match)
	return nil
}

func (m *Mock) SendResultNotification(match *tournament.Match, names map[string]string, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendResultNotificationCalls = append(m.SendResultNotificationCalls, match)
	return nil
}

func (m *Mock) SendOverrideNotification(match *tournament.Match, names map[string]string, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendOverrideNotificationCalls = append(m.SendOverrideNotificationCalls, match)
	return nil
}

func (m *Mock) SendLeaderboard(entries []tournament.LeaderboardEntry, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendLeaderboardCalls = append(m.SendLeaderboardCalls, entries)
	return nil
}

func (m *Mock) FormatLeaderboardResponse(entries []tournament.LeaderboardEntry) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FormatLeaderboardResponseFunc != nil {
		resp, err := m.FormatLeaderboardResponseFunc(entries)
		m.LastLeaderboardResponse = resp
		return resp, err
	}
	m.LastLeaderboardResponse = entries
	return entries, nil
}
