package platform

import (
	"context"
	"sync"

	"github.com/rallydesk/rallydesk/internal/scoring"
)

// MockClient is a mock implementation of the PlatformClient interface for
// testing. It is safe for concurrent use; the stub functions are invoked
// outside the lock so a stub may block without wedging other calls.
type MockClient struct {
	mu sync.Mutex

	// Spies for method calls
	ListMatchesFunc     func(tournamentID string) ([]MatchSummary, error)
	GetMatchFunc        func(matchID string) (MatchRecord, error)
	GetScoringRulesFunc func(tournamentID string) (scoring.Rules, error)
	StartMatchFunc      func(matchID string) (MatchRecord, error)
	SubmitSetFunc       func(matchID string, set scoring.SetScore) (MatchRecord, error)
	OverrideSetFunc     func(matchID string, set scoring.SetScore) (MatchRecord, error)

	// Call records
	ListMatchesCalls     []string
	GetMatchCalls        []string
	GetScoringRulesCalls []string
	StartMatchCalls      []string
	SubmitSetCalls       []scoring.SetScore
	OverrideSetCalls     []scoring.SetScore
}

// NewMockClient creates a new mock instance.
func NewMockClient() *MockClient {
	return &MockClient{}
}

// Reset clears all call records.
func (m *MockClient) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ListMatchesCalls = nil
	m.GetMatchCalls = nil
	m.GetScoringRulesCalls = nil
	m.StartMatchCalls = nil
	m.SubmitSetCalls = nil
	m.OverrideSetCalls = nil
}

func (m *MockClient) ListMatches(_ context.Context, tournamentID string) ([]MatchSummary, error) {
	m.mu.Lock()
	m.ListMatchesCalls = append(m.ListMatchesCalls, tournamentID)
	fn := m.ListMatchesFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(tournamentID)
	}
	return []MatchSummary{}, nil
}

func (m *MockClient) GetMatch(_ context.Context, matchID string) (MatchRecord, error) {
	m.mu.Lock()
	m.GetMatchCalls = append(m.GetMatchCalls, matchID)
	fn := m.GetMatchFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(matchID)
	}
	return MatchRecord{}, nil
}

func (m *MockClient) GetScoringRules(_ context.Context, tournamentID string) (scoring.Rules, error) {
	m.mu.Lock()
	m.GetScoringRulesCalls = append(m.GetScoringRulesCalls, tournamentID)
	fn := m.GetScoringRulesFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(tournamentID)
	}
	return scoring.Rules{}, nil
}

func (m *MockClient) StartMatch(_ context.Context, matchID string) (MatchRecord, error) {
	m.mu.Lock()
	m.StartMatchCalls = append(m.StartMatchCalls, matchID)
	fn := m.StartMatchFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(matchID)
	}
	return MatchRecord{}, nil
}

func (m *MockClient) SubmitSet(_ context.Context, matchID string, set scoring.SetScore) (MatchRecord, error) {
	m.mu.Lock()
	m.SubmitSetCalls = append(m.SubmitSetCalls, set)
	fn := m.SubmitSetFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(matchID, set)
	}
	return MatchRecord{}, nil
}

func (m *MockClient) OverrideSet(_ context.Context, matchID string, set scoring.SetScore) (MatchRecord, error) {
	m.mu.Lock()
	m.OverrideSetCalls = append(m.OverrideSetCalls, set)
	fn := m.OverrideSetFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(matchID, set)
	}
	return MatchRecord{}, nil
}

// SubmitSetCount returns the number of recorded SubmitSet calls.
func (m *MockClient) SubmitSetCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.SubmitSetCalls)
}
