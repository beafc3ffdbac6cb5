package tournament

import (
	"sync"

	"github.com/rallydesk/rallydesk/internal/scoring"
)

// SaveMatchStateCall records one SaveMatchState invocation.
type SaveMatchStateCall struct {
	MatchID    string
	State      scoring.MatchState
	CurrentSet int
}

// MockStore is a mock implementation of the TournamentStore interface for
// testing. It is safe for concurrent use.
type MockStore struct {
	mu sync.Mutex

	// Spies for method calls
	UpsertPlayerFunc      func(player PlayerInfo) error
	GetPlayerFunc         func(playerID string) (*PlayerInfo, error)
	ListPlayersFunc       func(sport string) ([]PlayerInfo, error)
	DeletePlayerFunc      func(playerID string) error
	UpsertTeamFunc        func(team Team) error
	GetTeamFunc           func(teamID string) (*Team, error)
	ListTeamsFunc         func(sport string) ([]Team, error)
	DeleteTeamFunc        func(teamID string) error
	CreateTournamentFunc  func(t Tournament) error
	UpdateTournamentFunc  func(t Tournament) error
	GetTournamentFunc     func(tournamentID string) (*Tournament, error)
	ListTournamentsFunc   func() ([]Tournament, error)
	GetScoringRulesFunc   func(tournamentID string) (scoring.Rules, error)
	AddParticipantFunc    func(tournamentID, playerID string, seed int) error
	RemoveParticipantFunc func(tournamentID, playerID string) error
	ListParticipantsFunc  func(tournamentID string) ([]PlayerInfo, error)
	UpsertResourceFunc    func(r Resource) error
	ListResourcesFunc     func() ([]Resource, error)
	DeleteResourceFunc    func(resourceID string) error
	CreateMatchFunc       func(m *Match) error
	GetMatchFunc          func(matchID string) (*Match, error)
	ListMatchesFunc       func(tournamentID string) ([]Match, error)
	StartMatchFunc        func(matchID string) (*Match, error)
	SaveMatchStateFunc    func(matchID string, state scoring.MatchState, currentSet int) (*Match, error)
	LeaderboardFunc       func(sport string) ([]LeaderboardEntry, error)
	DashboardStatsFunc    func() (DashboardStats, error)

	// Call records
	UpsertPlayerCalls   []PlayerInfo
	UpsertTeamCalls     []Team
	CreateMatchCalls    []*Match
	StartMatchCalls     []string
	SaveMatchStateCalls []SaveMatchStateCall
	ClearCalls          int
	ClearMatchCalls     []string
}

// NewMockStore creates a new mock instance.
func NewMockStore() *MockStore {
	return &MockStore{}
}

func (m *MockStore) UpsertPlayer(player PlayerInfo) error {
	m.mu.Lock()
	m.UpsertPlayerCalls = append(m.UpsertPlayerCalls, player)
	fn := m.UpsertPlayerFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(player)
	}
	return nil
}

func (m *MockStore) GetPlayer(playerID string) (*PlayerInfo, error) {
	if m.GetPlayerFunc != nil {
		return m.GetPlayerFunc(playerID)
	}
	return nil, ErrNotFound
}

func (m *MockStore) ListPlayers(sport string) ([]PlayerInfo, error) {
	if m.ListPlayersFunc != nil {
		return m.ListPlayersFunc(sport)
	}
	return []PlayerInfo{}, nil
}

func (m *MockStore) DeletePlayer(playerID string) error {
	if m.DeletePlayerFunc != nil {
		return m.DeletePlayerFunc(playerID)
	}
	return nil
}

func (m *MockStore) UpsertTeam(team Team) error {
	m.mu.Lock()
	m.UpsertTeamCalls = append(m.UpsertTeamCalls, team)
	fn := m.UpsertTeamFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(team)
	}
	return nil
}

func (m *MockStore) GetTeam(teamID string) (*Team, error) {
	if m.GetTeamFunc != nil {
		return m.GetTeamFunc(teamID)
	}
	return nil, ErrNotFound
}

func (m *MockStore) ListTeams(sport string) ([]Team, error) {
	if m.ListTeamsFunc != nil {
		return m.ListTeamsFunc(sport)
	}
	return []Team{}, nil
}

func (m *MockStore) DeleteTeam(teamID string) error {
	if m.DeleteTeamFunc != nil {
		return m.DeleteTeamFunc(teamID)
	}
	return nil
}

func (m *MockStore) CreateTournament(t Tournament) error {
	if m.CreateTournamentFunc != nil {
		return m.CreateTournamentFunc(t)
	}
	return nil
}

func (m *MockStore) UpdateTournament(t Tournament) error {
	if m.UpdateTournamentFunc != nil {
		return m.UpdateTournamentFunc(t)
	}
	return nil
}

func (m *MockStore) GetTournament(tournamentID string) (*Tournament, error) {
	if m.GetTournamentFunc != nil {
		return m.GetTournamentFunc(tournamentID)
	}
	return nil, ErrNotFound
}

func (m *MockStore) ListTournaments() ([]Tournament, error) {
	if m.ListTournamentsFunc != nil {
		return m.ListTournamentsFunc()
	}
	return []Tournament{}, nil
}

func (m *MockStore) GetScoringRules(tournamentID string) (scoring.Rules, error) {
	if m.GetScoringRulesFunc != nil {
		return m.GetScoringRulesFunc(tournamentID)
	}
	return scoring.Rules{}, ErrNotFound
}

func (m *MockStore) AddParticipant(tournamentID, playerID string, seed int) error {
	if m.AddParticipantFunc != nil {
		return m.AddParticipantFunc(tournamentID, playerID, seed)
	}
	return nil
}

func (m *MockStore) RemoveParticipant(tournamentID, playerID string) error {
	if m.RemoveParticipantFunc != nil {
		return m.RemoveParticipantFunc(tournamentID, playerID)
	}
	return nil
}

func (m *MockStore) ListParticipants(tournamentID string) ([]PlayerInfo, error) {
	if m.ListParticipantsFunc != nil {
		return m.ListParticipantsFunc(tournamentID)
	}
	return []PlayerInfo{}, nil
}

func (m *MockStore) UpsertResource(r Resource) error {
	if m.UpsertResourceFunc != nil {
		return m.UpsertResourceFunc(r)
	}
	return nil
}

func (m *MockStore) ListResources() ([]Resource, error) {
	if m.ListResourcesFunc != nil {
		return m.ListResourcesFunc()
	}
	return []Resource{}, nil
}

func (m *MockStore) DeleteResource(resourceID string) error {
	if m.DeleteResourceFunc != nil {
		return m.DeleteResourceFunc(resourceID)
	}
	return nil
}

func (m *MockStore) CreateMatch(match *Match) error {
	m.mu.Lock()
	m.CreateMatchCalls = append(m.CreateMatchCalls, match)
	fn := m.CreateMatchFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(match)
	}
	return nil
}

func (m *MockStore) GetMatch(matchID string) (*Match, error) {
	if m.GetMatchFunc != nil {
		return m.GetMatchFunc(matchID)
	}
	return nil, ErrNotFound
}

func (m *MockStore) ListMatches(tournamentID string) ([]Match, error) {
	if m.ListMatchesFunc != nil {
		return m.ListMatchesFunc(tournamentID)
	}
	return []Match{}, nil
}

func (m *MockStore) StartMatch(matchID string) (*Match, error) {
	m.mu.Lock()
	m.StartMatchCalls = append(m.StartMatchCalls, matchID)
	fn := m.StartMatchFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(matchID)
	}
	return nil, ErrNotFound
}

func (m *MockStore) SaveMatchState(matchID string, state scoring.MatchState, currentSet int) (*Match, error) {
	m.mu.Lock()
	m.SaveMatchStateCalls = append(m.SaveMatchStateCalls, SaveMatchStateCall{MatchID: matchID, State: state, CurrentSet: currentSet})
	fn := m.SaveMatchStateFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(matchID, state, currentSet)
	}
	return nil, ErrNotFound
}

func (m *MockStore) Leaderboard(sport string) ([]LeaderboardEntry, error) {
	if m.LeaderboardFunc != nil {
		return m.LeaderboardFunc(sport)
	}
	return []LeaderboardEntry{}, nil
}

func (m *MockStore) DashboardStats() (DashboardStats, error) {
	if m.DashboardStatsFunc != nil {
		return m.DashboardStatsFunc()
	}
	return DashboardStats{}, nil
}

func (m *MockStore) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ClearCalls++
}

func (m *MockStore) ClearMatch(matchID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ClearMatchCalls = append(m.ClearMatchCalls, matchID)
}
