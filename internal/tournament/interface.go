package tournament

import "github.com/rallydesk/rallydesk/internal/scoring"

// TournamentStore defines the interface for interacting with tournament data.
type TournamentStore interface {
	UpsertPlayer(player PlayerInfo) error
	GetPlayer(playerID string) (*PlayerInfo, error)
	ListPlayers(sport string) ([]PlayerInfo, error)
	DeletePlayer(playerID string) error

	UpsertTeam(team Team) error
	GetTeam(teamID string) (*Team, error)
	ListTeams(sport string) ([]Team, error)
	DeleteTeam(teamID string) error

	CreateTournament(t Tournament) error
	UpdateTournament(t Tournament) error
	GetTournament(tournamentID string) (*Tournament, error)
	ListTournaments() ([]Tournament, error)
	GetScoringRules(tournamentID string) (scoring.Rules, error)
	AddParticipant(tournamentID, playerID string, seed int) error
	RemoveParticipant(tournamentID, playerID string) error
	ListParticipants(tournamentID string) ([]PlayerInfo, error)

	UpsertResource(r Resource) error
	ListResources() ([]Resource, error)
	DeleteResource(resourceID string) error

	CreateMatch(m *Match) error
	GetMatch(matchID string) (*Match, error)
	ListMatches(tournamentID string) ([]Match, error)
	StartMatch(matchID string) (*Match, error)
	SaveMatchState(matchID string, state scoring.MatchState, currentSet int) (*Match, error)

	Leaderboard(sport string) ([]LeaderboardEntry, error)
	DashboardStats() (DashboardStats, error)

	Clear()
	ClearMatch(matchID string)
}
