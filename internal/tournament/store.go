package tournament

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/rallydesk/rallydesk/internal/scoring"
)

// New creates a new TournamentStore.
func New(db *sql.DB) TournamentStore {
	return &store{
		db: db,
	}
}

// UpsertPlayer inserts a new player or updates their name/sport/club. Tally
// columns are never touched by the upsert; they only move with match results.
func (s *store) UpsertPlayer(player PlayerInfo) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO players (id, name, sport, club)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			sport = excluded.sport,
			club = excluded.club;
	`, player.ID, player.Name, player.Sport, player.Club)
	return err
}

// GetPlayer retrieves a single player by ID.
func (s *store) GetPlayer(playerID string) (*PlayerInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow(`
		SELECT id, name, sport, club, matches_played, matches_won, matches_lost, sets_won, sets_lost
		FROM players WHERE id = ?
	`, playerID)
	return scanPlayer(row)
}

// ListPlayers retrieves all players, optionally filtered by sport.
func (s *store) ListPlayers(sport string) ([]PlayerInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, name, sport, club, matches_played, matches_won, matches_lost, sets_won, sets_lost
		FROM players
	`
	args := []any{}
	if sport != "" {
		query += " WHERE sport = ?"
		args = append(args, sport)
	}
	query += " ORDER BY name"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var players []PlayerInfo
	for rows.Next() {
		player, err := scanPlayer(rows)
		if err != nil {
			log.Error("Failed to scan player row", "error", err)
			continue
		}
		players = append(players, *player)
	}
	return players, rows.Err()
}

// DeletePlayer removes a player. Recorded match rows keep referencing the old
// ID; tallies are not rewritten.
func (s *store) DeletePlayer(playerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec("DELETE FROM players WHERE id = ?", playerID)
	if err != nil {
		return err
	}
	return errIfNoRows(res)
}

// UpsertTeam inserts a new team or updates its name/sport/roster. Tally
// columns only move with match results, same as players.
func (s *store) UpsertTeam(team Team) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	playerIDs, err := json.Marshal(team.PlayerIDs)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(`
		INSERT INTO teams (id, name, sport, player_ids_json)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			sport = excluded.sport,
			player_ids_json = excluded.player_ids_json;
	`, team.ID, team.Name, team.Sport, playerIDs)
	return err
}

// GetTeam retrieves a single team by ID.
func (s *store) GetTeam(teamID string) (*Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow(`
		SELECT id, name, sport, player_ids_json, matches_played, matches_won, matches_lost, sets_won, sets_lost
		FROM teams WHERE id = ?
	`, teamID)
	return scanTeam(row)
}

// ListTeams retrieves all teams, optionally filtered by sport.
func (s *store) ListTeams(sport string) ([]Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, name, sport, player_ids_json, matches_played, matches_won, matches_lost, sets_won, sets_lost
		FROM teams
	`
	args := []any{}
	if sport != "" {
		query += " WHERE sport = ?"
		args = append(args, sport)
	}
	query += " ORDER BY name"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var teams []Team
	for rows.Next() {
		team, err := scanTeam(rows)
		if err != nil {
			log.Error("Failed to scan team row", "error", err)
			continue
		}
		teams = append(teams, *team)
	}
	return teams, rows.Err()
}

// DeleteTeam removes a team.
func (s *store) DeleteTeam(teamID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec("DELETE FROM teams WHERE id = ?", teamID)
	if err != nil {
		return err
	}
	return errIfNoRows(res)
}

// CreateTournament inserts a new tournament with its scoring rules.
func (s *store) CreateTournament(t Tournament) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t.MatchType == "" {
		t.MatchType = MatchTypeSingles
	}
	_, err := s.db.Exec(`
		INSERT INTO tournaments (id, name, sport, status, match_type, sets_to_win, points_per_set, win_by_two, start_time, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, t.ID, t.Name, t.Sport, t.Status, t.MatchType, t.Rules.SetsToWin, t.Rules.PointsPerSet, t.Rules.WinByTwo, t.StartTime, t.CreatedAt)
	return err
}

// UpdateTournament replaces a tournament's mutable fields. The creation
// timestamp is kept.
func (s *store) UpdateTournament(t Tournament) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`
		UPDATE tournaments SET name = ?, sport = ?, status = ?, match_type = ?,
			sets_to_win = ?, points_per_set = ?, win_by_two = ?, start_time = ?
		WHERE id = ?
	`, t.Name, t.Sport, t.Status, t.MatchType, t.Rules.SetsToWin, t.Rules.PointsPerSet, t.Rules.WinByTwo, t.StartTime, t.ID)
	if err != nil {
		return err
	}
	return errIfNoRows(res)
}

// GetTournament retrieves a single tournament by ID.
func (s *store) GetTournament(tournamentID string) (*Tournament, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow(`
		SELECT id, name, sport, status, match_type, sets_to_win, points_per_set, win_by_two, start_time, created_at
		FROM tournaments WHERE id = ?
	`, tournamentID)
	return scanTournament(row)
}

// ListTournaments retrieves all tournaments, newest first.
func (s *store) ListTournaments() ([]Tournament, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT id, name, sport, status, match_type, sets_to_win, points_per_set, win_by_two, start_time, created_at
		FROM tournaments ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tournaments []Tournament
	for rows.Next() {
		t, err := scanTournament(rows)
		if err != nil {
			log.Error("Failed to scan tournament row", "error", err)
			continue
		}
		tournaments = append(tournaments, *t)
	}
	return tournaments, rows.Err()
}

// GetScoringRules retrieves just the scoring rules for a tournament.
func (s *store) GetScoringRules(tournamentID string) (scoring.Rules, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var rules scoring.Rules
	err := s.db.QueryRow(`
		SELECT sets_to_win, points_per_set, win_by_two FROM tournaments WHERE id = ?
	`, tournamentID).Scan(&rules.SetsToWin, &rules.PointsPerSet, &rules.WinByTwo)
	if err == sql.ErrNoRows {
		return scoring.Rules{}, ErrNotFound
	}
	return rules, err
}

// AddParticipant registers a player in a tournament.
func (s *store) AddParticipant(tournamentID, playerID string, seed int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO tournament_participants (tournament_id, player_id, seed)
		VALUES (?, ?, ?)
		ON CONFLICT(tournament_id, player_id) DO UPDATE SET seed = excluded.seed;
	`, tournamentID, playerID, seed)
	return err
}

// RemoveParticipant withdraws a player from a tournament.
func (s *store) RemoveParticipant(tournamentID, playerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`
		DELETE FROM tournament_participants WHERE tournament_id = ? AND player_id = ?
	`, tournamentID, playerID)
	if err != nil {
		return err
	}
	return errIfNoRows(res)
}

// ListParticipants retrieves a tournament's players in seed order.
func (s *store) ListParticipants(tournamentID string) ([]PlayerInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT p.id, p.name, p.sport, p.club, p.matches_played, p.matches_won, p.matches_lost, p.sets_won, p.sets_lost
		FROM players p
		JOIN tournament_participants tp ON tp.player_id = p.id
		WHERE tp.tournament_id = ?
		ORDER BY tp.seed, p.name
	`, tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var players []PlayerInfo
	for rows.Next() {
		player, err := scanPlayer(rows)
		if err != nil {
			log.Error("Failed to scan participant row", "error", err)
			continue
		}
		players = append(players, *player)
	}
	return players, rows.Err()
}

// UpsertResource inserts or updates a playable surface.
func (s *store) UpsertResource(r Resource) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO resources (id, name, type)
		VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			type = excluded.type;
	`, r.ID, r.Name, r.Type)
	return err
}

// ListResources retrieves all resources.
func (s *store) ListResources() ([]Resource, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query("SELECT id, name, type FROM resources ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var resources []Resource
	for rows.Next() {
		var r Resource
		if err := rows.Scan(&r.ID, &r.Name, &r.Type); err != nil {
			log.Error("Failed to scan resource row", "error", err)
			continue
		}
		resources = append(resources, r)
	}
	return resources, rows.Err()
}

// DeleteResource removes a playable surface. Matches keep any stale
// resource_id they were scheduled on.
func (s *store) DeleteResource(resourceID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec("DELETE FROM resources WHERE id = ?", resourceID)
	if err != nil {
		return err
	}
	return errIfNoRows(res)
}

// CreateMatch inserts a new match. Status defaults to scheduled and the
// version counter starts at 1.
func (s *store) CreateMatch(m *Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if m.Status == "" {
		m.Status = scoring.StatusScheduled
	}
	if m.CurrentSet == 0 {
		m.CurrentSet = 1
	}
	m.Version = 1

	setsJSON, err := json.Marshal(m.Sets)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(`
		INSERT INTO matches (id, tournament_id, round_number, match_number, participant1_id, participant2_id, resource_id, scheduled_time, status, sets_json, current_set, winner_id, version)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, m.ID, m.TournamentID, m.RoundNumber, m.MatchNumber, m.Participant1, m.Participant2, m.ResourceID, m.ScheduledTime, m.Status, setsJSON, m.CurrentSet, m.WinnerID, m.Version)
	return err
}

// GetMatch retrieves a single match by ID.
func (s *store) GetMatch(matchID string) (*Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return getMatch(s.db, matchID)
}

// ListMatches retrieves all matches for a tournament, in bracket order.
func (s *store) ListMatches(tournamentID string) ([]Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT id, tournament_id, round_number, match_number, participant1_id, participant2_id, resource_id, scheduled_time, status, sets_json, current_set, winner_id, version
		FROM matches
		WHERE tournament_id = ?
		ORDER BY round_number, match_number
	`, tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var matches []Match
	for rows.Next() {
		match, err := scanMatch(rows)
		if err != nil {
			log.Error("Failed to scan match row", "error", err)
			continue
		}
		matches = append(matches, *match)
	}
	return matches, rows.Err()
}

// StartMatch transitions a scheduled or pending match to live. Starting an
// already live match is a no-op; starting a completed match fails.
func (s *store) StartMatch(matchID string) (*Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	match, err := getMatch(s.db, matchID)
	if err != nil {
		return nil, err
	}
	switch match.Status {
	case scoring.StatusLive:
		return match, nil
	case scoring.StatusCompleted:
		return nil, scoring.ErrMatchDecided
	}

	match.Status = scoring.StatusLive
	match.Version++
	_, err = s.db.Exec(`
		UPDATE matches SET status = ?, version = ? WHERE id = ?
	`, match.Status, match.Version, matchID)
	if err != nil {
		return nil, err
	}
	return match, nil
}

// SaveMatchState replaces a match's scoring state in a single transaction and
// bumps the version counter. Player tallies follow completion transitions in
// both directions, so an override that reverts a completed match also backs
// out the win/loss it had recorded.
func (s *store) SaveMatchState(matchID string, state scoring.MatchState, currentSet int) (*Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}

	prev, err := getMatch(tx, matchID)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	setsJSON, err := json.Marshal(state.Sets)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	updated := *prev
	updated.Status = state.Status
	updated.Sets = state.Sets
	updated.CurrentSet = currentSet
	updated.WinnerID = state.WinnerID
	updated.Version = prev.Version + 1

	_, err = tx.Exec(`
		UPDATE matches SET status = ?, sets_json = ?, current_set = ?, winner_id = ?, version = ? WHERE id = ?
	`, updated.Status, setsJSON, updated.CurrentSet, updated.WinnerID, updated.Version, matchID)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	table, err := tallyTable(tx, prev.TournamentID)
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	if prev.Status == scoring.StatusCompleted {
		if err := applyTallies(tx, table, prev, -1); err != nil {
			tx.Rollback()
			return nil, fmt.Errorf("failed to back out %s tallies: %w", table, err)
		}
	}
	if updated.Status == scoring.StatusCompleted {
		if err := applyTallies(tx, table, &updated, +1); err != nil {
			tx.Rollback()
			return nil, fmt.Errorf("failed to apply %s tallies: %w", table, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &updated, nil
}

// tallyTable returns the collection match results book against: players for
// singles tournaments, teams for doubles.
func tallyTable(q querier, tournamentID string) (string, error) {
	var matchType string
	err := q.QueryRow("SELECT match_type FROM tournaments WHERE id = ?", tournamentID).Scan(&matchType)
	if err == sql.ErrNoRows {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	if matchType == MatchTypeDoubles {
		return "teams", nil
	}
	return "players", nil
}

// applyTallies adjusts both participants' win/loss and set counts for a
// completed match. table is players or teams depending on the tournament's
// match type; sign is +1 when recording the result and -1 when backing it
// out.
func applyTallies(tx *sql.Tx, table string, m *Match, sign int) error {
	if m.WinnerID == "" {
		return fmt.Errorf("completed match %s has no winner", m.ID)
	}
	loserID := m.Participant1
	winnerSets := scoring.SetsWon(m.Sets, scoring.Side1)
	loserSets := scoring.SetsWon(m.Sets, scoring.Side2)
	if m.WinnerID == m.Participant1 {
		loserID = m.Participant2
	} else {
		winnerSets, loserSets = loserSets, winnerSets
	}

	_, err := tx.Exec(`
		UPDATE `+table+` SET
			matches_played = matches_played + ?,
			matches_won = matches_won + ?,
			sets_won = sets_won + ?,
			sets_lost = sets_lost + ?
		WHERE id = ?
	`, sign, sign, sign*winnerSets, sign*loserSets, m.WinnerID)
	if err != nil {
		return err
	}
	_, err = tx.Exec(`
		UPDATE `+table+` SET
			matches_played = matches_played + ?,
			matches_lost = matches_lost + ?,
			sets_won = sets_won + ?,
			sets_lost = sets_lost + ?
		WHERE id = ?
	`, sign, sign, sign*loserSets, sign*winnerSets, loserID)
	return err
}

// Leaderboard retrieves player standings for a sport, best record first.
func (s *store) Leaderboard(sport string) ([]LeaderboardEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT id, name, matches_played, matches_won, matches_lost, sets_won, sets_lost
		FROM players
		WHERE sport = ? AND matches_played > 0
		ORDER BY matches_won DESC, sets_won - sets_lost DESC, name
	`, sport)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []LeaderboardEntry
	for rows.Next() {
		var e LeaderboardEntry
		if err := rows.Scan(&e.PlayerID, &e.PlayerName, &e.MatchesPlayed, &e.MatchesWon, &e.MatchesLost, &e.SetsWon, &e.SetsLost); err != nil {
			log.Error("Failed to scan leaderboard row", "error", err)
			continue
		}
		if e.MatchesPlayed > 0 {
			e.WinPercentage = float64(e.MatchesWon) / float64(e.MatchesPlayed) * 100
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// DashboardStats aggregates counts for the operator dashboard.
func (s *store) DashboardStats() (DashboardStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var stats DashboardStats
	queries := []struct {
		dest  *int
		query string
	}{
		{&stats.Tournaments, "SELECT COUNT(*) FROM tournaments"},
		{&stats.ActiveTournaments, "SELECT COUNT(*) FROM tournaments WHERE status = 'active'"},
		{&stats.Players, "SELECT COUNT(*) FROM players"},
		{&stats.Teams, "SELECT COUNT(*) FROM teams"},
		{&stats.Matches, "SELECT COUNT(*) FROM matches"},
		{&stats.LiveMatches, "SELECT COUNT(*) FROM matches WHERE status = 'live'"},
		{&stats.CompletedMatches, "SELECT COUNT(*) FROM matches WHERE status = 'completed'"},
	}
	for _, q := range queries {
		if err := s.db.QueryRow(q.query).Scan(q.dest); err != nil {
			return DashboardStats{}, err
		}
	}
	return stats, nil
}

// Clear removes all data. Intended for tests and local resets.
func (s *store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, table := range []string{"matches", "tournament_participants", "tournaments", "resources", "teams", "players"} {
		if _, err := s.db.Exec("DELETE FROM " + table); err != nil {
			log.Error("Failed to clear table", "table", table, "error", err)
		}
	}
}

// ClearMatch removes a single match.
func (s *store) ClearMatch(matchID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec("DELETE FROM matches WHERE id = ?", matchID); err != nil {
		log.Error("Failed to clear match", "matchID", matchID, "error", err)
	}
}

// querier lets match helpers run against either *sql.DB or *sql.Tx.
type querier interface {
	QueryRow(query string, args ...any) *sql.Row
}

// errIfNoRows maps a zero-row write to ErrNotFound.
func errIfNoRows(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func getMatch(q querier, matchID string) (*Match, error) {
	row := q.QueryRow(`
		SELECT id, tournament_id, round_number, match_number, participant1_id, participant2_id, resource_id, scheduled_time, status, sets_json, current_set, winner_id, version
		FROM matches WHERE id = ?
	`, matchID)
	return scanMatch(row)
}

func scanMatch(scanner interface{ Scan(...any) error }) (*Match, error) {
	var m Match
	var setsJSON, resourceID, winnerID sql.NullString

	err := scanner.Scan(
		&m.ID,
		&m.TournamentID,
		&m.RoundNumber,
		&m.MatchNumber,
		&m.Participant1,
		&m.Participant2,
		&resourceID,
		&m.ScheduledTime,
		&m.Status,
		&setsJSON,
		&m.CurrentSet,
		&winnerID,
		&m.Version,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	m.ResourceID = resourceID.String
	m.WinnerID = winnerID.String
	if setsJSON.String != "" {
		if err := json.Unmarshal([]byte(setsJSON.String), &m.Sets); err != nil {
			return nil, fmt.Errorf("failed to unmarshal sets for match %s: %w", m.ID, err)
		}
	}
	return &m, nil
}

func scanPlayer(scanner interface{ Scan(...any) error }) (*PlayerInfo, error) {
	var p PlayerInfo
	var club sql.NullString

	err := scanner.Scan(&p.ID, &p.Name, &p.Sport, &club, &p.MatchesPlayed, &p.MatchesWon, &p.MatchesLost, &p.SetsWon, &p.SetsLost)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	p.Club = club.String
	return &p, nil
}

func scanTeam(scanner interface{ Scan(...any) error }) (*Team, error) {
	var t Team
	var playerIDs sql.NullString

	err := scanner.Scan(&t.ID, &t.Name, &t.Sport, &playerIDs, &t.MatchesPlayed, &t.MatchesWon, &t.MatchesLost, &t.SetsWon, &t.SetsLost)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if playerIDs.String != "" {
		if err := json.Unmarshal([]byte(playerIDs.String), &t.PlayerIDs); err != nil {
			return nil, fmt.Errorf("failed to unmarshal roster for team %s: %w", t.ID, err)
		}
	}
	return &t, nil
}

func scanTournament(scanner interface{ Scan(...any) error }) (*Tournament, error) {
	var t Tournament
	err := scanner.Scan(&t.ID, &t.Name, &t.Sport, &t.Status, &t.MatchType, &t.Rules.SetsToWin, &t.Rules.PointsPerSet, &t.Rules.WinByTwo, &t.StartTime, &t.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}
