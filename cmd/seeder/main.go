package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/rallydesk/rallydesk/internal/scoring"
	_ "github.com/tursodatabase/libsql-client-go/libsql"
)

// Simplified config loading for the script
func loadConfig() map[string]string {
	err := godotenv.Load()
	if err != nil {
		log.Warn("No .env file found, reading from environment variables")
	}

	config := make(map[string]string)
	required := []string{"TURSO_PRIMARY_URL", "TURSO_AUTH_TOKEN"}

	for _, key := range required {
		if value, ok := os.LookupEnv(key); ok {
			config[key] = value
		} else {
			log.Fatalf("Error: Required environment variable %s is not set.", key)
		}
	}
	return config
}

func main() {
	log.Info("Starting database seeder...")
	cfg := loadConfig()

	// Connect directly to the primary database
	dbURL := fmt.Sprintf("%s?authToken=%s", cfg["TURSO_PRIMARY_URL"], cfg["TURSO_AUTH_TOKEN"])
	db, err := sql.Open("libsql", dbURL)
	if err != nil {
		log.Fatalf("Failed to open primary database: %s", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to connect to primary database: %s", err)
	}

	log.Info("Successfully connected to the primary database.")

	playerIDs := seedPlayers(db)
	tournamentID := seedTournament(db, playerIDs)
	seedResources(db)
	seedMatches(db, tournamentID, playerIDs)
}

func seedPlayers(db *sql.DB) []string {
	names := []string{
		"Seeder Player A", "Seeder Player B", "Seeder Player C", "Seeder Player D",
		"Seeder Player E", "Seeder Player F", "Seeder Player G", "Seeder Player H",
	}
	ids := make([]string, 0, len(names))
	for i, name := range names {
		id := fmt.Sprintf("seed-player-%d", i+1)
		_, err := db.Exec("INSERT OR IGNORE INTO players (id, name, sport) VALUES (?, ?, ?)", id, name, "table-tennis")
		if err != nil {
			log.Fatalf("Failed to insert dummy player %s: %s", name, err)
		}
		ids = append(ids, id)
	}
	log.Info("Ensured dummy players exist.", "count", len(ids))
	return ids
}

func seedTournament(db *sql.DB, playerIDs []string) string {
	id := "seed-tournament"
	_, err := db.Exec(`
		INSERT OR IGNORE INTO tournaments (id, name, sport, status, sets_to_win, points_per_set, win_by_two, start_time, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, "Seeded Open", "table-tennis", "active", 3, 11, 1, time.Now().Unix(), time.Now().Unix())
	if err != nil {
		log.Fatalf("Failed to insert dummy tournament: %s", err)
	}
	for i, playerID := range playerIDs {
		_, err := db.Exec("INSERT OR IGNORE INTO tournament_participants (tournament_id, player_id, seed) VALUES (?, ?, ?)", id, playerID, i+1)
		if err != nil {
			log.Fatalf("Failed to register participant %s: %s", playerID, err)
		}
	}
	log.Info("Ensured dummy tournament exists.", "id", id)
	return id
}

func seedResources(db *sql.DB) {
	for i := 1; i <= 4; i++ {
		_, err := db.Exec("INSERT OR IGNORE INTO resources (id, name, type) VALUES (?, ?, ?)",
			fmt.Sprintf("seed-table-%d", i), fmt.Sprintf("Table %d", i), "table")
		if err != nil {
			log.Fatalf("Failed to insert dummy resource: %s", err)
		}
	}
	log.Info("Ensured dummy resources exist.")
}

func seedMatches(db *sql.DB, tournamentID string, playerIDs []string) {
	const batchSize = 100 // Insert 100 matches at a time
	const numMatches = 10000

	log.Info("Preparing to insert dummy matches...", "total", numMatches, "batch_size", batchSize)
	startTime := time.Now()

	tx, err := db.Begin()
	if err != nil {
		log.Fatalf("Failed to begin transaction: %s", err)
	}

	valueStrings := make([]string, 0, batchSize)
	valueArgs := make([]interface{}, 0, batchSize*13) // 13 columns per match

	for i := 0; i < numMatches; i++ {
		p1 := playerIDs[rand.Intn(len(playerIDs))]
		p2 := playerIDs[rand.Intn(len(playerIDs))]
		for p2 == p1 {
			p2 = playerIDs[rand.Intn(len(playerIDs))]
		}
		sets := completedSeries()
		setsBlob, _ := json.Marshal(sets)
		winnerID := p1
		if won, _ := setTally(sets); won < 3 {
			winnerID = p2
		}

		valueStrings = append(valueStrings, "(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)")
		valueArgs = append(valueArgs,
			uuid.NewString(),
			tournamentID,
			i/100+1,
			i%100+1,
			p1,
			p2,
			fmt.Sprintf("seed-table-%d", rand.Intn(4)+1),
			time.Now().Add(-time.Duration(rand.Intn(365*24))*time.Hour).Unix(),
			"completed",
			string(setsBlob),
			len(sets),
			winnerID,
			int64(len(sets)+2),
		)

		if (i+1)%batchSize == 0 || (i+1) == numMatches {
			stmt := fmt.Sprintf(`
				INSERT INTO matches (id, tournament_id, round_number, match_number, participant1_id, participant2_id,
					resource_id, scheduled_time, status, sets_json, current_set, winner_id, version)
				VALUES %s;`, strings.Join(valueStrings, ","))

			_, err := tx.Exec(stmt, valueArgs...)
			if err != nil {
				tx.Rollback()
				log.Fatalf("Failed to execute batch insert: %s", err)
			}

			// Reset for the next batch
			valueStrings = make([]string, 0, batchSize)
			valueArgs = make([]interface{}, 0, batchSize*13)
			log.Info("Inserted batch", "completed", i+1, "total", numMatches)
		}
	}

	if err := tx.Commit(); err != nil {
		log.Fatalf("Failed to commit transaction: %s", err)
	}

	duration := time.Since(startTime)
	log.Info("Successfully inserted all dummy matches.", "duration", duration)
}

// completedSeries fabricates a plausible best-of-five result.
func completedSeries() []scoring.SetScore {
	sets := make([]scoring.SetScore, 0, 5)
	won1, won2 := 0, 0
	for setNum := 1; won1 < 3 && won2 < 3; setNum++ {
		loserPoints := rand.Intn(10)
		set := scoring.SetScore{SetNumber: setNum, Score1: 11, Score2: loserPoints}
		if rand.Intn(2) == 0 {
			set.Score1, set.Score2 = loserPoints, 11
			won2++
		} else {
			won1++
		}
		sets = append(sets, set)
	}
	return sets
}

func setTally(sets []scoring.SetScore) (won1, won2 int) {
	for _, s := range sets {
		if s.Score1 > s.Score2 {
			won1++
		} else {
			won2++
		}
	}
	return won1, won2
}
