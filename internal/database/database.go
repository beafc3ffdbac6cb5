package database

import (
	"database/sql"
	"fmt"

	"github.com/charmbracelet/log"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
	_ "github.com/tursodatabase/libsql-client-go/libsql"
)

// InitDB opens the database and runs any pending migrations. For local-only
// databases dbPath is the filename (or ":memory:"); when primaryUrl is set
// the connection goes to a remote Turso database instead.
func InitDB(dbPath string, primaryUrl string, authToken string, migrationsDir string) (*sql.DB, func(), error) {
	var (
		db  *sql.DB
		err error
	)
	if primaryUrl == "" {
		log.Info("Initializing local SQLite database", "path", dbPath)
		db, err = sql.Open("sqlite3", dbPath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open local database: %w", err)
		}
	} else {
		log.Info("Initializing Turso database", "url", primaryUrl)
		db, err = sql.Open("libsql", primaryUrl+"?authToken="+authToken)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open db %s: %w", primaryUrl, err)
		}
	}

	// Foreign key support is not enabled by default in SQLite.
	if _, err := db.Exec("PRAGMA foreign_keys = ON;"); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if err := goose.SetDialect("sqlite3"); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to set migration dialect: %w", err)
	}
	if err := goose.Up(db, migrationsDir); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	log.Info("Database initialized successfully")

	teardown := func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close database", "error", err)
		}
	}
	return db, teardown, nil
}
