package main

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"

	"waypoint-route-service/internal/config"
	"waypoint-route-service/internal/platform/db"
	"waypoint-route-service/internal/platform/obs"
)

// dbtool creates the geocode cache schema. DATABASE_URL selects postgres;
// otherwise the sqlite file at DB_PATH is used.
func main() {
	foundEnv := config.LoadDotEnv()
	logger := obs.NewConsoleLogger(config.Get("LOG_LEVEL", "info"), os.Stderr)
	if !foundEnv {
		logger.Info().Msg("No .env file found (using environment variables)")
	}

	var (
		conn    *sql.DB
		dialect db.Dialect
		err     error
	)

	if databaseURL := config.Get("DATABASE_URL", ""); databaseURL != "" {
		conn, err = db.Open(databaseURL)
		dialect = db.Postgres
	} else {
		dbPath := config.Get("DB_PATH", "data/cache.db")
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			logger.Fatal().Err(err).Msg("create database directory")
		}
		conn, err = db.OpenSQLite(dbPath)
		dialect = db.SQLite
	}
	if err != nil {
		logger.Fatal().Err(err).Msg("open database")
	}
	defer conn.Close()

	logger.Info().Str("dialect", string(dialect)).Msg("Initializing database schema...")
	if err := db.InitSchema(context.Background(), conn, dialect); err != nil {
		logger.Fatal().Err(err).Msg("schema initialization failed")
	}
	logger.Info().Msg("Schema ready.")
}
