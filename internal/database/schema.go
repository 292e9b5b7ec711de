package database

import (
	"context"
	"database/sql"
	"fmt"
)

var schemaUp = []string{
	`CREATE TABLE IF NOT EXISTS history (
		user_id TEXT NOT NULL,
		media_id INTEGER NOT NULL,
		media_type TEXT NOT NULL,
		title TEXT NOT NULL DEFAULT '',
		poster_path TEXT NOT NULL DEFAULT '',
		season INTEGER NOT NULL DEFAULT 1,
		episode INTEGER NOT NULL DEFAULT 1,
		updated_at TIMESTAMP NOT NULL,
		PRIMARY KEY (user_id, media_id)
	)`,
	`CREATE TABLE IF NOT EXISTS watchlist (
		user_id TEXT NOT NULL,
		media_id INTEGER NOT NULL,
		media_type TEXT NOT NULL,
		title TEXT NOT NULL DEFAULT '',
		poster_path TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL,
		PRIMARY KEY (user_id, media_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_history_user_updated ON history(user_id, updated_at)`,
	`CREATE INDEX IF NOT EXISTS idx_watchlist_user_created ON watchlist(user_id, created_at)`,
}

var schemaDown = []string{
	`DROP TABLE IF EXISTS watchlist`,
	`DROP TABLE IF EXISTS history`,
}

// Migrate creates the history and watchlist tables.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, query := range schemaUp {
		if _, err := db.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}
	return nil
}

// Drop removes every table created by Migrate.
func Drop(ctx context.Context, db *sql.DB) error {
	for _, query := range schemaDown {
		if _, err := db.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to drop table: %w", err)
		}
	}
	return nil
}
