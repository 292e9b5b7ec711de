package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Zerr0-C00L/Katch/internal/models"
)

// WatchlistStore handles watchlist persistence
type WatchlistStore struct {
	db *sql.DB
}

func NewWatchlistStore(db *sql.DB) *WatchlistStore {
	return &WatchlistStore{db: db}
}

// Toggle removes the title from the user's list, or adds it when it was not
// there. It returns the new membership.
func (s *WatchlistStore) Toggle(ctx context.Context, e models.WatchlistEntry) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`DELETE FROM watchlist WHERE user_id = $1 AND media_id = $2`, e.UserID, e.MediaID)
	if err != nil {
		return false, fmt.Errorf("failed to remove from watchlist: %w", err)
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}

	listed := removed == 0
	if listed {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO watchlist (user_id, media_id, media_type, title, poster_path, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (user_id, media_id) DO NOTHING
		`, e.UserID, e.MediaID, e.MediaType, e.Title, e.PosterPath, e.CreatedAt)
		if err != nil {
			return false, fmt.Errorf("failed to add to watchlist: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit watchlist toggle: %w", err)
	}
	return listed, nil
}

// Contains reports whether the title is on the user's list.
func (s *WatchlistStore) Contains(ctx context.Context, userID string, mediaID int) (bool, error) {
	var found bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM watchlist WHERE user_id = $1 AND media_id = $2)`,
		userID, mediaID).Scan(&found)
	if err != nil {
		return false, fmt.Errorf("failed to check watchlist: %w", err)
	}
	return found, nil
}

// List returns the user's list, most recently added first.
func (s *WatchlistStore) List(ctx context.Context, userID string) ([]models.WatchlistEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT user_id, media_id, media_type, title, poster_path, created_at
		FROM watchlist
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list watchlist: %w", err)
	}
	defer rows.Close()

	entries := []models.WatchlistEntry{}
	for rows.Next() {
		var e models.WatchlistEntry
		if err := rows.Scan(&e.UserID, &e.MediaID, &e.MediaType, &e.Title, &e.PosterPath, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan watchlist: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
