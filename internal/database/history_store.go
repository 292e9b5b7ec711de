package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Zerr0-C00L/Katch/internal/models"
)

// HistoryStore handles watch history persistence
type HistoryStore struct {
	db *sql.DB
}

func NewHistoryStore(db *sql.DB) *HistoryStore {
	return &HistoryStore{db: db}
}

// Upsert records the last viewed episode of a title. The (user, media) row
// is created on first view and overwritten afterwards.
func (s *HistoryStore) Upsert(ctx context.Context, e models.HistoryEntry) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO history (user_id, media_id, media_type, title, poster_path, season, episode, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (user_id, media_id) DO UPDATE SET
			media_type = EXCLUDED.media_type,
			title = EXCLUDED.title,
			poster_path = EXCLUDED.poster_path,
			season = EXCLUDED.season,
			episode = EXCLUDED.episode,
			updated_at = EXCLUDED.updated_at
	`, e.UserID, e.MediaID, e.MediaType, e.Title, e.PosterPath, e.Season, e.Episode, e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert history: %w", err)
	}
	return nil
}

// Get returns the history row of one title, or ErrNotFound.
func (s *HistoryStore) Get(ctx context.Context, userID string, mediaID int) (*models.HistoryEntry, error) {
	var e models.HistoryEntry
	err := s.db.QueryRowContext(ctx, `
		SELECT user_id, media_id, media_type, title, poster_path, season, episode, updated_at
		FROM history WHERE user_id = $1 AND media_id = $2
	`, userID, mediaID).Scan(&e.UserID, &e.MediaID, &e.MediaType, &e.Title, &e.PosterPath,
		&e.Season, &e.Episode, &e.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get history: %w", err)
	}
	return &e, nil
}

// List returns the most recently updated rows of a user, newest first.
func (s *HistoryStore) List(ctx context.Context, userID string, limit int) ([]models.HistoryEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT user_id, media_id, media_type, title, poster_path, season, episode, updated_at
		FROM history
		WHERE user_id = $1
		ORDER BY updated_at DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	defer rows.Close()

	entries := []models.HistoryEntry{}
	for rows.Next() {
		var e models.HistoryEntry
		if err := rows.Scan(&e.UserID, &e.MediaID, &e.MediaType, &e.Title, &e.PosterPath,
			&e.Season, &e.Episode, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan history: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
