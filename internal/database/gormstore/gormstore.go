// Package gormstore keeps history and watchlist rows in an embedded SQLite
// file through gorm, for single-binary deployments without Postgres.
package gormstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Zerr0-C00L/Katch/internal/database"
	"github.com/Zerr0-C00L/Katch/internal/models"
)

type historyRow struct {
	UserID     string `gorm:"primaryKey"`
	MediaID    int    `gorm:"primaryKey;autoIncrement:false"`
	MediaType  string `gorm:"not null"`
	Title      string
	PosterPath string
	Season     int
	Episode    int
	UpdatedAt  time.Time `gorm:"index;autoUpdateTime:false"`
}

func (historyRow) TableName() string { return "history" }

type watchlistRow struct {
	UserID     string `gorm:"primaryKey"`
	MediaID    int    `gorm:"primaryKey;autoIncrement:false"`
	MediaType  string `gorm:"not null"`
	Title      string
	PosterPath string
	CreatedAt  time.Time `gorm:"index;autoCreateTime:false"`
}

func (watchlistRow) TableName() string { return "watchlist" }

// DB is an open embedded database.
type DB struct {
	db *gorm.DB
}

// Open opens (or creates) the SQLite file at path and migrates it.
func Open(path string) (*DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Discard,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite store: %w", err)
	}
	if err := db.AutoMigrate(&historyRow{}, &watchlistRow{}); err != nil {
		return nil, fmt.Errorf("failed to migrate sqlite store: %w", err)
	}
	return &DB{db: db}, nil
}

// Close releases the underlying connection pool.
func (d *DB) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Health pings the database.
func (d *DB) Health(ctx context.Context) error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// History returns the history store backed by d.
func (d *DB) History() *HistoryStore { return &HistoryStore{db: d.db} }

// Watchlist returns the watchlist store backed by d.
func (d *DB) Watchlist() *WatchlistStore { return &WatchlistStore{db: d.db} }

type HistoryStore struct {
	db *gorm.DB
}

// Upsert records the last viewed episode of a title.
func (s *HistoryStore) Upsert(ctx context.Context, e models.HistoryEntry) error {
	row := historyRow{
		UserID:     e.UserID,
		MediaID:    e.MediaID,
		MediaType:  e.MediaType,
		Title:      e.Title,
		PosterPath: e.PosterPath,
		Season:     e.Season,
		Episode:    e.Episode,
		UpdatedAt:  e.UpdatedAt,
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "media_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"media_type", "title", "poster_path", "season", "episode", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("failed to upsert history: %w", err)
	}
	return nil
}

// Get returns one history row or database.ErrNotFound.
func (s *HistoryStore) Get(ctx context.Context, userID string, mediaID int) (*models.HistoryEntry, error) {
	var row historyRow
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND media_id = ?", userID, mediaID).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, database.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get history: %w", err)
	}
	e := row.entry()
	return &e, nil
}

// List returns the most recently updated rows of a user, newest first.
func (s *HistoryStore) List(ctx context.Context, userID string, limit int) ([]models.HistoryEntry, error) {
	var rows []historyRow
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}

	entries := make([]models.HistoryEntry, 0, len(rows))
	for _, r := range rows {
		entries = append(entries, r.entry())
	}
	return entries, nil
}

func (r historyRow) entry() models.HistoryEntry {
	return models.HistoryEntry{
		UserID:     r.UserID,
		MediaID:    r.MediaID,
		MediaType:  r.MediaType,
		Title:      r.Title,
		PosterPath: r.PosterPath,
		Season:     r.Season,
		Episode:    r.Episode,
		UpdatedAt:  r.UpdatedAt,
	}
}

type WatchlistStore struct {
	db *gorm.DB
}

// Toggle removes the title from the list, or adds it when nothing was
// removed. It returns the new membership.
func (s *WatchlistStore) Toggle(ctx context.Context, e models.WatchlistEntry) (bool, error) {
	var listed bool
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND media_id = ?", e.UserID, e.MediaID).Delete(&watchlistRow{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return nil
		}

		listed = true
		row := watchlistRow{
			UserID:     e.UserID,
			MediaID:    e.MediaID,
			MediaType:  e.MediaType,
			Title:      e.Title,
			PosterPath: e.PosterPath,
			CreatedAt:  e.CreatedAt,
		}
		return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error
	})
	if err != nil {
		return false, fmt.Errorf("failed to toggle watchlist: %w", err)
	}
	return listed, nil
}

// Contains reports whether the title is on the user's list.
func (s *WatchlistStore) Contains(ctx context.Context, userID string, mediaID int) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&watchlistRow{}).
		Where("user_id = ? AND media_id = ?", userID, mediaID).
		Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("failed to check watchlist: %w", err)
	}
	return n > 0, nil
}

// List returns the user's list, most recently added first.
func (s *WatchlistStore) List(ctx context.Context, userID string) ([]models.WatchlistEntry, error) {
	var rows []watchlistRow
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list watchlist: %w", err)
	}

	entries := make([]models.WatchlistEntry, 0, len(rows))
	for _, r := range rows {
		entries = append(entries, models.WatchlistEntry{
			UserID:     r.UserID,
			MediaID:    r.MediaID,
			MediaType:  r.MediaType,
			Title:      r.Title,
			PosterPath: r.PosterPath,
			CreatedAt:  r.CreatedAt,
		})
	}
	return entries, nil
}
