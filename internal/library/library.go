// Package library holds a signed-in user's watch history and watchlist.
// Every operation is a no-op for anonymous callers (empty user id).
package library

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/Zerr0-C00L/Katch/internal/catalog"
	"github.com/Zerr0-C00L/Katch/internal/database"
	"github.com/Zerr0-C00L/Katch/internal/models"
)

// HistoryLimit is the number of titles shown in the continue-watching shelf.
const HistoryLimit = 15

type HistoryStore interface {
	Upsert(ctx context.Context, e models.HistoryEntry) error
	Get(ctx context.Context, userID string, mediaID int) (*models.HistoryEntry, error)
	List(ctx context.Context, userID string, limit int) ([]models.HistoryEntry, error)
}

type WatchlistStore interface {
	Toggle(ctx context.Context, e models.WatchlistEntry) (bool, error)
	Contains(ctx context.Context, userID string, mediaID int) (bool, error)
	List(ctx context.Context, userID string) ([]models.WatchlistEntry, error)
}

type Service struct {
	history   HistoryStore
	watchlist WatchlistStore
	now       func() time.Time
	logger    *slog.Logger
}

func NewService(history HistoryStore, watchlist WatchlistStore, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		history:   history,
		watchlist: watchlist,
		now:       time.Now,
		logger:    logger,
	}
}

// SaveHistory records that the user opened a title. Season and episode
// default to 1.
func (s *Service) SaveHistory(ctx context.Context, userID string, m models.MediaDescriptor) error {
	if userID == "" {
		return nil
	}
	if m.Season < 1 {
		m.Season = 1
	}
	if m.Episode < 1 {
		m.Episode = 1
	}
	return s.history.Upsert(ctx, models.HistoryEntry{
		UserID:     userID,
		MediaID:    m.ID,
		MediaType:  m.Type,
		Title:      m.Title,
		PosterPath: m.PosterPath,
		Season:     m.Season,
		Episode:    m.Episode,
		UpdatedAt:  s.now().UTC(),
	})
}

// Progress returns where the user left a title, or nil.
func (s *Service) Progress(ctx context.Context, userID string, mediaID int) (*models.HistoryEntry, error) {
	if userID == "" {
		return nil, nil
	}
	e, err := s.history.Get(ctx, userID, mediaID)
	if errors.Is(err, database.ErrNotFound) {
		return nil, nil
	}
	return e, err
}

// ToggleWatchlist flips membership and returns the new state. Anonymous
// callers always get false.
func (s *Service) ToggleWatchlist(ctx context.Context, userID string, m models.MediaDescriptor) (bool, error) {
	if userID == "" {
		return false, nil
	}
	listed, err := s.watchlist.Toggle(ctx, models.WatchlistEntry{
		UserID:     userID,
		MediaID:    m.ID,
		MediaType:  m.Type,
		Title:      m.Title,
		PosterPath: m.PosterPath,
		CreatedAt:  s.now().UTC(),
	})
	if err != nil {
		return false, err
	}
	s.logger.Debug("watchlist toggled", "user", userID, "media_id", m.ID, "listed", listed)
	return listed, nil
}

// IsListed reports watchlist membership.
func (s *Service) IsListed(ctx context.Context, userID string, mediaID int) (bool, error) {
	if userID == "" {
		return false, nil
	}
	return s.watchlist.Contains(ctx, userID, mediaID)
}

// History returns the most recent history rows, restricted to a category
// unless it is catalog.All.
func (s *Service) History(ctx context.Context, userID string, cat catalog.Category) ([]models.HistoryEntry, error) {
	if userID == "" {
		return []models.HistoryEntry{}, nil
	}
	entries, err := s.history.List(ctx, userID, HistoryLimit)
	if err != nil {
		return nil, err
	}
	if cat == catalog.All {
		return entries, nil
	}
	out := entries[:0]
	for _, e := range entries {
		if e.MediaType == string(cat) {
			out = append(out, e)
		}
	}
	return out, nil
}

// Watchlist returns the user's list, restricted to a category unless it is
// catalog.All.
func (s *Service) Watchlist(ctx context.Context, userID string, cat catalog.Category) ([]models.WatchlistEntry, error) {
	if userID == "" {
		return []models.WatchlistEntry{}, nil
	}
	entries, err := s.watchlist.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cat == catalog.All {
		return entries, nil
	}
	out := entries[:0]
	for _, e := range entries {
		if e.MediaType == string(cat) {
			out = append(out, e)
		}
	}
	return out, nil
}
