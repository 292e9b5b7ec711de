package pages

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Zerr0-C00L/Katch/internal/catalog"
	"github.com/Zerr0-C00L/Katch/internal/models"
	"github.com/Zerr0-C00L/Katch/internal/services"
)

type fakeCatalog struct {
	mu       sync.Mutex
	results  map[string]*catalog.Result
	requests []catalog.Request
	searches []catalog.SearchRequest
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{results: make(map[string]*catalog.Result)}
}

func catalogKey(c catalog.Category, genre string) string {
	return fmt.Sprintf("%s/%s", c, genre)
}

func (f *fakeCatalog) GetData(_ context.Context, req catalog.Request) *catalog.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	if r, ok := f.results[catalogKey(req.Category, req.Genre)]; ok {
		return r
	}
	return &catalog.Result{Page: req.Page}
}

func (f *fakeCatalog) SearchData(_ context.Context, req catalog.SearchRequest) *catalog.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searches = append(f.searches, req)
	if r, ok := f.results["search/"+req.Query]; ok {
		return r
	}
	return &catalog.Result{Page: req.Page}
}

type fakeMetadata struct {
	details map[int]*models.Details
	seasons map[string]*models.Season
	ids     map[int]*models.ExternalIDs

	mu      sync.Mutex
	locales []string
}

func (f *fakeMetadata) GetDetails(_ context.Context, vendorType string, id int, lang string) (*models.Details, error) {
	f.mu.Lock()
	f.locales = append(f.locales, lang)
	f.mu.Unlock()
	if d, ok := f.details[id]; ok {
		return d, nil
	}
	return nil, &services.StatusError{Code: 404, URL: fmt.Sprintf("/%s/%d", vendorType, id)}
}

func (f *fakeMetadata) GetSeason(_ context.Context, seriesID, seasonNumber int, _ string) (*models.Season, error) {
	if s, ok := f.seasons[fmt.Sprintf("%d/%d", seriesID, seasonNumber)]; ok {
		return s, nil
	}
	return nil, errors.New("no season")
}

func (f *fakeMetadata) GetExternalIDs(_ context.Context, _ string, id int) (*models.ExternalIDs, error) {
	if x, ok := f.ids[id]; ok {
		return x, nil
	}
	return nil, errors.New("no ids")
}

type fakeLibrary struct {
	mu        sync.Mutex
	history   []models.HistoryEntry
	watchlist []models.WatchlistEntry
	saved     []models.MediaDescriptor
	listed    map[int]bool
	progress  map[int]*models.HistoryEntry
	reads     int
}

func (f *fakeLibrary) SaveHistory(_ context.Context, userID string, m models.MediaDescriptor) error {
	if userID == "" {
		return nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved = append(f.saved, m)
	return nil
}

func (f *fakeLibrary) Progress(_ context.Context, _ string, mediaID int) (*models.HistoryEntry, error) {
	return f.progress[mediaID], nil
}

func (f *fakeLibrary) IsListed(_ context.Context, userID string, mediaID int) (bool, error) {
	return userID != "" && f.listed[mediaID], nil
}

func (f *fakeLibrary) History(_ context.Context, _ string, cat catalog.Category) ([]models.HistoryEntry, error) {
	f.mu.Lock()
	f.reads++
	f.mu.Unlock()
	var out []models.HistoryEntry
	for _, h := range f.history {
		if cat == catalog.All || h.MediaType == string(cat) {
			out = append(out, h)
		}
	}
	return out, nil
}

func (f *fakeLibrary) Watchlist(_ context.Context, _ string, cat catalog.Category) ([]models.WatchlistEntry, error) {
	f.mu.Lock()
	f.reads++
	f.mu.Unlock()
	var out []models.WatchlistEntry
	for _, w := range f.watchlist {
		if cat == catalog.All || w.MediaType == string(cat) {
			out = append(out, w)
		}
	}
	return out, nil
}

func items(from, n int, mediaType string) []models.MediaItem {
	out := make([]models.MediaItem, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, models.MediaItem{
			ID:           from + i,
			Title:        fmt.Sprintf("Title %d", from+i),
			MediaType:    mediaType,
			PosterPath:   fmt.Sprintf("/p%d.jpg", from+i),
			BackdropPath: fmt.Sprintf("/b%d.jpg", from+i),
		})
	}
	return out
}
