// Package pages turns request parameters into the view models of the home
// and watch pages.
package pages

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"

	"github.com/Zerr0-C00L/Katch/internal/catalog"
	"github.com/Zerr0-C00L/Katch/internal/models"
	"github.com/Zerr0-C00L/Katch/internal/providers"
	"github.com/Zerr0-C00L/Katch/internal/services"
)

type Catalog interface {
	GetData(ctx context.Context, req catalog.Request) *catalog.Result
	SearchData(ctx context.Context, req catalog.SearchRequest) *catalog.Result
}

type Metadata interface {
	GetDetails(ctx context.Context, vendorType string, id int, lang string) (*models.Details, error)
	GetSeason(ctx context.Context, seriesID, seasonNumber int, lang string) (*models.Season, error)
	GetExternalIDs(ctx context.Context, vendorType string, id int) (*models.ExternalIDs, error)
}

type Library interface {
	SaveHistory(ctx context.Context, userID string, m models.MediaDescriptor) error
	Progress(ctx context.Context, userID string, mediaID int) (*models.HistoryEntry, error)
	IsListed(ctx context.Context, userID string, mediaID int) (bool, error)
	History(ctx context.Context, userID string, cat catalog.Category) ([]models.HistoryEntry, error)
	Watchlist(ctx context.Context, userID string, cat catalog.Category) ([]models.WatchlistEntry, error)
}

// Service builds page views. It holds no per-request state.
type Service struct {
	catalog     Catalog
	metadata    Metadata
	library     Library
	defaultLang string
	logger      *slog.Logger
}

func NewService(cat Catalog, metadata Metadata, library Library, defaultLang string, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		catalog:     cat,
		metadata:    metadata,
		library:     library,
		defaultLang: ParseLang(defaultLang, "fr"),
		logger:      logger,
	}
}

// Card is one poster on a shelf or grid.
type Card struct {
	ID          int
	Title       string
	Kind        string
	PosterURL   string
	BackdropURL string
	Overview    string
	Progress    string
	WatchURL    string
}

// Link is a navigation entry.
type Link struct {
	Label  string
	URL    string
	Active bool
}

func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

// watchLang maps the interface language to the player variant.
func watchLang(lang string) string {
	if lang == "en" {
		return providers.VariantVO
	}
	return providers.VariantVF
}

func watchURL(id int, kind, lang string, season, episode int) string {
	v := url.Values{}
	v.Set("type", kind)
	v.Set("lang", watchLang(lang))
	if season > 0 && episode > 0 {
		v.Set("s", strconv.Itoa(season))
		v.Set("e", strconv.Itoa(episode))
	}
	return fmt.Sprintf("/watch/%d?%s", id, v.Encode())
}

func cardFromItem(it models.MediaItem, kind, lang string) Card {
	return Card{
		ID:          it.ID,
		Title:       it.DisplayTitle(),
		Kind:        kind,
		PosterURL:   posterURL(it.PosterPath),
		BackdropURL: services.ImageURL(it.BackdropPath, "original"),
		Overview:    it.Overview,
		WatchURL:    watchURL(it.ID, kind, lang, 0, 0),
	}
}

func posterURL(path string) string {
	return services.ImageURL(path, "w500")
}

func isSeriesKind(kind string) bool {
	return catalog.ParseCategory(kind).IsSeries()
}
