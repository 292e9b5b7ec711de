// Package catalog builds browseable catalog pages and ranked search results
// from the metadata vendor.
package catalog

import (
	"context"
	"log/slog"
	"net/url"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/Zerr0-C00L/Katch/internal/models"
)

// MetadataSource is the subset of the vendor client the catalog needs.
type MetadataSource interface {
	Trending(ctx context.Context, mediaType, lang string, page int) (*models.Page, error)
	Discover(ctx context.Context, mediaType string, filter url.Values, lang string, page int) (*models.Page, error)
	SearchMulti(ctx context.Context, query, lang string, page int) (*models.Page, error)
}

// Service composes vendor pages into catalog results.
type Service struct {
	source MetadataSource
	logger *slog.Logger
}

func NewService(source MetadataSource, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{source: source, logger: logger}
}

// Request selects a catalog page.
type Request struct {
	Category Category
	Genre    string
	Locale   string
	Page     int
}

// SearchRequest selects a page of search results.
type SearchRequest struct {
	Query    string
	Category Category
	Locale   string
	Page     int
}

// Result is one merged page. TotalPages is not clamped.
type Result struct {
	Items      []models.MediaItem `json:"results"`
	Page       int                `json:"page"`
	TotalPages int                `json:"total_pages"`
}

// GetData fetches vendor pages 2p-1 and 2p in parallel and merges them into
// one catalog page. Vendor failures yield empty pages.
func (s *Service) GetData(ctx context.Context, req Request) *Result {
	page := normalizePage(req.Page)
	cat := req.Category
	if req.Genre != "" && cat == All {
		cat = Movie
	}

	pages := make([]*models.Page, 2)
	var g errgroup.Group
	for i := range pages {
		vendorPage := 2*page - 1 + i
		g.Go(func() error {
			p, err := s.fetch(ctx, cat, req.Genre, req.Locale, vendorPage)
			if err != nil {
				s.logger.Warn("catalog page unavailable",
					"category", cat, "genre", req.Genre, "page", vendorPage, "error", err)
				return nil
			}
			pages[i] = p
			return nil
		})
	}
	_ = g.Wait()

	totalResults := 0
	lists := make([][]models.MediaItem, 0, len(pages))
	for _, p := range pages {
		if p == nil {
			continue
		}
		lists = append(lists, p.Results)
		if p.TotalResults > totalResults {
			totalResults = p.TotalResults
		}
	}

	return &Result{
		Items:      Dedupe(KeepBrowsable(Merge(lists...))),
		Page:       page,
		TotalPages: PagesFor(totalResults),
	}
}

func (s *Service) fetch(ctx context.Context, cat Category, genre, locale string, page int) (*models.Page, error) {
	if filter := GenreFilter(cat, genre); filter != nil {
		return s.source.Discover(ctx, cat.VendorType(), filter, locale, page)
	}
	return s.source.Trending(ctx, cat.VendorType(), locale, page)
}

// SearchData queries both locales for vendor pages 2p-1 and 2p, then
// filters, dedupes and ranks the union. The requested locale comes first in
// merge order.
func (s *Service) SearchData(ctx context.Context, req SearchRequest) *Result {
	page := normalizePage(req.Page)
	query := strings.TrimSpace(req.Query)
	if query == "" {
		return &Result{Items: []models.MediaItem{}, Page: page}
	}

	locales := []string{LocaleFR, LocaleEN}
	if req.Locale == LocaleEN {
		locales = []string{LocaleEN, LocaleFR}
	}

	// Slot order: locale 0 pages 2p-1, 2p, then locale 1.
	pages := make([]*models.Page, 4)
	var g errgroup.Group
	for li, locale := range locales {
		for pi := 0; pi < 2; pi++ {
			slot := li*2 + pi
			vendorPage := 2*page - 1 + pi
			g.Go(func() error {
				p, err := s.source.SearchMulti(ctx, query, locale, vendorPage)
				if err != nil {
					s.logger.Warn("search page unavailable",
						"query", query, "locale", locale, "page", vendorPage, "error", err)
					return nil
				}
				pages[slot] = p
				return nil
			})
		}
	}
	_ = g.Wait()

	totalPages := 0
	lists := make([][]models.MediaItem, 0, len(pages))
	for _, p := range pages {
		if p == nil {
			continue
		}
		lists = append(lists, p.Results)
		if p.TotalPages > totalPages {
			totalPages = p.TotalPages
		}
	}

	items := KeepCategory(Dedupe(KeepSearchable(Merge(lists...))), req.Category)
	return &Result{
		Items:      Rank(items, query),
		Page:       page,
		TotalPages: totalPages,
	}
}

func normalizePage(p int) int {
	if p < 1 {
		return 1
	}
	if p > MaxPages {
		return MaxPages
	}
	return p
}
