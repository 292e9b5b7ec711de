package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/Zerr0-C00L/Katch/internal/auth"
	"github.com/Zerr0-C00L/Katch/internal/catalog"
	"github.com/Zerr0-C00L/Katch/internal/install"
	"github.com/Zerr0-C00L/Katch/internal/metrics"
	"github.com/Zerr0-C00L/Katch/internal/models"
	"github.com/Zerr0-C00L/Katch/internal/pages"
	"github.com/Zerr0-C00L/Katch/internal/providers"
	"github.com/Zerr0-C00L/Katch/internal/services"
	"github.com/Zerr0-C00L/Katch/internal/shield"
)

// Library is the personal data the JSON API reads and mutates.
type Library interface {
	SaveHistory(ctx context.Context, userID string, m models.MediaDescriptor) error
	ToggleWatchlist(ctx context.Context, userID string, m models.MediaDescriptor) (bool, error)
	IsListed(ctx context.Context, userID string, mediaID int) (bool, error)
	History(ctx context.Context, userID string, cat catalog.Category) ([]models.HistoryEntry, error)
	Watchlist(ctx context.Context, userID string, cat catalog.Category) ([]models.WatchlistEntry, error)
}

// HealthChecker reports whether the backing store is reachable.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// JobStatus lists the background jobs for the health endpoint.
type JobStatus interface {
	GetAllStatus() []services.ServiceStatus
}

// Options carries the handler's collaborators. Auth, Sessions, Prompt,
// Health, Jobs and Metrics are optional.
type Options struct {
	Pages         *pages.Service
	Catalog       pages.Catalog
	Library       Library
	Auth          *auth.Provider
	Sessions      *auth.SessionManager
	Policy        *shield.Policy
	Prompt        *install.Prompt
	Health        HealthChecker
	Jobs          JobStatus
	Metrics       *metrics.Metrics
	SecureCookies bool
	DefaultLang   string
	Logger        *slog.Logger
}

type Handler struct {
	pages         *pages.Service
	catalog       pages.Catalog
	library       Library
	auth          *auth.Provider
	sessions      *auth.SessionManager
	policy        *shield.Policy
	prompt        *install.Prompt
	health        HealthChecker
	jobs          JobStatus
	metrics       *metrics.Metrics
	secureCookies bool
	defaultLang   string
	templates     *renderer
	logger        *slog.Logger
}

func NewHandler(opts Options) (*Handler, error) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Policy == nil {
		opts.Policy = shield.NewPolicy(nil, providers.Hosts(), nil)
	}

	tmpl, err := newRenderer(opts.Policy)
	if err != nil {
		return nil, err
	}

	return &Handler{
		pages:         opts.Pages,
		catalog:       opts.Catalog,
		library:       opts.Library,
		auth:          opts.Auth,
		sessions:      opts.Sessions,
		policy:        opts.Policy,
		prompt:        opts.Prompt,
		health:        opts.Health,
		jobs:          opts.Jobs,
		metrics:       opts.Metrics,
		secureCookies: opts.SecureCookies,
		defaultLang:   pages.ParseLang(opts.DefaultLang, "fr"),
		templates:     tmpl,
		logger:        opts.Logger,
	}, nil
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// Home handles GET /
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	params := pages.ParseHomeParams(r.URL.Query(), h.defaultLang)

	view := h.pages.Home(ctx, params, auth.UserID(ctx))

	data := h.newPageData(w, r, view.Lang)
	data.Home = view
	if len(view.Sections) == 1 && view.Sections[0].Grid {
		data.Title = view.Sections[0].Title
	}
	h.render(w, h.templates.home, http.StatusOK, data)
}

// Watch handles GET /watch/{id}
func (h *Handler) Watch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || id <= 0 {
		h.NotFound(w, r)
		return
	}

	params := pages.ParseWatchParams(id, r.URL.Query())
	view, err := h.pages.Watch(ctx, params, auth.UserID(ctx))
	if err != nil {
		if !errors.Is(err, pages.ErrNotFound) {
			h.logger.Error("failed to build watch page", "id", id, "error", err)
		}
		h.NotFound(w, r)
		return
	}

	data := h.newPageData(w, r, view.T.Lang)
	data.Title = view.Title
	data.Watch = view
	h.render(w, h.templates.watch, http.StatusOK, data)
}

// AnimeRedirect handles GET /anime/{id}: the anime page is the watch page
// with the anime overlay.
func (h *Handler) AnimeRedirect(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || id <= 0 {
		h.NotFound(w, r)
		return
	}

	q := r.URL.Query()
	v := url.Values{}
	v.Set("type", string(catalog.Anime))
	for _, key := range []string{"s", "e", "lang"} {
		if val := q.Get(key); val != "" {
			v.Set(key, val)
		}
	}
	http.Redirect(w, r, fmt.Sprintf("/watch/%d?%s", id, v.Encode()), http.StatusPermanentRedirect)
}

// NotFound renders the not found page.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	lang := r.URL.Query().Get("lang")
	switch strings.ToLower(lang) {
	case providers.VariantVO:
		lang = "en"
	case providers.VariantVF:
		lang = "fr"
	}
	data := h.newPageData(w, r, lang)
	data.Title = data.T.NotFound
	h.render(w, h.templates.notFound, http.StatusNotFound, data)
}

// GetCatalog handles GET /api/v1/catalog
func (h *Handler) GetCatalog(w http.ResponseWriter, r *http.Request) {
	p := pages.ParseHomeParams(r.URL.Query(), h.defaultLang)

	res := h.catalog.GetData(r.Context(), catalog.Request{
		Category: p.Category,
		Genre:    p.Genre,
		Locale:   catalog.Locale(p.Lang),
		Page:     p.Page,
	})
	respondJSON(w, http.StatusOK, clamped(res))
}

// Search handles GET /api/v1/search
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	p := pages.ParseHomeParams(r.URL.Query(), h.defaultLang)

	res := h.catalog.SearchData(r.Context(), catalog.SearchRequest{
		Query:    p.Query,
		Category: p.Category,
		Locale:   catalog.Locale(p.Lang),
		Page:     p.Page,
	})
	respondJSON(w, http.StatusOK, clamped(res))
}

func clamped(res *catalog.Result) *catalog.Result {
	out := *res
	out.TotalPages = catalog.ClampPages(res.TotalPages)
	if out.Items == nil {
		out.Items = []models.MediaItem{}
	}
	return &out
}

// ListHistory handles GET /api/v1/history
func (h *Handler) ListHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	cat := catalog.ParseCategory(r.URL.Query().Get("type"))

	entries, err := h.library.History(ctx, auth.UserID(ctx), cat)
	if err != nil {
		h.logger.Error("failed to list history", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to load history")
		return
	}
	if entries == nil {
		entries = []models.HistoryEntry{}
	}
	respondJSON(w, http.StatusOK, entries)
}

// SaveHistory handles POST /api/v1/history
func (h *Handler) SaveHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	m, ok := decodeMedia(w, r)
	if !ok {
		return
	}
	if err := h.library.SaveHistory(ctx, auth.UserID(ctx), m); err != nil {
		h.logger.Error("failed to save history", "media_id", m.ID, "error", err)
		respondError(w, http.StatusInternalServerError, "failed to save history")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListWatchlist handles GET /api/v1/watchlist
func (h *Handler) ListWatchlist(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	cat := catalog.ParseCategory(r.URL.Query().Get("type"))

	entries, err := h.library.Watchlist(ctx, auth.UserID(ctx), cat)
	if err != nil {
		h.logger.Error("failed to list watchlist", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to load watchlist")
		return
	}
	if entries == nil {
		entries = []models.WatchlistEntry{}
	}
	respondJSON(w, http.StatusOK, entries)
}

// ToggleWatchlist handles POST /api/v1/watchlist/toggle
func (h *Handler) ToggleWatchlist(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	m, ok := decodeMedia(w, r)
	if !ok {
		return
	}
	listed, err := h.library.ToggleWatchlist(ctx, auth.UserID(ctx), m)
	if err != nil {
		h.logger.Error("failed to toggle watchlist", "media_id", m.ID, "error", err)
		respondError(w, http.StatusInternalServerError, "failed to update watchlist")
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"listed": listed})
}

// WatchlistStatus handles GET /api/v1/watchlist/{id}
func (h *Handler) WatchlistStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || id <= 0 {
		respondError(w, http.StatusBadRequest, "invalid media ID")
		return
	}
	listed, err := h.library.IsListed(ctx, auth.UserID(ctx), id)
	if err != nil {
		h.logger.Error("failed to read watchlist", "media_id", id, "error", err)
		respondError(w, http.StatusInternalServerError, "failed to read watchlist")
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"listed": listed})
}

func decodeMedia(w http.ResponseWriter, r *http.Request) (models.MediaDescriptor, bool) {
	var m models.MediaDescriptor
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(&m); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return m, false
	}
	if m.ID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid media ID")
		return m, false
	}
	m.Type = string(catalog.ParseCategory(m.Type))
	if m.Type == string(catalog.All) {
		m.Type = string(catalog.Movie)
	}
	return m, true
}

// DismissInstall handles POST /install/dismiss
func (h *Handler) DismissInstall(w http.ResponseWriter, r *http.Request) {
	if h.prompt != nil {
		h.prompt.Dismiss(install.NewCookieStore(w, r, h.secureCookies))
	}
	w.WriteHeader(http.StatusNoContent)
}

// Manifest handles GET /manifest.json
func (h *Handler) Manifest(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/manifest+json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"name":             "KATCH",
		"short_name":       "KATCH",
		"start_url":        "/?standalone=1",
		"scope":            "/",
		"display":          "standalone",
		"orientation":      "portrait",
		"background_color": "#0b0b0f",
		"theme_color":      "#0b0b0f",
		"lang":             h.defaultLang,
	})
}

// HealthCheck handles GET /api/v1/health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	resp := map[string]interface{}{"status": "ok"}
	if h.jobs != nil {
		resp["jobs"] = h.jobs.GetAllStatus()
	}

	status := http.StatusOK
	if h.health != nil {
		if err := h.health.Health(r.Context()); err != nil {
			h.logger.Warn("health check failed", "error", err)
			status = http.StatusServiceUnavailable
			resp["status"] = "unhealthy"
			resp["error"] = err.Error()
		}
	}
	respondJSON(w, status, resp)
}
