package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Zerr0-C00L/Katch/internal/cache"
	"github.com/Zerr0-C00L/Katch/internal/metrics"
	"github.com/Zerr0-C00L/Katch/internal/models"
)

const (
	tmdbBaseURL      = "https://api.themoviedb.org/3"
	tmdbImageBaseURL = "https://image.tmdb.org/t/p"
)

// StatusError is returned when TMDB answers with a non-200 status.
type StatusError struct {
	Code int
	URL  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("TMDB API returned status %d for %s", e.Code, e.URL)
}

// IsNotFound reports whether err is a TMDB 404.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == http.StatusNotFound
}

type TMDBClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	cache      *cache.RequestCache
	cacheTTL   time.Duration
	metrics    *metrics.Metrics
	logger     *slog.Logger
}

// Option configures a TMDBClient.
type Option func(*TMDBClient)

// WithBaseURL points the client at another API root (tests, proxies).
func WithBaseURL(base string) Option {
	return func(c *TMDBClient) { c.baseURL = strings.TrimRight(base, "/") }
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *TMDBClient) { c.httpClient = hc }
}

// WithCache caches successful responses for ttl.
func WithCache(rc *cache.RequestCache, ttl time.Duration) Option {
	return func(c *TMDBClient) {
		c.cache = rc
		c.cacheTTL = ttl
	}
}

// WithMetrics records every vendor call.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *TMDBClient) { c.metrics = m }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *TMDBClient) { c.logger = l }
}

func NewTMDBClient(apiKey string, opts ...Option) *TMDBClient {
	c := &TMDBClient{
		apiKey:  apiKey,
		baseURL: tmdbBaseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Trending returns one page of /trending/{mediaType}/week.
// mediaType is "all", "movie" or "tv".
func (c *TMDBClient) Trending(ctx context.Context, mediaType, lang string, page int) (*models.Page, error) {
	params := url.Values{}
	params.Set("language", lang)
	params.Set("page", strconv.Itoa(page))

	return c.getPage(ctx, "trending", fmt.Sprintf("/trending/%s/week", mediaType), params)
}

// Discover returns one page of /discover/{mediaType} sorted by popularity.
// filter carries the genre, keyword and language constraints.
func (c *TMDBClient) Discover(ctx context.Context, mediaType string, filter url.Values, lang string, page int) (*models.Page, error) {
	params := url.Values{}
	for k, vals := range filter {
		for _, v := range vals {
			params.Add(k, v)
		}
	}
	params.Set("language", lang)
	params.Set("sort_by", "popularity.desc")
	params.Set("page", strconv.Itoa(page))

	return c.getPage(ctx, "discover", "/discover/"+mediaType, params)
}

// SearchMulti searches movies, series and people at once.
func (c *TMDBClient) SearchMulti(ctx context.Context, query, lang string, page int) (*models.Page, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("language", lang)
	params.Set("page", strconv.Itoa(page))

	return c.getPage(ctx, "search", "/search/multi", params)
}

// GetDetails retrieves movie or series details. vendorType is "movie" or "tv".
func (c *TMDBClient) GetDetails(ctx context.Context, vendorType string, id int, lang string) (*models.Details, error) {
	params := url.Values{}
	params.Set("language", lang)

	data, err := c.makeRequest(ctx, "details", fmt.Sprintf("/%s/%d", vendorType, id), params)
	if err != nil {
		return nil, err
	}

	var details models.Details
	if err := json.Unmarshal(data, &details); err != nil {
		return nil, fmt.Errorf("failed to unmarshal details: %w", err)
	}
	return &details, nil
}

// GetSeason retrieves season details including episodes
func (c *TMDBClient) GetSeason(ctx context.Context, seriesID, seasonNumber int, lang string) (*models.Season, error) {
	params := url.Values{}
	params.Set("language", lang)

	data, err := c.makeRequest(ctx, "season", fmt.Sprintf("/tv/%d/season/%d", seriesID, seasonNumber), params)
	if err != nil {
		return nil, err
	}

	var season models.Season
	if err := json.Unmarshal(data, &season); err != nil {
		return nil, fmt.Errorf("failed to unmarshal season: %w", err)
	}
	return &season, nil
}

// GetExternalIDs retrieves external IDs (IMDB, TVDB) for a movie or series.
func (c *TMDBClient) GetExternalIDs(ctx context.Context, vendorType string, id int) (*models.ExternalIDs, error) {
	data, err := c.makeRequest(ctx, "external_ids", fmt.Sprintf("/%s/%d/external_ids", vendorType, id), url.Values{})
	if err != nil {
		return nil, err
	}

	var ids models.ExternalIDs
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, fmt.Errorf("failed to unmarshal external IDs: %w", err)
	}
	return &ids, nil
}

func (c *TMDBClient) getPage(ctx context.Context, name, endpoint string, params url.Values) (*models.Page, error) {
	data, err := c.makeRequest(ctx, name, endpoint, params)
	if err != nil {
		return nil, err
	}

	var page models.Page
	if err := json.Unmarshal(data, &page); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s results: %w", name, err)
	}
	return &page, nil
}

// makeRequest performs an HTTP GET request to TMDB API
func (c *TMDBClient) makeRequest(ctx context.Context, name, endpoint string, params url.Values) ([]byte, error) {
	params.Del("api_key")
	key := cacheKey(endpoint, params)
	if c.cache != nil {
		if hit := c.cache.Get(key); hit != nil {
			return hit.Data, nil
		}
	}

	u, err := url.Parse(c.baseURL + endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to parse TMDB endpoint %s: %w", endpoint, err)
	}
	params.Set("api_key", c.apiKey)
	u.RawQuery = params.Encode()
	fullURL := u.String()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.ObserveVendor(name, 0, time.Since(started))
		// *url.Error prints the full URL, api_key included.
		var uerr *url.Error
		if errors.As(err, &uerr) {
			err = uerr.Err
		}
		return nil, fmt.Errorf("failed to make request to %s: %w", endpoint, err)
	}
	defer resp.Body.Close()
	c.metrics.ObserveVendor(name, resp.StatusCode, time.Since(started))

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Debug("TMDB non-success status", "endpoint", endpoint, "status", resp.StatusCode)
		return nil, &StatusError{Code: resp.StatusCode, URL: endpoint}
	}

	if c.cache != nil {
		c.cache.Set(key, data, c.cacheTTL)
	}
	return data, nil
}

// cacheKey identifies a response by endpoint and query, without credentials.
func cacheKey(endpoint string, params url.Values) string {
	if len(params) == 0 {
		return endpoint
	}
	return endpoint + "?" + params.Encode()
}

// ImageURL returns the full image URL for a vendor path at the given size
// ("w500", "original").
func ImageURL(path, size string) string {
	if path == "" {
		return ""
	}
	return fmt.Sprintf("%s/%s%s", tmdbImageBaseURL, size, path)
}
