package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Zerr0-C00L/Katch/internal/cache"
)

func TestSearchMultiSendsQueryAndDecodes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search/multi" {
			t.Errorf("path = %q", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("query") != "naruto" || q.Get("language") != "fr-FR" || q.Get("page") != "3" || q.Get("api_key") != "k" {
			t.Errorf("unexpected query %v", q)
		}
		w.Write([]byte(`{"page":3,"total_pages":7,"total_results":120,"results":[{"id":46260,"name":"Naruto","media_type":"tv","popularity":88.5,"vote_count":5400,"poster_path":"/p.jpg"}]}`))
	}))
	defer srv.Close()

	c := NewTMDBClient("k", WithBaseURL(srv.URL))
	page, err := c.SearchMulti(context.Background(), "naruto", "fr-FR", 3)
	if err != nil {
		t.Fatalf("SearchMulti: %v", err)
	}
	if page.TotalPages != 7 || len(page.Results) != 1 {
		t.Fatalf("page = %+v", page)
	}
	item := page.Results[0]
	if item.DisplayTitle() != "Naruto" || item.VoteCount != 5400 || item.MediaType != "tv" {
		t.Errorf("item = %+v", item)
	}
}

func TestDiscoverMergesFilter(t *testing.T) {
	var got url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/discover/tv" {
			t.Errorf("path = %q", r.URL.Path)
		}
		got = r.URL.Query()
		w.Write([]byte(`{"page":1,"results":[]}`))
	}))
	defer srv.Close()

	filter := url.Values{}
	filter.Set("with_genres", "16")
	filter.Set("with_original_language", "ja")

	c := NewTMDBClient("k", WithBaseURL(srv.URL))
	if _, err := c.Discover(context.Background(), "tv", filter, "en-US", 2); err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if got.Get("with_genres") != "16" || got.Get("with_original_language") != "ja" ||
		got.Get("sort_by") != "popularity.desc" || got.Get("page") != "2" {
		t.Errorf("query = %v", got)
	}
	if filter.Get("api_key") != "" {
		t.Error("caller filter must not be mutated")
	}
}

func TestNotFoundStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"status_code":34}`, http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewTMDBClient("k", WithBaseURL(srv.URL))
	_, err := c.GetDetails(context.Background(), "movie", 1, "fr-FR")
	if err == nil {
		t.Fatal("expected error")
	}
	if !IsNotFound(err) {
		t.Errorf("IsNotFound(%v) = false", err)
	}
}

func TestCacheOnlyStoresSuccess(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := calls.Add(1)
		if r.URL.Path == "/tv/1/external_ids" && n == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"id":1,"imdb_id":"tt0988824"}`))
	}))
	defer srv.Close()

	c := NewTMDBClient("k", WithBaseURL(srv.URL), WithCache(cache.NewRequestCache(), time.Hour))
	ctx := context.Background()

	if _, err := c.GetExternalIDs(ctx, "tv", 1); err == nil {
		t.Fatal("first call should fail")
	}
	for i := 0; i < 2; i++ {
		ids, err := c.GetExternalIDs(ctx, "tv", 1)
		if err != nil {
			t.Fatalf("GetExternalIDs: %v", err)
		}
		if ids.IMDBID != "tt0988824" {
			t.Errorf("imdb = %q", ids.IMDBID)
		}
	}
	if calls.Load() != 2 {
		t.Errorf("vendor calls = %d, want 2", calls.Load())
	}
}

func TestCacheKeyOmitsAPIKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"page":1,"results":[],"total_pages":1,"total_results":0}`))
	}))
	defer srv.Close()

	rc := cache.NewRequestCache()
	c := NewTMDBClient("SECRETKEY123", WithBaseURL(srv.URL), WithCache(rc, time.Hour))
	if _, err := c.Trending(context.Background(), "all", "fr-FR", 1); err != nil {
		t.Fatalf("Trending: %v", err)
	}
	if rc.Get("/trending/all/week?language=fr-FR&page=1") == nil {
		t.Error("response not cached under the credential-free key")
	}
	if rc.Len() != 1 {
		t.Errorf("cache entries = %d, want 1", rc.Len())
	}
}

func TestTransportErrorHidesAPIKey(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	c := NewTMDBClient("SECRETKEY123", WithBaseURL(base))
	_, err := c.Trending(context.Background(), "all", "fr-FR", 1)
	if err == nil {
		t.Fatal("expected a transport error")
	}
	if strings.Contains(err.Error(), "SECRETKEY123") {
		t.Errorf("error leaks the api key: %v", err)
	}
	if !strings.Contains(err.Error(), "/trending/all/week") {
		t.Errorf("error should name the endpoint: %v", err)
	}
}

func TestImageURL(t *testing.T) {
	if got := ImageURL("/a.jpg", "w500"); got != "https://image.tmdb.org/t/p/w500/a.jpg" {
		t.Errorf("ImageURL = %q", got)
	}
	if ImageURL("", "w500") != "" {
		t.Error("empty path should give empty url")
	}
}
