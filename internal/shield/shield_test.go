package shield

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func testPolicy() *Policy {
	return NewPolicy(
		[]string{"www.themoviedb.org"},
		[]string{"vidsrc.to", "autoembed.cc:443"},
		[]string{"image.tmdb.org"},
	)
}

func TestAllowNavigation(t *testing.T) {
	p := testPolicy()
	tests := map[string]bool{
		"/watch/1?type=tv":                true,
		"?page=2":                         true,
		"https://www.themoviedb.org/tv/1": true,
		"https://vidsrc.to/embed/movie/1": true,
		"https://cdn.vidsrc.to/x":         true,
		"https://autoembed.cc/movie/1":    true,
		"https://evil.example/":           false,
		"https://vidsrc.to.evil.example/": false,
		"//evil.example/path":             false,
		"javascript:alert(1)":             false,
		"ftp://vidsrc.to/file":            false,
		"\\\\evil.example":                false,
		"/\\evil.example":                 false,
		"//evil.example":                  false,
		"watch/1":                         false,
	}
	for raw, want := range tests {
		if got := p.AllowNavigation(raw); got != want {
			t.Errorf("AllowNavigation(%q) = %v, want %v", raw, got, want)
		}
	}
}

func TestContentSecurityPolicy(t *testing.T) {
	csp := testPolicy().ContentSecurityPolicy()
	for _, want := range []string{
		"frame-src 'self' https://vidsrc.to https://autoembed.cc",
		"img-src 'self' data: https://image.tmdb.org",
		"frame-ancestors 'none'",
	} {
		if !strings.Contains(csp, want) {
			t.Errorf("csp %q lacks %q", csp, want)
		}
	}
}

func TestMiddlewareAndRedirect(t *testing.T) {
	h := Middleware(testPolicy())(http.HandlerFunc(RedirectHandler))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/out?u="+"https%3A%2F%2Fwww.themoviedb.org%2Fmovie%2F550", nil))
	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "https://www.themoviedb.org/movie/550" {
		t.Errorf("allowed redirect = %d %q", rec.Code, rec.Header().Get("Location"))
	}
	if rec.Header().Get("Content-Security-Policy") == "" || rec.Header().Get("X-Frame-Options") != "DENY" {
		t.Error("security headers missing")
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/out?u=https%3A%2F%2Fads.example%2F", nil))
	if rec.Code != http.StatusForbidden {
		t.Errorf("blocked redirect status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/out?u=%2F%5Cevil.example", nil))
	if rec.Code != http.StatusForbidden || rec.Header().Get("Location") != "" {
		t.Errorf("backslash path redirect = %d %q", rec.Code, rec.Header().Get("Location"))
	}

	rec = httptest.NewRecorder()
	RedirectHandler(rec, httptest.NewRequest("GET", "/out?u=/", nil))
	if rec.Code != http.StatusForbidden {
		t.Errorf("without a policy every redirect is refused, got %d", rec.Code)
	}
}

func TestOutboundURL(t *testing.T) {
	p := testPolicy()
	if got := p.OutboundURL("/watch/1"); got != "/watch/1" {
		t.Errorf("relative = %q", got)
	}
	if got := p.OutboundURL("/\\evil.example"); got != "/out?u=%2F%5Cevil.example" {
		t.Errorf("backslash path = %q", got)
	}
	if got := p.OutboundURL("https://www.themoviedb.org/movie/1"); got != "/out?u=https%3A%2F%2Fwww.themoviedb.org%2Fmovie%2F1" {
		t.Errorf("absolute = %q", got)
	}
}
