package install

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

type memStore map[string]string

func (m memStore) Get(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}

func (m memStore) Set(key, value string, _ time.Duration) { m[key] = value }

func TestDetectPlatform(t *testing.T) {
	tests := map[string]string{
		"Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X)": PlatformIOS,
		"Mozilla/5.0 (iPad; CPU OS 16_0 like Mac OS X)":          PlatformIOS,
		"Mozilla/5.0 (Linux; Android 14; Pixel 8)":               PlatformAndroid,
		"":                                                       PlatformAndroid,
	}
	for ua, want := range tests {
		if got := DetectPlatform(ua); got != want {
			t.Errorf("DetectPlatform(%q) = %q, want %q", ua, got, want)
		}
	}
}

func TestPromptState(t *testing.T) {
	p := NewPrompt()
	now := time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return now }

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("User-Agent", "Mozilla/5.0 (iPhone)")

	store := memStore{}
	st := p.State(req, store)
	if !st.Show || st.Platform != PlatformIOS || st.DelayMs != 3000 {
		t.Errorf("fresh visitor = %+v", st)
	}

	p.Dismiss(store)
	now = now.Add(6 * 24 * time.Hour)
	if p.State(req, store).Show {
		t.Error("prompt should stay hidden within 7 days of dismissal")
	}
	now = now.Add(2 * 24 * time.Hour)
	if !p.State(req, store).Show {
		t.Error("prompt should come back after 7 days")
	}

	standaloneReq := httptest.NewRequest("GET", "/?standalone=1", nil)
	if p.State(standaloneReq, memStore{}).Show {
		t.Error("standalone app should not be prompted")
	}
	hinted := httptest.NewRequest("GET", "/", nil)
	hinted.Header.Set("X-Display-Mode", "standalone")
	if st := p.State(hinted, memStore{}); st.Show || st.Platform != PlatformAndroid || st.DelayMs != 0 {
		t.Errorf("display-mode hint = %+v", st)
	}
}

func TestCookieStoreRoundTrip(t *testing.T) {
	now := time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC)

	rec := httptest.NewRecorder()
	w := NewCookieStore(rec, httptest.NewRequest("GET", "/", nil), true)
	w.now = func() time.Time { return now }
	w.Set("k", "v|1", time.Hour)

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || !cookies[0].Secure || cookies[0].MaxAge != 3600 {
		t.Fatalf("cookies = %+v", cookies)
	}

	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(&http.Cookie{Name: cookies[0].Name, Value: cookies[0].Value})
	r := NewCookieStore(httptest.NewRecorder(), req, true)
	r.now = func() time.Time { return now.Add(30 * time.Minute) }
	if v, ok := r.Get("k"); !ok || v != "v|1" {
		t.Errorf("Get = %q, %v", v, ok)
	}

	r.now = func() time.Time { return now.Add(2 * time.Hour) }
	if _, ok := r.Get("k"); ok {
		t.Error("expired value should be ignored")
	}
	if _, ok := r.Get("missing"); ok {
		t.Error("missing key should not be found")
	}
}
