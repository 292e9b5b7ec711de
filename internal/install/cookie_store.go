package install

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// CookieStore keeps entries in cookies of one request/response pair. Each
// value carries its own expiry so stale cookies are ignored.
type CookieStore struct {
	w      http.ResponseWriter
	r      *http.Request
	secure bool
	now    func() time.Time
}

func NewCookieStore(w http.ResponseWriter, r *http.Request, secure bool) *CookieStore {
	return &CookieStore{w: w, r: r, secure: secure, now: time.Now}
}

// Get implements Store
func (s *CookieStore) Get(key string) (string, bool) {
	c, err := s.r.Cookie(key)
	if err != nil {
		return "", false
	}
	raw, err := url.QueryUnescape(c.Value)
	if err != nil {
		return "", false
	}

	value, exp, ok := strings.Cut(raw, "|")
	if !ok {
		return "", false
	}
	expires, err := strconv.ParseInt(exp, 10, 64)
	if err != nil || !s.now().Before(time.Unix(expires, 0)) {
		return "", false
	}
	return value, true
}

// Set implements Store
func (s *CookieStore) Set(key, value string, ttl time.Duration) {
	expires := s.now().Add(ttl)
	http.SetCookie(s.w, &http.Cookie{
		Name:     key,
		Value:    url.QueryEscape(value + "|" + strconv.FormatInt(expires.Unix(), 10)),
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
