// Package install decides when to offer the add-to-home-screen prompt.
package install

import (
	"net/http"
	"strconv"
	"strings"
	"time"
)

const (
	PlatformIOS     = "ios"
	PlatformAndroid = "android"

	dismissedKey = "katch_prompt_dismissed"
)

// DetectPlatform returns ios for iPad, iPhone and iPod user agents and
// android for everything else.
func DetectPlatform(userAgent string) string {
	for _, device := range []string{"iPad", "iPhone", "iPod"} {
		if strings.Contains(userAgent, device) {
			return PlatformIOS
		}
	}
	return PlatformAndroid
}

// Store is a small key-value store whose entries expire.
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string, ttl time.Duration)
}

// State is what the page needs to render the prompt.
type State struct {
	Show     bool   `json:"show"`
	Platform string `json:"platform"`
	DelayMs  int    `json:"delay_ms"`
}

// Prompt holds the prompt timing rules.
type Prompt struct {
	DismissFor time.Duration
	IOSDelay   time.Duration
	now        func() time.Time
}

func NewPrompt() *Prompt {
	return &Prompt{
		DismissFor: 7 * 24 * time.Hour,
		IOSDelay:   3 * time.Second,
		now:        time.Now,
	}
}

// State decides whether to show the prompt. It stays hidden for installed
// (standalone) apps and during the dismissal window.
func (p *Prompt) State(r *http.Request, store Store) State {
	st := State{Platform: DetectPlatform(r.UserAgent())}
	if st.Platform == PlatformIOS {
		st.DelayMs = int(p.IOSDelay.Milliseconds())
	}

	if standalone(r) || p.dismissed(store) {
		return st
	}
	st.Show = true
	return st
}

func standalone(r *http.Request) bool {
	return r.URL.Query().Get("standalone") == "1" ||
		strings.EqualFold(r.Header.Get("X-Display-Mode"), "standalone")
}

func (p *Prompt) dismissed(store Store) bool {
	v, ok := store.Get(dismissedKey)
	if !ok {
		return false
	}
	at, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return false
	}
	return p.now().Sub(time.UnixMilli(at)) < p.DismissFor
}

// Dismiss hides the prompt for DismissFor.
func (p *Prompt) Dismiss(store Store) {
	store.Set(dismissedKey, strconv.FormatInt(p.now().UnixMilli(), 10), p.DismissFor)
}
