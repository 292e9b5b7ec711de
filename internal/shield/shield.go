// Package shield restricts where pages may navigate and what they may
// frame. Embedded players are sandboxed without popups, and outbound links
// go through a checked redirect.
package shield

import (
	"context"
	"net"
	"net/http"
	"net/url"
	"strings"
)

// IframeSandbox is the sandbox attribute given to embedded players. It
// leaves out allow-popups and allow-top-navigation.
const IframeSandbox = "allow-scripts allow-same-origin allow-presentation allow-forms"

// Policy lists the hosts a page may link to, frame and load images from.
type Policy struct {
	AllowedHosts []string
	FrameHosts   []string
	ImageHosts   []string
}

// NewPolicy builds a policy. Frame hosts are also navigable.
func NewPolicy(allowed, frames, images []string) *Policy {
	p := &Policy{
		AllowedHosts: normalizeHosts(allowed),
		FrameHosts:   normalizeHosts(frames),
		ImageHosts:   normalizeHosts(images),
	}
	p.AllowedHosts = append(p.AllowedHosts, p.FrameHosts...)
	return p
}

func normalizeHosts(hosts []string) []string {
	out := make([]string, 0, len(hosts))
	for _, h := range hosts {
		h = stripPort(strings.ToLower(strings.TrimSpace(h)))
		if h != "" {
			out = append(out, h)
		}
	}
	return out
}

// AllowNavigation reports whether a link target is acceptable. Same-site
// paths and bare query strings always are; absolute ones need http(s) and an
// allowed host or one of its subdomains.
func (p *Policy) AllowNavigation(rawURL string) bool {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return false
	}
	if u.Scheme == "" && u.Host == "" {
		return sameSite(u.Path)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}

	host := strings.ToLower(u.Hostname())
	for _, allowed := range p.AllowedHosts {
		if host == allowed || strings.HasSuffix(host, "."+allowed) {
			return true
		}
	}
	return false
}

// sameSite accepts an empty path or one rooted at a single slash. Browsers
// read "/\host" as "//host".
func sameSite(path string) bool {
	if path == "" {
		return true
	}
	return strings.HasPrefix(path, "/") && !strings.HasPrefix(path, "//") && !strings.HasPrefix(path, "/\\")
}

// OutboundURL returns relative URLs unchanged and routes absolute ones
// through the /out redirect.
func (p *Policy) OutboundURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err == nil && u.Scheme == "" && u.Host == "" && sameSite(u.Path) {
		return rawURL
	}
	return "/out?u=" + url.QueryEscape(rawURL)
}

// ContentSecurityPolicy renders the policy as a CSP header value.
func (p *Policy) ContentSecurityPolicy() string {
	frames := []string{"'self'"}
	for _, h := range p.FrameHosts {
		frames = append(frames, "https://"+h)
	}
	images := []string{"'self'", "data:"}
	for _, h := range p.ImageHosts {
		images = append(images, "https://"+h)
	}

	directives := []string{
		"default-src 'self'",
		"script-src 'self' 'unsafe-inline'",
		"style-src 'self' 'unsafe-inline'",
		"img-src " + strings.Join(images, " "),
		"frame-src " + strings.Join(frames, " "),
		"object-src 'none'",
		"base-uri 'self'",
		"form-action 'self'",
		"frame-ancestors 'none'",
	}
	return strings.Join(directives, "; ")
}

type contextKey struct{}

// Middleware sets the security headers and exposes the policy to handlers.
func Middleware(p *Policy) func(http.Handler) http.Handler {
	csp := p.ContentSecurityPolicy()
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("Content-Security-Policy", csp)
			h.Set("X-Frame-Options", "DENY")
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("Referrer-Policy", "strict-origin-when-cross-origin")

			ctx := context.WithValue(r.Context(), contextKey{}, p)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// FromContext returns the policy installed by Middleware, or nil.
func FromContext(ctx context.Context) *Policy {
	p, _ := ctx.Value(contextKey{}).(*Policy)
	return p
}

// RedirectHandler serves /out?u=: allowed targets get a redirect, anything
// else is refused.
func RedirectHandler(w http.ResponseWriter, r *http.Request) {
	p := FromContext(r.Context())
	target := r.URL.Query().Get("u")
	if p == nil || target == "" || !p.AllowNavigation(target) {
		http.Error(w, "Navigation blocked", http.StatusForbidden)
		return
	}
	http.Redirect(w, r, target, http.StatusFound)
}

func stripPort(hostport string) string {
	if h, _, err := net.SplitHostPort(hostport); err == nil {
		return h
	}
	return hostport
}
