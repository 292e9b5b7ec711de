package api

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"net/url"

	"github.com/Zerr0-C00L/Katch/internal/auth"
	"github.com/Zerr0-C00L/Katch/internal/catalog"
	"github.com/Zerr0-C00L/Katch/internal/install"
	"github.com/Zerr0-C00L/Katch/internal/pages"
	"github.com/Zerr0-C00L/Katch/internal/shield"
)

//go:embed templates/*.html
var templateFS embed.FS

type renderer struct {
	home     *template.Template
	watch    *template.Template
	notFound *template.Template
}

// pageData is the root value of every template.
type pageData struct {
	T           pages.Translations
	Lang        string
	Title       string
	AuthEnabled bool
	SignedIn    bool
	UserName    string
	LoginURL    string
	LogoutURL   string
	Install     install.State
	Home        *pages.HomeView
	Watch       *pages.WatchView
}

func newRenderer(policy *shield.Policy) (*renderer, error) {
	funcs := template.FuncMap{
		"outbound": policy.OutboundURL,
		"sandbox":  func() string { return shield.IframeSandbox },
		"infoURL":  infoURL,
	}
	parse := func(page string) (*template.Template, error) {
		t, err := template.New("layout.html").Funcs(funcs).
			ParseFS(templateFS, "templates/layout.html", "templates/"+page)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", page, err)
		}
		return t, nil
	}

	var r renderer
	var err error
	if r.home, err = parse("home.html"); err != nil {
		return nil, err
	}
	if r.watch, err = parse("watch.html"); err != nil {
		return nil, err
	}
	if r.notFound, err = parse("notfound.html"); err != nil {
		return nil, err
	}
	return &r, nil
}

// infoURL links a title to its vendor page.
func infoURL(kind string, id int) string {
	return fmt.Sprintf("https://www.themoviedb.org/%s/%d", catalog.ParseCategory(kind).VendorType(), id)
}

// render executes into a buffer first so a template error still yields a
// clean 500.
func (h *Handler) render(w http.ResponseWriter, t *template.Template, status int, data *pageData) {
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		h.logger.Error("template execution failed", "template", t.Name(), "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// newPageData fills the parts shared by every page.
func (h *Handler) newPageData(w http.ResponseWriter, r *http.Request, lang string) *pageData {
	lang = pages.ParseLang(lang, h.defaultLang)
	data := &pageData{
		T:           pages.T(lang),
		Lang:        lang,
		AuthEnabled: h.auth != nil && h.auth.Enabled(),
	}
	if claims, ok := auth.GetUserFromContext(r.Context()); ok {
		data.SignedIn = true
		data.UserName = claims.Name
	}

	ret := url.QueryEscape(r.URL.RequestURI())
	data.LoginURL = "/auth/login?return=" + ret
	data.LogoutURL = "/auth/logout?return=" + ret

	if h.prompt != nil {
		data.Install = h.prompt.State(r, install.NewCookieStore(w, r, h.secureCookies))
	}
	return data
}
