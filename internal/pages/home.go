package pages

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/Zerr0-C00L/Katch/internal/catalog"
	"github.com/Zerr0-C00L/Katch/internal/models"
)

// HomeParams are the query parameters of the home page.
type HomeParams struct {
	Lang     string
	Category catalog.Category
	Query    string
	Genre    string
	Page     int
}

// ParseHomeParams reads type, q, genre, page and lang.
func ParseHomeParams(q url.Values, defaultLang string) HomeParams {
	page := atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}
	return HomeParams{
		Lang:     ParseLang(q.Get("lang"), defaultLang),
		Category: catalog.ParseCategory(q.Get("type")),
		Query:    strings.TrimSpace(q.Get("q")),
		Genre:    strings.TrimSpace(q.Get("genre")),
		Page:     page,
	}
}

// Section is a titled shelf, or a paginated grid.
type Section struct {
	Title      string
	Items      []Card
	Grid       bool
	Page       int
	TotalPages int
	PrevURL    string
	NextURL    string
}

// NavItem is a category entry of the header menu.
type NavItem struct {
	Link
	Genres []Link
}

// HomeView is everything the home template renders.
type HomeView struct {
	T        Translations
	Lang     string
	Category catalog.Category
	Query    string
	Genre    string
	Hero     *Card
	Sections []Section
	Nav      []NavItem
	LangFR   string
	LangEN   string
	// SearchType is the category searched from the header form.
	SearchType string
}

// Home composes the home page.
func (s *Service) Home(ctx context.Context, p HomeParams, userID string) *HomeView {
	if p.Lang == "" {
		p.Lang = s.defaultLang
	}
	if p.Page < 1 {
		p.Page = 1
	}
	t := T(p.Lang)

	view := &HomeView{
		T:        t,
		Lang:     p.Lang,
		Category: p.Category,
		Query:    p.Query,
		Genre:    p.Genre,
		Nav:      navigation(t, p),
		LangFR:   langSwitch(p, "fr"),
		LangEN:   langSwitch(p, "en"),
	}
	view.SearchType = string(p.Category)
	if p.Category == catalog.All {
		view.SearchType = string(catalog.Movie)
	}

	switch {
	case p.Query != "" || p.Genre != "":
		s.gridHome(ctx, view, p)
	case p.Category == catalog.All:
		s.allHome(ctx, view, p, userID)
	default:
		s.categoryHome(ctx, view, p, userID)
	}
	return view
}

func (s *Service) gridHome(ctx context.Context, view *HomeView, p HomeParams) {
	t := view.T
	locale := catalog.Locale(p.Lang)

	var res *catalog.Result
	var title string
	if p.Query != "" {
		res = s.catalog.SearchData(ctx, catalog.SearchRequest{
			Query: p.Query, Category: p.Category, Locale: locale, Page: p.Page,
		})
		title = fmt.Sprintf("%s \"%s\"", t.Results, p.Query)
	} else {
		res = s.catalog.GetData(ctx, catalog.Request{
			Category: p.Category, Genre: p.Genre, Locale: locale, Page: p.Page,
		})
		if g, ok := catalog.FindGenre(p.Category, p.Genre); ok {
			title = g.Name(p.Lang)
		}
	}

	items := res.Items
	if p.Query == "" && p.Page == 1 && len(items) > 0 {
		hero := cardFromItem(items[0], gridKind(items[0], p.Category), p.Lang)
		view.Hero = &hero
		items = items[1:]
	}
	if p.Query == "" {
		if n := len(items) / 6 * 6; n > 0 {
			items = items[:n]
		}
	}

	cards := make([]Card, 0, len(items))
	for _, it := range items {
		cards = append(cards, cardFromItem(it, gridKind(it, p.Category), p.Lang))
	}

	sec := Section{
		Title:      title,
		Items:      cards,
		Grid:       true,
		Page:       p.Page,
		TotalPages: catalog.ClampPages(res.TotalPages),
	}
	if sec.Page > 1 {
		sec.PrevURL = pageURL(p, sec.Page-1)
	}
	if sec.Page < sec.TotalPages {
		sec.NextURL = pageURL(p, sec.Page+1)
	}
	view.Sections = append(view.Sections, sec)
}

// gridKind keeps overlay categories and otherwise trusts the vendor tag.
func gridKind(it models.MediaItem, c catalog.Category) string {
	if c == catalog.Anime || c == catalog.KDrama {
		return string(c)
	}
	if it.MediaType != "" {
		return it.MediaType
	}
	if c == catalog.All {
		return string(catalog.Movie)
	}
	return string(c)
}

func (s *Service) allHome(ctx context.Context, view *HomeView, p HomeParams, userID string) {
	t := view.T
	locale := catalog.Locale(p.Lang)

	var (
		trending, movies, series *catalog.Result
		history                  []models.HistoryEntry
		watchlist                []models.WatchlistEntry
	)

	var g errgroup.Group
	g.Go(func() error {
		trending = s.catalog.GetData(ctx, catalog.Request{Category: catalog.All, Locale: locale, Page: 1})
		return nil
	})
	g.Go(func() error {
		movies = s.catalog.GetData(ctx, catalog.Request{Category: catalog.Movie, Locale: locale, Page: 1})
		return nil
	})
	g.Go(func() error {
		series = s.catalog.GetData(ctx, catalog.Request{Category: catalog.TV, Locale: locale, Page: 1})
		return nil
	})
	s.loadLibrary(ctx, &g, userID, catalog.All, &history, &watchlist)
	_ = g.Wait()

	if len(trending.Items) > 0 {
		hero := cardFromItem(trending.Items[0], gridKind(trending.Items[0], catalog.All), p.Lang)
		view.Hero = &hero
	}

	view.Sections = append(view.Sections, librarySections(t, p.Lang, history, watchlist)...)
	view.Sections = append(view.Sections,
		shelf(fmt.Sprintf("%s - %s", t.Trending, t.Movies), movies.Items, catalog.Movie, p.Lang, false),
		shelf(fmt.Sprintf("%s - %s", t.Trending, t.Series), series.Items, catalog.TV, p.Lang, false),
	)
}

const genreShelves = 4

func (s *Service) categoryHome(ctx context.Context, view *HomeView, p HomeParams, userID string) {
	t := view.T
	locale := catalog.Locale(p.Lang)
	topGenres := catalog.TopGenres(p.Category, genreShelves)

	var (
		trending  *catalog.Result
		byGenre   = make([]*catalog.Result, len(topGenres))
		history   []models.HistoryEntry
		watchlist []models.WatchlistEntry
	)

	var g errgroup.Group
	g.Go(func() error {
		trending = s.catalog.GetData(ctx, catalog.Request{Category: p.Category, Locale: locale, Page: 1})
		return nil
	})
	for i, genre := range topGenres {
		g.Go(func() error {
			byGenre[i] = s.catalog.GetData(ctx, catalog.Request{
				Category: p.Category, Genre: genre.ID, Locale: locale, Page: 1,
			})
			return nil
		})
	}
	s.loadLibrary(ctx, &g, userID, p.Category, &history, &watchlist)
	_ = g.Wait()

	var rest []models.MediaItem
	if len(trending.Items) > 0 {
		hero := cardFromItem(trending.Items[0], string(p.Category), p.Lang)
		view.Hero = &hero
		rest = trending.Items[1:]
	}

	view.Sections = append(view.Sections, librarySections(t, p.Lang, history, watchlist)...)
	view.Sections = append(view.Sections, shelf(t.Trending, rest, p.Category, p.Lang, true))
	for i, genre := range topGenres {
		view.Sections = append(view.Sections, shelf(genre.Name(p.Lang), byGenre[i].Items, p.Category, p.Lang, true))
	}
}

// loadLibrary queues the history and watchlist reads for signed-in users.
func (s *Service) loadLibrary(ctx context.Context, g *errgroup.Group, userID string, cat catalog.Category,
	history *[]models.HistoryEntry, watchlist *[]models.WatchlistEntry) {
	if userID == "" {
		return
	}
	g.Go(func() error {
		h, err := s.library.History(ctx, userID, cat)
		if err != nil {
			s.logger.Warn("history unavailable", "user", userID, "error", err)
			return nil
		}
		*history = h
		return nil
	})
	g.Go(func() error {
		w, err := s.library.Watchlist(ctx, userID, cat)
		if err != nil {
			s.logger.Warn("watchlist unavailable", "user", userID, "error", err)
			return nil
		}
		*watchlist = w
		return nil
	})
}

func librarySections(t Translations, lang string, history []models.HistoryEntry, watchlist []models.WatchlistEntry) []Section {
	var out []Section
	if len(history) > 0 {
		cards := make([]Card, 0, len(history))
		for _, h := range history {
			c := Card{
				ID:        h.MediaID,
				Title:     h.Title,
				Kind:      h.MediaType,
				PosterURL: posterURL(h.PosterPath),
				WatchURL:  watchURL(h.MediaID, h.MediaType, lang, 0, 0),
			}
			if isSeriesKind(h.MediaType) {
				c.Progress = fmt.Sprintf("S%d E%d", h.Season, h.Episode)
				c.WatchURL = watchURL(h.MediaID, h.MediaType, lang, h.Season, h.Episode)
			}
			cards = append(cards, c)
		}
		out = append(out, Section{Title: t.ContinueWatching, Items: cards})
	}
	if len(watchlist) > 0 {
		cards := make([]Card, 0, len(watchlist))
		for _, w := range watchlist {
			cards = append(cards, Card{
				ID:        w.MediaID,
				Title:     w.Title,
				Kind:      w.MediaType,
				PosterURL: posterURL(w.PosterPath),
				WatchURL:  watchURL(w.MediaID, w.MediaType, lang, 0, 0),
			})
		}
		out = append(out, Section{Title: t.MyList, Items: cards})
	}
	return out
}

// shelf builds a horizontal section. force stamps the category on every
// card instead of the vendor tag.
func shelf(title string, items []models.MediaItem, c catalog.Category, lang string, force bool) Section {
	cards := make([]Card, 0, len(items))
	for _, it := range items {
		kind := gridKind(it, c)
		if force {
			kind = string(c)
		}
		cards = append(cards, cardFromItem(it, kind, lang))
	}
	return Section{Title: title, Items: cards}
}

func navigation(t Translations, p HomeParams) []NavItem {
	nav := make([]NavItem, 0, len(catalog.Categories))
	for _, c := range catalog.Categories {
		v := url.Values{}
		v.Set("type", string(c))
		v.Set("lang", p.Lang)
		item := NavItem{Link: Link{
			Label:  t.CategoryLabel(string(c)),
			URL:    "/?" + v.Encode(),
			Active: c == p.Category && p.Genre == "",
		}}
		for _, g := range catalog.Genres(c) {
			gv := url.Values{}
			gv.Set("type", string(c))
			gv.Set("genre", g.ID)
			gv.Set("lang", p.Lang)
			item.Genres = append(item.Genres, Link{
				Label:  g.Name(p.Lang),
				URL:    "/?" + gv.Encode(),
				Active: c == p.Category && g.ID == p.Genre,
			})
		}
		nav = append(nav, item)
	}
	return nav
}

func langSwitch(p HomeParams, lang string) string {
	v := url.Values{}
	v.Set("lang", lang)
	v.Set("type", string(p.Category))
	if p.Query != "" {
		v.Set("q", p.Query)
	}
	if p.Genre != "" {
		v.Set("genre", p.Genre)
	}
	return "/?" + v.Encode()
}

func pageURL(p HomeParams, page int) string {
	v := url.Values{}
	v.Set("lang", p.Lang)
	v.Set("type", string(p.Category))
	if p.Query != "" {
		v.Set("q", p.Query)
	}
	if p.Genre != "" {
		v.Set("genre", p.Genre)
	}
	v.Set("page", strconv.Itoa(page))
	return "/?" + v.Encode()
}
