package pages

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/Zerr0-C00L/Katch/internal/catalog"
	"github.com/Zerr0-C00L/Katch/internal/models"
	"github.com/Zerr0-C00L/Katch/internal/providers"
	"github.com/Zerr0-C00L/Katch/internal/services"
)

// ErrNotFound is returned when the title's details cannot be loaded.
var ErrNotFound = errors.New("title not found")

// WatchParams are the path id and query parameters of the watch page.
// Zero Season or Episode means not specified.
type WatchParams struct {
	ID       int
	Category catalog.Category
	Variant  string
	Season   int
	Episode  int
	Server   string
}

// ParseWatchParams reads type, lang, s, e and server. A missing type means
// movie.
func ParseWatchParams(id int, q url.Values) WatchParams {
	cat := catalog.ParseCategory(q.Get("type"))
	if cat == catalog.All {
		cat = catalog.Movie
	}
	return WatchParams{
		ID:       id,
		Category: cat,
		Variant:  providers.ParseVariant(q.Get("lang")),
		Season:   max(atoi(q.Get("s")), 0),
		Episode:  max(atoi(q.Get("e")), 0),
		Server:   q.Get("server"),
	}
}

// EpisodeLink is one entry of the episode list.
type EpisodeLink struct {
	Number int
	Name   string
	URL    string
	Active bool
}

// WatchView is everything the watch template renders.
type WatchView struct {
	T           Translations
	ID          int
	Kind        string
	Series      bool
	Variant     string
	Title       string
	Overview    string
	Year        string
	Rating      string
	SeasonCount int
	Genres      []string
	PosterURL   string
	BackdropURL string

	Season  int
	Episode int
	HasPrev bool
	HasNext bool
	PrevURL string
	NextURL string

	Player   providers.Selection
	Variants []Link
	Servers  []Link
	Seasons  []Link
	Episodes []EpisodeLink

	SignedIn bool
	Listed   bool
	Media    models.MediaDescriptor
	HomeURL  string
}

// Watch composes the watch page and records the visit in the user's
// history. It returns ErrNotFound when the details lookup fails.
func (s *Service) Watch(ctx context.Context, p WatchParams, userID string) (*WatchView, error) {
	variant := providers.ParseVariant(p.Variant)
	locale := providers.Locale(variant)
	vendorType := p.Category.VendorType()
	series := p.Category.IsSeries()

	var (
		details *models.Details
		ids     *models.ExternalIDs
		resume  *models.HistoryEntry
	)

	var g errgroup.Group
	g.Go(func() error {
		d, err := s.metadata.GetDetails(ctx, vendorType, p.ID, locale)
		if err != nil {
			if !services.IsNotFound(err) {
				s.logger.Warn("details unavailable", "id", p.ID, "type", vendorType, "error", err)
			}
			return nil
		}
		details = d
		return nil
	})
	g.Go(func() error {
		x, err := s.metadata.GetExternalIDs(ctx, vendorType, p.ID)
		if err != nil {
			s.logger.Debug("external ids unavailable", "id", p.ID, "error", err)
			return nil
		}
		ids = x
		return nil
	})
	if series && userID != "" && p.Season == 0 && p.Episode == 0 {
		g.Go(func() error {
			h, err := s.library.Progress(ctx, userID, p.ID)
			if err != nil {
				s.logger.Warn("progress unavailable", "user", userID, "id", p.ID, "error", err)
				return nil
			}
			resume = h
			return nil
		})
	}
	_ = g.Wait()

	if details == nil {
		return nil, ErrNotFound
	}

	season, episode := p.Season, p.Episode
	if resume != nil {
		season, episode = resume.Season, resume.Episode
	}
	if season < 1 {
		season = 1
	}
	if episode < 1 {
		episode = 1
	}

	var seasonData *models.Season
	if series {
		sd, err := s.metadata.GetSeason(ctx, p.ID, season, locale)
		if err != nil {
			s.logger.Warn("season unavailable", "id", p.ID, "season", season, "error", err)
		} else {
			seasonData = sd
		}
	}

	target := providers.Target{TMDBID: p.ID, Series: series, Season: season, Episode: episode}
	if ids != nil {
		target.IMDBID = ids.IMDBID
	}
	player := providers.Resolve(variant, p.Server, target)

	lang := "fr"
	if variant == providers.VariantVO {
		lang = "en"
	}

	view := &WatchView{
		T:           T(lang),
		ID:          p.ID,
		Kind:        string(p.Category),
		Series:      series,
		Variant:     variant,
		Title:       details.DisplayTitle(),
		Overview:    details.Overview,
		Year:        details.ReleaseYear(),
		SeasonCount: details.NumberOfSeasons,
		PosterURL:   posterURL(details.PosterPath),
		BackdropURL: services.ImageURL(details.BackdropPath, "original"),
		Season:      season,
		Episode:     episode,
		HasPrev:     episode > 1,
		HasNext:     seasonData != nil && episode < len(seasonData.Episodes),
		Player:      player,
		SignedIn:    userID != "",
		HomeURL:     "/?lang=" + lang,
		Media: models.MediaDescriptor{
			ID:         p.ID,
			Type:       string(p.Category),
			Title:      details.DisplayTitle(),
			PosterPath: details.PosterPath,
			Season:     season,
			Episode:    episode,
		},
	}
	if details.VoteAverage > 0 {
		view.Rating = strconv.FormatFloat(details.VoteAverage, 'f', 1, 64)
	}
	for _, genre := range details.Genres {
		view.Genres = append(view.Genres, genre.Name)
	}

	link := linker{id: p.ID, kind: view.Kind, variant: variant, season: season, episode: episode, server: player.Active}
	if view.HasPrev {
		view.PrevURL = link.with(map[string]string{"e": strconv.Itoa(episode - 1)})
	}
	if view.HasNext {
		view.NextURL = link.with(map[string]string{"e": strconv.Itoa(episode + 1)})
	}
	view.Variants = []Link{
		{Label: "VF", URL: link.with(map[string]string{"lang": providers.VariantVF, "server": "1"}), Active: variant == providers.VariantVF},
		{Label: "VO", URL: link.with(map[string]string{"lang": providers.VariantVO, "server": "1"}), Active: variant == providers.VariantVO},
	}
	for _, srv := range player.Servers {
		view.Servers = append(view.Servers, Link{
			Label:  srv.Name,
			URL:    link.with(map[string]string{"server": srv.Key}),
			Active: srv.Key == player.Active,
		})
	}
	if series {
		for _, ss := range details.Seasons {
			if ss.SeasonNumber <= 0 {
				continue
			}
			view.Seasons = append(view.Seasons, Link{
				Label:  fmt.Sprintf("S%d", ss.SeasonNumber),
				URL:    link.with(map[string]string{"s": strconv.Itoa(ss.SeasonNumber), "e": "1"}),
				Active: ss.SeasonNumber == season,
			})
		}
		if seasonData != nil {
			for _, ep := range seasonData.Episodes {
				view.Episodes = append(view.Episodes, EpisodeLink{
					Number: ep.EpisodeNumber,
					Name:   ep.Name,
					URL:    link.with(map[string]string{"e": strconv.Itoa(ep.EpisodeNumber)}),
					Active: ep.EpisodeNumber == episode,
				})
			}
		}
	}

	if userID != "" {
		listed, err := s.library.IsListed(ctx, userID, p.ID)
		if err != nil {
			s.logger.Warn("watchlist lookup failed", "user", userID, "id", p.ID, "error", err)
		}
		view.Listed = listed

		if err := s.library.SaveHistory(ctx, userID, view.Media); err != nil {
			s.logger.Warn("failed to save history", "user", userID, "id", p.ID, "error", err)
		}
	}

	return view, nil
}

// linker rebuilds watch URLs keeping every current parameter.
type linker struct {
	id      int
	kind    string
	variant string
	season  int
	episode int
	server  string
}

func (l linker) with(overrides map[string]string) string {
	v := url.Values{}
	v.Set("type", l.kind)
	v.Set("lang", l.variant)
	v.Set("s", strconv.Itoa(l.season))
	v.Set("e", strconv.Itoa(l.episode))
	v.Set("server", l.server)
	for k, val := range overrides {
		v.Set(k, val)
	}
	return fmt.Sprintf("/watch/%d?%s", l.id, v.Encode())
}
