package models

import "time"

// Vendor media types as tagged on multi-search and trending results.
const (
	MediaTypeMovie  = "movie"
	MediaTypeTV     = "tv"
	MediaTypePerson = "person"
)

// MediaItem is a single entry from the metadata vendor. Movies carry Title,
// series carry Name; the display helpers hide the difference.
type MediaItem struct {
	ID               int     `json:"id"`
	Title            string  `json:"title,omitempty"`
	Name             string  `json:"name,omitempty"`
	OriginalTitle    string  `json:"original_title,omitempty"`
	OriginalName     string  `json:"original_name,omitempty"`
	OriginalLanguage string  `json:"original_language,omitempty"`
	MediaType        string  `json:"media_type,omitempty"`
	PosterPath       string  `json:"poster_path,omitempty"`
	BackdropPath     string  `json:"backdrop_path,omitempty"`
	Overview         string  `json:"overview,omitempty"`
	ReleaseDate      string  `json:"release_date,omitempty"`
	FirstAirDate     string  `json:"first_air_date,omitempty"`
	Popularity       float64 `json:"popularity"`
	VoteAverage      float64 `json:"vote_average"`
	VoteCount        int     `json:"vote_count"`
	GenreIDs         []int   `json:"genre_ids,omitempty"`

	// Score is computed by search ranking, never sent by the vendor.
	Score float64 `json:"score,omitempty"`
}

// DisplayTitle returns the title for movies and the name for series.
func (m MediaItem) DisplayTitle() string {
	if m.Title != "" {
		return m.Title
	}
	return m.Name
}

// DisplayOriginalTitle returns the original title or original name.
func (m MediaItem) DisplayOriginalTitle() string {
	if m.OriginalTitle != "" {
		return m.OriginalTitle
	}
	return m.OriginalName
}

// Page is one page of vendor results.
type Page struct {
	Page         int         `json:"page"`
	Results      []MediaItem `json:"results"`
	TotalResults int         `json:"total_results"`
	TotalPages   int         `json:"total_pages"`
}

// Genre is a vendor genre reference attached to details.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// SeasonSummary is the per-season entry of a series detail response.
type SeasonSummary struct {
	ID           int    `json:"id"`
	SeasonNumber int    `json:"season_number"`
	Name         string `json:"name"`
	EpisodeCount int    `json:"episode_count"`
}

// Details is the movie or series detail record used by the watch page.
type Details struct {
	ID               int             `json:"id"`
	Title            string          `json:"title,omitempty"`
	Name             string          `json:"name,omitempty"`
	Overview         string          `json:"overview"`
	PosterPath       string          `json:"poster_path"`
	BackdropPath     string          `json:"backdrop_path"`
	ReleaseDate      string          `json:"release_date,omitempty"`
	FirstAirDate     string          `json:"first_air_date,omitempty"`
	VoteAverage      float64         `json:"vote_average"`
	VoteCount        int             `json:"vote_count"`
	OriginalLanguage string          `json:"original_language"`
	NumberOfSeasons  int             `json:"number_of_seasons,omitempty"`
	NumberOfEpisodes int             `json:"number_of_episodes,omitempty"`
	Genres           []Genre         `json:"genres"`
	Seasons          []SeasonSummary `json:"seasons,omitempty"`
}

// DisplayTitle returns the title for movies and the name for series.
func (d Details) DisplayTitle() string {
	if d.Title != "" {
		return d.Title
	}
	return d.Name
}

// ReleaseYear returns the first four characters of the release or first air date.
func (d Details) ReleaseYear() string {
	date := d.ReleaseDate
	if date == "" {
		date = d.FirstAirDate
	}
	if len(date) < 4 {
		return date
	}
	return date[:4]
}

// Episode is an entry of a season listing.
type Episode struct {
	ID            int    `json:"id"`
	EpisodeNumber int    `json:"episode_number"`
	SeasonNumber  int    `json:"season_number"`
	Name          string `json:"name"`
	Overview      string `json:"overview"`
	StillPath     string `json:"still_path"`
}

// Season is a season detail response.
type Season struct {
	ID           int       `json:"id"`
	SeasonNumber int       `json:"season_number"`
	Name         string    `json:"name"`
	Episodes     []Episode `json:"episodes"`
}

// ExternalIDs holds the cross references of a title.
type ExternalIDs struct {
	ID     int    `json:"id"`
	IMDBID string `json:"imdb_id"`
	TVDBID int    `json:"tvdb_id"`
}

// MediaDescriptor is what the watch page hands to history and watchlist actions.
type MediaDescriptor struct {
	ID         int    `json:"id"`
	Type       string `json:"type"`
	Title      string `json:"title"`
	PosterPath string `json:"poster_path"`
	Season     int    `json:"season,omitempty"`
	Episode    int    `json:"episode,omitempty"`
}

// HistoryEntry is one row of the history table.
type HistoryEntry struct {
	UserID     string    `json:"user_id"`
	MediaID    int       `json:"media_id"`
	MediaType  string    `json:"media_type"`
	Title      string    `json:"title"`
	PosterPath string    `json:"poster_path"`
	Season     int       `json:"season"`
	Episode    int       `json:"episode"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// WatchlistEntry is one row of the watchlist table.
type WatchlistEntry struct {
	UserID     string    `json:"user_id"`
	MediaID    int       `json:"media_id"`
	MediaType  string    `json:"media_type"`
	Title      string    `json:"title"`
	PosterPath string    `json:"poster_path"`
	CreatedAt  time.Time `json:"created_at"`
}
