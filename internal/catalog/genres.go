package catalog

import (
	"net/url"
	"strconv"
)

// Genre is a browseable genre. Keywords is set for pseudo-genres, which
// filter on vendor keyword ids instead of a vendor genre id.
type Genre struct {
	ID       string
	FR       string
	EN       string
	Keywords string
}

// Name returns the genre label for the interface language.
func (g Genre) Name(lang string) string {
	if lang == "en" {
		return g.EN
	}
	return g.FR
}

// ZombieGenre is the id of the zombie pseudo-genre.
const ZombieGenre = "zombie"

const (
	animationGenre = "16"
	dramaGenre     = "18"
)

// keywordGenres maps pseudo-genre ids to vendor keyword ids, OR-joined.
var keywordGenres = map[string]string{
	ZombieGenre: "12377|186565",
}

var zombie = Genre{ID: ZombieGenre, FR: "Zombies", EN: "Zombies", Keywords: keywordGenres[ZombieGenre]}

var genres = map[Category][]Genre{
	Movie: {
		{ID: "28", FR: "Action", EN: "Action"},
		{ID: "12", FR: "Aventure", EN: "Adventure"},
		{ID: "16", FR: "Animation", EN: "Animation"},
		{ID: "35", FR: "Comédie", EN: "Comedy"},
		{ID: "80", FR: "Crime", EN: "Crime"},
		{ID: "18", FR: "Drame", EN: "Drama"},
		{ID: "14", FR: "Fantastique", EN: "Fantasy"},
		{ID: "27", FR: "Horreur", EN: "Horror"},
		{ID: "9648", FR: "Mystère", EN: "Mystery"},
		{ID: "10749", FR: "Romance", EN: "Romance"},
		{ID: "878", FR: "Science-Fiction", EN: "Sci-Fi"},
		{ID: "53", FR: "Thriller", EN: "Thriller"},
		zombie,
	},
	TV: {
		{ID: "10759", FR: "Action & Aventure", EN: "Action & Adventure"},
		{ID: "16", FR: "Animation", EN: "Animation"},
		{ID: "35", FR: "Comédie", EN: "Comedy"},
		{ID: "80", FR: "Crime", EN: "Crime"},
		{ID: "99", FR: "Documentaire", EN: "Documentary"},
		{ID: "18", FR: "Drame", EN: "Drama"},
		{ID: "9648", FR: "Mystère", EN: "Mystery"},
		{ID: "10765", FR: "Sci-Fi & Fantasy", EN: "Sci-Fi & Fantasy"},
		zombie,
	},
	Anime: {
		{ID: "10759", FR: "Action", EN: "Action"},
		{ID: "35", FR: "Comédie", EN: "Comedy"},
		{ID: "18", FR: "Drame", EN: "Drama"},
		{ID: "10765", FR: "Fantaisie", EN: "Fantasy"},
		{ID: "9648", FR: "Mystère", EN: "Mystery"},
		{ID: "10751", FR: "Famille", EN: "Family"},
	},
	KDrama: {
		{ID: "18", FR: "Drame", EN: "Drama"},
		{ID: "35", FR: "Comédie", EN: "Comedy"},
		{ID: "10759", FR: "Action", EN: "Action"},
		{ID: "9648", FR: "Mystère", EN: "Mystery"},
		{ID: "80", FR: "Crime", EN: "Crime"},
		{ID: "10765", FR: "Fantastique", EN: "Fantasy"},
	},
}

// Genres returns the genre menu of a category. All has none.
func Genres(c Category) []Genre {
	return genres[c]
}

// TopGenres returns the first n genres of a category.
func TopGenres(c Category, n int) []Genre {
	list := genres[c]
	if n < len(list) {
		list = list[:n]
	}
	return list
}

// FindGenre looks up a genre, first in the category's own table, then in
// every other table.
func FindGenre(c Category, id string) (Genre, bool) {
	for _, g := range genres[c] {
		if g.ID == id {
			return g, true
		}
	}
	for _, cat := range []Category{Movie, TV, Anime, KDrama} {
		for _, g := range genres[cat] {
			if g.ID == id {
				return g, true
			}
		}
	}
	return Genre{}, false
}

// GenreFilter returns the discover parameters for a category and optional
// genre. It returns nil when the category is served by trending instead.
func GenreFilter(c Category, genreID string) url.Values {
	v := url.Values{}

	if kw, ok := keywordGenres[genreID]; ok {
		v.Set("with_keywords", kw)
		switch c {
		case Anime:
			v.Set("with_genres", animationGenre)
			v.Set("with_original_language", "ja")
		case KDrama:
			v.Set("with_original_language", "ko")
		}
		return v
	}

	if genreID != "" {
		if _, err := strconv.Atoi(genreID); err != nil {
			genreID = ""
		}
	}

	switch c {
	case Anime:
		if genreID != "" && genreID != animationGenre {
			v.Set("with_genres", animationGenre+","+genreID)
		} else {
			v.Set("with_genres", animationGenre)
		}
		v.Set("with_original_language", "ja")
	case KDrama:
		if genreID != "" {
			v.Set("with_genres", genreID)
		} else {
			v.Set("with_genres", dramaGenre)
		}
		v.Set("with_original_language", "ko")
	default:
		if genreID == "" {
			return nil
		}
		v.Set("with_genres", genreID)
	}
	return v
}
