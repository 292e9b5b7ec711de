package catalog

import (
	"strings"

	"github.com/Zerr0-C00L/Katch/internal/models"
)

// Category is the application-level partition of the catalog. Anime and
// kdrama are overlays on the vendor's tv type.
type Category string

const (
	All    Category = "all"
	Movie  Category = "movie"
	TV     Category = "tv"
	Anime  Category = "anime"
	KDrama Category = "kdrama"
)

// Categories lists the navigable categories in menu order.
var Categories = []Category{All, Movie, TV, Anime, KDrama}

// ParseCategory maps a query parameter to a category. Unknown values fall
// back to All.
func ParseCategory(s string) Category {
	switch c := Category(strings.ToLower(strings.TrimSpace(s))); c {
	case Movie, TV, Anime, KDrama:
		return c
	default:
		return All
	}
}

// VendorType returns the vendor media type backing the category.
func (c Category) VendorType() string {
	switch c {
	case Movie:
		return models.MediaTypeMovie
	case TV, Anime, KDrama:
		return models.MediaTypeTV
	default:
		return "all"
	}
}

// IsSeries reports whether titles of this category have seasons.
func (c Category) IsSeries() bool {
	return c == TV || c == Anime || c == KDrama
}

func (c Category) String() string { return string(c) }

// Locale maps the interface language to the vendor locale.
func Locale(lang string) string {
	if lang == "en" {
		return LocaleEN
	}
	return LocaleFR
}

const (
	LocaleFR = "fr-FR"
	LocaleEN = "en-US"
)
