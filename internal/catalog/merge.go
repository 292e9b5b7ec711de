package catalog

import (
	"sort"
	"strings"

	"github.com/Zerr0-C00L/Katch/internal/models"
)

const (
	// PerPage is the number of items a merged catalog page aims for.
	PerPage = 18
	// MaxPages caps the page count shown to users.
	MaxPages = 500
)

// ClampPages caps a page count at MaxPages.
func ClampPages(n int) int {
	if n > MaxPages {
		return MaxPages
	}
	if n < 0 {
		return 0
	}
	return n
}

// PagesFor converts a vendor result count into merged pages.
func PagesFor(totalResults int) int {
	if totalResults <= 0 {
		return 0
	}
	return (totalResults + PerPage - 1) / PerPage
}

// Merge concatenates result lists in the given order.
func Merge(lists ...[]models.MediaItem) []models.MediaItem {
	n := 0
	for _, l := range lists {
		n += len(l)
	}
	out := make([]models.MediaItem, 0, n)
	for _, l := range lists {
		out = append(out, l...)
	}
	return out
}

// KeepBrowsable drops people and items lacking a poster or a backdrop.
func KeepBrowsable(items []models.MediaItem) []models.MediaItem {
	out := items[:0:0]
	for _, it := range items {
		if it.MediaType == models.MediaTypePerson || it.PosterPath == "" || it.BackdropPath == "" {
			continue
		}
		out = append(out, it)
	}
	return out
}

// KeepSearchable drops people and items lacking a poster.
func KeepSearchable(items []models.MediaItem) []models.MediaItem {
	out := items[:0:0]
	for _, it := range items {
		if it.MediaType == models.MediaTypePerson || it.PosterPath == "" {
			continue
		}
		out = append(out, it)
	}
	return out
}

// Dedupe removes repeated ids. The first occurrence keeps its position; a
// later duplicate replaces it only when it has a backdrop and the kept one
// does not.
func Dedupe(items []models.MediaItem) []models.MediaItem {
	index := make(map[int]int, len(items))
	out := make([]models.MediaItem, 0, len(items))
	for _, it := range items {
		pos, seen := index[it.ID]
		if !seen {
			index[it.ID] = len(out)
			out = append(out, it)
			continue
		}
		if out[pos].BackdropPath == "" && it.BackdropPath != "" {
			out[pos] = it
		}
	}
	return out
}

// KeepCategory applies the category filter used by search. Untagged items
// always pass for movie and series categories.
func KeepCategory(items []models.MediaItem, c Category) []models.MediaItem {
	if c == All {
		return items
	}
	out := items[:0:0]
	for _, it := range items {
		switch c {
		case Movie:
			if it.MediaType != models.MediaTypeMovie && it.MediaType != "" {
				continue
			}
		case TV, Anime:
			if it.MediaType != models.MediaTypeTV && it.MediaType != "" {
				continue
			}
		case KDrama:
			if it.MediaType != models.MediaTypeTV && it.MediaType != "" {
				continue
			}
			if it.OriginalLanguage != "ko" {
				continue
			}
		}
		out = append(out, it)
	}
	return out
}

// Relevance weights.
const (
	exactBonus     = 1000
	prefixBonus    = 300
	substringBonus = 100
	hugeVoteBonus  = 200
	bigVoteBonus   = 100
	noBackdropCost = 150
)

// Score rates an item against a search query. The query is compared
// case-insensitively after trimming.
func Score(it models.MediaItem, query string) float64 {
	q := strings.ToLower(strings.TrimSpace(query))
	title := strings.ToLower(it.DisplayTitle())
	original := strings.ToLower(it.DisplayOriginalTitle())

	score := it.Popularity

	switch {
	case q == "":
	case title == q || original == q:
		score += exactBonus
	case strings.HasPrefix(title, q) || strings.HasPrefix(original, q):
		score += prefixBonus
	case strings.Contains(title, q) || strings.Contains(original, q):
		score += substringBonus
	}

	switch {
	case it.VoteCount > 5000:
		score += hugeVoteBonus
	case it.VoteCount > 1000:
		score += bigVoteBonus
	}

	if it.BackdropPath == "" {
		score -= noBackdropCost
	}
	return score
}

// Rank scores every item and sorts by descending score. Ties keep their
// input order. It writes Score into items and sorts them in place; the
// returned slice is items itself.
func Rank(items []models.MediaItem, query string) []models.MediaItem {
	for i := range items {
		items[i].Score = Score(items[i], query)
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Score > items[j].Score
	})
	return items
}
