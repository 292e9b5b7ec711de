package providers

import (
	"net/url"
	"strconv"
	"strings"
)

// Language variants of the player table.
const (
	VariantVF = "vf"
	VariantVO = "vo"
)

// Target identifies what an embed player should play.
type Target struct {
	TMDBID  int
	IMDBID  string
	Series  bool
	Season  int
	Episode int
}

// EmbedProvider builds player URLs for one third-party embed host.
type EmbedProvider interface {
	Name() string
	Host() string
	EmbedURL(t Target) string
}

// templateProvider fills {id}, {s} and {e} into fixed URL templates.
type templateProvider struct {
	name       string
	host       string
	movie      string
	episode    string
	preferIMDB bool
}

func (p templateProvider) Name() string { return p.name }

func (p templateProvider) Host() string { return p.host }

// EmbedURL implements EmbedProvider
func (p templateProvider) EmbedURL(t Target) string {
	id := strconv.Itoa(t.TMDBID)
	if p.preferIMDB && t.IMDBID != "" {
		id = url.PathEscape(t.IMDBID)
	}

	tmpl := p.movie
	if t.Series {
		tmpl = p.episode
	}

	r := strings.NewReplacer(
		"{host}", p.host,
		"{id}", id,
		"{s}", strconv.Itoa(max(t.Season, 1)),
		"{e}", strconv.Itoa(max(t.Episode, 1)),
	)
	return r.Replace(tmpl)
}

// embedTable holds the three player slots of each variant, in slot order.
var embedTable = map[string][]EmbedProvider{
	VariantVF: {
		templateProvider{
			name:    "VF 1",
			host:    "autoembed.cc",
			movie:   "https://{host}/movie/tmdb/{id}",
			episode: "https://{host}/tv/tmdb/{id}-{s}-{e}",
		},
		templateProvider{
			name:    "VF 2",
			host:    "embed.su",
			movie:   "https://{host}/embed/movie/{id}",
			episode: "https://{host}/embed/tv/{id}/{s}/{e}",
		},
		templateProvider{
			name:       "VF 3",
			host:       "www.2embed.stream",
			movie:      "https://{host}/embed/movie/{id}",
			episode:    "https://{host}/embed/tv/{id}/{s}/{e}",
			preferIMDB: true,
		},
	},
	VariantVO: {
		templateProvider{
			name:    "VO 1",
			host:    "vidsrc.to",
			movie:   "https://{host}/embed/movie/{id}",
			episode: "https://{host}/embed/tv/{id}/{s}/{e}",
		},
		templateProvider{
			name:    "VO 2",
			host:    "vidlink.pro",
			movie:   "https://{host}/movie/{id}",
			episode: "https://{host}/tv/{id}/{s}/{e}",
		},
		templateProvider{
			name:    "VO 3",
			host:    "vidsrc.xyz",
			movie:   "https://{host}/embed/movie/{id}",
			episode: "https://{host}/embed/tv/{id}/{s}/{e}",
		},
	},
}

// Server is one selectable player slot.
type Server struct {
	Key  string
	Name string
	URL  string
}

// Selection is the resolved player choice for a watch page.
type Selection struct {
	Variant string
	Servers []Server
	Active  string
	URL     string
}

// ParseVariant maps the lang query parameter to a variant. Anything other
// than "vo" is VF.
func ParseVariant(s string) string {
	if strings.EqualFold(strings.TrimSpace(s), VariantVO) {
		return VariantVO
	}
	return VariantVF
}

// Locale returns the vendor locale used for a variant's metadata.
func Locale(variant string) string {
	if variant == VariantVO {
		return "en-US"
	}
	return "fr-FR"
}

// Resolve builds every slot of the variant and picks the requested one.
// Unknown slots fall back to slot 1.
func Resolve(variant, slot string, t Target) Selection {
	variant = ParseVariant(variant)
	table := embedTable[variant]

	sel := Selection{
		Variant: variant,
		Servers: make([]Server, 0, len(table)),
	}
	for i, p := range table {
		srv := Server{Key: strconv.Itoa(i + 1), Name: p.Name(), URL: p.EmbedURL(t)}
		sel.Servers = append(sel.Servers, srv)
		if srv.Key == slot {
			sel.Active = srv.Key
			sel.URL = srv.URL
		}
	}
	if sel.URL == "" && len(sel.Servers) > 0 {
		sel.Active = sel.Servers[0].Key
		sel.URL = sel.Servers[0].URL
	}
	return sel
}

// Hosts lists every embed host in table order.
func Hosts() []string {
	var hosts []string
	for _, variant := range []string{VariantVF, VariantVO} {
		for _, p := range embedTable[variant] {
			hosts = append(hosts, p.Host())
		}
	}
	return hosts
}
