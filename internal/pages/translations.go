package pages

// Translations holds the interface strings of one language.
type Translations struct {
	Lang             string
	Home             string
	Movies           string
	Series           string
	Animes           string
	KDramas          string
	Search           string
	Trending         string
	Results          string
	NoResults        string
	Watch            string
	Genres           string
	Login            string
	Logout           string
	ContinueWatching string
	MyList           string
	PrevPage         string
	NextPage         string
	Back             string
	Language         string
	Source           string
	Seasons          string
	Episodes         string
	PrevEpisode      string
	NextEpisode      string
	InList           string
	AddList          string
	NoOverview       string
	NotFound         string
	Install          string
	InstallIOS       string
	Dismiss          string
}

var translations = map[string]Translations{
	"fr": {
		Lang:             "fr",
		Home:             "Accueil",
		Movies:           "Films",
		Series:           "Séries",
		Animes:           "Animes",
		KDramas:          "K-Dramas",
		Search:           "RECHERCHER...",
		Trending:         "Tendances",
		Results:          "Résultats :",
		NoResults:        "Aucun contenu trouvé...",
		Watch:            "▶ REGARDER",
		Genres:           "Genres",
		Login:            "Connexion",
		Logout:           "Déconnexion",
		ContinueWatching: "REPRENDRE",
		MyList:           "MA LISTE",
		PrevPage:         "← PRÉCÉDENT",
		NextPage:         "SUIVANT →",
		Back:             "RETOUR",
		Language:         "LANGUE",
		Source:           "SOURCE",
		Seasons:          "SAISONS",
		Episodes:         "ÉPISODES",
		PrevEpisode:      "← PRÉC.",
		NextEpisode:      "SUIV. →",
		InList:           "DANS MA LISTE",
		AddList:          "MA LISTE",
		NoOverview:       "Pas de résumé disponible.",
		NotFound:         "CONTENU INTROUVABLE...",
		Install:          "Installer KATCH",
		InstallIOS:       "Touchez Partager puis « Sur l'écran d'accueil »",
		Dismiss:          "Plus tard",
	},
	"en": {
		Lang:             "en",
		Home:             "Home",
		Movies:           "Movies",
		Series:           "Series",
		Animes:           "Anime",
		KDramas:          "K-Dramas",
		Search:           "SEARCH...",
		Trending:         "Trending",
		Results:          "Results:",
		NoResults:        "No content found...",
		Watch:            "▶ WATCH NOW",
		Genres:           "Genres",
		Login:            "Login",
		Logout:           "Logout",
		ContinueWatching: "CONTINUE WATCHING",
		MyList:           "MY LIST",
		PrevPage:         "← PREVIOUS",
		NextPage:         "NEXT →",
		Back:             "BACK",
		Language:         "LANGUAGE",
		Source:           "SOURCE",
		Seasons:          "SEASONS",
		Episodes:         "EPISODES",
		PrevEpisode:      "← PREV",
		NextEpisode:      "NEXT →",
		InList:           "IN MY LIST",
		AddList:          "MY LIST",
		NoOverview:       "No overview available.",
		NotFound:         "CONTENT NOT FOUND...",
		Install:          "Install KATCH",
		InstallIOS:       "Tap Share, then \"Add to Home Screen\"",
		Dismiss:          "Later",
	},
}

// ParseLang maps the lang parameter to a supported interface language,
// falling back to def and then to French.
func ParseLang(lang, def string) string {
	if _, ok := translations[lang]; ok {
		return lang
	}
	if _, ok := translations[def]; ok {
		return def
	}
	return "fr"
}

// T returns the strings of a language.
func T(lang string) Translations {
	return translations[ParseLang(lang, "fr")]
}

// CategoryLabel returns the menu label of a category.
func (t Translations) CategoryLabel(c string) string {
	switch c {
	case "movie":
		return t.Movies
	case "tv":
		return t.Series
	case "anime":
		return t.Animes
	case "kdrama":
		return t.KDramas
	default:
		return t.Home
	}
}
