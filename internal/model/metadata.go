package model

import (
	"strings"
	"unicode"
)

// Privacy is the visibility of a video
type Privacy int

const (
	// PrivacyPrivate is also reported when the page carries no visibility flag
	PrivacyPrivate Privacy = iota
	PrivacyPublic
	PrivacyUnlisted
)

// String returns the string representation of Privacy
func (p Privacy) String() string {
	switch p {
	case PrivacyPublic:
		return "Public"
	case PrivacyUnlisted:
		return "Unlisted"
	default:
		return "Private"
	}
}

// Genre is a video category as published on the watch page
type Genre string

const (
	GenreUnknown               Genre = ""
	GenreAutosAndVehicles      Genre = "Autos & Vehicles"
	GenreComedy                Genre = "Comedy"
	GenreEducation             Genre = "Education"
	GenreEntertainment         Genre = "Entertainment"
	GenreFilmAndAnimation      Genre = "Film & Animation"
	GenreGaming                Genre = "Gaming"
	GenreHowtoAndStyle         Genre = "Howto & Style"
	GenreMusic                 Genre = "Music"
	GenreNewsAndPolitics       Genre = "News & Politics"
	GenreNonprofitsAndActivism Genre = "Nonprofits & Activism"
	GenrePeopleAndBlogs        Genre = "People & Blogs"
	GenrePetsAndAnimals        Genre = "Pets & Animals"
	GenreScienceAndTechnology  Genre = "Science & Technology"
	GenreSports                Genre = "Sports"
	GenreTravelAndEvents       Genre = "Travel & Events"
)

// Genres lists every known category in display order
var Genres = []Genre{
	GenreAutosAndVehicles, GenreComedy, GenreEducation, GenreEntertainment,
	GenreFilmAndAnimation, GenreGaming, GenreHowtoAndStyle, GenreMusic,
	GenreNewsAndPolitics, GenreNonprofitsAndActivism, GenrePeopleAndBlogs,
	GenrePetsAndAnimals, GenreScienceAndTechnology, GenreSports, GenreTravelAndEvents,
}

// ParseGenre maps page text such as "Film & Animation" or "FilmAndAnimation"
// to a known genre. The second result is false for unknown text.
func ParseGenre(raw string) (Genre, bool) {
	key := genreKey(raw)
	if key == "" {
		return GenreUnknown, false
	}
	for _, g := range Genres {
		if genreKey(string(g)) == key {
			return g, true
		}
	}
	return GenreUnknown, false
}

// IsKnown reports whether g is one of Genres
func (g Genre) IsKnown() bool {
	for _, known := range Genres {
		if g == known {
			return true
		}
	}
	return false
}

func genreKey(s string) string {
	s = strings.ReplaceAll(s, "&amp;", "&")
	s = strings.ReplaceAll(s, "And", "&")
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || r == '&' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ChannelInfo is the uploader of a video
type ChannelInfo struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}
