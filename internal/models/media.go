package models

import (
	"fmt"
	"strings"
)

// Kind tags a title with the catalog it belongs to.
type Kind string

const (
	KindMovie  Kind = "movie"
	KindSeries Kind = "series"
	KindAnime  Kind = "anime"
)

// ParseKind accepts the media type names used in request paths.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "movie", "movies":
		return KindMovie, nil
	case "serie", "series", "tv":
		return KindSeries, nil
	case "anime", "animes":
		return KindAnime, nil
	}
	return "", fmt.Errorf("unknown media type %q", s)
}

// MediaSummary is one entry of a popular or search listing, whichever
// provider it came from. Score is on a 0-10 scale for every provider;
// Popularity keeps the provider's own scale and only orders titles of the
// same kind.
type MediaSummary struct {
	ID            int      `json:"id"`
	Kind          Kind     `json:"media_type"`
	Title         string   `json:"title"`
	OriginalTitle string   `json:"original_title,omitempty"`
	Overview      string   `json:"overview"`
	Popularity    float64  `json:"popularity"`
	Score         float64  `json:"score"`
	ReleaseDate   string   `json:"release_date,omitempty"`
	PosterURL     string   `json:"poster_url,omitempty"`
	BackdropURL   string   `json:"backdrop_url,omitempty"`
	Genres        []string `json:"genres,omitempty"`
}

type MediaDetail struct {
	MediaSummary

	// movies
	Runtime int     `json:"runtime,omitempty"`
	Budget  float64 `json:"budget,omitempty"`
	Revenue float64 `json:"revenue,omitempty"`

	// series and anime
	Episodes    int      `json:"episodes,omitempty"`
	Status      string   `json:"status,omitempty"`
	LastAirDate string   `json:"last_air_date,omitempty"`
	CreatedBy   []string `json:"created_by,omitempty"`
}

type CastMember struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Character string `json:"character,omitempty"`
	Order     int    `json:"order"`
}

type CrewMember struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Job        string `json:"job"`
	Department string `json:"department,omitempty"`
}

type Credits struct {
	ID   int          `json:"id"`
	Cast []CastMember `json:"cast"`
	Crew []CrewMember `json:"crew"`
}

// Director returns the first crew member credited as Director, or "".
func (c *Credits) Director() string {
	if c == nil {
		return ""
	}
	for _, m := range c.Crew {
		if m.Job == "Director" {
			return m.Name
		}
	}
	return ""
}

// TopCast joins the names of the first n cast members with ", ".
func (c *Credits) TopCast(n int) string {
	if c == nil || n <= 0 {
		return ""
	}
	names := make([]string, 0, n)
	for _, m := range c.Cast {
		if len(names) == n {
			break
		}
		names = append(names, m.Name)
	}
	return strings.Join(names, ", ")
}
