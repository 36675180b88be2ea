package services

import (
	"fmt"
	"strings"

	"cinelist/internal/models"
)

// Provider responses are mapped into models.Media* here and nowhere else.

func imageURL(base, path string) string {
	if path == "" {
		return ""
	}
	return base + path
}

func tmdbSummary(r models.TMDBResult, kind models.Kind, imageBase string) models.MediaSummary {
	s := models.MediaSummary{
		ID:          r.ID,
		Kind:        kind,
		Overview:    r.Overview,
		Popularity:  r.Popularity,
		Score:       r.VoteAverage,
		PosterURL:   imageURL(imageBase, r.PosterPath),
		BackdropURL: imageURL(imageBase, r.BackdropPath),
	}
	// tv results use name / first_air_date
	if kind == models.KindSeries {
		s.Title, s.OriginalTitle, s.ReleaseDate = r.Name, r.OriginalName, r.FirstAirDate
	} else {
		s.Title, s.OriginalTitle, s.ReleaseDate = r.Title, r.OriginalTitle, r.ReleaseDate
	}
	return s
}

func genreNames(genres []models.TMDBGenre) []string {
	if len(genres) == 0 {
		return nil
	}
	names := make([]string, 0, len(genres))
	for _, g := range genres {
		names = append(names, g.Name)
	}
	return names
}

func tmdbMovieDetail(d models.TMDBMovieDetail, imageBase string) *models.MediaDetail {
	detail := &models.MediaDetail{
		MediaSummary: models.MediaSummary{
			ID:            d.ID,
			Kind:          models.KindMovie,
			Title:         d.Title,
			OriginalTitle: d.OriginalTitle,
			Overview:      d.Overview,
			Popularity:    d.Popularity,
			Score:         d.VoteAverage,
			ReleaseDate:   d.ReleaseDate,
			PosterURL:     imageURL(imageBase, d.PosterPath),
			BackdropURL:   imageURL(imageBase, d.BackdropPath),
			Genres:        genreNames(d.Genres),
		},
		Budget:  d.Budget,
		Revenue: d.Revenue,
		Status:  d.Status,
	}
	if d.Runtime != nil {
		detail.Runtime = *d.Runtime
	}
	return detail
}

func tmdbSeriesDetail(d models.TMDBSeriesDetail, imageBase string) *models.MediaDetail {
	detail := &models.MediaDetail{
		MediaSummary: models.MediaSummary{
			ID:            d.ID,
			Kind:          models.KindSeries,
			Title:         d.Name,
			OriginalTitle: d.OriginalName,
			Overview:      d.Overview,
			Popularity:    d.Popularity,
			Score:         d.VoteAverage,
			ReleaseDate:   d.FirstAirDate,
			PosterURL:     imageURL(imageBase, d.PosterPath),
			BackdropURL:   imageURL(imageBase, d.BackdropPath),
			Genres:        genreNames(d.Genres),
		},
		Episodes:    d.NumberOfEpisodes,
		Status:      d.Status,
		LastAirDate: d.LastAirDate,
	}
	for _, c := range d.CreatedBy {
		detail.CreatedBy = append(detail.CreatedBy, c.Name)
	}
	return detail
}

func tmdbCredits(c models.TMDBCredits) *models.Credits {
	credits := &models.Credits{
		ID:   c.ID,
		Cast: make([]models.CastMember, 0, len(c.Cast)),
		Crew: make([]models.CrewMember, 0, len(c.Crew)),
	}
	for _, m := range c.Cast {
		credits.Cast = append(credits.Cast, models.CastMember{ID: m.ID, Name: m.Name, Character: m.Character, Order: m.Order})
	}
	for _, m := range c.Crew {
		credits.Crew = append(credits.Crew, models.CrewMember{ID: m.ID, Name: m.Name, Job: m.Job, Department: m.Department})
	}
	return credits
}

// animeTitle prefers romaji, then english.
func animeTitle(t models.AniListTitle) string {
	if t.Romaji != "" {
		return t.Romaji
	}
	if t.English != "" {
		return t.English
	}
	return "Unknown"
}

// fuzzyDate renders an AniList date as YYYY-MM-DD. Missing month or day
// become 01; a missing year yields "".
func fuzzyDate(d models.AniListFuzzyDate) string {
	if d.Year == nil {
		return ""
	}
	month, day := 1, 1
	if d.Month != nil && *d.Month > 0 {
		month = *d.Month
	}
	if d.Day != nil && *d.Day > 0 {
		day = *d.Day
	}
	return fmt.Sprintf("%04d-%02d-%02d", *d.Year, month, day)
}

func anilistSummary(m models.AniListMedia) models.MediaSummary {
	s := models.MediaSummary{
		ID:            m.ID,
		Kind:          models.KindAnime,
		Title:         animeTitle(m.Title),
		OriginalTitle: m.Title.Native,
		Popularity:    float64(m.Popularity),
		ReleaseDate:   fuzzyDate(m.StartDate),
		PosterURL:     m.CoverImage.Large,
		Genres:        m.Genres,
	}
	if s.PosterURL == "" {
		s.PosterURL = m.CoverImage.Medium
	}
	if m.Description != nil {
		s.Overview = strings.TrimSpace(*m.Description)
	}
	if m.AverageScore != nil {
		s.Score = float64(*m.AverageScore) / 10
	}
	if m.BannerImage != nil {
		s.BackdropURL = *m.BannerImage
	}
	return s
}

func anilistDetail(m models.AniListMedia) *models.MediaDetail {
	detail := &models.MediaDetail{
		MediaSummary: anilistSummary(m),
		Status:       m.Status,
	}
	if m.Episodes != nil {
		detail.Episodes = *m.Episodes
	}
	return detail
}

// anilistCredits lists characters as cast, with the character role
// (MAIN, SUPPORTING) in Character, and staff as crew.
func anilistCredits(m models.AniListMedia) *models.Credits {
	credits := &models.Credits{
		ID:   m.ID,
		Cast: []models.CastMember{},
		Crew: []models.CrewMember{},
	}
	if m.Characters != nil {
		for i, e := range m.Characters.Edges {
			credits.Cast = append(credits.Cast, models.CastMember{
				ID:        e.Node.ID,
				Name:      e.Node.Name.Full,
				Character: e.Role,
				Order:     i,
			})
		}
	}
	if m.Staff != nil {
		for _, e := range m.Staff.Edges {
			credits.Crew = append(credits.Crew, models.CrewMember{
				ID:         e.Node.ID,
				Name:       e.Node.Name.Full,
				Job:        e.Role,
				Department: "Staff",
			})
		}
	}
	return credits
}
