package models

import "github.com/goccy/go-json"

type AniListRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

// AniListResponse is the GraphQL envelope. A request can fail with HTTP 200
// and a populated Errors array, so both have to be checked.
type AniListResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []AniListError  `json:"errors"`
}

type AniListError struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
}

type AniListPageData struct {
	Page struct {
		PageInfo struct {
			CurrentPage int  `json:"currentPage"`
			HasNextPage bool `json:"hasNextPage"`
		} `json:"pageInfo"`
		Media []AniListMedia `json:"media"`
	} `json:"Page"`
}

type AniListMediaData struct {
	Media *AniListMedia `json:"Media"`
}

type AniListTitle struct {
	Romaji  string `json:"romaji"`
	English string `json:"english"`
	Native  string `json:"native"`
}

// AniListFuzzyDate has optional parts; unknown parts come back as null.
type AniListFuzzyDate struct {
	Year  *int `json:"year"`
	Month *int `json:"month"`
	Day   *int `json:"day"`
}

type AniListMedia struct {
	ID           int              `json:"id"`
	Title        AniListTitle     `json:"title"`
	Description  *string          `json:"description"`
	StartDate    AniListFuzzyDate `json:"startDate"`
	CoverImage   struct {
		Large  string `json:"large"`
		Medium string `json:"medium"`
	} `json:"coverImage"`
	BannerImage  *string  `json:"bannerImage"`
	AverageScore *int     `json:"averageScore"`
	Popularity   int      `json:"popularity"`
	Genres       []string `json:"genres"`
	Episodes     *int     `json:"episodes"`
	Status       string   `json:"status"`
	Characters   *struct {
		Edges []struct {
			Role string `json:"role"`
			Node struct {
				ID   int `json:"id"`
				Name struct {
					Full string `json:"full"`
				} `json:"name"`
			} `json:"node"`
		} `json:"edges"`
	} `json:"characters,omitempty"`
	Staff *struct {
		Edges []struct {
			Role string `json:"role"`
			Node struct {
				ID   int `json:"id"`
				Name struct {
					Full string `json:"full"`
				} `json:"name"`
			} `json:"node"`
		} `json:"edges"`
	} `json:"staff,omitempty"`
}
