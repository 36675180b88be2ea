package models

// TMDBPage is the envelope of every paginated TMDB listing.
type TMDBPage struct {
	Page         int          `json:"page"`
	Results      []TMDBResult `json:"results"`
	TotalPages   int          `json:"total_pages"`
	TotalResults int          `json:"total_results"`
}

// TMDBResult covers both movie and tv list items; movies fill Title and
// ReleaseDate, series fill Name and FirstAirDate.
type TMDBResult struct {
	ID               int     `json:"id"`
	Title            string  `json:"title"`
	OriginalTitle    string  `json:"original_title"`
	Name             string  `json:"name"`
	OriginalName     string  `json:"original_name"`
	Overview         string  `json:"overview"`
	Popularity       float64 `json:"popularity"`
	VoteAverage      float64 `json:"vote_average"`
	VoteCount        int     `json:"vote_count"`
	ReleaseDate      string  `json:"release_date"`
	FirstAirDate     string  `json:"first_air_date"`
	PosterPath       string  `json:"poster_path"`
	BackdropPath     string  `json:"backdrop_path"`
	GenreIDs         []int   `json:"genre_ids"`
	OriginalLanguage string  `json:"original_language"`
}

type TMDBGenre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type TMDBMovieDetail struct {
	ID            int         `json:"id"`
	Title         string      `json:"title"`
	OriginalTitle string      `json:"original_title"`
	Overview      string      `json:"overview"`
	Popularity    float64     `json:"popularity"`
	VoteAverage   float64     `json:"vote_average"`
	ReleaseDate   string      `json:"release_date"`
	PosterPath    string      `json:"poster_path"`
	BackdropPath  string      `json:"backdrop_path"`
	Genres        []TMDBGenre `json:"genres"`
	Runtime       *int        `json:"runtime"`
	Budget        float64     `json:"budget"`
	Revenue       float64     `json:"revenue"`
	Status        string      `json:"status"`
}

type TMDBSeriesDetail struct {
	ID               int         `json:"id"`
	Name             string      `json:"name"`
	OriginalName     string      `json:"original_name"`
	Overview         string      `json:"overview"`
	Popularity       float64     `json:"popularity"`
	VoteAverage      float64     `json:"vote_average"`
	FirstAirDate     string      `json:"first_air_date"`
	LastAirDate      string      `json:"last_air_date"`
	PosterPath       string      `json:"poster_path"`
	BackdropPath     string      `json:"backdrop_path"`
	Genres           []TMDBGenre `json:"genres"`
	NumberOfEpisodes int         `json:"number_of_episodes"`
	Status           string      `json:"status"`
	CreatedBy        []struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	} `json:"created_by"`
}

type TMDBCredits struct {
	ID   int `json:"id"`
	Cast []struct {
		ID        int    `json:"id"`
		Name      string `json:"name"`
		Character string `json:"character"`
		Order     int    `json:"order"`
	} `json:"cast"`
	Crew []struct {
		ID         int    `json:"id"`
		Name       string `json:"name"`
		Job        string `json:"job"`
		Department string `json:"department"`
	} `json:"crew"`
}
