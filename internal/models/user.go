package models

import "time"

type User struct {
	ID           int64     `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// UserPublic is what other users get to see.
type UserPublic struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// Rating holds the columns shared by the rated_movies, rated_series and
// rated_anime tables.
type Rating struct {
	UserID      int64     `json:"user_id" db:"user_id"`
	Kind        Kind      `json:"media_type" db:"-"`
	MediaID     int       `json:"media_id" db:"media_id"`
	Title       string    `json:"title" db:"title"`
	ReleaseDate *string   `json:"release_date,omitempty" db:"release_date"`
	Rating      float64   `json:"rating" db:"rating"`
	Comment     *string   `json:"comment,omitempty" db:"comment"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

type RatedMovie struct {
	Rating
	Overview *string  `json:"overview,omitempty" db:"overview"`
	Director *string  `json:"director,omitempty" db:"director"`
	Cast     *string  `json:"cast,omitempty" db:"cast_names"`
	Runtime  *int     `json:"runtime,omitempty" db:"runtime"`
	Budget   *float64 `json:"budget,omitempty" db:"budget"`
	Revenue  *float64 `json:"revenue,omitempty" db:"revenue"`
}

type RatedSeries struct {
	Rating
	Overview    *string `json:"overview,omitempty" db:"overview"`
	Creator     *string `json:"creator,omitempty" db:"creator"`
	Cast        *string `json:"cast,omitempty" db:"cast_names"`
	Episodes    *int    `json:"episodes,omitempty" db:"episodes"`
	Status      *string `json:"status,omitempty" db:"status"`
	LastEpisode *string `json:"last_episode,omitempty" db:"last_episode"`
}

type RatedAnime struct {
	Rating
	Description *string `json:"description,omitempty" db:"description"`
	Episodes    *int    `json:"episodes,omitempty" db:"episodes"`
	Status      *string `json:"status,omitempty" db:"status"`
}
