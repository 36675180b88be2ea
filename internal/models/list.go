package models

import "time"

type List struct {
	ID        int64      `json:"id" db:"id"`
	UserID    int64      `json:"user_id" db:"user_id"`
	Name      string     `json:"name" db:"name"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	Items     []ListItem `json:"items"`
}

type ListItem struct {
	ID         int64     `json:"id" db:"id"`
	ListID     int64     `json:"list_id" db:"list_id"`
	Kind       Kind      `json:"media_type" db:"media_type"`
	MediaID    int       `json:"media_id" db:"media_id"`
	MediaTitle string    `json:"media_title" db:"media_title"`
	AddedAt    time.Time `json:"added_at" db:"added_at"`
}
