package domain

import (
	"time"
)

// RatingScaleMin and RatingScaleMax bound every rating in the system,
// static or live.
const (
	RatingScaleMin = 1
	RatingScaleMax = 10
)

// CREATE TABLE public.ratings (
//     id          BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
//     user_id     BIGINT NOT NULL,
//     book_title  TEXT NOT NULL,
//     rating      INT NOT NULL,
//     created_at  TIMESTAMPTZ DEFAULT NOW(),
//     updated_at  TIMESTAMPTZ DEFAULT NOW(),
//     UNIQUE (user_id, book_title)
// );

// Rating is a live overlay rating submitted after the historical
// dataset was frozen. Unique per (user_id, book_title); resubmitting
// updates the row in place.
type Rating struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint      `gorm:"column:user_id;not null;uniqueIndex:idx_ratings_user_book" json:"user_id"`
	BookTitle string    `gorm:"column:book_title;type:text;not null;uniqueIndex:idx_ratings_user_book" json:"book_title"`
	Value     int       `gorm:"column:rating;not null" json:"rating"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Rating) TableName() string {
	return "ratings"
}

// StaticRating is one row of the frozen historical rating dataset.
// Loaded once at startup, never mutated.
type StaticRating struct {
	UserID    uint
	BookTitle string
	Value     int
}

// RatedBook is one entry of a user's merged rating list: the effective
// rating value joined to catalog metadata.
type RatedBook struct {
	Book
	Rating int `json:"rating"`
}
