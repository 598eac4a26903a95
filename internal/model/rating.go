package model

import "time"

// Rating values allowed for both rating fields.
const (
	MinRating = 0
	MaxRating = 2
)

// Rating is one user's pair of ratings for an image.
type Rating struct {
	ID        int64     `db:"id" json:"id"`
	ImageID   int64     `db:"image_id" json:"image_id"`
	UserName  string    `db:"user_name" json:"user_name"`
	Rating1   int       `db:"rating1" json:"rating1"`
	Rating2   int       `db:"rating2" json:"rating2"`
	UpdatedAt time.Time `db:"updated_at" json:"-"`
}

// RatingWithFilename is a rating joined with its image's filename.
type RatingWithFilename struct {
	Rating
	Filename string `db:"filename"`
}

// ValidRating reports whether v is an allowed rating value.
func ValidRating(v int) bool {
	return v >= MinRating && v <= MaxRating
}
