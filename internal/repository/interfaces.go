package repository

import (
	"context"
	"errors"

	"imagerater/internal/model"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

// ImageRepository defines the interface for image data operations.
type ImageRepository interface {
	// Create operations
	Insert(ctx context.Context, img *model.Image) (int64, error)

	// Read operations
	GetByID(ctx context.Context, id int64) (*model.Image, error)
	GetByFilename(ctx context.Context, filename string) (*model.Image, error)
	ListWithRatings(ctx context.Context, user string, filter model.Filter, offset, limit int) ([]model.ImageWithRating, error)
	Count(ctx context.Context, user string, filter model.Filter) (int, error)
	// FindPosition returns the 0-based position, within the filtered list,
	// of the first image whose filename contains query (case-insensitive).
	FindPosition(ctx context.Context, user string, filter model.Filter, query string) (int, error)

	// Delete operations
	DeleteAll(ctx context.Context) error
}

// RatingRepository defines the interface for rating data operations.
type RatingRepository interface {
	Upsert(ctx context.Context, r *model.Rating) (*model.Rating, error)
	GetByImageAndUser(ctx context.Context, imageID int64, user string) (*model.Rating, error)
	ListAll(ctx context.Context) ([]model.RatingWithFilename, error)
}
