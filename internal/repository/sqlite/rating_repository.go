package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"imagerater/internal/model"
)

// RatingRepository implements repository.RatingRepository for SQLite.
type RatingRepository struct {
	db *DB
}

// NewRatingRepository creates a new SQLite rating repository.
func NewRatingRepository(db *DB) *RatingRepository {
	return &RatingRepository{db: db}
}

// Upsert stores the user's ratings for an image, replacing any previous
// pair, and returns the stored row.
func (r *RatingRepository) Upsert(ctx context.Context, rating *model.Rating) (*model.Rating, error) {
	r.db.Lock()
	defer r.db.Unlock()

	_, err := r.db.Conn().ExecContext(ctx, `
		INSERT INTO ratings (image_id, user_name, rating1, rating2)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (image_id, user_name) DO UPDATE SET
			rating1 = excluded.rating1,
			rating2 = excluded.rating2,
			updated_at = CURRENT_TIMESTAMP
	`, rating.ImageID, rating.UserName, rating.Rating1, rating.Rating2)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert rating: %w", err)
	}

	var stored model.Rating
	err = r.db.Conn().GetContext(ctx, &stored, `
		SELECT id, image_id, user_name, rating1, rating2, updated_at
		FROM ratings WHERE image_id = ? AND user_name = ?
	`, rating.ImageID, rating.UserName)
	if err != nil {
		return nil, fmt.Errorf("failed to read back rating: %w", err)
	}
	return &stored, nil
}

// GetByImageAndUser returns the user's rating of an image, or nil.
func (r *RatingRepository) GetByImageAndUser(ctx context.Context, imageID int64, user string) (*model.Rating, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	var rating model.Rating
	err := r.db.Conn().GetContext(ctx, &rating, `
		SELECT id, image_id, user_name, rating1, rating2, updated_at
		FROM ratings WHERE image_id = ? AND user_name = ?
	`, imageID, user)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get rating: %w", err)
	}
	return &rating, nil
}

// ListAll returns every rating joined with its image filename, ordered by
// image id and then user name.
func (r *RatingRepository) ListAll(ctx context.Context) ([]model.RatingWithFilename, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	ratings := []model.RatingWithFilename{}
	err := r.db.Conn().SelectContext(ctx, &ratings, `
		SELECT r.id, r.image_id, r.user_name, r.rating1, r.rating2, r.updated_at, i.filename
		FROM ratings r
		JOIN images i ON i.id = r.image_id
		ORDER BY r.image_id, r.user_name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list ratings: %w", err)
	}
	return ratings, nil
}
