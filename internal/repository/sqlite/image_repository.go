package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"imagerater/internal/model"
	"imagerater/internal/repository"
)

// ImageRepository implements repository.ImageRepository for SQLite.
type ImageRepository struct {
	db *DB
}

// NewImageRepository creates a new SQLite image repository.
func NewImageRepository(db *DB) *ImageRepository {
	return &ImageRepository{db: db}
}

// userImages is the FROM clause shared by the per-user listing queries.
// Its single placeholder is the user name.
const userImages = `
	FROM images i
	LEFT JOIN ratings r ON r.image_id = i.id AND r.user_name = ?
`

func filterClause(filter model.Filter) string {
	if filter == model.FilterUnrated {
		return " WHERE r.id IS NULL"
	}
	return " WHERE 1=1"
}

// Insert adds a new image record to the database.
func (r *ImageRepository) Insert(ctx context.Context, img *model.Image) (int64, error) {
	r.db.Lock()
	defer r.db.Unlock()

	result, err := r.db.Conn().ExecContext(ctx, `
		INSERT INTO images (filename, path)
		VALUES (?, ?)
	`, img.Filename, img.Path)
	if err != nil {
		return 0, fmt.Errorf("failed to insert image: %w", err)
	}

	return result.LastInsertId()
}

// GetByID retrieves an image by its ID. It returns nil when no image exists.
func (r *ImageRepository) GetByID(ctx context.Context, id int64) (*model.Image, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	var img model.Image
	err := r.db.Conn().GetContext(ctx, &img, `
		SELECT id, filename, path, created_at
		FROM images WHERE id = ?
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get image: %w", err)
	}
	return &img, nil
}

// GetByFilename retrieves an image by its exact filename. It returns nil
// when no image exists.
func (r *ImageRepository) GetByFilename(ctx context.Context, filename string) (*model.Image, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	var img model.Image
	err := r.db.Conn().GetContext(ctx, &img, `
		SELECT id, filename, path, created_at
		FROM images WHERE filename = ?
	`, filename)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get image: %w", err)
	}
	return &img, nil
}

// ListWithRatings returns one page of images ordered by id, each carrying
// the given user's rating when one exists.
func (r *ImageRepository) ListWithRatings(ctx context.Context, user string, filter model.Filter, offset, limit int) ([]model.ImageWithRating, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	query := `SELECT i.id, i.filename, i.path, r.rating1, r.rating2` + userImages + filterClause(filter) +
		` ORDER BY i.id LIMIT ? OFFSET ?`

	images := []model.ImageWithRating{}
	if err := r.db.Conn().SelectContext(ctx, &images, query, user, limit, offset); err != nil {
		return nil, fmt.Errorf("failed to query images: %w", err)
	}
	return images, nil
}

// Count returns how many images the filter selects for the user.
func (r *ImageRepository) Count(ctx context.Context, user string, filter model.Filter) (int, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	var count int
	query := `SELECT COUNT(*)` + userImages + filterClause(filter)
	if err := r.db.Conn().GetContext(ctx, &count, query, user); err != nil {
		return 0, fmt.Errorf("failed to count images: %w", err)
	}
	return count, nil
}

// FindPosition returns the 0-based position of the first filename match in
// the list ListWithRatings pages through. repository.ErrNotFound is
// returned when nothing matches.
func (r *ImageRepository) FindPosition(ctx context.Context, user string, filter model.Filter, query string) (int, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	var matchID int64
	err := r.db.Conn().GetContext(ctx, &matchID,
		`SELECT i.id`+userImages+filterClause(filter)+
			` AND LOWER(i.filename) LIKE ? ESCAPE '\' ORDER BY i.id LIMIT 1`,
		user, "%"+escapeLike(strings.ToLower(query))+"%")
	if errors.Is(err, sql.ErrNoRows) {
		return 0, repository.ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to search images: %w", err)
	}

	var position int
	err = r.db.Conn().GetContext(ctx, &position,
		`SELECT COUNT(*)`+userImages+filterClause(filter)+` AND i.id < ?`,
		user, matchID)
	if err != nil {
		return 0, fmt.Errorf("failed to locate image: %w", err)
	}
	return position, nil
}

// DeleteAll removes all images and their ratings.
func (r *ImageRepository) DeleteAll(ctx context.Context) error {
	r.db.Lock()
	defer r.db.Unlock()

	if _, err := r.db.Conn().ExecContext(ctx, `DELETE FROM ratings`); err != nil {
		return fmt.Errorf("failed to delete ratings: %w", err)
	}

	if _, err := r.db.Conn().ExecContext(ctx, `DELETE FROM images`); err != nil {
		return fmt.Errorf("failed to delete images: %w", err)
	}

	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
