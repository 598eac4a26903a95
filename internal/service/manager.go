package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"imagerater/internal/dto"
	"imagerater/internal/logger"
	"imagerater/internal/model"
	"imagerater/internal/repository"
	"imagerater/internal/service/websocket"
)

// ErrImageNotFound is returned when a rating targets an unknown image.
var ErrImageNotFound = errors.New("image not found")

// NotFoundError reports a filename search without a match. Its message is
// shown to users verbatim.
type NotFoundError struct {
	Query  string
	Filter model.Filter
}

func (e *NotFoundError) Error() string {
	if e.Filter == model.FilterUnrated {
		return fmt.Sprintf("No unrated image matching '%s' was found.", e.Query)
	}
	return fmt.Sprintf("No image matching '%s' was found.", e.Query)
}

// Manager implements the rating API on top of the repositories and
// notifies websocket viewers about new ratings.
type Manager struct {
	images  repository.ImageRepository
	ratings repository.RatingRepository
	hub     *websocket.HubService
	logger  *logger.Logger
}

func NewManager(images repository.ImageRepository, ratings repository.RatingRepository, hub *websocket.HubService, logger *logger.Logger) *Manager {
	return &Manager{
		images:  images,
		ratings: ratings,
		hub:     hub,
		logger:  logger,
	}
}

// Counts returns the total number of images and how many the user has not
// rated yet.
func (m *Manager) Counts(ctx context.Context, user string) (dto.Counts, error) {
	total, err := m.images.Count(ctx, user, model.FilterAll)
	if err != nil {
		return dto.Counts{}, err
	}
	unrated, err := m.images.Count(ctx, user, model.FilterUnrated)
	if err != nil {
		return dto.Counts{}, err
	}
	return dto.Counts{Total: total, Unrated: unrated}, nil
}

// ListImages returns the 1-based page of the user's filtered image list.
func (m *Manager) ListImages(ctx context.Context, user string, filter model.Filter, page, limit int) (*dto.ImagesPage, error) {
	images, err := m.images.ListWithRatings(ctx, user, filter, (page-1)*limit, limit)
	if err != nil {
		return nil, err
	}
	total, err := m.images.Count(ctx, user, filter)
	if err != nil {
		return nil, err
	}
	return &dto.ImagesPage{TotalCount: total, Images: images}, nil
}

// FindImagePage returns the 1-based page, for the given filter and page
// size, holding the first image whose filename contains query.
func (m *Manager) FindImagePage(ctx context.Context, user string, filter model.Filter, query string, limit int) (int, error) {
	query = strings.TrimSpace(query)
	position, err := m.images.FindPosition(ctx, user, filter, query)
	if errors.Is(err, repository.ErrNotFound) {
		return 0, &NotFoundError{Query: query, Filter: filter}
	}
	if err != nil {
		return 0, err
	}
	return position/limit + 1, nil
}

// Rate stores the user's ratings for an image and publishes the change.
func (m *Manager) Rate(ctx context.Context, imageID int64, req *dto.RateRequest) (*model.Rating, error) {
	img, err := m.images.GetByID(ctx, imageID)
	if err != nil {
		return nil, err
	}
	if img == nil {
		return nil, ErrImageNotFound
	}

	stored, err := m.ratings.Upsert(ctx, &model.Rating{
		ImageID:  imageID,
		UserName: strings.TrimSpace(req.UserName),
		Rating1:  *req.Rating1,
		Rating2:  *req.Rating2,
	})
	if err != nil {
		return nil, err
	}

	m.logger.Info("Image %d rated %d/%d by %s", imageID, stored.Rating1, stored.Rating2, stored.UserName)
	if m.hub != nil {
		m.hub.PublishRating(dto.RatingEvent{
			ImageID:  stored.ImageID,
			UserName: stored.UserName,
			Rating1:  stored.Rating1,
			Rating2:  stored.Rating2,
		})
	}
	return stored, nil
}

// Summary pivots all ratings into one row per rated image with a pair of
// rating columns per user, users sorted by name.
func (m *Manager) Summary(ctx context.Context) (*dto.Summary, error) {
	ratings, err := m.ratings.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	userSet := make(map[string]bool)
	for _, r := range ratings {
		userSet[r.UserName] = true
	}
	users := make([]string, 0, len(userSet))
	for u := range userSet {
		users = append(users, u)
	}
	sort.Strings(users)

	headers := []string{dto.SummaryImageID, dto.SummaryFilename}
	for _, u := range users {
		headers = append(headers, RatingColumn(u, 1), RatingColumn(u, 2))
	}

	// ratings are ordered by image id, so rows come out in that order too
	rows := []map[string]any{}
	var current map[string]any
	var currentID int64
	for _, r := range ratings {
		if current == nil || r.ImageID != currentID {
			current = map[string]any{
				dto.SummaryImageID:  r.ImageID,
				dto.SummaryFilename: r.Filename,
			}
			currentID = r.ImageID
			rows = append(rows, current)
		}
		current[RatingColumn(r.UserName, 1)] = r.Rating1
		current[RatingColumn(r.UserName, 2)] = r.Rating2
	}

	return &dto.Summary{Headers: headers, Rows: rows}, nil
}

// RatingColumn names the summary column holding a user's n-th rating.
func RatingColumn(user string, n int) string {
	return fmt.Sprintf("%s Rating %d", user, n)
}
