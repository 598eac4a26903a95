package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"imagerater/internal/config"
	"imagerater/internal/dto"
	"imagerater/internal/logger"
	"imagerater/internal/model"
	"imagerater/internal/service"
)

// DefaultPageSize is used when a request does not set "limit".
const DefaultPageSize = 20

// requireUser returns the trimmed user_name query value or answers 400.
func requireUser(w http.ResponseWriter, r *http.Request, logger *logger.Logger) (string, bool) {
	user := strings.TrimSpace(r.URL.Query().Get("user_name"))
	if user == "" {
		writeError(w, logger, http.StatusBadRequest, "user_name is required")
		return "", false
	}
	return user, true
}

// parseListParams reads filter and limit, answering 400 on bad input.
func parseListParams(w http.ResponseWriter, r *http.Request, cfg *config.Config, logger *logger.Logger) (model.Filter, int, bool) {
	q := r.URL.Query()

	filter, err := model.ParseFilter(q.Get("filter"))
	if err != nil {
		writeError(w, logger, http.StatusBadRequest, err.Error())
		return "", 0, false
	}

	limit, err := atoiDefault(q.Get("limit"), DefaultPageSize)
	if err != nil || limit < 1 || limit > cfg.MaxPageSize {
		writeError(w, logger, http.StatusBadRequest, fmt.Sprintf("limit must be between 1 and %d", cfg.MaxPageSize))
		return "", 0, false
	}
	return filter, limit, true
}

// CountsHandler returns the total and unrated image counts for a user.
func CountsHandler(manager *service.Manager, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := requireUser(w, r, logger)
		if !ok {
			return
		}

		counts, err := manager.Counts(r.Context(), user)
		if err != nil {
			internalError(w, logger, "Error counting images", err)
			return
		}
		writeJSON(w, logger, http.StatusOK, counts)
	}
}

// ListImagesHandler returns one page of images with the user's ratings.
// Response is JSON of type dto.ImagesPage.
func ListImagesHandler(manager *service.Manager, cfg *config.Config, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := requireUser(w, r, logger)
		if !ok {
			return
		}
		filter, limit, ok := parseListParams(w, r, cfg, logger)
		if !ok {
			return
		}
		page, err := atoiDefault(r.URL.Query().Get("page"), 1)
		if err != nil || page < 1 {
			writeError(w, logger, http.StatusBadRequest, "page must be a positive integer")
			return
		}

		data, err := manager.ListImages(r.Context(), user, filter, page, limit)
		if err != nil {
			internalError(w, logger, "Error querying images from database", err)
			return
		}
		writeJSON(w, logger, http.StatusOK, data)
	}
}

// FindImageHandler returns the page holding the first image whose filename
// contains the "filename" query value.
func FindImageHandler(manager *service.Manager, cfg *config.Config, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := requireUser(w, r, logger)
		if !ok {
			return
		}
		filter, limit, ok := parseListParams(w, r, cfg, logger)
		if !ok {
			return
		}
		filename := strings.TrimSpace(r.URL.Query().Get("filename"))
		if filename == "" {
			writeError(w, logger, http.StatusBadRequest, "filename is required")
			return
		}

		page, err := manager.FindImagePage(r.Context(), user, filter, filename, limit)
		var notFound *service.NotFoundError
		if errors.As(err, &notFound) {
			writeError(w, logger, http.StatusNotFound, notFound.Error())
			return
		}
		if err != nil {
			internalError(w, logger, "Error searching images", err)
			return
		}
		writeJSON(w, logger, http.StatusOK, dto.FindResult{Page: page})
	}
}

// RateImageHandler stores a user's pair of ratings for the image in the
// {id} path segment.
func RateImageHandler(manager *service.Manager, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		imageID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
		if err != nil {
			writeError(w, logger, http.StatusBadRequest, "invalid image id")
			return
		}

		var req dto.RateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, logger, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if err := req.Validate(); err != nil {
			writeError(w, logger, http.StatusUnprocessableEntity, err.Error())
			return
		}

		rating, err := manager.Rate(r.Context(), imageID, &req)
		if errors.Is(err, service.ErrImageNotFound) {
			writeError(w, logger, http.StatusNotFound, "Image not found")
			return
		}
		if err != nil {
			internalError(w, logger, "Error storing rating", err)
			return
		}
		writeJSON(w, logger, http.StatusOK, rating)
	}
}
