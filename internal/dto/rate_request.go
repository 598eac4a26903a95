package dto

import (
	"errors"
	"fmt"
	"strings"

	"imagerater/internal/model"
)

// RateRequest is the body of a rating submission. Both ratings are
// pointers so a missing field can be told apart from zero.
type RateRequest struct {
	UserName string `json:"user_name"`
	Rating1  *int   `json:"rating1"`
	Rating2  *int   `json:"rating2"`
}

// Validate checks that the user is named and both ratings are in range.
func (r *RateRequest) Validate() error {
	if strings.TrimSpace(r.UserName) == "" {
		return errors.New("user_name is required")
	}
	if r.Rating1 == nil || r.Rating2 == nil {
		return errors.New("rating1 and rating2 are both required")
	}
	if !model.ValidRating(*r.Rating1) {
		return fmt.Errorf("rating1 must be between %d and %d", model.MinRating, model.MaxRating)
	}
	if !model.ValidRating(*r.Rating2) {
		return fmt.Errorf("rating2 must be between %d and %d", model.MinRating, model.MaxRating)
	}
	return nil
}
