package model

import (
	"fmt"
	"path"
	"time"
)

// Image represents an image record.
type Image struct {
	ID        int64     `db:"id" json:"id"`
	Filename  string    `db:"filename" json:"filename"` // slash-separated path relative to the image directory
	Path      string    `db:"path" json:"path"`         // URL path the image bytes are served under
	CreatedAt time.Time `db:"created_at" json:"-"`
}

// ImageWithRating is an image together with the requesting user's rating,
// if any.
type ImageWithRating struct {
	Image
	Rating1 *int `db:"rating1" json:"rating1"`
	Rating2 *int `db:"rating2" json:"rating2"`
}

// Basename returns the last element of a slash-separated filename.
func Basename(filename string) string {
	if filename == "" {
		return ""
	}
	return path.Base(filename)
}

// Filter selects which images of a user are listed.
type Filter string

const (
	FilterAll     Filter = "all"
	FilterUnrated Filter = "unrated"
)

// ParseFilter converts a query value into a Filter. Empty means FilterAll.
func ParseFilter(s string) (Filter, error) {
	switch Filter(s) {
	case "", FilterAll:
		return FilterAll, nil
	case FilterUnrated:
		return FilterUnrated, nil
	}
	return "", fmt.Errorf("invalid filter %q: must be %q or %q", s, FilterAll, FilterUnrated)
}
