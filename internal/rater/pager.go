package rater

import (
	"imagerater/internal/dto"
	"imagerater/internal/model"
)

// DefaultPageSize is the number of images shown per page.
const DefaultPageSize = 20

// TotalPages returns ceil(count/pageSize) for the count the filter selects:
// the total count for FilterAll and the unrated count for FilterUnrated.
// It is 0 when that count is 0, in which case no page is valid.
func TotalPages(filter model.Filter, counts dto.Counts, pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	count := counts.Total
	if filter == model.FilterUnrated {
		count = counts.Unrated
	}
	if count <= 0 {
		return 0
	}
	return (count + pageSize - 1) / pageSize
}

// CheckPage validates a 1-based page number against the page total.
func CheckPage(page, totalPages int) error {
	if totalPages == 0 {
		return validationf("no pages available")
	}
	if page < 1 || page > totalPages {
		return validationf("page must be between 1 and %d", totalPages)
	}
	return nil
}

// Offset returns the index of the first image of a 1-based page.
func Offset(page, pageSize int) int {
	return (page - 1) * pageSize
}
