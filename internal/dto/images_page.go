// ImagesPage is a paginated response payload for the images list.
package dto

import "imagerater/internal/model"

type ImagesPage struct {
	TotalCount int                     `json:"total_count"`
	Images     []model.ImageWithRating `json:"images"`
}
