// RatingEvent is pushed to websocket subscribers after a rating is stored.
package dto

type RatingEvent struct {
	Type     string `json:"type"`
	ImageID  int64  `json:"image_id"`
	UserName string `json:"user_name"`
	Rating1  int    `json:"rating1"`
	Rating2  int    `json:"rating2"`
}

const RatingEventType = "rating"
