// Counts reports how many images exist and how many a user has not rated.
package dto

type Counts struct {
	Total   int `json:"total"`
	Unrated int `json:"unrated"`
}
