// FindResult is the 1-based page holding the first filename match.
package dto

type FindResult struct {
	Page int `json:"page"`
}
