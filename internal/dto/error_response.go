// ErrorResponse is the JSON body of every non-2xx API response.
package dto

type ErrorResponse struct {
	Detail string `json:"detail"`
}
