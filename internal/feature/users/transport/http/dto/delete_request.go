package dto

// DeleteRequest represents the request body for the DELETE /api/users endpoint.
type DeleteRequest struct {
	ID string `json:"id"`
}
