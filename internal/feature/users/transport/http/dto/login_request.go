package dto

// LoginRequest represents the request body for the /api/users/login endpoint.
type LoginRequest struct {
	Email    string `json:"Email"`
	Password string `json:"Password"`
}
