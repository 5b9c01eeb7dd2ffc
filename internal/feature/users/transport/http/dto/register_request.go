// Package dto defines data transfer objects for the users feature's HTTP transport layer.
package dto

// RegisterRequest represents the request body for the /api/users/register
// endpoint. Field-level validation (all fields required) happens in the
// usecase so that the missing-data failure shares one message.
type RegisterRequest struct {
	Email       string `json:"Email"`
	Password    string `json:"Password"`
	FirstName   string `json:"FirstName"`
	LastName    string `json:"LastName"`
	PhoneNumber string `json:"PhoneNumber"`
}
