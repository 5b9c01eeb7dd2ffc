// Package usecase implements the business logic for the users feature.
package usecase

import "errors"

var (
	// ErrUserNotFound is returned by repositories when no document matches
	// the lookup filter.
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidID is returned when an identifier is not a valid 24-hex
	// ObjectID. Repositories return it before contacting the store.
	ErrInvalidID = errors.New("invalid user id")

	// ErrMissingFields is returned when a registration request is missing a
	// required field.
	ErrMissingFields = errors.New("user data is missing")

	// ErrMissingID is returned when an operation requires an id and none was
	// supplied.
	ErrMissingID = errors.New("user id is required")

	// ErrInvalidField is returned when a lookup is attempted on a field
	// other than _id or Email.
	ErrInvalidField = errors.New("user can be found only by _id or Email")
)
