// Package entity defines the domain entities for the users feature.
package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// User represents a user account document.
//
// The bson field names are part of the stored document shape and the json
// field names are part of the wire contract; neither follows Go's usual
// lower-camel convention, and both must stay as-is.
type User struct {
	// ID is the store-assigned identifier. Calling code treats it as an
	// opaque string validated only for format.
	ID bson.ObjectID `bson:"_id,omitempty" json:"Id"`

	// Email is unique across all users, compared case-insensitively at
	// registration time.
	Email string `bson:"Email" json:"Email"`

	// Password holds the symmetrically encrypted credential. The plaintext
	// is never stored.
	Password string `bson:"Password" json:"Password"`

	FirstName   string `bson:"FirstName" json:"FirstName"`
	LastName    string `bson:"LastName" json:"LastName"`
	PhoneNumber string `bson:"PhoneNumber" json:"PhoneNumber"`

	// CreatedAt is stamped once at registration.
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`

	// LastLogin is stamped on every successful authentication.
	LastLogin time.Time `bson:"lastLogin" json:"lastLogin"`

	// LastUpdate is stamped on every successful field update.
	LastUpdate time.Time `bson:"lastUpdate" json:"lastUpdate"`

	// IsActive is set at registration. No operation currently flips it.
	IsActive bool `bson:"IsActive" json:"IsActive"`
}
