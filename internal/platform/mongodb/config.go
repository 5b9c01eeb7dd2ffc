// Package mongodb provides the MongoDB client bootstrap for the user store.
package mongodb

import "os"

// DefaultUsersCollection is used when MONGO_USERS_COLLECTION is not set.
const DefaultUsersCollection = "Users"

// Config holds the MongoDB connection settings.
type Config struct {
	URI             string // connection string
	Database        string // database name
	UsersCollection string // users collection name
}

// LoadConfig loads MongoDB configuration from environment variables.
func LoadConfig() Config {
	collection := os.Getenv("MONGO_USERS_COLLECTION")
	if collection == "" {
		collection = DefaultUsersCollection
	}
	return Config{
		URI:             os.Getenv("MONGO_URI"),
		Database:        os.Getenv("MONGO_DB"),
		UsersCollection: collection,
	}
}
