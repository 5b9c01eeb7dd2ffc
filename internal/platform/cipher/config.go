// Package cipher provides symmetric encryption for stored credentials.
package cipher

import "os"

// Config holds the key material for the credential cipher. Both values must
// be exactly 16 bytes (AES-128 key size and block size).
type Config struct {
	Key string // AES-128 key
	IV  string // fixed initialization vector
}

// LoadConfig loads cipher configuration from environment variables.
func LoadConfig() Config {
	return Config{
		Key: os.Getenv("AES_KEY"),
		IV:  os.Getenv("AES_IV"),
	}
}
