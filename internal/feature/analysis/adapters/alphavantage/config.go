// Package alphavantage provides a client for the Alpha Vantage stock market API.
package alphavantage

import (
	"os"
	"time"
)

// DefaultBaseURL is used when ALPHA_VANTAGE_BASE_URL is not set.
const DefaultBaseURL = "https://www.alphavantage.co"

// Config holds configuration for the Alpha Vantage API client.
type Config struct {
	APIKey  string        // API key for authentication
	BaseURL string        // Base URL for the API
	Timeout time.Duration // HTTP request timeout
}

// LoadConfig loads Alpha Vantage configuration from environment variables.
func LoadConfig() Config {
	baseURL := os.Getenv("ALPHA_VANTAGE_BASE_URL")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return Config{
		APIKey:  os.Getenv("ALPHA_VANTAGE_API_KEY"),
		BaseURL: baseURL,
		Timeout: 10 * time.Second,
	}
}
