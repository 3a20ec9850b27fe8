package catalog

import (
	"errors"
	"time"
)

// Config holds connection settings for the volumes lookup API.
type Config struct {
	// BaseURL is the API root, e.g. "https://www.googleapis.com/books/v1".
	BaseURL string

	// Country restricts results to a sales territory (two-letter code).
	Country string

	// Timeout bounds every lookup request.
	Timeout time.Duration

	// MaxResults caps the number of volumes requested per query.
	MaxResults int
}

// Validate checks the configuration and fills in defaults.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return errors.New("catalog base URL is required")
	}
	if c.Timeout <= 0 {
		c.Timeout = 10 * time.Second
	}
	if c.MaxResults <= 0 {
		c.MaxResults = 20
	}
	return nil
}
