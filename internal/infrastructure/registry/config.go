package registry

import (
	"errors"
	"time"
)

// Defaults for the registry client
const (
	DefaultTimeout         = 30 * time.Second
	DefaultMaxResponseSize = 1 << 20
)

// ErrInvalidMaxResponseSize is returned for a non-positive response size limit
var ErrInvalidMaxResponseSize = errors.New("registry: max response size must be positive")

// Config holds configuration for the Handle registry client
type Config struct {
	// Timeout bounds one submission including reading the response
	Timeout time.Duration
	// MaxResponseSize caps how much of a response body is read
	MaxResponseSize int64
	// UserAgent is sent with every request when set
	UserAgent string
}

// DefaultConfig returns the client defaults
func DefaultConfig() Config {
	return Config{
		Timeout:         DefaultTimeout,
		MaxResponseSize: DefaultMaxResponseSize,
		UserAgent:       "pidreg/1.0",
	}
}

// Validate fills zero values with defaults and rejects invalid ones
func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.MaxResponseSize == 0 {
		c.MaxResponseSize = DefaultMaxResponseSize
	}
	if c.MaxResponseSize < 0 {
		return ErrInvalidMaxResponseSize
	}
	return nil
}
