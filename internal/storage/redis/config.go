package redis

import "time"

// Config holds Redis connection and behavior settings
type Config struct {
	// URL is the Redis connection URL (e.g., redis://localhost:6379)
	URL string

	// Namespace separates sessions sharing one Redis instance
	Namespace string

	// Pool settings
	PoolSize     int
	MinIdleConns int

	// SessionTTL expires the whole session hash after inactivity (0 = never)
	SessionTTL time.Duration
}

// DefaultConfig returns sensible defaults for Redis configuration
func DefaultConfig() Config {
	return Config{
		URL:          "redis://localhost:6379",
		Namespace:    "default",
		PoolSize:     4,
		MinIdleConns: 1,
		SessionTTL:   24 * time.Hour,
	}
}
