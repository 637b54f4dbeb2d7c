package redis

import "time"

// Config holds Redis connection and behavior settings
type Config struct {
	// URL is the Redis connection URL (e.g., redis://localhost:6379)
	URL string

	// Namespace scopes every key to one server process start
	Namespace string

	// Pool settings
	PoolSize     int
	MinIdleConns int

	// TTL settings
	HistoryTTL time.Duration
	StatsTTL   time.Duration
}

// DefaultConfig returns sensible defaults for Redis configuration
func DefaultConfig() Config {
	return Config{
		URL:          "redis://localhost:6379",
		Namespace:    "default",
		PoolSize:     10,
		MinIdleConns: 2,
		HistoryTTL:   24 * time.Hour,
		StatsTTL:     time.Hour,
	}
}
