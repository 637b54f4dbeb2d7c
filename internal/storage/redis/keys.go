package redis

import "fmt"

// Key prefix for all arena data
const keyPrefix = "rpsarena"

// historyKey returns the Redis key for the newest-first history LIST
func historyKey(namespace string) string {
	return fmt.Sprintf("%s:%s:history", keyPrefix, namespace)
}

// statsKey returns the Redis key for the latest arena stats snapshot
func statsKey(namespace string) string {
	return fmt.Sprintf("%s:%s:stats", keyPrefix, namespace)
}
