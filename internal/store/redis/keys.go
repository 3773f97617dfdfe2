package redis

import (
	"strconv"
)

const (
	// KeyPrefixRateLimit is the prefix for rate limit window counters
	KeyPrefixRateLimit = "verse:ratelimit:"
)

// RateLimitKey returns the Redis key counting requests of client in window.
// Example: RateLimitKey("203.0.113.7", 29012345) -> "verse:ratelimit:203.0.113.7:29012345"
func RateLimitKey(client string, window int64) string {
	return KeyPrefixRateLimit + client + ":" + strconv.FormatInt(window, 10)
}
