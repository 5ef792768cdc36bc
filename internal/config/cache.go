package config

import (
	"os"
	"strconv"
	"time"
)

// ViewCacheConfig controls the public potluck-view cache. Entries are
// keyed by slug so mutations (and the invalidation consumer) can evict a
// single potluck's page. When Enabled is false or no Redis client is
// available, caching is disabled entirely.
type ViewCacheConfig struct {
	Enabled bool
	TTL     time.Duration
	Prefix  string
}

// LoadViewCacheConfig reads environment variables to build a
// ViewCacheConfig. Defaults are used when variables are not set. The TTL
// is deliberately short: the cache only has to absorb reload storms on a
// shared potluck page, and the invalidation events keep it from serving
// stale state for long even without expiry.
func LoadViewCacheConfig() ViewCacheConfig {
	return ViewCacheConfig{
		Enabled: getenv("CACHE_ENABLED", "true") == "true",
		TTL:     parseDur(getenv("CACHE_TTL", "30s")),
		Prefix:  getenv("CACHE_PREFIX", "cache:potluck"),
	}
}

// Helper functions shared with ratelimit.go.
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoi(s string) int {
	i, _ := strconv.Atoi(s)
	return i
}

func parseDur(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return time.Second
	}
	return d
}
