package config

import (
    "strings"
    "time"
)

// CacheConfig defines settings for the listing cache middleware.  When
// Enabled is false or no Redis client is configured, caching is disabled.
// Entries are keyed by route, query string and the current cache
// generation, which booking writes advance.
type CacheConfig struct {
    Enabled       bool
    Methods       map[string]bool
    TTL           time.Duration
    Prefix        string
    GenerationKey string
    MaxBodyBytes  int
}

// LoadCacheConfig reads environment variables to build a CacheConfig.
func LoadCacheConfig() CacheConfig {
    prefix := envStr("CACHE_PREFIX", "cache:bookings")
    return CacheConfig{
        Enabled:       envBool("CACHE_ENABLED", true),
        Methods:       parseMethods(envStr("CACHE_METHODS", "GET")),
        TTL:           envDur("CACHE_TTL", 30*time.Second),
        Prefix:        prefix,
        GenerationKey: envStr("CACHE_GENERATION_KEY", prefix+":gen"),
        MaxBodyBytes:  envInt("CACHE_MAX_BODY_BYTES", 1048576),
    }
}

func parseMethods(s string) map[string]bool {
    m := map[string]bool{}
    for _, p := range strings.Split(s, ",") {
        p = strings.TrimSpace(strings.ToUpper(p))
        if p != "" {
            m[p] = true
        }
    }
    return m
}
