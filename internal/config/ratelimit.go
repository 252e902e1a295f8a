package config

import (
    "os"
    "time"
)

// RateLimitConfig tunes the Redis token bucket applied to the HTTP
// surface.  The public availability endpoints are the main concern: they
// are unauthenticated and cheap to hammer.
type RateLimitConfig struct {
    Enabled        bool
    Capacity       int           // bucket size; requests available in a burst
    RefillTokens   int           // tokens added per interval
    RefillInterval time.Duration // how often the bucket refills
    TTL            time.Duration // idle bucket expiry in Redis
    Prefix         string        // Redis key prefix
}

// LoadRateLimitConfig reads rate limiter settings from the environment.
// Defaults allow 60 requests in a burst, refilling one per second.
func LoadRateLimitConfig() RateLimitConfig {
    cfg := RateLimitConfig{
        Enabled:        envBool("RATE_LIMIT_ENABLED", true),
        Capacity:       envInt("RATE_LIMIT_CAPACITY", 60),
        RefillTokens:   envInt("RATE_LIMIT_REFILL_TOKENS", 1),
        RefillInterval: envDur("RATE_LIMIT_REFILL_INTERVAL", time.Second),
        TTL:            envDur("RATE_LIMIT_TTL", 10*time.Minute),
        Prefix:         "rl",
    }
    if cfg.Capacity < 1 {
        cfg.Capacity = 1
    }
    if cfg.RefillTokens < 1 {
        cfg.RefillTokens = 1
    }
    if cfg.RefillInterval <= 0 {
        cfg.RefillInterval = time.Second
    }
    // The bucket must outlive several refill intervals or idle clients
    // would reset their budget by waiting out the TTL.
    if min := 5 * cfg.RefillInterval; cfg.TTL < min {
        cfg.TTL = min
    }
    return cfg
}

// envBool reads an optional boolean variable, falling back to def.
func envBool(key string, def bool) bool {
    switch os.Getenv(key) {
    case "1", "true", "TRUE", "yes", "on":
        return true
    case "0", "false", "FALSE", "no", "off":
        return false
    }
    return def
}
