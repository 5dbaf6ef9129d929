// Package ratelimit provides rate limiting functionality using token bucket algorithm.
package ratelimit

import (
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

// bucket is a token bucket: capacity tokens, refilling at refillRate per
// second. One bucket exists per client and endpoint tier.
type bucket struct {
	capacity   int
	refillRate float64
	tokens     float64
	lastRefill time.Time
	mu         sync.Mutex
}

func newBucket(capacity int, refillRate float64) *bucket {
	return &bucket{
		capacity:   capacity,
		refillRate: refillRate,
		tokens:     float64(capacity),
		lastRefill: time.Now(),
	}
}

// allow refills the bucket for the elapsed time and consumes one token if
// available.
func (b *bucket) allow() (ok bool, remaining int, retryAfter time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now()
	b.tokens = min(float64(b.capacity), b.tokens+now.Sub(b.lastRefill).Seconds()*b.refillRate)
	b.lastRefill = now

	if b.tokens >= 1.0 {
		b.tokens -= 1.0
		return true, int(b.tokens), 0
	}

	wait := (1.0 - b.tokens) / b.refillRate
	return false, 0, time.Duration(wait * float64(time.Second))
}

// Tier groups endpoints by cost. Agent runs call out to the LLM and renders
// documents, so they get far stricter limits than file reads.
type Tier struct {
	Name   string
	Limit  int           // requests per window
	Window time.Duration // refill window
	Burst  int           // bucket capacity
}

// Info reports the limit state for response headers.
type Info struct {
	Limit      int
	Remaining  int
	RetryAfter time.Duration
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled   bool
	AgentTier Tier // POST /chat, POST /regenerate-pdf
	ReadTier  Tier // everything else
}

// LoadConfig loads rate limiting configuration from environment variables.
func LoadConfig() *Config {
	if !getEnvBool("RATE_LIMIT_ENABLED", true) {
		return &Config{Enabled: false}
	}
	return &Config{
		Enabled: true,
		AgentTier: Tier{
			Name:   "agent",
			Limit:  getEnvInt("RATE_LIMIT_AGENT_LIMIT", 30),
			Window: getEnvDuration("RATE_LIMIT_AGENT_WINDOW", time.Hour),
			Burst:  getEnvInt("RATE_LIMIT_AGENT_BURST", 5),
		},
		ReadTier: Tier{
			Name:   "read",
			Limit:  getEnvInt("RATE_LIMIT_READ_LIMIT", 600),
			Window: getEnvDuration("RATE_LIMIT_READ_WINDOW", time.Minute),
			Burst:  getEnvInt("RATE_LIMIT_READ_BURST", 60),
		},
	}
}

// Limiter manages per-client token buckets.
type Limiter struct {
	config  *Config
	mu      sync.Mutex
	buckets map[string]*bucket
}

// NewLimiter creates a rate limiter. A nil config loads from the environment.
func NewLimiter(config *Config) *Limiter {
	if config == nil {
		config = LoadConfig()
	}
	return &Limiter{
		config:  config,
		buckets: make(map[string]*bucket),
	}
}

// Allow reports whether a request from clientID to the given endpoint may
// proceed, and the limit state either way.
func (l *Limiter) Allow(clientID, path, method string) (bool, Info) {
	if !l.config.Enabled || path == "/health" {
		return true, Info{}
	}

	tier := l.tierFor(path, method)
	key := clientID + "|" + tier.Name

	l.mu.Lock()
	b, ok := l.buckets[key]
	if !ok {
		burst := tier.Burst
		if burst <= 0 {
			burst = tier.Limit
		}
		b = newBucket(burst, float64(tier.Limit)/tier.Window.Seconds())
		l.buckets[key] = b
	}
	l.mu.Unlock()

	allowed, remaining, retryAfter := b.allow()
	return allowed, Info{Limit: tier.Limit, Remaining: remaining, RetryAfter: retryAfter}
}

func (l *Limiter) tierFor(path, method string) Tier {
	if method == "POST" && (path == "/chat" || path == "/regenerate-pdf") {
		return l.config.AgentTier
	}
	return l.config.ReadTier
}

// getEnvInt gets an environment variable as an integer with a default value.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvBool gets an environment variable as a boolean with a default value.
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(strings.TrimSpace(value)); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvDuration gets an environment variable as a duration with a default value.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
