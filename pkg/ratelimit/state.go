// Package ratelimit tracks API throttling (HTTP 429 with Retry-After) in
// Redis so that every process sharing the API quota backs off together.
package ratelimit

import (
	"time"
)

// Redis keys for throttle state storage.
const (
	RedisKeyBlockedUntil = "amo:throttle:blocked_until"
	RedisKeyThrottleHits = "amo:throttle:hits"
)

const (
	// DefaultRetryAfter is used when a 429 carries no usable Retry-After header.
	DefaultRetryAfter = 30 * time.Second

	// MaxRetryAfter caps the block window a single response can impose.
	MaxRetryAfter = 10 * time.Minute
)

// State is the current throttle state shared through Redis.
type State struct {
	// BlockedUntil is when requests may resume. Zero when not throttled.
	BlockedUntil time.Time `json:"blocked_until"`

	// Hits is the number of 429 responses seen in the current block window.
	Hits int64 `json:"hits"`
}

// IsBlocked reports whether requests must be held back at now.
func (s *State) IsBlocked(now time.Time) bool {
	return now.Before(s.BlockedUntil)
}

// TimeUntilReset returns how long requests stay blocked, 0 if not blocked.
func (s *State) TimeUntilReset() time.Duration {
	d := time.Until(s.BlockedUntil)
	if d < 0 {
		return 0
	}
	return d
}
