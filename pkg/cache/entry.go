package cache

import (
	"net/http"
	"time"
)

// Entry is a cached API response.
type Entry struct {
	// Data is the response body
	Data []byte `json:"data"`

	// ETag for conditional requests (If-None-Match)
	ETag string `json:"etag,omitempty"`

	// LastModified for conditional requests (If-Modified-Since)
	LastModified time.Time `json:"last_modified"`

	// FreshUntil is when the entry stops being served without revalidation
	FreshUntil time.Time `json:"fresh_until"`

	StatusCode int         `json:"status_code"`
	Headers    http.Header `json:"headers"`
	CachedAt   time.Time   `json:"cached_at"`
}

// IsFresh reports whether the entry may be served without revalidation.
func (e *Entry) IsFresh() bool {
	return time.Now().Before(e.FreshUntil)
}

// TTL returns the remaining fresh time, 0 once stale.
func (e *Entry) TTL() time.Duration {
	ttl := time.Until(e.FreshUntil)
	if ttl < 0 {
		return 0
	}
	return ttl
}
