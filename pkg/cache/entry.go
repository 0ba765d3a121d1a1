package cache

import (
	"net/http"
	"time"
)

// CacheEntry is one cached Pixabay response: the raw body plus the expiry
// and validation metadata needed for the 24 hour caching window and for
// conditional revalidation.
type CacheEntry struct {
	// Data is the raw Pixabay response body
	Data []byte `json:"data"`

	// ETag enables If-None-Match revalidation
	ETag string `json:"etag"`

	// Expires marks the end of the caching window
	Expires time.Time `json:"expires"`

	// LastModified enables If-Modified-Since revalidation
	LastModified time.Time `json:"last_modified"`

	// StatusCode of the cached response
	StatusCode int `json:"status_code"`

	// Headers of the cached response
	Headers http.Header `json:"headers"`

	// CachedAt is when the response was stored
	CachedAt time.Time `json:"cached_at"`
}

// IsExpired reports whether the caching window has passed.
func (e *CacheEntry) IsExpired() bool {
	return time.Now().After(e.Expires)
}

// TTL returns the remaining caching window, or 0 when expired.
func (e *CacheEntry) TTL() time.Duration {
	ttl := time.Until(e.Expires)
	if ttl < 0 {
		return 0
	}
	return ttl
}

// Age returns how long ago the response was stored.
func (e *CacheEntry) Age() time.Duration {
	if e.CachedAt.IsZero() {
		return 0
	}
	return time.Since(e.CachedAt)
}
