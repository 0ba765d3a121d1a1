package cache

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// CacheKey represents a unique identifier for a cached Pixabay response.
type CacheKey struct {
	// Endpoint is the API endpoint path (e.g., "/api/")
	Endpoint string

	// QueryParams are the query parameters (e.g., {"q": "fruits", "page": "1"})
	QueryParams url.Values
}

// String generates a deterministic cache key string.
// Format: pix:endpoint:query1=val1:query2=val2
//
// Example:
//
//	pix:api:page=1:per_page=50:q=fruits
func (k CacheKey) String() string {
	parts := []string{"pix"}

	// Add endpoint (normalize path)
	endpoint := strings.Trim(k.Endpoint, "/")
	if endpoint != "" {
		parts = append(parts, endpoint)
	}

	// Add query params (sorted for determinism); the api key never goes
	// into the cache key, rotating keys must not invalidate the cache.
	if len(k.QueryParams) > 0 {
		queryKeys := make([]string, 0, len(k.QueryParams))
		for key := range k.QueryParams {
			if key == "key" {
				continue
			}
			queryKeys = append(queryKeys, key)
		}
		sort.Strings(queryKeys)

		for _, key := range queryKeys {
			parts = append(parts, fmt.Sprintf("%s=%s", key, k.QueryParams.Get(key)))
		}
	}

	return strings.Join(parts, ":")
}
