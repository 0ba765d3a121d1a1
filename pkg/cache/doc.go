// Package cache provides Pixabay response caching with Redis backend.
//
// Pixabay requires API consumers to cache search responses for 24 hours;
// the cache manager enforces this with the following features:
//
// - TTL from response cache headers with a 24 hour default
// - ETag support for conditional requests (If-None-Match)
// - Last-Modified support (If-Modified-Since)
// - Prometheus metrics for observability
// - Deterministic cache key generation
//
// # Basic Usage
//
//	// Create Redis client
//	redisClient := redis.NewClient(&redis.Options{
//		Addr: "localhost:6379",
//	})
//
//	// Create cache manager
//	manager := cache.NewManager(redisClient)
//
//	// Create cache key
//	key := cache.CacheKey{
//		Endpoint: "/api/",
//		QueryParams: url.Values{"q": []string{"fruits"}, "page": []string{"1"}},
//	}
//
//	// Get from cache
//	entry, err := manager.Get(ctx, key)
//	if err == cache.ErrCacheMiss {
//		// Cache miss - fetch from Pixabay
//	}
//
// # HTTP Response Caching
//
//	// Convert HTTP response to cache entry
//	entry, err := cache.ResponseToEntry(resp)
//	if err != nil {
//		return err
//	}
//
//	// Store in cache
//	err = manager.Set(ctx, key, entry)
package cache
