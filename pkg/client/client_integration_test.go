//go:build integration

package client

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/funct7/pixsearch/pkg/cache"
	"github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// startRedisContainer runs a disposable Redis instance for the test.
func startRedisContainer(t *testing.T) *redis.Client {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections"),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("Failed to start redis container: %v", err)
	}
	t.Cleanup(func() { container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get container host: %v", err)
	}
	port, err := container.MappedPort(ctx, "6379")
	if err != nil {
		t.Fatalf("Failed to get container port: %v", err)
	}

	client := redis.NewClient(&redis.Options{
		Addr: fmt.Sprintf("%s:%s", host, port.Port()),
	})
	t.Cleanup(func() { client.Close() })

	if err := client.Ping(ctx).Err(); err != nil {
		t.Fatalf("Failed to ping redis container: %v", err)
	}

	return client
}

func TestIntegration_SearchRequestLifecycle(t *testing.T) {
	redisClient := startRedisContainer(t)

	pageBody := `{"totalHits": 120, "hits": [{"id": 1001}]}`
	var fullResponses, revalidations int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-RateLimit-Limit", "100")
		w.Header().Set("X-RateLimit-Remaining", "97")
		w.Header().Set("X-RateLimit-Reset", "60")
		w.Header().Set("Expires", time.Now().Add(24*time.Hour).Format(http.TimeFormat))

		if r.Header.Get("If-None-Match") == `"search-v1"` {
			atomic.AddInt32(&revalidations, 1)
			w.WriteHeader(http.StatusNotModified)
			return
		}

		atomic.AddInt32(&fullResponses, 1)
		w.Header().Set("ETag", `"search-v1"`)
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(pageBody))
	}))
	defer server.Close()

	cfg := DefaultConfig(redisClient, "integration-api-key")
	cfg.BaseURL = server.URL
	pixClient, err := New(cfg)
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}
	defer pixClient.Close()

	ctx := context.Background()

	body, err := pixClient.FetchPage(ctx, "fruits", 1, 50)
	if err != nil {
		t.Fatalf("First FetchPage failed: %v", err)
	}
	if string(body) != pageBody {
		t.Errorf("First page body = %s, want %s", body, pageBody)
	}

	// The page is now cached under its deterministic key, ETag included.
	key := cache.CacheKey{
		Endpoint: "/api/",
		QueryParams: url.Values{
			"key":      []string{"integration-api-key"},
			"q":        []string{"fruits"},
			"page":     []string{"1"},
			"per_page": []string{"50"},
		},
	}
	entry, err := pixClient.cache.Get(ctx, key)
	if err != nil {
		t.Fatalf("Cached entry lookup failed: %v", err)
	}
	if entry.ETag != `"search-v1"` {
		t.Errorf("Cached ETag = %s, want \"search-v1\"", entry.ETag)
	}

	// The second fetch revalidates with If-None-Match and serves the cached
	// body after the 304.
	body, err = pixClient.FetchPage(ctx, "fruits", 1, 50)
	if err != nil {
		t.Fatalf("Second FetchPage failed: %v", err)
	}
	if string(body) != pageBody {
		t.Errorf("Revalidated body = %s, want %s", body, pageBody)
	}
	if n := atomic.LoadInt32(&fullResponses); n != 1 {
		t.Errorf("Full responses = %d, want 1", n)
	}
	if n := atomic.LoadInt32(&revalidations); n != 1 {
		t.Errorf("Revalidations = %d, want 1", n)
	}

	// Rate limit headers from the responses must land in shared state.
	state, err := pixClient.rateLimiter.GetState(ctx)
	if err != nil {
		t.Fatalf("GetState failed: %v", err)
	}
	if state.RequestsRemaining != 97 {
		t.Errorf("RequestsRemaining = %d, want 97", state.RequestsRemaining)
	}
}

func TestIntegration_CriticalBudgetStopsFollowUps(t *testing.T) {
	redisClient := startRedisContainer(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-RateLimit-Limit", "100")
		w.Header().Set("X-RateLimit-Remaining", "3")
		w.Header().Set("X-RateLimit-Reset", "60")
		w.Header().Set("Expires", time.Now().Add(24*time.Hour).Format(http.TimeFormat))
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"totalHits": 500, "hits": [{"id": 1}]}`))
	}))
	defer server.Close()

	cfg := DefaultConfig(redisClient, "integration-api-key")
	cfg.BaseURL = server.URL
	pixClient, err := New(cfg)
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}
	defer pixClient.Close()

	ctx := context.Background()

	// The first page succeeds and records the nearly exhausted budget.
	if _, err := pixClient.FetchPage(ctx, "fruits", 1, 50); err != nil {
		t.Fatalf("First FetchPage failed: %v", err)
	}

	// The follow-up page is blocked before any network traffic.
	_, err = pixClient.FetchPage(ctx, "fruits", 2, 50)
	if err == nil {
		t.Fatal("Expected the rate limiter to block the second page")
	}
	if !strings.Contains(err.Error(), "rate limit critical") {
		t.Errorf("Error = %v, want a critical budget block", err)
	}
}

func TestIntegration_ShortCacheWindowExpires(t *testing.T) {
	redisClient := startRedisContainer(t)

	var fullResponses int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&fullResponses, 1)
		w.Header().Set("X-RateLimit-Limit", "100")
		w.Header().Set("X-RateLimit-Remaining", "90")
		w.Header().Set("X-RateLimit-Reset", "60")
		// No validators, so the entry cannot be revalidated after it expires.
		w.Header().Set("Expires", time.Now().Add(2*time.Second).Format(http.TimeFormat))
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"totalHits": 8, "hits": [{"id": 2002}]}`))
	}))
	defer server.Close()

	cfg := DefaultConfig(redisClient, "integration-api-key")
	cfg.BaseURL = server.URL
	pixClient, err := New(cfg)
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}
	defer pixClient.Close()

	ctx := context.Background()

	if _, err := pixClient.FetchPage(ctx, "sunset", 1, 50); err != nil {
		t.Fatalf("First FetchPage failed: %v", err)
	}
	if _, err := pixClient.FetchPage(ctx, "sunset", 1, 50); err != nil {
		t.Fatalf("Second FetchPage failed: %v", err)
	}
	if n := atomic.LoadInt32(&fullResponses); n != 1 {
		t.Errorf("Full responses = %d, want 1 while the entry is fresh", n)
	}

	time.Sleep(3 * time.Second)

	if _, err := pixClient.FetchPage(ctx, "sunset", 1, 50); err != nil {
		t.Fatalf("FetchPage after expiry failed: %v", err)
	}
	if n := atomic.LoadInt32(&fullResponses); n != 2 {
		t.Errorf("Full responses = %d, want 2 after the caching window passed", n)
	}
}
