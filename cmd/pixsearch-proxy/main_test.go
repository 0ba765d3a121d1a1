package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/funct7/pixsearch/internal/testutil"
	"github.com/funct7/pixsearch/pkg/client"
	"github.com/funct7/pixsearch/pkg/pagination"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupTestRedis(t *testing.T) (*redis.Client, func()) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForLog("Ready to accept connections"),
	}

	redisC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("Failed to start Redis container: %v", err)
	}

	host, err := redisC.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get container host: %v", err)
	}

	port, err := redisC.MappedPort(ctx, "6379")
	if err != nil {
		t.Fatalf("Failed to get container port: %v", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr: host + ":" + port.Port(),
	})

	cleanup := func() {
		redisClient.Close()
		redisC.Terminate(ctx)
	}

	return redisClient, cleanup
}

func TestHealthEndpoint(t *testing.T) {
	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()

	healthHandler(w, req)

	resp := w.Result()
	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}

	if string(body) != "OK" {
		t.Errorf("Expected body 'OK', got %s", string(body))
	}
}

func TestReadyEndpoint(t *testing.T) {
	redisClient, cleanup := setupTestRedis(t)
	defer cleanup()

	handler := readyHandler(redisClient)

	t.Run("ready", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/ready", nil)
		w := httptest.NewRecorder()

		handler(w, req)

		resp := w.Result()
		body, _ := io.ReadAll(resp.Body)

		if resp.StatusCode != http.StatusOK {
			t.Errorf("Expected status 200, got %d", resp.StatusCode)
		}

		if string(body) != "OK" {
			t.Errorf("Expected body 'OK', got %s", string(body))
		}
	})

	t.Run("not_ready_redis_down", func(t *testing.T) {
		// Close Redis to simulate failure
		redisClient.Close()

		req := httptest.NewRequest("GET", "/ready", nil)
		w := httptest.NewRecorder()

		handler(w, req)

		resp := w.Result()

		if resp.StatusCode != http.StatusServiceUnavailable {
			t.Errorf("Expected status 503, got %d", resp.StatusCode)
		}
	})
}

func TestMetricsEndpoint(t *testing.T) {
	redisClient, cleanup := setupTestRedis(t)
	defer cleanup()

	// Create a client to ensure all metrics are registered
	_, err := client.New(client.DefaultConfig(redisClient, "test-key"))
	if err != nil {
		t.Fatalf("Failed to create Pixabay client: %v", err)
	}

	req := httptest.NewRequest("GET", "/metrics", nil)
	w := httptest.NewRecorder()

	handler := promhttp.Handler()
	handler.ServeHTTP(w, req)

	resp := w.Result()
	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}

	bodyStr := string(body)

	// Just verify we get prometheus output format
	if !strings.Contains(bodyStr, "# HELP") || !strings.Contains(bodyStr, "# TYPE") {
		t.Error("Expected Prometheus format metrics output")
	}

	// The request budget gauge is always registered
	if !strings.Contains(bodyStr, "pixabay_requests_remaining") {
		t.Error("Expected metrics output to contain pixabay_requests_remaining")
	}
}

func TestSearchHandler(t *testing.T) {
	redisClient, cleanup := setupTestRedis(t)
	defer cleanup()

	mockAPI := testutil.NewMockPixabay()
	defer mockAPI.Close()

	mockAPI.SetPage("fruits", 1, testutil.NewPageResponse(50, 80, 0))
	mockAPI.SetPage("fruits", 2, testutil.NewPageResponse(30, 80, 50))

	cfg := client.DefaultConfig(redisClient, "test-key")
	cfg.BaseURL = mockAPI.URL()

	pixClient, err := client.New(cfg)
	if err != nil {
		t.Fatalf("Failed to create Pixabay client: %v", err)
	}
	defer pixClient.Close()

	accumulator := pagination.New(pixClient, pagination.DefaultConfig())
	handler := searchHandler(accumulator)

	t.Run("accumulates_pages", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/search?q=fruits&pages=3", nil)
		w := httptest.NewRecorder()

		handler(w, req)

		resp := w.Result()
		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(resp.Body)
			t.Fatalf("Expected status 200, got %d: %s", resp.StatusCode, body)
		}

		var result pagination.AccumulatedResponse
		if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}

		if len(result.Images) != 80 {
			t.Errorf("Image count = %d, want 80", len(result.Images))
		}
		if result.TotalAvailable != 80 {
			t.Errorf("TotalAvailable = %d, want 80", result.TotalAvailable)
		}
	})

	t.Run("missing_query", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/search", nil)
		w := httptest.NewRecorder()

		handler(w, req)

		if w.Result().StatusCode != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d", w.Result().StatusCode)
		}
	})

	t.Run("invalid_pages", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/search?q=fruits&pages=zero", nil)
		w := httptest.NewRecorder()

		handler(w, req)

		if w.Result().StatusCode != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d", w.Result().StatusCode)
		}
	})

	t.Run("malformed_upstream", func(t *testing.T) {
		mockAPI.SetPage("broken", 1, testutil.NewMalformedResponse())

		req := httptest.NewRequest("GET", "/search?q=broken", nil)
		w := httptest.NewRecorder()

		handler(w, req)

		if w.Result().StatusCode != http.StatusInternalServerError {
			t.Errorf("Expected status 500, got %d", w.Result().StatusCode)
		}
	})
}
