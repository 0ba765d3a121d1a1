package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/funct7/pixsearch/pkg/client"
	"github.com/funct7/pixsearch/pkg/logging"
	"github.com/funct7/pixsearch/pkg/pagination"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// maxPagesPerRequest caps how many pages one proxy request may accumulate.
const maxPagesPerRequest = 10

func main() {
	// Configuration from environment
	redisURL := getEnv("REDIS_URL", "localhost:6379")
	port := getEnv("PORT", "8080")
	apiKey := os.Getenv("PIXABAY_API_KEY")
	userAgent := getEnv("USER_AGENT", "pixsearch/0.1.0")
	logLevel := getEnv("LOG_LEVEL", "info")

	logging.Setup(logging.Config{
		Level:  logging.LogLevel(logLevel),
		Pretty: false,
		Output: os.Stderr,
	})
	logger := logging.NewLogger("pixsearch-proxy")

	if apiKey == "" {
		logger.Fatal().Msg("PIXABAY_API_KEY is required")
	}

	// Setup Redis
	redisClient := redis.NewClient(&redis.Options{
		Addr: redisURL,
	})

	// Ping Redis
	ctx := context.Background()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	logger.Info().Str("redis_url", redisURL).Msg("Connected to Redis")

	// Create Pixabay client
	cfg := client.DefaultConfig(redisClient, apiKey)
	cfg.UserAgent = userAgent

	pixClient, err := client.New(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create Pixabay client")
	}
	defer pixClient.Close()

	accumulator := pagination.New(pixClient, pagination.DefaultConfig())

	// HTTP Server
	http.HandleFunc("/health", healthHandler)
	http.HandleFunc("/ready", readyHandler(redisClient))
	http.HandleFunc("/search", searchHandler(accumulator))
	http.Handle("/metrics", promhttp.Handler())

	addr := ":" + port
	logger.Info().
		Str("addr", addr).
		Str("user_agent", userAgent).
		Msg("Starting pixsearch proxy server")

	if err := http.ListenAndServe(addr, nil); err != nil {
		logger.Fatal().Err(err).Msg("Server failed")
	}
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// readyHandler reports readiness based on the Redis connection.
func readyHandler(redisClient *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := redisClient.Ping(ctx).Err(); err != nil {
			http.Error(w, "redis unavailable", http.StatusServiceUnavailable)
			return
		}

		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}
}

// searchHandler runs one accumulation session per request:
// GET /search?q=<query>&pages=<n> fetches up to n pages and returns the
// final accumulation as JSON.
func searchHandler(accumulator *pagination.Accumulator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query().Get("q")
		if query == "" {
			http.Error(w, "missing q parameter", http.StatusBadRequest)
			return
		}

		pages := 1
		if pagesStr := r.URL.Query().Get("pages"); pagesStr != "" {
			n, err := strconv.Atoi(pagesStr)
			if err != nil || n < 1 {
				http.Error(w, "invalid pages parameter", http.StatusBadRequest)
				return
			}
			pages = n
		}
		if pages > maxPagesPerRequest {
			pages = maxPagesPerRequest
		}

		ctx, cancel := context.WithTimeout(r.Context(), 60*time.Second)
		defer cancel()

		// Pre-fill the advance trigger: one emission per page beyond the first.
		trigger := make(chan struct{}, pages)
		for i := 1; i < pages; i++ {
			trigger <- struct{}{}
		}
		close(trigger)

		var last pagination.Snapshot
		seen := false
		for snap := range accumulator.Search(ctx, query, trigger) {
			if snap.Err != nil {
				status := http.StatusBadGateway
				if errors.Is(snap.Err, pagination.ErrIncorrectDataReturned) {
					status = http.StatusInternalServerError
				}
				log.Warn().Err(snap.Err).Str("query", query).Msg("Search session failed")
				http.Error(w, snap.Err.Error(), status)
				return
			}
			last = snap
			seen = true
		}

		if !seen {
			http.Error(w, "search cancelled", http.StatusGatewayTimeout)
			return
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		if err := json.NewEncoder(w).Encode(last.Response); err != nil {
			log.Warn().Err(err).Msg("Failed to write response")
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
