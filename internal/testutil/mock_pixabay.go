// Package testutil provides testing utilities for the pixsearch client.
package testutil

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"time"
)

// MockResponse defines the behavior for a mock Pixabay endpoint response.
type MockResponse struct {
	StatusCode int
	Body       string
	Headers    map[string]string
	Delay      time.Duration
}

// MockPixabay is a configurable mock Pixabay API server for testing.
type MockPixabay struct {
	server *httptest.Server
	mu     sync.RWMutex
	pages  map[string]map[int]MockResponse // query -> page -> response

	// Tracking
	RequestCount      int
	ConditionalCount  int
	PagesRequested    []int
	LastRequestHeader http.Header
}

// NewMockPixabay creates a new mock Pixabay server.
func NewMockPixabay() *MockPixabay {
	mock := &MockPixabay{
		pages: make(map[string]map[int]MockResponse),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query().Get("q")
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		if page == 0 {
			page = 1
		}

		mock.mu.Lock()
		mock.RequestCount++
		mock.PagesRequested = append(mock.PagesRequested, page)
		mock.LastRequestHeader = r.Header.Clone()

		// Track conditional requests
		if r.Header.Get("If-None-Match") != "" || r.Header.Get("If-Modified-Since") != "" {
			mock.ConditionalCount++
		}

		resp, exists := mock.pages[query][page]
		mock.mu.Unlock()

		if exists {
			writeResponse(w, resp)
			return
		}

		// Default handler
		mock.defaultHandler(w, r)
	}))

	return mock
}

// URL returns the mock server URL.
func (m *MockPixabay) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockPixabay) Close() {
	m.server.Close()
}

// Reset clears all tracking counters.
func (m *MockPixabay) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RequestCount = 0
	m.ConditionalCount = 0
	m.PagesRequested = nil
	m.LastRequestHeader = nil
}

// SetPage configures the response for one page of a query.
func (m *MockPixabay) SetPage(query string, page int, resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.pages[query] == nil {
		m.pages[query] = make(map[int]MockResponse)
	}
	m.pages[query][page] = resp
}

// GetRequestCount returns the number of requests made to the server.
func (m *MockPixabay) GetRequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.RequestCount
}

// GetConditionalCount returns the number of conditional requests.
func (m *MockPixabay) GetConditionalCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.ConditionalCount
}

// GetPagesRequested returns the page numbers requested, in order.
func (m *MockPixabay) GetPagesRequested() []int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]int(nil), m.PagesRequested...)
}

func writeResponse(w http.ResponseWriter, resp MockResponse) {
	// Add delay if specified
	if resp.Delay > 0 {
		time.Sleep(resp.Delay)
	}

	// Set headers
	for key, value := range resp.Headers {
		w.Header().Set(key, value)
	}

	// Write status and body
	w.WriteHeader(resp.StatusCode)
	if resp.Body != "" {
		w.Write([]byte(resp.Body))
	}
}

// defaultHandler returns an empty result page with healthy rate limit headers.
func (m *MockPixabay) defaultHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("X-RateLimit-Limit", "100")
	w.Header().Set("X-RateLimit-Remaining", "99")
	w.Header().Set("X-RateLimit-Reset", "60")
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Expires", time.Now().Add(24*time.Hour).Format(http.TimeFormat))
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"total": 0, "totalHits": 0, "hits": []}`))
}

// PageBody builds a Pixabay-shaped search result body with count items
// starting at startID and the given reported total.
func PageBody(count, total, startID int) string {
	hits := make([]string, count)
	for i := range hits {
		id := startID + i
		hits[i] = fmt.Sprintf(
			`{"id": %d, "imageWidth": 800, "imageHeight": 600, "previewURL": "https://cdn.example/p%d.jpg", "largeImageURL": "https://cdn.example/f%d.jpg"}`,
			id, id, id)
	}
	return fmt.Sprintf(`{"total": %d, "totalHits": %d, "hits": [%s]}`, total, total, strings.Join(hits, ","))
}

// NewPageResponse creates a standard 200 OK search page with healthy rate
// limit headers.
func NewPageResponse(count, total, startID int) MockResponse {
	return MockResponse{
		StatusCode: http.StatusOK,
		Body:       PageBody(count, total, startID),
		Headers: map[string]string{
			"X-RateLimit-Limit":     "100",
			"X-RateLimit-Remaining": "99",
			"X-RateLimit-Reset":     "60",
			"Expires":               time.Now().Add(24 * time.Hour).Format(http.TimeFormat),
			"Content-Type":          "application/json; charset=utf-8",
		},
	}
}

// NewRateLimitResponse creates a 429 Too Many Requests response.
func NewRateLimitResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusTooManyRequests,
		Body:       `{"error": "Rate limit exceeded"}`,
		Headers: map[string]string{
			"X-RateLimit-Limit":     "100",
			"X-RateLimit-Remaining": "0",
			"X-RateLimit-Reset":     "30",
			"Content-Type":          "application/json; charset=utf-8",
		},
	}
}

// NewServerErrorResponse creates a 500 Internal Server Error response.
func NewServerErrorResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusInternalServerError,
		Body:       `{"error": "Internal server error"}`,
		Headers: map[string]string{
			"X-RateLimit-Limit":     "100",
			"X-RateLimit-Remaining": "95",
			"X-RateLimit-Reset":     "60",
			"Content-Type":          "application/json; charset=utf-8",
		},
	}
}

// NewMalformedResponse creates a 200 OK response whose body cannot be
// interpreted as a search result page.
func NewMalformedResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusOK,
		Body:       `{"unexpected": true}`,
		Headers: map[string]string{
			"X-RateLimit-Limit":     "100",
			"X-RateLimit-Remaining": "99",
			"X-RateLimit-Reset":     "60",
			"Content-Type":          "application/json; charset=utf-8",
		},
	}
}
