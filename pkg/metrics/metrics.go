// Package metrics provides the centralized Prometheus metrics registry for
// pixsearch. All metrics are defined in their respective packages (client,
// cache, ratelimit, pagination) to maintain modularity and avoid circular
// dependencies.
//
// This package provides documentation and reference for all available metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the default Prometheus registry used by pixsearch.
// All metrics are automatically registered via promauto in their respective packages.
var Registry = prometheus.DefaultRegisterer

// Metrics Documentation
//
// Rate Limit Metrics (pkg/ratelimit):
//   - pixabay_requests_remaining (Gauge): Requests remaining in the current rate limit window
//   - pixabay_rate_limit_blocks_total (Counter): Requests blocked due to critical request budget
//   - pixabay_rate_limit_throttles_total (Counter): Requests throttled due to low request budget
//
// Cache Metrics (pkg/cache):
//   - pixabay_cache_hits_total{layer="redis"} (Counter): Cache hits by layer
//   - pixabay_cache_misses_total (Counter): Cache misses
//   - pixabay_cache_size_bytes{layer="redis"} (Gauge): Current cache size in bytes
//   - pixabay_304_responses_total (Counter): 304 Not Modified responses
//   - pixabay_conditional_requests_total (Counter): Conditional requests sent with If-None-Match
//   - pixabay_cache_errors_total{operation} (Counter): Cache operation errors
//
// Request Metrics (pkg/client):
//   - pixabay_requests_total{endpoint, status} (Counter): Total requests by endpoint and HTTP status
//   - pixabay_request_duration_seconds{endpoint} (Histogram): Request duration by endpoint
//   - pixabay_errors_total{class} (Counter): Errors by class (client, server, rate_limit, network)
//
// Retry Metrics (pkg/client):
//   - pixabay_retries_total{error_class} (Counter): Retry attempts by error class
//   - pixabay_retry_backoff_seconds{error_class} (Histogram): Backoff duration by error class
//   - pixabay_retry_exhausted_total{error_class} (Counter): Requests that exhausted max retries
//
// Search Session Metrics (pkg/pagination):
//   - pixsearch_pages_total (Counter): Pages fetched across all search sessions
//   - pixsearch_sessions_total{outcome} (Counter): Sessions by outcome (completed, failed, cancelled)
//
// Example Prometheus Queries:
//
//   # Cache Hit Rate
//   sum(rate(pixabay_cache_hits_total[5m])) /
//   (sum(rate(pixabay_cache_hits_total[5m])) + sum(rate(pixabay_cache_misses_total[5m])))
//
//   # Request Budget Status
//   pixabay_requests_remaining < 20
//
//   # Request Error Rate
//   rate(pixabay_errors_total[5m])
//
//   # P95 Request Latency
//   histogram_quantile(0.95, rate(pixabay_request_duration_seconds_bucket[5m]))
//
//   # Session Failure Rate
//   rate(pixsearch_sessions_total{outcome="failed"}[5m])
