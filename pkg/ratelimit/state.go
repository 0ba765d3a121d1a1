// Package ratelimit implements Pixabay rate limit tracking and request gating.
// It monitors the X-RateLimit-Remaining and X-RateLimit-Reset headers to keep
// the per-key request budget (100 requests per minute by default) from being
// exhausted.
package ratelimit

import (
	"time"
)

// Redis keys for rate limit state storage.
const (
	RedisKeyRequestsRemaining = "pix:rate_limit:requests_remaining"
	RedisKeyResetTimestamp    = "pix:rate_limit:reset_timestamp"
	RedisKeyLastUpdate        = "pix:rate_limit:last_update"
)

// Thresholds for rate limit decisions.
const (
	// RequestThresholdCritical blocks all requests when the remaining budget
	// falls below this value. The last few requests are reserved so a burst
	// cannot push the key over the limit.
	RequestThresholdCritical = 5

	// RequestThresholdWarning applies throttling when the remaining budget
	// falls below this value. This slows down the request rate until the
	// window resets.
	RequestThresholdWarning = 20

	// RequestThresholdHealthy indicates normal operation.
	// When the remaining budget is at or above this value, no restrictions apply.
	RequestThresholdHealthy = 50
)

// RateLimitState represents the current Pixabay rate limit state.
// This state is shared across all client instances via Redis.
type RateLimitState struct {
	// RequestsRemaining is the number of requests left in the current window.
	// Extracted from the X-RateLimit-Remaining header.
	RequestsRemaining int `json:"requests_remaining"`

	// ResetAt is the timestamp when the rate limit window resets.
	// Calculated from the X-RateLimit-Reset header (seconds until reset).
	ResetAt time.Time `json:"reset_at"`

	// LastUpdate is the timestamp when this state was last updated.
	// Used to detect stale state and determine if data should be refreshed.
	LastUpdate time.Time `json:"last_update"`

	// IsHealthy indicates whether the request budget is in a healthy state.
	// True when RequestsRemaining >= RequestThresholdHealthy.
	IsHealthy bool `json:"is_healthy"`
}

// IsStale returns true if the state data is older than the given duration.
// Stale state should be refreshed from Redis or response headers.
func (s *RateLimitState) IsStale(maxAge time.Duration) bool {
	return time.Since(s.LastUpdate) > maxAge
}

// NeedsCriticalBlock returns true if requests should be blocked due to a
// critically low remaining budget.
func (s *RateLimitState) NeedsCriticalBlock() bool {
	return s.RequestsRemaining < RequestThresholdCritical
}

// NeedsThrottling returns true if requests should be throttled due to the warning threshold.
func (s *RateLimitState) NeedsThrottling() bool {
	return s.RequestsRemaining < RequestThresholdWarning && !s.NeedsCriticalBlock()
}

// TimeUntilReset returns the duration until the rate limit window resets.
// Returns 0 if the reset time has already passed.
func (s *RateLimitState) TimeUntilReset() time.Duration {
	duration := time.Until(s.ResetAt)
	if duration < 0 {
		return 0
	}
	return duration
}

// UpdateHealth updates the IsHealthy field based on current RequestsRemaining.
func (s *RateLimitState) UpdateHealth() {
	s.IsHealthy = s.RequestsRemaining >= RequestThresholdHealthy
}
