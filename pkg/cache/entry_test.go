package cache

import (
	"testing"
	"time"
)

func TestCacheEntry_IsExpired(t *testing.T) {
	tests := []struct {
		name    string
		expires time.Time
		want    bool
	}{
		{
			name:    "expires tomorrow",
			expires: time.Now().Add(24 * time.Hour),
			want:    false,
		},
		{
			name:    "expired an hour ago",
			expires: time.Now().Add(-1 * time.Hour),
			want:    true,
		},
		{
			name:    "expires in one minute",
			expires: time.Now().Add(1 * time.Minute),
			want:    false,
		},
		{
			name:    "zero expires",
			expires: time.Time{},
			want:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := &CacheEntry{
				Data:    []byte(`{"totalHits": 0, "hits": []}`),
				Expires: tt.expires,
			}

			if got := entry.IsExpired(); got != tt.want {
				t.Errorf("IsExpired() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCacheEntry_TTL(t *testing.T) {
	tests := []struct {
		name    string
		expires time.Time
		wantMin time.Duration
		wantMax time.Duration
	}{
		{
			name:    "24 hours remaining",
			expires: time.Now().Add(24 * time.Hour),
			wantMin: 23*time.Hour + 59*time.Minute,
			wantMax: 24 * time.Hour,
		},
		{
			name:    "already expired",
			expires: time.Now().Add(-1 * time.Hour),
			wantMin: 0,
			wantMax: 0,
		},
		{
			name:    "zero expires",
			expires: time.Time{},
			wantMin: 0,
			wantMax: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := &CacheEntry{
				Data:    []byte(`{"totalHits": 0, "hits": []}`),
				Expires: tt.expires,
			}

			got := entry.TTL()
			if got < tt.wantMin || got > tt.wantMax {
				t.Errorf("TTL() = %v, want between %v and %v", got, tt.wantMin, tt.wantMax)
			}
		})
	}
}

func TestCacheEntry_Age(t *testing.T) {
	entry := &CacheEntry{
		Data:     []byte(`{"totalHits": 0, "hits": []}`),
		CachedAt: time.Now().Add(-2 * time.Hour),
	}

	age := entry.Age()
	if age < 2*time.Hour || age > 2*time.Hour+time.Minute {
		t.Errorf("Age() = %v, want ~2h", age)
	}

	// Entries without a stored timestamp report zero age.
	if got := (&CacheEntry{}).Age(); got != 0 {
		t.Errorf("Age() on zero CachedAt = %v, want 0", got)
	}
}
