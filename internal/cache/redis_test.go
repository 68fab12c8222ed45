package cache

import (
	"testing"
	"time"
)

func TestHashKey(t *testing.T) {
	tests := []struct {
		name  string
		parts []string
	}{
		{
			name:  "single part",
			parts: []string{"feed"},
		},
		{
			name:  "multiple parts",
			parts: []string{"feed", "category", "go", "2"},
		},
		{
			name:  "empty parts",
			parts: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hashed1 := HashKey(tt.parts...)
			hashed2 := HashKey(tt.parts...)

			// Hash should be consistent
			if hashed1 != hashed2 {
				t.Errorf("HashKey() should be consistent, got %s and %s", hashed1, hashed2)
			}

			// Hash should be 32 characters (MD5 hex)
			if len(hashed1) != 32 {
				t.Errorf("HashKey() should return 32 character hex string, got length %d", len(hashed1))
			}
		})
	}

	// Distinct inputs should not collide on these simple cases
	if HashKey("feed", "index", "1") == HashKey("feed", "index", "2") {
		t.Error("HashKey() should differ for different parts")
	}
}

func TestCacheNamespaceKey(t *testing.T) {
	cache := &Cache{}

	tests := []struct {
		name     string
		key      string
		expected string
	}{
		{
			name:     "simple key",
			key:      "test",
			expected: "inkwell:test",
		},
		{
			name:     "key with colon",
			key:      "feed:index",
			expected: "inkwell:feed:index",
		},
		{
			name:     "empty key",
			key:      "",
			expected: "inkwell:",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cache.NamespaceKey(tt.key); got != tt.expected {
				t.Errorf("NamespaceKey(%q) = %q, want %q", tt.key, got, tt.expected)
			}
		})
	}
}

func TestDisabledCache(t *testing.T) {
	var cache *Cache

	if _, err := cache.Get("key"); err != ErrCacheDisabled {
		t.Errorf("Get() on nil cache should return ErrCacheDisabled, got %v", err)
	}
	if err := cache.Set("key", "value", time.Minute); err != ErrCacheDisabled {
		t.Errorf("Set() on nil cache should return ErrCacheDisabled, got %v", err)
	}
	if err := cache.SetJSON("key", map[string]int{"a": 1}, time.Minute); err != ErrCacheDisabled {
		t.Errorf("SetJSON() on nil cache should return ErrCacheDisabled, got %v", err)
	}
	if err := cache.Close(); err != nil {
		t.Errorf("Close() on nil cache should be a no-op, got %v", err)
	}
}
