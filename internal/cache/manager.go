package cache

import (
	"sync"
	"time"
)

// RequestCache stores raw vendor responses in memory until they expire.
type RequestCache struct {
	mu     sync.RWMutex
	memory map[string]*RequestData
	now    func() time.Time
}

// RequestData represents a cached request
type RequestData struct {
	Key       string    `json:"key"`
	Data      []byte    `json:"data"`
	ExpiresAt time.Time `json:"expires_at"`
}

// NewRequestCache creates an empty cache.
func NewRequestCache() *RequestCache {
	return &RequestCache{
		memory: make(map[string]*RequestData),
		now:    time.Now,
	}
}

// Get returns the cached entry for key, or nil when missing or expired.
func (rc *RequestCache) Get(key string) *RequestData {
	rc.mu.RLock()
	defer rc.mu.RUnlock()

	data, ok := rc.memory[key]
	if !ok || !rc.now().Before(data.ExpiresAt) {
		return nil
	}
	return data
}

// Set stores data under key for ttl. A non-positive ttl is ignored.
func (rc *RequestCache) Set(key string, data []byte, ttl time.Duration) {
	if ttl <= 0 {
		return
	}

	rc.mu.Lock()
	rc.memory[key] = &RequestData{
		Key:       key,
		Data:      data,
		ExpiresAt: rc.now().Add(ttl),
	}
	rc.mu.Unlock()
}

// Cleanup removes expired entries and returns how many were dropped.
func (rc *RequestCache) Cleanup() int {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	now := rc.now()
	removed := 0
	for key, data := range rc.memory {
		if !now.Before(data.ExpiresAt) {
			delete(rc.memory, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of stored entries, expired ones included.
func (rc *RequestCache) Len() int {
	rc.mu.RLock()
	defer rc.mu.RUnlock()
	return len(rc.memory)
}
