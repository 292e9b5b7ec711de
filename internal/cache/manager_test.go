package cache

import (
	"testing"
	"time"
)

func TestRequestCacheExpiry(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	rc := NewRequestCache()
	rc.now = func() time.Time { return now }

	rc.Set("trending", []byte(`{"page":1}`), time.Hour)
	if got := rc.Get("trending"); got == nil || string(got.Data) != `{"page":1}` {
		t.Fatalf("Get = %v, want cached data", got)
	}

	now = now.Add(time.Hour)
	if got := rc.Get("trending"); got != nil {
		t.Fatalf("Get after expiry = %v, want nil", got)
	}

	if removed := rc.Cleanup(); removed != 1 {
		t.Errorf("Cleanup removed %d, want 1", removed)
	}
	if rc.Len() != 0 {
		t.Errorf("Len = %d, want 0", rc.Len())
	}
}

func TestRequestCacheIgnoresZeroTTL(t *testing.T) {
	rc := NewRequestCache()
	rc.Set("k", []byte("v"), 0)
	if rc.Len() != 0 {
		t.Fatal("zero ttl entry should not be stored")
	}
}
