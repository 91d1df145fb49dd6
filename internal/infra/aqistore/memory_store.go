package aqistore

import (
	"context"
	"sync"
	"time"

	"github.com/yanqian/aqi-advisor/internal/domain/advisor"
)

type cachedPayload struct {
	payload   advisor.AqiPayload
	expiresAt time.Time
}

// MemoryStore is an in-memory payload cache for tests/dev.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]cachedPayload
}

// NewMemoryStore constructs a store backed by process memory.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]cachedPayload)}
}

// Get implements advisor.PayloadCache.
func (s *MemoryStore) Get(_ context.Context, key string) (*advisor.AqiPayload, bool, error) {
	s.mu.RLock()
	entry, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if hasExpired(entry.expiresAt) {
		s.mu.Lock()
		delete(s.entries, key)
		s.mu.Unlock()
		return nil, false, nil
	}
	payload := entry.payload
	return &payload, true, nil
}

// Save caches the payload with optional TTL.
func (s *MemoryStore) Save(_ context.Context, key string, payload *advisor.AqiPayload, ttl time.Duration) error {
	if payload == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	exp := time.Time{}
	if ttl > 0 {
		exp = time.Now().Add(ttl)
	}
	s.entries[key] = cachedPayload{payload: *payload, expiresAt: exp}
	return nil
}

func hasExpired(ts time.Time) bool {
	if ts.IsZero() {
		return false
	}
	return ts.Before(time.Now())
}

var _ advisor.PayloadCache = (*MemoryStore)(nil)
