package placecache

import (
	"context"
	"sync"
	"time"

	"github.com/yanqian/lunar-calendar/internal/domain/lunar"
)

type placeRecord struct {
	name      string
	expiresAt time.Time
}

// MemoryStore is an in-memory place-name cache for tests/dev.
type MemoryStore struct {
	mu     sync.RWMutex
	places map[string]placeRecord
	now    func() time.Time
}

// NewMemoryStore constructs a store backed by process memory.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		places: make(map[string]placeRecord),
		now:    time.Now,
	}
}

// GetPlace implements lunar.PlaceCache.
func (s *MemoryStore) GetPlace(_ context.Context, key string) (string, bool, error) {
	if key == "" {
		return "", false, nil
	}
	s.mu.RLock()
	record, ok := s.places[key]
	s.mu.RUnlock()
	if !ok {
		return "", false, nil
	}
	if s.hasExpired(record.expiresAt) {
		s.mu.Lock()
		delete(s.places, key)
		s.mu.Unlock()
		return "", false, nil
	}
	return record.name, true, nil
}

// SavePlace caches the name with optional TTL.
func (s *MemoryStore) SavePlace(_ context.Context, key, name string, ttl time.Duration) error {
	if key == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	exp := time.Time{}
	if ttl > 0 {
		exp = s.now().Add(ttl)
	}
	s.places[key] = placeRecord{name: name, expiresAt: exp}
	return nil
}

func (s *MemoryStore) hasExpired(ts time.Time) bool {
	if ts.IsZero() {
		return false
	}
	return ts.Before(s.now())
}

var _ lunar.PlaceCache = (*MemoryStore)(nil)
