package pending

import (
	"context"
	"sync"
	"time"

	"turnero/models"
)

// Store keeps the slot list most recently offered to each conversation key.
// Set replaces any existing entry and stamps a fresh expiry. TryGet treats an
// expired entry as absent and evicts it. Implementations must be safe under
// concurrent access from independent message handlers; per-key semantics are
// last-write-wins with no cross-key ordering guarantee.
type Store interface {
	Set(ctx context.Context, offer models.PendingOffer) error
	TryGet(ctx context.Context, key string) (*models.PendingOffer, bool, error)
	Clear(ctx context.Context, key string) error
}

// MemoryStore is a process-local Store. Offers are ephemeral by design; they
// do not survive a restart.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]models.PendingOffer
	ttl     time.Duration
	now     func() time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]models.PendingOffer),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (s *MemoryStore) Set(_ context.Context, offer models.PendingOffer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	offer.ExpiresAt = s.now().Add(s.ttl)
	s.entries[offer.Key] = offer
	return nil
}

func (s *MemoryStore) TryGet(_ context.Context, key string) (*models.PendingOffer, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	offer, ok := s.entries[key]
	if !ok {
		return nil, false, nil
	}
	if s.now().After(offer.ExpiresAt) {
		delete(s.entries, key)
		return nil, false, nil
	}
	return &offer, true, nil
}

func (s *MemoryStore) Clear(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}
