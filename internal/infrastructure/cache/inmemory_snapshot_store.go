package cache

import (
	"context"
	"sync"
	"time"

	"github.com/mmenu/backend/internal/domain/cart"
)

type memoryEntry struct {
	cart      cart.Cart
	expiresAt time.Time
}

// InMemoryCartSnapshotStore implements cart.SnapshotRepository with a map.
// Snapshots do not survive a restart and are not shared between instances.
type InMemoryCartSnapshotStore struct {
	mu        sync.RWMutex
	entries   map[string]memoryEntry
	ttl       time.Duration
	now       func() time.Time
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewInMemoryCartSnapshotStore creates the store and starts a goroutine that
// drops expired snapshots. Call Close to stop it.
func NewInMemoryCartSnapshotStore(ttl time.Duration) *InMemoryCartSnapshotStore {
	s := &InMemoryCartSnapshotStore{
		entries:  make(map[string]memoryEntry),
		ttl:      ttl,
		now:      time.Now,
		stopChan: make(chan struct{}),
	}

	s.wg.Add(1)
	go s.cleanupLoop(cleanupInterval(ttl))

	return s
}

// Load returns the stored cart, or an empty cart when none is stored or it expired
func (s *InMemoryCartSnapshotStore) Load(_ context.Context, key string) (cart.Cart, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[key]
	if !ok || !s.now().Before(e.expiresAt) {
		return cart.Cart{}, nil
	}
	return e.cart, nil
}

// Save stores the cart. Carts are immutable so no copy is taken.
func (s *InMemoryCartSnapshotStore) Save(_ context.Context, key string, c cart.Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c.IsEmpty() {
		delete(s.entries, key)
		return nil
	}
	s.entries[key] = memoryEntry{cart: c, expiresAt: s.now().Add(s.ttl)}
	return nil
}

// Delete removes the stored cart
func (s *InMemoryCartSnapshotStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, key)
	return nil
}

// Size returns the number of stored snapshots, expired ones included
func (s *InMemoryCartSnapshotStore) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Close stops the cleanup goroutine
func (s *InMemoryCartSnapshotStore) Close() error {
	s.closeOnce.Do(func() {
		close(s.stopChan)
	})
	s.wg.Wait()
	return nil
}

func (s *InMemoryCartSnapshotStore) cleanupLoop(interval time.Duration) {
	defer s.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.removeExpired()
		case <-s.stopChan:
			return
		}
	}
}

func (s *InMemoryCartSnapshotStore) removeExpired() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for key, e := range s.entries {
		if !now.Before(e.expiresAt) {
			delete(s.entries, key)
		}
	}
}

func cleanupInterval(ttl time.Duration) time.Duration {
	interval := ttl / 4
	if interval < time.Second {
		return time.Second
	}
	if interval > 10*time.Minute {
		return 10 * time.Minute
	}
	return interval
}

var _ cart.SnapshotRepository = (*InMemoryCartSnapshotStore)(nil)
