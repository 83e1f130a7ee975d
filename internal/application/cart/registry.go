package cart

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mmenu/backend/internal/domain/cart"
	"github.com/mmenu/backend/internal/domain/shared"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

var ErrCartUnavailable = shared.NewDomainError("CART_UNAVAILABLE", "Cart is temporarily unavailable, please retry")

// Session owns a Store and the Gate that confirms its removals
type Session struct {
	Key   string
	Store *Store
	Gate  *Gate

	lastUsed atomic.Int64
}

func (s *Session) touch(now time.Time) {
	s.lastUsed.Store(now.UnixNano())
}

func (s *Session) idleSince(now time.Time) time.Duration {
	return now.Sub(time.Unix(0, s.lastUsed.Load()))
}

// Registry hands out one Session per table session key. Sessions are
// restored from the snapshot repository on first use and every published
// snapshot is written back. Sessions unused for the idle timeout are dropped
// from memory and restored again on the next Open.
type Registry struct {
	repo        cart.SnapshotRepository
	logger      *zap.Logger
	saveTimeout time.Duration
	loadTimeout time.Duration
	idleTimeout time.Duration
	now         func() time.Time

	mu       sync.RWMutex
	sessions map[string]*Session
	loading  singleflight.Group
}

// RegistryOption configures a Registry
type RegistryOption func(*Registry)

// WithSaveTimeout bounds each snapshot write
func WithSaveTimeout(d time.Duration) RegistryOption {
	return func(r *Registry) {
		r.saveTimeout = d
	}
}

// WithLoadTimeout bounds each snapshot read
func WithLoadTimeout(d time.Duration) RegistryOption {
	return func(r *Registry) {
		r.loadTimeout = d
	}
}

// WithIdleTimeout sets how long an unused session stays in memory. It must
// be longer than any request so a session is never dropped while in use.
func WithIdleTimeout(d time.Duration) RegistryOption {
	return func(r *Registry) {
		r.idleTimeout = d
	}
}

// NewRegistry creates a registry backed by repo
func NewRegistry(repo cart.SnapshotRepository, logger *zap.Logger, opts ...RegistryOption) *Registry {
	r := &Registry{
		repo:        repo,
		logger:      logger,
		saveTimeout: 2 * time.Second,
		loadTimeout: 2 * time.Second,
		idleTimeout: 30 * time.Minute,
		now:         time.Now,
		sessions:    make(map[string]*Session),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Open returns the session for key, restoring it when needed. The restore
// runs detached from ctx so one caller going away does not fail the others
// sharing the load. When the stored cart cannot be read Open fails with
// ErrCartUnavailable and nothing is cached, so the next call retries instead
// of overwriting the stored cart with an empty one.
func (r *Registry) Open(ctx context.Context, key string) (*Session, error) {
	if s, ok := r.Lookup(key); ok {
		return s, nil
	}

	v, err, _ := r.loading.Do(key, func() (any, error) {
		if s, ok := r.Lookup(key); ok {
			return s, nil
		}

		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.loadTimeout)
		defer cancel()
		initial, err := r.repo.Load(loadCtx, key)
		if err != nil {
			r.logger.Warn("failed to restore cart",
				zap.String("session", key),
				zap.Error(err),
			)
			return nil, fmt.Errorf("restore cart %s: %w", key, ErrCartUnavailable)
		}

		s := &Session{Key: key, Store: NewStore(initial), Gate: NewGate(r.logger)}
		s.touch(r.now())
		s.Store.Subscribe(r.persister(key))

		r.mu.Lock()
		r.sessions[key] = s
		r.mu.Unlock()
		return s, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Session), nil
}

// Lookup returns the session for key if it is in memory, without restoring
// it
func (r *Registry) Lookup(key string) (*Session, bool) {
	r.mu.RLock()
	s, ok := r.sessions[key]
	r.mu.RUnlock()
	if ok {
		s.touch(r.now())
	}
	return s, ok
}

// Len returns the number of open sessions
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Sweep drops sessions idle for longer than the idle timeout and returns how
// many were dropped. Sessions with a prompt waiting for an answer are kept.
func (r *Registry) Sweep() int {
	now := r.now()
	r.mu.Lock()
	defer r.mu.Unlock()

	dropped := 0
	for key, s := range r.sessions {
		if s.idleSince(now) <= r.idleTimeout {
			continue
		}
		if _, pending := s.Gate.Pending(); pending {
			continue
		}
		delete(r.sessions, key)
		dropped++
	}
	return dropped
}

// Run sweeps idle sessions every interval until ctx is done
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Sweep(); n > 0 {
				r.logger.Debug("dropped idle cart sessions", zap.Int("count", n), zap.Int("open", r.Len()))
			}
		}
	}
}

func (r *Registry) persister(key string) Listener {
	return func(snap Snapshot) {
		ctx, cancel := context.WithTimeout(context.Background(), r.saveTimeout)
		defer cancel()

		var err error
		if snap.Cart.IsEmpty() {
			err = r.repo.Delete(ctx, key)
		} else {
			err = r.repo.Save(ctx, key, snap.Cart)
		}
		if err != nil {
			r.logger.Warn("failed to persist cart snapshot",
				zap.String("session", key),
				zap.Uint64("version", snap.Version),
				zap.Error(err),
			)
		}
	}
}
