package cart

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/mmenu/backend/internal/domain/cart"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func openSession(t *testing.T, r *Registry, key string) *Session {
	t.Helper()
	s, err := r.Open(context.Background(), key)
	require.NoError(t, err)
	return s
}

func TestRegistry_Open(t *testing.T) {
	ctx := context.Background()

	t.Run("same key returns the same session", func(t *testing.T) {
		r := NewRegistry(newMemorySnapshots(), zap.NewNop())

		var wg sync.WaitGroup
		sessions := make([]*Session, 20)
		for i := range sessions {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				s, err := r.Open(ctx, "r-1:t-1")
				assert.NoError(t, err)
				sessions[i] = s
			}(i)
		}
		wg.Wait()

		for _, s := range sessions {
			assert.Same(t, sessions[0], s)
		}
		assert.Equal(t, 1, r.Len())
		assert.NotSame(t, sessions[0], openSession(t, r, "r-1:t-2"))
	})

	t.Run("restores stored carts", func(t *testing.T) {
		snapshots := newMemorySnapshots()
		plan, err := cart.AddToCart{Product: plainProduct("P", 50), Quantity: 4}.Plan(cart.Cart{})
		require.NoError(t, err)
		require.NoError(t, snapshots.Save(ctx, "r-1:t-1", plan.Result))

		r := NewRegistry(snapshots, zap.NewNop())
		s := openSession(t, r, "r-1:t-1")
		assert.Equal(t, 4, cart.TotalItemCount(s.Store.Snapshot().Cart))
	})

	t.Run("load failure is not cached", func(t *testing.T) {
		snapshots := newMemorySnapshots()
		plan, err := cart.AddToCart{Product: plainProduct("P", 50), Quantity: 2}.Plan(cart.Cart{})
		require.NoError(t, err)
		require.NoError(t, snapshots.Save(ctx, "r-1:t-1", plan.Result))
		snapshots.loadErr = errors.New("redis down")

		r := NewRegistry(snapshots, zap.NewNop())
		_, err = r.Open(ctx, "r-1:t-1")
		assert.ErrorIs(t, err, ErrCartUnavailable)
		assert.Zero(t, r.Len())
		_, ok := r.Lookup("r-1:t-1")
		assert.False(t, ok)

		stored, ok := snapshots.get("r-1:t-1")
		require.True(t, ok, "the stored cart is left alone")
		assert.Equal(t, 2, cart.TotalItemCount(stored))

		snapshots.loadErr = nil
		s := openSession(t, r, "r-1:t-1")
		assert.Equal(t, 2, cart.TotalItemCount(s.Store.Snapshot().Cart))
	})

	t.Run("load outlives the caller's context", func(t *testing.T) {
		snapshots := newMemorySnapshots()
		r := NewRegistry(snapshots, zap.NewNop(), WithLoadTimeout(time.Second))

		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		_, err := r.Open(cancelled, "r-1:t-1")
		require.NoError(t, err)
		assert.NoError(t, snapshots.loadCtx)
	})

	t.Run("published snapshots are saved", func(t *testing.T) {
		snapshots := newMemorySnapshots()
		r := NewRegistry(snapshots, zap.NewNop())
		s := openSession(t, r, "r-1:t-1")

		applyNow(t, s.Store, cart.AddToCart{Product: plainProduct("P", 50), Quantity: 1})
		stored, ok := snapshots.get("r-1:t-1")
		require.True(t, ok)
		assert.Equal(t, 1, cart.TotalItemCount(stored))

		item := stored.Items()[0]
		applyNow(t, s.Store, cart.UpdateCartItem{ItemID: item.ID, Quantity: 0})
		_, ok = snapshots.get("r-1:t-1")
		assert.False(t, ok, "an emptied cart is deleted")
	})
}

func TestRegistry_Sweep(t *testing.T) {
	clock := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	newRegistry := func(snapshots *memorySnapshots) *Registry {
		r := NewRegistry(snapshots, zap.NewNop(), WithIdleTimeout(10*time.Minute))
		r.now = func() time.Time { return clock }
		return r
	}

	t.Run("drops idle sessions and restores them on reopen", func(t *testing.T) {
		snapshots := newMemorySnapshots()
		r := newRegistry(snapshots)

		idle := openSession(t, r, "r-1:t-1")
		applyNow(t, idle.Store, cart.AddToCart{Product: plainProduct("P", 50), Quantity: 3})

		clock = clock.Add(6 * time.Minute)
		openSession(t, r, "r-1:t-2")

		clock = clock.Add(5 * time.Minute)
		assert.Equal(t, 1, r.Sweep())
		assert.Equal(t, 1, r.Len())
		_, ok := r.Lookup("r-1:t-1")
		assert.False(t, ok)

		back := openSession(t, r, "r-1:t-1")
		assert.NotSame(t, idle, back)
		assert.Equal(t, 3, cart.TotalItemCount(back.Store.Snapshot().Cart))
	})

	t.Run("use keeps a session open", func(t *testing.T) {
		r := newRegistry(newMemorySnapshots())
		s := openSession(t, r, "r-1:t-1")

		clock = clock.Add(9 * time.Minute)
		assert.Same(t, s, openSession(t, r, "r-1:t-1"))
		clock = clock.Add(9 * time.Minute)
		assert.Zero(t, r.Sweep())
	})

	t.Run("keeps sessions waiting on a prompt", func(t *testing.T) {
		r := newRegistry(newMemorySnapshots())
		s := openSession(t, r, "r-1:t-1")

		answered := make(chan bool, 1)
		go func() {
			ok, _ := s.Gate.Confirm(context.Background(), Prompt{Title: "Remove item"})
			answered <- ok
		}()
		p := waitPending(t, s.Gate)

		clock = clock.Add(time.Hour)
		assert.Zero(t, r.Sweep())

		require.NoError(t, s.Gate.Resolve(p.ID, true))
		assert.True(t, <-answered)
		assert.Equal(t, 1, r.Sweep())
	})
}
