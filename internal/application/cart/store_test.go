package cart

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/mmenu/backend/internal/domain/cart"
	"github.com/mmenu/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func applyNow(t *testing.T, s *Store, m cart.Mutation) Commit {
	t.Helper()
	p, err := s.Propose(m)
	require.NoError(t, err)
	c, err := p.Apply(true)
	require.NoError(t, err)
	return c
}

func TestStore_ProposeAndApply(t *testing.T) {
	s := NewStore(cart.Cart{})
	var seen []uint64
	s.Subscribe(func(snap Snapshot) { seen = append(seen, snap.Version) })

	p, err := s.Propose(cart.AddToCart{Product: plainProduct("P", 50), Quantity: 3})
	require.NoError(t, err)
	assert.False(t, p.NeedsConfirmation)
	assert.Equal(t, cart.ChangeAdded, p.Preview.Kind)
	assert.Equal(t, uint64(0), s.Snapshot().Version, "proposing must not publish")

	commit, err := p.Apply(false)
	require.NoError(t, err)
	assert.True(t, commit.Committed)
	assert.Equal(t, uint64(1), commit.Snapshot.Version)
	assert.Equal(t, 3, cart.TotalItemCount(s.Snapshot().Cart))
	assert.Equal(t, []uint64{1}, seen)

	_, err = p.Apply(false)
	assert.ErrorIs(t, err, ErrProposalApplied)
}

func TestStore_NoopKeepsSnapshot(t *testing.T) {
	s := NewStore(cart.Cart{})
	notified := 0
	s.Subscribe(func(Snapshot) { notified++ })

	commit := applyNow(t, s, cart.AddToCart{Product: plainProduct("P", 50), Quantity: 0})
	assert.False(t, commit.Committed)
	assert.Equal(t, uint64(0), s.Snapshot().Version)
	assert.Equal(t, 0, notified)
}

func TestStore_DeclinedRemovalLeavesCartUntouched(t *testing.T) {
	s := NewStore(cart.Cart{})
	p := plainProduct("P", 50)
	applyNow(t, s, cart.AddToCart{Product: p, Quantity: 3})
	before := s.Snapshot()

	proposal, err := s.Propose(cart.AddToCart{Product: p, Quantity: 0})
	require.NoError(t, err)
	require.True(t, proposal.NeedsConfirmation)

	// The guest declined: the proposal is dropped without applying.
	after := s.Snapshot()
	assert.Equal(t, before.Version, after.Version)
	assert.Equal(t, before.Cart.Items(), after.Cart.Items())

	_, err = proposal.Apply(false)
	assert.ErrorIs(t, err, shared.ErrConfirmationRequired)
	assert.Equal(t, before.Version, s.Snapshot().Version)
}

func TestStore_ApplyReadsLatestSnapshot(t *testing.T) {
	s := NewStore(cart.Cart{})
	p := plainProduct("P", 50)
	other := plainProduct("Q", 10)
	applyNow(t, s, cart.AddToCart{Product: p, Quantity: 3})

	removal, err := s.Propose(cart.AddToCart{Product: p, Quantity: 0})
	require.NoError(t, err)
	require.True(t, removal.NeedsConfirmation)

	// While the confirmation is pending another change lands.
	applyNow(t, s, cart.AddToCart{Product: other, Quantity: 2})

	commit, err := removal.Apply(true)
	require.NoError(t, err)
	assert.Equal(t, cart.ChangeRemoved, commit.Change.Kind)

	items := s.Snapshot().Cart.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "Q", items[0].ProductID())
	assert.Equal(t, uint64(3), s.Snapshot().Version)
}

func TestStore_ConfirmationNeededOnlyAtCommit(t *testing.T) {
	s := NewStore(cart.Cart{})
	p := plainProduct("P", 50)

	proposal, err := s.Propose(cart.AddToCart{Product: p, Quantity: 0})
	require.NoError(t, err)
	require.False(t, proposal.NeedsConfirmation)

	applyNow(t, s, cart.AddToCart{Product: p, Quantity: 1})

	_, err = proposal.Apply(false)
	assert.ErrorIs(t, err, shared.ErrConfirmationRequired)
	assert.Equal(t, 1, cart.TotalItemCount(s.Snapshot().Cart))
}

func TestStore_Take(t *testing.T) {
	s := NewStore(cart.Cart{})
	applyNow(t, s, cart.AddToCart{Product: plainProduct("P", 50), Quantity: 2})

	t.Run("failure keeps the cart", func(t *testing.T) {
		_, err := s.Take(func(cart.Cart) error { return errors.New("db down") })
		assert.Error(t, err)
		assert.Equal(t, 2, cart.TotalItemCount(s.Snapshot().Cart))
	})

	t.Run("success empties the cart", func(t *testing.T) {
		var got cart.Cart
		taken, err := s.Take(func(c cart.Cart) error {
			got = c
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 2, cart.TotalItemCount(got))
		assert.Equal(t, uint64(1), taken.Version)
		assert.True(t, s.Snapshot().Cart.IsEmpty())
		assert.Equal(t, uint64(2), s.Snapshot().Version)
	})

	t.Run("empty cart does not publish", func(t *testing.T) {
		_, err := s.Take(func(cart.Cart) error { return nil })
		require.NoError(t, err)
		assert.Equal(t, uint64(2), s.Snapshot().Version)
	})
}

func TestStore_ConcurrentAppendsAreNotLost(t *testing.T) {
	s := NewStore(cart.Cart{})
	p := plainProduct("P", 50)

	const workers = 50
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			proposal, err := s.Propose(cart.AddToCart{Product: p, Quantity: 1, Append: true})
			if err != nil {
				t.Error(err)
				return
			}
			if _, err := proposal.Apply(false); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()

	snap := s.Snapshot()
	assert.Equal(t, 1, snap.Cart.Len())
	assert.Equal(t, workers, cart.TotalItemCount(snap.Cart))
	assert.Equal(t, uint64(workers), snap.Version)
}

func TestStore_SlowListenerDoesNotBlockReadsOrCommits(t *testing.T) {
	s := NewStore(cart.Cart{})
	p := plainProduct("P", 50)

	entered := make(chan struct{})
	release := make(chan struct{})
	var (
		mu    sync.Mutex
		seen  []uint64
		reads []uint64
	)
	s.Subscribe(func(snap Snapshot) {
		if snap.Version == 1 {
			close(entered)
			<-release
		}
		read := s.Snapshot()
		mu.Lock()
		seen = append(seen, snap.Version)
		reads = append(reads, read.Version)
		mu.Unlock()
	})

	commit := func(done chan<- struct{}) {
		defer close(done)
		proposal, err := s.Propose(cart.AddToCart{Product: p, Quantity: 1, Append: true})
		if err != nil {
			t.Error(err)
			return
		}
		if _, err := proposal.Apply(false); err != nil {
			t.Error(err)
		}
	}

	firstDone := make(chan struct{})
	go commit(firstDone)
	<-entered

	secondDone := make(chan struct{})
	go commit(secondDone)
	select {
	case <-secondDone:
	case <-time.After(time.Second):
		t.Fatal("a commit waited on a listener of another commit")
	}

	readDone := make(chan Snapshot, 1)
	go func() { readDone <- s.Snapshot() }()
	select {
	case snap := <-readDone:
		assert.Equal(t, uint64(2), snap.Version)
		assert.Equal(t, 2, cart.TotalItemCount(snap.Cart))
	case <-time.After(time.Second):
		t.Fatal("a read waited on a listener")
	}

	close(release)
	select {
	case <-firstDone:
	case <-time.After(time.Second):
		t.Fatal("listener reading the store never finished")
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []uint64{1, 2}, seen, "snapshots are delivered once each, in version order")
	assert.Equal(t, []uint64{2, 2}, reads)
}

func TestStore_ListenerMayCommit(t *testing.T) {
	s := NewStore(cart.Cart{})
	p := plainProduct("P", 50)

	var seen []uint64
	s.Subscribe(func(snap Snapshot) {
		seen = append(seen, snap.Version)
		if snap.Version == 1 {
			applyNow(t, s, cart.AddToCart{Product: p, Quantity: 1, Append: true})
		}
	})

	applyNow(t, s, cart.AddToCart{Product: p, Quantity: 1})

	assert.Equal(t, []uint64{1, 2}, seen)
	assert.Equal(t, 2, cart.TotalItemCount(s.Snapshot().Cart))
}

func TestStore_Unsubscribe(t *testing.T) {
	s := NewStore(cart.Cart{})
	calls := 0
	unsubscribe := s.Subscribe(func(Snapshot) { calls++ })

	applyNow(t, s, cart.AddToCart{Product: plainProduct("P", 50), Quantity: 1})
	unsubscribe()
	applyNow(t, s, cart.AddToCart{Product: plainProduct("P", 50), Quantity: 2})

	assert.Equal(t, 1, calls)
}
