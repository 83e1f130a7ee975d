// Package cart implements the cart use cases of a table session: the state
// container holding the current cart, the two-phase mutation flow with its
// confirmation gate, and the service exposed to the HTTP layer.
package cart

import (
	"sync"
	"sync/atomic"

	"github.com/mmenu/backend/internal/domain/cart"
	"github.com/mmenu/backend/internal/domain/shared"
)

// Snapshot is one published state of a Store. Version increases by one on
// every committed change and never moves on no-ops.
type Snapshot struct {
	Cart    cart.Cart
	Version uint64
}

// Listener receives every published snapshot, in version order. Listeners
// run without the store lock held, so they may read the store. A snapshot
// may be delivered after the Apply that produced it has returned, by the
// goroutine already notifying.
type Listener func(Snapshot)

var ErrProposalApplied = shared.NewDomainError("PROPOSAL_APPLIED", "Cart change was already applied")

// Store owns the cart of one session. Reads return the latest snapshot;
// writes go through Propose and Proposal.Apply so a confirmation can happen
// between planning and committing.
type Store struct {
	mu      sync.Mutex
	current Snapshot
	// outbox holds published snapshots not yet delivered; notifying is set
	// while one goroutine drains it
	outbox    []Snapshot
	notifying bool

	listenersMu  sync.RWMutex
	listeners    map[uint64]Listener
	nextListener uint64
}

// NewStore creates a store holding initial as version 0
func NewStore(initial cart.Cart) *Store {
	return &Store{
		current:   Snapshot{Cart: initial},
		listeners: make(map[uint64]Listener),
	}
}

// Snapshot returns the current snapshot
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Subscribe registers a listener and returns a function removing it
func (s *Store) Subscribe(l Listener) (unsubscribe func()) {
	s.listenersMu.Lock()
	id := s.nextListener
	s.nextListener++
	s.listeners[id] = l
	s.listenersMu.Unlock()

	return func() {
		s.listenersMu.Lock()
		delete(s.listeners, id)
		s.listenersMu.Unlock()
	}
}

// Propose plans m against the current snapshot. Nothing changes until the
// returned proposal is applied.
func (s *Store) Propose(m cart.Mutation) (*Proposal, error) {
	snap := s.Snapshot()
	plan, err := m.Plan(snap.Cart)
	if err != nil {
		return nil, err
	}
	return &Proposal{
		NeedsConfirmation: plan.NeedsConfirmation,
		Preview:           plan.Change,
		store:             s,
		mutation:          m,
	}, nil
}

// Take hands the current cart to fn and, when fn succeeds, empties the cart
// in the same critical section. Used by checkout so no change slips in
// between reading the cart and clearing it.
func (s *Store) Take(fn func(cart.Cart) error) (Snapshot, error) {
	s.mu.Lock()
	if err := fn(s.current.Cart); err != nil {
		s.mu.Unlock()
		return Snapshot{}, err
	}
	taken := s.current
	if !taken.Cart.IsEmpty() {
		s.publishLocked(cart.Cart{})
	} else {
		s.mu.Unlock()
	}
	return taken, nil
}

// commit re-plans against the latest snapshot and publishes the result.
func (s *Store) commit(m cart.Mutation, confirmed bool) (Commit, error) {
	s.mu.Lock()
	plan, err := m.Plan(s.current.Cart)
	if err != nil {
		s.mu.Unlock()
		return Commit{}, err
	}
	if plan.NeedsConfirmation && !confirmed {
		s.mu.Unlock()
		return Commit{}, shared.ErrConfirmationRequired
	}
	if plan.IsNoop() {
		snap := s.current
		s.mu.Unlock()
		return Commit{Snapshot: snap, Change: plan.Change}, nil
	}
	snap := s.publishLocked(plan.Result)
	return Commit{Snapshot: snap, Change: plan.Change, Committed: true}, nil
}

// publishLocked installs next as the new snapshot, releases s.mu and
// delivers it. Must be called with s.mu held.
//
// Snapshots are queued in version order. The first committer to find no
// delivery in progress drains the queue, with s.mu released while listeners
// run; later committers only enqueue and return.
func (s *Store) publishLocked(next cart.Cart) Snapshot {
	s.current = Snapshot{Cart: next, Version: s.current.Version + 1}
	snap := s.current
	s.outbox = append(s.outbox, snap)
	if s.notifying {
		s.mu.Unlock()
		return snap
	}
	s.notifying = true
	for len(s.outbox) > 0 {
		batch := s.outbox
		s.outbox = nil
		s.mu.Unlock()
		for _, queued := range batch {
			s.notify(queued)
		}
		s.mu.Lock()
	}
	s.notifying = false
	s.mu.Unlock()
	return snap
}

func (s *Store) notify(snap Snapshot) {
	s.listenersMu.RLock()
	listeners := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.listenersMu.RUnlock()

	for _, l := range listeners {
		l(snap)
	}
}

// Proposal is the first phase of a cart mutation
type Proposal struct {
	// NeedsConfirmation is set when applying would remove a line item
	NeedsConfirmation bool
	// Preview is the change as planned against the snapshot at proposal time
	Preview cart.Change

	store    *Store
	mutation cart.Mutation
	applied  atomic.Bool
}

// Commit is the result of applying a proposal
type Commit struct {
	Snapshot  Snapshot
	Change    cart.Change
	Committed bool
}

// Apply commits the mutation against the latest snapshot. The plan is
// recomputed, so changes made while a confirmation was pending are kept.
// It fails with shared.ErrConfirmationRequired when the recomputed plan
// removes a line item and confirmed is false. A proposal applies once.
func (p *Proposal) Apply(confirmed bool) (Commit, error) {
	if !p.applied.CompareAndSwap(false, true) {
		return Commit{}, ErrProposalApplied
	}
	c, err := p.store.commit(p.mutation, confirmed)
	if err != nil {
		p.applied.Store(false)
	}
	return c, err
}
