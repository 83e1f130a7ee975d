package cart

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mmenu/backend/internal/domain/shared"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

var ErrNoPendingConfirmation = shared.NewDomainError("NO_PENDING_CONFIRMATION", "There is no pending confirmation with this id")

// Prompt is what the guest is asked to confirm
type Prompt struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// Confirmer asks the guest to confirm a destructive cart change.
// Confirm blocks until the guest answers. A cancelled context counts as a
// decline and is not an error.
type Confirmer interface {
	Confirm(ctx context.Context, p Prompt) (bool, error)
}

// StaticConfirmer answers every prompt with the same value
type StaticConfirmer bool

// Confirm implements Confirmer
func (c StaticConfirmer) Confirm(context.Context, Prompt) (bool, error) {
	return bool(c), nil
}

type pendingPrompt struct {
	prompt Prompt
	answer chan bool
}

// Gate is a Confirmer answered from outside: the prompt is published through
// Pending and answered with Resolve. One prompt is active at a time; further
// callers queue until the active one is answered or abandoned.
type Gate struct {
	turn   *semaphore.Weighted
	logger *zap.Logger

	mu      sync.Mutex
	pending *pendingPrompt
}

// NewGate creates an idle gate
func NewGate(logger *zap.Logger) *Gate {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gate{
		turn:   semaphore.NewWeighted(1),
		logger: logger,
	}
}

// Confirm implements Confirmer
func (g *Gate) Confirm(ctx context.Context, p Prompt) (bool, error) {
	if err := g.turn.Acquire(ctx, 1); err != nil {
		g.logger.Debug("confirmation abandoned while queued", zap.Error(err))
		return false, nil
	}
	defer g.turn.Release(1)

	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	pp := &pendingPrompt{prompt: p, answer: make(chan bool, 1)}

	g.mu.Lock()
	g.pending = pp
	g.mu.Unlock()

	defer func() {
		g.mu.Lock()
		if g.pending == pp {
			g.pending = nil
		}
		g.mu.Unlock()
	}()

	select {
	case ok := <-pp.answer:
		g.logger.Debug("confirmation answered",
			zap.String("prompt_id", p.ID.String()),
			zap.Bool("confirmed", ok),
		)
		return ok, nil
	case <-ctx.Done():
		g.mu.Lock()
		if g.pending != pp {
			// Resolve took the prompt and sent its answer under g.mu
			g.mu.Unlock()
			return <-pp.answer, nil
		}
		g.pending = nil
		g.mu.Unlock()

		g.logger.Info("confirmation abandoned, treating as declined",
			zap.String("prompt_id", p.ID.String()),
			zap.Error(ctx.Err()),
		)
		return false, nil
	}
}

// Pending returns the prompt currently waiting for an answer
func (g *Gate) Pending() (Prompt, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.pending == nil {
		return Prompt{}, false
	}
	return g.pending.prompt, true
}

// Resolve answers the pending prompt. Each prompt is answered at most once;
// later calls and unknown ids fail with ErrNoPendingConfirmation. A nil error
// means the waiting Confirm returns this answer, even if its context ends at
// the same moment.
func (g *Gate) Resolve(id uuid.UUID, confirmed bool) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	pp := g.pending
	if pp == nil || pp.prompt.ID != id {
		return ErrNoPendingConfirmation
	}
	g.pending = nil
	// buffered, never blocks
	pp.answer <- confirmed
	return nil
}
