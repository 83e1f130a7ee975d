package cart

import "context"

// SnapshotRepository keeps the latest cart of a table session between
// process restarts. Writes are best effort. A failed load is reported to the
// caller and never replaced with an empty cart.
type SnapshotRepository interface {
	// Load returns the stored cart, or an empty cart when none is stored
	Load(ctx context.Context, key string) (Cart, error)
	Save(ctx context.Context, key string, c Cart) error
	Delete(ctx context.Context, key string) error
}
