// Package cache stores cart snapshots between requests so a table's cart
// survives process restarts.
package cache

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/mmenu/backend/internal/domain/cart"
)

const snapshotVersion = 1

// snapshotDocument is the stored form of a cart
type snapshotDocument struct {
	Version int             `json:"v"`
	SavedAt time.Time       `json:"saved_at"`
	Items   []cart.LineItem `json:"items"`
}

func encodeSnapshot(c cart.Cart, now time.Time) ([]byte, error) {
	data, err := json.Marshal(snapshotDocument{Version: snapshotVersion, SavedAt: now.UTC(), Items: c.Items()})
	if err != nil {
		return nil, fmt.Errorf("encode cart snapshot: %w", err)
	}
	return data, nil
}

func decodeSnapshot(data []byte) (cart.Cart, error) {
	var doc snapshotDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return cart.Cart{}, fmt.Errorf("decode cart snapshot: %w", err)
	}
	if doc.Version != snapshotVersion {
		return cart.Cart{}, fmt.Errorf("unsupported cart snapshot version %d", doc.Version)
	}
	return cart.Restore(doc.Items)
}
