// Package cart models the guest's cart as an immutable snapshot of line items
// and the mutations that derive the next snapshot from the current one.
package cart

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/mmenu/backend/internal/domain/menu"
	"github.com/mmenu/backend/internal/domain/shared"
)

// Cart is an immutable, ordered sequence of line items. The zero value is an
// empty cart. Methods never modify the receiver.
type Cart struct {
	items []LineItem
}

// Restore rebuilds a cart from previously stored line items. Items must have
// an id, a product and a positive quantity, and ids must be unique.
func Restore(items []LineItem) (Cart, error) {
	seen := make(map[uuid.UUID]struct{}, len(items))
	out := make([]LineItem, 0, len(items))
	for _, item := range items {
		if item.ID == uuid.Nil || item.Product.ID == "" || item.Quantity <= 0 || item.Quantity > MaxLineQuantity {
			return Cart{}, shared.NewDomainError(ErrInvalidLineItem.Code,
				fmt.Sprintf("cart item %s is invalid", item.ID))
		}
		if len(out) > 0 && item.Product.Price.Currency() != out[0].Product.Price.Currency() {
			return Cart{}, shared.NewDomainError(ErrCurrencyMismatch.Code,
				fmt.Sprintf("cart item %s is priced in %s, the cart in %s",
					item.ID, item.Product.Price.Currency(), out[0].Product.Price.Currency()))
		}
		if _, dup := seen[item.ID]; dup {
			return Cart{}, shared.NewDomainError(ErrInvalidLineItem.Code,
				fmt.Sprintf("cart item %s appears twice", item.ID))
		}
		seen[item.ID] = struct{}{}
		out = append(out, item.clone())
	}
	return Cart{items: out}, nil
}

// Items returns a copy of the line items in cart order
func (c Cart) Items() []LineItem {
	out := make([]LineItem, len(c.items))
	for i, item := range c.items {
		out[i] = item.clone()
	}
	return out
}

// Len returns the number of line items
func (c Cart) Len() int {
	return len(c.items)
}

// IsEmpty reports whether the cart has no line items
func (c Cart) IsEmpty() bool {
	return len(c.items) == 0
}

// FindItem returns the line item with the given id
func (c Cart) FindItem(id uuid.UUID) (LineItem, bool) {
	if i := c.indexOf(id); i >= 0 {
		return c.items[i].clone(), true
	}
	return LineItem{}, false
}

// Match returns the line item configured exactly like the given product id,
// note and options. Notes compare by exact value, and a missing note only
// matches a missing note. Options compare structurally with
// menu.SelectedToppings.Equal.
func (c Cart) Match(productID string, note *string, options menu.SelectedToppings) (LineItem, bool) {
	if i := c.matchIndex(productID, note, options, uuid.Nil); i >= 0 {
		return c.items[i].clone(), true
	}
	return LineItem{}, false
}

// LastItemOf returns the most recently added line item of a product
func (c Cart) LastItemOf(productID string) (LineItem, bool) {
	for i := len(c.items) - 1; i >= 0; i-- {
		if c.items[i].Product.ID == productID {
			return c.items[i].clone(), true
		}
	}
	return LineItem{}, false
}

func (c Cart) matchIndex(productID string, note *string, options menu.SelectedToppings, skip uuid.UUID) int {
	for i, item := range c.items {
		if item.ID == skip {
			continue
		}
		if item.Product.ID == productID && notesEqual(item.Note, note) && item.Options.Equal(options) {
			return i
		}
	}
	return -1
}

func (c Cart) indexOf(id uuid.UUID) int {
	for i, item := range c.items {
		if item.ID == id {
			return i
		}
	}
	return -1
}

func (c Cart) withAppended(item LineItem) Cart {
	items := make([]LineItem, 0, len(c.items)+1)
	items = append(items, c.items...)
	return Cart{items: append(items, item)}
}

func (c Cart) withReplaced(i int, item LineItem) Cart {
	items := make([]LineItem, len(c.items))
	copy(items, c.items)
	items[i] = item
	return Cart{items: items}
}

func (c Cart) withRemoved(i int) Cart {
	items := make([]LineItem, 0, len(c.items)-1)
	items = append(items, c.items[:i]...)
	return Cart{items: append(items, c.items[i+1:]...)}
}
