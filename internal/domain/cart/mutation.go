package cart

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/mmenu/backend/internal/domain/menu"
	"github.com/mmenu/backend/internal/domain/shared"
)

// ChangeKind describes what a mutation did to the cart
type ChangeKind string

const (
	ChangeNone    ChangeKind = "none"
	ChangeAdded   ChangeKind = "added"
	ChangeUpdated ChangeKind = "updated"
	ChangeRemoved ChangeKind = "removed"
)

// Change is the effect of a planned mutation on a single line item.
// For removals Item is the removed entry. Absorbed is set when an update made
// the item identical to another entry and the two were merged.
type Change struct {
	Kind             ChangeKind
	Item             LineItem
	PreviousQuantity int
	Absorbed         *LineItem
}

// Plan is the outcome of evaluating a mutation against one cart snapshot
type Plan struct {
	Change            Change
	NeedsConfirmation bool
	Result            Cart
}

// IsNoop reports whether applying the plan leaves the cart unchanged
func (p Plan) IsNoop() bool {
	return p.Change.Kind == ChangeNone
}

// Mutation computes the next cart from a snapshot without side effects.
// Plans that remove a line item report NeedsConfirmation.
type Mutation interface {
	Plan(c Cart) (Plan, error)
}

func noop(c Cart) Plan {
	return Plan{Change: Change{Kind: ChangeNone}, Result: c}
}

// AddToCart adds a configured product to the cart, merging with the entry
// that has the same product, note and options.
//
// With Append the quantity is added to the matched entry, otherwise it
// replaces the matched quantity. A zero quantity removes the matched entry.
type AddToCart struct {
	Product  menu.Product
	Quantity int
	Options  menu.SelectedToppings
	Note     *string
	Append   bool
}

// Plan implements Mutation
func (m AddToCart) Plan(c Cart) (Plan, error) {
	if m.Product.ID == "" {
		return Plan{}, ErrMissingProduct
	}
	if m.Quantity < 0 || m.Quantity > MaxLineQuantity {
		return Plan{}, invalidQuantity(m.Quantity)
	}
	options, err := m.Product.ValidateSelection(m.Options)
	if err != nil {
		return Plan{}, err
	}
	if err := checkCurrency(c, m.Product); err != nil {
		return Plan{}, err
	}

	idx := c.matchIndex(m.Product.ID, m.Note, options, uuid.Nil)
	switch {
	case idx >= 0 && m.Quantity > 0:
		item := c.items[idx].clone()
		prev := item.Quantity
		if m.Append {
			if prev > MaxLineQuantity-m.Quantity {
				return Plan{}, quantityExceeded(prev, m.Quantity)
			}
			item.Quantity += m.Quantity
		} else {
			item.Quantity = m.Quantity
		}
		if item.Quantity == prev {
			return noop(c), nil
		}
		if err := checkAvailable(item.Product, prev, item.Quantity); err != nil {
			return Plan{}, err
		}
		return Plan{
			Change: Change{Kind: ChangeUpdated, Item: item, PreviousQuantity: prev},
			Result: c.withReplaced(idx, item),
		}, nil

	case idx >= 0:
		removed := c.items[idx].clone()
		return Plan{
			Change:            Change{Kind: ChangeRemoved, Item: removed, PreviousQuantity: removed.Quantity},
			NeedsConfirmation: true,
			Result:            c.withRemoved(idx),
		}, nil

	case m.Quantity > 0:
		if err := checkAvailable(m.Product, 0, m.Quantity); err != nil {
			return Plan{}, err
		}
		item := LineItem{
			ID:       uuid.New(),
			Product:  m.Product,
			Options:  options.Clone(),
			Note:     cloneNote(m.Note),
			Quantity: m.Quantity,
		}
		return Plan{
			Change: Change{Kind: ChangeAdded, Item: item.clone()},
			Result: c.withAppended(item),
		}, nil
	}
	return noop(c), nil
}

// UpdateCartItem changes the line item with the given id. Options and Note
// replace the stored values only when non-nil. A zero quantity removes the
// item.
type UpdateCartItem struct {
	ItemID   uuid.UUID
	Quantity int
	Options  menu.SelectedToppings
	Note     *string
}

// Plan implements Mutation
func (m UpdateCartItem) Plan(c Cart) (Plan, error) {
	if m.Quantity < 0 || m.Quantity > MaxLineQuantity {
		return Plan{}, invalidQuantity(m.Quantity)
	}
	idx := c.indexOf(m.ItemID)
	if idx < 0 {
		return Plan{}, shared.NewDomainError(ErrLineItemNotFound.Code,
			fmt.Sprintf("cart item %s not found", m.ItemID))
	}
	current := c.items[idx]

	if m.Quantity == 0 {
		removed := current.clone()
		return Plan{
			Change:            Change{Kind: ChangeRemoved, Item: removed, PreviousQuantity: removed.Quantity},
			NeedsConfirmation: true,
			Result:            c.withRemoved(idx),
		}, nil
	}

	item := current.clone()
	if m.Options != nil {
		options, err := item.Product.ValidateSelection(m.Options)
		if err != nil {
			return Plan{}, err
		}
		item.Options = options
	}
	if m.Note != nil {
		item.Note = cloneNote(m.Note)
	}
	item.Quantity = m.Quantity

	if item.Quantity == current.Quantity && notesEqual(item.Note, current.Note) && item.Options.Equal(current.Options) {
		return noop(c), nil
	}
	if err := checkAvailable(item.Product, current.Quantity, item.Quantity); err != nil {
		return Plan{}, err
	}

	// An edit that makes the item identical to another entry folds that
	// entry into this one.
	if other := c.matchIndex(item.Product.ID, item.Note, item.Options, item.ID); other >= 0 {
		absorbed := c.items[other].clone()
		if item.Quantity > MaxLineQuantity-absorbed.Quantity {
			return Plan{}, quantityExceeded(item.Quantity, absorbed.Quantity)
		}
		item.Quantity += absorbed.Quantity
		next := c.withReplaced(idx, item).withRemoved(other)
		return Plan{
			Change: Change{Kind: ChangeUpdated, Item: item, PreviousQuantity: current.Quantity, Absorbed: &absorbed},
			Result: next,
		}, nil
	}

	return Plan{
		Change: Change{Kind: ChangeUpdated, Item: item, PreviousQuantity: current.Quantity},
		Result: c.withReplaced(idx, item),
	}, nil
}

// checkAvailable rejects increasing the quantity of an unavailable product.
// Lowering it stays allowed so guests can clean up their cart.
func checkAvailable(p menu.Product, prev, next int) error {
	if next > prev && !p.IsAvailable() {
		return shared.NewDomainError(menu.ErrProductUnavailable.Code,
			fmt.Sprintf("product %s is currently unavailable", p.Name))
	}
	return nil
}

// checkCurrency rejects a product priced in another currency than the items
// already in the cart, so totals can always be summed.
func checkCurrency(c Cart, p menu.Product) error {
	if len(c.items) == 0 {
		return nil
	}
	want := c.items[0].Product.Price.Currency()
	if got := p.Price.Currency(); got != want {
		return shared.NewDomainError(ErrCurrencyMismatch.Code,
			fmt.Sprintf("product %s is priced in %s, the cart in %s", p.Name, got, want))
	}
	return nil
}

func invalidQuantity(q int) error {
	return shared.NewDomainError(ErrInvalidQuantity.Code,
		fmt.Sprintf("quantity must be between 0 and %d, got %d", MaxLineQuantity, q))
}

func quantityExceeded(current, added int) error {
	return shared.NewDomainError(ErrInvalidQuantity.Code,
		fmt.Sprintf("a cart item holds at most %d, cannot add %d to %d", MaxLineQuantity, added, current))
}
