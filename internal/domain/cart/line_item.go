package cart

import (
	"github.com/google/uuid"
	"github.com/mmenu/backend/internal/domain/menu"
	"github.com/mmenu/backend/internal/domain/shared/valueobject"
)

// LineItem is one distinct cart entry: a product configured with a given
// topping selection and note, ordered Quantity times.
//
// Options and Note distinguish "not provided" (nil) from empty values.
type LineItem struct {
	ID       uuid.UUID             `json:"id"`
	Product  menu.Product          `json:"product"`
	Options  menu.SelectedToppings `json:"options"`
	Note     *string               `json:"note"`
	Quantity int                   `json:"quantity"`
}

// ProductID returns the id of the configured product
func (i LineItem) ProductID() string {
	return i.Product.ID
}

// UnitPrice is the product price plus its selected toppings
func (i LineItem) UnitPrice() valueobject.Money {
	return i.Product.UnitPrice(i.Options)
}

// Subtotal is the unit price times the quantity
func (i LineItem) Subtotal() valueobject.Money {
	return i.UnitPrice().MultiplyByInt(int64(i.Quantity))
}

// NoteText returns the note, or "" when absent
func (i LineItem) NoteText() string {
	if i.Note == nil {
		return ""
	}
	return *i.Note
}

func (i LineItem) clone() LineItem {
	i.Options = i.Options.Clone()
	i.Note = cloneNote(i.Note)
	return i
}

func cloneNote(n *string) *string {
	if n == nil {
		return nil
	}
	v := *n
	return &v
}

func notesEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
