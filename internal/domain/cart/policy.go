package cart

import (
	"github.com/google/uuid"
	"github.com/mmenu/backend/internal/domain/menu"
)

// DecisionKind tells the caller how to handle an add-to-cart intent
type DecisionKind string

const (
	// DecisionMutate runs the intent through the cart mutation path
	DecisionMutate DecisionKind = "mutate"
	// DecisionViewDetail redirects the guest to the product detail view
	DecisionViewDetail DecisionKind = "view_detail"
)

// Decision is the product policy outcome for an add-to-cart intent.
// EditItemID is set when the detail view should open an existing entry.
type Decision struct {
	Kind       DecisionKind
	ProductID  string
	EditItemID *uuid.UUID
}

// Decide applies the product policy before any matching happens.
//
// Dish groups are always configured on the detail view. Products with
// toppings are too when the intent carries no topping selection, which is the
// case for quantity buttons on the listing; if the product is already in the
// cart the detail view opens its latest entry for editing.
func Decide(c Cart, p menu.Product, options menu.SelectedToppings) Decision {
	switch {
	case p.IsDishGroup:
		return Decision{Kind: DecisionViewDetail, ProductID: p.ID}
	case p.IsToppable() && options == nil:
		d := Decision{Kind: DecisionViewDetail, ProductID: p.ID}
		if item, ok := c.LastItemOf(p.ID); ok {
			id := item.ID
			d.EditItemID = &id
		}
		return d
	}
	return Decision{Kind: DecisionMutate, ProductID: p.ID}
}
