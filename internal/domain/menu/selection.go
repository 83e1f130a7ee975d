package menu

import (
	"fmt"
	"maps"
	"slices"

	"github.com/mmenu/backend/internal/domain/shared"
)

// SelectedToppings maps a topping group id to the selected item ids and
// their quantities. Items without a quantity control are selected with
// quantity 1.
//
// A nil SelectedToppings means "no selection made" and is distinct from an
// empty, non-nil one.
type SelectedToppings map[string]map[string]int

// Equal reports whether both selections hold the same groups, and within each
// group the same items with the same quantities. Keys are compared in sorted
// order so map iteration order never matters. Two nil selections are equal; a
// nil selection never equals a non-nil one.
func (s SelectedToppings) Equal(other SelectedToppings) bool {
	if s == nil || other == nil {
		return s == nil && other == nil
	}
	groups := slices.Sorted(maps.Keys(s))
	if !slices.Equal(groups, slices.Sorted(maps.Keys(other))) {
		return false
	}
	for _, g := range groups {
		a, b := s[g], other[g]
		items := slices.Sorted(maps.Keys(a))
		if !slices.Equal(items, slices.Sorted(maps.Keys(b))) {
			return false
		}
		for _, id := range items {
			if a[id] != b[id] {
				return false
			}
		}
	}
	return true
}

// Clone returns a deep copy, preserving nil
func (s SelectedToppings) Clone() SelectedToppings {
	if s == nil {
		return nil
	}
	out := make(SelectedToppings, len(s))
	for g, items := range s {
		out[g] = maps.Clone(items)
		if out[g] == nil {
			out[g] = map[string]int{}
		}
	}
	return out
}

// Normalize drops zero-quantity items and groups left empty. Nil stays nil.
func (s SelectedToppings) Normalize() SelectedToppings {
	if s == nil {
		return nil
	}
	out := make(SelectedToppings, len(s))
	for g, items := range s {
		kept := make(map[string]int, len(items))
		for id, qty := range items {
			if qty != 0 {
				kept[id] = qty
			}
		}
		if len(kept) > 0 {
			out[g] = kept
		}
	}
	return out
}

// ValidateSelection checks a selection against the product's topping groups
// and returns its normalized form. A nil selection is returned unchanged.
func (p Product) ValidateSelection(sel SelectedToppings) (SelectedToppings, error) {
	if sel == nil {
		return nil, nil
	}
	for _, items := range sel {
		for itemID, qty := range items {
			if qty < 0 {
				return nil, invalidSelection("topping %s has negative quantity %d", itemID, qty)
			}
		}
	}

	normalized := sel.Normalize()
	for groupID, items := range normalized {
		group, ok := p.ToppingGroup(groupID)
		if !ok {
			return nil, shared.NewDomainError(ErrToppingNotFound.Code,
				fmt.Sprintf("topping group %s not found on product %s", groupID, p.ID))
		}

		total := 0
		for itemID, qty := range items {
			item, ok := group.Item(itemID)
			if !ok {
				return nil, shared.NewDomainError(ErrToppingNotFound.Code,
					fmt.Sprintf("topping %s not found in group %s", itemID, groupID))
			}
			if item.Price.Currency() != p.Price.Currency() {
				return nil, invalidSelection("topping %s is priced in %s, the product in %s",
					item.Name, item.Price.Currency(), p.Price.Currency())
			}
			if !group.HasQuantity && qty != 1 {
				return nil, invalidSelection("topping %s in group %s cannot have quantity %d", itemID, group.Name, qty)
			}
			total += qty
		}

		if !group.IsMultipleSelected && len(items) > 1 {
			return nil, invalidSelection("group %s allows a single topping", group.Name)
		}
		if group.HasQuantity && group.LimitQuantity > 0 && total > group.LimitQuantity {
			return nil, invalidSelection("group %s allows at most %d toppings", group.Name, group.LimitQuantity)
		}
	}

	for _, group := range p.ToppingGroups {
		if group.IsRequired && len(normalized[group.ID]) == 0 {
			return nil, invalidSelection("group %s requires a selection", group.Name)
		}
	}
	return normalized, nil
}

func invalidSelection(format string, args ...any) error {
	return shared.NewDomainError(ErrInvalidSelection.Code, fmt.Sprintf(format, args...))
}
