package menu

import "github.com/mmenu/backend/internal/domain/shared/valueobject"

// ToppingItem is one add-on inside a topping group
type ToppingItem struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Price     valueobject.Money `json:"price"`
	IsDefault bool              `json:"is_default"`
}

// ToppingGroup is a named set of add-ons attachable to a product
type ToppingGroup struct {
	ID                 string        `json:"id"`
	Name               string        `json:"name"`
	Items              []ToppingItem `json:"items"`
	IsRequired         bool          `json:"is_required"`
	IsMultipleSelected bool          `json:"is_multiple_selected"`
	HasQuantity        bool          `json:"has_quantity"`
	LimitQuantity      int           `json:"limit_quantity"`
}

// Item returns the topping item with the given id
func (g ToppingGroup) Item(id string) (ToppingItem, bool) {
	for _, item := range g.Items {
		if item.ID == id {
			return item, true
		}
	}
	return ToppingItem{}, false
}
