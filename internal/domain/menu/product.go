// Package menu holds the restaurant menu reference data: products, their
// topping groups, and the topping selections a guest can make.
package menu

import (
	"context"

	"github.com/mmenu/backend/internal/domain/shared"
	"github.com/mmenu/backend/internal/domain/shared/valueobject"
)

// DishType classifies a product on the menu
type DishType string

const (
	DishTypeFood  DishType = "food"
	DishTypeDrink DishType = "drink"
	DishTypeCombo DishType = "combo"
	DishTypeOther DishType = "other"
)

// IsValid reports whether the dish type is known
func (t DishType) IsValid() bool {
	switch t {
	case DishTypeFood, DishTypeDrink, DishTypeCombo, DishTypeOther:
		return true
	}
	return false
}

// ProductStatus is the availability of a product
type ProductStatus string

const (
	ProductStatusAvailable   ProductStatus = "available"
	ProductStatusUnavailable ProductStatus = "unavailable"
)

// DisplaySize controls how a product card is rendered in the listing
type DisplaySize string

const (
	DisplaySizeNormal DisplaySize = "normal"
	DisplaySizeLarge  DisplaySize = "large"
)

var (
	ErrProductNotFound    = shared.NewDomainError("PRODUCT_NOT_FOUND", "Product not found")
	ErrToppingNotFound    = shared.NewDomainError("TOPPING_NOT_FOUND", "Topping not found")
	ErrInvalidSelection   = shared.NewDomainError("INVALID_TOPPING_SELECTION", "Invalid topping selection")
	ErrProductUnavailable = shared.NewDomainError("PRODUCT_UNAVAILABLE", "Product is currently unavailable")
)

// Product is an immutable menu entry fetched from the menu collaborator.
type Product struct {
	ID            string            `json:"id"`
	RestaurantID  string            `json:"restaurant_id"`
	CategoryID    string            `json:"category_id"`
	Name          string            `json:"name"`
	Description   string            `json:"description,omitempty"`
	Price         valueobject.Money `json:"price"`
	ImageURL      string            `json:"image_url,omitempty"`
	DishType      DishType          `json:"dish_type"`
	Status        ProductStatus     `json:"status"`
	IsDishGroup   bool              `json:"is_dish_group"`
	HasTopping    bool              `json:"has_topping"`
	IsNewDish     bool              `json:"is_new_dish"`
	DisplaySize   DisplaySize       `json:"display_size"`
	ToppingGroups []ToppingGroup    `json:"topping_groups,omitempty"`
}

// IsAvailable reports whether the product can be ordered
func (p Product) IsAvailable() bool {
	return p.Status != ProductStatusUnavailable
}

// IsToppable reports whether adding the product needs a topping selection
// made on the detail view
func (p Product) IsToppable() bool {
	return p.HasTopping || len(p.ToppingGroups) > 0
}

// ToppingGroup returns the topping group with the given id
func (p Product) ToppingGroup(id string) (ToppingGroup, bool) {
	for _, g := range p.ToppingGroups {
		if g.ID == id {
			return g, true
		}
	}
	return ToppingGroup{}, false
}

// ToppingPrice returns the price of one unit's worth of selected toppings.
// Selections referencing unknown groups or items contribute nothing; callers
// validate selections with ValidateSelection before storing them.
func (p Product) ToppingPrice(sel SelectedToppings) valueobject.Money {
	total := valueobject.Zero(p.Price.Currency())
	for groupID, items := range sel {
		group, ok := p.ToppingGroup(groupID)
		if !ok {
			continue
		}
		for itemID, qty := range items {
			item, ok := group.Item(itemID)
			if !ok {
				continue
			}
			total = total.MustAdd(item.Price.MultiplyByInt(int64(qty)))
		}
	}
	return total
}

// UnitPrice is the product price plus the selected toppings
func (p Product) UnitPrice(sel SelectedToppings) valueobject.Money {
	return p.Price.MustAdd(p.ToppingPrice(sel))
}

// DefaultSelection seeds a topping selection from the items flagged as
// default. Returns nil when the product has no default items.
func (p Product) DefaultSelection() SelectedToppings {
	var sel SelectedToppings
	for _, g := range p.ToppingGroups {
		for _, item := range g.Items {
			if !item.IsDefault {
				continue
			}
			if sel == nil {
				sel = SelectedToppings{}
			}
			if sel[g.ID] == nil {
				sel[g.ID] = map[string]int{}
			}
			sel[g.ID][item.ID] = 1
			if !g.IsMultipleSelected {
				break
			}
		}
	}
	return sel
}

// Category groups products in the menu listing
type Category struct {
	ID           string    `json:"id"`
	RestaurantID string    `json:"restaurant_id"`
	Name         string    `json:"name"`
	Sort         int       `json:"sort"`
	Products     []Product `json:"products"`
}

// ProductIDs returns the ids of the category's products
func (c Category) ProductIDs() []string {
	ids := make([]string, 0, len(c.Products))
	for _, p := range c.Products {
		ids = append(ids, p.ID)
	}
	return ids
}

// BuildMenu prepares categories for the listing view. Combo dishes are hidden,
// products are optionally restricted to one dish type, and categories left
// without products are dropped. The input is not modified.
func BuildMenu(categories []Category, dishType DishType) []Category {
	result := make([]Category, 0, len(categories))
	for _, c := range categories {
		products := make([]Product, 0, len(c.Products))
		for _, p := range c.Products {
			if p.DishType == DishTypeCombo {
				continue
			}
			if dishType != "" && p.DishType != dishType {
				continue
			}
			products = append(products, p)
		}
		if len(products) == 0 {
			continue
		}
		c.Products = products
		result = append(result, c)
	}
	return result
}

// ProductRepository reads menu reference data
type ProductRepository interface {
	// FindByID returns ErrProductNotFound when the product does not exist
	FindByID(ctx context.Context, restaurantID, productID string) (*Product, error)
	// FindCategories returns the restaurant's categories ordered by sort,
	// with products and their topping groups loaded
	FindCategories(ctx context.Context, restaurantID string) ([]Category, error)
	// FindProducts returns every product of the restaurant
	FindProducts(ctx context.Context, restaurantID string) ([]Product, error)
}
