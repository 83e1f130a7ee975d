package cart

import (
	"github.com/google/uuid"
	"github.com/mmenu/backend/internal/domain/cart"
	"github.com/mmenu/backend/internal/domain/menu"
	"github.com/mmenu/backend/internal/domain/shared/valueobject"
)

// TableSession identifies the guest and the table whose cart is used
type TableSession struct {
	RestaurantID string
	TableID      string
	UserID       string
	UserName     string
}

// Key is the cart key shared by every guest at the table
func (s TableSession) Key() string {
	return s.RestaurantID + ":" + s.TableID
}

// AddToCartRequest adds a configured product to the cart
type AddToCartRequest struct {
	ProductID string                `json:"product_id" binding:"required,max=64"`
	Quantity  *int                  `json:"quantity" binding:"required,min=0,max=999"`
	Options   menu.SelectedToppings `json:"options"`
	Note      *string               `json:"note" binding:"omitempty,max=500"`
	Append    bool                  `json:"append"`
	// Confirm pre-approves a removal instead of waiting on the gate
	Confirm bool `json:"confirm"`
}

// UpdateCartItemRequest edits a line item by id
type UpdateCartItemRequest struct {
	Quantity *int                  `json:"quantity" binding:"required,min=0,max=999"`
	Options  menu.SelectedToppings `json:"options"`
	Note     *string               `json:"note" binding:"omitempty,max=500"`
	Confirm  bool                  `json:"confirm"`
}

// ResolveConfirmationRequest answers the pending prompt
type ResolveConfirmationRequest struct {
	PromptID  uuid.UUID `json:"prompt_id" binding:"required"`
	Confirmed bool      `json:"confirmed"`
}

// LineItemResponse is a line item with its derived prices
type LineItemResponse struct {
	ID          uuid.UUID             `json:"id"`
	ProductID   string                `json:"product_id"`
	ProductName string                `json:"product_name"`
	CategoryID  string                `json:"category_id"`
	ImageURL    string                `json:"image_url,omitempty"`
	Options     menu.SelectedToppings `json:"options"`
	Note        *string               `json:"note"`
	Quantity    int                   `json:"quantity"`
	UnitPrice   valueobject.Money     `json:"unit_price"`
	Subtotal    valueobject.Money     `json:"subtotal"`
}

// CartResponse is a cart snapshot with everything derived from it
type CartResponse struct {
	Version            uint64             `json:"version"`
	Items              []LineItemResponse `json:"items"`
	TotalItemCount     int                `json:"total_item_count"`
	TotalPrice         valueobject.Money  `json:"total_price"`
	QuantityByProduct  map[string]int     `json:"quantity_by_product"`
	QuantityByCategory map[string]int     `json:"quantity_by_category"`
}

// NavigationResponse tells the client to open the product detail view
type NavigationResponse struct {
	View       string     `json:"view"`
	ProductID  string     `json:"product_id"`
	EditItemID *uuid.UUID `json:"edit_item_id,omitempty"`
}

// MutationResult reports what an add or update did
type MutationResult struct {
	Change     cart.ChangeKind     `json:"change"`
	Declined   bool                `json:"declined"`
	ItemID     *uuid.UUID          `json:"item_id,omitempty"`
	Navigation *NavigationResponse `json:"navigation,omitempty"`
	Cart       CartResponse        `json:"cart"`
}

// ViewProductDetail is the navigation target for products configured on
// their detail page
const ViewProductDetail = "product_detail"

// ToCartResponse derives the response for a snapshot
func ToCartResponse(snap Snapshot) CartResponse {
	items := snap.Cart.Items()
	resp := CartResponse{
		Version:            snap.Version,
		Items:              make([]LineItemResponse, 0, len(items)),
		TotalItemCount:     cart.TotalItemCount(snap.Cart),
		TotalPrice:         cart.TotalPrice(snap.Cart),
		QuantityByProduct:  cart.QuantityByProduct(snap.Cart),
		QuantityByCategory: cart.QuantityByCategory(snap.Cart),
	}
	for _, item := range items {
		resp.Items = append(resp.Items, LineItemResponse{
			ID:          item.ID,
			ProductID:   item.ProductID(),
			ProductName: item.Product.Name,
			CategoryID:  item.Product.CategoryID,
			ImageURL:    item.Product.ImageURL,
			Options:     item.Options,
			Note:        item.Note,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice(),
			Subtotal:    item.Subtotal(),
		})
	}
	return resp
}
