package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/mmenu/backend/internal/domain/order"
	"github.com/mmenu/backend/internal/domain/shared/valueobject"
)

// CheckoutRequest carries the optional guest details sent at checkout
type CheckoutRequest struct {
	UserName          string `json:"user_name" binding:"omitempty,max=100"`
	UserPhone         string `json:"user_phone" binding:"omitempty,max=20"`
	Note              string `json:"note" binding:"omitempty,max=500"`
	NumberOfCustomers int    `json:"number_of_customers" binding:"omitempty,min=0,max=100"`
}

// ReorderRequest adds an earlier order line back to the cart.
// Quantity defaults to the line's original quantity.
type ReorderRequest struct {
	Quantity int `json:"quantity" binding:"omitempty,min=1,max=99"`
}

// OrderResponse is an order as shown in the order history
type OrderResponse struct {
	ID                uuid.UUID         `json:"id"`
	TableID           string            `json:"table_id"`
	UserName          string            `json:"user_name,omitempty"`
	Note              string            `json:"note,omitempty"`
	NumberOfCustomers int               `json:"number_of_customers,omitempty"`
	Status            order.Status      `json:"status"`
	Lines             []order.Line      `json:"lines"`
	ItemCount         int               `json:"item_count"`
	Total             valueobject.Money `json:"total"`
	PlacedAt          time.Time         `json:"placed_at"`
}

// ToOrderResponse converts a domain order
func ToOrderResponse(o *order.Order) OrderResponse {
	return OrderResponse{
		ID:                o.ID,
		TableID:           o.TableID,
		UserName:          o.UserName,
		Note:              o.Note,
		NumberOfCustomers: o.NumberOfCustomers,
		Status:            o.Status,
		Lines:             o.Lines,
		ItemCount:         o.ItemCount(),
		Total:             o.Total,
		PlacedAt:          o.PlacedAt,
	}
}
