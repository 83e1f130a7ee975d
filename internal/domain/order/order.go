// Package order holds orders placed from a table's cart at checkout.
package order

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mmenu/backend/internal/domain/cart"
	"github.com/mmenu/backend/internal/domain/menu"
	"github.com/mmenu/backend/internal/domain/shared"
	"github.com/mmenu/backend/internal/domain/shared/valueobject"
)

// Status is the lifecycle state of an order
type Status string

const (
	StatusPlaced    Status = "placed"
	StatusServed    Status = "served"
	StatusCancelled Status = "cancelled"
)

const (
	AggregateTypeOrder    = "Order"
	EventTypeOrderPlaced  = "order.placed"
	maxCustomerNameLength = 100
)

var (
	ErrEmptyCart     = shared.NewDomainError("EMPTY_CART", "Cannot check out an empty cart")
	ErrOrderNotFound = shared.NewDomainError("ORDER_NOT_FOUND", "Order not found")
	ErrLineNotFound  = shared.NewDomainError("ORDER_LINE_NOT_FOUND", "Order line not found")
)

// Line is a frozen copy of a cart line item at checkout time
type Line struct {
	ID          uuid.UUID             `json:"id"`
	ProductID   string                `json:"product_id"`
	ProductName string                `json:"product_name"`
	UnitPrice   valueobject.Money     `json:"unit_price"`
	Options     menu.SelectedToppings `json:"options"`
	Note        *string               `json:"note"`
	Quantity    int                   `json:"quantity"`
	Subtotal    valueobject.Money     `json:"subtotal"`
}

// Customer carries the optional guest details sent at checkout
type Customer struct {
	UserID            string
	UserName          string
	UserPhone         string
	Note              string
	NumberOfCustomers int
}

// Order is a checked-out cart
type Order struct {
	ID                uuid.UUID
	RestaurantID      string
	TableID           string
	UserID            string
	UserName          string
	UserPhone         string
	Note              string
	NumberOfCustomers int
	Lines             []Line
	Total             valueobject.Money
	Status            Status
	PlacedAt          time.Time
}

// Place freezes the cart's line items into a new order
func Place(restaurantID, tableID string, c cart.Cart, customer Customer) (*Order, error) {
	if c.IsEmpty() {
		return nil, ErrEmptyCart
	}
	if restaurantID == "" || tableID == "" {
		return nil, shared.NewDomainError(shared.ErrInvalidInput.Code, "restaurant and table are required")
	}
	if customer.NumberOfCustomers < 0 {
		return nil, shared.NewDomainError(shared.ErrInvalidInput.Code, "number of customers must not be negative")
	}
	name := strings.TrimSpace(customer.UserName)
	if len([]rune(name)) > maxCustomerNameLength {
		return nil, shared.NewDomainError(shared.ErrInvalidInput.Code,
			fmt.Sprintf("customer name must be at most %d characters", maxCustomerNameLength))
	}

	items := c.Items()
	lines := make([]Line, 0, len(items))
	for _, item := range items {
		lines = append(lines, Line{
			ID:          uuid.New(),
			ProductID:   item.ProductID(),
			ProductName: item.Product.Name,
			UnitPrice:   item.UnitPrice(),
			Options:     item.Options,
			Note:        item.Note,
			Quantity:    item.Quantity,
			Subtotal:    item.Subtotal(),
		})
	}

	return &Order{
		ID:                uuid.New(),
		RestaurantID:      restaurantID,
		TableID:           tableID,
		UserID:            customer.UserID,
		UserName:          name,
		UserPhone:         strings.TrimSpace(customer.UserPhone),
		Note:              customer.Note,
		NumberOfCustomers: customer.NumberOfCustomers,
		Lines:             lines,
		Total:             cart.TotalPrice(c),
		Status:            StatusPlaced,
		PlacedAt:          time.Now(),
	}, nil
}

// Line returns the order line with the given id
func (o *Order) Line(id uuid.UUID) (Line, error) {
	for _, l := range o.Lines {
		if l.ID == id {
			return l, nil
		}
	}
	return Line{}, shared.NewDomainError(ErrLineNotFound.Code, fmt.Sprintf("order line %s not found", id))
}

// ItemCount is the number of dishes ordered
func (o *Order) ItemCount() int {
	total := 0
	for _, l := range o.Lines {
		total += l.Quantity
	}
	return total
}

// PlacedEvent is raised once an order has been stored
type PlacedEvent struct {
	shared.BaseDomainEvent
	OrderID   uuid.UUID         `json:"order_id"`
	TableID   string            `json:"table_id"`
	ItemCount int               `json:"item_count"`
	Total     valueobject.Money `json:"total"`
}

// NewPlacedEvent builds the order.placed event
func NewPlacedEvent(o *Order) *PlacedEvent {
	return &PlacedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderPlaced, AggregateTypeOrder, o.ID.String(), o.RestaurantID),
		OrderID:         o.ID,
		TableID:         o.TableID,
		ItemCount:       o.ItemCount(),
		Total:           o.Total,
	}
}

// Repository persists orders
type Repository interface {
	Save(ctx context.Context, o *Order) error
	// FindByID returns ErrOrderNotFound when the order does not exist
	FindByID(ctx context.Context, restaurantID string, id uuid.UUID) (*Order, error)
	// FindByTable returns the table's orders, newest first
	FindByTable(ctx context.Context, restaurantID, tableID string) ([]Order, error)
}
