package cart

import (
	"github.com/google/uuid"
	"github.com/mmenu/backend/internal/domain/shared"
	"github.com/mmenu/backend/internal/domain/shared/valueobject"
)

// AggregateTypeCart is the aggregate type carried by cart events
const AggregateTypeCart = "Cart"

// Event types
const (
	EventTypeLineItemAdded           = "cart.line_item_added"
	EventTypeLineItemQuantityChanged = "cart.line_item_quantity_changed"
	EventTypeLineItemRemoved         = "cart.line_item_removed"
)

// LineItemAddedEvent is raised when a new line item enters the cart
type LineItemAddedEvent struct {
	shared.BaseDomainEvent
	ItemID    uuid.UUID         `json:"item_id"`
	ProductID string            `json:"product_id"`
	Quantity  int               `json:"quantity"`
	Subtotal  valueobject.Money `json:"subtotal"`
}

// LineItemQuantityChangedEvent is raised when a line item is edited
type LineItemQuantityChangedEvent struct {
	shared.BaseDomainEvent
	ItemID           uuid.UUID         `json:"item_id"`
	ProductID        string            `json:"product_id"`
	PreviousQuantity int               `json:"previous_quantity"`
	Quantity         int               `json:"quantity"`
	Subtotal         valueobject.Money `json:"subtotal"`
}

// LineItemRemovedEvent is raised when a line item leaves the cart
type LineItemRemovedEvent struct {
	shared.BaseDomainEvent
	ItemID           uuid.UUID `json:"item_id"`
	ProductID        string    `json:"product_id"`
	PreviousQuantity int       `json:"previous_quantity"`
}

// EventsFor converts a committed change into domain events.
// cartID identifies the cart aggregate, usually the table session key.
func EventsFor(cartID, restaurantID string, ch Change) []shared.DomainEvent {
	var events []shared.DomainEvent
	switch ch.Kind {
	case ChangeAdded:
		events = append(events, &LineItemAddedEvent{
			BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLineItemAdded, AggregateTypeCart, cartID, restaurantID),
			ItemID:          ch.Item.ID,
			ProductID:       ch.Item.ProductID(),
			Quantity:        ch.Item.Quantity,
			Subtotal:        ch.Item.Subtotal(),
		})
	case ChangeUpdated:
		events = append(events, &LineItemQuantityChangedEvent{
			BaseDomainEvent:  shared.NewBaseDomainEvent(EventTypeLineItemQuantityChanged, AggregateTypeCart, cartID, restaurantID),
			ItemID:           ch.Item.ID,
			ProductID:        ch.Item.ProductID(),
			PreviousQuantity: ch.PreviousQuantity,
			Quantity:         ch.Item.Quantity,
			Subtotal:         ch.Item.Subtotal(),
		})
		if ch.Absorbed != nil {
			events = append(events, removedEvent(cartID, restaurantID, *ch.Absorbed))
		}
	case ChangeRemoved:
		events = append(events, removedEvent(cartID, restaurantID, ch.Item))
	}
	return events
}

func removedEvent(cartID, restaurantID string, item LineItem) *LineItemRemovedEvent {
	return &LineItemRemovedEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(EventTypeLineItemRemoved, AggregateTypeCart, cartID, restaurantID),
		ItemID:           item.ID,
		ProductID:        item.ProductID(),
		PreviousQuantity: item.Quantity,
	}
}
