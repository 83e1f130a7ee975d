package telemetry

import (
	"context"

	"github.com/mmenu/backend/internal/domain/cart"
	"github.com/mmenu/backend/internal/domain/order"
	"github.com/mmenu/backend/internal/domain/shared"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// CartMetrics turns cart and order events into business metrics. It is
// subscribed to the event bus like any other handler.
type CartMetrics struct {
	itemsAdded    *Counter
	itemsRemoved  *Counter
	ordersPlaced  *Counter
	orderValue    *Histogram
	orderItemSize *Histogram
}

// NewCartMetrics creates the instruments on the given meter
func NewCartMetrics(meter metric.Meter) (*CartMetrics, error) {
	var (
		m   CartMetrics
		err error
	)
	if m.itemsAdded, err = NewCounter(meter, "mmenu.cart.items_added", "Dishes added to carts", "{item}"); err != nil {
		return nil, err
	}
	if m.itemsRemoved, err = NewCounter(meter, "mmenu.cart.items_removed", "Dishes removed from carts", "{item}"); err != nil {
		return nil, err
	}
	if m.ordersPlaced, err = NewCounter(meter, "mmenu.orders.placed", "Orders placed at checkout", "{order}"); err != nil {
		return nil, err
	}
	if m.orderValue, err = NewHistogram(meter, "mmenu.order.value", "Order total", "{VND}",
		50_000, 100_000, 200_000, 500_000, 1_000_000, 2_000_000, 5_000_000); err != nil {
		return nil, err
	}
	if m.orderItemSize, err = NewHistogram(meter, "mmenu.order.items", "Dishes per order", "{item}",
		1, 2, 3, 5, 8, 13, 21); err != nil {
		return nil, err
	}
	return &m, nil
}

// EventTypes implements shared.EventHandler
func (m *CartMetrics) EventTypes() []string {
	return []string{
		cart.EventTypeLineItemAdded,
		cart.EventTypeLineItemQuantityChanged,
		cart.EventTypeLineItemRemoved,
		order.EventTypeOrderPlaced,
	}
}

// Handle implements shared.EventHandler
func (m *CartMetrics) Handle(ctx context.Context, event shared.DomainEvent) error {
	restaurant := attribute.String("restaurant_id", event.RestaurantID())
	switch e := event.(type) {
	case *cart.LineItemAddedEvent:
		m.itemsAdded.Add(ctx, int64(e.Quantity), restaurant)
	case *cart.LineItemQuantityChangedEvent:
		if delta := e.Quantity - e.PreviousQuantity; delta > 0 {
			m.itemsAdded.Add(ctx, int64(delta), restaurant)
		} else if delta < 0 {
			m.itemsRemoved.Add(ctx, int64(-delta), restaurant)
		}
	case *cart.LineItemRemovedEvent:
		m.itemsRemoved.Add(ctx, int64(e.PreviousQuantity), restaurant)
	case *order.PlacedEvent:
		m.ordersPlaced.Inc(ctx, restaurant)
		m.orderValue.Record(ctx, e.Total.Amount().InexactFloat64(), restaurant)
		m.orderItemSize.Record(ctx, float64(e.ItemCount), restaurant)
	}
	return nil
}
