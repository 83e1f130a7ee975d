// Package order implements checkout, order history and reordering.
package order

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	cartapp "github.com/mmenu/backend/internal/application/cart"
	"github.com/mmenu/backend/internal/domain/cart"
	"github.com/mmenu/backend/internal/domain/order"
	"github.com/mmenu/backend/internal/domain/shared"
	"github.com/mmenu/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// CartService is the part of the cart service checkout relies on
type CartService interface {
	Checkout(ctx context.Context, ts cartapp.TableSession, place func(cart.Cart) error) (cartapp.CartResponse, error)
	AddToCart(ctx context.Context, ts cartapp.TableSession, req cartapp.AddToCartRequest) (*cartapp.MutationResult, error)
}

// Service handles orders of table sessions
type Service struct {
	orders         order.Repository
	carts          CartService
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewService creates a new order Service
func NewService(orders order.Repository, carts CartService, logger *zap.Logger) *Service {
	return &Service{orders: orders, carts: carts, logger: logger}
}

// SetEventPublisher sets the publisher receiving order events
func (s *Service) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Checkout turns the table's cart into an order and empties the cart. The
// cart is only emptied once the order is stored.
func (s *Service) Checkout(ctx context.Context, ts cartapp.TableSession, req CheckoutRequest) (*OrderResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "order", "checkout", attribute.String("cart.session", ts.Key()))
	defer span.End()

	var placed *order.Order
	_, err := s.carts.Checkout(ctx, ts, func(c cart.Cart) error {
		o, err := order.Place(ts.RestaurantID, ts.TableID, c, order.Customer{
			UserID:            ts.UserID,
			UserName:          firstNonEmpty(req.UserName, ts.UserName),
			UserPhone:         req.UserPhone,
			Note:              req.Note,
			NumberOfCustomers: req.NumberOfCustomers,
		})
		if err != nil {
			return err
		}
		if err := s.orders.Save(ctx, o); err != nil {
			return fmt.Errorf("save order: %w", err)
		}
		placed = o
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	span.SetAttributes(attribute.String("order.id", placed.ID.String()))

	s.logger.Info("order placed",
		zap.String("order_id", placed.ID.String()),
		zap.String("session", ts.Key()),
		zap.Int("items", placed.ItemCount()),
		zap.String("total", placed.Total.String()),
	)
	if s.eventPublisher != nil {
		if err := s.eventPublisher.Publish(ctx, order.NewPlacedEvent(placed)); err != nil {
			s.logger.Error("failed to publish order event", zap.Error(err))
		}
	}

	resp := ToOrderResponse(placed)
	return &resp, nil
}

// History lists the table's orders, newest first
func (s *Service) History(ctx context.Context, ts cartapp.TableSession) ([]OrderResponse, error) {
	orders, err := s.orders.FindByTable(ctx, ts.RestaurantID, ts.TableID)
	if err != nil {
		return nil, err
	}
	result := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		result = append(result, ToOrderResponse(&orders[i]))
	}
	return result, nil
}

// Reorder adds a line of an earlier order of the same table back to the
// cart, merging with an identical entry
func (s *Service) Reorder(ctx context.Context, ts cartapp.TableSession, orderID, lineID uuid.UUID, req ReorderRequest) (*cartapp.MutationResult, error) {
	o, err := s.orders.FindByID(ctx, ts.RestaurantID, orderID)
	if err != nil {
		return nil, err
	}
	if o.TableID != ts.TableID {
		return nil, order.ErrOrderNotFound
	}
	line, err := o.Line(lineID)
	if err != nil {
		return nil, err
	}

	quantity := line.Quantity
	if req.Quantity > 0 {
		quantity = req.Quantity
	}
	return s.carts.AddToCart(ctx, ts, cartapp.AddToCartRequest{
		ProductID: line.ProductID,
		Quantity:  &quantity,
		Options:   line.Options.Clone(),
		Note:      line.Note,
		Append:    true,
	})
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
