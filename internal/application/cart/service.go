package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/mmenu/backend/internal/domain/cart"
	"github.com/mmenu/backend/internal/domain/menu"
	"github.com/mmenu/backend/internal/domain/shared"
	"github.com/mmenu/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

const removalPromptTitle = "Remove item"

// Service runs cart use cases for table sessions
type Service struct {
	registry       *Registry
	products       menu.ProductRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewService creates a new cart Service
func NewService(registry *Registry, products menu.ProductRepository, logger *zap.Logger) *Service {
	return &Service{
		registry: registry,
		products: products,
		logger:   logger,
	}
}

// SetEventPublisher sets the publisher receiving cart events
func (s *Service) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// GetCart returns the current cart of the session
func (s *Service) GetCart(ctx context.Context, ts TableSession) (CartResponse, error) {
	sess, err := s.registry.Open(ctx, ts.Key())
	if err != nil {
		return CartResponse{}, err
	}
	return ToCartResponse(sess.Store.Snapshot()), nil
}

// AddToCart resolves the product, applies the product policy and merges the
// request into the cart. Removals wait for confirmation unless req.Confirm is
// set.
func (s *Service) AddToCart(ctx context.Context, ts TableSession, req AddToCartRequest) (result *MutationResult, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "cart", "add_to_cart",
		attribute.String("cart.session", ts.Key()),
		attribute.String("product.id", req.ProductID),
	)
	defer func() {
		telemetry.RecordError(span, err)
		span.End()
	}()

	if req.Quantity == nil {
		return nil, cart.ErrInvalidQuantity
	}
	if req.ProductID == "" {
		return nil, cart.ErrMissingProduct
	}
	product, err := s.products.FindByID(ctx, ts.RestaurantID, req.ProductID)
	if err != nil {
		return nil, err
	}

	sess, err := s.registry.Open(ctx, ts.Key())
	if err != nil {
		return nil, err
	}
	decision := cart.Decide(sess.Store.Snapshot().Cart, *product, req.Options)
	if decision.Kind == cart.DecisionViewDetail {
		s.logger.Debug("add to cart redirected to product detail",
			zap.String("session", ts.Key()),
			zap.String("product_id", product.ID),
		)
		return &MutationResult{
			Change: cart.ChangeNone,
			Navigation: &NavigationResponse{
				View:       ViewProductDetail,
				ProductID:  decision.ProductID,
				EditItemID: decision.EditItemID,
			},
			Cart: ToCartResponse(sess.Store.Snapshot()),
		}, nil
	}

	return s.run(ctx, ts, sess, cart.AddToCart{
		Product:  *product,
		Quantity: *req.Quantity,
		Options:  req.Options,
		Note:     req.Note,
		Append:   req.Append,
	}, req.Confirm)
}

// UpdateCartItem edits the line item with the given id
func (s *Service) UpdateCartItem(ctx context.Context, ts TableSession, itemID uuid.UUID, req UpdateCartItemRequest) (result *MutationResult, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "cart", "update_cart_item",
		attribute.String("cart.session", ts.Key()),
		attribute.String("cart.item_id", itemID.String()),
	)
	defer func() {
		telemetry.RecordError(span, err)
		span.End()
	}()

	if req.Quantity == nil {
		return nil, cart.ErrInvalidQuantity
	}
	sess, err := s.registry.Open(ctx, ts.Key())
	if err != nil {
		return nil, err
	}
	return s.run(ctx, ts, sess, cart.UpdateCartItem{
		ItemID:   itemID,
		Quantity: *req.Quantity,
		Options:  req.Options,
		Note:     req.Note,
	}, req.Confirm)
}

// RemoveCartItem sets the line item's quantity to zero
func (s *Service) RemoveCartItem(ctx context.Context, ts TableSession, itemID uuid.UUID, confirmed bool) (*MutationResult, error) {
	zero := 0
	return s.UpdateCartItem(ctx, ts, itemID, UpdateCartItemRequest{Quantity: &zero, Confirm: confirmed})
}

// PendingConfirmation returns the prompt waiting on the session's gate. A
// session that is not in memory has nothing pending.
func (s *Service) PendingConfirmation(_ context.Context, ts TableSession) (Prompt, bool) {
	sess, ok := s.registry.Lookup(ts.Key())
	if !ok {
		return Prompt{}, false
	}
	return sess.Gate.Pending()
}

// ResolveConfirmation answers the session's pending prompt
func (s *Service) ResolveConfirmation(_ context.Context, ts TableSession, req ResolveConfirmationRequest) error {
	sess, ok := s.registry.Lookup(ts.Key())
	if !ok {
		return ErrNoPendingConfirmation
	}
	return sess.Gate.Resolve(req.PromptID, req.Confirmed)
}

// Checkout hands the session's cart to place and empties it if place
// succeeds
func (s *Service) Checkout(ctx context.Context, ts TableSession, place func(cart.Cart) error) (CartResponse, error) {
	sess, err := s.registry.Open(ctx, ts.Key())
	if err != nil {
		return CartResponse{}, err
	}
	taken, err := sess.Store.Take(place)
	if err != nil {
		return CartResponse{}, err
	}
	return ToCartResponse(taken), nil
}

// run drives the two-phase flow: propose, confirm when the change removes a
// line item, then apply against the latest snapshot. A plan that starts
// needing confirmation only at commit time loops once more to ask for it.
func (s *Service) run(ctx context.Context, ts TableSession, sess *Session, m cart.Mutation, confirmed bool) (*MutationResult, error) {
	for {
		proposal, err := sess.Store.Propose(m)
		if err != nil {
			return nil, err
		}

		if proposal.NeedsConfirmation && !confirmed {
			ok, err := sess.Gate.Confirm(ctx, removalPrompt(proposal.Preview.Item))
			if err != nil {
				return nil, fmt.Errorf("confirm cart change: %w", err)
			}
			if !ok {
				s.logger.Info("cart item removal declined",
					zap.String("session", ts.Key()),
					zap.String("item_id", proposal.Preview.Item.ID.String()),
				)
				return &MutationResult{
					Change:   cart.ChangeNone,
					Declined: true,
					Cart:     ToCartResponse(sess.Store.Snapshot()),
				}, nil
			}
			confirmed = true
		}

		commit, err := proposal.Apply(confirmed)
		if errors.Is(err, shared.ErrConfirmationRequired) {
			continue
		}
		if err != nil {
			return nil, err
		}

		result := &MutationResult{
			Change: commit.Change.Kind,
			Cart:   ToCartResponse(commit.Snapshot),
		}
		if commit.Committed {
			if commit.Change.Kind != cart.ChangeRemoved {
				id := commit.Change.Item.ID
				result.ItemID = &id
			}
			s.logger.Info("cart changed",
				zap.String("session", ts.Key()),
				zap.String("change", string(commit.Change.Kind)),
				zap.String("product_id", commit.Change.Item.ProductID()),
				zap.Uint64("version", commit.Snapshot.Version),
			)
			s.publish(ctx, ts, commit.Change)
		}
		return result, nil
	}
}

func (s *Service) publish(ctx context.Context, ts TableSession, changes ...cart.Change) {
	if s.eventPublisher == nil {
		return
	}
	var events []shared.DomainEvent
	for _, ch := range changes {
		events = append(events, cart.EventsFor(ts.Key(), ts.RestaurantID, ch)...)
	}
	if len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Error("failed to publish cart events",
			zap.String("session", ts.Key()),
			zap.Error(err),
		)
	}
}

func removalPrompt(item cart.LineItem) Prompt {
	return Prompt{
		Title:   removalPromptTitle,
		Message: fmt.Sprintf("Remove %s from your cart?", item.Product.Name),
	}
}
