package order

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	cartapp "github.com/mmenu/backend/internal/application/cart"
	"github.com/mmenu/backend/internal/domain/cart"
	"github.com/mmenu/backend/internal/domain/menu"
	"github.com/mmenu/backend/internal/domain/order"
	"github.com/mmenu/backend/internal/domain/shared"
	"github.com/mmenu/backend/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockOrderRepository is a mock implementation of order.Repository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Save(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) FindByID(ctx context.Context, restaurantID string, id uuid.UUID) (*order.Order, error) {
	args := m.Called(ctx, restaurantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByTable(ctx context.Context, restaurantID, tableID string) ([]order.Order, error) {
	args := m.Called(ctx, restaurantID, tableID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]order.Order), args.Error(1)
}

// MockEventPublisher is a mock implementation of shared.EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

// fakeCarts holds a single cart and records add requests
type fakeCarts struct {
	current cart.Cart
	added   []cartapp.AddToCartRequest
}

func (f *fakeCarts) Checkout(_ context.Context, _ cartapp.TableSession, place func(cart.Cart) error) (cartapp.CartResponse, error) {
	if err := place(f.current); err != nil {
		return cartapp.CartResponse{}, err
	}
	taken := f.current
	f.current = cart.Cart{}
	return cartapp.ToCartResponse(cartapp.Snapshot{Cart: taken}), nil
}

func (f *fakeCarts) AddToCart(_ context.Context, _ cartapp.TableSession, req cartapp.AddToCartRequest) (*cartapp.MutationResult, error) {
	f.added = append(f.added, req)
	return &cartapp.MutationResult{Change: cart.ChangeUpdated}, nil
}

var session = cartapp.TableSession{RestaurantID: "r-1", TableID: "t-3", UserID: "u-1", UserName: "Lan"}

func filledCart(t *testing.T) cart.Cart {
	t.Helper()
	p := menu.Product{ID: "tea", Name: "Trà đá", Price: valueobject.VNDFromInt(5000), Status: menu.ProductStatusAvailable}
	plan, err := cart.AddToCart{Product: p, Quantity: 3, Note: strPtr("no ice")}.Plan(cart.Cart{})
	require.NoError(t, err)
	return plan.Result
}

func strPtr(s string) *string {
	return &s
}

func TestService_Checkout(t *testing.T) {
	ctx := context.Background()

	t.Run("places the order and empties the cart", func(t *testing.T) {
		repo := new(MockOrderRepository)
		repo.On("Save", ctx, mock.AnythingOfType("*order.Order")).Return(nil)
		publisher := new(MockEventPublisher)
		publisher.On("Publish", ctx, mock.MatchedBy(func(events []shared.DomainEvent) bool {
			return len(events) == 1 && events[0].EventType() == order.EventTypeOrderPlaced
		})).Return(nil)
		carts := &fakeCarts{current: filledCart(t)}

		svc := NewService(repo, carts, zap.NewNop())
		svc.SetEventPublisher(publisher)

		resp, err := svc.Checkout(ctx, session, CheckoutRequest{NumberOfCustomers: 2})
		require.NoError(t, err)

		assert.Equal(t, "t-3", resp.TableID)
		assert.Equal(t, "Lan", resp.UserName)
		assert.Equal(t, 3, resp.ItemCount)
		assert.True(t, resp.Total.Equals(valueobject.VNDFromInt(15000)))
		require.Len(t, resp.Lines, 1)
		assert.Equal(t, "no ice", *resp.Lines[0].Note)
		assert.True(t, carts.current.IsEmpty())
		repo.AssertExpectations(t)
		publisher.AssertExpectations(t)
	})

	t.Run("save failure keeps the cart", func(t *testing.T) {
		repo := new(MockOrderRepository)
		repo.On("Save", ctx, mock.Anything).Return(errors.New("db down"))
		carts := &fakeCarts{current: filledCart(t)}
		svc := NewService(repo, carts, zap.NewNop())

		_, err := svc.Checkout(ctx, session, CheckoutRequest{})
		assert.Error(t, err)
		assert.Equal(t, 3, cart.TotalItemCount(carts.current))
	})

	t.Run("empty cart", func(t *testing.T) {
		svc := NewService(new(MockOrderRepository), &fakeCarts{}, zap.NewNop())
		_, err := svc.Checkout(ctx, session, CheckoutRequest{})
		assert.ErrorIs(t, err, order.ErrEmptyCart)
	})
}

func TestService_History(t *testing.T) {
	ctx := context.Background()
	o, err := order.Place("r-1", "t-3", filledCart(t), order.Customer{})
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	repo.On("FindByTable", ctx, "r-1", "t-3").Return([]order.Order{*o}, nil)
	svc := NewService(repo, &fakeCarts{}, zap.NewNop())

	history, err := svc.History(ctx, session)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, o.ID, history[0].ID)
	assert.Equal(t, order.StatusPlaced, history[0].Status)
}

func TestService_Reorder(t *testing.T) {
	ctx := context.Background()
	o, err := order.Place("r-1", "t-3", filledCart(t), order.Customer{})
	require.NoError(t, err)
	lineID := o.Lines[0].ID

	t.Run("re-adds the line in append mode", func(t *testing.T) {
		repo := new(MockOrderRepository)
		repo.On("FindByID", ctx, "r-1", o.ID).Return(o, nil)
		carts := &fakeCarts{}
		svc := NewService(repo, carts, zap.NewNop())

		_, err := svc.Reorder(ctx, session, o.ID, lineID, ReorderRequest{})
		require.NoError(t, err)

		require.Len(t, carts.added, 1)
		req := carts.added[0]
		assert.Equal(t, "tea", req.ProductID)
		assert.Equal(t, 3, *req.Quantity)
		assert.Equal(t, "no ice", *req.Note)
		assert.True(t, req.Append)
	})

	t.Run("explicit quantity", func(t *testing.T) {
		repo := new(MockOrderRepository)
		repo.On("FindByID", ctx, "r-1", o.ID).Return(o, nil)
		carts := &fakeCarts{}
		svc := NewService(repo, carts, zap.NewNop())

		_, err := svc.Reorder(ctx, session, o.ID, lineID, ReorderRequest{Quantity: 1})
		require.NoError(t, err)
		assert.Equal(t, 1, *carts.added[0].Quantity)
	})

	t.Run("order of another table", func(t *testing.T) {
		repo := new(MockOrderRepository)
		repo.On("FindByID", ctx, "r-1", o.ID).Return(o, nil)
		svc := NewService(repo, &fakeCarts{}, zap.NewNop())

		other := session
		other.TableID = "t-9"
		_, err := svc.Reorder(ctx, other, o.ID, lineID, ReorderRequest{})
		assert.ErrorIs(t, err, order.ErrOrderNotFound)
	})

	t.Run("unknown line", func(t *testing.T) {
		repo := new(MockOrderRepository)
		repo.On("FindByID", ctx, "r-1", o.ID).Return(o, nil)
		svc := NewService(repo, &fakeCarts{}, zap.NewNop())

		_, err := svc.Reorder(ctx, session, o.ID, uuid.New(), ReorderRequest{})
		assert.ErrorIs(t, err, order.ErrLineNotFound)
	})
}
