package handler

import (
	"context"

	"github.com/google/uuid"
	cartapp "github.com/mmenu/backend/internal/application/cart"
	menuapp "github.com/mmenu/backend/internal/application/menu"
	orderapp "github.com/mmenu/backend/internal/application/order"
	"github.com/mmenu/backend/internal/infrastructure/auth"
	"github.com/mmenu/backend/internal/infrastructure/persistence"
	"github.com/stretchr/testify/mock"
)

// MockCartService is a mock implementation of CartService
type MockCartService struct {
	mock.Mock
}

func (m *MockCartService) GetCart(ctx context.Context, ts cartapp.TableSession) (cartapp.CartResponse, error) {
	args := m.Called(ctx, ts)
	return args.Get(0).(cartapp.CartResponse), args.Error(1)
}

func (m *MockCartService) AddToCart(ctx context.Context, ts cartapp.TableSession, req cartapp.AddToCartRequest) (*cartapp.MutationResult, error) {
	args := m.Called(ctx, ts, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cartapp.MutationResult), args.Error(1)
}

func (m *MockCartService) UpdateCartItem(ctx context.Context, ts cartapp.TableSession, itemID uuid.UUID, req cartapp.UpdateCartItemRequest) (*cartapp.MutationResult, error) {
	args := m.Called(ctx, ts, itemID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cartapp.MutationResult), args.Error(1)
}

func (m *MockCartService) RemoveCartItem(ctx context.Context, ts cartapp.TableSession, itemID uuid.UUID, confirmed bool) (*cartapp.MutationResult, error) {
	args := m.Called(ctx, ts, itemID, confirmed)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cartapp.MutationResult), args.Error(1)
}

func (m *MockCartService) PendingConfirmation(ctx context.Context, ts cartapp.TableSession) (cartapp.Prompt, bool) {
	args := m.Called(ctx, ts)
	return args.Get(0).(cartapp.Prompt), args.Bool(1)
}

func (m *MockCartService) ResolveConfirmation(ctx context.Context, ts cartapp.TableSession, req cartapp.ResolveConfirmationRequest) error {
	args := m.Called(ctx, ts, req)
	return args.Error(0)
}

// MockMenuService is a mock implementation of MenuService
type MockMenuService struct {
	mock.Mock
}

func (m *MockMenuService) GetMenu(ctx context.Context, restaurantID, dishType string) ([]menuapp.CategoryResponse, error) {
	args := m.Called(ctx, restaurantID, dishType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]menuapp.CategoryResponse), args.Error(1)
}

func (m *MockMenuService) GetProduct(ctx context.Context, restaurantID, productID string) (*menuapp.ProductResponse, error) {
	args := m.Called(ctx, restaurantID, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*menuapp.ProductResponse), args.Error(1)
}

func (m *MockMenuService) Search(ctx context.Context, restaurantID, keyword string) ([]menuapp.ProductResponse, error) {
	args := m.Called(ctx, restaurantID, keyword)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]menuapp.ProductResponse), args.Error(1)
}

// MockOrderService is a mock implementation of OrderService
type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) Checkout(ctx context.Context, ts cartapp.TableSession, req orderapp.CheckoutRequest) (*orderapp.OrderResponse, error) {
	args := m.Called(ctx, ts, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*orderapp.OrderResponse), args.Error(1)
}

func (m *MockOrderService) History(ctx context.Context, ts cartapp.TableSession) ([]orderapp.OrderResponse, error) {
	args := m.Called(ctx, ts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]orderapp.OrderResponse), args.Error(1)
}

func (m *MockOrderService) Reorder(ctx context.Context, ts cartapp.TableSession, orderID, lineID uuid.UUID, req orderapp.ReorderRequest) (*cartapp.MutationResult, error) {
	args := m.Called(ctx, ts, orderID, lineID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cartapp.MutationResult), args.Error(1)
}

// MockTokenIssuer is a mock implementation of TokenIssuer
type MockTokenIssuer struct {
	mock.Mock
}

func (m *MockTokenIssuer) Issue(in auth.IssueInput) (*auth.SessionToken, *auth.Claims, error) {
	args := m.Called(in)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*auth.SessionToken), args.Get(1).(*auth.Claims), args.Error(2)
}

// MockDatabase is a mock implementation of DatabaseChecker
type MockDatabase struct {
	mock.Mock
}

func (m *MockDatabase) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockDatabase) Stats() (persistence.ConnectionStats, error) {
	args := m.Called()
	return args.Get(0).(persistence.ConnectionStats), args.Error(1)
}
