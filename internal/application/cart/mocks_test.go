package cart

import (
	"context"
	"sync"

	"github.com/mmenu/backend/internal/domain/cart"
	"github.com/mmenu/backend/internal/domain/menu"
	"github.com/mmenu/backend/internal/domain/shared"
	"github.com/mmenu/backend/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/mock"
)

// MockProductRepository is a mock implementation of menu.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, restaurantID, productID string) (*menu.Product, error) {
	args := m.Called(ctx, restaurantID, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*menu.Product), args.Error(1)
}

func (m *MockProductRepository) FindCategories(ctx context.Context, restaurantID string) ([]menu.Category, error) {
	args := m.Called(ctx, restaurantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]menu.Category), args.Error(1)
}

func (m *MockProductRepository) FindProducts(ctx context.Context, restaurantID string) ([]menu.Product, error) {
	args := m.Called(ctx, restaurantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]menu.Product), args.Error(1)
}

// MockEventPublisher is a mock implementation of shared.EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

// memorySnapshots is an in-memory cart.SnapshotRepository
type memorySnapshots struct {
	mu      sync.Mutex
	carts   map[string]cart.Cart
	loadErr error
	loadCtx error
	saves   int
}

func newMemorySnapshots() *memorySnapshots {
	return &memorySnapshots{carts: make(map[string]cart.Cart)}
}

func (r *memorySnapshots) Load(ctx context.Context, key string) (cart.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loadCtx = ctx.Err()
	if r.loadErr != nil {
		return cart.Cart{}, r.loadErr
	}
	return r.carts[key], nil
}

func (r *memorySnapshots) Save(_ context.Context, key string, c cart.Cart) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.carts[key] = c
	r.saves++
	return nil
}

func (r *memorySnapshots) Delete(_ context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.carts, key)
	return nil
}

func (r *memorySnapshots) get(key string) (cart.Cart, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.carts[key]
	return c, ok
}

func plainProduct(id string, price int64) menu.Product {
	return menu.Product{
		ID:           id,
		RestaurantID: "r-1",
		CategoryID:   "c-1",
		Name:         "Product " + id,
		Price:        valueobject.VNDFromInt(price),
		DishType:     menu.DishTypeFood,
		Status:       menu.ProductStatusAvailable,
	}
}

func toppableProduct(id string, price int64) menu.Product {
	p := plainProduct(id, price)
	p.HasTopping = true
	p.ToppingGroups = []menu.ToppingGroup{{
		ID:                 "groupA",
		Name:               "Group A",
		IsMultipleSelected: true,
		Items: []menu.ToppingItem{
			{ID: "item1", Name: "Item 1", Price: valueobject.VNDFromInt(20)},
			{ID: "item2", Name: "Item 2", Price: valueobject.VNDFromInt(30)},
		},
	}}
	return p
}

func intPtr(v int) *int {
	return &v
}
