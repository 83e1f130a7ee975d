package menu

import (
	"context"
	"errors"
	"testing"

	"github.com/mmenu/backend/internal/domain/menu"
	"github.com/mmenu/backend/internal/domain/shared"
	"github.com/mmenu/backend/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
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

func sampleCategories() []menu.Category {
	return []menu.Category{
		{ID: "c-1", Name: "Phở", Products: []menu.Product{
			{ID: "p-1", Name: "Phở bò", DishType: menu.DishTypeFood, Price: valueobject.VNDFromInt(50000)},
			{ID: "p-2", Name: "Combo phở", DishType: menu.DishTypeCombo, Price: valueobject.VNDFromInt(90000)},
		}},
		{ID: "c-2", Name: "Đồ uống", Products: []menu.Product{
			{ID: "p-3", Name: "Trà đá", DishType: menu.DishTypeDrink, Price: valueobject.VNDFromInt(5000)},
		}},
	}
}

func TestService_GetMenu(t *testing.T) {
	ctx := context.Background()

	t.Run("lists categories without combos", func(t *testing.T) {
		repo := new(MockProductRepository)
		repo.On("FindCategories", ctx, "r-1").Return(sampleCategories(), nil)
		svc := NewService(repo, zap.NewNop())

		result, err := svc.GetMenu(ctx, "r-1", "")
		require.NoError(t, err)
		require.Len(t, result, 2)
		require.Len(t, result[0].Products, 1)
		assert.Equal(t, "p-1", result[0].Products[0].ID)
		repo.AssertExpectations(t)
	})

	t.Run("filters by dish type", func(t *testing.T) {
		repo := new(MockProductRepository)
		repo.On("FindCategories", ctx, "r-1").Return(sampleCategories(), nil)
		svc := NewService(repo, zap.NewNop())

		result, err := svc.GetMenu(ctx, "r-1", "drink")
		require.NoError(t, err)
		require.Len(t, result, 1)
		assert.Equal(t, "c-2", result[0].ID)
	})

	t.Run("rejects unknown dish type", func(t *testing.T) {
		svc := NewService(new(MockProductRepository), zap.NewNop())
		_, err := svc.GetMenu(ctx, "r-1", "dessert")
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})

	t.Run("repository error", func(t *testing.T) {
		repo := new(MockProductRepository)
		repo.On("FindCategories", ctx, "r-1").Return(nil, errors.New("db down"))
		svc := NewService(repo, zap.NewNop())

		_, err := svc.GetMenu(ctx, "r-1", "")
		assert.Error(t, err)
	})
}

func TestService_GetProduct(t *testing.T) {
	ctx := context.Background()
	p := menu.Product{
		ID:    "p-1",
		Name:  "Trà sữa",
		Price: valueobject.VNDFromInt(30000),
		ToppingGroups: []menu.ToppingGroup{{
			ID:    "sugar",
			Items: []menu.ToppingItem{{ID: "50", IsDefault: true}, {ID: "100"}},
		}},
	}
	repo := new(MockProductRepository)
	repo.On("FindByID", ctx, "r-1", "p-1").Return(&p, nil)
	repo.On("FindByID", ctx, "r-1", "p-9").Return(nil, menu.ErrProductNotFound)
	svc := NewService(repo, zap.NewNop())

	resp, err := svc.GetProduct(ctx, "r-1", "p-1")
	require.NoError(t, err)
	assert.Equal(t, "Trà sữa", resp.Name)
	assert.Equal(t, menu.SelectedToppings{"sugar": {"50": 1}}, resp.DefaultOptions)

	_, err = svc.GetProduct(ctx, "r-1", "p-9")
	assert.ErrorIs(t, err, menu.ErrProductNotFound)
}

func TestService_Search(t *testing.T) {
	ctx := context.Background()
	repo := new(MockProductRepository)
	repo.On("FindProducts", ctx, "r-1").Return([]menu.Product{
		{ID: "p-1", Name: "Phở bò", DishType: menu.DishTypeFood},
		{ID: "p-3", Name: "Trà đá", DishType: menu.DishTypeDrink},
	}, nil)
	svc := NewService(repo, zap.NewNop())

	result, err := svc.Search(ctx, "r-1", "tra da")
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, "p-3", result[0].ID)

	_, err = svc.Search(ctx, "r-1", "ph")
	assert.ErrorIs(t, err, menu.ErrSearchKeywordTooShort)
}
