// Package menu serves menu reference data to the guest app.
package menu

import (
	"context"
	"fmt"

	"github.com/mmenu/backend/internal/domain/menu"
	"github.com/mmenu/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ProductResponse is a product with the topping selection the detail view
// starts from
type ProductResponse struct {
	menu.Product
	DefaultOptions menu.SelectedToppings `json:"default_options,omitempty"`
}

// CategoryResponse is a menu category with its listed products
type CategoryResponse struct {
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	Products []ProductResponse `json:"products"`
}

// Service handles menu queries
type Service struct {
	products menu.ProductRepository
	logger   *zap.Logger
}

// NewService creates a new menu Service
func NewService(products menu.ProductRepository, logger *zap.Logger) *Service {
	return &Service{products: products, logger: logger}
}

// GetMenu returns the listing of a restaurant, optionally for one dish type
func (s *Service) GetMenu(ctx context.Context, restaurantID, dishType string) ([]CategoryResponse, error) {
	dt := menu.DishType(dishType)
	if dt != "" && !dt.IsValid() {
		return nil, shared.NewDomainError(shared.ErrInvalidInput.Code, fmt.Sprintf("unknown dish type %q", dishType))
	}

	categories, err := s.products.FindCategories(ctx, restaurantID)
	if err != nil {
		return nil, err
	}

	listed := menu.BuildMenu(categories, dt)
	result := make([]CategoryResponse, 0, len(listed))
	for _, c := range listed {
		result = append(result, CategoryResponse{
			ID:       c.ID,
			Name:     c.Name,
			Products: toProductResponses(c.Products),
		})
	}
	s.logger.Debug("menu listed",
		zap.String("restaurant_id", restaurantID),
		zap.Int("categories", len(result)),
	)
	return result, nil
}

// GetProduct returns one product for the detail view
func (s *Service) GetProduct(ctx context.Context, restaurantID, productID string) (*ProductResponse, error) {
	p, err := s.products.FindByID(ctx, restaurantID, productID)
	if err != nil {
		return nil, err
	}
	resp := toProductResponse(*p)
	return &resp, nil
}

// Search finds products by name, ignoring case and diacritics
func (s *Service) Search(ctx context.Context, restaurantID, keyword string) ([]ProductResponse, error) {
	products, err := s.products.FindProducts(ctx, restaurantID)
	if err != nil {
		return nil, err
	}
	found, err := menu.SearchProducts(products, keyword)
	if err != nil {
		return nil, err
	}
	return toProductResponses(found), nil
}

func toProductResponse(p menu.Product) ProductResponse {
	return ProductResponse{Product: p, DefaultOptions: p.DefaultSelection()}
}

func toProductResponses(products []menu.Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toProductResponse(p))
	}
	return out
}
