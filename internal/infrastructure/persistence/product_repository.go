package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/mmenu/backend/internal/domain/menu"
	"github.com/mmenu/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormProductRepository implements menu.ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

func bySort(db *gorm.DB) *gorm.DB {
	return db.Order("sort ASC")
}

// withToppings preloads topping groups and their items in display order
func (r *GormProductRepository) withToppings(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("ToppingGroups", bySort).
		Preload("ToppingGroups.Items", bySort)
}

// FindByID finds a product of a restaurant with its topping groups
func (r *GormProductRepository) FindByID(ctx context.Context, restaurantID, productID string) (*menu.Product, error) {
	var m models.ProductModel
	err := r.withToppings(ctx).
		Where("restaurant_id = ? AND id = ?", restaurantID, productID).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, menu.ErrProductNotFound
		}
		return nil, fmt.Errorf("find product %s: %w", productID, err)
	}
	p := m.ToDomain()
	return &p, nil
}

// FindProducts returns every product of the restaurant in display order
func (r *GormProductRepository) FindProducts(ctx context.Context, restaurantID string) ([]menu.Product, error) {
	var rows []models.ProductModel
	if err := r.withToppings(ctx).
		Where("restaurant_id = ?", restaurantID).
		Order("sort ASC, name ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("find products: %w", err)
	}
	products := make([]menu.Product, 0, len(rows))
	for i := range rows {
		products = append(products, rows[i].ToDomain())
	}
	return products, nil
}

// FindCategories returns the restaurant's categories with their products.
// Products whose category does not exist are left out.
func (r *GormProductRepository) FindCategories(ctx context.Context, restaurantID string) ([]menu.Category, error) {
	var rows []models.CategoryModel
	if err := r.db.WithContext(ctx).
		Where("restaurant_id = ?", restaurantID).
		Order("sort ASC, name ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("find categories: %w", err)
	}

	products, err := r.FindProducts(ctx, restaurantID)
	if err != nil {
		return nil, err
	}
	byCategory := make(map[string][]menu.Product, len(rows))
	for _, p := range products {
		byCategory[p.CategoryID] = append(byCategory[p.CategoryID], p)
	}

	categories := make([]menu.Category, 0, len(rows))
	for i := range rows {
		c := rows[i].ToDomain()
		c.Products = byCategory[c.ID]
		categories = append(categories, c)
	}
	return categories, nil
}
