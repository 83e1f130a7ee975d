package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/mmenu/backend/internal/domain/order"
	"github.com/mmenu/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// maxOrderHistory bounds the order history of a table
const maxOrderHistory = 50

// GormOrderRepository implements order.Repository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

func byPosition(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

// Save inserts the order and its lines in one transaction
func (r *GormOrderRepository) Save(ctx context.Context, o *order.Order) error {
	var m models.OrderModel
	if err := m.FromDomain(o); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Lines").Create(&m).Error; err != nil {
			return fmt.Errorf("insert order: %w", err)
		}
		if len(m.Lines) == 0 {
			return nil
		}
		if err := tx.Create(&m.Lines).Error; err != nil {
			return fmt.Errorf("insert order lines: %w", err)
		}
		return nil
	})
}

// FindByID finds an order of a restaurant with its lines
func (r *GormOrderRepository) FindByID(ctx context.Context, restaurantID string, id uuid.UUID) (*order.Order, error) {
	var m models.OrderModel
	err := r.db.WithContext(ctx).
		Preload("Lines", byPosition).
		Where("restaurant_id = ? AND id = ?", restaurantID, id).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, order.ErrOrderNotFound
		}
		return nil, fmt.Errorf("find order %s: %w", id, err)
	}
	return m.ToDomain()
}

// FindByTable returns the most recent orders of a table, newest first
func (r *GormOrderRepository) FindByTable(ctx context.Context, restaurantID, tableID string) ([]order.Order, error) {
	var rows []models.OrderModel
	if err := r.db.WithContext(ctx).
		Preload("Lines", byPosition).
		Where("restaurant_id = ? AND table_id = ?", restaurantID, tableID).
		Order("placed_at DESC").
		Limit(maxOrderHistory).
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("find orders of table %s: %w", tableID, err)
	}

	orders := make([]order.Order, 0, len(rows))
	for i := range rows {
		o, err := rows[i].ToDomain()
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}
	return orders, nil
}
