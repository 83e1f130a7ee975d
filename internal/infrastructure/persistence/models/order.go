package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mmenu/backend/internal/domain/menu"
	"github.com/mmenu/backend/internal/domain/order"
	"github.com/shopspring/decimal"
)

// OrderModel is the persistence model for a placed order
type OrderModel struct {
	ID                uuid.UUID        `gorm:"type:uuid;primaryKey"`
	RestaurantID      string           `gorm:"type:varchar(64);not null;index:idx_orders_table,priority:1"`
	TableID           string           `gorm:"type:varchar(64);not null;index:idx_orders_table,priority:2"`
	UserID            string           `gorm:"type:varchar(64)"`
	UserName          string           `gorm:"type:varchar(100)"`
	UserPhone         string           `gorm:"type:varchar(20)"`
	Note              string           `gorm:"type:text"`
	NumberOfCustomers int              `gorm:"not null;default:0"`
	Total             decimal.Decimal  `gorm:"type:decimal(18,2);not null;default:0"`
	Currency          string           `gorm:"type:varchar(3);not null;default:'VND'"`
	Status            string           `gorm:"type:varchar(20);not null;default:'placed'"`
	PlacedAt          time.Time        `gorm:"not null;index"`
	Lines             []OrderLineModel `gorm:"foreignKey:OrderID"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// OrderLineModel is the persistence model for an order line
type OrderLineModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	Position    int             `gorm:"not null;default:0"`
	ProductID   string          `gorm:"type:varchar(64);not null"`
	ProductName string          `gorm:"type:varchar(200);not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Options     *string         `gorm:"type:jsonb"` // NULL when the line had no selection
	Note        *string         `gorm:"type:text"`
	Quantity    int             `gorm:"not null"`
	Subtotal    decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
}

// TableName returns the table name for GORM
func (OrderLineModel) TableName() string {
	return "order_lines"
}

// FromDomain populates the model and its lines from a domain Order
func (m *OrderModel) FromDomain(o *order.Order) error {
	m.ID = o.ID
	m.RestaurantID = o.RestaurantID
	m.TableID = o.TableID
	m.UserID = o.UserID
	m.UserName = o.UserName
	m.UserPhone = o.UserPhone
	m.Note = o.Note
	m.NumberOfCustomers = o.NumberOfCustomers
	m.Total = o.Total.Amount()
	m.Currency = currencyOf(o.Total)
	m.Status = string(o.Status)
	m.PlacedAt = o.PlacedAt
	m.Lines = make([]OrderLineModel, 0, len(o.Lines))
	for i, l := range o.Lines {
		options, err := encodeOptions(l.Options)
		if err != nil {
			return fmt.Errorf("order line %s: %w", l.ID, err)
		}
		m.Lines = append(m.Lines, OrderLineModel{
			ID:          l.ID,
			OrderID:     o.ID,
			Position:    i,
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			UnitPrice:   l.UnitPrice.Amount(),
			Options:     options,
			Note:        l.Note,
			Quantity:    l.Quantity,
			Subtotal:    l.Subtotal.Amount(),
		})
	}
	return nil
}

// ToDomain converts to a domain Order; lines must be loaded in position order
func (m *OrderModel) ToDomain() (*order.Order, error) {
	o := &order.Order{
		ID:                m.ID,
		RestaurantID:      m.RestaurantID,
		TableID:           m.TableID,
		UserID:            m.UserID,
		UserName:          m.UserName,
		UserPhone:         m.UserPhone,
		Note:              m.Note,
		NumberOfCustomers: m.NumberOfCustomers,
		Total:             toMoney(m.Total, m.Currency),
		Status:            order.Status(m.Status),
		PlacedAt:          m.PlacedAt,
		Lines:             make([]order.Line, 0, len(m.Lines)),
	}
	for _, l := range m.Lines {
		options, err := decodeOptions(l.Options)
		if err != nil {
			return nil, fmt.Errorf("order line %s: %w", l.ID, err)
		}
		o.Lines = append(o.Lines, order.Line{
			ID:          l.ID,
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			UnitPrice:   toMoney(l.UnitPrice, m.Currency),
			Options:     options,
			Note:        l.Note,
			Quantity:    l.Quantity,
			Subtotal:    toMoney(l.Subtotal, m.Currency),
		})
	}
	return o, nil
}

func encodeOptions(sel menu.SelectedToppings) (*string, error) {
	if sel == nil {
		return nil, nil
	}
	data, err := json.Marshal(sel)
	if err != nil {
		return nil, err
	}
	s := string(data)
	return &s, nil
}

func decodeOptions(raw *string) (menu.SelectedToppings, error) {
	if raw == nil {
		return nil, nil
	}
	var sel menu.SelectedToppings
	if err := json.Unmarshal([]byte(*raw), &sel); err != nil {
		return nil, err
	}
	if sel == nil {
		// "null" stored explicitly
		return nil, nil
	}
	return sel, nil
}
