package models

import (
	"time"

	"github.com/mmenu/backend/internal/domain/menu"
	"github.com/shopspring/decimal"
)

// CategoryModel is the persistence model for a menu category
type CategoryModel struct {
	ID           string    `gorm:"type:varchar(64);primaryKey"`
	RestaurantID string    `gorm:"type:varchar(64);not null;index"`
	Name         string    `gorm:"type:varchar(200);not null"`
	Sort         int       `gorm:"not null;default:0"`
	CreatedAt    time.Time `gorm:"not null"`
	UpdatedAt    time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (CategoryModel) TableName() string {
	return "categories"
}

// ToDomain converts to a domain category without products
func (m *CategoryModel) ToDomain() menu.Category {
	return menu.Category{
		ID:           m.ID,
		RestaurantID: m.RestaurantID,
		Name:         m.Name,
		Sort:         m.Sort,
	}
}

// ProductModel is the persistence model for a menu product
type ProductModel struct {
	ID            string              `gorm:"type:varchar(64);primaryKey"`
	RestaurantID  string              `gorm:"type:varchar(64);not null;index"`
	CategoryID    string              `gorm:"type:varchar(64);not null;index"`
	Name          string              `gorm:"type:varchar(200);not null"`
	Description   string              `gorm:"type:text"`
	Price         decimal.Decimal     `gorm:"type:decimal(18,2);not null;default:0"`
	Currency      string              `gorm:"type:varchar(3);not null;default:'VND'"`
	ImageURL      string              `gorm:"type:varchar(500)"`
	DishType      string              `gorm:"type:varchar(20);not null;default:'food'"`
	Status        string              `gorm:"type:varchar(20);not null;default:'available'"`
	IsDishGroup   bool                `gorm:"not null;default:false"`
	HasTopping    bool                `gorm:"not null;default:false"`
	IsNewDish     bool                `gorm:"not null;default:false"`
	DisplaySize   string              `gorm:"type:varchar(20);not null;default:'normal'"`
	Sort          int                 `gorm:"not null;default:0"`
	ToppingGroups []ToppingGroupModel `gorm:"foreignKey:ProductID"`
	CreatedAt     time.Time           `gorm:"not null"`
	UpdatedAt     time.Time           `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product
func (m *ProductModel) ToDomain() menu.Product {
	p := menu.Product{
		ID:           m.ID,
		RestaurantID: m.RestaurantID,
		CategoryID:   m.CategoryID,
		Name:         m.Name,
		Description:  m.Description,
		Price:        toMoney(m.Price, m.Currency),
		ImageURL:     m.ImageURL,
		DishType:     menu.DishType(m.DishType),
		Status:       menu.ProductStatus(m.Status),
		IsDishGroup:  m.IsDishGroup,
		HasTopping:   m.HasTopping,
		IsNewDish:    m.IsNewDish,
		DisplaySize:  menu.DisplaySize(m.DisplaySize),
	}
	if len(m.ToppingGroups) > 0 {
		p.ToppingGroups = make([]menu.ToppingGroup, 0, len(m.ToppingGroups))
		for i := range m.ToppingGroups {
			p.ToppingGroups = append(p.ToppingGroups, m.ToppingGroups[i].ToDomain(m.Currency))
		}
	}
	return p
}

// FromDomain populates the persistence model from a domain Product.
// Sort is left untouched.
func (m *ProductModel) FromDomain(p menu.Product) {
	m.ID = p.ID
	m.RestaurantID = p.RestaurantID
	m.CategoryID = p.CategoryID
	m.Name = p.Name
	m.Description = p.Description
	m.Price = p.Price.Amount()
	m.Currency = currencyOf(p.Price)
	m.ImageURL = p.ImageURL
	m.DishType = string(p.DishType)
	m.Status = string(p.Status)
	m.IsDishGroup = p.IsDishGroup
	m.HasTopping = p.HasTopping
	m.IsNewDish = p.IsNewDish
	m.DisplaySize = string(p.DisplaySize)
	m.ToppingGroups = make([]ToppingGroupModel, 0, len(p.ToppingGroups))
	for i, g := range p.ToppingGroups {
		var gm ToppingGroupModel
		gm.FromDomain(p.ID, g)
		gm.Sort = i
		m.ToppingGroups = append(m.ToppingGroups, gm)
	}
}

// ToppingGroupModel is the persistence model for a product's topping group
type ToppingGroupModel struct {
	ID                 string             `gorm:"type:varchar(64);primaryKey"`
	ProductID          string             `gorm:"type:varchar(64);not null;index"`
	Name               string             `gorm:"type:varchar(200);not null"`
	IsRequired         bool               `gorm:"not null;default:false"`
	IsMultipleSelected bool               `gorm:"not null;default:false"`
	HasQuantity        bool               `gorm:"not null;default:false"`
	LimitQuantity      int                `gorm:"not null;default:0"`
	Sort               int                `gorm:"not null;default:0"`
	Items              []ToppingItemModel `gorm:"foreignKey:GroupID"`
}

// TableName returns the table name for GORM
func (ToppingGroupModel) TableName() string {
	return "topping_groups"
}

// ToDomain converts to a domain ToppingGroup priced in the product's currency
func (m *ToppingGroupModel) ToDomain(currency string) menu.ToppingGroup {
	g := menu.ToppingGroup{
		ID:                 m.ID,
		Name:               m.Name,
		IsRequired:         m.IsRequired,
		IsMultipleSelected: m.IsMultipleSelected,
		HasQuantity:        m.HasQuantity,
		LimitQuantity:      m.LimitQuantity,
		Items:              make([]menu.ToppingItem, 0, len(m.Items)),
	}
	for _, item := range m.Items {
		g.Items = append(g.Items, menu.ToppingItem{
			ID:        item.ID,
			Name:      item.Name,
			Price:     toMoney(item.Price, currency),
			IsDefault: item.IsDefault,
		})
	}
	return g
}

// FromDomain populates the group and its items
func (m *ToppingGroupModel) FromDomain(productID string, g menu.ToppingGroup) {
	m.ID = g.ID
	m.ProductID = productID
	m.Name = g.Name
	m.IsRequired = g.IsRequired
	m.IsMultipleSelected = g.IsMultipleSelected
	m.HasQuantity = g.HasQuantity
	m.LimitQuantity = g.LimitQuantity
	m.Items = make([]ToppingItemModel, 0, len(g.Items))
	for i, item := range g.Items {
		m.Items = append(m.Items, ToppingItemModel{
			ID:        item.ID,
			GroupID:   g.ID,
			Name:      item.Name,
			Price:     item.Price.Amount(),
			IsDefault: item.IsDefault,
			Sort:      i,
		})
	}
}

// ToppingItemModel is the persistence model for one add-on
type ToppingItemModel struct {
	ID        string          `gorm:"type:varchar(64);primaryKey"`
	GroupID   string          `gorm:"type:varchar(64);not null;index"`
	Name      string          `gorm:"type:varchar(200);not null"`
	Price     decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	IsDefault bool            `gorm:"not null;default:false"`
	Sort      int             `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (ToppingItemModel) TableName() string {
	return "topping_items"
}
