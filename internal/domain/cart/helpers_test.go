package cart

import (
	"testing"

	"github.com/mmenu/backend/internal/domain/menu"
	"github.com/mmenu/backend/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/require"
)

func plainProduct(id string, price int64) menu.Product {
	return menu.Product{
		ID:         id,
		CategoryID: "c-" + id,
		Name:       "Product " + id,
		Price:      valueobject.VNDFromInt(price),
		DishType:   menu.DishTypeFood,
		Status:     menu.ProductStatusAvailable,
	}
}

func toppableProduct(id string, price int64) menu.Product {
	p := plainProduct(id, price)
	p.HasTopping = true
	p.ToppingGroups = []menu.ToppingGroup{
		{
			ID:                 "groupA",
			Name:               "Group A",
			IsMultipleSelected: true,
			Items: []menu.ToppingItem{
				{ID: "item1", Name: "Item 1", Price: valueobject.VNDFromInt(20)},
				{ID: "item2", Name: "Item 2", Price: valueobject.VNDFromInt(30)},
			},
		},
	}
	return p
}

func note(s string) *string {
	return &s
}

func mustApply(t *testing.T, c Cart, m Mutation) Cart {
	t.Helper()
	plan, err := m.Plan(c)
	require.NoError(t, err)
	return plan.Result
}
