package menu

import "github.com/mmenu/backend/internal/domain/shared/valueobject"

func newTestProduct() Product {
	return Product{
		ID:           "bun-bo",
		RestaurantID: "r-1",
		CategoryID:   "c-noodles",
		Name:         "Bún Bò Huế",
		Price:        valueobject.VNDFromInt(100),
		DishType:     DishTypeFood,
		Status:       ProductStatusAvailable,
		HasTopping:   true,
		DisplaySize:  DisplaySizeNormal,
		ToppingGroups: []ToppingGroup{
			{
				ID:         "size",
				Name:       "Size",
				IsRequired: true,
				Items: []ToppingItem{
					{ID: "small", Name: "Small", Price: valueobject.VNDFromInt(0), IsDefault: true},
					{ID: "large", Name: "Large", Price: valueobject.VNDFromInt(20)},
				},
			},
			{
				ID:                 "extra",
				Name:               "Extra",
				IsMultipleSelected: true,
				HasQuantity:        true,
				LimitQuantity:      3,
				Items: []ToppingItem{
					{ID: "egg", Name: "Egg", Price: valueobject.VNDFromInt(5)},
					{ID: "beef", Name: "Beef", Price: valueobject.VNDFromInt(15)},
				},
			},
		},
	}
}
