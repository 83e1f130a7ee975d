package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	menuapp "github.com/mmenu/backend/internal/application/menu"
)

// MenuService is the menu query surface the handler needs
type MenuService interface {
	GetMenu(ctx context.Context, restaurantID, dishType string) ([]menuapp.CategoryResponse, error)
	GetProduct(ctx context.Context, restaurantID, productID string) (*menuapp.ProductResponse, error)
	Search(ctx context.Context, restaurantID, keyword string) ([]menuapp.ProductResponse, error)
}

// MenuHandler serves the public menu endpoints
type MenuHandler struct {
	BaseHandler
	menus MenuService
}

// NewMenuHandler creates a new MenuHandler
func NewMenuHandler(menus MenuService) *MenuHandler {
	return &MenuHandler{menus: menus}
}

// RegisterRoutes registers the menu routes; they need no session
func (h *MenuHandler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/restaurants/:restaurant_id")
	g.GET("/menu", h.GetMenu)
	g.GET("/products/:product_id", h.GetProduct)
	g.GET("/search", h.Search)
}

// GetMenu lists the restaurant's categories, optionally for one dish type
func (h *MenuHandler) GetMenu(c *gin.Context) {
	categories, err := h.menus.GetMenu(c.Request.Context(), c.Param("restaurant_id"), c.Query("dish_type"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, categories)
}

// GetProduct returns one product with its default topping selection
func (h *MenuHandler) GetProduct(c *gin.Context) {
	product, err := h.menus.GetProduct(c.Request.Context(), c.Param("restaurant_id"), c.Param("product_id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// Search finds products by name
func (h *MenuHandler) Search(c *gin.Context) {
	products, err := h.menus.Search(c.Request.Context(), c.Param("restaurant_id"), c.Query("q"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, products)
}
