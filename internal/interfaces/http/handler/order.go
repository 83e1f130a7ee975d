package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	cartapp "github.com/mmenu/backend/internal/application/cart"
	orderapp "github.com/mmenu/backend/internal/application/order"
)

// OrderService is the order use case surface the handler needs
type OrderService interface {
	Checkout(ctx context.Context, ts cartapp.TableSession, req orderapp.CheckoutRequest) (*orderapp.OrderResponse, error)
	History(ctx context.Context, ts cartapp.TableSession) ([]orderapp.OrderResponse, error)
	Reorder(ctx context.Context, ts cartapp.TableSession, orderID, lineID uuid.UUID, req orderapp.ReorderRequest) (*cartapp.MutationResult, error)
}

// OrderHandler handles checkout and order history
type OrderHandler struct {
	BaseHandler
	orders OrderService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orders OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// RegisterRoutes registers the order routes on an authenticated group
func (h *OrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/orders/checkout", h.Checkout)
	rg.GET("/orders", h.History)
	rg.POST("/orders/:id/lines/:line_id/reorder", h.Reorder)
}

// Checkout places the table's cart as an order
func (h *OrderHandler) Checkout(c *gin.Context) {
	ts, ok := h.tableSession(c)
	if !ok {
		return
	}
	var req orderapp.CheckoutRequest
	if c.Request.ContentLength != 0 && !h.bindJSON(c, &req) {
		return
	}

	order, err := h.orders.Checkout(c.Request.Context(), ts, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, order)
}

// History lists the orders placed from the table
func (h *OrderHandler) History(c *gin.Context) {
	ts, ok := h.tableSession(c)
	if !ok {
		return
	}
	orders, err := h.orders.History(c.Request.Context(), ts)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, orders)
}

// Reorder puts an earlier order line back into the cart
func (h *OrderHandler) Reorder(c *gin.Context) {
	ts, ok := h.tableSession(c)
	if !ok {
		return
	}
	orderID, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	lineID, ok := h.uuidParam(c, "line_id")
	if !ok {
		return
	}
	var req orderapp.ReorderRequest
	if c.Request.ContentLength != 0 && !h.bindJSON(c, &req) {
		return
	}

	result, err := h.orders.Reorder(c.Request.Context(), ts, orderID, lineID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
