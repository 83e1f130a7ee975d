package handler

import (
	"context"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	cartapp "github.com/mmenu/backend/internal/application/cart"
)

// CartService is the cart use case surface the handler needs
type CartService interface {
	GetCart(ctx context.Context, ts cartapp.TableSession) (cartapp.CartResponse, error)
	AddToCart(ctx context.Context, ts cartapp.TableSession, req cartapp.AddToCartRequest) (*cartapp.MutationResult, error)
	UpdateCartItem(ctx context.Context, ts cartapp.TableSession, itemID uuid.UUID, req cartapp.UpdateCartItemRequest) (*cartapp.MutationResult, error)
	RemoveCartItem(ctx context.Context, ts cartapp.TableSession, itemID uuid.UUID, confirmed bool) (*cartapp.MutationResult, error)
	PendingConfirmation(ctx context.Context, ts cartapp.TableSession) (cartapp.Prompt, bool)
	ResolveConfirmation(ctx context.Context, ts cartapp.TableSession, req cartapp.ResolveConfirmationRequest) error
}

// PendingConfirmationResponse reports whether a removal waits for an answer
type PendingConfirmationResponse struct {
	Pending bool            `json:"pending"`
	Prompt  *cartapp.Prompt `json:"prompt,omitempty"`
}

// CartHandler handles the table cart endpoints
type CartHandler struct {
	BaseHandler
	carts CartService
	// confirmationTTL bounds how long a mutation waits for the guest to
	// answer a removal prompt; an unanswered prompt is a decline
	confirmationTTL time.Duration
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(carts CartService, confirmationTTL time.Duration) *CartHandler {
	return &CartHandler{carts: carts, confirmationTTL: confirmationTTL}
}

// RegisterRoutes registers the cart routes on an authenticated group
func (h *CartHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/cart", h.Get)
	rg.POST("/cart/items", h.AddItem)
	rg.PATCH("/cart/items/:id", h.UpdateItem)
	rg.DELETE("/cart/items/:id", h.RemoveItem)
	rg.GET("/cart/confirmation", h.GetConfirmation)
	rg.POST("/cart/confirmation", h.ResolveConfirmation)
}

// Get returns the table's cart with its totals
func (h *CartHandler) Get(c *gin.Context) {
	ts, ok := h.tableSession(c)
	if !ok {
		return
	}
	resp, err := h.carts.GetCart(c.Request.Context(), ts)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// AddItem adds a configured product to the cart
func (h *CartHandler) AddItem(c *gin.Context) {
	ts, ok := h.tableSession(c)
	if !ok {
		return
	}
	var req cartapp.AddToCartRequest
	if !h.bindJSON(c, &req) {
		return
	}

	ctx, cancel := h.mutationContext(c)
	defer cancel()

	result, err := h.carts.AddToCart(ctx, ts, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// UpdateItem edits one line item
func (h *CartHandler) UpdateItem(c *gin.Context) {
	ts, ok := h.tableSession(c)
	if !ok {
		return
	}
	itemID, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req cartapp.UpdateCartItemRequest
	if !h.bindJSON(c, &req) {
		return
	}

	ctx, cancel := h.mutationContext(c)
	defer cancel()

	result, err := h.carts.UpdateCartItem(ctx, ts, itemID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// RemoveItem removes one line item. Without ?confirm=true the request waits
// for the guest to answer the removal prompt.
func (h *CartHandler) RemoveItem(c *gin.Context) {
	ts, ok := h.tableSession(c)
	if !ok {
		return
	}
	itemID, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	confirmed := false
	if raw := c.Query("confirm"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			h.BadRequest(c, "confirm must be a boolean")
			return
		}
		confirmed = v
	}

	ctx, cancel := h.mutationContext(c)
	defer cancel()

	result, err := h.carts.RemoveCartItem(ctx, ts, itemID, confirmed)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// GetConfirmation returns the prompt waiting for an answer, if any
func (h *CartHandler) GetConfirmation(c *gin.Context) {
	ts, ok := h.tableSession(c)
	if !ok {
		return
	}
	prompt, pending := h.carts.PendingConfirmation(c.Request.Context(), ts)
	resp := PendingConfirmationResponse{Pending: pending}
	if pending {
		resp.Prompt = &prompt
	}
	h.Success(c, resp)
}

// ResolveConfirmation answers the pending prompt
func (h *CartHandler) ResolveConfirmation(c *gin.Context) {
	ts, ok := h.tableSession(c)
	if !ok {
		return
	}
	var req cartapp.ResolveConfirmationRequest
	if !h.bindJSON(c, &req) {
		return
	}
	if err := h.carts.ResolveConfirmation(c.Request.Context(), ts, req); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"prompt_id": req.PromptID, "confirmed": req.Confirmed})
}

func (h *CartHandler) mutationContext(c *gin.Context) (context.Context, context.CancelFunc) {
	if h.confirmationTTL <= 0 {
		return context.WithCancel(c.Request.Context())
	}
	return context.WithTimeout(c.Request.Context(), h.confirmationTTL)
}
