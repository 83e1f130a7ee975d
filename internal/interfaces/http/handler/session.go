package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	menuapp "github.com/mmenu/backend/internal/application/menu"
	"github.com/mmenu/backend/internal/infrastructure/auth"
	"github.com/mmenu/backend/internal/interfaces/http/dto"
)

// TokenIssuer issues table session tokens
type TokenIssuer interface {
	Issue(in auth.IssueInput) (*auth.SessionToken, *auth.Claims, error)
}

// RestaurantChecker lists a restaurant's menu; a restaurant without one
// cannot take orders
type RestaurantChecker interface {
	GetMenu(ctx context.Context, restaurantID, dishType string) ([]menuapp.CategoryResponse, error)
}

// OpenSessionRequest is sent when a guest scans the table code
type OpenSessionRequest struct {
	RestaurantID string `json:"restaurant_id" binding:"required,max=64"`
	TableID      string `json:"table_id" binding:"required,max=64"`
	UserName     string `json:"user_name" binding:"omitempty,max=100"`
}

// OpenSessionResponse carries the token for the table session
type OpenSessionResponse struct {
	*auth.SessionToken
	UserID       string `json:"user_id"`
	RestaurantID string `json:"restaurant_id"`
	TableID      string `json:"table_id"`
}

// SessionHandler opens table sessions
type SessionHandler struct {
	BaseHandler
	tokens      TokenIssuer
	restaurants RestaurantChecker
}

// NewSessionHandler creates a new SessionHandler
func NewSessionHandler(tokens TokenIssuer, restaurants RestaurantChecker) *SessionHandler {
	return &SessionHandler{tokens: tokens, restaurants: restaurants}
}

// RegisterRoutes registers the public session route
func (h *SessionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/sessions", h.Open)
}

// Open issues a session token for a table of a known restaurant
func (h *SessionHandler) Open(c *gin.Context) {
	var req OpenSessionRequest
	if !h.bindJSON(c, &req) {
		return
	}

	categories, err := h.restaurants.GetMenu(c.Request.Context(), req.RestaurantID, "")
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if len(categories) == 0 {
		h.Error(c, http.StatusNotFound, dto.ErrCodeNotFound, "Restaurant not found")
		return
	}

	token, claims, err := h.tokens.Issue(auth.IssueInput{
		RestaurantID: req.RestaurantID,
		TableID:      req.TableID,
		UserName:     req.UserName,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, OpenSessionResponse{
		SessionToken: token,
		UserID:       claims.UserID,
		RestaurantID: claims.RestaurantID,
		TableID:      claims.TableID,
	})
}
