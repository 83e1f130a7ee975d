package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	cartapp "github.com/mmenu/backend/internal/application/cart"
	"github.com/mmenu/backend/internal/infrastructure/auth"
	"github.com/mmenu/backend/internal/infrastructure/logger"
	"github.com/mmenu/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// Session context keys
const (
	SessionClaimsKey = "session_claims"
	// SessionKeyKey holds the cart key; the request logger reads it
	SessionKeyKey = "session_key"
	AuthHeaderKey = "Authorization"
	BearerPrefix  = "Bearer "
)

// TokenValidator validates table session tokens
type TokenValidator interface {
	Validate(token string) (*auth.Claims, error)
}

// SessionAuth requires a valid table session token and exposes the session
// to handlers through GetTableSession
func SessionAuth(tokens TokenValidator, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(AuthHeaderKey)
		if header == "" {
			abortUnauthorized(c, dto.ErrCodeUnauthorized, "Missing authorization header")
			return
		}
		if !strings.HasPrefix(header, BearerPrefix) {
			abortUnauthorized(c, dto.ErrCodeUnauthorized, "Invalid authorization header format")
			return
		}
		token := strings.TrimSpace(strings.TrimPrefix(header, BearerPrefix))
		if token == "" {
			abortUnauthorized(c, dto.ErrCodeUnauthorized, "Missing token")
			return
		}

		claims, err := tokens.Validate(token)
		if err != nil {
			log.Debug("session token rejected",
				zap.String("request_id", c.GetString(RequestIDKey)),
				zap.Error(err),
			)
			if errors.Is(err, auth.ErrExpiredToken) {
				abortUnauthorized(c, dto.ErrCodeTokenExpired, "Session has expired")
				return
			}
			abortUnauthorized(c, dto.ErrCodeTokenInvalid, "Invalid session token")
			return
		}

		ts := tableSessionFrom(claims)
		c.Set(SessionClaimsKey, claims)
		c.Set(SessionKeyKey, ts.Key())
		ctx, _ := logger.WithSession(c.Request.Context(), logger.GetGinLogger(c), ts.Key())
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// GetTableSession returns the session set by SessionAuth
func GetTableSession(c *gin.Context) (cartapp.TableSession, bool) {
	v, ok := c.Get(SessionClaimsKey)
	if !ok {
		return cartapp.TableSession{}, false
	}
	claims, ok := v.(*auth.Claims)
	if !ok {
		return cartapp.TableSession{}, false
	}
	return tableSessionFrom(claims), true
}

func tableSessionFrom(claims *auth.Claims) cartapp.TableSession {
	return cartapp.TableSession{
		RestaurantID: claims.RestaurantID,
		TableID:      claims.TableID,
		UserID:       claims.UserID,
		UserName:     claims.UserName,
	}
}

func abortUnauthorized(c *gin.Context, code, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponseWithRequestID(code, message, c.GetString(RequestIDKey)))
}
