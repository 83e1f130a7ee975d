package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/mmenu/backend/internal/infrastructure/config"
)

// Common errors
var (
	ErrInvalidToken        = errors.New("invalid token")
	ErrExpiredToken        = errors.New("token has expired")
	ErrInvalidClaims       = errors.New("invalid token claims")
	ErrTokenNotYetValid    = errors.New("token is not yet valid")
	ErrMissingRestaurantID = errors.New("missing restaurant_id in claims")
	ErrMissingTableID      = errors.New("missing table_id in claims")
)

// Claims identifies a guest seated at a restaurant table
type Claims struct {
	jwt.RegisteredClaims
	RestaurantID string `json:"restaurant_id"`
	TableID      string `json:"table_id"`
	UserID       string `json:"user_id"`
	UserName     string `json:"user_name,omitempty"`
}

// SessionToken is an issued table session token
type SessionToken struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	TokenType string    `json:"token_type"` // Bearer
}

// IssueInput contains input for token generation. An empty UserID gets a
// fresh random id.
type IssueInput struct {
	RestaurantID string
	TableID      string
	UserID       string
	UserName     string
}

// SessionTokenService issues and validates table session tokens
type SessionTokenService struct {
	secret     []byte
	expiration time.Duration
	issuer     string
	now        func() time.Time
}

// NewSessionTokenService creates a new token service
func NewSessionTokenService(cfg config.JWTConfig) *SessionTokenService {
	return &SessionTokenService{
		secret:     []byte(cfg.Secret),
		expiration: cfg.SessionDuration,
		issuer:     cfg.Issuer,
		now:        time.Now,
	}
}

// Issue signs a new session token
func (s *SessionTokenService) Issue(input IssueInput) (*SessionToken, *Claims, error) {
	if input.RestaurantID == "" {
		return nil, nil, ErrMissingRestaurantID
	}
	if input.TableID == "" {
		return nil, nil, ErrMissingTableID
	}
	if input.UserID == "" {
		input.UserID = uuid.NewString()
	}

	now := s.now()
	expiresAt := now.Add(s.expiration)
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    s.issuer,
			Subject:   input.UserID,
			Audience:  jwt.ClaimStrings{s.issuer},
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		RestaurantID: input.RestaurantID,
		TableID:      input.TableID,
		UserID:       input.UserID,
		UserName:     input.UserName,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, nil, err
	}
	return &SessionToken{Token: signed, ExpiresAt: expiresAt, TokenType: "Bearer"}, claims, nil
}

// Validate parses a token and returns its claims
func (s *SessionTokenService) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	},
		jwt.WithIssuer(s.issuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		if errors.Is(err, jwt.ErrTokenNotValidYet) {
			return nil, ErrTokenNotYetValid
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidClaims
	}
	if claims.RestaurantID == "" {
		return nil, ErrMissingRestaurantID
	}
	if claims.TableID == "" {
		return nil, ErrMissingTableID
	}
	return claims, nil
}
