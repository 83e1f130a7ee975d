package router

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mmenu/backend/internal/infrastructure/auth"
	"github.com/mmenu/backend/internal/infrastructure/config"
	"github.com/mmenu/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type pingRoutes struct {
	path string
}

func (p pingRoutes) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET(p.path, func(c *gin.Context) {
		ts, ok := middleware.GetTableSession(c)
		if ok {
			c.String(http.StatusOK, ts.Key())
			return
		}
		c.String(http.StatusOK, "pong")
	})
}

type healthRoutes struct{}

func (healthRoutes) RegisterRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
}

func serve(engine http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestNewRouter(t *testing.T) {
	r := NewRouter(gin.New())
	assert.Equal(t, "v1", r.apiVersion)
	assert.Empty(t, r.public)
	assert.Empty(t, r.protected)

	r = NewRouter(gin.New(), WithAPIVersion("v2"))
	assert.Equal(t, "v2", r.apiVersion)
}

func TestRouterSetup(t *testing.T) {
	engine := gin.New()
	deny := func(c *gin.Context) { c.AbortWithStatus(http.StatusUnauthorized) }
	NewRouter(engine, WithAPIVersion("v1"), WithAuth(deny)).
		Public(pingRoutes{path: "/ping"}).
		Protected(pingRoutes{path: "/private"}).
		Setup()

	w := serve(engine, httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())

	w = serve(engine, httptest.NewRequest(http.MethodGet, "/api/v1/private", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func newEngine(t *testing.T, limiter *middleware.RateLimiter) (*gin.Engine, string) {
	t.Helper()
	tokens := auth.NewSessionTokenService(config.JWTConfig{
		Secret:          "router-test-secret-at-least-32-chars",
		Issuer:          "test",
		SessionDuration: time.Hour,
	})
	issued, _, err := tokens.Issue(auth.IssueInput{RestaurantID: "r-demo", TableID: "t-2"})
	require.NoError(t, err)

	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(sdkmetric.NewManualReader()))
	engine := NewEngine(EngineConfig{
		HTTP: config.HTTPConfig{
			MaxBodySize:      1 << 10,
			CORSAllowOrigins: []string{"https://menu.example.com"},
			CORSAllowMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			CORSAllowHeaders: []string{"Content-Type", "Authorization"},
		},
		Meter:       mp.Meter("test"),
		Tokens:      tokens,
		RateLimiter: limiter,
	}, Handlers{
		Health:    healthRoutes{},
		Public:    []RouteRegistrar{pingRoutes{path: "/ping"}},
		Protected: []RouteRegistrar{pingRoutes{path: "/cart"}},
	})
	return engine, issued.Token
}

func TestNewEngine(t *testing.T) {
	engine, token := newEngine(t, nil)

	t.Run("health outside the api prefix", func(t *testing.T) {
		w := serve(engine, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
		assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	})

	t.Run("protected route needs a session", func(t *testing.T) {
		w := serve(engine, httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("protected route with a session", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
		req.Header.Set("Authorization", "Bearer "+token)

		w := serve(engine, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "r-demo:t-2", w.Body.String())
	})

	t.Run("preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/v1/cart", nil)
		req.Header.Set("Origin", "https://menu.example.com")

		w := serve(engine, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "https://menu.example.com", w.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestNewEngine_RateLimitsSessions(t *testing.T) {
	engine, token := newEngine(t, middleware.NewRateLimiter(0.001, 2))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		codes = append(codes, serve(engine, req).Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	w := serve(engine, httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil))
	assert.Equal(t, http.StatusOK, w.Code, "public routes are not throttled")
}
