package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	cartapp "github.com/mmenu/backend/internal/application/cart"
	"github.com/mmenu/backend/internal/infrastructure/auth"
	"github.com/mmenu/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

var testSession = cartapp.TableSession{RestaurantID: "r-demo", TableID: "t-7", UserID: "u-1", UserName: "Minh"}

// withSession stands in for SessionAuth
func withSession(c *gin.Context) {
	c.Set(middleware.SessionClaimsKey, &auth.Claims{
		RestaurantID: testSession.RestaurantID,
		TableID:      testSession.TableID,
		UserID:       testSession.UserID,
		UserName:     testSession.UserName,
	})
	c.Set(middleware.RequestIDKey, "req-1")
	c.Next()
}

type registrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

func newTestRouter(h registrar, mw ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	api := r.Group("/api/v1")
	api.Use(mw...)
	h.RegisterRoutes(api)
	return r
}

func doRequest(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code      string `json:"code"`
		Message   string `json:"message"`
		RequestID string `json:"request_id"`
		Details   []struct {
			Field   string `json:"field"`
			Message string `json:"message"`
		} `json:"details"`
	} `json:"error"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}
