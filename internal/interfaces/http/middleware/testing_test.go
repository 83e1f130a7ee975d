package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// serve runs one request through a router with the given middleware and a
// handler answering 200 on GET and POST /test
func serve(t *testing.T, req *http.Request, mw ...gin.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	r := gin.New()
	r.Use(mw...)
	ok := func(c *gin.Context) { c.String(http.StatusOK, "ok") }
	r.GET("/test", ok)
	r.POST("/test", ok)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
