package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/mmenu/backend/internal/infrastructure/persistence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func serveHealth(db DatabaseChecker, path string) *httptest.ResponseRecorder {
	r := gin.New()
	NewHealthHandler(db).RegisterRoutes(r)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestHealthHandler(t *testing.T) {
	t.Run("ready with pool stats", func(t *testing.T) {
		db := new(MockDatabase)
		db.On("Ping", mock.Anything).Return(nil)
		db.On("Stats").Return(persistence.ConnectionStats{MaxOpenConnections: 25, Idle: 2}, nil)

		w := serveHealth(db, "/health/ready")

		require.Equal(t, http.StatusOK, w.Code)
		var body map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "healthy", body["status"])
		assert.Contains(t, body, "pool")
	})

	t.Run("database down", func(t *testing.T) {
		db := new(MockDatabase)
		db.On("Ping", mock.Anything).Return(errors.New("connection refused"))

		w := serveHealth(db, "/health")

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Contains(t, w.Body.String(), "unhealthy")
	})

	t.Run("liveness skips the database", func(t *testing.T) {
		db := new(MockDatabase)

		w := serveHealth(db, "/health/live")

		assert.Equal(t, http.StatusOK, w.Code)
		db.AssertNotCalled(t, "Ping", mock.Anything)
	})
}
