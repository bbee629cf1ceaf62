package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthController_Status(t *testing.T) {
	t.Run("returns healthy when database is connected", func(t *testing.T) {
		router, _, cleanup := setupRouterTestDB(t)
		defer cleanup()

		w := doRequest(router, "GET", "/health", "")
		assert.Equal(t, http.StatusOK, w.Code)

		var response HealthResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "healthy", response.Status)
		assert.Equal(t, "test", response.Version)
		assert.Equal(t, "ok", response.Checks["database"])
		assert.Equal(t, "ok", response.Checks["schema"])
		assert.NotEmpty(t, response.Time)
	})

	t.Run("returns unhealthy when database is closed", func(t *testing.T) {
		router, db, cleanup := setupRouterTestDB(t)
		defer cleanup()
		require.NoError(t, db.Close())

		w := doRequest(router, "GET", "/health", "")
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})

	t.Run("returns unhealthy when a lending table is missing", func(t *testing.T) {
		router, db, cleanup := setupRouterTestDB(t)
		defer cleanup()
		require.NoError(t, db.DB.Migrator().DropTable("loans"))

		w := doRequest(router, "GET", "/health", "")
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)

		var response HealthResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "ok", response.Checks["database"])
		assert.Equal(t, "missing tables: loans", response.Checks["schema"])
	})

	t.Run("reports a missing database", func(t *testing.T) {
		gin.SetMode(gin.TestMode)
		controller := NewHealthController(nil, "1.0.0")
		router := gin.New()
		router.GET("/health", controller.Status)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/health", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		var response HealthResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "not configured", response.Checks["database"])
	})
}
