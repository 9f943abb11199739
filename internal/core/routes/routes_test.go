package routes

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"assetdesk/internal/core/container"
	"assetdesk/internal/rate_limiter"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupRouter(t *testing.T, limit int) *gin.Engine {
	t.Helper()
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gin.SetMode(gin.TestMode)
	router := gin.New()
	RegisterAPIRoutes(router, container.NewAppContainer(db, zap.NewNop()), rate_limiter.NewRateLimiter(limit, time.Minute))
	RegisterUtilityRoutes(router, db)
	return router
}

func TestRoutesAreRegistered(t *testing.T) {
	router := setupRouter(t, 10)

	registered := map[string]bool{}
	for _, route := range router.Routes() {
		registered[route.Method+" "+route.Path] = true
	}

	for _, route := range []string{
		"POST /assets",
		"GET /assets",
		"GET /assets/summary",
		"GET /assets/:id",
		"PATCH /assets/:id",
		"DELETE /assets/:id",
		"POST /employees",
		"GET /employees",
		"DELETE /employees/:id",
		"POST /assignments",
		"GET /assignments",
		"PUT /assignments/return/:id",
		"GET /history",
		"GET /health",
		"GET /metrics",
	} {
		assert.True(t, registered[route], route)
	}
}

func TestWritesAreRateLimited(t *testing.T) {
	router := setupRouter(t, 0)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/assets", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
