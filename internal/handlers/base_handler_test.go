package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"estatedesk_backend/internal/middleware"
	"estatedesk_backend/internal/validator"
	"estatedesk_backend/pkg/contextkeys"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newDBProbeRouter(pool *gorm.DB, got **gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	base := NewBaseHandler(validator.New())

	engine := gin.New()
	engine.Use(middleware.DBMiddleware(pool))
	engine.GET("/probe", func(c *gin.Context) {
		*got = base.GetDB(c)
		c.Status(http.StatusOK)
	})
	return engine
}

func TestGetDB_PoolFromMiddleware(t *testing.T) {
	pool := &gorm.DB{}
	var got *gorm.DB
	engine := newDBProbeRouter(pool, &got)

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Same(t, pool, got, "handlers see the shared pool by default")
}

func TestGetDB_RequestTransactionOverridesPool(t *testing.T) {
	pool := &gorm.DB{}
	tx := &gorm.DB{}
	var got *gorm.DB
	engine := newDBProbeRouter(pool, &got)

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req = req.WithContext(context.WithValue(req.Context(), contextkeys.DBContextKey, tx))
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Same(t, tx, got, "an injected transaction shadows the pool for the request")
}

func TestGetDB_PanicsWithoutMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	base := NewBaseHandler(validator.New())

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/probe", nil)

	assert.Panics(t, func() { base.GetDB(c) })
}
