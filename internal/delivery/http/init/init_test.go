package http_init

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type pingController struct{}

func (pingController) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/ping", func(ctx *gin.Context) {
		ctx.String(http.StatusOK, "pong")
	})
}

func TestRegisterAppliesMiddlewarePerController(t *testing.T) {
	gin.SetMode(gin.TestMode)
	pool := NewControllerPool(slog.Default())
	deny := func(ctx *gin.Context) {
		ctx.AbortWithStatus(http.StatusTeapot)
	}
	pool.Add(pingController{})
	pool.Add(guardedController{}, deny)
	pool.Register()

	w := httptest.NewRecorder()
	pool.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	pool.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/secret", nil))
	assert.Equal(t, http.StatusTeapot, w.Code)
}

type guardedController struct{}

func (guardedController) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/secret", func(ctx *gin.Context) {
		ctx.Status(http.StatusOK)
	})
}
