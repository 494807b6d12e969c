package http_init

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	apiPrefix       = "/api/v1"
	shutdownTimeout = 5 * time.Second
)

type Controller interface {
	RegisterRoutes(router *gin.RouterGroup)
}

type entry struct {
	controller  Controller
	middlewares []gin.HandlerFunc
}

type ControllerPool struct {
	pool   []entry
	rg     *gin.RouterGroup
	engine *gin.Engine
	logger *slog.Logger
}

func NewControllerPool(logger *slog.Logger) *ControllerPool {
	engine := gin.Default()
	rg := engine.Group(apiPrefix)
	return &ControllerPool{
		pool:   make([]entry, 0, 10),
		rg:     rg,
		engine: engine,
		logger: logger,
	}
}

// Add queues a controller; middlewares apply to its routes only.
func (pool *ControllerPool) Add(c Controller, middlewares ...gin.HandlerFunc) {
	pool.pool = append(pool.pool, entry{controller: c, middlewares: middlewares})
}

func (pool *ControllerPool) Register() {
	for _, e := range pool.pool {
		e.controller.RegisterRoutes(pool.rg.Group("", e.middlewares...))
	}
}

func (pool *ControllerPool) Handler() http.Handler {
	return pool.engine
}

// RunAll serves until ctx is cancelled, then shuts the server down.
func (pool *ControllerPool) RunAll(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:    addr,
		Handler: pool.engine,
	}

	errCh := make(chan error, 1)
	go func() {
		pool.logger.Info("http server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
