package http_room

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	http_common "github.com/humanbelnik/columns/core/internal/delivery/http/common"
	usecase_room "github.com/humanbelnik/columns/core/internal/usecase/room"
)

type Controller struct {
	lobby  *usecase_room.Lobby
	logger *slog.Logger
}

type ControllerOption func(*Controller)

func WithLogger(logger *slog.Logger) ControllerOption {
	return func(c *Controller) {
		c.logger = logger
	}
}

func New(lobby *usecase_room.Lobby, opts ...ControllerOption) *Controller {
	c := &Controller{
		lobby:  lobby,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/rooms", c.list)
}

func (c *Controller) list(ctx *gin.Context) {
	rooms, err := c.lobby.Available(ctx)
	if err != nil {
		c.logger.Error("failed to list rooms", slog.String("error", err.Error()))
		ctx.JSON(http.StatusInternalServerError, http_common.ErrorResponse{
			Message: "internal error",
			Code:    http_common.CodeInternal,
		})
		return
	}

	ctx.JSON(http.StatusOK, rooms)
}
