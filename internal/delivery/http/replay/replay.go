package http_replay

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	http_common "github.com/humanbelnik/columns/core/internal/delivery/http/common"
	usecase_replay "github.com/humanbelnik/columns/core/internal/usecase/replay"
)

type Controller struct {
	usecase *usecase_replay.Usecase
	logger  *slog.Logger
}

type ControllerOption func(*Controller)

func WithLogger(logger *slog.Logger) ControllerOption {
	return func(c *Controller) {
		c.logger = logger
	}
}

func New(usecase *usecase_replay.Usecase, opts ...ControllerOption) *Controller {
	c := &Controller{
		usecase: usecase,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	replays := router.Group("/replays")
	{
		replays.GET("", c.list)
		replays.GET("/:replay_id", c.get)
	}
}

func (c *Controller) list(ctx *gin.Context) {
	replays, err := c.usecase.List(ctx)
	if err != nil {
		c.logger.Error("failed to list replays", slog.String("error", err.Error()))
		ctx.JSON(http.StatusInternalServerError, http_common.ErrorResponse{
			Message: "internal error",
			Code:    http_common.CodeInternal,
		})
		return
	}

	ctx.JSON(http.StatusOK, replays)
}

func (c *Controller) get(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("replay_id"), 10, 64)
	if err != nil || id <= 0 {
		ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{
			Message: "replay id must be a positive number",
			Code:    http_common.CodeInvalidPayload,
		})
		return
	}

	replay, err := c.usecase.Get(ctx, id)
	if err != nil {
		if errors.Is(err, usecase_replay.ErrReplayNotFound) {
			ctx.JSON(http.StatusNotFound, http_common.ErrorResponse{
				Message: "not found",
				Code:    "REPLAY_NOT_FOUND",
			})
			return
		}
		c.logger.Error("failed to get replay", "replay_id", id, slog.String("error", err.Error()))
		ctx.JSON(http.StatusInternalServerError, http_common.ErrorResponse{
			Message: "internal error",
			Code:    http_common.CodeInternal,
		})
		return
	}

	ctx.JSON(http.StatusOK, replay)
}
