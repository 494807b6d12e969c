package http_account

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	http_common "github.com/humanbelnik/columns/core/internal/delivery/http/common"
	"github.com/humanbelnik/columns/core/internal/model"
	usecase_account "github.com/humanbelnik/columns/core/internal/usecase/account"
)

type Controller struct {
	usecase *usecase_account.Usecase
	logger  *slog.Logger
}

type ControllerOption func(*Controller)

func WithLogger(logger *slog.Logger) ControllerOption {
	return func(c *Controller) {
		c.logger = logger
	}
}

func New(usecase *usecase_account.Usecase, opts ...ControllerOption) *Controller {
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
	router.POST("/register", c.register)
	router.POST("/login", c.login)
}

type CredentialsDTO struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type UserResponseDTO struct {
	Status   string       `json:"status"`
	UserID   model.UserID `json:"userId"`
	Username string       `json:"username"`
	Token    string       `json:"token,omitempty"`
}

func (c *Controller) register(ctx *gin.Context) {
	var req CredentialsDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		c.logger.Warn("invalid request format", "error", err)
		ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{
			Message: "Invalid request format",
			Code:    http_common.CodeInvalidPayload,
		})
		return
	}

	identity, err := c.usecase.Register(ctx, req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, usecase_account.ErrInvalidInput):
			ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{
				Message: err.Error(),
				Code:    http_common.CodeInvalidPayload,
			})
		case errors.Is(err, usecase_account.ErrUserExists):
			ctx.JSON(http.StatusConflict, http_common.ErrorResponse{
				Message: err.Error(),
				Code:    "USER_EXISTS",
			})
		default:
			c.logger.Error("failed to register user", slog.String("error", err.Error()))
			ctx.JSON(http.StatusInternalServerError, http_common.ErrorResponse{
				Message: "internal error",
				Code:    http_common.CodeInternal,
			})
		}
		return
	}

	c.logger.Info("user registered", "user_id", identity.UserID, "username", identity.Username)
	ctx.JSON(http.StatusCreated, UserResponseDTO{
		Status:   model.StatusSuccess,
		UserID:   identity.UserID,
		Username: identity.Username,
	})
}

func (c *Controller) login(ctx *gin.Context) {
	var req CredentialsDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		c.logger.Warn("invalid request format", "error", err)
		ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{
			Message: "Invalid request format",
			Code:    http_common.CodeInvalidPayload,
		})
		return
	}

	identity, token, err := c.usecase.Login(ctx, req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, usecase_account.ErrInvalidInput):
			ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{
				Message: err.Error(),
				Code:    http_common.CodeInvalidPayload,
			})
		case errors.Is(err, usecase_account.ErrInvalidCredentials):
			ctx.JSON(http.StatusUnauthorized, http_common.ErrorResponse{
				Message: err.Error(),
				Code:    "INVALID_CREDENTIALS",
			})
		default:
			c.logger.Error("failed to login", slog.String("error", err.Error()))
			ctx.JSON(http.StatusInternalServerError, http_common.ErrorResponse{
				Message: "internal error",
				Code:    http_common.CodeInternal,
			})
		}
		return
	}

	ctx.JSON(http.StatusOK, UserResponseDTO{
		Status:   model.StatusSuccess,
		UserID:   identity.UserID,
		Username: identity.Username,
		Token:    token,
	})
}
