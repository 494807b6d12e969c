package http_ready_middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	http_common "github.com/humanbelnik/columns/core/internal/delivery/http/common"
)

// Required answers 503 until ready reports true.
func Required(ready func() bool) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if ready() {
			ctx.Next()
			return
		}

		ctx.JSON(http.StatusServiceUnavailable, http_common.ErrorResponse{
			Message: "server is initializing, try again shortly",
			Code:    http_common.CodeServerNotReady,
		})
		ctx.Abort()
	}
}
