package middleware

import (
	"chat-threads/internal/services"
	"chat-threads/internal/transport/httpdto"
	"chat-threads/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorHandler renders errors attached with c.Error when the handler did not
// write a response itself.
func ErrorHandler(l *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		status := services.HTTPStatus(err)
		if l != nil && status >= 500 {
			l.ErrorCtx(c.Request.Context(), "request error", zap.Error(err))
		}
		if c.Writer.Written() {
			return
		}
		c.JSON(status, httpdto.NewErrorResponse(publicMessage(status, err), services.ErrorCode(err)))
	}
}

// publicMessage hides storage details from clients.
func publicMessage(status int, err error) string {
	if status >= 500 {
		return "internal error"
	}
	return err.Error()
}
