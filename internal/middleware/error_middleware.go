package middleware

import (
	"net/http"

	"login-api/internal/transport/httpdto"
	"login-api/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorHandler logs errors attached with c.Error and answers with a generic
// 500 when the handler did not write a response itself.
func ErrorHandler(l *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		log := l
		if log == nil {
			log = logger.GetGlobalLogger()
		}
		for _, e := range c.Errors {
			log.WithContext(c.Request.Context()).Error("request error", zap.Error(e.Err))
		}

		if !c.Writer.Written() {
			c.JSON(http.StatusInternalServerError, httpdto.NewErrorResponse("erro interno"))
		}
	}
}
