package middleware

import (
	"context"

	"login-api/internal/services"
	"login-api/internal/transport/httpdto"
	"login-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware requires an "Authorization: Bearer token_..." header and
// stores the login carried by the token in the request context. The token is
// not checked against any server-side state.
func AuthMiddleware(tokens *services.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := services.ParseBearer(c.GetHeader("Authorization"))
		if err == nil {
			err = tokens.Validate(token)
		}
		if err != nil {
			c.JSON(services.HTTPStatus(err), httpdto.NewErrorResponse(err.Error()))
			c.Abort()
			return
		}

		login := tokens.LoginFromToken(token)
		ctx := services.WithLoginContext(c.Request.Context(), login)
		ctx = context.WithValue(ctx, logger.LoginKey, login)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
