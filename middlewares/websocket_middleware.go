package middlewares

import (
	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/casino-floor/utils"
)

// WebSocketAuthMiddleware authenticates upgrade requests, which carry the
// token as a query parameter.
func WebSocketAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			utils.AbortWithCode(c, utils.CodeUnauthorized, "token missing")
			return
		}
		bindToken(c, token)
	}
}
