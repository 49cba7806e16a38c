package middlewares

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/casino-floor/services"
	"github.com/yeremiapane/casino-floor/utils"
)

// RequireCapability refuses requests whose role does not grant capability.
// It must run after AuthMiddleware.
func RequireCapability(capability string) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := utils.ActorFrom(c.Request.Context())
		if !ok {
			utils.AbortWithCode(c, utils.CodeUnauthorized, "unauthorized")
			return
		}
		if !services.Allowed(actor.Role, capability) {
			utils.AbortWithCode(c, utils.CodeForbidden, fmt.Sprintf("%s access required", capability))
			return
		}
		c.Next()
	}
}
