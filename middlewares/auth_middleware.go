package middlewares

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/casino-floor/utils"
)

// AuthMiddleware validates the bearer token and binds the staff member to
// the request context.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.AbortWithCode(c, utils.CodeUnauthorized, "authorization header missing")
			return
		}
		if !strings.HasPrefix(authHeader, "Bearer ") {
			utils.AbortWithCode(c, utils.CodeUnauthorized, "invalid token format")
			return
		}

		bindToken(c, strings.TrimPrefix(authHeader, "Bearer "))
	}
}

func bindToken(c *gin.Context, tokenString string) {
	claims, err := utils.ValidateToken(tokenString)
	if err != nil {
		utils.AbortWithCode(c, utils.CodeUnauthorized, "invalid or expired token")
		return
	}

	actor := utils.Actor{StaffID: claims.StaffID, CasinoID: claims.CasinoID, Role: claims.Role}
	if actor.StaffID == "" || actor.CasinoID == "" {
		utils.AbortWithCode(c, utils.CodeUnauthorized, "token carries no staff binding")
		return
	}

	c.Request = c.Request.WithContext(utils.WithActor(c.Request.Context(), actor))
	c.Set("staff_id", actor.StaffID)
	c.Set("casino_id", actor.CasinoID)
	c.Set("role", actor.Role)
	c.Set("token", tokenString)

	c.Next()
}
