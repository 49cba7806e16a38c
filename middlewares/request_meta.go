package middlewares

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/yeremiapane/casino-floor/utils"
)

const RequestIDHeader = "X-Request-ID"

// RequestMeta stamps every request with an id and a start time, read back
// by the response envelope. A well-formed incoming X-Request-ID is kept.
func RequestMeta() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}

		meta := utils.RequestMeta{ID: id, Start: time.Now()}
		c.Request = c.Request.WithContext(utils.WithRequestMeta(c.Request.Context(), meta))
		c.Set("request_id", id)
		c.Header(RequestIDHeader, id)

		c.Next()
	}
}
