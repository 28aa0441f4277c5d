package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mossy-p/livestream-gateway/internal/logging"
)

// Recovery turns a panicking handler into a 500 JSON response.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				l := logging.Ctx(c.Request.Context())
				l.Error().Interface("panic", r).Msg("handler panicked")
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error": "Internal server error",
				})
			}
		}()
		c.Next()
	}
}
