package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// BodySizeLimiter rejects requests whose body is bigger than maxBytes.
// Bodies without a Content-Length are cut off while being read, which
// makes binding in the handler fail.
func BodySizeLimiter(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Fast reject for legit requests
		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{
				"message":   "Request body size exceeds limit",
				"requestID": c.GetString("requestID"),
			})
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
