package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// BodyLimit rejects request bodies larger than limit bytes. Declared sizes are
// checked upfront; chunked bodies fail with *http.MaxBytesError when read.
func BodyLimit(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limit <= 0 || c.Request.Body == nil {
			c.Next()
			return
		}

		if c.Request.ContentLength > limit {
			body := gin.H{"error": "Request body is too large."}
			if requestID := GetRequestID(c); requestID != "" {
				body["request_id"] = requestID
			}
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, body)
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		c.Next()
	}
}
