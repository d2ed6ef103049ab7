package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ministry-site/core/internal/pkg/response"
)

// BodyLimit rejects requests whose declared length exceeds n and caps reads
// of the body at n bytes.
func BodyLimit(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > n {
			response.PayloadTooLarge(c)
			return
		}
		if c.Request.Body != nil && c.Request.Body != http.NoBody {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		}
		c.Next()
	}
}
