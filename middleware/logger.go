package middleware

import (
	"time"

	"github.com/loomline/catalog_end/utils"

	"github.com/gin-gonic/gin"
)

// RequestLogger logs each request with latency and status.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		utils.LogApiRequest(c.Request.Method, path, c.Request.URL.Query(), nil, map[string]string{
			"Authorization": c.GetHeader("Authorization"),
		})

		c.Next()

		utils.LogApiResponse(c.Request.Method, path, c.Writer.Status(), time.Since(start), nil)
	}
}
