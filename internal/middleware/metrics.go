package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/campushub/college-api/internal/service"
)

// Metrics observes every request's method, route template, status, and
// latency. Unmatched routes fall back to the raw path so 404s still show up.
func Metrics(metricsSvc *service.MetricsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if metricsSvc == nil || c.Request.URL.Path == "/metrics" {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		metricsSvc.ObserveHTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
