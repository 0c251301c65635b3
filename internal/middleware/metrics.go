package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/wellbeing-api/internal/service"
)

const unmatchedRoute = "unmatched"

// Metrics records request latency per route template. Unknown paths share one label so
// probes against random URLs cannot grow the series count.
func Metrics(metricsSvc *service.MetricsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if metricsSvc == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}
		if route == "/metrics" {
			return
		}
		metricsSvc.ObserveHTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
