package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/EgehanKilicarslan/speertweet/backend-go/internal/metrics"
)

// unmatchedRoute keeps label cardinality bounded for 404 traffic
const unmatchedRoute = "unmatched"

// Metrics records request count, latency and in-flight requests per route template.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		metrics.HTTPRequestsInFlight.Inc()
		defer metrics.HTTPRequestsInFlight.Dec()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}
		method := c.Request.Method

		metrics.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(c.Writer.Status())).Inc()
		metrics.HTTPRequestDurationSeconds.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}
