package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"k8s.io/klog/v2"

	"github.com/orchestra-io/orchestra/internal/metrics"
)

// Metrics records request latency per matched route and logs the request.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		elapsed := time.Since(start)
		code := c.Writer.Status()

		metrics.HTTPRequestDuration.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(code)).
			Observe(elapsed.Seconds())

		klog.V(4).InfoS("HTTP request", "method", c.Request.Method, "path", c.Request.URL.Path,
			"code", code, "duration", elapsed, "requestID", GetRequestID(c))
	}
}
