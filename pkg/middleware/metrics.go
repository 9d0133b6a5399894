package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ablecloud-team/ablecloud-crm/pkg/metrics"
)

// Metrics returns a middleware that records HTTP metrics by route pattern
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if metrics.ShouldSkipEndpoint(c.Request.URL.Path) {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		m.RecordHTTPRequest(c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
	}
}
