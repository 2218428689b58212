package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"bloglist/internal/core/metrics"
)

func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		path := c.FullPath()
		if path == "" {
			// 未匹配路由统一归档，避免 label 基数爆炸
			path = "unmatched"
		}
		metrics.ObserveHTTPRequest(path, c.Request.Method, strconv.Itoa(c.Writer.Status()), time.Since(start))
	}
}
