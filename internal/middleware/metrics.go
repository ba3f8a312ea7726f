package middleware

import (
	"time"

	"catalog-keeper/services"

	"github.com/gin-gonic/gin"
)

// MetricsMiddleware 按路由模板统计请求数、状态码和处理耗时
// 使用路由模板而不是实际路径，组件id不会进入指标标签
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		services.ObserveRequest(route, c.Request.Method, c.Writer.Status(), time.Since(start).Seconds())
	}
}
