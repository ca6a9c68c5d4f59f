package middleware

import (
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"
)

// CORSMiddleware 处理跨域请求，allowOrigins 为空时放行任意来源
func CORSMiddleware(allowOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")

		if origin != "" && (len(allowOrigins) == 0 || slices.Contains(allowOrigins, origin)) {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Origin, X-Requested-With, Content-Type, Accept, X-Trace-Id")
			c.Header("Access-Control-Expose-Headers", "Content-Length, Content-Type, X-Trace-Id")
			// 会话 cookie 需要携带凭证
			c.Header("Access-Control-Allow-Credentials", "true")
		}

		// 处理浏览器的 OPTIONS 预检请求
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
