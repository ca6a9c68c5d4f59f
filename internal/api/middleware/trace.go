package middleware

import (
	"Bulletin/internal/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func TraceMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := c.GetHeader("X-Trace-ID")
		if traceID == "" {
			traceID = uuid.New().String()
		}

		c.Set(logger.TraceIDKey, traceID)
		c.Request = c.Request.WithContext(logger.WithTraceID(c.Request.Context(), traceID))

		c.Header("X-Trace-ID", traceID)
		c.Next()
	}
}
