package middleware

import (
	"bytes"
	"io"
	log "log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

type responseBodyWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (r *responseBodyWriter) Write(b []byte) (int, error) {
	if r.body.Len() < 16384 {
		r.body.Write(b)
	}
	return r.ResponseWriter.Write(b)
}

func (r *responseBodyWriter) Flush() {
	if flusher, ok := r.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

const redacted = "[REDACTED]"

// AuditMiddleware 记录请求与响应，sensitivePaths 下的请求体不落日志
func AuditMiddleware(sensitivePaths ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		var reqBody []byte
		if isSensitive(c.Request.URL.Path, sensitivePaths) {
			reqBody = []byte(redacted)
		} else if c.Request.Body != nil {
			reqBody, _ = io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewBuffer(reqBody))
		}

		rawQuery := c.Request.URL.RawQuery
		decodedQuery, err := url.QueryUnescape(rawQuery)
		if err != nil {
			decodedQuery = rawQuery
		}

		log.InfoContext(ctx, "Recv Request",
			log.String("method", c.Request.Method),
			log.String("path", c.Request.URL.Path),
			log.String("query", decodedQuery),
			log.String("req_body", string(reqBody)),
		)

		w := &responseBodyWriter{body: &bytes.Buffer{}, ResponseWriter: c.Writer}
		c.Writer = w
		startTime := time.Now()

		c.Next()

		log.InfoContext(ctx, "Send Response",
			log.Int("status", c.Writer.Status()),
			log.Duration("latency", time.Since(startTime)),
			log.String("res_body", w.body.String()),
		)
	}
}

func isSensitive(path string, sensitivePaths []string) bool {
	for _, p := range sensitivePaths {
		if strings.HasSuffix(path, p) {
			return true
		}
	}
	return false
}
