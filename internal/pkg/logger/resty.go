package logger

import (
	log "log/slog"
	"time"

	"github.com/go-resty/resty/v2"
)

const bodyLimit = 1000

// SetupResty 为托管后端客户端挂载请求日志
func SetupResty(client *resty.Client) {
	client.OnAfterResponse(func(_ *resty.Client, resp *resty.Response) error {
		req := resp.Request
		elapsed := resp.Time()

		fields := []any{
			log.String("method", req.Method),
			log.String("url", req.URL),
			log.Int("status", resp.StatusCode()),
			log.Duration("latency", elapsed),
		}
		if resp.IsError() {
			fields = append(fields, log.String("res_body", truncate(resp.String())))
			log.WarnContext(req.Context(), "BACKEND_ERROR", fields...)
			return nil
		}

		if elapsed > 500*time.Millisecond {
			log.WarnContext(req.Context(), "BACKEND_SLOW", fields...)
		} else {
			log.InfoContext(req.Context(), "BACKEND_CALL", fields...)
		}
		return nil
	})

	client.OnError(func(req *resty.Request, err error) {
		log.ErrorContext(req.Context(), "BACKEND_TRANSPORT_ERROR",
			log.String("method", req.Method),
			log.String("url", req.URL),
			log.Any("err", err),
		)
	})
}

func truncate(s string) string {
	if len(s) > bodyLimit {
		return s[:bodyLimit] + "...[truncated]"
	}
	return s
}
