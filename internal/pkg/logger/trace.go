package logger

import (
	"context"
	log "log/slog"
)

type ctxKey string

// TraceIDKey gin.Context 与 context.Context 中的 trace id 键
const TraceIDKey = "trace_id"

const traceCtxKey ctxKey = TraceIDKey

// WithTraceID 把 trace id 放进 context
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceCtxKey, traceID)
}

// TraceID 读取 context 中的 trace id
func TraceID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(traceCtxKey).(string)
	return id
}

// ContextHandler 包装器，用于从 ctx 中提取 trace_id
type ContextHandler struct {
	log.Handler
}

func (h *ContextHandler) Handle(ctx context.Context, r log.Record) error {
	if traceID := TraceID(ctx); traceID != "" {
		r.AddAttrs(log.String(TraceIDKey, traceID))
	}
	return h.Handler.Handle(ctx, r)
}

func (h *ContextHandler) WithAttrs(attrs []log.Attr) log.Handler {
	return &ContextHandler{h.Handler.WithAttrs(attrs)}
}

func (h *ContextHandler) WithGroup(name string) log.Handler {
	return &ContextHandler{h.Handler.WithGroup(name)}
}
