package service

import "context"

type sessionIDKey struct{}

// WithSessionID 记录当前请求所属的浏览器会话
func WithSessionID(ctx context.Context, sid string) context.Context {
	return context.WithValue(ctx, sessionIDKey{}, sid)
}

// SessionID 读取当前请求所属的浏览器会话
func SessionID(ctx context.Context) string {
	sid, _ := ctx.Value(sessionIDKey{}).(string)
	return sid
}
