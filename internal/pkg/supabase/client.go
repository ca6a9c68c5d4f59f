package supabase

import (
	"Bulletin/internal/api/config"
	"Bulletin/internal/pkg/logger"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"
)

type ctxKey struct{}

// WithAccessToken 把用户的 access token 放进 context，后续请求以用户身份访问后端
func WithAccessToken(ctx context.Context, token string) context.Context {
	if token == "" {
		return ctx
	}
	return context.WithValue(ctx, ctxKey{}, token)
}

// AccessToken 读取 context 中的 access token
func AccessToken(ctx context.Context) string {
	token, _ := ctx.Value(ctxKey{}).(string)
	return token
}

// Client 托管后端 (Supabase) 的 HTTP 客户端
type Client struct {
	http    *resty.Client
	anonKey string
}

// NewClient 创建客户端；url 为项目根地址，例如 https://<ref>.supabase.co
func NewClient(cfg config.BackendConfig) *Client {
	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	httpClient := resty.New().
		SetBaseURL(strings.TrimRight(cfg.URL, "/")).
		SetTimeout(timeout).
		SetHeader("apikey", cfg.AnonKey).
		SetHeader("Accept", "application/json").
		SetJSONMarshaler(json.Marshal).
		SetJSONUnmarshaler(json.Unmarshal)
	logger.SetupResty(httpClient)

	return &Client{http: httpClient, anonKey: cfg.AnonKey}
}

// R 创建请求：带上 context，并以用户 token 或匿名 key 作为 Bearer
func (c *Client) R(ctx context.Context) *resty.Request {
	token := AccessToken(ctx)
	if token == "" {
		token = c.anonKey
	}
	return c.http.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetError(&APIError{})
}

// APIError 后端返回的错误体，兼容 GoTrue 与 PostgREST 的字段
type APIError struct {
	Status           int    `json:"-"`
	Code             any    `json:"code"`
	Message          string `json:"message"`
	Msg              string `json:"msg"`
	Details          string `json:"details"`
	Hint             string `json:"hint"`
	ErrorCode        string `json:"error_code"`
	ErrorName        string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Msg
	}
	if msg == "" {
		msg = e.ErrorDescription
	}
	if msg == "" {
		msg = e.ErrorName
	}
	return fmt.Sprintf("backend error (status %d, code %v): %s", e.Status, e.CodeString(), msg)
}

// CodeString PostgREST 返回 SQLSTATE 字符串，GoTrue 返回数字状态码
func (e *APIError) CodeString() string {
	switch v := e.Code.(type) {
	case string:
		return v
	case float64:
		return fmt.Sprintf("%d", int(v))
	case nil:
		return e.ErrorCode
	default:
		return fmt.Sprint(v)
	}
}

// AsError 把失败响应转成 *APIError
func AsError(resp *resty.Response) error {
	if !resp.IsError() {
		return nil
	}
	apiErr, ok := resp.Error().(*APIError)
	if !ok || apiErr == nil {
		apiErr = &APIError{Message: resp.String()}
	}
	apiErr.Status = resp.StatusCode()
	return apiErr
}
