package supabase

import (
	"Bulletin/internal/model"
	"context"

	"github.com/pkg/errors"
)

// Health 探测认证服务是否可用
func (c *Client) Health(ctx context.Context) error {
	resp, err := c.http.R().SetContext(ctx).Get("/auth/v1/health")
	if err != nil {
		return errors.Wrap(err, "auth health")
	}
	if resp.IsError() {
		return errors.Errorf("auth health: status %d", resp.StatusCode())
	}
	return nil
}

// GetUser 以 access token 查询当前用户
func (c *Client) GetUser(ctx context.Context, accessToken string) (*model.Identity, error) {
	var user model.Identity
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(accessToken).
		SetResult(&user).
		SetError(&APIError{}).
		Get("/auth/v1/user")
	if err != nil {
		return nil, errors.Wrap(err, "auth get user")
	}
	if err = AsError(resp); err != nil {
		return nil, err
	}
	return &user, nil
}

// SignOut 使后端会话失效
func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(accessToken).
		SetError(&APIError{}).
		Post("/auth/v1/logout")
	if err != nil {
		return errors.Wrap(err, "auth sign out")
	}
	return AsError(resp)
}

// SignInWithPassword 邮箱密码登录
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*model.AuthSession, error) {
	var session model.AuthSession
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("grant_type", "password").
		SetBody(map[string]string{"email": email, "password": password}).
		SetResult(&session).
		SetError(&APIError{}).
		Post("/auth/v1/token")
	if err != nil {
		return nil, errors.Wrap(err, "auth sign in")
	}
	if err = AsError(resp); err != nil {
		return nil, err
	}
	return &session, nil
}

// RefreshSession 用 refresh token 换取新会话
func (c *Client) RefreshSession(ctx context.Context, refreshToken string) (*model.AuthSession, error) {
	var session model.AuthSession
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("grant_type", "refresh_token").
		SetBody(map[string]string{"refresh_token": refreshToken}).
		SetResult(&session).
		SetError(&APIError{}).
		Post("/auth/v1/token")
	if err != nil {
		return nil, errors.Wrap(err, "auth refresh")
	}
	if err = AsError(resp); err != nil {
		return nil, err
	}
	return &session, nil
}
