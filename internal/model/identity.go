package model

// Identity 托管认证服务返回的当前用户
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// DisplayName 作者名取登录邮箱
func (i *Identity) DisplayName() string {
	return i.Email
}

// AuthSession 登录后托管认证服务下发的会话
type AuthSession struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	TokenType    string    `json:"token_type"`
	ExpiresIn    int64     `json:"expires_in"`
	ExpiresAt    int64     `json:"expires_at"`
	User         *Identity `json:"user"`
}
