package render

import (
	"Bulletin/internal/model"
	"fmt"
)

const (
	emailDisplayMax  = 20
	emailDisplayKeep = 17
)

// AuthBox 顶部登录区：已登录显示邮箱与退出按钮，未登录显示登录入口
func AuthBox(user *model.Identity, loginPath string) string {
	if user == nil {
		return fmt.Sprintf(`<a href="%s" class="login-icon" id="loginIcon"><span>Log in</span></a>`, Escape(loginPath))
	}

	email := []rune(user.Email)
	display := user.Email
	if len(email) > emailDisplayMax {
		display = string(email[:emailDisplayKeep]) + "..."
	}
	return fmt.Sprintf(
		`<div class="user-info"><span class="user-email">%s</span><button class="logout-btn" id="logoutBtn">Log out</button></div>`,
		Escape(display),
	)
}
