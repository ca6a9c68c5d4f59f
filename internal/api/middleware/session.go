package middleware

import (
	"Bulletin/internal/pkg/consts"
	"Bulletin/internal/service"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SessionMiddleware 识别浏览器会话，没有 cookie 时签发新的会话 id，并把已保存的令牌挂到请求上
func SessionMiddleware(sessionSvc service.SessionService, ttl time.Duration, secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		sid, err := c.Cookie(consts.SessionCookie)
		if err != nil || uuid.Validate(sid) != nil {
			sid = uuid.New().String()
		}
		// 每次请求续期
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(consts.SessionCookie, sid, int(ttl.Seconds()), "/", "", secure, true)

		c.Set(consts.SessionCookie, sid)
		ctx := service.WithSessionID(c.Request.Context(), sid)
		c.Request = c.Request.WithContext(sessionSvc.Bind(ctx))
		c.Next()
	}
}
