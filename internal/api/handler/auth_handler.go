package handler

import (
	"Bulletin/internal/api/dto"
	"Bulletin/internal/model"
	"Bulletin/internal/pkg/consts"
	"Bulletin/internal/pkg/response"
	"Bulletin/internal/render"
	"Bulletin/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	sessionSvc service.SessionService
	loginPath  string
	homePath   string
}

func NewAuthHandler(sessionSvc service.SessionService, loginPath, homePath string) *AuthHandler {
	return &AuthHandler{
		sessionSvc: sessionSvc,
		loginPath:  loginPath,
		homePath:   homePath,
	}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginDTO
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, err)
		return
	}

	if _, err := h.sessionSvc.SignIn(c.Request.Context(), req.Email, req.Password, req.Remember); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, []dto.Effect{{Op: dto.OpRedirect, URL: h.homePath}})
}

// Logout 失败时停留在当前页
func (h *AuthHandler) Logout(c *gin.Context) {
	if !h.sessionSvc.SignOut(c.Request.Context()) {
		response.Success(c, []dto.Effect{})
		return
	}

	response.Success(c, []dto.Effect{{Op: dto.OpRedirect, URL: h.homePath}})
}

// Box 登录区片段，认证服务未就绪时按未登录显示
func (h *AuthHandler) Box(c *gin.Context) {
	ctx := c.Request.Context()

	var user *model.Identity
	if err := h.sessionSvc.Ready(ctx); err == nil {
		user = h.sessionSvc.CurrentUser(ctx)
	}

	response.Success(c, []dto.Effect{{
		Op:     dto.OpPaint,
		Target: consts.SelectorAuthBox,
		HTML:   render.AuthBox(user, h.loginPath),
	}})
}
