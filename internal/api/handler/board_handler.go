package handler

import (
	"Bulletin/internal/api/dto"
	"Bulletin/internal/board"
	"Bulletin/internal/pkg/response"
	"Bulletin/internal/service"
	"context"

	"github.com/gin-gonic/gin"
)

type BoardHandler struct {
	dispatcher *board.Dispatcher
}

func NewBoardHandler(dispatcher *board.Dispatcher) *BoardHandler {
	return &BoardHandler{
		dispatcher: dispatcher,
	}
}

// run 在当前浏览器会话上执行一次事件并返回收集到的 effect
func (h *BoardHandler) run(c *gin.Context, confirm bool, event func(ctx context.Context, ctrl *board.Controller)) {
	ctx := c.Request.Context()
	sid := service.SessionID(ctx)
	if sid == "" {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	view := newEffectView(confirm)
	if err := h.dispatcher.Dispatch(ctx, sid, view, event); err != nil {
		response.Error(c, service.ErrSessionStore)
		return
	}
	response.Success(c, view.effects)
}

func (h *BoardHandler) Load(c *gin.Context) {
	h.run(c, false, func(ctx context.Context, ctrl *board.Controller) {
		ctrl.Load(ctx)
	})
}

func (h *BoardHandler) ChangePage(c *gin.Context) {
	// 越界页码交给控制器忽略，只有非数字才算参数错误
	var req dto.PageDTO
	if err := c.ShouldBindUri(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	h.run(c, false, func(_ context.Context, ctrl *board.Controller) {
		ctrl.ChangePage(req.Page)
	})
}

func (h *BoardHandler) SelectPost(c *gin.Context) {
	var req dto.PostIDDTO
	if err := c.ShouldBindUri(&req); err != nil {
		response.Error(c, err)
		return
	}

	h.run(c, false, func(ctx context.Context, ctrl *board.Controller) {
		ctrl.SelectPost(ctx, req.PostID)
	})
}

func (h *BoardHandler) OpenWrite(c *gin.Context) {
	h.run(c, false, func(ctx context.Context, ctrl *board.Controller) {
		ctrl.OpenWrite(ctx)
	})
}

func (h *BoardHandler) OpenEdit(c *gin.Context) {
	h.run(c, false, func(ctx context.Context, ctrl *board.Controller) {
		ctrl.OpenEdit(ctx)
	})
}

func (h *BoardHandler) Submit(c *gin.Context) {
	// 空字段由控制器提示，这里只做绑定
	var req dto.WriteFormDTO
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, err)
		return
	}

	h.run(c, false, func(ctx context.Context, ctrl *board.Controller) {
		ctrl.Submit(ctx, req)
	})
}

func (h *BoardHandler) Delete(c *gin.Context) {
	var req dto.DeleteDTO
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, err)
		return
	}

	h.run(c, req.Confirm, func(ctx context.Context, ctrl *board.Controller) {
		ctrl.Delete(ctx)
	})
}

func (h *BoardHandler) CloseModal(c *gin.Context) {
	var req dto.ModalDTO
	if err := c.ShouldBindUri(&req); err != nil {
		response.Error(c, err)
		return
	}

	h.run(c, false, func(_ context.Context, ctrl *board.Controller) {
		ctrl.CloseModal(req.Modal)
	})
}
