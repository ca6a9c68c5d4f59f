package board

import (
	"Bulletin/internal/model"
	"context"
)

// WriteForm 写帖弹窗的表单内容
type WriteForm struct {
	Title   string
	Content string
	PostID  string
	Heading string
}

// View 控制器对页面的全部副作用
type View interface {
	Paint(selector, html string)
	ShowModal(id string)
	HideModal(id string)
	Toggle(selector string, visible bool)
	FillForm(form WriteForm)
	Alert(message string)
	// Confirm 阻塞式确认，返回用户是否同意
	Confirm(message string) bool
	Redirect(url string)
	ScrollTop()
}

// SessionProvider 控制器只关心就绪与当前用户
type SessionProvider interface {
	Ready(ctx context.Context) error
	CurrentUser(ctx context.Context) *model.Identity
}

// EventSink 帖子事件出口
type EventSink interface {
	Publish(ctx context.Context, event *model.PostEvent)
}

type noopSink struct{}

func (noopSink) Publish(context.Context, *model.PostEvent) {}
