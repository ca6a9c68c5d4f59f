// Package board 实现看板控制器：列表加载、翻页、详情、写帖/改帖/删帖以及按归属显示操作按钮。
package board

import (
	"Bulletin/internal/api/dto"
	"Bulletin/internal/model"
	"Bulletin/internal/pkg/consts"
	"Bulletin/internal/pkg/util"
	"Bulletin/internal/render"
	"Bulletin/internal/repository"
	"context"
	log "log/slog"
	"strings"
	"time"
)

const (
	msgLoadFailed    = "Failed to load posts."
	msgPostFailed    = "Failed to load the post."
	msgSaveFailed    = "Failed to save the post."
	msgDeleteFailed  = "Failed to delete the post."
	msgLoginRequired = "Please log in first."
	msgEmptyFields   = "Please enter both a title and content."
	msgNotOwner      = "You can only change your own posts."
	msgConfirmDelete = "Delete this post?"
	msgCreated       = "Your post has been published."
	msgUpdated       = "Your post has been updated."
	msgDeleted       = "The post has been deleted."

	headingCreate = "Write"
	headingEdit   = "Edit post"

	selectorDetailBody = "#" + consts.ModalDetail + " .post-detail"
)

// Deps 控制器的长生命周期依赖
type Deps struct {
	Repo      repository.PostRepo
	Sessions  SessionProvider
	Renderer  *render.Renderer
	Events    EventSink
	PageSize  int
	LoginPath string
}

// Controller 处理单个浏览器会话的一次界面事件
type Controller struct {
	deps  Deps
	state *State
	view  View
}

func NewController(deps Deps, state *State, view View) *Controller {
	if deps.PageSize <= 0 {
		deps.PageSize = consts.DefaultPageSize
	}
	if deps.Events == nil {
		deps.Events = noopSink{}
	}
	if deps.Renderer == nil {
		deps.Renderer = render.NewRenderer(time.UTC)
	}
	if state == nil {
		state = NewState()
	}
	return &Controller{deps: deps, state: state, view: view}
}

func (c *Controller) State() *State {
	return c.state
}

// CanModify 只有作者本人能看到修改/删除按钮
func CanModify(user *model.Identity, post *model.Post) bool {
	return user != nil && post != nil && user.ID != "" && user.ID == post.AuthorID
}

// Load 页面就绪：每次都从第一页、无弹窗开始，等待认证服务，刷新登录区，再加载列表
func (c *Controller) Load(ctx context.Context) {
	*c.state = *NewState()

	var user *model.Identity
	if err := c.deps.Sessions.Ready(ctx); err != nil {
		log.WarnContext(ctx, "auth not ready, showing logged-out view", "err", err)
	} else {
		user = c.deps.Sessions.CurrentUser(ctx)
	}
	c.view.Paint(consts.SelectorAuthBox, render.AuthBox(user, c.deps.LoginPath))

	c.reload(ctx)
}

// SelectPost 打开详情：读取、累加浏览量、显示弹窗，再刷新列表以反映新的浏览量
func (c *Controller) SelectPost(ctx context.Context, postID string) {
	post, err := c.deps.Repo.GetByID(ctx, postID)
	if err != nil {
		log.ErrorContext(ctx, "get post failed", "post_id", postID, "err", err)
		c.view.Alert(msgPostFailed)
		return
	}

	c.countView(ctx, post)
	c.showDetail(ctx, post)
	c.reload(ctx)
}

// OpenWrite 打开新建弹窗，未登录则跳转登录页
func (c *Controller) OpenWrite(ctx context.Context) {
	if c.deps.Sessions.CurrentUser(ctx) == nil {
		c.requireLogin()
		return
	}

	c.state.FormPostID = ""
	c.view.FillForm(WriteForm{Heading: headingCreate})
	c.view.ShowModal(consts.ModalWrite)
	c.state.Phase = PhaseWriteCreate
}

// OpenEdit 从详情进入修改，仅作者本人可用
func (c *Controller) OpenEdit(ctx context.Context) {
	if c.state.Phase != PhaseDetailOpen || c.state.DetailPostID == "" {
		log.WarnContext(ctx, "edit requested without an open post", "phase", c.state.Phase)
		return
	}

	post, err := c.deps.Repo.GetByID(ctx, c.state.DetailPostID)
	if err != nil {
		log.ErrorContext(ctx, "get post for edit failed", "post_id", c.state.DetailPostID, "err", err)
		c.view.Alert(msgPostFailed)
		return
	}
	if !CanModify(c.deps.Sessions.CurrentUser(ctx), post) {
		c.view.Alert(msgNotOwner)
		return
	}

	c.view.HideModal(consts.ModalDetail)
	c.state.DetailPostID = ""
	c.state.FormPostID = post.ID
	c.view.FillForm(WriteForm{
		Title:   post.Title,
		Content: post.Content,
		PostID:  post.ID,
		Heading: headingEdit,
	})
	c.view.ShowModal(consts.ModalWrite)
	c.state.Phase = PhaseWriteEdit
}

// Submit 提交写帖表单：表单带帖子 id 时修改，否则新建
func (c *Controller) Submit(ctx context.Context, form dto.WriteFormDTO) {
	form.Title = strings.TrimSpace(form.Title)
	form.Content = strings.TrimSpace(form.Content)
	if fieldErr := util.ValidateDTO(&form); fieldErr != nil {
		c.view.Alert(msgEmptyFields)
		return
	}

	user := c.deps.Sessions.CurrentUser(ctx)
	if user == nil {
		c.requireLogin()
		return
	}

	event := &model.PostEvent{ActorID: user.ID, OccurredAt: time.Now()}
	if postID := c.state.FormPostID; postID != "" {
		if err := c.deps.Repo.Update(ctx, postID, form.Title, form.Content); err != nil {
			log.ErrorContext(ctx, "update post failed", "post_id", postID, "err", err)
			c.view.Alert(msgSaveFailed)
			return
		}
		event.Type, event.PostID = model.PostEventUpdated, postID
		c.view.Alert(msgUpdated)
	} else {
		post, err := c.deps.Repo.Create(ctx, form.Title, form.Content, user.ID, user.DisplayName())
		if err != nil {
			log.ErrorContext(ctx, "create post failed", "err", err)
			c.view.Alert(msgSaveFailed)
			return
		}
		event.Type, event.PostID = model.PostEventCreated, post.ID
		c.view.Alert(msgCreated)
	}
	c.deps.Events.Publish(ctx, event)

	c.view.HideModal(consts.ModalWrite)
	c.state.FormPostID = ""
	c.state.Phase = PhaseListing
	c.reload(ctx)
}

// Delete 删除详情中的帖子，须先经过确认
func (c *Controller) Delete(ctx context.Context) {
	if !c.view.Confirm(msgConfirmDelete) {
		return
	}

	postID := c.state.DetailPostID
	if c.state.Phase != PhaseDetailOpen || postID == "" {
		log.WarnContext(ctx, "delete requested without an open post", "phase", c.state.Phase)
		return
	}

	post, err := c.deps.Repo.GetByID(ctx, postID)
	if err != nil {
		log.ErrorContext(ctx, "get post for delete failed", "post_id", postID, "err", err)
		c.view.Alert(msgDeleteFailed)
		return
	}
	user := c.deps.Sessions.CurrentUser(ctx)
	if !CanModify(user, post) {
		c.view.Alert(msgNotOwner)
		return
	}

	if err = c.deps.Repo.Remove(ctx, postID); err != nil {
		log.ErrorContext(ctx, "delete post failed", "post_id", postID, "err", err)
		c.view.Alert(msgDeleteFailed)
		return
	}
	c.deps.Events.Publish(ctx, &model.PostEvent{
		Type:       model.PostEventDeleted,
		PostID:     postID,
		ActorID:    user.ID,
		OccurredAt: time.Now(),
	})

	c.view.Alert(msgDeleted)
	c.view.HideModal(consts.ModalDetail)
	c.state.DetailPostID = ""
	c.state.Phase = PhaseListing
	c.reload(ctx)
}

// ChangePage 越界页码不做任何事
func (c *Controller) ChangePage(page int) {
	if page < 1 || page > c.state.TotalPages(c.deps.PageSize) {
		return
	}

	c.state.CurrentPage = page
	c.paintList()
	c.view.ScrollTop()
}

// CloseModal 列表/取消/关闭按钮以及点击遮罩
func (c *Controller) CloseModal(modal string) {
	switch modal {
	case consts.ModalWrite:
		c.state.FormPostID = ""
	case consts.ModalDetail:
		c.state.DetailPostID = ""
	default:
		return
	}
	c.view.HideModal(modal)
	c.state.settle()
}

func (c *Controller) reload(ctx context.Context) bool {
	posts, err := c.deps.Repo.ListAll(ctx)
	if err != nil {
		log.ErrorContext(ctx, "list posts failed", "err", err)
		c.view.Alert(msgLoadFailed)
		return false
	}

	c.state.Posts = posts
	if pages := c.state.TotalPages(c.deps.PageSize); c.state.CurrentPage > pages {
		c.state.CurrentPage = max(pages, 1)
	}
	if c.state.Phase == PhaseIdle {
		c.state.Phase = PhaseListing
	}
	c.paintList()
	return true
}

func (c *Controller) paintList() {
	c.view.Paint(consts.SelectorPostsBody, c.deps.Renderer.List(c.state.Posts, c.state.CurrentPage, c.deps.PageSize))
	c.view.Paint(consts.SelectorPagination, render.Pagination(len(c.state.Posts), c.deps.PageSize, c.state.CurrentPage))
}

func (c *Controller) showDetail(ctx context.Context, post *model.Post) {
	c.view.Paint(selectorDetailBody, c.deps.Renderer.Detail(post))

	visible := CanModify(c.deps.Sessions.CurrentUser(ctx), post)
	c.view.Toggle(consts.SelectorEditButton, visible)
	c.view.Toggle(consts.SelectorDeleteButton, visible)

	c.view.ShowModal(consts.ModalDetail)
	c.state.DetailPostID = post.ID
	c.state.Phase = PhaseDetailOpen
}

// countView 仓储支持时原子自增，否则按读到的值加一覆盖
func (c *Controller) countView(ctx context.Context, post *model.Post) {
	var err error
	if counter, ok := c.deps.Repo.(repository.ViewCounter); ok {
		err = counter.AddViews(ctx, post.ID, 1)
	} else {
		err = c.deps.Repo.IncrementViews(ctx, post.ID, post.Views+1)
	}
	if err != nil {
		log.WarnContext(ctx, "increment views failed", "post_id", post.ID, "err", err)
		return
	}

	event := &model.PostEvent{Type: model.PostEventViewed, PostID: post.ID, OccurredAt: time.Now()}
	if user := c.deps.Sessions.CurrentUser(ctx); user != nil {
		event.ActorID = user.ID
	}
	c.deps.Events.Publish(ctx, event)
}

func (c *Controller) requireLogin() {
	c.view.Alert(msgLoginRequired)
	c.view.Redirect(c.deps.LoginPath)
}
