package board

import (
	"Bulletin/internal/model"
	"Bulletin/internal/repository"
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"
)

// memRepo 内存帖子仓储，记录写操作
type memRepo struct {
	mu      sync.Mutex
	posts   map[string]*model.Post
	seq     int
	listErr error
	getErr  error
	saveErr error

	created   []*model.Post
	updated   []string
	removed   []string
	overwrite map[string]int64
}

func newMemRepo(posts ...*model.Post) *memRepo {
	r := &memRepo{posts: make(map[string]*model.Post), overwrite: make(map[string]int64)}
	for _, p := range posts {
		r.posts[p.ID] = p
	}
	return r
}

func (r *memRepo) ListAll(context.Context) ([]*model.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	list := make([]*model.Post, 0, len(r.posts))
	for _, p := range r.posts {
		cp := *p
		list = append(list, &cp)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return list, nil
}

func (r *memRepo) GetByID(_ context.Context, id string) (*model.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.getErr != nil {
		return nil, r.getErr
	}
	p, ok := r.posts[id]
	if !ok {
		return nil, repository.ErrPostNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *memRepo) IncrementViews(_ context.Context, id string, newValue int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.overwrite[id] = newValue
	if p, ok := r.posts[id]; ok {
		p.Views = newValue
	}
	return nil
}

func (r *memRepo) Create(_ context.Context, title, content, authorID, authorName string) (*model.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return nil, r.saveErr
	}
	r.seq++
	p := &model.Post{
		ID:         fmt.Sprintf("new-%d", r.seq),
		Title:      title,
		Content:    content,
		AuthorID:   authorID,
		AuthorName: authorName,
		CreatedAt:  time.Now(),
	}
	r.posts[p.ID] = p
	r.created = append(r.created, p)
	return p, nil
}

func (r *memRepo) Update(_ context.Context, id, title, content string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	p, ok := r.posts[id]
	if !ok {
		return repository.ErrPostNotFound
	}
	p.Title, p.Content = title, content
	r.updated = append(r.updated, id)
	return nil
}

func (r *memRepo) Remove(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	if _, ok := r.posts[id]; !ok {
		return repository.ErrPostNotFound
	}
	delete(r.posts, id)
	r.removed = append(r.removed, id)
	return nil
}

// countingRepo 带原子自增能力的仓储
type countingRepo struct {
	*memRepo
	added map[string]int64
}

func (r *countingRepo) AddViews(_ context.Context, id string, delta int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.added[id] += delta
	if p, ok := r.posts[id]; ok {
		p.Views += delta
	}
	return nil
}

type fakeSessions struct {
	readyErr error
	user     *model.Identity
}

func (s *fakeSessions) Ready(context.Context) error {
	return s.readyErr
}

func (s *fakeSessions) CurrentUser(context.Context) *model.Identity {
	return s.user
}

type mockSink struct {
	mock.Mock
}

func (m *mockSink) Publish(ctx context.Context, event *model.PostEvent) {
	m.Called(ctx, event)
}

type effect struct {
	op      string
	target  string
	html    string
	visible bool
	form    WriteForm
}

// recordingView 按顺序记录控制器产生的界面操作
type recordingView struct {
	effects  []effect
	confirm  bool
	asked    []string
	alerts   []string
	redirect string
}

func (v *recordingView) Paint(selector, html string) {
	v.effects = append(v.effects, effect{op: "paint", target: selector, html: html})
}

func (v *recordingView) ShowModal(id string) {
	v.effects = append(v.effects, effect{op: "show", target: id})
}

func (v *recordingView) HideModal(id string) {
	v.effects = append(v.effects, effect{op: "hide", target: id})
}

func (v *recordingView) Toggle(selector string, visible bool) {
	v.effects = append(v.effects, effect{op: "toggle", target: selector, visible: visible})
}

func (v *recordingView) FillForm(form WriteForm) {
	v.effects = append(v.effects, effect{op: "fill", form: form})
}

func (v *recordingView) Alert(message string) {
	v.alerts = append(v.alerts, message)
	v.effects = append(v.effects, effect{op: "alert", html: message})
}

func (v *recordingView) Confirm(message string) bool {
	v.asked = append(v.asked, message)
	return v.confirm
}

func (v *recordingView) Redirect(url string) {
	v.redirect = url
	v.effects = append(v.effects, effect{op: "redirect", target: url})
}

func (v *recordingView) ScrollTop() {
	v.effects = append(v.effects, effect{op: "scroll"})
}

// painted 返回最后一次绘制到 selector 的内容
func (v *recordingView) painted(selector string) (string, bool) {
	for i := len(v.effects) - 1; i >= 0; i-- {
		if e := v.effects[i]; e.op == "paint" && e.target == selector {
			return e.html, true
		}
	}
	return "", false
}

func (v *recordingView) has(op, target string) bool {
	for _, e := range v.effects {
		if e.op == op && e.target == target {
			return true
		}
	}
	return false
}

func (v *recordingView) toggled(selector string) (bool, bool) {
	for i := len(v.effects) - 1; i >= 0; i-- {
		if e := v.effects[i]; e.op == "toggle" && e.target == selector {
			return e.visible, true
		}
	}
	return false, false
}

func (v *recordingView) reset() {
	v.effects, v.alerts, v.asked, v.redirect = nil, nil, nil, ""
}

func seedPosts(n int, authorID string) []*model.Post {
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	posts := make([]*model.Post, n)
	for i := 0; i < n; i++ {
		posts[i] = &model.Post{
			ID:         fmt.Sprintf("p%02d", i),
			Title:      fmt.Sprintf("post %d", i),
			Content:    "content",
			AuthorID:   authorID,
			AuthorName: authorID + "@example.com",
			CreatedAt:  base.Add(-time.Duration(i) * time.Minute),
			Views:      int64(i),
		}
	}
	return posts
}
