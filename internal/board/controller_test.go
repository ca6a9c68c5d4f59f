package board

import (
	"Bulletin/internal/api/dto"
	"Bulletin/internal/model"
	"Bulletin/internal/pkg/consts"
	"Bulletin/internal/render"
	"Bulletin/internal/repository"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	owner    = &model.Identity{ID: "u1", Email: "u1@example.com"}
	stranger = &model.Identity{ID: "u2", Email: "u2@example.com"}
)

func newTestController(repo repository.PostRepo, sessions *fakeSessions) (*Controller, *recordingView) {
	view := &recordingView{}
	deps := Deps{
		Repo:      repo,
		Sessions:  sessions,
		Renderer:  render.NewRenderer(time.UTC),
		PageSize:  10,
		LoginPath: "login.html",
	}
	return NewController(deps, NewState(), view), view
}

func rowNumbers(t *testing.T, rows string) []string {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<table><tbody>" + rows + "</tbody></table>"))
	require.NoError(t, err)
	var numbers []string
	doc.Find("tr.post-row").Each(func(_ int, s *goquery.Selection) {
		numbers = append(numbers, s.Find("td").First().Text())
	})
	return numbers
}

func TestLoad_PaintsAuthBoxAndFirstPage(t *testing.T) {
	ctx := context.Background()
	ctrl, view := newTestController(newMemRepo(seedPosts(25, "u1")...), &fakeSessions{user: owner})

	ctrl.Load(ctx)

	require.NotEmpty(t, view.effects)
	first := view.effects[0]
	assert.Equal(t, consts.SelectorAuthBox, first.target)
	assert.Contains(t, first.html, "u1@example.com")

	rows, ok := view.painted(consts.SelectorPostsBody)
	require.True(t, ok)
	numbers := rowNumbers(t, rows)
	assert.Len(t, numbers, 10)
	assert.Equal(t, "25", numbers[0])

	pages, ok := view.painted(consts.SelectorPagination)
	require.True(t, ok)
	assert.Equal(t, 5, strings.Count(pages, "<button"))

	assert.Equal(t, PhaseListing, ctrl.State().Phase)
	assert.Equal(t, 1, ctrl.State().CurrentPage)
	assert.Len(t, ctrl.State().Posts, 25)
}

func TestLoad_EmptyCollection(t *testing.T) {
	ctrl, view := newTestController(newMemRepo(), &fakeSessions{})

	ctrl.Load(context.Background())

	rows, _ := view.painted(consts.SelectorPostsBody)
	assert.Contains(t, rows, "No posts yet.")
	pages, ok := view.painted(consts.SelectorPagination)
	assert.True(t, ok)
	assert.Equal(t, "", pages)
}

func TestLoad_AuthNotReadyShowsLoggedOut(t *testing.T) {
	sessions := &fakeSessions{readyErr: errors.New("auth service unavailable"), user: owner}
	ctrl, view := newTestController(newMemRepo(seedPosts(3, "u1")...), sessions)

	ctrl.Load(context.Background())

	box, ok := view.painted(consts.SelectorAuthBox)
	require.True(t, ok)
	assert.Contains(t, box, "loginIcon")
	assert.NotContains(t, box, "u1@example.com")
	_, ok = view.painted(consts.SelectorPostsBody)
	assert.True(t, ok)
	assert.Empty(t, view.alerts)
}

func TestLoad_ListFailureAlerts(t *testing.T) {
	repo := newMemRepo()
	repo.listErr = errors.New("boom")
	ctrl, view := newTestController(repo, &fakeSessions{})

	ctrl.Load(context.Background())

	assert.Equal(t, []string{msgLoadFailed}, view.alerts)
	_, ok := view.painted(consts.SelectorPostsBody)
	assert.False(t, ok)
	assert.Equal(t, PhaseIdle, ctrl.State().Phase)
}

func TestLoad_RefreshStartsOver(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepo(seedPosts(25, "u1")...)
	ctrl, view := newTestController(repo, &fakeSessions{user: owner})
	ctrl.Load(ctx)
	ctrl.ChangePage(3)
	ctrl.SelectPost(ctx, "p00")
	require.Equal(t, PhaseDetailOpen, ctrl.State().Phase)
	view.reset()

	ctrl.Load(ctx)

	state := ctrl.State()
	assert.Equal(t, 1, state.CurrentPage)
	assert.Equal(t, PhaseListing, state.Phase)
	assert.Empty(t, state.DetailPostID)
	rows, _ := view.painted(consts.SelectorPostsBody)
	assert.Equal(t, "25", rowNumbers(t, rows)[0])

	// 刷新后旧的详情不能再被修改或删除
	view.reset()
	view.confirm = true
	ctrl.OpenEdit(ctx)
	ctrl.Delete(ctx)
	assert.Empty(t, view.effects)
	assert.Empty(t, repo.removed)

	repo.listErr = errors.New("boom")
	ctrl.Load(ctx)

	assert.Equal(t, []string{msgLoadFailed}, view.alerts)
	assert.Equal(t, PhaseIdle, ctrl.State().Phase)
	assert.Empty(t, ctrl.State().Posts)
	assert.Equal(t, 1, ctrl.State().CurrentPage)
}

func TestChangePage(t *testing.T) {
	ctrl, view := newTestController(newMemRepo(seedPosts(25, "u1")...), &fakeSessions{})
	ctrl.Load(context.Background())
	view.reset()

	ctrl.ChangePage(3)
	rows, _ := view.painted(consts.SelectorPostsBody)
	assert.Equal(t, []string{"5", "4", "3", "2", "1"}, rowNumbers(t, rows))
	assert.Equal(t, 3, ctrl.State().CurrentPage)
	assert.Equal(t, "scroll", view.effects[len(view.effects)-1].op)

	for _, page := range []int{0, -1, 4} {
		view.reset()
		ctrl.ChangePage(page)
		assert.Empty(t, view.effects, "page %d", page)
		assert.Equal(t, 3, ctrl.State().CurrentPage)
	}
}

func TestSelectPost_OverwritesViews(t *testing.T) {
	repo := newMemRepo(seedPosts(3, "u1")...)
	ctrl, view := newTestController(repo, &fakeSessions{user: owner})

	ctrl.SelectPost(context.Background(), "p02")

	assert.Equal(t, int64(3), repo.overwrite["p02"])
	detail, ok := view.painted(selectorDetailBody)
	require.True(t, ok)
	// 渲染的是读取时的值加一
	assert.Contains(t, detail, "Views: 3")
	assert.True(t, view.has("show", consts.ModalDetail))
	assert.Equal(t, PhaseDetailOpen, ctrl.State().Phase)
	assert.Equal(t, "p02", ctrl.State().DetailPostID)

	rows, ok := view.painted(consts.SelectorPostsBody)
	require.True(t, ok)
	assert.Contains(t, rows, "<td>3</td></tr>")
}

func TestSelectPost_PrefersAtomicCounter(t *testing.T) {
	repo := &countingRepo{memRepo: newMemRepo(seedPosts(3, "u1")...), added: map[string]int64{}}
	ctrl, _ := newTestController(repo, &fakeSessions{})

	ctrl.SelectPost(context.Background(), "p01")

	assert.Equal(t, int64(1), repo.added["p01"])
	assert.Empty(t, repo.overwrite)
}

func TestSelectPost_OwnershipControls(t *testing.T) {
	cases := []struct {
		name    string
		user    *model.Identity
		visible bool
	}{
		{"owner", owner, true},
		{"other user", stranger, false},
		{"anonymous", nil, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl, view := newTestController(newMemRepo(seedPosts(1, "u1")...), &fakeSessions{user: tc.user})

			ctrl.SelectPost(context.Background(), "p00")

			edit, ok := view.toggled(consts.SelectorEditButton)
			require.True(t, ok)
			assert.Equal(t, tc.visible, edit)
			del, ok := view.toggled(consts.SelectorDeleteButton)
			require.True(t, ok)
			assert.Equal(t, tc.visible, del)
		})
	}
}

func TestSelectPost_NotFound(t *testing.T) {
	ctrl, view := newTestController(newMemRepo(), &fakeSessions{})

	ctrl.SelectPost(context.Background(), "missing")

	assert.Equal(t, []string{msgPostFailed}, view.alerts)
	assert.False(t, view.has("show", consts.ModalDetail))
	assert.Equal(t, PhaseIdle, ctrl.State().Phase)
}

func TestOpenWrite_RequiresLogin(t *testing.T) {
	ctrl, view := newTestController(newMemRepo(), &fakeSessions{})

	ctrl.OpenWrite(context.Background())

	assert.Equal(t, []string{msgLoginRequired}, view.alerts)
	assert.Equal(t, "login.html", view.redirect)
	assert.False(t, view.has("show", consts.ModalWrite))
}

func TestOpenWrite_ClearsForm(t *testing.T) {
	ctrl, view := newTestController(newMemRepo(), &fakeSessions{user: owner})
	ctrl.State().FormPostID = "stale"

	ctrl.OpenWrite(context.Background())

	assert.Equal(t, "", ctrl.State().FormPostID)
	assert.Equal(t, PhaseWriteCreate, ctrl.State().Phase)
	require.Len(t, view.effects, 2)
	assert.Equal(t, WriteForm{Heading: headingCreate}, view.effects[0].form)
	assert.True(t, view.has("show", consts.ModalWrite))
}

func TestSubmit_EmptyFieldsMakeNoBackendCall(t *testing.T) {
	repo := newMemRepo()
	ctrl, view := newTestController(repo, &fakeSessions{user: owner})
	ctrl.OpenWrite(context.Background())
	view.reset()

	ctrl.Submit(context.Background(), dto.WriteFormDTO{Title: "   ", Content: "body"})
	ctrl.Submit(context.Background(), dto.WriteFormDTO{Title: "title", Content: "\n\t"})

	assert.Equal(t, []string{msgEmptyFields, msgEmptyFields}, view.alerts)
	assert.Empty(t, repo.created)
	assert.False(t, view.has("hide", consts.ModalWrite))
	assert.Equal(t, PhaseWriteCreate, ctrl.State().Phase)
}

func TestSubmit_LongTitleGoesToBackend(t *testing.T) {
	repo := newMemRepo()
	ctrl, view := newTestController(repo, &fakeSessions{user: owner})
	title := strings.Repeat("x", 300)

	ctrl.Submit(context.Background(), dto.WriteFormDTO{Title: title, Content: "body"})

	assert.Equal(t, []string{msgCreated}, view.alerts)
	require.Len(t, repo.created, 1)
	assert.Equal(t, title, repo.created[0].Title)
}

func TestSubmit_CreatesAsCurrentUser(t *testing.T) {
	repo := newMemRepo(seedPosts(2, "u2")...)
	sink := &mockSink{}
	sink.On("Publish", mock.Anything, mock.MatchedBy(func(e *model.PostEvent) bool {
		return e.Type == model.PostEventCreated && e.ActorID == "u1"
	})).Once()

	view := &recordingView{}
	ctrl := NewController(Deps{
		Repo:     repo,
		Sessions: &fakeSessions{user: owner},
		Events:   sink,
		PageSize: 10,
	}, NewState(), view)
	ctrl.OpenWrite(context.Background())

	ctrl.Submit(context.Background(), dto.WriteFormDTO{Title: "  Hello  ", Content: " world "})

	require.Len(t, repo.created, 1)
	created := repo.created[0]
	assert.Equal(t, "Hello", created.Title)
	assert.Equal(t, "world", created.Content)
	assert.Equal(t, "u1", created.AuthorID)
	assert.Equal(t, "u1@example.com", created.AuthorName)

	assert.Equal(t, []string{msgCreated}, view.alerts)
	assert.True(t, view.has("hide", consts.ModalWrite))
	assert.Equal(t, PhaseListing, ctrl.State().Phase)
	assert.Len(t, ctrl.State().Posts, 3)
	sink.AssertExpectations(t)
}

func TestSubmit_RequiresLogin(t *testing.T) {
	repo := newMemRepo()
	ctrl, view := newTestController(repo, &fakeSessions{})

	ctrl.Submit(context.Background(), dto.WriteFormDTO{Title: "t", Content: "c"})

	assert.Empty(t, repo.created)
	assert.Equal(t, "login.html", view.redirect)
}

func TestSubmit_FailureKeepsModalOpen(t *testing.T) {
	repo := newMemRepo()
	repo.saveErr = errors.New("rejected")
	ctrl, view := newTestController(repo, &fakeSessions{user: owner})
	ctrl.OpenWrite(context.Background())
	view.reset()

	ctrl.Submit(context.Background(), dto.WriteFormDTO{Title: "t", Content: "c"})

	assert.Equal(t, []string{msgSaveFailed}, view.alerts)
	assert.False(t, view.has("hide", consts.ModalWrite))
	assert.Equal(t, PhaseWriteCreate, ctrl.State().Phase)
}

func TestEditFlow(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepo(seedPosts(2, "u1")...)
	ctrl, view := newTestController(repo, &fakeSessions{user: owner})

	ctrl.SelectPost(ctx, "p01")
	view.reset()
	ctrl.OpenEdit(ctx)

	assert.True(t, view.has("hide", consts.ModalDetail))
	assert.True(t, view.has("show", consts.ModalWrite))
	assert.Equal(t, PhaseWriteEdit, ctrl.State().Phase)
	assert.Equal(t, "p01", ctrl.State().FormPostID)
	var form WriteForm
	for _, e := range view.effects {
		if e.op == "fill" {
			form = e.form
		}
	}
	assert.Equal(t, WriteForm{Title: "post 1", Content: "content", PostID: "p01", Heading: headingEdit}, form)

	view.reset()
	ctrl.Submit(ctx, dto.WriteFormDTO{Title: "edited", Content: "new body"})

	assert.Equal(t, []string{"p01"}, repo.updated)
	assert.Empty(t, repo.created)
	assert.Equal(t, []string{msgUpdated}, view.alerts)
	assert.Equal(t, "", ctrl.State().FormPostID)
	assert.Equal(t, "edited", repo.posts["p01"].Title)
}

func TestOpenEdit_RejectsNonOwner(t *testing.T) {
	ctx := context.Background()
	sessions := &fakeSessions{user: owner}
	ctrl, view := newTestController(newMemRepo(seedPosts(1, "u1")...), sessions)
	ctrl.SelectPost(ctx, "p00")
	view.reset()

	sessions.user = stranger
	ctrl.OpenEdit(ctx)

	assert.Equal(t, []string{msgNotOwner}, view.alerts)
	assert.False(t, view.has("show", consts.ModalWrite))
	assert.Equal(t, PhaseDetailOpen, ctrl.State().Phase)
}

func TestOpenEdit_WithoutDetailIsIgnored(t *testing.T) {
	ctrl, view := newTestController(newMemRepo(seedPosts(1, "u1")...), &fakeSessions{user: owner})

	ctrl.OpenEdit(context.Background())

	assert.Empty(t, view.effects)
}

func TestDelete_RequiresConfirmation(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepo(seedPosts(1, "u1")...)
	ctrl, view := newTestController(repo, &fakeSessions{user: owner})
	ctrl.SelectPost(ctx, "p00")
	view.reset()

	view.confirm = false
	ctrl.Delete(ctx)

	assert.Equal(t, []string{msgConfirmDelete}, view.asked)
	assert.Empty(t, repo.removed)
	assert.Empty(t, view.effects)
	assert.Equal(t, PhaseDetailOpen, ctrl.State().Phase)
}

func TestDelete_ByOwner(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepo(seedPosts(11, "u1")...)
	ctrl, view := newTestController(repo, &fakeSessions{user: owner})
	ctrl.Load(ctx)
	ctrl.ChangePage(2)
	ctrl.SelectPost(ctx, "p10")
	view.reset()

	view.confirm = true
	ctrl.Delete(ctx)

	assert.Equal(t, []string{"p10"}, repo.removed)
	assert.Equal(t, []string{msgDeleted}, view.alerts)
	assert.True(t, view.has("hide", consts.ModalDetail))
	assert.Equal(t, PhaseListing, ctrl.State().Phase)
	assert.Equal(t, "", ctrl.State().DetailPostID)
	// 第 2 页已不存在，退回到最后一页
	assert.Equal(t, 1, ctrl.State().CurrentPage)
	pages, _ := view.painted(consts.SelectorPagination)
	assert.Equal(t, "", pages)
}

func TestDelete_ByNonOwner(t *testing.T) {
	ctx := context.Background()
	sessions := &fakeSessions{user: owner}
	repo := newMemRepo(seedPosts(1, "u1")...)
	ctrl, view := newTestController(repo, sessions)
	ctrl.SelectPost(ctx, "p00")
	view.reset()

	sessions.user = stranger
	view.confirm = true
	ctrl.Delete(ctx)

	assert.Empty(t, repo.removed)
	assert.Equal(t, []string{msgNotOwner}, view.alerts)
}

func TestDelete_BackendFailure(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepo(seedPosts(1, "u1")...)
	ctrl, view := newTestController(repo, &fakeSessions{user: owner})
	ctrl.SelectPost(ctx, "p00")
	view.reset()

	repo.saveErr = errors.New("permission denied")
	view.confirm = true
	ctrl.Delete(ctx)

	assert.Equal(t, []string{msgDeleteFailed}, view.alerts)
	assert.False(t, view.has("hide", consts.ModalDetail))
	assert.Equal(t, PhaseDetailOpen, ctrl.State().Phase)
}

func TestCloseModal(t *testing.T) {
	ctx := context.Background()
	ctrl, view := newTestController(newMemRepo(seedPosts(1, "u1")...), &fakeSessions{user: owner})
	ctrl.SelectPost(ctx, "p00")
	view.reset()

	ctrl.CloseModal(consts.ModalDetail)
	assert.True(t, view.has("hide", consts.ModalDetail))
	assert.Equal(t, PhaseListing, ctrl.State().Phase)
	assert.Equal(t, "", ctrl.State().DetailPostID)

	view.reset()
	ctrl.CloseModal("unknown-modal")
	assert.Empty(t, view.effects)
}

func TestCanModify(t *testing.T) {
	post := &model.Post{ID: "p1", AuthorID: "u1"}

	assert.True(t, CanModify(owner, post))
	assert.False(t, CanModify(stranger, post))
	assert.False(t, CanModify(nil, post))
	assert.False(t, CanModify(owner, nil))
	assert.False(t, CanModify(&model.Identity{}, &model.Post{}))
}
