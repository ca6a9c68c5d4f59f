package board

import (
	"Bulletin/internal/model"
	"Bulletin/internal/render"
)

// Phase 看板所处阶段
type Phase string

const (
	PhaseIdle        Phase = "idle"
	PhaseListing     Phase = "listing"
	PhaseDetailOpen  Phase = "detail_open"
	PhaseWriteCreate Phase = "write_create"
	PhaseWriteEdit   Phase = "write_edit"
)

// State 一个浏览器会话的看板状态，在事件之间持久化
type State struct {
	Posts        []*model.Post `json:"posts"`
	CurrentPage  int           `json:"current_page"`
	Phase        Phase         `json:"phase"`
	DetailPostID string        `json:"detail_post_id,omitempty"`
	FormPostID   string        `json:"form_post_id,omitempty"`
}

func NewState() *State {
	return &State{
		Posts:       []*model.Post{},
		CurrentPage: 1,
		Phase:       PhaseIdle,
	}
}

func (s *State) TotalPages(pageSize int) int {
	return render.TotalPages(len(s.Posts), pageSize)
}

// settle 弹窗关闭后回到列表，尚未成功加载过则保持 Idle
func (s *State) settle() {
	if s.Phase != PhaseIdle {
		s.Phase = PhaseListing
	}
}
