package handler

import (
	"Bulletin/internal/api/dto"
	"Bulletin/internal/board"
	"Bulletin/internal/pkg/consts"
)

// effectView 把控制器的界面操作按顺序收集成响应里的 effect 列表
type effectView struct {
	effects []dto.Effect
	confirm bool
}

func newEffectView(confirm bool) *effectView {
	return &effectView{effects: []dto.Effect{}, confirm: confirm}
}

func (v *effectView) add(e dto.Effect) {
	v.effects = append(v.effects, e)
}

func (v *effectView) Paint(selector, html string) {
	v.add(dto.Effect{Op: dto.OpPaint, Target: selector, HTML: html})
}

func (v *effectView) ShowModal(id string) {
	v.add(dto.Effect{Op: dto.OpShowModal, Target: id})
}

func (v *effectView) HideModal(id string) {
	v.add(dto.Effect{Op: dto.OpHideModal, Target: id})
}

func (v *effectView) Toggle(selector string, visible bool) {
	v.add(dto.Effect{Op: dto.OpToggle, Target: selector, Visible: &visible})
}

func (v *effectView) FillForm(form board.WriteForm) {
	v.add(dto.Effect{
		Op:      dto.OpFillForm,
		Target:  consts.ModalWrite,
		Title:   form.Title,
		Content: form.Content,
		PostID:  form.PostID,
		Heading: form.Heading,
	})
}

func (v *effectView) Alert(message string) {
	v.add(dto.Effect{Op: dto.OpAlert, Message: message})
}

// Confirm 浏览器端已经弹过确认框，这里只回放用户的选择
func (v *effectView) Confirm(string) bool {
	return v.confirm
}

func (v *effectView) Redirect(url string) {
	v.add(dto.Effect{Op: dto.OpRedirect, URL: url})
}

func (v *effectView) ScrollTop() {
	v.add(dto.Effect{Op: dto.OpScrollTop})
}
