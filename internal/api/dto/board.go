package dto

// WriteFormDTO 写帖/改帖表单
type WriteFormDTO struct {
	Title   string `form:"title" json:"title" validate:"required"`
	Content string `form:"content" json:"content" validate:"required"`
}

// LoginDTO 邮箱密码登录
type LoginDTO struct {
	Email    string `form:"email" json:"email" binding:"required,email"`
	Password string `form:"password" json:"password" binding:"required"`
	Remember bool   `form:"remember" json:"remember"`
}

// DeleteDTO 删除前浏览器确认框的结果
type DeleteDTO struct {
	Confirm bool `form:"confirm" json:"confirm"`
}

// PageDTO 翻页
type PageDTO struct {
	Page int `uri:"page"`
}

// PostIDDTO 选择帖子
type PostIDDTO struct {
	PostID string `uri:"post_id" binding:"required"`
}

// ModalDTO 关闭弹窗
type ModalDTO struct {
	Modal string `uri:"modal" binding:"required,oneof=write-modal detail-modal"`
}
