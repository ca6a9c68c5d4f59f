package dto

// Effect 页面脚本按顺序执行的一条界面操作
type Effect struct {
	Op      string `json:"op"`
	Target  string `json:"target,omitempty"`
	HTML    string `json:"html,omitempty"`
	Visible *bool  `json:"visible,omitempty"`
	Message string `json:"message,omitempty"`
	URL     string `json:"url,omitempty"`
	Title   string `json:"title,omitempty"`
	Content string `json:"content,omitempty"`
	PostID  string `json:"post_id,omitempty"`
	Heading string `json:"heading,omitempty"`
}

const (
	OpPaint     = "paint"
	OpShowModal = "show_modal"
	OpHideModal = "hide_modal"
	OpToggle    = "toggle"
	OpFillForm  = "fill_form"
	OpAlert     = "alert"
	OpRedirect  = "redirect"
	OpScrollTop = "scroll_top"
)
