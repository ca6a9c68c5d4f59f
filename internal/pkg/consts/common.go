package consts

const (
	DefaultPageSize = 10
)

// 页面约定的选择器
const (
	SelectorAuthBox      = ".auth-container"
	SelectorPostsBody    = ".posts-table tbody"
	SelectorPagination   = ".pagination"
	SelectorEditButton   = ".edit-btn"
	SelectorDeleteButton = ".delete-btn"
	SelectorWriteHeading = "#write-modal .modal-header h3"
)

const (
	ModalWrite  = "write-modal"
	ModalDetail = "detail-modal"
)

const (
	// SessionCookie 浏览器会话 cookie
	SessionCookie = "board_sid"
	// AuthTokenKeyFormat 托管后端会话令牌的固定存储键
	AuthTokenKeyFormat = "sb-%s-auth-token"
)
