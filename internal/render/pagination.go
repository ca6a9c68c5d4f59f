package render

import (
	"fmt"
	"strings"
)

// TotalPages ceil(total / pageSize)
func TotalPages(total, pageSize int) int {
	if pageSize <= 0 || total <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}

// Pagination 渲染翻页按钮，总页数不超过 1 时返回空串
func Pagination(total, pageSize, current int) string {
	pages := TotalPages(total, pageSize)
	if pages <= 1 {
		return ""
	}

	var b strings.Builder
	b.WriteString(pageButton("page-btn", current-1, "&lt;", current == 1))
	for i := 1; i <= pages; i++ {
		class := "page-btn"
		if i == current {
			class += " active"
		}
		b.WriteString(pageButton(class, i, fmt.Sprint(i), false))
	}
	b.WriteString(pageButton("page-btn", current+1, "&gt;", current == pages))
	return b.String()
}

func pageButton(class string, page int, label string, disabled bool) string {
	attr := ""
	if disabled {
		attr = " disabled"
	}
	return fmt.Sprintf(`<button class="%s" data-page="%d"%s>%s</button>`, class, page, attr, label)
}
