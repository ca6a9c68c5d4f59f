package render

import (
	"Bulletin/internal/model"
	"fmt"
	"strings"
	"time"
)

const (
	listDateLayout   = "2006. 1. 2."
	detailDateLayout = "2006. 1. 2. 15:04:05"
)

// Renderer 持有日期显示所用的时区，其余都是纯函数
type Renderer struct {
	loc *time.Location
}

func NewRenderer(loc *time.Location) *Renderer {
	if loc == nil {
		loc = time.UTC
	}
	return &Renderer{loc: loc}
}

// List 渲染第 page 页的表格行；posts 需已按时间倒序。编号从 total-offset 倒数。
func (r *Renderer) List(posts []*model.Post, page, pageSize int) string {
	start, end := pageBounds(len(posts), page, pageSize)
	if start >= end {
		return `<tr><td colspan="5" class="empty-row">No posts yet.</td></tr>`
	}

	var b strings.Builder
	for i, post := range posts[start:end] {
		number := len(posts) - start - i
		id := Escape(post.ID)
		fmt.Fprintf(&b,
			`<tr class="post-row" data-id="%s"><td>%d</td><td class="title-cell"><a href="#" class="post-title" data-id="%s">%s</a></td><td>%s</td><td>%s</td><td>%d</td></tr>`,
			id, number, id, Escape(post.Title), Escape(post.AuthorName),
			post.CreatedAt.In(r.loc).Format(listDateLayout), post.Views,
		)
	}
	return b.String()
}

// Detail 渲染详情；显示的浏览量为读到的值加一，即本次浏览之后的值
func (r *Renderer) Detail(post *model.Post) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<h2 class="post-detail-title">%s</h2>`, Escape(post.Title))
	b.WriteString(`<div class="post-meta">`)
	fmt.Fprintf(&b, `<span class="post-author">Author: %s</span>`, Escape(post.AuthorName))
	fmt.Fprintf(&b, `<span class="post-date">Posted: %s</span>`, post.CreatedAt.In(r.loc).Format(detailDateLayout))
	fmt.Fprintf(&b, `<span class="post-views">Views: %d</span>`, post.Views+1)
	b.WriteString(`</div>`)
	fmt.Fprintf(&b, `<div class="post-detail-content"><p>%s</p></div>`, multiline(post.Content))
	return b.String()
}

func pageBounds(total, page, pageSize int) (int, int) {
	if pageSize <= 0 || page < 1 {
		return 0, 0
	}
	start := (page - 1) * pageSize
	if start >= total {
		return total, total
	}
	return start, min(start+pageSize, total)
}
