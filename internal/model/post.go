package model

import (
	"bytes"
	"time"

	"github.com/goccy/go-json"
)

// Post 看板帖子，列名与托管后端的 posts 表一致
type Post struct {
	ID         string    `gorm:"primaryKey;type:varchar(64)" json:"id"`
	Title      string    `gorm:"type:varchar(255);not null" json:"title"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	AuthorID   string    `gorm:"type:varchar(64);not null;index:idx_author_id" json:"author_id"`
	AuthorName string    `gorm:"type:varchar(255);not null" json:"author_name"`
	CreatedAt  time.Time `gorm:"not null;index:idx_created_at" json:"created_at"`
	Views      int64     `gorm:"not null;default:0" json:"views"`
}

func (Post) TableName() string {
	return "posts"
}

// UnmarshalJSON 后端的 id 列可能是 bigint 也可能是 uuid，统一按原样转成字符串
func (p *Post) UnmarshalJSON(data []byte) error {
	type plain Post
	aux := struct {
		ID json.RawMessage `json:"id"`
		*plain
	}{plain: (*plain)(p)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	raw := bytes.TrimSpace(aux.ID)
	switch {
	case len(raw) == 0 || bytes.Equal(raw, []byte("null")):
		p.ID = ""
	case raw[0] == '"':
		return json.Unmarshal(raw, &p.ID)
	default:
		p.ID = string(raw)
	}
	return nil
}
