package repository

import (
	"Bulletin/internal/model"
	"context"
	"errors"
)

var (
	// ErrPostNotFound 目标帖子不存在
	ErrPostNotFound = errors.New("post not found")
	// ErrPostRejected 后端拒绝写入（约束冲突等）
	ErrPostRejected = errors.New("post rejected by backend")
)

// PostRepo 帖子仓储。所有写操作都不做归属校验，归属由后端行级策略保证。
type PostRepo interface {
	// ListAll 返回全部帖子，按 created_at 倒序
	ListAll(ctx context.Context) ([]*model.Post, error)
	GetByID(ctx context.Context, id string) (*model.Post, error)
	// IncrementViews 直接覆盖 views 字段，调用方传入读到的值加一，后写者胜
	IncrementViews(ctx context.Context, id string, newValue int64) error
	Create(ctx context.Context, title, content, authorID, authorName string) (*model.Post, error)
	Update(ctx context.Context, id, title, content string) error
	Remove(ctx context.Context, id string) error
}

// ViewCounter 支持原子自增浏览量的仓储
type ViewCounter interface {
	AddViews(ctx context.Context, id string, delta int64) error
}
