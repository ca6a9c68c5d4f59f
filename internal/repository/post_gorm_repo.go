package repository

import (
	"Bulletin/internal/model"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MySQL 约束类错误码
var rejectedCodes = map[uint16]struct{}{
	1048: {}, // column cannot be null
	1062: {}, // duplicate entry
	1406: {}, // data too long
	1452: {}, // foreign key
	3819: {}, // check constraint
}

type gormPostRepo struct {
	db *gorm.DB
}

// NewGormPostRepo 自托管 MySQL 仓储
func NewGormPostRepo(db *gorm.DB) PostRepo {
	return &gormPostRepo{db: db}
}

func (s *gormPostRepo) ListAll(ctx context.Context) ([]*model.Post, error) {
	posts := make([]*model.Post, 0)
	err := s.db.WithContext(ctx).Order("created_at DESC").Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

func (s *gormPostRepo) GetByID(ctx context.Context, id string) (*model.Post, error) {
	var post model.Post
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&post).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return &post, nil
}

func (s *gormPostRepo) IncrementViews(ctx context.Context, id string, newValue int64) error {
	return s.db.WithContext(ctx).Model(&model.Post{}).Where("id = ?", id).Update("views", newValue).Error
}

func (s *gormPostRepo) AddViews(ctx context.Context, id string, delta int64) error {
	return s.db.WithContext(ctx).Model(&model.Post{}).Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + ?", delta)).Error
}

func (s *gormPostRepo) Create(ctx context.Context, title, content, authorID, authorName string) (*model.Post, error) {
	post := &model.Post{
		ID:         uuid.NewString(),
		Title:      title,
		Content:    content,
		AuthorID:   authorID,
		AuthorName: authorName,
		CreatedAt:  time.Now(),
	}
	if err := s.db.WithContext(ctx).Create(post).Error; err != nil {
		return nil, rejected(err)
	}
	return post, nil
}

func (s *gormPostRepo) Update(ctx context.Context, id, title, content string) error {
	err := s.db.WithContext(ctx).Model(&model.Post{}).Where("id = ?", id).
		Updates(map[string]any{"title": title, "content": content}).Error
	return rejected(err)
}

func (s *gormPostRepo) Remove(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Post{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPostNotFound
	}
	return nil
}

func rejected(err error) error {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		if _, ok := rejectedCodes[myErr.Number]; ok {
			return fmt.Errorf("%w: %v", ErrPostRejected, myErr)
		}
	}
	return err
}
