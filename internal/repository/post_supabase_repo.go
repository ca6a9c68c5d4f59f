package repository

import (
	"Bulletin/internal/model"
	"Bulletin/internal/pkg/supabase"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	pkgerrors "github.com/pkg/errors"
)

type supabasePostRepo struct {
	client *supabase.Client
	path   string
}

type supabaseCountingRepo struct {
	*supabasePostRepo
	rpcPath string
}

// NewSupabasePostRepo 基于 PostgREST 的仓储；viewsRPC 非空时额外支持原子自增
func NewSupabasePostRepo(client *supabase.Client, table, viewsRPC string) PostRepo {
	base := &supabasePostRepo{client: client, path: "/rest/v1/" + table}
	if viewsRPC == "" {
		return base
	}
	return &supabaseCountingRepo{supabasePostRepo: base, rpcPath: "/rest/v1/rpc/" + viewsRPC}
}

func (s *supabasePostRepo) ListAll(ctx context.Context) ([]*model.Post, error) {
	var posts []*model.Post
	resp, err := s.client.R(ctx).
		SetQueryParams(map[string]string{
			"select": "*",
			"order":  "created_at.desc",
		}).
		SetResult(&posts).
		Get(s.path)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "list posts")
	}
	if err = translate(supabase.AsError(resp)); err != nil {
		return nil, err
	}
	if posts == nil {
		posts = []*model.Post{}
	}
	return posts, nil
}

func (s *supabasePostRepo) GetByID(ctx context.Context, id string) (*model.Post, error) {
	var posts []*model.Post
	resp, err := s.client.R(ctx).
		SetQueryParams(map[string]string{
			"select": "*",
			"id":     "eq." + id,
		}).
		SetResult(&posts).
		Get(s.path)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "get post")
	}
	if err = translate(supabase.AsError(resp)); err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return nil, ErrPostNotFound
	}
	return posts[0], nil
}

func (s *supabasePostRepo) IncrementViews(ctx context.Context, id string, newValue int64) error {
	return s.patch(ctx, id, map[string]any{"views": newValue})
}

func (s *supabasePostRepo) Create(ctx context.Context, title, content, authorID, authorName string) (*model.Post, error) {
	var created []*model.Post
	resp, err := s.client.R(ctx).
		SetHeader("Prefer", "return=representation").
		SetBody(map[string]any{
			"title":       title,
			"content":     content,
			"author_id":   authorID,
			"author_name": authorName,
		}).
		SetResult(&created).
		Post(s.path)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "create post")
	}
	if err = translate(supabase.AsError(resp)); err != nil {
		return nil, err
	}
	if len(created) == 0 {
		// 行级策略允许插入但不允许读回时，后端返回空数组
		return &model.Post{Title: title, Content: content, AuthorID: authorID, AuthorName: authorName}, nil
	}
	return created[0], nil
}

func (s *supabasePostRepo) Update(ctx context.Context, id, title, content string) error {
	return s.patch(ctx, id, map[string]any{"title": title, "content": content})
}

func (s *supabasePostRepo) Remove(ctx context.Context, id string) error {
	resp, err := s.client.R(ctx).
		SetQueryParam("id", "eq."+id).
		Delete(s.path)
	if err != nil {
		return pkgerrors.Wrap(err, "delete post")
	}
	return translate(supabase.AsError(resp))
}

func (s *supabasePostRepo) patch(ctx context.Context, id string, body map[string]any) error {
	resp, err := s.client.R(ctx).
		SetQueryParam("id", "eq."+id).
		SetBody(body).
		Patch(s.path)
	if err != nil {
		return pkgerrors.Wrap(err, "update post")
	}
	return translate(supabase.AsError(resp))
}

// AddViews 调用数据库函数完成原子自增，函数签名 (post_id, delta)
func (s *supabaseCountingRepo) AddViews(ctx context.Context, id string, delta int64) error {
	resp, err := s.client.R(ctx).
		SetBody(map[string]any{"post_id": id, "delta": delta}).
		Post(s.rpcPath)
	if err != nil {
		return pkgerrors.Wrap(err, "increment views")
	}
	return translate(supabase.AsError(resp))
}

// translate 把 PostgREST 错误映射到仓储错误
func translate(err error) error {
	if err == nil {
		return nil
	}
	var apiErr *supabase.APIError
	if !errors.As(err, &apiErr) {
		return err
	}
	code := apiErr.CodeString()
	switch {
	case code == "PGRST116" || apiErr.Status == http.StatusNotFound:
		return fmt.Errorf("%w: %v", ErrPostNotFound, apiErr)
	case apiErr.Status == http.StatusConflict || strings.HasPrefix(code, "23"):
		return fmt.Errorf("%w: %v", ErrPostRejected, apiErr)
	}
	return apiErr
}
