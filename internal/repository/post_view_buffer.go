package repository

import (
	"Bulletin/internal/model"
	"Bulletin/internal/pkg/consts"
	rdbutil "Bulletin/internal/pkg/redis"
	"context"
	"errors"
	log "log/slog"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// ViewBuffer 在 redis 中累计浏览量，读取时叠加未落库的增量，由定时任务批量落库
type ViewBuffer struct {
	PostRepo
	rdb redis.Cmdable
}

func NewViewBuffer(inner PostRepo, rdb redis.Cmdable) *ViewBuffer {
	return &ViewBuffer{PostRepo: inner, rdb: rdb}
}

func (s *ViewBuffer) ListAll(ctx context.Context) ([]*model.Post, error) {
	posts, err := s.PostRepo.ListAll(ctx)
	if err != nil || len(posts) == 0 {
		return posts, err
	}

	keys := make([]string, len(posts))
	for i, p := range posts {
		keys[i] = consts.PostViewKey + p.ID
	}
	values, err := s.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		log.WarnContext(ctx, "read pending views failed", "err", err)
		return posts, nil
	}
	for i, v := range values {
		posts[i].Views += parsePending(v)
	}
	return posts, nil
}

func (s *ViewBuffer) GetByID(ctx context.Context, id string) (*model.Post, error) {
	post, err := s.PostRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	pending, err := rdbutil.GetValue(ctx, s.rdb, consts.PostViewKey+id)
	if err != nil {
		log.WarnContext(ctx, "read pending views failed", "post_id", id, "err", err)
		return post, nil
	}
	post.Views += parsePending(pending)
	return post, nil
}

// AddViews INCRBY + 标脏，落库交给 Flush
func (s *ViewBuffer) AddViews(ctx context.Context, id string, delta int64) error {
	pipe := s.rdb.TxPipeline()
	pipe.IncrBy(ctx, consts.PostViewKey+id, delta)
	pipe.SAdd(ctx, consts.PostViewDirtyKey, id)
	_, err := pipe.Exec(ctx)
	return err
}

// Flush 把标脏帖子的增量写回底层仓储，返回落库的帖子数
func (s *ViewBuffer) Flush(ctx context.Context) (int, error) {
	processingKey := consts.PostViewDirtyKey + ":processing"
	ok, err := rdbutil.RenameIfExists(ctx, s.rdb, consts.PostViewDirtyKey, processingKey)
	if err != nil || !ok {
		return 0, err
	}

	ids, err := rdbutil.GetSet(ctx, s.rdb, processingKey)
	if err != nil {
		return 0, err
	}

	flushed := 0
	for _, id := range ids {
		delta, err := s.rdb.GetDel(ctx, consts.PostViewKey+id).Int64()
		if err != nil {
			if !errors.Is(err, redis.Nil) {
				log.ErrorContext(ctx, "take pending views failed", "post_id", id, "err", err)
			}
			continue
		}
		if delta == 0 {
			continue
		}
		if err = s.persist(ctx, id, delta); err != nil {
			if errors.Is(err, ErrPostNotFound) {
				continue
			}
			log.ErrorContext(ctx, "flush views failed, requeue", "post_id", id, "delta", delta, "err", err)
			if rqErr := s.AddViews(ctx, id, delta); rqErr != nil {
				log.ErrorContext(ctx, "requeue views failed", "post_id", id, "err", rqErr)
			}
			continue
		}
		flushed++
	}

	if err = rdbutil.DeleteKey(ctx, s.rdb, processingKey); err != nil {
		log.ErrorContext(ctx, "delete view processing set failed", "err", err)
	}
	return flushed, nil
}

func (s *ViewBuffer) persist(ctx context.Context, id string, delta int64) error {
	if counter, ok := s.PostRepo.(ViewCounter); ok {
		return counter.AddViews(ctx, id, delta)
	}
	post, err := s.PostRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return s.PostRepo.IncrementViews(ctx, id, post.Views+delta)
}

func parsePending(v any) int64 {
	str, ok := v.(string)
	if !ok || str == "" {
		return 0
	}
	n, err := strconv.ParseInt(str, 10, 64)
	if err != nil {
		return 0
	}
	return n
}
