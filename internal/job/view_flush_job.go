package job

import (
	"Bulletin/internal/pkg/consts"
	"Bulletin/internal/pkg/logger"
	rdbutil "Bulletin/internal/pkg/redis"
	"context"
	log "log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const flushLockTTL = 50 * time.Second

// ViewFlusher 把缓冲的浏览量写回帖子仓储
type ViewFlusher interface {
	Flush(ctx context.Context) (int, error)
}

type ViewFlushJob struct {
	flusher ViewFlusher
	rdb     redis.Cmdable
}

func NewViewFlushJob(flusher ViewFlusher, rdb redis.Cmdable) *ViewFlushJob {
	return &ViewFlushJob{
		flusher: flusher,
		rdb:     rdb,
	}
}

func (s *ViewFlushJob) Run() {
	traceID := "job-view-" + uuid.NewString()
	ctx := logger.WithTraceID(context.Background(), traceID)

	// 多实例部署时同一时刻只有一个实例刷写
	locked, err := s.rdb.SetNX(ctx, consts.PostViewFlushLock, traceID, flushLockTTL).Result()
	if err != nil {
		log.ErrorContext(ctx, "acquire view flush lock error", "err", err)
		return
	}
	if !locked {
		return
	}
	defer func() {
		if owner, _ := rdbutil.GetValue(ctx, s.rdb, consts.PostViewFlushLock); owner == traceID {
			_ = rdbutil.DeleteKey(ctx, s.rdb, consts.PostViewFlushLock)
		}
	}()

	n, err := s.flusher.Flush(ctx)
	if err != nil {
		log.ErrorContext(ctx, "flush post views error", "flushed", n, "err", err)
		return
	}
	if n > 0 {
		log.InfoContext(ctx, "post views flushed", "posts", n)
	}
}
