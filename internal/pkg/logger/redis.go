package logger

import (
	"context"
	"errors"
	log "log/slog"
	"net"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLoggerHook 记录 redis 错误与慢命令
type RedisLoggerHook struct{}

func NewRedisLogger() *RedisLoggerHook {
	return &RedisLoggerHook{}
}

func (s *RedisLoggerHook) DialHook(next redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		start := time.Now()
		conn, err := next(ctx, network, addr)
		if err != nil {
			log.ErrorContext(ctx, "Redis Dial Error",
				log.String("addr", addr),
				log.Duration("latency", time.Since(start)),
				log.Any("err", err),
			)
		}
		return conn, err
	}
}

func (s *RedisLoggerHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		start := time.Now()
		err := next(ctx, cmd)
		elapsed := time.Since(start)

		// 会话令牌不写入日志
		fields := []any{
			log.String("command", cmd.Name()),
			log.Duration("latency", elapsed),
		}

		if err != nil {
			if errors.Is(err, redis.Nil) {
				return err
			}
			if cmd.Name() == "client" && strings.Contains(err.Error(), "setinfo") {
				return err
			}
			log.ErrorContext(ctx, "Redis Error", append(fields, log.Any("err", err))...)
		} else if elapsed > 100*time.Millisecond {
			log.WarnContext(ctx, "Redis Slow", fields...)
		}

		return err
	}
}

func (s *RedisLoggerHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		start := time.Now()
		err := next(ctx, cmds)
		if err != nil && !errors.Is(err, redis.Nil) {
			log.ErrorContext(ctx, "Redis Pipeline Error",
				log.Int("cmd_count", len(cmds)),
				log.Duration("latency", time.Since(start)),
				log.Any("err", err))
		}
		return err
	}
}
