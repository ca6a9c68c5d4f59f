package logger

import (
	"context"
	"errors"
	log "log/slog"
	"strings"
	"time"

	"gorm.io/gorm/logger"
)

// GormLogger 将 gorm 日志输出到 slog
type GormLogger struct {
	LogLevel      logger.LogLevel
	SlowThreshold time.Duration
}

func NewGormLogger() *GormLogger {
	return &GormLogger{LogLevel: logger.Warn, SlowThreshold: 200 * time.Millisecond}
}

func (l *GormLogger) LogMode(level logger.LogLevel) logger.Interface {
	clone := *l
	clone.LogLevel = level
	return &clone
}

func (l *GormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= logger.Info {
		log.InfoContext(ctx, msg, "data", data)
	}
}

func (l *GormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= logger.Warn {
		log.WarnContext(ctx, msg, "data", data)
	}
}

func (l *GormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= logger.Error {
		log.ErrorContext(ctx, msg, "data", data)
	}
}

func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.LogLevel <= logger.Silent {
		return
	}

	elapsed := time.Since(begin)
	sql, rows := fc()

	operation, _, _ := strings.Cut(sql, " ")
	if operation == "" {
		operation = "Query"
	}
	msg := "SQL " + operation

	fields := []any{
		log.String("sql", sql),
		log.Duration("latency", elapsed),
		log.Int64("rows", rows),
	}

	switch {
	case err != nil && !errors.Is(err, logger.ErrRecordNotFound):
		log.ErrorContext(ctx, msg+" Error", append(fields, log.Any("err", err))...)
	case elapsed > l.SlowThreshold:
		log.WarnContext(ctx, msg+" Slow", fields...)
	case l.LogLevel >= logger.Info:
		log.InfoContext(ctx, msg, fields...)
	}
}
