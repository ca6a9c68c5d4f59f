package database

import (
	"Bulletin/internal/api/config"
	"Bulletin/internal/model"
	"Bulletin/internal/pkg/logger"
	"fmt"
	log "log/slog"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// NewGormDB 初始化并返回 *gorm.DB 实例，处理连接池配置
func NewGormDB(cfg *config.DBConfig) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(cfg.DSN), &gorm.Config{
		Logger:      logger.NewGormLogger(),
		PrepareStmt: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying DB: %w", err)
	}

	sqlDB.SetMaxIdleConns(cfg.MaxIdle)
	sqlDB.SetMaxOpenConns(cfg.MaxOpen)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.MaxLifetime) * time.Minute)

	if err = sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("database connection check failed: %w", err)
	}

	// posts 表由自托管部署自行维护，这里只补齐缺失的表和索引
	if err = db.AutoMigrate(&model.Post{}); err != nil {
		return nil, fmt.Errorf("migrate posts table failed: %w", err)
	}

	log.Info("Database connection established successfully.")
	return db, nil
}
