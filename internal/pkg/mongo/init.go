package mongo

import (
	"Bulletin/internal/api/config"
	"Bulletin/internal/pkg/logger"
	"context"
	log "log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// InitMongo 建立连接并返回 Database 引用，同时为帖子集合建索引
func InitMongo(cfg config.MongoConfig) (*mongo.Database, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// 建立连接
	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(cfg.URL).
		SetMonitor(logger.NewMongoMonitor()),
	)
	if err != nil {
		return nil, err
	}

	// 检查连通性
	if err = client.Ping(ctx, nil); err != nil {
		return nil, err
	}

	db := client.Database(cfg.Database)

	// 列表按发布时间倒序
	_, err = db.Collection(cfg.Collection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "created_at", Value: -1}},
		Options: options.Index().SetName("idx_created_at"),
	})
	if err != nil {
		return nil, err
	}

	log.Info("MongoDB initialized successfully", "db", cfg.Database, "collection", cfg.Collection)
	return db, nil
}
