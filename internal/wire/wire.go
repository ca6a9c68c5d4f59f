package wire

import (
	"Bulletin/internal/api"
	"Bulletin/internal/api/config"
	"Bulletin/internal/api/handler"
	"Bulletin/internal/api/middleware"
	"Bulletin/internal/board"
	"Bulletin/internal/job"
	"Bulletin/internal/pkg/consts"
	"Bulletin/internal/pkg/cron"
	"Bulletin/internal/pkg/database"
	"Bulletin/internal/pkg/kafka"
	"Bulletin/internal/pkg/mongo"
	"Bulletin/internal/pkg/supabase"
	"Bulletin/internal/render"
	"Bulletin/internal/repository"
	"Bulletin/internal/service"
	"context"
	"fmt"
	log "log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// ApplicationContainer 封装了应用运行所需的所有顶级组件
type ApplicationContainer struct {
	Router   *gin.Engine
	CronMgr  *cron.Manager
	Sessions service.SessionService
	Events   *kafka.EventPublisher
	closers  []func() error
}

// Close 释放连接，按创建的逆序执行
func (s *ApplicationContainer) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			log.Warn("close resource failed", "err", err)
		}
	}
}

func BuildApplication(cfg *config.Config, rdb *redis.Client) (*ApplicationContainer, error) {
	app := &ApplicationContainer{CronMgr: cron.NewCronManager()}

	loc, err := time.LoadLocation(cfg.Board.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("invalid board.time_zone %q: %w", cfg.Board.TimeZone, err)
	}

	sbClient := supabase.NewClient(cfg.Backend)

	postRepo, err := buildPostRepo(cfg, sbClient, app)
	if err != nil {
		return nil, err
	}
	if cfg.Board.BufferViews {
		buffer := repository.NewViewBuffer(postRepo, rdb)
		app.CronMgr.Add("view_flush", cfg.Cron.ViewFlush, job.NewViewFlushJob(buffer, rdb))
		postRepo = buffer
	}

	tokenKey := fmt.Sprintf(consts.AuthTokenKeyFormat, cfg.Backend.ProjectRef)
	sessionStore := repository.NewRedisSessionStore(rdb, tokenKey)
	sessionTTL := time.Duration(cfg.Board.SessionTTL) * time.Hour
	sessionSvc := service.NewSessionService(
		func() service.AuthClient { return sbClient },
		sessionStore,
		service.SessionOptions{
			ReadyAttempts: cfg.Board.ReadyAttempts,
			ReadyInterval: time.Duration(cfg.Board.ReadyInterval) * time.Millisecond,
			SessionTTL:    sessionTTL,
			JWTSecret:     cfg.Backend.JWTSecret,
		},
	)
	app.Sessions = sessionSvc

	events, err := kafka.NewEventPublisher(cfg.Kafka, cfg.Board.Events)
	if err != nil {
		return nil, err
	}
	app.Events = events
	app.closers = append(app.closers, events.Close)

	var stateStore board.StateStore
	switch cfg.Board.StateStore {
	case "memory":
		stateStore = board.NewMemoryStateStore()
	default:
		stateStore = board.NewRedisStateStore(rdb, time.Duration(cfg.Board.StateTTL)*time.Minute)
	}

	dispatcher := board.NewDispatcher(board.Deps{
		Repo:      postRepo,
		Sessions:  sessionSvc,
		Renderer:  render.NewRenderer(loc),
		Events:    events,
		PageSize:  cfg.Board.PageSize,
		LoginPath: cfg.Server.LoginPath,
	}, stateStore)

	handlers := &api.HandlersGroup{
		AuthHandler:  handler.NewAuthHandler(sessionSvc, cfg.Server.LoginPath, cfg.Server.HomePath),
		BoardHandler: handler.NewBoardHandler(dispatcher),
	}

	app.Router = api.SetupRouter(handlers,
		middleware.CORSMiddleware(cfg.Server.AllowOrigins),
		middleware.SessionMiddleware(sessionSvc, sessionTTL, cfg.Server.CookieSecure),
	)
	return app, nil
}

// buildPostRepo 按 board.repository 选择帖子存储
func buildPostRepo(cfg *config.Config, sbClient *supabase.Client, app *ApplicationContainer) (repository.PostRepo, error) {
	switch cfg.Board.Repository {
	case "mysql":
		dbCfg := cfg.DB
		db, err := database.NewGormDB(&dbCfg)
		if err != nil {
			return nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		app.closers = append(app.closers, sqlDB.Close)
		return repository.NewGormPostRepo(db), nil

	case "mongo":
		db, err := mongo.InitMongo(cfg.Mongo)
		if err != nil {
			return nil, err
		}
		app.closers = append(app.closers, func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return db.Client().Disconnect(ctx)
		})
		return repository.NewMongoPostRepo(db, cfg.Mongo.Collection), nil

	case "supabase", "":
		return repository.NewSupabasePostRepo(sbClient, cfg.Backend.Table, cfg.Backend.ViewsRPC), nil

	default:
		return nil, fmt.Errorf("unknown board.repository %q", cfg.Board.Repository)
	}
}
