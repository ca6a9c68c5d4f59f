package service

import (
	"Bulletin/internal/model"
	"Bulletin/internal/pkg/security"
	"Bulletin/internal/pkg/supabase"
	"Bulletin/internal/repository"
	"context"
	"errors"
	"fmt"
	log "log/slog"
	"net/http"
	"sync"
	"time"
)

const (
	tabSessionTTL  = 12 * time.Hour
	refreshLeeway  = 30 * time.Second
	probeTimeout   = 2 * time.Second
	defaultAttempt = 50
)

// AuthClient 托管认证服务
type AuthClient interface {
	Health(ctx context.Context) error
	GetUser(ctx context.Context, accessToken string) (*model.Identity, error)
	SignOut(ctx context.Context, accessToken string) error
	SignInWithPassword(ctx context.Context, email, password string) (*model.AuthSession, error)
	RefreshSession(ctx context.Context, refreshToken string) (*model.AuthSession, error)
}

type SessionService interface {
	// Initialize 建立认证客户端，重复调用返回同一实例
	Initialize() AuthClient
	// Start 后台有限次探测认证服务，已有进行中或成功的探测时不重复
	Start(ctx context.Context)
	// Ready 等待探测结果；超过次数上限返回 ErrAuthUnavailable，调用方可再次调用重试
	Ready(ctx context.Context) error
	// Bind 读取浏览器会话保存的令牌并挂到 context 上
	Bind(ctx context.Context) context.Context
	// CurrentUser 未登录或查询失败时返回 nil，失败只记日志
	CurrentUser(ctx context.Context) *model.Identity
	SignIn(ctx context.Context, email, password string, remember bool) (*model.Identity, error)
	// SignOut 失效后端会话并清除两个范围的本地条目
	SignOut(ctx context.Context) bool
}

type SessionOptions struct {
	ReadyAttempts int
	ReadyInterval time.Duration
	SessionTTL    time.Duration
	JWTSecret     string
}

type sessionServiceImpl struct {
	newClient func() AuthClient
	store     repository.SessionStore
	opts      SessionOptions

	initOnce sync.Once
	client   AuthClient

	mu    sync.Mutex
	round *readyRound
}

// readyRound 一轮有限次的探测，err 在 done 关闭前写入
type readyRound struct {
	done chan struct{}
	err  error
}

func NewSessionService(newClient func() AuthClient, store repository.SessionStore, opts SessionOptions) SessionService {
	if opts.ReadyAttempts <= 0 {
		opts.ReadyAttempts = defaultAttempt
	}
	if opts.ReadyInterval <= 0 {
		opts.ReadyInterval = 100 * time.Millisecond
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = 7 * 24 * time.Hour
	}
	return &sessionServiceImpl{
		newClient: newClient,
		store:     store,
		opts:      opts,
	}
}

func (s *sessionServiceImpl) Initialize() AuthClient {
	s.initOnce.Do(func() {
		s.client = s.newClient()
	})
	return s.client
}

func (s *sessionServiceImpl) Start(ctx context.Context) {
	s.current(ctx)
}

// current 返回进行中或已成功的一轮探测；上一轮失败时开启新的一轮
func (s *sessionServiceImpl) current(ctx context.Context) *readyRound {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r := s.round; r != nil {
		select {
		case <-r.done:
			if r.err == nil {
				return r
			}
		default:
			return r
		}
	}

	r := &readyRound{done: make(chan struct{})}
	s.round = r
	go s.probe(ctx, r)
	return r
}

func (s *sessionServiceImpl) probe(ctx context.Context, r *readyRound) {
	defer close(r.done)
	client := s.Initialize()

	for attempt := 1; attempt <= s.opts.ReadyAttempts; attempt++ {
		attemptCtx, cancel := context.WithTimeout(ctx, probeTimeout)
		err := client.Health(attemptCtx)
		cancel()
		if err == nil {
			log.InfoContext(ctx, "auth service ready", "attempts", attempt)
			return
		}

		select {
		case <-ctx.Done():
			r.err = fmt.Errorf("%w: %v", ErrAuthUnavailable, ctx.Err())
			log.ErrorContext(ctx, "auth readiness aborted", "err", ctx.Err())
			return
		case <-time.After(s.opts.ReadyInterval):
		}
	}

	r.err = ErrAuthUnavailable
	log.ErrorContext(ctx, "auth service not ready", "attempts", s.opts.ReadyAttempts)
}

// Ready 上一轮失败后再次调用会重新探测
func (s *sessionServiceImpl) Ready(ctx context.Context) error {
	r := s.current(context.Background())
	select {
	case <-r.done:
		return r.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *sessionServiceImpl) Bind(ctx context.Context) context.Context {
	sid := SessionID(ctx)
	if sid == "" {
		return ctx
	}

	session, scope, err := s.store.Load(ctx, sid)
	if err != nil {
		log.WarnContext(ctx, "load session failed", "err", err)
		return ctx
	}
	if session == nil {
		return ctx
	}

	if s.expiring(session) && session.RefreshToken != "" {
		refreshed, err := s.Initialize().RefreshSession(ctx, session.RefreshToken)
		if err != nil {
			log.WarnContext(ctx, "refresh session failed", "err", err)
		} else {
			session = refreshed
			if err = s.store.Save(ctx, sid, scope, refreshed, s.ttl(scope)); err != nil {
				log.WarnContext(ctx, "save refreshed session failed", "err", err)
			}
		}
	}

	return supabase.WithAccessToken(ctx, session.AccessToken)
}

func (s *sessionServiceImpl) CurrentUser(ctx context.Context) *model.Identity {
	token := supabase.AccessToken(ctx)
	if token == "" {
		return nil
	}

	if s.opts.JWTSecret != "" {
		claims, err := security.ValidateToken(token, s.opts.JWTSecret)
		if err != nil {
			log.WarnContext(ctx, "access token rejected", "err", err)
			return nil
		}
		return &model.Identity{ID: claims.Subject, Email: claims.Email}
	}

	user, err := s.Initialize().GetUser(ctx, token)
	if err != nil {
		log.ErrorContext(ctx, "get current user failed", "err", err)
		return nil
	}
	return user
}

func (s *sessionServiceImpl) SignIn(ctx context.Context, email, password string, remember bool) (*model.Identity, error) {
	sid := SessionID(ctx)
	if sid == "" {
		return nil, ErrParamInvalid
	}

	session, err := s.Initialize().SignInWithPassword(ctx, email, password)
	if err != nil {
		var apiErr *supabase.APIError
		if errors.As(err, &apiErr) && apiErr.Status < http.StatusInternalServerError {
			return nil, ErrLoginFailed
		}
		log.ErrorContext(ctx, "sign in failed", "err", err)
		return nil, ErrAuthUnavailable
	}
	if session.User == nil {
		return nil, ErrLoginFailed
	}

	scope := repository.ScopeTab
	if remember {
		scope = repository.ScopeLocal
	}
	// 同一浏览器会话只保留一份令牌
	if err = s.store.Clear(ctx, sid); err != nil {
		log.ErrorContext(ctx, "clear previous session failed", "err", err)
		return nil, ErrSessionStore
	}
	if err = s.store.Save(ctx, sid, scope, session, s.ttl(scope)); err != nil {
		log.ErrorContext(ctx, "save session failed", "err", err)
		return nil, ErrSessionStore
	}

	log.InfoContext(ctx, "user signed in", "user_id", session.User.ID)
	return session.User, nil
}

func (s *sessionServiceImpl) SignOut(ctx context.Context) bool {
	if token := supabase.AccessToken(ctx); token != "" {
		if err := s.Initialize().SignOut(ctx, token); err != nil && !alreadySignedOut(err) {
			log.ErrorContext(ctx, "sign out failed", "err", err)
			return false
		}
	}

	if sid := SessionID(ctx); sid != "" {
		if err := s.store.Clear(ctx, sid); err != nil {
			log.ErrorContext(ctx, "clear session storage failed", "err", err)
			return false
		}
	}
	return true
}

func (s *sessionServiceImpl) expiring(session *model.AuthSession) bool {
	if session.ExpiresAt == 0 {
		return false
	}
	return time.Unix(session.ExpiresAt, 0).Before(time.Now().Add(refreshLeeway))
}

func (s *sessionServiceImpl) ttl(scope repository.Scope) time.Duration {
	if scope == repository.ScopeTab {
		return min(tabSessionTTL, s.opts.SessionTTL)
	}
	return s.opts.SessionTTL
}

// alreadySignedOut 令牌已过期或已被吊销时后端返回 401/403，本地条目照常清除
func alreadySignedOut(err error) bool {
	var apiErr *supabase.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Status == http.StatusUnauthorized || apiErr.Status == http.StatusForbidden
}
