package repository

import (
	"Bulletin/internal/model"
	"Bulletin/internal/pkg/consts"
	rdbutil "Bulletin/internal/pkg/redis"
	"context"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

// Scope 会话保存范围：Local 跨浏览器重启保留，Tab 只在当前浏览会话内有效
type Scope int

const (
	ScopeLocal Scope = iota
	ScopeTab
)

// SessionStore 保存托管后端下发的会话，按浏览器会话 id 区分
type SessionStore interface {
	Save(ctx context.Context, sid string, scope Scope, session *model.AuthSession, ttl time.Duration) error
	// Load 先查 Tab 范围再查 Local 范围，均不存在时返回 nil
	Load(ctx context.Context, sid string) (*model.AuthSession, Scope, error)
	// Clear 删除两个范围下的条目
	Clear(ctx context.Context, sid string) error
}

type redisSessionStore struct {
	rdb      redis.Cmdable
	tokenKey string
}

// NewRedisSessionStore tokenKey 为固定的存储键，例如 sb-<ref>-auth-token
func NewRedisSessionStore(rdb redis.Cmdable, tokenKey string) SessionStore {
	return &redisSessionStore{rdb: rdb, tokenKey: tokenKey}
}

func (s *redisSessionStore) key(scope Scope, sid string) string {
	prefix := consts.SessionLocalKey
	if scope == ScopeTab {
		prefix = consts.SessionTabKey
	}
	return prefix + s.tokenKey + ":" + sid
}

func (s *redisSessionStore) Save(ctx context.Context, sid string, scope Scope, session *model.AuthSession, ttl time.Duration) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return rdbutil.SetWithExpiration(ctx, s.rdb, s.key(scope, sid), data, ttl)
}

func (s *redisSessionStore) Load(ctx context.Context, sid string) (*model.AuthSession, Scope, error) {
	for _, scope := range []Scope{ScopeTab, ScopeLocal} {
		data, err := rdbutil.GetBytes(ctx, s.rdb, s.key(scope, sid))
		if err != nil {
			return nil, scope, err
		}
		if data == nil {
			continue
		}
		var session model.AuthSession
		if err = json.Unmarshal(data, &session); err != nil {
			return nil, scope, err
		}
		return &session, scope, nil
	}
	return nil, ScopeLocal, nil
}

func (s *redisSessionStore) Clear(ctx context.Context, sid string) error {
	return rdbutil.DeleteKey(ctx, s.rdb, s.key(ScopeLocal, sid), s.key(ScopeTab, sid))
}
