package board

import (
	"Bulletin/internal/pkg/consts"
	rdbutil "Bulletin/internal/pkg/redis"
	"context"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

// StateStore 保存每个浏览器会话的看板状态
type StateStore interface {
	// Load 不存在时返回新的初始状态
	Load(ctx context.Context, sid string) (*State, error)
	Save(ctx context.Context, sid string, state *State) error
}

type redisStateStore struct {
	rdb redis.Cmdable
	ttl time.Duration
}

func NewRedisStateStore(rdb redis.Cmdable, ttl time.Duration) StateStore {
	return &redisStateStore{rdb: rdb, ttl: ttl}
}

func (s *redisStateStore) Load(ctx context.Context, sid string) (*State, error) {
	data, err := rdbutil.GetBytes(ctx, s.rdb, consts.BoardStateKey+sid)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return NewState(), nil
	}

	state := NewState()
	if err = json.Unmarshal(data, state); err != nil {
		return nil, err
	}
	return state, nil
}

func (s *redisStateStore) Save(ctx context.Context, sid string, state *State) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return rdbutil.SetWithExpiration(ctx, s.rdb, consts.BoardStateKey+sid, data, s.ttl)
}

// memoryStateStore 单进程部署与测试使用，不过期
type memoryStateStore struct {
	mu     sync.Mutex
	states map[string][]byte
}

func NewMemoryStateStore() StateStore {
	return &memoryStateStore{states: make(map[string][]byte)}
}

func (s *memoryStateStore) Load(_ context.Context, sid string) (*State, error) {
	s.mu.Lock()
	data, ok := s.states[sid]
	s.mu.Unlock()

	state := NewState()
	if !ok {
		return state, nil
	}
	if err := json.Unmarshal(data, state); err != nil {
		return nil, err
	}
	return state, nil
}

// Save 存序列化后的副本，调用方之后的修改不会影响已保存的状态
func (s *memoryStateStore) Save(_ context.Context, sid string, state *State) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.states[sid] = data
	s.mu.Unlock()
	return nil
}
