package board

import (
	"context"
	"hash/fnv"
	log "log/slog"
	"sync"

	"github.com/pkg/errors"
)

const lockStripes = 64

// Dispatcher 按浏览器会话串行执行事件：加载状态、运行控制器、保存状态
type Dispatcher struct {
	deps  Deps
	store StateStore
	locks [lockStripes]sync.Mutex
}

func NewDispatcher(deps Deps, store StateStore) *Dispatcher {
	return &Dispatcher{deps: deps, store: store}
}

func (d *Dispatcher) lock(sid string) *sync.Mutex {
	h := fnv.New32a()
	_, _ = h.Write([]byte(sid))
	return &d.locks[h.Sum32()%lockStripes]
}

// Dispatch 同一 sid 的事件互斥，不同 sid 之间只在哈希冲突时互相等待
func (d *Dispatcher) Dispatch(ctx context.Context, sid string, view View, event func(ctx context.Context, c *Controller)) error {
	mu := d.lock(sid)
	mu.Lock()
	defer mu.Unlock()

	state, err := d.store.Load(ctx, sid)
	if err != nil {
		return errors.Wrap(err, "load board state")
	}

	event(ctx, NewController(d.deps, state, view))

	if err = d.store.Save(ctx, sid, state); err != nil {
		log.ErrorContext(ctx, "save board state failed", "sid", sid, "err", err)
		return errors.Wrap(err, "save board state")
	}
	return nil
}
