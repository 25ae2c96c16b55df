// 包 view：地图视图的挂载、状态迁移与图层组装
package view

import (
	"context"
	"sync"

	"crew-map/internal/boundary"
	"crew-map/internal/logger"
	"crew-map/internal/metrics"
	"crew-map/internal/ranking"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// BoundarySource：边界加载，失败时返回空列表
type BoundarySource interface {
	Load(ctx context.Context) []boundary.Shape
}

// RankingSource：排行拉取
type RankingSource interface {
	FetchTopGroups(ctx context.Context) ([]ranking.Entry, error)
}

// RuntimeWaiter：等待地图运行时就绪；为空表示无需等待
type RuntimeWaiter func(ctx context.Context) error

// 文档注释：视图编排器
// 背景：一次挂载并发启动两条互不共享状态的流程：就绪门→边界加载；排行拉取。
// 约束：
// - 状态仅经 Apply/dispatch 迁移，读写由 mu 保护；
// - Teardown 取消两条流程，之后到达的事件一律丢弃（两条流程同等对待）；
// - 重新挂载生成新 MountID，旧挂载的迟到事件按 MountID 识别并丢弃。
type Composer struct {
	boundary BoundarySource
	ranking  RankingSource
	wait     RuntimeWaiter

	// 串行化 Mount/Reload/Teardown，保证每次挂载的 cancel 都能被后续拆除取到
	mountMu sync.Mutex

	mu     sync.RWMutex
	state  State
	torn   bool
	cancel context.CancelFunc
	done   chan struct{}
}

func NewComposer(b BoundarySource, r RankingSource, wait RuntimeWaiter) *Composer {
	done := make(chan struct{})
	close(done)
	return &Composer{
		boundary: b,
		ranking:  r,
		wait:     wait,
		state:    State{Loading: true, Runtime: RuntimePending},
		done:     done,
	}
}

// Mount：启动两条流程后立即返回；已有挂载会先被拆除
func (c *Composer) Mount(ctx context.Context) string {
	c.mountMu.Lock()
	defer c.mountMu.Unlock()
	c.teardown()
	mctx, cancel := context.WithCancel(ctx)
	id := uuid.NewString()
	done := make(chan struct{})

	c.mu.Lock()
	c.state = State{MountID: id, Loading: true, Runtime: RuntimePending}
	c.torn = false
	c.cancel = cancel
	c.done = done
	c.mu.Unlock()

	metrics.ViewMountsTotal.Inc()
	logger.L().Info("view_mount", "mount_id", id)

	g, gctx := errgroup.WithContext(mctx)
	g.Go(func() error {
		c.boundaryFlow(gctx, id)
		return nil
	})
	g.Go(func() error {
		c.rankingFlow(gctx, id)
		return nil
	})
	go func() {
		_ = g.Wait()
		cancel()
		close(done)
	}()
	return id
}

func (c *Composer) boundaryFlow(ctx context.Context, id string) {
	if c.wait != nil {
		if err := c.wait(ctx); err != nil {
			if ctx.Err() != nil {
				return
			}
			// 就绪超时不阻断边界加载，前端按自身容忍度降级
			logger.L().Error("map_runtime_unavailable", "mount_id", id, "err", err)
			c.dispatch(id, RuntimeUnavailable{Err: err})
		} else {
			c.dispatch(id, RuntimeAvailable{})
		}
	} else {
		c.dispatch(id, RuntimeAvailable{})
	}
	if ctx.Err() != nil {
		return
	}
	shapes := c.boundary.Load(ctx)
	c.dispatch(id, BoundaryLoaded{Shapes: shapes})
}

func (c *Composer) rankingFlow(ctx context.Context, id string) {
	entries, err := c.ranking.FetchTopGroups(ctx)
	if err != nil {
		if ctx.Err() == nil {
			logger.L().Error("ranking_fetch_error", "mount_id", id, "err", err)
		}
		c.dispatch(id, RankingFailed{Err: err})
		return
	}
	logger.L().Info("ranking_joined", "mount_id", id, "entries", len(entries))
	c.dispatch(id, RankingLoaded{Entries: entries})
}

// dispatch：仅对当前且未拆除的挂载生效
func (c *Composer) dispatch(id string, ev Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.torn || c.state.MountID != id {
		logger.L().Debug("view_event_dropped", "mount_id", id, "event", eventName(ev))
		return
	}
	ev.apply(&c.state)
}

// Apply：对当前挂载施加事件；拆除后无效
func (c *Composer) Apply(ev Event) {
	c.mu.RLock()
	id := c.state.MountID
	c.mu.RUnlock()
	c.dispatch(id, ev)
}

// Teardown：取消进行中的流程并等待其退出
func (c *Composer) Teardown() {
	c.mountMu.Lock()
	defer c.mountMu.Unlock()
	c.teardown()
}

func (c *Composer) teardown() {
	c.mu.Lock()
	c.torn = true
	cancel := c.cancel
	done := c.done
	c.cancel = nil
	c.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	<-done
}

// Wait：等待当前挂载的两条流程结束
func (c *Composer) Wait() {
	c.mu.RLock()
	done := c.done
	c.mu.RUnlock()
	<-done
}

// Reload：拆除并重新挂载，边界与排行整体替换
func (c *Composer) Reload(ctx context.Context) string {
	logger.L().Info("view_reload")
	return c.Mount(ctx)
}

// Snapshot：返回当前状态副本（切片共享，只读）
func (c *Composer) Snapshot() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

func eventName(ev Event) string {
	switch ev.(type) {
	case BoundaryLoaded:
		return "boundary_loaded"
	case RankingLoaded:
		return "ranking_loaded"
	case RankingFailed:
		return "ranking_failed"
	case RuntimeAvailable:
		return "runtime_ready"
	case RuntimeUnavailable:
		return "runtime_timeout"
	}
	return "unknown"
}
