// 包 ready：外部运行时就绪等待（有界轮询）
package ready

import (
	"context"
	"errors"
	"time"

	"crew-map/internal/logger"
	"crew-map/internal/metrics"
)

// ErrTimeout：轮询次数耗尽仍未就绪；对本次挂载为终态
var ErrTimeout = errors.New("runtime load timeout")

// Probe：探测一次运行时；ok=false 表示尚不可用（含句柄存在但缺少所需能力）
type Probe[T any] func(ctx context.Context) (T, bool)

// 文档注释：就绪门
// 背景：以显式 future 代替全局标志；先立即探测一次，再按固定间隔轮询。
// 约束：MaxAttempts 只计入间隔轮询次数；成功、超时、取消三条路径都会停止定时器，Await 返回后不再探测。
type Gate[T any] struct {
	Name        string
	Probe       Probe[T]
	Interval    time.Duration
	MaxAttempts int
}

func New[T any](name string, probe Probe[T], interval time.Duration, maxAttempts int) *Gate[T] {
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}
	if maxAttempts <= 0 {
		maxAttempts = 100
	}
	return &Gate[T]{Name: name, Probe: probe, Interval: interval, MaxAttempts: maxAttempts}
}

// Await：阻塞直至就绪、超时或 ctx 取消
func (g *Gate[T]) Await(ctx context.Context) (T, error) {
	var zero T
	t0 := time.Now()
	if h, ok := g.Probe(ctx); ok {
		g.observe("ready", t0)
		return h, nil
	}
	t := time.NewTicker(g.Interval)
	defer t.Stop()
	for tries := 1; ; tries++ {
		select {
		case <-ctx.Done():
			g.observe("canceled", t0)
			return zero, ctx.Err()
		case <-t.C:
		}
		if h, ok := g.Probe(ctx); ok {
			logger.L().Debug("ready_gate_ok", "gate", g.Name, "tries", tries)
			g.observe("ready", t0)
			return h, nil
		}
		if tries >= g.MaxAttempts {
			logger.L().Warn("ready_gate_timeout", "gate", g.Name, "tries", tries)
			g.observe("timeout", t0)
			return zero, ErrTimeout
		}
	}
}

func (g *Gate[T]) observe(outcome string, t0 time.Time) {
	metrics.GateWaitTotal.WithLabelValues(g.Name, outcome).Inc()
	metrics.GateWaitDurationMs.Observe(float64(time.Since(t0).Milliseconds()))
}
