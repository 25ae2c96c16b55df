package view

import (
	"crew-map/internal/boundary"
	"crew-map/internal/ranking"
)

// RuntimeState：地图运行时就绪门的结果
type RuntimeState string

const (
	RuntimePending RuntimeState = "pending"
	RuntimeReady   RuntimeState = "ready"
	RuntimeTimeout RuntimeState = "timeout"
)

// 文档注释：视图状态
// 背景：由 Composer 独占，仅经事件迁移；Shapes/Entries 整体替换，不做增量修改，可安全共享给读方。
// 约束：Loading 只由排行事件解除，边界数据不参与加载门。
type State struct {
	MountID string
	Loading bool
	Runtime RuntimeState
	Shapes  []boundary.Shape
	Entries []ranking.Entry
}

// Event：状态迁移事件
type Event interface {
	apply(s *State)
}

type BoundaryLoaded struct{ Shapes []boundary.Shape }

type RankingLoaded struct{ Entries []ranking.Entry }

type RankingFailed struct{ Err error }

type RuntimeAvailable struct{}

type RuntimeUnavailable struct{ Err error }

func (e BoundaryLoaded) apply(s *State) {
	if e.Shapes == nil {
		e.Shapes = []boundary.Shape{}
	}
	s.Shapes = e.Shapes
}

func (e RankingLoaded) apply(s *State) {
	s.Entries = e.Entries
	s.Loading = false
}

func (e RankingFailed) apply(s *State) {
	s.Entries = nil
	s.Loading = false
}

func (RuntimeAvailable) apply(s *State) { s.Runtime = RuntimeReady }

func (RuntimeUnavailable) apply(s *State) { s.Runtime = RuntimeTimeout }
