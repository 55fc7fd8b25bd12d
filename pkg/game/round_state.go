package game

import (
	"github.com/decker502/mouserocket/pkg/components"
	"github.com/decker502/mouserocket/pkg/ecs"
)

// Phase 回合阶段
type Phase int

const (
	PhaseRunning Phase = iota // 进行中（初始阶段）
	PhaseWon                  // 胜利
	PhaseLost                 // 失败
	PhaseAborted              // 玩家中止
)

// String 返回阶段名称
func (p Phase) String() string {
	switch p {
	case PhaseRunning:
		return "Running"
	case PhaseWon:
		return "Won"
	case PhaseLost:
		return "Lost"
	case PhaseAborted:
		return "Aborted"
	default:
		return "Unknown"
	}
}

// IsTerminal 是否为终止阶段（终止后不再推进）
func (p Phase) IsTerminal() bool {
	return p != PhaseRunning
}

// RoundState 一局游戏的全部可变状态
//
// 由 RoundController 独占修改；渲染方只通过 Entities/Arrows 快照读取。
type RoundState struct {
	Level *Level

	Store  *ecs.EntityStore
	Arrows *components.ArrowLayer

	Tick      int
	Score     int
	Rescued   int
	Lost      int
	Remaining int // 计划出生但尚未被救出或损失的老鼠数（含尚未出生的）

	Phase      Phase
	LossReason string // 失败原因，仅 PhaseLost 时有值
}

// NewRoundState 为关卡开一局新的回合
func NewRoundState(level *Level) *RoundState {
	return &RoundState{
		Level:     level,
		Store:     ecs.NewEntityStore(),
		Arrows:    components.NewArrowLayer(level.Grid, level.Rules.MaxArrows, level.Rules.ArrowTTL, level.Rules.ArrowStock.Clone()),
		Remaining: level.TotalMice(),
		Phase:     PhaseRunning,
	}
}

// Entities 返回实体快照（按ID升序）
func (rs *RoundState) Entities() []components.Entity {
	return rs.Store.Snapshot()
}

// ArrowSnapshot 返回当前 tick 有效的箭头快照（行优先排序）
func (rs *RoundState) ArrowSnapshot() []components.Arrow {
	return rs.Arrows.Arrows(rs.Tick)
}
