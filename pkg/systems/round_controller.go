package systems

import (
	"errors"
	"fmt"
	"log"

	"github.com/decker502/mouserocket/pkg/components"
	"github.com/decker502/mouserocket/pkg/game"
	"github.com/decker502/mouserocket/pkg/types"
)

// ErrRoundOver 回合已结束（胜利、失败或中止）后仍尝试操作
var ErrRoundOver = errors.New("round is over")

// 失败原因
const (
	LossTooManyLost = "too many mice lost"
	LossGoalRaided  = "a cat reached a rocket"
	LossTimeLimit   = "time limit reached"
	LossUnreachable = "not enough mice left to win"
)

// TickReport 一次 AdvanceTick 的结果，供渲染层播放动画
type TickReport struct {
	Tick  int // 本次处理的 tick（推进前的值）
	Phase game.Phase

	Spawned  []components.Entity
	Rescued  []components.Entity // 进入火箭的老鼠
	Captured []components.Entity // 被猫抓住的老鼠
	Killed   []components.Entity // 掉进洞里的实体（老鼠和猫）

	WornOut []types.Coord // 被猫磨掉的箭头

	Score int
}

// RoundController 回合控制器
//
// 职责：
//   - 按固定顺序推进一个 tick：出生 -> 移动 -> 交互结算 -> 胜负判定
//   - 转发玩家的放置/移除箭头操作（以当前 tick 为时间戳）
//   - 维护回合状态机：Running -> Won / Lost / Aborted
//
// 架构说明：
//   - 独占 RoundState 的修改权，渲染层只读快照
//   - 依赖 SpawnSystem 和 MovementSystem（构造时创建）
//   - 单线程使用，内部没有锁
type RoundController struct {
	state          *game.RoundState
	spawnSystem    *SpawnSystem
	movementSystem *MovementSystem
}

// NewRoundController 为关卡开一局新的回合
//
// 参数：
//
//	level - 关卡（只读，可被多局共享）
//
// 返回：
//
//	回合控制器；出生表与网格不匹配时返回错误
func NewRoundController(level *game.Level) (*RoundController, error) {
	spawnSystem, err := NewSpawnSystem(level.Grid, level.Spawns)
	if err != nil {
		return nil, fmt.Errorf("level %s: %w", level.ID, err)
	}

	log.Printf("[RoundController] Round started: level %s (%s), %d mice scheduled, win threshold %d",
		level.ID, level.Name, level.TotalMice(), level.Rules.WinThreshold)

	return &RoundController{
		state:          game.NewRoundState(level),
		spawnSystem:    spawnSystem,
		movementSystem: NewMovementSystem(level.Rules.CatMoveInterval),
	}, nil
}

// State 返回回合状态（调用方不得修改）
func (c *RoundController) State() *game.RoundState {
	return c.state
}

// Phase 返回当前阶段
func (c *RoundController) Phase() game.Phase {
	return c.state.Phase
}

// AdvanceTick 推进一个 tick
//
// 执行流程：
//  1. 已终止则直接返回当前阶段（不报错）
//  2. 生成本 tick 到期的实体
//  3. 解算并提交移动
//  4. 交互结算：洞 -> 救出 -> 抓捕 -> 猫闯火箭
//  5. tick 加一
//  6. 胜负判定
func (c *RoundController) AdvanceTick() TickReport {
	s := c.state
	report := TickReport{Tick: s.Tick, Phase: s.Phase, Score: s.Score}
	if s.Phase.IsTerminal() {
		return report
	}

	report.Spawned = c.spawnSystem.Update(s.Tick, s.Store)

	plan := c.movementSystem.Resolve(s.Level.Grid, s.Arrows, s.Store.Snapshot(), s.Tick)
	report.WornOut = c.movementSystem.Apply(plan, s.Store, s.Arrows)

	raided := c.resolveInteractions(plan, &report)

	s.Tick++
	c.evaluate(raided)

	report.Phase = s.Phase
	report.Score = s.Score
	return report
}

// resolveInteractions 结算本 tick 的交互，返回是否有猫闯入火箭
//
// 每一步只依赖提交后的位置和移动计划，与实体遍历顺序无关。
func (c *RoundController) resolveInteractions(plan *MovementPlan, report *TickReport) bool {
	s := c.state
	grid := s.Level.Grid

	// 洞：任何实体掉进去都会消失
	var fallen []*components.Entity
	s.Store.Each(func(e *components.Entity) {
		if cell, err := grid.CellAt(e.Coord); err == nil && cell.Kind == components.CellHole {
			fallen = append(fallen, e)
		}
	})
	for _, e := range fallen {
		e.Alive = false
		report.Killed = append(report.Killed, *e)
		s.Store.Remove(e.ID)
		if e.IsMouse() {
			s.Lost++
			s.Remaining--
		}
		log.Printf("[RoundController] Tick %d: %s %d fell into a hole at %v", s.Tick, e.Kind, e.ID, e.Coord)
	}

	// 救出：老鼠进入匹配的火箭
	var rescued []*components.Entity
	s.Store.Each(func(e *components.Entity) {
		if !e.IsMouse() {
			return
		}
		if cell, err := grid.CellAt(e.Coord); err == nil && cell.Kind == components.CellGoal && e.AcceptsGoal(cell.ID) {
			rescued = append(rescued, e)
		}
	})
	for _, e := range rescued {
		e.Rescued = true
		report.Rescued = append(report.Rescued, *e)
		s.Store.Remove(e.ID)
		s.Rescued++
		s.Remaining--
		s.Score++
	}

	// 抓捕：与猫同格，或与猫在同一 tick 互换位置
	catCells := make(map[types.Coord]bool)
	catEdges := make(map[[2]types.Coord]bool)
	s.Store.Each(func(e *components.Entity) {
		if !e.IsCat() {
			return
		}
		catCells[e.Coord] = true
		if m, ok := plan.Lookup(e.ID); ok && m.Moved() {
			catEdges[[2]types.Coord{m.From, m.To}] = true
		}
	})

	var captured []*components.Entity
	s.Store.Each(func(e *components.Entity) {
		if !e.IsMouse() {
			return
		}
		if catCells[e.Coord] {
			captured = append(captured, e)
			return
		}
		if m, ok := plan.Lookup(e.ID); ok && m.Moved() && catEdges[[2]types.Coord{m.To, m.From}] {
			captured = append(captured, e)
		}
	})
	for _, e := range captured {
		e.Alive = false
		report.Captured = append(report.Captured, *e)
		s.Store.Remove(e.ID)
		s.Lost++
		s.Remaining--
		s.Score -= s.Level.Rules.CapturePenalty
		log.Printf("[RoundController] Tick %d: mouse %d captured at %v", s.Tick, e.ID, e.Coord)
	}

	if len(rescued) > 0 {
		log.Printf("[RoundController] Tick %d: %d mice rescued (total %d)", s.Tick, len(rescued), s.Rescued)
	}

	// 猫闯火箭
	if !s.Level.Rules.CatsRaidGoals {
		return false
	}
	raided := false
	s.Store.Each(func(e *components.Entity) {
		if !e.IsCat() || raided {
			return
		}
		if cell, err := grid.CellAt(e.Coord); err == nil && cell.Kind == components.CellGoal {
			raided = true
		}
	})
	return raided
}

// evaluate 胜负判定（tick 已加一之后调用）
func (c *RoundController) evaluate(raided bool) {
	s := c.state
	r := s.Level.Rules

	switch {
	case s.Remaining == 0 && s.Rescued >= r.WinThreshold:
		c.finish(game.PhaseWon, "")
	case s.Lost > r.AllowedLosses:
		c.finish(game.PhaseLost, LossTooManyLost)
	case raided:
		c.finish(game.PhaseLost, LossGoalRaided)
	case r.TimeLimit > 0 && s.Tick > r.TimeLimit && s.Rescued < r.WinThreshold:
		c.finish(game.PhaseLost, LossTimeLimit)
	case s.Rescued+s.Remaining < r.WinThreshold:
		c.finish(game.PhaseLost, LossUnreachable)
	}
}

func (c *RoundController) finish(phase game.Phase, reason string) {
	s := c.state
	s.Phase = phase
	s.LossReason = reason
	if reason != "" {
		log.Printf("[RoundController] Round %s at tick %d: %s (rescued %d, lost %d, score %d)",
			phase, s.Tick, reason, s.Rescued, s.Lost, s.Score)
		return
	}
	log.Printf("[RoundController] Round %s at tick %d (rescued %d, lost %d, score %d)",
		phase, s.Tick, s.Rescued, s.Lost, s.Score)
}

// Abort 玩家中止回合
// 返回是否真的中止了（已终止的回合返回 false）
func (c *RoundController) Abort() bool {
	if c.state.Phase.IsTerminal() {
		return false
	}
	c.state.Phase = game.PhaseAborted
	log.Printf("[RoundController] Round aborted at tick %d", c.state.Tick)
	return true
}

// PlaceArrow 在当前 tick 放置箭头
func (c *RoundController) PlaceArrow(at types.Coord, dir types.Direction) error {
	if c.state.Phase.IsTerminal() {
		return fmt.Errorf("place arrow at %v: %w", at, ErrRoundOver)
	}
	return c.state.Arrows.Place(at, dir, c.state.Tick)
}

// RemoveArrow 移除箭头（格子上没有箭头时什么也不做）
func (c *RoundController) RemoveArrow(at types.Coord) error {
	if c.state.Phase.IsTerminal() {
		return fmt.Errorf("remove arrow at %v: %w", at, ErrRoundOver)
	}
	c.state.Arrows.Remove(at)
	return nil
}
