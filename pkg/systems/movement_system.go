package systems

import (
	"log"
	"sort"

	"github.com/decker502/mouserocket/pkg/components"
	"github.com/decker502/mouserocket/pkg/ecs"
	"github.com/decker502/mouserocket/pkg/types"
)

// Move 单个实体在一个 tick 内的移动结果
type Move struct {
	ID     types.EntityID
	Kind   types.EntityKind
	From   types.Coord
	To     types.Coord
	Facing types.Direction

	// Boxed 四个方向都走不通，原地不动且朝向不变
	Boxed bool
}

// Moved 实体是否离开了原来的格子
func (m Move) Moved() bool { return m.From != m.To }

// MovementPlan 一个 tick 的移动计划
//
// Resolve 只读取当前快照计算计划，Apply 再一次性提交，
// 所以实体的遍历顺序不会影响结果。
type MovementPlan struct {
	Tick  int
	Moves []Move // 按实体ID升序

	// wear 猫被箭头掉头的次数，按格子统计，提交阶段才作用到箭头层
	wear map[types.Coord]int
}

// Lookup 按实体ID查找移动结果
func (p *MovementPlan) Lookup(id types.EntityID) (Move, bool) {
	i := sort.Search(len(p.Moves), func(i int) bool { return p.Moves[i].ID >= id })
	if i < len(p.Moves) && p.Moves[i].ID == id {
		return p.Moves[i], true
	}
	return Move{}, false
}

// WornCells 返回本 tick 被猫磨损的箭头格子（行优先排序）
func (p *MovementPlan) WornCells() []types.Coord {
	cells := make([]types.Coord, 0, len(p.wear))
	for at := range p.wear {
		cells = append(cells, at)
	}
	sort.Slice(cells, func(i, j int) bool { return cells[i].Less(cells[j]) })
	return cells
}

// MovementSystem 移动解算系统
//
// 职责：
//   - 根据网格、箭头层和实体快照计算每个实体下一个 tick 的位置和朝向
//   - 提交移动结果，并结算猫对箭头的磨损
//
// 每个实体的规则：
//  1. 当前格子有有效箭头时，意图方向为箭头方向，否则保持原朝向
//  2. 意图方向可走则前进一格
//  3. 不可走时依次尝试右转、左转、掉头，取第一个可走的方向
//  4. 四面都不可走则原地不动，朝向不变
//
// 同种实体可以同格；老鼠与猫同格的后果由回合控制器在提交后处理。
type MovementSystem struct {
	// catMoveInterval 猫每隔多少个 tick 移动一次（猫比老鼠慢），<= 1 表示每个 tick 都移动
	catMoveInterval int
}

// NewMovementSystem 创建移动解算系统
func NewMovementSystem(catMoveInterval int) *MovementSystem {
	return &MovementSystem{catMoveInterval: catMoveInterval}
}

// Resolve 计算移动计划，不修改任何实体
//
// 参数：
//
//	grid - 关卡网格
//	arrows - 箭头层（查询时会惰性清除过期箭头）
//	entities - 实体快照，顺序任意
//	tick - 当前 tick
func (s *MovementSystem) Resolve(grid *components.Grid, arrows *components.ArrowLayer, entities []components.Entity, tick int) *MovementPlan {
	plan := &MovementPlan{
		Tick:  tick,
		Moves: make([]Move, 0, len(entities)),
		wear:  make(map[types.Coord]int),
	}

	for i := range entities {
		e := &entities[i]
		if !e.Alive {
			continue
		}
		move, wearsArrow := s.resolveOne(grid, arrows, e, tick)
		plan.Moves = append(plan.Moves, move)
		if wearsArrow {
			plan.wear[e.Coord]++
		}
	}

	sort.Slice(plan.Moves, func(i, j int) bool { return plan.Moves[i].ID < plan.Moves[j].ID })
	return plan
}

// resolveOne 计算单个实体的移动，第二个返回值表示是否磨损脚下的箭头
func (s *MovementSystem) resolveOne(grid *components.Grid, arrows *components.ArrowLayer, e *components.Entity, tick int) (Move, bool) {
	move := Move{
		ID:     e.ID,
		Kind:   e.Kind,
		From:   e.Coord,
		To:     e.Coord,
		Facing: e.Facing,
	}

	switch e.Kind {
	case types.EntityCat:
		if !s.catMovesAt(tick) {
			return move, false
		}
	case types.EntityMouse:
	default:
		return move, false
	}

	intended := e.Facing
	arrowDir, hasArrow := arrows.DirectionAt(e.Coord, tick)
	if hasArrow {
		intended = arrowDir
	}
	// 猫被箭头掉头时磨损箭头，老鼠不会
	wearsArrow := hasArrow && e.IsCat() && arrowDir == e.Facing.Opposite()

	dir, ok := chooseDirection(grid, e.Coord, intended)
	if !ok {
		move.Boxed = true
		return move, wearsArrow
	}

	move.Facing = dir
	move.To = e.Coord.Step(dir)
	return move, wearsArrow
}

func (s *MovementSystem) catMovesAt(tick int) bool {
	return s.catMoveInterval <= 1 || tick%s.catMoveInterval == 0
}

// chooseDirection 按 直行 -> 右转 -> 左转 -> 掉头 的固定优先级选择第一个可走方向
func chooseDirection(grid *components.Grid, at types.Coord, intended types.Direction) (types.Direction, bool) {
	candidates := [4]types.Direction{
		intended,
		intended.TurnRight(),
		intended.TurnLeft(),
		intended.Opposite(),
	}
	for _, d := range candidates {
		if grid.IsWalkable(at.Step(d)) {
			return d, true
		}
	}
	return intended, false
}

// Apply 一次性提交移动计划并结算箭头磨损
// 返回因磨损而被移除的箭头格子
func (s *MovementSystem) Apply(plan *MovementPlan, store *ecs.EntityStore, arrows *components.ArrowLayer) []types.Coord {
	for _, m := range plan.Moves {
		e, ok := store.Get(m.ID)
		if !ok {
			continue
		}
		e.Coord = m.To
		e.Facing = m.Facing
	}

	var removed []types.Coord
	for _, at := range plan.WornCells() {
		for hit := 0; hit < plan.wear[at]; hit++ {
			if arrows.Wear(at) {
				removed = append(removed, at)
				log.Printf("[MovementSystem] Arrow at %v worn out by cats (tick %d)", at, plan.Tick)
				break
			}
		}
	}
	return removed
}
