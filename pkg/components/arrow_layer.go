package components

import (
	"fmt"
	"sort"

	"github.com/decker502/mouserocket/pkg/types"
)

// Arrow 玩家放置的方向箭头
type Arrow struct {
	Coord     types.Coord
	Direction types.Direction
	PlacedAt  int
	ExpiresAt int  // 0 表示永不过期
	Worn      bool // 被猫踩反过一次，再被踩反就会消失
}

// ActiveAt 箭头在指定 tick 是否仍然有效
func (a Arrow) ActiveAt(tick int) bool {
	return a.ExpiresAt == 0 || tick < a.ExpiresAt
}

// ArrowLayer 玩家箭头覆盖层
//
// 每个格子最多一个箭头。过期只在查询或放置时惰性清除，没有后台计时器，
// 整个模拟因此只是 (状态, tick) 的纯函数。
//
// 放置和移除可以在两个 tick 之间由输入方随时调用，它们只修改本层，不触碰实体。
type ArrowLayer struct {
	grid      *Grid
	maxActive int         // 同时存在的箭头上限，<= 0 表示不限
	ttl       int         // 箭头存活 tick 数，<= 0 表示永不过期
	stock     *ArrowStock // 可为 nil（不限方向库存）

	arrows map[types.Coord]*Arrow
}

// NewArrowLayer 创建箭头层
//
// 参数：
//
//	grid - 关卡网格（只读）
//	maxActive - 同时存在的箭头上限，<= 0 不限
//	ttl - 箭头存活 tick 数，<= 0 永不过期
//	stock - 方向库存，nil 表示不限
func NewArrowLayer(grid *Grid, maxActive, ttl int, stock *ArrowStock) *ArrowLayer {
	return &ArrowLayer{
		grid:      grid,
		maxActive: maxActive,
		ttl:       ttl,
		stock:     stock,
		arrows:    make(map[types.Coord]*Arrow),
	}
}

// Place 在格子上放置或覆盖箭头
//
// 失败情况（均为可恢复错误，返回给输入方用于提示）：
//   - 坐标越界：ErrOutOfBounds
//   - 墙、出生点、火箭、洞：ErrIllegalCell
//   - 新增箭头且已达上限：ErrArrowBudgetExhausted（不会自动挤掉最旧的箭头）
//   - 库存不足：ErrNoArrowStock
//
// 覆盖已有箭头不占用新的名额，过期时间按本次放置重新计算。
func (l *ArrowLayer) Place(at types.Coord, dir types.Direction, tick int) error {
	if !dir.Valid() {
		return fmt.Errorf("place arrow at %v: invalid direction %d: %w", at, dir, ErrIllegalCell)
	}

	cell, err := l.grid.CellAt(at)
	if err != nil {
		return fmt.Errorf("place arrow: %w", err)
	}
	switch cell.Kind {
	case CellWall, CellSpawn, CellGoal, CellHole:
		return fmt.Errorf("place arrow at %v on %s: %w", at, cell.Kind, ErrIllegalCell)
	}

	l.evictExpired(tick)

	existing, overwrite := l.arrows[at]
	if !overwrite && l.maxActive > 0 && len(l.arrows) >= l.maxActive {
		return fmt.Errorf("place arrow at %v (%d/%d active): %w", at, len(l.arrows), l.maxActive, ErrArrowBudgetExhausted)
	}

	if l.stock != nil && !(overwrite && existing.Direction == dir) {
		if !l.stock.take(dir) {
			return fmt.Errorf("place %s arrow at %v: %w", dir, at, ErrNoArrowStock)
		}
		if overwrite {
			l.stock.give(existing.Direction)
		}
	}

	arrow := &Arrow{
		Coord:     at,
		Direction: dir,
		PlacedAt:  tick,
	}
	if l.ttl > 0 {
		arrow.ExpiresAt = tick + l.ttl
	}
	l.arrows[at] = arrow
	return nil
}

// Remove 移除格子上的箭头，没有箭头时什么也不做
// 解谜模式下箭头退回库存
func (l *ArrowLayer) Remove(at types.Coord) {
	arrow, ok := l.arrows[at]
	if !ok {
		return
	}
	if l.stock != nil {
		l.stock.give(arrow.Direction)
	}
	delete(l.arrows, at)
}

// DirectionAt 返回格子上有效箭头的方向
// 查询到已过期的箭头时顺便将其删除
func (l *ArrowLayer) DirectionAt(at types.Coord, tick int) (types.Direction, bool) {
	arrow, ok := l.arrows[at]
	if !ok {
		return types.DirUp, false
	}
	if !arrow.ActiveAt(tick) {
		delete(l.arrows, at)
		return types.DirUp, false
	}
	return arrow.Direction, true
}

// ArrowAt 返回格子上的箭头副本（不检查过期）
func (l *ArrowLayer) ArrowAt(at types.Coord) (Arrow, bool) {
	arrow, ok := l.arrows[at]
	if !ok {
		return Arrow{}, false
	}
	return *arrow, true
}

// Wear 猫被箭头掉头时磨损箭头：完整 -> 磨损 -> 消失
// 返回箭头是否因此被移除（被磨掉的箭头不退回库存）
func (l *ArrowLayer) Wear(at types.Coord) bool {
	arrow, ok := l.arrows[at]
	if !ok {
		return false
	}
	if arrow.Worn {
		delete(l.arrows, at)
		return true
	}
	arrow.Worn = true
	return false
}

// ActiveCount 指定 tick 仍有效（占用名额）的箭头数量
// 与 Place 的名额检查口径一致：已过期但尚未清除的箭头不计入
func (l *ArrowLayer) ActiveCount(tick int) int {
	n := 0
	for _, arrow := range l.arrows {
		if arrow.ActiveAt(tick) {
			n++
		}
	}
	return n
}

// MaxActive 返回箭头上限（<= 0 表示不限）
func (l *ArrowLayer) MaxActive() int { return l.maxActive }

// TTL 返回箭头存活 tick 数（<= 0 表示永不过期）
func (l *ArrowLayer) TTL() int { return l.ttl }

// Stock 返回方向库存，可能为 nil
func (l *ArrowLayer) Stock() *ArrowStock { return l.stock }

// Arrows 返回指定 tick 仍有效的箭头快照，按行优先排序
// 供渲染方只读使用（ExpiresAt 可用于淡出效果）
func (l *ArrowLayer) Arrows(tick int) []Arrow {
	result := make([]Arrow, 0, len(l.arrows))
	for _, arrow := range l.arrows {
		if arrow.ActiveAt(tick) {
			result = append(result, *arrow)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Coord.Less(result[j].Coord)
	})
	return result
}

// evictExpired 清除所有已过期箭头（放置前调用，使过期箭头不再占用名额）
func (l *ArrowLayer) evictExpired(tick int) {
	for at, arrow := range l.arrows {
		if !arrow.ActiveAt(tick) {
			delete(l.arrows, at)
		}
	}
}
