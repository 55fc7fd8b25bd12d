package systems

import (
	"fmt"
	"log"

	"github.com/decker502/mouserocket/pkg/components"
	"github.com/decker502/mouserocket/pkg/ecs"
	"github.com/decker502/mouserocket/pkg/types"
)

// SpawnSystem 出生系统
//
// 职责：
//   - 按关卡出生表在指定 tick 于出生点生成老鼠和猫
//   - 新实体朝向取出生点的朝向
//   - 统计整局计划出生的老鼠总数（胜负判定用）
//
// 每条出生记录的每次触发最多执行一次；同一 tick 重复调用 Update 不会重复生成。
type SpawnSystem struct {
	grid   *components.Grid
	events []components.SpawnEvent

	// fired 每条记录最后一次触发的 tick
	fired []int
}

// NewSpawnSystem 创建出生系统
//
// 参数：
//
//	grid - 关卡网格（用于查找出生点坐标和朝向）
//	events - 出生表，引用的出生点必须存在
//
// 返回：
//
//	出生系统；出生表引用了不存在的出生点时返回错误
func NewSpawnSystem(grid *components.Grid, events []components.SpawnEvent) (*SpawnSystem, error) {
	for i, ev := range events {
		if _, _, ok := grid.SpawnPoint(ev.SpawnPoint); !ok {
			return nil, fmt.Errorf("spawn event %d: unknown spawn point %d", i, ev.SpawnPoint)
		}
		if ev.Kind != types.EntityMouse && ev.Kind != types.EntityCat {
			return nil, fmt.Errorf("spawn event %d: invalid entity kind %v", i, ev.Kind)
		}
	}

	fired := make([]int, len(events))
	for i := range fired {
		fired[i] = -1
	}
	return &SpawnSystem{
		grid:   grid,
		events: events,
		fired:  fired,
	}, nil
}

// Update 生成当前 tick 到期的实体
//
// 返回：
//
//	本 tick 新生成的实体副本（按出生表顺序）
func (s *SpawnSystem) Update(tick int, store *ecs.EntityStore) []components.Entity {
	var spawned []components.Entity

	for i, ev := range s.events {
		if s.fired[i] >= tick {
			continue
		}
		n := ev.DueAt(tick)
		if n == 0 {
			continue
		}
		s.fired[i] = tick

		at, cell, _ := s.grid.SpawnPoint(ev.SpawnPoint)
		goalID := 0
		if ev.Kind == types.EntityMouse {
			goalID = ev.GoalID
		}
		for k := 0; k < n; k++ {
			e := store.Insert(ev.Kind, at, cell.Facing, goalID)
			spawned = append(spawned, *e)
		}
	}

	if len(spawned) > 0 {
		log.Printf("[SpawnSystem] Tick %d: spawned %d entities", tick, len(spawned))
	}
	return spawned
}

// TotalMice 整局计划出生的老鼠总数
func (s *SpawnSystem) TotalMice() int {
	total := 0
	for _, ev := range s.events {
		if ev.Kind == types.EntityMouse {
			total += ev.Total()
		}
	}
	return total
}

// Finished 指定 tick 之后是否不再有任何出生
func (s *SpawnSystem) Finished(tick int) bool {
	for _, ev := range s.events {
		if ev.LastTick() >= tick {
			return false
		}
	}
	return true
}
