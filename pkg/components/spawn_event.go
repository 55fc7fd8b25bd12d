package components

import "github.com/decker502/mouserocket/pkg/types"

// SpawnEvent 关卡出生表中的一条记录（静态数据）
//
// 默认只在 Tick 触发一次。Every > 0 时为周期性出生：
// 在 Tick, Tick+Every, Tick+2*Every ... 共触发 Count 次，每次一个实体。
// Every == 0 且 Count > 1 时，Count 个实体在同一 tick 一起出生（同种实体允许同格）。
type SpawnEvent struct {
	Tick       int
	SpawnPoint int
	Kind       types.EntityKind
	GoalID     int // 仅老鼠
	Every      int
	Count      int
}

// Total 该事件总共产生的实体数
func (e SpawnEvent) Total() int {
	if e.Count < 1 {
		return 1
	}
	return e.Count
}

// DueAt 返回该事件在指定 tick 应产生的实体数量（0 表示本 tick 不触发）
func (e SpawnEvent) DueAt(tick int) int {
	if tick < e.Tick {
		return 0
	}
	if e.Every <= 0 {
		if tick == e.Tick {
			return e.Total()
		}
		return 0
	}

	offset := tick - e.Tick
	if offset%e.Every != 0 {
		return 0
	}
	if offset/e.Every >= e.Total() {
		return 0
	}
	return 1
}

// LastTick 该事件最后一次触发的 tick
func (e SpawnEvent) LastTick() int {
	if e.Every <= 0 {
		return e.Tick
	}
	return e.Tick + (e.Total()-1)*e.Every
}
