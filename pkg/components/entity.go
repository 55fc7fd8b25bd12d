package components

import "github.com/decker502/mouserocket/pkg/types"

// Entity 老鼠或猫
//
// 种类是封闭的标签变体（Kind 字段），种类相关的规则由移动系统和回合控制器内的 switch 处理。
// Facing 是最后一次移动的方向，没有箭头改向时保持不变。
type Entity struct {
	ID     types.EntityID
	Kind   types.EntityKind
	Coord  types.Coord
	Facing types.Direction

	Alive   bool
	Rescued bool // 仅老鼠：已进入匹配的火箭

	// GoalID 老鼠要进入的火箭编号，0 表示任意火箭均可
	GoalID int
}

// IsMouse 是否为老鼠
func (e *Entity) IsMouse() bool { return e.Kind == types.EntityMouse }

// IsCat 是否为猫
func (e *Entity) IsCat() bool { return e.Kind == types.EntityCat }

// AcceptsGoal 老鼠是否可以被指定编号的火箭救走
func (e *Entity) AcceptsGoal(goalID int) bool {
	return e.IsMouse() && (e.GoalID == 0 || e.GoalID == goalID)
}
