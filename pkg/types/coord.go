package types

import "fmt"

// Coord 网格坐标（列, 行），从 0 开始
// 模拟过程中实体和箭头只使用整数格子坐标
type Coord struct {
	Col int
	Row int
}

// Step 返回沿指定方向移动一格后的坐标（不做边界检查）
func (c Coord) Step(d Direction) Coord {
	dCol, dRow := d.Delta()
	return Coord{Col: c.Col + dCol, Row: c.Row + dRow}
}

// String 返回 "(col,row)" 形式的字符串
func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.Col, c.Row)
}

// Less 按行优先顺序比较两个坐标，用于稳定排序
func (c Coord) Less(o Coord) bool {
	if c.Row != o.Row {
		return c.Row < o.Row
	}
	return c.Col < o.Col
}
