package components

import "github.com/decker502/mouserocket/pkg/types"

// ArrowStock 解谜模式下每个方向剩余可用的箭头数
type ArrowStock struct {
	counts [4]int
}

// NewArrowStock 按上、下、左、右的顺序创建库存
func NewArrowStock(up, down, left, right int) *ArrowStock {
	s := &ArrowStock{}
	s.counts[types.DirUp] = up
	s.counts[types.DirDown] = down
	s.counts[types.DirLeft] = left
	s.counts[types.DirRight] = right
	return s
}

// Count 返回指定方向剩余数量
func (s *ArrowStock) Count(d types.Direction) int {
	if !d.Valid() {
		return 0
	}
	return s.counts[d]
}

// Total 返回所有方向剩余数量之和
func (s *ArrowStock) Total() int {
	total := 0
	for _, n := range s.counts {
		total += n
	}
	return total
}

func (s *ArrowStock) take(d types.Direction) bool {
	if s.counts[d] <= 0 {
		return false
	}
	s.counts[d]--
	return true
}

func (s *ArrowStock) give(d types.Direction) {
	s.counts[d]++
}

// Clone 复制库存，每个回合使用独立的副本
func (s *ArrowStock) Clone() *ArrowStock {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}
