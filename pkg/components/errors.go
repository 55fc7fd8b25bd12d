package components

import "errors"

// 组件操作返回的哨兵错误，调用方通过 errors.Is 判断类别
var (
	// ErrOutOfBounds 坐标超出网格范围（属于调用契约错误，不应在正常游戏中出现）
	ErrOutOfBounds = errors.New("coordinate out of bounds")

	// ErrIllegalCell 该格子不允许放置箭头
	// 墙和出生点之外，火箭和洞也不允许放置：这是本游戏的关卡规则，
	// 箭头只能放在空地上
	ErrIllegalCell = errors.New("illegal cell for arrow")

	// ErrArrowBudgetExhausted 同时存在的箭头数量已达上限
	ErrArrowBudgetExhausted = errors.New("arrow budget exhausted")

	// ErrNoArrowStock 该方向的箭头库存已用完（解谜模式）
	ErrNoArrowStock = errors.New("no arrows of this direction left in stock")
)
