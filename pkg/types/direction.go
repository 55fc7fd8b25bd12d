// Package types 定义共享的基础类型
// 这个包不依赖任何其他业务包，用于解决循环引用问题
package types

import (
	"fmt"
	"strings"
)

// Direction 定义四个移动方向
type Direction int

const (
	DirUp Direction = iota
	DirDown
	DirLeft
	DirRight
)

// AllDirections 按固定顺序列出全部方向（遍历时保证输出稳定）
var AllDirections = [4]Direction{DirUp, DirDown, DirLeft, DirRight}

// directionStringMap 方向到配置字符串的映射
var directionStringMap = map[Direction]string{
	DirUp:    "up",
	DirDown:  "down",
	DirLeft:  "left",
	DirRight: "right",
}

// stringToDirectionMap 配置字符串到方向的反向映射
var stringToDirectionMap map[string]Direction

func init() {
	stringToDirectionMap = make(map[string]Direction)
	for d, s := range directionStringMap {
		stringToDirectionMap[s] = d
	}
	// 地图文本中使用的箭头符号
	stringToDirectionMap["^"] = DirUp
	stringToDirectionMap["v"] = DirDown
	stringToDirectionMap["<"] = DirLeft
	stringToDirectionMap[">"] = DirRight
}

// String 返回方向的配置字符串表示
func (d Direction) String() string {
	if s, ok := directionStringMap[d]; ok {
		return s
	}
	return "unknown"
}

// Symbol 返回方向的单字符箭头符号（调试输出和简易渲染使用）
func (d Direction) Symbol() string {
	switch d {
	case DirUp:
		return "^"
	case DirDown:
		return "v"
	case DirLeft:
		return "<"
	case DirRight:
		return ">"
	default:
		return "?"
	}
}

// Valid 判断是否为四个合法方向之一
func (d Direction) Valid() bool {
	return d >= DirUp && d <= DirRight
}

// Opposite 返回相反方向
func (d Direction) Opposite() Direction {
	switch d {
	case DirUp:
		return DirDown
	case DirDown:
		return DirUp
	case DirLeft:
		return DirRight
	default:
		return DirLeft
	}
}

// TurnRight 顺时针旋转 90 度
func (d Direction) TurnRight() Direction {
	switch d {
	case DirUp:
		return DirRight
	case DirDown:
		return DirLeft
	case DirLeft:
		return DirUp
	default:
		return DirDown
	}
}

// TurnLeft 逆时针旋转 90 度
func (d Direction) TurnLeft() Direction {
	switch d {
	case DirUp:
		return DirLeft
	case DirDown:
		return DirRight
	case DirLeft:
		return DirDown
	default:
		return DirUp
	}
}

// Delta 返回沿该方向前进一格的坐标增量
// 行号向下递增，因此 DirUp 的 dRow 为 -1
func (d Direction) Delta() (dCol, dRow int) {
	switch d {
	case DirUp:
		return 0, -1
	case DirDown:
		return 0, 1
	case DirLeft:
		return -1, 0
	default:
		return 1, 0
	}
}

// ParseDirection 将配置字符串转换为方向
// 支持 "up"/"down"/"left"/"right"（大小写不敏感）和 "^"/"v"/"<"/">"
func ParseDirection(s string) (Direction, error) {
	if d, ok := stringToDirectionMap[strings.ToLower(strings.TrimSpace(s))]; ok {
		return d, nil
	}
	return DirUp, fmt.Errorf("unknown direction %q", s)
}
