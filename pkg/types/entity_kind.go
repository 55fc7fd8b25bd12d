package types

import (
	"fmt"
	"strings"
)

// EntityKind 定义移动实体的种类
// 种类集合是封闭的：老鼠和猫的行为差异在系统内部通过 switch 选择
type EntityKind int

const (
	// EntityUnknown 未知种类
	EntityUnknown EntityKind = iota
	// EntityMouse 老鼠：被救援到火箭即得分
	EntityMouse
	// EntityCat 猫：与老鼠同格时抓住老鼠
	EntityCat
)

// String 返回实体种类的配置字符串表示
func (k EntityKind) String() string {
	switch k {
	case EntityMouse:
		return "mouse"
	case EntityCat:
		return "cat"
	default:
		return "unknown"
	}
}

// ParseEntityKind 将配置字符串转换为实体种类
func ParseEntityKind(s string) (EntityKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "mouse", "m":
		return EntityMouse, nil
	case "cat", "c":
		return EntityCat, nil
	default:
		return EntityUnknown, fmt.Errorf("unknown entity kind %q", s)
	}
}

// EntityID 是实体的唯一标识符
// 从 1 开始递增，0 保留为无效ID；同一回合内不会复用
type EntityID uint64
