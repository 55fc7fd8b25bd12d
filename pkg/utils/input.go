// Package utils 提供通用工具函数
package utils

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// PointerAction 当前帧的指针操作
type PointerAction int

const (
	PointerNone   PointerAction = iota
	PointerPlace                // 左键或单指触摸：放置箭头
	PointerRemove               // 右键或双指触摸：移除箭头
)

// GetPointerAction 获取当前帧刚发生的指针操作及位置
// 同时支持鼠标和触摸，优先检测触摸
func GetPointerAction() (PointerAction, int, int) {
	// 首先检查触摸输入（移动设备）
	touchIDs := inpututil.AppendJustPressedTouchIDs(nil)
	if len(touchIDs) > 0 {
		x, y := ebiten.TouchPosition(touchIDs[0])
		if len(ebiten.AppendTouchIDs(nil)) >= 2 {
			return PointerRemove, x, y
		}
		return PointerPlace, x, y
	}

	// 其次检查鼠标输入（桌面设备）
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		return PointerPlace, x, y
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight) {
		x, y := ebiten.CursorPosition()
		return PointerRemove, x, y
	}

	return PointerNone, 0, 0
}

// GetPointerPosition 获取当前指针位置（触摸或鼠标）
// 优先返回触摸位置，如果没有触摸则返回鼠标位置
func GetPointerPosition() (int, int) {
	touchIDs := ebiten.AppendTouchIDs(nil)
	if len(touchIDs) > 0 {
		return ebiten.TouchPosition(touchIDs[0])
	}
	return ebiten.CursorPosition()
}
