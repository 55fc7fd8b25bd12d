package utils

import (
	"github.com/decker502/mouserocket/pkg/config"
	"github.com/decker502/mouserocket/pkg/types"
)

// 棋盘布局常量
// 棋盘左上角在 (BoardStartX, BoardStartY)，每格 CellSize 像素的正方形
const (
	BoardStartX = 16.0
	BoardStartY = 48.0
	CellSize    = 48.0

	// 棋盘下方的状态栏高度
	StatusBarHeight = 40

	ScreenWidth  = int(BoardStartX*2) + config.GridColumns*int(CellSize)
	ScreenHeight = int(BoardStartY) + config.GridRows*int(CellSize) + StatusBarHeight
)

// MouseToGridCoords 将鼠标屏幕坐标转换为棋盘格子坐标
// 参数:
//   - mouseX, mouseY: 鼠标的屏幕坐标
//
// 返回:
//   - coord: 格子坐标
//   - isValid: 是否在棋盘范围内
func MouseToGridCoords(mouseX, mouseY int) (coord types.Coord, isValid bool) {
	x := float64(mouseX)
	y := float64(mouseY)

	gridEndX := BoardStartX + float64(config.GridColumns)*CellSize
	gridEndY := BoardStartY + float64(config.GridRows)*CellSize

	if x < BoardStartX || x >= gridEndX || y < BoardStartY || y >= gridEndY {
		return types.Coord{}, false
	}

	col := int((x - BoardStartX) / CellSize)
	row := int((y - BoardStartY) / CellSize)

	// 边界检查（防止浮点数计算误差导致的越界）
	col = min(max(col, 0), config.GridColumns-1)
	row = min(max(row, 0), config.GridRows-1)

	return types.Coord{Col: col, Row: row}, true
}

// GridToScreenCoords 返回格子左上角的屏幕坐标
func GridToScreenCoords(c types.Coord) (x, y float64) {
	return BoardStartX + float64(c.Col)*CellSize, BoardStartY + float64(c.Row)*CellSize
}

// GridCenter 返回格子中心的屏幕坐标
func GridCenter(c types.Coord) (centerX, centerY float64) {
	x, y := GridToScreenCoords(c)
	return x + CellSize/2, y + CellSize/2
}
