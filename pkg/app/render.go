package app

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/decker502/mouserocket/pkg/components"
	"github.com/decker502/mouserocket/pkg/config"
	"github.com/decker502/mouserocket/pkg/game"
	"github.com/decker502/mouserocket/pkg/types"
	"github.com/decker502/mouserocket/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// 调色板
var (
	colorBackground = color.RGBA{R: 24, G: 28, B: 40, A: 255}
	colorFloorA     = color.RGBA{R: 214, G: 206, B: 170, A: 255}
	colorFloorB     = color.RGBA{R: 200, G: 192, B: 156, A: 255}
	colorWall       = color.RGBA{R: 70, G: 76, B: 96, A: 255}
	colorGridLine   = color.RGBA{R: 0, G: 0, B: 0, A: 40}
	colorSpawn      = color.RGBA{R: 120, G: 170, B: 230, A: 255}
	colorGoal       = color.RGBA{R: 220, G: 70, B: 60, A: 255}
	colorHole       = color.RGBA{R: 10, G: 10, B: 14, A: 255}
	colorArrow      = color.RGBA{R: 90, G: 200, B: 110, A: 220}
	colorArrowWorn  = color.RGBA{R: 90, G: 200, B: 110, A: 110}
	colorMouse      = color.RGBA{R: 250, G: 250, B: 245, A: 255}
	colorCat        = color.RGBA{R: 240, G: 140, B: 40, A: 255}
	colorFacing     = color.RGBA{R: 30, G: 30, B: 30, A: 255}
)

const (
	cellSize   = float32(utils.CellSize)
	cellPixels = int(utils.CellSize)
)

// drawBoard 绘制网格的静态部分
func drawBoard(screen *ebiten.Image, grid *components.Grid, gridLines bool) {
	for row := 0; row < grid.Height(); row++ {
		for col := 0; col < grid.Width(); col++ {
			at := types.Coord{Col: col, Row: row}
			cell, err := grid.CellAt(at)
			if err != nil {
				continue
			}
			fx, fy := utils.GridToScreenCoords(at)
			x, y := float32(fx), float32(fy)

			floor := colorFloorA
			if (col+row)%2 == 1 {
				floor = colorFloorB
			}

			switch cell.Kind {
			case components.CellWall:
				vector.DrawFilledRect(screen, x, y, cellSize, cellSize, colorWall, false)
			case components.CellHole:
				vector.DrawFilledRect(screen, x, y, cellSize, cellSize, floor, false)
				vector.DrawFilledCircle(screen, x+cellSize/2, y+cellSize/2, cellSize*0.4, colorHole, true)
			case components.CellSpawn:
				vector.DrawFilledRect(screen, x, y, cellSize, cellSize, colorSpawn, false)
				ebitenutil.DebugPrintAt(screen, cell.Facing.Symbol(), int(x)+4, int(y)+2)
			case components.CellGoal:
				vector.DrawFilledRect(screen, x, y, cellSize, cellSize, floor, false)
				vector.DrawFilledRect(screen, x+6, y+6, cellSize-12, cellSize-12, colorGoal, true)
				ebitenutil.DebugPrintAt(screen, fmt.Sprintf("R%d", cell.ID), int(x)+14, int(y)+16)
			default:
				vector.DrawFilledRect(screen, x, y, cellSize, cellSize, floor, false)
			}

			if gridLines {
				vector.StrokeRect(screen, x, y, cellSize, cellSize, 1, colorGridLine, false)
			}
		}
	}
}

// drawArrows 绘制有效箭头，可选显示剩余 tick
func drawArrows(screen *ebiten.Image, arrows []components.Arrow, tick int, showTimers bool) {
	for _, arrow := range arrows {
		fx, fy := utils.GridToScreenCoords(arrow.Coord)
		x, y := float32(fx), float32(fy)

		clr := colorArrow
		if arrow.Worn {
			clr = colorArrowWorn
		}
		vector.DrawFilledRect(screen, x+3, y+3, cellSize-6, cellSize-6, clr, true)

		// 箭身：从格子中心指向箭头方向
		cx, cy := x+cellSize/2, y+cellSize/2
		dCol, dRow := arrow.Direction.Delta()
		tipX, tipY := cx+float32(dCol)*cellSize*0.35, cy+float32(dRow)*cellSize*0.35
		vector.StrokeLine(screen, cx-float32(dCol)*cellSize*0.3, cy-float32(dRow)*cellSize*0.3, tipX, tipY, 4, colorFacing, true)
		vector.DrawFilledCircle(screen, tipX, tipY, 5, colorFacing, true)

		if showTimers && arrow.ExpiresAt > 0 {
			ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%d", arrow.ExpiresAt-tick), int(x)+3, int(y)+cellPixels-16)
		}
	}
}

// drawEntities 绘制老鼠和猫，朝向用短线表示
// 同一格的多个实体只画一个，并标出数量
func drawEntities(screen *ebiten.Image, entities []components.Entity) {
	type stackKey struct {
		at   types.Coord
		kind types.EntityKind
	}
	stacks := make(map[stackKey]int)

	for _, e := range entities {
		key := stackKey{e.Coord, e.Kind}
		stacks[key]++
		if stacks[key] > 1 {
			continue
		}

		cx, cy := utils.GridCenter(e.Coord)
		x, y := float32(cx), float32(cy)
		dCol, dRow := e.Facing.Delta()

		switch e.Kind {
		case types.EntityMouse:
			vector.DrawFilledCircle(screen, x, y, cellSize*0.22, colorMouse, true)
		case types.EntityCat:
			vector.DrawFilledRect(screen, x-cellSize*0.3, y-cellSize*0.3, cellSize*0.6, cellSize*0.6, colorCat, true)
		}
		vector.StrokeLine(screen, x, y, x+float32(dCol)*cellSize*0.3, y+float32(dRow)*cellSize*0.3, 3, colorFacing, true)
	}

	for key, n := range stacks {
		if n < 2 {
			continue
		}
		fx, fy := utils.GridToScreenCoords(key.at)
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("x%d", n), int(fx)+cellPixels-18, int(fy)+2)
	}
}

// hudInfo 抬头显示的文字内容
type hudInfo struct {
	top    string
	status string
	help   string
}

func (a *App) hud() hudInfo {
	state := a.controller.State()
	rules := a.level.Rules

	var top strings.Builder
	fmt.Fprintf(&top, "Level %s: %s   Tick %d", a.level.ID, a.level.Name, state.Tick)
	if rules.TimeLimit > 0 {
		fmt.Fprintf(&top, "/%d", rules.TimeLimit)
	}
	fmt.Fprintf(&top, "   Score %d\nRescued %d/%d   Lost %d/%d   Arrows %d",
		state.Score, state.Rescued, rules.WinThreshold, state.Lost, rules.AllowedLosses, state.Arrows.ActiveCount(state.Tick))
	if rules.MaxArrows > 0 {
		fmt.Fprintf(&top, "/%d", rules.MaxArrows)
	}
	fmt.Fprintf(&top, "   Next %s", a.selectedDir.Symbol())
	if stock := state.Arrows.Stock(); stock != nil {
		fmt.Fprintf(&top, " [^%d v%d <%d >%d]",
			stock.Count(types.DirUp), stock.Count(types.DirDown), stock.Count(types.DirLeft), stock.Count(types.DirRight))
	}

	status := state.Phase.String()
	switch {
	case state.Phase == game.PhaseLost:
		status += ": " + state.LossReason
	case a.paused && state.Phase == game.PhaseRunning:
		status = "Paused"
	}
	if rec, ok := a.gameState.Progress.Best(a.level.ID); ok && rec.Wins > 0 {
		status += fmt.Sprintf("   Best %d", rec.BestScore)
	}
	if a.message != "" {
		status += "   " + a.message
	}

	return hudInfo{
		top:    top.String(),
		status: status,
		help:   a.helpText(),
	}
}

func (a *App) helpText() string {
	if utils.IsMobile() {
		return "Tap place  Two-finger tap remove  Tap outside the board to turn the next arrow"
	}
	return fmt.Sprintf("WASD dir  LMB place  RMB remove  Space pause  Esc abort  R restart  N next  +/- %dtps",
		a.gameState.Settings.GetSettings().TicksPerSecond)
}

func drawHUD(screen *ebiten.Image, info hudInfo) {
	ebitenutil.DebugPrintAt(screen, info.top, int(utils.BoardStartX), 6)

	boardBottom := int(utils.BoardStartY) + cellPixels*config.GridRows
	ebitenutil.DebugPrintAt(screen, info.status, int(utils.BoardStartX), boardBottom+4)
	ebitenutil.DebugPrintAt(screen, info.help, int(utils.BoardStartX), boardBottom+20)
}
