// Package app 提供游戏应用的核心包装器
//
// 该包把关卡加载、回合推进、输入和绘制组合成一个 ebiten.Game，
// main.go 只负责解析命令行参数并启动。
package app

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"log"

	"github.com/decker502/mouserocket/pkg/components"
	"github.com/decker502/mouserocket/pkg/embedded"
	"github.com/decker502/mouserocket/pkg/game"
	"github.com/decker502/mouserocket/pkg/systems"
	"github.com/decker502/mouserocket/pkg/types"
	"github.com/decker502/mouserocket/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Config 定义应用启动配置
type Config struct {
	// Verbose 启用详细日志输出
	Verbose bool
	// Level 指定要加载的内嵌关卡（如 "1-2"），为空则从第一关开始
	Level string
	// LevelFile 从文件系统加载关卡（优先于 Level，用于编辑关卡）
	LevelFile string
}

// App 是游戏应用的核心包装器，实现 ebiten.Game 接口
type App struct {
	gameState *game.GameState

	levelIDs   []string // 内嵌关卡列表，LevelFile 模式下为空
	levelIndex int
	levelFile  string

	level      *game.Level
	controller *systems.RoundController
	lastReport systems.TickReport
	recorded   bool // 本局成绩是否已记录

	selectedDir types.Direction // 下一次放置的箭头方向
	paused      bool
	accumulator float64 // 距离下一个 tick 累积的秒数
	message     string  // 状态栏提示（如放置失败原因）

	verbose bool
}

// NewApp 创建并初始化游戏应用
//
// 调用此函数前，必须先调用 embedded.Init() 初始化嵌入资源。
func NewApp(cfg Config) (*App, error) {
	// 配置日志输出
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	// Android 上 gdata 不会自己创建存储目录，必须在 GameState 打开存储之前准备好
	if err := utils.EnsureStorageDir(); err != nil {
		log.Printf("[App] Warning: %v", err)
	}

	a := &App{
		gameState:   game.GetGameState(),
		levelFile:   cfg.LevelFile,
		selectedDir: types.DirUp,
		verbose:     cfg.Verbose,
	}

	if cfg.LevelFile == "" {
		ids, err := embedded.LevelIDs()
		if err != nil {
			return nil, fmt.Errorf("failed to list levels: %w", err)
		}
		if len(ids) == 0 {
			return nil, fmt.Errorf("no embedded levels found in %s", embedded.LevelsDir)
		}
		a.levelIDs = ids

		if cfg.Level != "" {
			a.levelIndex = -1
			for i, id := range ids {
				if id == cfg.Level {
					a.levelIndex = i
				}
			}
			if a.levelIndex < 0 {
				return nil, fmt.Errorf("unknown level %q (available: %v)", cfg.Level, ids)
			}
		}
	}

	if err := a.loadLevel(); err != nil {
		return nil, err
	}

	ebiten.SetFullscreen(a.gameState.Settings.GetSettings().Fullscreen)
	return a, nil
}

// loadLevel 加载当前关卡并开一局新的回合
func (a *App) loadLevel() error {
	var (
		level *game.Level
		err   error
	)
	if a.levelFile != "" {
		level, err = game.LoadLevelFile(a.levelFile)
	} else {
		level, err = game.LoadEmbeddedLevel(a.levelIDs[a.levelIndex])
	}
	if err != nil {
		return fmt.Errorf("failed to load level: %w", err)
	}

	a.level = level
	a.gameState.CurrentLevelID = level.ID
	log.Printf("[App] Level loaded: %s (%s)", level.ID, level.Name)
	return a.restart()
}

// restart 在当前关卡上重新开一局
func (a *App) restart() error {
	controller, err := systems.NewRoundController(a.level)
	if err != nil {
		return err
	}
	a.controller = controller
	a.lastReport = systems.TickReport{}
	a.recorded = false
	a.accumulator = 0
	a.message = ""
	return nil
}

// Update 更新游戏逻辑
// 每帧调用一次（默认每秒 60 次），模拟按设置的 tick 速率推进
func (a *App) Update() error {
	if err := a.handleKeys(); err != nil {
		return err
	}
	a.handlePointer()

	if a.paused || a.controller.Phase().IsTerminal() {
		return nil
	}

	a.accumulator += 1.0 / float64(ebiten.TPS())
	interval := 1.0 / float64(a.gameState.Settings.GetSettings().TicksPerSecond)
	if a.accumulator >= interval {
		a.accumulator -= interval
		a.lastReport = a.controller.AdvanceTick()
		a.recordIfFinished()
	}
	return nil
}

// handleKeys 处理键盘输入
func (a *App) handleKeys() error {
	settings := a.gameState.Settings

	// 方向选择：方向键或 WASD
	directionKeys := []struct {
		keys []ebiten.Key
		dir  types.Direction
	}{
		{[]ebiten.Key{ebiten.KeyArrowUp, ebiten.KeyW}, types.DirUp},
		{[]ebiten.Key{ebiten.KeyArrowDown, ebiten.KeyS}, types.DirDown},
		{[]ebiten.Key{ebiten.KeyArrowLeft, ebiten.KeyA}, types.DirLeft},
		{[]ebiten.Key{ebiten.KeyArrowRight, ebiten.KeyD}, types.DirRight},
	}
	for _, dk := range directionKeys {
		for _, k := range dk.keys {
			if inpututil.IsKeyJustPressed(k) {
				a.selectedDir = dk.dir
			}
		}
	}

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		if a.controller.Abort() {
			a.message = "round aborted, R to restart"
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		return a.restart()
	case inpututil.IsKeyJustPressed(ebiten.KeyN) && len(a.levelIDs) > 0:
		a.levelIndex = (a.levelIndex + 1) % len(a.levelIDs)
		return a.loadLevel()
	case inpututil.IsKeyJustPressed(ebiten.KeySpace):
		a.paused = !a.paused
	case inpututil.IsKeyJustPressed(ebiten.KeyEqual), inpututil.IsKeyJustPressed(ebiten.KeyKPAdd):
		settings.SetTicksPerSecond(settings.GetSettings().TicksPerSecond + 1)
		a.saveSettings()
	case inpututil.IsKeyJustPressed(ebiten.KeyMinus), inpututil.IsKeyJustPressed(ebiten.KeyKPSubtract):
		settings.SetTicksPerSecond(settings.GetSettings().TicksPerSecond - 1)
		a.saveSettings()
	case inpututil.IsKeyJustPressed(ebiten.KeyT):
		settings.SetShowArrowTimers(!settings.GetSettings().ShowArrowTimers)
		a.saveSettings()
	case inpututil.IsKeyJustPressed(ebiten.KeyG):
		settings.SetShowGridLines(!settings.GetSettings().ShowGridLines)
		a.saveSettings()
	case inpututil.IsKeyJustPressed(ebiten.KeyF11):
		fullscreen := !ebiten.IsFullscreen()
		ebiten.SetFullscreen(fullscreen)
		settings.SetFullscreen(fullscreen)
		a.saveSettings()
	}
	return nil
}

// handlePointer 左键放置箭头，右键移除
func (a *App) handlePointer() {
	action, x, y := utils.GetPointerAction()
	if action == utils.PointerNone {
		return
	}
	at, ok := utils.MouseToGridCoords(x, y)
	if !ok {
		// 点击棋盘外切换下一次放置的方向（触屏没有方向键）
		if action == utils.PointerPlace {
			a.selectedDir = a.selectedDir.TurnRight()
		}
		return
	}

	var err error
	switch action {
	case utils.PointerPlace:
		err = a.controller.PlaceArrow(at, a.selectedDir)
	case utils.PointerRemove:
		err = a.controller.RemoveArrow(at)
	}

	switch {
	case err == nil:
		a.message = ""
	case errors.Is(err, components.ErrArrowBudgetExhausted):
		a.message = "no arrows left, remove one first"
	case errors.Is(err, components.ErrNoArrowStock):
		a.message = fmt.Sprintf("no %s arrows left", a.selectedDir)
	case errors.Is(err, components.ErrIllegalCell):
		a.message = "cannot place an arrow there"
	case errors.Is(err, systems.ErrRoundOver):
		a.message = "round is over, R to restart"
	default:
		a.message = err.Error()
	}
	if err != nil {
		log.Printf("[App] Arrow operation rejected: %v", err)
	}
}

// recordIfFinished 回合胜利或失败后记录一次成绩（中止不记录）
func (a *App) recordIfFinished() {
	state := a.controller.State()
	if a.recorded || !state.Phase.IsTerminal() {
		return
	}
	a.recorded = true
	improved, err := a.gameState.Progress.Record(state)
	if err != nil {
		log.Printf("[App] Warning: failed to record progress: %v", err)
		return
	}
	if improved {
		a.message = "new best score!"
	}
}

func (a *App) saveSettings() {
	if err := a.gameState.Settings.Save(); err != nil {
		log.Printf("[App] Warning: failed to save settings: %v", err)
	}
}

// Draw 绘制游戏画面
// 每帧调用一次
func (a *App) Draw(screen *ebiten.Image) {
	screen.Fill(colorBackground)

	state := a.controller.State()
	settings := a.gameState.Settings.GetSettings()

	drawBoard(screen, a.level.Grid, settings.ShowGridLines)
	drawArrows(screen, state.ArrowSnapshot(), state.Tick, settings.ShowArrowTimers)
	drawEntities(screen, state.Entities())
	drawHUD(screen, a.hud())
}

// DrawFinalScreen 实现 FinalScreenDrawer 接口
// 用于控制全屏时的缩放和 letterbox 颜色
func (a *App) DrawFinalScreen(screen ebiten.FinalScreen, offscreen *ebiten.Image, geoM ebiten.GeoM) {
	screen.Fill(color.Black)
	op := &ebiten.DrawImageOptions{}
	op.GeoM = geoM
	op.Filter = ebiten.FilterNearest // 像素风格，保持格子边缘清晰
	screen.DrawImage(offscreen, op)
}

// Layout 返回游戏的逻辑屏幕尺寸
// 此尺寸独立于实际窗口大小，Ebitengine 会自动处理缩放
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return utils.ScreenWidth, utils.ScreenHeight
}

// IsVerbose 返回是否启用了详细日志
func (a *App) IsVerbose() bool {
	return a.verbose
}
