// verify_level 无界面运行一个关卡，逐 tick 输出回合报告
//
// 用法：
//
//	go run ./cmd/verify_level -level 1-1
//	go run ./cmd/verify_level -file data/levels/1-3.yaml -ticks 300 -arrows "5,1,down@0;5,5,left@12"
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/decker502/mouserocket/pkg/components"
	"github.com/decker502/mouserocket/pkg/embedded"
	"github.com/decker502/mouserocket/pkg/game"
	"github.com/decker502/mouserocket/pkg/systems"
	"github.com/decker502/mouserocket/pkg/types"
)

var (
	levelID   = flag.String("level", "1-1", "关卡ID（从 -data 目录下的 data/levels 读取）")
	levelFile = flag.String("file", "", "直接指定关卡 YAML 文件（优先于 -level）")
	dataRoot  = flag.String("data", ".", "项目根目录（包含 data/levels）")
	maxTicks  = flag.Int("ticks", 500, "最多推进的 tick 数")
	arrowPlan = flag.String("arrows", "", "箭头脚本：col,row,dir@tick;... 在指定 tick 推进前放置")
	board     = flag.Bool("board", false, "每个 tick 打印棋盘")
	verbose   = flag.Bool("verbose", false, "显示详细调试信息")
)

// scheduledArrow 脚本中的一次箭头放置
type scheduledArrow struct {
	tick int
	at   types.Coord
	dir  types.Direction
}

func main() {
	flag.Parse()

	if !*verbose {
		log.SetOutput(io.Discard)
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "verify_level: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	level, err := loadLevel()
	if err != nil {
		return err
	}

	arrows, err := parseArrowPlan(*arrowPlan)
	if err != nil {
		return err
	}

	controller, err := systems.NewRoundController(level)
	if err != nil {
		return err
	}

	fmt.Printf("Level %s: %s (%d mice, need %d, allowed losses %d)\n",
		level.ID, level.Name, level.TotalMice(), level.Rules.WinThreshold, level.Rules.AllowedLosses)

	for i := 0; i < *maxTicks && !controller.Phase().IsTerminal(); i++ {
		tick := controller.State().Tick
		for _, a := range arrows {
			if a.tick != tick {
				continue
			}
			if err := controller.PlaceArrow(a.at, a.dir); err != nil {
				fmt.Printf("tick %4d  arrow %s at %v rejected: %v\n", tick, a.dir, a.at, err)
			}
		}

		report := controller.AdvanceTick()
		printReport(report)
		if *board {
			fmt.Print(renderBoard(controller.State()))
		}
	}

	state := controller.State()
	fmt.Printf("Result: %s", state.Phase)
	if state.LossReason != "" {
		fmt.Printf(" (%s)", state.LossReason)
	}
	fmt.Printf(" at tick %d, rescued %d, lost %d, score %d\n", state.Tick, state.Rescued, state.Lost, state.Score)
	return nil
}

func loadLevel() (*game.Level, error) {
	if *levelFile != "" {
		return game.LoadLevelFile(*levelFile)
	}
	embedded.Init(os.DirFS(*dataRoot))
	return game.LoadEmbeddedLevel(*levelID)
}

// parseArrowPlan 解析箭头脚本，如 "5,1,down@0;5,5,<@12"
func parseArrowPlan(plan string) ([]scheduledArrow, error) {
	var result []scheduledArrow
	for _, item := range strings.Split(plan, ";") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		spec, tickStr, ok := strings.Cut(item, "@")
		if !ok {
			return nil, fmt.Errorf("arrow %q: missing @tick", item)
		}
		tick, err := strconv.Atoi(tickStr)
		if err != nil {
			return nil, fmt.Errorf("arrow %q: bad tick: %w", item, err)
		}
		parts := strings.Split(spec, ",")
		if len(parts) != 3 {
			return nil, fmt.Errorf("arrow %q: want col,row,dir", item)
		}
		col, err := strconv.Atoi(parts[0])
		if err != nil {
			return nil, fmt.Errorf("arrow %q: bad col: %w", item, err)
		}
		row, err := strconv.Atoi(parts[1])
		if err != nil {
			return nil, fmt.Errorf("arrow %q: bad row: %w", item, err)
		}
		dir, err := types.ParseDirection(parts[2])
		if err != nil {
			return nil, fmt.Errorf("arrow %q: %w", item, err)
		}
		result = append(result, scheduledArrow{tick: tick, at: types.Coord{Col: col, Row: row}, dir: dir})
	}
	return result, nil
}

func printReport(r systems.TickReport) {
	var events []string
	if n := len(r.Spawned); n > 0 {
		events = append(events, fmt.Sprintf("spawned %d", n))
	}
	if n := len(r.Rescued); n > 0 {
		events = append(events, fmt.Sprintf("rescued %d", n))
	}
	if n := len(r.Captured); n > 0 {
		events = append(events, fmt.Sprintf("captured %d", n))
	}
	if n := len(r.Killed); n > 0 {
		events = append(events, fmt.Sprintf("fell %d", n))
	}
	if n := len(r.WornOut); n > 0 {
		events = append(events, fmt.Sprintf("arrows worn out %d", n))
	}
	if len(events) == 0 && r.Phase == game.PhaseRunning {
		return
	}
	fmt.Printf("tick %4d  %-8s score %3d  %s\n", r.Tick, r.Phase, r.Score, strings.Join(events, ", "))
}

// renderBoard 用字符画输出当前棋盘
// 猫 C，老鼠 M（同格多只时显示数量），箭头 ^ v < >，墙 #，洞 O，出生点 S，火箭 R
func renderBoard(state *game.RoundState) string {
	grid := state.Level.Grid

	mice := make(map[types.Coord]int)
	cats := make(map[types.Coord]bool)
	for _, e := range state.Entities() {
		if e.IsCat() {
			cats[e.Coord] = true
		} else {
			mice[e.Coord]++
		}
	}
	arrows := make(map[types.Coord]components.Arrow)
	for _, a := range state.ArrowSnapshot() {
		arrows[a.Coord] = a
	}

	var b strings.Builder
	for row := 0; row < grid.Height(); row++ {
		for col := 0; col < grid.Width(); col++ {
			at := types.Coord{Col: col, Row: row}
			cell, _ := grid.CellAt(at)
			switch {
			case cats[at]:
				b.WriteByte('C')
			case mice[at] > 9:
				b.WriteByte('M')
			case mice[at] > 1:
				b.WriteByte(byte('0' + mice[at]))
			case mice[at] == 1:
				b.WriteByte('m')
			default:
				if a, ok := arrows[at]; ok {
					b.WriteString(a.Direction.Symbol())
					continue
				}
				b.WriteByte(cellChar(cell.Kind))
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func cellChar(kind components.CellKind) byte {
	switch kind {
	case components.CellWall:
		return '#'
	case components.CellHole:
		return 'O'
	case components.CellSpawn:
		return 'S'
	case components.CellGoal:
		return 'R'
	default:
		return '.'
	}
}
