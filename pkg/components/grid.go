package components

import (
	"fmt"
	"strings"

	"github.com/decker502/mouserocket/pkg/types"
)

// CellKind 格子类型
type CellKind int

const (
	CellEmpty CellKind = iota
	CellWall
	CellSpawn // 出生点，带编号和默认朝向
	CellGoal  // 火箭，带编号
	CellHole  // 洞：任何走进去的实体都会消失
)

// String 返回格子类型名称
func (k CellKind) String() string {
	switch k {
	case CellEmpty:
		return "empty"
	case CellWall:
		return "wall"
	case CellSpawn:
		return "spawn"
	case CellGoal:
		return "goal"
	case CellHole:
		return "hole"
	default:
		return "unknown"
	}
}

// Cell 单个格子的静态描述
type Cell struct {
	Kind   CellKind
	ID     int             // 出生点/火箭编号，其他类型为 0
	Facing types.Direction // 出生点的默认朝向
}

// Grid 一个关卡的静态网格布局
//
// 构造后不可修改，整个回合内由所有系统只读共享。
// 不变量（由 Build 校验）：
//   - 出生点编号、火箭编号各自唯一且 >= 1
//   - 四周边界格子全部为墙
type Grid struct {
	width  int
	height int
	cells  []Cell // 行优先存储

	spawns map[int]types.Coord
	goals  map[int]types.Coord
}

// Width 返回列数
func (g *Grid) Width() int { return g.width }

// Height 返回行数
func (g *Grid) Height() int { return g.height }

// InBounds 判断坐标是否在网格内
func (g *Grid) InBounds(c types.Coord) bool {
	return c.Col >= 0 && c.Col < g.width && c.Row >= 0 && c.Row < g.height
}

// CellAt 返回指定坐标的格子
// 坐标越界时返回包装了 ErrOutOfBounds 的错误，而不是静默截断
func (g *Grid) CellAt(c types.Coord) (Cell, error) {
	if !g.InBounds(c) {
		return Cell{}, fmt.Errorf("cell %v outside %dx%d grid: %w", c, g.width, g.height, ErrOutOfBounds)
	}
	return g.cells[c.Row*g.width+c.Col], nil
}

// IsWalkable 坐标在网格内且不是墙
// 火箭和洞都可以走进去，后果由回合控制器处理
func (g *Grid) IsWalkable(c types.Coord) bool {
	if !g.InBounds(c) {
		return false
	}
	return g.cells[c.Row*g.width+c.Col].Kind != CellWall
}

// SpawnPoint 按编号查找出生点
func (g *Grid) SpawnPoint(id int) (types.Coord, Cell, bool) {
	at, ok := g.spawns[id]
	if !ok {
		return types.Coord{}, Cell{}, false
	}
	return at, g.cells[at.Row*g.width+at.Col], true
}

// Goal 按编号查找火箭位置
func (g *Grid) Goal(id int) (types.Coord, bool) {
	at, ok := g.goals[id]
	return at, ok
}

// GoalCount 返回火箭数量
func (g *Grid) GoalCount() int { return len(g.goals) }

// GridBuilder 从文本布局逐步构造 Grid
//
// 布局字符：
//
//	'#'      墙
//	'.' ' '  空地
//	'O' 'o'  洞
//
// 出生点和火箭通过 Spawn/Goal 叠加到空地上。
// 构造过程中遇到的第一个错误会被记录，并在 Build 时返回。
type GridBuilder struct {
	width  int
	height int
	cells  []Cell
	err    error
}

// NewGridBuilder 解析文本布局，每个字符串是一行
func NewGridBuilder(rows []string) *GridBuilder {
	b := &GridBuilder{}
	if len(rows) == 0 {
		b.err = fmt.Errorf("grid layout has no rows")
		return b
	}

	b.height = len(rows)
	b.width = len([]rune(rows[0]))
	if b.width == 0 {
		b.err = fmt.Errorf("grid layout row 0 is empty")
		return b
	}
	b.cells = make([]Cell, 0, b.width*b.height)

	for r, row := range rows {
		runes := []rune(row)
		if len(runes) != b.width {
			b.err = fmt.Errorf("grid layout row %d has %d columns, expected %d", r, len(runes), b.width)
			return b
		}
		for c, ch := range runes {
			switch ch {
			case '#':
				b.cells = append(b.cells, Cell{Kind: CellWall})
			case '.', ' ':
				b.cells = append(b.cells, Cell{Kind: CellEmpty})
			case 'O', 'o':
				b.cells = append(b.cells, Cell{Kind: CellHole})
			default:
				b.err = fmt.Errorf("grid layout row %d col %d: unknown tile %q", r, c, ch)
				return b
			}
		}
	}
	return b
}

// Spawn 在空地上放置出生点
func (b *GridBuilder) Spawn(id int, at types.Coord, facing types.Direction) *GridBuilder {
	if !facing.Valid() {
		b.fail(fmt.Errorf("spawn %d: invalid facing %d", id, facing))
		return b
	}
	b.overlay(at, Cell{Kind: CellSpawn, ID: id, Facing: facing})
	return b
}

// Goal 在空地上放置火箭
func (b *GridBuilder) Goal(id int, at types.Coord) *GridBuilder {
	b.overlay(at, Cell{Kind: CellGoal, ID: id})
	return b
}

func (b *GridBuilder) overlay(at types.Coord, cell Cell) {
	if b.err != nil {
		return
	}
	if at.Col < 0 || at.Col >= b.width || at.Row < 0 || at.Row >= b.height {
		b.err = fmt.Errorf("%s %d at %v: %w", cell.Kind, cell.ID, at, ErrOutOfBounds)
		return
	}
	idx := at.Row*b.width + at.Col
	if existing := b.cells[idx]; existing.Kind != CellEmpty {
		b.err = fmt.Errorf("%s %d at %v: cell is already %s", cell.Kind, cell.ID, at, existing.Kind)
		return
	}
	b.cells[idx] = cell
}

func (b *GridBuilder) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}

// Build 校验不变量并返回不可变的 Grid
func (b *GridBuilder) Build() (*Grid, error) {
	if b.err != nil {
		return nil, b.err
	}

	g := &Grid{
		width:  b.width,
		height: b.height,
		cells:  make([]Cell, len(b.cells)),
		spawns: make(map[int]types.Coord),
		goals:  make(map[int]types.Coord),
	}
	copy(g.cells, b.cells)

	var openBorder []string
	for row := 0; row < g.height; row++ {
		for col := 0; col < g.width; col++ {
			at := types.Coord{Col: col, Row: row}
			cell := g.cells[row*g.width+col]

			onBorder := row == 0 || col == 0 || row == g.height-1 || col == g.width-1
			if onBorder && cell.Kind != CellWall {
				openBorder = append(openBorder, at.String())
			}

			switch cell.Kind {
			case CellSpawn:
				if cell.ID < 1 {
					return nil, fmt.Errorf("spawn at %v: id must be >= 1, got %d", at, cell.ID)
				}
				if prev, dup := g.spawns[cell.ID]; dup {
					return nil, fmt.Errorf("spawn id %d used twice: %v and %v", cell.ID, prev, at)
				}
				g.spawns[cell.ID] = at
			case CellGoal:
				if cell.ID < 1 {
					return nil, fmt.Errorf("goal at %v: id must be >= 1, got %d", at, cell.ID)
				}
				if prev, dup := g.goals[cell.ID]; dup {
					return nil, fmt.Errorf("goal id %d used twice: %v and %v", cell.ID, prev, at)
				}
				g.goals[cell.ID] = at
			}
		}
	}

	if len(openBorder) > 0 {
		return nil, fmt.Errorf("grid border must be walls, open cells: %s", strings.Join(openBorder, " "))
	}

	return g, nil
}
