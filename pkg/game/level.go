package game

import (
	"fmt"

	"github.com/decker502/mouserocket/pkg/components"
	"github.com/decker502/mouserocket/pkg/config"
	"github.com/decker502/mouserocket/pkg/embedded"
	"github.com/decker502/mouserocket/pkg/types"
)

// Rules 回合规则（已应用默认值）
type Rules struct {
	WinThreshold    int // 获胜所需救出的老鼠数（已解析，0 被替换为老鼠总数）
	AllowedLosses   int
	TimeLimit       int // 0 表示不限时
	MaxArrows       int // <= 0 表示不限
	ArrowTTL        int // 0 表示永不过期
	CapturePenalty  int
	CatsRaidGoals   bool
	CatMoveInterval int

	// ArrowStock 解谜模式的初始库存，nil 表示不限方向
	ArrowStock *components.ArrowStock
}

// Level 一个可以开局的关卡：不可变的网格、出生表和规则
// 同一个 Level 可以开任意多局，每局的可变状态都在 RoundState 中
type Level struct {
	ID     string
	Name   string
	Author string

	Grid   *components.Grid
	Spawns []components.SpawnEvent
	Rules  Rules
}

// NewLevel 根据关卡配置构建关卡
//
// 参数：
//
//	cfg - 已通过校验的关卡配置
//
// 返回：
//
//	关卡；网格不合法（外圈不是墙、出生点或火箭落在墙上等）时返回错误
func NewLevel(cfg *config.LevelConfig) (*Level, error) {
	builder := components.NewGridBuilder(cfg.Map)
	for _, sp := range cfg.SpawnPoints {
		facing, err := types.ParseDirection(sp.Facing)
		if err != nil {
			return nil, fmt.Errorf("level %s: spawn point %d: %w", cfg.ID, sp.ID, err)
		}
		builder.Spawn(sp.ID, types.Coord{Col: sp.Col, Row: sp.Row}, facing)
	}
	for _, g := range cfg.Goals {
		builder.Goal(g.ID, types.Coord{Col: g.Col, Row: g.Row})
	}
	grid, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("level %s: %w", cfg.ID, err)
	}

	spawns := make([]components.SpawnEvent, 0, len(cfg.Spawns))
	for i, s := range cfg.Spawns {
		kind, err := types.ParseEntityKind(s.Kind)
		if err != nil {
			return nil, fmt.Errorf("level %s: spawns[%d]: %w", cfg.ID, i, err)
		}
		spawns = append(spawns, components.SpawnEvent{
			Tick:       s.Tick,
			SpawnPoint: s.SpawnPoint,
			Kind:       kind,
			GoalID:     s.Goal,
			Every:      s.Every,
			Count:      s.Count,
		})
	}

	r := cfg.Rules
	rules := Rules{
		WinThreshold:    r.WinThreshold,
		AllowedLosses:   r.AllowedLosses,
		TimeLimit:       r.TimeLimit,
		MaxArrows:       r.MaxArrows,
		ArrowTTL:        r.ArrowTTL,
		CapturePenalty:  r.CapturePenalty,
		CatsRaidGoals:   r.CatsRaidGoals,
		CatMoveInterval: r.CatMoveInterval,
	}
	if rules.WinThreshold == 0 {
		rules.WinThreshold = cfg.TotalMice()
	}
	if s := r.ArrowStock; s != nil {
		rules.ArrowStock = components.NewArrowStock(s.Up, s.Down, s.Left, s.Right)
	}

	return &Level{
		ID:     cfg.ID,
		Name:   cfg.Name,
		Author: cfg.Author,
		Grid:   grid,
		Spawns: spawns,
		Rules:  rules,
	}, nil
}

// TotalMice 出生表中计划出生的老鼠总数
func (l *Level) TotalMice() int {
	total := 0
	for _, s := range l.Spawns {
		if s.Kind == types.EntityMouse {
			total += s.Total()
		}
	}
	return total
}

// LoadEmbeddedLevel 从内嵌资源加载关卡
func LoadEmbeddedLevel(levelID string) (*Level, error) {
	p := embedded.LevelPath(levelID)
	data, err := embedded.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("failed to read level %s: %w", levelID, err)
	}
	cfg, err := config.ParseLevelConfig(data, p)
	if err != nil {
		return nil, err
	}
	return NewLevel(cfg)
}

// LoadLevelFile 从文件系统加载关卡（编辑关卡时使用）
func LoadLevelFile(path string) (*Level, error) {
	cfg, err := config.LoadLevelConfig(path)
	if err != nil {
		return nil, err
	}
	return NewLevel(cfg)
}
