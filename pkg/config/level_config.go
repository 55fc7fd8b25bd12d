package config

import (
	"fmt"
	"os"

	"github.com/decker502/mouserocket/pkg/types"
	"gopkg.in/yaml.v3"
)

// 标准棋盘尺寸（列 x 行），外圈一圈为墙
const (
	GridColumns = 12
	GridRows    = 9
)

// DefaultMaxArrows 未配置 maxArrows 时同时存在的箭头上限
const DefaultMaxArrows = 3

// LevelConfig 关卡配置数据结构
// 定义了地图、出生点、火箭、规则和出生表
type LevelConfig struct {
	ID          string `yaml:"id"`          // 关卡ID，如 "1-1"
	Name        string `yaml:"name"`        // 关卡名称
	Author      string `yaml:"author"`      // 作者（可选）
	Description string `yaml:"description"` // 关卡描述（可选）

	// Map 每行一个字符串：'#' 墙，'.' 空地，'O' 洞
	Map []string `yaml:"map"`

	SpawnPoints []SpawnPointConfig `yaml:"spawnPoints"`
	Goals       []GoalConfig       `yaml:"goals"`
	Rules       RulesConfig        `yaml:"rules"`
	Spawns      []SpawnConfig      `yaml:"spawns"`
}

// SpawnPointConfig 出生点
type SpawnPointConfig struct {
	ID     int    `yaml:"id"`
	Col    int    `yaml:"col"`
	Row    int    `yaml:"row"`
	Facing string `yaml:"facing"` // up/down/left/right 或 ^ v < >
}

// GoalConfig 火箭（老鼠的目标格）
type GoalConfig struct {
	ID  int `yaml:"id"`
	Col int `yaml:"col"`
	Row int `yaml:"row"`
}

// RulesConfig 回合规则
type RulesConfig struct {
	WinThreshold    int               `yaml:"winThreshold"`    // 获胜所需救出的老鼠数，0 表示全部
	AllowedLosses   int               `yaml:"allowedLosses"`   // 允许损失的老鼠数
	TimeLimit       int               `yaml:"timeLimit"`       // tick 上限，0 表示不限时
	MaxArrows       int               `yaml:"maxArrows"`       // 箭头上限，0 取默认值，负数表示不限
	ArrowTTL        int               `yaml:"arrowTTL"`        // 箭头存活 tick 数，0 表示永不过期
	CapturePenalty  int               `yaml:"capturePenalty"`  // 老鼠被抓时扣除的分数
	CatsRaidGoals   bool              `yaml:"catsRaidGoals"`   // 猫进入火箭直接判负，默认关闭，需要关卡显式开启
	CatMoveInterval int               `yaml:"catMoveInterval"` // 猫每隔几个 tick 移动一次，默认 1
	ArrowStock      *ArrowStockConfig `yaml:"arrowStock"`      // 解谜模式的方向库存（可选）
}

// ArrowStockConfig 解谜模式下每个方向可用的箭头数
type ArrowStockConfig struct {
	Up    int `yaml:"up"`
	Down  int `yaml:"down"`
	Left  int `yaml:"left"`
	Right int `yaml:"right"`
}

// SpawnConfig 出生表中的一条记录
type SpawnConfig struct {
	Tick       int    `yaml:"tick"`
	SpawnPoint int    `yaml:"spawnPoint"`
	Kind       string `yaml:"kind"` // mouse 或 cat
	Goal       int    `yaml:"goal"` // 老鼠的目标火箭，0 表示任意
	Every      int    `yaml:"every"`
	Count      int    `yaml:"count"`
}

// LoadLevelConfig 从文件加载关卡配置
func LoadLevelConfig(filepath string) (*LevelConfig, error) {
	// 读取文件内容
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read level config file %s: %w", filepath, err)
	}
	return ParseLevelConfig(data, filepath)
}

// ParseLevelConfig 解析关卡配置
//
// 参数：
//
//	data - YAML 内容
//	source - 来源名称（文件路径或内嵌资源路径），仅用于错误信息
func ParseLevelConfig(data []byte, source string) (*LevelConfig, error) {
	var levelConfig LevelConfig
	if err := yaml.Unmarshal(data, &levelConfig); err != nil {
		return nil, fmt.Errorf("failed to parse level config YAML from %s: %w", source, err)
	}

	applyDefaults(&levelConfig)

	if err := validateLevelConfig(&levelConfig); err != nil {
		return nil, fmt.Errorf("invalid level config in %s: %w", source, err)
	}

	return &levelConfig, nil
}

// applyDefaults 为缺失的可选字段设置默认值
func applyDefaults(config *LevelConfig) {
	if config.Rules.MaxArrows == 0 {
		config.Rules.MaxArrows = DefaultMaxArrows
	}
	if config.Rules.CatMoveInterval == 0 {
		config.Rules.CatMoveInterval = 1
	}
	for i := range config.Spawns {
		if config.Spawns[i].Count == 0 {
			config.Spawns[i].Count = 1
		}
	}
}

// validateLevelConfig 验证关卡配置的完整性和合法性
// 墙、出生点、火箭的摆放冲突以及外圈墙由 GridBuilder 在构建网格时检查
func validateLevelConfig(config *LevelConfig) error {
	if config.ID == "" {
		return fmt.Errorf("level ID is required")
	}
	if config.Name == "" {
		return fmt.Errorf("level name is required")
	}

	if len(config.Map) != GridRows {
		return fmt.Errorf("map must have %d rows, got %d", GridRows, len(config.Map))
	}
	for i, row := range config.Map {
		if len(row) != GridColumns {
			return fmt.Errorf("map row %d must have %d columns, got %d", i, GridColumns, len(row))
		}
	}

	if len(config.SpawnPoints) == 0 {
		return fmt.Errorf("at least one spawn point is required")
	}
	spawnIDs := make(map[int]bool)
	for i, sp := range config.SpawnPoints {
		if sp.ID < 1 {
			return fmt.Errorf("spawnPoints[%d]: id must be >= 1, got %d", i, sp.ID)
		}
		if spawnIDs[sp.ID] {
			return fmt.Errorf("spawnPoints[%d]: duplicate id %d", i, sp.ID)
		}
		spawnIDs[sp.ID] = true
		if _, err := types.ParseDirection(sp.Facing); err != nil {
			return fmt.Errorf("spawnPoints[%d]: %w", i, err)
		}
	}

	if len(config.Goals) == 0 {
		return fmt.Errorf("at least one goal is required")
	}
	goalIDs := make(map[int]bool)
	for i, g := range config.Goals {
		if g.ID < 1 {
			return fmt.Errorf("goals[%d]: id must be >= 1, got %d", i, g.ID)
		}
		if goalIDs[g.ID] {
			return fmt.Errorf("goals[%d]: duplicate id %d", i, g.ID)
		}
		goalIDs[g.ID] = true
	}

	totalMice := 0
	for i, s := range config.Spawns {
		kind, err := types.ParseEntityKind(s.Kind)
		if err != nil {
			return fmt.Errorf("spawns[%d]: %w", i, err)
		}
		if !spawnIDs[s.SpawnPoint] {
			return fmt.Errorf("spawns[%d]: unknown spawn point %d", i, s.SpawnPoint)
		}
		if s.Tick < 0 {
			return fmt.Errorf("spawns[%d]: tick must be >= 0, got %d", i, s.Tick)
		}
		if s.Every < 0 {
			return fmt.Errorf("spawns[%d]: every must be >= 0, got %d", i, s.Every)
		}
		if s.Count < 1 {
			return fmt.Errorf("spawns[%d]: count must be >= 1, got %d", i, s.Count)
		}
		if kind == types.EntityMouse {
			if s.Goal != 0 && !goalIDs[s.Goal] {
				return fmt.Errorf("spawns[%d]: unknown goal %d", i, s.Goal)
			}
			totalMice += s.Count
		}
	}
	if totalMice == 0 {
		return fmt.Errorf("at least one mouse must be scheduled")
	}

	return validateRules(&config.Rules, totalMice)
}

func validateRules(r *RulesConfig, totalMice int) error {
	switch {
	case r.WinThreshold < 0:
		return fmt.Errorf("rules.winThreshold must be >= 0, got %d", r.WinThreshold)
	case r.WinThreshold > totalMice:
		return fmt.Errorf("rules.winThreshold %d exceeds the %d scheduled mice", r.WinThreshold, totalMice)
	case r.AllowedLosses < 0:
		return fmt.Errorf("rules.allowedLosses must be >= 0, got %d", r.AllowedLosses)
	case r.TimeLimit < 0:
		return fmt.Errorf("rules.timeLimit must be >= 0, got %d", r.TimeLimit)
	case r.ArrowTTL < 0:
		return fmt.Errorf("rules.arrowTTL must be >= 0, got %d", r.ArrowTTL)
	case r.CapturePenalty < 0:
		return fmt.Errorf("rules.capturePenalty must be >= 0, got %d", r.CapturePenalty)
	case r.CatMoveInterval < 1:
		return fmt.Errorf("rules.catMoveInterval must be >= 1, got %d", r.CatMoveInterval)
	}

	if s := r.ArrowStock; s != nil {
		if s.Up < 0 || s.Down < 0 || s.Left < 0 || s.Right < 0 {
			return fmt.Errorf("rules.arrowStock counts must be >= 0")
		}
	}
	return nil
}

// TotalMice 出生表中计划出生的老鼠总数（需在 applyDefaults 之后调用）
func (c *LevelConfig) TotalMice() int {
	total := 0
	for _, s := range c.Spawns {
		if kind, err := types.ParseEntityKind(s.Kind); err == nil && kind == types.EntityMouse {
			total += s.Count
		}
	}
	return total
}
