package game

import (
	"fmt"
	"log"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// tick 速率范围
const (
	MinTicksPerSecond     = 1
	MaxTicksPerSecond     = 30
	DefaultTicksPerSecond = 4
)

// GameSettings 全局游戏设置
type GameSettings struct {
	// 模拟速度：每秒推进的 tick 数
	TicksPerSecond int `yaml:"ticksPerSecond"`

	// 显示设置
	ShowArrowTimers bool `yaml:"showArrowTimers"` // 是否在箭头上显示剩余 tick
	ShowGridLines   bool `yaml:"showGridLines"`   // 是否绘制网格线
	Fullscreen      bool `yaml:"fullscreen"`      // 启动时是否全屏
}

// DefaultSettings 返回默认设置
func DefaultSettings() *GameSettings {
	return &GameSettings{
		TicksPerSecond:  DefaultTicksPerSecond,
		ShowArrowTimers: true,
		ShowGridLines:   true,
		Fullscreen:      false,
	}
}

// SettingsManager 设置管理器
// 负责游戏设置的加载、保存和内存管理
type SettingsManager struct {
	gdataManager *gdata.Manager // gdata 跨平台存储管理器，可为 nil（降级模式）
	settings     *GameSettings  // 当前设置
}

// 存储路径常量
const (
	settingsObject   = "settings"
	settingsProperty = "global"
)

// NewSettingsManager 创建新的设置管理器实例
//
// 参数：
//   - gdataManager: gdata 跨平台存储管理器，可为 nil（降级模式，仅内存设置）
//
// 返回：
//   - *SettingsManager: 设置管理器实例
//   - error: 保留给调用方，加载失败不影响创建
func NewSettingsManager(gdataManager *gdata.Manager) (*SettingsManager, error) {
	sm := &SettingsManager{
		gdataManager: gdataManager,
		settings:     DefaultSettings(),
	}

	// 尝试加载已保存的设置
	if err := sm.Load(); err != nil {
		// 加载失败不是致命错误，使用默认设置
		log.Printf("[SettingsManager] Warning: Failed to load settings: %v (using defaults)", err)
	}

	return sm, nil
}

// Load 从 gdata 加载设置
//
// 如果 gdataManager 为 nil 或文件不存在，使用默认设置
func (sm *SettingsManager) Load() error {
	// 降级模式：无法持久化，使用默认设置
	if sm.gdataManager == nil {
		sm.settings = DefaultSettings()
		return nil
	}

	if !sm.gdataManager.ObjectPropExists(settingsObject, settingsProperty) {
		sm.settings = DefaultSettings()
		return nil
	}

	data, err := sm.gdataManager.LoadObjectProp(settingsObject, settingsProperty)
	if err != nil {
		sm.settings = DefaultSettings()
		return fmt.Errorf("failed to load settings: %w", err)
	}

	// 先填默认值，旧版本保存的文件缺少新字段时保持默认
	loaded := DefaultSettings()
	if err := yaml.Unmarshal(data, loaded); err != nil {
		sm.settings = DefaultSettings()
		return fmt.Errorf("failed to unmarshal settings: %w", err)
	}
	loaded.TicksPerSecond = clampTicksPerSecond(loaded.TicksPerSecond)

	sm.settings = loaded
	log.Printf("[SettingsManager] Settings loaded successfully")
	return nil
}

// Save 保存设置到 gdata
//
// 如果 gdataManager 为 nil，返回 nil（降级模式，不报错）
func (sm *SettingsManager) Save() error {
	if sm.gdataManager == nil {
		return nil
	}

	data, err := yaml.Marshal(sm.settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	if err := sm.gdataManager.SaveObjectProp(settingsObject, settingsProperty, data); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	log.Printf("[SettingsManager] Settings saved successfully")
	return nil
}

// GetSettings 获取当前设置
func (sm *SettingsManager) GetSettings() *GameSettings {
	return sm.settings
}

// SetTicksPerSecond 设置模拟速度
//
// 值会被限制在 MinTicksPerSecond ~ MaxTicksPerSecond 范围内
// 注意：仅修改内存中的设置，需调用 Save() 方法持久化
func (sm *SettingsManager) SetTicksPerSecond(tps int) {
	sm.settings.TicksPerSecond = clampTicksPerSecond(tps)
}

// SetShowArrowTimers 设置是否显示箭头剩余时间
func (sm *SettingsManager) SetShowArrowTimers(enabled bool) {
	sm.settings.ShowArrowTimers = enabled
}

// SetShowGridLines 设置是否绘制网格线
func (sm *SettingsManager) SetShowGridLines(enabled bool) {
	sm.settings.ShowGridLines = enabled
}

// SetFullscreen 设置全屏模式
//
// 注意：仅修改内存中的设置，需调用 Save() 方法持久化
func (sm *SettingsManager) SetFullscreen(enabled bool) {
	sm.settings.Fullscreen = enabled
}

func clampTicksPerSecond(tps int) int {
	if tps < MinTicksPerSecond {
		return MinTicksPerSecond
	}
	if tps > MaxTicksPerSecond {
		return MaxTicksPerSecond
	}
	return tps
}
