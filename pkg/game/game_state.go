package game

import (
	"log"

	"github.com/quasilyte/gdata/v2"
)

// AppName gdata 存储使用的应用名
const AppName = "mouserocket"

// GameState 存储全局游戏状态
// 这是一个单例，用于管理跨回合的全局数据（设置、成绩记录、当前关卡）
type GameState struct {
	gdataManager *gdata.Manager // 可为 nil（受限环境下降级为仅内存）

	Settings *SettingsManager
	Progress *ProgressManager

	CurrentLevelID string // 当前选中的关卡
}

// 全局单例实例（这是架构规范允许的唯一全局变量）
var globalGameState *GameState

// GetGameState 返回全局 GameState 单例
// 使用延迟初始化模式，确保整个游戏生命周期只有一个实例
func GetGameState() *GameState {
	if globalGameState == nil {
		globalGameState = newGameState(openGdata(AppName))
	}
	return globalGameState
}

func newGameState(gm *gdata.Manager) *GameState {
	settings, err := NewSettingsManager(gm)
	if err != nil {
		log.Printf("[GameState] Warning: %v", err)
	}
	return &GameState{
		gdataManager: gm,
		Settings:     settings,
		Progress:     NewProgressManager(gm),
	}
}

// openGdata 打开 gdata 存储，失败时返回 nil（降级模式）
func openGdata(appName string) *gdata.Manager {
	gm, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		log.Printf("[GameState] Warning: gdata unavailable: %v (settings and progress kept in memory)", err)
		return nil
	}
	return gm
}

// GetGdataManager 返回 gdata 管理器（可能为 nil）
func (gs *GameState) GetGdataManager() *gdata.Manager {
	return gs.gdataManager
}
