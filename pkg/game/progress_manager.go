package game

import (
	"fmt"
	"log"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

const progressObject = "progress"

// LevelRecord 单个关卡的历史最好成绩
type LevelRecord struct {
	LevelID     string `yaml:"levelId"`
	BestScore   int    `yaml:"bestScore"`   // 胜利局的最高分
	BestRescued int    `yaml:"bestRescued"`
	FewestTicks int    `yaml:"fewestTicks"` // 胜利局的最少 tick，0 表示尚未胜利
	Wins        int    `yaml:"wins"`
	Attempts    int    `yaml:"attempts"`
}

// ProgressManager 关卡成绩记录
//
// 每个关卡一条 YAML 记录，存放在 gdata 的 progress 对象下（属性名为关卡ID）。
// gdataManager 为 nil 时只在内存中记录。
// 只记录 Won/Lost 的回合，中止的回合不计入。
type ProgressManager struct {
	gdataManager *gdata.Manager
	records      map[string]*LevelRecord
}

// NewProgressManager 创建成绩记录管理器
func NewProgressManager(gdataManager *gdata.Manager) *ProgressManager {
	return &ProgressManager{
		gdataManager: gdataManager,
		records:      make(map[string]*LevelRecord),
	}
}

// Best 返回关卡的历史记录
func (pm *ProgressManager) Best(levelID string) (LevelRecord, bool) {
	rec, err := pm.load(levelID)
	if err != nil {
		log.Printf("[ProgressManager] Warning: %v", err)
		return LevelRecord{}, false
	}
	if rec == nil {
		return LevelRecord{}, false
	}
	return *rec, true
}

// Record 记录一局结束的回合
//
// 参数：
//
//	state - 已终止的回合状态
//
// 返回：
//
//	是否刷新了最高分；中止或仍在进行的回合不记录，返回 false
func (pm *ProgressManager) Record(state *RoundState) (bool, error) {
	if state.Phase != PhaseWon && state.Phase != PhaseLost {
		return false, nil
	}

	levelID := state.Level.ID
	rec, err := pm.load(levelID)
	if err != nil {
		log.Printf("[ProgressManager] Warning: %v (starting a fresh record)", err)
	}
	if rec == nil {
		rec = &LevelRecord{LevelID: levelID}
	}

	// 最高分只统计胜利的回合
	improved := false
	rec.Attempts++
	if state.Rescued > rec.BestRescued {
		rec.BestRescued = state.Rescued
	}
	if state.Phase == PhaseWon {
		if rec.Wins == 0 || state.Score > rec.BestScore {
			rec.BestScore = state.Score
			improved = true
		}
		rec.Wins++
		if rec.FewestTicks == 0 || state.Tick < rec.FewestTicks {
			rec.FewestTicks = state.Tick
		}
	}
	pm.records[levelID] = rec

	if err := pm.save(rec); err != nil {
		return improved, err
	}
	log.Printf("[ProgressManager] Level %s recorded: %s, score %d (best %d)", levelID, state.Phase, state.Score, rec.BestScore)
	return improved, nil
}

// load 先查内存缓存，再查 gdata；没有记录时返回 nil, nil
func (pm *ProgressManager) load(levelID string) (*LevelRecord, error) {
	if rec, ok := pm.records[levelID]; ok {
		return rec, nil
	}
	if pm.gdataManager == nil || !pm.gdataManager.ObjectPropExists(progressObject, levelID) {
		return nil, nil
	}

	data, err := pm.gdataManager.LoadObjectProp(progressObject, levelID)
	if err != nil {
		return nil, fmt.Errorf("failed to load progress for level %s: %w", levelID, err)
	}
	var rec LevelRecord
	if err := yaml.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal progress for level %s: %w", levelID, err)
	}
	pm.records[levelID] = &rec
	return &rec, nil
}

func (pm *ProgressManager) save(rec *LevelRecord) error {
	if pm.gdataManager == nil {
		return nil
	}
	data, err := yaml.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal progress: %w", err)
	}
	if err := pm.gdataManager.SaveObjectProp(progressObject, rec.LevelID, data); err != nil {
		return fmt.Errorf("failed to save progress for level %s: %w", rec.LevelID, err)
	}
	return nil
}
