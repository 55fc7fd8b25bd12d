package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const validLevelYAML = `id: "t-1"
name: "Test Level"
author: "tester"
map:
  - "############"
  - "#..........#"
  - "#..........#"
  - "#...##.....#"
  - "#.....O....#"
  - "#..........#"
  - "#..........#"
  - "#..........#"
  - "############"
spawnPoints:
  - {id: 1, col: 1, row: 1, facing: right}
  - {id: 2, col: 10, row: 7, facing: "<"}
goals:
  - {id: 1, col: 10, row: 1}
rules:
  allowedLosses: 1
  arrowTTL: 40
  arrowStock: {up: 1, down: 2, left: 0, right: 3}
spawns:
  - {tick: 0, spawnPoint: 1, kind: mouse, goal: 1}
  - {tick: 2, spawnPoint: 1, kind: mouse, every: 4, count: 3}
  - {tick: 5, spawnPoint: 2, kind: cat}
`

// TestLoadLevelConfig 测试关卡配置文件加载
func TestLoadLevelConfig(t *testing.T) {
	tempDir := t.TempDir()
	testFile := filepath.Join(tempDir, "test-level.yaml")
	if err := os.WriteFile(testFile, []byte(validLevelYAML), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	config, err := LoadLevelConfig(testFile)
	if err != nil {
		t.Fatalf("LoadLevelConfig() failed: %v", err)
	}

	if config.ID != "t-1" || config.Name != "Test Level" || config.Author != "tester" {
		t.Errorf("header = %q/%q/%q", config.ID, config.Name, config.Author)
	}
	if len(config.Map) != GridRows {
		t.Errorf("Expected %d map rows, got %d", GridRows, len(config.Map))
	}
	if len(config.SpawnPoints) != 2 || config.SpawnPoints[1].Facing != "<" {
		t.Errorf("unexpected spawn points: %+v", config.SpawnPoints)
	}

	// 验证默认值
	if config.Rules.MaxArrows != DefaultMaxArrows {
		t.Errorf("Expected default MaxArrows %d, got %d", DefaultMaxArrows, config.Rules.MaxArrows)
	}
	if config.Rules.CatMoveInterval != 1 {
		t.Errorf("Expected default CatMoveInterval 1, got %d", config.Rules.CatMoveInterval)
	}
	if config.Spawns[0].Count != 1 {
		t.Errorf("Expected default Count 1, got %d", config.Spawns[0].Count)
	}

	if config.Rules.ArrowStock == nil || config.Rules.ArrowStock.Right != 3 {
		t.Errorf("unexpected arrow stock: %+v", config.Rules.ArrowStock)
	}
	if got := config.TotalMice(); got != 4 {
		t.Errorf("TotalMice() = %d, want 4", got)
	}
}

func TestLoadLevelConfigMissingFile(t *testing.T) {
	_, err := LoadLevelConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("Expected error for missing file")
	}
}

func TestParseLevelConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		old     string
		new     string
		wantErr string
	}{
		{"missing id", `id: "t-1"`, `id: ""`, "level ID is required"},
		{"missing name", `name: "Test Level"`, `name: ""`, "level name is required"},
		{"short row", `  - "#..........#"` + "\n  - \"#..........#\"", `  - "#.........#"` + "\n  - \"#..........#\"", "must have 12 columns"},
		{"bad facing", `facing: right}`, `facing: north}`, "spawnPoints[0]"},
		{"duplicate spawn id", `{id: 2, col: 10`, `{id: 1, col: 10`, "duplicate id 1"},
		{"unknown kind", `kind: cat}`, `kind: dog}`, "spawns[2]"},
		{"unknown spawn point", `{tick: 5, spawnPoint: 2`, `{tick: 5, spawnPoint: 3`, "unknown spawn point 3"},
		{"unknown goal", `goal: 1}`, `goal: 4}`, "unknown goal 4"},
		{"negative every", `every: 4`, `every: -1`, "every must be >= 0"},
		{"threshold too high", `allowedLosses: 1`, "allowedLosses: 1\n  winThreshold: 5", "exceeds the 4 scheduled mice"},
		{"negative ttl", `arrowTTL: 40`, `arrowTTL: -2`, "arrowTTL must be >= 0"},
		{"negative stock", `left: 0`, `left: -1`, "arrowStock counts"},
		{"no mice", "  - {tick: 0, spawnPoint: 1, kind: mouse, goal: 1}\n  - {tick: 2, spawnPoint: 1, kind: mouse, every: 4, count: 3}\n", "", "at least one mouse"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := strings.Replace(validLevelYAML, tt.old, tt.new, 1)
			if data == validLevelYAML {
				t.Fatalf("test case did not modify the YAML (pattern %q not found)", tt.old)
			}
			_, err := ParseLevelConfig([]byte(data), "inline")
			if err == nil {
				t.Fatalf("Expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestParseLevelConfigInvalidYAML(t *testing.T) {
	_, err := ParseLevelConfig([]byte("id: [unclosed"), "inline")
	if err == nil || !strings.Contains(err.Error(), "failed to parse level config YAML") {
		t.Errorf("error = %v, want YAML parse error", err)
	}
}

func TestNegativeMaxArrowsMeansUnlimited(t *testing.T) {
	data := strings.Replace(validLevelYAML, "arrowTTL: 40", "arrowTTL: 40\n  maxArrows: -1", 1)
	config, err := ParseLevelConfig([]byte(data), "inline")
	if err != nil {
		t.Fatalf("ParseLevelConfig() failed: %v", err)
	}
	if config.Rules.MaxArrows != -1 {
		t.Errorf("MaxArrows = %d, want -1", config.Rules.MaxArrows)
	}
}

func TestCatsRaidGoalsIsOptIn(t *testing.T) {
	tests := []struct {
		name string
		data string
		want bool
	}{
		{"default", validLevelYAML, false},
		{"enabled", strings.Replace(validLevelYAML, "arrowTTL: 40", "arrowTTL: 40\n  catsRaidGoals: true", 1), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config, err := ParseLevelConfig([]byte(tt.data), "inline")
			if err != nil {
				t.Fatalf("ParseLevelConfig() failed: %v", err)
			}
			if config.Rules.CatsRaidGoals != tt.want {
				t.Errorf("CatsRaidGoals = %v, want %v", config.Rules.CatsRaidGoals, tt.want)
			}
		})
	}
}
