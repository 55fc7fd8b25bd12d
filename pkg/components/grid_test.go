package components

import (
	"errors"
	"strings"
	"testing"

	"github.com/decker502/mouserocket/pkg/types"
)

var testLayout = []string{
	"#######",
	"#.....#",
	"#.#.O.#",
	"#.....#",
	"#######",
}

func buildTestGrid(t *testing.T) *Grid {
	t.Helper()
	g, err := NewGridBuilder(testLayout).
		Spawn(1, types.Coord{Col: 1, Row: 1}, types.DirRight).
		Goal(1, types.Coord{Col: 5, Row: 3}).
		Build()
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	return g
}

func TestGridCellAt(t *testing.T) {
	g := buildTestGrid(t)

	if g.Width() != 7 || g.Height() != 5 {
		t.Fatalf("size = %dx%d, want 7x5", g.Width(), g.Height())
	}

	tests := []struct {
		at   types.Coord
		kind CellKind
		id   int
	}{
		{types.Coord{Col: 0, Row: 0}, CellWall, 0},
		{types.Coord{Col: 2, Row: 2}, CellWall, 0},
		{types.Coord{Col: 3, Row: 2}, CellEmpty, 0},
		{types.Coord{Col: 4, Row: 2}, CellHole, 0},
		{types.Coord{Col: 1, Row: 1}, CellSpawn, 1},
		{types.Coord{Col: 5, Row: 3}, CellGoal, 1},
	}
	for _, tt := range tests {
		cell, err := g.CellAt(tt.at)
		if err != nil {
			t.Errorf("CellAt(%v) error: %v", tt.at, err)
			continue
		}
		if cell.Kind != tt.kind || cell.ID != tt.id {
			t.Errorf("CellAt(%v) = %v/%d, want %v/%d", tt.at, cell.Kind, cell.ID, tt.kind, tt.id)
		}
	}
}

func TestGridCellAtOutOfBounds(t *testing.T) {
	g := buildTestGrid(t)

	for _, at := range []types.Coord{{Col: -1, Row: 0}, {Col: 7, Row: 0}, {Col: 0, Row: 5}, {Col: 3, Row: -2}} {
		_, err := g.CellAt(at)
		if !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("CellAt(%v) error = %v, want ErrOutOfBounds", at, err)
		}
		if g.IsWalkable(at) {
			t.Errorf("IsWalkable(%v) = true for out-of-bounds coordinate", at)
		}
	}
}

func TestGridIsWalkable(t *testing.T) {
	g := buildTestGrid(t)

	walkable := map[types.Coord]bool{
		{Col: 0, Row: 0}: false, // 墙
		{Col: 2, Row: 2}: false, // 内部墙
		{Col: 3, Row: 2}: true,
		{Col: 4, Row: 2}: true, // 洞可以走进去
		{Col: 1, Row: 1}: true, // 出生点
		{Col: 5, Row: 3}: true, // 火箭
	}
	for at, want := range walkable {
		if got := g.IsWalkable(at); got != want {
			t.Errorf("IsWalkable(%v) = %v, want %v", at, got, want)
		}
	}
}

func TestGridSpawnAndGoalLookup(t *testing.T) {
	g := buildTestGrid(t)

	at, cell, ok := g.SpawnPoint(1)
	if !ok || at != (types.Coord{Col: 1, Row: 1}) || cell.Facing != types.DirRight {
		t.Errorf("SpawnPoint(1) = %v %+v %v", at, cell, ok)
	}
	if _, _, ok := g.SpawnPoint(2); ok {
		t.Error("SpawnPoint(2) should not exist")
	}
	if at, ok := g.Goal(1); !ok || at != (types.Coord{Col: 5, Row: 3}) {
		t.Errorf("Goal(1) = %v %v", at, ok)
	}
	if g.GoalCount() != 1 {
		t.Errorf("GoalCount() = %d, want 1", g.GoalCount())
	}
}

func TestGridBuilderErrors(t *testing.T) {
	tests := []struct {
		name        string
		build       func() (*Grid, error)
		errContains string
	}{
		{
			name:        "empty layout",
			build:       func() (*Grid, error) { return NewGridBuilder(nil).Build() },
			errContains: "no rows",
		},
		{
			name: "ragged rows",
			build: func() (*Grid, error) {
				return NewGridBuilder([]string{"###", "#.", "###"}).Build()
			},
			errContains: "row 1 has 2 columns",
		},
		{
			name: "unknown tile",
			build: func() (*Grid, error) {
				return NewGridBuilder([]string{"###", "#x#", "###"}).Build()
			},
			errContains: "unknown tile",
		},
		{
			name: "open border",
			build: func() (*Grid, error) {
				return NewGridBuilder([]string{"#.#", "#.#", "###"}).Build()
			},
			errContains: "border must be walls",
		},
		{
			name: "duplicate spawn id",
			build: func() (*Grid, error) {
				return NewGridBuilder(testLayout).
					Spawn(1, types.Coord{Col: 1, Row: 1}, types.DirRight).
					Spawn(1, types.Coord{Col: 1, Row: 3}, types.DirRight).
					Build()
			},
			errContains: "spawn id 1 used twice",
		},
		{
			name: "duplicate goal id",
			build: func() (*Grid, error) {
				return NewGridBuilder(testLayout).
					Goal(2, types.Coord{Col: 5, Row: 1}).
					Goal(2, types.Coord{Col: 5, Row: 3}).
					Build()
			},
			errContains: "goal id 2 used twice",
		},
		{
			name: "goal on wall",
			build: func() (*Grid, error) {
				return NewGridBuilder(testLayout).Goal(1, types.Coord{Col: 2, Row: 2}).Build()
			},
			errContains: "cell is already wall",
		},
		{
			name: "zero goal id",
			build: func() (*Grid, error) {
				return NewGridBuilder(testLayout).Goal(0, types.Coord{Col: 3, Row: 3}).Build()
			},
			errContains: "id must be >= 1",
		},
		{
			name: "spawn outside grid",
			build: func() (*Grid, error) {
				return NewGridBuilder(testLayout).Spawn(1, types.Coord{Col: 9, Row: 9}, types.DirUp).Build()
			},
			errContains: "out of bounds",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.build()
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.errContains) {
				t.Errorf("error = %q, want it to contain %q", err.Error(), tt.errContains)
			}
		})
	}
}
