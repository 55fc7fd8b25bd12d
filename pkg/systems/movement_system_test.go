package systems

import (
	"reflect"
	"testing"

	"golang.org/x/exp/rand"

	"github.com/decker502/mouserocket/pkg/components"
	"github.com/decker502/mouserocket/pkg/ecs"
	"github.com/decker502/mouserocket/pkg/types"
)

var openLayout = []string{
	"#######",
	"#.....#",
	"#.....#",
	"#.....#",
	"#######",
}

// pocketLayout: (1,1) 四面是墙，(3,2) 是向下的死胡同
var pocketLayout = []string{
	"#######",
	"#.#...#",
	"###.###",
	"#######",
}

func mustGrid(t *testing.T, rows []string) *components.Grid {
	t.Helper()
	g, err := components.NewGridBuilder(rows).Build()
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	return g
}

func walker(id types.EntityID, kind types.EntityKind, col, row int, facing types.Direction) components.Entity {
	return components.Entity{
		ID:     id,
		Kind:   kind,
		Coord:  types.Coord{Col: col, Row: row},
		Facing: facing,
		Alive:  true,
	}
}

func TestResolveBounceOrder(t *testing.T) {
	open := mustGrid(t, openLayout)
	pocket := mustGrid(t, pocketLayout)

	tests := []struct {
		name       string
		grid       *components.Grid
		entity     components.Entity
		wantTo     types.Coord
		wantFacing types.Direction
		wantBoxed  bool
	}{
		{
			name:       "straight ahead",
			grid:       open,
			entity:     walker(1, types.EntityMouse, 2, 2, types.DirRight),
			wantTo:     types.Coord{Col: 3, Row: 2},
			wantFacing: types.DirRight,
		},
		{
			name:       "wall ahead turns right first",
			grid:       open,
			entity:     walker(1, types.EntityMouse, 5, 1, types.DirRight),
			wantTo:     types.Coord{Col: 5, Row: 2},
			wantFacing: types.DirDown,
		},
		{
			name:       "wall ahead and right turns left",
			grid:       open,
			entity:     walker(1, types.EntityMouse, 5, 3, types.DirRight),
			wantTo:     types.Coord{Col: 5, Row: 2},
			wantFacing: types.DirUp,
		},
		{
			name:       "dead end reverses",
			grid:       pocket,
			entity:     walker(1, types.EntityCat, 3, 2, types.DirDown),
			wantTo:     types.Coord{Col: 3, Row: 1},
			wantFacing: types.DirUp,
		},
		{
			name:       "boxed in stays put",
			grid:       pocket,
			entity:     walker(1, types.EntityMouse, 1, 1, types.DirLeft),
			wantTo:     types.Coord{Col: 1, Row: 1},
			wantFacing: types.DirLeft,
			wantBoxed:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			arrows := components.NewArrowLayer(tt.grid, 0, 0, nil)
			plan := NewMovementSystem(1).Resolve(tt.grid, arrows, []components.Entity{tt.entity}, 0)

			move, ok := plan.Lookup(tt.entity.ID)
			if !ok {
				t.Fatalf("plan has no move for entity %d", tt.entity.ID)
			}
			if move.To != tt.wantTo || move.Facing != tt.wantFacing || move.Boxed != tt.wantBoxed {
				t.Errorf("move = to %v facing %v boxed %v, want to %v facing %v boxed %v",
					move.To, move.Facing, move.Boxed, tt.wantTo, tt.wantFacing, tt.wantBoxed)
			}
		})
	}
}

func TestResolveArrowOverridesFacing(t *testing.T) {
	g := mustGrid(t, openLayout)
	arrows := components.NewArrowLayer(g, 0, 3, nil)
	if err := arrows.Place(types.Coord{Col: 2, Row: 2}, types.DirUp, 0); err != nil {
		t.Fatalf("Place() error: %v", err)
	}
	// 箭头指向墙时同样按右转规则绕开
	if err := arrows.Place(types.Coord{Col: 2, Row: 1}, types.DirUp, 0); err != nil {
		t.Fatalf("Place() error: %v", err)
	}

	ms := NewMovementSystem(1)
	entities := []components.Entity{
		walker(1, types.EntityMouse, 2, 2, types.DirRight),
		walker(2, types.EntityMouse, 2, 1, types.DirLeft),
	}

	plan := ms.Resolve(g, arrows, entities, 1)
	want := []Move{
		{ID: 1, Kind: types.EntityMouse, From: types.Coord{Col: 2, Row: 2}, To: types.Coord{Col: 2, Row: 1}, Facing: types.DirUp},
		{ID: 2, Kind: types.EntityMouse, From: types.Coord{Col: 2, Row: 1}, To: types.Coord{Col: 3, Row: 1}, Facing: types.DirRight},
	}
	if !reflect.DeepEqual(plan.Moves, want) {
		t.Errorf("Moves = %+v, want %+v", plan.Moves, want)
	}

	// tick 3 时箭头已过期（放置于 tick 0，存活 3 个 tick）
	plan = ms.Resolve(g, arrows, entities[:1], 3)
	move, _ := plan.Lookup(1)
	if move.Facing != types.DirRight || move.To != (types.Coord{Col: 3, Row: 2}) {
		t.Errorf("expired arrow still applied: %+v", move)
	}
	if _, ok := arrows.ArrowAt(types.Coord{Col: 2, Row: 2}); ok {
		t.Error("expired arrow should be evicted by the lookup")
	}
	if arrows.ActiveCount(3) != 0 {
		t.Errorf("ActiveCount(3) = %d, want 0", arrows.ActiveCount(3))
	}
}

func TestResolveIsOrderIndependent(t *testing.T) {
	g := mustGrid(t, openLayout)
	arrows := components.NewArrowLayer(g, 0, 0, nil)
	_ = arrows.Place(types.Coord{Col: 3, Row: 2}, types.DirDown, 0)
	_ = arrows.Place(types.Coord{Col: 4, Row: 1}, types.DirLeft, 0)

	entities := []components.Entity{
		walker(1, types.EntityMouse, 1, 1, types.DirRight),
		walker(2, types.EntityMouse, 3, 2, types.DirRight),
		walker(3, types.EntityCat, 4, 1, types.DirRight),
		walker(4, types.EntityCat, 5, 3, types.DirDown),
		walker(5, types.EntityMouse, 3, 2, types.DirLeft),
		walker(6, types.EntityMouse, 5, 1, types.DirUp),
	}

	ms := NewMovementSystem(1)
	want := ms.Resolve(g, arrows, entities, 4)

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 20; i++ {
		shuffled := make([]components.Entity, len(entities))
		copy(shuffled, entities)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })

		got := ms.Resolve(g, arrows, shuffled, 4)
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("plan depends on iteration order:\n got %+v\nwant %+v", got, want)
		}
	}
}

func TestCatMoveInterval(t *testing.T) {
	g := mustGrid(t, openLayout)
	arrows := components.NewArrowLayer(g, 0, 0, nil)
	entities := []components.Entity{
		walker(1, types.EntityMouse, 1, 2, types.DirRight),
		walker(2, types.EntityCat, 1, 1, types.DirRight),
	}

	ms := NewMovementSystem(2)
	for tick, wantCatMoved := range []bool{true, false, true, false} {
		plan := ms.Resolve(g, arrows, entities, tick)
		mouse, _ := plan.Lookup(1)
		cat, _ := plan.Lookup(2)
		if !mouse.Moved() {
			t.Errorf("tick %d: mouse should move every tick", tick)
		}
		if cat.Moved() != wantCatMoved {
			t.Errorf("tick %d: cat moved = %v, want %v", tick, cat.Moved(), wantCatMoved)
		}
	}
}

func TestApplyCommitsMovesAndWearsArrows(t *testing.T) {
	g := mustGrid(t, openLayout)
	arrows := components.NewArrowLayer(g, 0, 0, nil)
	at := types.Coord{Col: 3, Row: 2}
	if err := arrows.Place(at, types.DirLeft, 0); err != nil {
		t.Fatalf("Place() error: %v", err)
	}

	store := ecs.NewEntityStore()
	cat := store.Insert(types.EntityCat, at, types.DirRight, 0)
	mouse := store.Insert(types.EntityMouse, at, types.DirRight, 0)

	ms := NewMovementSystem(1)
	plan := ms.Resolve(g, arrows, store.Snapshot(), 0)
	if removed := ms.Apply(plan, store, arrows); len(removed) != 0 {
		t.Fatalf("first reversal removed arrows %v, want none", removed)
	}

	if cat.Coord != (types.Coord{Col: 2, Row: 2}) || cat.Facing != types.DirLeft {
		t.Errorf("cat = %v facing %v, want (2,2) facing left", cat.Coord, cat.Facing)
	}
	if mouse.Coord != (types.Coord{Col: 2, Row: 2}) {
		t.Errorf("mouse = %v, want (2,2)", mouse.Coord)
	}
	arrow, ok := arrows.ArrowAt(at)
	if !ok || !arrow.Worn {
		t.Fatalf("arrow after one cat reversal = %+v (present %v), want worn", arrow, ok)
	}

	// 第二只猫掉头把箭头磨掉
	second := store.Insert(types.EntityCat, at, types.DirRight, 0)
	plan = ms.Resolve(g, arrows, []components.Entity{*second}, 1)
	removed := ms.Apply(plan, store, arrows)
	if len(removed) != 1 || removed[0] != at {
		t.Errorf("removed = %v, want [%v]", removed, at)
	}
	if _, ok := arrows.ArrowAt(at); ok {
		t.Error("worn arrow should be gone after the second reversal")
	}
}
