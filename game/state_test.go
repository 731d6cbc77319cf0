package game

import (
	"math/rand"
	"reflect"
	"testing"
)

func TestClone_DeepCopies(t *testing.T) {
	orig := &GameState{
		Width:  11,
		Height: 11,
		Turn:   7,
		Config: DefaultConfig(),
		Food:   []Point{{X: 1, Y: 1}},
		Snakes: []Snake{{
			Id:     "a",
			Health: 80,
			Body:   []Point{{X: 3, Y: 3}, {X: 3, Y: 2}},
		}},
	}

	clone := orig.Clone()
	if !reflect.DeepEqual(orig, clone) {
		t.Fatalf("clone differs from original")
	}

	clone.Snakes[0].Body[0] = Point{X: 9, Y: 9}
	clone.Food[0] = Point{X: 5, Y: 5}
	if orig.Snakes[0].Body[0] != (Point{X: 3, Y: 3}) {
		t.Fatalf("mutating clone body changed original")
	}
	if orig.Food[0] != (Point{X: 1, Y: 1}) {
		t.Fatalf("mutating clone food changed original")
	}
}

func TestAliveSnakes_OrderAndFiltering(t *testing.T) {
	state := &GameState{
		Width:  7,
		Height: 7,
		Snakes: []Snake{
			{Id: "first", Health: 50, Body: []Point{{X: 0, Y: 0}}},
			{Id: "dead", Health: 0, Body: []Point{{X: 1, Y: 1}}},
			{Id: "second", Health: 50, Body: []Point{{X: 2, Y: 2}}},
			{Id: "collided", Health: 30, Body: []Point{{X: 3, Y: 3}}, Eliminated: EliminatedCollidedOther},
		},
	}

	alive := state.AliveSnakes()
	if len(alive) != 2 {
		t.Fatalf("alive=%d want=2", len(alive))
	}
	if alive[0].Id != "first" || alive[1].Id != "second" {
		t.Fatalf("alive order = [%s %s], want insertion order [first second]", alive[0].Id, alive[1].Id)
	}
	if state.AliveCount() != 2 {
		t.Fatalf("AliveCount=%d want=2", state.AliveCount())
	}
}

func TestCellGrid_Flags(t *testing.T) {
	state := &GameState{
		Width:   5,
		Height:  5,
		Config:  DefaultConfig(),
		Food:    []Point{{X: 1, Y: 1}},
		Hazards: []Point{{X: 1, Y: 1}, {X: 4, Y: 4}},
		Snakes: []Snake{
			{Id: "a", Health: 100, Body: []Point{{X: 2, Y: 2}, {X: 2, Y: 1}, {X: 2, Y: 0}}},
			{Id: "gone", Health: 0, Body: []Point{{X: 0, Y: 4}}},
		},
	}

	grid := NewCellGrid(state)

	f := grid.Flags(Point{X: 1, Y: 1})
	if !f.HasFood() || !f.HasHazard() {
		t.Fatalf("expected food+hazard at (1,1), got %b", f)
	}
	if !grid.Flags(Point{X: 2, Y: 2}).HasHead() {
		t.Fatalf("expected head at (2,2)")
	}
	if !grid.Flags(Point{X: 2, Y: 1}).HasBody() {
		t.Fatalf("expected body at (2,1)")
	}
	if grid.Flags(Point{X: 0, Y: 4}) != 0 {
		t.Fatalf("eliminated snakes should not occupy cells")
	}
	if grid.Flags(Point{X: 3, Y: 3}) != 0 {
		t.Fatalf("expected empty cell at (3,3)")
	}
}

func TestCellGrid_WrapNormalization(t *testing.T) {
	state := &GameState{Width: 7, Height: 5, Config: RulesetConfig{Variant: "wrapped"}}
	grid := NewCellGrid(state)

	cases := []struct {
		in, want Point
	}{
		{Point{X: 7, Y: 0}, Point{X: 0, Y: 0}},
		{Point{X: -1, Y: 2}, Point{X: 6, Y: 2}},
		{Point{X: 3, Y: 5}, Point{X: 3, Y: 0}},
		{Point{X: 3, Y: -1}, Point{X: 3, Y: 4}},
	}
	for _, c := range cases {
		if got := grid.Normalize(c.in); got != c.want {
			t.Errorf("Normalize(%v)=%v want=%v", c.in, got, c.want)
		}
	}

	if got := grid.Neighbor(Point{X: 6, Y: 0}, MoveRight); got != (Point{X: 0, Y: 0}) {
		t.Fatalf("wrapped Neighbor east from x=6 got %v want (0,0)", got)
	}
}

func TestCellGrid_OutOfBoundsPanics(t *testing.T) {
	state := &GameState{Width: 5, Height: 5, Config: DefaultConfig()}
	grid := NewCellGrid(state)

	defer func() {
		if recover() == nil {
			t.Fatalf("Flags on out-of-bounds position should panic on a bounded board")
		}
	}()
	grid.Flags(Point{X: 5, Y: 0})
}

func TestApplyFoodSettings_MinimumFood(t *testing.T) {
	state := &GameState{
		Width:  5,
		Height: 5,
		Snakes: []Snake{{Id: "a", Health: 100, Body: []Point{{X: 2, Y: 2}}}},
	}

	rng := rand.New(rand.NewSource(1))
	ApplyFoodSettings(state, rng, FoodSettings{MinimumFood: 3, FoodSpawnChance: 0})

	if len(state.Food) != 3 {
		t.Fatalf("food=%d want=3", len(state.Food))
	}
	for _, f := range state.Food {
		if f == (Point{X: 2, Y: 2}) {
			t.Fatalf("food spawned on snake body")
		}
	}
}

func TestApplyFoodSettings_NoRoom(t *testing.T) {
	// 1x1 board fully occupied: nothing can spawn.
	state := &GameState{
		Width:  1,
		Height: 1,
		Snakes: []Snake{{Id: "a", Health: 100, Body: []Point{{X: 0, Y: 0}}}},
	}

	ApplyFoodSettings(state, nil, FoodSettings{MinimumFood: 2, FoodSpawnChance: 100})
	if len(state.Food) != 0 {
		t.Fatalf("food=%d want=0 on a full board", len(state.Food))
	}
}

func TestMoveHelpers(t *testing.T) {
	if MoveUp.Opposite() != MoveDown || MoveLeft.Opposite() != MoveRight {
		t.Fatalf("Opposite mapping broken")
	}
	for i, mv := range AllMoves {
		if mv.Index() != i {
			t.Fatalf("move %v index=%d want=%d", mv, mv.Index(), i)
		}
		parsed, ok := ParseMove(mv.String())
		if !ok || parsed != mv {
			t.Fatalf("ParseMove(%q)=%v,%v", mv.String(), parsed, ok)
		}
	}
	if _, ok := ParseMove("sideways"); ok {
		t.Fatalf("ParseMove accepted junk")
	}
}
