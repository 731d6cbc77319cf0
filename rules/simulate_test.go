package rules

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/brensch/snekrules/game"
)

// dumpState is a test helper to visualize board state.
func dumpState(state *game.GameState) string {
	grid := make([][]byte, state.Height)
	for y := int32(0); y < state.Height; y++ {
		grid[y] = make([]byte, state.Width)
		for x := int32(0); x < state.Width; x++ {
			grid[y][x] = '.'
		}
	}
	for _, h := range state.Hazards {
		grid[h.Y][h.X] = 'x'
	}
	for _, f := range state.Food {
		grid[f.Y][f.X] = '*'
	}
	for i := range state.Snakes {
		s := &state.Snakes[i]
		if !s.Alive() {
			continue
		}
		sym := byte('a' + i)
		for j, p := range s.Body {
			if p.Y < 0 || p.Y >= state.Height || p.X < 0 || p.X >= state.Width {
				continue
			}
			if j == 0 {
				grid[p.Y][p.X] = sym - 32 // uppercase head
			} else {
				grid[p.Y][p.X] = sym
			}
		}
	}
	var sb strings.Builder
	for y := state.Height - 1; y >= 0; y-- {
		sb.Write(grid[y])
		sb.WriteByte('\n')
	}
	return sb.String()
}

func logTurn(t *testing.T, label string, before *game.GameState, moves map[string]game.Move, after *game.GameState) {
	t.Helper()
	var moveStrs []string
	for id, m := range moves {
		moveStrs = append(moveStrs, fmt.Sprintf("%s=%s", id, m))
	}
	t.Logf("%s\n  BEFORE (moves=%v):\n%s  AFTER:\n%s", label, moveStrs, dumpState(before), dumpState(after))
}

func standardState(width, height int32, snakes []game.Snake, food []game.Point) *game.GameState {
	return &game.GameState{
		Width:  width,
		Height: height,
		Snakes: snakes,
		Food:   food,
		Config: game.DefaultConfig(),
	}
}

func column(x, yHead int32, length int32) []game.Point {
	body := make([]game.Point, 0, length)
	for i := int32(0); i < length; i++ {
		body = append(body, game.Point{X: x, Y: yHead - i})
	}
	return body
}

func TestSimulate_NormalMove_NoFood(t *testing.T) {
	before := standardState(7, 7, []game.Snake{
		{Id: "me", Health: 100, Body: column(3, 3, 3)},
	}, nil)

	after, err := Simulate(before, map[string]game.Move{"me": game.MoveUp})
	if err != nil {
		t.Fatal(err)
	}
	logTurn(t, "normal move, no food", before, map[string]game.Move{"me": game.MoveUp}, after)

	got := after.Snakes[0].Body
	want := []game.Point{{X: 3, Y: 4}, {X: 3, Y: 3}, {X: 3, Y: 2}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("body=%v want=%v", got, want)
	}
	if after.Snakes[0].Health != 99 {
		t.Fatalf("health=%d want=99", after.Snakes[0].Health)
	}
	if after.Turn != before.Turn+1 {
		t.Fatalf("turn=%d want=%d", after.Turn, before.Turn+1)
	}
	// Input state untouched.
	if before.Snakes[0].Health != 100 || len(before.Snakes[0].Body) != 3 {
		t.Fatalf("input state was mutated")
	}
}

func TestSimulate_EatFood_GrowsAndResetsHealth(t *testing.T) {
	before := standardState(7, 7, []game.Snake{
		{Id: "me", Health: 50, Body: column(3, 3, 3)},
	}, []game.Point{{X: 3, Y: 4}})

	after, err := Simulate(before, map[string]game.Move{"me": game.MoveUp})
	if err != nil {
		t.Fatal(err)
	}
	logTurn(t, "eat food", before, map[string]game.Move{"me": game.MoveUp}, after)

	got := after.Snakes[0].Body
	want := []game.Point{{X: 3, Y: 4}, {X: 3, Y: 3}, {X: 3, Y: 2}, {X: 3, Y: 1}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("body=%v want=%v", got, want)
	}
	if after.Snakes[0].Health != 100 {
		t.Fatalf("health=%d want=100", after.Snakes[0].Health)
	}
	if len(after.Food) != 0 {
		t.Fatalf("food=%d want=0", len(after.Food))
	}
}

func TestSimulate_Starvation_SoloLoss(t *testing.T) {
	before := standardState(7, 7, []game.Snake{
		{Id: "me", Health: 1, Body: column(3, 3, 3)},
	}, nil)

	after, err := Simulate(before, map[string]game.Move{"me": game.MoveUp})
	if err != nil {
		t.Fatal(err)
	}

	s := after.Snakes[0]
	if s.Eliminated != game.EliminatedStarved {
		t.Fatalf("cause=%v want=starved", s.Eliminated)
	}
	if s.Health != 0 {
		t.Fatalf("health=%d want=0", s.Health)
	}
	if !IsGameOver(after) {
		t.Fatalf("solo game with starved snake should be over")
	}
	if _, ok := Winner(after); ok {
		t.Fatalf("solo starvation is a loss, not a win")
	}
}

func TestSimulate_WallCollision(t *testing.T) {
	before := standardState(11, 11, []game.Snake{
		{Id: "me", Health: 100, Body: []game.Point{{X: 10, Y: 5}, {X: 9, Y: 5}, {X: 8, Y: 5}}},
	}, nil)

	after, err := Simulate(before, map[string]game.Move{"me": game.MoveRight})
	if err != nil {
		t.Fatal(err)
	}
	if after.Snakes[0].Eliminated != game.EliminatedCollidedWall {
		t.Fatalf("cause=%v want=collided-wall", after.Snakes[0].Eliminated)
	}
}

func TestSimulate_WrappedBoard_NoWall(t *testing.T) {
	before := &game.GameState{
		Width:  7,
		Height: 7,
		Snakes: []game.Snake{
			{Id: "me", Health: 100, Body: []game.Point{{X: 6, Y: 3}, {X: 5, Y: 3}, {X: 4, Y: 3}}},
		},
		Config: game.RulesetConfig{Variant: "wrapped", StartingHealth: 100, MaxHealth: 100, HazardDamagePerTurn: 15},
	}

	after, err := Simulate(before, map[string]game.Move{"me": game.MoveRight})
	if err != nil {
		t.Fatal(err)
	}
	if after.Snakes[0].Eliminated != game.NotEliminated {
		t.Fatalf("wrapped move east eliminated snake: %v", after.Snakes[0].Eliminated)
	}
	if head := after.Snakes[0].Head(); head != (game.Point{X: 0, Y: 3}) {
		t.Fatalf("head=%v want=(0,3)", head)
	}
}

func TestSimulate_MutualHeadToHead_EqualLength(t *testing.T) {
	before := standardState(7, 7, []game.Snake{
		{Id: "a", Health: 100, Body: []game.Point{{X: 2, Y: 3}, {X: 1, Y: 3}, {X: 0, Y: 3}}},
		{Id: "b", Health: 100, Body: []game.Point{{X: 4, Y: 3}, {X: 5, Y: 3}, {X: 6, Y: 3}}},
	}, nil)

	moves := map[string]game.Move{"a": game.MoveRight, "b": game.MoveLeft}
	after, err := Simulate(before, moves)
	if err != nil {
		t.Fatal(err)
	}
	logTurn(t, "mutual head-to-head", before, moves, after)

	for i := range after.Snakes {
		if after.Snakes[i].Eliminated != game.EliminatedCollidedOther {
			t.Fatalf("snake %s cause=%v want=collided-other", after.Snakes[i].Id, after.Snakes[i].Eliminated)
		}
	}
	if !IsGameOver(after) {
		t.Fatalf("game should be over with zero survivors")
	}
	if _, ok := Winner(after); ok {
		t.Fatalf("mutual kill has no winner")
	}
}

func TestSimulate_HeadToHead_LongerSurvives(t *testing.T) {
	before := standardState(7, 7, []game.Snake{
		{Id: "long", Health: 100, Body: []game.Point{{X: 2, Y: 3}, {X: 1, Y: 3}, {X: 0, Y: 3}, {X: 0, Y: 2}}},
		{Id: "short", Health: 100, Body: []game.Point{{X: 4, Y: 3}, {X: 5, Y: 3}, {X: 6, Y: 3}}},
	}, nil)

	after, err := Simulate(before, map[string]game.Move{"long": game.MoveRight, "short": game.MoveLeft})
	if err != nil {
		t.Fatal(err)
	}

	if after.Snake("long").Eliminated != game.NotEliminated {
		t.Fatalf("longer snake should survive head-to-head")
	}
	if after.Snake("short").Eliminated != game.EliminatedCollidedOther {
		t.Fatalf("shorter snake cause=%v want=collided-other", after.Snake("short").Eliminated)
	}
	if id, ok := Winner(after); !ok || id != "long" {
		t.Fatalf("winner=%q,%v want long,true", id, ok)
	}
}

func TestSimulate_HeadToHead_BothEatBeforeJudging(t *testing.T) {
	// Both heads land on the food cell. Both eat and grow before the
	// collision is judged, so the head-to-head compares 4 vs 4 and both
	// snakes die. The food is gone either way.
	before := standardState(7, 7, []game.Snake{
		{Id: "a", Health: 30, Body: []game.Point{{X: 2, Y: 3}, {X: 1, Y: 3}, {X: 0, Y: 3}}},
		{Id: "b", Health: 30, Body: []game.Point{{X: 4, Y: 3}, {X: 5, Y: 3}, {X: 6, Y: 3}}},
	}, []game.Point{{X: 3, Y: 3}})

	after, err := Simulate(before, map[string]game.Move{"a": game.MoveRight, "b": game.MoveLeft})
	if err != nil {
		t.Fatal(err)
	}

	for _, id := range []string{"a", "b"} {
		s := after.Snake(id)
		if s.Length() != 4 {
			t.Fatalf("%s length=%d want=4 (grew before judgement)", id, s.Length())
		}
		if s.Eliminated != game.EliminatedCollidedOther {
			t.Fatalf("%s cause=%v want=collided-other", id, s.Eliminated)
		}
	}
	if len(after.Food) != 0 {
		t.Fatalf("contested food should be consumed, got %d", len(after.Food))
	}

	// A strictly longer snake still wins even when the shorter one eats.
	before.Snakes[1].Body = append(before.Snakes[1].Body, game.Point{X: 6, Y: 2}, game.Point{X: 6, Y: 1})
	after, err = Simulate(before, map[string]game.Move{"a": game.MoveRight, "b": game.MoveLeft})
	if err != nil {
		t.Fatal(err)
	}
	if after.Snake("b").Eliminated != game.NotEliminated {
		t.Fatalf("length-6 snake should beat length-4 on the food cell")
	}
	if after.Snake("a").Eliminated != game.EliminatedCollidedOther {
		t.Fatalf("a cause=%v want=collided-other", after.Snake("a").Eliminated)
	}
}

func TestSimulate_BodyCollision(t *testing.T) {
	before := standardState(7, 7, []game.Snake{
		{Id: "wall", Health: 100, Body: []game.Point{{X: 3, Y: 5}, {X: 3, Y: 4}, {X: 3, Y: 3}, {X: 3, Y: 2}, {X: 3, Y: 1}}},
		{Id: "rammer", Health: 100, Body: []game.Point{{X: 2, Y: 3}, {X: 1, Y: 3}, {X: 0, Y: 3}}},
	}, nil)

	after, err := Simulate(before, map[string]game.Move{"wall": game.MoveUp, "rammer": game.MoveRight})
	if err != nil {
		t.Fatal(err)
	}
	if after.Snake("rammer").Eliminated != game.EliminatedCollidedOther {
		t.Fatalf("rammer cause=%v want=collided-other", after.Snake("rammer").Eliminated)
	}
	if after.Snake("wall").Eliminated != game.NotEliminated {
		t.Fatalf("wall snake should be unaffected")
	}
}

func TestSimulate_SelfCollision(t *testing.T) {
	// Hook shape: moving left turns the head into the snake's own body.
	before := standardState(7, 7, []game.Snake{
		{Id: "me", Health: 100, Body: []game.Point{
			{X: 3, Y: 3}, {X: 3, Y: 2}, {X: 2, Y: 2}, {X: 2, Y: 3}, {X: 2, Y: 4}, {X: 3, Y: 4}, {X: 4, Y: 4},
		}},
	}, nil)

	after, err := Simulate(before, map[string]game.Move{"me": game.MoveLeft})
	if err != nil {
		t.Fatal(err)
	}
	if after.Snakes[0].Eliminated != game.EliminatedCollidedSelf {
		t.Fatalf("cause=%v want=collided-self", after.Snakes[0].Eliminated)
	}
}

func TestSimulate_ChasingOwnTailIsSafe(t *testing.T) {
	// 2x2 loop: the head moves into the cell the tail vacates this turn.
	before := standardState(7, 7, []game.Snake{
		{Id: "me", Health: 100, Body: []game.Point{
			{X: 3, Y: 3}, {X: 4, Y: 3}, {X: 4, Y: 4}, {X: 3, Y: 4},
		}},
	}, nil)

	after, err := Simulate(before, map[string]game.Move{"me": game.MoveUp})
	if err != nil {
		t.Fatal(err)
	}
	if after.Snakes[0].Eliminated != game.NotEliminated {
		t.Fatalf("tail chase eliminated snake: %v", after.Snakes[0].Eliminated)
	}
}

func TestSimulate_TailBlockedWhenOwnerGrows(t *testing.T) {
	// The grower eats this turn, so its tail cell is not vacated and the
	// chaser entering it collides.
	before := standardState(7, 7, []game.Snake{
		{Id: "grower", Health: 100, Body: []game.Point{{X: 1, Y: 5}, {X: 1, Y: 4}, {X: 1, Y: 3}}},
		{Id: "chaser", Health: 100, Body: []game.Point{{X: 0, Y: 3}, {X: 0, Y: 4}, {X: 0, Y: 5}}},
	}, []game.Point{{X: 1, Y: 6}})

	after, err := Simulate(before, map[string]game.Move{"grower": game.MoveUp, "chaser": game.MoveRight})
	if err != nil {
		t.Fatal(err)
	}
	if after.Snake("chaser").Eliminated != game.EliminatedCollidedOther {
		t.Fatalf("chaser entering a retained tail cell should die, got %v", after.Snake("chaser").Eliminated)
	}
}

func TestSimulate_Determinism(t *testing.T) {
	before := standardState(11, 11, []game.Snake{
		{Id: "a", Health: 63, Body: column(3, 5, 4)},
		{Id: "b", Health: 41, Body: column(7, 5, 3)},
	}, []game.Point{{X: 3, Y: 6}, {X: 0, Y: 0}})
	before.Hazards = []game.Point{{X: 7, Y: 6}}

	moves := map[string]game.Move{"a": game.MoveUp, "b": game.MoveUp}
	first, err := Simulate(before, moves)
	if err != nil {
		t.Fatal(err)
	}
	second, err := Simulate(before, moves)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("simulate is not deterministic:\n%s\nvs\n%s", dumpState(first), dumpState(second))
	}
}

func TestSimulate_Conservation(t *testing.T) {
	state := standardState(11, 11, []game.Snake{
		{Id: "a", Health: 100, Body: column(2, 4, 3)},
		{Id: "b", Health: 100, Body: column(8, 4, 3)},
	}, []game.Point{{X: 2, Y: 5}})

	after, err := Simulate(state, map[string]game.Move{"a": game.MoveUp, "b": game.MoveUp})
	if err != nil {
		t.Fatal(err)
	}
	if got := after.Snake("a").Length(); got != 4 {
		t.Fatalf("eater length=%d want previous+1=4", got)
	}
	if got := after.Snake("b").Length(); got != 3 {
		t.Fatalf("non-eater length=%d want unchanged=3", got)
	}
}

func TestSimulate_HazardDamage(t *testing.T) {
	before := standardState(7, 7, []game.Snake{
		{Id: "me", Health: 50, Body: column(3, 3, 3)},
	}, nil)
	before.Hazards = []game.Point{{X: 3, Y: 4}}

	after, err := Simulate(before, map[string]game.Move{"me": game.MoveUp})
	if err != nil {
		t.Fatal(err)
	}
	// 1 base + 15 hazard.
	if after.Snakes[0].Health != 34 {
		t.Fatalf("health=%d want=34", after.Snakes[0].Health)
	}
}

func TestSimulate_HazardKillIsStarvation(t *testing.T) {
	before := standardState(7, 7, []game.Snake{
		{Id: "me", Health: 10, Body: column(3, 3, 3)},
		{Id: "other", Health: 100, Body: column(6, 3, 3)},
	}, nil)
	before.Hazards = []game.Point{{X: 3, Y: 4}}

	after, err := Simulate(before, map[string]game.Move{"me": game.MoveUp, "other": game.MoveUp})
	if err != nil {
		t.Fatal(err)
	}
	if after.Snake("me").Eliminated != game.EliminatedStarved {
		t.Fatalf("hazard drain to zero should starve, got %v", after.Snake("me").Eliminated)
	}
}

func TestSimulate_MissingMoveIsContractViolation(t *testing.T) {
	before := standardState(7, 7, []game.Snake{
		{Id: "a", Health: 100, Body: column(2, 3, 3)},
		{Id: "b", Health: 100, Body: column(5, 3, 3)},
	}, nil)

	_, err := Simulate(before, map[string]game.Move{"a": game.MoveUp})
	if !errors.Is(err, ErrMissingMove) {
		t.Fatalf("err=%v want ErrMissingMove", err)
	}
}

func TestSimulate_UnknownSnakeIsContractViolation(t *testing.T) {
	before := standardState(7, 7, []game.Snake{
		{Id: "a", Health: 100, Body: column(2, 3, 3)},
	}, nil)

	_, err := Simulate(before, map[string]game.Move{"a": game.MoveUp, "ghost": game.MoveDown})
	if !errors.Is(err, ErrUnknownSnake) {
		t.Fatalf("err=%v want ErrUnknownSnake", err)
	}
}

func TestSimulate_EliminatedSnakesIgnoredAndRetained(t *testing.T) {
	before := standardState(7, 7, []game.Snake{
		{Id: "a", Health: 100, Body: column(2, 3, 3)},
		{Id: "dead", Health: 0, Body: column(5, 3, 3), Eliminated: game.EliminatedStarved},
	}, nil)

	// No move entry required for the dead snake.
	after, err := Simulate(before, map[string]game.Move{"a": game.MoveUp})
	if err != nil {
		t.Fatal(err)
	}
	if len(after.Snakes) != 2 {
		t.Fatalf("eliminated snakes must be retained, got %d snakes", len(after.Snakes))
	}
	if after.Snake("dead").Eliminated != game.EliminatedStarved {
		t.Fatalf("elimination cause changed: %v", after.Snake("dead").Eliminated)
	}
}

func TestSimulate_TerminalStateIsStable(t *testing.T) {
	state := standardState(7, 7, []game.Snake{
		{Id: "winner", Health: 80, Body: column(2, 3, 3)},
		{Id: "loser", Health: 0, Body: column(5, 3, 3), Eliminated: game.EliminatedCollidedOther},
	}, nil)

	if !IsGameOver(state) {
		t.Fatalf("state should be terminal")
	}
	wantWinner, _ := Winner(state)

	after, err := Simulate(state, map[string]game.Move{"winner": game.MoveUp})
	if err != nil {
		t.Fatal(err)
	}
	if !IsGameOver(after) {
		t.Fatalf("terminal status must not regress")
	}
	if gotWinner, ok := Winner(after); !ok || gotWinner != wantWinner {
		t.Fatalf("winner changed from %q to %q,%v", wantWinner, gotWinner, ok)
	}
	if after.Turn != state.Turn+1 {
		t.Fatalf("turn=%d want=%d", after.Turn, state.Turn+1)
	}
}

func TestSimulate_Constrictor(t *testing.T) {
	before := &game.GameState{
		Width:  7,
		Height: 7,
		Snakes: []game.Snake{
			{Id: "me", Health: 100, Body: column(3, 3, 3)},
		},
		Config: game.RulesetConfig{Variant: "constrictor", StartingHealth: 100, MaxHealth: 100},
	}

	after, err := Simulate(before, map[string]game.Move{"me": game.MoveUp})
	if err != nil {
		t.Fatal(err)
	}
	if got := after.Snakes[0].Length(); got != 4 {
		t.Fatalf("constrictor length=%d want=4 (grows every turn)", got)
	}
	if after.Snakes[0].Health != 100 {
		t.Fatalf("constrictor health=%d want pinned at 100", after.Snakes[0].Health)
	}
}

func TestSimulate_RoyaleShrinkRecomputed(t *testing.T) {
	cfg := game.DefaultConfig()
	cfg.Variant = "royale"
	cfg.ShrinkEveryNTurns = 5
	cfg.ShrinkSeed = 42

	before := &game.GameState{
		Width:  7,
		Height: 7,
		Turn:   4,
		Snakes: []game.Snake{
			{Id: "me", Health: 100, Body: column(3, 3, 3)},
		},
		Config: cfg,
	}

	// Turn 4 -> 5 triggers the first shrink: one full edge becomes hazard.
	after, err := Simulate(before, map[string]game.Move{"me": game.MoveUp})
	if err != nil {
		t.Fatal(err)
	}
	if len(after.Hazards) != 7 {
		t.Fatalf("hazards=%d want one 7-cell edge", len(after.Hazards))
	}

	// Recompute is a pure function of the turn: simulating the same turn
	// twice yields the same footprint.
	again, err := Simulate(before, map[string]game.Move{"me": game.MoveUp})
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(after.Hazards, again.Hazards) {
		t.Fatalf("royale hazard footprint is not deterministic")
	}
}

func TestSimulate_SquadTeammatesExempt(t *testing.T) {
	cfg := game.DefaultConfig()
	cfg.Variant = "squad"

	before := &game.GameState{
		Width:  7,
		Height: 7,
		Snakes: []game.Snake{
			{Id: "a1", Squad: "red", Health: 100, Body: []game.Point{{X: 3, Y: 5}, {X: 3, Y: 4}, {X: 3, Y: 3}, {X: 3, Y: 2}}},
			{Id: "a2", Squad: "red", Health: 100, Body: []game.Point{{X: 2, Y: 3}, {X: 1, Y: 3}, {X: 0, Y: 3}}},
		},
		Config: cfg,
	}

	// a2 runs into a1's body; teammates are exempt.
	after, err := Simulate(before, map[string]game.Move{"a1": game.MoveUp, "a2": game.MoveRight})
	if err != nil {
		t.Fatal(err)
	}
	if after.Snake("a2").Eliminated != game.NotEliminated {
		t.Fatalf("teammate body collision should be exempt, got %v", after.Snake("a2").Eliminated)
	}

	if squad, ok := WinningSquad(after); !ok || squad != "red" {
		t.Fatalf("WinningSquad=%q,%v want red,true", squad, ok)
	}
}

func TestSimulate_SquadHeadToHeadExempt(t *testing.T) {
	cfg := game.DefaultConfig()
	cfg.Variant = "squad"

	// Equal-length teammates meet head-to-head at (3,3). Between opponents
	// this is a mutual elimination; teammates pass through each other.
	before := &game.GameState{
		Width:  7,
		Height: 7,
		Snakes: []game.Snake{
			{Id: "a1", Squad: "red", Health: 100, Body: []game.Point{{X: 2, Y: 3}, {X: 1, Y: 3}, {X: 0, Y: 3}}},
			{Id: "a2", Squad: "red", Health: 100, Body: []game.Point{{X: 4, Y: 3}, {X: 5, Y: 3}, {X: 6, Y: 3}}},
		},
		Config: cfg,
	}

	moves := map[string]game.Move{"a1": game.MoveRight, "a2": game.MoveLeft}
	after, err := Simulate(before, moves)
	if err != nil {
		t.Fatal(err)
	}
	logTurn(t, "squad head-to-head", before, moves, after)

	for _, id := range []string{"a1", "a2"} {
		s := after.Snake(id)
		if s.Eliminated != game.NotEliminated {
			t.Fatalf("teammate %s eliminated by head-to-head: %v", id, s.Eliminated)
		}
		if s.Head() != (game.Point{X: 3, Y: 3}) {
			t.Fatalf("teammate %s head=%v want (3,3)", id, s.Head())
		}
	}
}

func TestSimulate_SquadBodyCollisionsDisabled(t *testing.T) {
	cfg := game.DefaultConfig()
	cfg.Variant = "squad"
	cfg.SquadAllowBodyCollisions = false

	before := &game.GameState{
		Width:  7,
		Height: 7,
		Snakes: []game.Snake{
			{Id: "a1", Squad: "red", Health: 100, Body: []game.Point{{X: 3, Y: 5}, {X: 3, Y: 4}, {X: 3, Y: 3}, {X: 3, Y: 2}}},
			{Id: "a2", Squad: "red", Health: 100, Body: []game.Point{{X: 2, Y: 3}, {X: 1, Y: 3}, {X: 0, Y: 3}}},
		},
		Config: cfg,
	}

	// With the exemption toggled off a teammate's body eliminates like an
	// opponent's.
	after, err := Simulate(before, map[string]game.Move{"a1": game.MoveUp, "a2": game.MoveRight})
	if err != nil {
		t.Fatal(err)
	}
	if got := after.Snake("a2").Eliminated; got != game.EliminatedCollidedOther {
		t.Fatalf("a2 eliminated=%v want %v", got, game.EliminatedCollidedOther)
	}
	if after.Snake("a1").Eliminated != game.NotEliminated {
		t.Fatalf("a1 should survive")
	}
}

// forgivingStandard is standard rules except that a snake omitted from the
// move map continues straight instead of failing the call.
type forgivingStandard struct{ Standard }

func (forgivingStandard) MissingMoveFallback() bool { return true }

func TestSimulateVariant_MissingMoveContinuesStraight(t *testing.T) {
	before := standardState(7, 7, []game.Snake{
		{Id: "east", Health: 100, Body: []game.Point{{X: 2, Y: 3}, {X: 1, Y: 3}, {X: 0, Y: 3}}},
		{Id: "stacked", Health: 100, Body: []game.Point{{X: 5, Y: 1}, {X: 5, Y: 1}, {X: 5, Y: 1}}},
	}, nil)

	after, err := SimulateVariant(before, map[string]game.Move{}, forgivingStandard{})
	if err != nil {
		t.Fatal(err)
	}
	logTurn(t, "missing moves continue straight", before, nil, after)

	// east was heading right and keeps going.
	if got := after.Snake("east").Head(); got != (game.Point{X: 3, Y: 3}) {
		t.Fatalf("east head=%v want (3,3)", got)
	}
	// A stacked body has no direction to continue; it defaults up.
	if got := after.Snake("stacked").Head(); got != (game.Point{X: 5, Y: 2}) {
		t.Fatalf("stacked head=%v want (5,2)", got)
	}
	for _, s := range after.Snakes {
		if s.Eliminated != game.NotEliminated {
			t.Fatalf("%s eliminated: %v", s.Id, s.Eliminated)
		}
	}
}

func TestSimulate_ThreeWayHeadToHead(t *testing.T) {
	// Three snakes contend one cell: the unique longest survives, the two
	// shorter ones are eliminated.
	before := standardState(7, 7, []game.Snake{
		{Id: "long", Health: 100, Body: []game.Point{{X: 3, Y: 4}, {X: 3, Y: 5}, {X: 3, Y: 6}, {X: 2, Y: 6}}},
		{Id: "s1", Health: 100, Body: []game.Point{{X: 2, Y: 3}, {X: 1, Y: 3}, {X: 0, Y: 3}}},
		{Id: "s2", Health: 100, Body: []game.Point{{X: 4, Y: 3}, {X: 5, Y: 3}, {X: 6, Y: 3}}},
	}, nil)

	after, err := Simulate(before, map[string]game.Move{
		"long": game.MoveDown,
		"s1":   game.MoveRight,
		"s2":   game.MoveLeft,
	})
	if err != nil {
		t.Fatal(err)
	}
	if after.Snake("long").Eliminated != game.NotEliminated {
		t.Fatalf("unique longest should survive three-way head-to-head")
	}
	for _, id := range []string{"s1", "s2"} {
		if after.Snake(id).Eliminated != game.EliminatedCollidedOther {
			t.Fatalf("%s cause=%v want=collided-other", id, after.Snake(id).Eliminated)
		}
	}
}

func TestSimulate_SimultaneousDetection(t *testing.T) {
	// b dies to a wall while a rams b's body on the same turn. b's earlier
	// elimination within the collision phase must not save a.
	before := standardState(7, 7, []game.Snake{
		{Id: "a", Health: 100, Body: []game.Point{{X: 4, Y: 3}, {X: 3, Y: 3}, {X: 2, Y: 3}}},
		{Id: "b", Health: 100, Body: []game.Point{{X: 6, Y: 4}, {X: 6, Y: 3}, {X: 5, Y: 3}, {X: 5, Y: 4}}},
	}, nil)

	after, err := Simulate(before, map[string]game.Move{"a": game.MoveRight, "b": game.MoveRight})
	if err != nil {
		t.Fatal(err)
	}
	if after.Snake("b").Eliminated != game.EliminatedCollidedWall {
		t.Fatalf("b cause=%v want=collided-wall", after.Snake("b").Eliminated)
	}
	if after.Snake("a").Eliminated != game.EliminatedCollidedOther {
		t.Fatalf("a cause=%v want=collided-other (b's body still blocks this turn)", after.Snake("a").Eliminated)
	}
}
