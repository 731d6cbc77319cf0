// Package game defines the core state types for Battlesnake simulation.
//
// These types represent the minimal state needed for rules evaluation. The
// state is designed to be efficiently clonable: the rules engine never
// mutates a published state, so callers doing tree search can hold any
// number of snapshots and fan out from them concurrently.
package game

// EliminationCause records why a snake left the game. Eliminated snakes stay
// in GameState.Snakes with their cause set, so callers can audit history.
type EliminationCause int8

const (
	NotEliminated EliminationCause = iota
	EliminatedStarved
	EliminatedCollidedSelf
	EliminatedCollidedOther
	EliminatedCollidedWall
	EliminatedByOpponent
)

var causeNames = [...]string{
	"none",
	"starved",
	"collided-self",
	"collided-other",
	"collided-wall",
	"eliminated-by-opponent",
}

func (c EliminationCause) String() string {
	if c < 0 || int(c) >= len(causeNames) {
		return "unknown"
	}
	return causeNames[c]
}

// Snake is one player's entity. Body is ordered head first; duplicate tail
// segments represent stacking (a snake that just ate, or game-start triple
// stacks).
type Snake struct {
	Id     string
	Health int32
	Body   []Point
	// Squad groups teammates in the squad variant; empty otherwise.
	Squad      string
	Eliminated EliminationCause
}

// Alive reports whether the snake is still in play.
func (s *Snake) Alive() bool {
	return s.Eliminated == NotEliminated && s.Health > 0 && len(s.Body) > 0
}

// Head returns the snake's head position. Only valid for snakes with a body.
func (s *Snake) Head() Point {
	return s.Body[0]
}

// Length returns the number of body segments, counting stacked duplicates.
func (s *Snake) Length() int {
	return len(s.Body)
}

// RulesetConfig is the static, per-game variant configuration. It is
// immutable for the lifetime of a game and safely shared by reference
// between concurrent simulations.
type RulesetConfig struct {
	// Variant is the ruleset name: "standard", "wrapped", "constrictor",
	// "royale" or "squad".
	Variant string

	StartingHealth      int32
	MaxHealth           int32
	HazardDamagePerTurn int32

	// ShrinkEveryNTurns drives the royale hazard schedule; 0 disables it.
	ShrinkEveryNTurns int32
	// ShrinkSeed makes the royale edge choice deterministic per game.
	ShrinkSeed uint64

	// SquadAllowBodyCollisions exempts squad teammates from eliminating
	// each other. Only consulted by the squad variant.
	SquadAllowBodyCollisions bool

	Food FoodSettings
}

// DefaultConfig returns the standard ruleset knobs used by the public engine.
func DefaultConfig() RulesetConfig {
	return RulesetConfig{
		Variant:             "standard",
		StartingHealth:      100,
		MaxHealth:           100,
		HazardDamagePerTurn: 15,
		Food:                DefaultFoodSettings,

		SquadAllowBodyCollisions: true,
	}
}

// GameState is the complete state of one turn: board contents, every snake
// (including eliminated ones), the turn counter and the immutable ruleset
// config. Snake order is fixed at construction and is the tie-break /
// processing order.
type GameState struct {
	Width   int32
	Height  int32
	Snakes  []Snake
	Food    []Point
	Hazards []Point
	Turn    int32
	Config  RulesetConfig
}

// Clone performs a deep copy of the game state.
func (s *GameState) Clone() *GameState {
	if s == nil {
		return nil
	}

	out := &GameState{
		Width:  s.Width,
		Height: s.Height,
		Turn:   s.Turn,
		Config: s.Config,
	}

	if len(s.Food) > 0 {
		out.Food = make([]Point, len(s.Food))
		copy(out.Food, s.Food)
	}

	if len(s.Hazards) > 0 {
		out.Hazards = make([]Point, len(s.Hazards))
		copy(out.Hazards, s.Hazards)
	}

	if len(s.Snakes) > 0 {
		out.Snakes = make([]Snake, len(s.Snakes))
		for i := range s.Snakes {
			out.Snakes[i] = Snake{
				Id:         s.Snakes[i].Id,
				Health:     s.Snakes[i].Health,
				Squad:      s.Snakes[i].Squad,
				Eliminated: s.Snakes[i].Eliminated,
			}
			if len(s.Snakes[i].Body) > 0 {
				out.Snakes[i].Body = make([]Point, len(s.Snakes[i].Body))
				copy(out.Snakes[i].Body, s.Snakes[i].Body)
			}
		}
	}

	return out
}

// Snake returns the snake with the given id, or nil.
func (s *GameState) Snake(id string) *Snake {
	for i := range s.Snakes {
		if s.Snakes[i].Id == id {
			return &s.Snakes[i]
		}
	}
	return nil
}

// AliveSnakes returns pointers to the snakes still in play, in the state's
// fixed insertion order.
func (s *GameState) AliveSnakes() []*Snake {
	alive := make([]*Snake, 0, len(s.Snakes))
	for i := range s.Snakes {
		if s.Snakes[i].Alive() {
			alive = append(alive, &s.Snakes[i])
		}
	}
	return alive
}

// AliveCount returns how many snakes are still in play.
func (s *GameState) AliveCount() int {
	n := 0
	for i := range s.Snakes {
		if s.Snakes[i].Alive() {
			n++
		}
	}
	return n
}

// Wrapped reports whether the board edges wrap around.
func (s *GameState) Wrapped() bool {
	return s.Config.Variant == "wrapped"
}
