package rules

import (
	"math/rand"

	"github.com/brensch/snekrules/game"
)

// IsGameOver reports whether no further simulation can change the outcome.
// Multi-snake games end when at most one side (snake, or squad in team play)
// remains alive; single-snake games end only when that snake is eliminated.
func IsGameOver(state *game.GameState) bool {
	if len(state.Snakes) == 0 {
		return true
	}
	if len(state.Snakes) == 1 {
		return state.AliveCount() == 0
	}
	return aliveSides(state) <= 1
}

// Winner returns the id of the sole surviving snake once the game is over.
// ok is false while the game is running and for draws (zero survivors, or a
// squad win with several teammates alive; see WinningSquad).
func Winner(state *game.GameState) (string, bool) {
	if !IsGameOver(state) {
		return "", false
	}
	alive := state.AliveSnakes()
	if len(alive) != 1 {
		return "", false
	}
	return alive[0].Id, true
}

// WinningSquad returns the squad that swept the board in team play: the game
// is over and every surviving snake shares one non-empty squad id.
func WinningSquad(state *game.GameState) (string, bool) {
	if !IsGameOver(state) {
		return "", false
	}
	alive := state.AliveSnakes()
	if len(alive) == 0 || alive[0].Squad == "" {
		return "", false
	}
	squad := alive[0].Squad
	for _, s := range alive[1:] {
		if s.Squad != squad {
			return "", false
		}
	}
	return squad, true
}

// aliveSides counts the distinct surviving sides: snakes with a squad id
// count once per squad, everyone else counts individually.
func aliveSides(state *game.GameState) int {
	sides := 0
	seenSquads := make(map[string]bool)
	for i := range state.Snakes {
		s := &state.Snakes[i]
		if !s.Alive() {
			continue
		}
		if s.Squad == "" {
			sides++
			continue
		}
		if !seenSquads[s.Squad] {
			seenSquads[s.Squad] = true
			sides++
		}
	}
	return sides
}

// Health returns the remaining health for a snake id.
func Health(state *game.GameState, id string) (int32, bool) {
	s := state.Snake(id)
	if s == nil {
		return 0, false
	}
	return s.Health, true
}

// MoveIsLethal runs a single-snake lookahead (movement, consumption,
// starvation and collision) for one move against the frozen rest of the
// board. It is conservative about other snakes' tails: they are treated as
// occupied because whether they vacate depends on moves we are not
// simulating.
func MoveIsLethal(state *game.GameState, id string, mv game.Move) bool {
	return moveIsLethalVariant(state, id, mv, VariantFor(state.Config))
}

func moveIsLethalVariant(state *game.GameState, id string, mv game.Move, v Variant) bool {
	me := state.Snake(id)
	if me == nil || !me.Alive() {
		return true
	}

	newHead := me.Head().Moved(mv)
	if v.Wrapped() {
		newHead = wrapPoint(newHead, state.Width, state.Height)
	} else if !onBoard(newHead, state.Width, state.Height) {
		return true
	}

	grid := game.NewCellGrid(state)
	flags := grid.Flags(newHead)

	// Health after the step.
	if !flags.HasFood() && !v.AlwaysGrow() {
		health := me.Health - 1
		if flags.HasHazard() {
			health -= state.Config.HazardDamagePerTurn
		}
		if health <= 0 {
			return true
		}
	}

	// Own body, post-move: the tail vacates unless this snake is growing.
	myBody := me.Body
	if !flags.HasFood() && !v.AlwaysGrow() && len(myBody) > 0 {
		myBody = myBody[:len(myBody)-1]
	}
	for _, seg := range myBody {
		if seg == newHead {
			return true
		}
	}

	// Everyone else is frozen in place.
	for i := range state.Snakes {
		other := &state.Snakes[i]
		if other.Id == id || !other.Alive() || v.CollisionExempt(me, other) {
			continue
		}
		for _, seg := range other.Body {
			if seg == newHead {
				return true
			}
		}
	}

	return false
}

// LegalMoves returns the moves that do not lead to an immediate death for
// the given snake. The result can be empty when the snake is boxed in.
func LegalMoves(state *game.GameState, id string) []game.Move {
	me := state.Snake(id)
	if me == nil || !me.Alive() {
		return nil
	}
	v := VariantFor(state.Config)
	moves := make([]game.Move, 0, game.NumMoves)
	for _, mv := range game.AllMoves {
		if !moveIsLethalVariant(state, id, mv, v) {
			moves = append(moves, mv)
		}
	}
	return moves
}

// ReasonableMoves returns the legal moves for every living snake. A boxed-in
// snake gets a single arbitrary move so the caller can always build a full
// move map for Simulate.
func ReasonableMoves(state *game.GameState) map[string][]game.Move {
	out := make(map[string][]game.Move)
	for _, s := range state.AliveSnakes() {
		moves := LegalMoves(state, s.Id)
		if len(moves) == 0 {
			moves = []game.Move{game.MoveUp}
		}
		out[s.Id] = moves
	}
	return out
}

// RandomReasonableMoves picks one random legal move per living snake,
// suitable for playout rollouts. If rng is nil the first legal move is used.
func RandomReasonableMoves(state *game.GameState, rng *rand.Rand) map[string]game.Move {
	out := make(map[string]game.Move)
	for id, moves := range ReasonableMoves(state) {
		if rng != nil {
			out[id] = moves[rng.Intn(len(moves))]
		} else {
			out[id] = moves[0]
		}
	}
	return out
}
