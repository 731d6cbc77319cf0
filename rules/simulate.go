package rules

import (
	"errors"
	"fmt"

	"github.com/brensch/snekrules/game"
)

// Contract violations. These are caller bugs, never rule outcomes: rule
// outcomes (starvation, collisions, eliminations) are data on the returned
// state, not errors.
var (
	// ErrMissingMove means a living snake had no entry in the move map and
	// the variant does not allow the continue-straight fallback.
	ErrMissingMove = errors.New("rules: no move provided for living snake")
	// ErrUnknownSnake means the move map names a snake the state does not have.
	ErrUnknownSnake = errors.New("rules: move provided for unknown snake")
)

// Simulate advances the state by one turn given one move per living snake,
// using the variant selected by the state's config. The input state is never
// mutated; the result is a brand-new snapshot with Turn incremented and
// eliminated snakes retained with their elimination cause.
func Simulate(state *game.GameState, moves map[string]game.Move) (*game.GameState, error) {
	return SimulateVariant(state, moves, VariantFor(state.Config))
}

// pendingMove is the phase-1 result for one living snake: where its head
// lands and what it found there.
type pendingMove struct {
	snake    *game.Snake
	newHead  game.Point
	offBoard bool
	ate      bool
}

// SimulateVariant is Simulate with an explicit variant policy.
//
// The turn is resolved in a strict phase order; the ordering is itself a
// correctness invariant (collision rules only make sense relative to it):
// movement, hazard recompute + consumption, starvation, simultaneous
// collision detection, publication.
func SimulateVariant(state *game.GameState, moves map[string]game.Move, v Variant) (*game.GameState, error) {
	for id := range moves {
		if state.Snake(id) == nil {
			return nil, fmt.Errorf("%w: %q", ErrUnknownSnake, id)
		}
	}

	next := cloneShared(state)
	next.Turn = state.Turn + 1

	// Shrinking-hazard variants recompute the footprint once per turn,
	// before consumption, so damage this turn reflects the new footprint.
	if cells, ok := v.HazardsForTurn(next, next.Turn); ok {
		next.Hazards = cells
	}

	// Pre-move occupancy grid: bodies are stale after phase 1, but food and
	// hazard flags are exactly what consumption needs.
	grid := game.NewCellGrid(next)

	// Phase 1: movement. New head per living snake; tail handled below once
	// consumption is known.
	movers := make([]pendingMove, 0, len(next.Snakes))
	for i := range next.Snakes {
		s := &next.Snakes[i]
		if !s.Alive() {
			continue
		}
		mv, ok := moves[s.Id]
		if !ok {
			if !v.MissingMoveFallback() {
				return nil, fmt.Errorf("%w: %q", ErrMissingMove, s.Id)
			}
			mv = straightMove(s)
		}
		newHead := s.Head().Moved(mv)
		if v.Wrapped() {
			newHead = wrapPoint(newHead, next.Width, next.Height)
		}
		movers = append(movers, pendingMove{
			snake:    s,
			newHead:  newHead,
			offBoard: !onBoard(newHead, next.Width, next.Height),
		})
	}

	// Phase 2: consumption. Every snake whose head lands on food eats it,
	// including two snakes meeting head-to-head on a food cell: eating
	// precedes collision judgement, so both grow before lengths compare.
	eaten := make(map[game.Point]bool)
	for i := range movers {
		m := &movers[i]
		if m.offBoard {
			continue
		}
		if grid.Flags(m.newHead).HasFood() {
			m.ate = true
			eaten[m.newHead] = true
		}
	}
	if len(eaten) > 0 {
		kept := make([]game.Point, 0, len(next.Food))
		for _, f := range next.Food {
			if !eaten[f] {
				kept = append(kept, f)
			}
		}
		next.Food = kept
	}

	maxHealth := next.Config.MaxHealth
	if maxHealth <= 0 {
		maxHealth = 100
	}

	for i := range movers {
		m := &movers[i]
		s := m.snake

		body := make([]game.Point, 0, len(s.Body)+1)
		body = append(body, m.newHead)
		body = append(body, s.Body...)
		if !m.ate && !v.AlwaysGrow() {
			// Tail vacates this turn; the cell is passable to everyone,
			// including this snake.
			body = body[:len(body)-1]
		}
		s.Body = body

		switch {
		case v.AlwaysGrow():
			// Constrictor: health never decays, hazards are irrelevant.
			s.Health = maxHealth
		case m.ate:
			s.Health = maxHealth
		default:
			s.Health--
			if !m.offBoard && grid.Flags(m.newHead).HasHazard() {
				s.Health -= next.Config.HazardDamagePerTurn
			}
		}
	}

	// Phase 3: starvation.
	for i := range movers {
		s := movers[i].snake
		if s.Health <= 0 {
			s.Health = 0
			s.Eliminated = game.EliminatedStarved
		}
	}

	// Phase 4: collision detection, simultaneous over the post-move
	// positions of every snake that survived starvation. Eliminations found
	// here do not affect detection for anyone else this turn: all causes
	// are collected first and applied afterwards.
	candidates := movers[:0:0]
	for _, m := range movers {
		if m.snake.Eliminated == game.NotEliminated {
			candidates = append(candidates, m)
		}
	}

	causes := make(map[string]game.EliminationCause)

	// Out of bounds. Wrapped variants normalize in phase 1 and can never be
	// off board here.
	if !v.Wrapped() {
		for _, m := range candidates {
			if m.offBoard {
				causes[m.snake.Id] = game.EliminatedCollidedWall
			}
		}
	}

	// Head into a body segment. Index 0 (the new head) is skipped: two heads
	// on one cell is a head-to-head, judged separately below. A tail cell
	// vacated this turn is already gone from the post-move body.
	for _, m := range candidates {
		if _, done := causes[m.snake.Id]; done || m.offBoard {
			continue
		}
		for _, o := range candidates {
			for _, seg := range o.snake.Body[1:] {
				if seg != m.newHead {
					continue
				}
				if o.snake == m.snake {
					causes[m.snake.Id] = game.EliminatedCollidedSelf
				} else if !v.CollisionExempt(m.snake, o.snake) {
					causes[m.snake.Id] = game.EliminatedCollidedOther
				}
			}
			if _, done := causes[m.snake.Id]; done {
				break
			}
		}
	}

	// Head-to-head. A snake loses to any non-exempt snake on the same cell
	// whose resulting length is at least its own, so the unique strictly
	// longest snake survives and equal lengths are a mutual kill.
	for _, m := range candidates {
		if _, done := causes[m.snake.Id]; done || m.offBoard {
			continue
		}
		for _, o := range candidates {
			if o.snake == m.snake || o.offBoard || o.newHead != m.newHead {
				continue
			}
			if v.CollisionExempt(m.snake, o.snake) {
				continue
			}
			if o.snake.Length() >= m.snake.Length() {
				causes[m.snake.Id] = game.EliminatedCollidedOther
				break
			}
		}
	}

	for i := range next.Snakes {
		if cause, ok := causes[next.Snakes[i].Id]; ok {
			next.Snakes[i].Eliminated = cause
		}
	}

	// Phase 5 (terminal evaluation) is derived: IsGameOver and Winner are
	// pure functions of the published state, so once terminal, further
	// simulation cannot change the outcome.
	return next, nil
}

// cloneShared copies the state with structural sharing: slices that this
// turn replaces wholesale (snake bodies, food on consumption, hazards on
// recompute) stay shared with the input and are never written in place.
// Search trees forking many children off one parent pay only for the snake
// headers, not the whole board.
func cloneShared(s *game.GameState) *game.GameState {
	next := *s
	next.Snakes = append([]game.Snake(nil), s.Snakes...)
	return &next
}

// straightMove continues in the direction the snake last moved. Snakes with
// no discernible direction (single stacked cell at game start) default up.
func straightMove(s *game.Snake) game.Move {
	if len(s.Body) < 2 {
		return game.MoveUp
	}
	head, neck := s.Body[0], s.Body[1]
	switch {
	case head.X > neck.X:
		return game.MoveRight
	case head.X < neck.X:
		return game.MoveLeft
	case head.Y > neck.Y:
		return game.MoveUp
	case head.Y < neck.Y:
		return game.MoveDown
	default:
		return game.MoveUp
	}
}

func wrapPoint(p game.Point, width, height int32) game.Point {
	p.X = ((p.X % width) + width) % width
	p.Y = ((p.Y % height) + height) % height
	return p
}

func onBoard(p game.Point, width, height int32) bool {
	return p.X >= 0 && p.X < width && p.Y >= 0 && p.Y < height
}
