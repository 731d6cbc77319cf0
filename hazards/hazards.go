// Package hazards implements hazard placement algorithms for Battlesnake
// game modes whose hazard footprint changes over time.
//
// Two styles exist. Forward-only algorithms (Spiral) are wound a turn at a
// time after observing the seed from real game frames. Schedule algorithms
// (RingShrink) are pure functions of the turn number, which is what the
// rules engine needs to recompute the hazard footprint during simulation.
package hazards

import (
	"errors"

	"github.com/brensch/snekrules/game"
)

// Algorithm is a hazard generator that can only be wound forward one turn at
// a time. Call Observe with successive frames until ReadyForInc reports
// true, then call IncTurn once per turn to collect newly created hazards.
type Algorithm interface {
	Observe(state *game.GameState) ([]game.Point, error)
	ReadyForInc() bool
	IncTurn() []game.Point
	CurrentTurn() int32
}

// Noop is an Algorithm that never produces hazards.
type Noop struct{}

func (Noop) Observe(*game.GameState) ([]game.Point, error) { return nil, nil }
func (Noop) ReadyForInc() bool                             { return false }
func (Noop) IncTurn() []game.Point                         { return nil }
func (Noop) CurrentTurn() int32                            { return 0 }

// Spiral grows an odd-square spiral of hazards out from a seed cell, adding
// one cell every hazardEveryTurns turns. The seed is learned by observing
// the first frame that contains exactly one hazard.
type Spiral struct {
	hazardEveryTurns int32
	seedCell         game.Point
	firstTurnSeen    int32
	currentTurn      int32
	nextHazardCell   game.Point
	direction        game.Move
}

// NewSpiral returns an uninitialized spiral; feed it frames via Observe.
func NewSpiral() *Spiral {
	return &Spiral{direction: game.MoveUp}
}

// Observe watches frames until the seed cell appears (usually turn 3). Once
// ReadyForInc reports true, stop observing and use IncTurn.
func (s *Spiral) Observe(state *game.GameState) ([]game.Point, error) {
	if s.ReadyForInc() {
		return nil, errors.New("hazards: spiral already seeded")
	}
	if len(state.Hazards) > 1 {
		return nil, errors.New("hazards: missed the spiral seed")
	}
	if len(state.Hazards) == 1 {
		s.seedCell = state.Hazards[0]
		// The payload carries no cadence today; the spiral map always uses 3.
		s.hazardEveryTurns = 3
		s.firstTurnSeen = state.Turn
		s.currentTurn = state.Turn
		s.nextHazardCell = s.seedCell.Moved(game.MoveUp)
		s.direction = game.MoveRight
		return []game.Point{s.seedCell}, nil
	}
	return nil, nil
}

func (s *Spiral) ReadyForInc() bool {
	return s.firstTurnSeen != 0
}

func (s *Spiral) CurrentTurn() int32 {
	return s.currentTurn
}

// IncTurn winds the spiral forward one turn, returning any hazard created on
// that turn.
func (s *Spiral) IncTurn() []game.Point {
	s.currentTurn++
	if s.currentTurn%s.hazardEveryTurns != 0 {
		return nil
	}

	turnsElapsed := s.currentTurn - s.firstTurnSeen
	// Plus 1 because the seed cell counts as the first spawn.
	spawnsElapsed := turnsElapsed/s.hazardEveryTurns + 1
	nextSquare := nextPerfectOddSquare(spawnsElapsed)
	radius := isqrt(nextSquare) / 2
	result := s.nextHazardCell
	s.nextHazardCell = s.nextHazardCell.Moved(s.direction)

	dx := s.nextHazardCell.X - s.seedCell.X
	dy := s.nextHazardCell.Y - s.seedCell.Y
	switch {
	case dx == radius && dy == radius:
		s.direction = game.MoveDown
	case dx == radius && dy == -radius:
		s.direction = game.MoveLeft
	case dx == -radius && dy == -radius:
		s.direction = game.MoveUp
	case dx == -radius && dy == radius:
		s.direction = game.MoveUp
	}
	if isPerfectOddSquare(spawnsElapsed) {
		s.direction = game.MoveRight
	}

	return []game.Point{result}
}

// The spiral forms odd squares: 1, then 3x3, then 5x5, never an even square.
func nextPerfectOddSquare(n int32) int32 {
	base := isqrt(n)
	next := base + 1
	if next%2 == 0 {
		next++
	}
	return next * next
}

func isPerfectOddSquare(n int32) bool {
	r := isqrt(n)
	return r*r == n && r%2 == 1
}

func isqrt(n int32) int32 {
	if n < 0 {
		return 0
	}
	var r int32
	for (r+1)*(r+1) <= n {
		r++
	}
	return r
}
