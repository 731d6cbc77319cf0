// Package rules implements the deterministic move-resolution engine for
// Battlesnake states, the variant policies it consults, and read-only
// queries over states.
//
// The engine is purely functional: Simulate takes one state and produces a
// new one without mutating its input, so any number of goroutines may walk
// independent branches of a search tree concurrently with no locking.
package rules

import (
	"github.com/brensch/snekrules/game"
	"github.com/brensch/snekrules/hazards"
)

// Variant is the pluggable policy the resolution engine consults instead of
// branching on ruleset identity. Implementations are immutable values and
// safe to share between concurrent simulations. Adding a new game mode means
// adding a new Variant, not touching Simulate.
type Variant interface {
	Name() string

	// Wrapped reports whether board edges wrap around (no wall collisions).
	Wrapped() bool

	// AlwaysGrow reports constrictor growth: the tail is retained every
	// turn and health never decays.
	AlwaysGrow() bool

	// MissingMoveFallback reports whether a living snake with no entry in
	// the move map continues straight instead of failing the call. No
	// built-in variant enables this; it exists for custom policies passed
	// to SimulateVariant.
	MissingMoveFallback() bool

	// CollisionExempt reports whether mover hitting target's body (or head)
	// is exempt from elimination, e.g. squad teammates.
	CollisionExempt(mover, target *game.Snake) bool

	// HazardsForTurn returns the recomputed hazard footprint for the given
	// turn. ok is false for variants whose hazards are static, in which
	// case the state's existing hazards are kept.
	HazardsForTurn(s *game.GameState, turn int32) (cells []game.Point, ok bool)
}

// VariantFor selects the policy for a ruleset config. Unknown names fall
// back to standard rules, matching the public engine's behavior for custom
// ruleset names.
func VariantFor(cfg game.RulesetConfig) Variant {
	switch cfg.Variant {
	case "wrapped":
		return Wrapped{}
	case "constrictor":
		return Constrictor{}
	case "royale":
		return Royale{Shrink: hazards.RingShrink{
			EveryNTurns: cfg.ShrinkEveryNTurns,
			Seed:        cfg.ShrinkSeed,
		}}
	case "squad":
		return Squad{AllowBodyCollisions: cfg.SquadAllowBodyCollisions}
	default:
		return Standard{}
	}
}

// Standard is the default bounded-board ruleset.
type Standard struct{}

func (Standard) Name() string                                            { return "standard" }
func (Standard) Wrapped() bool                                           { return false }
func (Standard) AlwaysGrow() bool                                        { return false }
func (Standard) MissingMoveFallback() bool                               { return false }
func (Standard) CollisionExempt(_, _ *game.Snake) bool                   { return false }
func (Standard) HazardsForTurn(*game.GameState, int32) ([]game.Point, bool) { return nil, false }

// Wrapped is standard rules on a torus: moving off one edge re-enters on the
// opposite edge and walls cannot eliminate.
type Wrapped struct{}

func (Wrapped) Name() string                                            { return "wrapped" }
func (Wrapped) Wrapped() bool                                           { return true }
func (Wrapped) AlwaysGrow() bool                                        { return false }
func (Wrapped) MissingMoveFallback() bool                               { return false }
func (Wrapped) CollisionExempt(_, _ *game.Snake) bool                   { return false }
func (Wrapped) HazardsForTurn(*game.GameState, int32) ([]game.Point, bool) { return nil, false }

// Constrictor pins health at max and grows every snake every turn, so length
// only ever increases and starvation is impossible.
type Constrictor struct{}

func (Constrictor) Name() string                                            { return "constrictor" }
func (Constrictor) Wrapped() bool                                           { return false }
func (Constrictor) AlwaysGrow() bool                                        { return true }
func (Constrictor) MissingMoveFallback() bool                               { return false }
func (Constrictor) CollisionExempt(_, _ *game.Snake) bool                   { return false }
func (Constrictor) HazardsForTurn(*game.GameState, int32) ([]game.Point, bool) { return nil, false }

// Royale is standard rules plus a shrinking safe area: the hazard footprint
// is a deterministic schedule over the turn number, recomputed once per
// simulated turn.
type Royale struct {
	Shrink hazards.RingShrink
}

func (Royale) Name() string                          { return "royale" }
func (Royale) Wrapped() bool                         { return false }
func (Royale) AlwaysGrow() bool                      { return false }
func (Royale) MissingMoveFallback() bool             { return false }
func (Royale) CollisionExempt(_, _ *game.Snake) bool { return false }

func (r Royale) HazardsForTurn(s *game.GameState, turn int32) ([]game.Point, bool) {
	if r.Shrink.EveryNTurns <= 0 {
		return nil, false
	}
	return r.Shrink.HazardsAtTurn(s.Width, s.Height, turn), true
}

// Squad is team play: a team stays in the game while any member survives,
// and when AllowBodyCollisions is set (the public engine's default) snakes
// sharing a squad id never eliminate each other by body collision or
// head-to-head.
type Squad struct {
	AllowBodyCollisions bool
}

func (Squad) Name() string              { return "squad" }
func (Squad) Wrapped() bool             { return false }
func (Squad) AlwaysGrow() bool          { return false }
func (Squad) MissingMoveFallback() bool { return false }

func (v Squad) CollisionExempt(mover, target *game.Snake) bool {
	return v.AllowBodyCollisions && mover.Squad != "" && mover.Squad == target.Squad && mover.Id != target.Id
}

func (Squad) HazardsForTurn(*game.GameState, int32) ([]game.Point, bool) { return nil, false }
