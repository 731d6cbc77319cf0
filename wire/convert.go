package wire

import (
	"fmt"
	"hash/fnv"

	"github.com/brensch/snekrules/game"
)

// ToState builds an engine state from a decoded request, validating the
// structural guarantees the engine relies on: coordinates in range, unique
// non-empty snake ids, non-empty bodies. The engine itself never validates;
// a request that fails here must not reach it.
func ToState(req *GameRequest) (*game.GameState, error) {
	b := req.Board
	if b.Width <= 0 || b.Height <= 0 {
		return nil, fmt.Errorf("wire: bad board dimensions %dx%d", b.Width, b.Height)
	}

	cfg := configFromGame(req.Game)

	state := &game.GameState{
		Width:   b.Width,
		Height:  b.Height,
		Turn:    req.Turn,
		Config:  cfg,
		Food:    toPoints(b.Food),
		Hazards: toPoints(b.Hazards),
		Snakes:  make([]game.Snake, 0, len(b.Snakes)),
	}

	for _, p := range state.Food {
		if !inRange(p, b.Width, b.Height) {
			return nil, fmt.Errorf("wire: food at (%d,%d) outside %dx%d board", p.X, p.Y, b.Width, b.Height)
		}
	}
	for _, p := range state.Hazards {
		if !inRange(p, b.Width, b.Height) {
			return nil, fmt.Errorf("wire: hazard at (%d,%d) outside %dx%d board", p.X, p.Y, b.Width, b.Height)
		}
	}

	seen := make(map[string]bool, len(b.Snakes))
	for _, s := range b.Snakes {
		if s.ID == "" {
			return nil, fmt.Errorf("wire: snake with empty id")
		}
		if seen[s.ID] {
			return nil, fmt.Errorf("wire: duplicate snake id %q", s.ID)
		}
		seen[s.ID] = true
		if len(s.Body) == 0 {
			return nil, fmt.Errorf("wire: snake %q has empty body", s.ID)
		}
		for _, p := range s.Body {
			if !inRange(game.Point{X: p.X, Y: p.Y}, b.Width, b.Height) {
				return nil, fmt.Errorf("wire: snake %q body at (%d,%d) outside %dx%d board", s.ID, p.X, p.Y, b.Width, b.Height)
			}
		}
		if s.Head != s.Body[0] {
			return nil, fmt.Errorf("wire: snake %q head does not match body[0]", s.ID)
		}

		snake := game.Snake{
			Id:     s.ID,
			Health: s.Health,
			Body:   toPoints(s.Body),
			Squad:  s.Squad,
		}
		if s.Health <= 0 {
			// The API only reports live snakes, but replayed frames can
			// carry dead ones; the cause is not on the wire.
			snake.Eliminated = game.EliminatedByOpponent
		}
		state.Snakes = append(state.Snakes, snake)
	}

	return state, nil
}

// FromState re-encodes an engine state as a wire board, e.g. for responses
// or logging. Eliminated snakes are omitted, matching the API, which only
// lists snakes still in play.
func FromState(s *game.GameState) Board {
	b := Board{
		Width:   s.Width,
		Height:  s.Height,
		Food:    fromPoints(s.Food),
		Hazards: fromPoints(s.Hazards),
		Snakes:  make([]Battlesnake, 0, len(s.Snakes)),
	}
	for i := range s.Snakes {
		snake := &s.Snakes[i]
		if !snake.Alive() {
			continue
		}
		b.Snakes = append(b.Snakes, Battlesnake{
			ID:     snake.Id,
			Health: snake.Health,
			Body:   fromPoints(snake.Body),
			Head:   Position{X: snake.Head().X, Y: snake.Head().Y},
			Length: int32(snake.Length()),
			Squad:  snake.Squad,
		})
	}
	return b
}

func configFromGame(g Game) game.RulesetConfig {
	cfg := game.DefaultConfig()
	if g.Ruleset.Name != "" {
		cfg.Variant = g.Ruleset.Name
	}
	settings := g.Ruleset.Settings
	if settings.HazardDamagePerTurn > 0 {
		cfg.HazardDamagePerTurn = settings.HazardDamagePerTurn
	}
	if settings.MinimumFood > 0 {
		cfg.Food.MinimumFood = int(settings.MinimumFood)
	}
	if settings.FoodSpawnChance > 0 {
		cfg.Food.FoodSpawnChance = int(settings.FoodSpawnChance)
	}
	if settings.Royale.ShrinkEveryNTurns > 0 {
		cfg.ShrinkEveryNTurns = settings.Royale.ShrinkEveryNTurns
	}
	if g.Ruleset.Name == "squad" {
		cfg.SquadAllowBodyCollisions = settings.Squad.AllowBodyCollisions
	}
	// The wire format carries no shrink seed; derive a stable one from the
	// game id so repeated conversions of the same game agree.
	if g.ID != "" {
		h := fnv.New64a()
		h.Write([]byte(g.ID))
		cfg.ShrinkSeed = h.Sum64()
	}
	return cfg
}

func inRange(p game.Point, width, height int32) bool {
	return p.X >= 0 && p.X < width && p.Y >= 0 && p.Y < height
}

func toPoints(ps []Position) []game.Point {
	if len(ps) == 0 {
		return nil
	}
	out := make([]game.Point, len(ps))
	for i, p := range ps {
		out[i] = game.Point{X: p.X, Y: p.Y}
	}
	return out
}

func fromPoints(ps []game.Point) []Position {
	out := make([]Position, len(ps))
	for i, p := range ps {
		out[i] = Position{X: p.X, Y: p.Y}
	}
	return out
}
