// Package wire holds the JSON types of the public Battlesnake API and the
// conversions between them and the engine's game.GameState. The engine never
// sees these types: callers decode a request here, convert once, and hand
// the resulting state to the rules package.
package wire

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Position is a board coordinate on the wire.
type Position struct {
	X int32 `json:"x"`
	Y int32 `json:"y"`
}

// Battlesnake matches the `battlesnake` object from the API.
type Battlesnake struct {
	ID      string     `json:"id"`
	Name    string     `json:"name"`
	Health  int32      `json:"health"`
	Body    []Position `json:"body"`
	Head    Position   `json:"head"`
	Length  int32      `json:"length"`
	Latency string     `json:"latency,omitempty"`
	Shout   string     `json:"shout,omitempty"`
	Squad   string     `json:"squad,omitempty"`
}

// Board matches the `board` object from the API.
type Board struct {
	Height  int32         `json:"height"`
	Width   int32         `json:"width"`
	Food    []Position    `json:"food"`
	Hazards []Position    `json:"hazards"`
	Snakes  []Battlesnake `json:"snakes"`
}

// Ruleset identifies the game mode and its knobs.
type Ruleset struct {
	Name     string          `json:"name"`
	Version  string          `json:"version"`
	Settings RulesetSettings `json:"settings"`
}

// RulesetSettings matches the server's configurable rule values.
type RulesetSettings struct {
	FoodSpawnChance     int32          `json:"foodSpawnChance"`
	MinimumFood         int32          `json:"minimumFood"`
	HazardDamagePerTurn int32          `json:"hazardDamagePerTurn"`
	Royale              RoyaleSettings `json:"royale"`
	Squad               SquadSettings  `json:"squad"`
}

// RoyaleSettings holds the royale shrink cadence.
type RoyaleSettings struct {
	ShrinkEveryNTurns int32 `json:"shrinkEveryNTurns"`
}

// SquadSettings holds the squad-mode rule toggles. AllowBodyCollisions feeds
// the teammate collision exemption; the shared-* toggles are carried for
// round-tripping but have no effect on simulation.
type SquadSettings struct {
	AllowBodyCollisions bool `json:"allowBodyCollisions"`
	SharedElimination   bool `json:"sharedElimination"`
	SharedHealth        bool `json:"sharedHealth"`
	SharedLength        bool `json:"sharedLength"`
}

// Game matches the nested `game` object from the API.
type Game struct {
	ID      string  `json:"id"`
	Ruleset Ruleset `json:"ruleset"`
	Map     string  `json:"map,omitempty"`
	Timeout int32   `json:"timeout"`
	Source  string  `json:"source,omitempty"`
}

// GameRequest is the root object of start, move, and end requests.
type GameRequest struct {
	Game  Game        `json:"game"`
	Turn  int32       `json:"turn"`
	Board Board       `json:"board"`
	You   Battlesnake `json:"you"`
}

// Decode reads one GameRequest from r.
func Decode(r io.Reader) (*GameRequest, error) {
	var req GameRequest
	if err := json.NewDecoder(r).Decode(&req); err != nil {
		return nil, fmt.Errorf("wire: decoding game request: %w", err)
	}
	return &req, nil
}

// DecodeBytes parses one GameRequest from a JSON document.
func DecodeBytes(b []byte) (*GameRequest, error) {
	return Decode(strings.NewReader(string(b)))
}

// Encode writes the request as JSON to w.
func (g *GameRequest) Encode(w io.Writer) error {
	if err := json.NewEncoder(w).Encode(g); err != nil {
		return fmt.Errorf("wire: encoding game request: %w", err)
	}
	return nil
}

// String renders the board for debugging: food as f, heads as H, bodies as
// s, hazards as x, top row printed first.
func (b Board) String() string {
	var sb strings.Builder
	sb.WriteByte('\n')
	for i := int32(0); i < b.Height; i++ {
		y := b.Height - i - 1
		for x := int32(0); x < b.Width; x++ {
			p := Position{X: x, Y: y}
			switch {
			case containsPosition(b.Food, p):
				sb.WriteByte('f')
			case b.anyHead(p):
				sb.WriteByte('H')
			case b.anyBody(p):
				sb.WriteByte('s')
			case containsPosition(b.Hazards, p):
				sb.WriteByte('x')
			default:
				sb.WriteByte('.')
			}
			sb.WriteByte(' ')
		}
		sb.WriteByte('\n')
	}
	for _, s := range b.Snakes {
		fmt.Fprintf(&sb, "(%s health: %d head: (%d,%d)) ", s.ID, s.Health, s.Head.X, s.Head.Y)
	}
	return sb.String()
}

func (b Board) anyHead(p Position) bool {
	for _, s := range b.Snakes {
		if s.Head == p {
			return true
		}
	}
	return false
}

func (b Board) anyBody(p Position) bool {
	for _, s := range b.Snakes {
		for _, seg := range s.Body {
			if seg == p {
				return true
			}
		}
	}
	return false
}

func containsPosition(ps []Position, p Position) bool {
	for _, q := range ps {
		if q == p {
			return true
		}
	}
	return false
}
