// Package engine streams finished games from the public Battlesnake engine
// over its per-game WebSocket event feed.
package engine

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/gorilla/websocket"

	"github.com/brensch/snekrules/game"
)

// Config holds connection settings for the engine feed.
type Config struct {
	// EngineURL is a WebSocket URL template with one %s for the game ID.
	EngineURL      string
	ConnectTimeout time.Duration
	ReadTimeout    time.Duration
}

// DefaultConfig returns the public engine endpoint with conservative
// timeouts.
func DefaultConfig() Config {
	return Config{
		EngineURL:      "wss://engine.battlesnake.com/games/%s/events",
		ConnectTimeout: 10 * time.Second,
		ReadTimeout:    30 * time.Second,
	}
}

// event is the envelope every message on the feed uses.
type event struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// gameInfo is the payload of the first event on the feed.
type gameInfo struct {
	Game struct {
		ID      string `json:"id"`
		Timeout int    `json:"timeout"`
	} `json:"game"`
	Ruleset struct {
		Name     string `json:"name"`
		Version  string `json:"version"`
		Settings struct {
			FoodSpawnChance     int32 `json:"foodSpawnChance"`
			MinimumFood         int32 `json:"minimumFood"`
			HazardDamagePerTurn int32 `json:"hazardDamagePerTurn"`
			Royale              struct {
				ShrinkEveryNTurns int32 `json:"shrinkEveryNTurns"`
			} `json:"royale"`
			Squad struct {
				AllowBodyCollisions bool `json:"allowBodyCollisions"`
			} `json:"squad"`
		} `json:"settings"`
	} `json:"ruleset"`
	Map    string `json:"map"`
	Width  int32  `json:"width"`
	Height int32  `json:"height"`
}

type coord struct {
	X int32 `json:"x"`
	Y int32 `json:"y"`
}

type frameSnake struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Health int32   `json:"health"`
	Body   []coord `json:"body"`
	Squad  string  `json:"squad"`
	Death  *struct {
		Cause string `json:"cause"`
		Turn  int32  `json:"turn"`
	} `json:"death"`
}

type frameData struct {
	Turn    int32        `json:"turn"`
	Snakes  []frameSnake `json:"snakes"`
	Food    []coord      `json:"food"`
	Hazards []coord      `json:"hazards"`
	Board   struct {
		Width  int32 `json:"width"`
		Height int32 `json:"height"`
	} `json:"board"`
}

// Replay is a complete downloaded game: the ruleset and one engine state per
// turn, in turn order.
type Replay struct {
	GameID string
	Config game.RulesetConfig
	Turns  []*game.GameState
}

// Download connects to the game's event feed and collects every frame until
// the engine closes the stream or the read deadline hits after partial data.
func Download(gameID string, cfg Config) (*Replay, error) {
	url := fmt.Sprintf(cfg.EngineURL, gameID)

	dialer := websocket.Dialer{HandshakeTimeout: cfg.ConnectTimeout}
	conn, _, err := dialer.Dial(url, nil)
	if err != nil {
		return nil, fmt.Errorf("engine: connect %s: %w", gameID, err)
	}
	defer conn.Close()

	var info gameInfo
	var frames []frameData

loop:
	for {
		conn.SetReadDeadline(time.Now().Add(cfg.ReadTimeout))

		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				break
			}
			if len(frames) > 0 {
				// The stream stalled after real data; keep what we have.
				break
			}
			return nil, fmt.Errorf("engine: read %s: %w", gameID, err)
		}

		var ev event
		if err := json.Unmarshal(message, &ev); err != nil {
			log.Printf("engine: skipping unparseable event on %s: %v", gameID, err)
			continue
		}

		switch ev.Type {
		case "game_info":
			if err := json.Unmarshal(ev.Data, &info); err != nil {
				return nil, fmt.Errorf("engine: parse game_info for %s: %w", gameID, err)
			}
		case "frame":
			var f frameData
			if err := json.Unmarshal(ev.Data, &f); err != nil {
				log.Printf("engine: skipping unparseable frame on %s: %v", gameID, err)
				continue
			}
			frames = append(frames, f)
		case "game_end":
			break loop
		}
	}

	if len(frames) == 0 {
		return nil, fmt.Errorf("engine: no frames for %s", gameID)
	}
	// Board dimensions arrive on game_info or, on older feeds, per frame.
	if info.Width <= 0 || info.Height <= 0 {
		info.Width = frames[0].Board.Width
		info.Height = frames[0].Board.Height
	}
	if info.Width <= 0 || info.Height <= 0 {
		return nil, fmt.Errorf("engine: missing board dimensions for %s", gameID)
	}

	return buildReplay(gameID, info, frames), nil
}

func buildReplay(gameID string, info gameInfo, frames []frameData) *Replay {
	cfg := game.DefaultConfig()
	if info.Ruleset.Name != "" {
		cfg.Variant = info.Ruleset.Name
	}
	s := info.Ruleset.Settings
	if s.HazardDamagePerTurn > 0 {
		cfg.HazardDamagePerTurn = s.HazardDamagePerTurn
	}
	if s.MinimumFood > 0 {
		cfg.Food.MinimumFood = int(s.MinimumFood)
	}
	if s.FoodSpawnChance > 0 {
		cfg.Food.FoodSpawnChance = int(s.FoodSpawnChance)
	}
	if s.Royale.ShrinkEveryNTurns > 0 {
		cfg.ShrinkEveryNTurns = s.Royale.ShrinkEveryNTurns
	}
	if info.Ruleset.Name == "squad" {
		cfg.SquadAllowBodyCollisions = s.Squad.AllowBodyCollisions
	}

	replay := &Replay{GameID: gameID, Config: cfg}
	for _, f := range frames {
		replay.Turns = append(replay.Turns, stateFromFrame(info, cfg, f))
	}
	return replay
}

func stateFromFrame(info gameInfo, cfg game.RulesetConfig, f frameData) *game.GameState {
	state := &game.GameState{
		Width:   info.Width,
		Height:  info.Height,
		Turn:    f.Turn,
		Config:  cfg,
		Food:    coordsToPoints(f.Food),
		Hazards: coordsToPoints(f.Hazards),
	}
	for _, s := range f.Snakes {
		snake := game.Snake{
			Id:     s.ID,
			Health: s.Health,
			Body:   coordsToPoints(s.Body),
			Squad:  s.Squad,
		}
		if s.Death != nil {
			snake.Health = 0
			snake.Eliminated = eliminationFromCause(s.Death.Cause)
		}
		state.Snakes = append(state.Snakes, snake)
	}
	return state
}

// eliminationFromCause maps the engine's death cause strings onto the
// engine-internal causes.
func eliminationFromCause(cause string) game.EliminationCause {
	switch cause {
	case "snake-self-collision":
		return game.EliminatedCollidedSelf
	case "snake-collision", "head-collision":
		return game.EliminatedCollidedOther
	case "wall-collision":
		return game.EliminatedCollidedWall
	case "out-of-health", "starvation", "hazard":
		return game.EliminatedStarved
	default:
		return game.EliminatedByOpponent
	}
}

func coordsToPoints(cs []coord) []game.Point {
	if len(cs) == 0 {
		return nil
	}
	out := make([]game.Point, len(cs))
	for i, c := range cs {
		out[i] = game.Point{X: c.X, Y: c.Y}
	}
	return out
}
