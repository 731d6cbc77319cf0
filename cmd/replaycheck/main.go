// Command replaycheck downloads finished games from the public engine and
// replays them through the local rules engine, reporting every place the two
// disagree. It is the end-to-end conformance check: a clean run over real
// games means the move resolution, collision and variant rules match the
// reference engine.
package main

import (
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/brensch/snekrules/discovery"
	"github.com/brensch/snekrules/engine"
	"github.com/brensch/snekrules/game"
	"github.com/brensch/snekrules/rules"
)

func main() {
	gameIDs := flag.String("games", "", "Comma-separated game IDs to check")
	discover := flag.Bool("discover", false, "Crawl the public leaderboards for game IDs")
	maxGames := flag.Int("max-games", 20, "Stop after checking this many games")
	maxPlayers := flag.Int("max-players", 10, "Players to crawl per leaderboard with -discover")
	delay := flag.Duration("delay", 500*time.Millisecond, "Delay between HTTP requests with -discover")
	verbose := flag.Bool("v", false, "Log every checked turn, not just divergences")
	flag.Parse()

	ids := make(chan string, 256)
	go func() {
		defer close(ids)
		for _, id := range strings.Split(*gameIDs, ",") {
			if id = strings.TrimSpace(id); id != "" {
				ids <- id
			}
		}
		if *discover {
			cfg := discovery.DefaultConfig()
			cfg.MaxPlayers = *maxPlayers
			cfg.RequestDelay = *delay
			if err := discovery.NewCrawler(cfg).Crawl(ids); err != nil {
				log.Printf("discovery failed: %v", err)
			}
		}
	}()

	engineCfg := engine.DefaultConfig()

	var checked, clean, diverged, failed int
	for id := range ids {
		if checked >= *maxGames {
			break
		}
		checked++

		replay, err := engine.Download(id, engineCfg)
		if err != nil {
			log.Printf("%s: download failed: %v", id, err)
			failed++
			continue
		}

		divergences, err := checkReplay(replay, *verbose)
		if err != nil {
			log.Printf("%s: %v", id, err)
			failed++
			continue
		}
		if len(divergences) == 0 {
			clean++
			log.Printf("%s: OK (%d turns, variant=%s)", id, len(replay.Turns), replay.Config.Variant)
			continue
		}
		diverged++
		for _, d := range divergences {
			log.Printf("%s: %s", id, d)
		}
	}

	log.Printf("Done: checked=%d clean=%d diverged=%d failed=%d", checked, clean, diverged, failed)
}

// divergence is one disagreement between the local engine and the reference
// engine at a specific turn.
type divergence struct {
	Turn    int32
	SnakeID string
	Detail  string
}

func (d divergence) String() string {
	return fmt.Sprintf("turn %d snake %s: %s", d.Turn, d.SnakeID, d.Detail)
}

// checkReplay re-simulates every turn transition of the replay. Each step
// starts from the real frame (so one divergence does not cascade), infers
// the moves from head displacement, simulates, and compares the result to
// the next real frame.
func checkReplay(replay *engine.Replay, verbose bool) ([]divergence, error) {
	if len(replay.Turns) < 2 {
		return nil, fmt.Errorf("replay too short: %d frames", len(replay.Turns))
	}

	v := rules.VariantFor(replay.Config)
	// Royale replays carry the reference engine's random shrink, which a
	// deterministic re-simulation cannot reproduce; health and starvation
	// are excluded from comparison for those games.
	_, hazardsManaged := v.HazardsForTurn(replay.Turns[0], replay.Turns[0].Turn+1)

	var out []divergence
	for i := 0; i+1 < len(replay.Turns); i++ {
		prev, want := replay.Turns[i], replay.Turns[i+1]

		moves, unverifiable := inferMoves(prev, want)
		got, err := rules.Simulate(prev, moves)
		if err != nil {
			return nil, fmt.Errorf("turn %d: %w", prev.Turn, err)
		}

		for _, d := range compareSnakes(got, want, unverifiable, hazardsManaged) {
			out = append(out, d)
		}
		if verbose {
			log.Printf("%s: checked turn %d -> %d", replay.GameID, prev.Turn, want.Turn)
		}
	}
	return out, nil
}

// inferMoves recovers each living snake's move from its head displacement
// between frames. Snakes whose head did not move (corpses frozen by the
// reference engine) get a placeholder move and are excluded from comparison.
func inferMoves(prev, next *game.GameState) (map[string]game.Move, map[string]bool) {
	moves := make(map[string]game.Move)
	unverifiable := make(map[string]bool)

	for _, s := range prev.AliveSnakes() {
		ns := next.Snake(s.Id)
		if ns == nil || len(ns.Body) == 0 {
			moves[s.Id] = game.MoveUp
			unverifiable[s.Id] = true
			continue
		}
		mv, ok := moveBetween(s.Head(), ns.Head(), prev.Width, prev.Height, prev.Wrapped())
		if !ok {
			moves[s.Id] = game.MoveUp
			unverifiable[s.Id] = true
			continue
		}
		moves[s.Id] = mv
	}
	return moves, unverifiable
}

// moveBetween maps a head displacement onto a move, accounting for wrapped
// boards where a one-step move can jump across the board.
func moveBetween(from, to game.Point, width, height int32, wrapped bool) (game.Move, bool) {
	for _, mv := range game.AllMoves {
		p := from.Moved(mv)
		if wrapped {
			p.X = ((p.X % width) + width) % width
			p.Y = ((p.Y % height) + height) % height
		}
		if p == to {
			return mv, true
		}
	}
	return 0, false
}

func compareSnakes(got, want *game.GameState, unverifiable map[string]bool, hazardsManaged bool) []divergence {
	var out []divergence
	for i := range want.Snakes {
		ws := &want.Snakes[i]
		if unverifiable[ws.Id] {
			continue
		}
		gs := got.Snake(ws.Id)
		if gs == nil {
			out = append(out, divergence{want.Turn, ws.Id, "missing from simulated state"})
			continue
		}

		if gs.Alive() != ws.Alive() {
			// Starvation depends on hazard damage we may not reproduce.
			if hazardsManaged && !ws.Alive() && gs.Alive() {
				continue
			}
			out = append(out, divergence{want.Turn, ws.Id,
				fmt.Sprintf("alive=%v want=%v (cause=%s)", gs.Alive(), ws.Alive(), gs.Eliminated)})
			continue
		}
		if !ws.Alive() {
			// Corpse positions are engine bookkeeping, not rules.
			continue
		}

		if gs.Head() != ws.Head() {
			out = append(out, divergence{want.Turn, ws.Id,
				fmt.Sprintf("head=%v want=%v", gs.Head(), ws.Head())})
		}
		if gs.Length() != ws.Length() {
			out = append(out, divergence{want.Turn, ws.Id,
				fmt.Sprintf("length=%d want=%d", gs.Length(), ws.Length())})
		}
		if !hazardsManaged && gs.Health != ws.Health {
			out = append(out, divergence{want.Turn, ws.Id,
				fmt.Sprintf("health=%d want=%d", gs.Health, ws.Health)})
		}
	}
	return out
}
