// Command playout runs random self-play games through the rules engine and
// archives every turn to Parquet. It exists to soak-test the engine (no
// playout may ever error or violate an invariant) and to generate cheap
// game data.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/brensch/snekrules/game"
	"github.com/brensch/snekrules/rules"
	"github.com/brensch/snekrules/store"
)

var totalTurns atomic.Int64
var totalGames atomic.Int64

type gameUpdate struct {
	WorkerID int
	GameID   string
	Winner   string
	Turns    int32
}

type gameWriteRequest struct {
	rows []store.TurnRow
}

func main() {
	outDir := flag.String("out-dir", "data/playouts", "Output directory for parquet batches")
	workers := flag.Int("workers", 8, "Number of playout workers")
	gamesPerFlush := flag.Int("games-per-flush", 50, "Games to buffer per parquet file")
	maxGames := flag.Int64("max-games", 0, "If > 0, stop after this many games")
	maxTurns := flag.Int("max-turns", 500, "Abort games that run longer than this")
	width := flag.Int("width", 11, "Board width")
	height := flag.Int("height", 11, "Board height")
	snakes := flag.Int("snakes", 2, "Snakes per game (2-8)")
	variant := flag.String("variant", "standard", "Game variant: standard, wrapped, constrictor, royale, squad")
	seed := flag.Int64("seed", 0, "Base RNG seed (0 = time-based)")
	tui := flag.Bool("tui", false, "Show a live terminal dashboard instead of log output")
	flag.Parse()

	if *snakes < 2 || *snakes > 8 {
		log.Fatalf("-snakes must be between 2 and 8, got %d", *snakes)
	}
	baseSeed := *seed
	if baseSeed == 0 {
		baseSeed = time.Now().UnixNano()
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(sigCtx)
	defer cancel()

	if *tui {
		// The dashboard owns the terminal; keep log lines out of it.
		f, err := os.OpenFile("playout.log", os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o666)
		if err != nil {
			log.Fatalf("error opening log file: %v", err)
		}
		defer f.Close()
		log.SetOutput(f)
	}

	log.Printf("Starting playouts: workers=%d board=%dx%d snakes=%d variant=%s seed=%d",
		*workers, *width, *height, *snakes, *variant, baseSeed)

	updates := make(chan gameUpdate, *workers)
	writeReqs := make(chan gameWriteRequest, (*workers)*4)

	writerDone := make(chan struct{})
	go func() {
		parquetWriterLoop(*outDir, *gamesPerFlush, writeReqs)
		close(writerDone)
	}()

	var workerWG sync.WaitGroup
	for i := 0; i < *workers; i++ {
		workerWG.Add(1)
		go func(workerID int) {
			defer workerWG.Done()
			rng := rand.New(rand.NewSource(baseSeed + int64(workerID)))
			cfg := playoutConfig{
				width:    int32(*width),
				height:   int32(*height),
				snakes:   *snakes,
				variant:  *variant,
				maxTurns: int32(*maxTurns),
			}
			for {
				select {
				case <-ctx.Done():
					return
				default:
				}

				rows, result, err := playGame(workerID, rng, cfg)
				if err != nil {
					log.Fatalf("Worker %d: engine error: %v", workerID, err)
				}
				total := totalGames.Add(1)
				if *maxGames > 0 && total >= *maxGames {
					cancel()
				}

				writeReqs <- gameWriteRequest{rows: rows}
				select {
				case updates <- result:
				default:
				}
			}
		}(i)
	}

	if *tui {
		p := tea.NewProgram(initialModel(updates), tea.WithAltScreen())
		go func() {
			<-ctx.Done()
			p.Quit()
		}()
		if _, err := p.Run(); err != nil {
			log.Fatal(err)
		}
		cancel()
	} else {
		runPlain(ctx, updates)
	}

	log.Printf("Shutdown requested; waiting for workers to finish current games...")
	workerWG.Wait()
	close(writeReqs)
	<-writerDone
	log.Printf("Shutdown complete: final parquet flush done (games=%d)", totalGames.Load())
}

// runPlain is the no-TUI loop: log each game and a throughput line per
// second until the context ends.
func runPlain(ctx context.Context, updates <-chan gameUpdate) {
	startTime := time.Now()
	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case u := <-updates:
			log.Printf("Worker %d: %s winner=%s turns=%d", u.WorkerID, u.GameID, u.Winner, u.Turns)
		case <-ticker.C:
			duration := time.Since(startTime)
			turns := totalTurns.Load()
			games := totalGames.Load()
			log.Printf("Stats: games=%d turns=%d turns/s=%.1f", games, turns, float64(turns)/duration.Seconds())
		}
	}
}

type playoutConfig struct {
	width    int32
	height   int32
	snakes   int
	variant  string
	maxTurns int32
}

// playGame runs one random playout to completion, recording one archive row
// per turn with the move each snake took leaving it.
func playGame(workerID int, rng *rand.Rand, cfg playoutConfig) ([]store.TurnRow, gameUpdate, error) {
	gameID := fmt.Sprintf("playout-%d-%d", workerID, time.Now().UnixNano())
	state := createInitialState(rng, cfg)

	var rows []store.TurnRow
	for state.Turn < cfg.maxTurns && !rules.IsGameOver(state) {
		row := store.RowFromState(gameID, "playout", state)
		moves := rules.RandomReasonableMoves(state, rng)
		for i := range row.Snakes {
			if mv, ok := moves[row.Snakes[i].ID]; ok {
				row.Snakes[i].Move = int32(mv.Index())
			}
		}
		rows = append(rows, row)

		next, err := rules.Simulate(state, moves)
		if err != nil {
			return nil, gameUpdate{}, err
		}
		game.ApplyFoodSettings(next, rng, next.Config.Food)
		state = next
		totalTurns.Add(1)
	}
	rows = append(rows, store.RowFromState(gameID, "playout", state))

	winner := "draw"
	if id, ok := rules.Winner(state); ok {
		winner = id
	} else if squad, ok := rules.WinningSquad(state); ok {
		winner = "squad:" + squad
	} else if !rules.IsGameOver(state) {
		winner = "timeout"
	}

	return rows, gameUpdate{WorkerID: workerID, GameID: gameID, Winner: winner, Turns: state.Turn}, nil
}

// startPositions returns spawn cells in the order the real board seeds
// them: corners first, then edge midpoints, all one cell in from the edge.
func startPositions(w, h int32) []game.Point {
	return []game.Point{
		{X: 1, Y: 1}, {X: w - 2, Y: h - 2}, {X: 1, Y: h - 2}, {X: w - 2, Y: 1},
		{X: w / 2, Y: 1}, {X: w / 2, Y: h - 2}, {X: 1, Y: h / 2}, {X: w - 2, Y: h / 2},
	}
}

func createInitialState(rng *rand.Rand, cfg playoutConfig) *game.GameState {
	rulesCfg := game.DefaultConfig()
	rulesCfg.Variant = cfg.variant
	if cfg.variant == "royale" {
		rulesCfg.ShrinkEveryNTurns = 25
		rulesCfg.ShrinkSeed = rng.Uint64()
	}

	state := &game.GameState{
		Width:  cfg.width,
		Height: cfg.height,
		Config: rulesCfg,
	}

	positions := startPositions(cfg.width, cfg.height)
	for i := 0; i < cfg.snakes; i++ {
		// New snakes start as three stacked segments, like the real board.
		spawn := positions[i%len(positions)]
		snake := game.Snake{
			Id:     fmt.Sprintf("snake%d", i+1),
			Health: rulesCfg.StartingHealth,
			Body:   []game.Point{spawn, spawn, spawn},
		}
		if cfg.variant == "squad" {
			snake.Squad = fmt.Sprintf("squad%d", i%2+1)
		}
		state.Snakes = append(state.Snakes, snake)
	}

	// Seed starting food: enforce the minimum only, no random extra.
	game.ApplyFoodSettings(state, rng, game.FoodSettings{MinimumFood: cfg.snakes + 1, FoodSpawnChance: 0})
	return state
}

func parquetWriterLoop(outDir string, gamesPerFlush int, in <-chan gameWriteRequest) {
	if gamesPerFlush <= 0 {
		gamesPerFlush = 50
	}

	writer, err := store.NewBatchWriter(outDir)
	if err != nil {
		log.Fatalf("Failed to open parquet writer: %v", err)
	}

	rotate := func() {
		outPath, rows, games, err := writer.Finalize()
		if err != nil {
			log.Printf("Parquet flush failed: %v", err)
		} else if rows > 0 {
			log.Printf("Parquet flush ok: %s (games=%d rows=%d)", outPath, games, rows)
		}
		writer, err = store.NewBatchWriter(outDir)
		if err != nil {
			log.Fatalf("Failed to reopen parquet writer: %v", err)
		}
	}

	for req := range in {
		if len(req.rows) == 0 {
			continue
		}
		if err := writer.WriteRows(req.rows); err != nil {
			log.Printf("Parquet write failed (rows=%d): %v", len(req.rows), err)
			continue
		}
		if writer.BufferedGames() >= gamesPerFlush {
			rotate()
		}
	}

	if outPath, rows, games, err := writer.Finalize(); err != nil {
		log.Printf("Parquet final flush failed: %v", err)
	} else if rows > 0 {
		log.Printf("Parquet final flush ok: %s (games=%d rows=%d)", outPath, games, rows)
	}
}
