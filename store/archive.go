// Package store persists finished games as Parquet archives: one row per
// turn, nested snake data, zstd compressed. The layout avoids duplicating
// food and hazard cells across snakes and keeps columns dictionary-encoded
// where values repeat.
package store

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress/zstd"

	"github.com/brensch/snekrules/game"
)

// TurnRow is a single (game, turn) snapshot.
//
// Move is the direction each snake took leaving this turn: 0=Up, 1=Down,
// 2=Left, 3=Right, or -1 when unknown (terminal turn, or the snake was
// already out of the game).
type TurnRow struct {
	GameID  string `parquet:"game_id,dict"`
	Turn    int32  `parquet:"turn"`
	Width   int32  `parquet:"width"`
	Height  int32  `parquet:"height"`
	Variant string `parquet:"variant,dict"`

	FoodX []int32 `parquet:"food_x"`
	FoodY []int32 `parquet:"food_y"`

	HazardX []int32 `parquet:"hazard_x"`
	HazardY []int32 `parquet:"hazard_y"`

	Snakes []SnakeRow `parquet:"snakes"`

	Source string `parquet:"source,dict"`
}

type SnakeRow struct {
	ID     string `parquet:"id,dict"`
	Alive  bool   `parquet:"alive"`
	Health int32  `parquet:"health"`
	// Elimination cause name; empty while the snake is alive.
	Eliminated string `parquet:"eliminated,dict"`

	BodyX []int32 `parquet:"body_x"`
	BodyY []int32 `parquet:"body_y"`

	Move int32 `parquet:"move"`
}

const schemaName = "turn_row_v1"

// RowFromState flattens one engine state into a TurnRow. Moves are filled in
// by the caller once the next turn is known.
func RowFromState(gameID, source string, s *game.GameState) TurnRow {
	row := TurnRow{
		GameID:  gameID,
		Turn:    s.Turn,
		Width:   s.Width,
		Height:  s.Height,
		Variant: s.Config.Variant,
		Source:  source,
	}
	row.FoodX, row.FoodY = splitPoints(s.Food)
	row.HazardX, row.HazardY = splitPoints(s.Hazards)
	for i := range s.Snakes {
		snake := &s.Snakes[i]
		sr := SnakeRow{
			ID:     snake.Id,
			Alive:  snake.Alive(),
			Health: snake.Health,
			Move:   -1,
		}
		if !snake.Alive() {
			sr.Eliminated = snake.Eliminated.String()
		}
		sr.BodyX, sr.BodyY = splitPoints(snake.Body)
		row.Snakes = append(row.Snakes, sr)
	}
	return row
}

func splitPoints(ps []game.Point) ([]int32, []int32) {
	if len(ps) == 0 {
		return nil, nil
	}
	xs := make([]int32, len(ps))
	ys := make([]int32, len(ps))
	for i, p := range ps {
		xs[i] = p.X
		ys[i] = p.Y
	}
	return xs, ys
}

// WriteBatchAtomic writes a Parquet file into outDir/tmp and then atomically
// moves it into outDir, so readers never observe partially written files.
func WriteBatchAtomic(outDir string, rows []TurnRow) (string, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	tmpDir := filepath.Join(outDir, "tmp")
	if err := os.MkdirAll(tmpDir, 0o755); err != nil {
		return "", fmt.Errorf("create tmp dir: %w", err)
	}

	name := fmt.Sprintf("batch_%d.parquet", time.Now().UnixNano())
	finalPath := filepath.Join(outDir, name)
	tmpPath := filepath.Join(tmpDir, name+".tmp")
	_ = os.Remove(tmpPath)

	if err := parquet.WriteFile(tmpPath, rows,
		parquet.Compression(&zstd.Codec{Level: zstd.SpeedBetterCompression}),
		parquet.KeyValueMetadata("schema", schemaName),
	); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("write parquet: %w", err)
	}

	if err := os.Rename(tmpPath, finalPath); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("rename parquet: %w", err)
	}

	return finalPath, nil
}

// ReadBatch loads every row from one archive file, mostly for verification
// tools and tests.
func ReadBatch(path string) ([]TurnRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open parquet: %w", err)
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat parquet: %w", err)
	}

	pf, err := parquet.OpenFile(f, st.Size())
	if err != nil {
		return nil, fmt.Errorf("open parquet reader: %w", err)
	}

	reader := parquet.NewGenericReader[TurnRow](pf)
	defer reader.Close()

	out := make([]TurnRow, 0, reader.NumRows())
	buf := make([]TurnRow, 256)
	for {
		n, err := reader.Read(buf)
		out = append(out, buf[:n]...)
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read parquet rows: %w", err)
		}
	}
}
