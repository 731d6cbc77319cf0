package game

import "fmt"

// CellFlags is a bit-per-cell-class encoding of what occupies a board cell.
// Food and hazard may coexist with each other and with snake segments.
type CellFlags uint8

const (
	CellBody CellFlags = 1 << iota
	CellHead
	CellFood
	CellHazard
)

func (f CellFlags) HasBody() bool   { return f&CellBody != 0 }
func (f CellFlags) HasHead() bool   { return f&CellHead != 0 }
func (f CellFlags) HasFood() bool   { return f&CellFood != 0 }
func (f CellFlags) HasHazard() bool { return f&CellHazard != 0 }

// CellGrid is a flat, O(1)-lookup cache of cell occupancy derived from a
// GameState. It also owns the geometry contract: bounds checks, wrap
// normalization and neighbor addressing. A grid is a snapshot; it is not
// updated when the state it was built from is replaced.
type CellGrid struct {
	width   int32
	height  int32
	wrapped bool
	cells   []CellFlags
}

// NewCellGrid builds the occupancy cache for a state. Eliminated snakes do
// not occupy cells.
func NewCellGrid(s *GameState) *CellGrid {
	g := &CellGrid{
		width:   s.Width,
		height:  s.Height,
		wrapped: s.Wrapped(),
		cells:   make([]CellFlags, int(s.Width)*int(s.Height)),
	}
	for _, f := range s.Food {
		g.set(f, CellFood)
	}
	for _, h := range s.Hazards {
		g.set(h, CellHazard)
	}
	for i := range s.Snakes {
		snake := &s.Snakes[i]
		if !snake.Alive() {
			continue
		}
		for j, p := range snake.Body {
			if j == 0 {
				g.set(p, CellHead)
			} else {
				g.set(p, CellBody)
			}
		}
	}
	return g
}

func (g *CellGrid) Width() int32  { return g.width }
func (g *CellGrid) Height() int32 { return g.height }

// Contains reports whether p is inside the board bounds. On wrapped boards
// every point is reachable after normalization, but Contains still reports
// raw bounds so callers can distinguish "needs wrapping" from "in range".
func (g *CellGrid) Contains(p Point) bool {
	return p.X >= 0 && p.X < g.width && p.Y >= 0 && p.Y < g.height
}

// Normalize maps p onto the board. On wrapped boards coordinates are taken
// modulo width/height; otherwise it is the identity.
func (g *CellGrid) Normalize(p Point) Point {
	if !g.wrapped {
		return p
	}
	p.X = ((p.X % g.width) + g.width) % g.width
	p.Y = ((p.Y % g.height) + g.height) % g.height
	return p
}

// Neighbor returns the normalized cell adjacent to p in the direction of m.
// On non-wrapped boards the result may be off-board; check Contains.
func (g *CellGrid) Neighbor(p Point, m Move) Point {
	return g.Normalize(p.Moved(m))
}

// Flags returns the occupancy flags at p. Passing an out-of-bounds position
// on a non-wrapped grid is a caller bug: silently clamping it would corrupt
// collision detection, so it panics instead.
func (g *CellGrid) Flags(p Point) CellFlags {
	p = g.Normalize(p)
	if !g.Contains(p) {
		panic(fmt.Sprintf("game: position (%d,%d) outside %dx%d board", p.X, p.Y, g.width, g.height))
	}
	return g.cells[p.Y*g.width+p.X]
}

func (g *CellGrid) set(p Point, f CellFlags) {
	if !g.Contains(p) {
		return
	}
	g.cells[p.Y*g.width+p.X] |= f
}
