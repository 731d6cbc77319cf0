package hazards

import "github.com/brensch/snekrules/game"

// RingShrink is the royale hazard schedule: every EveryNTurns turns one edge
// of the safe area is chosen and sacrificed to hazard. The real engine picks
// the edge randomly per game; here the choice is a pure function of Seed and
// the shrink ordinal, so the footprint for any turn can be recomputed
// deterministically during simulation.
type RingShrink struct {
	EveryNTurns int32
	Seed        uint64
}

type edge int

const (
	edgeLeft edge = iota
	edgeRight
	edgeBottom
	edgeTop
)

// HazardsAtTurn returns every hazard cell present on the given turn, in row
// major order. When the safe area has shrunk to nothing the whole board is
// hazard.
func (r RingShrink) HazardsAtTurn(width, height, turn int32) []game.Point {
	if r.EveryNTurns <= 0 || turn < r.EveryNTurns {
		return nil
	}

	// Safe area bounds, inclusive.
	minX, maxX := int32(0), width-1
	minY, maxY := int32(0), height-1

	shrinks := turn / r.EveryNTurns
	for i := int32(1); i <= shrinks; i++ {
		switch r.edgeFor(i) {
		case edgeLeft:
			if minX <= maxX {
				minX++
			}
		case edgeRight:
			if minX <= maxX {
				maxX--
			}
		case edgeBottom:
			if minY <= maxY {
				minY++
			}
		case edgeTop:
			if minY <= maxY {
				maxY--
			}
		}
	}

	var out []game.Point
	for y := int32(0); y < height; y++ {
		for x := int32(0); x < width; x++ {
			if x < minX || x > maxX || y < minY || y > maxY {
				out = append(out, game.Point{X: x, Y: y})
			}
		}
	}
	return out
}

func (r RingShrink) edgeFor(ordinal int32) edge {
	// Variant of splitmix64, same mixer the food spawner uses.
	x := r.Seed + uint64(ordinal)*0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	x ^= x >> 31
	return edge(x % 4)
}
