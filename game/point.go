package game

// Point is a board coordinate.
// Coordinates follow Battlesnake conventions: (0,0) is bottom-left.
type Point struct {
	X int32
	Y int32
}

// Move is one of the four cardinal directions a snake can travel in a turn.
type Move int8

const (
	MoveUp Move = iota
	MoveDown
	MoveLeft
	MoveRight
)

// NumMoves is the number of distinct moves.
const NumMoves = 4

// AllMoves lists every move in index order (see Move.Index).
var AllMoves = [NumMoves]Move{MoveUp, MoveDown, MoveLeft, MoveRight}

var moveNames = [NumMoves]string{"up", "down", "left", "right"}

func (m Move) String() string {
	if m < 0 || int(m) >= NumMoves {
		return "invalid"
	}
	return moveNames[m]
}

// Index returns the position of m in AllMoves.
func (m Move) Index() int { return int(m) }

// Vector returns the unit offset for the move.
func (m Move) Vector() Point {
	switch m {
	case MoveUp:
		return Point{X: 0, Y: 1}
	case MoveDown:
		return Point{X: 0, Y: -1}
	case MoveLeft:
		return Point{X: -1, Y: 0}
	default:
		return Point{X: 1, Y: 0}
	}
}

// Opposite returns the reverse direction, e.g. up <-> down.
func (m Move) Opposite() Move {
	switch m {
	case MoveUp:
		return MoveDown
	case MoveDown:
		return MoveUp
	case MoveLeft:
		return MoveRight
	default:
		return MoveLeft
	}
}

// ParseMove converts the wire spelling ("up", "down", ...) to a Move.
func ParseMove(s string) (Move, bool) {
	for i, name := range moveNames {
		if name == s {
			return Move(i), true
		}
	}
	return 0, false
}

// Add returns p offset by v.
func (p Point) Add(v Point) Point {
	return Point{X: p.X + v.X, Y: p.Y + v.Y}
}

// Moved returns the neighboring point in the direction of m, without
// normalization. Use CellGrid.Neighbor for wrap-aware movement.
func (p Point) Moved(m Move) Point {
	return p.Add(m.Vector())
}
