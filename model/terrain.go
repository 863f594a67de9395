package model

// ArenaSize is the width and height of the diamond arena.
const ArenaSize = 28

// HalfBoard is the first row owned by the second player.
const HalfBoard = ArenaSize / 2

// Coordinate is a cell on the arena. Ownership of a cell is derived from Y.
type Coordinate struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// C is shorthand for building coordinates in tables and strategy defaults.
func C(x, y int) Coordinate { return Coordinate{X: x, Y: y} }

// Coords converts [x, y] pairs into coordinates.
func Coords(pairs ...[2]int) []Coordinate {
	out := make([]Coordinate, len(pairs))
	for i, p := range pairs {
		out[i] = Coordinate{X: p[0], Y: p[1]}
	}
	return out
}

// Add returns c shifted by (dx, dy).
func (c Coordinate) Add(dx, dy int) Coordinate {
	return Coordinate{X: c.X + dx, Y: c.Y + dy}
}

// InArena reports whether c lies inside the diamond.
func (c Coordinate) InArena() bool {
	if c.Y < 0 || c.Y >= ArenaSize {
		return false
	}
	if c.Y < HalfBoard {
		return c.X >= HalfBoard-1-c.Y && c.X <= HalfBoard+c.Y
	}
	return c.X >= c.Y-HalfBoard && c.X <= ArenaSize+HalfBoard-1-c.Y
}

// Half returns the player index that owns the half containing c.
func (c Coordinate) Half() int {
	if c.Y < HalfBoard {
		return 0
	}
	return 1
}

// DistanceSq is the squared euclidean distance between two cells.
func (c Coordinate) DistanceSq(o Coordinate) int {
	dx := c.X - o.X
	dy := c.Y - o.Y
	return dx*dx + dy*dy
}

// Neighbors returns the four orthogonal neighbours in a fixed order
// (up, down, left, right) without bounds checking.
func (c Coordinate) Neighbors() [4]Coordinate {
	return [4]Coordinate{
		{c.X, c.Y + 1},
		{c.X, c.Y - 1},
		{c.X - 1, c.Y},
		{c.X + 1, c.Y},
	}
}

// Edge names one of the four diagonal borders of the arena.
type Edge byte

const (
	TopRight    Edge = 0
	TopLeft     Edge = 1
	BottomLeft  Edge = 2
	BottomRight Edge = 3
)

var edgeNames = [...]string{"top_right", "top_left", "bottom_left", "bottom_right"}

func (e Edge) String() string {
	if int(e) < len(edgeNames) {
		return edgeNames[e]
	}
	return "unknown"
}

// Opposite returns the edge a mobile unit starting on e travels toward.
func (e Edge) Opposite() Edge {
	switch e {
	case TopRight:
		return BottomLeft
	case TopLeft:
		return BottomRight
	case BottomLeft:
		return TopRight
	default:
		return TopLeft
	}
}

// Edges lists all four edges in index order.
var Edges = [4]Edge{TopRight, TopLeft, BottomLeft, BottomRight}

// EdgeCoordinates returns the cells of edge e, ordered from the centre of
// the arena outward.
func EdgeCoordinates(e Edge) []Coordinate {
	out := make([]Coordinate, 0, HalfBoard)
	for i := 0; i < HalfBoard; i++ {
		var c Coordinate
		switch e {
		case TopRight:
			c = Coordinate{HalfBoard + i, ArenaSize - 1 - i}
		case TopLeft:
			c = Coordinate{HalfBoard - 1 - i, ArenaSize - 1 - i}
		case BottomLeft:
			c = Coordinate{HalfBoard - 1 - i, i}
		case BottomRight:
			c = Coordinate{HalfBoard + i, i}
		}
		out = append(out, c)
	}
	return out
}

// OnEdge reports whether c is one of the cells of edge e.
func OnEdge(c Coordinate, e Edge) bool {
	switch e {
	case TopRight:
		return c.Y >= HalfBoard && c.X+c.Y == ArenaSize+HalfBoard-1
	case TopLeft:
		return c.Y >= HalfBoard && c.Y-c.X == HalfBoard
	case BottomLeft:
		return c.Y < HalfBoard && c.X+c.Y == HalfBoard-1
	case BottomRight:
		return c.Y < HalfBoard && c.X-c.Y == HalfBoard
	}
	return false
}

// EdgeOf returns the edge containing c. Corner cells at the centre belong
// to a single edge, so the first match wins.
func EdgeOf(c Coordinate) (Edge, bool) {
	for _, e := range Edges {
		if OnEdge(c, e) {
			return e, true
		}
	}
	return 0, false
}

// FriendlyEdges are the edges a player may deploy mobile units from.
func FriendlyEdges(player int) [2]Edge {
	if player == 0 {
		return [2]Edge{BottomLeft, BottomRight}
	}
	return [2]Edge{TopLeft, TopRight}
}
