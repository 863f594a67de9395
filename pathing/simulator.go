// Package pathing predicts the route a mobile unit takes across the arena
// and scores launch cells by the damage a unit would absorb on that route.
package pathing

import (
	"iter"
	"slices"

	"github.com/nstehr/rampart/model"
)

type axis byte

const (
	axisNone axis = iota
	axisVertical
	axisHorizontal
)

// Simulator computes deterministic routes over one stationary layout. It
// holds no state between calls, so routes depend only on the start cell and
// the board.
type Simulator struct {
	board *model.Board
}

// NewSimulator returns a simulator over board. The board must not be
// mutated while a route is being iterated.
func NewSimulator(board *model.Board) *Simulator {
	return &Simulator{board: board}
}

// TargetEdge returns the edge a unit starting at c walks toward.
func TargetEdge(c model.Coordinate) model.Edge {
	if e, ok := model.EdgeOf(c); ok {
		return e.Opposite()
	}
	left := c.X < model.HalfBoard
	if c.Y < model.HalfBoard {
		if left {
			return model.TopRight
		}
		return model.TopLeft
	}
	if left {
		return model.BottomRight
	}
	return model.BottomLeft
}

// idealness ranks how deep c is toward target. Higher is better and every
// cell has a distinct value.
func idealness(c model.Coordinate, target model.Edge) int {
	const n = model.ArenaSize
	switch target {
	case model.TopRight:
		return n*c.Y + c.X
	case model.TopLeft:
		return n*c.Y + (n - 1 - c.X)
	case model.BottomLeft:
		return n*(n-1-c.Y) + (n - 1 - c.X)
	default:
		return n*(n-1-c.Y) + c.X
	}
}

// heading returns the unit step toward target on each axis.
func heading(target model.Edge) (dx, dy int) {
	switch target {
	case model.TopRight:
		return 1, 1
	case model.TopLeft:
		return -1, 1
	case model.BottomLeft:
		return -1, -1
	default:
		return 1, -1
	}
}

func (s *Simulator) walkable(c model.Coordinate) bool {
	return c.InArena() && !s.board.IsStationaryBlocked(c)
}

// Route yields the cells a mobile unit launched from start traverses,
// starting with start itself. If the target edge cannot be reached the
// route ends at the deepest reachable cell. A blocked or out-of-arena start
// yields nothing. Every call recomputes from the current board, so the
// sequence can be restarted and stopped early.
func (s *Simulator) Route(start model.Coordinate) iter.Seq[model.Coordinate] {
	return func(yield func(model.Coordinate) bool) {
		if !s.walkable(start) {
			return
		}
		target := TargetEdge(start)
		dist := s.distances(s.goals(start, target))

		cur := start
		prev := axisNone
		// a route can never be longer than the arena
		for range model.ArenaSize * model.ArenaSize {
			if !yield(cur) {
				return
			}
			if dist[cur] == 0 {
				return
			}
			next, moved := s.step(cur, prev, target, dist)
			if next == cur {
				return
			}
			cur, prev = next, moved
		}
	}
}

// Path collects Route into a slice.
func (s *Simulator) Path(start model.Coordinate) []model.Coordinate {
	return slices.Collect(s.Route(start))
}

// goals returns the cells the unit is trying to reach: the reachable cells
// of the target edge, or the single deepest reachable cell when the edge is
// walled off.
func (s *Simulator) goals(start model.Coordinate, target model.Edge) []model.Coordinate {
	seen := map[model.Coordinate]bool{start: true}
	queue := []model.Coordinate{start}
	var onEdge []model.Coordinate
	best, bestScore := start, idealness(start, target)

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if model.OnEdge(cur, target) {
			onEdge = append(onEdge, cur)
		}
		if score := idealness(cur, target); score > bestScore {
			best, bestScore = cur, score
		}
		for _, n := range cur.Neighbors() {
			if seen[n] || !s.walkable(n) {
				continue
			}
			seen[n] = true
			queue = append(queue, n)
		}
	}
	if len(onEdge) > 0 {
		return onEdge
	}
	return []model.Coordinate{best}
}

// distances runs a multi-source BFS from goals over walkable cells.
func (s *Simulator) distances(goals []model.Coordinate) map[model.Coordinate]int {
	dist := make(map[model.Coordinate]int, len(goals)*8)
	queue := make([]model.Coordinate, 0, len(goals))
	for _, g := range goals {
		dist[g] = 0
		queue = append(queue, g)
	}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, n := range cur.Neighbors() {
			if _, ok := dist[n]; ok || !s.walkable(n) {
				continue
			}
			dist[n] = dist[cur] + 1
			queue = append(queue, n)
		}
	}
	return dist
}

// step picks the neighbour one closer to the goal. Ties prefer switching
// axis relative to the previous move, then moving in the target's heading.
// The first move prefers the vertical axis.
func (s *Simulator) step(cur model.Coordinate, prev axis, target model.Edge, dist map[model.Coordinate]int) (model.Coordinate, axis) {
	dx, dy := heading(target)
	want := dist[cur] - 1

	best, bestAxis, bestRank := cur, axisNone, -1
	for _, n := range cur.Neighbors() {
		d, ok := dist[n]
		if !ok || d != want {
			continue
		}
		moved := axisHorizontal
		if n.X == cur.X {
			moved = axisVertical
		}
		rank := 0
		switch {
		case prev == axisNone && moved == axisVertical:
			rank += 2
		case prev != axisNone && moved != prev:
			rank += 2
		}
		if (moved == axisHorizontal && n.X-cur.X == dx) || (moved == axisVertical && n.Y-cur.Y == dy) {
			rank++
		}
		if rank > bestRank {
			best, bestAxis, bestRank = n, moved, rank
		}
	}
	return best, bestAxis
}
