package model

import (
	"cmp"
	"iter"
	"maps"
	"slices"
)

// Board is the sparse occupancy registry of the arena. Only occupied cells
// are stored, so iteration cost follows the unit count, not the arena size.
type Board struct {
	catalog *Catalog
	cells   map[Coordinate][]Unit
}

// NewBoard returns an empty board that resolves unit specs through catalog.
func NewBoard(catalog *Catalog) *Board {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	return &Board{catalog: catalog, cells: make(map[Coordinate][]Unit)}
}

// Catalog returns the unit catalog the board was built with.
func (b *Board) Catalog() *Catalog { return b.catalog }

// Clone returns an independent copy for per-turn mutation.
func (b *Board) Clone() *Board {
	out := &Board{catalog: b.catalog, cells: make(map[Coordinate][]Unit, len(b.cells))}
	for c, units := range b.cells {
		out.cells[c] = slices.Clone(units)
	}
	return out
}

// InArena reports whether c is a playable cell.
func (b *Board) InArena(c Coordinate) bool { return c.InArena() }

// Occupancy returns a copy of the units on c.
func (b *Board) Occupancy(c Coordinate) []Unit {
	return slices.Clone(b.cells[c])
}

// IsStationaryBlocked reports whether c already holds a stationary unit.
func (b *Board) IsStationaryBlocked(c Coordinate) bool {
	for _, u := range b.cells[c] {
		if u.Kind.Stationary() {
			return true
		}
	}
	return false
}

// Place adds u to the board. Out-of-arena cells and a second stationary
// unit on one cell are rejected by returning false.
func (b *Board) Place(u Unit) bool {
	if !u.Coord.InArena() {
		return false
	}
	if u.Kind.Stationary() && b.IsStationaryBlocked(u.Coord) {
		return false
	}
	b.cells[u.Coord] = append(b.cells[u.Coord], u)
	return true
}

// Remove deletes every unit on c.
func (b *Board) Remove(c Coordinate) {
	delete(b.cells, c)
}

// occupied returns the occupied cells in row-major order (Y, then X) so
// every traversal of the board is deterministic.
func (b *Board) occupied() []Coordinate {
	keys := slices.Collect(maps.Keys(b.cells))
	slices.SortFunc(keys, func(a, c Coordinate) int {
		if n := cmp.Compare(a.Y, c.Y); n != 0 {
			return n
		}
		return cmp.Compare(a.X, c.X)
	})
	return keys
}

// Units yields every unit on the board.
func (b *Board) Units() iter.Seq[Unit] {
	return func(yield func(Unit) bool) {
		for _, c := range b.occupied() {
			for _, u := range b.cells[c] {
				if !yield(u) {
					return
				}
			}
		}
	}
}

// StationaryUnits yields the stationary units owned by owner.
func (b *Board) StationaryUnits(owner int) iter.Seq[Unit] {
	return func(yield func(Unit) bool) {
		for u := range b.Units() {
			if u.Owner == owner && u.Kind.Stationary() {
				if !yield(u) {
					return
				}
			}
		}
	}
}

// Attackers yields the stationary units hostile to victim that deal damage
// and whose range covers c.
func (b *Board) Attackers(c Coordinate, victim int) iter.Seq[Unit] {
	return func(yield func(Unit) bool) {
		for u := range b.Units() {
			if u.Owner == victim || !u.Kind.Stationary() {
				continue
			}
			spec := b.catalog.Spec(u.Kind)
			if spec.Damage <= 0 {
				continue
			}
			if float64(u.Coord.DistanceSq(c)) > spec.Range*spec.Range {
				continue
			}
			if !yield(u) {
				return
			}
		}
	}
}

// FilterBlocked drops the coordinates that already hold a stationary unit.
func (b *Board) FilterBlocked(coords []Coordinate) []Coordinate {
	out := make([]Coordinate, 0, len(coords))
	for _, c := range coords {
		if !b.IsStationaryBlocked(c) {
			out = append(out, c)
		}
	}
	return out
}

// CountUnits counts stationary units of owner. A nil kind, xs or ys filter
// matches anything.
func (b *Board) CountUnits(owner int, kind *UnitKind, xs, ys []int) int {
	n := 0
	for u := range b.StationaryUnits(owner) {
		if kind != nil && u.Kind != *kind {
			continue
		}
		if xs != nil && !slices.Contains(xs, u.Coord.X) {
			continue
		}
		if ys != nil && !slices.Contains(ys, u.Coord.Y) {
			continue
		}
		n++
	}
	return n
}
