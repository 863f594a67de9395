package rules

import (
	"cmp"
	"slices"
	"sync"

	"github.com/nstehr/rampart/model"
)

// BreachRecord is one time a mobile unit reached our edge. Owner is the
// player whose unit breached.
type BreachRecord struct {
	Coord model.Coordinate
	Owner int
	Turn  int
}

// Hotspot is a breached cell with the number of times it was breached.
type Hotspot struct {
	Coord model.Coordinate
	Count int
}

// Memory accumulates breaches for the whole match. It is never reset and
// keeps duplicates: the same event delivered twice counts twice.
type Memory struct {
	mu       sync.Mutex // guards breaches
	breaches []BreachRecord
}

func NewMemory() *Memory {
	return &Memory{}
}

// Record appends a breach.
func (m *Memory) Record(r BreachRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.breaches = append(m.breaches, r)
}

// Breaches returns a copy of the full history in arrival order.
func (m *Memory) Breaches() []BreachRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]BreachRecord, len(m.breaches))
	copy(out, m.breaches)
	return out
}

func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.breaches)
}

// Frequencies groups the history by cell, most breached first. Equal counts
// keep the order in which the cells were first breached.
func (m *Memory) Frequencies() []Hotspot {
	m.mu.Lock()
	defer m.mu.Unlock()

	index := make(map[model.Coordinate]int)
	var out []Hotspot
	for _, b := range m.breaches {
		if i, ok := index[b.Coord]; ok {
			out[i].Count++
			continue
		}
		index[b.Coord] = len(out)
		out = append(out, Hotspot{Coord: b.Coord, Count: 1})
	}
	slices.SortStableFunc(out, func(a, b Hotspot) int {
		return cmp.Compare(b.Count, a.Count)
	})
	return out
}
