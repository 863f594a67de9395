package model

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMalformedSnapshot is returned when a frame cannot be turned into a
// snapshot. The turn is rejected as a whole.
var ErrMalformedSnapshot = errors.New("malformed snapshot")

// Phase is the first element of turnInfo.
type Phase int

const (
	PhaseTurn   Phase = 0 // start of our turn; a submission is expected
	PhaseAction Phase = 1 // one simulated frame of turn resolution
	PhaseEnd    Phase = 2 // match over
)

// BreachEvent is one entry of the breach event list. OwnerFlag follows the
// wire encoding: 1 means the breaching unit is ours, 2 the opponent's.
type BreachEvent struct {
	Coord     Coordinate
	OwnerFlag int
}

// AgainstSelf reports whether the breach scored on us.
func (e BreachEvent) AgainstSelf() bool { return e.OwnerFlag != 1 }

// Snapshot is a read-only view of one frame. The planner never mutates it;
// Working returns copies that can be spent against.
type Snapshot struct {
	Turn     int
	Phase    Phase
	Frame    int
	Health   [2]float64
	Board    *Board
	Ledger   *Ledger
	Breaches []BreachEvent
}

// Working returns a mutable copy of the board and ledger for one turn.
func (s *Snapshot) Working() (*Board, *Ledger) {
	return s.Board.Clone(), s.Ledger.Clone()
}

// frame mirrors the wire JSON. Unit lists are indexed by catalog order with
// a trailing "remove" list that is ignored.
type frame struct {
	P1Units  [][][]any `json:"p1Units"`
	P2Units  [][][]any `json:"p2Units"`
	P1Stats  []float64 `json:"p1Stats"`
	P2Stats  []float64 `json:"p2Stats"`
	TurnInfo []int     `json:"turnInfo"`
	Events   struct {
		Breach [][]any `json:"breach"`
	} `json:"events"`
}

// ParseSnapshot builds a snapshot from a raw frame.
func ParseSnapshot(raw []byte, catalog *Catalog) (*Snapshot, error) {
	var f frame
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedSnapshot, err)
	}
	if len(f.TurnInfo) < 2 {
		return nil, fmt.Errorf("%w: turnInfo has %d fields", ErrMalformedSnapshot, len(f.TurnInfo))
	}
	if len(f.P1Stats) < 3 || len(f.P2Stats) < 3 {
		return nil, fmt.Errorf("%w: player stats missing", ErrMalformedSnapshot)
	}

	snap := &Snapshot{
		Turn:   f.TurnInfo[1],
		Phase:  Phase(f.TurnInfo[0]),
		Frame:  -1,
		Board:  NewBoard(catalog),
		Ledger: NewLedger(),
	}
	if len(f.TurnInfo) > 2 {
		snap.Frame = f.TurnInfo[2]
	}
	for player, stats := range [2][]float64{f.P1Stats, f.P2Stats} {
		snap.Health[player] = stats[0]
		snap.Ledger.Set(player, Cores, stats[1])
		snap.Ledger.Set(player, Bits, stats[2])
	}
	for player, lists := range [2][][][]any{f.P1Units, f.P2Units} {
		if err := placeUnits(snap.Board, player, lists); err != nil {
			return nil, err
		}
	}

	breaches, err := parseBreaches(f.Events.Breach)
	if err != nil {
		return nil, err
	}
	snap.Breaches = breaches
	return snap, nil
}

// ParseBreaches extracts only the breach events of a frame. Action frames
// arrive many times per turn so this skips the board entirely.
func ParseBreaches(raw []byte) ([]BreachEvent, error) {
	var f struct {
		Events struct {
			Breach [][]any `json:"breach"`
		} `json:"events"`
	}
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedSnapshot, err)
	}
	return parseBreaches(f.Events.Breach)
}

func placeUnits(b *Board, player int, lists [][][]any) error {
	for idx, entries := range lists {
		if idx >= len(AllKinds) {
			break
		}
		kind := AllKinds[idx]
		for _, e := range entries {
			if len(e) < 2 {
				return fmt.Errorf("%w: unit entry %v", ErrMalformedSnapshot, e)
			}
			x, okX := e[0].(float64)
			y, okY := e[1].(float64)
			if !okX || !okY {
				return fmt.Errorf("%w: unit position %v", ErrMalformedSnapshot, e)
			}
			u := Unit{Kind: kind, Owner: player, Coord: Coordinate{int(x), int(y)}}
			if len(e) > 2 {
				u.Health, _ = e[2].(float64)
			}
			if len(e) > 3 {
				u.ID = fmt.Sprint(e[3])
			}
			b.Place(u)
		}
	}
	return nil
}

// parseBreaches decodes [[x, y], damage, unitType, id, playerFlag] entries.
func parseBreaches(raw [][]any) ([]BreachEvent, error) {
	var out []BreachEvent
	for _, e := range raw {
		if len(e) < 5 {
			return nil, fmt.Errorf("%w: breach entry %v", ErrMalformedSnapshot, e)
		}
		loc, ok := e[0].([]any)
		if !ok || len(loc) < 2 {
			return nil, fmt.Errorf("%w: breach location %v", ErrMalformedSnapshot, e[0])
		}
		x, okX := loc[0].(float64)
		y, okY := loc[1].(float64)
		flag, okF := e[4].(float64)
		if !okX || !okY || !okF {
			return nil, fmt.Errorf("%w: breach entry %v", ErrMalformedSnapshot, e)
		}
		out = append(out, BreachEvent{Coord: Coordinate{int(x), int(y)}, OwnerFlag: int(flag)})
	}
	return out, nil
}
