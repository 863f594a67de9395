package rules

import (
	"log/slog"

	"github.com/nstehr/rampart/model"
)

// Turn is the working state of one planning pass. Every spawn is applied to
// its board and ledger immediately so later decisions in the same turn see
// it. The snapshot it was built from is never touched.
type Turn struct {
	Number   int
	Board    *model.Board
	Ledger   *model.Ledger
	Health   [2]float64
	Commands []model.SpawnCommand
}

// NewTurn builds the working copy of snap.
func NewTurn(snap *model.Snapshot) *Turn {
	board, ledger := snap.Working()
	return &Turn{
		Number: snap.Turn,
		Board:  board,
		Ledger: ledger,
		Health: snap.Health,
	}
}

// Env exposes the working state to gate expressions.
func (t *Turn) Env(memory *Memory) RuleEnv {
	return RuleEnv{Turn: t.Number, Board: t.Board, Ledger: t.Ledger, Health: t.Health, Memory: memory}
}

// CanPlace reports whether kind may legally be placed at c for us:
// stationary units on our half on a free cell, mobile units on one of our
// deploy edges on a cell without a stationary unit.
func (t *Turn) CanPlace(kind model.UnitKind, c model.Coordinate) bool {
	if !c.InArena() || t.Board.IsStationaryBlocked(c) {
		return false
	}
	if kind.Stationary() {
		return c.Half() == model.Self
	}
	for _, e := range model.FriendlyEdges(model.Self) {
		if model.OnEdge(c, e) {
			return true
		}
	}
	return false
}

// Spawn places up to count units of kind at c and returns how many were
// paid for. Illegal cells and empty pools are not errors: they spawn 0.
// Stationary kinds place at most one unit.
func (t *Turn) Spawn(kind model.UnitKind, c model.Coordinate, count int) int {
	if count <= 0 {
		return 0
	}
	if !t.CanPlace(kind, c) {
		slog.Debug("placement skipped", "unit", kind, "x", c.X, "y", c.Y, "reason", "illegal")
		return 0
	}
	if kind.Stationary() {
		count = 1
	}

	spec := t.Board.Catalog().Spec(kind)
	spent := t.Ledger.TrySpend(model.Self, spec.Currency, spec.Cost, count)
	if spent == 0 {
		slog.Debug("placement skipped", "unit", kind, "x", c.X, "y", c.Y, "reason", "unaffordable")
		return 0
	}
	for range spent {
		t.Board.Place(model.Unit{Kind: kind, Owner: model.Self, Coord: c})
	}
	t.Commands = append(t.Commands, model.SpawnCommand{Kind: kind, Coord: c, Count: spent})
	slog.Debug("placed", "unit", kind, "x", c.X, "y", c.Y, "count", spent)
	return spent
}

// SpawnAll spawns count units at each location in order and returns the
// total spawned.
func (t *Turn) SpawnAll(kind model.UnitKind, locations []model.Coordinate, count int) int {
	total := 0
	for _, c := range locations {
		total += t.Spawn(kind, c, count)
	}
	return total
}
