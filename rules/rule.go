package rules

import (
	"github.com/expr-lang/expr/vm"
	"github.com/nstehr/rampart/model"
)

// Expansion unlocks extra locations for a tier once our pool of Currency is
// strictly above Above. Pick > 0 takes that many distinct random locations
// instead of all of them.
type Expansion struct {
	Above     float64
	Currency  model.Currency
	Locations []model.Coordinate
	Pick      int
}

// Sample adds Count distinct random locations drawn from From.
type Sample struct {
	From  []model.Coordinate
	Count int
}

// BreachSource derives locations from reactive memory: every breached cell
// shifted by OffsetY, most frequently breached first. Limit caps the number
// of cells (0 = all).
type BreachSource struct {
	OffsetY int
	Limit   int
}

// Tier is a prioritized group of placements. Tiers run in declaration
// order and a tier only runs when its gate holds. The gate is compiled from
// MinTurn, MaxTurn and the free-form When expression.
type Tier struct {
	Name         string
	Unit         model.UnitKind
	Locations    []model.Coordinate
	MinTurn      int    // 0 = no lower bound
	MaxTurn      int    // 0 = no upper bound
	When         string // expr condition over RuleEnv
	Expansions   []Expansion
	Sample       *Sample
	FromBreaches *BreachSource
	Count        int    // units per location, 0 = 1
	GateSrc      string // compiled gate source (preserved for logging)

	program *vm.Program
}
