package rules

import "github.com/nstehr/rampart/model"

// RuleEnv wraps the turn's working state and exposes helper methods
// callable from gate expressions. It reads the working copy, so a gate sees
// the resources left after earlier tiers spent.
type RuleEnv struct {
	Turn   int
	Board  *model.Board
	Ledger *model.Ledger
	Health [2]float64
	Memory *Memory
}

func (e RuleEnv) Cores() float64 { return e.Ledger.Available(model.Self, model.Cores) }

func (e RuleEnv) Bits() float64 { return e.Ledger.Available(model.Self, model.Bits) }

func (e RuleEnv) EnemyCores() float64 { return e.Ledger.Available(model.Opponent, model.Cores) }

func (e RuleEnv) EnemyBits() float64 { return e.Ledger.Available(model.Opponent, model.Bits) }

func (e RuleEnv) MyHealth() float64 { return e.Health[model.Self] }

func (e RuleEnv) EnemyHealth() float64 { return e.Health[model.Opponent] }

// EnemyCount counts the opponent's stationary units of a kind ("turret").
// An empty kind counts all of them; an unknown kind counts none.
func (e RuleEnv) EnemyCount(kind string) int {
	if kind == "" {
		return e.Board.CountUnits(model.Opponent, nil, nil, nil)
	}
	k, err := model.ParseUnitKind(kind)
	if err != nil {
		return 0
	}
	return e.Board.CountUnits(model.Opponent, &k, nil, nil)
}

// EnemyCountInRows is EnemyCount restricted to rows from..to inclusive.
func (e RuleEnv) EnemyCountInRows(kind string, from, to int) int {
	var ys []int
	for y := from; y <= to; y++ {
		ys = append(ys, y)
	}
	if len(ys) == 0 {
		return 0
	}
	var kp *model.UnitKind
	if kind != "" {
		k, err := model.ParseUnitKind(kind)
		if err != nil {
			return 0
		}
		kp = &k
	}
	return e.Board.CountUnits(model.Opponent, kp, nil, ys)
}

// BreachCount is the number of times we have been scored on this match.
func (e RuleEnv) BreachCount() int {
	if e.Memory == nil {
		return 0
	}
	return e.Memory.Len()
}
