package rules

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/nstehr/rampart/model"
)

// gateSource folds a tier's turn window and free-form condition into one
// expr boolean. All parts are interpolated ints or the caller's own
// expression, so the output is valid whenever When is.
func gateSource(t *Tier) string {
	var parts []string
	if t.MinTurn > 0 {
		parts = append(parts, fmt.Sprintf("Turn >= %d", t.MinTurn))
	}
	if t.MaxTurn > 0 {
		parts = append(parts, fmt.Sprintf("Turn <= %d", t.MaxTurn))
	}
	if w := strings.TrimSpace(t.When); w != "" {
		parts = append(parts, "("+w+")")
	}
	if len(parts) == 0 {
		return "true"
	}
	return strings.Join(parts, " && ")
}

// compileTiers compiles every gate into expr bytecode and orders each
// tier's expansions by ascending threshold. Tier order is preserved: it is
// the spending priority.
func compileTiers(tiers []*Tier) ([]*Tier, error) {
	for _, t := range tiers {
		t.GateSrc = gateSource(t)
		prog, err := expr.Compile(t.GateSrc, expr.Env(RuleEnv{}), expr.AsBool())
		if err != nil {
			return nil, fmt.Errorf("compile tier %q: %w", t.Name, err)
		}
		t.program = prog
		slices.SortStableFunc(t.Expansions, func(a, b Expansion) int {
			return cmp.Compare(a.Above, b.Above)
		})
	}
	return tiers, nil
}

// StarterTiers is the default defensive layout.
func StarterTiers() []*Tier {
	turretExtras := model.Coords(
		[2]int{17, 7}, [2]int{16, 6}, [2]int{15, 5}, [2]int{14, 4},
		[2]int{13, 3}, [2]int{12, 2}, [2]int{11, 3},
	)
	return []*Tier{
		{
			Name: "support-spine",
			Unit: model.Support,
			Locations: model.Coords(
				[2]int{2, 13}, [2]int{3, 12}, [2]int{4, 11}, [2]int{5, 10},
				[2]int{6, 9}, [2]int{7, 8}, [2]int{8, 7}, [2]int{9, 6},
				[2]int{10, 5}, [2]int{11, 4}, [2]int{12, 3}, [2]int{13, 2},
				[2]int{14, 3}, [2]int{15, 4}, [2]int{16, 5}, [2]int{17, 6},
				[2]int{18, 7}, [2]int{19, 8}, [2]int{20, 9}, [2]int{21, 10},
				[2]int{23, 12},
			),
		},
		{
			Name:      "early-supports",
			Unit:      model.Support,
			Locations: model.Coords([2]int{24, 13}, [2]int{25, 13}),
			MaxTurn:   4,
		},
		{
			Name:      "corner-walls",
			Unit:      model.Wall,
			Locations: model.Coords([2]int{26, 13}, [2]int{27, 13}, [2]int{0, 13}, [2]int{1, 13}),
		},
		{
			Name:      "late-walls",
			Unit:      model.Wall,
			Locations: model.Coords([2]int{24, 13}, [2]int{25, 13}),
			MinTurn:   6,
		},
		{
			Name: "turret-line",
			Unit: model.Turret,
			Locations: model.Coords(
				[2]int{22, 12}, [2]int{20, 10}, [2]int{19, 9}, [2]int{18, 8}, [2]int{17, 7},
			),
			MinTurn: 2,
			Expansions: []Expansion{
				{Above: 10, Currency: model.Cores, Locations: turretExtras, Pick: 2},
				{Above: 20, Currency: model.Cores, Locations: turretExtras},
				{Above: 40, Currency: model.Cores, Locations: model.Coords(
					[2]int{10, 4}, [2]int{9, 5}, [2]int{8, 6}, [2]int{7, 7}, [2]int{6, 8},
					[2]int{5, 9}, [2]int{4, 10}, [2]int{3, 11}, [2]int{2, 12},
				)},
			},
		},
		{
			Name:         "reactive-turrets",
			Unit:         model.Turret,
			FromBreaches: &BreachSource{OffsetY: 1},
		},
		{
			Name: "edge-walls",
			Unit: model.Wall,
			Locations: model.Coords(
				[2]int{1, 12}, [2]int{2, 12}, [2]int{24, 12}, [2]int{25, 12}, [2]int{26, 12},
			),
			MinTurn: 2,
		},
		{
			Name: "flank-walls",
			Unit: model.Wall,
			Locations: model.Coords(
				[2]int{24, 10}, [2]int{25, 11}, [2]int{26, 12}, [2]int{23, 9},
				[2]int{22, 8}, [2]int{21, 7}, [2]int{20, 6},
			),
			MinTurn: 2,
		},
		{
			Name:    "random-walls",
			Unit:    model.Wall,
			MinTurn: 2,
			When:    "Cores() > 20",
			Sample: &Sample{
				Count: 2,
				From: model.Coords(
					[2]int{1, 12}, [2]int{2, 11}, [2]int{3, 10}, [2]int{4, 9},
					[2]int{5, 8}, [2]int{6, 7}, [2]int{7, 6}, [2]int{8, 5},
					[2]int{9, 4}, [2]int{10, 3}, [2]int{11, 2}, [2]int{12, 1},
					[2]int{14, 0}, [2]int{18, 4}, [2]int{17, 3}, [2]int{16, 2},
					[2]int{15, 1},
				),
			},
		},
	}
}
