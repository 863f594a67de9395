package rules

import (
	"cmp"
	"slices"

	"github.com/nstehr/rampart/model"
)

// Strategy is the complete per-turn posture: defensive tiers in priority
// order, the interceptor screen and the offence policy.
type Strategy struct {
	Name   string
	Tiers  []*Tier
	Screen ScreenPolicy
	Attack AttackPolicy
}

// DefaultStrategy returns the starter posture: a support spine, corner
// walls, a turret line that thickens as cores bank up, reactive turrets
// behind breached cells, a debuff screen and an occasional all-in offence.
func DefaultStrategy() Strategy {
	return Strategy{
		Name:  "Starter",
		Tiers: StarterTiers(),
		Screen: ScreenPolicy{
			Unit:      model.Debuff,
			Locations: model.Coords([2]int{19, 5}),
			Brackets: []ScreenBracket{
				{MinBits: 0, Count: 1},
				{MinBits: 7, Count: 2},
				{MinBits: 9, Count: 4},
				{MinBits: 14, Count: 6},
			},
		},
		Attack: AttackPolicy{
			Threshold: 7,
			Baseline:  10,
			Base:      0.1,
			Slope:     0.08,
			Choices: []AttackChoice{
				{Unit: model.Fast, Weight: 3},
				{Unit: model.Heavy, Weight: 1},
			},
			Launch: model.Coords([2]int{13, 0}),
			Count:  1000,
		},
	}
}

// Validate clamps the strategy into a runnable shape. It never rejects.
func (s *Strategy) Validate() {
	for _, t := range s.Tiers {
		t.Count = max(t.Count, 1)
		t.MinTurn = max(t.MinTurn, 0)
		t.MaxTurn = max(t.MaxTurn, 0)
		if t.Sample != nil {
			t.Sample.Count = max(t.Sample.Count, 0)
		}
		for i := range t.Expansions {
			t.Expansions[i].Pick = max(t.Expansions[i].Pick, 0)
		}
	}
	slices.SortStableFunc(s.Screen.Brackets, func(a, b ScreenBracket) int {
		return cmp.Compare(a.MinBits, b.MinBits)
	})
	for i := range s.Screen.Brackets {
		s.Screen.Brackets[i].Count = max(s.Screen.Brackets[i].Count, 0)
	}
	s.Attack.Base = clamp(s.Attack.Base, 0, 1)
	s.Attack.Count = max(s.Attack.Count, 1)
	for i := range s.Attack.Choices {
		s.Attack.Choices[i].Weight = max(s.Attack.Choices[i].Weight, 0)
	}
}

// clamp restricts v to [lo, hi].
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
