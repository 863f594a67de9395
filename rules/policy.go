package rules

import (
	"log/slog"
	"math/rand/v2"

	"github.com/nstehr/rampart/model"
	"github.com/nstehr/rampart/pathing"
)

// ScreenBracket applies Count once the opponent holds at least MinBits.
type ScreenBracket struct {
	MinBits float64
	Count   int
}

// ScreenPolicy sends interceptors onto our side every turn, sized by how
// many bits the opponent could throw at us next.
type ScreenPolicy struct {
	Unit      model.UnitKind
	Locations []model.Coordinate
	Brackets  []ScreenBracket // ascending MinBits
}

// CountFor returns the count of the highest bracket the opponent reached.
func (s ScreenPolicy) CountFor(enemyBits float64) int {
	n := 0
	for _, b := range s.Brackets {
		if enemyBits >= b.MinBits {
			n = b.Count
		}
	}
	return n
}

// Apply spawns the screen and returns the number of units placed.
func (s ScreenPolicy) Apply(turn *Turn) int {
	n := s.CountFor(turn.Ledger.Available(model.Opponent, model.Bits))
	if n <= 0 || len(s.Locations) == 0 {
		return 0
	}
	return turn.SpawnAll(s.Unit, s.Locations, n)
}

// AttackChoice is one offence kind with its relative weight.
type AttackChoice struct {
	Unit   model.UnitKind
	Weight float64
}

// AttackPolicy launches a single all-in offence when bits allow it.
// Probability grows linearly with banked bits:
// p = Base + (bits - Baseline) * Slope, clamped to [0, 1].
type AttackPolicy struct {
	Threshold float64 // attack only when bits > Threshold
	Baseline  float64
	Base      float64
	Slope     float64
	Choices   []AttackChoice
	Launch    []model.Coordinate
	Count     int // requested units; partial success spends what we can
}

// AttackDecision records what the policy drew and did this turn.
type AttackDecision struct {
	Bits        float64
	Probability float64
	Roll        float64
	Fire        bool
	Unit        model.UnitKind
	Launch      model.Coordinate
	Spawned     int
	Skipped     bool
	Reason      string
}

// Probability is the launch chance for the given bit pool.
func (a AttackPolicy) Probability(bits float64) float64 {
	return clamp(a.Base+(bits-a.Baseline)*a.Slope, 0, 1)
}

// Decide runs the policy against the working turn. The offence kind is drawn
// before the launch roll, so a fixed seed reproduces both.
func (a AttackPolicy) Decide(turn *Turn, rng *rand.Rand) AttackDecision {
	d := AttackDecision{Bits: turn.Ledger.Available(model.Self, model.Bits)}
	if d.Bits <= a.Threshold {
		d.Reason = "below threshold"
		return d
	}
	if len(a.Choices) == 0 {
		d.Skipped = true
		d.Reason = "no attack choices"
		return d
	}

	weights := make([]float64, len(a.Choices))
	for i, c := range a.Choices {
		weights[i] = c.Weight
	}
	d.Unit = a.Choices[weightedIndex(rng, weights)].Unit
	d.Probability = a.Probability(d.Bits)
	d.Roll = rng.Float64()
	if d.Roll >= d.Probability {
		d.Reason = "roll missed"
		return d
	}
	d.Fire = true

	open := turn.Board.FilterBlocked(a.Launch)
	launch, err := pathing.NewEstimator(turn.Board, model.Self).ChooseLowestRisk(open)
	if err != nil {
		slog.Warn("attack skipped", "unit", d.Unit, "error", err)
		d.Skipped = true
		d.Reason = "no launch cell"
		return d
	}
	d.Launch = launch
	d.Spawned = turn.Spawn(d.Unit, launch, a.Count)
	if d.Spawned == 0 {
		d.Reason = "nothing spawned"
	}
	return d
}
