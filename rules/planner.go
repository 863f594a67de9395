package rules

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"slices"
	"sync"

	"github.com/expr-lang/expr/vm"
	"github.com/nstehr/rampart/model"
)

// TierResult is what one tier did this turn.
type TierResult struct {
	Name    string
	Fired   bool
	Spawned int
}

// Report summarizes a planning pass.
type Report struct {
	Tiers       []TierResult
	Screened    int
	Attack      AttackDecision
	Interrupted bool
}

// Spawned is the total number of units placed across the report.
func (r Report) Spawned() int {
	n := r.Screened + r.Attack.Spawned
	for _, t := range r.Tiers {
		n += t.Spawned
	}
	return n
}

// Planner runs a compiled strategy against a turn: gated tiers in order,
// then the screen, then the attack policy.
type Planner struct {
	mu       sync.RWMutex
	strategy Strategy
	memory   *Memory
	rng      *rand.Rand
}

// NewPlanner validates and compiles s. rng must not be shared with other
// goroutines.
func NewPlanner(s Strategy, memory *Memory, rng *rand.Rand) (*Planner, error) {
	s.Validate()
	tiers, err := compileTiers(s.Tiers)
	if err != nil {
		return nil, err
	}
	s.Tiers = tiers
	if memory == nil {
		memory = NewMemory()
	}
	return &Planner{strategy: s, memory: memory, rng: rng}, nil
}

// Memory returns the reactive memory the planner reads breaches from.
func (p *Planner) Memory() *Memory { return p.memory }

// Strategy returns the active strategy.
func (p *Planner) Strategy() Strategy {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.strategy
}

// Swap replaces the active strategy between turns. Compiles first; if
// compilation fails the old strategy stays active.
func (p *Planner) Swap(s Strategy) error {
	s.Validate()
	tiers, err := compileTiers(s.Tiers)
	if err != nil {
		return err
	}
	s.Tiers = tiers
	p.mu.Lock()
	p.strategy = s
	p.mu.Unlock()
	slog.Info("strategy swapped", "name", s.Name, "tiers", len(tiers))
	return nil
}

// Plan fills turn with this turn's spawns. The context is checked between
// stages; once it is done the remaining stages are skipped and the report is
// marked Interrupted, leaving what was already planned in turn.
func (p *Planner) Plan(ctx context.Context, turn *Turn) Report {
	s := p.Strategy()
	var rep Report

	for _, t := range s.Tiers {
		if ctx.Err() != nil {
			rep.Interrupted = true
			return rep
		}
		rep.Tiers = append(rep.Tiers, p.runTier(t, turn))
	}

	if ctx.Err() != nil {
		rep.Interrupted = true
		return rep
	}
	rep.Screened = s.Screen.Apply(turn)

	if ctx.Err() != nil {
		rep.Interrupted = true
		return rep
	}
	rep.Attack = s.Attack.Decide(turn, p.rng)

	if rep.Spawned() == 0 {
		logIdleDiagnostics(turn)
	}
	return rep
}

func (p *Planner) runTier(t *Tier, turn *Turn) TierResult {
	res := TierResult{Name: t.Name}
	result, err := vm.Run(t.program, turn.Env(p.memory))
	if err != nil {
		slog.Warn("tier gate error", "tier", t.Name, "error", err)
		return res
	}
	if ok, _ := result.(bool); !ok {
		return res
	}
	res.Fired = true

	locations := p.locations(t, turn)
	res.Spawned = turn.SpawnAll(t.Unit, locations, t.Count)
	slog.Debug("tier fired", "tier", t.Name, "gate", t.GateSrc, "locations", len(locations), "spawned", res.Spawned)
	return res
}

// locations resolves a tier's placement list for this turn: base cells,
// unlocked expansions, the random sample and breach-derived cells, in that
// order with duplicates dropped.
func (p *Planner) locations(t *Tier, turn *Turn) []model.Coordinate {
	out := slices.Clone(t.Locations)
	for _, ex := range t.Expansions {
		if turn.Ledger.Available(model.Self, ex.Currency) <= ex.Above {
			continue
		}
		if ex.Pick > 0 {
			out = append(out, SampleDistinct(p.rng, ex.Locations, ex.Pick)...)
		} else {
			out = append(out, ex.Locations...)
		}
	}
	if t.Sample != nil {
		out = append(out, SampleDistinct(p.rng, t.Sample.From, t.Sample.Count)...)
	}
	if src := t.FromBreaches; src != nil {
		for i, h := range p.memory.Frequencies() {
			if src.Limit > 0 && i >= src.Limit {
				break
			}
			out = append(out, model.C(h.Coord.X, h.Coord.Y+src.OffsetY))
		}
	}
	return dedupe(out)
}

// logIdleDiagnostics helps answer "why did we place nothing?".
func logIdleDiagnostics(turn *Turn) {
	slog.Warn("idle diagnostics",
		"turn", turn.Number,
		"cores", turn.Ledger.Available(model.Self, model.Cores),
		"bits", turn.Ledger.Available(model.Self, model.Bits),
		"enemyBits", turn.Ledger.Available(model.Opponent, model.Bits),
	)
}
