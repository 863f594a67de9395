// Package metrics counts what the bot plans and observes. Instruments come
// from the global OTel meter provider, which is a no-op until one is
// installed; running totals are kept locally for the end-of-match summary.
package metrics

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/nstehr/rampart/rules"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/nstehr/rampart/metrics"

func meter() metric.Meter {
	return otel.Meter(instrumentationName)
}

// MemorySize reports the size of reactive memory.
type MemorySize interface {
	Len() int
}

// Recorder implements the agent's metrics hook.
type Recorder struct {
	turns    metric.Int64Counter
	units    metric.Int64Counter
	attacks  metric.Int64Counter
	breaches metric.Int64Counter
	events   metric.Int64Counter
	memory   metric.Int64ObservableGauge

	totalTurns    atomic.Int64
	totalUnits    atomic.Int64
	totalAttacks  atomic.Int64
	totalBreached atomic.Int64
	totalScored   atomic.Int64
}

// New creates the instruments. mem may be nil.
func New(mem MemorySize) (*Recorder, error) {
	m := meter()
	r := &Recorder{}

	var err error
	r.turns, err = m.Int64Counter("rampart.turns.planned",
		metric.WithDescription("Turns planned"))
	if err != nil {
		return nil, fmt.Errorf("creating turns counter: %w", err)
	}
	r.units, err = m.Int64Counter("rampart.units.spawned",
		metric.WithDescription("Units placed, by planning stage"))
	if err != nil {
		return nil, fmt.Errorf("creating units counter: %w", err)
	}
	r.attacks, err = m.Int64Counter("rampart.attacks",
		metric.WithDescription("Attack policy outcomes"))
	if err != nil {
		return nil, fmt.Errorf("creating attacks counter: %w", err)
	}
	r.breaches, err = m.Int64Counter("rampart.breaches",
		metric.WithDescription("Breach events, by side"))
	if err != nil {
		return nil, fmt.Errorf("creating breaches counter: %w", err)
	}
	r.events, err = m.Int64Counter("rampart.events",
		metric.WithDescription("Detected game events, by kind"))
	if err != nil {
		return nil, fmt.Errorf("creating events counter: %w", err)
	}

	if mem != nil {
		r.memory, err = m.Int64ObservableGauge("rampart.memory.breaches",
			metric.WithDescription("Breaches held in reactive memory"))
		if err != nil {
			return nil, fmt.Errorf("creating memory gauge: %w", err)
		}
		_, err = m.RegisterCallback(func(ctx context.Context, o metric.Observer) error {
			o.ObserveInt64(r.memory, int64(mem.Len()))
			return nil
		}, r.memory)
		if err != nil {
			return nil, fmt.Errorf("registering memory callback: %w", err)
		}
	}
	return r, nil
}

// TurnPlanned records one planning pass.
func (r *Recorder) TurnPlanned(ctx context.Context, rep rules.Report, commands int) {
	r.turns.Add(ctx, 1, metric.WithAttributes(attribute.Bool("interrupted", rep.Interrupted)))
	r.totalTurns.Add(1)

	for _, t := range rep.Tiers {
		if t.Spawned > 0 {
			r.units.Add(ctx, int64(t.Spawned), metric.WithAttributes(attribute.String("stage", t.Name)))
		}
	}
	if rep.Screened > 0 {
		r.units.Add(ctx, int64(rep.Screened), metric.WithAttributes(attribute.String("stage", "screen")))
	}
	if rep.Attack.Spawned > 0 {
		r.units.Add(ctx, int64(rep.Attack.Spawned), metric.WithAttributes(attribute.String("stage", "attack")))
	}
	r.totalUnits.Add(int64(rep.Spawned()))

	if rep.Attack.Probability > 0 {
		r.attacks.Add(ctx, 1, metric.WithAttributes(
			attribute.Bool("fire", rep.Attack.Fire),
			attribute.Bool("skipped", rep.Attack.Skipped),
			attribute.String("unit", rep.Attack.Unit.String()),
		))
		if rep.Attack.Fire && !rep.Attack.Skipped {
			r.totalAttacks.Add(1)
		}
	}
}

// BreachIngested records a breach on either side.
func (r *Recorder) BreachIngested(ctx context.Context, againstSelf bool) {
	side := "scored"
	if againstSelf {
		side = "conceded"
		r.totalBreached.Add(1)
	} else {
		r.totalScored.Add(1)
	}
	r.breaches.Add(ctx, 1, metric.WithAttributes(attribute.String("side", side)))
}

// EventDetected records a game event.
func (r *Recorder) EventDetected(ctx context.Context, kind string) {
	r.events.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", kind)))
}

// Summary is the running totals for the match.
type Summary struct {
	Turns    int64
	Units    int64
	Attacks  int64
	Conceded int64
	Scored   int64
}

func (r *Recorder) Summary() Summary {
	return Summary{
		Turns:    r.totalTurns.Load(),
		Units:    r.totalUnits.Load(),
		Attacks:  r.totalAttacks.Load(),
		Conceded: r.totalBreached.Load(),
		Scored:   r.totalScored.Load(),
	}
}
