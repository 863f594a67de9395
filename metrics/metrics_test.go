package metrics

import (
	"context"
	"testing"

	"github.com/nstehr/rampart/model"
	"github.com/nstehr/rampart/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedSize int

func (f fixedSize) Len() int { return int(f) }

func TestRecorderTotals(t *testing.T) {
	r, err := New(fixedSize(3))
	require.NoError(t, err)
	ctx := context.Background()

	r.TurnPlanned(ctx, rules.Report{
		Tiers:    []rules.TierResult{{Name: "walls", Fired: true, Spawned: 4}, {Name: "turrets"}},
		Screened: 2,
		Attack:   rules.AttackDecision{Probability: 0.5, Fire: true, Unit: model.Fast, Spawned: 9},
	}, 7)
	r.TurnPlanned(ctx, rules.Report{
		Attack: rules.AttackDecision{Probability: 0.9, Fire: true, Skipped: true},
	}, 0)
	r.BreachIngested(ctx, true)
	r.BreachIngested(ctx, true)
	r.BreachIngested(ctx, false)
	r.EventDetected(ctx, "health_lost")

	assert.Equal(t, Summary{Turns: 2, Units: 15, Attacks: 1, Conceded: 2, Scored: 1}, r.Summary())
}

func TestNewWithoutMemory(t *testing.T) {
	r, err := New(nil)
	require.NoError(t, err)
	assert.Equal(t, Summary{}, r.Summary())
}
