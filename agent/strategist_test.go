package agent

import (
	"context"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/nstehr/rampart/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStrategistSwapsProposal(t *testing.T) {
	planner, err := rules.NewPlanner(rules.DefaultStrategy(), nil, rand.New(rand.NewPCG(1, 1)))
	require.NoError(t, err)
	s := NewStrategist(planner)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Start(ctx)

	next := rules.DefaultStrategy()
	next.Name = "Turtle"
	s.Propose(next)

	require.Eventually(t, func() bool { return s.Swaps() == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, "Turtle", planner.Strategy().Name)
}

func TestStrategistKeepsStrategyOnBadProposal(t *testing.T) {
	planner, err := rules.NewPlanner(rules.DefaultStrategy(), nil, rand.New(rand.NewPCG(1, 1)))
	require.NoError(t, err)
	s := NewStrategist(planner)

	bad := rules.DefaultStrategy()
	bad.Name = "Broken"
	bad.Tiers = append(bad.Tiers, &rules.Tier{Name: "bad", When: "Bits( >"})
	s.Propose(bad)
	s.apply()

	assert.Equal(t, 0, s.Swaps())
	assert.Equal(t, "Starter", planner.Strategy().Name)
}
