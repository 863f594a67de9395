package agent

import (
	"context"
	"math/rand/v2"
	"sync"
	"testing"

	"github.com/nstehr/rampart/model"
	"github.com/nstehr/rampart/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeJournal struct {
	mu       sync.Mutex
	turns    []int
	commands [][]model.SpawnCommand
	breaches []rules.BreachRecord
	events   []string
}

func (j *fakeJournal) SaveTurn(_ context.Context, turn int, commands []model.SpawnCommand, _ rules.Report, _ *model.Ledger) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.turns = append(j.turns, turn)
	j.commands = append(j.commands, commands)
	return nil
}

func (j *fakeJournal) SaveBreach(_ context.Context, rec rules.BreachRecord) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.breaches = append(j.breaches, rec)
	return nil
}

func (j *fakeJournal) SaveEvent(_ context.Context, _ int, kind, _ string) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.events = append(j.events, kind)
	return nil
}

type fakeRecorder struct {
	turns, breaches, against int
	events                   []string
}

func (r *fakeRecorder) TurnPlanned(context.Context, rules.Report, int) { r.turns++ }

func (r *fakeRecorder) BreachIngested(_ context.Context, againstSelf bool) {
	r.breaches++
	if againstSelf {
		r.against++
	}
}

func (r *fakeRecorder) EventDetected(_ context.Context, kind string) { r.events = append(r.events, kind) }

func reactiveStrategy() rules.Strategy {
	return rules.Strategy{
		Name: "reactive",
		Tiers: []*rules.Tier{
			{Name: "reactive", Unit: model.Turret, FromBreaches: &rules.BreachSource{OffsetY: 1}},
		},
		Attack: rules.AttackPolicy{Threshold: 1e9},
	}
}

func newAgent(t *testing.T, s rules.Strategy) (*Agent, *fakeJournal, *fakeRecorder) {
	t.Helper()
	planner, err := rules.NewPlanner(s, rules.NewMemory(), rand.New(rand.NewPCG(1, 1)))
	require.NoError(t, err)
	j, r := &fakeJournal{}, &fakeRecorder{}
	return New(planner, j, r), j, r
}

func snapshot(turn int, cores, bits float64) *model.Snapshot {
	l := model.NewLedger()
	l.Set(model.Self, model.Cores, cores)
	l.Set(model.Self, model.Bits, bits)
	return &model.Snapshot{
		Turn:   turn,
		Health: [2]float64{30, 30},
		Board:  model.NewBoard(nil),
		Ledger: l,
	}
}

func TestIngestBreach(t *testing.T) {
	a, j, r := newAgent(t, reactiveStrategy())
	ctx := context.Background()

	assert.True(t, a.IngestBreach(ctx, model.BreachEvent{Coord: model.C(3, 10), OwnerFlag: 2}, 4))
	assert.True(t, a.IngestBreach(ctx, model.BreachEvent{Coord: model.C(3, 10), OwnerFlag: 2}, 4))
	assert.False(t, a.IngestBreach(ctx, model.BreachEvent{Coord: model.C(14, 27), OwnerFlag: 1}, 4))

	assert.Equal(t, 2, a.Memory.Len(), "duplicates count twice")
	assert.Len(t, j.breaches, 2)
	assert.Equal(t, rules.BreachRecord{Coord: model.C(3, 10), Owner: model.Opponent, Turn: 4}, j.breaches[0])
	assert.Equal(t, 3, r.breaches)
	assert.Equal(t, 2, r.against)
}

func TestPlanTurnSeesIngestedBreaches(t *testing.T) {
	a, j, r := newAgent(t, reactiveStrategy())
	ctx := context.Background()

	frame := snapshot(4, 0, 0)
	frame.Breaches = []model.BreachEvent{
		{Coord: model.C(20, 6), OwnerFlag: 2},
		{Coord: model.C(3, 10), OwnerFlag: 2},
		{Coord: model.C(3, 10), OwnerFlag: 2},
	}
	require.Equal(t, 3, a.HandleFrame(ctx, frame))

	commands, err := a.PlanTurn(ctx, snapshot(5, 9, 0))

	require.NoError(t, err)
	assert.Equal(t, []model.SpawnCommand{
		{Kind: model.Turret, Coord: model.C(3, 11), Count: 1},
		{Kind: model.Turret, Coord: model.C(20, 7), Count: 1},
	}, commands)
	assert.Equal(t, []int{5}, j.turns)
	assert.Equal(t, 1, r.turns)
}

func TestPlanTurnLeavesSnapshotUntouched(t *testing.T) {
	a, _, _ := newAgent(t, rules.DefaultStrategy())
	snap := snapshot(0, 30, 5)

	commands, err := a.PlanTurn(context.Background(), snap)

	require.NoError(t, err)
	assert.NotEmpty(t, commands)
	assert.Equal(t, 30.0, snap.Ledger.Available(model.Self, model.Cores))
	assert.Equal(t, 0, snap.Board.CountUnits(model.Self, nil, nil, nil))
}

func TestPlanTurnEmitsEvents(t *testing.T) {
	a, j, r := newAgent(t, reactiveStrategy())
	ctx := context.Background()

	_, err := a.PlanTurn(ctx, snapshot(1, 0, 0))
	require.NoError(t, err)

	hurt := snapshot(2, 0, 0)
	hurt.Health[model.Self] = 26
	_, err = a.PlanTurn(ctx, hurt)
	require.NoError(t, err)

	assert.Equal(t, []string{string(EventHealthLost)}, j.events)
	assert.Equal(t, []string{string(EventHealthLost)}, r.events)
}

func TestPlanTurnCancelled(t *testing.T) {
	a, j, _ := newAgent(t, rules.DefaultStrategy())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	commands, err := a.PlanTurn(ctx, snapshot(0, 30, 0))

	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, commands)
	assert.Equal(t, []int{0}, j.turns, "interrupted turns are still journaled")
}

func TestPlanTurnNilSnapshot(t *testing.T) {
	a, _, _ := newAgent(t, rules.DefaultStrategy())
	_, err := a.PlanTurn(context.Background(), nil)
	require.ErrorIs(t, err, errNilSnapshot)
}

func TestNewWithoutSinks(t *testing.T) {
	planner, err := rules.NewPlanner(rules.DefaultStrategy(), nil, rand.New(rand.NewPCG(1, 1)))
	require.NoError(t, err)
	a := New(planner, nil, nil)

	a.IngestBreach(context.Background(), model.BreachEvent{Coord: model.C(3, 10), OwnerFlag: 2}, 1)
	_, err = a.PlanTurn(context.Background(), snapshot(1, 10, 0))

	require.NoError(t, err)
	assert.Equal(t, 1, a.Memory.Len())
}
