package rules

import (
	"testing"

	"github.com/nstehr/rampart/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSnapshot(turn int, cores, bits, enemyBits float64) *model.Snapshot {
	l := model.NewLedger()
	l.Set(model.Self, model.Cores, cores)
	l.Set(model.Self, model.Bits, bits)
	l.Set(model.Opponent, model.Bits, enemyBits)
	return &model.Snapshot{
		Turn:   turn,
		Health: [2]float64{30, 30},
		Board:  model.NewBoard(nil),
		Ledger: l,
	}
}

func TestSpawnStationaryIsIdempotent(t *testing.T) {
	turn := NewTurn(newSnapshot(1, 10, 0, 0))

	first := turn.Spawn(model.Wall, model.C(0, 13), 1)
	second := turn.Spawn(model.Wall, model.C(0, 13), 1)

	assert.Equal(t, 1, first)
	assert.Equal(t, 0, second)
	assert.Equal(t, 9.0, turn.Ledger.Available(model.Self, model.Cores))
	require.Len(t, turn.Commands, 1)
	assert.Equal(t, model.SpawnCommand{Kind: model.Wall, Coord: model.C(0, 13), Count: 1}, turn.Commands[0])
}

func TestSpawnStationaryPlacesOne(t *testing.T) {
	turn := NewTurn(newSnapshot(1, 10, 0, 0))

	assert.Equal(t, 1, turn.Spawn(model.Turret, model.C(22, 12), 1000))
	assert.Equal(t, 7.0, turn.Ledger.Available(model.Self, model.Cores))
}

func TestSpawnMobilePartialSuccess(t *testing.T) {
	turn := NewTurn(newSnapshot(1, 0, 10, 0))

	got := turn.Spawn(model.Heavy, model.C(13, 0), 1000)

	assert.Equal(t, 3, got)
	assert.Equal(t, 1.0, turn.Ledger.Available(model.Self, model.Bits))
	assert.Len(t, turn.Board.Occupancy(model.C(13, 0)), 3)
}

func TestSpawnIllegal(t *testing.T) {
	snap := newSnapshot(1, 50, 50, 0)
	snap.Board.Place(model.Unit{Kind: model.Wall, Owner: model.Self, Coord: model.C(14, 0)})

	tests := []struct {
		name  string
		kind  model.UnitKind
		coord model.Coordinate
	}{
		{"outside arena", model.Wall, model.C(0, 0)},
		{"opponent half", model.Wall, model.C(13, 14)},
		{"mobile off edge", model.Fast, model.C(13, 5)},
		{"mobile on opponent edge", model.Fast, model.C(14, 27)},
		{"mobile on blocked edge", model.Fast, model.C(14, 0)},
		{"stationary on blocked", model.Turret, model.C(14, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			turn := NewTurn(snap)
			assert.Equal(t, 0, turn.Spawn(tt.kind, tt.coord, 1))
			assert.Empty(t, turn.Commands)
			assert.Equal(t, 50.0, turn.Ledger.Available(model.Self, model.Cores))
			assert.Equal(t, 50.0, turn.Ledger.Available(model.Self, model.Bits))
		})
	}
}

func TestTurnLeavesSnapshotUntouched(t *testing.T) {
	snap := newSnapshot(1, 10, 5, 0)
	turn := NewTurn(snap)

	turn.Spawn(model.Wall, model.C(0, 13), 1)
	turn.Spawn(model.Fast, model.C(13, 0), 5)

	assert.Equal(t, 10.0, snap.Ledger.Available(model.Self, model.Cores))
	assert.Equal(t, 5.0, snap.Ledger.Available(model.Self, model.Bits))
	assert.False(t, snap.Board.IsStationaryBlocked(model.C(0, 13)))
	assert.Empty(t, snap.Board.Occupancy(model.C(13, 0)))
}
