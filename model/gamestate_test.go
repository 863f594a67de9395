package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleFrame = `{
	"p1Units": [[[13,13,60,"1"]],[],[[3,12,75,"2"]],[],[],[],[]],
	"p2Units": [[],[],[[13,16,75,"9"],[14,16,75,"10"]],[[14,27,15,"11"]],[],[],[]],
	"p1Stats": [30, 25.0, 12.0, 1500],
	"p2Stats": [28, 14.5, 9.5, 1400],
	"turnInfo": [0, 7, -1],
	"events": {"breach": [[[3,13], 1, 3, "44", 2]]}
}`

func TestParseSnapshot(t *testing.T) {
	snap, err := ParseSnapshot([]byte(sampleFrame), DefaultCatalog())
	require.NoError(t, err)

	assert.Equal(t, 7, snap.Turn)
	assert.Equal(t, PhaseTurn, snap.Phase)
	assert.Equal(t, -1, snap.Frame)
	assert.Equal(t, 30.0, snap.Health[Self])
	assert.Equal(t, 25.0, snap.Ledger.Available(Self, Cores))
	assert.Equal(t, 12.0, snap.Ledger.Available(Self, Bits))
	assert.Equal(t, 9.5, snap.Ledger.Available(Opponent, Bits))

	assert.True(t, snap.Board.IsStationaryBlocked(C(13, 13)))
	occ := snap.Board.Occupancy(C(3, 12))
	require.Len(t, occ, 1)
	assert.Equal(t, Turret, occ[0].Kind)
	assert.Equal(t, "2", occ[0].ID)

	turret := Turret
	assert.Equal(t, 2, snap.Board.CountUnits(Opponent, &turret, nil, nil))
	assert.Len(t, snap.Board.Occupancy(C(14, 27)), 1)

	require.Len(t, snap.Breaches, 1)
	assert.Equal(t, C(3, 13), snap.Breaches[0].Coord)
	assert.True(t, snap.Breaches[0].AgainstSelf())
}

func TestParseSnapshotWorkingCopy(t *testing.T) {
	snap, err := ParseSnapshot([]byte(sampleFrame), DefaultCatalog())
	require.NoError(t, err)

	board, ledger := snap.Working()
	board.Place(Unit{Kind: Wall, Coord: C(12, 13)})
	ledger.TrySpend(Self, Cores, 1, 5)

	assert.False(t, snap.Board.IsStationaryBlocked(C(12, 13)))
	assert.Equal(t, 25.0, snap.Ledger.Available(Self, Cores))
}

func TestParseSnapshotMalformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", `{`},
		{"missing turn info", `{"p1Stats":[1,2,3],"p2Stats":[1,2,3]}`},
		{"missing stats", `{"turnInfo":[0,1,-1]}`},
		{"bad unit", `{"turnInfo":[0,1],"p1Stats":[1,2,3],"p2Stats":[1,2,3],"p1Units":[[["a",1]]]}`},
		{"short breach", `{"turnInfo":[0,1],"p1Stats":[1,2,3],"p2Stats":[1,2,3],"events":{"breach":[[[1,2],1]]}}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseSnapshot([]byte(tc.raw), DefaultCatalog())
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedSnapshot))
		})
	}
}

func TestParseBreaches(t *testing.T) {
	got, err := ParseBreaches([]byte(`{"events":{"breach":[[[3,13],1,3,"1",2],[[24,10],1,3,"2",1]]}}`))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.True(t, got[0].AgainstSelf())
	assert.False(t, got[1].AgainstSelf())

	got, err = ParseBreaches([]byte(`{"events":{}}`))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestCatalogFromConfig(t *testing.T) {
	raw := `{"unitInformation":[
		{"shorthand":"FF","cost":1},
		{"shorthand":"EF","cost":4},
		{"shorthand":"DF","cost":3,"damage":5,"attackRange":4},
		{"shorthand":"PI","cost":1},
		{"shorthand":"EI","cost":3},
		{"shorthand":"SI","cost":1}
	]}`
	cat, err := CatalogFromConfig([]byte(raw))
	require.NoError(t, err)

	spec := cat.Spec(Turret)
	assert.Equal(t, "DF", spec.Shorthand)
	assert.Equal(t, 5.0, spec.Damage)
	assert.Equal(t, 4.0, spec.Range)
	assert.Equal(t, Bits, cat.Spec(Heavy).Currency)

	kind, ok := cat.KindByShorthand("EI")
	assert.True(t, ok)
	assert.Equal(t, Heavy, kind)

	_, err = CatalogFromConfig([]byte(`{"unitInformation":[]}`))
	assert.Error(t, err)
}

func TestParseUnitKind(t *testing.T) {
	k, err := ParseUnitKind("Turret")
	require.NoError(t, err)
	assert.Equal(t, Turret, k)
	assert.True(t, k.Stationary())
	assert.True(t, Heavy.Mobile())

	_, err = ParseUnitKind("dragon")
	assert.Error(t, err)
}
