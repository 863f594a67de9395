package ipc

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/nstehr/rampart/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadLine(t *testing.T) {
	r := bufio.NewReader(strings.NewReader("{\"a\":1}\n\n  \n{\"b\":2}"))

	first, err := ReadLine(r)
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(first))

	second, err := ReadLine(r)
	require.NoError(t, err)
	assert.Equal(t, `{"b":2}`, string(second), "last line may lack a newline")

	_, err = ReadLine(r)
	assert.True(t, errors.Is(err, io.EOF))
}

func TestWriteLine(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteLine(&buf, []Placement{{"FF", 0, 13}}))
	assert.Equal(t, "[[\"FF\",0,13]]\n", buf.String())
}

func TestClassify(t *testing.T) {
	tests := []struct {
		line    string
		want    MessageType
		wantErr bool
	}{
		{`{"unitInformation":[{"shorthand":"FF"}]}`, TypeConfig, false},
		{`{"turnInfo":[0,3,-1]}`, TypeTurn, false},
		{`{"turnInfo":[1,3,12]}`, TypeAction, false},
		{`{"turnInfo":[2,40,0]}`, TypeEnd, false},
		{`{"turnInfo":[7,1,0]}`, "", true},
		{`{"p1Stats":[30,1,1]}`, "", true},
		{`not json`, "", true},
	}
	for _, tt := range tests {
		got, err := Classify([]byte(tt.line))
		if tt.wantErr {
			assert.Error(t, err, tt.line)
			continue
		}
		require.NoError(t, err, tt.line)
		assert.Equal(t, tt.want, got, tt.line)
	}
}

func TestNewSubmissionOneEntryPerUnit(t *testing.T) {
	sub := NewSubmission(model.DefaultCatalog(), []model.SpawnCommand{
		{Kind: model.Support, Coord: model.C(2, 13), Count: 1},
		{Kind: model.Debuff, Coord: model.C(19, 5), Count: 2},
		{Kind: model.Turret, Coord: model.C(22, 12), Count: 1},
		{Kind: model.Fast, Coord: model.C(13, 0), Count: 3},
	})

	assert.Equal(t, []Placement{{"EF", 2, 13}, {"DF", 22, 12}}, sub.Build)
	assert.Equal(t, []Placement{
		{"SI", 19, 5}, {"SI", 19, 5},
		{"PI", 13, 0}, {"PI", 13, 0}, {"PI", 13, 0},
	}, sub.Deploy)
	assert.Equal(t, 7, sub.Units())
}
