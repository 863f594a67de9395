package ipc

import (
	"encoding/json"
	"errors"
	"fmt"
)

// MessageType classifies one line from the match engine.
type MessageType string

const (
	TypeConfig MessageType = "config" // first line: game rules and unit table
	TypeTurn   MessageType = "turn"   // start of our turn; a submission is expected
	TypeAction MessageType = "action" // one simulated frame of turn resolution
	TypeEnd    MessageType = "end"    // match over
)

var ErrUnknownMessage = errors.New("unknown message")

// probe holds just enough of a line to classify it.
type probe struct {
	UnitInformation json.RawMessage `json:"unitInformation"`
	TurnInfo        []int           `json:"turnInfo"`
}

// Classify reports what kind of message line is.
func Classify(line []byte) (MessageType, error) {
	var p probe
	if err := json.Unmarshal(line, &p); err != nil {
		return "", fmt.Errorf("classify: %w", err)
	}
	if len(p.UnitInformation) > 0 {
		return TypeConfig, nil
	}
	if len(p.TurnInfo) == 0 {
		return "", fmt.Errorf("classify: %w: no turnInfo", ErrUnknownMessage)
	}
	switch p.TurnInfo[0] {
	case 0:
		return TypeTurn, nil
	case 1:
		return TypeAction, nil
	case 2:
		return TypeEnd, nil
	}
	return "", fmt.Errorf("classify: %w: phase %d", ErrUnknownMessage, p.TurnInfo[0])
}
