package agent

import (
	"fmt"

	"github.com/nstehr/rampart/model"
)

// EventKind identifies a notable change between two planned turns.
type EventKind string

const (
	EventFirstContact  EventKind = "first_contact"   // opponent placed its first stationary unit
	EventEnemyBuildup  EventKind = "enemy_buildup"   // opponent added several turrets in one turn
	EventHealthLost    EventKind = "health_lost"     // we lost health since last turn
	EventBreachSurge   EventKind = "breach_surge"    // several breaches in one resolution
	EventEnemyBank     EventKind = "enemy_bank"      // opponent banked enough bits for a big push
	EventEnemyBankDrop EventKind = "enemy_bank_drop" // opponent spent the bank
)

// Event is a notable change detected by diffing consecutive turns.
type Event struct {
	Kind   EventKind
	Turn   int
	Detail string
}

const (
	buildupThreshold = 3  // new enemy turrets in one turn
	surgeThreshold   = 3  // breaches in one resolution
	bankThreshold    = 14 // enemy bits that max out the screen
)

// turnSnapshot captures the diffable fields of a turn.
type turnSnapshot struct {
	health       [2]float64
	enemyUnits   int
	enemyTurrets int
	enemyBits    float64
	breaches     int
}

func takeSnapshot(snap *model.Snapshot, breaches int) turnSnapshot {
	turret := model.Turret
	return turnSnapshot{
		health:       snap.Health,
		enemyUnits:   snap.Board.CountUnits(model.Opponent, nil, nil, nil),
		enemyTurrets: snap.Board.CountUnits(model.Opponent, &turret, nil, nil),
		enemyBits:    snap.Ledger.Available(model.Opponent, model.Bits),
		breaches:     breaches,
	}
}

// detectEvents compares two consecutive turns.
func detectEvents(prev, cur turnSnapshot, turn int) []Event {
	var events []Event

	if prev.enemyUnits == 0 && cur.enemyUnits > 0 {
		events = append(events, Event{
			Kind:   EventFirstContact,
			Turn:   turn,
			Detail: fmt.Sprintf("opponent fielded %d stationary units", cur.enemyUnits),
		})
	}

	if added := cur.enemyTurrets - prev.enemyTurrets; added >= buildupThreshold {
		events = append(events, Event{
			Kind:   EventEnemyBuildup,
			Turn:   turn,
			Detail: fmt.Sprintf("opponent added %d turrets (now %d)", added, cur.enemyTurrets),
		})
	}

	if lost := prev.health[model.Self] - cur.health[model.Self]; lost > 0 {
		events = append(events, Event{
			Kind:   EventHealthLost,
			Turn:   turn,
			Detail: fmt.Sprintf("lost %.0f health (now %.0f)", lost, cur.health[model.Self]),
		})
	}

	if cur.breaches >= surgeThreshold {
		events = append(events, Event{
			Kind:   EventBreachSurge,
			Turn:   turn,
			Detail: fmt.Sprintf("%d breaches last resolution", cur.breaches),
		})
	}

	switch {
	case prev.enemyBits < bankThreshold && cur.enemyBits >= bankThreshold:
		events = append(events, Event{
			Kind:   EventEnemyBank,
			Turn:   turn,
			Detail: fmt.Sprintf("opponent holds %.1f bits", cur.enemyBits),
		})
	case prev.enemyBits >= bankThreshold && cur.enemyBits < bankThreshold:
		events = append(events, Event{
			Kind:   EventEnemyBankDrop,
			Turn:   turn,
			Detail: fmt.Sprintf("opponent bits fell to %.1f", cur.enemyBits),
		})
	}

	return events
}
