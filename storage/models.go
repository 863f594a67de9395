package storage

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// DatabaseModels lists every table of the journal schema.
var DatabaseModels = []interface{}{
	&Match{},
	&TurnRecord{},
	&BreachRecord{},
	&EventRecord{},
}

// Match is one run of the bot. Everything else hangs off it.
type Match struct {
	gorm.Model
	StartTime time.Time `json:"startTime" gorm:"index:idx_match_start"`
	Seed      uint64    `json:"seed"`
	Strategy  string    `json:"strategy" gorm:"size:127"`

	Turns    []TurnRecord
	Breaches []BreachRecord
	Events   []EventRecord
}

// TurnRecord is one planned turn. Commands holds the SpawnCommand list and
// Tiers the per-tier results as JSON.
type TurnRecord struct {
	ID          uint           `json:"id" gorm:"primarykey;autoIncrement"`
	MatchID     uint           `json:"matchId" gorm:"index:idx_turn_match_id"`
	Match       Match          `json:"-" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;foreignkey:MatchID;"`
	Turn        int            `json:"turn" gorm:"index:idx_turn_turn"`
	Commands    datatypes.JSON `json:"commands"`
	Tiers       datatypes.JSON `json:"tiers"`
	Spawned     int            `json:"spawned"`
	Screened    int            `json:"screened"`
	CoresLeft   float64        `json:"coresLeft"`
	BitsLeft    float64        `json:"bitsLeft"`
	AttackUnit  string         `json:"attackUnit" gorm:"size:16"`
	AttackP     float64        `json:"attackP"`
	AttackRoll  float64        `json:"attackRoll"`
	AttackFired bool           `json:"attackFired"`
	AttackNote  string         `json:"attackNote" gorm:"size:64"`
	Interrupted bool           `json:"interrupted"`
	CreatedAt   time.Time      `json:"createdAt"`
}

// BreachRecord is one breach against us.
type BreachRecord struct {
	ID        uint      `json:"id" gorm:"primarykey;autoIncrement"`
	MatchID   uint      `json:"matchId" gorm:"index:idx_breach_match_id"`
	Match     Match     `json:"-" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;foreignkey:MatchID;"`
	Turn      int       `json:"turn"`
	X         int       `json:"x"`
	Y         int       `json:"y"`
	Owner     int       `json:"owner"`
	CreatedAt time.Time `json:"createdAt"`
}

// EventRecord is one detected game event.
type EventRecord struct {
	ID        uint      `json:"id" gorm:"primarykey;autoIncrement"`
	MatchID   uint      `json:"matchId" gorm:"index:idx_event_match_id"`
	Match     Match     `json:"-" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;foreignkey:MatchID;"`
	Turn      int       `json:"turn"`
	Kind      string    `json:"kind" gorm:"size:32;index:idx_event_kind"`
	Detail    string    `json:"detail" gorm:"size:255"`
	CreatedAt time.Time `json:"createdAt"`
}
