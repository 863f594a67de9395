// Package storage journals turns, breaches and events of a match to SQLite
// so a game can be inspected afterwards.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/nstehr/rampart/model"
	"github.com/nstehr/rampart/rules"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Journal writes one match to a SQLite database.
type Journal struct {
	db    *gorm.DB
	match Match
}

// Open opens (or creates) the database at path, migrates the schema and
// starts a new match row. ":memory:" gives a throwaway in-memory journal.
func Open(path string, seed uint64, strategy string) (*Journal, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open journal %s: %w", path, err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL;",
		"PRAGMA synchronous = NORMAL;",
		"PRAGMA foreign_keys = ON;",
	}
	for _, pragma := range pragmas {
		if err := db.Exec(pragma).Error; err != nil {
			return nil, fmt.Errorf("error setting PRAGMA: %w", err)
		}
	}

	if err := db.AutoMigrate(DatabaseModels...); err != nil {
		return nil, fmt.Errorf("migrate journal: %w", err)
	}

	j := &Journal{db: db, match: Match{StartTime: time.Now().UTC(), Seed: seed, Strategy: strategy}}
	if err := db.Create(&j.match).Error; err != nil {
		return nil, fmt.Errorf("create match: %w", err)
	}
	return j, nil
}

// MatchID is the id of the match row this journal writes to.
func (j *Journal) MatchID() uint { return j.match.ID }

// SaveTurn stores one planned turn.
func (j *Journal) SaveTurn(ctx context.Context, turn int, commands []model.SpawnCommand, rep rules.Report, ledger *model.Ledger) error {
	if commands == nil {
		commands = []model.SpawnCommand{}
	}
	cmdJSON, err := json.Marshal(commands)
	if err != nil {
		return fmt.Errorf("marshal commands: %w", err)
	}
	tiers := rep.Tiers
	if tiers == nil {
		tiers = []rules.TierResult{}
	}
	tierJSON, err := json.Marshal(tiers)
	if err != nil {
		return fmt.Errorf("marshal tiers: %w", err)
	}

	rec := TurnRecord{
		MatchID:     j.match.ID,
		Turn:        turn,
		Commands:    datatypes.JSON(cmdJSON),
		Tiers:       datatypes.JSON(tierJSON),
		Spawned:     rep.Spawned(),
		Screened:    rep.Screened,
		CoresLeft:   ledger.Available(model.Self, model.Cores),
		BitsLeft:    ledger.Available(model.Self, model.Bits),
		AttackP:     rep.Attack.Probability,
		AttackRoll:  rep.Attack.Roll,
		AttackFired: rep.Attack.Fire && !rep.Attack.Skipped,
		AttackNote:  rep.Attack.Reason,
		Interrupted: rep.Interrupted,
	}
	if rep.Attack.Probability > 0 {
		rec.AttackUnit = rep.Attack.Unit.String()
	}
	if err := j.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return fmt.Errorf("save turn %d: %w", turn, err)
	}
	return nil
}

// SaveBreach stores one breach against us.
func (j *Journal) SaveBreach(ctx context.Context, b rules.BreachRecord) error {
	rec := BreachRecord{MatchID: j.match.ID, Turn: b.Turn, X: b.Coord.X, Y: b.Coord.Y, Owner: b.Owner}
	if err := j.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return fmt.Errorf("save breach: %w", err)
	}
	return nil
}

// SaveEvent stores one detected event.
func (j *Journal) SaveEvent(ctx context.Context, turn int, kind, detail string) error {
	rec := EventRecord{MatchID: j.match.ID, Turn: turn, Kind: kind, Detail: detail}
	if err := j.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return fmt.Errorf("save event: %w", err)
	}
	return nil
}

// Turns returns this match's turns in order.
func (j *Journal) Turns(ctx context.Context) ([]TurnRecord, error) {
	var out []TurnRecord
	err := j.db.WithContext(ctx).Where("match_id = ?", j.match.ID).Order("turn, id").Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("list turns: %w", err)
	}
	return out, nil
}

// Breaches returns this match's breaches in arrival order.
func (j *Journal) Breaches(ctx context.Context) ([]BreachRecord, error) {
	var out []BreachRecord
	if err := j.db.WithContext(ctx).Where("match_id = ?", j.match.ID).Order("id").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list breaches: %w", err)
	}
	return out, nil
}

// Events returns this match's events, optionally filtered by kind.
func (j *Journal) Events(ctx context.Context, kind string) ([]EventRecord, error) {
	q := j.db.WithContext(ctx).Where("match_id = ?", j.match.ID)
	if kind != "" {
		q = q.Where("kind = ?", kind)
	}
	var out []EventRecord
	if err := q.Order("id").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return out, nil
}

// SpawnCommands decodes the spawn commands stored on a turn.
func (r TurnRecord) SpawnCommands() ([]model.SpawnCommand, error) {
	var out []model.SpawnCommand
	if err := json.Unmarshal(r.Commands, &out); err != nil {
		return nil, fmt.Errorf("decode commands: %w", err)
	}
	return out, nil
}

// Close closes the underlying database.
func (j *Journal) Close() error {
	sqlDB, err := j.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
