package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/nstehr/rampart/model"
	"github.com/nstehr/rampart/rules"
)

// Journal persists what the agent planned and observed. Failures are logged
// and never abort a turn.
type Journal interface {
	SaveTurn(ctx context.Context, turn int, commands []model.SpawnCommand, rep rules.Report, ledger *model.Ledger) error
	SaveBreach(ctx context.Context, rec rules.BreachRecord) error
	SaveEvent(ctx context.Context, turn int, kind, detail string) error
}

// Recorder counts agent activity for metrics.
type Recorder interface {
	TurnPlanned(ctx context.Context, rep rules.Report, commands int)
	BreachIngested(ctx context.Context, againstSelf bool)
	EventDetected(ctx context.Context, kind string)
}

var errNilSnapshot = errors.New("nil snapshot")

// Agent owns the decision-making for a single match.
type Agent struct {
	Planner  *rules.Planner
	Memory   *rules.Memory
	journal  Journal
	recorder Recorder

	mu       sync.Mutex // guards prev and breached
	prev     *turnSnapshot
	breached int // breaches against us since the last planned turn
}

// New wires an agent around planner. journal and recorder may be nil.
func New(planner *rules.Planner, journal Journal, recorder Recorder) *Agent {
	return &Agent{
		Planner:  planner,
		Memory:   planner.Memory(),
		journal:  journal,
		recorder: recorder,
	}
}

// PlanTurn computes this turn's spawn commands from a read-only snapshot.
// If ctx ends mid-plan the commands planned so far are returned together
// with the context error; they are still valid to submit.
func (a *Agent) PlanTurn(ctx context.Context, snap *model.Snapshot) ([]model.SpawnCommand, error) {
	if snap == nil {
		return nil, fmt.Errorf("plan turn: %w", errNilSnapshot)
	}

	turn := rules.NewTurn(snap)
	rep := a.Planner.Plan(ctx, turn)

	slog.Info("turn planned",
		"turn", snap.Turn,
		"commands", len(turn.Commands),
		"spawned", rep.Spawned(),
		"screened", rep.Screened,
		"attack", rep.Attack.Reason,
		"fire", rep.Attack.Fire,
		"cores", turn.Ledger.Available(model.Self, model.Cores),
		"bits", turn.Ledger.Available(model.Self, model.Bits),
		"breaches", a.Memory.Len(),
	)
	if rep.Attack.Probability > 0 {
		slog.Debug("attack decision",
			"unit", rep.Attack.Unit,
			"p", rep.Attack.Probability,
			"roll", rep.Attack.Roll,
			"launch", rep.Attack.Launch,
			"spawned", rep.Attack.Spawned,
		)
	}

	// journal and metrics must not be cut short by the turn deadline
	bg := context.WithoutCancel(ctx)
	a.observe(bg, snap)
	if a.recorder != nil {
		a.recorder.TurnPlanned(bg, rep, len(turn.Commands))
	}
	if a.journal != nil {
		if err := a.journal.SaveTurn(bg, snap.Turn, turn.Commands, rep, turn.Ledger); err != nil {
			slog.Error("journal turn failed", "turn", snap.Turn, "error", err)
		}
	}

	if rep.Interrupted {
		slog.Warn("turn planning interrupted", "turn", snap.Turn, "commands", len(turn.Commands))
		return turn.Commands, fmt.Errorf("plan turn %d: %w", snap.Turn, ctx.Err())
	}
	return turn.Commands, nil
}

// IngestBreach records ev in reactive memory when it scored on us and
// reports whether it was recorded. Delivering the same event twice counts
// it twice.
func (a *Agent) IngestBreach(ctx context.Context, ev model.BreachEvent, turn int) bool {
	against := ev.AgainstSelf()
	if a.recorder != nil {
		a.recorder.BreachIngested(ctx, against)
	}
	if !against {
		slog.Debug("breach scored", "x", ev.Coord.X, "y", ev.Coord.Y)
		return false
	}

	rec := rules.BreachRecord{Coord: ev.Coord, Owner: model.Opponent, Turn: turn}
	a.Memory.Record(rec)
	a.mu.Lock()
	a.breached++
	a.mu.Unlock()
	slog.Info("breached", "x", ev.Coord.X, "y", ev.Coord.Y, "turn", turn, "total", a.Memory.Len())

	if a.journal != nil {
		if err := a.journal.SaveBreach(ctx, rec); err != nil {
			slog.Error("journal breach failed", "error", err)
		}
	}
	return true
}

// HandleFrame ingests every breach carried by an action frame.
func (a *Agent) HandleFrame(ctx context.Context, snap *model.Snapshot) int {
	n := 0
	for _, ev := range snap.Breaches {
		if a.IngestBreach(ctx, ev, snap.Turn) {
			n++
		}
	}
	return n
}

// observe diffs snap against the previous planned turn and reports events.
func (a *Agent) observe(ctx context.Context, snap *model.Snapshot) {
	a.mu.Lock()
	cur := takeSnapshot(snap, a.breached)
	prev := a.prev
	a.prev = &cur
	a.breached = 0
	a.mu.Unlock()

	if prev == nil {
		return
	}
	for _, ev := range detectEvents(*prev, cur, snap.Turn) {
		slog.Info("game event", "kind", ev.Kind, "turn", ev.Turn, "detail", ev.Detail)
		if a.recorder != nil {
			a.recorder.EventDetected(ctx, string(ev.Kind))
		}
		if a.journal != nil {
			if err := a.journal.SaveEvent(ctx, ev.Turn, string(ev.Kind), ev.Detail); err != nil {
				slog.Error("journal event failed", "error", err)
			}
		}
	}
}
