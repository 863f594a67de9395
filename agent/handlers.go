package agent

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nstehr/rampart/ipc"
	"github.com/nstehr/rampart/model"
)

// Renderer draws a planned turn somewhere a human can look at it.
type Renderer interface {
	RenderTurn(snap *model.Snapshot, commands []model.SpawnCommand) error
}

// Session adapts an Agent to the match protocol. The catalog starts as the
// default table and is replaced by the match's own config line.
type Session struct {
	Agent    *Agent
	Catalog  *model.Catalog
	Renderer Renderer
}

func NewSession(a *Agent) *Session {
	return &Session{Agent: a, Catalog: model.DefaultCatalog()}
}

// Register installs the session's handlers on conn.
func (s *Session) Register(conn *ipc.Connection) {
	conn.RegisterHandler(ipc.TypeConfig, s.HandleConfig)
	conn.RegisterHandler(ipc.TypeTurn, s.HandleTurn)
	conn.RegisterHandler(ipc.TypeAction, s.HandleAction)
	conn.RegisterHandler(ipc.TypeEnd, s.HandleEnd)
}

// HandleConfig loads the unit table for the match.
func (s *Session) HandleConfig(_ context.Context, line []byte) (*ipc.Submission, error) {
	catalog, err := model.CatalogFromConfig(line)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	s.Catalog = catalog
	slog.Info("catalog loaded",
		"wall", catalog.Shorthand(model.Wall),
		"support", catalog.Shorthand(model.Support),
		"turret", catalog.Shorthand(model.Turret),
		"fast", catalog.Shorthand(model.Fast),
		"heavy", catalog.Shorthand(model.Heavy),
		"debuff", catalog.Shorthand(model.Debuff),
	)
	return nil, nil
}

// HandleTurn plans and encodes one turn. A malformed frame is returned as
// an error; the connection then submits an empty turn.
func (s *Session) HandleTurn(ctx context.Context, line []byte) (*ipc.Submission, error) {
	snap, err := model.ParseSnapshot(line, s.Catalog)
	if err != nil {
		return nil, fmt.Errorf("parse turn: %w", err)
	}

	commands, err := s.Agent.PlanTurn(ctx, snap)
	sub := ipc.NewSubmission(s.Catalog, commands)

	if s.Renderer != nil {
		if rerr := s.Renderer.RenderTurn(snap, commands); rerr != nil {
			slog.Warn("render failed", "turn", snap.Turn, "error", rerr)
		}
	}
	return sub, err
}

// HandleAction ingests breaches from one resolution frame.
func (s *Session) HandleAction(ctx context.Context, line []byte) (*ipc.Submission, error) {
	snap, err := model.ParseSnapshot(line, s.Catalog)
	if err != nil {
		return nil, fmt.Errorf("parse action frame: %w", err)
	}
	s.Agent.HandleFrame(ctx, snap)
	return nil, nil
}

// HandleEnd logs the final state of the match.
func (s *Session) HandleEnd(_ context.Context, line []byte) (*ipc.Submission, error) {
	snap, err := model.ParseSnapshot(line, s.Catalog)
	if err != nil {
		return nil, fmt.Errorf("parse end frame: %w", err)
	}
	slog.Info("match over",
		"turn", snap.Turn,
		"health", snap.Health[model.Self],
		"enemyHealth", snap.Health[model.Opponent],
		"breaches", s.Agent.Memory.Len(),
	)
	return nil, nil
}
