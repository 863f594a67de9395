package agent

import (
	"context"
	"log/slog"
	"sync"

	"github.com/nstehr/rampart/rules"
)

// Strategist runs in the background and swaps the planner's strategy when a
// new one is proposed (typically after the config file changed). The
// planner reads its strategy once per turn, so a swap never lands mid-turn.
type Strategist struct {
	mu      sync.Mutex
	planner *rules.Planner
	pending *rules.Strategy
	ready   chan struct{}
	swaps   int
}

func NewStrategist(planner *rules.Planner) *Strategist {
	return &Strategist{
		planner: planner,
		ready:   make(chan struct{}, 1),
	}
}

// Propose queues s for the next swap. Only the latest proposal is kept.
func (s *Strategist) Propose(st rules.Strategy) {
	s.mu.Lock()
	s.pending = &st
	s.mu.Unlock()

	select {
	case s.ready <- struct{}{}:
	default:
	}
}

// Swaps returns how many proposals have been applied.
func (s *Strategist) Swaps() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.swaps
}

// Start launches the strategist loop. It blocks until ctx is cancelled.
func (s *Strategist) Start(ctx context.Context) {
	slog.Info("strategist started", "strategy", s.planner.Strategy().Name)
	for {
		select {
		case <-ctx.Done():
			slog.Info("strategist stopped")
			return
		case <-s.ready:
			s.apply()
		}
	}
}

func (s *Strategist) apply() {
	s.mu.Lock()
	st := s.pending
	s.pending = nil
	s.mu.Unlock()

	if st == nil {
		return
	}
	if err := s.planner.Swap(*st); err != nil {
		slog.Error("strategist swap failed", "strategy", st.Name, "error", err)
		return
	}

	s.mu.Lock()
	s.swaps++
	s.mu.Unlock()
}
