package pathing

import (
	"errors"
	"fmt"

	"github.com/nstehr/rampart/model"
)

// ErrNoCandidates is returned when a lowest-risk choice is requested over
// an empty candidate list. It points at a configuration bug, not a board
// state.
var ErrNoCandidates = errors.New("no launch candidates")

// Estimator scores launch cells for units owned by owner.
type Estimator struct {
	sim   *Simulator
	board *model.Board
	owner int
}

// NewEstimator returns an estimator over board for the given unit owner.
func NewEstimator(board *model.Board, owner int) *Estimator {
	return &Estimator{sim: NewSimulator(board), board: board, owner: owner}
}

// EstimateRisk sums, over every cell of the route from start, the damage of
// each hostile stationary unit whose range covers that cell.
func (e *Estimator) EstimateRisk(start model.Coordinate) float64 {
	catalog := e.board.Catalog()
	risk := 0.0
	for c := range e.sim.Route(start) {
		for u := range e.board.Attackers(c, e.owner) {
			risk += catalog.Spec(u.Kind).Damage
		}
	}
	return risk
}

// ChooseLowestRisk returns the candidate with the smallest risk. The first
// minimal candidate in input order wins.
func (e *Estimator) ChooseLowestRisk(candidates []model.Coordinate) (model.Coordinate, error) {
	if len(candidates) == 0 {
		return model.Coordinate{}, fmt.Errorf("choose lowest risk: %w", ErrNoCandidates)
	}
	best := candidates[0]
	bestRisk := e.EstimateRisk(best)
	for _, c := range candidates[1:] {
		if r := e.EstimateRisk(c); r < bestRisk {
			best, bestRisk = c, r
		}
	}
	return best, nil
}
