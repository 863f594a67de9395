package ipc

import "github.com/nstehr/rampart/model"

// Placement is one unit on the wire: [shorthand, x, y].
type Placement [3]any

// Submission is a full turn for the match engine: stationary placements
// first, mobile deployments second. Each unit gets its own entry.
type Submission struct {
	Build  []Placement
	Deploy []Placement
}

// EmptySubmission ends a turn without placing anything.
func EmptySubmission() *Submission {
	return &Submission{Build: []Placement{}, Deploy: []Placement{}}
}

// NewSubmission expands commands into per-unit placements.
func NewSubmission(catalog *model.Catalog, commands []model.SpawnCommand) *Submission {
	sub := EmptySubmission()
	for _, c := range commands {
		p := Placement{catalog.Shorthand(c.Kind), c.Coord.X, c.Coord.Y}
		for range c.Count {
			if c.Kind.Stationary() {
				sub.Build = append(sub.Build, p)
			} else {
				sub.Deploy = append(sub.Deploy, p)
			}
		}
	}
	return sub
}

// Units is the number of placements in the submission.
func (s *Submission) Units() int {
	return len(s.Build) + len(s.Deploy)
}
