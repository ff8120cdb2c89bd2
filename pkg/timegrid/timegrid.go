// Package timegrid builds the evaluation instants for a prediction run.
package timegrid

import (
	"fmt"
	"time"
)

// Grid is an ordered, evenly spaced sequence of UTC instants covering a
// prediction window. It is immutable after construction and shared
// read-only across all satellites in a run.
type Grid struct {
	start    time.Time
	step     time.Duration
	instants []time.Time
}

// New builds a grid starting at start (converted to UTC) covering days
// days at stepMinutes intervals. Both endpoints are included, so the
// grid has days*24*60/stepMinutes + 1 instants; when the step does not
// divide the window evenly the last instant is the largest one inside
// the window.
func New(start time.Time, days, stepMinutes int) (*Grid, error) {
	if days <= 0 {
		return nil, fmt.Errorf("prediction days must be positive, got %d", days)
	}
	if stepMinutes <= 0 {
		return nil, fmt.Errorf("step minutes must be positive, got %d", stepMinutes)
	}

	start = start.UTC()
	step := time.Duration(stepMinutes) * time.Minute
	n := (days * 24 * 60) / stepMinutes

	instants := make([]time.Time, n+1)
	for i := 0; i <= n; i++ {
		instants[i] = start.Add(time.Duration(i) * step)
	}

	return &Grid{
		start:    start,
		step:     step,
		instants: instants,
	}, nil
}

// Start returns the first instant of the grid.
func (g *Grid) Start() time.Time {
	return g.start
}

// Step returns the spacing between consecutive instants.
func (g *Grid) Step() time.Duration {
	return g.step
}

// Len returns the number of instants.
func (g *Grid) Len() int {
	return len(g.instants)
}

// At returns the i-th instant.
func (g *Grid) At(i int) time.Time {
	return g.instants[i]
}

// Instants returns the instants in order. Callers must not modify the
// returned slice.
func (g *Grid) Instants() []time.Time {
	return g.instants
}
