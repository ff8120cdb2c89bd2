// Package trajectory holds evaluated ground tracks and the operations
// that produce them: collecting per-satellite position series over a
// time grid and partitioning them by altitude.
package trajectory

import "time"

// Sample is one evaluated point for one satellite at one instant.
// Samples are never mutated after creation.
type Sample struct {
	At     time.Time
	LatDeg float64
	LonDeg float64
	AltKm  float64
	AltM   float64
}

// Trajectory is an ordered sequence of samples for one satellite,
// aligned index-for-index with the time grid it was collected over, or
// a subsequence of such a series after filtering.
type Trajectory struct {
	Name    string
	Samples []Sample
}

// Set maps satellite display names to trajectories, preserving
// insertion order so runs produce reproducible output.
type Set struct {
	names  []string
	byName map[string]*Trajectory
}

// NewSet creates an empty Set.
func NewSet() *Set {
	return &Set{byName: make(map[string]*Trajectory)}
}

// Add inserts a trajectory, replacing any previous entry of the same
// name without disturbing the original position.
func (s *Set) Add(t *Trajectory) {
	if _, ok := s.byName[t.Name]; !ok {
		s.names = append(s.names, t.Name)
	}
	s.byName[t.Name] = t
}

// Get returns the trajectory for name.
func (s *Set) Get(name string) (*Trajectory, bool) {
	t, ok := s.byName[name]
	return t, ok
}

// Names returns the satellite names in insertion order. Callers must
// not modify the returned slice.
func (s *Set) Names() []string {
	return s.names
}

// Len returns the number of trajectories.
func (s *Set) Len() int {
	return len(s.names)
}
