package trajectory

import (
	"fmt"
	"log/slog"

	"github.com/legiontrack/legiontrack/pkg/element"
	"github.com/legiontrack/legiontrack/pkg/propagation"
	"github.com/legiontrack/legiontrack/pkg/timegrid"
)

// Failure records one satellite whose element set could not be
// propagated. The rest of the run is unaffected.
type Failure struct {
	NoradID int
	Name    string
	Err     error
}

// Collect evaluates every element set across the grid and assembles one
// trajectory per satellite, keyed by display name. Satellites whose
// element set cannot be propagated are omitted from the result and
// returned as failures; one bad element set never aborts the run.
func Collect(sets []element.Set, grid *timegrid.Grid, logger *slog.Logger) (*Set, []Failure) {
	out := NewSet()
	var failures []Failure

	for _, es := range sets {
		traj, err := collectOne(es, grid)
		if err != nil {
			logger.Warn("propagation failed, skipping satellite",
				"norad_id", es.NoradID, "name", es.Name, "error", err)
			failures = append(failures, Failure{NoradID: es.NoradID, Name: es.Name, Err: err})
			continue
		}
		out.Add(traj)
	}

	return out, failures
}

func collectOne(es element.Set, grid *timegrid.Grid) (*Trajectory, error) {
	prop, err := propagation.New(es.Line1, es.Line2)
	if err != nil {
		return nil, fmt.Errorf("initializing propagator: %w", err)
	}

	points, err := prop.Positions(grid.Instants())
	if err != nil {
		return nil, fmt.Errorf("propagating: %w", err)
	}

	samples := make([]Sample, len(points))
	for i, p := range points {
		samples[i] = Sample{
			At:     grid.At(i),
			LatDeg: p.LatDeg,
			LonDeg: p.LonDeg,
			AltKm:  p.AltKm,
			AltM:   p.AltKm * 1000.0,
		}
	}

	return &Trajectory{Name: es.Name, Samples: samples}, nil
}
