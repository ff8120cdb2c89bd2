// Package predict runs the prediction pipeline end to end: build the
// time grid, gather element sets, collect trajectories, partition by
// altitude, and hand both trajectory sets to the exporters.
package predict

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/paulmach/orb"

	"github.com/legiontrack/legiontrack/pkg/config"
	"github.com/legiontrack/legiontrack/pkg/element"
	"github.com/legiontrack/legiontrack/pkg/timegrid"
	"github.com/legiontrack/legiontrack/pkg/trajectory"
)

// ErrNoUsableSatellites is returned when not a single configured
// satellite produced a trajectory. It is the only whole-run failure
// past configuration validation.
var ErrNoUsableSatellites = errors.New("no usable satellites")

// SkipReason says why a satellite was left out of a run.
type SkipReason string

const (
	ReasonElementSetUnavailable SkipReason = "element_set_unavailable"
	ReasonPropagationFailed     SkipReason = "propagation_failed"
)

// SkipEvent records one satellite skipped during a run. Skips are
// collected and reported, never silently swallowed.
type SkipEvent struct {
	NoradID int
	Name    string
	Reason  SkipReason
	Err     error
}

// Result is the output of a successful run. Filtered is always derived
// from the same pre-filter set as All, so the two are mutually
// consistent sample-for-sample.
type Result struct {
	Grid     *timegrid.Grid
	All      *trajectory.Set
	Filtered *trajectory.Set
	Skipped  []SkipEvent

	// QualifyingCounts maps satellite name to the number of samples at
	// or below the altitude threshold.
	QualifyingCounts map[string]int
}

// RenderExporter consumes a trajectory set and produces an artifact.
// The runner makes independent calls for the filtered and unfiltered
// sets; implementations must not share mutable state between calls.
type RenderExporter interface {
	Render(set *trajectory.Set, extent orb.Bound, obs config.Observer) error
}

// Runner wires the pipeline together for one run configuration.
type Runner struct {
	cfg      *config.Config
	source   element.Source
	all      []RenderExporter
	filtered []RenderExporter
	logger   *slog.Logger
}

// NewRunner creates a runner. Exporters in all receive the unfiltered
// set, exporters in filtered the altitude-filtered one.
func NewRunner(cfg *config.Config, source element.Source, all, filtered []RenderExporter, logger *slog.Logger) *Runner {
	return &Runner{
		cfg:      cfg,
		source:   source,
		all:      all,
		filtered: filtered,
		logger:   logger,
	}
}

// Run executes one prediction run starting at start. Per-satellite
// failures are isolated; the run only fails as a whole when zero
// satellites were usable or an exporter fails.
func (r *Runner) Run(ctx context.Context, start time.Time) (*Result, error) {
	grid, err := timegrid.New(start, r.cfg.PredictionDays, r.cfg.StepMinutes)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, config.ErrInvalid)
	}

	r.logger.Info("built time grid",
		"start", grid.Start().Format(time.RFC3339),
		"instants", grid.Len(),
		"step", grid.Step().String(),
	)

	sets, fetchSkips, err := r.gather(ctx)
	if err != nil {
		return nil, err
	}

	collected, failures := trajectory.Collect(sets, grid, r.logger)

	skipped := fetchSkips
	for _, f := range failures {
		skipped = append(skipped, SkipEvent{
			NoradID: f.NoradID,
			Name:    f.Name,
			Reason:  ReasonPropagationFailed,
			Err:     f.Err,
		})
	}

	if collected.Len() == 0 {
		return nil, fmt.Errorf("all %d configured satellites were skipped: %w",
			len(r.cfg.SatelliteIDs), ErrNoUsableSatellites)
	}

	filtered := trajectory.FilterSet(collected, r.cfg.MaxAltitudeKm)

	counts := make(map[string]int, collected.Len())
	for _, name := range collected.Names() {
		n := 0
		if ft, ok := filtered.Get(name); ok {
			n = len(ft.Samples)
		}
		counts[name] = n
		r.logger.Info("qualifying samples",
			"name", name,
			"below_km", r.cfg.MaxAltitudeKm,
			"count", n,
			"total", grid.Len(),
		)
	}

	extent := r.cfg.Extent()
	for _, ex := range r.filtered {
		if err := ex.Render(filtered, extent, r.cfg.Observer); err != nil {
			return nil, fmt.Errorf("exporting filtered trajectories: %w", err)
		}
	}
	for _, ex := range r.all {
		if err := ex.Render(collected, extent, r.cfg.Observer); err != nil {
			return nil, fmt.Errorf("exporting trajectories: %w", err)
		}
	}

	return &Result{
		Grid:             grid,
		All:              collected,
		Filtered:         filtered,
		Skipped:          skipped,
		QualifyingCounts: counts,
	}, nil
}

// gather fetches element sets for all configured satellites and maps
// absences to skip events.
func (r *Runner) gather(ctx context.Context) ([]element.Set, []SkipEvent, error) {
	sets, skips := element.FetchAll(ctx, r.source, r.cfg.SatelliteIDs, r.cfg.TLE.Concurrency, r.logger)

	events := make([]SkipEvent, 0, len(skips))
	for _, s := range skips {
		events = append(events, SkipEvent{
			NoradID: s.NoradID,
			Reason:  ReasonElementSetUnavailable,
			Err:     s.Err,
		})
	}

	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	return sets, events, nil
}
