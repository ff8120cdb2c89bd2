package element

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

// Source yields the current element set for a satellite, or an error
// wrapping ErrUnavailable when none can be obtained. Implementations
// must not surface transport-level failures as anything else.
type Source interface {
	Fetch(ctx context.Context, noradID int) (Set, error)
}

// Skip records one satellite that yielded no usable element set.
type Skip struct {
	NoradID int
	Err     error
}

// FetchAll fetches element sets for all ids with at most concurrency
// in-flight requests. Results keep the order of ids regardless of
// completion order; satellites without a usable element set are
// collected as skips and do not affect the rest.
func FetchAll(ctx context.Context, src Source, ids []int, concurrency int, logger *slog.Logger) ([]Set, []Skip) {
	if concurrency <= 0 {
		concurrency = 1
	}

	results := make([]*Set, len(ids))
	fetchErrs := make([]error, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			set, err := src.Fetch(gctx, id)
			if err != nil {
				fetchErrs[i] = err
				return nil // per-satellite failures never abort the batch
			}
			results[i] = &set
			return nil
		})
	}

	// Workers only record into their own slot, so the only error source
	// is context cancellation, which shows up per satellite anyway.
	_ = g.Wait()

	sets := make([]Set, 0, len(ids))
	var skips []Skip
	for i, id := range ids {
		if results[i] != nil {
			sets = append(sets, *results[i])
			continue
		}
		err := fetchErrs[i]
		if err == nil {
			err = ErrUnavailable
		}
		if !errors.Is(err, ErrUnavailable) {
			err = errors.Join(ErrUnavailable, err)
		}
		logger.Warn("skipping satellite without usable element set", "norad_id", id, "error", err)
		skips = append(skips, Skip{NoradID: id, Err: err})
	}

	return sets, skips
}
