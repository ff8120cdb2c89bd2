package trajectory

// FilterAltitude returns the order-preserving subsequence of samples at
// or below maxKm. Filtering is a projection: it never mutates its input
// and is idempotent for a fixed threshold.
func FilterAltitude(t *Trajectory, maxKm float64) *Trajectory {
	kept := make([]Sample, 0, len(t.Samples))
	for _, s := range t.Samples {
		if s.AltKm <= maxKm {
			kept = append(kept, s)
		}
	}
	return &Trajectory{Name: t.Name, Samples: kept}
}

// FilterSet applies FilterAltitude to every trajectory in s. Satellites
// with no qualifying samples are omitted from the result rather than
// kept as zero-length entries, so consumers iterating the filtered set
// only ever see drawable trajectories.
func FilterSet(s *Set, maxKm float64) *Set {
	out := NewSet()
	for _, name := range s.Names() {
		t, _ := s.Get(name)
		f := FilterAltitude(t, maxKm)
		if len(f.Samples) == 0 {
			continue
		}
		out.Add(f)
	}
	return out
}
