package render

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/legiontrack/legiontrack/pkg/config"
	"github.com/legiontrack/legiontrack/pkg/trajectory"
)

// GeoJSON exports a trajectory set as a FeatureCollection: one
// LineString feature per satellite plus a point feature for the
// observer. Coordinates are lon/lat degrees per the GeoJSON spec.
type GeoJSON struct {
	Path string
}

// Render writes the feature collection to g.Path.
func (g *GeoJSON) Render(set *trajectory.Set, extent orb.Bound, obs config.Observer) error {
	fc := geojson.NewFeatureCollection()

	for _, name := range set.Names() {
		t, _ := set.Get(name)

		ls := make(orb.LineString, 0, len(t.Samples))
		for _, s := range t.Samples {
			ls = append(ls, orb.Point{s.LonDeg, s.LatDeg})
		}

		f := geojson.NewFeature(ls)
		f.Properties["name"] = name
		f.Properties["samples"] = len(t.Samples)
		if len(t.Samples) > 0 {
			f.Properties["start"] = t.Samples[0].At
			f.Properties["end"] = t.Samples[len(t.Samples)-1].At
		}
		fc.Append(f)
	}

	op := geojson.NewFeature(orb.Point{obs.Lon, obs.Lat})
	op.Properties["name"] = "observer"
	op.Properties["alt_m"] = obs.AltM
	fc.Append(op)

	data, err := json.MarshalIndent(fc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding geojson: %w", err)
	}

	if err := os.WriteFile(g.Path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", g.Path, err)
	}
	return nil
}
