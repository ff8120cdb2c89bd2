// Package propagation drives SGP4 orbit propagation and derives the
// geodetic subpoint for each evaluated instant.
//
// SGP4 library: github.com/joshuaferrara/go-satellite. Pure Go, TEME
// output, and a companion ECI-to-geodetic conversion so the reference
// ellipsoid model stays inside the library rather than being
// reimplemented here.
//
// Note: the library's Propagate takes Satellite by value, so SGP4 error
// codes after init are not visible to the caller. Propagation failures
// are detected by checking the output for NaN/Inf and unreasonable
// position magnitudes.
package propagation

import (
	"fmt"
	"math"
	"strings"
	"time"

	satellite "github.com/joshuaferrara/go-satellite"
)

// Geodetic is the subpoint of a propagated position: latitude and
// longitude in degrees, altitude above the reference ellipsoid in km.
type Geodetic struct {
	LatDeg float64
	LonDeg float64
	AltKm  float64
}

// SGP4 propagates a single satellite from its element set.
type SGP4 struct {
	sat satellite.Satellite
}

// New initializes an SGP4 propagator from TLE lines. Returns an error
// if the lines are malformed or the SGP4 model fails to initialize.
//
// The lines are pre-validated because go-satellite calls log.Fatal on
// input it cannot parse, which would kill the process.
func New(line1, line2 string) (*SGP4, error) {
	if err := validateLines(line1, line2); err != nil {
		return nil, err
	}

	sat := satellite.TLEToSat(strings.TrimSpace(line1), strings.TrimSpace(line2), satellite.GravityWGS84)
	if sat.Error != 0 {
		return nil, fmt.Errorf("sgp4 init failed: code=%d %s", sat.Error, sat.ErrorStr)
	}
	return &SGP4{sat: sat}, nil
}

func validateLines(line1, line2 string) error {
	line1 = strings.TrimSpace(line1)
	line2 = strings.TrimSpace(line2)

	if len(line1) != 69 {
		return fmt.Errorf("line1 length %d, expected 69", len(line1))
	}
	if len(line2) != 69 {
		return fmt.Errorf("line2 length %d, expected 69", len(line2))
	}
	if line1[0] != '1' {
		return fmt.Errorf("line1 must start with '1', got '%c'", line1[0])
	}
	if line2[0] != '2' {
		return fmt.Errorf("line2 must start with '2', got '%c'", line2[0])
	}
	return nil
}

// Positions evaluates the satellite at every instant and returns the
// geodetic subpoints in the same order. A failure at any instant fails
// the whole satellite so that a successful result is always aligned
// index-for-index with the input.
func (p *SGP4) Positions(times []time.Time) ([]Geodetic, error) {
	out := make([]Geodetic, len(times))
	for i, t := range times {
		g, err := p.At(t)
		if err != nil {
			return nil, fmt.Errorf("instant %d (%s): %w", i, t.Format(time.RFC3339), err)
		}
		out[i] = g
	}
	return out, nil
}

// At evaluates the satellite at a single instant.
func (p *SGP4) At(t time.Time) (Geodetic, error) {
	t = t.UTC()
	pos, _ := satellite.Propagate(p.sat, t.Year(), int(t.Month()), t.Day(), t.Hour(), t.Minute(), t.Second())

	if math.IsNaN(pos.X) || math.IsNaN(pos.Y) || math.IsNaN(pos.Z) ||
		math.IsInf(pos.X, 0) || math.IsInf(pos.Y, 0) || math.IsInf(pos.Z, 0) {
		return Geodetic{}, fmt.Errorf("sgp4 propagation failed: output is NaN/Inf")
	}

	// Magnitude should sit between ~6200km (decayed LEO) and ~50000km
	// (beyond GEO); anything else means the model diverged.
	mag := math.Sqrt(pos.X*pos.X + pos.Y*pos.Y + pos.Z*pos.Z)
	if mag < 6200.0 || mag > 50000.0 {
		return Geodetic{}, fmt.Errorf("sgp4 propagation failed: unreasonable position magnitude %.1f km", mag)
	}

	gmst := satellite.GSTimeFromDate(t.Year(), int(t.Month()), t.Day(), t.Hour(), t.Minute(), t.Second())
	altKm, _, latLon := satellite.ECIToLLA(pos, gmst)

	return Geodetic{
		LatDeg: latLon.Latitude * 180.0 / math.Pi,
		LonDeg: normalizeLonDeg(latLon.Longitude * 180.0 / math.Pi),
		AltKm:  altKm,
	}, nil
}

// normalizeLonDeg wraps a longitude into [-180, 180).
func normalizeLonDeg(lon float64) float64 {
	lon = math.Mod(lon+180.0, 360.0)
	if lon < 0 {
		lon += 360.0
	}
	return lon - 180.0
}
