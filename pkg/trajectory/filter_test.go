package trajectory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func trajectoryWithAltitudes(name string, altsKm ...float64) *Trajectory {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	samples := make([]Sample, len(altsKm))
	for i, alt := range altsKm {
		samples[i] = Sample{
			At:     start.Add(time.Duration(i) * time.Minute),
			LatDeg: float64(i),
			LonDeg: float64(i) * 2,
			AltKm:  alt,
			AltM:   alt * 1000,
		}
	}
	return &Trajectory{Name: name, Samples: samples}
}

func TestFilterAltitudeConcreteCase(t *testing.T) {
	traj := trajectoryWithAltitudes("sat", 500, 900, 750, 1200, 600)

	got := FilterAltitude(traj, 800)

	require.Len(t, got.Samples, 3)
	assert.Equal(t, 500.0, got.Samples[0].AltKm)
	assert.Equal(t, 750.0, got.Samples[1].AltKm)
	assert.Equal(t, 600.0, got.Samples[2].AltKm)

	// Kept samples correspond to input indices 0, 2, 4.
	assert.Equal(t, traj.Samples[0], got.Samples[0])
	assert.Equal(t, traj.Samples[2], got.Samples[1])
	assert.Equal(t, traj.Samples[4], got.Samples[2])
}

func TestFilterAltitudeInclusiveThreshold(t *testing.T) {
	traj := trajectoryWithAltitudes("sat", 800, 800.0001)

	got := FilterAltitude(traj, 800)
	require.Len(t, got.Samples, 1)
	assert.Equal(t, 800.0, got.Samples[0].AltKm)
}

func TestFilterAltitudeIdempotent(t *testing.T) {
	traj := trajectoryWithAltitudes("sat", 500, 900, 750, 1200, 600)

	once := FilterAltitude(traj, 800)
	twice := FilterAltitude(once, 800)

	assert.Equal(t, once.Samples, twice.Samples)
}

func TestFilterAltitudeDoesNotMutateInput(t *testing.T) {
	traj := trajectoryWithAltitudes("sat", 500, 900, 750)
	before := len(traj.Samples)

	_ = FilterAltitude(traj, 600)
	assert.Len(t, traj.Samples, before)
}

func TestFilterAltitudeMonotonicThresholds(t *testing.T) {
	traj := trajectoryWithAltitudes("sat", 500, 900, 750, 1200, 600, 350, 801)

	low := FilterAltitude(traj, 600)
	high := FilterAltitude(traj, 900)

	// Every sample passing the tighter threshold passes the looser one,
	// in the same relative order.
	j := 0
	for _, s := range low.Samples {
		found := false
		for ; j < len(high.Samples); j++ {
			if high.Samples[j] == s {
				found = true
				j++
				break
			}
		}
		assert.True(t, found, "sample %+v missing from looser filter result", s)
	}
}

func TestFilterSetOmitsEmptyTrajectories(t *testing.T) {
	set := NewSet()
	set.Add(trajectoryWithAltitudes("low", 400, 500))
	set.Add(trajectoryWithAltitudes("high", 1200, 1500))
	set.Add(trajectoryWithAltitudes("mixed", 700, 900))

	got := FilterSet(set, 800)

	assert.Equal(t, []string{"low", "mixed"}, got.Names())
	_, ok := got.Get("high")
	assert.False(t, ok, "satellite with no qualifying samples must be omitted")

	mixed, ok := got.Get("mixed")
	require.True(t, ok)
	assert.Len(t, mixed.Samples, 1)
}

func TestSetInsertionOrder(t *testing.T) {
	set := NewSet()
	set.Add(&Trajectory{Name: "c"})
	set.Add(&Trajectory{Name: "a"})
	set.Add(&Trajectory{Name: "b"})

	assert.Equal(t, []string{"c", "a", "b"}, set.Names())
	assert.Equal(t, 3, set.Len())

	// Replacing keeps the original position.
	set.Add(&Trajectory{Name: "a", Samples: []Sample{{}}})
	assert.Equal(t, []string{"c", "a", "b"}, set.Names())
	got, _ := set.Get("a")
	assert.Len(t, got.Samples, 1)
}
