package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestLoadOverridesDefaults(t *testing.T) {
	yaml := `
satellite_ids: [25544]
observer: {lat: 52.5, lon: 13.4, alt_m: 34}
prediction_days: 3
step_minutes: 5
max_altitude_km: 600
map_extent: [-10, 40, 35, 70]
outputs:
  all: all.png
  filtered: filtered.png
  geojson: tracks.geojson
tle:
  file: elements.tle
  fetch_timeout_sec: 10
  concurrency: 2
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []int{25544}, cfg.SatelliteIDs)
	assert.Equal(t, 52.5, cfg.Observer.Lat)
	assert.Equal(t, 3, cfg.PredictionDays)
	assert.Equal(t, 5, cfg.StepMinutes)
	assert.Equal(t, 600.0, cfg.MaxAltitudeKm)
	assert.Equal(t, "elements.tle", cfg.TLE.File)
	assert.Equal(t, 10*time.Second, cfg.FetchTimeout())
	assert.Equal(t, 2, cfg.TLE.Concurrency)
}

func TestLoadEmptyPathUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Len(t, cfg.SatelliteIDs, 5)
	assert.Equal(t, 10, cfg.PredictionDays)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("satellite_ids: [not closed"), 0644))

	_, err := Load(path)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("N2YO_API_KEY", "secret-key")
	t.Setenv("LAT", "48.2")
	t.Setenv("LON", "16.37")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "secret-key", cfg.APIKey)
	assert.Equal(t, 48.2, cfg.Observer.Lat)
	assert.Equal(t, 16.37, cfg.Observer.Lon)
}

func TestValidate(t *testing.T) {
	mutations := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no satellites", func(c *Config) { c.SatelliteIDs = nil }},
		{"zero days", func(c *Config) { c.PredictionDays = 0 }},
		{"negative days", func(c *Config) { c.PredictionDays = -1 }},
		{"zero step", func(c *Config) { c.StepMinutes = 0 }},
		{"zero threshold", func(c *Config) { c.MaxAltitudeKm = 0 }},
		{"negative threshold", func(c *Config) { c.MaxAltitudeKm = -100 }},
		{"west east swapped", func(c *Config) { c.MapExtent = [4]float64{45, -25, 30, 75} }},
		{"south north swapped", func(c *Config) { c.MapExtent = [4]float64{-25, 45, 75, 30} }},
		{"missing output", func(c *Config) { c.Outputs.All = "" }},
	}

	for _, tt := range mutations {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalid)
		})
	}
}

func TestExtent(t *testing.T) {
	cfg := Default()
	b := cfg.Extent()

	assert.Equal(t, -25.0, b.Min[0])
	assert.Equal(t, 30.0, b.Min[1])
	assert.Equal(t, 45.0, b.Max[0])
	assert.Equal(t, 75.0, b.Max[1])
}
