// Package config holds the immutable run configuration: observer
// location, tracked satellites, prediction window, filtering threshold,
// and output artifacts. It is read once at process start and passed by
// reference; nothing mutates it afterwards.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/paulmach/orb"
	"gopkg.in/yaml.v3"
)

// ErrInvalid marks malformed run parameters. It is always detected
// before any network or propagation work starts.
var ErrInvalid = errors.New("invalid configuration")

// Observer is the fixed ground location the run is made for.
type Observer struct {
	Lat  float64 `yaml:"lat"`
	Lon  float64 `yaml:"lon"`
	AltM float64 `yaml:"alt_m"`
}

// Outputs names the artifacts a run produces.
type Outputs struct {
	All      string `yaml:"all"`
	Filtered string `yaml:"filtered"`
	GeoJSON  string `yaml:"geojson"`
}

// TLE configures the element-set source.
type TLE struct {
	// URL is a format template taking the NORAD ID and the API key.
	URL string `yaml:"url"`
	// File, when set, serves element sets from a local 3-line TLE file
	// instead of the HTTP API.
	File            string `yaml:"file"`
	FetchTimeoutSec int    `yaml:"fetch_timeout_sec"`
	Concurrency     int    `yaml:"concurrency"`
}

// Config is the full run configuration.
type Config struct {
	SatelliteIDs   []int      `yaml:"satellite_ids"`
	Observer       Observer   `yaml:"observer"`
	PredictionDays int        `yaml:"prediction_days"`
	StepMinutes    int        `yaml:"step_minutes"`
	MaxAltitudeKm  float64    `yaml:"max_altitude_km"`
	MapExtent      [4]float64 `yaml:"map_extent"` // west, east, south, north
	Outputs        Outputs    `yaml:"outputs"`
	TLE            TLE        `yaml:"tle"`

	// APIKey comes from the N2YO_API_KEY environment variable, never
	// from the config file.
	APIKey string `yaml:"-"`
}

// Default returns the built-in configuration: the five Maxar Legion
// satellites, a ten-day window at ten-minute steps, and a European map
// extent.
func Default() *Config {
	return &Config{
		SatelliteIDs:   []int{59625, 60453, 59626, 60452, 40115},
		Observer:       Observer{AltM: 200},
		PredictionDays: 10,
		StepMinutes:    10,
		MaxAltitudeKm:  800,
		MapExtent:      [4]float64{-25, 45, 30, 75},
		Outputs: Outputs{
			All:      "satellite_orbits_all.png",
			Filtered: "satellite_orbits_filtered.png",
			GeoJSON:  "satellite_orbits.geojson",
		},
		TLE: TLE{
			FetchTimeoutSec: 30,
			Concurrency:     4,
		},
	}
}

// Load reads the YAML file at path on top of the defaults, then applies
// environment overrides and validates. An empty path loads defaults and
// environment only.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config: %v: %w", err, ErrInvalid)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv pulls the API key and, when present, the observer location
// from the environment, matching how the original deployment was
// configured.
func (c *Config) applyEnv() {
	c.APIKey = os.Getenv("N2YO_API_KEY")

	if v := os.Getenv("LAT"); v != "" {
		if lat, err := strconv.ParseFloat(v, 64); err == nil {
			c.Observer.Lat = lat
		}
	}
	if v := os.Getenv("LON"); v != "" {
		if lon, err := strconv.ParseFloat(v, 64); err == nil {
			c.Observer.Lon = lon
		}
	}
}

// Validate checks the run parameters. All violations wrap ErrInvalid.
func (c *Config) Validate() error {
	if len(c.SatelliteIDs) == 0 {
		return fmt.Errorf("no satellites configured: %w", ErrInvalid)
	}
	if c.PredictionDays <= 0 {
		return fmt.Errorf("prediction_days must be positive, got %d: %w", c.PredictionDays, ErrInvalid)
	}
	if c.StepMinutes <= 0 {
		return fmt.Errorf("step_minutes must be positive, got %d: %w", c.StepMinutes, ErrInvalid)
	}
	if c.MaxAltitudeKm <= 0 {
		return fmt.Errorf("max_altitude_km must be positive, got %f: %w", c.MaxAltitudeKm, ErrInvalid)
	}
	if c.MapExtent[0] >= c.MapExtent[1] {
		return fmt.Errorf("map_extent west must be less than east: %w", ErrInvalid)
	}
	if c.MapExtent[2] >= c.MapExtent[3] {
		return fmt.Errorf("map_extent south must be less than north: %w", ErrInvalid)
	}
	if c.Outputs.All == "" || c.Outputs.Filtered == "" {
		return fmt.Errorf("output image names must not be empty: %w", ErrInvalid)
	}
	return nil
}

// Extent returns the map extent as a bound (min = south-west corner,
// max = north-east corner).
func (c *Config) Extent() orb.Bound {
	return orb.Bound{
		Min: orb.Point{c.MapExtent[0], c.MapExtent[2]},
		Max: orb.Point{c.MapExtent[1], c.MapExtent[3]},
	}
}

// FetchTimeout returns the element-set fetch timeout as a duration.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.TLE.FetchTimeoutSec) * time.Second
}
