package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/legiontrack/legiontrack/pkg/config"
	"github.com/legiontrack/legiontrack/pkg/element"
	"github.com/legiontrack/legiontrack/pkg/predict"
	"github.com/legiontrack/legiontrack/pkg/render"
)

func main() {
	log.SetPrefix("[legiontrack] ")
	log.SetFlags(log.Ldate | log.Ltime | log.LUTC)

	var configPath string
	var startStr string
	var days int
	var stepMinutes int
	var maxAltitudeKm float64
	var watch bool
	var verbose bool

	flag.StringVar(&configPath, "config", "", "path to YAML run configuration")
	flag.StringVar(&startStr, "start", "", "run start time, RFC3339 (default now UTC)")
	flag.IntVar(&days, "days", 0, "prediction window in days (overrides config)")
	flag.IntVar(&stepMinutes, "step-minutes", 0, "time step in minutes (overrides config)")
	flag.Float64Var(&maxAltitudeKm, "max-altitude-km", 0, "altitude threshold in km (overrides config)")
	flag.BoolVar(&watch, "watch", false, "re-run whenever the config file changes")
	flag.BoolVar(&verbose, "v", false, "debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	run := func() error {
		return runOnce(context.Background(), logger, configPath, startStr, days, stepMinutes, maxAltitudeKm)
	}

	if err := run(); err != nil && !watch {
		log.Fatalf("run failed: %s", err)
	} else if err != nil {
		log.Printf("run failed: %s", err)
	}

	if !watch {
		return
	}

	if configPath == "" {
		log.Fatal("-watch requires -config")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Fatal(err)
	}
	defer watcher.Close()

	// Watch the directory: editors typically replace the file, which
	// drops a watch placed on the file itself.
	if err := watcher.Add(filepath.Dir(configPath)); err != nil {
		log.Fatal(err)
	}

	log.Printf("watching %s for changes", configPath)

	for {
		select {
		case ev, ok := <-watcher.Events:
			if !ok {
				log.Println("watch stopped")
				return
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			if filepath.Clean(ev.Name) != filepath.Clean(configPath) {
				continue
			}
			log.Printf("config changed, re-running")
			if err := run(); err != nil {
				log.Printf("run failed: %s", err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				log.Println("watch stopped")
				return
			}
			log.Printf("watch error: %s", err)
		}
	}
}

func runOnce(ctx context.Context, logger *slog.Logger, configPath, startStr string, days, stepMinutes int, maxAltitudeKm float64) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if days > 0 {
		cfg.PredictionDays = days
	}
	if stepMinutes > 0 {
		cfg.StepMinutes = stepMinutes
	}
	if maxAltitudeKm > 0 {
		cfg.MaxAltitudeKm = maxAltitudeKm
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	start := time.Now().UTC()
	if startStr != "" {
		start, err = time.Parse(time.RFC3339, startStr)
		if err != nil {
			return fmt.Errorf("parsing -start: %v: %w", err, config.ErrInvalid)
		}
	}

	var source element.Source
	if cfg.TLE.File != "" {
		fs, err := element.NewFileSource(cfg.TLE.File)
		if err != nil {
			return err
		}
		logger.Info("using local TLE file", "path", cfg.TLE.File, "entries", fs.Len())
		source = fs
	} else {
		if cfg.APIKey == "" {
			logger.Warn("N2YO_API_KEY is not set, fetches will likely fail")
		}
		source = element.NewN2YOSource(cfg.TLE.URL, cfg.APIKey, cfg.FetchTimeout(), logger)
	}

	title := fmt.Sprintf("Satellite ground tracks - next %d days", cfg.PredictionDays)

	allExporters := []predict.RenderExporter{
		&render.Map{
			Path:  cfg.Outputs.All,
			Title: title + " (all altitudes)",
		},
	}
	if cfg.Outputs.GeoJSON != "" {
		allExporters = append(allExporters, &render.GeoJSON{Path: cfg.Outputs.GeoJSON})
	}

	filteredExporters := []predict.RenderExporter{
		&render.Map{
			Path:            cfg.Outputs.Filtered,
			Title:           fmt.Sprintf("%s (altitude <= %.0f km)", title, cfg.MaxAltitudeKm),
			ColorByAltitude: true,
			MaxAltitudeKm:   cfg.MaxAltitudeKm,
		},
	}

	runner := predict.NewRunner(cfg, source, allExporters, filteredExporters, logger)

	result, err := runner.Run(ctx, start)
	if err != nil {
		if errors.Is(err, predict.ErrNoUsableSatellites) {
			logger.Error("no satellite produced a trajectory", "configured", len(cfg.SatelliteIDs))
		}
		return err
	}

	for _, skip := range result.Skipped {
		logger.Warn("satellite skipped", "norad_id", skip.NoradID, "reason", string(skip.Reason), "error", skip.Err)
	}

	logger.Info("run complete",
		"satellites", result.All.Len(),
		"skipped", len(result.Skipped),
		"instants", result.Grid.Len(),
		"all_image", cfg.Outputs.All,
		"filtered_image", cfg.Outputs.Filtered,
	)
	return nil
}
