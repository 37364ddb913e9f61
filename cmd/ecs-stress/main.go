package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"
	"time"

	"github.com/pkg/profile"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	if err := execute(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// execute parses args, runs the stress test and writes the report to out.
// It returns instead of exiting so deferred profile and log flushes run on
// every path.
func execute(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("ecs-stress", flag.ContinueOnError)
	configPath := fs.String("config", "", "Optional TOML or YAML config file.")
	duration := fs.Duration("duration", 0, "The total duration the test should run for.")
	tick := fs.Duration("tick", 0, "Run frames at a fixed interval instead of back to back.")
	entityCount := fs.Int("entities", -1, "The initial number of entities to create.")
	churn := fs.Int("churn", -1, "Entities spawned per frame.")
	seed := fs.Int64("seed", 0, "Random seed.")
	fixed := fs.Int("fixed-capacity", -1, "Bound every collection to this many components; 0 keeps them growable.")
	gcPauseMetrics := fs.Bool("gc-pause-metrics", false, "Enable detailed GC pause metrics in the report.")
	profileMode := fs.String("profile", "", "Profile mode: cpu, mem or none.")
	profileDir := fs.String("profile-dir", ".", "Directory profiles are written to.")
	logLevel := fs.String("log-level", "", "Log level: debug, info, warn or error.")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg := defaults()
	if *configPath != "" {
		loaded, err := Load(*configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	// Flags given on the command line win over file values.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "duration":
			cfg.Duration = *duration
		case "tick":
			cfg.Tick = *tick
		case "entities":
			cfg.Entities = *entityCount
		case "churn":
			cfg.ChurnPerFrame = *churn
		case "seed":
			cfg.Seed = *seed
		case "fixed-capacity":
			cfg.FixedCapacity = *fixed
		case "gc-pause-metrics":
			cfg.GCPauseMetrics = *gcPauseMetrics
		case "profile":
			cfg.Profile = *profileMode
		case "log-level":
			cfg.Logging.Level = *logLevel
		}
	})
	if err := cfg.validate(); err != nil {
		return err
	}

	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer log.Sync() //nolint:errcheck

	switch cfg.Profile {
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(*profileDir), profile.NoShutdownHook).Stop()
	case "mem":
		defer profile.Start(profile.MemProfileAllocs, profile.ProfilePath(*profileDir), profile.NoShutdownHook).Stop()
	}

	report, err := run(context.Background(), cfg, log)
	if err != nil {
		log.Error("stress test failed", zap.Error(err))
		return err
	}

	fmt.Fprintln(out, "\n\n--- Stress Test Report ---")
	if err := report.Generate(out); err != nil {
		log.Error("failed to generate report", zap.Error(err))
		return err
	}
	fmt.Fprintln(out, "--- End of Report ---")
	return nil
}

// run populates a world and steps it until the configured duration elapses.
func run(ctx context.Context, cfg *Config, log *zap.Logger) (report *Report, err error) {
	defer func() {
		// Registry faults are panics; surface them as an error for the caller.
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = e
				return
			}
			err = fmt.Errorf("%v", r)
		}
	}()

	w := newWorld(cfg, log)

	log.Info("populating registry", zap.Int("entities", cfg.Entities))
	w.populate(cfg.Entities)

	report = &Report{
		Duration:       cfg.Duration,
		Entities:       cfg.Entities,
		Components:     componentCount,
		ChurnPerFrame:  cfg.ChurnPerFrame,
		FixedCapacity:  cfg.FixedCapacity,
		GCPauseMetrics: cfg.GCPauseMetrics,
		UpdateTime: Stats{
			Samples: make([]time.Duration, 0),
		},
	}
	runtime.ReadMemStats(&report.MemStatsStart)

	log.Info("running simulation", zap.Duration("duration", cfg.Duration))
	ctx, cancel := context.WithTimeout(ctx, cfg.Duration)
	defer cancel()

	startTime := time.Now()
	if cfg.Tick > 0 {
		w.scheduler.Run(ctx, cfg.Tick)
		report.TotalUpdates = w.scheduler.GetStats().Frames
	} else {
		runBackToBack(ctx, w, report)
	}

	report.TotalTime = time.Since(startTime)
	report.UpdateTime.Finalize()
	runtime.ReadMemStats(&report.MemStatsEnd)

	report.Spawned = w.spawned
	report.Destroyed = w.destroyed
	report.Rejected = w.rejected
	report.Registry = w.registry.CollectStats()
	report.Systems = w.scheduler.GetStats()

	log.Info("simulation finished",
		zap.Int64("updates", report.TotalUpdates),
		zap.Int("live_entities", report.Registry.EntityCount),
		zap.Int64("rejected_creates", w.rejected),
	)
	return report, nil
}

// runBackToBack steps w as fast as possible, sampling every frame.
func runBackToBack(ctx context.Context, w *world, report *Report) {
	lastFrameTime := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		default:
			deltaTime := time.Since(lastFrameTime)
			lastFrameTime = time.Now()

			updateStart := time.Now()
			w.step(deltaTime.Seconds())
			report.UpdateTime.Samples = append(report.UpdateTime.Samples, time.Since(updateStart))
			report.TotalUpdates++
		}
	}
}

func newLogger(cfg LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
