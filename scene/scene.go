// Package scene runs the demo simulation: the effect library, the projectile
// launcher, and the telemetry that watches them. It has no rendering
// dependency so headless runs and tools can drive it directly.
package scene

import (
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/pthm-cable/sparks/config"
	"github.com/pthm-cable/sparks/effects"
	"github.com/pthm-cable/sparks/systems"
	"github.com/pthm-cable/sparks/telemetry"
)

// Options configures a scene.
type Options struct {
	Seed        int64
	LogStats    bool          // log window stats and bookmarks via slog
	StatsWindow time.Duration // 0 = use config
	OutputDir   string        // CSV logs, config and snapshots; "" disables output
	Snapshots   bool          // save a snapshot on every bookmark (needs OutputDir)
}

// Scene holds the complete simulation state.
type Scene struct {
	cfg  *config.Config
	seed int64
	rng  *rand.Rand

	library  *effects.Library
	registry *systems.Registry
	launcher *effects.Launcher

	demo    int
	tick    int32
	simTime time.Duration

	// Telemetry
	perf          *telemetry.PerfCollector
	collector     *telemetry.Collector
	bookmarks     *telemetry.BookmarkDetector
	output        *telemetry.OutputManager
	logStats      bool
	snapshots     bool
	statsCallback func([]telemetry.WindowStats)
}

// New builds every configured effect and starts the first demo.
func New(cfg *config.Config, opts Options) (*Scene, error) {
	rng := rand.New(rand.NewSource(opts.Seed))

	lib, err := effects.Build(cfg, rng)
	if err != nil {
		return nil, fmt.Errorf("building effects: %w", err)
	}
	launcher, err := effects.NewLauncher(cfg.Projectiles, lib, rng)
	if err != nil {
		return nil, fmt.Errorf("building launcher: %w", err)
	}

	registry := systems.NewRegistry()
	lib.Register(registry)

	window := opts.StatsWindow
	if window <= 0 {
		window = cfg.Derived.StatsWindow
	}
	collector := telemetry.NewCollector(window, cfg.Derived.DT)
	for _, e := range lib.Effects() {
		collector.Watch(e.Name, e.System)
	}

	output, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, err
	}
	if err := output.WriteConfig(cfg); err != nil {
		output.Close()
		return nil, fmt.Errorf("writing config: %w", err)
	}

	s := &Scene{
		cfg:       cfg,
		seed:      opts.Seed,
		rng:       rng,
		library:   lib,
		registry:  registry,
		launcher:  launcher,
		perf:      telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		collector: collector,
		bookmarks: telemetry.NewBookmarkDetector(),
		output:    output,
		logStats:  opts.LogStats,
		snapshots: opts.Snapshots && output != nil,
	}
	s.SetDemo(0)
	return s, nil
}

// Step advances the simulation by dt.
func (s *Scene) Step(dt time.Duration) {
	s.perf.StartTick()

	// Projectiles move their trail emitters before the particle systems run.
	s.perf.StartPhase(telemetry.PhaseProjectiles)
	s.launcher.Update(dt)

	s.perf.StartPhase(telemetry.PhaseParticles)
	s.registry.Update(dt)

	s.perf.StartPhase(telemetry.PhaseTelemetry)
	s.collector.Sample()
	s.tick++
	s.simTime += dt
	s.flushTelemetry()

	s.perf.EndTick()
}

// SetDemo switches to demo i (wrapping). Live particles finish their lifetime.
func (s *Scene) SetDemo(i int) {
	n := len(s.cfg.Demos)
	s.demo = ((i % n) + n) % n
	d := s.cfg.Demos[s.demo]
	s.library.ApplyDemo(d)
	s.launcher.Enabled = d.Projectiles
	slog.Debug("demo", "name", d.Name, "tick", s.tick)
}

// NextDemo advances to the next demo.
func (s *Scene) NextDemo() {
	s.SetDemo(s.demo + 1)
}

// Demo returns the active demo.
func (s *Scene) Demo() config.DemoConfig {
	return s.cfg.Demos[s.demo]
}

// DemoIndex returns the index of the active demo.
func (s *Scene) DemoIndex() int { return s.demo }

// Tick returns the number of steps taken.
func (s *Scene) Tick() int32 { return s.tick }

// SimTime returns the total simulated time.
func (s *Scene) SimTime() time.Duration { return s.simTime }

// Seed returns the RNG seed the scene was built with.
func (s *Scene) Seed() int64 { return s.seed }

// Config returns the configuration the scene was built from.
func (s *Scene) Config() *config.Config { return s.cfg }

// Library returns the effect library.
func (s *Scene) Library() *effects.Library { return s.library }

// Registry returns the registry holding every particle system.
func (s *Scene) Registry() *systems.Registry { return s.registry }

// Launcher returns the projectile launcher.
func (s *Scene) Launcher() *effects.Launcher { return s.launcher }

// Perf returns the tick timing collector.
func (s *Scene) Perf() *telemetry.PerfCollector { return s.perf }

// ParticleCount returns the number of live particles across all systems.
func (s *Scene) ParticleCount() int { return s.registry.ParticleCount() }

// SetStatsCallback registers fn to receive every flushed stats window.
func (s *Scene) SetStatsCallback(fn func([]telemetry.WindowStats)) {
	s.statsCallback = fn
}

// Close flushes and closes run output.
func (s *Scene) Close() error {
	return s.output.Close()
}
