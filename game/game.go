// Package game wires the simulation scene to a raylib window: camera, input,
// particle rendering and the HUD.
package game

import (
	"log/slog"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/sparks/camera"
	"github.com/pthm-cable/sparks/config"
	"github.com/pthm-cable/sparks/renderer"
	"github.com/pthm-cable/sparks/scene"
	"github.com/pthm-cable/sparks/ui"
)

// Options configures a game.
type Options struct {
	Seed           int64
	LogStats       bool
	StatsWindowSec float64 // 0 = use config
	OutputDir      string
	Snapshots      bool
	Headless       bool
	PerfLogEvery   int32 // ticks between human-readable perf logs; 0 disables
}

// Game holds the scene plus everything needed to show it.
type Game struct {
	cfg   *config.Config
	scene *scene.Scene

	// Presentation (nil in headless mode)
	camera    *camera.Orbit
	particles *renderer.ParticleRenderer
	hud       *ui.HUD
	rates     *ui.RatePanel

	headless     bool
	paused       bool
	perfLogEvery int32
}

// NewGameWithOptions creates a game from the global config.
func NewGameWithOptions(opts Options) (*Game, error) {
	cfg := config.Cfg()

	sc, err := scene.New(cfg, scene.Options{
		Seed:        opts.Seed,
		LogStats:    opts.LogStats,
		StatsWindow: time.Duration(opts.StatsWindowSec * float64(time.Second)),
		OutputDir:   opts.OutputDir,
		Snapshots:   opts.Snapshots,
	})
	if err != nil {
		return nil, err
	}

	g := &Game{
		cfg:          cfg,
		scene:        sc,
		headless:     opts.Headless,
		perfLogEvery: opts.PerfLogEvery,
	}

	if !g.headless {
		g.camera = camera.New(cfg.Camera)
		g.particles = renderer.NewParticleRenderer(cfg.Render)
		g.particles.Init()
		g.hud = ui.NewHUD()
		g.rates = ui.NewRatePanel(10, 80, 420, 300)
	}

	slog.Info("game created",
		"seed", opts.Seed,
		"systems", len(cfg.Systems),
		"demo", sc.Demo().Name,
		"headless", g.headless,
	)
	return g, nil
}

// Update advances by the last frame's duration, clamped to max_dt.
func (g *Game) Update() {
	g.handleInput()
	if g.paused {
		return
	}

	dt := time.Duration(float64(rl.GetFrameTime()) * float64(time.Second))
	g.step(min(dt, g.cfg.Derived.MaxDT))
	g.scene.Perf().RecordFrame()
}

// UpdateHeadless advances by the fixed simulation step.
func (g *Game) UpdateHeadless() {
	g.step(g.cfg.Derived.DT)
}

func (g *Game) step(dt time.Duration) {
	g.scene.Step(dt)
	if g.perfLogEvery > 0 && g.scene.Tick()%g.perfLogEvery == 0 {
		g.logPerfStats()
	}
}

// NextDemo switches to the next configured demo.
func (g *Game) NextDemo() {
	g.scene.NextDemo()
	slog.Info("demo switched", "demo", g.scene.Demo().Name, "tick", g.scene.Tick())
}

// Scene returns the simulation being shown.
func (g *Game) Scene() *scene.Scene { return g.scene }

// Tick returns the current simulation tick.
func (g *Game) Tick() int32 { return g.scene.Tick() }

// Unload releases GPU resources and closes run output.
func (g *Game) Unload() {
	if g.particles != nil {
		g.particles.Unload()
	}
	if err := g.scene.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
}
