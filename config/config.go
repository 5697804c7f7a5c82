// Package config provides configuration loading and access for the effects demo.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Emitter kinds.
const (
	EmitterPoint = "point"
	EmitterRing  = "ring"
)

// Affector kinds.
const (
	AffectorDecelerate = "decelerate"
	AffectorFadeout    = "fadeout"
	AffectorShrink     = "shrink"
	AffectorAccelerate = "accelerate"
	AffectorGrow       = "grow"
	AffectorTurbulence = "turbulence"
)

// Config holds all configuration parameters.
type Config struct {
	Screen      ScreenConfig     `yaml:"screen"`
	Simulation  SimulationConfig `yaml:"simulation"`
	Camera      CameraConfig     `yaml:"camera"`
	Render      RenderConfig     `yaml:"render"`
	Telemetry   TelemetryConfig  `yaml:"telemetry"`
	Systems     []SystemConfig   `yaml:"systems"`
	Projectiles ProjectileConfig `yaml:"projectiles"`
	Demos       []DemoConfig     `yaml:"demos"`
	Backdrops   []BackdropConfig `yaml:"backdrops"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	TargetFPS int    `yaml:"target_fps"`
	Title     string `yaml:"title"`
}

// SimulationConfig holds tick timing.
type SimulationConfig struct {
	DT    float64 `yaml:"dt"`     // Fixed step in seconds for headless runs
	MaxDT float64 `yaml:"max_dt"` // Frame time clamp in seconds for windowed runs
}

// CameraConfig holds the initial orbit camera state.
type CameraConfig struct {
	Arc          float64 `yaml:"arc"`           // Tilt in degrees, clamped to [-90, 90]; negative looks down
	Rotation     float64 `yaml:"rotation"`      // Degrees around the vertical axis
	Distance     float64 `yaml:"distance"`      // Distance from the target
	TargetHeight float64 `yaml:"target_height"` // Height of the orbit target
	Sensitivity  float64 `yaml:"sensitivity"`   // Degrees per pixel of drag
	ZoomSpeed    float64 `yaml:"zoom_speed"`    // Distance per wheel step
	MinDistance  float64 `yaml:"min_distance"`
	MaxDistance  float64 `yaml:"max_distance"`
	FOV          float64 `yaml:"fov"` // Vertical field of view in degrees
}

// RenderConfig holds draw settings.
type RenderConfig struct {
	Background  [3]uint8 `yaml:"background"`
	SpriteSize  float64  `yaml:"sprite_size"`  // World size of a particle at scale 1
	TextureSize int      `yaml:"texture_size"` // Pixel size of the generated particle texture
	GridSlices  int      `yaml:"grid_slices"`
	GridSpacing float64  `yaml:"grid_spacing"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"`          // Seconds per stats window
	PerfCollectorWindow int     `yaml:"perf_collector_window"` // Ticks in the rolling perf window
}

// SystemConfig describes one particle system: pool, pipeline and emitters.
type SystemConfig struct {
	Name      string           `yaml:"name"`
	Capacity  int              `yaml:"capacity"`
	Blend     string           `yaml:"blend"` // alpha | additive
	Affectors []AffectorConfig `yaml:"affectors"`
	Emitters  []EmitterConfig  `yaml:"emitters"`
}

// AffectorConfig describes one affector in a pipeline.
type AffectorConfig struct {
	Kind      string     `yaml:"kind"`
	Vector    [3]float64 `yaml:"vector,omitempty"`    // accelerate: change per second
	Amount    float64    `yaml:"amount,omitempty"`    // grow: scale per tick
	Frequency float64    `yaml:"frequency,omitempty"` // turbulence
	Strength  float64    `yaml:"strength,omitempty"`  // turbulence
	Seed      int64      `yaml:"seed,omitempty"`      // turbulence
}

// EmitterConfig describes a rate emitter.
type EmitterConfig struct {
	Name     string         `yaml:"name"`
	Kind     string         `yaml:"kind"` // point | ring
	Rate     float64        `yaml:"rate"` // Particles per second
	Position [3]float64     `yaml:"position"`
	Radius   float64        `yaml:"radius"` // ring only
	Particle ParticleConfig `yaml:"particle"`
}

// ParticleConfig is a spawn template. Every pair is sampled uniformly between
// its two values; the order of the values does not matter.
type ParticleConfig struct {
	ColorMin    [4]uint8   `yaml:"color_min"`
	ColorMax    [4]uint8   `yaml:"color_max"`
	VelocityMin [3]float64 `yaml:"velocity_min"` // Units per tick
	VelocityMax [3]float64 `yaml:"velocity_max"`
	Rotation    [2]float64 `yaml:"rotation"` // Radians per tick
	Lifespan    [2]float64 `yaml:"lifespan"` // Seconds; both zero means immortal
	Angle       [2]float64 `yaml:"angle"`
	Scale       [2]float64 `yaml:"scale"`
	Inert       bool       `yaml:"inert"` // Skip the affector pipeline
}

// ProjectileConfig holds the explosions demo parameters.
type ProjectileConfig struct {
	Interval         float64        `yaml:"interval"`          // Seconds between launches
	Lifespan         float64        `yaml:"lifespan"`          // Seconds of flight before bursting
	Gravity          float64        `yaml:"gravity"`           // Units per second squared
	SidewaysVelocity float64        `yaml:"sideways_velocity"` // Launch spread on X and Z
	VerticalVelocity float64        `yaml:"vertical_velocity"` // Launch speed scale on Y
	TrailSystem      string         `yaml:"trail_system"`
	TrailRate        float64        `yaml:"trail_rate"` // Trail particles per second
	TrailVelocity    float64        `yaml:"trail_velocity_scale"`
	TrailParticle    ParticleConfig `yaml:"trail_particle"`
	Bursts           []BurstConfig  `yaml:"bursts"`
}

// BurstConfig describes the particles a projectile releases when it expires.
type BurstConfig struct {
	System        string         `yaml:"system"`
	Count         int            `yaml:"count"`
	VelocityScale float64        `yaml:"velocity_scale"` // Fraction of projectile velocity inherited
	Particle      ParticleConfig `yaml:"particle"`
}

// DemoConfig describes one selectable effect. Rates are keyed by
// "system/emitter"; emitters not listed are silenced.
type DemoConfig struct {
	Name        string             `yaml:"name"`
	Projectiles bool               `yaml:"projectiles"`
	Rates       map[string]float64 `yaml:"rates"`
}

// BackdropConfig describes a static particle field scattered once at startup.
type BackdropConfig struct {
	Name     string     `yaml:"name"`
	Count    int        `yaml:"count"`
	Blend    string     `yaml:"blend"`
	Radius   float64    `yaml:"radius"` // Horizontal scatter radius around the origin
	Height   [2]float64 `yaml:"height"`
	ColorMin [4]uint8   `yaml:"color_min"`
	ColorMax [4]uint8   `yaml:"color_max"`
	Scale    [2]float64 `yaml:"scale"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	DT          time.Duration  // Simulation.DT
	MaxDT       time.Duration  // Simulation.MaxDT
	StatsWindow time.Duration  // Telemetry.StatsWindow
	SystemIndex map[string]int // name -> index into Systems
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Defaults returns the embedded default configuration.
func Defaults() (*Config, error) {
	return Load("")
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Only overwrites fields present in the file; lists replace wholesale.
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

// Validate checks ranges, kinds and cross references. All problems are
// reported together, each wrapping ErrInvalid.
func (c *Config) Validate() error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
	}

	if c.Simulation.DT <= 0 {
		fail("simulation.dt must be positive, got %v", c.Simulation.DT)
	}
	if c.Simulation.MaxDT < c.Simulation.DT {
		fail("simulation.max_dt %v is below dt %v", c.Simulation.MaxDT, c.Simulation.DT)
	}
	if c.Telemetry.StatsWindow <= 0 {
		fail("telemetry.stats_window must be positive, got %v", c.Telemetry.StatsWindow)
	}

	systems := make(map[string]map[string]bool, len(c.Systems))
	for _, s := range c.Systems {
		if s.Name == "" {
			fail("system without a name")
			continue
		}
		if _, dup := systems[s.Name]; dup {
			fail("duplicate system %q", s.Name)
			continue
		}
		emitters := make(map[string]bool, len(s.Emitters))
		systems[s.Name] = emitters

		if s.Capacity < 0 {
			fail("system %q: negative capacity %d", s.Name, s.Capacity)
		}
		switch s.Blend {
		case "", "alpha", "additive":
		default:
			fail("system %q: unknown blend mode %q", s.Name, s.Blend)
		}
		for _, a := range s.Affectors {
			switch a.Kind {
			case AffectorDecelerate, AffectorFadeout, AffectorShrink, AffectorAccelerate, AffectorGrow, AffectorTurbulence:
			default:
				fail("system %q: unknown affector %q", s.Name, a.Kind)
			}
		}
		for _, e := range s.Emitters {
			if e.Name == "" || emitters[e.Name] {
				fail("system %q: emitter name %q is empty or duplicated", s.Name, e.Name)
				continue
			}
			emitters[e.Name] = true
			switch e.Kind {
			case EmitterPoint, EmitterRing:
			default:
				fail("emitter %s/%s: unknown kind %q", s.Name, e.Name, e.Kind)
			}
			if e.Rate < 0 {
				fail("emitter %s/%s: negative rate %v", s.Name, e.Name, e.Rate)
			}
			if e.Radius < 0 {
				fail("emitter %s/%s: negative radius %v", s.Name, e.Name, e.Radius)
			}
		}
	}

	backdrops := make(map[string]bool, len(c.Backdrops))
	for _, b := range c.Backdrops {
		if b.Name == "" {
			fail("backdrop without a name")
			continue
		}
		if _, dup := systems[b.Name]; dup || backdrops[b.Name] {
			fail("backdrop %q shares a name with another system", b.Name)
			continue
		}
		backdrops[b.Name] = true
		if b.Count < 0 {
			fail("backdrop %q: negative count %d", b.Name, b.Count)
		}
		if b.Radius < 0 {
			fail("backdrop %q: negative radius %v", b.Name, b.Radius)
		}
		switch b.Blend {
		case "", "alpha", "additive":
		default:
			fail("backdrop %q: unknown blend mode %q", b.Name, b.Blend)
		}
	}

	p := c.Projectiles
	if p.Interval <= 0 {
		fail("projectiles.interval must be positive, got %v", p.Interval)
	}
	if p.TrailRate < 0 {
		fail("projectiles.trail_rate is negative")
	}
	if _, ok := systems[p.TrailSystem]; !ok {
		fail("projectiles.trail_system %q is not a configured system", p.TrailSystem)
	}
	for _, b := range p.Bursts {
		if _, ok := systems[b.System]; !ok {
			fail("projectiles.bursts: unknown system %q", b.System)
		}
		if b.Count < 0 {
			fail("projectiles.bursts %q: negative count", b.System)
		}
	}

	if len(c.Demos) == 0 {
		fail("at least one demo is required")
	}
	for _, d := range c.Demos {
		for key, rate := range d.Rates {
			sys, em, ok := SplitEmitterKey(key)
			if !ok || !systems[sys][em] {
				fail("demo %q: unknown emitter %q", d.Name, key)
			}
			if rate < 0 {
				fail("demo %q: negative rate for %q", d.Name, key)
			}
		}
	}

	return errors.Join(errs...)
}

// EmitterKey joins a system and emitter name into a demo rate key.
func EmitterKey(system, emitter string) string {
	return system + "/" + emitter
}

// SplitEmitterKey splits a "system/emitter" key. Malformed keys yield empty names.
func SplitEmitterKey(key string) (system, emitter string, ok bool) {
	system, emitter, found := strings.Cut(key, "/")
	if !found || system == "" || emitter == "" {
		return "", "", false
	}
	return system, emitter, true
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.DT = seconds(c.Simulation.DT)
	c.Derived.MaxDT = seconds(c.Simulation.MaxDT)
	c.Derived.StatsWindow = seconds(c.Telemetry.StatsWindow)

	c.Derived.SystemIndex = make(map[string]int, len(c.Systems))
	for i, s := range c.Systems {
		c.Derived.SystemIndex[s.Name] = i
	}
}

// System returns the named system config.
func (c *Config) System(name string) (*SystemConfig, bool) {
	i, ok := c.Derived.SystemIndex[name]
	if !ok {
		return nil, false
	}
	return &c.Systems[i], true
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// Clone returns a deep copy with derived values recomputed.
func (c *Config) Clone() (*Config, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshaling config: %w", err)
	}
	out := &Config{}
	if err := yaml.Unmarshal(data, out); err != nil {
		return nil, fmt.Errorf("parsing config copy: %w", err)
	}
	out.computeDerived()
	return out, nil
}

// DemoIndex returns the index of the named demo.
func (c *Config) DemoIndex(name string) (int, bool) {
	for i, d := range c.Demos {
		if d.Name == name {
			return i, true
		}
	}
	return -1, false
}
