package effects

import (
	"fmt"
	"math/rand"
	"slices"

	"github.com/pthm-cable/sparks/config"
	"github.com/pthm-cable/sparks/systems"
)

// Effect is one configured particle system with its named rate emitters.
type Effect struct {
	Name     string
	Mode     systems.BlendMode
	System   *systems.DynamicSystem
	Emitters map[string]*systems.RateEmitter
}

// BuildAffector converts an affector config.
func BuildAffector(c config.AffectorConfig) (systems.Affector, error) {
	switch c.Kind {
	case config.AffectorDecelerate:
		return systems.Decelerate{}, nil
	case config.AffectorFadeout:
		return systems.Fadeout{}, nil
	case config.AffectorShrink:
		return systems.Shrink{}, nil
	case config.AffectorAccelerate:
		return systems.Accelerate{Change: vec(c.Vector)}, nil
	case config.AffectorGrow:
		return systems.Grow{Amount: c.Amount}, nil
	case config.AffectorTurbulence:
		return systems.NewTurbulence(c.Seed, c.Frequency, c.Strength), nil
	default:
		return nil, fmt.Errorf("unknown affector kind %q", c.Kind)
	}
}

// BuildSystem creates the dynamic system, pipeline and emitters described by c.
func BuildSystem(c config.SystemConfig, rng *rand.Rand) (*Effect, error) {
	mode, ok := systems.ParseBlendMode(c.Blend)
	if !ok {
		return nil, fmt.Errorf("system %q: unknown blend mode %q", c.Name, c.Blend)
	}

	e := &Effect{
		Name:     c.Name,
		Mode:     mode,
		System:   systems.NewDynamicSystem(c.Capacity),
		Emitters: make(map[string]*systems.RateEmitter, len(c.Emitters)),
	}

	for _, ac := range c.Affectors {
		a, err := BuildAffector(ac)
		if err != nil {
			return nil, fmt.Errorf("system %q: %w", c.Name, err)
		}
		e.System.AddAffector(a)
	}

	for _, ec := range c.Emitters {
		tmpl := NewTemplate(ec.Particle)
		var em *systems.RateEmitter
		switch ec.Kind {
		case config.EmitterPoint:
			em = NewPlumeEmitter(ec.Rate, vec(ec.Position), tmpl, rng)
		case config.EmitterRing:
			em = NewRingEmitter(ec.Rate, vec(ec.Position), ec.Radius, tmpl, rng)
		default:
			return nil, fmt.Errorf("emitter %s/%s: unknown kind %q", c.Name, ec.Name, ec.Kind)
		}
		e.System.AddEmitter(em)
		e.Emitters[ec.Name] = em
	}

	return e, nil
}

// Library holds every configured effect in configuration order.
type Library struct {
	effects   []*Effect
	byName    map[string]*Effect
	backdrops []*Backdrop
}

// Build creates an effect for every configured system.
func Build(cfg *config.Config, rng *rand.Rand) (*Library, error) {
	lib := &Library{byName: make(map[string]*Effect, len(cfg.Systems))}
	for _, sc := range cfg.Systems {
		e, err := BuildSystem(sc, rng)
		if err != nil {
			return nil, err
		}
		lib.effects = append(lib.effects, e)
		lib.byName[e.Name] = e
	}
	for _, bc := range cfg.Backdrops {
		b, err := BuildBackdrop(bc, rng)
		if err != nil {
			return nil, err
		}
		lib.backdrops = append(lib.backdrops, b)
	}
	return lib, nil
}

// Backdrops returns the static fields in configuration order.
func (l *Library) Backdrops() []*Backdrop { return l.backdrops }

// Effects returns the effects in configuration order.
func (l *Library) Effects() []*Effect { return l.effects }

// Get returns the named effect.
func (l *Library) Get(name string) (*Effect, bool) {
	e, ok := l.byName[name]
	return e, ok
}

// Register adds every effect's system and every backdrop to r under its blend mode.
func (l *Library) Register(r *systems.Registry) {
	for _, e := range l.effects {
		r.Add(e.System, e.Mode)
	}
	for _, b := range l.backdrops {
		r.Add(b.System, b.Mode)
	}
}

// SetRate sets the rate of the emitter named by a "system/emitter" key.
func (l *Library) SetRate(key string, rate float64) bool {
	sys, name, ok := config.SplitEmitterKey(key)
	if !ok {
		return false
	}
	e, ok := l.byName[sys]
	if !ok {
		return false
	}
	em, ok := e.Emitters[name]
	if !ok {
		return false
	}
	em.SetRate(rate)
	return true
}

// Rates returns the current rate of every emitter keyed by "system/emitter", in sorted key order.
func (l *Library) Rates() (keys []string, rates []float64) {
	for _, e := range l.effects {
		for name := range e.Emitters {
			keys = append(keys, config.EmitterKey(e.Name, name))
		}
	}
	slices.Sort(keys)
	rates = make([]float64, len(keys))
	for i, key := range keys {
		sys, name, _ := config.SplitEmitterKey(key)
		rates[i] = l.byName[sys].Emitters[name].Rate()
	}
	return keys, rates
}

// ApplyDemo silences every emitter, then sets the rates the demo lists.
// Particles already alive finish their lifetime.
func (l *Library) ApplyDemo(d config.DemoConfig) {
	for _, e := range l.effects {
		for _, em := range e.Emitters {
			em.SetRate(0)
		}
	}
	for key, rate := range d.Rates {
		l.SetRate(key, rate)
	}
}
