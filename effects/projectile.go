package effects

import (
	"fmt"
	"math/rand"
	"time"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/sparks/components"
	"github.com/pthm-cable/sparks/config"
	"github.com/pthm-cable/sparks/systems"
)

// Burst is a one-shot release of particles into a system.
type Burst struct {
	System        *systems.DynamicSystem
	Count         int
	VelocityScale float64 // fraction of the source velocity inherited
	Template      Template
}

// Emit adds Count particles at position, each inheriting VelocityScale of velocity.
// It returns the number actually added; the rest were dropped by a full pool.
func (b Burst) Emit(rng *rand.Rand, position, velocity r3.Vec) int {
	added := 0
	for i := 0; i < b.Count; i++ {
		sp := b.Template.Spawn(rng, position)
		v, _ := sp.Velocity.Get()
		sp.Velocity = components.Some(r3.Add(r3.Scale(b.VelocityScale, velocity), v))
		if b.System.AddParticle(sp) {
			added++
		}
	}
	return added
}

// Projectile is a ballistic body that leaves a trail and bursts when its flight time is up.
type Projectile struct {
	Position r3.Vec
	Velocity r3.Vec // units per second

	age      time.Duration
	lifespan time.Duration
	gravity  float64

	trail       *systems.TrailEmitter
	trailSystem *systems.DynamicSystem
	bursts      []Burst
}

// Trail returns the projectile's trail emitter.
func (p *Projectile) Trail() *systems.TrailEmitter { return p.trail }

// Age returns the time the projectile has been in flight.
func (p *Projectile) Age() time.Duration { return p.age }

// Update integrates one step of flight and moves the trail emitter. The trail
// system's own update spawns the trail particles. When the flight time is over
// the trail is run once more over the final segment, then the projectile
// bursts, detaches its trail and returns false.
func (p *Projectile) Update(dt time.Duration, rng *rand.Rand) bool {
	s := dt.Seconds()
	p.Position = r3.Add(p.Position, r3.Scale(s, p.Velocity))
	p.Velocity.Y -= s * p.gravity
	p.age += dt

	p.trail.Position = p.Position

	if p.age <= p.lifespan {
		return true
	}
	p.trail.Update(dt)
	for _, b := range p.bursts {
		b.Emit(rng, p.Position, p.Velocity)
	}
	p.trailSystem.RemoveEmitter(p.trail)
	return false
}

// Launcher fires projectiles at a fixed interval while enabled and flies
// every projectile in the air, enabled or not.
type Launcher struct {
	Enabled bool

	interval         time.Duration
	lifespan         time.Duration
	gravity          float64
	sidewaysVelocity float64
	verticalVelocity float64

	trailSystem   *systems.DynamicSystem
	trailRate     float64
	trailVelocity float64
	trailTemplate Template
	bursts        []Burst

	rng         *rand.Rand
	projectiles []*Projectile
	untilNext   time.Duration
	launched    uint64
}

// NewLauncher resolves the trail and burst systems of c in lib.
func NewLauncher(c config.ProjectileConfig, lib *Library, rng *rand.Rand) (*Launcher, error) {
	trail, ok := lib.Get(c.TrailSystem)
	if !ok {
		return nil, fmt.Errorf("trail system %q not found", c.TrailSystem)
	}

	l := &Launcher{
		interval:         seconds(c.Interval),
		lifespan:         seconds(c.Lifespan),
		gravity:          c.Gravity,
		sidewaysVelocity: c.SidewaysVelocity,
		verticalVelocity: c.VerticalVelocity,
		trailSystem:      trail.System,
		trailRate:        c.TrailRate,
		trailVelocity:    c.TrailVelocity,
		trailTemplate:    NewTemplate(c.TrailParticle),
		rng:              rng,
	}
	for _, bc := range c.Bursts {
		e, ok := lib.Get(bc.System)
		if !ok {
			return nil, fmt.Errorf("burst system %q not found", bc.System)
		}
		l.bursts = append(l.bursts, Burst{
			System:        e.System,
			Count:         bc.Count,
			VelocityScale: bc.VelocityScale,
			Template:      NewTemplate(bc.Particle),
		})
	}
	return l, nil
}

// Fire launches a projectile from the origin in a random, roughly upward direction.
func (l *Launcher) Fire() *Projectile {
	velocity := r3.Vec{
		X: (l.rng.Float64() - 0.5) * l.sidewaysVelocity,
		Y: (l.rng.Float64() + 0.5) * l.verticalVelocity,
		Z: (l.rng.Float64() - 0.5) * l.sidewaysVelocity,
	}
	p := &Projectile{
		Velocity:    velocity,
		lifespan:    l.lifespan,
		gravity:     l.gravity,
		trail:       NewTrailEmitter(l.trailRate, r3.Vec{}, l.trailTemplate, l.trailVelocity, l.rng),
		trailSystem: l.trailSystem,
		bursts:      l.bursts,
	}
	l.trailSystem.AddEmitter(p.trail)
	l.projectiles = append(l.projectiles, p)
	l.launched++
	return p
}

// Update launches due projectiles, then flies and retires the ones in the air.
// Call it before the registry update so trails see this tick's positions.
func (l *Launcher) Update(dt time.Duration) {
	if l.Enabled && l.interval > 0 {
		l.untilNext -= dt
		for l.untilNext <= 0 {
			l.Fire()
			l.untilNext += l.interval
		}
	}

	live := l.projectiles[:0]
	for _, p := range l.projectiles {
		if p.Update(dt, l.rng) {
			live = append(live, p)
		}
	}
	clear(l.projectiles[len(live):])
	l.projectiles = live
}

// Active returns the number of projectiles in flight.
func (l *Launcher) Active() int { return len(l.projectiles) }

// Launched returns the total number of projectiles fired.
func (l *Launcher) Launched() uint64 { return l.launched }
