// Package components defines the particle records owned by particle pools.
package components

import (
	"image/color"
	"time"

	"gonum.org/v1/gonum/spatial/r3"
)

// Sprite is the renderable projection of a particle.
type Sprite struct {
	Position r3.Vec
	Color    color.NRGBA
	Angle    float64 // radians
	Scale    float64
}

// StaticParticle is a particle with fixed properties (stars, billboards).
// It is never aged or integrated.
type StaticParticle struct {
	Sprite
}

// Spawn holds the values a particle is initialized with.
type Spawn struct {
	Position   r3.Vec
	Color      color.NRGBA
	Velocity   Opt[r3.Vec]  // per tick
	Rotation   Opt[float64] // radians per tick
	Lifespan   Opt[time.Duration]
	Affectable bool
	Angle      float64
	Scale      float64
}

// NewSpawn returns a Spawn with the usual defaults: affectable, no angle, unit scale.
func NewSpawn(position r3.Vec, c color.NRGBA) Spawn {
	return Spawn{
		Position:   position,
		Color:      c,
		Affectable: true,
		Scale:      1,
	}
}

// Particle is a pool-owned record with changing properties.
// It has no identity beyond its pool slot; every field is overwritten by Init.
type Particle struct {
	Sprite

	// Velocity is added to Position once per tick when set.
	Velocity Opt[r3.Vec]
	// Rotation is added to Angle once per tick when set.
	Rotation Opt[float64]
	// IsAffectable gates the affector pipeline.
	IsAffectable bool

	initial         Sprite
	initialVelocity Opt[r3.Vec]
	initialRotation Opt[float64]

	lifespan  Opt[time.Duration]
	remaining Opt[time.Duration]
}

// Init overwrites every field from s and snapshots the initial values.
func (p *Particle) Init(s Spawn) {
	p.Position = s.Position
	p.Color = s.Color
	p.Angle = s.Angle
	p.Scale = s.Scale
	p.initial = p.Sprite

	p.Velocity = s.Velocity
	p.initialVelocity = s.Velocity
	p.Rotation = s.Rotation
	p.initialRotation = s.Rotation

	p.IsAffectable = s.Affectable
	p.SetLifespan(s.Lifespan)
}

// SetLifespan sets the total lifespan and resets the remaining lifetime to it.
func (p *Particle) SetLifespan(d Opt[time.Duration]) {
	p.lifespan = d
	p.remaining = d
}

// Lifespan returns the total lifespan.
func (p *Particle) Lifespan() Opt[time.Duration] { return p.lifespan }

// RemainingLifetime returns the time left before expiry.
func (p *Particle) RemainingLifetime() Opt[time.Duration] { return p.remaining }

// Elapse consumes dt of the remaining lifetime.
// It returns false once the lifetime has run out; particles without a
// lifespan never run out.
func (p *Particle) Elapse(dt time.Duration) bool {
	rem, ok := p.remaining.Get()
	if !ok {
		return true
	}
	rem -= dt
	p.remaining = Some(rem)
	return rem > 0
}

// Age returns the normalized age: 0 at spawn, 1 at expiry.
// It is undefined when no lifespan is set. A zero lifespan is fully aged.
func (p *Particle) Age() (float64, bool) {
	span, ok := p.lifespan.Get()
	if !ok {
		return 0, false
	}
	rem, ok := p.remaining.Get()
	if !ok {
		return 0, false
	}
	if span <= 0 {
		return 1, true
	}
	return 1 - float64(rem)/float64(span), true
}

// InitialPosition returns the position at spawn.
func (p *Particle) InitialPosition() r3.Vec { return p.initial.Position }

// InitialColor returns the color at spawn.
func (p *Particle) InitialColor() color.NRGBA { return p.initial.Color }

// InitialAngle returns the angle at spawn.
func (p *Particle) InitialAngle() float64 { return p.initial.Angle }

// InitialScale returns the scale at spawn.
func (p *Particle) InitialScale() float64 { return p.initial.Scale }

// InitialVelocity returns the velocity at spawn.
func (p *Particle) InitialVelocity() Opt[r3.Vec] { return p.initialVelocity }

// InitialRotation returns the rotation at spawn.
func (p *Particle) InitialRotation() Opt[float64] { return p.initialRotation }
