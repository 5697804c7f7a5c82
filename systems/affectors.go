package systems

import (
	"math"
	"time"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/sparks/components"
)

// Affector mutates one property of a live particle once per tick.
// Affectors must treat missing optional data as a no-op.
type Affector interface {
	Affect(dt time.Duration, p *components.Particle)
}

// AffectorFunc adapts a function to the Affector interface.
type AffectorFunc func(dt time.Duration, p *components.Particle)

// Affect calls f(dt, p).
func (f AffectorFunc) Affect(dt time.Duration, p *components.Particle) {
	f(dt, p)
}

// Decelerate interpolates velocity between zero and the initial velocity by age.
type Decelerate struct{}

// Affect sets velocity = lerp(initialVelocity, 0, 1-age).
func (Decelerate) Affect(_ time.Duration, p *components.Particle) {
	age, ok := p.Age()
	if !ok || !p.Velocity.IsSet() {
		return
	}
	initial, ok := p.InitialVelocity().Get()
	if !ok {
		return
	}
	p.Velocity = components.Some(lerpVec(initial, r3.Vec{}, 1-age))
}

// Fadeout interpolates alpha between zero and the initial alpha by age.
// The color channels stay at their initial values.
type Fadeout struct{}

// Affect sets alpha = lerp(initialAlpha, 0, 1-age).
func (Fadeout) Affect(_ time.Duration, p *components.Particle) {
	age, ok := p.Age()
	if !ok {
		return
	}
	c := p.InitialColor()
	c.A = channel(lerp(float64(c.A), 0, 1-age))
	p.Color = c
}

// Shrink interpolates scale between zero and the initial scale by age.
type Shrink struct{}

// Affect sets scale = lerp(initialScale, 0, 1-age).
func (Shrink) Affect(_ time.Duration, p *components.Particle) {
	age, ok := p.Age()
	if !ok {
		return
	}
	p.Scale = lerp(p.InitialScale(), 0, 1-age)
}

// Accelerate adds a constant change per second to the velocity (gravity, wind).
type Accelerate struct {
	Change r3.Vec
}

// Affect adds dt*Change to the velocity if one is set.
func (a Accelerate) Affect(dt time.Duration, p *components.Particle) {
	v, ok := p.Velocity.Get()
	if !ok {
		return
	}
	p.Velocity = components.Some(r3.Add(v, r3.Scale(dt.Seconds(), a.Change)))
}

// Grow adds a fixed amount to the scale every tick.
type Grow struct {
	Amount float64
}

// Affect adds Amount to the scale.
func (g Grow) Affect(_ time.Duration, p *components.Particle) {
	p.Scale += g.Amount
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

func lerpVec(a, b r3.Vec, t float64) r3.Vec {
	return r3.Add(a, r3.Scale(t, r3.Sub(b, a)))
}

// channel rounds v to a color channel, saturating at the ends.
func channel(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 255:
		return 255
	default:
		return uint8(math.Round(v))
	}
}
