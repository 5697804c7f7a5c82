package effects

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/sparks/components"
	"github.com/pthm-cable/sparks/systems"
)

// Shape picks spawn positions.
type Shape interface {
	Sample(rng *rand.Rand) r3.Vec
}

// Point spawns every particle at the same position.
type Point struct {
	Position r3.Vec
}

// Sample returns the point.
func (p Point) Sample(*rand.Rand) r3.Vec { return p.Position }

// Ring spawns on a circle in the XY plane around Center.
type Ring struct {
	Center r3.Vec
	Radius float64
}

// Sample returns a uniformly distributed point on the circle.
func (r Ring) Sample(rng *rand.Rand) r3.Vec {
	angle := rng.Float64() * 2 * math.Pi
	return r3.Vec{
		X: r.Center.X + math.Cos(angle)*r.Radius,
		Y: r.Center.Y + math.Sin(angle)*r.Radius,
		Z: r.Center.Z,
	}
}

// NewShapeEmitter returns a rate emitter that spawns tmpl particles on shape.
func NewShapeEmitter(rate float64, shape Shape, tmpl Template, rng *rand.Rand) *systems.RateEmitter {
	return systems.NewRateEmitter(rate, func(s *systems.DynamicSystem) {
		s.AddParticle(tmpl.Spawn(rng, shape.Sample(rng)))
	})
}

// NewPlumeEmitter emits from a single point (smoke plume).
func NewPlumeEmitter(rate float64, position r3.Vec, tmpl Template, rng *rand.Rand) *systems.RateEmitter {
	return NewShapeEmitter(rate, Point{Position: position}, tmpl, rng)
}

// NewRingEmitter emits around a circle (ring of fire).
func NewRingEmitter(rate float64, center r3.Vec, radius float64, tmpl Template, rng *rand.Rand) *systems.RateEmitter {
	return NewShapeEmitter(rate, Ring{Center: center, Radius: radius}, tmpl, rng)
}

// NewTrailEmitter returns a trail emitter whose particles inherit
// velocityScale of the trail's own velocity on top of the template velocity.
func NewTrailEmitter(rate float64, start r3.Vec, tmpl Template, velocityScale float64, rng *rand.Rand) *systems.TrailEmitter {
	return systems.NewTrailEmitter(rate, start, func(s *systems.DynamicSystem, position, velocity r3.Vec) {
		sp := tmpl.Spawn(rng, position)
		v, _ := sp.Velocity.Get()
		sp.Velocity = components.Some(r3.Add(v, r3.Scale(velocityScale, velocity)))
		s.AddParticle(sp)
	})
}
