// Package effects composes particle systems, emitters and projectiles from
// configuration. Every random choice draws from an injected *rand.Rand so a
// seeded run is reproducible.
package effects

import (
	"image/color"
	"math"
	"math/rand"
	"time"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/sparks/components"
	"github.com/pthm-cable/sparks/config"
)

// Range is a uniform float range. Min may exceed Max.
type Range struct {
	Min, Max float64
}

// Sample returns a value between Min and Max.
func (r Range) Sample(rng *rand.Rand) float64 {
	if r.Min == r.Max {
		return r.Min
	}
	return r.Min + rng.Float64()*(r.Max-r.Min)
}

// VecRange samples each component independently.
type VecRange struct {
	Min, Max r3.Vec
}

// Sample returns a vector inside the box spanned by Min and Max.
func (r VecRange) Sample(rng *rand.Rand) r3.Vec {
	return r3.Vec{
		X: Range{r.Min.X, r.Max.X}.Sample(rng),
		Y: Range{r.Min.Y, r.Max.Y}.Sample(rng),
		Z: Range{r.Min.Z, r.Max.Z}.Sample(rng),
	}
}

// ColorRange interpolates between two colors with a single factor, so samples
// lie on the line between them.
type ColorRange struct {
	Min, Max color.NRGBA
}

// Sample returns a color between Min and Max.
func (r ColorRange) Sample(rng *rand.Rand) color.NRGBA {
	if r.Min == r.Max {
		return r.Min
	}
	t := rng.Float64()
	mix := func(a, b uint8) uint8 {
		return uint8(math.Round(float64(a) + t*(float64(b)-float64(a))))
	}
	return color.NRGBA{
		R: mix(r.Min.R, r.Max.R),
		G: mix(r.Min.G, r.Max.G),
		B: mix(r.Min.B, r.Max.B),
		A: mix(r.Min.A, r.Max.A),
	}
}

// DurationRange is a uniform duration range.
type DurationRange struct {
	Min, Max time.Duration
}

// Sample returns a duration between Min and Max.
func (r DurationRange) Sample(rng *rand.Rand) time.Duration {
	if r.Min == r.Max {
		return r.Min
	}
	return r.Min + time.Duration(rng.Float64()*float64(r.Max-r.Min))
}

// Template produces randomized spawns.
type Template struct {
	Color      ColorRange
	Velocity   VecRange
	Rotation   Range
	Lifespan   DurationRange // zero range means immortal
	Angle      Range
	Scale      Range
	Affectable bool
}

// Spawn samples a spawn at position.
func (t Template) Spawn(rng *rand.Rand, position r3.Vec) components.Spawn {
	sp := components.Spawn{
		Position:   position,
		Color:      t.Color.Sample(rng),
		Velocity:   components.Some(t.Velocity.Sample(rng)),
		Rotation:   components.Some(t.Rotation.Sample(rng)),
		Affectable: t.Affectable,
		Angle:      t.Angle.Sample(rng),
		Scale:      t.Scale.Sample(rng),
	}
	if t.Lifespan != (DurationRange{}) {
		sp.Lifespan = components.Some(t.Lifespan.Sample(rng))
	}
	return sp
}

// NewTemplate converts a particle config.
func NewTemplate(c config.ParticleConfig) Template {
	return Template{
		Color:      ColorRange{Min: nrgba(c.ColorMin), Max: nrgba(c.ColorMax)},
		Velocity:   VecRange{Min: vec(c.VelocityMin), Max: vec(c.VelocityMax)},
		Rotation:   Range{c.Rotation[0], c.Rotation[1]},
		Lifespan:   DurationRange{Min: seconds(c.Lifespan[0]), Max: seconds(c.Lifespan[1])},
		Angle:      Range{c.Angle[0], c.Angle[1]},
		Scale:      Range{c.Scale[0], c.Scale[1]},
		Affectable: !c.Inert,
	}
}

func nrgba(c [4]uint8) color.NRGBA {
	return color.NRGBA{R: c[0], G: c[1], B: c[2], A: c[3]}
}

func vec(v [3]float64) r3.Vec {
	return r3.Vec{X: v[0], Y: v[1], Z: v[2]}
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
