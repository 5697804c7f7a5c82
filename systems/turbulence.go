package systems

import (
	"time"

	"github.com/ojrac/opensimplex-go"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/sparks/components"
)

// Offsets decorrelating the three noise channels sampled for one particle.
const (
	turbulenceOffsetY = 31.416
	turbulenceOffsetZ = 72.931
)

// Turbulence pushes particles through a coherent 3D noise field (wind, heat shimmer).
type Turbulence struct {
	Field     opensimplex.Noise
	Frequency float64 // spatial frequency of the field
	Strength  float64 // velocity change per second at full field value
}

// NewTurbulence returns a Turbulence over a seeded simplex field.
func NewTurbulence(seed int64, frequency, strength float64) Turbulence {
	return Turbulence{
		Field:     opensimplex.New(seed),
		Frequency: frequency,
		Strength:  strength,
	}
}

// Affect adds dt*Strength*field(position) to the velocity if one is set.
func (t Turbulence) Affect(dt time.Duration, p *components.Particle) {
	v, ok := p.Velocity.Get()
	if !ok || t.Field == nil {
		return
	}
	x := p.Position.X * t.Frequency
	y := p.Position.Y * t.Frequency
	z := p.Position.Z * t.Frequency
	push := r3.Vec{
		X: t.Field.Eval3(x, y, z),
		Y: t.Field.Eval3(x+turbulenceOffsetY, y, z),
		Z: t.Field.Eval3(x, y, z+turbulenceOffsetZ),
	}
	p.Velocity = components.Some(r3.Add(v, r3.Scale(dt.Seconds()*t.Strength, push)))
}
