package effects

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/sparks/components"
	"github.com/pthm-cable/sparks/config"
	"github.com/pthm-cable/sparks/systems"
)

// Backdrop is a static particle field, such as a star sky, drawn behind the effects.
type Backdrop struct {
	Name   string
	Mode   systems.BlendMode
	System *systems.StaticSystem
}

// BuildBackdrop scatters c.Count sprites uniformly over a disc of c.Radius,
// each at a height drawn from c.Height.
func BuildBackdrop(c config.BackdropConfig, rng *rand.Rand) (*Backdrop, error) {
	mode, ok := systems.ParseBlendMode(c.Blend)
	if !ok {
		return nil, fmt.Errorf("backdrop %q: unknown blend mode %q", c.Name, c.Blend)
	}

	height := Range{c.Height[0], c.Height[1]}
	colors := ColorRange{nrgba(c.ColorMin), nrgba(c.ColorMax)}
	scale := Range{c.Scale[0], c.Scale[1]}

	sys := systems.NewStaticSystem(c.Count)
	for i := 0; i < c.Count; i++ {
		r := c.Radius * math.Sqrt(rng.Float64())
		theta := rng.Float64() * 2 * math.Pi
		sys.AddParticle(components.Sprite{
			Position: r3.Vec{X: r * math.Cos(theta), Y: height.Sample(rng), Z: r * math.Sin(theta)},
			Color:    colors.Sample(rng),
			Angle:    rng.Float64() * 2 * math.Pi,
			Scale:    scale.Sample(rng),
		})
	}
	return &Backdrop{Name: c.Name, Mode: mode, System: sys}, nil
}
