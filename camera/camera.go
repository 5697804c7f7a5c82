// Package camera provides the orbit camera used to view the demo scene.
package camera

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/sparks/config"
)

// MaxArc bounds the tilt so the camera never flips over the target.
const MaxArc = 90.0

// Orbit circles a target point at a fixed distance.
// Angles are in degrees.
type Orbit struct {
	// Arc tilts the camera around the horizontal axis. Negative arcs
	// raise the camera above the target.
	Arc float64

	// Rotation turns the camera around the vertical axis.
	Rotation float64

	Distance float64
	Target   r3.Vec

	// Input response
	Sensitivity float64 // degrees per pixel dragged
	ZoomSpeed   float64 // distance per wheel step

	// Distance constraints
	MinDistance, MaxDistance float64

	FOV float64 // vertical, degrees

	initial config.CameraConfig
}

// New creates an orbit camera from its configuration.
func New(c config.CameraConfig) *Orbit {
	o := &Orbit{
		Sensitivity: c.Sensitivity,
		ZoomSpeed:   c.ZoomSpeed,
		MinDistance: c.MinDistance,
		MaxDistance: c.MaxDistance,
		FOV:         c.FOV,
		initial:     c,
	}
	o.Reset()
	return o
}

// Reset returns the camera to its configured arc, rotation and distance.
func (o *Orbit) Reset() {
	o.Target = r3.Vec{Y: o.initial.TargetHeight}
	o.Rotation = wrapDegrees(o.initial.Rotation)
	o.SetArc(o.initial.Arc)
	o.SetDistance(o.initial.Distance)
}

// SetArc sets the tilt, clamped to [-MaxArc, MaxArc].
func (o *Orbit) SetArc(arc float64) {
	o.Arc = clamp(arc, -MaxArc, MaxArc)
}

// SetDistance sets the orbit radius, clamped to the configured range.
// A zero MaxDistance leaves the radius unbounded above.
func (o *Orbit) SetDistance(d float64) {
	hi := o.MaxDistance
	if hi <= 0 {
		hi = math.Inf(1)
	}
	o.Distance = clamp(d, o.MinDistance, hi)
}

// Drag applies a pointer movement in screen pixels.
// Moving right turns the view, moving up lifts the arc.
func (o *Orbit) Drag(dx, dy float64) {
	o.Rotation = wrapDegrees(o.Rotation + dx*o.Sensitivity)
	o.SetArc(o.Arc - dy*o.Sensitivity)
}

// Zoom moves the camera toward the target by steps wheel notches.
func (o *Orbit) Zoom(steps float64) {
	o.SetDistance(o.Distance - steps*o.ZoomSpeed)
}

// Position returns the camera location in world space.
func (o *Orbit) Position() r3.Vec {
	arc := o.Arc * math.Pi / 180
	rot := o.Rotation * math.Pi / 180
	dir := r3.Vec{
		X: math.Cos(arc) * math.Sin(rot),
		Y: -math.Sin(arc),
		Z: -math.Cos(arc) * math.Cos(rot),
	}
	return r3.Add(o.Target, r3.Scale(o.Distance, dir))
}

// Up returns the camera's up vector.
func (o *Orbit) Up() r3.Vec {
	return r3.Vec{Y: 1}
}

// wrapDegrees maps an angle into [0, 360).
func wrapDegrees(a float64) float64 {
	a = math.Mod(a, 360)
	if a < 0 {
		a += 360
	}
	return a
}

func clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(x, hi))
}
