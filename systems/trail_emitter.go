package systems

import (
	"time"

	"gonum.org/v1/gonum/spatial/r3"
)

// TrailSpawnFunc adds one trail particle at position. velocity is the
// emitter's estimated speed in units per second.
type TrailSpawnFunc func(s *DynamicSystem, position, velocity r3.Vec)

// TrailEmitter leaves evenly spaced particles behind a moving point.
// Each tick it works out the exact offsets within the elapsed time at which
// particles were due and places them on the segment between the previous
// and the current position, so spacing does not depend on the tick rate.
type TrailEmitter struct {
	// Position is the current emitter position, set by the owner before Update.
	Position r3.Vec

	system   *DynamicSystem
	spawn    TrailSpawnFunc
	interval float64 // seconds between particles
	previous r3.Vec
	leftover float64 // seconds since the last particle
}

// NewTrailEmitter creates a trail emitter starting at initial.
// The first particle is due immediately.
func NewTrailEmitter(particlesPerSecond float64, initial r3.Vec, spawn TrailSpawnFunc) *TrailEmitter {
	e := &TrailEmitter{
		Position: initial,
		spawn:    spawn,
		previous: initial,
	}
	if particlesPerSecond > 0 {
		e.interval = 1 / particlesPerSecond
		e.leftover = e.interval
	}
	return e
}

// SetSystem binds the emitter to s.
func (e *TrailEmitter) SetSystem(s *DynamicSystem) {
	e.system = s
}

// Leftover returns the time since the last particle, carried to the next tick.
func (e *TrailEmitter) Leftover() time.Duration {
	return time.Duration(e.leftover * float64(time.Second))
}

// Update emits the particles due during dt.
func (e *TrailEmitter) Update(dt time.Duration) {
	elapsed := dt.Seconds()
	if elapsed > 0 && e.interval > 0 {
		velocity := r3.Scale(1/elapsed, r3.Sub(e.Position, e.previous))

		last := -1.0
		t := e.interval - e.leftover
		if t < 0 {
			t = 0
		}
		for ; t < elapsed; t += e.interval {
			if e.system == nil {
				panic(ErrUnboundEmitter)
			}
			mu := t / elapsed
			pos := lerpVec(e.previous, e.Position, mu)
			if e.spawn != nil {
				e.spawn(e.system, pos, velocity)
			}
			last = t
		}

		if last >= 0 {
			e.leftover = elapsed - last
		} else {
			e.leftover += elapsed
		}
	}

	e.previous = e.Position
}
