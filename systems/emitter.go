package systems

import (
	"errors"
	"math"
	"time"
)

// ErrUnboundEmitter is the panic value raised when an emitter tries to emit
// before it has been attached to a particle system.
var ErrUnboundEmitter = errors.New("systems: emitter is not bound to a particle system")

// Emitter produces particles into the system it is bound to.
type Emitter interface {
	// SetSystem binds the emitter to its target system.
	SetSystem(s *DynamicSystem)
	// Update advances the emitter by dt, spawning zero or more particles.
	Update(dt time.Duration)
}

// SpawnFunc initializes and adds one particle to s.
type SpawnFunc func(s *DynamicSystem)

// RateEmitter emits a steady number of particles per second regardless of
// how the elapsed time is split into ticks. The fractional remainder carries
// over between ticks.
type RateEmitter struct {
	system *DynamicSystem
	spawn  SpawnFunc
	rate   float64
	owed   float64
}

// NewRateEmitter creates an emitter spawning rate particles per second with spawn.
func NewRateEmitter(rate float64, spawn SpawnFunc) *RateEmitter {
	return &RateEmitter{rate: rate, spawn: spawn}
}

// SetSystem binds the emitter to s.
func (e *RateEmitter) SetSystem(s *DynamicSystem) {
	e.system = s
}

// System returns the bound system, or nil.
func (e *RateEmitter) System() *DynamicSystem {
	return e.system
}

// Rate returns the emission rate in particles per second.
func (e *RateEmitter) Rate() float64 {
	return e.rate
}

// SetRate changes the emission rate and discards the owed remainder.
func (e *RateEmitter) SetRate(rate float64) {
	e.rate = rate
	e.owed = 0
}

// Owed returns the fractional number of particles carried to the next tick.
func (e *RateEmitter) Owed() float64 {
	return e.owed
}

// Update accumulates dt*rate and emits the whole part.
func (e *RateEmitter) Update(dt time.Duration) {
	if dt <= 0 || e.rate <= 0 {
		return
	}
	e.owed += dt.Seconds() * e.rate
	n := math.Floor(e.owed)
	if n > 0 {
		e.Emit(int(n))
		e.owed -= n
	}
}

// Emit spawns count particles into the bound system. Particles that do not
// fit in the pool are dropped by the system.
func (e *RateEmitter) Emit(count int) {
	if e.system == nil {
		panic(ErrUnboundEmitter)
	}
	if e.spawn == nil {
		return
	}
	for i := 0; i < count; i++ {
		e.spawn(e.system)
	}
}
