package systems

import (
	"time"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/sparks/components"
)

// ParticleSystem is the read surface the renderer and registry need.
type ParticleSystem interface {
	Enabled() bool
	Capacity() int
	LiveCount() int
	// Sprite returns the live particle at index i. It panics outside [0, LiveCount).
	Sprite(i int) components.Sprite
	RemoveAt(i int) bool
	Clear()
}

// Counters holds cumulative lifecycle counts for diagnostics.
type Counters struct {
	Spawned uint64
	Expired uint64
	Dropped uint64 // spawn requests refused because the pool was full
}

// DynamicSystem owns a pool of particles plus the emitters that fill it and
// the affectors that animate it.
type DynamicSystem struct {
	pool      *Pool[components.Particle]
	emitters  []Emitter
	affectors []Affector
	enabled   bool
	counters  Counters
}

// NewDynamicSystem creates an enabled system with a pool of capacity particles.
func NewDynamicSystem(capacity int) *DynamicSystem {
	return &DynamicSystem{
		pool:    NewPool[components.Particle](capacity),
		enabled: true,
	}
}

// Enabled reports whether the system is updated and drawn.
func (s *DynamicSystem) Enabled() bool { return s.enabled }

// SetEnabled toggles updating and drawing.
func (s *DynamicSystem) SetEnabled(enabled bool) { s.enabled = enabled }

// Capacity returns the pool capacity.
func (s *DynamicSystem) Capacity() int { return s.pool.Capacity() }

// LiveCount returns the number of live particles.
func (s *DynamicSystem) LiveCount() int { return s.pool.LiveCount() }

// FreeCount returns the number of reusable records.
func (s *DynamicSystem) FreeCount() int { return s.pool.FreeCount() }

// Counters returns the cumulative spawn/expire/drop counts.
func (s *DynamicSystem) Counters() Counters { return s.counters }

// Particle returns the live particle at index i for mutation.
func (s *DynamicSystem) Particle(i int) *components.Particle { return s.pool.Get(i) }

// Sprite returns the renderable projection of the live particle at index i.
func (s *DynamicSystem) Sprite(i int) components.Sprite { return s.pool.Get(i).Sprite }

// RemoveAt removes the live particle at index i, reordering the live set.
func (s *DynamicSystem) RemoveAt(i int) bool { return s.pool.RemoveAt(i) }

// Clear removes every live particle.
func (s *DynamicSystem) Clear() { s.pool.Clear() }

// AddEmitter binds e to this system and appends it.
func (s *DynamicSystem) AddEmitter(e Emitter) {
	e.SetSystem(s)
	s.emitters = append(s.emitters, e)
}

// RemoveEmitter detaches e. Particles it already spawned are unaffected.
func (s *DynamicSystem) RemoveEmitter(e Emitter) bool {
	for i, cur := range s.emitters {
		if cur == e {
			copy(s.emitters[i:], s.emitters[i+1:])
			s.emitters[len(s.emitters)-1] = nil
			s.emitters = s.emitters[:len(s.emitters)-1]
			return true
		}
	}
	return false
}

// Emitters returns the attached emitters in registration order.
func (s *DynamicSystem) Emitters() []Emitter { return s.emitters }

// AddAffector appends a to the pipeline. Later affectors see the output of earlier ones.
func (s *DynamicSystem) AddAffector(a Affector) {
	s.affectors = append(s.affectors, a)
}

// RemoveAffector removes a from the pipeline, keeping the order of the rest.
// Affectors must be comparable to be removed.
func (s *DynamicSystem) RemoveAffector(a Affector) bool {
	for i, cur := range s.affectors {
		if cur == a {
			copy(s.affectors[i:], s.affectors[i+1:])
			s.affectors[len(s.affectors)-1] = nil
			s.affectors = s.affectors[:len(s.affectors)-1]
			return true
		}
	}
	return false
}

// AddParticle takes a free record and initializes it from sp.
// When the pool is full the spawn is dropped and false is returned.
func (s *DynamicSystem) AddParticle(sp components.Spawn) bool {
	p, ok := s.pool.TryAcquire()
	if !ok {
		s.counters.Dropped++
		return false
	}
	p.Init(sp)
	s.counters.Spawned++
	return true
}

// Update runs one tick: emitters, then lifetime and kinematics, then the
// affector pipeline. Particles spawned this tick are aged and affected in
// the same tick.
func (s *DynamicSystem) Update(dt time.Duration) {
	for _, e := range s.emitters {
		e.Update(dt)
	}

	for i := 0; i < s.pool.LiveCount(); i++ {
		p := s.pool.Get(i)

		if !p.Elapse(dt) {
			s.pool.RemoveAt(i)
			s.counters.Expired++
			i-- // revisit the particle swapped into slot i
			continue
		}

		if v, ok := p.Velocity.Get(); ok {
			p.Position = r3.Add(p.Position, v)
		}
		if r, ok := p.Rotation.Get(); ok {
			p.Angle += r
		}

		if p.IsAffectable {
			for _, a := range s.affectors {
				a.Affect(dt, p)
			}
		}
	}
}
