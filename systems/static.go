package systems

import "github.com/pthm-cable/sparks/components"

// StaticSystem holds particles whose properties never change, such as stars
// or billboards. It has no update step.
type StaticSystem struct {
	pool    *Pool[components.StaticParticle]
	enabled bool
}

// NewStaticSystem creates an enabled system with a pool of capacity particles.
func NewStaticSystem(capacity int) *StaticSystem {
	return &StaticSystem{
		pool:    NewPool[components.StaticParticle](capacity),
		enabled: true,
	}
}

// AddParticle adds a particle with the given appearance.
// It returns false if the pool is full.
func (s *StaticSystem) AddParticle(sp components.Sprite) bool {
	p, ok := s.pool.TryAcquire()
	if !ok {
		return false
	}
	p.Sprite = sp
	return true
}

// Enabled reports whether the system is drawn.
func (s *StaticSystem) Enabled() bool { return s.enabled }

// SetEnabled shows or hides the system.
func (s *StaticSystem) SetEnabled(enabled bool) { s.enabled = enabled }

// Capacity returns the pool size.
func (s *StaticSystem) Capacity() int { return s.pool.Capacity() }

// LiveCount returns the number of placed particles.
func (s *StaticSystem) LiveCount() int { return s.pool.LiveCount() }

// Sprite returns the appearance of live particle i. It panics if i is out of range.
func (s *StaticSystem) Sprite(i int) components.Sprite { return s.pool.Get(i).Sprite }

// RemoveAt removes live particle i by swapping in the last one.
// It returns false if i is out of range.
func (s *StaticSystem) RemoveAt(i int) bool { return s.pool.RemoveAt(i) }

// Clear removes every particle.
func (s *StaticSystem) Clear() { s.pool.Clear() }
