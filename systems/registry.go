package systems

import (
	"slices"
	"time"

	"github.com/mlange-42/ark/ecs"
)

// BlendMode is an opaque rendering-mode tag used to batch systems for the
// draw pass. The simulation ignores it.
type BlendMode uint8

const (
	BlendAlpha BlendMode = iota
	BlendAdditive
)

// String returns the config name of the mode.
func (m BlendMode) String() string {
	switch m {
	case BlendAlpha:
		return "alpha"
	case BlendAdditive:
		return "additive"
	default:
		return "unknown"
	}
}

// ParseBlendMode maps a config name to a BlendMode.
func ParseBlendMode(name string) (BlendMode, bool) {
	switch name {
	case "", "alpha":
		return BlendAlpha, true
	case "additive":
		return BlendAdditive, true
	default:
		return 0, false
	}
}

// batch is the draw-grouping component of a registered system.
type batch struct {
	Mode BlendMode
}

// member is the system component; Dynamic is nil for systems without an update step.
type member struct {
	System  ParticleSystem
	Dynamic *DynamicSystem
}

// Registry owns a set of particle systems grouped by blend mode.
// Each registered system is an entity in an ECS world.
type Registry struct {
	world   *ecs.World
	mapper  *ecs.Map2[batch, member]
	members *ecs.Filter2[batch, member]
	modes   []BlendMode
	count   int
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	world := ecs.NewWorld()
	return &Registry{
		world:   world,
		mapper:  ecs.NewMap2[batch, member](world),
		members: ecs.NewFilter2[batch, member](world),
	}
}

// Add registers sys under mode and returns its handle.
func (r *Registry) Add(sys ParticleSystem, mode BlendMode) ecs.Entity {
	m := member{System: sys}
	if d, ok := sys.(*DynamicSystem); ok {
		m.Dynamic = d
	}
	b := batch{Mode: mode}
	e := r.mapper.NewEntity(&b, &m)
	r.count++

	if !slices.Contains(r.modes, mode) {
		r.modes = append(r.modes, mode)
		slices.Sort(r.modes)
	}
	return e
}

// Remove unregisters the system behind e.
func (r *Registry) Remove(e ecs.Entity) bool {
	if !r.world.Alive(e) {
		return false
	}
	r.world.RemoveEntity(e)
	r.count--
	r.pruneModes()
	return true
}

// Len returns the number of registered systems.
func (r *Registry) Len() int {
	return r.count
}

// Modes returns the blend modes in use, in ascending order.
func (r *Registry) Modes() []BlendMode {
	return r.modes
}

// Update advances every enabled dynamic system by dt.
func (r *Registry) Update(dt time.Duration) {
	query := r.members.Query()
	for query.Next() {
		_, m := query.Get()
		if m.Dynamic != nil && m.Dynamic.Enabled() {
			m.Dynamic.Update(dt)
		}
	}
}

// ParticleCount returns the number of live particles across enabled systems.
func (r *Registry) ParticleCount() int {
	total := 0
	query := r.members.Query()
	for query.Next() {
		_, m := query.Get()
		if m.System.Enabled() {
			total += m.System.LiveCount()
		}
	}
	return total
}

// Each calls fn for every enabled system registered under mode.
func (r *Registry) Each(mode BlendMode, fn func(sys ParticleSystem)) {
	query := r.members.Query()
	for query.Next() {
		b, m := query.Get()
		if b.Mode == mode && m.System.Enabled() {
			fn(m.System)
		}
	}
}

// EachMode walks the modes in order, calling begin before and end after the
// systems of each mode. It is the enumeration used by the draw pass.
func (r *Registry) EachMode(begin func(mode BlendMode), fn func(sys ParticleSystem), end func(mode BlendMode)) {
	for _, mode := range r.modes {
		if begin != nil {
			begin(mode)
		}
		r.Each(mode, fn)
		if end != nil {
			end(mode)
		}
	}
}

// pruneModes drops modes that no longer have a registered system.
func (r *Registry) pruneModes() {
	used := r.modes[:0]
	for _, mode := range r.modes {
		found := false
		query := r.members.Query()
		for query.Next() {
			b, _ := query.Get()
			if b.Mode == mode {
				found = true
				query.Close()
				break
			}
		}
		if found {
			used = append(used, mode)
		}
	}
	r.modes = used
}
