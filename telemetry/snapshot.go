package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pthm-cable/sparks/systems"
)

// SnapshotVersion is incremented when the format changes.
const SnapshotVersion = 1

// Snapshot holds the visible state of every particle system at one tick.
type Snapshot struct {
	Version int    `json:"version"`
	RNGSeed int64  `json:"rng_seed"`
	Tick    int32  `json:"tick"`
	Demo    string `json:"demo"`

	Systems []SystemState `json:"systems"`

	Bookmark *Bookmark `json:"bookmark,omitempty"`
}

// SystemState holds one particle system's live particles.
type SystemState struct {
	Name      string          `json:"name"`
	Blend     string          `json:"blend"`
	Capacity  int             `json:"capacity"`
	Spawned   uint64          `json:"spawned,omitempty"`
	Expired   uint64          `json:"expired,omitempty"`
	Dropped   uint64          `json:"dropped,omitempty"`
	Particles []ParticleState `json:"particles"`
}

// ParticleState is the JSON form of a sprite.
type ParticleState struct {
	X     float64  `json:"x"`
	Y     float64  `json:"y"`
	Z     float64  `json:"z"`
	Color [4]uint8 `json:"rgba"`
	Angle float64  `json:"angle"`
	Scale float64  `json:"scale"`
}

// CaptureSystem copies the live particles of sys. Counters are included when
// the system tracks them.
func CaptureSystem(name string, mode systems.BlendMode, sys systems.ParticleSystem) SystemState {
	st := SystemState{
		Name:      name,
		Blend:     mode.String(),
		Capacity:  sys.Capacity(),
		Particles: make([]ParticleState, sys.LiveCount()),
	}
	if src, ok := sys.(Source); ok {
		c := src.Counters()
		st.Spawned, st.Expired, st.Dropped = c.Spawned, c.Expired, c.Dropped
	}
	for i := range st.Particles {
		s := sys.Sprite(i)
		st.Particles[i] = ParticleState{
			X:     s.Position.X,
			Y:     s.Position.Y,
			Z:     s.Position.Z,
			Color: [4]uint8{s.Color.R, s.Color.G, s.Color.B, s.Color.A},
			Angle: s.Angle,
			Scale: s.Scale,
		}
	}
	return st
}

// LiveCount returns the total number of particles in the snapshot.
func (s *Snapshot) LiveCount() int {
	n := 0
	for _, sys := range s.Systems {
		n += len(sys.Particles)
	}
	return n
}

// SaveSnapshot writes a snapshot to disk.
// Returns the filepath where it was saved.
func SaveSnapshot(snapshot *Snapshot, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	name := fmt.Sprintf("snapshot_%d", snapshot.Tick)
	if snapshot.Bookmark != nil {
		tag := strings.ReplaceAll(snapshot.Bookmark.System+"_"+string(snapshot.Bookmark.Type), " ", "_")
		name = fmt.Sprintf("snapshot_%d_%s", snapshot.Tick, tag)
	}
	path := filepath.Join(dir, name+".json")

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}
	return path, nil
}

// LoadSnapshot reads a snapshot from disk.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	if snapshot.Version != SnapshotVersion {
		return nil, fmt.Errorf("snapshot version %d, want %d", snapshot.Version, SnapshotVersion)
	}
	return &snapshot, nil
}
