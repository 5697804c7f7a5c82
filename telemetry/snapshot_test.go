package telemetry

import (
	"image/color"
	"path/filepath"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/sparks/components"
	"github.com/pthm-cable/sparks/systems"
)

func TestCaptureSystem(t *testing.T) {
	sys := systems.NewDynamicSystem(4)
	sp := components.NewSpawn(r3.Vec{X: 1, Y: 2, Z: 3}, color.NRGBA{R: 10, G: 20, B: 30, A: 40})
	sp.Scale = 0.5
	sys.AddParticle(sp)
	sys.AddParticle(components.NewSpawn(r3.Vec{}, color.NRGBA{}))

	st := CaptureSystem("fire", systems.BlendAdditive, sys)
	if st.Name != "fire" || st.Blend != systems.BlendAdditive.String() || st.Capacity != 4 {
		t.Errorf("state = %+v", st)
	}
	if len(st.Particles) != 2 || st.Spawned != 2 {
		t.Fatalf("particles=%d spawned=%d, want 2/2", len(st.Particles), st.Spawned)
	}
	want := ParticleState{X: 1, Y: 2, Z: 3, Color: [4]uint8{10, 20, 30, 40}, Scale: 0.5}
	if st.Particles[0] != want {
		t.Errorf("particle = %+v, want %+v", st.Particles[0], want)
	}
}

func TestSnapshotSaveLoad(t *testing.T) {
	dir := t.TempDir()
	snapshot := &Snapshot{
		Version: SnapshotVersion,
		RNGSeed: 42,
		Tick:    1000,
		Demo:    "Ring of fire",
		Systems: []SystemState{
			{Name: "fire", Blend: "additive", Capacity: 500, Particles: []ParticleState{{X: 1, Scale: 0.1}}},
			{Name: "smoke", Blend: "alpha", Capacity: 500, Particles: []ParticleState{}},
		},
		Bookmark: &Bookmark{Type: BookmarkSaturated, Tick: 1000, System: "fire"},
	}

	path, err := SaveSnapshot(snapshot, dir)
	if err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}
	loaded, err := LoadSnapshot(path)
	if err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}

	if loaded.RNGSeed != 42 || loaded.Tick != 1000 || loaded.Demo != "Ring of fire" {
		t.Errorf("header = %+v", loaded)
	}
	if len(loaded.Systems) != 2 || loaded.LiveCount() != 1 {
		t.Fatalf("systems=%d live=%d", len(loaded.Systems), loaded.LiveCount())
	}
	if loaded.Systems[0].Particles[0] != snapshot.Systems[0].Particles[0] {
		t.Errorf("particle = %+v", loaded.Systems[0].Particles[0])
	}
	if loaded.Bookmark == nil || loaded.Bookmark.Type != BookmarkSaturated {
		t.Errorf("bookmark = %+v", loaded.Bookmark)
	}
}

func TestSnapshotFilename(t *testing.T) {
	dir := t.TempDir()

	path, err := SaveSnapshot(&Snapshot{
		Version:  SnapshotVersion,
		Tick:     5000,
		Bookmark: &Bookmark{Type: BookmarkDrained, System: "smoke"},
	}, dir)
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(dir, "snapshot_5000_smoke_drained.json"); path != want {
		t.Errorf("path = %s, want %s", path, want)
	}

	path, err = SaveSnapshot(&Snapshot{Version: SnapshotVersion, Tick: 3000}, dir)
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(dir, "snapshot_3000.json"); path != want {
		t.Errorf("path = %s, want %s", path, want)
	}
}

func TestLoadSnapshotVersionMismatch(t *testing.T) {
	path, err := SaveSnapshot(&Snapshot{Version: SnapshotVersion + 1}, t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := LoadSnapshot(path); err == nil {
		t.Error("expected a version error")
	}
}
