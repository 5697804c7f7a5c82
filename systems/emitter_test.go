package systems

import (
	"errors"
	"image/color"
	"math"
	"testing"
	"time"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/sparks/components"
)

func spawnAtOrigin(s *DynamicSystem) {
	s.AddParticle(components.NewSpawn(r3.Vec{}, color.NRGBA{A: 255}))
}

func TestRateEmitter_FrameRateIndependence(t *testing.T) {
	tests := []struct {
		name  string
		ticks []time.Duration
		want  int
	}{
		{"five 50ms ticks", []time.Duration{50, 50, 50, 50, 50}, 2},
		{"one 250ms tick", []time.Duration{250}, 2},
		{"uneven split", []time.Duration{10, 90, 20, 130}, 2},
		{"one second", []time.Duration{1000}, 10},
		{"many small ticks", repeat(16*time.Millisecond/time.Millisecond, 62), 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sys := NewDynamicSystem(100)
			e := NewRateEmitter(10, spawnAtOrigin)
			sys.AddEmitter(e)

			for _, ms := range tt.ticks {
				e.Update(ms * time.Millisecond)
			}
			if sys.LiveCount() != tt.want {
				t.Errorf("emitted %d particles, want %d", sys.LiveCount(), tt.want)
			}
			if e.Owed() < 0 || e.Owed() >= 1 {
				t.Errorf("owed = %v, want within [0, 1)", e.Owed())
			}
		})
	}
}

func repeat(d time.Duration, n int) []time.Duration {
	out := make([]time.Duration, n)
	for i := range out {
		out[i] = d
	}
	return out
}

func TestRateEmitter_NoDriftOverLongRun(t *testing.T) {
	sys := NewDynamicSystem(100000)
	e := NewRateEmitter(37, spawnAtOrigin)
	sys.AddEmitter(e)

	// 100 simulated seconds at an awkward frame time.
	const ticks = 6000
	dt := time.Second / 60
	for i := 0; i < ticks; i++ {
		e.Update(dt)
	}

	total := (dt * ticks).Seconds() * 37
	got := float64(sys.LiveCount())
	if math.Abs(got+e.Owed()-total) > 1e-6 {
		t.Errorf("emitted %v + owed %v, want %v", got, e.Owed(), total)
	}
}

func TestRateEmitter_SetRateResetsAccumulator(t *testing.T) {
	sys := NewDynamicSystem(10)
	e := NewRateEmitter(10, spawnAtOrigin)
	sys.AddEmitter(e)

	e.Update(50 * time.Millisecond)
	if e.Owed() == 0 {
		t.Fatal("expected a fractional remainder")
	}
	e.SetRate(20)
	if e.Owed() != 0 || e.Rate() != 20 {
		t.Errorf("owed=%v rate=%v after SetRate", e.Owed(), e.Rate())
	}
}

func TestRateEmitter_IgnoresNegativeInput(t *testing.T) {
	sys := NewDynamicSystem(10)
	e := NewRateEmitter(-5, spawnAtOrigin)
	sys.AddEmitter(e)

	e.Update(time.Second)
	if e.Owed() != 0 || sys.LiveCount() != 0 {
		t.Errorf("negative rate changed state: owed=%v live=%d", e.Owed(), sys.LiveCount())
	}

	e.SetRate(10)
	e.Update(-time.Second)
	if e.Owed() != 0 {
		t.Errorf("negative dt changed owed to %v", e.Owed())
	}
}

func TestRateEmitter_UnboundPanics(t *testing.T) {
	e := NewRateEmitter(10, spawnAtOrigin)

	// Below one owed particle nothing is emitted, so nothing fails.
	e.Update(50 * time.Millisecond)

	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok || !errors.Is(err, ErrUnboundEmitter) {
			t.Errorf("recovered %v, want ErrUnboundEmitter", r)
		}
	}()
	e.Update(100 * time.Millisecond)
	t.Error("expected panic")
}

func TestRateEmitter_DropsWhenPoolFull(t *testing.T) {
	sys := NewDynamicSystem(3)
	e := NewRateEmitter(100, spawnAtOrigin)
	sys.AddEmitter(e)

	e.Update(100 * time.Millisecond)

	if sys.LiveCount() != 3 {
		t.Errorf("LiveCount = %d, want 3", sys.LiveCount())
	}
	if c := sys.Counters(); c.Spawned != 3 || c.Dropped != 7 {
		t.Errorf("counters = %+v, want 3 spawned, 7 dropped", c)
	}
	if e.Owed() >= 1 {
		t.Errorf("dropped spawns must not stay owed, owed = %v", e.Owed())
	}
}
