package camera

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/sparks/config"
)

func testConfig() config.CameraConfig {
	return config.CameraConfig{
		Arc:          -5,
		Distance:     300,
		TargetHeight: 25,
		Sensitivity:  0.1,
		ZoomSpeed:    20,
		MinDistance:  50,
		MaxDistance:  1200,
		FOV:          45,
	}
}

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestNew(t *testing.T) {
	cam := New(testConfig())

	if cam.Arc != -5 || cam.Rotation != 0 || cam.Distance != 300 {
		t.Errorf("orbit = arc %v rot %v dist %v", cam.Arc, cam.Rotation, cam.Distance)
	}
	if cam.Target != (r3.Vec{Y: 25}) {
		t.Errorf("target = %v", cam.Target)
	}
}

func TestPositionDistance(t *testing.T) {
	cam := New(testConfig())
	for _, rot := range []float64{0, 45, 170, 300} {
		cam.Rotation = rot
		d := r3.Norm(r3.Sub(cam.Position(), cam.Target))
		if !near(d, cam.Distance) {
			t.Errorf("rotation %v: distance %v, want %v", rot, d, cam.Distance)
		}
	}
}

func TestPositionLevel(t *testing.T) {
	cam := New(testConfig())
	cam.SetArc(0)

	p := cam.Position()
	if !near(p.X, 0) || !near(p.Y, 25) || !near(p.Z, -300) {
		t.Errorf("level camera at %v, want (0, 25, -300)", p)
	}

	cam.SetArc(-5)
	if cam.Position().Y <= 25 {
		t.Error("negative arc should lift the camera above the target")
	}
}

func TestArcClamp(t *testing.T) {
	tests := []struct {
		name string
		dy   float64
		want float64
	}{
		{"drag far up", -2000, MaxArc},
		{"drag far down", 2000, -MaxArc},
		{"small drag", -50, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam := New(testConfig())
			cam.Drag(0, tt.dy)
			if !near(cam.Arc, tt.want) {
				t.Errorf("arc = %v, want %v", cam.Arc, tt.want)
			}
		})
	}
}

func TestRotationWraps(t *testing.T) {
	cam := New(testConfig())
	cam.Drag(-100, 0) // -10 degrees
	if !near(cam.Rotation, 350) {
		t.Errorf("rotation = %v, want 350", cam.Rotation)
	}
	cam.Drag(3700, 0) // +370 degrees
	if !near(cam.Rotation, 0) {
		t.Errorf("rotation = %v, want 0", cam.Rotation)
	}
}

func TestZoomClamp(t *testing.T) {
	cam := New(testConfig())

	cam.Zoom(2)
	if cam.Distance != 260 {
		t.Errorf("distance = %v, want 260", cam.Distance)
	}
	cam.Zoom(100)
	if cam.Distance != cam.MinDistance {
		t.Errorf("distance = %v, want min %v", cam.Distance, cam.MinDistance)
	}
	cam.Zoom(-1000)
	if cam.Distance != cam.MaxDistance {
		t.Errorf("distance = %v, want max %v", cam.Distance, cam.MaxDistance)
	}
}

func TestReset(t *testing.T) {
	cam := New(testConfig())
	cam.Drag(500, 300)
	cam.Zoom(4)
	cam.Reset()

	if cam.Arc != -5 || cam.Rotation != 0 || cam.Distance != 300 {
		t.Errorf("reset orbit = arc %v rot %v dist %v", cam.Arc, cam.Rotation, cam.Distance)
	}
}
