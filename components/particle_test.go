package components

import (
	"image/color"
	"math"
	"testing"
	"time"

	"gonum.org/v1/gonum/spatial/r3"
)

func TestOptZeroValueIsAbsent(t *testing.T) {
	var o Opt[float64]
	if o.IsSet() {
		t.Error("zero Opt should be absent")
	}
	if v, ok := o.Get(); ok || v != 0 {
		t.Errorf("Get() = %v, %v; want 0, false", v, ok)
	}
	if got := o.Or(3); got != 3 {
		t.Errorf("Or(3) = %v, want 3", got)
	}

	zero := Some(0.0)
	if !zero.IsSet() {
		t.Error("Some(0) should be present")
	}
}

func TestParticleInitSnapshotsInitialValues(t *testing.T) {
	var p Particle
	s := Spawn{
		Position:   r3.Vec{X: 1, Y: 2, Z: 3},
		Color:      color.NRGBA{R: 10, G: 20, B: 30, A: 200},
		Velocity:   Some(r3.Vec{X: 0, Y: 1, Z: 0}),
		Rotation:   Some(0.25),
		Lifespan:   Some(2 * time.Second),
		Affectable: true,
		Angle:      0.5,
		Scale:      0.1,
	}
	p.Init(s)

	// Mutate current values; initial snapshot must not follow.
	p.Position = r3.Vec{}
	p.Color.A = 0
	p.Scale = 5
	p.Velocity = None[r3.Vec]()

	if p.InitialPosition() != s.Position {
		t.Errorf("InitialPosition = %v, want %v", p.InitialPosition(), s.Position)
	}
	if p.InitialColor() != s.Color {
		t.Errorf("InitialColor = %v, want %v", p.InitialColor(), s.Color)
	}
	if p.InitialScale() != 0.1 || p.InitialAngle() != 0.5 {
		t.Errorf("initial scale/angle = %v/%v", p.InitialScale(), p.InitialAngle())
	}
	if v, ok := p.InitialVelocity().Get(); !ok || v.Y != 1 {
		t.Errorf("InitialVelocity = %v, %v", v, ok)
	}
	if r, ok := p.InitialRotation().Get(); !ok || r != 0.25 {
		t.Errorf("InitialRotation = %v, %v", r, ok)
	}
	if !p.IsAffectable {
		t.Error("expected affectable")
	}
}

func TestParticleInitOverwritesStaleFields(t *testing.T) {
	var p Particle
	p.Init(Spawn{Velocity: Some(r3.Vec{X: 1}), Lifespan: Some(time.Second), Affectable: true})
	p.Init(Spawn{})

	if p.Velocity.IsSet() || p.InitialVelocity().IsSet() {
		t.Error("velocity should be cleared by re-init")
	}
	if p.Lifespan().IsSet() || p.RemainingLifetime().IsSet() {
		t.Error("lifetime should be cleared by re-init")
	}
	if p.IsAffectable {
		t.Error("affectable should be cleared by re-init")
	}
}

func TestSetLifespanResetsRemaining(t *testing.T) {
	var p Particle
	p.SetLifespan(Some(time.Second))
	p.Elapse(300 * time.Millisecond)

	p.SetLifespan(Some(4 * time.Second))
	rem, ok := p.RemainingLifetime().Get()
	if !ok || rem != 4*time.Second {
		t.Errorf("remaining = %v, %v; want 4s", rem, ok)
	}

	p.SetLifespan(None[time.Duration]())
	if p.RemainingLifetime().IsSet() {
		t.Error("remaining must be absent when lifespan is absent")
	}
}

func TestAgeTracksElapsedFraction(t *testing.T) {
	var p Particle
	p.SetLifespan(Some(time.Second))

	if age, ok := p.Age(); !ok || age != 0 {
		t.Fatalf("age at spawn = %v, %v; want 0", age, ok)
	}

	elapsed := time.Duration(0)
	step := 100 * time.Millisecond
	prev := 0.0
	for i := 0; i < 9; i++ {
		if !p.Elapse(step) {
			t.Fatalf("particle expired early at %v", elapsed+step)
		}
		elapsed += step
		age, _ := p.Age()
		want := elapsed.Seconds()
		if math.Abs(age-want) > 1e-9 {
			t.Errorf("age after %v = %v, want %v", elapsed, age, want)
		}
		if age < prev {
			t.Errorf("age decreased: %v -> %v", prev, age)
		}
		prev = age
	}

	if p.Elapse(step) {
		t.Error("expected expiry once elapsed reaches lifespan")
	}
}

func TestAgeUndefinedWithoutLifespan(t *testing.T) {
	var p Particle
	p.Init(NewSpawn(r3.Vec{}, color.NRGBA{A: 255}))
	if _, ok := p.Age(); ok {
		t.Error("age should be undefined without a lifespan")
	}
	if !p.Elapse(time.Hour) {
		t.Error("particle without lifespan must never expire")
	}
}

func TestAgeZeroLifespan(t *testing.T) {
	var p Particle
	p.SetLifespan(Some(time.Duration(0)))
	if age, ok := p.Age(); !ok || age != 1 {
		t.Errorf("Age() = %v, %v; want 1, true", age, ok)
	}
}

func TestNewSpawnDefaults(t *testing.T) {
	s := NewSpawn(r3.Vec{X: 1}, color.NRGBA{A: 255})
	if !s.Affectable || s.Scale != 1 || s.Angle != 0 {
		t.Errorf("unexpected defaults: %+v", s)
	}
	if s.Velocity.IsSet() || s.Rotation.IsSet() || s.Lifespan.IsSet() {
		t.Error("optional fields should default to absent")
	}
}
