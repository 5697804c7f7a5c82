package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultsAreValid(t *testing.T) {
	cfg, err := Defaults()
	if err != nil {
		t.Fatalf("Defaults: %v", err)
	}

	if cfg.Derived.DT <= 0 || cfg.Derived.MaxDT < cfg.Derived.DT {
		t.Errorf("derived dt=%v max_dt=%v", cfg.Derived.DT, cfg.Derived.MaxDT)
	}
	if cfg.Derived.StatsWindow != 10*time.Second {
		t.Errorf("StatsWindow = %v, want 10s", cfg.Derived.StatsWindow)
	}
	if len(cfg.Demos) != 3 {
		t.Errorf("demos = %d, want 3", len(cfg.Demos))
	}
	for _, name := range []string{"smoke", "fire", "trail", "explosion", "explosion_smoke"} {
		if _, ok := cfg.System(name); !ok {
			t.Errorf("system %q missing from defaults", name)
		}
	}
	if _, ok := cfg.System("nope"); ok {
		t.Error("System found an unknown name")
	}
}

func TestLoadMergesUserFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "user.yaml")
	user := "simulation:\n  dt: 0.02\ncamera:\n  distance: 500\n"
	if err := os.WriteFile(path, []byte(user), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Derived.DT != 20*time.Millisecond {
		t.Errorf("DT = %v, want 20ms", cfg.Derived.DT)
	}
	if cfg.Camera.Distance != 500 {
		t.Errorf("camera distance = %v, want 500", cfg.Camera.Distance)
	}
	// Untouched sections keep their defaults.
	if cfg.Simulation.MaxDT != 0.1 || len(cfg.Systems) != 5 {
		t.Errorf("defaults lost: max_dt=%v systems=%d", cfg.Simulation.MaxDT, len(cfg.Systems))
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("err = %v, want os.ErrNotExist", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		want   string
	}{
		{"negative capacity", func(c *Config) { c.Systems[0].Capacity = -1 }, "negative capacity"},
		{"unknown blend", func(c *Config) { c.Systems[0].Blend = "multiply" }, "unknown blend"},
		{"unknown affector", func(c *Config) { c.Systems[0].Affectors[0].Kind = "wobble" }, "unknown affector"},
		{"negative rate", func(c *Config) { c.Systems[0].Emitters[0].Rate = -3 }, "negative rate"},
		{"duplicate system", func(c *Config) { c.Systems[1].Name = c.Systems[0].Name }, "duplicate system"},
		{"unknown demo emitter", func(c *Config) { c.Demos[1].Rates["smoke/chimney"] = 5 }, "unknown emitter"},
		{"bad trail system", func(c *Config) { c.Projectiles.TrailSystem = "contrail" }, "trail_system"},
		{"zero dt", func(c *Config) { c.Simulation.DT = 0 }, "simulation.dt"},
		{"backdrop name clash", func(c *Config) { c.Backdrops[0].Name = c.Systems[0].Name }, "shares a name"},
		{"negative backdrop count", func(c *Config) { c.Backdrops[0].Count = -1 }, "negative count"},
		{"trail into backdrop", func(c *Config) { c.Projectiles.TrailSystem = c.Backdrops[0].Name }, "trail_system"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Defaults()
			if err != nil {
				t.Fatal(err)
			}
			tt.mutate(cfg)

			err = cfg.Validate()
			if !errors.Is(err, ErrInvalid) {
				t.Fatalf("err = %v, want ErrInvalid", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %q, want it to mention %q", err, tt.want)
			}
		})
	}
}

func TestValidateReportsEveryProblem(t *testing.T) {
	cfg, err := Defaults()
	if err != nil {
		t.Fatal(err)
	}
	cfg.Systems[0].Capacity = -1
	cfg.Systems[1].Blend = "screen"

	err = cfg.Validate()
	msg := err.Error()
	if !strings.Contains(msg, "negative capacity") || !strings.Contains(msg, "unknown blend") {
		t.Errorf("joined error missing a problem: %q", msg)
	}
}

func TestSplitEmitterKey(t *testing.T) {
	tests := []struct {
		key          string
		sys, emitter string
		ok           bool
	}{
		{"smoke/plume", "smoke", "plume", true},
		{EmitterKey("fire", "ring"), "fire", "ring", true},
		{"smoke", "", "", false},
		{"/plume", "", "", false},
		{"smoke/", "", "", false},
		{"", "", "", false},
	}
	for _, tt := range tests {
		sys, em, ok := SplitEmitterKey(tt.key)
		if sys != tt.sys || em != tt.emitter || ok != tt.ok {
			t.Errorf("SplitEmitterKey(%q) = %q, %q, %v", tt.key, sys, em, ok)
		}
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg, err := Defaults()
	if err != nil {
		t.Fatal(err)
	}
	cfg.Systems[0].Emitters[0].Rate = 42

	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}
	back, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := back.Systems[0].Emitters[0].Rate; got != 42 {
		t.Errorf("rate after round trip = %v, want 42", got)
	}
}

func TestCfgBeforeInitPanics(t *testing.T) {
	saved := global
	global = nil
	defer func() {
		global = saved
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	Cfg()
}

func TestCloneIsDeep(t *testing.T) {
	cfg, err := Defaults()
	if err != nil {
		t.Fatal(err)
	}
	cp, err := cfg.Clone()
	if err != nil {
		t.Fatalf("Clone: %v", err)
	}

	i, ok := cp.DemoIndex("Smoke Plume")
	if !ok {
		t.Fatal("demo Smoke Plume not found")
	}
	cp.Demos[i].Rates["smoke/plume"] = 7
	cp.Systems[0].Capacity = 1

	if got := cfg.Demos[i].Rates["smoke/plume"]; got == 7 {
		t.Error("clone shares demo rates with the original")
	}
	if cfg.Systems[0].Capacity == 1 {
		t.Error("clone shares systems with the original")
	}
	if cp.Derived.DT != cfg.Derived.DT || len(cp.Derived.SystemIndex) != len(cfg.Systems) {
		t.Error("derived values not recomputed")
	}
	if _, ok := cp.DemoIndex("missing"); ok {
		t.Error("DemoIndex found a missing demo")
	}
}
