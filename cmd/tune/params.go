package main

import (
	"fmt"
	"sort"

	"github.com/pthm-cable/sparks/config"
)

// ParamSpec defines a single tunable emitter rate.
type ParamSpec struct {
	Name    string  // "system/emitter" demo rate key
	Min     float64 // Lower bound, particles per second
	Max     float64 // Upper bound
	Default float64 // Starting rate
}

// ParamVector holds the emitter rates of one demo.
type ParamVector struct {
	Demo  string
	Specs []ParamSpec
}

// NewParamVector builds one parameter per emitter in the named demo.
// Rates start at the demo's value and may range over [0, maxRate].
func NewParamVector(cfg *config.Config, demo string, maxRate float64) (*ParamVector, error) {
	i, ok := cfg.DemoIndex(demo)
	if !ok {
		return nil, fmt.Errorf("unknown demo %q", demo)
	}
	d := cfg.Demos[i]
	if len(d.Rates) == 0 {
		return nil, fmt.Errorf("demo %q has no emitter rates to tune", demo)
	}

	keys := make([]string, 0, len(d.Rates))
	for k := range d.Rates {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pv := &ParamVector{Demo: demo}
	for _, k := range keys {
		def := d.Rates[k]
		if def > maxRate {
			def = maxRate
		}
		pv.Specs = append(pv.Specs, ParamSpec{Name: k, Min: 0, Max: maxRate, Default: def})
	}
	return pv, nil
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = min(max(v[i], spec.Min), spec.Max)
	}
	return clamped
}

// ApplyToConfig writes clamped rates into the tuned demo. The rates map is
// replaced so configs cloned from the same base stay independent.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) error {
	i, ok := cfg.DemoIndex(pv.Demo)
	if !ok {
		return fmt.Errorf("unknown demo %q", pv.Demo)
	}
	clamped := pv.Clamp(values)
	rates := make(map[string]float64, len(pv.Specs))
	for j, spec := range pv.Specs {
		rates[spec.Name] = clamped[j]
	}
	cfg.Demos[i].Rates = rates
	return nil
}

// ExtractFromConfig reads the tuned demo's current rates.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	v := make([]float64, len(pv.Specs))
	i, ok := cfg.DemoIndex(pv.Demo)
	if !ok {
		return v
	}
	for j, spec := range pv.Specs {
		v[j] = cfg.Demos[i].Rates[spec.Name]
	}
	return v
}

// Systems returns the distinct systems the tuned emitters feed, sorted.
func (pv *ParamVector) Systems() []string {
	seen := make(map[string]bool)
	var out []string
	for _, spec := range pv.Specs {
		sys, _, _ := config.SplitEmitterKey(spec.Name)
		if !seen[sys] {
			seen[sys] = true
			out = append(out, sys)
		}
	}
	sort.Strings(out)
	return out
}
