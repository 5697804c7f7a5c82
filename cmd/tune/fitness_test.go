package main

import (
	"math"
	"testing"

	"github.com/pthm-cable/sparks/telemetry"
)

func TestScore(t *testing.T) {
	fe := &FitnessEvaluator{target: 0.5}

	fitness, util, drop := fe.score([]telemetry.WindowStats{
		{Utilization: 0.4},
		{Utilization: 0.6, DropRate: 0.1},
	})
	if math.Abs(util-0.5) > 1e-9 || math.Abs(drop-0.05) > 1e-9 {
		t.Errorf("util=%v drop=%v, want 0.5 0.05", util, drop)
	}
	want := 0.01 + dropPenalty*0.05
	if math.Abs(fitness-want) > 1e-9 {
		t.Errorf("fitness = %v, want %v", fitness, want)
	}

	if miss, _, _ := fe.score(nil); miss != 0.25+dropPenalty {
		t.Errorf("fitness without windows = %v", miss)
	}
}

func TestEvaluateIdleDemo(t *testing.T) {
	cfg := defaults(t)
	pv, err := NewParamVector(cfg, "Ring of fire", 500)
	if err != nil {
		t.Fatal(err)
	}

	fe := NewFitnessEvaluator(pv, cfg, 40, []int64{1, 2}, 0.8)
	fe.statsWindow = 10 * cfg.Derived.DT

	// No emitter runs, so every pool stays empty.
	fitness := fe.Evaluate([]float64{0, 0})
	if math.Abs(fitness-0.64) > 1e-9 {
		t.Errorf("fitness = %v, want 0.64", fitness)
	}
	if util, drop := fe.Last(); util != 0 || drop != 0 {
		t.Errorf("Last = %v, %v", util, drop)
	}
}

func TestEvaluateBusyDemo(t *testing.T) {
	cfg := defaults(t)
	pv, err := NewParamVector(cfg, "Ring of fire", 500)
	if err != nil {
		t.Fatal(err)
	}

	fe := NewFitnessEvaluator(pv, cfg, 60, []int64{7}, 0.8)
	fe.statsWindow = 10 * cfg.Derived.DT

	fitness := fe.Evaluate([]float64{250, 50})
	if math.IsInf(fitness, 0) || math.IsNaN(fitness) {
		t.Fatalf("fitness = %v", fitness)
	}
	util, _ := fe.Last()
	if util <= 0 || util > 1 {
		t.Errorf("mean utilization = %v, want (0, 1]", util)
	}
}
