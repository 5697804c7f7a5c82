package main

import (
	"math"
	"sync"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/sparks/config"
	"github.com/pthm-cable/sparks/scene"
	"github.com/pthm-cable/sparks/telemetry"
)

// Fitness weights and warmup.
const (
	dropPenalty   = 2.0 // per unit of drop rate
	warmupWindows = 1   // skip the ramp-up windows before pools reach steady state
)

// FitnessEvaluator runs headless scenes and scores how close pool
// utilization is to the target.
type FitnessEvaluator struct {
	params      *ParamVector
	baseConfig  *config.Config
	ticks       int32
	seeds       []int64
	target      float64
	statsWindow time.Duration

	mu       sync.Mutex
	lastUtil float64 // mean utilization from the most recent Evaluate call
	lastDrop float64
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, baseCfg *config.Config, ticks int32, seeds []int64, target float64) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		baseConfig:  baseCfg,
		ticks:       ticks,
		seeds:       seeds,
		target:      target,
		statsWindow: baseCfg.Derived.StatsWindow,
	}
}

// Last returns the mean utilization and drop rate of the most recent evaluation.
func (fe *FitnessEvaluator) Last() (util, drop float64) {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastUtil, fe.lastDrop
}

// runResult holds the tuned systems' windows from one seed.
type runResult struct {
	windows []telemetry.WindowStats
	err     error
}

// Evaluate computes fitness for raw rates (lower = better).
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	cfg, err := fe.baseConfig.Clone()
	if err == nil {
		err = fe.params.ApplyToConfig(cfg, x)
	}
	if err != nil {
		return math.Inf(1)
	}

	// Seeds share cfg read-only.
	results := make([]runResult, len(fe.seeds))
	var wg sync.WaitGroup
	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			results[idx] = fe.runSimulation(cfg, s)
		}(i, seed)
	}
	wg.Wait()

	var windows []telemetry.WindowStats
	for _, r := range results {
		if r.err != nil {
			return math.Inf(1)
		}
		windows = append(windows, r.windows...)
	}

	fitness, util, drop := fe.score(windows)

	fe.mu.Lock()
	fe.lastUtil, fe.lastDrop = util, drop
	fe.mu.Unlock()

	return fitness
}

// runSimulation plays the tuned demo for the configured number of ticks and
// returns the post-warmup windows of the tuned systems.
func (fe *FitnessEvaluator) runSimulation(cfg *config.Config, seed int64) runResult {
	sc, err := scene.New(cfg, scene.Options{Seed: seed, StatsWindow: fe.statsWindow})
	if err != nil {
		return runResult{err: err}
	}
	defer sc.Close()

	idx, _ := cfg.DemoIndex(fe.params.Demo)
	sc.SetDemo(idx)

	tuned := make(map[string]bool)
	for _, s := range fe.params.Systems() {
		tuned[s] = true
	}

	var out []telemetry.WindowStats
	window := 0
	sc.SetStatsCallback(func(stats []telemetry.WindowStats) {
		window++
		if window <= warmupWindows {
			return
		}
		for _, w := range stats {
			if tuned[w.System] {
				out = append(out, w)
			}
		}
	})

	dt := cfg.Derived.DT
	for tick := int32(0); tick < fe.ticks; tick++ {
		sc.Step(dt)
	}
	return runResult{windows: out}
}

// score returns the fitness along with the mean utilization and drop rate
// it was computed from. Without any scored window the run counts as a miss
// of the whole target.
func (fe *FitnessEvaluator) score(windows []telemetry.WindowStats) (fitness, util, drop float64) {
	if len(windows) == 0 {
		return fe.target*fe.target + dropPenalty, 0, 0
	}

	utils := make([]float64, len(windows))
	drops := make([]float64, len(windows))
	var errSq float64
	for i, w := range windows {
		utils[i] = w.Utilization
		drops[i] = w.DropRate
		d := w.Utilization - fe.target
		errSq += d * d
	}
	util = stat.Mean(utils, nil)
	drop = stat.Mean(drops, nil)
	return errSq/float64(len(windows)) + dropPenalty*drop, util, drop
}
