// Package main tunes the emitter rates of one demo with CMA-ES so that the
// particle pools it feeds run at a target utilization.
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"time"

	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/sparks/config"
)

func main() {
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	demo := flag.String("demo", "Ring of fire", "Demo whose emitter rates are tuned")
	target := flag.Float64("target", 0.8, "Target mean pool utilization in (0, 1]")
	maxRate := flag.Float64("max-rate", 1000, "Upper bound for every rate, particles per second")
	ticks := flag.Int("ticks", 1200, "Simulation ticks per run")
	seeds := flag.Int("seeds", 3, "Number of seeds per evaluation")
	maxEvals := flag.Int("max-evals", 100, "Maximum number of evaluations")
	population := flag.Int("population", 0, "CMA-ES population size (0 = auto)")
	outputDir := flag.String("output", "", "Output directory for results")
	flag.Parse()

	switch {
	case *outputDir == "":
		log.Fatal("--output is required")
	case *target <= 0 || *target > 1:
		log.Fatalf("--target must be in (0, 1], got %v", *target)
	case *maxRate <= 0:
		log.Fatalf("--max-rate must be positive, got %v", *maxRate)
	}
	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		log.Fatalf("failed to create output directory: %v", err)
	}

	baseCfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	params, err := NewParamVector(baseCfg, *demo, *maxRate)
	if err != nil {
		log.Fatal(err)
	}

	evalSeeds := make([]int64, *seeds)
	for i := range evalSeeds {
		evalSeeds[i] = int64(i*1000 + 42)
	}
	evaluator := NewFitnessEvaluator(params, baseCfg, int32(*ticks), evalSeeds, *target)

	elog, err := newEvalLog(filepath.Join(*outputDir, "tune_log.csv"), params)
	if err != nil {
		log.Fatal(err)
	}
	defer elog.Close()

	// CMA-ES works in [0,1] per dimension; rates are denormalized and clamped
	// before every run.
	evals := 0
	best := math.Inf(1)
	var bestRates []float64
	start := time.Now()

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			rates := params.Clamp(params.Denormalize(x))
			fitness := evaluator.Evaluate(rates)
			evals++
			if fitness < best {
				best, bestRates = fitness, rates
			}

			util, drop := evaluator.Last()
			if err := elog.record(evals, fitness, util, drop, rates); err != nil {
				log.Printf("eval log: %v", err)
			}

			elapsed := time.Since(start)
			eta := elapsed / time.Duration(evals) * time.Duration(*maxEvals-evals)
			fmt.Printf("Eval %d/%d: util=%.3f drop=%.3f fitness=%.5f (best=%.5f) | elapsed %s, ETA %s\n",
				evals, *maxEvals, util, drop, fitness, best,
				elapsed.Round(time.Second), eta.Round(time.Second))
			return fitness
		},
	}

	popSize := *population
	if popSize == 0 {
		popSize = 4 + int(3*math.Log(float64(params.Dim())))
	}
	method := &optimize.CmaEsChol{InitStepSize: 0.3, Population: popSize}
	settings := &optimize.Settings{FuncEvaluations: *maxEvals}

	fmt.Printf("Tuning %d rates of demo %q toward utilization %.2f (population %d, %d evals, %d seeds x %d ticks)\n",
		params.Dim(), *demo, *target, popSize, *maxEvals, *seeds, *ticks)

	initX := params.Normalize(params.DefaultVector())
	if _, err := optimize.Minimize(problem, initX, settings, method); err != nil {
		log.Printf("optimization ended: %v", err)
	}
	if bestRates == nil {
		log.Fatal("no evaluation completed")
	}

	fmt.Printf("\nDone after %d evaluations in %s, best fitness %.5f\n",
		evals, time.Since(start).Round(time.Second), best)
	for i, spec := range params.Specs {
		fmt.Printf("  %s: %.3f\n", spec.Name, bestRates[i])
	}

	if err := params.ApplyToConfig(baseCfg, bestRates); err != nil {
		log.Fatal(err)
	}
	out := filepath.Join(*outputDir, "best_config.yaml")
	if err := baseCfg.WriteYAML(out); err != nil {
		log.Fatalf("failed to write best config: %v", err)
	}
	fmt.Printf("Best config saved to: %s\n", out)
}
