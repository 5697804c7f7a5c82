package telemetry

import (
	"log/slog"
	"slices"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for one particle system over a time window.
type WindowStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	System   string `csv:"system"`
	Capacity int    `csv:"capacity"`

	// Live count distribution, sampled every tick
	LiveMean float64 `csv:"live_mean"`
	LiveStd  float64 `csv:"live_std"`
	LiveP50  float64 `csv:"live_p50"`
	LiveP90  float64 `csv:"live_p90"`
	LiveMax  int     `csv:"live_max"`

	// LiveMean / Capacity
	Utilization float64 `csv:"utilization"`

	// Lifecycle events during the window
	Spawned uint64 `csv:"spawned"`
	Expired uint64 `csv:"expired"`
	Dropped uint64 `csv:"dropped"`

	SpawnRate float64 `csv:"spawn_rate"` // spawned per simulated second
	DropRate  float64 `csv:"drop_rate"`  // Dropped / (Spawned + Dropped)
}

// Summary is the distribution of a sample set.
type Summary struct {
	Mean, Std     float64
	P50, P90, Max float64
}

// Summarize computes mean, population std and empirical quantiles.
// It sorts values in place. An empty set summarizes to zeros.
func Summarize(values []float64) Summary {
	if len(values) == 0 {
		return Summary{}
	}
	slices.Sort(values)
	mean, std := stat.PopMeanStdDev(values, nil)
	return Summary{
		Mean: mean,
		Std:  std,
		P50:  stat.Quantile(0.5, stat.Empirical, values, nil),
		P90:  stat.Quantile(0.9, stat.Empirical, values, nil),
		Max:  values[len(values)-1],
	}
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.String("system", s.System),
		slog.Int("capacity", s.Capacity),
		slog.Float64("live_mean", s.LiveMean),
		slog.Float64("live_std", s.LiveStd),
		slog.Float64("live_p90", s.LiveP90),
		slog.Int("live_max", s.LiveMax),
		slog.Float64("utilization", s.Utilization),
		slog.Uint64("spawned", s.Spawned),
		slog.Uint64("expired", s.Expired),
		slog.Uint64("dropped", s.Dropped),
		slog.Float64("spawn_rate", s.SpawnRate),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats", "window", s)
}
