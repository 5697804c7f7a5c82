package telemetry

import (
	"time"

	"github.com/pthm-cable/sparks/systems"
)

// Source is a particle system the collector watches.
type Source interface {
	Capacity() int
	LiveCount() int
	Counters() systems.Counters
}

type tracked struct {
	name    string
	src     Source
	base    systems.Counters // counters at window start
	samples []float64        // live count per tick
}

// Collector samples live counts every tick and produces one WindowStats per
// source when a window is flushed.
type Collector struct {
	windowDurationTicks int32
	dt                  time.Duration

	windowStartTick int32
	sources         []*tracked
}

// NewCollector creates a new stats collector.
// window: how long each stats window lasts in simulation time
// dt: simulation time per tick
func NewCollector(window, dt time.Duration) *Collector {
	ticksPerWindow := int32(1)
	if dt > 0 {
		ticksPerWindow = max(int32(window/dt), 1)
	}
	return &Collector{
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
	}
}

// Watch adds a source under name. Events before this call are not counted.
func (c *Collector) Watch(name string, src Source) {
	c.sources = append(c.sources, &tracked{
		name:    name,
		src:     src,
		base:    src.Counters(),
		samples: make([]float64, 0, c.windowDurationTicks),
	})
}

// Sample records the current live count of every source.
func (c *Collector) Sample() {
	for _, t := range c.sources {
		t.samples = append(t.samples, float64(t.src.LiveCount()))
	}
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Flush produces stats for every source and starts the next window.
func (c *Collector) Flush(currentTick int32) []WindowStats {
	elapsed := (time.Duration(currentTick-c.windowStartTick) * c.dt).Seconds()
	out := make([]WindowStats, 0, len(c.sources))

	for _, t := range c.sources {
		now := t.src.Counters()
		spawned := now.Spawned - t.base.Spawned
		expired := now.Expired - t.base.Expired
		dropped := now.Dropped - t.base.Dropped

		live := Summarize(t.samples)
		ws := WindowStats{
			WindowStartTick: c.windowStartTick,
			WindowEndTick:   currentTick,
			SimTimeSec:      (time.Duration(currentTick) * c.dt).Seconds(),
			System:          t.name,
			Capacity:        t.src.Capacity(),
			LiveMean:        live.Mean,
			LiveStd:         live.Std,
			LiveP50:         live.P50,
			LiveP90:         live.P90,
			LiveMax:         int(live.Max),
			Spawned:         spawned,
			Expired:         expired,
			Dropped:         dropped,
		}
		if ws.Capacity > 0 {
			ws.Utilization = live.Mean / float64(ws.Capacity)
		}
		if elapsed > 0 {
			ws.SpawnRate = float64(spawned) / elapsed
		}
		if requested := spawned + dropped; requested > 0 {
			ws.DropRate = float64(dropped) / float64(requested)
		}
		out = append(out, ws)

		t.base = now
		t.samples = t.samples[:0]
	}

	c.windowStartTick = currentTick
	return out
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowDurationTicks
}
