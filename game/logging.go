package game

import (
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/pthm-cable/sparks/telemetry"
)

// logWriter is the destination for log output.
var logWriter io.Writer

// SetLogWriter sets the log output destination.
func SetLogWriter(w io.Writer) {
	logWriter = w
}

// Logf writes a formatted log message.
func Logf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if logWriter != nil {
		fmt.Fprintln(logWriter, msg)
	} else {
		fmt.Println(msg)
	}
}

// logPerfStats logs the tick timing breakdown and pool fill levels.
func (g *Game) logPerfStats() {
	stats := g.scene.Perf().Stats()
	Logf("=== Perf @ Tick %d (%s) | FPS: %.0f ===", g.scene.Tick(), g.scene.Demo().Name, stats.FPS)
	Logf("Tick: avg %s  p95 %s  max %s",
		stats.AvgTickDuration.Round(time.Microsecond),
		stats.P95TickDuration.Round(time.Microsecond),
		stats.MaxTickDuration.Round(time.Microsecond))
	logPhases(stats)
	g.logPoolState()
	Logf("")
}

func logPhases(stats telemetry.PerfStats) {
	phases := make([]string, 0, len(stats.PhaseAvg))
	for name := range stats.PhaseAvg {
		phases = append(phases, name)
	}
	// Slowest first.
	slices.SortFunc(phases, func(a, b string) int {
		return int(stats.PhaseAvg[b] - stats.PhaseAvg[a])
	})
	for _, name := range phases {
		Logf("  %-12s %10s  %5.1f%%", name, stats.PhaseAvg[name].Round(time.Microsecond), stats.PhasePct[name])
	}
}

// logPoolState logs live counts and lifecycle counters per particle system.
func (g *Game) logPoolState() {
	for _, e := range g.scene.Library().Effects() {
		c := e.System.Counters()
		Logf("  %-16s %4d/%-4d spawned=%d expired=%d dropped=%d emitters=%d",
			e.Name, e.System.LiveCount(), e.System.Capacity(),
			c.Spawned, c.Expired, c.Dropped, len(e.System.Emitters()))
	}
	if l := g.scene.Launcher(); l.Launched() > 0 {
		Logf("  projectiles: %d in flight, %d launched", l.Active(), l.Launched())
	}
}
