package scene

import (
	"log/slog"

	"github.com/pthm-cable/sparks/telemetry"
)

// flushTelemetry writes a stats window when one is complete and handles bookmarks.
func (s *Scene) flushTelemetry() {
	if !s.collector.ShouldFlush(s.tick) {
		return
	}

	stats := s.collector.Flush(s.tick)
	perfStats := s.perf.Stats()

	if s.statsCallback != nil {
		s.statsCallback(stats)
	}

	if s.logStats {
		for _, ws := range stats {
			ws.LogStats()
		}
		slog.Info("perf", "tick", s.tick, "stats", perfStats)
	}

	if err := s.output.WriteTelemetry(stats...); err != nil {
		slog.Error("failed to write telemetry", "error", err)
	}
	if err := s.output.WritePerf(perfStats, s.tick); err != nil {
		slog.Error("failed to write perf", "error", err)
	}

	for _, ws := range stats {
		for _, bm := range s.bookmarks.Check(ws) {
			if s.logStats {
				bm.LogBookmark()
			}
			if err := s.output.WriteBookmark(bm); err != nil {
				slog.Error("failed to write bookmark", "error", err)
			}
			if s.snapshots {
				s.saveSnapshot(&bm)
			}
		}
	}
}

// saveSnapshot writes the current particle state to the output directory.
func (s *Scene) saveSnapshot(bookmark *telemetry.Bookmark) {
	path, err := s.output.WriteSnapshot(s.Snapshot(bookmark))
	if err != nil {
		slog.Error("failed to save snapshot", "error", err)
		return
	}
	slog.Info("snapshot saved", "path", path, "tick", s.tick)
}

// Snapshot captures every particle system and backdrop. bookmark may be nil.
func (s *Scene) Snapshot(bookmark *telemetry.Bookmark) *telemetry.Snapshot {
	snap := &telemetry.Snapshot{
		Version:  telemetry.SnapshotVersion,
		RNGSeed:  s.seed,
		Tick:     s.tick,
		Demo:     s.Demo().Name,
		Bookmark: bookmark,
	}
	for _, e := range s.library.Effects() {
		snap.Systems = append(snap.Systems, telemetry.CaptureSystem(e.Name, e.Mode, e.System))
	}
	for _, b := range s.library.Backdrops() {
		snap.Systems = append(snap.Systems, telemetry.CaptureSystem(b.Name, b.Mode, b.System))
	}
	return snap
}
