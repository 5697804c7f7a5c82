package telemetry

import (
	"fmt"
	"log/slog"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkSaturated BookmarkType = "saturated" // pool started refusing spawns
	BookmarkRecovered BookmarkType = "recovered" // pool stopped refusing spawns
	BookmarkDrained   BookmarkType = "drained"   // pool stayed empty for a window after being active
)

// Bookmark marks a notable change in a particle system's load.
type Bookmark struct {
	Type        BookmarkType `csv:"type"`
	Tick        int32        `csv:"tick"`
	System      string       `csv:"system"`
	Description string       `csv:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"tick", b.Tick,
		"system", b.System,
		"description", b.Description,
	)
}

type loadState struct {
	saturated bool
	active    bool
}

// BookmarkDetector watches window stats for pool saturation and draining.
type BookmarkDetector struct {
	state map[string]*loadState
}

// NewBookmarkDetector creates an empty detector.
func NewBookmarkDetector() *BookmarkDetector {
	return &BookmarkDetector{state: make(map[string]*loadState)}
}

// Check compares a window against the previous one for the same system.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	st, ok := bd.state[stats.System]
	if !ok {
		st = &loadState{}
		bd.state[stats.System] = st
	}

	var bookmarks []Bookmark
	mark := func(t BookmarkType, format string, args ...any) {
		bookmarks = append(bookmarks, Bookmark{
			Type:        t,
			Tick:        stats.WindowEndTick,
			System:      stats.System,
			Description: fmt.Sprintf(format, args...),
		})
	}

	switch {
	case stats.Dropped > 0 && !st.saturated:
		st.saturated = true
		mark(BookmarkSaturated, "%d of %d spawns dropped at capacity %d",
			stats.Dropped, stats.Spawned+stats.Dropped, stats.Capacity)
	case stats.Dropped == 0 && st.saturated:
		st.saturated = false
		mark(BookmarkRecovered, "no drops, mean live %.1f of %d", stats.LiveMean, stats.Capacity)
	}

	switch {
	case stats.LiveMax > 0:
		st.active = true
	case st.active:
		st.active = false
		mark(BookmarkDrained, "no live particles during the window, %d expired", stats.Expired)
	}

	return bookmarks
}
