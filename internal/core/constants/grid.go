package constants

import "time"

const (
	// Rows rendered beyond each edge of the viewport so small scrolls
	// reuse already-measured content
	OverscanRows = 5

	// Row heights per layout style
	RowHeightDetailed = 2
	RowHeightCompact  = 1

	// Idle gap that splits a replay into activity phases
	PhaseGap = 5 * time.Second
)

const (
	// Playback stepping
	SeekStepMs  = int64(1000)
	HoverStepMs = int64(250)

	// Wall-clock rate at which the playback clock advances while playing
	PlaybackTick = 100 * time.Millisecond
)

const (
	// Reload debounce after a watched segment file changes
	ReloadDebounce = 500 * time.Millisecond

	// Interval between cache persistence sweeps
	CachePersistInterval = 30 * time.Second

	// Parse results older than this are revalidated against the file
	CacheMaxAge = 48 * time.Hour
)
