package util

import (
	"time"
)

// CalculatePlaybackProgress reports how far the playback cursor has advanced
// through the replay's time range
func CalculatePlaybackProgress(currentMs, startMs, endMs int64) (elapsed time.Duration, remaining time.Duration) {
	if endMs <= startMs {
		return 0, 0
	}
	if currentMs < startMs {
		currentMs = startMs
	}
	if currentMs > endMs {
		currentMs = endMs
	}
	elapsed = time.Duration(currentMs-startMs) * time.Millisecond
	remaining = time.Duration(endMs-currentMs) * time.Millisecond
	return elapsed, remaining
}

// CalculatePlaybackPercentage converts a playback position to percent of the
// replay's total duration, clamped to [0,100]
func CalculatePlaybackPercentage(currentMs, startMs, endMs int64) float64 {
	if endMs <= startMs {
		return 0
	}
	pct := float64(currentMs-startMs) / float64(endMs-startMs) * 100
	if pct > 100 {
		pct = 100
	}
	if pct < 0 {
		pct = 0
	}
	return pct
}
