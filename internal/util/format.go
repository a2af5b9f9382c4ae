package util

import (
	"fmt"
	"time"
)

// FormatNumber renders large counts compactly (1.2K, 3.4M)
func FormatNumber(n int) string {
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	} else if n < 1000000 {
		return fmt.Sprintf("%.1fK", float64(n)/1000)
	}
	return fmt.Sprintf("%.1fM", float64(n)/1000000)
}

// FormatBytes renders a byte count with a binary-ish human suffix.
// Nullable sizes are the caller's concern; this always has a value.
func FormatBytes(n int64) string {
	switch {
	case n < 1024:
		return fmt.Sprintf("%dB", n)
	case n < 1024*1024:
		return fmt.Sprintf("%.1fKB", float64(n)/1024)
	case n < 1024*1024*1024:
		return fmt.Sprintf("%.1fMB", float64(n)/(1024*1024))
	default:
		return fmt.Sprintf("%.1fGB", float64(n)/(1024*1024*1024))
	}
}

// FormatDurationMs renders a request duration in the unit a human scans
// fastest: sub-second in ms, otherwise seconds with one decimal
func FormatDurationMs(ms int64) string {
	if ms < 0 {
		ms = 0
	}
	if ms < 1000 {
		return fmt.Sprintf("%dms", ms)
	}
	return fmt.Sprintf("%.1fs", float64(ms)/1000)
}

// FormatDuration renders a wall-clock span as hours and minutes
func FormatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60

	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}

// FormatOffsetMs renders a position relative to the replay start, e.g. +12.345s
func FormatOffsetMs(ms int64) string {
	sign := "+"
	if ms < 0 {
		sign = "-"
		ms = -ms
	}
	return fmt.Sprintf("%s%d.%03ds", sign, ms/1000, ms%1000)
}

// FormatClockMs renders an absolute millisecond timestamp as wall-clock time
// in the configured timezone, millisecond precision
func FormatClockMs(ms int64, timeFormat string) string {
	t := time.UnixMilli(ms)
	layout := "15:04:05.000"
	if timeFormat == "12h" {
		layout = "3:04:05.000 PM"
	}
	return GetTimeProvider().Format(t, layout)
}
