package grid

import (
	"github.com/sam16vis/go-replay-inspector/internal/core/model"
)

// JumpDirection tells the caller which way a jump moved the viewport.
type JumpDirection string

const (
	JumpUp   JumpDirection = "up"
	JumpDown JumpDirection = "down"
)

// FindCurrentIndex locates the display row the playback position maps to:
// the first row starting at or after the target time, falling back to the
// last row when the position is beyond every frame. Callers must only rely
// on the result while rows are ordered by start time.
func FindCurrentIndex(seq *DisplaySequence, targetMs int64) int {
	n := seq.Len()
	if n == 0 {
		return -1
	}
	for i, frame := range seq.Frames {
		if frame.StartMs >= targetMs {
			return i
		}
	}
	return n - 1
}

// findCurrentIndexDesc mirrors the search for a start-descending sequence by
// scanning the reversed view and mapping the hit back.
func findCurrentIndexDesc(seq *DisplaySequence, targetMs int64) int {
	n := seq.Len()
	if n == 0 {
		return -1
	}
	for i := n - 1; i >= 0; i-- {
		if seq.Frames[i].StartMs >= targetMs {
			return i
		}
	}
	return 0
}

// JumpState is the navigator's per-render output: whether jump-to-current
// is offered, and where it would go.
type JumpState struct {
	Enabled   bool
	Index     int
	Direction JumpDirection
	// ScrollTarget is the row to scroll to. Jumping up lands one past the
	// current row so it drops clear of the header line.
	ScrollTarget int
}

// ComputeJumpState decides jump availability for the current render. Jumps
// only make sense while rows are ordered by start time; any other sort
// breaks the index-to-time correlation, so the affordance disappears. A row
// already inside the visible range needs no jump, except the topmost row,
// which may sit flush against the header.
func ComputeJumpState(seq *DisplaySequence, cfg SortConfig, clock model.Clock, firstVisible, lastVisible int) JumpState {
	if seq.Len() == 0 || cfg.By != ColumnStart {
		return JumpState{}
	}

	targetMs := clock.EffectiveMs()
	var index int
	if cfg.Asc {
		index = FindCurrentIndex(seq, targetMs)
	} else {
		index = findCurrentIndexDesc(seq, targetMs)
	}
	if index < 0 {
		return JumpState{}
	}

	switch {
	case index <= firstVisible:
		target := index + 1
		if target >= seq.Len() {
			target = seq.Len() - 1
		}
		return JumpState{Enabled: true, Index: index, Direction: JumpUp, ScrollTarget: target}
	case index > lastVisible:
		return JumpState{Enabled: true, Index: index, Direction: JumpDown, ScrollTarget: index}
	default:
		return JumpState{Index: index}
	}
}

// RowTimeClass labels a rendered row against both playback timelines. The
// boundary row, where the classification flips, is where the renderer draws
// the playback marker.
type RowTimeClass struct {
	AfterCurrent    bool
	AfterHover      bool
	CurrentBoundary bool
	HoverBoundary   bool
}

// classifyRows labels every row in [start, stop] against the clock. The
// per-row before/after label depends only on the frame's own start time;
// boundary detection scans the whole sequence so a marker appears exactly
// once per timeline. With rows in descending time order the flip runs the
// other way, so the boundary is the first before-row instead.
func classifyRows(seq *DisplaySequence, clock model.Clock, start, stop int, desc bool) []RowTimeClass {
	if stop < start {
		return nil
	}
	classes := make([]RowTimeClass, stop-start+1)

	currentBoundary := boundaryIndex(seq, clock.CurrentTimeMs, desc)
	hoverBoundary := -1
	if clock.HoverTimeMs != nil {
		hoverBoundary = boundaryIndex(seq, *clock.HoverTimeMs, desc)
	}

	for i := start; i <= stop; i++ {
		class := &classes[i-start]
		frame := seq.Frames[i]
		class.AfterCurrent = frame.StartMs >= clock.CurrentTimeMs
		class.CurrentBoundary = i == currentBoundary
		if clock.HoverTimeMs != nil {
			class.AfterHover = frame.StartMs >= *clock.HoverTimeMs
			class.HoverBoundary = i == hoverBoundary
		}
	}
	return classes
}

// boundaryIndex returns the display index the playback marker sits above,
// or -1 when every row is on one side of the target.
func boundaryIndex(seq *DisplaySequence, targetMs int64, desc bool) int {
	for i, frame := range seq.Frames {
		after := frame.StartMs >= targetMs
		if after != desc {
			return i
		}
	}
	return -1
}
