package layout

import (
	"github.com/sam16vis/go-replay-inspector/internal/core/grid"
	"github.com/sam16vis/go-replay-inspector/internal/core/model"
)

// Chrome around the grid body: title, playback and context lines plus the
// column header above it, the status line below. The marker gutter sits
// left of every body row.
const (
	chromeRows  = 5
	gutterWidth = 2
)

// GridGeometry converts a terminal size into the grid container size the
// chrome leaves over.
func GridGeometry(termWidth, termHeight int) (width, height int) {
	return termWidth - gutterWidth, termHeight - chromeRows
}

// ReplayInfo identifies the loaded replay for the chrome lines.
type ReplayInfo struct {
	Name         string
	StartMs      int64
	EndMs        int64
	FrameCount   int
	SegmentCount int
}

// DurationMs returns the replay's total span.
func (r ReplayInfo) DurationMs() int64 {
	if r.EndMs <= r.StartMs {
		return 0
	}
	return r.EndMs - r.StartMs
}

// Screen is one frame of render input: the grid's view model plus the
// surrounding chrome state. Strategies read it and never mutate it.
type Screen struct {
	View   *grid.View
	Replay ReplayInfo
	Clock  model.Clock
	State  model.InteractionState
	Param  model.LayoutParam
	Speed  float64
	Width  int
	Height int
}
