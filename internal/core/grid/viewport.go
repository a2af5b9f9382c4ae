package grid

import (
	"github.com/sam16vis/go-replay-inspector/internal/core/constants"
)

// Viewport tracks the scroll position of the grid body in terminal lines.
// Row heights above one line make a row span multiple lines, so line offsets
// play the role pixel offsets play in a browser.
type Viewport struct {
	height    int // body height in lines
	width     int // body width in columns
	rowHeight int
	rowCount  int
	scrollTop int // first visible line

	// pendingScroll is the row a programmatic scroll wants visible. It is
	// cleared once the row enters the visible range and superseded by any
	// newer scroll, never queued.
	pendingScroll *int
}

func NewViewport() *Viewport {
	return &Viewport{rowHeight: constants.RowHeightDetailed}
}

// SetGeometry installs the body size. Zero or negative geometry marks the
// viewport invalid; nothing renders until it becomes valid.
func (v *Viewport) SetGeometry(height, width int) {
	v.height = height
	v.width = width
	v.clampScroll()
	v.applyPendingScroll()
}

// IsValid reports whether the viewport has renderable geometry.
func (v *Viewport) IsValid() bool {
	return v.height > 0 && v.width > 0
}

func (v *Viewport) Height() int { return v.height }
func (v *Viewport) Width() int  { return v.width }

// SetRowHeight switches the per-row line count, keeping the top row stable.
func (v *Viewport) SetRowHeight(rowHeight int) {
	if rowHeight < 1 {
		rowHeight = 1
	}
	if rowHeight == v.rowHeight {
		return
	}
	topRow := 0
	if v.rowHeight > 0 {
		topRow = v.scrollTop / v.rowHeight
	}
	v.rowHeight = rowHeight
	v.scrollTop = topRow * rowHeight
	v.clampScroll()
}

func (v *Viewport) RowHeight() int { return v.rowHeight }

// SetRowCount installs the display-sequence length and clamps the scroll
// position into the new extent.
func (v *Viewport) SetRowCount(count int) {
	if count < 0 {
		count = 0
	}
	v.rowCount = count
	v.clampScroll()
	v.applyPendingScroll()
}

func (v *Viewport) ScrollTop() int { return v.scrollTop }

// VisibleRange returns the inclusive row interval
// [floor(scrollTop/rowHeight), floor((scrollTop+height)/rowHeight)]
// clamped to the sequence, guarding the divisor. An invalid viewport or an
// empty sequence yields (0, -1).
func (v *Viewport) VisibleRange() (first, last int) {
	if !v.IsValid() || v.rowHeight <= 0 || v.rowCount == 0 {
		return 0, -1
	}
	first = v.scrollTop / v.rowHeight
	last = (v.scrollTop + v.height) / v.rowHeight
	if last >= v.rowCount {
		last = v.rowCount - 1
	}
	if first >= v.rowCount {
		first = v.rowCount - 1
	}
	return first, last
}

// RenderRange returns the rows to actually lay out: those intersecting the
// viewport plus a fixed overscan margin on each side. The margin keeps small
// scrolls from re-measuring and bounds total work by the viewport size, not
// the sequence length.
func (v *Viewport) RenderRange() (start, stop int) {
	if !v.IsValid() || v.rowHeight <= 0 || v.rowCount == 0 {
		return 0, -1
	}
	start = v.scrollTop / v.rowHeight
	bottom := v.scrollTop + v.height
	stop = (bottom - 1) / v.rowHeight
	if bottom <= v.scrollTop {
		stop = start
	}

	start -= constants.OverscanRows
	stop += constants.OverscanRows
	if start < 0 {
		start = 0
	}
	if stop >= v.rowCount {
		stop = v.rowCount - 1
	}
	if start > stop {
		start = stop
	}
	return start, stop
}

// ScrollTo requests that rowIndex become visible, positioned one row below
// the top edge when space allows so it stays clear of the header line. The
// request persists until geometry lets it apply.
func (v *Viewport) ScrollTo(rowIndex int) {
	target := rowIndex
	v.pendingScroll = &target
	v.applyPendingScroll()
}

// ScrollByRows is a user scroll of whole rows. It supersedes any pending
// programmatic target.
func (v *Viewport) ScrollByRows(deltaRows int) {
	v.pendingScroll = nil
	v.setScrollTop(v.scrollTop + deltaRows*v.rowHeight)
}

// ScrollByLines is a user scroll in line units (paging).
func (v *Viewport) ScrollByLines(deltaLines int) {
	v.pendingScroll = nil
	v.setScrollTop(v.scrollTop + deltaLines)
}

// ScrollToTop and ScrollToBottom are user scrolls to the extremes.
func (v *Viewport) ScrollToTop() {
	v.pendingScroll = nil
	v.setScrollTop(0)
}

func (v *Viewport) ScrollToBottom() {
	v.pendingScroll = nil
	v.setScrollTop(v.maxScrollTop())
}

// EnsureRowVisible scrolls the minimum distance to bring a row fully into
// view. Cursor movement uses this; it does not touch pending targets.
func (v *Viewport) EnsureRowVisible(rowIndex int) {
	if !v.IsValid() || v.rowCount == 0 {
		return
	}
	rowIndex = clampInt(rowIndex, 0, v.rowCount-1)
	rowTop := rowIndex * v.rowHeight
	rowBottom := rowTop + v.rowHeight
	if rowTop < v.scrollTop {
		v.setScrollTop(rowTop)
	} else if rowBottom > v.scrollTop+v.height {
		v.setScrollTop(rowBottom - v.height)
	}
}

func (v *Viewport) applyPendingScroll() {
	if v.pendingScroll == nil || !v.IsValid() || v.rowCount == 0 {
		return
	}
	target := clampInt(*v.pendingScroll, 0, v.rowCount-1)

	// Land the target one row below the top edge; fall back to minimal
	// scrolling when the viewport is too short for context
	v.setScrollTop((target - 1) * v.rowHeight)
	if first, last := v.VisibleRange(); target < first || target > last {
		v.setScrollTop(target * v.rowHeight)
	}

	if first, last := v.VisibleRange(); target >= first && target <= last {
		v.pendingScroll = nil
	}
}

func (v *Viewport) setScrollTop(lines int) {
	v.scrollTop = clampInt(lines, 0, v.maxScrollTop())
}

func (v *Viewport) maxScrollTop() int {
	max := v.rowCount*v.rowHeight - v.height
	if max < 0 {
		return 0
	}
	return max
}

func (v *Viewport) clampScroll() {
	v.scrollTop = clampInt(v.scrollTop, 0, v.maxScrollTop())
}

func clampInt(value, low, high int) int {
	if value < low {
		return low
	}
	if value > high {
		return high
	}
	return value
}
