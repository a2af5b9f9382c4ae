package grid

import (
	"github.com/sam16vis/go-replay-inspector/internal/core/model"
)

// Callbacks are informational hooks fired on user interactions. They are
// never required for the grid's own correctness; leave any of them nil to
// ignore the event.
type Callbacks struct {
	OnRowSelect   func(frame *model.Frame, rowIndex int)
	OnRowHover    func(frame *model.Frame)
	OnDetailClose func()
	OnJump        func(direction JumpDirection)
}

// Grid owns the virtualized, time-synced request table: the derived display
// ordering, scroll state, cell measurements, cursor, and the detail pane
// split. All state here is single-writer; the player's event loop is the
// only goroutine that touches it, so there is no locking.
type Grid struct {
	frames []*model.Frame
	loaded bool
	ctx    RenderContext

	filter     FilterState
	sort       SortConfig
	seq        *DisplaySequence
	generation uint64

	viewport *Viewport
	measures *MeasureCache
	splitter *Splitter

	containerHeight int
	containerWidth  int

	cursor    int
	callbacks Callbacks
}

func New(callbacks Callbacks) *Grid {
	g := &Grid{
		sort:      DefaultSort(),
		viewport:  NewViewport(),
		measures:  NewMeasureCache(),
		splitter:  NewSplitter(),
		callbacks: callbacks,
	}
	g.rebuild()
	return g
}

// SetFrames installs a freshly loaded frame source. The detail pane closes
// because positional selection cannot survive an identity change; filter and
// sort persist so a reload keeps the user's view shape.
func (g *Grid) SetFrames(frames []*model.Frame, replayStartMs int64) {
	g.frames = frames
	g.loaded = true
	g.ctx = RenderContext{ReplayStartMs: replayStartMs}
	if g.splitter.IsOpen() {
		g.splitter.Close()
		g.fireDetailClose()
	}
	g.cursor = 0
	g.rebuild()
	g.viewport.ScrollToTop()
}

// ClearFrames returns the grid to its pre-load state.
func (g *Grid) ClearFrames() {
	g.frames = nil
	g.loaded = false
	if g.splitter.IsOpen() {
		g.splitter.Close()
		g.fireDetailClose()
	}
	g.cursor = 0
	g.rebuild()
}

// Loaded reports whether a frame source has arrived.
func (g *Grid) Loaded() bool { return g.loaded }

// SetGeometry installs the container size. The grid body shrinks by the
// detail pane height while the pane is open.
func (g *Grid) SetGeometry(height, width int) {
	g.containerHeight = height
	g.containerWidth = width
	g.splitter.SetContainerHeight(height)
	g.layout()
}

// SetSearchTerm applies a filter term. Every keystroke of an incremental
// search lands here; identical terms are a no-op.
func (g *Grid) SetSearchTerm(term string) {
	if g.filter.SearchTerm == term {
		return
	}
	g.filter.SearchTerm = term
	g.rebuild()
}

// SearchTerm returns the active filter term.
func (g *Grid) SearchTerm() string { return g.filter.SearchTerm }

// ClearFilter resets the search term.
func (g *Grid) ClearFilter() {
	g.SetSearchTerm("")
}

// Sort returns the active ordering.
func (g *Grid) Sort() SortConfig { return g.sort }

// ToggleSort re-sorts on a column, flipping direction when it is already
// the sort column.
func (g *Grid) ToggleSort(key ColumnKey) {
	g.sort = g.sort.Toggle(key)
	g.rebuild()
}

// ToggleSortByNumber maps the 1-based column hotkeys onto ToggleSort.
func (g *Grid) ToggleSortByNumber(number int) bool {
	key, ok := ColumnKeyAt(number)
	if !ok {
		return false
	}
	g.ToggleSort(key)
	return true
}

// SetSort installs a persisted sort preference without toggling.
func (g *Grid) SetSort(cfg SortConfig) {
	if columnIndex(cfg.By) < 0 {
		cfg = DefaultSort()
	}
	g.sort = cfg
	g.rebuild()
}

// Cursor returns the display index the cursor rests on, -1 when no rows.
func (g *Grid) Cursor() int {
	if g.seq.Len() == 0 {
		return -1
	}
	return g.cursor
}

// MoveCursor steps the cursor by delta rows, keeping it visible.
func (g *Grid) MoveCursor(delta int) {
	if g.seq.Len() == 0 {
		return
	}
	next := clampInt(g.cursor+delta, 0, g.seq.Len()-1)
	if next == g.cursor {
		return
	}
	g.cursor = next
	g.viewport.EnsureRowVisible(g.cursor)
	g.fireRowHover(g.seq.FrameAt(g.cursor))
}

// PageCursor moves the cursor a viewport's worth of rows.
func (g *Grid) PageCursor(direction int) {
	rows := g.viewport.Height() / g.viewport.RowHeight()
	if rows < 1 {
		rows = 1
	}
	g.MoveCursor(direction * rows)
}

// CursorToTop and CursorToBottom move to the extremes.
func (g *Grid) CursorToTop() {
	g.MoveCursor(-g.seq.Len())
}

func (g *Grid) CursorToBottom() {
	g.MoveCursor(g.seq.Len())
}

// SelectRow toggles the detail pane on a display row. Selecting the open
// row closes the pane; selecting another moves it without closing first.
func (g *Grid) SelectRow(index int) {
	if index < 0 || index >= g.seq.Len() {
		return
	}
	if g.splitter.Select(index) {
		g.fireRowSelect(g.seq.FrameAt(index), index)
	} else {
		g.fireDetailClose()
	}
	g.layout()
}

// SelectCursorRow toggles the detail pane on the cursor row.
func (g *Grid) SelectCursorRow() {
	if g.Cursor() < 0 {
		return
	}
	g.SelectRow(g.cursor)
}

// CloseDetail shuts the detail pane if open.
func (g *Grid) CloseDetail() {
	if !g.splitter.IsOpen() {
		return
	}
	g.splitter.Close()
	g.fireDetailClose()
	g.layout()
}

// DetailOpen reports whether the detail pane is showing.
func (g *Grid) DetailOpen() bool { return g.splitter.IsOpen() }

// ResizeDetail grows or shrinks the detail pane.
func (g *Grid) ResizeDetail(delta int) {
	if !g.splitter.IsOpen() {
		return
	}
	g.splitter.Resize(delta)
	g.layout()
}

// DetailSize returns the pane height for preference persistence.
func (g *Grid) DetailSize() int { return g.splitter.Size() }

// SetDetailSize installs a persisted pane height.
func (g *Grid) SetDetailSize(size int) {
	g.splitter.SetSize(size)
	g.layout()
}

// SetRowHeight switches layout density.
func (g *Grid) SetRowHeight(rowHeight int) {
	g.viewport.SetRowHeight(rowHeight)
	g.viewport.EnsureRowVisible(g.cursor)
}

// JumpToCurrent scrolls so the row matching the playback position is
// visible. It never touches the selection. Returns whether a jump happened.
func (g *Grid) JumpToCurrent(clock model.Clock) bool {
	first, last := g.viewport.VisibleRange()
	state := ComputeJumpState(g.seq, g.sort, clock, first, last)
	if !state.Enabled {
		return false
	}
	g.viewport.ScrollTo(state.ScrollTarget)
	g.cursor = clampInt(state.Index, 0, g.seq.Len()-1)
	g.fireJump(state.Direction)
	g.fireRowHover(g.seq.FrameAt(g.cursor))
	return true
}

// Sequence exposes the current display ordering.
func (g *Grid) Sequence() *DisplaySequence { return g.seq }

// Viewport exposes scroll state for rendering and tests.
func (g *Grid) Viewport() *Viewport { return g.viewport }

// rebuild re-derives the display sequence and revalidates every consumer of
// its identity: scroll extent, measurements, selection and cursor.
func (g *Grid) rebuild() {
	g.generation++
	g.seq = buildDisplaySequence(g.frames, g.filter, g.sort, g.ctx, g.generation)
	g.viewport.SetRowCount(g.seq.Len())
	g.measures.Validate(g.generation, g.filter.SearchTerm)

	if g.seq.Len() == 0 {
		g.cursor = 0
		if g.splitter.IsOpen() {
			g.splitter.Close()
			g.fireDetailClose()
		}
		g.fireRowHover(nil)
		return
	}

	if g.cursor >= g.seq.Len() {
		g.cursor = g.seq.Len() - 1
	}
	// Selection stays a raw positional index across re-derivations; it only
	// closes when it no longer points at any row
	if g.splitter.IsOpen() && g.splitter.Index() >= g.seq.Len() {
		g.splitter.Close()
		g.fireDetailClose()
	}
}

// layout splits the container between the grid body and the detail pane and
// feeds the result to the viewport.
func (g *Grid) layout() {
	bodyHeight := g.containerHeight
	if g.splitter.IsOpen() {
		bodyHeight -= g.splitter.Size() + 1
	}
	if bodyHeight < 0 {
		bodyHeight = 0
	}
	g.viewport.SetGeometry(bodyHeight, g.containerWidth)
}

func (g *Grid) fireRowSelect(frame *model.Frame, index int) {
	if g.callbacks.OnRowSelect != nil {
		g.callbacks.OnRowSelect(frame, index)
	}
}

func (g *Grid) fireRowHover(frame *model.Frame) {
	if g.callbacks.OnRowHover != nil {
		g.callbacks.OnRowHover(frame)
	}
}

func (g *Grid) fireDetailClose() {
	if g.callbacks.OnDetailClose != nil {
		g.callbacks.OnDetailClose()
	}
}

func (g *Grid) fireJump(direction JumpDirection) {
	if g.callbacks.OnJump != nil {
		g.callbacks.OnJump(direction)
	}
}
