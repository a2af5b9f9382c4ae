package grid

import (
	"github.com/sam16vis/go-replay-inspector/internal/core/model"
	"github.com/sam16vis/go-replay-inspector/internal/util"
)

// ViewKind distinguishes the grid's render states. Loading means the frame
// source has not arrived; Empty means it arrived with no requests; NoMatch
// means the active filter excluded every row.
type ViewKind int

const (
	ViewLoading ViewKind = iota
	ViewEmpty
	ViewNoMatch
	ViewGrid
)

// ColumnView is a resolved column: final width after the flexible column
// absorbed its share, plus sort adornment state.
type ColumnView struct {
	Key       ColumnKey
	Title     string
	Width     int
	LeftAlign bool
	Sorted    bool
	Asc       bool
}

// RowView is one renderable row of the virtualization window.
type RowView struct {
	Index      int
	Frame      *model.Frame
	Cells      []string
	IsCursor   bool
	IsSelected bool
	Class      RowTimeClass
}

// DetailView describes the open detail pane.
type DetailView struct {
	Index int
	Frame *model.Frame
	Size  int
}

// View is everything the renderer needs for one frame of output. Rows holds
// only the virtualization window, never the whole sequence.
type View struct {
	Kind  ViewKind
	Sized bool

	Columns      []ColumnView
	Rows         []RowView
	TotalRows    int
	FirstVisible int
	LastVisible  int
	RowHeight    int
	ScrollTop    int
	Cursor       int

	Jump        JumpState
	ShowMarkers bool

	Detail     *DetailView
	SearchTerm string
	Sort       SortConfig
}

const (
	columnGap   = 2
	minURLWidth = 8
)

// View assembles the render model for the given playback clock. The clock
// is read fresh on every call; nothing about it is cached across renders.
func (g *Grid) View(clock model.Clock) *View {
	view := &View{
		Kind:       ViewGrid,
		Sized:      g.viewport.IsValid(),
		SearchTerm: g.filter.SearchTerm,
		Sort:       g.sort,
		TotalRows:  g.seq.Len(),
		RowHeight:  g.viewport.RowHeight(),
		ScrollTop:  g.viewport.ScrollTop(),
		Cursor:     g.Cursor(),
	}

	if !g.loaded {
		view.Kind = ViewLoading
		return view
	}
	if len(g.frames) == 0 {
		view.Kind = ViewEmpty
		return view
	}
	if g.seq.Len() == 0 {
		view.Kind = ViewNoMatch
		return view
	}
	if !view.Sized {
		return view
	}

	first, last := g.viewport.VisibleRange()
	view.FirstVisible, view.LastVisible = first, last
	view.Jump = ComputeJumpState(g.seq, g.sort, clock, first, last)
	view.ShowMarkers = g.sort.By == ColumnStart

	start, stop := g.viewport.RenderRange()
	desc := g.sort.By == ColumnStart && !g.sort.Asc
	classes := classifyRows(g.seq, clock, start, stop, desc)

	cols := Columns()
	view.Rows = make([]RowView, 0, stop-start+1)
	urlNatural := util.GetDisplayWidth(cols[columnIndex(ColumnURL)].Title)

	for i := start; i <= stop; i++ {
		frame := g.seq.Frames[i]
		cells := make([]string, len(cols))
		for c, col := range cols {
			cells[c] = col.CellText(frame, g.ctx)
		}
		rowID := RowContentID(cells)
		for c := range cols {
			width := g.measures.Measure(rowID, c, cells[c])
			if cols[c].Key == ColumnURL && width > urlNatural {
				urlNatural = width
			}
		}

		view.Rows = append(view.Rows, RowView{
			Index:      i,
			Frame:      frame,
			Cells:      cells,
			IsCursor:   i == g.cursor,
			IsSelected: g.splitter.IsOpen() && g.splitter.Index() == i,
			Class:      classes[i-start],
		})
	}

	view.Columns = resolveColumns(cols, g.sort, g.viewport.Width(), urlNatural)

	if g.splitter.IsOpen() {
		view.Detail = &DetailView{
			Index: g.splitter.Index(),
			Frame: g.seq.FrameAt(g.splitter.Index()),
			Size:  g.splitter.Size(),
		}
	}
	return view
}

// resolveColumns converts declared widths into final ones: fixed columns
// keep theirs, the flexible URL column gets the measured natural width
// capped by whatever the viewport leaves over.
func resolveColumns(cols []Column, cfg SortConfig, totalWidth, urlNatural int) []ColumnView {
	fixed := 0
	for _, col := range cols {
		if col.Width > 0 {
			fixed += col.Width
		}
	}
	available := totalWidth - fixed - columnGap*(len(cols)-1)
	urlWidth := urlNatural
	if urlWidth > available {
		urlWidth = available
	}
	if urlWidth < minURLWidth {
		urlWidth = minURLWidth
	}

	views := make([]ColumnView, len(cols))
	for i, col := range cols {
		width := col.Width
		if width == 0 {
			width = urlWidth
		}
		views[i] = ColumnView{
			Key:       col.Key,
			Title:     col.Title,
			Width:     width,
			LeftAlign: col.LeftAlign,
			Sorted:    cfg.By == col.Key,
			Asc:       cfg.Asc,
		}
	}
	return views
}
