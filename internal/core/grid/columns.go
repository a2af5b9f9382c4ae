package grid

import (
	"strconv"

	"github.com/sam16vis/go-replay-inspector/internal/core/model"
	"github.com/sam16vis/go-replay-inspector/internal/util"
)

// ColumnKey identifies a grid column for sorting and keyboard toggles.
type ColumnKey string

const (
	ColumnMethod   ColumnKey = "method"
	ColumnStatus   ColumnKey = "status"
	ColumnURL      ColumnKey = "url"
	ColumnReqSize  ColumnKey = "reqSize"
	ColumnRespSize ColumnKey = "respSize"
	ColumnDuration ColumnKey = "duration"
	ColumnStart    ColumnKey = "start"
)

const emptyCell = "-"

// RenderContext carries the per-replay values cell rendering needs. The
// start column shows offsets relative to the replay start.
type RenderContext struct {
	ReplayStartMs int64
}

// Column describes one grid column: its fixed width (0 means flexible, it
// absorbs the remaining viewport width), alignment and cell renderer.
type Column struct {
	Key       ColumnKey
	Title     string
	Width     int
	LeftAlign bool
	CellText  func(f *model.Frame, ctx RenderContext) string
}

// Columns returns the grid's column set in display order. The URL column is
// the single flexible one; its natural width is measured per row.
func Columns() []Column {
	return []Column{
		{
			Key:       ColumnMethod,
			Title:     "Method",
			Width:     6,
			LeftAlign: true,
			CellText: func(f *model.Frame, _ RenderContext) string {
				if f.Method == "" {
					return emptyCell
				}
				return f.Method
			},
		},
		{
			Key:   ColumnStatus,
			Title: "Status",
			Width: 6,
			CellText: func(f *model.Frame, _ RenderContext) string {
				if f.StatusCode == nil {
					return emptyCell
				}
				return strconv.Itoa(*f.StatusCode)
			},
		},
		{
			Key:       ColumnURL,
			Title:     "Path",
			Width:     0,
			LeftAlign: true,
			CellText: func(f *model.Frame, _ RenderContext) string {
				return f.URL
			},
		},
		{
			Key:   ColumnReqSize,
			Title: "Req",
			Width: 9,
			CellText: func(f *model.Frame, _ RenderContext) string {
				if f.ReqSize == nil {
					return emptyCell
				}
				return util.FormatBytes(*f.ReqSize)
			},
		},
		{
			Key:   ColumnRespSize,
			Title: "Resp",
			Width: 9,
			CellText: func(f *model.Frame, _ RenderContext) string {
				if f.RespSize == nil {
					return emptyCell
				}
				return util.FormatBytes(*f.RespSize)
			},
		},
		{
			Key:   ColumnDuration,
			Title: "Duration",
			Width: 9,
			CellText: func(f *model.Frame, _ RenderContext) string {
				return util.FormatDurationMs(f.DurationMs())
			},
		},
		{
			Key:   ColumnStart,
			Title: "Start",
			Width: 11,
			CellText: func(f *model.Frame, ctx RenderContext) string {
				return util.FormatOffsetMs(f.StartMs - ctx.ReplayStartMs)
			},
		},
	}
}

// ColumnKeyAt maps a 1-based column number (keyboard toggle) to its key.
func ColumnKeyAt(number int) (ColumnKey, bool) {
	cols := Columns()
	if number < 1 || number > len(cols) {
		return "", false
	}
	return cols[number-1].Key, true
}

// columnIndex returns the display position of a column key, or -1.
func columnIndex(key ColumnKey) int {
	for i, col := range Columns() {
		if col.Key == key {
			return i
		}
	}
	return -1
}
