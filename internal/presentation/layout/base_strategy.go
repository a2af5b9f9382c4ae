package layout

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sam16vis/go-replay-inspector/internal/core/grid"
	"github.com/sam16vis/go-replay-inspector/internal/util"
)

// rowRenderer produces one terminal line of a body row. line selects which
// of the row's RowHeight lines to build.
type rowRenderer func(screen *Screen, row grid.RowView, line int) string

// BaseStrategy provides common functionality for all layout strategies
type BaseStrategy struct {
}

// GetSizer returns the shared sizer instance
func (b BaseStrategy) GetSizer() *Sizer {
	return sharedSizer
}

// renderScreen assembles the full screen: three chrome lines, the column
// header, the grid body with an optional detail pane, and the status line.
// Placeholder states replace the header and body with a centered message.
func (b BaseStrategy) renderScreen(screen *Screen, urlHeader bool, rows rowRenderer) []string {
	lines := make([]string, 0, screen.Height)
	lines = append(lines, b.titleLine(screen))
	lines = append(lines, b.playbackLine(screen))
	lines = append(lines, b.contextLine(screen))

	if screen.View.Kind == grid.ViewGrid && screen.View.Sized {
		lines = append(lines, b.headerLine(screen, urlHeader))
		lines = append(lines, b.bodyLines(screen, rows)...)
	} else {
		lines = append(lines, b.placeholderBody(screen)...)
	}

	lines = append(lines, b.statusLine(screen))
	return fitScreen(lines, screen.Height)
}

// titleLine shows the product name, the loaded replay and the wall clock.
func (b BaseStrategy) titleLine(screen *Screen) string {
	tp := util.GetTimeProvider()
	clockStr := tp.FormatNow("15:04:05")
	if screen.Param.TimeFormat == "12h" {
		clockStr = tp.FormatNow("3:04:05 PM")
	}

	name := screen.Replay.Name
	if name == "" {
		name = "(unnamed)"
	}
	title := "Replay Inspector"
	left := fmt.Sprintf("%s  %s  %s requests in %d segments",
		title, name, util.FormatNumber(screen.Replay.FrameCount), screen.Replay.SegmentCount)

	gap := screen.Width - sharedSizer.displayWidth(left) - sharedSizer.displayWidth(clockStr)
	if gap < 2 {
		return util.FormatHeaderTitle(title) + strings.TrimPrefix(util.TruncateToWidth(left, screen.Width), title)
	}
	return util.FormatHeaderTitle(title) + strings.TrimPrefix(left, title) +
		strings.Repeat(" ", gap) + clockStr
}

// playbackLine shows the playback position against the replay bounds: state
// icon, offset over total, wall-clock position, progress bar and speed. A
// hover cursor appends its own offset while scrubbing.
func (b BaseStrategy) playbackLine(screen *Screen) string {
	current := screen.Clock.CurrentTimeMs
	icon := "⏸"
	if screen.State.IsPlaying {
		icon = "▶"
	}

	pct := util.CalculatePlaybackPercentage(current, screen.Replay.StartMs, screen.Replay.EndMs)
	line := fmt.Sprintf("%s %s / %s  %s  %s %5.1f%%  %s",
		icon,
		util.FormatOffsetMs(current-screen.Replay.StartMs),
		util.FormatOffsetMs(screen.Replay.DurationMs()),
		util.FormatClockMs(current, screen.Param.TimeFormat),
		util.CreateProgressBar(pct, 32),
		pct,
		formatSpeed(screen.Speed))

	if screen.Clock.HoverTimeMs != nil {
		line += fmt.Sprintf("  ◆ %s", util.FormatOffsetMs(*screen.Clock.HoverTimeMs-screen.Replay.StartMs))
	}
	return line
}

// contextLine shows where the cursor sits in the derived ordering, the
// active sort and filter, and the jump affordance when the current-time row
// is off screen.
func (b BaseStrategy) contextLine(screen *Screen) string {
	view := screen.View
	parts := make([]string, 0, 4)

	cursor := 0
	if view.Cursor >= 0 {
		cursor = view.Cursor + 1
	}
	parts = append(parts, fmt.Sprintf("[%d/%d]", cursor, view.TotalRows))
	parts = append(parts, fmt.Sprintf("sort %s %s", columnTitle(view.Sort.By), sortArrow(view.Sort.Asc)))

	if view.SearchTerm != "" {
		parts = append(parts, fmt.Sprintf("filter /%s", view.SearchTerm))
	}
	if view.Jump.Enabled {
		arrow := "↓"
		if view.Jump.Direction == grid.JumpUp {
			arrow = "↑"
		}
		parts = append(parts, util.ColorCyan+"n:current "+arrow+util.ColorReset)
	}
	return strings.Join(parts, "  ")
}

// headerLine renders the column titles over the body. The sort arrow sits
// in the gap left of the active column so cell alignment never shifts.
func (b BaseStrategy) headerLine(screen *Screen, includeURL bool) string {
	var sb strings.Builder
	for _, col := range screen.View.Columns {
		if !includeURL && col.Key == grid.ColumnURL {
			continue
		}
		sep := "  "
		if col.Sorted {
			sep = " " + sortArrow(col.Asc)
		}
		sb.WriteString(sep)
		sb.WriteString(sharedSizer.PadString(col.Title, col.Width, col.LeftAlign))
	}
	return util.ColorBold + sb.String() + util.ColorReset
}

// bodyLines maps the virtualization window onto terminal lines. Row i spans
// lines [i*RowHeight-ScrollTop, +RowHeight); overscan rows fall outside the
// body and are skipped. The detail pane claims the bottom of the container.
func (b BaseStrategy) bodyLines(screen *Screen, rows rowRenderer) []string {
	view := screen.View
	bodyHeight := screen.Height - chromeRows
	if view.Detail != nil {
		bodyHeight -= view.Detail.Size + 1
	}
	if bodyHeight < 0 {
		bodyHeight = 0
	}

	lines := make([]string, bodyHeight)
	hoverActive := screen.Clock.HoverTimeMs != nil
	for _, row := range view.Rows {
		top := row.Index*view.RowHeight - view.ScrollTop
		for l := 0; l < view.RowHeight; l++ {
			y := top + l
			if y < 0 || y >= bodyHeight {
				continue
			}
			lines[y] = b.styleRowLine(rows(screen, row, l), row, hoverActive)
		}
	}

	if view.Detail != nil {
		lines = append(lines, b.detailRule(screen.Width))
		lines = append(lines, b.detailLines(screen)...)
	}
	return lines
}

// gutter renders the two-column marker slot left of a body row. Markers
// only appear while rows follow the playback ordering.
func (b BaseStrategy) gutter(row grid.RowView, showMarkers bool) string {
	if !showMarkers {
		return "  "
	}
	switch {
	case row.Class.CurrentBoundary:
		return "▶ "
	case row.Class.HoverBoundary:
		return "◆ "
	default:
		return "  "
	}
}

// styleRowLine applies the row's visual state to an assembled line. Cursor
// and selection take the whole line; otherwise rows past the playback
// position render dim and failed requests render red.
func (b BaseStrategy) styleRowLine(line string, row grid.RowView, hoverActive bool) string {
	switch {
	case row.IsCursor && row.IsSelected:
		return util.ColorBold + util.ColorReverse + line + util.ColorReset
	case row.IsCursor:
		return util.ColorReverse + line + util.ColorReset
	case row.IsSelected:
		return util.ColorBold + line + util.ColorReset
	}

	after := row.Class.AfterCurrent
	if hoverActive {
		after = row.Class.AfterHover
	}
	if after {
		return util.ColorDim + line + util.ColorReset
	}
	if row.Frame != nil && row.Frame.StatusCode != nil && *row.Frame.StatusCode >= 400 {
		return util.ColorRed + line + util.ColorReset
	}
	return line
}

// detailRule draws the handle line between the body and the detail pane.
func (b BaseStrategy) detailRule(width int) string {
	label := "── Request Detail "
	rest := width - sharedSizer.displayWidth(label)
	if rest < 0 {
		rest = 0
	}
	return util.ColorCyan + label + strings.Repeat("─", rest) + util.ColorReset
}

// detailLines renders the selected request into exactly Detail.Size lines:
// a summary line, the full URL, timing, then the captured bodies. Overflow
// is cut with a resize hint on the last line.
func (b BaseStrategy) detailLines(screen *Screen) []string {
	detail := screen.View.Detail
	frame := detail.Frame
	if frame == nil {
		return make([]string, detail.Size)
	}
	width := screen.Width

	status := "-"
	if frame.StatusCode != nil {
		status = strconv.Itoa(*frame.StatusCode)
	}
	method := frame.Method
	if method == "" {
		method = "-"
	}

	lines := []string{
		fmt.Sprintf("%s %s%s%s  %s  %s  req %s  resp %s",
			method, util.StatusColor(frame.StatusCode), status, util.ColorReset,
			frame.OpKind(), util.FormatDurationMs(frame.DurationMs()),
			sizeOrDash(frame.ReqSize), sizeOrDash(frame.RespSize)),
		util.TruncateToWidth(frame.URL, width),
		fmt.Sprintf("start %s (%s)   end %s (%s)",
			util.FormatClockMs(frame.StartMs, screen.Param.TimeFormat),
			util.FormatOffsetMs(frame.StartMs-screen.Replay.StartMs),
			util.FormatClockMs(frame.EndMs, screen.Param.TimeFormat),
			util.FormatOffsetMs(frame.EndMs-screen.Replay.StartMs)),
	}
	lines = appendBody(lines, "Request Body", frame.ReqBody, width)
	lines = appendBody(lines, "Response Body", frame.RespBody, width)

	if len(lines) > detail.Size {
		hidden := len(lines) - detail.Size + 1
		lines = lines[:detail.Size-1]
		lines = append(lines, util.ColorDim+fmt.Sprintf("… %d more lines (+ to grow the pane)", hidden)+util.ColorReset)
	}
	for len(lines) < detail.Size {
		lines = append(lines, "")
	}
	return lines
}

// statusLine is the bottom line: the live search input while searching, a
// transient status message when one is set, key hints otherwise.
func (b BaseStrategy) statusLine(screen *Screen) string {
	state := screen.State
	switch {
	case state.SearchActive:
		return fmt.Sprintf("/%s▌  Enter:apply  Esc:cancel", state.SearchBuffer)
	case state.StatusMessage != "":
		return state.StatusMessage
	default:
		return util.ColorDim + "space:play  ←/→:seek  /:search  Enter:detail  t:layout  h:help  q:quit" + util.ColorReset
	}
}

// placeholderBody fills the header and body region with a centered message
// for the loading, empty and no-match states.
func (b BaseStrategy) placeholderBody(screen *Screen) []string {
	height := screen.Height - chromeRows + 1
	if height < 1 {
		height = 1
	}
	lines := make([]string, height)

	message, hint := placeholderText(screen)
	row := height / 3
	lines[row] = util.CenterText(message, screen.Width)
	if hint != "" && row+1 < height {
		lines[row+1] = util.ColorDim + util.CenterText(hint, screen.Width) + util.ColorReset
	}
	return lines
}

func placeholderText(screen *Screen) (message, hint string) {
	switch screen.View.Kind {
	case grid.ViewEmpty:
		return "No network requests recorded", "this replay captured no resource or navigation spans"
	case grid.ViewNoMatch:
		return fmt.Sprintf("No requests match %q", screen.View.SearchTerm), "press c to clear the filter"
	default:
		return "Loading replay...", ""
	}
}

// fitScreen pads or truncates to exactly height lines so the differential
// renderer always diffs complete screens.
func fitScreen(lines []string, height int) []string {
	if height < 0 {
		height = 0
	}
	if len(lines) > height {
		return lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	return lines
}

func columnTitle(key grid.ColumnKey) string {
	for _, col := range grid.Columns() {
		if col.Key == key {
			return col.Title
		}
	}
	return string(key)
}

func sortArrow(asc bool) string {
	if asc {
		return "▲"
	}
	return "▼"
}

func sizeOrDash(size *int64) string {
	if size == nil {
		return "-"
	}
	return util.FormatBytes(*size)
}

func formatSpeed(speed float64) string {
	if speed <= 0 {
		speed = 1
	}
	return strconv.FormatFloat(speed, 'g', -1, 64) + "x"
}

func appendBody(lines []string, label, body string, width int) []string {
	if body == "" {
		return lines
	}
	lines = append(lines, util.ColorBold+label+util.ColorReset)
	for _, l := range strings.Split(body, "\n") {
		lines = append(lines, "  "+util.TruncateToWidth(l, width-2))
	}
	return lines
}
