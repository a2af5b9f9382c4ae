package e2e

import (
	"regexp"
	"strconv"
	"strings"
)

// VirtualScreen reconstructs what a terminal shows after processing raw
// inspector output. It implements the escape grammar the display layer
// emits: cursor addressing, line and screen clears, private mode switches
// for the alternate screen and cursor visibility, and SGR colors.
type VirtualScreen struct {
	cells    [][]rune
	row, col int
	width    int
	height   int

	savedRow, savedCol int
	altScreen          bool
}

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;?]*[a-zA-Z]`)

// StripANSI removes escape sequences, leaving plain text.
func StripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

// ParseScreen replays raw terminal output onto a width x height grid.
func ParseScreen(output string, width, height int) *VirtualScreen {
	if width < 1 {
		width = 80
	}
	if height < 1 {
		height = 24
	}
	vs := &VirtualScreen{width: width, height: height}
	vs.cells = make([][]rune, height)
	for i := range vs.cells {
		vs.cells[i] = blankLine(width)
	}
	vs.feed(output)
	return vs
}

// Line returns row i with trailing whitespace trimmed.
func (vs *VirtualScreen) Line(i int) string {
	if i < 0 || i >= vs.height {
		return ""
	}
	return strings.TrimRight(string(vs.cells[i]), " ")
}

// Render joins all rows into the full screen text.
func (vs *VirtualScreen) Render() string {
	lines := make([]string, vs.height)
	for i := range lines {
		lines[i] = vs.Line(i)
	}
	return strings.Join(lines, "\n")
}

// Contains reports whether text appears anywhere on the screen.
func (vs *VirtualScreen) Contains(text string) bool {
	return strings.Contains(vs.Render(), text)
}

// FindRow returns the index of the first row containing text, or -1.
func (vs *VirtualScreen) FindRow(text string) int {
	for i := 0; i < vs.height; i++ {
		if strings.Contains(vs.Line(i), text) {
			return i
		}
	}
	return -1
}

// InAlternateScreen reports whether the output left the terminal on the
// alternate screen buffer. A clean shutdown ends with it false.
func (vs *VirtualScreen) InAlternateScreen() bool {
	return vs.altScreen
}

func (vs *VirtualScreen) feed(output string) {
	runes := []rune(output)
	for i := 0; i < len(runes); i++ {
		switch r := runes[i]; r {
		case '\x1b':
			i += vs.consumeEscape(runes[i:])
		case '\r':
			vs.col = 0
		case '\n':
			vs.lineFeed()
		case '\b':
			if vs.col > 0 {
				vs.col--
			}
		case '\t':
			vs.col = min((vs.col/8+1)*8, vs.width-1)
		default:
			vs.put(r)
		}
	}
}

// consumeEscape processes one sequence starting at runes[0] == ESC and
// returns how many runes beyond the ESC were consumed.
func (vs *VirtualScreen) consumeEscape(runes []rune) int {
	if len(runes) < 2 {
		return 0
	}
	if runes[1] != '[' {
		return 1
	}
	j := 2
	private := false
	if j < len(runes) && runes[j] == '?' {
		private = true
		j++
	}
	start := j
	for j < len(runes) && (runes[j] == ';' || (runes[j] >= '0' && runes[j] <= '9')) {
		j++
	}
	if j >= len(runes) {
		return len(runes) - 1
	}
	params := string(runes[start:j])
	if private {
		vs.applyPrivateMode(params, runes[j])
	} else {
		vs.applyCSI(params, runes[j])
	}
	return j
}

func (vs *VirtualScreen) applyCSI(params string, final rune) {
	switch final {
	case 'H', 'f':
		row, col := 1, 1
		if parts := strings.SplitN(params, ";", 2); parts[0] != "" {
			row = atoiOr(parts[0], 1)
			if len(parts) > 1 {
				col = atoiOr(parts[1], 1)
			}
		}
		vs.row = min(max(row-1, 0), vs.height-1)
		vs.col = min(max(col-1, 0), vs.width-1)
	case 'J':
		vs.clearScreen(params)
	case 'K':
		vs.clearLine(params)
	case 'A':
		vs.row = max(vs.row-atoiOr(params, 1), 0)
	case 'B':
		vs.row = min(vs.row+atoiOr(params, 1), vs.height-1)
	case 'C':
		vs.col = min(vs.col+atoiOr(params, 1), vs.width-1)
	case 'D':
		vs.col = max(vs.col-atoiOr(params, 1), 0)
	case 's':
		vs.savedRow, vs.savedCol = vs.row, vs.col
	case 'u':
		vs.row, vs.col = vs.savedRow, vs.savedCol
	case 'm', 'r':
		// SGR colors and scroll-region resets do not change cells.
	}
}

// applyPrivateMode handles CSI ? <mode> h/l. Mode 1049 is the alternate
// screen buffer; 25 (cursor visibility) and 1007 (scrollback) are tracked
// only by ignoring them.
func (vs *VirtualScreen) applyPrivateMode(params string, final rune) {
	if params != "1049" {
		return
	}
	switch final {
	case 'h':
		vs.clearScreen("2")
		vs.row, vs.col = 0, 0
		vs.altScreen = true
	case 'l':
		vs.altScreen = false
	}
}

func (vs *VirtualScreen) clearScreen(params string) {
	switch params {
	case "", "0":
		vs.clearLine("0")
		for r := vs.row + 1; r < vs.height; r++ {
			vs.cells[r] = blankLine(vs.width)
		}
	case "1":
		for r := 0; r < vs.row; r++ {
			vs.cells[r] = blankLine(vs.width)
		}
		vs.clearLine("1")
	case "2", "3":
		for r := range vs.cells {
			vs.cells[r] = blankLine(vs.width)
		}
	}
}

func (vs *VirtualScreen) clearLine(params string) {
	switch params {
	case "", "0":
		for c := vs.col; c < vs.width; c++ {
			vs.cells[vs.row][c] = ' '
		}
	case "1":
		for c := 0; c <= vs.col && c < vs.width; c++ {
			vs.cells[vs.row][c] = ' '
		}
	case "2":
		vs.cells[vs.row] = blankLine(vs.width)
	}
}

func (vs *VirtualScreen) put(r rune) {
	if vs.col >= vs.width {
		vs.col = 0
		vs.lineFeed()
	}
	vs.cells[vs.row][vs.col] = r
	vs.col++
}

func (vs *VirtualScreen) lineFeed() {
	vs.row++
	if vs.row >= vs.height {
		copy(vs.cells, vs.cells[1:])
		vs.cells[vs.height-1] = blankLine(vs.width)
		vs.row = vs.height - 1
	}
}

func blankLine(width int) []rune {
	line := make([]rune, width)
	for i := range line {
		line[i] = ' '
	}
	return line
}

func atoiOr(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return def
	}
	return n
}
