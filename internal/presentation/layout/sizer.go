package layout

import (
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"

	"github.com/sam16vis/go-replay-inspector/internal/util"
)

// Package-level singleton Sizer instance
var sharedSizer = &Sizer{}

type Sizer struct {
}

// displayWidth calculates the actual display width of a string containing
// wide runes and box-drawing characters
func (i Sizer) displayWidth(s string) int {
	return runewidth.StringWidth(s)
}

// PadString pads a string to a specific display width, handling wide runes
// correctly
func (i Sizer) PadString(s string, width int, leftAlign bool) string {
	actualWidth := i.displayWidth(s)
	if actualWidth >= width {
		return s
	}

	padding := strings.Repeat(" ", width-actualWidth)
	if leftAlign {
		return s + padding
	}
	return padding + s
}

// Fit truncates then pads so the result occupies exactly width cells
func (i Sizer) Fit(s string, width int, leftAlign bool) string {
	return i.PadString(util.TruncateToWidth(s, width), width, leftAlign)
}

// GetTerminalSize returns the terminal dimensions, falling back to a
// conservative 80x24 when stdout is not a terminal
func (i Sizer) GetTerminalSize() (int, int) {
	width, height, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width < 20 || height < 8 {
		return 80, 24
	}
	return width, height
}
