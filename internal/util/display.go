package util

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Terminal control sequences
const (
	ColorReset   = "\033[0m"
	ColorBlue    = "\033[34m"
	ColorCyan    = "\033[36m"
	ColorGreen   = "\033[32m"
	ColorYellow  = "\033[33m"
	ColorRed     = "\033[31m"
	ColorMagenta = "\033[35m"
	ColorGray    = "\033[90m"
	ColorBold    = "\033[1m"
	ColorDim     = "\033[2m"
	ColorReverse = "\033[7m"

	ClearScreen         = "\033[2J"     // Clear entire screen
	ClearLine           = "\033[2K"     // Clear entire line
	ClearLineFromCursor = "\033[0K"     // Clear from cursor to end of line
	ClearScrollback     = "\033[3J"     // Clear scrollback buffer
	ResetScrollRegion   = "\033[r"      // Reset scroll region
	DisableScrollback   = "\033[?1007h" // Disable scrollback
	EnableScrollback    = "\033[?1007l" // Enable scrollback
	MoveCursorHome      = "\033[H"      // Move cursor to home position
	SaveCursor          = "\033[s"      // Save cursor position
	RestoreCursor       = "\033[u"      // Restore cursor position
	HideCursor          = "\033[?25l"   // Hide cursor
	ShowCursor          = "\033[?25h"   // Show cursor
)

// GetDisplayWidth calculates the actual display width of a string, accounting
// for wide runes and combining characters
func GetDisplayWidth(text string) int {
	return runewidth.StringWidth(text)
}

// PadToWidth pads a string with spaces to the given display width.
// Text wider than the target width is returned unchanged.
func PadToWidth(text string, width int, leftAlign bool) string {
	actual := runewidth.StringWidth(text)
	if actual >= width {
		return text
	}
	padding := strings.Repeat(" ", width-actual)
	if leftAlign {
		return text + padding
	}
	return padding + text
}

// TruncateToWidth shortens a string to fit the given display width, replacing
// the removed middle with an ellipsis so both the host and the trailing path
// segment stay readable
func TruncateToWidth(text string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(text) <= width {
		return text
	}
	if width <= 1 {
		return "…"
	}
	head := (width - 1) * 2 / 3
	tail := width - 1 - head
	return runewidth.Truncate(text, head, "") + "…" + truncateLeft(text, tail)
}

// truncateLeft keeps the rightmost runes of s up to the given display width
func truncateLeft(s string, width int) string {
	runes := []rune(s)
	total := 0
	i := len(runes)
	for i > 0 {
		w := runewidth.RuneWidth(runes[i-1])
		if total+w > width {
			break
		}
		total += w
		i--
	}
	return string(runes[i:])
}

// CreateProgressBar creates a progress bar with the given percentage and width
func CreateProgressBar(percentage float64, width int) string {
	if width < 10 {
		width = 12
	}
	barWidth := width - 12
	if barWidth < 0 {
		barWidth = 0
	}
	filled := int((percentage / 100) * float64(barWidth))
	if filled > barWidth {
		filled = barWidth
	}
	if filled < 0 {
		filled = 0
	}

	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled) + "]"
}

// StatusColor returns the ANSI color for an HTTP status code class.
// Unknown or missing statuses render gray.
func StatusColor(statusCode *int) string {
	if statusCode == nil {
		return ColorGray
	}
	switch *statusCode / 100 {
	case 2:
		return ColorGreen
	case 3:
		return ColorCyan
	case 4:
		return ColorYellow
	case 5:
		return ColorRed
	default:
		return ColorGray
	}
}

// FormatHeaderTitle formats main header titles (Magenta + Bold)
func FormatHeaderTitle(title string) string {
	return fmt.Sprintf("%s%s%s%s", ColorBold, ColorMagenta, title, ColorReset)
}

// FormatSectionSeparator creates a visual separator line
func FormatSectionSeparator() string {
	return fmt.Sprintf("%s%s%s%s", ColorBold, ColorCyan, strings.Repeat("─", 76), ColorReset)
}

// MoveCursor returns ANSI sequence to move cursor to specific position
func MoveCursor(row, col int) string {
	return fmt.Sprintf("\033[%d;%dH", row, col)
}

// CenterText centers text within the given width
func CenterText(text string, width int) string {
	w := runewidth.StringWidth(text)
	if w >= width {
		return runewidth.Truncate(text, width, "")
	}
	padding := (width - w) / 2
	return strings.Repeat(" ", padding) + text + strings.Repeat(" ", width-padding-w)
}
