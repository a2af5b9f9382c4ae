package display

import (
	"fmt"
	"strings"
	"time"

	"github.com/sam16vis/go-replay-inspector/internal/core/model"
	"github.com/sam16vis/go-replay-inspector/internal/presentation/layout"
	"github.com/sam16vis/go-replay-inspector/internal/util"
)

// TerminalDisplay owns the terminal: the alternate screen buffer, the mode
// state machine and the renderer. Layout strategies hand it whole screens as
// line slices; between full repaints only lines that changed since the
// previous render are rewritten, so a 10Hz refresh does not flicker and
// unchanged regions keep their terminal cells.
type TerminalDisplay struct {
	inAlternateScreen  bool
	smartRenderEnabled bool
	previousScreen     []string
	isFirstRender      bool
	currentMode        model.DisplayMode
	lastLayoutStyle    int
}

func NewTerminalDisplay() *TerminalDisplay {
	return &TerminalDisplay{
		smartRenderEnabled: true,
		previousScreen:     make([]string, 0),
		isFirstRender:      true,
		currentMode:        model.ModeNormal,
	}
}

// EnterAlternateScreen switches to the alternate screen buffer
func (td *TerminalDisplay) EnterAlternateScreen() {
	if td.inAlternateScreen {
		return
	}
	fmt.Print("\033[?1049h")
	fmt.Print(util.ClearScreen)
	fmt.Print(util.ClearScrollback)
	fmt.Print(util.ResetScrollRegion)
	fmt.Print(util.DisableScrollback)
	fmt.Print(util.HideCursor)
	fmt.Print(util.MoveCursorHome)
	td.inAlternateScreen = true
	td.isFirstRender = true
}

// ExitAlternateScreen returns to the normal screen buffer
func (td *TerminalDisplay) ExitAlternateScreen() {
	if !td.inAlternateScreen {
		return
	}
	fmt.Print(util.ClearScreen)
	fmt.Print(util.MoveCursorHome)
	fmt.Print(util.EnableScrollback)
	fmt.Print(util.ShowCursor)
	fmt.Print("\033[?1049l")
	td.inAlternateScreen = false
}

// ClearScreen clears the alternate screen buffer
func (td *TerminalDisplay) ClearScreen() {
	if td.inAlternateScreen {
		fmt.Print(util.ClearScreen)
		fmt.Print(util.MoveCursorHome)
	}
}

// ClearForTransition clears everything including the scrollback and drops
// the previous-screen buffer, forcing the next render to paint in full.
func (td *TerminalDisplay) ClearForTransition() {
	if td.inAlternateScreen {
		fmt.Print(util.ClearScreen)
		fmt.Print(util.ClearScrollback)
		fmt.Print(util.MoveCursorHome)
	}
	td.previousScreen = td.previousScreen[:0]
}

// determineDisplayMode maps the interaction state to the surface that owns
// the terminal. Priority order: Dialog > Help > Loading > Normal.
func (td *TerminalDisplay) determineDisplayMode(state model.InteractionState) model.DisplayMode {
	if state.ConfirmDialog != nil {
		return model.ModeDialog
	}
	if state.ShowHelp {
		return model.ModeHelp
	}
	if state.IsLoading {
		return model.ModeLoading
	}
	return model.ModeNormal
}

// RenderWithState renders one frame. Mode transitions and layout style
// switches force a full repaint; steady-state renders go through the
// differential path.
func (td *TerminalDisplay) RenderWithState(screen *layout.Screen) {
	newMode := td.determineDisplayMode(screen.State)

	if td.isFirstRender || newMode != td.currentMode || screen.State.LayoutStyle != td.lastLayoutStyle {
		td.ClearForTransition()
		td.currentMode = newMode
		td.lastLayoutStyle = screen.State.LayoutStyle
		td.isFirstRender = false
	}

	var lines []string
	switch newMode {
	case model.ModeDialog:
		lines = td.dialogScreen(screen)
	case model.ModeHelp:
		lines = td.helpScreen(screen)
	case model.ModeLoading:
		lines = td.loadingScreen(screen)
	default:
		lines = layout.GetLayoutStrategy(screen.State.LayoutStyle).Render(screen)
	}

	td.renderLines(lines)
}

// renderLines writes a screen to the terminal. When the previous screen has
// the same shape, only changed lines are repositioned and rewritten.
func (td *TerminalDisplay) renderLines(lines []string) {
	if !td.smartRenderEnabled || len(td.previousScreen) != len(lines) {
		var sb strings.Builder
		sb.WriteString(util.ClearScreen)
		sb.WriteString(util.MoveCursorHome)
		for i, line := range lines {
			if i > 0 {
				sb.WriteString("\r\n")
			}
			sb.WriteString(line)
		}
		fmt.Print(sb.String())
		td.previousScreen = append(td.previousScreen[:0], lines...)
		return
	}

	var sb strings.Builder
	for i, line := range lines {
		if line == td.previousScreen[i] {
			continue
		}
		sb.WriteString(util.MoveCursor(i+1, 1))
		sb.WriteString(util.ClearLine)
		sb.WriteString(line)
	}
	if sb.Len() > 0 {
		fmt.Print(sb.String())
		copy(td.previousScreen, lines)
	}
}

func (td *TerminalDisplay) helpScreen(screen *layout.Screen) []string {
	rule := strings.Repeat("═", min(screen.Width, 80))
	lines := []string{
		util.FormatHeaderTitle("Replay Inspector Help"),
		rule,
		"",
		"Playback",
		"  space        play / pause",
		"  ←/→          seek 1s back / forward",
		"  ,/.          scrub the hover cursor 250ms",
		"  m            commit the hover position",
		"  x            clear the hover cursor",
		"  n            jump the grid to the current request",
		"",
		"Grid",
		"  j/k ↑/↓      move the cursor",
		"  PgUp/PgDn    page (also Ctrl+U / Ctrl+D)",
		"  g/G          first / last row",
		"  1-7          sort by that column, again to flip direction",
		"  /            incremental search (Enter apply, Esc cancel)",
		"  c            clear the filter",
		"  Enter        open / close the request detail pane",
		"  +/-          resize the detail pane",
		"  t            toggle detailed / compact rows",
		"",
		"Session",
		"  r            reload segment files",
		"  C            clear the parse cache (asks first)",
		"  h/?          this help",
		"  q            quit",
		"  Esc          close the active surface, else quit",
		"",
		rule,
		"Press any key to return...",
	}
	return fitHeight(lines, screen.Height)
}

func (td *TerminalDisplay) dialogScreen(screen *layout.Screen) []string {
	dialog := screen.State.ConfirmDialog
	if dialog == nil {
		return fitHeight(nil, screen.Height)
	}

	boxWidth := min(60, screen.Width-2)
	pad := strings.Repeat(" ", max((screen.Width-boxWidth)/2, 0))

	lines := make([]string, 0, screen.Height)
	for i := 0; i < max(screen.Height/2-5, 0); i++ {
		lines = append(lines, "")
	}

	lines = append(lines, pad+"╔"+strings.Repeat("═", boxWidth-2)+"╗")
	lines = append(lines, pad+"║"+util.CenterText(dialog.Title, boxWidth-2)+"║")
	lines = append(lines, pad+"╠"+strings.Repeat("═", boxWidth-2)+"╣")
	lines = append(lines, pad+"║"+strings.Repeat(" ", boxWidth-2)+"║")
	for _, line := range wrapText(dialog.Message, boxWidth-4) {
		lines = append(lines, pad+"║ "+util.PadToWidth(line, boxWidth-4, true)+" ║")
	}
	lines = append(lines, pad+"║"+strings.Repeat(" ", boxWidth-2)+"║")
	lines = append(lines, pad+"║"+util.CenterText("(Y)es / (N)o", boxWidth-2)+"║")
	lines = append(lines, pad+"╚"+strings.Repeat("═", boxWidth-2)+"╝")

	return fitHeight(lines, screen.Height)
}

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

func (td *TerminalDisplay) loadingScreen(screen *layout.Screen) []string {
	message := screen.State.LoadingMessage
	if message == "" {
		message = "Loading replay data..."
	}
	frame := spinnerFrames[int(time.Now().UnixMilli()/100)%len(spinnerFrames)]

	boxWidth := min(50, screen.Width-2)
	pad := strings.Repeat(" ", max((screen.Width-boxWidth)/2, 0))

	lines := make([]string, 0, screen.Height)
	for i := 0; i < max(screen.Height/2-4, 0); i++ {
		lines = append(lines, "")
	}

	lines = append(lines, pad+"╔"+strings.Repeat("═", boxWidth-2)+"╗")
	lines = append(lines, pad+"║"+util.CenterText("Replay Inspector", boxWidth-2)+"║")
	lines = append(lines, pad+"╠"+strings.Repeat("═", boxWidth-2)+"╣")
	lines = append(lines, pad+"║"+strings.Repeat(" ", boxWidth-2)+"║")
	lines = append(lines, pad+"║"+util.CenterText(frame+" "+message, boxWidth-2)+"║")
	lines = append(lines, pad+"║"+strings.Repeat(" ", boxWidth-2)+"║")
	lines = append(lines, pad+"║"+util.CenterText("Press 'q' to quit", boxWidth-2)+"║")
	lines = append(lines, pad+"╚"+strings.Repeat("═", boxWidth-2)+"╝")

	return fitHeight(lines, screen.Height)
}

// wrapText word-wraps text to fit within the specified display width
func wrapText(text string, width int) []string {
	if text == "" {
		return []string{}
	}
	if util.GetDisplayWidth(text) <= width {
		return []string{text}
	}

	var lines []string
	currentLine := ""
	for _, word := range strings.Fields(text) {
		switch {
		case currentLine == "":
			currentLine = word
		case util.GetDisplayWidth(currentLine)+1+util.GetDisplayWidth(word) <= width:
			currentLine += " " + word
		default:
			lines = append(lines, currentLine)
			currentLine = word
		}
	}
	if currentLine != "" {
		lines = append(lines, currentLine)
	}
	return lines
}

func fitHeight(lines []string, height int) []string {
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
