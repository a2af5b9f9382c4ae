package display

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sam16vis/go-replay-inspector/internal/core/model"
	"github.com/sam16vis/go-replay-inspector/internal/presentation/layout"
)

func testScreen(state model.InteractionState) *layout.Screen {
	return &layout.Screen{
		State:  state,
		Width:  80,
		Height: 24,
	}
}

func TestDetermineDisplayMode(t *testing.T) {
	td := NewTerminalDisplay()

	tests := []struct {
		name  string
		state model.InteractionState
		want  model.DisplayMode
	}{
		{"normal", model.InteractionState{}, model.ModeNormal},
		{"loading", model.InteractionState{IsLoading: true}, model.ModeLoading},
		{"help", model.InteractionState{ShowHelp: true}, model.ModeHelp},
		{"help beats loading", model.InteractionState{ShowHelp: true, IsLoading: true}, model.ModeHelp},
		{
			"dialog beats everything",
			model.InteractionState{
				ShowHelp:      true,
				IsLoading:     true,
				ConfirmDialog: &model.ConfirmDialog{Title: "Clear cache"},
			},
			model.ModeDialog,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, td.determineDisplayMode(tt.state))
		})
	}
}

func TestHelpScreen(t *testing.T) {
	td := NewTerminalDisplay()
	lines := td.helpScreen(testScreen(model.InteractionState{ShowHelp: true}))

	require.Len(t, lines, 24)
	joined := strings.Join(lines, "\n")
	assert.Contains(t, joined, "Replay Inspector Help")
	assert.Contains(t, joined, "play / pause")
	assert.Contains(t, joined, "incremental search")
	assert.Contains(t, joined, "hover cursor")
}

func TestDialogScreen(t *testing.T) {
	td := NewTerminalDisplay()
	state := model.InteractionState{
		ConfirmDialog: &model.ConfirmDialog{
			Title:   "Clear parse cache",
			Message: "Deletes every cached segment under the cache directory. Segments are re-parsed on the next load.",
		},
	}

	lines := td.dialogScreen(testScreen(state))

	require.Len(t, lines, 24)
	joined := strings.Join(lines, "\n")
	assert.Contains(t, joined, "Clear parse cache")
	assert.Contains(t, joined, "(Y)es / (N)o")
	assert.Contains(t, joined, "╔")
	assert.Contains(t, joined, "╚")

	// Box lines all share the same display width
	var boxLines []string
	for _, line := range lines {
		if strings.Contains(line, "║") || strings.Contains(line, "╔") || strings.Contains(line, "╚") || strings.Contains(line, "╠") {
			boxLines = append(boxLines, line)
		}
	}
	require.NotEmpty(t, boxLines)
	for _, line := range boxLines[1:] {
		assert.Equal(t, len([]rune(boxLines[0])), len([]rune(line)))
	}
}

func TestLoadingScreen(t *testing.T) {
	td := NewTerminalDisplay()
	state := model.InteractionState{IsLoading: true, LoadingMessage: "Parsing 12 segments..."}

	lines := td.loadingScreen(testScreen(state))

	require.Len(t, lines, 24)
	joined := strings.Join(lines, "\n")
	assert.Contains(t, joined, "Replay Inspector")
	assert.Contains(t, joined, "Parsing 12 segments...")
	assert.Contains(t, joined, "Press 'q' to quit")
}

func TestLoadingScreenDefaultMessage(t *testing.T) {
	td := NewTerminalDisplay()
	lines := td.loadingScreen(testScreen(model.InteractionState{IsLoading: true}))
	assert.Contains(t, strings.Join(lines, "\n"), "Loading replay data...")
}

func TestWrapText(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		width int
		want  []string
	}{
		{"empty", "", 10, []string{}},
		{"fits on one line", "hello world", 20, []string{"hello world"}},
		{"wraps at word boundaries", "the quick brown fox jumps", 10, []string{"the quick", "brown fox", "jumps"}},
		{"single long word kept whole", "supercalifragilistic", 5, []string{"supercalifragilistic"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, wrapText(tt.text, tt.width))
		})
	}
}

func TestFitHeight(t *testing.T) {
	lines := fitHeight([]string{"a", "b"}, 4)
	assert.Equal(t, []string{"a", "b", "", ""}, lines)

	lines = fitHeight([]string{"a", "b", "c"}, 2)
	assert.Equal(t, []string{"a", "b"}, lines)
}

func TestRenderLinesTracksPreviousScreen(t *testing.T) {
	td := NewTerminalDisplay()

	td.renderLines([]string{"one", "two", "three"})
	assert.Equal(t, []string{"one", "two", "three"}, td.previousScreen)

	// Same shape goes through the differential path and updates the buffer
	td.renderLines([]string{"one", "TWO", "three"})
	assert.Equal(t, []string{"one", "TWO", "three"}, td.previousScreen)

	// Shape change falls back to a full repaint
	td.renderLines([]string{"one"})
	assert.Equal(t, []string{"one"}, td.previousScreen)
}
