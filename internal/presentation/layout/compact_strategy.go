package layout

import (
	"strings"

	"github.com/sam16vis/go-replay-inspector/internal/core/constants"
	"github.com/sam16vis/go-replay-inspector/internal/core/grid"
)

// CompactLayoutStrategy renders every request on a single line with all
// seven columns, fitting twice as many rows on screen
type CompactLayoutStrategy struct {
	BaseStrategy
}

func (s *CompactLayoutStrategy) GetName() string {
	return "Compact"
}

func (s *CompactLayoutStrategy) RowHeight() int {
	return constants.RowHeightCompact
}

func (s *CompactLayoutStrategy) Render(screen *Screen) []string {
	return s.renderScreen(screen, true, s.renderRow)
}

func (s *CompactLayoutStrategy) renderRow(screen *Screen, row grid.RowView, _ int) string {
	view := screen.View
	var sb strings.Builder
	sb.WriteString(s.gutter(row, view.ShowMarkers))
	for i, col := range view.Columns {
		if i > 0 {
			sb.WriteString("  ")
		}
		sb.WriteString(sharedSizer.Fit(row.Cells[i], col.Width, col.LeftAlign))
	}
	return sb.String()
}
