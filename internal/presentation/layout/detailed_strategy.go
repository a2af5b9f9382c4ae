package layout

import (
	"strings"

	"github.com/sam16vis/go-replay-inspector/internal/core/constants"
	"github.com/sam16vis/go-replay-inspector/internal/core/grid"
	"github.com/sam16vis/go-replay-inspector/internal/util"
)

// DetailedLayoutStrategy renders two lines per request: the fixed columns,
// then the URL alone on a full-width line below them
type DetailedLayoutStrategy struct {
	BaseStrategy
}

func (s *DetailedLayoutStrategy) GetName() string {
	return "Detailed"
}

func (s *DetailedLayoutStrategy) RowHeight() int {
	return constants.RowHeightDetailed
}

func (s *DetailedLayoutStrategy) Render(screen *Screen) []string {
	return s.renderScreen(screen, false, s.renderRow)
}

// renderRow builds one of the row's two lines. Markers stay on the first
// line; the URL line keeps the gutter clear.
func (s *DetailedLayoutStrategy) renderRow(screen *Screen, row grid.RowView, line int) string {
	view := screen.View
	if line == 0 {
		var sb strings.Builder
		sb.WriteString(s.gutter(row, view.ShowMarkers))
		first := true
		for i, col := range view.Columns {
			if col.Key == grid.ColumnURL {
				continue
			}
			if !first {
				sb.WriteString("  ")
			}
			first = false
			sb.WriteString(sharedSizer.Fit(row.Cells[i], col.Width, col.LeftAlign))
		}
		return sb.String()
	}

	url := ""
	for i, col := range view.Columns {
		if col.Key == grid.ColumnURL {
			url = row.Cells[i]
			break
		}
	}
	return "  ↳ " + util.TruncateToWidth(url, screen.Width-4)
}
