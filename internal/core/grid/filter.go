package grid

import (
	"strings"

	"github.com/sam16vis/go-replay-inspector/internal/core/model"
)

// FilterState holds the active search term. An empty term is the identity
// filter.
type FilterState struct {
	SearchTerm string
}

// applyFilter returns the indices of frames whose rendered cells contain the
// search term, case-insensitive, preserving source order. The match runs
// over every displayable field so that anything visible on screen is
// searchable.
func applyFilter(frames []*model.Frame, filter FilterState, ctx RenderContext) []int {
	indices := make([]int, 0, len(frames))
	term := strings.ToLower(strings.TrimSpace(filter.SearchTerm))
	if term == "" {
		for i := range frames {
			indices = append(indices, i)
		}
		return indices
	}

	cols := Columns()
	for i, frame := range frames {
		if frameMatches(frame, cols, term, ctx) {
			indices = append(indices, i)
		}
	}
	return indices
}

func frameMatches(frame *model.Frame, cols []Column, term string, ctx RenderContext) bool {
	for _, col := range cols {
		if strings.Contains(strings.ToLower(col.CellText(frame, ctx)), term) {
			return true
		}
	}
	return false
}
