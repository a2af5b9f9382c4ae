package layout

import (
	"github.com/sam16vis/go-replay-inspector/internal/core/model"
)

// LayoutStrategy defines the interface for different layout rendering strategies
type LayoutStrategy interface {
	// Render produces the full screen as one string per terminal row,
	// exactly screen.Height lines
	Render(screen *Screen) []string
	// RowHeight is the grid row density this layout renders at
	RowHeight() int
	GetName() string
}

// GetLayoutStrategy returns the appropriate layout strategy based on the style
func GetLayoutStrategy(layoutStyle int) LayoutStrategy {
	strategies := map[int]LayoutStrategy{
		model.LayoutDetailed: &DetailedLayoutStrategy{},
		model.LayoutCompact:  &CompactLayoutStrategy{},
	}

	if strategy, exists := strategies[layoutStyle]; exists {
		return strategy
	}

	// Default to detailed if invalid style
	return &DetailedLayoutStrategy{}
}
