package grid

import (
	"github.com/sam16vis/go-replay-inspector/internal/core/model"
)

// DisplaySequence is the filtered, sorted view of the frame source. It is
// rebuilt whole whenever the source, the filter or the sort changes, and
// carries a generation number so downstream caches can detect identity
// changes without comparing contents.
type DisplaySequence struct {
	Frames      []*model.Frame
	SourceIndex []int // display position -> index into the frame source
	Generation  uint64
}

// buildDisplaySequence derives the display ordering. It is a pure function
// of its inputs: same frames, filter and sort always produce the same
// ordering.
func buildDisplaySequence(frames []*model.Frame, filter FilterState, cfg SortConfig, ctx RenderContext, generation uint64) *DisplaySequence {
	filtered := applyFilter(frames, filter, ctx)
	ordered := sortFiltered(frames, filtered, cfg)

	seq := &DisplaySequence{
		Frames:      make([]*model.Frame, len(ordered)),
		SourceIndex: ordered,
		Generation:  generation,
	}
	for i, src := range ordered {
		seq.Frames[i] = frames[src]
	}
	return seq
}

// Len returns the number of display rows.
func (s *DisplaySequence) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Frames)
}

// FrameAt returns the frame at a display position, or nil when out of range.
func (s *DisplaySequence) FrameAt(index int) *model.Frame {
	if s == nil || index < 0 || index >= len(s.Frames) {
		return nil
	}
	return s.Frames[index]
}
