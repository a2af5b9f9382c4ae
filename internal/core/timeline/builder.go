package timeline

import (
	"fmt"
	"sort"

	"github.com/sam16vis/go-replay-inspector/internal/core/model"
)

// Builder merges per-segment parse results into one replay timeline.
// Recorders flush segments on an interval and re-send spans that straddle a
// flush boundary, so the merge deduplicates before ordering.
type Builder struct {
	name string
}

// NewBuilder creates a builder for the named replay.
func NewBuilder(name string) *Builder {
	return &Builder{name: name}
}

// Build merges segments into a single replay: duplicate frames collapse to
// their first occurrence, the rest sort by start time, and the replay
// bounds are derived from the result. Segment order only matters for
// which duplicate survives.
func (b *Builder) Build(segments []SegmentFrames) *model.Replay {
	replay := &model.Replay{
		Name:     b.name,
		Segments: make([]string, 0, len(segments)),
	}

	var total int
	for _, segment := range segments {
		replay.Segments = append(replay.Segments, segment.Path)
		total += len(segment.Frames)
	}

	seen := make(map[string]bool, total)
	frames := make([]*model.Frame, 0, total)
	for _, segment := range segments {
		for _, frame := range segment.Frames {
			key := frameKey(frame)
			if seen[key] {
				continue
			}
			seen[key] = true
			frames = append(frames, frame)
		}
	}

	sort.SliceStable(frames, func(i, j int) bool {
		if frames[i].StartMs != frames[j].StartMs {
			return frames[i].StartMs < frames[j].StartMs
		}
		if frames[i].EndMs != frames[j].EndMs {
			return frames[i].EndMs < frames[j].EndMs
		}
		return frames[i].URL < frames[j].URL
	})

	replay.Frames = frames
	replay.RecomputeBounds()
	return replay
}

// frameKey identifies a span across segment flushes. Two captures of the
// same request agree on all of these fields.
func frameKey(f *model.Frame) string {
	return fmt.Sprintf("%d-%d-%s-%s-%s", f.StartMs, f.EndMs, f.Op, f.Method, f.URL)
}
