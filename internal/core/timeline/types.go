package timeline

import (
	"github.com/sam16vis/go-replay-inspector/internal/core/model"
)

// SegmentFrames is one segment file's contribution to a replay: the frames
// parsed from it, tagged with where they came from.
type SegmentFrames struct {
	Path   string
	Frames []*model.Frame
}
