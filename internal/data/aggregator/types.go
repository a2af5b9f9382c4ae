package aggregator

import (
	"path/filepath"
	"strings"

	"github.com/sam16vis/go-replay-inspector/internal/core/model"
)

// SegmentData is the durable parse result for one segment file. The file
// identity fields are what the cache validation chain checks before trusting
// a stored copy.
type SegmentData struct {
	FileHash           string         `json:"fileHash"`
	FilePath           string         `json:"filePath"`
	SegmentId          string         `json:"segmentId"` // Segment ID extracted from filename
	Frames             []*model.Frame `json:"frames"`
	EventCount         int            `json:"eventCount"` // Total events in the segment, network or not
	LastModified       int64          `json:"lastModified"`
	FileSize           int64          `json:"fileSize"`
	Inode              uint64         `json:"inode"`                         // File inode
	ContentFingerprint string         `json:"content_fingerprint,omitempty"` // Content fingerprint for change detection
}

// ExtractSegmentId extracts the segment identifier from a file path.
// Recorders name segments after their flush index ("3.json", "segment-3.json"),
// so the base name without extension is the stable id.
func ExtractSegmentId(filePath string) string {
	base := filepath.Base(filePath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// ExtractReplayName extracts the replay name from a segment file path.
// Exports land one directory per replay, named after the replay id.
func ExtractReplayName(filePath string) string {
	dir := filepath.Dir(filePath)
	name := filepath.Base(dir)
	if name == "." || name == string(filepath.Separator) {
		return ""
	}
	return name
}
