package model

import (
	"strings"
)

// Frame is one network request extracted from a replay, flattened to what
// the grid sorts, filters and renders. Times are absolute Unix milliseconds.
// Nil sizes and status mean the recording did not capture them.
type Frame struct {
	Op         string `json:"op"`
	Method     string `json:"method,omitempty"`
	StatusCode *int   `json:"statusCode,omitempty"`
	URL        string `json:"url"`
	StartMs    int64  `json:"startMs"`
	EndMs      int64  `json:"endMs"`
	ReqSize    *int64 `json:"reqSize,omitempty"`
	RespSize   *int64 `json:"respSize,omitempty"`
	ReqBody    string `json:"reqBody,omitempty"`
	RespBody   string `json:"respBody,omitempty"`
}

// DurationMs returns how long the request took.
func (f *Frame) DurationMs() int64 {
	return f.EndMs - f.StartMs
}

// IsNavigation reports whether this frame is a page navigation rather than a
// subresource fetch.
func (f *Frame) IsNavigation() bool {
	return strings.HasPrefix(f.Op, OpPrefixNavigation)
}

// OpKind returns the op without its family prefix, e.g. "fetch" or "xhr".
func (f *Frame) OpKind() string {
	if idx := strings.Index(f.Op, "."); idx >= 0 {
		return f.Op[idx+1:]
	}
	return f.Op
}

// Replay is a fully loaded recording: every network frame from every
// segment, merged and sorted by start time.
type Replay struct {
	Name     string   `json:"name"`
	Segments []string `json:"segments"`
	Frames   []*Frame `json:"frames"`
	StartMs  int64    `json:"startMs"`
	EndMs    int64    `json:"endMs"`
}

// DurationMs returns the replay's total span.
func (r *Replay) DurationMs() int64 {
	if r.EndMs <= r.StartMs {
		return 0
	}
	return r.EndMs - r.StartMs
}

// IsEmpty reports whether the replay carries no network frames.
func (r *Replay) IsEmpty() bool {
	return r == nil || len(r.Frames) == 0
}

// RecomputeBounds derives StartMs/EndMs from the frames. Frames must already
// be populated; an empty replay keeps zero bounds.
func (r *Replay) RecomputeBounds() {
	if len(r.Frames) == 0 {
		r.StartMs, r.EndMs = 0, 0
		return
	}
	start := r.Frames[0].StartMs
	end := r.Frames[0].EndMs
	for _, f := range r.Frames[1:] {
		if f.StartMs < start {
			start = f.StartMs
		}
		if f.EndMs > end {
			end = f.EndMs
		}
	}
	r.StartMs, r.EndMs = start, end
}
