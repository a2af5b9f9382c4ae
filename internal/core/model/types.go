package model

import (
	"math"
	"strings"

	"github.com/bytedance/sonic"
)

// ReplayEvent is one entry of a recording segment. Only custom events
// carrying a performanceSpan payload matter to the inspector; everything
// else (DOM snapshots, mutations, meta events) is decoded far enough to be
// skipped cheaply.
type ReplayEvent struct {
	Type      int       `json:"type"`
	Timestamp float64   `json:"timestamp,omitempty"`
	Data      EventData `json:"data,omitempty"`
}

type EventData struct {
	Tag     string       `json:"tag,omitempty"`
	Payload *SpanPayload `json:"payload,omitempty"`
}

// SpanPayload is the network span embedded in a custom event. Timestamps
// arrive as fractional seconds.
type SpanPayload struct {
	Op             string   `json:"op"`
	Description    string   `json:"description"`
	StartTimestamp float64  `json:"startTimestamp"`
	EndTimestamp   float64  `json:"endTimestamp"`
	Data           SpanData `json:"data,omitempty"`
}

type SpanData struct {
	Method     string       `json:"method,omitempty"`
	StatusCode *int         `json:"statusCode,omitempty"`
	Request    *SizedEntity `json:"request,omitempty"`
	Response   *SizedEntity `json:"response,omitempty"`
}

// SizedEntity describes one side of a request/response pair. Size is absent
// for opaque or aborted transfers.
type SizedEntity struct {
	Size *int64       `json:"size,omitempty"`
	Body FlexibleBody `json:"body,omitempty"`
}

// FlexibleBody accepts a captured body in whatever shape the SDK recorded
// it: a plain string, or any JSON value (object, array, number, bool).
// Non-string values keep their raw encoding for later pretty-printing.
type FlexibleBody struct {
	Text string
	Raw  []byte
}

func (fb *FlexibleBody) UnmarshalJSON(data []byte) error {
	// Most bodies are recorded as strings
	var str string
	if err := sonic.Unmarshal(data, &str); err == nil {
		fb.Text = str
		return nil
	}

	// Anything else must still be valid JSON
	var probe any
	if err := sonic.Unmarshal(data, &probe); err != nil {
		return err
	}
	fb.Raw = append([]byte(nil), data...)
	return nil
}

func (fb FlexibleBody) MarshalJSON() ([]byte, error) {
	if fb.Raw != nil {
		return fb.Raw, nil
	}
	return sonic.Marshal(fb.Text)
}

// IsEmpty reports whether no body was captured at all.
func (fb FlexibleBody) IsEmpty() bool {
	return fb.Text == "" && (fb.Raw == nil || string(fb.Raw) == "null")
}

// Display renders the body for the detail panel. JSON values are indented;
// strings pass through untouched.
func (fb FlexibleBody) Display() string {
	if fb.Raw == nil {
		return fb.Text
	}
	var value any
	if err := sonic.Unmarshal(fb.Raw, &value); err != nil {
		return string(fb.Raw)
	}
	pretty, err := sonic.MarshalIndent(value, "", "  ")
	if err != nil {
		return string(fb.Raw)
	}
	return string(pretty)
}

// IsNetworkSpan reports whether this event describes a network request the
// grid should show: a custom event tagged performanceSpan whose op falls in
// the resource or navigation families.
func (e *ReplayEvent) IsNetworkSpan() bool {
	if e.Type != EventCustom || e.Data.Tag != TagPerformanceSpan || e.Data.Payload == nil {
		return false
	}
	op := e.Data.Payload.Op
	return strings.HasPrefix(op, OpPrefixResource) || strings.HasPrefix(op, OpPrefixNavigation)
}

// ToFrame flattens a network span into the grid record. Second-resolution
// timestamps are rounded to milliseconds.
func (p *SpanPayload) ToFrame() *Frame {
	frame := &Frame{
		Op:         p.Op,
		Method:     p.Data.Method,
		StatusCode: p.Data.StatusCode,
		URL:        p.Description,
		StartMs:    secondsToMs(p.StartTimestamp),
		EndMs:      secondsToMs(p.EndTimestamp),
	}
	if p.Data.Request != nil {
		frame.ReqSize = p.Data.Request.Size
		frame.ReqBody = p.Data.Request.Body.Display()
	}
	if p.Data.Response != nil {
		frame.RespSize = p.Data.Response.Size
		frame.RespBody = p.Data.Response.Body.Display()
	}
	if frame.EndMs < frame.StartMs {
		frame.EndMs = frame.StartMs
	}
	return frame
}

func secondsToMs(seconds float64) int64 {
	return int64(math.Round(seconds * 1000))
}
