package fixtures

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ReplayEvent is the wire shape of a single rrweb event as exporters write
// it. Only the fields the inspector reads are modeled.
type ReplayEvent struct {
	Type      int        `json:"type"`
	Timestamp int64      `json:"timestamp,omitempty"`
	Data      *EventData `json:"data,omitempty"`
}

// EventData carries the custom-event envelope.
type EventData struct {
	Tag     string       `json:"tag,omitempty"`
	Payload *SpanPayload `json:"payload,omitempty"`
}

// SpanPayload is a performance span. Start and end are fractional seconds,
// matching what recorders emit.
type SpanPayload struct {
	Op             string    `json:"op"`
	Description    string    `json:"description,omitempty"`
	StartTimestamp float64   `json:"startTimestamp"`
	EndTimestamp   float64   `json:"endTimestamp"`
	Data           *SpanData `json:"data,omitempty"`
}

// SpanData holds the request/response details of a network span.
type SpanData struct {
	Method     string       `json:"method,omitempty"`
	StatusCode int          `json:"statusCode,omitempty"`
	Request    *SizedEntity `json:"request,omitempty"`
	Response   *SizedEntity `json:"response,omitempty"`
}

// SizedEntity is one side of a network exchange.
type SizedEntity struct {
	Size int64       `json:"size,omitempty"`
	Body interface{} `json:"body,omitempty"`
}

// SegmentGenerator writes synthetic replay segment files for tests. Each
// replay is a directory of numbered segment files under baseDir.
type SegmentGenerator struct {
	baseDir string
}

// NewSegmentGenerator creates a generator rooted at baseDir.
func NewSegmentGenerator(baseDir string) *SegmentGenerator {
	return &SegmentGenerator{baseDir: baseDir}
}

// GetBaseDir returns the directory test data is generated under.
func (g *SegmentGenerator) GetBaseDir() string {
	return g.baseDir
}

// ReplayDir returns the directory of a generated replay.
func (g *SegmentGenerator) ReplayDir(replayName string) string {
	return filepath.Join(g.baseDir, replayName)
}

// FetchSpan builds a resource.fetch event for a completed request.
func FetchSpan(url, method string, status int, start time.Time, duration time.Duration, reqSize, respSize int64) ReplayEvent {
	payload := &SpanPayload{
		Op:             "resource.fetch",
		Description:    url,
		StartTimestamp: toSeconds(start),
		EndTimestamp:   toSeconds(start.Add(duration)),
		Data: &SpanData{
			Method:     method,
			StatusCode: status,
		},
	}
	if reqSize > 0 {
		payload.Data.Request = &SizedEntity{Size: reqSize}
	}
	if respSize > 0 {
		payload.Data.Response = &SizedEntity{Size: respSize, Body: "ok"}
	}
	return ReplayEvent{
		Type:      5,
		Timestamp: start.UnixMilli(),
		Data:      &EventData{Tag: "performanceSpan", Payload: payload},
	}
}

// XHRSpan builds a resource.xhr event.
func XHRSpan(url, method string, status int, start time.Time, duration time.Duration) ReplayEvent {
	event := FetchSpan(url, method, status, start, duration, 0, 0)
	event.Data.Payload.Op = "resource.xhr"
	return event
}

// NavigationSpan builds a navigation.navigate event. Navigations carry no
// method or status on the wire.
func NavigationSpan(url string, start time.Time, duration time.Duration) ReplayEvent {
	return ReplayEvent{
		Type:      5,
		Timestamp: start.UnixMilli(),
		Data: &EventData{
			Tag: "performanceSpan",
			Payload: &SpanPayload{
				Op:             "navigation.navigate",
				Description:    url,
				StartTimestamp: toSeconds(start),
				EndTimestamp:   toSeconds(start.Add(duration)),
			},
		},
	}
}

// Breadcrumb builds a non-network custom event that parsers must skip.
func Breadcrumb(op, description string, at time.Time) ReplayEvent {
	return ReplayEvent{
		Type:      5,
		Timestamp: at.UnixMilli(),
		Data: &EventData{
			Tag: "breadcrumb",
			Payload: &SpanPayload{
				Op:             op,
				Description:    description,
				StartTimestamp: toSeconds(at),
				EndTimestamp:   toSeconds(at),
			},
		},
	}
}

// Snapshot builds a DOM snapshot event, the bulk of real segment files.
func Snapshot(at time.Time) ReplayEvent {
	return ReplayEvent{Type: 2, Timestamp: at.UnixMilli(), Data: &EventData{}}
}

// GenerateSimpleReplay writes a small two-segment replay with a navigation,
// a few requests, and interleaved non-network events.
func (g *SegmentGenerator) GenerateSimpleReplay(replayName string, start time.Time) error {
	dir := g.ReplayDir(replayName)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	first := []ReplayEvent{
		Snapshot(start),
		NavigationSpan("https://app.example.com/checkout", start, 800*time.Millisecond),
		FetchSpan("https://api.example.com/v1/cart", "GET", 200, start.Add(1*time.Second), 120*time.Millisecond, 0, 2048),
		Breadcrumb("ui.click", "button#pay", start.Add(2*time.Second)),
		FetchSpan("https://api.example.com/v1/payment", "POST", 201, start.Add(2*time.Second+200*time.Millisecond), 340*time.Millisecond, 512, 256),
	}
	if err := g.writeArraySegment(filepath.Join(dir, "0.json"), first); err != nil {
		return err
	}

	second := []ReplayEvent{
		XHRSpan("https://api.example.com/v1/receipt", "GET", 200, start.Add(4*time.Second), 90*time.Millisecond),
		FetchSpan("https://cdn.example.com/fonts/inter.woff2", "GET", 200, start.Add(4*time.Second+500*time.Millisecond), 60*time.Millisecond, 0, 48210),
	}
	return g.writeJSONLSegment(filepath.Join(dir, "1.jsonl"), second)
}

// GenerateMixedStatusReplay writes a replay that exercises status grouping:
// successes, client errors, server errors, and a span with no status at all.
func (g *SegmentGenerator) GenerateMixedStatusReplay(replayName string, start time.Time) error {
	dir := g.ReplayDir(replayName)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	statuses := []int{200, 200, 301, 404, 500, 503}
	events := make([]ReplayEvent, 0, len(statuses)+1)
	for i, status := range statuses {
		events = append(events, FetchSpan(
			fmt.Sprintf("https://api.example.com/v1/items/%d", i),
			"GET", status,
			start.Add(time.Duration(i)*time.Second),
			time.Duration(50+i*20)*time.Millisecond,
			0, int64(1000+i*100),
		))
	}
	events = append(events, NavigationSpan("https://app.example.com/", start.Add(7*time.Second), time.Second))

	return g.writeArraySegment(filepath.Join(dir, "0.json"), events)
}

// GeneratePhasedReplay writes bursts of requests separated by idle gaps long
// enough to split the timeline into distinct activity phases.
func (g *SegmentGenerator) GeneratePhasedReplay(replayName string, start time.Time, phases int) error {
	dir := g.ReplayDir(replayName)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	for phase := 0; phase < phases; phase++ {
		phaseStart := start.Add(time.Duration(phase) * time.Minute)
		events := make([]ReplayEvent, 0, 4)
		for i := 0; i < 4; i++ {
			events = append(events, FetchSpan(
				fmt.Sprintf("https://api.example.com/v1/phase/%d/%d", phase, i),
				"GET", 200,
				phaseStart.Add(time.Duration(i)*200*time.Millisecond),
				80*time.Millisecond,
				0, 1024,
			))
		}
		name := fmt.Sprintf("%d.json", phase)
		if err := g.writeArraySegment(filepath.Join(dir, name), events); err != nil {
			return err
		}
	}
	return nil
}

// GenerateLargeReplay writes numSpans requests spread one second apart, for
// virtualization and performance tests.
func (g *SegmentGenerator) GenerateLargeReplay(replayName string, start time.Time, numSpans int) error {
	dir := g.ReplayDir(replayName)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	methods := []string{"GET", "POST", "PUT", "DELETE"}
	const spansPerSegment = 500

	var events []ReplayEvent
	segment := 0
	for i := 0; i < numSpans; i++ {
		events = append(events, FetchSpan(
			fmt.Sprintf("https://api.example.com/v1/objects/%06d", i),
			methods[i%len(methods)],
			200+(i%3)*100,
			start.Add(time.Duration(i)*time.Second),
			time.Duration(20+i%400)*time.Millisecond,
			int64(i%300), int64(500+i%9000),
		))
		if len(events) == spansPerSegment || i == numSpans-1 {
			name := fmt.Sprintf("%d.jsonl", segment)
			if err := g.writeJSONLSegment(filepath.Join(dir, name), events); err != nil {
				return err
			}
			events = events[:0]
			segment++
		}
	}
	return nil
}

// AppendSegment adds one more segment file to an existing replay, the way a
// live recorder flushes new data. Used to exercise follow mode and the file
// watcher.
func (g *SegmentGenerator) AppendSegment(replayName string, index int, events []ReplayEvent) (string, error) {
	dir := g.ReplayDir(replayName)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, fmt.Sprintf("%d.json", index))
	return path, g.writeArraySegment(path, events)
}

// CreateEmptyReplay creates a replay directory holding one segment with no
// events at all.
func (g *SegmentGenerator) CreateEmptyReplay(replayName string) error {
	dir := g.ReplayDir(replayName)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "0.json"), []byte("[]"), 0644)
}

// CleanupTestData removes everything the generator wrote.
func (g *SegmentGenerator) CleanupTestData() error {
	return os.RemoveAll(g.baseDir)
}

func (g *SegmentGenerator) writeArraySegment(path string, events []ReplayEvent) error {
	data, err := json.Marshal(events)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (g *SegmentGenerator) writeJSONLSegment(path string, events []ReplayEvent) error {
	var b strings.Builder
	encoder := json.NewEncoder(&b)
	for _, event := range events {
		if err := encoder.Encode(event); err != nil {
			return err
		}
	}
	return os.WriteFile(path, []byte(b.String()), 0644)
}

func toSeconds(t time.Time) float64 {
	return float64(t.UnixMilli()) / 1000.0
}
