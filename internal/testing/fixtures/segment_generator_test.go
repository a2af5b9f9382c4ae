package fixtures

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sam16vis/go-replay-inspector/internal/core/model"
	"github.com/sam16vis/go-replay-inspector/internal/data/parser"
	"github.com/sam16vis/go-replay-inspector/internal/data/scanner"
)

func parseReplay(t *testing.T, dir string) []*model.Frame {
	t.Helper()
	files, err := scanner.NewFileScanner(dir).Scan()
	require.NoError(t, err)

	var frames []*model.Frame
	p := parser.NewParser(2)
	for _, file := range files {
		parsed, _, err := p.ParseSegment(file)
		require.NoError(t, err)
		frames = append(frames, parsed...)
	}
	return frames
}

func TestGeneratedSimpleReplayParses(t *testing.T) {
	g := NewSegmentGenerator(t.TempDir())
	start := time.Date(2024, 8, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, g.GenerateSimpleReplay("checkout", start))

	frames := parseReplay(t, g.ReplayDir("checkout"))

	// Snapshot and breadcrumb events are skipped; the five network spans
	// survive.
	require.Len(t, frames, 5)

	var ops []string
	for _, f := range frames {
		ops = append(ops, f.Op)
	}
	assert.Contains(t, ops, "navigation.navigate")
	assert.Contains(t, ops, "resource.fetch")
	assert.Contains(t, ops, "resource.xhr")
}

func TestGeneratedSpanTimestamps(t *testing.T) {
	g := NewSegmentGenerator(t.TempDir())
	start := time.Date(2024, 8, 1, 12, 0, 0, 0, time.UTC)

	_, err := g.AppendSegment("timed", 0, []ReplayEvent{
		FetchSpan("https://api.example.com/v1/cart", "GET", 200, start, 120*time.Millisecond, 64, 2048),
	})
	require.NoError(t, err)

	frames := parseReplay(t, g.ReplayDir("timed"))
	require.Len(t, frames, 1)

	frame := frames[0]
	assert.Equal(t, start.UnixMilli(), frame.StartMs)
	assert.Equal(t, start.UnixMilli()+120, frame.EndMs)
	assert.Equal(t, "GET", frame.Method)
	require.NotNil(t, frame.StatusCode)
	assert.Equal(t, 200, *frame.StatusCode)
	require.NotNil(t, frame.RespSize)
	assert.Equal(t, int64(2048), *frame.RespSize)
}

func TestGeneratedMixedStatusReplay(t *testing.T) {
	g := NewSegmentGenerator(t.TempDir())
	start := time.Date(2024, 8, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, g.GenerateMixedStatusReplay("statuses", start))

	frames := parseReplay(t, g.ReplayDir("statuses"))
	require.Len(t, frames, 7)

	withStatus := 0
	for _, f := range frames {
		if f.StatusCode != nil {
			withStatus++
		}
	}
	// The navigation span carries no status.
	assert.Equal(t, 6, withStatus)
}

func TestGeneratedLargeReplaySegmentation(t *testing.T) {
	g := NewSegmentGenerator(t.TempDir())
	start := time.Date(2024, 8, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, g.GenerateLargeReplay("big", start, 1200))

	files, err := scanner.NewFileScanner(g.ReplayDir("big")).Scan()
	require.NoError(t, err)
	assert.Len(t, files, 3)

	frames := parseReplay(t, g.ReplayDir("big"))
	assert.Len(t, frames, 1200)
}

func TestGeneratedEmptyReplay(t *testing.T) {
	g := NewSegmentGenerator(t.TempDir())
	require.NoError(t, g.CreateEmptyReplay("empty"))

	frames := parseReplay(t, g.ReplayDir("empty"))
	assert.Empty(t, frames)
}
