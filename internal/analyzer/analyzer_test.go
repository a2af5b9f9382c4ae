package analyzer

import (
	"io"
	"os"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sam16vis/go-replay-inspector/internal/core/model"
	"github.com/sam16vis/go-replay-inspector/internal/data/aggregator"
)

func intPtr(v int) *int       { return &v }
func int64Ptr(v int64) *int64 { return &v }

// testAnalyzer builds an Analyzer without touching the filesystem. Only the
// pure pipeline stages (filter, group, report) work on it.
func testAnalyzer(config *Config) *Analyzer {
	return &Analyzer{
		config:     config,
		aggregator: aggregator.NewAggregator(),
	}
}

func testFrames() []*model.Frame {
	return []*model.Frame{
		{
			Op:         "resource.fetch",
			Method:     "GET",
			StatusCode: intPtr(200),
			URL:        "https://api.example.com/items",
			StartMs:    1000,
			EndMs:      1450,
			ReqSize:    int64Ptr(120),
			RespSize:   int64Ptr(2048),
		},
		{
			Op:         "resource.xhr",
			Method:     "POST",
			StatusCode: intPtr(500),
			URL:        "https://api.example.com/checkout",
			StartMs:    2000,
			EndMs:      4310,
			ReqSize:    int64Ptr(980),
			RespSize:   int64Ptr(64),
		},
		{
			Op:         "navigation.navigate",
			Method:     "GET",
			StatusCode: intPtr(200),
			URL:        "https://www.example.com/cart",
			StartMs:    5000,
			EndMs:      5600,
			RespSize:   int64Ptr(51200),
		},
		{
			Op:      "resource.fetch",
			Method:  "GET",
			URL:     "/relative/beacon",
			StartMs: 9000,
			EndMs:   9090,
		},
	}
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Duration
		wantErr bool
	}{
		{name: "seconds", input: "90s", want: 90 * time.Second},
		{name: "minutes", input: "5m", want: 5 * time.Minute},
		{name: "hours", input: "2h", want: 2 * time.Hour},
		{name: "days", input: "2d", want: 48 * time.Hour},
		{name: "compound", input: "1h30m", want: 90 * time.Minute},
		{name: "day_and_hours", input: "1d12h", want: 36 * time.Hour},
		{name: "empty", input: "", wantErr: true},
		{name: "no_unit", input: "42", wantErr: true},
		{name: "garbage", input: "soon", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseDuration(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReplayName(t *testing.T) {
	assert.Equal(t, "checkout-flow", replayName("/replays/checkout-flow"))
	assert.Equal(t, "abc123", replayName("/data/exports/abc123"))

	// "." resolves to the working directory's base name.
	name := replayName(".")
	assert.NotEmpty(t, name)
	assert.NotEqual(t, ".", name)
}

func TestGroupKey(t *testing.T) {
	frames := testFrames()

	tests := []struct {
		name    string
		groupBy string
		frame   *model.Frame
		want    string
	}{
		{name: "host", groupBy: "host", frame: frames[0], want: "api.example.com"},
		{name: "host_relative_url", groupBy: "host", frame: frames[3], want: "(relative)"},
		{name: "method", groupBy: "method", frame: frames[1], want: "POST"},
		{name: "method_missing", groupBy: "method", frame: &model.Frame{}, want: "-"},
		{name: "status", groupBy: "status", frame: frames[1], want: "5xx"},
		{name: "status_uncaptured", groupBy: "status", frame: frames[3], want: "none"},
		{name: "op", groupBy: "op", frame: frames[2], want: "navigate"},
		{name: "default_is_host", groupBy: "", frame: frames[0], want: "api.example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := testAnalyzer(&Config{GroupBy: tt.groupBy})
			assert.Equal(t, tt.want, a.groupKey(tt.frame))
		})
	}
}

func TestFilterByWindow(t *testing.T) {
	frames := testFrames()
	endMs := int64(9090)

	t.Run("empty_duration_keeps_everything", func(t *testing.T) {
		a := testAnalyzer(&Config{})
		assert.Len(t, a.filterByWindow(frames, endMs), len(frames))
	})

	t.Run("window_measured_from_replay_end", func(t *testing.T) {
		a := testAnalyzer(&Config{Duration: "5s"})
		filtered := a.filterByWindow(frames, endMs)
		require.Len(t, filtered, 2)
		assert.Equal(t, int64(5000), filtered[0].StartMs)
		assert.Equal(t, int64(9000), filtered[1].StartMs)
	})

	t.Run("window_covering_all", func(t *testing.T) {
		a := testAnalyzer(&Config{Duration: "1h"})
		assert.Len(t, a.filterByWindow(frames, endMs), len(frames))
	})

	t.Run("invalid_duration_keeps_everything", func(t *testing.T) {
		a := testAnalyzer(&Config{Duration: "soon"})
		assert.Len(t, a.filterByWindow(frames, endMs), len(frames))
	})
}

func TestGroupFrames(t *testing.T) {
	a := testAnalyzer(&Config{GroupBy: "host"})
	rows := a.groupFrames(testFrames())

	require.Len(t, rows, 3)

	// Ranked by request count, ties broken by key.
	assert.Equal(t, "api.example.com", rows[0].Key)
	assert.Equal(t, 2, rows[0].Requests)
	assert.Equal(t, 1, rows[0].Failures)
	assert.Equal(t, int64(1100), rows[0].ReqBytes)
	assert.Equal(t, int64(2112), rows[0].RespBytes)
	assert.Equal(t, int64(2310), rows[0].MaxMs)
	assert.Equal(t, int64((450+2310)/2), rows[0].AvgMs)

	assert.Equal(t, "(relative)", rows[1].Key)
	assert.Equal(t, "www.example.com", rows[2].Key)
}

func TestGroupFramesLimit(t *testing.T) {
	a := testAnalyzer(&Config{GroupBy: "host", Limit: 1})
	rows := a.groupFrames(testFrames())

	require.Len(t, rows, 1)
	assert.Equal(t, "api.example.com", rows[0].Key)
}

func TestBuildReport(t *testing.T) {
	a := testAnalyzer(&Config{GroupBy: "op"})
	frames := testFrames()
	replay := &model.Replay{
		Name:     "checkout-flow",
		Segments: []string{"0.json", "1.json"},
		Frames:   frames,
		StartMs:  1000,
		EndMs:    9090,
	}

	report := a.buildReport(replay, frames)

	assert.Equal(t, "checkout-flow", report.Replay)
	assert.Equal(t, 2, report.Segments)
	assert.Equal(t, "op", report.GroupBy)
	assert.Equal(t, int64(1000), report.StartMs)
	assert.Equal(t, int64(9090), report.EndMs)

	assert.Equal(t, 4, report.Summary.Requests)
	assert.Equal(t, 1, report.Summary.Navigations)
	assert.Equal(t, 1, report.Summary.Failures)
	assert.Equal(t, 1, report.Summary.Uncaptured)
	assert.Equal(t, int64(1100), report.Summary.ReqBytes)
	assert.Equal(t, int64(53312), report.Summary.RespBytes)
	assert.Equal(t, int64(2310), report.Summary.MaxMs)
	assert.Equal(t, int64(8090), report.Summary.DurationMs)

	// fetch appears twice, xhr and navigate once each.
	require.Len(t, report.Rows, 3)
	assert.Equal(t, "fetch", report.Rows[0].Key)

	require.NotEmpty(t, report.Slowest)
	assert.Equal(t, int64(2310), report.Slowest[0].DurationMs)
	assert.Equal(t, "500", report.Slowest[0].Status)

	require.NotEmpty(t, report.Largest)
	assert.Equal(t, int64(51200), report.Largest[0].RespBytes)
}

func TestRequestLinesUncapturedStatus(t *testing.T) {
	lines := requestLines([]*model.Frame{
		{Op: "resource.fetch", Method: "GET", URL: "/ping", StartMs: 0, EndMs: 10},
	})

	require.Len(t, lines, 1)
	assert.Equal(t, "-", lines[0].Status)
	assert.Equal(t, int64(0), lines[0].RespBytes)
}

func TestFormatAndOutput(t *testing.T) {
	frames := testFrames()
	replay := &model.Replay{
		Name:     "checkout-flow",
		Segments: []string{"0.json"},
		Frames:   frames,
		StartMs:  1000,
		EndMs:    9090,
	}

	for _, format := range []string{"table", "json", "csv", "summary"} {
		t.Run(format, func(t *testing.T) {
			a := testAnalyzer(&Config{GroupBy: "host", OutputFormat: format})
			report := a.buildReport(replay, frames)

			old := os.Stdout
			r, w, err := os.Pipe()
			require.NoError(t, err)
			os.Stdout = w

			ferr := a.formatAndOutput(report)

			w.Close()
			os.Stdout = old
			out, _ := io.ReadAll(r)

			require.NoError(t, ferr)
			assert.NotEmpty(t, out)
		})
	}
}

func TestNewDefaults(t *testing.T) {
	config := &Config{
		DataDir:  t.TempDir(),
		CacheDir: t.TempDir(),
	}

	a, err := New(config)
	require.NoError(t, err)

	assert.Equal(t, runtime.NumCPU(), config.Concurrency)
	assert.NotNil(t, a.cache)
	assert.NotNil(t, a.scanner)
	assert.NotNil(t, a.parser)
	assert.NotNil(t, a.aggregator)
}

func TestNewRejectsUnusableCacheDir(t *testing.T) {
	blocker := t.TempDir() + "/occupied"
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	_, err := New(&Config{DataDir: t.TempDir(), CacheDir: blocker})
	assert.Error(t, err)
}
