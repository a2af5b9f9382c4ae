package formatter

import (
	"io"
	"os"
	"strings"
	"testing"
)

// captureStdout runs fn with os.Stdout redirected to a pipe and returns
// everything it printed.
func captureStdout(t *testing.T, fn func() error) string {
	t.Helper()

	old := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	os.Stdout = w

	ferr := fn()

	w.Close()
	os.Stdout = old
	out, _ := io.ReadAll(r)

	if ferr != nil {
		t.Fatalf("Format() error = %v", ferr)
	}
	return string(out)
}

func sampleReport() *Report {
	return &Report{
		Replay:   "checkout-flow",
		Segments: 3,
		StartMs:  1700000000000,
		EndMs:    1700000029450,
		GroupBy:  "host",
		Rows: []GroupRow{
			{Key: "api.example.com", Requests: 1204, Failures: 17, ReqBytes: 52441, RespBytes: 15523840, AvgMs: 451, MaxMs: 2310},
			{Key: "cdn.example.com", Requests: 86, Failures: 0, ReqBytes: 8120, RespBytes: 9830400, AvgMs: 95, MaxMs: 640},
		},
		Summary: Summary{
			Requests:    1290,
			Navigations: 3,
			Failures:    17,
			Uncaptured:  42,
			ReqBytes:    60561,
			RespBytes:   25354240,
			AvgMs:       427,
			MaxMs:       2310,
			DurationMs:  29450,
			Phases:      4,
		},
		Slowest: []RequestLine{
			{Method: "GET", URL: "https://api.example.com/search?q=boots", Status: "200", DurationMs: 2310, RespBytes: 104448},
		},
		Largest: []RequestLine{
			{Method: "GET", URL: "https://cdn.example.com/bundle.js", Status: "200", DurationMs: 640, RespBytes: 4194304},
		},
	}
}

func TestNewTableFormatter(t *testing.T) {
	if NewTableFormatter() == nil {
		t.Fatal("NewTableFormatter returned nil")
	}
}

func TestTableFormatterFormat(t *testing.T) {
	formatter := NewTableFormatter()

	tests := []struct {
		name       string
		report     *Report
		wantInBody []string
	}{
		{
			name:   "grouped_by_host",
			report: sampleReport(),
			wantInBody: []string{
				"Host",
				"Requests",
				"api.example.com",
				"cdn.example.com",
				"1,204",
				"14.8MB",
				"451ms",
				"2.3s",
				"Total",
				"1,290",
			},
		},
		{
			name: "grouped_by_method",
			report: &Report{
				GroupBy: "method",
				Rows: []GroupRow{
					{Key: "GET", Requests: 950, AvgMs: 120, MaxMs: 900},
					{Key: "POST", Requests: 340, Failures: 17, AvgMs: 610, MaxMs: 2310},
				},
				Summary: Summary{Requests: 1290, Failures: 17, AvgMs: 250, MaxMs: 2310},
			},
			wantInBody: []string{"Method", "GET", "POST", "340", "610ms"},
		},
		{
			name: "no_rows_still_prints_total",
			report: &Report{
				GroupBy: "host",
				Summary: Summary{},
			},
			wantInBody: []string{"Host", "Total", "0B", "0ms"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output := captureStdout(t, func() error {
				return formatter.Format(tt.report)
			})

			for _, want := range tt.wantInBody {
				if !strings.Contains(output, want) {
					t.Errorf("Expected output to contain %q, but it didn't.\nGot:\n%s", want, output)
				}
			}
		})
	}
}

func TestTableFormatterBorders(t *testing.T) {
	formatter := NewTableFormatter()

	output := captureStdout(t, func() error {
		return formatter.Format(sampleReport())
	})

	lines := strings.Split(strings.TrimRight(output, "\n"), "\n")
	if len(lines) < 6 {
		t.Fatalf("expected at least 6 lines, got %d", len(lines))
	}
	if !strings.HasPrefix(lines[0], "┌") {
		t.Errorf("first line should start the box, got %q", lines[0])
	}
	if !strings.HasPrefix(lines[len(lines)-1], "└") {
		t.Errorf("last line should close the box, got %q", lines[len(lines)-1])
	}

	// Every row and border must be the same rune width.
	want := len([]rune(lines[0]))
	for i, line := range lines {
		if got := len([]rune(line)); got != want {
			t.Errorf("line %d width = %d, want %d: %q", i, got, want, line)
		}
	}
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{1204, "1,204"},
		{1234567, "1,234,567"},
	}

	for _, tt := range tests {
		if got := formatNumber(tt.in); got != tt.want {
			t.Errorf("formatNumber(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestGroupLabel(t *testing.T) {
	tests := []struct {
		groupBy string
		want    string
	}{
		{"host", "Host"},
		{"method", "Method"},
		{"status", "Status"},
		{"op", "Op"},
		{"", "Host"},
	}

	for _, tt := range tests {
		if got := groupLabel(tt.groupBy); got != tt.want {
			t.Errorf("groupLabel(%q) = %q, want %q", tt.groupBy, got, tt.want)
		}
	}
}
