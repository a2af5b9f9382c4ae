package formatter

import (
	"fmt"
	"strings"

	"github.com/sam16vis/go-replay-inspector/internal/util"
)

// SummaryFormatter is responsible for formatting and outputting prose
// summary reports.
type SummaryFormatter struct{}

// NewSummaryFormatter creates a new instance of SummaryFormatter.
func NewSummaryFormatter() *SummaryFormatter {
	return &SummaryFormatter{}
}

// Format formats and outputs the summary of a report.
func (f *SummaryFormatter) Format(report *Report) error {
	fmt.Println(strings.Repeat("=", 60))
	fmt.Println("Replay Network Summary Report")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Println()

	if report.Replay != "" {
		fmt.Printf("Replay: %s (%d segments)\n", report.Replay, report.Segments)
	}

	summary := report.Summary
	if summary.Requests == 0 {
		fmt.Println("No requests to summarize")
		fmt.Println()
		fmt.Println(strings.Repeat("=", 60))
		return nil
	}

	fmt.Printf("Window: %s to %s (%s)\n",
		util.FormatClockMs(report.StartMs, "24h"),
		util.FormatClockMs(report.EndMs, "24h"),
		util.FormatDurationMs(summary.DurationMs))
	fmt.Println()

	fmt.Println("Request Breakdown:")
	fmt.Printf("  Requests: %s\n", formatNumber(int64(summary.Requests)))
	fmt.Printf("  Navigations: %s\n", formatNumber(int64(summary.Navigations)))
	fmt.Printf("  Failures: %s\n", formatNumber(int64(summary.Failures)))
	fmt.Printf("  Uncaptured: %s\n", formatNumber(int64(summary.Uncaptured)))
	fmt.Printf("  Request Bytes: %s\n", util.FormatBytes(summary.ReqBytes))
	fmt.Printf("  Response Bytes: %s\n", util.FormatBytes(summary.RespBytes))
	fmt.Printf("  Avg Duration: %s\n", util.FormatDurationMs(summary.AvgMs))
	fmt.Printf("  Max Duration: %s\n", util.FormatDurationMs(summary.MaxMs))
	fmt.Printf("  Activity Phases: %d\n", summary.Phases)
	fmt.Println()

	if len(report.Rows) > 0 {
		fmt.Printf("By %s:\n", groupLabel(report.GroupBy))
		fmt.Println(strings.Repeat("-", 60))

		for _, row := range report.Rows {
			fmt.Printf("\n%s:\n", row.Key)
			fmt.Printf("  Requests:             %s\n", formatNumber(int64(row.Requests)))
			fmt.Printf("  Failures:             %s\n", formatNumber(int64(row.Failures)))
			fmt.Printf("  Request Bytes:        %s\n", util.FormatBytes(row.ReqBytes))
			fmt.Printf("  Response Bytes:       %s\n", util.FormatBytes(row.RespBytes))
			fmt.Printf("  Avg Duration:         %s\n", util.FormatDurationMs(row.AvgMs))
			fmt.Printf("  Max Duration:         %s\n", util.FormatDurationMs(row.MaxMs))
		}
		fmt.Println()
	}

	if len(report.Slowest) > 0 {
		fmt.Println("Slowest Requests:")
		fmt.Println(strings.Repeat("-", 60))
		for _, line := range report.Slowest {
			fmt.Printf("  %8s  %-6s %-4s %s\n",
				util.FormatDurationMs(line.DurationMs), line.Method, line.Status, line.URL)
		}
		fmt.Println()
	}

	if len(report.Largest) > 0 {
		fmt.Println("Largest Responses:")
		fmt.Println(strings.Repeat("-", 60))
		for _, line := range report.Largest {
			fmt.Printf("  %8s  %-6s %-4s %s\n",
				util.FormatBytes(line.RespBytes), line.Method, line.Status, line.URL)
		}
		fmt.Println()
	}

	fmt.Println(strings.Repeat("=", 60))

	return nil
}
