package formatter

import (
	"fmt"
	"strings"

	"github.com/sam16vis/go-replay-inspector/internal/util"
)

type TableFormatter struct{}

func NewTableFormatter() *TableFormatter {
	return &TableFormatter{}
}

func (f *TableFormatter) Format(report *Report) error {
	headers := tableHeaders(report.GroupBy)

	// Calculate optimal column widths based on content
	widths := f.calculateColumnWidths(headers, report)

	// Print top border
	f.printBorder(widths, "top")

	// Print header
	f.printRow(headers, widths)

	// Print header separator
	f.printBorder(widths, "middle")

	for _, row := range report.Rows {
		f.printRow(f.rowValues(row), widths)
	}

	// Print total row. Totals come from the summary rather than the printed
	// rows so that --limit never shrinks them.
	f.printBorder(widths, "middle")
	f.printRow(f.totalValues(report.Summary), widths)

	// Print bottom border
	f.printBorder(widths, "bottom")

	return nil
}

func tableHeaders(groupBy string) []string {
	return []string{
		groupLabel(groupBy), "Requests", "Failures",
		"Req Bytes", "Resp Bytes", "Avg", "Max",
	}
}

func (f *TableFormatter) rowValues(row GroupRow) []string {
	return []string{
		row.Key,
		formatNumber(int64(row.Requests)),
		formatNumber(int64(row.Failures)),
		util.FormatBytes(row.ReqBytes),
		util.FormatBytes(row.RespBytes),
		util.FormatDurationMs(row.AvgMs),
		util.FormatDurationMs(row.MaxMs),
	}
}

func (f *TableFormatter) totalValues(summary Summary) []string {
	return []string{
		"Total",
		formatNumber(int64(summary.Requests)),
		formatNumber(int64(summary.Failures)),
		util.FormatBytes(summary.ReqBytes),
		util.FormatBytes(summary.RespBytes),
		util.FormatDurationMs(summary.AvgMs),
		util.FormatDurationMs(summary.MaxMs),
	}
}

// calculateColumnWidths determines optimal width for each column based on content
func (f *TableFormatter) calculateColumnWidths(headers []string, report *Report) []int {
	widths := make([]int, len(headers))

	// Initialize with header widths
	for i, header := range headers {
		widths[i] = len(header)
	}

	// Check data rows
	for _, row := range report.Rows {
		for i, value := range f.rowValues(row) {
			if len(value) > widths[i] {
				widths[i] = len(value)
			}
		}
	}

	// Check the "Total" row values
	for i, value := range f.totalValues(report.Summary) {
		if len(value) > widths[i] {
			widths[i] = len(value)
		}
	}

	// Apply minimum widths for readability
	minWidths := []int{8, 8, 8, 9, 10, 6, 6}
	for i, minWidth := range minWidths {
		if widths[i] < minWidth {
			widths[i] = minWidth
		}
	}

	return widths
}

// printBorder prints table borders (top, middle, bottom)
func (f *TableFormatter) printBorder(widths []int, borderType string) {
	var left, middle, right, separator string

	switch borderType {
	case "top":
		left, middle, right, separator = "┌", "┬", "┐", "─"
	case "middle":
		left, middle, right, separator = "├", "┼", "┤", "─"
	case "bottom":
		left, middle, right, separator = "└", "┴", "┘", "─"
	}

	fmt.Print(left)
	for i, width := range widths {
		fmt.Print(strings.Repeat(separator, width+2)) // +2 for padding spaces
		if i < len(widths)-1 {
			fmt.Print(middle)
		}
	}
	fmt.Println(right)
}

// printRow prints a data row. The group-key column is left-aligned, the
// numeric columns right-aligned.
func (f *TableFormatter) printRow(values []string, widths []int) {
	fmt.Print("│")
	for i, value := range values {
		if i == 0 {
			fmt.Printf(" %-*s │", widths[i], value)
		} else {
			fmt.Printf(" %*s │", widths[i], value)
		}
	}
	fmt.Println()
}

func formatNumber(n int64) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}

	var result []byte
	for i, digit := range []byte(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			result = append(result, ',')
		}
		result = append(result, digit)
	}

	return string(result)
}
