package formatter

import (
	"encoding/csv"
	"fmt"
	"os"
)

// CSVFormatter emits one record per group row with raw numeric values so
// the output round-trips through spreadsheets without unit parsing.
type CSVFormatter struct{}

func NewCSVFormatter() *CSVFormatter {
	return &CSVFormatter{}
}

func (f *CSVFormatter) Format(report *Report) error {
	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	headers := []string{
		groupLabel(report.GroupBy), "Requests", "Failures",
		"Req Bytes", "Resp Bytes", "Avg Ms", "Max Ms",
	}
	if err := w.Write(headers); err != nil {
		return err
	}

	for _, row := range report.Rows {
		record := []string{
			row.Key,
			fmt.Sprintf("%d", row.Requests),
			fmt.Sprintf("%d", row.Failures),
			fmt.Sprintf("%d", row.ReqBytes),
			fmt.Sprintf("%d", row.RespBytes),
			fmt.Sprintf("%d", row.AvgMs),
			fmt.Sprintf("%d", row.MaxMs),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}

	return nil
}
