package formatter

// Report is the printable result of one analysis run over a replay's
// network activity. Formatters consume it as-is; grouping, filtering and
// ranking all happen upstream in the analyzer.
type Report struct {
	Replay   string
	Segments int
	StartMs  int64
	EndMs    int64
	GroupBy  string
	Rows     []GroupRow
	Summary  Summary
	Slowest  []RequestLine
	Largest  []RequestLine
}

// GroupRow aggregates the requests sharing one group key (a host, a
// method, a status class or an op kind, depending on Report.GroupBy).
type GroupRow struct {
	Key       string
	Requests  int
	Failures  int
	ReqBytes  int64
	RespBytes int64
	AvgMs     int64
	MaxMs     int64
}

// Summary holds replay-wide request statistics over the analyzed window.
type Summary struct {
	Requests    int
	Navigations int
	Failures    int
	Uncaptured  int
	ReqBytes    int64
	RespBytes   int64
	AvgMs       int64
	MaxMs       int64
	DurationMs  int64
	Phases      int
}

// RequestLine is a single request in a leaderboard section. Status is
// already rendered ("200", "-" when the capture recorded none).
type RequestLine struct {
	Method     string
	URL        string
	Status     string
	DurationMs int64
	RespBytes  int64
}

// groupLabel maps a group-by key to the header of the first column.
func groupLabel(groupBy string) string {
	switch groupBy {
	case "method":
		return "Method"
	case "status":
		return "Status"
	case "op":
		return "Op"
	default:
		return "Host"
	}
}
