package grid

import (
	"sort"
	"strings"

	"github.com/sam16vis/go-replay-inspector/internal/core/model"
)

// SortConfig selects the ordering column and direction.
type SortConfig struct {
	By  ColumnKey
	Asc bool
}

// DefaultSort orders rows by request start time, matching replay playback.
func DefaultSort() SortConfig {
	return SortConfig{By: ColumnStart, Asc: true}
}

// Toggle returns the config after a sort request on key: same column flips
// the direction, a new column starts ascending.
func (s SortConfig) Toggle(key ColumnKey) SortConfig {
	if s.By == key {
		return SortConfig{By: key, Asc: !s.Asc}
	}
	return SortConfig{By: key, Asc: true}
}

// sortFiltered orders positions into the filtered sequence. The comparator
// is column-specific and direction-aware; ties always break by filtered
// index so the ordering is total and re-sorting is idempotent.
func sortFiltered(frames []*model.Frame, filtered []int, cfg SortConfig) []int {
	order := make([]int, len(filtered))
	for i := range filtered {
		order[i] = i
	}

	cmp := comparatorFor(cfg.By)
	sort.SliceStable(order, func(a, b int) bool {
		fa := frames[filtered[order[a]]]
		fb := frames[filtered[order[b]]]
		c := cmp(fa, fb)
		if c == 0 {
			return order[a] < order[b]
		}
		if cfg.Asc {
			return c < 0
		}
		return c > 0
	})

	result := make([]int, len(order))
	for i, pos := range order {
		result[i] = filtered[pos]
	}
	return result
}

// comparatorFor returns a three-way comparator for the column. Missing
// numeric values sort below every present value.
func comparatorFor(key ColumnKey) func(a, b *model.Frame) int {
	switch key {
	case ColumnMethod:
		return func(a, b *model.Frame) int { return strings.Compare(a.Method, b.Method) }
	case ColumnStatus:
		return func(a, b *model.Frame) int { return compareNullableInt(a.StatusCode, b.StatusCode) }
	case ColumnURL:
		return func(a, b *model.Frame) int { return strings.Compare(a.URL, b.URL) }
	case ColumnReqSize:
		return func(a, b *model.Frame) int { return compareNullableInt64(a.ReqSize, b.ReqSize) }
	case ColumnRespSize:
		return func(a, b *model.Frame) int { return compareNullableInt64(a.RespSize, b.RespSize) }
	case ColumnDuration:
		return func(a, b *model.Frame) int { return compareInt64(a.DurationMs(), b.DurationMs()) }
	default:
		return func(a, b *model.Frame) int { return compareInt64(a.StartMs, b.StartMs) }
	}
}

func compareInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareNullableInt64(a, b *int64) int {
	if a == nil && b == nil {
		return 0
	}
	if a == nil {
		return -1
	}
	if b == nil {
		return 1
	}
	return compareInt64(*a, *b)
}

func compareNullableInt(a, b *int) int {
	if a == nil && b == nil {
		return 0
	}
	if a == nil {
		return -1
	}
	if b == nil {
		return 1
	}
	return compareInt64(int64(*a), int64(*b))
}
