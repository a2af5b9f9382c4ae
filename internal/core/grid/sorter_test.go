package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sam16vis/go-replay-inspector/internal/core/model"
)

func sortAll(frames []*model.Frame, cfg SortConfig) []int {
	return sortFiltered(frames, allIndices(len(frames)), cfg)
}

func TestSortByStart(t *testing.T) {
	frames := []*model.Frame{
		{URL: "c", StartMs: 3000, EndMs: 3100},
		{URL: "a", StartMs: 1000, EndMs: 1100},
		{URL: "b", StartMs: 2000, EndMs: 2100},
	}

	asc := sortAll(frames, SortConfig{By: ColumnStart, Asc: true})
	assert.Equal(t, []int{1, 2, 0}, asc)

	desc := sortAll(frames, SortConfig{By: ColumnStart, Asc: false})
	assert.Equal(t, []int{0, 2, 1}, desc)
}

func TestSortIdempotence(t *testing.T) {
	frames := mixedFrames()
	configs := []SortConfig{
		{By: ColumnStart, Asc: true},
		{By: ColumnMethod, Asc: false},
		{By: ColumnRespSize, Asc: true},
		{By: ColumnDuration, Asc: false},
	}

	for _, cfg := range configs {
		first := sortAll(frames, cfg)
		second := sortAll(frames, cfg)
		assert.Equal(t, first, second, "sorting twice with %+v must not move rows", cfg)
	}
}

func TestSortReversalWithDistinctKeys(t *testing.T) {
	frames := sequentialFrames(20)

	asc := sortAll(frames, SortConfig{By: ColumnStart, Asc: true})
	desc := sortAll(frames, SortConfig{By: ColumnStart, Asc: false})

	require.Len(t, desc, len(asc))
	for i := range asc {
		assert.Equal(t, asc[i], desc[len(desc)-1-i])
	}
}

func TestSortTieGroupsKeepFilteredOrder(t *testing.T) {
	// Frames 0, 2 and 3 share a method; they must stay in filtered order
	// within their group whichever direction the sort runs
	frames := []*model.Frame{
		{Method: "GET", URL: "first", StartMs: 1},
		{Method: "POST", URL: "second", StartMs: 2},
		{Method: "GET", URL: "third", StartMs: 3},
		{Method: "GET", URL: "fourth", StartMs: 4},
	}

	asc := sortAll(frames, SortConfig{By: ColumnMethod, Asc: true})
	assert.Equal(t, []int{0, 2, 3, 1}, asc)

	desc := sortAll(frames, SortConfig{By: ColumnMethod, Asc: false})
	assert.Equal(t, []int{1, 0, 2, 3}, desc)
}

func TestSortNullsSortLowest(t *testing.T) {
	frames := []*model.Frame{
		{URL: "big", RespSize: int64Ptr(4096), StartMs: 1},
		{URL: "none", RespSize: nil, StartMs: 2},
		{URL: "small", RespSize: int64Ptr(16), StartMs: 3},
		{URL: "missing", RespSize: nil, StartMs: 4},
	}

	asc := sortAll(frames, SortConfig{By: ColumnRespSize, Asc: true})
	assert.Equal(t, []int{1, 3, 2, 0}, asc)

	desc := sortAll(frames, SortConfig{By: ColumnRespSize, Asc: false})
	assert.Equal(t, []int{0, 2, 1, 3}, desc)
}

func TestSortNullStatusLowest(t *testing.T) {
	frames := []*model.Frame{
		{URL: "ok", StatusCode: intPtr(200), StartMs: 1},
		{URL: "aborted", StatusCode: nil, StartMs: 2},
		{URL: "server_error", StatusCode: intPtr(500), StartMs: 3},
	}

	asc := sortAll(frames, SortConfig{By: ColumnStatus, Asc: true})
	assert.Equal(t, []int{1, 0, 2}, asc)
}

func TestSortOperatesOnFilteredSubset(t *testing.T) {
	frames := sequentialFrames(10)
	filtered := []int{7, 3, 9}

	got := sortFiltered(frames, filtered, SortConfig{By: ColumnStart, Asc: true})
	assert.Equal(t, []int{3, 7, 9}, got)
}

func TestSortConfigToggle(t *testing.T) {
	cfg := DefaultSort()
	require.Equal(t, ColumnStart, cfg.By)
	require.True(t, cfg.Asc)

	cfg = cfg.Toggle(ColumnStart)
	assert.Equal(t, SortConfig{By: ColumnStart, Asc: false}, cfg)

	cfg = cfg.Toggle(ColumnDuration)
	assert.Equal(t, SortConfig{By: ColumnDuration, Asc: true}, cfg)

	cfg = cfg.Toggle(ColumnDuration)
	assert.Equal(t, SortConfig{By: ColumnDuration, Asc: false}, cfg)
}
