package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sam16vis/go-replay-inspector/internal/core/model"
)

func ascendingSequence(n int) *DisplaySequence {
	frames := sequentialFrames(n)
	return buildDisplaySequence(frames, FilterState{}, SortConfig{By: ColumnStart, Asc: true}, RenderContext{ReplayStartMs: 1000}, 1)
}

func descendingSequence(n int) *DisplaySequence {
	frames := sequentialFrames(n)
	return buildDisplaySequence(frames, FilterState{}, SortConfig{By: ColumnStart, Asc: false}, RenderContext{ReplayStartMs: 1000}, 1)
}

func TestFindCurrentIndex(t *testing.T) {
	seq := ascendingSequence(10) // starts at 1000, 1100, ... 1900

	tests := []struct {
		name     string
		targetMs int64
		expected int
	}{
		{name: "between_frames_5_and_6", targetMs: 1550, expected: 6},
		{name: "exactly_on_frame", targetMs: 1300, expected: 3},
		{name: "before_first", targetMs: 0, expected: 0},
		{name: "beyond_last", targetMs: 99999, expected: 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FindCurrentIndex(seq, tt.targetMs))
		})
	}
}

func TestFindCurrentIndexEmpty(t *testing.T) {
	seq := &DisplaySequence{}
	assert.Equal(t, -1, FindCurrentIndex(seq, 1000))
}

func TestComputeJumpStateDown(t *testing.T) {
	seq := ascendingSequence(10)
	clock := model.Clock{CurrentTimeMs: 1550}

	state := ComputeJumpState(seq, SortConfig{By: ColumnStart, Asc: true}, clock, 0, 3)

	require.True(t, state.Enabled)
	assert.Equal(t, JumpDown, state.Direction)
	assert.Equal(t, 6, state.Index)
	assert.Equal(t, 6, state.ScrollTarget)
}

func TestComputeJumpStateUpShiftsPastHeader(t *testing.T) {
	seq := ascendingSequence(10)
	clock := model.Clock{CurrentTimeMs: 1550}

	state := ComputeJumpState(seq, SortConfig{By: ColumnStart, Asc: true}, clock, 8, 9)

	require.True(t, state.Enabled)
	assert.Equal(t, JumpUp, state.Direction)
	assert.Equal(t, 6, state.Index)
	assert.Equal(t, 7, state.ScrollTarget)
}

func TestComputeJumpStateTopVisibleRowStillJumps(t *testing.T) {
	seq := ascendingSequence(10)
	clock := model.Clock{CurrentTimeMs: 1550}

	// Row 6 is the first visible row; it may sit flush against the header,
	// so the jump affordance stays available
	state := ComputeJumpState(seq, SortConfig{By: ColumnStart, Asc: true}, clock, 6, 9)

	require.True(t, state.Enabled)
	assert.Equal(t, JumpUp, state.Direction)
	assert.Equal(t, 7, state.ScrollTarget)
}

func TestComputeJumpStateInsideViewport(t *testing.T) {
	seq := ascendingSequence(10)
	clock := model.Clock{CurrentTimeMs: 1550}

	state := ComputeJumpState(seq, SortConfig{By: ColumnStart, Asc: true}, clock, 4, 8)

	assert.False(t, state.Enabled)
	assert.Equal(t, 6, state.Index)
}

func TestComputeJumpStateBeyondLastFrame(t *testing.T) {
	seq := ascendingSequence(10)
	clock := model.Clock{CurrentTimeMs: 99999}

	state := ComputeJumpState(seq, SortConfig{By: ColumnStart, Asc: true}, clock, 0, 3)

	require.True(t, state.Enabled)
	assert.Equal(t, 9, state.Index)
	assert.Equal(t, JumpDown, state.Direction)
}

func TestComputeJumpStateDisabledForNonTimeSort(t *testing.T) {
	seq := ascendingSequence(10)
	clock := model.Clock{CurrentTimeMs: 1550}

	for _, key := range []ColumnKey{ColumnMethod, ColumnStatus, ColumnURL, ColumnDuration} {
		state := ComputeJumpState(seq, SortConfig{By: key, Asc: true}, clock, 0, 3)
		assert.False(t, state.Enabled, "jump must be disabled when sorted by %s", key)
	}
}

func TestComputeJumpStateEmptySequence(t *testing.T) {
	state := ComputeJumpState(&DisplaySequence{}, DefaultSort(), model.Clock{CurrentTimeMs: 1000}, 0, -1)
	assert.False(t, state.Enabled)
}

func TestComputeJumpStateUsesHoverTime(t *testing.T) {
	seq := ascendingSequence(10)
	hover := int64(1850)
	clock := model.Clock{CurrentTimeMs: 1050, HoverTimeMs: &hover}

	state := ComputeJumpState(seq, SortConfig{By: ColumnStart, Asc: true}, clock, 0, 3)

	require.True(t, state.Enabled)
	assert.Equal(t, 9, state.Index)
}

func TestComputeJumpStateDescending(t *testing.T) {
	seq := descendingSequence(10) // starts 1900, 1800, ... 1000
	clock := model.Clock{CurrentTimeMs: 1550}

	state := ComputeJumpState(seq, SortConfig{By: ColumnStart, Asc: false}, clock, 0, 2)

	require.True(t, state.Enabled)
	// Rows at or after 1550 occupy indices 0..3; the current row is the
	// last of them in display order
	assert.Equal(t, 3, state.Index)
	assert.Equal(t, JumpDown, state.Direction)
}

func TestClassifyRowsBoundary(t *testing.T) {
	seq := ascendingSequence(6) // starts 1000..1500
	clock := model.Clock{CurrentTimeMs: 1250}

	classes := classifyRows(seq, clock, 0, 5, false)
	require.Len(t, classes, 6)

	for i, class := range classes {
		expectedAfter := seq.Frames[i].StartMs >= 1250
		assert.Equal(t, expectedAfter, class.AfterCurrent, "row %d", i)
		assert.Equal(t, i == 3, class.CurrentBoundary, "row %d", i)
		assert.False(t, class.HoverBoundary)
	}
}

func TestClassifyRowsHoverTimeline(t *testing.T) {
	seq := ascendingSequence(6)
	hover := int64(1450)
	clock := model.Clock{CurrentTimeMs: 1250, HoverTimeMs: &hover}

	classes := classifyRows(seq, clock, 0, 5, false)

	assert.True(t, classes[3].CurrentBoundary)
	assert.True(t, classes[5].HoverBoundary)
	assert.False(t, classes[5].CurrentBoundary)
	assert.True(t, classes[5].AfterHover)
	assert.False(t, classes[4].AfterHover)
}

func TestClassifyRowsDescendingBoundary(t *testing.T) {
	seq := descendingSequence(6) // starts 1500..1000
	clock := model.Clock{CurrentTimeMs: 1250}

	classes := classifyRows(seq, clock, 0, 5, true)

	// Displayed newest-first, rows 0..2 start at 1500,1400,1300; the flip
	// to before-current happens at display index 3
	for i, class := range classes {
		assert.Equal(t, i == 3, class.CurrentBoundary, "row %d", i)
	}
}

func TestClassifyRowsPartialWindow(t *testing.T) {
	seq := ascendingSequence(100)
	clock := model.Clock{CurrentTimeMs: 1000 + 50*100}

	classes := classifyRows(seq, clock, 40, 60, false)
	require.Len(t, classes, 21)

	assert.True(t, classes[50-40].CurrentBoundary)
	assert.False(t, classes[49-40].AfterCurrent)
	assert.True(t, classes[51-40].AfterCurrent)
}
