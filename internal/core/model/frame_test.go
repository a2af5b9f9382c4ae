package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFrameOpKind(t *testing.T) {
	tests := []struct {
		name     string
		op       string
		expected string
	}{
		{name: "fetch", op: "resource.fetch", expected: "fetch"},
		{name: "xhr", op: "resource.xhr", expected: "xhr"},
		{name: "navigation", op: "navigation.navigate", expected: "navigate"},
		{name: "no_dot", op: "custom", expected: "custom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := Frame{Op: tt.op}
			assert.Equal(t, tt.expected, f.OpKind())
		})
	}
}

func TestReplayRecomputeBounds(t *testing.T) {
	replay := &Replay{
		Frames: []*Frame{
			{StartMs: 2000, EndMs: 2500},
			{StartMs: 1000, EndMs: 1200},
			{StartMs: 3000, EndMs: 3100},
		},
	}

	replay.RecomputeBounds()

	assert.Equal(t, int64(1000), replay.StartMs)
	assert.Equal(t, int64(3100), replay.EndMs)
	assert.Equal(t, int64(2100), replay.DurationMs())
}

func TestReplayRecomputeBoundsEmpty(t *testing.T) {
	replay := &Replay{StartMs: 5, EndMs: 9}
	replay.RecomputeBounds()

	assert.Equal(t, int64(0), replay.StartMs)
	assert.Equal(t, int64(0), replay.EndMs)
	assert.True(t, replay.IsEmpty())
}

func TestClockEffectiveMs(t *testing.T) {
	clock := Clock{CurrentTimeMs: 1000}
	assert.Equal(t, int64(1000), clock.EffectiveMs())

	hover := int64(2500)
	clock.HoverTimeMs = &hover
	assert.Equal(t, int64(2500), clock.EffectiveMs())
}
