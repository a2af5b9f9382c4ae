package playback

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBoundedClock() *Clock {
	c := NewClock()
	c.SetBounds(1000, 11000)
	return c
}

func TestClockSetBoundsRewinds(t *testing.T) {
	c := newBoundedClock()
	c.SeekTo(5000)
	c.SetBounds(2000, 8000)

	assert.Equal(t, int64(2000), c.CurrentMs())
	assert.False(t, c.IsPlaying())
}

func TestClockSetBoundsEndExtensionKeepsPosition(t *testing.T) {
	c := newBoundedClock()
	c.SeekTo(5000)
	require.True(t, c.TogglePlay())

	// A live replay growing at the end keeps position and play state
	c.SetBounds(1000, 20000)
	assert.Equal(t, int64(5000), c.CurrentMs())
	assert.True(t, c.IsPlaying())

	// Shrinking clamps the position back into range
	c.SetBounds(1000, 3000)
	assert.Equal(t, int64(3000), c.CurrentMs())
}

func TestClockSeekClamps(t *testing.T) {
	c := newBoundedClock()

	c.SeekTo(500)
	assert.Equal(t, int64(1000), c.CurrentMs())

	c.SeekTo(99999)
	assert.Equal(t, int64(11000), c.CurrentMs())

	c.SeekTo(4000)
	c.SeekBy(-10000)
	assert.Equal(t, int64(1000), c.CurrentMs())

	c.SeekBy(1000)
	assert.Equal(t, int64(2000), c.CurrentMs())
}

func TestClockAdvance(t *testing.T) {
	c := newBoundedClock()

	// Paused clock never moves
	assert.False(t, c.Advance(time.Second))
	assert.Equal(t, int64(1000), c.CurrentMs())

	assert.True(t, c.TogglePlay())
	assert.True(t, c.Advance(time.Second))
	assert.Equal(t, int64(2000), c.CurrentMs())

	// Hitting the end pauses
	assert.True(t, c.Advance(time.Hour))
	assert.Equal(t, int64(11000), c.CurrentMs())
	assert.False(t, c.IsPlaying())
}

func TestClockTogglePlayRestartsAtEnd(t *testing.T) {
	c := newBoundedClock()
	c.SeekTo(11000)

	assert.True(t, c.TogglePlay())
	assert.Equal(t, int64(1000), c.CurrentMs())
}

func TestClockHover(t *testing.T) {
	c := newBoundedClock()
	c.SeekTo(5000)

	// First hover starts from the committed position
	c.HoverBy(250)
	snap := c.Snapshot()
	require.NotNil(t, snap.HoverTimeMs)
	assert.Equal(t, int64(5250), *snap.HoverTimeMs)
	assert.Equal(t, int64(5000), snap.CurrentTimeMs)
	assert.Equal(t, int64(5250), snap.EffectiveMs())

	// Subsequent hovers move the hover cursor, not the committed time
	c.HoverBy(250)
	snap = c.Snapshot()
	assert.Equal(t, int64(5500), *snap.HoverTimeMs)
	assert.Equal(t, int64(5000), snap.CurrentTimeMs)

	// Clearing restores the committed position as the effective time
	c.ClearHover()
	snap = c.Snapshot()
	assert.Nil(t, snap.HoverTimeMs)
	assert.Equal(t, int64(5000), snap.EffectiveMs())
}

func TestClockCommitHover(t *testing.T) {
	c := newBoundedClock()
	c.SeekTo(5000)

	assert.False(t, c.CommitHover())

	c.HoverBy(-1000)
	assert.True(t, c.CommitHover())

	snap := c.Snapshot()
	assert.Nil(t, snap.HoverTimeMs)
	assert.Equal(t, int64(4000), snap.CurrentTimeMs)
}

func TestClockHoverClamps(t *testing.T) {
	c := newBoundedClock()

	c.HoverBy(-5000)
	snap := c.Snapshot()
	require.NotNil(t, snap.HoverTimeMs)
	assert.Equal(t, int64(1000), *snap.HoverTimeMs)

	c.HoverBy(1 << 40)
	snap = c.Snapshot()
	assert.Equal(t, int64(11000), *snap.HoverTimeMs)
}

func TestClockSnapshotIsolation(t *testing.T) {
	c := newBoundedClock()
	c.HoverBy(500)

	snap := c.Snapshot()
	*snap.HoverTimeMs = 99999

	fresh := c.Snapshot()
	assert.Equal(t, int64(1500), *fresh.HoverTimeMs)
}

func TestClockZeroBounds(t *testing.T) {
	c := NewClock()
	c.SetBounds(0, 0)

	c.SeekBy(5000)
	assert.Equal(t, int64(0), c.CurrentMs())

	c.TogglePlay()
	assert.False(t, c.Advance(time.Second))
	assert.False(t, c.IsPlaying())
}
