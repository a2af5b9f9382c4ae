package playback

import (
	"sync"
	"time"

	"github.com/sam16vis/go-replay-inspector/internal/core/model"
)

// Clock tracks the playback position within a replay's time range. The
// committed position advances while playing; a separate hover position
// exists only during scrubbing and never moves the committed one until
// the user commits it.
type Clock struct {
	mu        sync.RWMutex
	startMs   int64
	endMs     int64
	currentMs int64
	hoverMs   *int64
	playing   bool
}

func NewClock() *Clock {
	return &Clock{}
}

// SetBounds installs the replay's time range. A different start means a new
// replay and rewinds to it; a live replay growing or shrinking at the end
// keeps the current position and play state, clamped into the new range.
func (c *Clock) SetBounds(startMs, endMs int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if endMs < startMs {
		endMs = startMs
	}
	rewind := c.startMs != startMs
	c.startMs, c.endMs = startMs, endMs
	if rewind {
		c.currentMs = startMs
		c.hoverMs = nil
		c.playing = false
		return
	}
	c.currentMs = c.clampLocked(c.currentMs)
	if c.hoverMs != nil {
		hover := c.clampLocked(*c.hoverMs)
		c.hoverMs = &hover
	}
}

// Snapshot returns an immutable view for rendering and navigation.
func (c *Clock) Snapshot() model.Clock {
	c.mu.RLock()
	defer c.mu.RUnlock()

	snapshot := model.Clock{CurrentTimeMs: c.currentMs}
	if c.hoverMs != nil {
		hover := *c.hoverMs
		snapshot.HoverTimeMs = &hover
	}
	return snapshot
}

func (c *Clock) IsPlaying() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.playing
}

// TogglePlay flips play/pause and returns the new state. Toggling play at
// the end of the replay restarts from the beginning.
func (c *Clock) TogglePlay() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.playing && c.currentMs >= c.endMs {
		c.currentMs = c.startMs
	}
	c.playing = !c.playing
	return c.playing
}

func (c *Clock) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.playing = false
}

// Advance moves the committed position forward by elapsed wall time while
// playing. Reaching the end pauses. Returns true if the position changed.
func (c *Clock) Advance(elapsed time.Duration) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.playing {
		return false
	}
	next := c.currentMs + elapsed.Milliseconds()
	if next >= c.endMs {
		next = c.endMs
		c.playing = false
	}
	changed := next != c.currentMs
	c.currentMs = next
	return changed
}

// SeekBy shifts the committed position, clamped to the replay range.
func (c *Clock) SeekBy(deltaMs int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.currentMs = c.clampLocked(c.currentMs + deltaMs)
}

// SeekTo jumps the committed position, clamped to the replay range.
func (c *Clock) SeekTo(ms int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.currentMs = c.clampLocked(ms)
}

// HoverBy moves the hover cursor by deltaMs. The first hover starts from
// the committed position.
func (c *Clock) HoverBy(deltaMs int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	base := c.currentMs
	if c.hoverMs != nil {
		base = *c.hoverMs
	}
	hover := c.clampLocked(base + deltaMs)
	c.hoverMs = &hover
}

// ClearHover drops the hover cursor without touching the committed position.
func (c *Clock) ClearHover() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hoverMs = nil
}

// CommitHover promotes the hover cursor to the committed position. Returns
// false when no hover is active.
func (c *Clock) CommitHover() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.hoverMs == nil {
		return false
	}
	c.currentMs = *c.hoverMs
	c.hoverMs = nil
	return true
}

func (c *Clock) CurrentMs() int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.currentMs
}

func (c *Clock) clampLocked(ms int64) int64 {
	if ms < c.startMs {
		return c.startMs
	}
	if ms > c.endMs {
		return c.endMs
	}
	return ms
}
