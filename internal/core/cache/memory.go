package cache

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/sam16vis/go-replay-inspector/internal/core/model"
	timelinepkg "github.com/sam16vis/go-replay-inspector/internal/core/timeline"
	"github.com/sam16vis/go-replay-inspector/internal/data/aggregator"
	"github.com/sam16vis/go-replay-inspector/internal/util"
)

// MemoryCacheEntry extends SegmentData with access time tracking
type MemoryCacheEntry struct {
	*aggregator.SegmentData
	LastAccessed int64
	IsDirty      bool // Marks if needs persistence
}

// MemoryCache holds parsed segments keyed by segment id. A reload writes new
// entries into a shadow buffer so the previous replay stays renderable until
// the swap commits.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]*MemoryCacheEntry

	// Double buffering support
	pendingClear    bool                         // Flag indicating cache is pending clear
	shadowEntries   map[string]*MemoryCacheEntry // Shadow buffer for atomic swap
	lastValidReplay *model.Replay                // Last non-empty replay for fallback
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries:       make(map[string]*MemoryCacheEntry),
		shadowEntries: nil,
		pendingClear:  false,
	}
}

func (mc *MemoryCache) Set(segmentId string, entry *MemoryCacheEntry) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	if entry != nil {
		entry.LastAccessed = time.Now().Unix()
		entry.IsDirty = true
	}

	// If pending clear, add to shadow buffer instead
	if mc.pendingClear && mc.shadowEntries != nil {
		mc.shadowEntries[segmentId] = entry
	} else {
		mc.entries[segmentId] = entry
	}
}

func (mc *MemoryCache) Get(segmentId string) (*MemoryCacheEntry, bool) {
	mc.mu.RLock()
	defer mc.mu.RUnlock()

	entry, ok := mc.entries[segmentId]
	if ok && entry != nil {
		entry.LastAccessed = time.Now().Unix()
	}
	return entry, ok
}

func (mc *MemoryCache) Size() int {
	mc.mu.RLock()
	defer mc.mu.RUnlock()
	return len(mc.entries)
}

// GetDirtyEntries returns entries written since the last persistence sweep
// and resets their dirty flag.
func (mc *MemoryCache) GetDirtyEntries() map[string]*aggregator.SegmentData {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	dirty := make(map[string]*aggregator.SegmentData)

	for id, entry := range mc.entries {
		if entry.IsDirty {
			dirty[id] = entry.SegmentData
			entry.IsDirty = false
		}
	}

	return dirty
}

func (mc *MemoryCache) Clear() {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	// Mark cache as pending clear instead of immediately clearing
	mc.pendingClear = true
	// Create shadow buffer for new data
	mc.shadowEntries = make(map[string]*MemoryCacheEntry)

	util.LogInfo("MemoryCache: Marked for pending clear, maintaining data until new data is ready")
}

// CommitClear performs the actual cache clear after new data is loaded
func (mc *MemoryCache) CommitClear() {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	if mc.pendingClear && mc.shadowEntries != nil {
		// Atomic swap: replace entries with shadow entries
		mc.entries = mc.shadowEntries
		mc.shadowEntries = nil
		mc.pendingClear = false
		util.LogInfo("MemoryCache: Committed clear with new data")
	}
}

// CancelClear cancels a pending clear operation
func (mc *MemoryCache) CancelClear() {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	mc.pendingClear = false
	mc.shadowEntries = nil
	util.LogInfo("MemoryCache: Cancelled pending clear")
}

// BuildReplay merges every cached segment into a single replay. When a reload
// races a file rewrite and produces nothing, the last non-empty replay is
// returned instead so the screen does not blank out.
func (mc *MemoryCache) BuildReplay(name string) *model.Replay {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	segments := make([]timelinepkg.SegmentFrames, 0, len(mc.entries))
	frameCount := 0
	for _, entry := range mc.entries {
		if entry == nil || entry.SegmentData == nil {
			continue
		}
		segments = append(segments, timelinepkg.SegmentFrames{
			Path:   entry.FilePath,
			Frames: entry.Frames,
		})
		frameCount += len(entry.Frames)
	}
	// Deterministic merge order so duplicate resolution is stable across reloads
	sort.Slice(segments, func(i, j int) bool {
		return segments[i].Path < segments[j].Path
	})

	replay := timelinepkg.NewBuilder(name).Build(segments)

	if !replay.IsEmpty() {
		mc.lastValidReplay = replay
	} else if mc.lastValidReplay != nil {
		util.LogWarn(fmt.Sprintf("BuildReplay: no frames from %d cached segments, using last valid replay with %d frames",
			len(segments), len(mc.lastValidReplay.Frames)))
		replay = mc.lastValidReplay
	}

	util.LogDebug(fmt.Sprintf("BuildReplay: segments=%d raw frames=%d merged=%d",
		len(segments), frameCount, len(replay.Frames)))

	return replay
}
