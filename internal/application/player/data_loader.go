package player

import (
	"fmt"
	"path/filepath"

	"github.com/sam16vis/go-replay-inspector/internal/core/cache"
	"github.com/sam16vis/go-replay-inspector/internal/core/model"
	"github.com/sam16vis/go-replay-inspector/internal/data/aggregator"
	datacache "github.com/sam16vis/go-replay-inspector/internal/data/cache"
	"github.com/sam16vis/go-replay-inspector/internal/data/parser"
	"github.com/sam16vis/go-replay-inspector/internal/data/scanner"
	"github.com/sam16vis/go-replay-inspector/internal/util"
)

// DataLoader handles all segment loading and caching operations
type DataLoader struct {
	config      *Config
	fileCache   datacache.Cache
	memoryCache *cache.MemoryCache
	scanner     *scanner.FileScanner
	parser      *parser.Parser
	replayName  string
}

// NewDataLoader creates a new DataLoader instance
func NewDataLoader(config *Config) (*DataLoader, error) {
	fileCache, err := datacache.NewFileCache(config.CacheDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create segment cache: %w", err)
	}

	return &DataLoader{
		config:      config,
		fileCache:   fileCache,
		memoryCache: cache.NewMemoryCache(),
		scanner:     scanner.NewFileScanner(config.DataDir),
		parser:      parser.NewParser(config.Concurrency),
		replayName:  replayName(config.DataDir),
	}, nil
}

// ReplayName returns the display name derived from the data directory.
func (dl *DataLoader) ReplayName() string {
	return dl.replayName
}

// Preload loads the parse cache and every segment currently on disk
func (dl *DataLoader) Preload() error {
	util.LogInfo("Preloading cache and replay segments...")

	// 1. Preload file cache to memory
	if err := dl.fileCache.Preload(); err != nil {
		util.LogWarn(fmt.Sprintf("Cache preload warning: %v", err))
	}

	// 2. Scan segment files
	files, err := dl.ScanSegments()
	if err != nil {
		return err
	}

	util.LogInfo(fmt.Sprintf("Found %d segment files to process", len(files)))

	// 3. Load data in parallel
	return dl.LoadSegments(files)
}

// ScanSegments returns every segment file under the data directory. Replay
// exports are small and bounded by the recording length, so there is no
// recency filtering the way an ever-growing log directory would need.
func (dl *DataLoader) ScanSegments() ([]string, error) {
	return dl.scanner.Scan()
}

// LoadSegments loads the given segment files through the validated cache,
// parsing only the ones whose cache entry is missing or stale.
func (dl *DataLoader) LoadSegments(files []string) error {
	if len(files) == 0 {
		return nil
	}

	// Batch validate cache
	keyByFile := make(map[string]string, len(files))
	keys := make([]string, 0, len(files))

	for _, file := range files {
		key := datacache.SegmentKey(file)
		keyByFile[file] = key
		keys = append(keys, key)
	}

	validCache := dl.fileCache.BatchValidate(keys)

	// Separate segments to parse and cache hits
	var toParse []string

	for _, file := range files {
		key := keyByFile[file]
		if validCache[key].Valid {
			// Load from cache
			if result := dl.fileCache.Get(key); result.Found && result.Data != nil {
				dl.memoryCache.Set(key, &cache.MemoryCacheEntry{
					SegmentData: result.Data,
				})
			}
		} else {
			toParse = append(toParse, file)
		}
	}

	// Parse segments that need processing
	if len(toParse) > 0 {
		util.LogInfo(fmt.Sprintf("Parsing %d segment files...", len(toParse)))
		dl.parseAndCacheSegments(toParse, keyByFile)
	}

	return nil
}

// parseAndCacheSegments parses segment files and updates both cache layers
func (dl *DataLoader) parseAndCacheSegments(files []string, keyByFile map[string]string) {
	parseResults := dl.parser.ParseSegments(files)

	for result := range parseResults {
		if result.Error != nil {
			util.LogWarn(fmt.Sprintf("Failed to parse %s: %v", result.File, result.Error))
			continue
		}

		// Segments without network frames are still cached so the next load
		// skips them on a cache hit instead of re-reading the file
		key := keyByFile[result.File]
		data := &aggregator.SegmentData{
			FilePath:   result.File,
			SegmentId:  aggregator.ExtractSegmentId(result.File),
			Frames:     result.Frames,
			EventCount: result.Events,
		}

		if err := dl.fileCache.Set(key, data); err != nil {
			util.LogWarn(fmt.Sprintf("Failed to cache %s: %v", result.File, err))
		}

		dl.memoryCache.Set(key, &cache.MemoryCacheEntry{
			SegmentData: data,
		})
	}
}

// BuildReplay merges every loaded segment into a single replay timeline.
func (dl *DataLoader) BuildReplay() *model.Replay {
	return dl.memoryCache.BuildReplay(dl.replayName)
}

// BeginReset stages a full reload: loaded segments keep serving reads while
// the next LoadSegments fills a shadow buffer.
func (dl *DataLoader) BeginReset() {
	dl.memoryCache.Clear()
}

// CommitReset swaps the shadow buffer in, dropping entries for segment files
// that no longer exist on disk.
func (dl *DataLoader) CommitReset() {
	dl.memoryCache.CommitClear()
}

// CancelReset abandons a staged reload after a scan or load failure.
func (dl *DataLoader) CancelReset() {
	dl.memoryCache.CancelClear()
}

// ClearFileCache deletes every persisted segment parse.
func (dl *DataLoader) ClearFileCache() error {
	return dl.fileCache.Clear()
}

// PersistDirtyEntries persists dirty memory cache entries to the file cache
func (dl *DataLoader) PersistDirtyEntries() error {
	dirtyEntries := dl.memoryCache.GetDirtyEntries()

	for key, data := range dirtyEntries {
		if err := dl.fileCache.Set(key, data); err != nil {
			util.LogError(fmt.Sprintf("Failed to persist cache entry %s: %v", key, err))
		}
	}

	return nil
}

// replayName derives a display name for the replay from its directory.
func replayName(dataDir string) string {
	abs, err := filepath.Abs(dataDir)
	if err != nil {
		return filepath.Base(dataDir)
	}
	return filepath.Base(abs)
}
