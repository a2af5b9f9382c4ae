package cache

import (
	"encoding/json"
	"fmt"
	"hash/crc32"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/sam16vis/go-replay-inspector/internal/core/constants"
	"github.com/sam16vis/go-replay-inspector/internal/data/aggregator"
	"github.com/sam16vis/go-replay-inspector/internal/util"
)

type CacheMissReason int

const (
	MissReasonNone CacheMissReason = iota
	MissReasonError
	MissReasonInode
	MissReasonSize
	MissReasonModTime
	MissReasonFingerprint
	MissReasonNoFingerprint
	MissReasonNotFound
)

func (r CacheMissReason) String() string {
	switch r {
	case MissReasonNone:
		return "none"
	case MissReasonError:
		return "error"
	case MissReasonInode:
		return "inode_changed"
	case MissReasonSize:
		return "size_changed"
	case MissReasonModTime:
		return "modtime_changed"
	case MissReasonFingerprint:
		return "fingerprint_mismatch"
	case MissReasonNoFingerprint:
		return "no_fingerprint"
	case MissReasonNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

type CacheResult struct {
	Data       *aggregator.SegmentData
	Found      bool
	MissReason CacheMissReason
}

type Cache interface {
	Get(key string) CacheResult
	Set(key string, data *aggregator.SegmentData) error
	Clear() error
	Preload() error
	BatchValidate(keys []string) map[string]BatchValidateResult
}

// FileCache stores segment parse results as JSON files under baseDir,
// fronted by an in-memory map. Every hit is revalidated against the source
// file before it is trusted.
type FileCache struct {
	baseDir     string
	mu          sync.RWMutex
	memoryCache map[string]*aggregator.SegmentData
}

func NewFileCache(baseDir string) (*FileCache, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, err
	}

	return &FileCache{
		baseDir:     baseDir,
		memoryCache: make(map[string]*aggregator.SegmentData),
	}, nil
}

// SegmentKey derives the cache key for a segment file path, e.g.
// "/replays/abc123/3.json" -> "abc123-3-1c291ca3". The path checksum keeps
// keys unique across replays that reuse segment numbering, while the prefix
// keeps cache filenames recognizable.
func SegmentKey(path string) string {
	sum := crc32.ChecksumIEEE([]byte(path))
	replay := aggregator.ExtractReplayName(path)
	segment := aggregator.ExtractSegmentId(path)
	if replay == "" {
		return fmt.Sprintf("%s-%08x", segment, sum)
	}
	return fmt.Sprintf("%s-%s-%08x", replay, segment, sum)
}

// Get returns the cached parse result for the key if the backing segment
// file is provably unchanged. Takes the write lock because lookups promote
// disk entries into memory and evict entries that fail validation.
func (c *FileCache) Get(key string) CacheResult {
	c.mu.Lock()
	defer c.mu.Unlock()

	// First, check memory cache
	if memData, exists := c.memoryCache[key]; exists {
		if ret := c.validateCachedData(memData); ret.cached {
			return CacheResult{Data: memData, Found: true, MissReason: MissReasonNone}
		}
		// Remove invalid entry from memory cache
		delete(c.memoryCache, key)
	}

	// Second, check file cache
	return c.getFromFile(key)
}

// getFromFile loads a cache file and promotes it into memory when valid.
// Caller must hold the write lock.
func (c *FileCache) getFromFile(key string) CacheResult {
	cachePath := filepath.Join(c.baseDir, key+".json")

	file, err := os.Open(cachePath)
	if err != nil {
		return CacheResult{Data: nil, Found: false, MissReason: MissReasonNotFound}
	}
	defer file.Close()

	var data aggregator.SegmentData
	if err := json.NewDecoder(file).Decode(&data); err != nil {
		return CacheResult{Data: nil, Found: false, MissReason: MissReasonError}
	}

	// Ensure SegmentId is set
	if data.SegmentId == "" && data.FilePath != "" {
		data.SegmentId = aggregator.ExtractSegmentId(data.FilePath)
	}

	if ret := c.validateCachedData(&data); !ret.cached {
		return CacheResult{Data: nil, Found: false, MissReason: ret.reason}
	}

	// Add valid data to memory cache for future access
	c.memoryCache[key] = &data

	return CacheResult{Data: &data, Found: true, MissReason: MissReasonNone}
}

type ValidateResult struct {
	cached bool
	reason CacheMissReason
}

// validateCachedData checks a stored parse against the current segment file:
// identity first (inode, size, modtime), then the content fingerprint for
// files modified recently enough that an editor or recorder might still be
// touching them.
func (c *FileCache) validateCachedData(data *aggregator.SegmentData) ValidateResult {
	currentInfo, err := util.GetFileInfo(data.FilePath)
	if err != nil {
		util.LogDebug(fmt.Sprintf("Cache validation failed for %s: unable to get file info: %v", data.FilePath, err))
		return ValidateResult{cached: false, reason: MissReasonError}
	}

	// Step 1: Check inode/modtime/size
	if currentInfo.Inode != data.Inode {
		util.LogDebug(fmt.Sprintf("Cache invalidated for %s: inode changed (cached: %d, current: %d)",
			data.FilePath, data.Inode, currentInfo.Inode))
		return ValidateResult{cached: false, reason: MissReasonInode}
	}
	if currentInfo.Size != data.FileSize {
		util.LogDebug(fmt.Sprintf("Cache invalidated for %s: size changed (cached: %d, current: %d)",
			data.FilePath, data.FileSize, currentInfo.Size))
		return ValidateResult{cached: false, reason: MissReasonSize}
	}
	if currentInfo.ModTime != data.LastModified {
		util.LogDebug(fmt.Sprintf("Cache invalidated for %s: modtime changed (cached: %d, current: %d)",
			data.FilePath, data.LastModified, currentInfo.ModTime))
		return ValidateResult{cached: false, reason: MissReasonModTime}
	}

	// Step 2: Old segments no longer change, skip the fingerprint read
	modTime := time.Unix(currentInfo.ModTime, 0)
	if time.Since(modTime) > constants.CacheMaxAge {
		return ValidateResult{cached: true, reason: MissReasonNone}
	}

	// Step 3: Check content fingerprint
	if data.ContentFingerprint == "" {
		util.LogDebug(fmt.Sprintf("Cache invalidated for %s: no fingerprint in cached data", data.FilePath))
		return ValidateResult{cached: false, reason: MissReasonNoFingerprint}
	}

	fingerprint, err := util.CalculateFileFingerprint(data.FilePath)
	if err != nil {
		util.LogDebug(fmt.Sprintf("Cache invalidated for %s: unable to calculate fingerprint: %v", data.FilePath, err))
		return ValidateResult{cached: false, reason: MissReasonNoFingerprint}
	}

	if fingerprint == data.ContentFingerprint {
		return ValidateResult{cached: true, reason: MissReasonNone}
	}
	util.LogDebug(fmt.Sprintf("Cache invalidated for %s: fingerprint mismatch (cached: %s, current: %s)",
		data.FilePath, data.ContentFingerprint, fingerprint))
	return ValidateResult{cached: false, reason: MissReasonFingerprint}
}

// Set stamps the current file identity onto data and persists it under the
// key, so a later Get can prove the segment is unchanged.
func (c *FileCache) Set(key string, data *aggregator.SegmentData) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	fileInfo, err := util.GetFileInfo(data.FilePath)
	if err != nil {
		return err
	}

	data.LastModified = fileInfo.ModTime
	data.FileSize = fileInfo.Size
	data.Inode = fileInfo.Inode

	// Calculate content fingerprint
	fingerprint, err := util.CalculateFileFingerprint(data.FilePath)
	if err == nil {
		data.ContentFingerprint = fingerprint
	}

	if data.SegmentId == "" {
		data.SegmentId = aggregator.ExtractSegmentId(data.FilePath)
	}
	if data.FileHash == "" {
		data.FileHash = key
	}

	// Write to file cache first
	cachePath := filepath.Join(c.baseDir, key+".json")
	file, err := os.Create(cachePath)
	if err != nil {
		return err
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return err
	}

	// Update memory cache atomically
	c.memoryCache[key] = data

	return nil
}

func (c *FileCache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Clear memory cache
	c.memoryCache = make(map[string]*aggregator.SegmentData)

	// Clear file cache
	return filepath.Walk(c.baseDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if !info.IsDir() && filepath.Ext(path) == ".json" {
			os.Remove(path)
		}

		return nil
	})
}

// Preload loads every cache file into memory with a worker pool, dropping
// entries whose segments have changed since they were written.
func (c *FileCache) Preload() error {
	util.LogInfo("Start preloading cache files into memory...")

	var cacheFiles []string
	err := filepath.Walk(c.baseDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && strings.HasSuffix(strings.ToLower(path), ".json") {
			cacheFiles = append(cacheFiles, path)
		}
		return nil
	})

	if err != nil {
		return fmt.Errorf("failed to scan cache directory: %w", err)
	}

	if len(cacheFiles) == 0 {
		util.LogInfo("Cache directory is empty, skipping preload")
		return nil
	}

	util.LogInfo(fmt.Sprintf("Found %d cache files, starting concurrent loading...", len(cacheFiles)))

	numWorkers := runtime.NumCPU()
	if numWorkers > len(cacheFiles) {
		numWorkers = len(cacheFiles)
	}

	filesChan := make(chan string, len(cacheFiles))
	resultsChan := make(chan preloadResult, len(cacheFiles))

	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go c.preloadWorker(filesChan, resultsChan, &wg)
	}

	for _, file := range cacheFiles {
		filesChan <- file
	}
	close(filesChan)

	go func() {
		wg.Wait()
		close(resultsChan)
	}()

	loaded := 0
	invalid := 0
	errors := 0
	processed := 0
	total := len(cacheFiles)

	c.mu.Lock()
	for result := range resultsChan {
		processed++

		if result.err != nil {
			errors++
			util.LogWarn(fmt.Sprintf("Failed to preload cache file %s: %v", result.filePath, result.err))
		} else if result.data != nil && c.validateCachedData(result.data).cached {
			c.memoryCache[result.key] = result.data
			loaded++
		} else {
			invalid++
		}

		if processed%100 == 0 || processed == total {
			util.LogDebug(fmt.Sprintf("Preload progress: %d/%d (%.1f%%) - Success:%d Invalid:%d Errors:%d",
				processed, total, float64(processed)/float64(total)*100, loaded, invalid, errors))
		}
	}
	c.mu.Unlock()

	util.LogInfo(fmt.Sprintf("Cache preload complete: %d loaded, %d invalid, %d errors (total %d)",
		loaded, invalid, errors, total))

	return nil
}

type preloadResult struct {
	filePath string
	key      string
	data     *aggregator.SegmentData
	err      error
}

func (c *FileCache) preloadWorker(filesChan <-chan string, resultsChan chan<- preloadResult, wg *sync.WaitGroup) {
	defer wg.Done()

	for filePath := range filesChan {
		result := preloadResult{filePath: filePath}

		fileName := filepath.Base(filePath)
		if strings.HasSuffix(fileName, ".json") {
			result.key = strings.TrimSuffix(fileName, ".json")
		} else {
			result.err = fmt.Errorf("invalid cache file name format")
			resultsChan <- result
			continue
		}

		file, err := os.Open(filePath)
		if err != nil {
			result.err = err
			resultsChan <- result
			continue
		}

		var data aggregator.SegmentData
		err = json.NewDecoder(file).Decode(&data)
		file.Close()

		if err != nil {
			result.err = err
			resultsChan <- result
			continue
		}

		if data.SegmentId == "" && data.FilePath != "" {
			data.SegmentId = aggregator.ExtractSegmentId(data.FilePath)
		}

		result.data = &data
		resultsChan <- result
	}
}

func (c *FileCache) GetCacheStats() (memoryCount, fileCount int) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	memoryCount = len(c.memoryCache)

	filepath.Walk(c.baseDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && strings.HasSuffix(strings.ToLower(path), ".json") {
			fileCount++
		}
		return nil
	})

	return memoryCount, fileCount
}

type BatchValidateResult struct {
	Valid      bool
	MissReason CacheMissReason
}

// BatchValidate checks which keys hold a still-valid parse, reporting why
// each invalid one missed. Used at load time to decide what needs reparsing.
func (c *FileCache) BatchValidate(keys []string) map[string]BatchValidateResult {
	c.mu.Lock()
	defer c.mu.Unlock()

	result := make(map[string]BatchValidateResult, len(keys))

	for _, key := range keys {
		result[key] = BatchValidateResult{Valid: false, MissReason: MissReasonNotFound}
	}

	for _, key := range keys {
		if memData, exists := c.memoryCache[key]; exists {
			validateResult := c.validateCachedData(memData)
			result[key] = BatchValidateResult{
				Valid:      validateResult.cached,
				MissReason: validateResult.reason,
			}
		} else {
			cacheResult := c.getFromFile(key)
			result[key] = BatchValidateResult{
				Valid:      cacheResult.Found,
				MissReason: cacheResult.MissReason,
			}
		}
	}

	validCount := 0
	for _, r := range result {
		if r.Valid {
			validCount++
		}
	}

	util.LogDebug(fmt.Sprintf("Batch validation complete: %d segments, %d valid",
		len(keys), validCount))

	return result
}
