package analyzer

import (
	"fmt"
	"path/filepath"
	"regexp"
	"runtime"
	"sort"
	"strconv"
	"time"

	"github.com/sam16vis/go-replay-inspector/internal/core/model"
	"github.com/sam16vis/go-replay-inspector/internal/core/timeline"
	"github.com/sam16vis/go-replay-inspector/internal/data/aggregator"
	"github.com/sam16vis/go-replay-inspector/internal/data/cache"
	"github.com/sam16vis/go-replay-inspector/internal/data/parser"
	"github.com/sam16vis/go-replay-inspector/internal/data/scanner"
	"github.com/sam16vis/go-replay-inspector/internal/presentation/formatter"
	"github.com/sam16vis/go-replay-inspector/internal/util"
)

type Config struct {
	DataDir      string
	CacheDir     string
	OutputFormat string
	Duration     string
	GroupBy      string
	Limit        int
	Concurrency  int
}

// Analyzer runs the non-interactive report pipeline: load every segment of
// a replay (from cache where possible), merge them into one timeline, and
// print grouped request statistics.
type Analyzer struct {
	config     *Config
	cache      cache.Cache
	scanner    *scanner.FileScanner
	parser     *parser.Parser
	aggregator *aggregator.Aggregator
}

func New(config *Config) (*Analyzer, error) {
	if config.Concurrency == 0 {
		config.Concurrency = runtime.NumCPU()
	}

	fileCache, err := cache.NewFileCache(config.CacheDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache dir %s: %w", config.CacheDir, err)
	}

	return &Analyzer{
		config:     config,
		cache:      fileCache,
		scanner:    scanner.NewFileScanner(config.DataDir),
		parser:     parser.NewParser(config.Concurrency),
		aggregator: aggregator.NewAggregator(),
	}, nil
}

// ClearCache drops every cached parse result.
func (a *Analyzer) ClearCache() error {
	return a.cache.Clear()
}

func (a *Analyzer) Run() error {
	startTime := time.Now()
	util.LogInfo("Starting replay network analysis...")

	// Phase 1: Preload cache into memory
	preloadStart := time.Now()
	if err := a.cache.Preload(); err != nil {
		util.LogWarn(fmt.Sprintf("Cache preload failed: %v", err))
	}
	preloadDuration := time.Since(preloadStart)
	util.LogDebug(fmt.Sprintf("Phase 1 - Cache preload duration: %v", preloadDuration))

	// Phase 2: Scan segment files
	scanStart := time.Now()
	files, err := a.scanner.Scan()
	if err != nil {
		return fmt.Errorf("failed to scan segment files: %w", err)
	}
	scanDuration := time.Since(scanStart)
	util.LogDebug(fmt.Sprintf("Phase 2 - Segment scan duration: %v, found %d files", scanDuration, len(files)))

	if len(files) == 0 {
		return fmt.Errorf("no replay segment files found in %s", a.config.DataDir)
	}

	util.LogInfo(fmt.Sprintf("Found %d segment files", len(files)))

	// Phase 3: Batch validate cache and parse what it cannot serve
	parseStart := time.Now()
	stats := NewCacheStats()
	segments := make([]timeline.SegmentFrames, 0, len(files))

	keyByFile := make(map[string]string, len(files))
	keys := make([]string, 0, len(files))
	for _, file := range files {
		key := cache.SegmentKey(file)
		keyByFile[file] = key
		keys = append(keys, key)
	}

	batchStart := time.Now()
	validCache := a.cache.BatchValidate(keys)
	batchDuration := time.Since(batchStart)
	util.LogDebug(fmt.Sprintf("Batch cache validation duration: %v", batchDuration))

	// Separate segments to parse from segments the cache can serve
	var filesToParse []string
	var cachedFiles []string
	fileMissReasons := make(map[string]cache.CacheMissReason)

	for _, file := range files {
		validateResult := validCache[keyByFile[file]]
		if validateResult.Valid {
			cachedFiles = append(cachedFiles, file)
		} else {
			filesToParse = append(filesToParse, file)
			fileMissReasons[file] = validateResult.MissReason
		}
	}

	util.LogDebug(fmt.Sprintf("Cache hit for %d segments, need to parse %d segments",
		len(cachedFiles), len(filesToParse)))

	// Serve validated segments from the cache
	cacheStart := time.Now()
	for _, file := range cachedFiles {
		cacheResult := a.cache.Get(keyByFile[file])
		if cacheResult.Found && cacheResult.Data != nil {
			stats.IncrementHit()
			segments = append(segments, timeline.SegmentFrames{Path: file, Frames: cacheResult.Data.Frames})
		}
		stats.IncrementTotal()
	}
	cacheProcessDuration := time.Since(cacheStart)
	util.LogDebug(fmt.Sprintf("Cache data processing duration: %v", cacheProcessDuration))

	// Concurrently parse segments the cache could not serve
	if len(filesToParse) > 0 {
		parseFileStart := time.Now()
		parseResults := a.parser.ParseSegments(filesToParse)

		processed := int64(len(cachedFiles))

		for result := range parseResults {
			stats.IncrementTotal()
			processed++

			if result.Error != nil {
				stats.IncrementFailure()
				util.LogWarn(fmt.Sprintf("Failed to parse segment %s: %v", result.File, result.Error))
				continue
			}

			stats.IncrementMiss(result.File, fileMissReasons[result.File])

			data := &aggregator.SegmentData{
				FilePath:   result.File,
				SegmentId:  aggregator.ExtractSegmentId(result.File),
				Frames:     result.Frames,
				EventCount: result.Events,
			}
			if err := a.cache.Set(keyByFile[result.File], data); err != nil {
				util.LogWarn(fmt.Sprintf("Failed to save cache for %s: %v", result.File, err))
			}

			segments = append(segments, timeline.SegmentFrames{Path: result.File, Frames: result.Frames})

			if processed%100 == 0 {
				stats.PrintProgress(processed)
				stats.PrintPeriodicStats()
			}
		}

		parseFilesDuration := time.Since(parseFileStart)
		util.LogDebug(fmt.Sprintf("Segment parsing duration: %v", parseFilesDuration))
	}

	parseDuration := time.Since(parseStart)
	util.LogDebug(fmt.Sprintf("Phase 3 - Segment parsing and processing duration: %v, segments loaded: %d",
		parseDuration, len(segments)))

	// Print final cache statistics
	stats.PrintPeriodicStats()
	stats.PrintFinalStats()

	// Phase 4: Merge segments into one timeline
	mergeStart := time.Now()
	replay := timeline.NewBuilder(replayName(a.config.DataDir)).Build(segments)
	mergeDuration := time.Since(mergeStart)
	util.LogDebug(fmt.Sprintf("Phase 4 - Timeline merge duration: %v, frames: %d", mergeDuration, len(replay.Frames)))

	if replay.IsEmpty() {
		return fmt.Errorf("no network requests found in replay data")
	}

	// Phase 5: Filter by trailing window
	filterStart := time.Now()
	frames := a.filterByWindow(replay.Frames, replay.EndMs)
	filterDuration := time.Since(filterStart)
	util.LogDebug(fmt.Sprintf("Phase 5 - Window filtering duration: %v, frames after filtering: %d",
		filterDuration, len(frames)))

	if len(frames) == 0 {
		return fmt.Errorf("no requests within the last %s of the replay", a.config.Duration)
	}

	// Phase 6: Group and rank
	groupStart := time.Now()
	report := a.buildReport(replay, frames)
	groupDuration := time.Since(groupStart)
	util.LogDebug(fmt.Sprintf("Phase 6 - Grouping duration: %v, groups: %d", groupDuration, len(report.Rows)))

	// Phase 7: Format and output
	outputStart := time.Now()
	err = a.formatAndOutput(report)
	outputDuration := time.Since(outputStart)
	util.LogDebug(fmt.Sprintf("Phase 7 - Formatting and output duration: %v", outputDuration))

	totalDuration := time.Since(startTime)
	util.LogDebug(fmt.Sprintf("Total duration: %v (preload:%v scan:%v parse:%v merge:%v filter:%v group:%v output:%v)",
		totalDuration, preloadDuration, scanDuration, parseDuration,
		mergeDuration, filterDuration, groupDuration, outputDuration))

	return err
}

// replayName derives the replay's display name from the data directory.
func replayName(dataDir string) string {
	abs, err := filepath.Abs(dataDir)
	if err != nil {
		return filepath.Base(dataDir)
	}
	return filepath.Base(abs)
}

// filterByWindow keeps the frames that start within the trailing window of
// the replay. Durations are replay-relative: "--duration 5m" means the last
// five minutes of recorded activity, not of wall-clock time.
func (a *Analyzer) filterByWindow(frames []*model.Frame, endMs int64) []*model.Frame {
	if a.config.Duration == "" {
		return frames
	}

	window, err := parseDuration(a.config.Duration)
	if err != nil {
		util.LogError(fmt.Sprintf("Failed to parse duration: %v", err))
		return frames
	}

	fromMs := endMs - window.Milliseconds()
	var filtered []*model.Frame
	for _, f := range frames {
		if f.StartMs >= fromMs {
			filtered = append(filtered, f)
		}
	}
	return filtered
}

func (a *Analyzer) buildReport(replay *model.Replay, frames []*model.Frame) *formatter.Report {
	stats := a.aggregator.Aggregate(frames)

	return &formatter.Report{
		Replay:   replay.Name,
		Segments: len(replay.Segments),
		StartMs:  stats.StartMs,
		EndMs:    stats.EndMs,
		GroupBy:  a.config.GroupBy,
		Rows:     a.groupFrames(frames),
		Summary: formatter.Summary{
			Requests:    stats.RequestCount,
			Navigations: stats.NavigationCount,
			Failures:    stats.FailureCount,
			Uncaptured:  stats.UncapturedCount,
			ReqBytes:    stats.ReqBytes,
			RespBytes:   stats.RespBytes,
			AvgMs:       stats.AvgDurationMs,
			MaxMs:       stats.MaxDurationMs,
			DurationMs:  stats.EndMs - stats.StartMs,
			Phases:      len(stats.Phases),
		},
		Slowest: requestLines(stats.Slowest),
		Largest: requestLines(stats.Largest),
	}
}

// groupFrames buckets the frames by the configured dimension and ranks the
// buckets by request count.
func (a *Analyzer) groupFrames(frames []*model.Frame) []formatter.GroupRow {
	type groupAccum struct {
		row     formatter.GroupRow
		totalMs int64
	}
	groups := make(map[string]*groupAccum)

	for _, f := range frames {
		key := a.groupKey(f)
		g, ok := groups[key]
		if !ok {
			g = &groupAccum{row: formatter.GroupRow{Key: key}}
			groups[key] = g
		}

		g.row.Requests++
		if f.StatusCode != nil && *f.StatusCode >= 400 {
			g.row.Failures++
		}
		if f.ReqSize != nil {
			g.row.ReqBytes += *f.ReqSize
		}
		if f.RespSize != nil {
			g.row.RespBytes += *f.RespSize
		}
		duration := f.DurationMs()
		g.totalMs += duration
		if duration > g.row.MaxMs {
			g.row.MaxMs = duration
		}
	}

	rows := make([]formatter.GroupRow, 0, len(groups))
	for _, g := range groups {
		g.row.AvgMs = g.totalMs / int64(g.row.Requests)
		rows = append(rows, g.row)
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Requests != rows[j].Requests {
			return rows[i].Requests > rows[j].Requests
		}
		return rows[i].Key < rows[j].Key
	})

	if a.config.Limit > 0 && len(rows) > a.config.Limit {
		util.LogDebug(fmt.Sprintf("Applying result limit: %d -> %d", len(rows), a.config.Limit))
		rows = rows[:a.config.Limit]
	}

	return rows
}

// groupKey buckets a frame for the configured group-by dimension.
func (a *Analyzer) groupKey(f *model.Frame) string {
	switch a.config.GroupBy {
	case "method":
		if f.Method == "" {
			return "-"
		}
		return f.Method
	case "status":
		return util.StatusClass(f.StatusCode)
	case "op":
		return f.OpKind()
	default:
		host := util.HostOf(f.URL)
		if host == "" {
			return "(relative)"
		}
		return host
	}
}

func requestLines(frames []*model.Frame) []formatter.RequestLine {
	lines := make([]formatter.RequestLine, 0, len(frames))
	for _, f := range frames {
		status := "-"
		if f.StatusCode != nil {
			status = strconv.Itoa(*f.StatusCode)
		}
		var respBytes int64
		if f.RespSize != nil {
			respBytes = *f.RespSize
		}
		lines = append(lines, formatter.RequestLine{
			Method:     f.Method,
			URL:        f.URL,
			Status:     status,
			DurationMs: f.DurationMs(),
			RespBytes:  respBytes,
		})
	}
	return lines
}

func (a *Analyzer) formatAndOutput(report *formatter.Report) error {
	switch a.config.OutputFormat {
	case "json":
		return formatter.NewJSONFormatter().Format(report)
	case "csv":
		return formatter.NewCSVFormatter().Format(report)
	case "summary":
		return formatter.NewSummaryFormatter().Format(report)
	default:
		return formatter.NewTableFormatter().Format(report)
	}
}

// parseDuration reads a trailing-window length like "90s", "5m", "1h30m"
// or "2d". Units are seconds, minutes, hours and days.
func parseDuration(durationStr string) (time.Duration, error) {
	re := regexp.MustCompile(`(\d+)([smhd])`)
	matches := re.FindAllStringSubmatch(durationStr, -1)

	if len(matches) == 0 {
		return 0, fmt.Errorf("invalid duration format: %s", durationStr)
	}

	var total time.Duration

	for _, match := range matches {
		value, err := strconv.Atoi(match[1])
		if err != nil {
			return 0, fmt.Errorf("invalid number in duration: %s", match[1])
		}

		switch match[2] {
		case "s":
			total += time.Duration(value) * time.Second
		case "m":
			total += time.Duration(value) * time.Minute
		case "h":
			total += time.Duration(value) * time.Hour
		case "d":
			total += time.Duration(value) * 24 * time.Hour
		default:
			return 0, fmt.Errorf("unsupported time unit: %s", match[2])
		}
	}

	return total, nil
}
