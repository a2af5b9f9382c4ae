package parser

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/bytedance/sonic"

	"github.com/sam16vis/go-replay-inspector/internal/core/model"
	"github.com/sam16vis/go-replay-inspector/internal/util"
)

// Parser extracts network frames from replay segment files. Results are not
// memoized here: segment files change under the watcher, and the disk cache
// layer already decides when a stored parse is still trustworthy.
type Parser struct {
	concurrency int
}

// ParseResult represents the result of parsing a single segment file.
type ParseResult struct {
	File   string
	Frames []*model.Frame
	Events int // Total decoded events, network or not
	Error  error
}

// NewParser creates a new Parser instance.
func NewParser(concurrency int) *Parser {
	return &Parser{concurrency: concurrency}
}

// ParseSegment parses one segment file and returns its network frames plus
// the total event count. Exports come in two shapes: a single JSON array of
// events (.json) or one event per line (.jsonl). The first significant byte
// decides which decoder runs.
func (p *Parser) ParseSegment(path string) ([]*model.Frame, int, error) {
	util.LogDebug(fmt.Sprintf("Start parsing segment: %s", path))

	file, err := os.Open(path)
	if err != nil {
		util.LogDebug(fmt.Sprintf("Failed to open segment: %s - %v", path, err))
		return nil, 0, err
	}
	defer file.Close()

	reader := bufio.NewReaderSize(file, 64*1024)
	first, err := firstSignificantByte(reader)
	if err == io.EOF {
		return nil, 0, nil
	}
	if err != nil {
		return nil, 0, err
	}

	if first == '[' {
		return p.parseEventArray(path, reader)
	}
	return p.parseEventLines(path, reader)
}

// parseEventArray decodes a whole-file JSON array of events.
func (p *Parser) parseEventArray(path string, reader io.Reader) ([]*model.Frame, int, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, 0, err
	}

	var events []model.ReplayEvent
	if err := sonic.Unmarshal(data, &events); err != nil {
		util.LogDebug(fmt.Sprintf("Failed to decode event array: %s - %v", path, err))
		return nil, 0, err
	}

	var frames []*model.Frame
	for i := range events {
		if events[i].IsNetworkSpan() {
			frames = append(frames, events[i].Data.Payload.ToFrame())
		}
	}
	return frames, len(events), nil
}

// parseEventLines decodes one event per line, skipping lines that fail to
// parse so a truncated flush does not poison the rest of the segment.
func (p *Parser) parseEventLines(path string, reader io.Reader) ([]*model.Frame, int, error) {
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), 10*1024*1024)

	var frames []*model.Frame
	lineCount := 0
	eventCount := 0
	for scanner.Scan() {
		lineCount++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var event model.ReplayEvent
		if err := sonic.Unmarshal(line, &event); err != nil {
			util.LogDebug(fmt.Sprintf("Skip invalid JSON line %s:%d - %v", path, lineCount, err))
			continue
		}
		eventCount++
		if event.IsNetworkSpan() {
			frames = append(frames, event.Data.Payload.ToFrame())
		}
	}

	if err := scanner.Err(); err != nil {
		util.LogDebug(fmt.Sprintf("Error scanning segment: %s - %v", path, err))
		return nil, 0, err
	}
	return frames, eventCount, nil
}

// ParseSegments parses multiple segment files concurrently and returns a
// channel of ParseResult.
func (p *Parser) ParseSegments(files []string) <-chan ParseResult {
	start := time.Now()
	results := make(chan ParseResult, len(files))
	var wg sync.WaitGroup

	util.LogDebug(fmt.Sprintf("Start concurrent parsing of %d segments, concurrency: %d", len(files), p.concurrency))

	semaphore := make(chan struct{}, p.concurrency)

	for _, file := range files {
		wg.Add(1)
		go func(f string) {
			defer wg.Done()

			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			fileStart := time.Now()
			frames, events, err := p.ParseSegment(f)
			fileDuration := time.Since(fileStart)

			if err != nil {
				util.LogDebug(fmt.Sprintf("Segment parsing failed: %s, duration %v - %v", f, fileDuration, err))
			}

			results <- ParseResult{
				File:   f,
				Frames: frames,
				Events: events,
				Error:  err,
			}
		}(file)
	}

	go func() {
		wg.Wait()
		close(results)

		totalDuration := time.Since(start)
		util.LogDebug(fmt.Sprintf("Concurrent parsing finished, total duration: %v", totalDuration))
	}()

	return results
}

// firstSignificantByte skips leading whitespace and peeks the first byte that
// carries meaning, leaving it unread.
func firstSignificantByte(reader *bufio.Reader) (byte, error) {
	for {
		b, err := reader.ReadByte()
		if err != nil {
			return 0, err
		}
		switch b {
		case ' ', '\t', '\r', '\n':
			continue
		default:
			if err := reader.UnreadByte(); err != nil {
				return 0, err
			}
			return b, nil
		}
	}
}
