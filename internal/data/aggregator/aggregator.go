package aggregator

import (
	"sort"
	"time"

	"github.com/sam16vis/go-replay-inspector/internal/core/constants"
	"github.com/sam16vis/go-replay-inspector/internal/core/model"
	"github.com/sam16vis/go-replay-inspector/internal/util"
)

// Number of entries kept in the slowest/largest leaderboards.
const topRequests = 5

// Aggregator computes request statistics over a replay's frames.
type Aggregator struct {
	phaseGap time.Duration
}

// NewAggregator creates an Aggregator with the default phase gap.
func NewAggregator() *Aggregator {
	return &Aggregator{phaseGap: constants.PhaseGap}
}

// HostStats holds per-host request statistics.
type HostStats struct {
	Host          string `json:"host"`
	Count         int    `json:"count"`
	ErrorCount    int    `json:"errorCount"` // Responses with status >= 400
	RespBytes     int64  `json:"respBytes"`
	AvgDurationMs int64  `json:"avgDurationMs"`

	totalDurationMs int64
}

// StatusClassStats counts requests per status class ("2xx", "4xx", "none", ...).
type StatusClassStats struct {
	Class string `json:"class"`
	Count int    `json:"count"`
}

// Phase is a burst of network activity. A new phase starts whenever the
// replay goes idle for longer than the phase gap.
type Phase struct {
	StartMs int64 `json:"startMs"`
	EndMs   int64 `json:"endMs"`
	Count   int   `json:"count"`
}

// RequestStats is the aggregation result for a replay.
type RequestStats struct {
	RequestCount    int   `json:"requestCount"`
	NavigationCount int   `json:"navigationCount"`
	FailureCount    int   `json:"failureCount"`    // Responses with status >= 400
	UncapturedCount int   `json:"uncapturedCount"` // Frames without a recorded status
	StartMs         int64 `json:"startMs"`
	EndMs           int64 `json:"endMs"`
	TotalDurationMs int64 `json:"totalDurationMs"`
	AvgDurationMs   int64 `json:"avgDurationMs"`
	MaxDurationMs   int64 `json:"maxDurationMs"`
	ReqBytes        int64 `json:"reqBytes"`
	RespBytes       int64 `json:"respBytes"`

	Hosts         []HostStats        `json:"hosts"`
	StatusClasses []StatusClassStats `json:"statusClasses"`
	Phases        []Phase            `json:"phases"`
	Slowest       []*model.Frame     `json:"slowest"`
	Largest       []*model.Frame     `json:"largest"`
}

// Aggregate computes statistics for the given frames. Frames must be ordered
// by start time, which the timeline builder guarantees.
func (a *Aggregator) Aggregate(frames []*model.Frame) *RequestStats {
	stats := &RequestStats{
		RequestCount: len(frames),
	}
	if len(frames) == 0 {
		return stats
	}

	stats.StartMs = frames[0].StartMs
	stats.EndMs = frames[0].EndMs

	hostMap := make(map[string]*HostStats)
	classMap := make(map[string]int)

	for _, f := range frames {
		if f.StartMs < stats.StartMs {
			stats.StartMs = f.StartMs
		}
		if f.EndMs > stats.EndMs {
			stats.EndMs = f.EndMs
		}
		if f.IsNavigation() {
			stats.NavigationCount++
		}

		duration := f.DurationMs()
		stats.TotalDurationMs += duration
		if duration > stats.MaxDurationMs {
			stats.MaxDurationMs = duration
		}
		if f.ReqSize != nil {
			stats.ReqBytes += *f.ReqSize
		}
		if f.RespSize != nil {
			stats.RespBytes += *f.RespSize
		}

		failed := f.StatusCode != nil && *f.StatusCode >= 400
		if failed {
			stats.FailureCount++
		}
		if f.StatusCode == nil {
			stats.UncapturedCount++
		}
		classMap[util.StatusClass(f.StatusCode)]++

		host := util.HostOf(f.URL)
		if host == "" {
			host = "(relative)"
		}
		hs, ok := hostMap[host]
		if !ok {
			hs = &HostStats{Host: host}
			hostMap[host] = hs
		}
		hs.Count++
		hs.totalDurationMs += duration
		if failed {
			hs.ErrorCount++
		}
		if f.RespSize != nil {
			hs.RespBytes += *f.RespSize
		}
	}

	stats.AvgDurationMs = stats.TotalDurationMs / int64(len(frames))
	stats.Hosts = sortedHosts(hostMap)
	stats.StatusClasses = sortedClasses(classMap)
	stats.Phases = a.splitPhases(frames)
	stats.Slowest = topBy(frames, func(a, b *model.Frame) bool {
		return a.DurationMs() > b.DurationMs()
	})
	stats.Largest = topBy(frames, func(a, b *model.Frame) bool {
		var sa, sb int64
		if a.RespSize != nil {
			sa = *a.RespSize
		}
		if b.RespSize != nil {
			sb = *b.RespSize
		}
		return sa > sb
	})
	return stats
}

// splitPhases walks the ordered frames and starts a new phase whenever the
// gap between one frame's end and the next frame's start exceeds phaseGap.
func (a *Aggregator) splitPhases(frames []*model.Frame) []Phase {
	if len(frames) == 0 {
		return nil
	}
	gapMs := a.phaseGap.Milliseconds()

	phases := []Phase{{StartMs: frames[0].StartMs, EndMs: frames[0].EndMs, Count: 1}}
	for _, f := range frames[1:] {
		current := &phases[len(phases)-1]
		if f.StartMs-current.EndMs > gapMs {
			phases = append(phases, Phase{StartMs: f.StartMs, EndMs: f.EndMs, Count: 1})
			continue
		}
		current.Count++
		if f.EndMs > current.EndMs {
			current.EndMs = f.EndMs
		}
	}
	return phases
}

func sortedHosts(hostMap map[string]*HostStats) []HostStats {
	hosts := make([]HostStats, 0, len(hostMap))
	for _, hs := range hostMap {
		if hs.Count > 0 {
			hs.AvgDurationMs = hs.totalDurationMs / int64(hs.Count)
		}
		hosts = append(hosts, *hs)
	}
	sort.Slice(hosts, func(i, j int) bool {
		if hosts[i].Count != hosts[j].Count {
			return hosts[i].Count > hosts[j].Count
		}
		return hosts[i].Host < hosts[j].Host
	})
	return hosts
}

func sortedClasses(classMap map[string]int) []StatusClassStats {
	classes := make([]StatusClassStats, 0, len(classMap))
	for class, count := range classMap {
		classes = append(classes, StatusClassStats{Class: class, Count: count})
	}
	sort.Slice(classes, func(i, j int) bool {
		return classes[i].Class < classes[j].Class
	})
	return classes
}

// topBy returns up to topRequests frames ranked by the given ordering.
// Ties keep the earlier frame first.
func topBy(frames []*model.Frame, less func(a, b *model.Frame) bool) []*model.Frame {
	ranked := make([]*model.Frame, len(frames))
	copy(ranked, frames)
	sort.SliceStable(ranked, func(i, j int) bool {
		return less(ranked[i], ranked[j])
	})
	if len(ranked) > topRequests {
		ranked = ranked[:topRequests]
	}
	return ranked
}
