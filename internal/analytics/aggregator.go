// Package analytics accumulates per-run scan statistics from file events.
package analytics

import (
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/Adithya-Monish-Kumar-K/termhist/pkg/logger"
)

const topFiles = 10

type ScanStats struct {
	FilesScanned    int64       `json:"files_scanned" yaml:"files_scanned"`
	FilesSkipped    int64       `json:"files_skipped" yaml:"files_skipped"`
	TraversalErrors int64       `json:"traversal_errors" yaml:"traversal_errors"`
	TermsMatched    int64       `json:"terms_matched" yaml:"terms_matched"`
	BytesScanned    int64       `json:"bytes_scanned" yaml:"bytes_scanned"`
	ElapsedMs       int64       `json:"elapsed_ms" yaml:"elapsed_ms"`
	FilesPerSecond  float64     `json:"files_per_second" yaml:"files_per_second"`
	BusiestFiles    []FileCount `json:"busiest_files" yaml:"busiest_files"`
	SkippedPaths    []string    `json:"skipped_paths,omitempty" yaml:"skipped_paths,omitempty"`
}

type FileCount struct {
	Path    string `json:"path" yaml:"path"`
	Matches int64  `json:"matches" yaml:"matches"`
}

type Aggregator struct {
	mu              sync.RWMutex
	filesScanned    atomic.Int64
	filesSkipped    atomic.Int64
	traversalErrors atomic.Int64
	termsMatched    atomic.Int64
	bytesScanned    atomic.Int64
	matchCounts     map[string]int64
	skipped         []string
	startTime       time.Time

	logger *slog.Logger
}

func NewAggregator() *Aggregator {
	return &Aggregator{
		matchCounts: make(map[string]int64),
		startTime:   time.Now(),
		logger:      logger.WithComponent("scan-stats"),
	}
}

// Record folds one event into the running totals. Safe for concurrent use.
func (a *Aggregator) Record(event FileEvent) {
	switch event.Type {
	case EventFileScanned:
		a.filesScanned.Add(1)
		a.termsMatched.Add(int64(event.Matches))
		a.bytesScanned.Add(event.Bytes)
		a.mu.Lock()
		a.matchCounts[event.Path] += int64(event.Matches)
		a.mu.Unlock()
	case EventFileSkipped:
		a.filesSkipped.Add(1)
		a.mu.Lock()
		a.skipped = append(a.skipped, event.Path)
		a.mu.Unlock()
	case EventTraversalError:
		a.traversalErrors.Add(1)
	default:
		a.logger.Warn("unknown scan event", "type", event.Type, "path", event.Path)
	}
}

func (a *Aggregator) Stats() ScanStats {
	a.mu.RLock()
	defer a.mu.RUnlock()

	stats := ScanStats{
		FilesScanned:    a.filesScanned.Load(),
		FilesSkipped:    a.filesSkipped.Load(),
		TraversalErrors: a.traversalErrors.Load(),
		TermsMatched:    a.termsMatched.Load(),
		BytesScanned:    a.bytesScanned.Load(),
	}
	elapsed := time.Since(a.startTime)
	stats.ElapsedMs = elapsed.Milliseconds()
	if secs := elapsed.Seconds(); secs > 0 {
		stats.FilesPerSecond = float64(stats.FilesScanned) / secs
	}
	stats.BusiestFiles = topN(a.matchCounts, topFiles)
	if len(a.skipped) > 0 {
		stats.SkippedPaths = append([]string(nil), a.skipped...)
		sort.Strings(stats.SkippedPaths)
	}
	return stats
}

// LogSummary writes the end-of-run totals.
func (a *Aggregator) LogSummary(log *slog.Logger) {
	stats := a.Stats()
	log.Info("scan complete",
		"files_scanned", stats.FilesScanned,
		"files_skipped", stats.FilesSkipped,
		"traversal_errors", stats.TraversalErrors,
		"terms_matched", stats.TermsMatched,
		"bytes_scanned", humanize.Bytes(uint64(stats.BytesScanned)),
		"elapsed_ms", stats.ElapsedMs,
	)
}

func topN(counts map[string]int64, n int) []FileCount {
	result := make([]FileCount, 0, len(counts))
	for path, count := range counts {
		result = append(result, FileCount{Path: path, Matches: count})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Matches != result[j].Matches {
			return result[i].Matches > result[j].Matches
		}
		return result[i].Path < result[j].Path
	})
	if len(result) > n {
		result = result[:n]
	}
	return result
}
