package indexer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Adithya-Monish-Kumar-K/termhist/internal/analytics"
	"github.com/Adithya-Monish-Kumar-K/termhist/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/termhist/internal/indexer/tokenizer"
	"github.com/Adithya-Monish-Kumar-K/termhist/internal/indexer/walker"
	"github.com/Adithya-Monish-Kumar-K/termhist/pkg/config"
	apperrors "github.com/Adithya-Monish-Kumar-K/termhist/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/termhist/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/termhist/pkg/metrics"
)

// Engine drives one scan: it walks the roots, scans every file on a bounded
// worker pool and records the results into a SessionStore.
type Engine struct {
	cfg     config.ScanConfig
	matcher *tokenizer.Matcher
	metrics *metrics.Metrics
	stats   *analytics.Aggregator
	logger  *slog.Logger
}

func NewEngine(cfg config.ScanConfig, matcher *tokenizer.Matcher, m *metrics.Metrics, stats *analytics.Aggregator) *Engine {
	if cfg.Threads < 1 {
		cfg.Threads = 1
	}
	return &Engine{
		cfg:     cfg,
		matcher: matcher,
		metrics: m,
		stats:   stats,
		logger:  logger.WithComponent("indexer-engine"),
	}
}

// Run scans every root and returns the populated store once all workers
// have finished. Per-file and per-path failures are logged and skipped; only
// cancellation of ctx makes Run fail.
func (e *Engine) Run(ctx context.Context) (*index.SessionStore, error) {
	store := index.NewSessionStore(e.cfg.Roots)
	recorder := timedRecorder{store: store, observe: e.metrics.RecordDuration.Observe}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.Threads)

	w := walker.New(walker.Options{Hidden: e.cfg.Hidden, NoIgnore: e.cfg.NoIgnore})
	e.logger.Debug("scan starting", "roots", e.cfg.Roots, "threads", e.cfg.Threads)
	walkErr := w.Walk(gctx, e.cfg.Roots,
		func(path string) error {
			g.Go(func() error {
				e.scanFile(gctx, path, recorder)
				return nil
			})
			return nil
		},
		e.traversalError,
	)
	if err := g.Wait(); err != nil && walkErr == nil {
		walkErr = err
	}
	if walkErr != nil {
		return nil, fmt.Errorf("scanning roots: %w", walkErr)
	}

	e.metrics.DirectoriesTracked.Set(float64(store.Directories()))
	e.metrics.InternedTerms.Set(float64(index.Interned()))
	e.logger.Debug("scan finished",
		"entries", len(store.Entries()),
		"directories", store.Directories(),
		"interned_terms", index.Interned(),
	)
	return store, nil
}

func (e *Engine) scanFile(ctx context.Context, path string, recorder Recorder) {
	collector := NewCollector(path, recorder)
	n, err := e.matcher.SearchFile(ctx, path, collector)
	if err != nil {
		reason := metrics.SkipCollector
		switch {
		case errors.Is(err, apperrors.ErrUnreadable):
			reason = metrics.SkipUnreadable
		case errors.Is(err, apperrors.ErrMatchTimeout):
			reason = metrics.SkipTimeout
		}
		e.logger.Warn("skipping file", "path", path, "reason", reason, "error", err)
		e.metrics.FilesSkippedTotal.WithLabelValues(reason).Inc()
		e.stats.Record(analytics.FileEvent{
			Type:      analytics.EventFileSkipped,
			Path:      path,
			Err:       err.Error(),
			Timestamp: time.Now(),
		})
		return
	}

	e.metrics.FilesScannedTotal.Inc()
	e.metrics.TermsMatchedTotal.Add(float64(collector.Matches()))
	e.metrics.BytesScannedTotal.Add(float64(n))
	e.stats.Record(analytics.FileEvent{
		Type:      analytics.EventFileScanned,
		Path:      path,
		Bytes:     n,
		Matches:   collector.Matches(),
		Distinct:  collector.Distinct(),
		Timestamp: time.Now(),
	})
}

func (e *Engine) traversalError(path string, err error) {
	e.logger.Warn("traversal error", "path", path, "error", err)
	e.metrics.TraversalErrorsTotal.Inc()
	e.stats.Record(analytics.FileEvent{
		Type:      analytics.EventTraversalError,
		Path:      path,
		Err:       err.Error(),
		Timestamp: time.Now(),
	})
}

// timedRecorder observes how long each Record takes, lock wait included.
type timedRecorder struct {
	store   *index.SessionStore
	observe func(float64)
}

func (r timedRecorder) Record(entry *index.EntryData) {
	start := time.Now()
	r.store.Record(entry)
	r.observe(time.Since(start).Seconds())
}
