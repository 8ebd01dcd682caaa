// Package tracing times the phases of a run (scan, render). Phases nest
// through contexts, report their durations to an Observer when they end and
// are logged via slog at debug level once the run is over.
package tracing

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

type contextKey struct{}

// Observer receives the duration of every phase as it ends.
type Observer interface {
	ObservePhase(phase string, d time.Duration)
}

// PhaseTiming is the exported record of one finished phase.
type PhaseTiming struct {
	Phase      string  `json:"phase" yaml:"phase"`
	DurationMs float64 `json:"duration_ms" yaml:"duration_ms"`
}

// Span is one timed phase of a run.
type Span struct {
	Name     string
	RunID    string
	Start    time.Time
	Duration time.Duration

	observer Observer
	mu       sync.Mutex
	ended    bool
	attrs    []slog.Attr
	children []*Span
}

// StartRun opens the root phase of a run. obs may be nil.
func StartRun(ctx context.Context, runID string, obs Observer) (context.Context, *Span) {
	span := &Span{Name: "run", RunID: runID, Start: time.Now(), observer: obs}
	return context.WithValue(ctx, contextKey{}, span), span
}

// StartPhase opens a phase nested under the span in ctx, sharing its run id
// and observer. Without a parent the phase is detached.
func StartPhase(ctx context.Context, name string) (context.Context, *Span) {
	span := &Span{Name: name, Start: time.Now()}
	if parent := FromContext(ctx); parent != nil {
		span.RunID = parent.RunID
		span.observer = parent.observer
		parent.mu.Lock()
		parent.children = append(parent.children, span)
		parent.mu.Unlock()
	}
	return context.WithValue(ctx, contextKey{}, span), span
}

// FromContext returns the innermost span in ctx, or nil.
func FromContext(ctx context.Context) *Span {
	span, _ := ctx.Value(contextKey{}).(*Span)
	return span
}

// End fixes the duration and reports it. Later calls are no-ops.
func (s *Span) End() {
	s.mu.Lock()
	if s.ended {
		s.mu.Unlock()
		return
	}
	s.ended = true
	s.Duration = time.Since(s.Start)
	s.mu.Unlock()
	if s.observer != nil {
		s.observer.ObservePhase(s.Name, s.Duration)
	}
}

// SetAttr records a key/value pair, replacing an earlier value for key.
func (s *Span) SetAttr(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.attrs {
		if s.attrs[i].Key == key {
			s.attrs[i].Value = slog.AnyValue(value)
			return
		}
	}
	s.attrs = append(s.attrs, slog.Any(key, value))
}

// Phases lists the finished child phases in start order.
func (s *Span) Phases() []PhaseTiming {
	s.mu.Lock()
	children := append([]*Span(nil), s.children...)
	s.mu.Unlock()

	var out []PhaseTiming
	for _, c := range children {
		c.mu.Lock()
		if c.ended {
			out = append(out, PhaseTiming{
				Phase:      c.Name,
				DurationMs: float64(c.Duration.Microseconds()) / 1000,
			})
		}
		c.mu.Unlock()
	}
	return out
}

// Log writes the phase tree to logger at debug level, one line per phase.
func (s *Span) Log(logger *slog.Logger) {
	s.log(logger, 0)
}

func (s *Span) log(logger *slog.Logger, depth int) {
	s.mu.Lock()
	attrs := append([]slog.Attr{
		slog.String("run_id", s.RunID),
		slog.String("phase", s.Name),
		slog.Int64("duration_ms", s.Duration.Milliseconds()),
		slog.Int("depth", depth),
	}, s.attrs...)
	children := append([]*Span(nil), s.children...)
	s.mu.Unlock()

	logger.LogAttrs(context.Background(), slog.LevelDebug, "phase", attrs...)
	for _, child := range children {
		child.log(logger, depth+1)
	}
}
