package indexer

import (
	"fmt"

	"github.com/Adithya-Monish-Kumar-K/termhist/internal/indexer/index"
	apperrors "github.com/Adithya-Monish-Kumar-K/termhist/pkg/errors"
)

// Recorder accepts finished per-file entries. *index.SessionStore is the
// production implementation.
type Recorder interface {
	Record(entry *index.EntryData)
}

// Collector is the per-file scan sink. It counts terms into a private
// EntryData while scanning and hands the entry to its Recorder exactly once
// on Finish. A Collector belongs to one worker and is never shared.
type Collector struct {
	entry    *index.EntryData
	recorder Recorder
	matches  int
	finished bool
}

func NewCollector(path string, recorder Recorder) *Collector {
	return &Collector{
		entry:    index.NewEntryData(path),
		recorder: recorder,
	}
}

// Matched counts one occurrence of term. It fails once the collector has
// finished.
func (c *Collector) Matched(term string) error {
	if c.finished {
		return fmt.Errorf("match %q for %s: %w", term, c.entry.Path(), apperrors.ErrCollectorFinished)
	}
	c.entry.Increment(term)
	c.matches++
	return nil
}

// Finish transfers the entry to the recorder. A second call fails.
func (c *Collector) Finish() error {
	if c.finished {
		return fmt.Errorf("finish %s: %w", c.entry.Path(), apperrors.ErrCollectorFinished)
	}
	c.finished = true
	c.recorder.Record(c.entry)
	return nil
}

func (c *Collector) Matches() int {
	return c.matches
}

func (c *Collector) Distinct() int {
	return c.entry.Len()
}

func (c *Collector) Finished() bool {
	return c.finished
}
