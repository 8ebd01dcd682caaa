// Package report builds the machine-readable form of a run: the ranked
// terms of every root plus the scan statistics.
package report

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/Adithya-Monish-Kumar-K/termhist/internal/analytics"
	"github.com/Adithya-Monish-Kumar-K/termhist/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/termhist/pkg/tracing"
)

type Report struct {
	RunID   string                `json:"run_id,omitempty" yaml:"run_id,omitempty"`
	Pattern string                `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	Roots   []Root                `json:"roots" yaml:"roots"`
	Stats   analytics.ScanStats   `json:"stats" yaml:"stats"`
	Phases  []tracing.PhaseTiming `json:"phases,omitempty" yaml:"phases,omitempty"`
}

type Root struct {
	Path     string `json:"path" yaml:"path"`
	Distinct int    `json:"distinct" yaml:"distinct"`
	Total    int    `json:"total" yaml:"total"`
	Terms    []Term `json:"terms" yaml:"terms"`
}

type Term struct {
	Term  string `json:"term" yaml:"term"`
	Count int    `json:"count" yaml:"count"`
}

// Build collects the ranked terms of every root in store. A count of zero
// or less keeps every term.
func Build(store *index.SessionStore, stats analytics.ScanStats, count int) Report {
	r := Report{Stats: stats}
	for _, entry := range store.RootEntries() {
		ranked := entry.Ranked()
		if count > 0 {
			ranked = entry.TopN(count)
		}
		root := Root{
			Path:     entry.Path(),
			Distinct: entry.Len(),
			Total:    entry.Total(),
			Terms:    make([]Term, 0, len(ranked)),
		}
		for _, tc := range ranked {
			root.Terms = append(root.Terms, Term{Term: tc.Term.String(), Count: tc.Count})
		}
		r.Roots = append(r.Roots, root)
	}
	return r
}

// Write encodes the report as "json" or "yaml".
func (r Report) Write(w io.Writer, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("encoding json report: %w", err)
		}
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("encoding yaml report: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("flushing yaml report: %w", err)
		}
	default:
		return fmt.Errorf("unsupported report format %q", format)
	}
	return nil
}
