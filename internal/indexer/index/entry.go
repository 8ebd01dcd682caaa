package index

import (
	"sort"
)

// TermCount is one row of a ranked table.
type TermCount struct {
	Term  Term
	Count int
}

// EntryData is the term frequency table of one file or one aggregated
// directory.
type EntryData struct {
	path   string
	counts map[Term]int
}

func NewEntryData(path string) *EntryData {
	return &EntryData{
		path:   path,
		counts: make(map[Term]int),
	}
}

func (e *EntryData) Path() string {
	return e.path
}

// Increment interns text and adds one to its count.
func (e *EntryData) Increment(text string) {
	e.counts[Intern(text)]++
}

// Add adds n to term's count. Non-positive n is ignored so counts stay >= 1.
func (e *EntryData) Add(term Term, n int) {
	if n <= 0 {
		return
	}
	e.counts[term] += n
}

// Merge adds every count of other into e. Merge is commutative and
// associative, so aggregates built from any order or grouping of merges are
// identical.
func (e *EntryData) Merge(other *EntryData) {
	for term, count := range other.counts {
		e.counts[term] += count
	}
}

// Count returns the count for text, or zero.
func (e *EntryData) Count(text string) int {
	term, ok := global.Lookup(text)
	if !ok {
		return 0
	}
	return e.counts[term]
}

// Len returns the number of distinct terms.
func (e *EntryData) Len() int {
	return len(e.counts)
}

// Total returns the sum of all counts.
func (e *EntryData) Total() int {
	total := 0
	for _, count := range e.counts {
		total += count
	}
	return total
}

// Ranked returns the table ordered by descending count, ties broken by
// lexical order of the term.
func (e *EntryData) Ranked() []TermCount {
	result := make([]TermCount, 0, len(e.counts))
	for term, count := range e.counts {
		result = append(result, TermCount{Term: term, Count: count})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		return result[i].Term.String() < result[j].Term.String()
	})
	return result
}

// TopN returns at most n ranked rows; n <= 0 returns all of them.
func (e *EntryData) TopN(n int) []TermCount {
	ranked := e.Ranked()
	if n > 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
