package index

import (
	"path/filepath"
	"sync"
)

// SessionStore is the shared accumulation point of a run. Workers hand
// finished per-file entries to Record; each Record also rolls the counts up
// into the aggregate of every ancestor directory up to the nearest root.
type SessionStore struct {
	mu          sync.RWMutex
	roots       []string
	rootSet     map[string]struct{}
	entries     []*EntryData
	directories map[string]*EntryData
}

func NewSessionStore(roots []string) *SessionStore {
	s := &SessionStore{
		roots:       make([]string, 0, len(roots)),
		rootSet:     make(map[string]struct{}, len(roots)),
		directories: make(map[string]*EntryData),
	}
	for _, root := range roots {
		norm := Normalize(root)
		if _, dup := s.rootSet[norm]; dup {
			continue
		}
		s.rootSet[norm] = struct{}{}
		s.roots = append(s.roots, norm)
	}
	return s
}

// Normalize is the path form used for root comparison and directory keys.
func Normalize(path string) string {
	return filepath.Clean(path)
}

// Ancestors returns the paths a Record of path merges into: path itself,
// then each parent, stopping at the first configured root or at the
// filesystem root.
func (s *SessionStore) Ancestors(path string) []string {
	p := Normalize(path)
	chain := make([]string, 0, 8)
	for {
		chain = append(chain, p)
		if _, ok := s.rootSet[p]; ok {
			return chain
		}
		parent := filepath.Dir(p)
		if parent == p {
			return chain
		}
		p = parent
	}
}

// Record appends entry to the completed entries and merges it into every
// aggregate along its ancestor chain. The append and the whole walk happen
// under one exclusive lock. entry must not be mutated afterwards.
func (s *SessionStore) Record(entry *EntryData) {
	chain := s.Ancestors(entry.Path())

	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = append(s.entries, entry)
	for _, p := range chain {
		agg, ok := s.directories[p]
		if !ok {
			agg = NewEntryData(p)
			s.directories[p] = agg
		}
		agg.Merge(entry)
	}
}

// Roots returns the normalized roots in configuration order.
func (s *SessionStore) Roots() []string {
	return append([]string(nil), s.roots...)
}

// Entries returns the completed per-file entries in completion order.
func (s *SessionStore) Entries() []*EntryData {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]*EntryData(nil), s.entries...)
}

// Directory returns the aggregate for path, if any file rolled up into it.
func (s *SessionStore) Directory(path string) (*EntryData, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	agg, ok := s.directories[Normalize(path)]
	return agg, ok
}

// RootEntries returns one aggregate per root in configuration order. Roots
// that received no files yield an empty entry.
func (s *SessionStore) RootEntries() []*EntryData {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]*EntryData, 0, len(s.roots))
	for _, root := range s.roots {
		if agg, ok := s.directories[root]; ok {
			result = append(result, agg)
			continue
		}
		result = append(result, NewEntryData(root))
	}
	return result
}

// Directories returns the number of aggregates held.
func (s *SessionStore) Directories() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.directories)
}
