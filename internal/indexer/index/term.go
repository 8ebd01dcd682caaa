package index

import (
	"strings"
	"sync"
	"sync/atomic"
)

// Term is an interned token. Two Terms are equal exactly when they were
// interned from equal strings, so Term is usable as a map key without
// comparing contents.
type Term struct {
	text *string
}

func (t Term) String() string {
	if t.text == nil {
		return ""
	}
	return *t.text
}

// Interner deduplicates token strings into shared handles. Entries are never
// evicted: the table grows for the lifetime of the process, trading memory
// for cheap equality and hashing.
type Interner struct {
	table sync.Map
	size  atomic.Int64
}

func NewInterner() *Interner {
	return &Interner{}
}

// Intern returns the canonical handle for text, creating it if absent.
func (in *Interner) Intern(text string) Term {
	if v, ok := in.table.Load(text); ok {
		return v.(Term)
	}
	// text is usually a slice of a whole file; clone so the table does not
	// pin the file buffer.
	owned := strings.Clone(text)
	v, loaded := in.table.LoadOrStore(owned, Term{text: &owned})
	if !loaded {
		in.size.Add(1)
	}
	return v.(Term)
}

// Lookup returns the handle for text without creating one.
func (in *Interner) Lookup(text string) (Term, bool) {
	v, ok := in.table.Load(text)
	if !ok {
		return Term{}, false
	}
	return v.(Term), true
}

// Len returns the number of distinct terms interned so far.
func (in *Interner) Len() int {
	return int(in.size.Load())
}

var global = NewInterner()

// Intern interns text in the process-wide table.
func Intern(text string) Term {
	return global.Intern(text)
}

// Interned returns the size of the process-wide table.
func Interned() int {
	return global.Len()
}
