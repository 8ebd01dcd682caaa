package analytics

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregatorCounts(t *testing.T) {
	a := NewAggregator()
	a.Record(FileEvent{Type: EventFileScanned, Path: "a", Bytes: 100, Matches: 7})
	a.Record(FileEvent{Type: EventFileScanned, Path: "b", Bytes: 50, Matches: 3})
	a.Record(FileEvent{Type: EventFileSkipped, Path: "z", Err: "permission denied"})
	a.Record(FileEvent{Type: EventFileSkipped, Path: "y"})
	a.Record(FileEvent{Type: EventTraversalError, Path: "broken"})

	stats := a.Stats()
	assert.Equal(t, int64(2), stats.FilesScanned)
	assert.Equal(t, int64(2), stats.FilesSkipped)
	assert.Equal(t, int64(1), stats.TraversalErrors)
	assert.Equal(t, int64(10), stats.TermsMatched)
	assert.Equal(t, int64(150), stats.BytesScanned)
	assert.Equal(t, []string{"y", "z"}, stats.SkippedPaths)
	require.Len(t, stats.BusiestFiles, 2)
	assert.Equal(t, FileCount{Path: "a", Matches: 7}, stats.BusiestFiles[0])
}

func TestAggregatorConcurrent(t *testing.T) {
	a := NewAggregator()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			a.Record(FileEvent{Type: EventFileScanned, Path: fmt.Sprintf("f%d", i), Bytes: 1, Matches: 2})
		}(i)
	}
	wg.Wait()

	stats := a.Stats()
	assert.Equal(t, int64(50), stats.FilesScanned)
	assert.Equal(t, int64(100), stats.TermsMatched)
	assert.Len(t, stats.BusiestFiles, topFiles)
}

func TestTopNTieBreak(t *testing.T) {
	got := topN(map[string]int64{"b": 2, "a": 2, "c": 5}, 10)
	assert.Equal(t, []FileCount{{"c", 5}, {"a", 2}, {"b", 2}}, got)
}
