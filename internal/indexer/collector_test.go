package indexer

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adithya-Monish-Kumar-K/termhist/internal/indexer/index"
	apperrors "github.com/Adithya-Monish-Kumar-K/termhist/pkg/errors"
)

type countingRecorder struct {
	entries []*index.EntryData
}

func (r *countingRecorder) Record(entry *index.EntryData) {
	r.entries = append(r.entries, entry)
}

func TestCollectorScanningThenFinished(t *testing.T) {
	rec := &countingRecorder{}
	c := NewCollector("file.txt", rec)

	require.NoError(t, c.Matched("alpha"))
	require.NoError(t, c.Matched("alpha"))
	require.NoError(t, c.Matched("beta"))
	assert.False(t, c.Finished())
	assert.Empty(t, rec.entries)

	require.NoError(t, c.Finish())
	assert.True(t, c.Finished())
	require.Len(t, rec.entries, 1)
	assert.Equal(t, "file.txt", rec.entries[0].Path())
	assert.Equal(t, 2, rec.entries[0].Count("alpha"))
	assert.Equal(t, 3, c.Matches())
	assert.Equal(t, 2, c.Distinct())
}

func TestCollectorRejectsMatchAfterFinish(t *testing.T) {
	rec := &countingRecorder{}
	c := NewCollector("file.txt", rec)
	require.NoError(t, c.Finish())

	err := c.Matched("late")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrCollectorFinished))
	assert.Equal(t, 0, rec.entries[0].Count("late"))
}

func TestCollectorRejectsSecondFinish(t *testing.T) {
	rec := &countingRecorder{}
	c := NewCollector("file.txt", rec)
	require.NoError(t, c.Finish())

	err := c.Finish()
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrCollectorFinished))
	assert.Len(t, rec.entries, 1)
}

func TestCollectorEmptyFileStillRecorded(t *testing.T) {
	store := index.NewSessionStore([]string{"root"})
	c := NewCollector("root/empty.txt", store)
	require.NoError(t, c.Finish())

	assert.Len(t, store.Entries(), 1)
	agg, ok := store.Directory("root")
	require.True(t, ok)
	assert.Equal(t, 0, agg.Len())
}
