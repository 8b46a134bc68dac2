package history

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/dasdcalc/internal/errors"
)

// newTestStore returns a store with deterministic IDs and timestamps.
func newTestStore(t *testing.T, opts Options) *Store {
	t.Helper()
	s := New(opts)

	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	var n int
	s.now = func() time.Time { return base.Add(time.Duration(n) * time.Second) }
	s.newID = func() string {
		n++
		return fmt.Sprintf("entry-%d", n)
	}
	return s
}

func TestRecordAndListNewestFirst(t *testing.T) {
	t.Parallel()

	s := newTestStore(t, Options{})

	_, err := s.Record(KindConversion, map[string]any{"value": 1}, 15.0)
	require.NoError(t, err)
	_, err = s.Record(KindSimulation, "sim", "result")
	require.NoError(t, err)
	_, err = s.Record(KindUsage, "usage", 40.0)
	require.NoError(t, err)

	entries := s.List(0, "")
	require.Len(t, entries, 3)
	assert.Equal(t, "entry-3", entries[0].ID)
	assert.Equal(t, "entry-2", entries[1].ID)
	assert.Equal(t, "entry-1", entries[2].ID)
	assert.Equal(t, KindUsage, entries[0].Kind)
}

func TestListLimitAndKindFilter(t *testing.T) {
	t.Parallel()

	s := newTestStore(t, Options{})
	for range 3 {
		_, err := s.Record(KindConversion, nil, nil)
		require.NoError(t, err)
	}
	_, err := s.Record(KindSimulation, nil, nil)
	require.NoError(t, err)

	assert.Len(t, s.List(2, ""), 2)

	conversions := s.List(0, KindConversion)
	require.Len(t, conversions, 3)
	for _, e := range conversions {
		assert.Equal(t, KindConversion, e.Kind)
	}

	assert.Len(t, s.List(10, KindSimulation), 1)
}

func TestMaxEntriesEvictsOldest(t *testing.T) {
	t.Parallel()

	s := newTestStore(t, Options{MaxEntries: 2})
	for range 4 {
		_, err := s.Record(KindConversion, nil, nil)
		require.NoError(t, err)
	}

	entries := s.List(0, "")
	require.Len(t, entries, 2)
	assert.Equal(t, "entry-4", entries[0].ID)
	assert.Equal(t, "entry-3", entries[1].ID)

	_, err := s.Get("entry-1")
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestRetentionExpiresEntries(t *testing.T) {
	t.Parallel()

	s := New(Options{Retention: 20 * time.Millisecond})
	_, err := s.Record(KindConversion, nil, nil)
	require.NoError(t, err)
	require.Len(t, s.List(0, ""), 1)

	assert.Eventually(t, func() bool {
		return len(s.List(0, "")) == 0
	}, time.Second, 5*time.Millisecond)
}

func TestRecordAfterExpiryKeepsNewEntry(t *testing.T) {
	t.Parallel()

	s := New(Options{Retention: 50 * time.Millisecond, MaxEntries: 2})
	for range 2 {
		_, err := s.Record(KindConversion, nil, nil)
		require.NoError(t, err)
	}

	// past retention but before the first janitor sweep
	time.Sleep(70 * time.Millisecond)

	entry, err := s.Record(KindUsage, nil, nil)
	require.NoError(t, err)

	entries := s.List(0, "")
	require.Len(t, entries, 1)
	assert.Equal(t, entry.ID, entries[0].ID)

	got, err := s.Get(entry.ID)
	require.NoError(t, err)
	assert.Equal(t, KindUsage, got.Kind)
}

func TestRecordRequiresKind(t *testing.T) {
	t.Parallel()

	s := New(Options{})
	_, err := s.Record("", nil, nil)
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryValidation))
	assert.Zero(t, s.Len())
}

func TestGetAndClear(t *testing.T) {
	t.Parallel()

	s := New(Options{})
	entry, err := s.Record(KindConversion, "in", "out")
	require.NoError(t, err)
	assert.NotEmpty(t, entry.ID)
	assert.False(t, entry.Timestamp.IsZero())

	got, err := s.Get(entry.ID)
	require.NoError(t, err)
	assert.Equal(t, "out", got.Result)

	s.Clear()
	assert.Zero(t, s.Len())
	assert.Empty(t, s.List(0, ""))
}

func TestConcurrentRecord(t *testing.T) {
	t.Parallel()

	s := New(Options{MaxEntries: 50})
	var wg sync.WaitGroup
	for range 20 {
		wg.Go(func() {
			for range 10 {
				_, _ = s.Record(KindUsage, nil, nil)
			}
		})
	}
	wg.Wait()

	assert.Equal(t, 50, s.Len())
}
