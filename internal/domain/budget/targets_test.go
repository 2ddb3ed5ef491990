package budget

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/indirect-spend-tracker/internal/domain/records"
	"github.com/FACorreiaa/indirect-spend-tracker/pkg/kvstore"
)

func newTestTargetStore(t *testing.T) (*TargetStore, kvstore.Store) {
	t.Helper()
	store, err := kvstore.NewFileStore(t.TempDir())
	require.NoError(t, err)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ts := NewTargetStore(store, logger)
	require.NoError(t, ts.Load())
	return ts, store
}

func TestTargetStore_SetGetDelete(t *testing.T) {
	ts, _ := newTestTargetStore(t)

	_, ok := ts.Get(2026, records.CategoryClinical)
	assert.False(t, ok)

	ts.Set(2026, records.CategoryClinical, 120000)
	got, ok := ts.Get(2026, records.CategoryClinical)
	require.True(t, ok)
	assert.Equal(t, 120000.0, got)

	// Same category in a different year is independent.
	_, ok = ts.Get(2025, records.CategoryClinical)
	assert.False(t, ok)

	ts.Delete(2026, records.CategoryClinical)
	_, ok = ts.Get(2026, records.CategoryClinical)
	assert.False(t, ok)
}

func TestTargetStore_Merge(t *testing.T) {
	ts, _ := newTestTargetStore(t)
	ts.Set(2026, records.CategoryOffice, 5000)

	ts.Merge(2026, map[string]float64{
		records.CategoryClinical:  120000,
		records.CategoryWarehouse: 40000,
	})

	forYear := ts.ForYear(2026)
	assert.Len(t, forYear, 3)
	assert.Equal(t, 5000.0, forYear[records.CategoryOffice])
	assert.Equal(t, 120000.0, forYear[records.CategoryClinical])

	t.Run("merge overwrites existing categories", func(t *testing.T) {
		ts.Merge(2026, map[string]float64{records.CategoryClinical: 130000})
		got, _ := ts.Get(2026, records.CategoryClinical)
		assert.Equal(t, 130000.0, got)
	})

	t.Run("empty merge is a no-op", func(t *testing.T) {
		ts.Merge(2027, nil)
		assert.Empty(t, ts.ForYear(2027))
	})
}

func TestTargetStore_Persistence(t *testing.T) {
	ts, store := newTestTargetStore(t)
	ts.Set(2026, records.CategoryClinical, 99000)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	reloaded := NewTargetStore(store, logger)
	require.NoError(t, reloaded.Load())
	got, ok := reloaded.Get(2026, records.CategoryClinical)
	require.True(t, ok)
	assert.Equal(t, 99000.0, got)
}
