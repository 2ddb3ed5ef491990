package records

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func searchFixture() []Record {
	return []Record{
		{SKU: "LAB-0042", Description: "HPLC Column C18", Supplier: "Eurofins", CostCategory: CategoryClinical, PONumber: "PO-202601-0001"},
		{SKU: "PRO-1001", Description: "Bioreactor seal kit", Supplier: "Sartorius", CostCategory: CategoryProduction, PONumber: "PO-202601-0002"},
		{SKU: "OFF-3000", Description: "Toner cartridges", Supplier: "Office Depot", CostCategory: CategoryOffice, PONumber: "PO-202602-0003"},
	}
}

func TestSearchIndex(t *testing.T) {
	si, err := NewSearchIndex()
	require.NoError(t, err)
	defer si.Close()
	require.NoError(t, si.Rebuild(searchFixture()))

	t.Run("matches description words", func(t *testing.T) {
		hits, err := si.Search("bioreactor", 10)
		require.NoError(t, err)
		require.NotEmpty(t, hits)
		assert.Equal(t, 1, hits[0].Index)
	})

	t.Run("matches supplier", func(t *testing.T) {
		hits, err := si.Search("eurofins", 10)
		require.NoError(t, err)
		require.NotEmpty(t, hits)
		assert.Equal(t, 0, hits[0].Index)
	})

	t.Run("matches sku exactly", func(t *testing.T) {
		hits, err := si.Search("OFF-3000", 10)
		require.NoError(t, err)
		require.NotEmpty(t, hits)
		assert.Equal(t, 2, hits[0].Index)
	})

	t.Run("no hits for unknown term", func(t *testing.T) {
		hits, err := si.Search("zzzznothing", 10)
		require.NoError(t, err)
		assert.Empty(t, hits)
	})

	t.Run("rebuild drops stale documents", func(t *testing.T) {
		require.NoError(t, si.Rebuild(searchFixture()[:1]))
		hits, err := si.Search("toner", 10)
		require.NoError(t, err)
		assert.Empty(t, hits)
	})
}

func TestFilter(t *testing.T) {
	recs := []Record{
		{Date: "2025-12", CostCategory: CategoryClinical, TotalAmount: 1},
		{Date: "2026-01", CostCategory: CategoryClinical, TotalAmount: 2},
		{Date: "2026-01", CostCategory: CategoryOffice, TotalAmount: 3},
		{Date: "2026-02", CostCategory: CategoryOffice, TotalAmount: 4},
	}

	t.Run("zero filter returns everything", func(t *testing.T) {
		assert.Len(t, Filter{}.Apply(recs), 4)
	})

	t.Run("year", func(t *testing.T) {
		assert.Len(t, Filter{Year: 2026}.Apply(recs), 3)
	})

	t.Run("year and month", func(t *testing.T) {
		out := Filter{Year: 2026, Month: 1}.Apply(recs)
		require.Len(t, out, 2)
	})

	t.Run("category", func(t *testing.T) {
		out := Filter{Category: CategoryOffice}.Apply(recs)
		require.Len(t, out, 2)
		assert.Equal(t, 3.0, out[0].TotalAmount)
	})

	t.Run("combined", func(t *testing.T) {
		out := Filter{Year: 2026, Month: 2, Category: CategoryOffice}.Apply(recs)
		require.Len(t, out, 1)
		assert.Equal(t, 4.0, out[0].TotalAmount)
	})

	t.Run("years are sorted unique", func(t *testing.T) {
		assert.Equal(t, []int{2025, 2026}, Years(recs))
	})

	t.Run("used categories", func(t *testing.T) {
		cats := UsedCategories(recs)
		assert.Equal(t, []string{CategoryClinical, CategoryOffice}, cats)
	})
}
