package insights

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/indirect-spend-tracker/internal/domain/budget"
	"github.com/FACorreiaa/indirect-spend-tracker/internal/domain/records"
	"github.com/FACorreiaa/indirect-spend-tracker/pkg/kvstore"
)

func kpiFixture() []records.Record {
	return []records.Record{
		{Date: "2026-01", CostCategory: records.CategoryClinical, SKU: "A", Supplier: "Eurofins", OrderedBy: "Jan", TotalAmount: 1000, PriceImpact: -50},
		{Date: "2026-01", CostCategory: records.CategoryClinical, SKU: "B", Supplier: "SGS", OrderedBy: "Jan", TotalAmount: 500, VolumeImpact: -25},
		{Date: "2026-02", CostCategory: records.CategoryOffice, SKU: "C", Supplier: "Office Depot", OrderedBy: "Ana", TotalAmount: 300, InsourcingSavings: -10},
		// Non-Actual rows are excluded from headline figures.
		{Date: "2026-01", CostCategory: records.CategoryClinical, SKU: "A", Supplier: "Eurofins", TotalAmount: 900, BudgetType: records.BudgetBaseline},
	}
}

func TestComputeKPI(t *testing.T) {
	kpi := ComputeKPI(kpiFixture())

	assert.InDelta(t, 1800, kpi.TotalSpend, 0.0001)
	assert.InDelta(t, -85, kpi.TotalSavings, 0.0001)
	assert.Equal(t, 3, kpi.LineItems)
	assert.Equal(t, 3, kpi.UniqueSKUs)
	assert.Equal(t, 3, kpi.UniqueSuppliers)
	assert.Equal(t, 2, kpi.UniqueRequesters)
	assert.InDelta(t, 600, kpi.AvgOrderValue, 0.0001)
}

func TestComputeKPI_Empty(t *testing.T) {
	kpi := ComputeKPI(nil)
	assert.Zero(t, kpi.TotalSpend)
	assert.Zero(t, kpi.AvgOrderValue)
	assert.Zero(t, kpi.LineItems)
}

func TestSummarizeCategories(t *testing.T) {
	store, err := kvstore.NewFileStore(t.TempDir())
	require.NoError(t, err)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	targets := budget.NewTargetStore(store, logger)
	require.NoError(t, targets.Load())
	targets.Set(2026, records.CategoryClinical, 1200)

	summaries := SummarizeCategories(kpiFixture(), targets, 2026)
	require.Len(t, summaries, len(records.Categories()))

	byName := map[string]CategorySummary{}
	for _, s := range summaries {
		byName[s.Category] = s
	}

	t.Run("clinical aggregates all figures", func(t *testing.T) {
		c := byName[records.CategoryClinical]
		assert.InDelta(t, 1500, c.Actual, 0.0001)
		assert.InDelta(t, 900, c.Baseline, 0.0001)
		assert.InDelta(t, -50, c.PriceImpact, 0.0001)
		assert.InDelta(t, -25, c.VolumeImpact, 0.0001)
		// Target is actual plus all impacts.
		assert.InDelta(t, 1425, c.Target, 0.0001)
		require.True(t, c.HasBudget)
		assert.InDelta(t, 1200, c.BudgetTarget, 0.0001)
		assert.InDelta(t, 300, c.BudgetVariance, 0.0001)
	})

	t.Run("missing baseline falls back to actual", func(t *testing.T) {
		o := byName[records.CategoryOffice]
		assert.InDelta(t, 300, o.Actual, 0.0001)
		assert.InDelta(t, 300, o.Baseline, 0.0001)
		assert.False(t, o.HasBudget)
	})

	t.Run("unused categories report zeros", func(t *testing.T) {
		w := byName[records.CategoryWarehouse]
		assert.Zero(t, w.Actual)
		assert.Zero(t, w.Target)
	})

	t.Run("zero year skips budget join", func(t *testing.T) {
		for _, s := range SummarizeCategories(kpiFixture(), targets, 0) {
			assert.False(t, s.HasBudget)
		}
	})
}
