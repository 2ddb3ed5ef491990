package demo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/indirect-spend-tracker/internal/domain/records"
)

func TestGenerate_Deterministic(t *testing.T) {
	a := Generate(42)
	b := Generate(42)
	require.Equal(t, a, b)

	c := Generate(7)
	assert.NotEqual(t, a, c)
}

func TestGenerate_RecordShape(t *testing.T) {
	recs := Generate(42)
	require.NotEmpty(t, recs)

	valid := map[string]bool{}
	for _, cat := range records.Categories() {
		valid[cat] = true
	}

	monthSet := map[string]bool{}
	for _, m := range months {
		monthSet[m] = true
	}

	for _, r := range recs {
		assert.True(t, valid[r.CostCategory], "category %q", r.CostCategory)
		assert.True(t, monthSet[r.Date], "date %q", r.Date)
		assert.Equal(t, records.BudgetActual, r.BudgetType)
		assert.NotEmpty(t, r.PONumber)
		assert.NotEmpty(t, r.Supplier)
		assert.NotEmpty(t, r.SKU)
		assert.Greater(t, r.Quantity, 0.0)
		assert.Greater(t, r.UnitPrice, 0.0)
		assert.InDelta(t, round2(r.Quantity*r.UnitPrice), r.TotalAmount, 0.011)
		assert.False(t, r.IsBlank())
	}
}

func TestGenerate_NoDuplicateKeys(t *testing.T) {
	recs := Generate(42)
	seen := map[string]bool{}
	for _, r := range recs {
		key := r.NaturalKey()
		assert.False(t, seen[key], "duplicate key %s", key)
		seen[key] = true
	}
}
