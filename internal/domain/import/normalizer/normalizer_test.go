package normalizer

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/indirect-spend-tracker/internal/domain/import/mapper"
	"github.com/FACorreiaa/indirect-spend-tracker/internal/domain/import/parser"
	"github.com/FACorreiaa/indirect-spend-tracker/internal/domain/records"
)

func sapMapping() mapper.ColumnMapping {
	return mapper.ColumnMapping{
		"Document Date": mapper.FieldDate,
		"Material":      mapper.FieldSKU,
		"Short Text":    mapper.FieldDescription,
		"Vendor":        mapper.FieldSupplier,
		"Matl Group":    mapper.FieldCostCategory,
		"Quantity":      mapper.FieldQuantity,
		"Net Price":     mapper.FieldUnitPrice,
		"Net Value":     mapper.FieldTotalAmount,
		"Currency":      mapper.RefCurrency,
	}
}

func TestNormalize_SAPRows(t *testing.T) {
	rows := []map[string]string{
		{
			"Document Date": "31.01.2026",
			"Material":      "LAB-0042",
			"Short Text":    "HPLC Column",
			"Vendor":        "Eurofins",
			"Matl Group":    "Lab services",
			"Quantity":      "10",
			"Net Price":     "450,00",
			"Net Value":     "1.500,75",
			"Currency":      "EUR",
		},
	}
	categories := map[string]string{"Lab services": records.CategoryClinical}

	result := Normalize(rows, sapMapping(), categories, parser.FormatEU)
	require.Len(t, result.Records, 1)
	rec := result.Records[0]

	assert.Equal(t, "2026-01", rec.Date)
	assert.Equal(t, records.CategoryClinical, rec.CostCategory)
	assert.Equal(t, "LAB-0042", rec.SKU)
	assert.Equal(t, "Eurofins", rec.Supplier)
	assert.InDelta(t, 10, rec.Quantity, 0.0001)
	assert.InDelta(t, 450.00, rec.UnitPrice, 0.0001)
	// A non-zero source total always wins over quantity times price.
	assert.InDelta(t, 1500.75, rec.TotalAmount, 0.0001)
	assert.Equal(t, records.BudgetActual, rec.BudgetType)
	assert.Empty(t, result.Issues)
}

func TestNormalize_TotalBackfill(t *testing.T) {
	mapping := mapper.ColumnMapping{
		"date":  mapper.FieldDate,
		"sku":   mapper.FieldSKU,
		"qty":   mapper.FieldQuantity,
		"price": mapper.FieldUnitPrice,
		"total": mapper.FieldTotalAmount,
	}

	t.Run("zero total with both factors is derived", func(t *testing.T) {
		rows := []map[string]string{{"date": "2026-01", "sku": "X", "qty": "10", "price": "450", "total": "0"}}
		result := Normalize(rows, mapping, nil, parser.FormatAuto)
		require.Len(t, result.Records, 1)
		assert.InDelta(t, 4500, result.Records[0].TotalAmount, 0.0001)
	})

	t.Run("zero price leaves total at zero", func(t *testing.T) {
		rows := []map[string]string{{"date": "2026-01", "sku": "X", "qty": "10", "price": "0", "total": "0"}}
		result := Normalize(rows, mapping, nil, parser.FormatAuto)
		require.Len(t, result.Records, 1)
		assert.Zero(t, result.Records[0].TotalAmount)
	})

	t.Run("zero quantity leaves total at zero", func(t *testing.T) {
		rows := []map[string]string{{"date": "2026-01", "sku": "X", "qty": "0", "price": "450", "total": "0"}}
		result := Normalize(rows, mapping, nil, parser.FormatAuto)
		require.Len(t, result.Records, 1)
		assert.Zero(t, result.Records[0].TotalAmount)
	})
}

func TestNormalize_Issues(t *testing.T) {
	mapping := mapper.ColumnMapping{
		"date":  mapper.FieldDate,
		"sku":   mapper.FieldSKU,
		"cat":   mapper.FieldCostCategory,
		"total": mapper.FieldTotalAmount,
	}

	t.Run("unknown category falls back to misc with warning", func(t *testing.T) {
		rows := []map[string]string{{"date": "2026-01", "sku": "X", "cat": "Mystery", "total": "10"}}
		result := Normalize(rows, mapping, map[string]string{}, parser.FormatAuto)
		require.Len(t, result.Records, 1)
		assert.Equal(t, records.CategoryMisc, result.Records[0].CostCategory)
		require.Len(t, result.Issues, 1)
		assert.Equal(t, SeverityWarn, result.Issues[0].Severity)
		assert.Contains(t, result.Issues[0].Message, "Mystery")
	})

	t.Run("blank category is silent misc", func(t *testing.T) {
		rows := []map[string]string{{"date": "2026-01", "sku": "X", "cat": "", "total": "10"}}
		result := Normalize(rows, mapping, map[string]string{}, parser.FormatAuto)
		require.Len(t, result.Records, 1)
		assert.Equal(t, records.CategoryMisc, result.Records[0].CostCategory)
		assert.Empty(t, result.Issues)
	})

	t.Run("missing date warns", func(t *testing.T) {
		rows := []map[string]string{{"date": "", "sku": "X", "cat": "", "total": "10"}}
		result := Normalize(rows, mapping, map[string]string{}, parser.FormatAuto)
		require.Len(t, result.Issues, 1)
		assert.Equal(t, SeverityWarn, result.Issues[0].Severity)
		assert.Contains(t, result.Issues[0].Message, "Missing date")
	})

	t.Run("zero amount is informational", func(t *testing.T) {
		rows := []map[string]string{{"date": "2026-01", "sku": "X", "cat": "", "total": "0"}}
		result := Normalize(rows, mapping, map[string]string{}, parser.FormatAuto)
		require.Len(t, result.Issues, 1)
		assert.Equal(t, SeverityInfo, result.Issues[0].Severity)
	})

	t.Run("per-kind issues are capped at five", func(t *testing.T) {
		var rows []map[string]string
		for i := 0; i < 8; i++ {
			rows = append(rows, map[string]string{"date": "2026-01", "sku": fmt.Sprintf("S%d", i), "cat": "Mystery", "total": "10"})
		}
		result := Normalize(rows, mapping, map[string]string{}, parser.FormatAuto)
		assert.Len(t, result.Records, 8)
		assert.Len(t, result.Issues, 5)
	})
}

func TestNormalize_BlankRows(t *testing.T) {
	mapping := mapper.ColumnMapping{
		"date":  mapper.FieldDate,
		"sku":   mapper.FieldSKU,
		"total": mapper.FieldTotalAmount,
	}
	rows := []map[string]string{
		{"date": "2026-01", "sku": "X", "total": "10"},
		{"date": "", "sku": "", "total": ""},
		{"date": "2026-02", "sku": "", "total": ""},
		{"date": "2026-03", "sku": "Y", "total": "20"},
	}
	result := Normalize(rows, mapping, nil, parser.FormatAuto)
	assert.Len(t, result.Records, 2)
	assert.Equal(t, 2, result.DiscardedRows)

	require.NotEmpty(t, result.Issues)
	last := result.Issues[len(result.Issues)-1]
	assert.Equal(t, SeverityInfo, last.Severity)
	assert.Equal(t, "2 empty rows removed", last.Message)
}

func TestNormalize_UnmappedFieldsDefault(t *testing.T) {
	mapping := mapper.ColumnMapping{"sku": mapper.FieldSKU}
	rows := []map[string]string{{"sku": "X", "whatever": "ignored"}}
	result := Normalize(rows, mapping, nil, parser.FormatAuto)
	require.Len(t, result.Records, 1)
	rec := result.Records[0]
	assert.Empty(t, rec.Date)
	assert.Equal(t, records.CategoryMisc, rec.CostCategory)
	assert.Zero(t, rec.TotalAmount)
	assert.Equal(t, records.BudgetActual, rec.BudgetType)
}
