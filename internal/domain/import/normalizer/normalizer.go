// Package normalizer turns mapped source rows into canonical records and
// collects the structured issues surfaced to the user after an import.
package normalizer

import (
	"fmt"
	"strings"

	"github.com/FACorreiaa/indirect-spend-tracker/internal/domain/import/mapper"
	"github.com/FACorreiaa/indirect-spend-tracker/internal/domain/import/parser"
	"github.com/FACorreiaa/indirect-spend-tracker/internal/domain/records"
)

// Severity classifies an import issue.
type Severity string

const (
	SeverityInfo  Severity = "info"
	SeverityWarn  Severity = "warn"
	SeverityError Severity = "error"
)

// Issue is one user-visible finding from normalization.
type Issue struct {
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

// Result is the outcome of normalizing a batch of rows.
type Result struct {
	Records       []records.Record
	Issues        []Issue
	DiscardedRows int // structurally blank rows dropped from the batch
}

// issueCap limits how many occurrences of one issue kind are reported
// individually; later occurrences are handled silently but still counted.
const issueCap = 5

// Normalize builds canonical records from raw rows under a resolved column
// mapping, category-value mapping and numeric convention. Per-row problems
// never abort the batch; they become issues on the result.
func Normalize(rows []map[string]string, cols mapper.ColumnMapping, categories map[string]string, format parser.NumberFormat) *Result {
	result := &Result{Records: make([]records.Record, 0, len(rows))}
	reverse := cols.Reverse()

	sourceFor := func(field string) (string, bool) {
		src, ok := reverse[field]
		return src, ok
	}

	unknownCategories := 0
	missingDates := 0
	zeroAmounts := 0

	for i, raw := range rows {
		rowNum := i + 1

		text := func(field string) string {
			src, ok := sourceFor(field)
			if !ok {
				return ""
			}
			return strings.TrimSpace(raw[src])
		}
		number := func(field string) float64 {
			src, ok := sourceFor(field)
			if !ok {
				return 0
			}
			return parser.ParseNumber(raw[src], format)
		}

		rec := records.Record{
			SubCategory:       text(mapper.FieldSubCategory),
			SKU:               text(mapper.FieldSKU),
			Description:       text(mapper.FieldDescription),
			Supplier:          text(mapper.FieldSupplier),
			OrderedBy:         text(mapper.FieldOrderedBy),
			Department:        text(mapper.FieldDepartment),
			CostCenter:        text(mapper.FieldCostCenter),
			PONumber:          text(mapper.FieldPONumber),
			Notes:             text(mapper.FieldNotes),
			BudgetType:        text(mapper.FieldBudgetType),
			Quantity:          number(mapper.FieldQuantity),
			UnitPrice:         number(mapper.FieldUnitPrice),
			TotalAmount:       number(mapper.FieldTotalAmount),
			PriceImpact:       number(mapper.FieldPriceImpact),
			VolumeImpact:      number(mapper.FieldVolumeImpact),
			InsourcingSavings: number(mapper.FieldInsourcingSavings),
		}

		if src, ok := sourceFor(mapper.FieldDate); ok {
			rec.Date = parser.NormalizeDate(raw[src])
		}

		rawCategory := text(mapper.FieldCostCategory)
		if mapped, ok := categories[rawCategory]; ok && mapped != "" {
			rec.CostCategory = mapped
		} else {
			rec.CostCategory = records.CategoryMisc
			if rawCategory != "" {
				unknownCategories++
				if unknownCategories <= issueCap {
					result.Issues = append(result.Issues, Issue{
						Severity: SeverityWarn,
						Message:  fmt.Sprintf("Row %d: Unknown category %q mapped to %s", rowNum, rawCategory, records.CategoryMisc),
					})
				}
			}
		}

		// A total of exactly zero with both factors present is treated as
		// absent and derived; any explicit source total wins verbatim.
		if rec.TotalAmount == 0 && rec.Quantity > 0 && rec.UnitPrice > 0 {
			rec.TotalAmount = rec.Quantity * rec.UnitPrice
		}
		if rec.BudgetType == "" {
			rec.BudgetType = records.BudgetActual
		}

		if rec.IsBlank() {
			result.DiscardedRows++
			continue
		}

		if rec.Date == "" {
			missingDates++
			if missingDates <= issueCap {
				result.Issues = append(result.Issues, Issue{
					Severity: SeverityWarn,
					Message:  fmt.Sprintf("Row %d: Missing date", rowNum),
				})
			}
		}
		if rec.TotalAmount == 0 {
			zeroAmounts++
			if zeroAmounts <= issueCap {
				result.Issues = append(result.Issues, Issue{
					Severity: SeverityInfo,
					Message:  fmt.Sprintf("Row %d: Zero amount", rowNum),
				})
			}
		}

		result.Records = append(result.Records, rec)
	}

	if result.DiscardedRows > 0 {
		result.Issues = append(result.Issues, Issue{
			Severity: SeverityInfo,
			Message:  fmt.Sprintf("%d empty rows removed", result.DiscardedRows),
		})
	}

	return result
}
