// Package records defines the canonical spend record, the in-memory dataset
// that owns the full collection, and the duplicate-skipping merge used by all
// import paths.
package records

import (
	"strconv"
	"strings"
)

// Canonical cost categories. Every normalized record carries exactly one of
// these; free-text source values are resolved by the categorization package.
const (
	CategoryClinical     = "Clinical, Lab and scientific services"
	CategoryProduction   = "Production Equipment"
	CategoryWarehouse    = "External Warehouse and distribution"
	CategoryProfessional = "Professional Services"
	CategoryMisc         = "Miscellaneous Indirect Costs"
	CategoryOffice       = "Office and Print"
)

// Categories returns the six canonical cost categories in display order.
func Categories() []string {
	return []string{
		CategoryClinical,
		CategoryProduction,
		CategoryWarehouse,
		CategoryProfessional,
		CategoryMisc,
		CategoryOffice,
	}
}

// Budget types
const (
	BudgetActual   = "Actual"
	BudgetBaseline = "Baseline"
	BudgetTarget   = "Target"
)

// Record is the canonical unit of spend data. Text fields are never empty
// pointers, only empty strings; numeric fields default to zero. Dates are
// month-granular ("YYYY-MM").
//
// The csv tags define the canonical export column order; the json tags define
// the persisted blob shape. Both use the same keys.
type Record struct {
	Date              string  `json:"date" csv:"date"`
	CostCategory      string  `json:"cost_category" csv:"cost_category"`
	SubCategory       string  `json:"sub_category" csv:"sub_category"`
	SKU               string  `json:"sku" csv:"sku"`
	Description       string  `json:"item_description" csv:"item_description"`
	Supplier          string  `json:"supplier" csv:"supplier"`
	OrderedBy         string  `json:"ordered_by" csv:"ordered_by"`
	Department        string  `json:"department" csv:"department"`
	CostCenter        string  `json:"cost_center" csv:"cost_center"`
	PONumber          string  `json:"po_number" csv:"po_number"`
	Quantity          float64 `json:"quantity" csv:"quantity"`
	UnitPrice         float64 `json:"unit_price_usd" csv:"unit_price_usd"`
	TotalAmount       float64 `json:"total_amount_usd" csv:"total_amount_usd"`
	BudgetType        string  `json:"budget_type" csv:"budget_type"`
	PriceImpact       float64 `json:"price_impact_usd" csv:"price_impact_usd"`
	VolumeImpact      float64 `json:"volume_impact_usd" csv:"volume_impact_usd"`
	InsourcingSavings float64 `json:"insourcing_savings_usd" csv:"insourcing_savings_usd"`
	Notes             string  `json:"notes" csv:"notes"`

	// Index is the record's position in the dataset. It is recomputed on
	// every mutation and never persisted.
	Index int `json:"-" csv:"-"`
}

// NaturalKey returns the heuristic duplicate-detection key: the PO number when
// present, otherwise date, SKU, supplier and total amount joined. A non-empty
// PO number matches regardless of the other fields; reused PO numbers across
// unrelated orders will be treated as duplicates, which is accepted in favour
// of never dropping a distinct entry whose PO number is blank.
func (r *Record) NaturalKey() string {
	if r.PONumber != "" {
		return r.PONumber
	}
	return r.Date + "|" + r.SKU + "|" + r.Supplier + "|" + strconv.FormatFloat(r.TotalAmount, 'f', -1, 64)
}

// IsBlank reports whether the record carries no data at all: zero total,
// no SKU, no supplier and no description. Such rows are structural noise
// from exports and are dropped during normalization.
func (r *Record) IsBlank() bool {
	return r.TotalAmount == 0 && r.SKU == "" && r.Supplier == "" && r.Description == ""
}

// Year returns the record's year, or 0 when the date is missing or malformed.
func (r *Record) Year() int {
	if len(r.Date) < 4 {
		return 0
	}
	y, err := strconv.Atoi(r.Date[:4])
	if err != nil {
		return 0
	}
	return y
}

// Month returns the record's month (1-12), or 0 when unavailable.
func (r *Record) Month() int {
	parts := strings.SplitN(r.Date, "-", 3)
	if len(parts) < 2 {
		return 0
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 1 || m > 12 {
		return 0
	}
	return m
}

// IsActual reports whether the record counts toward actual spend. Records
// with a blank budget type are treated as Actual.
func (r *Record) IsActual() bool {
	return r.BudgetType == "" || r.BudgetType == BudgetActual
}
