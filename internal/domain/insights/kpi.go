// Package insights computes the analytical read models over the dataset:
// headline KPIs, per-category summaries and savings-opportunity findings.
package insights

import (
	"github.com/shopspring/decimal"

	"github.com/FACorreiaa/indirect-spend-tracker/internal/domain/budget"
	"github.com/FACorreiaa/indirect-spend-tracker/internal/domain/records"
)

// KPI is the headline figure set for a filtered slice of the dataset. All
// monetary figures are computed over Actual records only.
type KPI struct {
	TotalSpend       float64 `json:"total_spend"`
	TotalSavings     float64 `json:"total_savings"`
	PriceImpact      float64 `json:"price_impact"`
	VolumeImpact     float64 `json:"volume_impact"`
	Insourcing       float64 `json:"insourcing"`
	LineItems        int     `json:"line_items"`
	UniqueSKUs       int     `json:"unique_skus"`
	UniqueSuppliers  int     `json:"unique_suppliers"`
	UniqueRequesters int     `json:"unique_requesters"`
	AvgOrderValue    float64 `json:"avg_order_value"`
}

// ComputeKPI aggregates headline figures. Sums are accumulated as decimals so
// long datasets do not accumulate binary rounding drift.
func ComputeKPI(recs []records.Record) KPI {
	spend := decimal.Zero
	price := decimal.Zero
	volume := decimal.Zero
	insourcing := decimal.Zero
	skus := map[string]bool{}
	suppliers := map[string]bool{}
	requesters := map[string]bool{}
	count := 0

	for i := range recs {
		r := &recs[i]
		if !r.IsActual() {
			continue
		}
		count++
		spend = spend.Add(decimal.NewFromFloat(r.TotalAmount))
		price = price.Add(decimal.NewFromFloat(r.PriceImpact))
		volume = volume.Add(decimal.NewFromFloat(r.VolumeImpact))
		insourcing = insourcing.Add(decimal.NewFromFloat(r.InsourcingSavings))
		if r.SKU != "" {
			skus[r.SKU] = true
		}
		if r.Supplier != "" {
			suppliers[r.Supplier] = true
		}
		if r.OrderedBy != "" {
			requesters[r.OrderedBy] = true
		}
	}

	kpi := KPI{
		TotalSpend:       spend.InexactFloat64(),
		PriceImpact:      price.InexactFloat64(),
		VolumeImpact:     volume.InexactFloat64(),
		Insourcing:       insourcing.InexactFloat64(),
		TotalSavings:     price.Add(volume).Add(insourcing).InexactFloat64(),
		LineItems:        count,
		UniqueSKUs:       len(skus),
		UniqueSuppliers:  len(suppliers),
		UniqueRequesters: len(requesters),
	}
	if count > 0 {
		kpi.AvgOrderValue = spend.Div(decimal.NewFromInt(int64(count))).InexactFloat64()
	}
	return kpi
}

// CategorySummary is one row of the per-category breakdown. Target is the
// preliminary forecast: actual spend plus all recorded impact figures, where
// negative impacts are savings.
type CategorySummary struct {
	Category       string  `json:"category"`
	Actual         float64 `json:"actual"`
	Baseline       float64 `json:"baseline"`
	PriceImpact    float64 `json:"price_impact"`
	VolumeImpact   float64 `json:"volume_impact"`
	Insourcing     float64 `json:"insourcing"`
	Target         float64 `json:"target"`
	BudgetTarget   float64 `json:"budget_target"`
	HasBudget      bool    `json:"has_budget"`
	BudgetVariance float64 `json:"budget_variance"`
}

// SummarizeCategories breaks the slice down by canonical category, in display
// order. When year is non-zero, budget targets for that year are joined in and
// the variance (actual minus budget) computed.
func SummarizeCategories(recs []records.Record, targets *budget.TargetStore, year int) []CategorySummary {
	type acc struct {
		actual, baseline, price, volume, insourcing decimal.Decimal
	}
	byCat := map[string]*acc{}
	for _, c := range records.Categories() {
		byCat[c] = &acc{}
	}

	for i := range recs {
		r := &recs[i]
		a, ok := byCat[r.CostCategory]
		if !ok {
			a = &acc{}
			byCat[r.CostCategory] = a
		}
		switch {
		case r.IsActual():
			a.actual = a.actual.Add(decimal.NewFromFloat(r.TotalAmount))
		case r.BudgetType == records.BudgetBaseline:
			a.baseline = a.baseline.Add(decimal.NewFromFloat(r.TotalAmount))
		}
		a.price = a.price.Add(decimal.NewFromFloat(r.PriceImpact))
		a.volume = a.volume.Add(decimal.NewFromFloat(r.VolumeImpact))
		a.insourcing = a.insourcing.Add(decimal.NewFromFloat(r.InsourcingSavings))
	}

	summaries := make([]CategorySummary, 0, len(byCat))
	for _, cat := range records.Categories() {
		a := byCat[cat]
		s := CategorySummary{
			Category:     cat,
			Actual:       a.actual.InexactFloat64(),
			Baseline:     a.baseline.InexactFloat64(),
			PriceImpact:  a.price.InexactFloat64(),
			VolumeImpact: a.volume.InexactFloat64(),
			Insourcing:   a.insourcing.InexactFloat64(),
		}
		// A category with no baseline entries reports its actuals as the
		// baseline so comparisons stay meaningful.
		if s.Baseline == 0 {
			s.Baseline = s.Actual
		}
		s.Target = a.actual.Add(a.price).Add(a.volume).Add(a.insourcing).InexactFloat64()
		if year != 0 && targets != nil {
			if tgt, ok := targets.Get(year, cat); ok {
				s.BudgetTarget = tgt
				s.HasBudget = true
				s.BudgetVariance = s.Actual - tgt
			}
		}
		summaries = append(summaries, s)
	}
	return summaries
}
