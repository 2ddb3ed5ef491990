package insights

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/FACorreiaa/indirect-spend-tracker/internal/domain/records"
)

// Finding priorities.
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// Finding kinds.
const (
	FindingSupplierConsolidation = "supplier_consolidation"
	FindingPriceVariance         = "price_variance"
	FindingTailSpend             = "tail_spend"
	FindingVolumeBundling        = "volume_bundling"
	FindingUntappedSavings       = "untapped_savings"
	FindingSingleSource          = "single_source"
)

// Finding is one detected savings opportunity or sourcing risk.
type Finding struct {
	Type             string   `json:"type"`
	Priority         string   `json:"priority"`
	Category         string   `json:"category"`
	Title            string   `json:"title"`
	Detail           string   `json:"detail"`
	Affected         []string `json:"affected"`
	EstimatedSavings float64  `json:"estimated_savings"`
	Action           string   `json:"action"`
}

// Analyze runs all opportunity detectors over the slice and returns findings
// ordered by estimated savings, largest first. Detectors that need Actual
// spend only filter internally; the untapped-savings check sees all budget
// types because impact figures may sit on non-Actual rows.
func Analyze(recs []records.Record) []Finding {
	actual := make([]records.Record, 0, len(recs))
	for i := range recs {
		if recs[i].IsActual() {
			actual = append(actual, recs[i])
		}
	}

	var findings []Finding
	findings = append(findings, findConsolidation(actual)...)
	findings = append(findings, findPriceVariance(actual)...)
	findings = append(findings, findTailSpend(actual)...)
	findings = append(findings, findVolumeBundling(actual)...)
	findings = append(findings, findUntappedSavings(recs, actual)...)
	findings = append(findings, findSingleSource(actual)...)

	sort.SliceStable(findings, func(i, j int) bool {
		return findings[i].EstimatedSavings > findings[j].EstimatedSavings
	})
	return findings
}

// shortCategory trims a category name at its first comma for display.
func shortCategory(cat string) string {
	if i := strings.Index(cat, ","); i >= 0 {
		return cat[:i]
	}
	return cat
}

func supplierOrUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}

// findConsolidation flags categories where spend is fragmented across many
// suppliers with a weak top-3 share.
func findConsolidation(actual []records.Record) []Finding {
	var findings []Finding
	for _, cat := range records.Categories() {
		var catSpend float64
		supSpend := map[string]float64{}
		for i := range actual {
			r := &actual[i]
			if r.CostCategory != cat {
				continue
			}
			catSpend += r.TotalAmount
			supSpend[supplierOrUnknown(r.Supplier)] += r.TotalAmount
		}
		if len(supSpend) < 5 || catSpend <= 0 {
			continue
		}
		type supTotal struct {
			name  string
			spend float64
		}
		suppliers := make([]supTotal, 0, len(supSpend))
		for name, spend := range supSpend {
			suppliers = append(suppliers, supTotal{name, spend})
		}
		sort.Slice(suppliers, func(i, j int) bool { return suppliers[i].spend > suppliers[j].spend })

		var top3 float64
		for _, s := range suppliers[:3] {
			top3 += s.spend
		}
		share := top3 / catSpend
		if share >= 0.65 {
			continue
		}

		priority := PriorityMedium
		if catSpend > 50000 {
			priority = PriorityHigh
		}
		affected := make([]string, 0, 4)
		for _, s := range suppliers[:min(4, len(suppliers))] {
			affected = append(affected, s.name)
		}
		findings = append(findings, Finding{
			Type:     FindingSupplierConsolidation,
			Priority: priority,
			Category: cat,
			Title:    "Supplier Consolidation",
			Detail: fmt.Sprintf("%d suppliers in %s, top 3 cover only %d%% of spend (%.0fk). Fragmented buying reduces negotiating leverage.",
				len(suppliers), shortCategory(cat), int(math.Round(share*100)), catSpend/1000),
			Affected:         affected,
			EstimatedSavings: math.Round(catSpend * 0.07),
			Action:           "Issue an RFQ to consolidate to 2-3 preferred suppliers with volume commitments.",
		})
	}
	return findings
}

// findPriceVariance flags SKUs bought at materially different unit prices.
func findPriceVariance(actual []records.Record) []Finding {
	type skuAgg struct {
		prices []float64
		qty    float64
		spend  float64
		desc   string
		cat    string
	}
	bySKU := map[string]*skuAgg{}
	for i := range actual {
		r := &actual[i]
		if r.SKU == "" || r.UnitPrice == 0 {
			continue
		}
		a, ok := bySKU[r.SKU]
		if !ok {
			a = &skuAgg{desc: r.Description, cat: r.CostCategory}
			bySKU[r.SKU] = a
		}
		a.prices = append(a.prices, r.UnitPrice)
		a.qty += r.Quantity
		a.spend += r.TotalAmount
	}

	type hit struct {
		sku      string
		desc     string
		variance float64
		savings  float64
		cat      string
	}
	var hits []hit
	for sku, a := range bySKU {
		if len(a.prices) < 2 {
			continue
		}
		minP, maxP := a.prices[0], a.prices[0]
		var sum float64
		for _, p := range a.prices {
			minP = math.Min(minP, p)
			maxP = math.Max(maxP, p)
			sum += p
		}
		variance := (maxP - minP) / minP
		if variance <= 0.15 || a.spend <= 2000 {
			continue
		}
		avg := sum / float64(len(a.prices))
		savings := math.Round((avg - minP) * a.qty * 0.5)
		if savings > 200 {
			hits = append(hits, hit{sku, a.desc, variance, savings, a.cat})
		}
	}
	if len(hits) == 0 {
		return nil
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].savings > hits[j].savings })
	if len(hits) > 5 {
		hits = hits[:5]
	}
	var total float64
	affected := make([]string, 0, len(hits))
	for _, h := range hits {
		total += h.savings
		affected = append(affected, h.sku)
	}
	priority := PriorityMedium
	if total > 10000 {
		priority = PriorityHigh
	}
	top := hits[0]
	label := top.desc
	if label == "" {
		label = top.sku
	}
	if len(label) > 50 {
		label = label[:50]
	}
	return []Finding{{
		Type:     FindingPriceVariance,
		Priority: priority,
		Category: top.cat,
		Title:    "Price Variance Detected",
		Detail: fmt.Sprintf("%d SKU(s) purchased at significantly different prices across POs. Top offender: %s with a %d%% price spread.",
			len(hits), label, int(math.Round(top.variance*100))),
		Affected:         affected,
		EstimatedSavings: total,
		Action:           "Standardize pricing via blanket POs or catalogue agreements. Enforce approved price list.",
	}}
}

// findTailSpend flags a long tail of low-value, low-frequency suppliers.
func findTailSpend(actual []records.Record) []Finding {
	type supAgg struct {
		spend float64
		count int
	}
	bySup := map[string]*supAgg{}
	for i := range actual {
		r := &actual[i]
		name := supplierOrUnknown(r.Supplier)
		a, ok := bySup[name]
		if !ok {
			a = &supAgg{}
			bySup[name] = a
		}
		a.spend += r.TotalAmount
		a.count++
	}

	var tail []string
	var tailSpend float64
	for name, a := range bySup {
		if a.spend < 5000 && a.count <= 5 {
			tail = append(tail, name)
			tailSpend += a.spend
		}
	}
	if len(tail) < 3 {
		return nil
	}
	sort.Strings(tail)
	priority := PriorityLow
	if len(tail) > 10 {
		priority = PriorityMedium
	}
	return []Finding{{
		Type:     FindingTailSpend,
		Priority: priority,
		Category: "All Categories",
		Title:    "Tail Spend Cleanup",
		Detail: fmt.Sprintf("%d suppliers each account for less than 5k in total spend (combined %.0fk). Tail spend increases admin cost and reduces leverage.",
			len(tail), tailSpend/1000),
		Affected:         tail[:min(5, len(tail))],
		EstimatedSavings: math.Round(tailSpend * 0.05),
		Action:           "Consolidate tail suppliers into preferred vendors or a marketplace. Target under 20 active suppliers per category.",
	}}
}

// findVolumeBundling flags SKUs ordered several times in the same month on
// separate POs.
func findVolumeBundling(actual []records.Record) []Finding {
	type bundle struct {
		sku   string
		desc  string
		count int
		spend float64
	}
	byKey := map[string]*bundle{}
	for i := range actual {
		r := &actual[i]
		month := r.Date
		if len(month) > 7 {
			month = month[:7]
		}
		key := r.SKU + "|" + month
		b, ok := byKey[key]
		if !ok {
			b = &bundle{sku: r.SKU, desc: r.Description}
			byKey[key] = b
		}
		b.count++
		b.spend += r.TotalAmount
	}

	var hits []*bundle
	for _, b := range byKey {
		if b.count >= 3 && b.spend > 1000 {
			hits = append(hits, b)
		}
	}
	if len(hits) == 0 {
		return nil
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].spend > hits[j].spend })

	var total float64
	var affected []string
	for _, h := range hits {
		total += h.spend
		if h.sku != "" && len(affected) < 4 {
			affected = append(affected, h.sku)
		}
	}
	priority := PriorityLow
	if total > 30000 {
		priority = PriorityMedium
	}
	top := hits[0]
	label := top.desc
	if label == "" {
		label = top.sku
	}
	if len(label) > 45 {
		label = label[:45]
	}
	return []Finding{{
		Type:     FindingVolumeBundling,
		Priority: priority,
		Category: "Multiple",
		Title:    "Volume Bundling Opportunity",
		Detail: fmt.Sprintf("%d SKU(s) are ordered 3+ times per month in separate POs. Top case: %s (%d orders/month).",
			len(hits), label, top.count),
		Affected:         affected,
		EstimatedSavings: math.Round(total * 0.03),
		Action:           "Consolidate repeat orders into monthly blanket POs. Reduces processing cost and enables volume discounts.",
	}}
}

// findUntappedSavings flags high-spend categories with no recorded savings
// initiatives anywhere in the slice, including non-Actual rows.
func findUntappedSavings(all, actual []records.Record) []Finding {
	var findings []Finding
	for _, cat := range records.Categories() {
		var catActual float64
		for i := range actual {
			if actual[i].CostCategory == cat {
				catActual += actual[i].TotalAmount
			}
		}
		if catActual < 50000 {
			continue
		}
		hasSavings := false
		present := false
		for i := range all {
			r := &all[i]
			if r.CostCategory != cat {
				continue
			}
			present = true
			if r.PriceImpact != 0 || r.VolumeImpact != 0 || r.InsourcingSavings != 0 {
				hasSavings = true
				break
			}
		}
		if !present || hasSavings {
			continue
		}
		priority := PriorityMedium
		if catActual > 100000 {
			priority = PriorityHigh
		}
		findings = append(findings, Finding{
			Type:     FindingUntappedSavings,
			Priority: priority,
			Category: cat,
			Title:    "No Savings Initiatives",
			Detail: fmt.Sprintf("%s has %.0fk in spend but zero recorded savings initiatives. Industry benchmark is 3-7%% savings annually.",
				shortCategory(cat), catActual/1000),
			Affected:         []string{},
			EstimatedSavings: math.Round(catActual * 0.05),
			Action:           "Launch a sourcing initiative: market benchmarking, RFQ, or demand management review.",
		})
	}
	return findings
}

// findSingleSource flags categories fully dependent on one supplier.
func findSingleSource(actual []records.Record) []Finding {
	var findings []Finding
	for _, cat := range records.Categories() {
		var catSpend float64
		suppliers := map[string]bool{}
		for i := range actual {
			r := &actual[i]
			if r.CostCategory != cat {
				continue
			}
			catSpend += r.TotalAmount
			if r.Supplier != "" {
				suppliers[r.Supplier] = true
			}
		}
		if catSpend < 20000 || len(suppliers) != 1 {
			continue
		}
		var sole string
		for name := range suppliers {
			sole = name
		}
		priority := PriorityMedium
		if catSpend > 80000 {
			priority = PriorityHigh
		}
		findings = append(findings, Finding{
			Type:     FindingSingleSource,
			Priority: priority,
			Category: cat,
			Title:    "Single-Source Risk",
			Detail: fmt.Sprintf("%s is 100%% sourced from %s (%.0fk). No competitive leverage or supply continuity fallback.",
				shortCategory(cat), sole, catSpend/1000),
			Affected:         []string{sole},
			EstimatedSavings: math.Round(catSpend * 0.08),
			Action:           "Qualify a second supplier and run a competitive RFQ. Even a 20% split creates leverage for pricing negotiations.",
		})
	}
	return findings
}
