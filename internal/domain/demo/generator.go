// Package demo generates a realistic sample dataset for evaluating the app
// without importing real exports.
package demo

import (
	"fmt"
	"math"
	"strings"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/FACorreiaa/indirect-spend-tracker/internal/domain/records"
)

var subCategories = map[string][]string{
	records.CategoryClinical:     {"Analytical testing", "Bioassay services", "Stability testing", "Method validation", "Microbiology testing"},
	records.CategoryProduction:   {"Bioreactor parts", "Filtration systems", "Chromatography columns", "Sensors & probes", "Tubing & connectors"},
	records.CategoryWarehouse:    {"Cold storage", "Ambient storage", "Distribution services", "Packaging materials", "Temperature monitoring"},
	records.CategoryProfessional: {"Consulting", "Regulatory affairs", "Quality auditing", "Training services", "IT services"},
	records.CategoryMisc:         {"Travel", "Subscriptions", "Memberships", "General supplies"},
	records.CategoryOffice:       {"Office supplies", "Printing services", "IT equipment", "Furniture"},
}

var suppliers = map[string][]string{
	records.CategoryClinical:     {"Biorelliance", "Eurofins", "SGS", "Charles River Labs", "WuXi AppTec", "Lek Pharmaceuticals"},
	records.CategoryProduction:   {"Sartorius", "Pall Corporation", "GE Healthcare", "Merck Millipore", "Cytiva", "Thermo Fisher"},
	records.CategoryWarehouse:    {"DHL Life Sciences", "World Courier", "Marken", "FedEx Custom Critical", "Kuehne+Nagel"},
	records.CategoryProfessional: {"Deloitte", "KPMG", "PwC", "Accenture", "McKinsey"},
	records.CategoryMisc:         {"Various", "Amazon Business", "Local vendors", "NIL d.o.o."},
	records.CategoryOffice:       {"Mladinska Knjiga", "Office Depot", "Dell Technologies", "HP Inc"},
}

type requester struct {
	name, dept, cc string
}

var requesters = []requester{
	{"Jan Novak", "QC Laboratory", "CC-4200"},
	{"Maria Schmidt", "Production", "CC-3100"},
	{"Peter Horvat", "Quality Assurance", "CC-4100"},
	{"Ana Krajnc", "R&D", "CC-5000"},
	{"Thomas Mueller", "Engineering", "CC-3200"},
	{"Elena Popovic", "Supply Chain", "CC-2100"},
	{"Marco Rossi", "Facilities", "CC-6000"},
	{"Sophie Weber", "Procurement", "CC-2000"},
	{"Luka Matic", "IT", "CC-7000"},
	{"Katja Zupan", "Regulatory", "CC-4300"},
}

// Relative monthly line-item volume per category.
var categoryWeights = map[string]int{
	records.CategoryClinical:     35,
	records.CategoryProduction:   25,
	records.CategoryWarehouse:    15,
	records.CategoryProfessional: 5,
	records.CategoryMisc:         3,
	records.CategoryOffice:       2,
}

var months = []string{
	"2025-01", "2025-02", "2025-03", "2025-04", "2025-05", "2025-06",
	"2025-07", "2025-08", "2025-09", "2025-10", "2025-11", "2025-12",
	"2026-01", "2026-02",
}

// Generate produces around fourteen months of weighted sample spend. Passing
// the same seed yields the same dataset.
func Generate(seed int64) []records.Record {
	faker := gofakeit.New(seed)

	var data []records.Record
	poCounter := 1
	for _, month := range months {
		for _, cat := range records.Categories() {
			weight := categoryWeights[cat]
			numItems := weight/3 + faker.IntRange(0, weight/2)
			if numItems < 1 {
				numItems = 1
			}
			subs := subCategories[cat]
			sups := suppliers[cat]

			for i := 0; i < numItems; i++ {
				sub := subs[faker.IntRange(0, len(subs)-1)]
				sup := sups[faker.IntRange(0, len(sups)-1)]
				req := requesters[faker.IntRange(0, len(requesters)-1)]
				qty := float64(faker.IntRange(1, 50))
				unitPrice := round2(float64(weight*100) + faker.Float64Range(0, float64(weight)*500))
				total := round2(qty * unitPrice)

				var priceImpact, volumeImpact, insourcing float64
				if faker.Float64Range(0, 1) < 0.3 {
					priceImpact = round2(-total * faker.Float64Range(0.02, 0.07))
				}
				if faker.Float64Range(0, 1) < 0.2 {
					volumeImpact = round2(-total * faker.Float64Range(0.01, 0.04))
				}
				if cat == records.CategoryClinical && faker.Float64Range(0, 1) < 0.15 {
					insourcing = round2(-total * faker.Float64Range(0.05, 0.15))
				}

				notes := ""
				if insourcing < 0 {
					notes = "Internalized from external provider"
				}

				data = append(data, records.Record{
					Date:              month,
					CostCategory:      cat,
					SubCategory:       sub,
					SKU:               fmt.Sprintf("%s-%d", skuPrefix(cat), faker.IntRange(1000, 9999)),
					Description:       sub + " - " + sup + " service/product",
					Supplier:          sup,
					OrderedBy:         req.name,
					Department:        req.dept,
					CostCenter:        req.cc,
					PONumber:          fmt.Sprintf("PO-%s-%04d", strings.ReplaceAll(month, "-", ""), poCounter),
					Quantity:          qty,
					UnitPrice:         unitPrice,
					TotalAmount:       total,
					BudgetType:        records.BudgetActual,
					PriceImpact:       priceImpact,
					VolumeImpact:      volumeImpact,
					InsourcingSavings: insourcing,
					Notes:             notes,
				})
				poCounter++
			}
		}
	}
	return data
}

// skuPrefix derives a three-letter SKU family code from the category name.
func skuPrefix(cat string) string {
	prefix := strings.ToUpper(cat)
	var b strings.Builder
	for _, r := range prefix {
		if r >= 'A' && r <= 'Z' {
			b.WriteRune(r)
		}
		if b.Len() == 3 {
			break
		}
	}
	return b.String()
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
