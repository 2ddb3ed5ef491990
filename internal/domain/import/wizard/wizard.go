// Package wizard drives the five-step SAP import flow: detect the source,
// confirm column and category mappings, review a computed preview, then merge
// the batch into the dataset.
package wizard

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/FACorreiaa/indirect-spend-tracker/internal/domain/categorization"
	"github.com/FACorreiaa/indirect-spend-tracker/internal/domain/import/mapper"
	"github.com/FACorreiaa/indirect-spend-tracker/internal/domain/import/normalizer"
	"github.com/FACorreiaa/indirect-spend-tracker/internal/domain/import/parser"
	"github.com/FACorreiaa/indirect-spend-tracker/internal/domain/import/sniffer"
	"github.com/FACorreiaa/indirect-spend-tracker/internal/domain/records"
)

// Step identifies one stage of the import flow. Steps advance strictly in
// order; Back never skips.
type Step int

const (
	StepDetect Step = iota
	StepMapColumns
	StepMapCategories
	StepReviewSettings
	StepExecute
)

func (s Step) String() string {
	switch s {
	case StepDetect:
		return "detect"
	case StepMapColumns:
		return "map_columns"
	case StepMapCategories:
		return "map_categories"
	case StepReviewSettings:
		return "review"
	case StepExecute:
		return "execute"
	}
	return fmt.Sprintf("step(%d)", int(s))
}

// ErrNoRecords is returned by Execute when the current settings produce an
// empty batch; the wizard stays on the review step so the user can adjust.
var ErrNoRecords = errors.New("wizard: no importable records under current settings")

// Preview is the dry-run summary recomputed whenever the review step is
// entered or a setting changes on it.
type Preview struct {
	SourceRows      int
	RecordCount     int
	TotalAmount     float64
	UniqueSuppliers int
	UniqueSKUs      int
	DateFrom        string
	DateTo          string
	Sample          []records.Record // first ten normalized records
	Issues          []normalizer.Issue
	DiscardedRows   int
}

// Wizard holds one in-flight import. It is single-use; after a successful
// Execute it cannot be restarted.
type Wizard struct {
	dataset *records.Dataset
	values  *categorization.ValueMappingStore
	logger  *slog.Logger

	step            Step
	table           *parser.Table
	mapping         mapper.ColumnMapping
	categoryMapping map[string]string
	numberFormat    parser.NumberFormat
	appendMode      bool
	preview         *Preview
	done            bool
}

// Start builds a wizard over an already-parsed table. Column mappings are
// seeded from the SAP synonym table, category mappings from saved mappings
// and keyword guesses, and the numeric convention from value sampling.
func Start(table *parser.Table, dataset *records.Dataset, values *categorization.ValueMappingStore, classifier *categorization.Classifier, logger *slog.Logger) *Wizard {
	w := &Wizard{
		dataset:      dataset,
		values:       values,
		logger:       logger,
		step:         StepDetect,
		table:        table,
		mapping:      mapper.AutoMap(table.Headers),
		numberFormat: sniffer.DetectNumberFormat(table.Headers, table.Rows),
	}

	w.categoryMapping = map[string]string{}
	if src, ok := w.mapping.Reverse()[mapper.FieldCostCategory]; ok {
		seen := map[string]bool{}
		var distinct []string
		for _, row := range table.Rows {
			v := row[src]
			if v == "" || seen[v] {
				continue
			}
			seen[v] = true
			distinct = append(distinct, v)
		}
		w.categoryMapping = classifier.GuessAll(distinct)
	}

	logger.Info("import wizard started",
		slog.Int("rows", len(table.Rows)),
		slog.Int("mapped_columns", w.mapping.MappedCount()),
		slog.Int("distinct_categories", len(w.categoryMapping)),
		slog.String("number_format", string(w.numberFormat)))
	return w
}

// Step returns the wizard's current step.
func (w *Wizard) Step() Step { return w.step }

// Table returns the parsed source table.
func (w *Wizard) Table() *parser.Table { return w.table }

// Mapping returns the live column mapping; edits through it take effect on
// the next preview computation.
func (w *Wizard) Mapping() mapper.ColumnMapping { return w.mapping }

// CategoryMapping returns the live source-value to canonical-category map.
func (w *Wizard) CategoryMapping() map[string]string { return w.categoryMapping }

// Suggestions returns ranked canonical-field candidates for the source
// columns the synonym table left unmapped, keyed by column header. Columns
// with no plausible candidate are omitted.
func (w *Wizard) Suggestions() map[string][]string {
	out := map[string][]string{}
	for _, header := range w.table.Headers {
		if w.mapping.Target(header) != mapper.TargetSkip {
			continue
		}
		if fields := mapper.Suggest(header, 3); len(fields) > 0 {
			out[header] = fields
		}
	}
	return out
}

// NumberFormat returns the numeric convention applied to value parsing.
func (w *Wizard) NumberFormat() parser.NumberFormat { return w.numberFormat }

// SetNumberFormat overrides the detected numeric convention. On the review
// step the preview is recomputed immediately.
func (w *Wizard) SetNumberFormat(f parser.NumberFormat) {
	w.numberFormat = f
	if w.step == StepReviewSettings {
		w.computePreview()
	}
}

// SetMapping reassigns one source column to a canonical field, stealing the
// field from any column that currently holds it.
func (w *Wizard) SetMapping(header, target string) {
	w.mapping.Set(header, target)
	if w.step == StepReviewSettings {
		w.computePreview()
	}
}

// SetAppendMode chooses between appending to the dataset (with duplicate
// skipping) and replacing it wholesale.
func (w *Wizard) SetAppendMode(mode bool) { w.appendMode = mode }

// AppendMode reports the current merge mode.
func (w *Wizard) AppendMode() bool { return w.appendMode }

// SetCategoryMapping assigns a canonical category to one source value.
func (w *Wizard) SetCategoryMapping(raw, category string) {
	w.categoryMapping[raw] = category
	if w.step == StepReviewSettings {
		w.computePreview()
	}
}

// Preview returns the current dry-run summary, or nil before the review step
// has been reached.
func (w *Wizard) Preview() *Preview { return w.preview }

// Next advances to the following step. Entering the review step computes the
// preview; advancing past it is not possible through Next, use Execute.
func (w *Wizard) Next() Step {
	if w.step >= StepReviewSettings {
		return w.step
	}
	w.step++
	if w.step == StepReviewSettings {
		w.computePreview()
	}
	return w.step
}

// Back returns to the previous step. The preview is kept so re-entering
// review is cheap when nothing changed.
func (w *Wizard) Back() Step {
	if w.step > StepDetect {
		w.step--
	}
	return w.step
}

// Execute runs the import with the confirmed settings. Confirmed category
// mappings are persisted globally before the merge so future imports resolve
// the same source values automatically. A batch that normalizes to zero
// records aborts with ErrNoRecords and leaves the wizard on the review step.
func (w *Wizard) Execute() (records.MergeResult, error) {
	if w.done {
		return records.MergeResult{}, errors.New("wizard: already executed")
	}
	if w.preview == nil {
		w.computePreview()
	}
	result := normalizer.Normalize(w.table.Rows, w.mapping, w.categoryMapping, w.numberFormat)
	if len(result.Records) == 0 {
		w.step = StepReviewSettings
		return records.MergeResult{}, ErrNoRecords
	}

	w.values.Merge(w.categoryMapping)

	var merge records.MergeResult
	if w.appendMode {
		merge = w.dataset.Append(result.Records)
	} else {
		w.dataset.Replace(result.Records)
		merge = records.MergeResult{Added: len(result.Records)}
	}

	w.step = StepExecute
	w.done = true
	w.logger.Info("import wizard executed",
		slog.Int("added", merge.Added),
		slog.Int("skipped", merge.Skipped),
		slog.Bool("append", w.appendMode))
	return merge, nil
}

func (w *Wizard) computePreview() {
	result := normalizer.Normalize(w.table.Rows, w.mapping, w.categoryMapping, w.numberFormat)

	p := &Preview{
		SourceRows:    len(w.table.Rows),
		RecordCount:   len(result.Records),
		Issues:        result.Issues,
		DiscardedRows: result.DiscardedRows,
	}

	suppliers := map[string]bool{}
	skus := map[string]bool{}
	var dates []string
	for _, rec := range result.Records {
		p.TotalAmount += rec.TotalAmount
		if rec.Supplier != "" {
			suppliers[rec.Supplier] = true
		}
		if rec.SKU != "" {
			skus[rec.SKU] = true
		}
		if rec.Date != "" {
			dates = append(dates, rec.Date)
		}
	}
	p.UniqueSuppliers = len(suppliers)
	p.UniqueSKUs = len(skus)
	if len(dates) > 0 {
		sort.Strings(dates)
		p.DateFrom = dates[0]
		p.DateTo = dates[len(dates)-1]
	}

	n := len(result.Records)
	if n > 10 {
		n = 10
	}
	p.Sample = result.Records[:n]

	w.preview = p
}
