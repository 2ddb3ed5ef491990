// Package service orchestrates file imports: it decodes the payload, detects
// the source format and routes to the generic, Izvoz or SAP pipeline.
package service

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/google/uuid"

	"github.com/FACorreiaa/indirect-spend-tracker/internal/domain/budget"
	"github.com/FACorreiaa/indirect-spend-tracker/internal/domain/categorization"
	"github.com/FACorreiaa/indirect-spend-tracker/internal/domain/import/mapper"
	"github.com/FACorreiaa/indirect-spend-tracker/internal/domain/import/normalizer"
	"github.com/FACorreiaa/indirect-spend-tracker/internal/domain/import/parser"
	"github.com/FACorreiaa/indirect-spend-tracker/internal/domain/import/sniffer"
	"github.com/FACorreiaa/indirect-spend-tracker/internal/domain/import/wizard"
	"github.com/FACorreiaa/indirect-spend-tracker/internal/domain/records"
)

// targetsYear is the budget year Izvoz target columns are booked under.
const targetsYear = 2026

// ErrNoRecords refuses a batch whose rows all normalize away. The existing
// dataset is left untouched; imports commit all or nothing.
var ErrNoRecords = errors.New("no importable records in file")

// Service routes uploaded files through the right import pipeline.
type Service struct {
	dataset    *records.Dataset
	targets    *budget.TargetStore
	values     *categorization.ValueMappingStore
	classifier *categorization.Classifier
	logger     *slog.Logger
}

// NewService wires the import service over its collaborators.
func NewService(dataset *records.Dataset, targets *budget.TargetStore, values *categorization.ValueMappingStore, classifier *categorization.Classifier, logger *slog.Logger) *Service {
	return &Service{
		dataset:    dataset,
		targets:    targets,
		values:     values,
		classifier: classifier,
		logger:     logger,
	}
}

// Result describes a completed (non-wizard) import.
type Result struct {
	BatchID string
	Format  sniffer.Format
	Merge   records.MergeResult
	Issues  []normalizer.Issue

	// Wizard is set, and the rest zero, when the file is an SAP export that
	// needs the interactive mapping flow.
	Wizard *wizard.Wizard
}

// ImportCSV decodes and imports a CSV payload. Generic and Izvoz files are
// processed end to end; SAP exports return a started wizard instead.
func (s *Service) ImportCSV(data []byte, appendMode bool) (*Result, error) {
	return s.ImportCSVAs(data, "", appendMode)
}

// ImportCSVAs imports a CSV payload under a forced dialect, bypassing header
// detection. An empty format detects as usual.
func (s *Service) ImportCSVAs(data []byte, format sniffer.Format, appendMode bool) (*Result, error) {
	text, err := parser.DecodeText(data)
	if err != nil {
		return nil, fmt.Errorf("import csv: %w", err)
	}
	table, err := parser.ReadCSV(text)
	if err != nil {
		return nil, fmt.Errorf("import csv: %w", err)
	}
	return s.importTable(table, format, appendMode)
}

// ImportXLSX imports the first sheet of a workbook through the same routing
// as CSV files.
func (s *Service) ImportXLSX(data []byte, appendMode bool) (*Result, error) {
	return s.ImportXLSXAs(data, "", appendMode)
}

// ImportXLSXAs is ImportCSVAs for workbooks.
func (s *Service) ImportXLSXAs(data []byte, format sniffer.Format, appendMode bool) (*Result, error) {
	table, err := parser.ReadXLSX(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("import xlsx: %w", err)
	}
	return s.importTable(table, format, appendMode)
}

func (s *Service) importTable(table *parser.Table, format sniffer.Format, appendMode bool) (*Result, error) {
	batchID := uuid.NewString()
	if format == "" {
		format = sniffer.Detect(table.Headers)
	}

	logger := s.logger.With(slog.String("batch_id", batchID), slog.String("format", string(format)))
	logger.Info("import started",
		slog.Int("rows", len(table.Rows)),
		slog.Int("bad_rows", table.BadRows),
		slog.Bool("append", appendMode))

	result := &Result{BatchID: batchID, Format: format}
	if table.BadRows > 0 {
		result.Issues = append(result.Issues, normalizer.Issue{
			Severity: normalizer.SeverityWarn,
			Message:  fmt.Sprintf("%d malformed rows could not be parsed", table.BadRows),
		})
	}

	switch format {
	case sniffer.FormatIzvoz:
		if err := s.importIzvoz(table, appendMode, result); err != nil {
			return nil, err
		}
	case sniffer.FormatSAP:
		w := wizard.Start(table, s.dataset, s.values, s.classifier, logger)
		w.SetAppendMode(appendMode)
		result.Wizard = w
		logger.Info("sap export detected, wizard required")
		return result, nil
	default:
		if err := s.importGeneric(table, appendMode, result); err != nil {
			return nil, err
		}
	}

	logger.Info("import finished",
		slog.Int("added", result.Merge.Added),
		slog.Int("skipped", result.Merge.Skipped),
		slog.Int("issues", len(result.Issues)))
	return result, nil
}

// importGeneric handles files whose headers already match the canonical
// column set, such as the app's own exports and filled-in templates.
func (s *Service) importGeneric(table *parser.Table, appendMode bool, result *Result) error {
	mapping := mapper.Identity(table.Headers)
	norm := normalizer.Normalize(table.Rows, mapping, canonicalCategoryMap(), parser.FormatAuto)
	result.Issues = mergeIssues(result.Issues, norm.Issues)
	if len(norm.Records) == 0 {
		return fmt.Errorf("generic import: %w", ErrNoRecords)
	}

	if appendMode {
		result.Merge = s.dataset.Append(norm.Records)
	} else {
		s.dataset.Replace(norm.Records)
		result.Merge = records.MergeResult{Added: len(norm.Records)}
	}
	return nil
}

// canonicalCategoryMap maps each canonical category name to itself so generic
// files keep their categories verbatim; unknown values still fall through to
// the normalizer's Miscellaneous default.
func canonicalCategoryMap() map[string]string {
	m := make(map[string]string, 6)
	for _, c := range records.Categories() {
		m[c] = c
	}
	return m
}

// importIzvoz converts a per-vendor annual summary into monthly-granular
// records. Spend figures are in thousands of euro and may be negative in the
// source; both are normalized. Target columns feed the budget target store.
func (s *Service) importIzvoz(table *parser.Table, appendMode bool, result *Result) error {
	categoryCol := findColumn(table.Headers, "category")
	vendorCol := findColumn(table.Headers, "vendor")
	spendCol := findColumn(table.Headers, "ytd spend")
	if spendCol == "" {
		spendCol = findColumn(table.Headers, "spend")
	}
	targetCol := findColumn(table.Headers, "target")

	if categoryCol == "" || spendCol == "" {
		return fmt.Errorf("izvoz import: missing required columns (have %v)", table.Headers)
	}

	recs := make([]records.Record, 0, len(table.Rows))
	targetsByCategory := map[string]float64{}
	for _, row := range table.Rows {
		rawCategory := strings.TrimSpace(row[categoryCol])
		if rawCategory == "" {
			continue
		}
		category, ok := s.classifier.Classify(rawCategory)
		if !ok {
			category = records.CategoryMisc
		}

		vendor := ""
		if vendorCol != "" {
			vendor = strings.TrimSpace(row[vendorCol])
		}

		// Spend and target figures are in thousands and negative by the
		// export's sign convention; both book as absolute euro amounts.
		spend := math.Abs(parser.ParseNumber(row[spendCol], parser.FormatAuto)) * 1000
		description := vendor
		if description == "" {
			description = rawCategory
		}
		recs = append(recs, records.Record{
			Date:         "2025-12",
			CostCategory: category,
			Supplier:     vendor,
			Description:  description,
			Quantity:     1,
			UnitPrice:    spend,
			TotalAmount:  spend,
			BudgetType:   records.BudgetActual,
		})

		if targetCol != "" {
			if target := math.Abs(parser.ParseNumber(row[targetCol], parser.FormatAuto)) * 1000; target > 0 {
				targetsByCategory[category] += target
			}
		}
	}

	if len(recs) == 0 {
		return fmt.Errorf("izvoz import: %w", ErrNoRecords)
	}

	if len(targetsByCategory) > 0 {
		s.targets.Merge(targetsYear, targetsByCategory)
	}

	if appendMode {
		result.Merge = s.dataset.Append(recs)
	} else {
		s.dataset.Replace(recs)
		result.Merge = records.MergeResult{Added: len(recs)}
	}
	if len(targetsByCategory) > 0 {
		result.Issues = append(result.Issues, normalizer.Issue{
			Severity: normalizer.SeverityInfo,
			Message:  fmt.Sprintf("Imported budget targets for %d categories", len(targetsByCategory)),
		})
	}
	return nil
}

// findColumn returns the first header containing needle, case-insensitively.
func findColumn(headers []string, needle string) string {
	for _, h := range headers {
		if strings.Contains(strings.ToLower(h), needle) {
			return h
		}
	}
	return ""
}

func mergeIssues(dst, src []normalizer.Issue) []normalizer.Issue {
	return append(dst, src...)
}
