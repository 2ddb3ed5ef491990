// Package sniffer classifies uploaded files into the three supported import
// dialects and infers the numeric convention of SAP exports from sample rows.
package sniffer

import (
	"regexp"
	"strings"

	"github.com/FACorreiaa/indirect-spend-tracker/internal/domain/import/mapper"
	"github.com/FACorreiaa/indirect-spend-tracker/internal/domain/import/parser"
)

// Format identifies an import dialect.
type Format string

const (
	// FormatGeneric is the canonical columnar CSV (the app's own export
	// shape).
	FormatGeneric Format = "generic"
	// FormatIzvoz is the aggregated vendor-spend export: one row per
	// category/vendor total, values in thousands of EUR.
	FormatIzvoz Format = "izvoz"
	// FormatSAP is an SAP S4 HANA export needing column translation.
	FormatSAP Format = "sap"
)

// izvozMarker is the single column that identifies the Izvoz dialect.
const izvozMarker = "indirect category mapping"

// sapMatchThreshold is the number of synonym-table hits that qualifies a
// header set as an SAP export.
const sapMatchThreshold = 2

// Detect classifies a header set. The Izvoz marker takes precedence: a file
// carrying it routes to the Izvoz path even when SAP field names are also
// present. Detection is a pure function of the headers.
func Detect(headers []string) Format {
	for _, h := range headers {
		if strings.Contains(strings.ToLower(strings.TrimSpace(h)), izvozMarker) {
			return FormatIzvoz
		}
	}
	if mapper.CountSAPMatches(headers) >= sapMatchThreshold {
		return FormatSAP
	}
	return FormatGeneric
}

// numberFormatSampleRows caps how many rows the numeric sub-detector reads.
const numberFormatSampleRows = 50

var (
	reEUGrouped = regexp.MustCompile(`\d+\.\d{3},\d`)
	reUSGrouped = regexp.MustCompile(`\d+,\d{3}\.\d`)
	reEUDecimal = regexp.MustCompile(`,\d{2}$`)
	reUSDecimal = regexp.MustCompile(`\.\d{2}$`)
)

// DetectNumberFormat inspects the columns the synonym table maps to
// quantity, unit price or total across up to the first 50 rows and picks the
// convention with more matches. Ties resolve to US, matching the parser's
// default. The result seeds the wizard and remains user-overridable.
func DetectNumberFormat(headers []string, rows []map[string]string) parser.NumberFormat {
	var numericHeaders []string
	for _, h := range headers {
		f, ok := mapper.LookupSAPField(h)
		if !ok {
			continue
		}
		switch f.Target {
		case mapper.FieldQuantity, mapper.FieldUnitPrice, mapper.FieldTotalAmount:
			numericHeaders = append(numericHeaders, h)
		}
	}

	euCount, usCount := 0, 0
	for i, row := range rows {
		if i >= numberFormatSampleRows {
			break
		}
		for _, h := range numericHeaders {
			val := strings.TrimSpace(row[h])
			if val == "" {
				continue
			}
			switch {
			case reEUGrouped.MatchString(val):
				euCount++
			case reUSGrouped.MatchString(val):
				usCount++
			case reEUDecimal.MatchString(val) && !reUSDecimal.MatchString(val):
				euCount++
			case reUSDecimal.MatchString(val) && !reEUDecimal.MatchString(val):
				usCount++
			}
		}
	}

	if euCount > usCount {
		return parser.FormatEU
	}
	return parser.FormatUS
}
