// Package parser provides the low-level input plumbing shared by every import
// path: locale-aware numeric parsing, SAP date normalization, text encoding
// detection and CSV/XLSX tokenization.
package parser

import (
	"strings"

	"github.com/shopspring/decimal"
)

// NumberFormat selects the thousands/decimal separator convention.
type NumberFormat string

const (
	// FormatAuto infers the convention per value: a comma after the last
	// dot means comma-decimal (EU), otherwise commas are thousands
	// separators (US).
	FormatAuto NumberFormat = "auto"
	// FormatEU reads 1.234,56 style values.
	FormatEU NumberFormat = "EU"
	// FormatUS reads 1,234.56 style values.
	FormatUS NumberFormat = "US"
)

// ParseNumber converts a free-form numeric string to a float under the given
// convention. Whitespace and euro signs are stripped, SAP trailing-minus
// notation ("123,45-") is recognized as negative. It never fails: empty or
// unparseable input yields 0.
func ParseNumber(s string, format NumberFormat) float64 {
	s = stripNumericNoise(s)
	if s == "" {
		return 0
	}

	if strings.HasSuffix(s, "-") {
		s = "-" + s[:len(s)-1]
	}

	switch format {
	case FormatEU:
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	case FormatUS:
		s = strings.ReplaceAll(s, ",", "")
	default:
		// Auto: a comma after the last dot marks comma as the decimal
		// separator.
		lastComma := strings.LastIndex(s, ",")
		lastDot := strings.LastIndex(s, ".")
		if lastComma > -1 && lastComma > lastDot {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0
	}
	return d.InexactFloat64()
}

// stripNumericNoise removes whitespace and currency markers
func stripNumericNoise(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == ' ' || r == '\t' || r == ' ':
			return -1
		case r == '€' || r == '$':
			return -1
		}
		return r
	}, strings.TrimSpace(s))
}
