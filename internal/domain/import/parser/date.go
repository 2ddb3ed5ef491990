package parser

import (
	"regexp"
	"strings"
)

// SAP exports carry dates in several shapes depending on layout and locale.
// All of them reduce to month granularity here; the day component is
// discarded.
var (
	reISODate    = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})`)   // YYYY-MM-DD
	reGermanDate = regexp.MustCompile(`^(\d{2})\.(\d{2})\.(\d{4})`) // DD.MM.YYYY
	reCompact    = regexp.MustCompile(`^\d{8}$`)                    // YYYYMMDD
	reUSDate     = regexp.MustCompile(`^(\d{2})/(\d{2})/(\d{4})`)   // MM/DD/YYYY
	reYearSlash  = regexp.MustCompile(`^(\d{4})/(\d{2})`)           // YYYY/MM
)

// NormalizeDate reduces a raw date string to "YYYY-MM". Unrecognized formats
// fall back to the first seven characters of the input verbatim; it never
// fails.
func NormalizeDate(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}

	if m := reISODate.FindStringSubmatch(s); m != nil {
		return m[1] + "-" + m[2]
	}
	if m := reGermanDate.FindStringSubmatch(s); m != nil {
		return m[3] + "-" + m[2]
	}
	if reCompact.MatchString(s) {
		return s[:4] + "-" + s[4:6]
	}
	if m := reUSDate.FindStringSubmatch(s); m != nil {
		return m[3] + "-" + m[1]
	}
	if m := reYearSlash.FindStringSubmatch(s); m != nil {
		return m[1] + "-" + m[2]
	}

	if len(s) > 7 {
		return s[:7]
	}
	return s
}
