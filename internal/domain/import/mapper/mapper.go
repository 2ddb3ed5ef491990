// Package mapper translates arbitrary source column names to canonical record
// fields. The SAP path uses a static synonym table; the generic path expects
// canonical names and only offers fuzzy suggestions for stragglers.
package mapper

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// ColumnMapping maps source column names to canonical field keys (or a
// reference pseudo-target, or TargetSkip). It is created fresh per import
// attempt and mutated by the user before commit.
type ColumnMapping map[string]string

// AutoMap seeds a mapping from the SAP synonym table. When two headers would
// claim the same canonical target the first wins; the reference-only
// pseudo-targets are exempt, so multiple currency columns may coexist.
func AutoMap(headers []string) ColumnMapping {
	m := make(ColumnMapping, len(headers))
	claimed := make(map[string]bool)
	for _, h := range headers {
		f, ok := LookupSAPField(h)
		if !ok {
			continue
		}
		if claimed[f.Target] && !IsReference(f.Target) {
			continue
		}
		m[h] = f.Target
		claimed[f.Target] = true
	}
	return m
}

// Identity returns the mapping the Generic path uses: every header equal to
// a canonical field name maps to itself, everything else is ignored.
func Identity(headers []string) ColumnMapping {
	canonical := make(map[string]bool)
	for _, f := range CanonicalFields() {
		canonical[f] = true
	}
	m := make(ColumnMapping, len(headers))
	for _, h := range headers {
		if canonical[trim(h)] {
			m[h] = trim(h)
		}
	}
	return m
}

// Set assigns a target to a source column, enforcing exclusivity for
// canonical targets: any other column currently mapped to the same
// non-reference target is reset to skip.
func (m ColumnMapping) Set(header, target string) {
	if target != TargetSkip && !IsReference(target) {
		for h, t := range m {
			if h != header && t == target {
				m[h] = TargetSkip
			}
		}
	}
	m[header] = target
}

// Target returns the mapped target for a source column, or TargetSkip.
func (m ColumnMapping) Target(header string) string {
	if t, ok := m[header]; ok && t != "" {
		return t
	}
	return TargetSkip
}

// Reverse returns canonical field -> source column, excluding skipped and
// reference-only targets.
func (m ColumnMapping) Reverse() map[string]string {
	out := make(map[string]string, len(m))
	for src, target := range m {
		if target == "" || target == TargetSkip || IsReference(target) {
			continue
		}
		out[target] = src
	}
	return out
}

// MappedCount returns how many source columns map to a canonical or
// reference target.
func (m ColumnMapping) MappedCount() int {
	n := 0
	for _, t := range m {
		if t != "" && t != TargetSkip {
			n++
		}
	}
	return n
}

// CountSAPMatches returns how many headers hit the SAP synonym table.
func CountSAPMatches(headers []string) int {
	n := 0
	for _, h := range headers {
		if _, ok := LookupSAPField(h); ok {
			n++
		}
	}
	return n
}

// Suggest ranks canonical fields as candidate targets for an unmapped
// header, best first. Useful for columns the synonym table does not know.
func Suggest(header string, max int) []string {
	ranks := fuzzy.RankFindNormalizedFold(trim(header), CanonicalFields())
	if len(ranks) == 0 {
		// Try the looser direction: header as a subsequence target.
		for _, f := range CanonicalFields() {
			if fuzzy.MatchNormalizedFold(f, trim(header)) {
				ranks = append(ranks, fuzzy.Rank{Source: f, Target: f})
			}
		}
	}
	sort.Sort(ranks)
	out := make([]string, 0, len(ranks))
	for _, r := range ranks {
		out = append(out, r.Target)
		if max > 0 && len(out) >= max {
			break
		}
	}
	return out
}

func trim(s string) string { return strings.TrimSpace(s) }
