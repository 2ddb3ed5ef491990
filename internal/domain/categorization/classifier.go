// Package categorization resolves free-text source category values to the six
// canonical cost categories. Resolution order: learned user mappings first,
// then keyword heuristics, then unresolved (callers fall back to
// Miscellaneous Indirect Costs on commit).
package categorization

import (
	"strings"

	"github.com/cloudflare/ahocorasick"

	"github.com/FACorreiaa/indirect-spend-tracker/internal/domain/records"
)

// keywordGroup couples one canonical category with the substrings that
// identify it. Groups are evaluated in a fixed priority order and the first
// group with any hit wins.
type keywordGroup struct {
	category string
	keywords []string
	matcher  *ahocorasick.Matcher
}

// Classifier maps raw category strings to canonical categories. Each keyword
// group is compiled into an Aho-Corasick matcher so a value is scanned once
// per group regardless of keyword count.
type Classifier struct {
	groups []keywordGroup
	store  *ValueMappingStore // optional learned mappings
}

// NewClassifier creates a classifier with the standard keyword groups.
// The store may be nil, in which case only keyword heuristics apply.
func NewClassifier(store *ValueMappingStore) *Classifier {
	c := &Classifier{store: store}
	for _, g := range defaultKeywordGroups() {
		g.matcher = ahocorasick.NewStringMatcher(g.keywords)
		c.groups = append(c.groups, g)
	}
	return c
}

// defaultKeywordGroups returns the priority-ordered keyword sets. Order
// matters: a value like "office equipment" must resolve to Production
// Equipment, not Office and Print.
func defaultKeywordGroups() []keywordGroup {
	return []keywordGroup{
		{category: records.CategoryClinical, keywords: []string{"lab", "clinical", "test", "analyt", "scientific"}},
		{category: records.CategoryProduction, keywords: []string{"equip", "machine", "reactor", "prod", "manufactur"}},
		{category: records.CategoryWarehouse, keywords: []string{"warehouse", "logistics", "distrib", "transport", "storage"}},
		{category: records.CategoryProfessional, keywords: []string{"consult", "professional", "advisory", "legal", "audit"}},
		{category: records.CategoryOffice, keywords: []string{"office", "print", "stationery", "paper", "toner"}},
		{category: records.CategoryMisc, keywords: []string{"misc", "other", "facility", "utilit", "general"}},
	}
}

// Classify resolves a raw source value. It returns the canonical category and
// true when resolved (by a learned mapping or a keyword hit), or "" and false
// when the value needs explicit user selection.
func (c *Classifier) Classify(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	if c.store != nil {
		if cat, ok := c.store.Lookup(raw); ok {
			return cat, true
		}
	}
	return c.Guess(raw)
}

// Guess applies only the keyword heuristics, ignoring learned mappings.
func (c *Classifier) Guess(raw string) (string, bool) {
	lower := []byte(strings.ToLower(raw))
	for _, g := range c.groups {
		if len(g.matcher.Match(lower)) > 0 {
			return g.category, true
		}
	}
	return "", false
}

// GuessAll seeds a mapping for a set of unique raw values: learned mappings
// win, keyword guesses fill the gaps, unresolvable values are omitted.
func (c *Classifier) GuessAll(values []string) map[string]string {
	out := make(map[string]string, len(values))
	for _, v := range values {
		if cat, ok := c.Classify(v); ok {
			out[v] = cat
		}
	}
	return out
}
