package records

import "sort"

// Filter selects a derived view of the collection. Zero values mean "all".
type Filter struct {
	Year     int
	Month    int // 1-12
	Category string
}

// Apply returns the records matching the filter. The result is a derived
// view; the matched records keep their original indices.
func (f Filter) Apply(recs []Record) []Record {
	if f.Year == 0 && f.Month == 0 && f.Category == "" {
		return recs
	}
	out := make([]Record, 0, len(recs))
	for i := range recs {
		r := &recs[i]
		if f.Year != 0 && r.Year() != f.Year {
			continue
		}
		if f.Month != 0 && r.Month() != f.Month {
			continue
		}
		if f.Category != "" && r.CostCategory != f.Category {
			continue
		}
		out = append(out, *r)
	}
	return out
}

// Years returns the distinct years present in the collection, sorted.
func Years(recs []Record) []int {
	seen := make(map[int]struct{})
	for i := range recs {
		if y := recs[i].Year(); y != 0 {
			seen[y] = struct{}{}
		}
	}
	years := make([]int, 0, len(seen))
	for y := range seen {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}

// UsedCategories returns the distinct categories present in the collection,
// sorted.
func UsedCategories(recs []Record) []string {
	seen := make(map[string]struct{})
	for i := range recs {
		if c := recs[i].CostCategory; c != "" {
			seen[c] = struct{}{}
		}
	}
	cats := make([]string, 0, len(seen))
	for c := range seen {
		cats = append(cats, c)
	}
	sort.Strings(cats)
	return cats
}
