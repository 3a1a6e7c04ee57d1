package listview

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

type Direction int

const (
	Ascending Direction = iota
	Descending
)

// Field extracts one sortable/searchable value from an item. ok=false means
// the value is absent; comparisons against absent values fall back to 0 so
// sparse data never reorders or panics.
type Field[T any] func(item T) (value string, ok bool)

// View is the reusable filter/sort composition for one entity type,
// parameterised by named field accessors.
type View[T any] struct {
	fields     map[string]Field[T]
	searchable []string
}

func NewView[T any]() *View[T] {
	return &View[T]{fields: make(map[string]Field[T])}
}

// Field registers an accessor. Searchable fields take part in free-text
// search; every registered field can be filtered and sorted on.
func (v *View[T]) Field(name string, f Field[T], searchable bool) *View[T] {
	v.fields[name] = f
	if searchable {
		v.searchable = append(v.searchable, name)
	}
	return v
}

type Params struct {
	Search    string
	Filters   map[string]string
	SortField string
	SortDir   Direction
	Page      int
	PageSize  int
}

type Page[T any] struct {
	Items     []T `json:"items"`
	Total     int `json:"total"`
	PageIndex int `json:"page"`
}

// Apply produces the filtered, ordered, paginated view. Search is a
// case-insensitive substring OR across the searchable fields; an empty filter
// value means no constraint; pagination is a pure slice of the result.
func (v *View[T]) Apply(items []T, p Params) Page[T] {
	filtered := make([]T, 0, len(items))
	needle := strings.ToLower(strings.TrimSpace(p.Search))
	for _, item := range items {
		if needle != "" && !v.matchesSearch(item, needle) {
			continue
		}
		if !v.matchesFilters(item, p.Filters) {
			continue
		}
		filtered = append(filtered, item)
	}

	if field, ok := v.fields[p.SortField]; ok {
		sort.SliceStable(filtered, func(i, j int) bool {
			c := compareField(field, filtered[i], filtered[j])
			if p.SortDir == Descending {
				return c > 0
			}
			return c < 0
		})
	}

	total := len(filtered)
	if p.PageSize > 0 {
		start := p.Page * p.PageSize
		if start > total {
			start = total
		}
		end := start + p.PageSize
		if end > total {
			end = total
		}
		filtered = filtered[start:end]
	}
	return Page[T]{Items: filtered, Total: total, PageIndex: p.Page}
}

func (v *View[T]) matchesSearch(item T, needle string) bool {
	for _, name := range v.searchable {
		if val, ok := v.fields[name](item); ok &&
			strings.Contains(strings.ToLower(val), needle) {
			return true
		}
	}
	return false
}

func (v *View[T]) matchesFilters(item T, filters map[string]string) bool {
	for name, want := range filters {
		if want == "" {
			continue
		}
		field, ok := v.fields[name]
		if !ok {
			continue
		}
		got, ok := field(item)
		if !ok || got != want {
			return false
		}
	}
	return true
}

// compareField compares two items on one field: numerically when both values
// parse as decimals, lexicographically otherwise, and as equal when either
// value is absent.
func compareField[T any](field Field[T], a, b T) int {
	va, okA := field(a)
	vb, okB := field(b)
	if !okA || !okB {
		return 0
	}
	if da, err := decimal.NewFromString(va); err == nil {
		if db, err := decimal.NewFromString(vb); err == nil {
			return da.Cmp(db)
		}
	}
	return strings.Compare(strings.ToLower(va), strings.ToLower(vb))
}
