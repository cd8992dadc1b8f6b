package odata

import (
	"slices"
	"strings"
)

// ParseOrderBy splits "<field> [asc|desc]". Only a second token equal to desc
// (any case) selects descending order.
func ParseOrderBy(clause string) (field string, desc bool) {
	parts := strings.Fields(clause)
	if len(parts) == 0 {
		return "", false
	}
	return parts[0], len(parts) > 1 && strings.EqualFold(parts[1], "desc")
}

// OrderBy stable-sorts a copy of records by the field's native ordering.
// An unknown field leaves the input untouched.
func OrderBy[T any](set *EntitySet[T], clause string, records []T) []T {
	name, desc := ParseOrderBy(clause)
	if name == "" {
		return records
	}
	f, ok := set.Field(name)
	if !ok || f.Compare == nil {
		return records
	}

	out := slices.Clone(records)
	slices.SortStableFunc(out, func(a, b T) int {
		if desc {
			return f.Compare(b, a)
		}
		return f.Compare(a, b)
	})
	return out
}
