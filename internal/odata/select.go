package odata

import (
	"strings"

	"github.com/samber/lo"
)

// SplitSelect turns "A, B,C" into [A B C]. Blank input yields nil, meaning
// every field.
func SplitSelect(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return lo.Map(strings.Split(s, ","), func(f string, _ int) string {
		return strings.TrimSpace(f)
	})
}

// Project maps rec to the requested names that exist on the set, in request
// order. No names means the full projection.
func Project[T any](set *EntitySet[T], rec T, names []string) *Record {
	if len(names) == 0 {
		return set.Project(rec)
	}
	r := NewRecord(len(names))
	for _, n := range names {
		if f, ok := set.Field(n); ok {
			r.Set(n, f.Value(rec))
		}
	}
	return r
}

func Select[T any](set *EntitySet[T], fields string, records []T) []*Record {
	names := SplitSelect(fields)
	return lo.Map(records, func(r T, _ int) *Record {
		return Project(set, r, names)
	})
}
