package odata

import (
	"strings"

	"github.com/samber/lo"
)

// Navigation describes a one-to-many link from P to the records of Target.
type Navigation[P, C any] struct {
	Name    string
	Target  *EntitySet[C]
	Related func(parent P, child C) bool
}

// Expand returns the fully projected children of parent when the directive
// mentions the navigation name. Any other directive is ignored.
func Expand[P, C any](directive string, nav Navigation[P, C], parent P, children []C) ([]*Record, bool) {
	if !strings.Contains(directive, nav.Name) {
		return nil, false
	}
	related := lo.Filter(children, func(c C, _ int) bool { return nav.Related(parent, c) })
	return Select(nav.Target, "", related), true
}
