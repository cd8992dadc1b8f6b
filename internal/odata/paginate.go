package odata

import (
	"github.com/samber/lo"
	"github.com/samber/mo"
)

// Paginate applies $skip then $top and reports the size of the input.
// Zero behaves like an absent option for both, so $top=0 returns everything.
func Paginate[T any](skip, top mo.Option[int], records []T) (page []T, total int) {
	total = len(records)
	page = records
	if n := skip.OrElse(0); n > 0 {
		page = lo.Drop(page, n)
	}
	if n := top.OrElse(0); n > 0 {
		page = lo.Slice(page, 0, n)
	}
	return page, total
}
