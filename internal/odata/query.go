package odata

// Envelope is the collection response body.
type Envelope struct {
	Value []*Record `json:"value"`
	Count *int      `json:"count,omitempty"`
}

// Report carries what happened while applying options.
type Report struct {
	FilterApplied bool
	Total         int
}

// Apply runs filter, order, pagination and projection in that order.
func Apply[T any](set *EntitySet[T], opts Options, records []T) (Envelope, Report) {
	filtered, applied := Filter(set, opts.Filter, records)
	ordered := OrderBy(set, opts.OrderBy, filtered)
	page, total := Paginate(opts.Skip, opts.Top, ordered)

	env := Envelope{Value: Select(set, opts.Select, page)}
	if opts.Count {
		env.Count = &total
	}
	return env, Report{FilterApplied: applied, Total: total}
}
