package odata

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/samber/mo"
)

// ErrMalformedOption marks a query option the interpreter could not read.
var ErrMalformedOption = errors.New("malformed query option")

const (
	ParamFilter  = "$filter"
	ParamSelect  = "$select"
	ParamOrderBy = "$orderby"
	ParamTop     = "$top"
	ParamSkip    = "$skip"
	ParamCount   = "$count"
	ParamExpand  = "$expand"
)

// Options is the per-request set of system query options.
type Options struct {
	Filter  string
	Select  string
	OrderBy string
	Expand  string
	Top     mo.Option[int]
	Skip    mo.Option[int]
	Count   bool
}

// ParseOptions reads the $-prefixed options from a query string. Only the
// typed options ($top, $skip, $count) can fail; the text options are kept
// verbatim and interpreted leniently by the stages.
func ParseOptions(q url.Values) (Options, error) {
	opts := Options{
		Filter:  q.Get(ParamFilter),
		Select:  q.Get(ParamSelect),
		OrderBy: q.Get(ParamOrderBy),
		Expand:  q.Get(ParamExpand),
	}

	var err error
	if opts.Top, err = parseNonNegative(q, ParamTop); err != nil {
		return Options{}, err
	}
	if opts.Skip, err = parseNonNegative(q, ParamSkip); err != nil {
		return Options{}, err
	}

	if raw := strings.TrimSpace(q.Get(ParamCount)); raw != "" {
		b, ok := parseBool(raw)
		if !ok {
			return Options{}, fmt.Errorf("%w: %s=%q", ErrMalformedOption, ParamCount, raw)
		}
		opts.Count = b
	}
	return opts, nil
}

func parseNonNegative(q url.Values, name string) (mo.Option[int], error) {
	raw := strings.TrimSpace(q.Get(name))
	if raw == "" {
		return mo.None[int](), nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return mo.None[int](), fmt.Errorf("%w: %s=%q is not a non-negative integer", ErrMalformedOption, name, raw)
	}
	return mo.Some(n), nil
}

func parseBool(s string) (bool, bool) {
	switch strings.ToLower(s) {
	case "true", "1", "yes", "on":
		return true, true
	case "false", "0", "no", "off":
		return false, true
	}
	return false, false
}
