package odata

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/samber/lo"
)

// Expr is a parsed $filter expression.
type Expr interface {
	expr()
}

type CompareOp string

const (
	OpEq       CompareOp = "eq"
	OpContains CompareOp = "contains"
)

type LogicalOp string

const (
	OpAnd LogicalOp = "and"
	OpOr  LogicalOp = "or"
)

// Comparison is a leaf: `Field eq Value` or `contains(Field, 'Value')`.
type Comparison struct {
	Op    CompareOp
	Field string
	Value string
}

// Logical joins two expressions.
type Logical struct {
	Op          LogicalOp
	Left, Right Expr
}

// Const is a leaf with a fixed outcome. A contains(...) call that does not
// fit the supported pattern parses to Const(false).
type Const bool

func (Comparison) expr() {}
func (Logical) expr()    {}
func (Const) expr()      {}

var containsPattern = regexp.MustCompile(`contains\((\w+),\s*'([^']+)'\)`)

// ParseFilter parses text into an expression tree. `and` binds tighter than
// `or`; both are recognized only in lower case and outside quoted literals.
// When a connective split leaves a piece that is neither supported form, the
// whole text is read as a single leaf, so `Name eq Smith and Sons` compares
// against "Smith and Sons". ErrMalformedOption is returned only when that
// fails too.
func ParseFilter(text string) (Expr, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: empty filter", ErrMalformedOption)
	}

	e, err := parseCompound(text)
	if err == nil {
		return e, nil
	}
	if leaf, leafErr := parseLeaf(text); leafErr == nil {
		return leaf, nil
	}
	return nil, err
}

func parseCompound(text string) (Expr, error) {
	var or Expr
	for _, disjunct := range splitOutsideQuotes(text, " or ") {
		var and Expr
		for _, leafText := range splitOutsideQuotes(disjunct, " and ") {
			leaf, err := parseLeaf(leafText)
			if err != nil {
				return nil, err
			}
			and = join(OpAnd, and, leaf)
		}
		or = join(OpOr, or, and)
	}
	return or, nil
}

func join(op LogicalOp, left, right Expr) Expr {
	if left == nil {
		return right
	}
	return Logical{Op: op, Left: left, Right: right}
}

func parseLeaf(s string) (Expr, error) {
	s = strings.TrimSpace(s)
	if field, value, ok := strings.Cut(s, " eq "); ok {
		return Comparison{
			Op:    OpEq,
			Field: strings.TrimSpace(field),
			Value: unquote(strings.TrimSpace(value)),
		}, nil
	}
	if strings.Contains(s, "contains(") {
		m := containsPattern.FindStringSubmatch(s)
		if m == nil {
			return Const(false), nil
		}
		return Comparison{Op: OpContains, Field: m[1], Value: m[2]}, nil
	}
	return nil, fmt.Errorf("%w: unsupported filter %q", ErrMalformedOption, s)
}

// unquote strips at most one quote character from each end.
func unquote(s string) string {
	if s != "" && (s[0] == '\'' || s[0] == '"') {
		s = s[1:]
	}
	if n := len(s); n > 0 && (s[n-1] == '\'' || s[n-1] == '"') {
		s = s[:n-1]
	}
	return s
}

func splitOutsideQuotes(s, sep string) []string {
	var (
		parts []string
		quote byte
		start int
	)
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"':
			quote = c
		case strings.HasPrefix(s[i:], sep):
			parts = append(parts, s[start:i])
			i += len(sep) - 1
			start = i + 1
		}
	}
	return append(parts, s[start:])
}

// Match evaluates e against rec. Unknown fields never match.
func Match[T any](set *EntitySet[T], e Expr, rec T) bool {
	switch n := e.(type) {
	case Const:
		return bool(n)
	case Comparison:
		f, ok := set.Field(n.Field)
		if !ok {
			return false
		}
		got := f.String(rec)
		switch n.Op {
		case OpEq:
			if f.Equal != nil {
				return f.Equal(rec, n.Value)
			}
			return strings.EqualFold(got, n.Value)
		case OpContains:
			return strings.Contains(strings.ToLower(got), strings.ToLower(n.Value))
		}
	case Logical:
		switch n.Op {
		case OpAnd:
			return Match(set, n.Left, rec) && Match(set, n.Right, rec)
		case OpOr:
			return Match(set, n.Left, rec) || Match(set, n.Right, rec)
		}
	}
	return false
}

// Filter keeps the records matching text, preserving order. Blank text is the
// identity. Text it cannot read fails open: every record is kept and applied
// is false so the caller can tell the client.
func Filter[T any](set *EntitySet[T], text string, records []T) (out []T, applied bool) {
	if strings.TrimSpace(text) == "" {
		return records, true
	}
	e, err := ParseFilter(text)
	if err != nil {
		return records, false
	}
	return lo.Filter(records, func(r T, _ int) bool { return Match(set, e, r) }), true
}
