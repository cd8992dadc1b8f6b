package odata

import (
	"cmp"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Kind is the type name reported in the metadata document.
type Kind string

const (
	KindInt      Kind = "int"
	KindString   Kind = "string"
	KindDateTime Kind = "datetime"
	KindDecimal  Kind = "decimal"
	KindArray    Kind = "array"
)

// Field is a typed accessor for one property of T. It replaces attribute
// lookup by name: Value feeds projection, String feeds $filter and Compare
// feeds $orderby. Equal, when set, overrides the case-insensitive string
// match of `eq`.
type Field[T any] struct {
	Name    string
	Kind    Kind
	Value   func(T) any
	String  func(T) string
	Compare func(a, b T) int
	Equal   func(t T, literal string) bool
}

func IntField[T any](name string, get func(T) int64) Field[T] {
	return Field[T]{
		Name:    name,
		Kind:    KindInt,
		Value:   func(t T) any { return get(t) },
		String:  func(t T) string { return strconv.FormatInt(get(t), 10) },
		Compare: func(a, b T) int { return cmp.Compare(get(a), get(b)) },
	}
}

func StringField[T any](name string, get func(T) string) Field[T] {
	return Field[T]{
		Name:    name,
		Kind:    KindString,
		Value:   func(t T) any { return get(t) },
		String:  get,
		Compare: func(a, b T) int { return strings.Compare(get(a), get(b)) },
	}
}

func TimeField[T any](name string, get func(T) time.Time) Field[T] {
	return Field[T]{
		Name:    name,
		Kind:    KindDateTime,
		Value:   func(t T) any { return get(t) },
		String:  func(t T) string { return get(t).Format(time.RFC3339) },
		Compare: func(a, b T) int { return get(a).Compare(get(b)) },
	}
}

func DecimalField[T any](name string, get func(T) decimal.Decimal) Field[T] {
	return Field[T]{
		Name:    name,
		Kind:    KindDecimal,
		Value:   func(t T) any { return get(t) },
		String:  func(t T) string { return get(t).String() },
		Compare: func(a, b T) int { return get(a).Cmp(get(b)) },
		Equal:   func(t T, literal string) bool { return decimalEqual(get(t), literal) },
	}
}

// decimalEqual compares by value when literal is numeric, so 50000.0 matches 50000.
func decimalEqual(v decimal.Decimal, literal string) bool {
	d, err := decimal.NewFromString(literal)
	if err != nil {
		return strings.EqualFold(v.String(), literal)
	}
	return v.Equal(d)
}

// StringsField renders as a JSON array; its filter form is the comma-joined list.
func StringsField[T any](name string, get func(T) []string) Field[T] {
	return Field[T]{
		Name: name,
		Kind: KindArray,
		Value: func(t T) any {
			v := get(t)
			if v == nil {
				return []string{}
			}
			return slices.Clone(v)
		},
		String:  func(t T) string { return strings.Join(get(t), ",") },
		Compare: func(a, b T) int { return slices.Compare(get(a), get(b)) },
	}
}

// EntitySet is the accessor table of one collection, built once at startup.
type EntitySet[T any] struct {
	name   string
	key    string
	fields []Field[T]
	index  map[string]int
}

// NewEntitySet panics on duplicate field names or a key that is not a field;
// both are programmer errors in the schema declaration.
func NewEntitySet[T any](name, key string, fields ...Field[T]) *EntitySet[T] {
	s := &EntitySet[T]{
		name:   name,
		key:    key,
		fields: fields,
		index:  make(map[string]int, len(fields)),
	}
	for i, f := range fields {
		if _, dup := s.index[f.Name]; dup {
			panic("odata: duplicate field " + f.Name + " in " + name)
		}
		s.index[f.Name] = i
	}
	if _, ok := s.index[key]; !ok {
		panic("odata: key " + key + " is not a field of " + name)
	}
	return s
}

func (s *EntitySet[T]) Name() string { return s.name }
func (s *EntitySet[T]) Key() string  { return s.key }

func (s *EntitySet[T]) Fields() []Field[T] { return slices.Clone(s.fields) }

// Field looks a property up by its exact (case-sensitive) name.
func (s *EntitySet[T]) Field(name string) (Field[T], bool) {
	i, ok := s.index[name]
	if !ok {
		return Field[T]{}, false
	}
	return s.fields[i], true
}

// Project returns every field of rec in declared order.
func (s *EntitySet[T]) Project(rec T) *Record {
	r := NewRecord(len(s.fields))
	for _, f := range s.fields {
		r.Set(f.Name, f.Value(rec))
	}
	return r
}
