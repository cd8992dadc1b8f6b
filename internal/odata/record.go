package odata

import (
	"bytes"
	"encoding/json"
)

// Record is a field->value mapping that remembers insertion order, so projected
// payloads come out in declared or requested field order. Consumers must not
// depend on that order.
type Record struct {
	keys []string
	vals map[string]any
}

func NewRecord(capacity int) *Record {
	return &Record{
		keys: make([]string, 0, capacity),
		vals: make(map[string]any, capacity),
	}
}

// Set adds or overwrites key. Overwriting keeps the original position.
func (r *Record) Set(key string, value any) {
	if _, ok := r.vals[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.vals[key] = value
}

func (r *Record) Get(key string) (any, bool) {
	v, ok := r.vals[key]
	return v, ok
}

func (r *Record) Has(key string) bool {
	_, ok := r.vals[key]
	return ok
}

func (r *Record) Keys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

func (r *Record) Len() int { return len(r.keys) }

// Pick returns a new record holding only the names present on r, in the given
// order. Unknown and repeated names are dropped.
func (r *Record) Pick(names []string) *Record {
	out := NewRecord(len(names))
	for _, n := range names {
		if v, ok := r.vals[n]; ok {
			out.Set(n, v)
		}
	}
	return out
}

func (r *Record) MarshalJSON() ([]byte, error) {
	if r == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(r.vals[k])
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
