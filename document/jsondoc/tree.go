package jsondoc

import (
	"bytes"
	"encoding/json"
)

// Object is a JSON object that keeps member order.
type Object struct {
	values map[string]any
	keys   []string
}

// NewObject returns an empty Object.
func NewObject() *Object {
	return &Object{values: make(map[string]any)}
}

// Set adds or replaces a member. Replacing keeps the original position.
func (o *Object) Set(key string, v any) {
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = v
}

// Get returns the member named key.
func (o *Object) Get(key string) (any, bool) {
	v, ok := o.values[key]
	return v, ok
}

// Keys returns member names in insertion order.
func (o *Object) Keys() []string {
	out := make([]string, len(o.keys))
	copy(out, o.keys)
	return out
}

// Len returns the number of members.
func (o *Object) Len() int { return len(o.keys) }

// MarshalJSON writes members in insertion order.
func (o *Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(o.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Array is a growable JSON array.
type Array struct {
	items []any
}

// NewArray returns an empty Array.
func NewArray() *Array { return &Array{} }

// Append adds v to the end.
func (a *Array) Append(v any) { a.items = append(a.items, v) }

// Items returns the elements.
func (a *Array) Items() []any { return a.items }

// Len returns the number of elements.
func (a *Array) Len() int { return len(a.items) }

// MarshalJSON writes the elements. An empty Array encodes as [].
func (a *Array) MarshalJSON() ([]byte, error) {
	if a.items == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(a.items)
}
