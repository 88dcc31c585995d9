// Package optional provides a JSON field that distinguishes "absent", "null" and "value".
package optional

import (
	"bytes"
	"encoding/json"
)

// Value is a tri-state patch field.
//
//	{}              -> Set == false
//	{"field": null} -> Set == true, Null == true
//	{"field": x}    -> Set == true, Null == false, V == x
type Value[T any] struct {
	V    T
	Set  bool
	Null bool
}

// Of returns a present, non-null value.
func Of[T any](v T) Value[T] {
	return Value[T]{V: v, Set: true}
}

// Null returns a present null value.
func Null[T any]() Value[T] {
	return Value[T]{Set: true, Null: true}
}

func (o *Value[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Null = true
		var zero T
		o.V = zero
		return nil
	}
	o.Null = false
	return json.Unmarshal(data, &o.V)
}

func (o Value[T]) MarshalJSON() ([]byte, error) {
	if !o.Set || o.Null {
		return []byte("null"), nil
	}
	return json.Marshal(o.V)
}

// HasValue reports whether a non-null value was supplied.
func (o Value[T]) HasValue() bool {
	return o.Set && !o.Null
}

// Ptr returns nil for null, a pointer to the value otherwise.
// Callers check Set first.
func (o Value[T]) Ptr() *T {
	if o.Null {
		return nil
	}
	v := o.V
	return &v
}
