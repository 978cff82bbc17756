// Package optional marks whether a field was supplied in a partial update.
package optional

import (
	"bytes"
	"encoding/json"
)

// Value holds T and whether it was present in the request body.
// A JSON null is treated as absent.
type Value[T any] struct {
	V   T
	Set bool
}

// Of returns a present value.
func Of[T any](v T) Value[T] {
	return Value[T]{V: v, Set: true}
}

// Get returns the value and whether it was present.
func (o Value[T]) Get() (T, bool) {
	return o.V, o.Set
}

func (o *Value[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		var zero T
		o.V, o.Set = zero, false
		return nil
	}
	if err := json.Unmarshal(data, &o.V); err != nil {
		return err
	}
	o.Set = true
	return nil
}

func (o Value[T]) MarshalJSON() ([]byte, error) {
	if !o.Set {
		return []byte("null"), nil
	}
	return json.Marshal(o.V)
}
