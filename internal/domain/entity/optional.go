package entity

import "encoding/json"

// Optional distinguishes "not supplied" from a supplied zero value.
// When decoded from JSON, a present key marks the value as set, including
// explicit "" and null.
type Optional[T any] struct {
	value T
	set   bool
}

func Some[T any](v T) Optional[T] {
	return Optional[T]{value: v, set: true}
}

func (o Optional[T]) Get() (T, bool) {
	return o.value, o.set
}

func (o Optional[T]) IsSet() bool {
	return o.set
}

func (o *Optional[T]) UnmarshalJSON(b []byte) error {
	o.set = true
	if string(b) == "null" {
		var zero T
		o.value = zero
		return nil
	}
	return json.Unmarshal(b, &o.value)
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.set {
		return []byte("null"), nil
	}
	return json.Marshal(o.value)
}
