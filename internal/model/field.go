package model

import "encoding/json"

// Field distinguishes a JSON key that was omitted from one that was sent,
// including an explicit null.
type Field[T any] struct {
	Set   bool
	Value T
}

// Some returns a set field holding v.
func Some[T any](v T) Field[T] {
	return Field[T]{Set: true, Value: v}
}

func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.Set = true
	return json.Unmarshal(data, &f.Value)
}
