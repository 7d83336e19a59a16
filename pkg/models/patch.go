package models

import (
	"bytes"
	"encoding/json"
)

// Patch is one field of a partial update. Set distinguishes an absent key
// from an explicit null, which clears the column.
type Patch[T any] struct {
	Set   bool
	Value *T
}

// Of returns a patch that sets v.
func Of[T any](v T) Patch[T] {
	return Patch[T]{Set: true, Value: &v}
}

func (p *Patch[T]) UnmarshalJSON(b []byte) error {
	p.Set = true
	if bytes.Equal(b, []byte("null")) {
		p.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	p.Value = &v
	return nil
}

// Arg is the value bound for the column: nil for an explicit null.
func (p Patch[T]) Arg() any {
	if p.Value == nil {
		return nil
	}
	return *p.Value
}

// ColumnValue is one assignment of a partial update, in whitelist order.
type ColumnValue struct {
	Column string
	Value  any
}
