// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package ast

import (
	"fmt"
	"maps"
	"slices"
)

// ToValue converts a Go value to a Value. A Value is returned unchanged.
// Otherwise, v must be nil, a bool, a string, an integer or floating-point
// number, a *Member, a slice of supported values, or a map from string to
// supported values. Maps are converted to objects with keys in sorted order.
// ToValue panics for any other type.
func ToValue(v any) Value {
	switch t := v.(type) {
	case Value:
		return t
	case nil:
		return Null{}
	case bool:
		return Bool(t)
	case string:
		return String(t)
	case int:
		return Number(t)
	case int32:
		return Number(t)
	case int64:
		return Number(t)
	case uint:
		return Number(t)
	case uint64:
		return Number(t)
	case float32:
		return Number(t)
	case float64:
		return Number(t)
	case *Member:
		return NewObject(t)
	case []Value:
		return NewArray(t...)
	case []any:
		return ArrayOf(t...)
	case []string:
		return ArrayOf(anySlice(t)...)
	case []float64:
		return ArrayOf(anySlice(t)...)
	case []int:
		return ArrayOf(anySlice(t)...)
	case []*Member:
		return NewObject(t...)
	case map[string]any:
		o := new(Object)
		for _, k := range slices.Sorted(maps.Keys(t)) {
			o.Members = append(o.Members, Field(k, ToValue(t[k])))
		}
		return o
	}
	panic(fmt.Sprintf("unsupported value type %T", v))
}

// ArrayOf constructs an array of the given values, converted by ToValue.
func ArrayOf(vs ...any) *Array {
	a := &Array{Values: make([]Value, len(vs))}
	for i, v := range vs {
		a.Values[i] = ToValue(v)
	}
	return a
}

func anySlice[T any](vs []T) []any {
	out := make([]any, len(vs))
	for i, v := range vs {
		out[i] = v
	}
	return out
}
