// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

// Package ast defines a tree of JSON values, and a Builder that constructs
// such trees incrementally from discrete open, set and close operations.
package ast

import (
	"math"
	"strconv"
	"strings"

	"github.com/creachadair/jsift/internal/escape"
	"go4.org/mem"
)

// A Value is an arbitrary JSON value. The concrete type of a Value is one of
// Null, Bool, Number, String, *Array, or *Object.
type Value interface {
	// JSON renders the value as compact JSON text.
	JSON() string

	// Interface converts the value to the plain Go representation used by
	// encoding/json when decoding into an any: nil, bool, float64, string,
	// []any, or map[string]any.
	Interface() any

	isValue()
}

// Null represents the null constant.
type Null struct{}

func (Null) JSON() string   { return "null" }
func (Null) Interface() any { return nil }
func (Null) isValue()       {}

// A Bool is a Boolean constant, true or false.
type Bool bool

func (b Bool) JSON() string   { return strconv.FormatBool(bool(b)) }
func (b Bool) Interface() any { return bool(b) }
func (Bool) isValue()         {}

// A Number is a numeric value, represented as a 64-bit float.
type Number float64

// JSON renders n in the shortest form that round-trips. Non-finite values,
// which cannot be produced by parsing, render as null.
func (n Number) JSON() string {
	f := float64(n)
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return "null"
	}
	if abs := math.Abs(f); abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		return strconv.FormatFloat(f, 'e', -1, 64)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func (n Number) Interface() any { return float64(n) }
func (Number) isValue()         {}

// A String is a decoded string value.
type String string

func (s String) JSON() string   { return escape.Quote(string(s)) }
func (s String) Interface() any { return string(s) }
func (String) isValue()         {}

// An Array is a sequence of values.
type Array struct {
	Values []Value
}

// NewArray constructs an array containing the given values.
func NewArray(vs ...Value) *Array { return &Array{Values: vs} }

// Len reports the number of elements in a.
func (a *Array) Len() int { return len(a.Values) }

func (a *Array) JSON() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, v := range a.Values {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(v.JSON())
	}
	sb.WriteByte(']')
	return sb.String()
}

func (a *Array) Interface() any {
	out := make([]any, len(a.Values))
	for i, v := range a.Values {
		out[i] = v.Interface()
	}
	return out
}

func (*Array) isValue() {}

// An Object is a collection of key-value members in insertion order.
type Object struct {
	Members []*Member
}

// NewObject constructs an object containing the given members.
func NewObject(ms ...*Member) *Object { return &Object{Members: ms} }

// Len reports the number of members in o.
func (o *Object) Len() int { return len(o.Members) }

// Find returns the first member of o with the given key, or nil.
func (o *Object) Find(key string) *Member {
	for _, m := range o.Members {
		if m.Key == key {
			return m
		}
	}
	return nil
}

// Keys returns the keys of o in order.
func (o *Object) Keys() []string {
	keys := make([]string, len(o.Members))
	for i, m := range o.Members {
		keys[i] = m.Key
	}
	return keys
}

func (o *Object) JSON() string {
	var buf []byte
	buf = append(buf, '{')
	for i, m := range o.Members {
		if i > 0 {
			buf = append(buf, ',')
		}
		buf = escape.AppendQuote(buf, mem.S(m.Key))
		buf = append(buf, ':')
		buf = append(buf, m.Value.JSON()...)
	}
	buf = append(buf, '}')
	return string(buf)
}

func (o *Object) Interface() any {
	out := make(map[string]any, len(o.Members))
	for _, m := range o.Members {
		out[m.Key] = m.Value.Interface()
	}
	return out
}

func (*Object) isValue() {}

// A Member is a single key-value pair belonging to an Object.
type Member struct {
	Key   string
	Value Value
}

// Field constructs an object member with the given key and value.
func Field(key string, value Value) *Member { return &Member{Key: key, Value: value} }

// IsContainer reports whether v is an array or an object.
func IsContainer(v Value) bool {
	switch v.(type) {
	case *Array, *Object:
		return true
	}
	return false
}
