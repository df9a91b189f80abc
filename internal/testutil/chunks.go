// Package testutil defines support code for unit tests.
package testutil

import "iter"

// Bytewise splits s into chunks of one byte each.
func Bytewise(s string) [][]byte { return Chunks(s, 1) }

// Chunks splits s into chunks of at most n bytes each.
func Chunks(s string, n int) [][]byte {
	var out [][]byte
	for s != "" {
		m := min(n, len(s))
		out = append(out, []byte(s[:m]))
		s = s[m:]
	}
	return out
}

// Splits returns a sequence of every way to divide s into two chunks,
// indexed by the offset of the split.
func Splits(s string) iter.Seq2[int, [][]byte] {
	return func(yield func(int, [][]byte) bool) {
		for i := 0; i <= len(s); i++ {
			if !yield(i, [][]byte{[]byte(s[:i]), []byte(s[i:])}) {
				return
			}
		}
	}
}

// Seq returns a sequence of the given chunks as values.
func Seq[T any](chunks []T) iter.Seq[any] {
	return func(yield func(any) bool) {
		for _, c := range chunks {
			if !yield(c) {
				return
			}
		}
	}
}
