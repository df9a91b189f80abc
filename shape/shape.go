// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

// Package shape checks key paths against the structure of a sample JSON
// value, to catch paths that can never select anything before a scan is run.
package shape

import (
	"fmt"
	"slices"
	"strings"

	"github.com/creachadair/jsift"
	"github.com/creachadair/jsift/ast"
	"github.com/creachadair/mds/mapset"
)

// MissingError reports paths not found in a sample.
type MissingError struct {
	Paths []string // in dot form, sorted
}

func (m *MissingError) Error() string {
	return fmt.Sprintf("paths not found in sample: %s", strings.Join(m.Paths, ", "))
}

// Check reports an error of concrete type *MissingError if any of paths does
// not occur in sample.
func Check(sample ast.Value, paths ...jsift.PathSpec) error {
	missing := mapset.New[string]()
	for _, p := range paths {
		if !Has(sample, p) {
			missing.Add(p.String())
		}
	}
	if missing.Len() == 0 {
		return nil
	}
	out := missing.Slice()
	slices.Sort(out)
	return &MissingError{Paths: out}
}

// Has reports whether path occurs in v. Each key of the path must name a
// member of an object. Arrays are traversed without consuming a key, and the
// path occurs if it occurs in any element. The empty path occurs in any value.
func Has(v ast.Value, path jsift.PathSpec) bool {
	if len(path) == 0 {
		return true
	}
	switch t := v.(type) {
	case *ast.Object:
		m := t.Find(path[0])
		return m != nil && Has(m.Value, path[1:])
	case *ast.Array:
		return slices.ContainsFunc(t.Values, func(e ast.Value) bool { return Has(e, path) })
	}
	return false
}

// Paths returns every distinct non-empty key path that occurs in v, in order
// of first occurrence.
func Paths(v ast.Value) []jsift.PathSpec {
	var out []jsift.PathSpec
	seen := mapset.New[string]()
	var walk func(ast.Value, jsift.PathSpec)
	walk = func(v ast.Value, cur jsift.PathSpec) {
		switch t := v.(type) {
		case *ast.Object:
			for _, m := range t.Members {
				next := cur.Join(jsift.PathSpec{m.Key})
				if id := strings.Join(next, "\x00"); !seen.Has(id) {
					seen.Add(id)
					out = append(out, next)
				}
				walk(m.Value, next)
			}
		case *ast.Array:
			for _, e := range t.Values {
				walk(e, cur)
			}
		}
	}
	walk(v, nil)
	return out
}
