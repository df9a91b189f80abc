// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jsift

import (
	"fmt"
	"slices"
	"strings"

	"github.com/creachadair/jsift/jpath"
)

// A PathSpec is a sequence of object keys identifying a location in a JSON
// value, starting from the root. Array traversal adds no segment, so a path
// names every element of the arrays along it. The empty PathSpec is the root.
type PathSpec []string

// ParsePath parses a path string. A string beginning with "$" is a key path
// expression as defined by the jpath package, for example $.a['b.c'].d or
// $.list[*].id. Otherwise s is a sequence of keys separated by periods, as in
// "parents.Account.id", and the empty string denotes the root.
func ParsePath(s string) (PathSpec, error) {
	if s == "" {
		return PathSpec{}, nil
	}
	if strings.HasPrefix(s, "$") {
		keys, err := jpath.KeysOf(s)
		if err != nil {
			return nil, fmt.Errorf("invalid path %q: %w", s, err)
		}
		return PathSpec(keys), nil
	}
	keys := strings.Split(s, ".")
	if slices.Contains(keys, "") {
		return nil, fmt.Errorf("invalid path %q: empty key", s)
	}
	return PathSpec(keys), nil
}

// String renders p as period-separated keys.
func (p PathSpec) String() string { return strings.Join(p, ".") }

// Join returns a new path consisting of p followed by q.
func (p PathSpec) Join(q PathSpec) PathSpec { return slices.Concat(p, q) }

// A pathSet is a set of registered paths, stored as a trie of keys.
type pathSet struct {
	root pathNode
	n    int
}

type pathNode struct {
	end  bool // a registered path ends here
	next map[string]*pathNode
}

func (s *pathSet) add(p PathSpec) {
	n := &s.root
	for _, key := range p {
		if n.next == nil {
			n.next = make(map[string]*pathNode)
		}
		c, ok := n.next[key]
		if !ok {
			c = new(pathNode)
			n.next[key] = c
		}
		n = c
	}
	n.end = true
	s.n++
}

// interesting reports whether the value at path cur should be kept: s is
// empty, or cur lies on the way to a registered path, or cur is at or below
// a registered path.
func (s *pathSet) interesting(cur []string) bool {
	if s.n == 0 {
		return true
	}
	n := &s.root
	for _, key := range cur {
		if n.end {
			return true
		}
		c, ok := n.next[key]
		if !ok {
			return false
		}
		n = c
	}
	return true
}
