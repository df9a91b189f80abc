// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package ast

import (
	"errors"
	"fmt"

	"github.com/creachadair/mds/mapset"
)

var (
	// ErrUnexpectedKey is reported when the presence of a key does not match
	// the kind of the open container: a key for an array element, or no key
	// for an object member.
	ErrUnexpectedKey = errors.New("unexpected key for container")

	// ErrDuplicateKey is reported when a key is inserted into an object that
	// already has a member with that key.
	ErrDuplicateKey = errors.New("key already in object")
)

// KeyError is the concrete type of errors reported by a Builder.
type KeyError struct {
	Key       Key
	Container string // "array" or "object"

	err error
}

func (k *KeyError) Error() string {
	if name, ok := k.Key.Name(); ok {
		return fmt.Sprintf("%v: key %q in %s", k.err, name, k.Container)
	}
	return fmt.Sprintf("%v: no key in %s", k.err, k.Container)
}

// Unwrap supports error wrapping.
func (k *KeyError) Unwrap() error { return k.err }

// A Key is an optional object key. The zero Key is absent.
type Key struct {
	name string
	ok   bool
}

// NoKey is the absent key, used for array elements and top-level values.
var NoKey Key

// K returns a present key with the given name.
func K(name string) Key { return Key{name: name, ok: true} }

// Name reports the name of k, and whether k is present.
func (k Key) Name() (string, bool) { return k.name, k.ok }

func (k Key) String() string {
	if !k.ok {
		return "<none>"
	}
	return k.name
}

// A Builder accumulates a value tree from a sequence of Set, OpenArray,
// OpenObject and CloseContainer calls. The Builder owns the tree; its frames
// record only where the next write lands.
//
// A Builder is not safe for concurrent use.
type Builder struct {
	root Value
	stk  []frame
}

// A frame is an open container. Exactly one of arr and obj is set.
type frame struct {
	key  Key
	arr  *Array
	obj  *Object
	seen mapset.Set[string] // keys inserted into obj
}

// Root returns the value accumulated so far. It may be called at any time,
// including while containers are still open. Root returns nil if nothing has
// been set.
func (b *Builder) Root() Value { return b.root }

// Depth reports the number of open containers.
func (b *Builder) Depth() int { return len(b.stk) }

// Path returns the keys under which the open containers were set, from the
// outermost inward. Array elements and the root have absent keys.
func (b *Builder) Path() []Key {
	keys := make([]Key, len(b.stk))
	for i, f := range b.stk {
		keys[i] = f.key
	}
	return keys
}

// Set writes v at the current position. If no container is open, v replaces
// the root unconditionally. Otherwise, v is appended to the open array (key
// must be absent), or inserted into the open object (key must be present and
// not already used in that object). If v is an array or object, it becomes
// the open container.
func (b *Builder) Set(key Key, v Value) error {
	if len(b.stk) == 0 {
		b.root = v
		b.push(NoKey, v)
		return nil
	}
	top := &b.stk[len(b.stk)-1]
	if top.arr != nil {
		if key.ok {
			return &KeyError{Key: key, Container: "array", err: ErrUnexpectedKey}
		}
		top.arr.Values = append(top.arr.Values, v)
	} else {
		if !key.ok {
			return &KeyError{Key: key, Container: "object", err: ErrUnexpectedKey}
		} else if top.seen.Has(key.name) {
			return &KeyError{Key: key, Container: "object", err: ErrDuplicateKey}
		}
		top.seen.Add(key.name)
		top.obj.Members = append(top.obj.Members, &Member{Key: key.name, Value: v})
	}
	b.push(key, v)
	return nil
}

// OpenArray is shorthand for Set(key, new(Array)).
func (b *Builder) OpenArray(key Key) error { return b.Set(key, new(Array)) }

// OpenObject is shorthand for Set(key, new(Object)).
func (b *Builder) OpenObject(key Key) error { return b.Set(key, new(Object)) }

// CloseContainer closes the most-recently opened container. If no container
// is open, CloseContainer does nothing.
func (b *Builder) CloseContainer() {
	if n := len(b.stk); n > 0 {
		b.stk[n-1] = frame{}
		b.stk = b.stk[:n-1]
	}
}

// PopLast removes and returns the most recent entry of the open container,
// along with its key (absent for array elements). It reports false if no
// container is open or the open container is empty. A key removed from an
// object remains in use: inserting it again is still a duplicate.
func (b *Builder) PopLast() (Key, Value, bool) {
	if len(b.stk) == 0 {
		return NoKey, nil, false
	}
	top := &b.stk[len(b.stk)-1]
	if top.arr != nil {
		n := len(top.arr.Values)
		if n == 0 {
			return NoKey, nil, false
		}
		v := top.arr.Values[n-1]
		top.arr.Values[n-1] = nil
		top.arr.Values = top.arr.Values[:n-1]
		return NoKey, v, true
	}
	n := len(top.obj.Members)
	if n == 0 {
		return NoKey, nil, false
	}
	m := top.obj.Members[n-1]
	top.obj.Members[n-1] = nil
	top.obj.Members = top.obj.Members[:n-1]
	return K(m.Key), m.Value, true
}

// push opens a frame for v if it is a container.
func (b *Builder) push(key Key, v Value) {
	switch t := v.(type) {
	case *Array:
		b.stk = append(b.stk, frame{key: key, arr: t})
	case *Object:
		seen := mapset.New[string]()
		for _, m := range t.Members {
			seen.Add(m.Key)
		}
		b.stk = append(b.stk, frame{key: key, obj: t, seen: seen})
	}
}
