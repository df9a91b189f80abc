// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jsift

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"

	"github.com/creachadair/jsift/ast"
)

// A Scanner reads a stream of concatenated JSON documents from a Source and
// yields the values they contain.
//
// By default, a Scanner yields one value per document. If YieldEachValue or
// YieldEachEntry is set, the Scanner instead yields each element or member of
// a selected container as soon as it is complete, and the documents
// themselves are not yielded.
type Scanner struct {
	src     *Source
	takes   []PathSpec
	each    *eachSpec
	started bool // Scan has begun; registration is closed
}

// NewScanner constructs a Scanner that reads from src.
func NewScanner(src *Source) *Scanner { return &Scanner{src: src} }

// Take adds path to the paths included in the output. If no paths are taken,
// values are yielded in full. With YieldEachValue, path is relative to each
// element yielded. With YieldEachEntry, path is relative to the object whose
// members are yielded, so its first key selects the members included.
// Take reports ErrRegistrationClosed once Scan has begun.
func (s *Scanner) Take(path string) error {
	if s.started {
		return fmt.Errorf("take %q: %w", path, ErrRegistrationClosed)
	}
	p, err := ParsePath(path)
	if err != nil {
		return err
	}
	s.takes = append(s.takes, p)
	return nil
}

// YieldEachValue instructs s to yield each element of the array at path.
func (s *Scanner) YieldEachValue(path string) error { return s.setEach(ArrayStart, path) }

// YieldEachEntry instructs s to yield each member of the object at path, as
// a two-element array of its key and value.
func (s *Scanner) YieldEachEntry(path string) error { return s.setEach(ObjectStart, path) }

func (s *Scanner) setEach(kind Kind, path string) error {
	if s.started {
		return fmt.Errorf("each %q: %w", path, ErrRegistrationClosed)
	} else if s.each != nil {
		return errors.New("yield mode is already set")
	}
	p, err := ParsePath(path)
	if err != nil {
		return err
	}
	s.each = &eachSpec{kind: kind, path: p}
	return nil
}

// Scan returns a sequence of the values read from the source. If the input
// is invalid, the source fails, or ctx ends, the sequence ends with an error;
// a document that fails before it is complete is not yielded. Scan claims the
// source, so it may be called only once. Once Scan begins, Take and the
// yield methods report ErrRegistrationClosed.
func (s *Scanner) Scan(ctx context.Context) iter.Seq2[ast.Value, error] {
	return func(yield func(ast.Value, error) bool) {
		s.started = true
		chunks, err := s.src.claim()
		if err != nil {
			yield(nil, err)
			return
		}
		p, err := s.newParser()
		if err != nil {
			yield(nil, err)
			return
		}
		lex := NewLexer()

		// emit pushes tok to p and yields whatever it completes. It reports
		// whether scanning should continue.
		emit := func(tok Token) bool {
			if err := p.Push(tok); err != nil {
				yield(nil, err)
				return false
			}
			for _, e := range p.Drain() {
				if !yield(entryValue(e), nil) {
					return false
				}
			}
			if !p.Complete() {
				return true
			}
			if err := p.Push(MakeToken(Eof).At(tok.Span.End, tok.Span.End)); err != nil {
				yield(nil, err)
				return false
			}
			if s.each != nil {
				return true
			}
			return yield(p.Root(), nil)
		}
		feed := func(tokens iter.Seq2[Token, error]) bool {
			for tok, err := range tokens {
				if err != nil {
					yield(nil, err)
					return false
				}
				if !emit(tok) {
					return false
				}
			}
			return true
		}

		for chunk, err := range chunks {
			if err == nil {
				err = ctx.Err()
			}
			if err != nil {
				yield(nil, err)
				return
			}
			if !feed(lex.Write(chunk)) {
				return
			}
		}
		if err := ctx.Err(); err != nil {
			yield(nil, err)
			return
		}
		feed(lex.Close())
	}
}

func (s *Scanner) newParser() (*Parser, error) {
	p := NewParser()
	paths := s.takes
	if s.each != nil {
		if err := p.Each(s.each.kind, s.each.path); err != nil {
			return nil, err
		}
		paths = []PathSpec{s.each.path}
		if len(s.takes) != 0 {
			paths = paths[:0]
			for _, t := range s.takes {
				paths = append(paths, s.each.path.Join(t))
			}
		}
	}
	for _, t := range paths {
		if err := p.RegisterPath(t); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// entryValue converts a detached entry to an output value.
func entryValue(e Entry) ast.Value {
	name, ok := e.Key.Name()
	if !ok {
		return e.Value
	}
	return ast.NewArray(ast.String(name), e.Value)
}

// Parse reads concatenated JSON documents from r and returns their values.
// If paths are given, only values along or below those paths are included.
func Parse(r io.Reader, paths ...string) ([]ast.Value, error) {
	s := NewScanner(FromReader(r, 0))
	for _, path := range paths {
		if err := s.Take(path); err != nil {
			return nil, fmt.Errorf("parse: %w", err)
		}
	}
	var vs []ast.Value
	for v, err := range s.Scan(context.Background()) {
		if err != nil {
			return nil, err
		}
		vs = append(vs, v)
	}
	return vs, nil
}
