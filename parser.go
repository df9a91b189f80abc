// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jsift

import (
	"fmt"
	"iter"
	"slices"

	"github.com/creachadair/jsift/ast"
)

// parseState is a position in the JSON grammar.
type parseState byte

const (
	psBegin parseState = iota
	psObjectStart
	psObjectKey
	psObjectColon
	psObjectValue
	psObjectComma
	psObjectEnd
	psArrayStart
	psArrayValue
	psArrayComma
	psArrayEnd
	psValue // a complete top-level primitive
)

var parseStateStr = [...]string{
	psBegin:       "begin",
	psObjectStart: "object-start",
	psObjectKey:   "object-key",
	psObjectColon: "object-colon",
	psObjectValue: "object-value",
	psObjectComma: "object-comma",
	psObjectEnd:   "object-end",
	psArrayStart:  "array-start",
	psArrayValue:  "array-value",
	psArrayComma:  "array-comma",
	psArrayEnd:    "array-end",
	psValue:       "value",
}

func (s parseState) String() string {
	if int(s) < len(parseStateStr) {
		return parseStateStr[s]
	}
	return fmt.Sprintf("parseState(%d)", s)
}

// acceptsValue reports whether a value may begin in state s.
func (s parseState) acceptsValue() bool {
	return s == psBegin || s == psArrayStart || s == psArrayComma || s == psObjectColon
}

// An Entry is a member or element detached from the tree by a Parser that
// yields each child of a container. The Key is absent for array elements.
type Entry struct {
	Key   ast.Key
	Value ast.Value
}

// A Parser consumes a sequence of tokens, checks them against the JSON
// grammar, and builds the value they describe. If any paths are registered,
// only values along or below those paths are built; other values are checked
// for syntax and then discarded without being allocated.
//
// A Parser is not safe for concurrent use.
type Parser struct {
	b     ast.Builder
	state parseState
	stk   []pframe
	path  []string // keys from the root to the current position
	key   string   // the pending object key
	paths pathSet

	each    *eachSpec
	entries []Entry

	started bool
	err     error
}

// A pframe is an open container in the grammar.
type pframe struct {
	kind   Kind // ObjectStart or ArrayStart
	live   bool // the container is being built
	target bool // children of this container are detached as they complete
	keyed  bool // a member key for this object is on the path
}

type eachSpec struct {
	kind Kind
	path PathSpec
}

// NewParser constructs a new Parser in its initial state.
func NewParser() *Parser { return new(Parser) }

// RegisterPath adds p to the set of paths to be built. It reports
// ErrRegistrationClosed if p has already received a token.
func (p *Parser) RegisterPath(path PathSpec) error {
	if p.started {
		return fmt.Errorf("register %q: %w", path, ErrRegistrationClosed)
	}
	p.paths.add(slices.Clone(path))
	return nil
}

// Each instructs p to detach each child of the outermost container of the
// given kind (ObjectStart or ArrayStart) at path, as soon as that child is
// complete. Detached children are retrieved by calling Drain. Like
// RegisterPath, Each must be called before the first token.
func (p *Parser) Each(kind Kind, path PathSpec) error {
	if p.started {
		return fmt.Errorf("each %q: %w", path, ErrRegistrationClosed)
	} else if kind != ObjectStart && kind != ArrayStart {
		return fmt.Errorf("each %q: invalid container kind %v", path, kind)
	}
	p.each = &eachSpec{kind: kind, path: slices.Clone(path)}
	return nil
}

// Drain returns the entries detached since the previous call, if any.
func (p *Parser) Drain() []Entry {
	out := p.entries
	p.entries = nil
	return out
}

// Root returns the value built so far. It is nil before the first value.
func (p *Parser) Root() ast.Value { return p.b.Root() }

// Complete reports whether p has consumed a complete top-level value that has
// not yet been followed by an Eof token.
func (p *Parser) Complete() bool {
	if len(p.stk) != 0 {
		return false
	}
	return p.state == psValue || p.state == psObjectEnd || p.state == psArrayEnd
}

// Write returns a sequence that pushes each token of tokens to p, then yields
// the value built. The sequence yields exactly one value, or one error if the
// tokens are invalid. The value is nil if tokens contained no value.
//
// A Parser accepts one top-level value per document. To parse several
// documents, end each with an Eof token.
func (p *Parser) Write(tokens iter.Seq2[Token, error]) iter.Seq2[ast.Value, error] {
	return func(yield func(ast.Value, error) bool) {
		for tok, err := range tokens {
			if err == nil {
				err = p.Push(tok)
			}
			if err != nil {
				yield(nil, err)
				return
			}
		}
		yield(p.b.Root(), nil)
	}
}

// Push advances p by a single token. After Push reports an error, every
// subsequent call reports the same error.
func (p *Parser) Push(tok Token) error {
	if p.err != nil {
		return p.err
	}
	p.started = true
	if err := p.push(tok); err != nil {
		p.err = err
		return err
	}
	return nil
}

func (p *Parser) push(tok Token) error {
	switch tok.Kind {
	case Null, Bool, String, Number:
		if tok.Kind == String && (p.state == psObjectStart || p.state == psObjectComma) {
			p.path = append(p.path, tok.Text())
			p.top().keyed = true
			p.key = tok.Text()
			p.state = psObjectKey
			return nil
		}
		return p.value(tok)

	case ObjectStart, ArrayStart:
		return p.open(tok)

	case ObjectEnd, ArrayEnd:
		return p.close(tok)

	case Comma:
		return p.comma(tok)

	case Colon:
		if p.state != psObjectKey {
			return p.fail(ErrInvalidTransition, tok, "unexpected %v", tok.Kind)
		}
		p.state = psObjectColon
		return nil

	case Eof:
		if len(p.stk) != 0 || (p.state != psBegin && !p.Complete()) {
			return p.fail(ErrUnexpectedChar, tok, "unexpected end of input")
		}
		p.state = psBegin
		return nil
	}
	return p.fail(ErrInvalidToken, tok, "unknown token %v", tok.Kind)
}

func (p *Parser) top() *pframe { return &p.stk[len(p.stk)-1] }

// live reports whether a value starting at the current position is built.
func (p *Parser) live() bool {
	if len(p.stk) != 0 && !p.top().live {
		return false
	}
	return p.paths.interesting(p.path)
}

// builderKey returns the key under which the next value is set.
func (p *Parser) builderKey() ast.Key {
	if len(p.stk) != 0 && p.top().kind == ObjectStart {
		return ast.K(p.key)
	}
	return ast.NoKey
}

// valueDone updates the state after a value is complete.
func (p *Parser) valueDone() {
	switch {
	case len(p.stk) == 0:
		p.state = psValue
	case p.top().kind == ObjectStart:
		p.state = psObjectValue
	default:
		p.state = psArrayValue
	}
}

func (p *Parser) value(tok Token) error {
	if !p.state.acceptsValue() {
		return p.fail(ErrInvalidTransition, tok, "unexpected %v", tok.Kind)
	}
	if p.live() {
		if err := p.b.Set(p.builderKey(), primitive(tok)); err != nil {
			return err
		}
		p.detach()
	}
	p.valueDone()
	return nil
}

func (p *Parser) open(tok Token) error {
	if !p.state.acceptsValue() {
		return p.fail(ErrInvalidTransition, tok, "unexpected %v", tok.Kind)
	}
	f := pframe{kind: tok.Kind, live: p.live()}
	if f.live {
		var err error
		if tok.Kind == ObjectStart {
			err = p.b.OpenObject(p.builderKey())
		} else {
			err = p.b.OpenArray(p.builderKey())
		}
		if err != nil {
			return err
		}
		f.target = p.isTarget(tok.Kind)
	}
	p.stk = append(p.stk, f)
	if tok.Kind == ObjectStart {
		p.state = psObjectStart
	} else {
		p.state = psArrayStart
	}
	return nil
}

// isTarget reports whether a container of the given kind opening at the
// current position is the one whose children are detached.
func (p *Parser) isTarget(kind Kind) bool {
	if p.each == nil || kind != p.each.kind || !slices.Equal(p.path, p.each.path) {
		return false
	}
	return !slices.ContainsFunc(p.stk, func(f pframe) bool { return f.target })
}

func (p *Parser) close(tok Token) error {
	want := ObjectStart
	if tok.Kind == ArrayEnd {
		want = ArrayStart
	}
	switch p.state {
	case psObjectStart, psObjectValue, psArrayStart, psArrayValue, psObjectEnd, psArrayEnd:
	default:
		return p.fail(ErrInvalidTransition, tok, "unexpected %v", tok.Kind)
	}
	if len(p.stk) == 0 {
		return p.fail(ErrUnexpectedChar, tok, "unexpected %v at top level", tok.Kind)
	} else if p.top().kind != want {
		return p.fail(ErrUnexpectedChar, tok, "unexpected %v in %s", tok.Kind, kindName(p.top().kind))
	}

	f := p.stk[len(p.stk)-1]
	p.stk = p.stk[:len(p.stk)-1]
	if f.keyed {
		p.path = p.path[:len(p.path)-1]
	}
	if f.live {
		p.b.CloseContainer()
		p.detach()
	}
	if tok.Kind == ObjectEnd {
		p.state = psObjectEnd
	} else {
		p.state = psArrayEnd
	}
	return nil
}

func (p *Parser) comma(tok Token) error {
	switch p.state {
	case psObjectValue, psArrayValue, psObjectEnd, psArrayEnd:
	default:
		return p.fail(ErrInvalidTransition, tok, "unexpected %v", tok.Kind)
	}
	if len(p.stk) == 0 {
		return p.fail(ErrInvalidTransition, tok, "unexpected %v at top level", tok.Kind)
	}
	if top := p.top(); top.kind == ObjectStart {
		if top.keyed {
			p.path = p.path[:len(p.path)-1]
			top.keyed = false
		}
		p.state = psObjectComma
	} else {
		p.state = psArrayComma
	}
	return nil
}

// detach removes the value just completed from the tree and queues it, if
// its parent is the target container.
func (p *Parser) detach() {
	if len(p.stk) == 0 || !p.top().target {
		return
	}
	if key, v, ok := p.b.PopLast(); ok {
		p.entries = append(p.entries, Entry{Key: key, Value: v})
	}
}

func (p *Parser) fail(err error, tok Token, msg string, args ...any) error {
	return &SyntaxError{
		Location: Location{Offset: tok.Span.Pos},
		State:    p.state.String(),
		Message:  fmt.Sprintf(msg, args...),
		err:      err,
	}
}

func kindName(k Kind) string {
	if k == ObjectStart {
		return "object"
	}
	return "array"
}

// primitive converts a primitive token to a value.
func primitive(tok Token) ast.Value {
	switch tok.Kind {
	case Bool:
		return ast.Bool(tok.Bool())
	case String:
		return ast.String(tok.Text())
	case Number:
		return ast.Number(tok.Float64())
	}
	return ast.Null{}
}
