// Package jpath implements a parser for key path expressions, a subset of
// JSONPath that selects object members by name.
package jpath

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

/*
Grammar:

  expr = root steps
  root = "$"
 steps = step [steps]
  step = "." name
  step = "[" qname "]"
  step = "[*]"
  name = WORD
  name = qname
 qname = "'" QTEXT "'"

  WORD = RE `[^.\[\]']+`
 QTEXT = RE `([^'\\]|\\.)*`

A "[*]" step visits each element of an array. Array traversal does not name
an object member, so such steps are dropped from the key path.
*/

// An Expr is a parsed key path expression.
type Expr []Step

// Parse parses s as a key path expression.
func Parse(s string) (Expr, error) {
	st, _, err := parseExpr(s)
	if err != nil {
		return nil, err
	}
	return st, nil
}

// Keys returns the member names selected by e, in order from the root.
func (e Expr) Keys() []string {
	var keys []string
	for _, s := range e {
		if s.Op != Each {
			keys = append(keys, s.Name)
		}
	}
	return keys
}

func (e Expr) String() string {
	var buf strings.Builder
	buf.WriteString("$")
	for _, s := range e {
		switch s.Op {
		case Member:
			fmt.Fprint(&buf, ".", s.Name)
		case Quoted:
			fmt.Fprintf(&buf, "['%s']", quoteEsc.Replace(s.Name))
		case Each:
			buf.WriteString("[*]")
		}
	}
	return buf.String()
}

// KeysOf parses s and returns the member names it selects.
func KeysOf(s string) ([]string, error) {
	e, err := Parse(s)
	if err != nil {
		return nil, err
	}
	return e.Keys(), nil
}

func parseExpr(s string) ([]Step, string, error) {
	t, ok := strings.CutPrefix(s, "$")
	if !ok {
		return nil, s, errors.New("missing root marker")
	}
	return parseSteps(t)
}

func parseSteps(s string) (steps []Step, rest string, _ error) {
	for s != "" {
		step, rest, err := parseStep(s)
		if err != nil {
			return nil, s, err
		}
		steps = append(steps, step)
		s = rest
	}
	return steps, s, nil
}

func parseStep(s string) (_ Step, rest string, _ error) {
	if strings.HasPrefix(s, "..") {
		return Step{}, s, errors.New("recursive descent is not supported")
	}
	if t, ok := strings.CutPrefix(s, "."); ok {
		op, name, u, err := parseName(t)
		if err != nil {
			return Step{}, s, fmt.Errorf("invalid .name: %w", err)
		}
		return Step{Op: op, Name: name}, u, nil
	}
	if t, ok := strings.CutPrefix(s, "[*]"); ok {
		return Step{Op: Each}, t, nil
	}
	if t, ok := strings.CutPrefix(s, "["); ok {
		name, u, err := parseQuoted(t)
		if err != nil {
			return Step{}, t, fmt.Errorf("invalid [name]: %w", err)
		}
		u, ok := strings.CutPrefix(u, "]")
		if !ok {
			return Step{}, u, errors.New("missing close bracket")
		}
		return Step{Op: Quoted, Name: name}, u, nil
	}
	return Step{}, s, errors.New("invalid path step")
}

func parseName(s string) (op Op, name, rest string, _ error) {
	if strings.HasPrefix(s, "*") {
		return Invalid, "", s, errors.New("wildcard names are not supported")
	}
	if m := wordRE.FindStringSubmatch(s); m != nil {
		return Member, m[1], s[len(m[0]):], nil
	}
	if name, rest, err := parseQuoted(s); err == nil {
		return Quoted, name, rest, nil
	}
	return Invalid, "", s, errors.New("invalid name")
}

func parseQuoted(s string) (name, rest string, _ error) {
	m := quoteRE.FindStringSubmatch(s)
	if m == nil {
		return "", s, errors.New("invalid quoted name")
	}
	return quoteUnesc.Replace(m[1]), s[len(m[0]):], nil
}

var (
	wordRE  = regexp.MustCompile(`^([^.\[\]']+)`)
	quoteRE = regexp.MustCompile(`^'((?:[^'\\]|\\.)*)'`)

	quoteEsc   = strings.NewReplacer(`\`, `\\`, `'`, `\'`)
	quoteUnesc = strings.NewReplacer(`\\`, `\`, `\'`, `'`)
)

// An Op is a path operator.
type Op byte

const (
	Invalid Op = iota // invalid operator
	Member            // unquoted member name (.name)
	Quoted            // quoted member name (['name'] or .'name')
	Each              // array traversal ([*])
)

var opText = map[Op]string{
	Invalid: "invalid",
	Member:  "member",
	Quoted:  "quoted",
	Each:    "each",
}

func (o Op) String() string {
	if s, ok := opText[o]; ok {
		return s
	}
	return opText[Invalid]
}

// A Step is a single step of a key path expression.
type Step struct {
	Op   Op
	Name string // empty for Each
}
