// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

// Package jsift implements a streaming, incremental JSON parser.
//
// Input is consumed in chunks of any size, and values are produced as soon
// as they are complete, without buffering the whole stream. The caller may
// register a set of key paths, so that parts of the input outside those paths
// are checked for syntax but never built.
//
// # Scanning
//
// The Scanner type reads a stream of concatenated JSON documents from a
// Source and yields the values they contain:
//
//	s := jsift.NewScanner(jsift.FromReader(r, 0))
//	s.Take("children.Fees.price")
//	for v, err := range s.Scan(ctx) {
//	   if err != nil {
//	      log.Fatalf("Scan failed: %v", err)
//	   }
//	   fmt.Println(v.JSON())
//	}
//
// An error ends the sequence. A document that fails before it is complete is
// not yielded. To yield the elements of a large array one at a time, instead
// of the documents that contain it, use YieldEachValue; for the members of an
// object, use YieldEachEntry.
//
// # Paths
//
// A path is a sequence of object keys. Array traversal adds no key, so the
// path "list.id" names the "id" member of every element of the "list" array.
// A path is written either as keys separated by periods, or as a key path
// expression beginning with "$" (see package jpath), which permits keys that
// contain periods:
//
//	a.b.c
//	$.a['b.c'][*].d
//
// When paths are registered, a value is built if it lies along the way to a
// registered path, or at or below one. Everything else is discarded.
//
// # Lexing and Parsing
//
// The pipeline has two stages that may be used separately. A Lexer turns byte
// chunks into Tokens; its output does not depend on where the chunks are
// split. A Parser checks a sequence of tokens against the JSON grammar and
// drives an ast.Builder to construct the value:
//
//	lex, p := jsift.NewLexer(), jsift.NewParser()
//	for tok, err := range lex.Write(data) { ... p.Push(tok) ... }
//	for tok, err := range lex.Close() { ... p.Push(tok) ... }
//	v := p.Root()
//
// Close flushes a number pending at the end of the stream, and ends the
// token sequence with an Eof token.
//
// Errors from both stages have concrete type *jsift.SyntaxError, and wrap one
// of the sentinel errors defined by this package. Errors from the builder
// are reported as *ast.KeyError.
//
// The parser is strict: it rejects trailing commas, leading zeroes, unquoted
// or single-quoted strings, control characters in strings, and duplicate
// object keys.
package jsift
