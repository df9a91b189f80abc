// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jsift

import "fmt"

// A Span describes a contiguous span of a source input. Offsets count bytes
// from the start of the stream, independent of how it was chunked.
type Span struct {
	Pos int // the start offset, 0-based
	End int // the end offset, 0-based (noninclusive)
}

func (s Span) String() string { return fmt.Sprintf("%d-%d", s.Pos, s.End) }

// A LineCol describes the line number and column offset of a location in
// source text.
type LineCol struct {
	Line   int // line number, 1-based
	Column int // byte offset of column in line, 0-based
}

func (lc LineCol) String() string { return fmt.Sprintf("%d:%d", lc.Line, lc.Column) }

// A Location describes the position of a single byte of source text.
type Location struct {
	Offset int // byte offset, 0-based
	LineCol
}
