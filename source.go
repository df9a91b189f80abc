// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jsift

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"sync/atomic"
)

// DefaultChunkSize is the chunk size used by FromReader if none is given.
const DefaultChunkSize = 64 << 10

// A Source is a producer of byte chunks for a Scanner. A Source may be
// claimed only once; a second claim, even a concurrent one, fails with
// ErrSourceClaimed.
type Source struct {
	claimed atomic.Bool
	chunks  iter.Seq2[any, error]
}

// FromReader returns a Source that reads r in chunks of up to chunkSize
// bytes. If chunkSize <= 0, DefaultChunkSize is used. The chunks delivered
// share a buffer, which is reused after each chunk is consumed.
func FromReader(r io.Reader, chunkSize int) *Source {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &Source{chunks: func(yield func(any, error) bool) {
		buf := make([]byte, chunkSize)
		for {
			nr, err := r.Read(buf)
			if nr > 0 && !yield(buf[:nr], nil) {
				return
			}
			if errors.Is(err, io.EOF) {
				return
			} else if err != nil {
				yield(nil, fmt.Errorf("read source: %w", err))
				return
			}
		}
	}}
}

// FromBytes returns a Source that delivers data as a single chunk.
func FromBytes(data []byte) *Source {
	return &Source{chunks: func(yield func(any, error) bool) {
		yield(data, nil)
	}}
}

// FromChunks returns a Source that delivers the values of seq in order. Each
// value must be a []byte; any other value ends the stream with ErrNotBytes.
func FromChunks(seq iter.Seq[any]) *Source {
	return &Source{chunks: func(yield func(any, error) bool) {
		for c := range seq {
			if !yield(c, nil) {
				return
			}
		}
	}}
}

// claim marks s as claimed and returns its chunks. It reports
// ErrSourceClaimed if s was already claimed.
func (s *Source) claim() (iter.Seq2[[]byte, error], error) {
	if !s.claimed.CompareAndSwap(false, true) {
		return nil, ErrSourceClaimed
	}
	return func(yield func([]byte, error) bool) {
		for c, err := range s.chunks {
			if err != nil {
				yield(nil, err)
				return
			}
			data, ok := c.([]byte)
			if !ok {
				yield(nil, fmt.Errorf("%w: got %T", ErrNotBytes, c))
				return
			}
			if !yield(data, nil) {
				return
			}
		}
	}, nil
}
