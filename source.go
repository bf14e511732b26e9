// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jtok

import (
	"bufio"
	"io"

	"go4.org/mem"
)

// A Source supplies input bytes to a Stream. The Stream never needs more
// than one byte of lookahead: it calls Peek only to decide whether to
// consume the next byte with Get.
//
// Both methods report io.EOF when the input is exhausted. Any other error is
// reported by the Stream as a read failure.
type Source interface {
	// Get consumes and returns the next byte of input.
	Get() (byte, error)

	// Peek returns the next byte of input without consuming it.
	Peek() (byte, error)
}

// memSource is a Source that reads from a fixed region of memory.
type memSource struct {
	data mem.RO
	pos  int
}

func (m *memSource) Get() (byte, error) {
	if m.pos >= m.data.Len() {
		return 0, io.EOF
	}
	b := m.data.At(m.pos)
	m.pos++
	return b, nil
}

func (m *memSource) Peek() (byte, error) {
	if m.pos >= m.data.Len() {
		return 0, io.EOF
	}
	return m.data.At(m.pos), nil
}

// readerSource is a Source that reads from a buffered reader.
type readerSource struct{ r *bufio.Reader }

func (r readerSource) Get() (byte, error) { return r.r.ReadByte() }

func (r readerSource) Peek() (byte, error) {
	b, err := r.r.Peek(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// NewReaderSource returns a Source that consumes input from r.  If r is not
// already a *bufio.Reader, it is wrapped in one.
func NewReaderSource(r io.Reader) Source {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	return readerSource{r: br}
}

// funcSource is a Source backed by a pair of caller-provided functions.
type funcSource struct {
	get, peek func() int
}

func (f funcSource) Get() (byte, error)  { return fromInt(f.get()) }
func (f funcSource) Peek() (byte, error) { return fromInt(f.peek()) }

func fromInt(c int) (byte, error) {
	if c < 0 || c > 255 {
		return 0, io.EOF
	}
	return byte(c), nil
}

// SourceFunc returns a Source that calls get to consume the next byte and
// peek to inspect it. Each function returns a byte value in [0, 255], or a
// negative value at the end of the input.
func SourceFunc(get, peek func() int) Source { return funcSource{get: get, peek: peek} }
