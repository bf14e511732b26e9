// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jtok

import (
	"errors"
	"fmt"
	"unicode"
	"unicode/utf8"
)

// Error classes reported by a Stream. Every *SyntaxError wraps exactly one of
// these, so callers may test the class with errors.Is.
var (
	// ErrTruncated means the input ended inside a string, number, literal, or
	// open array or object.
	ErrTruncated = errors.New("unexpected end of data")

	// ErrGrammar means a byte was not permitted at its position.
	ErrGrammar = errors.New("invalid syntax")

	// ErrEncoding means a string contained an invalid surrogate, an invalid
	// code point, an illegal UTF-8 sequence, or an unescaped control byte.
	ErrEncoding = errors.New("invalid encoding")

	// ErrNoMemory means the allocator refused to grow the token buffer or the
	// nesting stack.
	ErrNoMemory = errors.New("out of memory")

	// ErrRead means the Source reported an error other than io.EOF.
	ErrRead = errors.New("read error")

	// ErrClosed means the Stream was used after Close.
	ErrClosed = errors.New("stream closed")
)

// maxMessage bounds the length of a SyntaxError message.
const maxMessage = 128

// SyntaxError is the concrete type of errors reported by a Stream.
//
// If the input ends where a top-level value should begin, the error has class
// ErrTruncated and also wraps io.EOF, so that a caller reading a sequence of
// values can tell a clean end of input from a truncated value.
type SyntaxError struct {
	Line    int    // line number at the time of the error, 1-based
	Pos     int    // number of input bytes consumed at the time of the error
	Class   error  // one of the Err* class values
	Message string // diagnostic text, at most 128 bytes

	err error // underlying cause, if any
}

// Error satisfies the error interface.
func (e *SyntaxError) Error() string {
	return fmt.Sprintf("at line %d: %s", e.Line, e.Message)
}

// Unwrap supports error wrapping.
func (e *SyntaxError) Unwrap() []error {
	if e.err != nil {
		return []error{e.Class, e.err}
	}
	return []error{e.Class}
}

// latch records an error on s, unless one is already recorded, and returns
// the recorded error.
func (s *Stream) latch(class, cause error, msg string) error {
	if s.err == nil {
		if len(msg) > maxMessage {
			n := maxMessage
			for n > 0 && !utf8.RuneStart(msg[n]) {
				n--
			}
			msg = msg[:n]
		}
		s.err = &SyntaxError{
			Line:    s.line,
			Pos:     s.pos,
			Class:   class,
			Message: msg,
			err:     cause,
		}
	}
	return s.err
}

// failf records an error of the given class. The arguments must be of
// bounded size: single bytes, code points, or tokens.
func (s *Stream) failf(class error, msg string, args ...any) error {
	return s.latch(class, nil, fmt.Sprintf(msg, args...))
}

func (s *Stream) noMemory(err error) error {
	return s.latch(ErrNoMemory, err, "out of memory")
}

// showByte renders the input byte c for a diagnostic.
func showByte(c int) string {
	switch {
	case c == eof:
		return "end of input"
	case c < 0x80 && unicode.IsPrint(rune(c)):
		return fmt.Sprintf("%q", rune(c))
	default:
		return fmt.Sprintf("byte 0x%02x", c)
	}
}
