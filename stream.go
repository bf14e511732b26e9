// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jtok

import (
	"io"

	"go4.org/mem"
)

// eof is the byte value reported by get and peek at the end of the input.
const eof = -1

// Options are settings for a Stream. A nil *Options is ready for use and
// provides default values.
type Options struct {
	// If true, the Stream reads a sequence of top-level values. After each
	// complete value the Stream reports Done, and the caller may call Reset to
	// read the next one. Otherwise, the input must contain exactly one value,
	// and any non-whitespace input following it is an error.
	Streaming bool

	// If non-nil, account for the storage of the Stream with this allocator.
	// If nil, storage is unlimited.
	Allocator Allocator
}

func (o *Options) streaming() bool { return o != nil && o.Streaming }

func (o *Options) allocator() Allocator {
	if o == nil || o.Allocator == nil {
		return unlimited{}
	}
	return o.Allocator
}

// A Stream is a pull tokenizer for JSON. Each call to Next scans and returns
// the next token of the input, checking the structure of the input as it
// goes. A Stream does not build a representation of the values it reads, so
// it can process arbitrarily long input in bounded memory.
//
// A Stream is not safe for concurrent use by multiple goroutines.
type Stream struct {
	src       Source
	stack     stack
	buf       buffer
	streaming bool
	closed    bool

	line    int // current line, 1-based
	pos     int // number of bytes consumed
	ntokens int // number of values begun in the current document

	// The token cached by Peek, if peeked is true.
	next   Token
	peeked bool

	err *SyntaxError // the first error reported, or nil

	tbuf [][]byte // allocation pool for Copy
}

// Open constructs a new Stream that consumes input from src.
func Open(src Source, opts *Options) *Stream {
	alloc := opts.allocator()
	return &Stream{
		src:       src,
		stack:     stack{alloc: alloc},
		buf:       buffer{alloc: alloc},
		streaming: opts.streaming(),
		line:      1,
	}
}

// OpenBuffer constructs a new Stream that consumes input from data.  The
// Stream does not copy data; the caller must not modify it while the Stream
// is in use.
func OpenBuffer(data []byte, opts *Options) *Stream {
	return Open(&memSource{data: mem.B(data)}, opts)
}

// OpenString constructs a new Stream that consumes input from s.
func OpenString(s string, opts *Options) *Stream {
	return Open(&memSource{data: mem.S(s)}, opts)
}

// OpenReader constructs a new Stream that consumes input from r.
func OpenReader(r io.Reader, opts *Options) *Stream {
	return Open(NewReaderSource(r), opts)
}

// OpenFunc constructs a new Stream that consumes input from the given
// functions. See SourceFunc.
func OpenFunc(get, peek func() int, opts *Options) *Stream {
	return Open(SourceFunc(get, peek), opts)
}

// SetStreaming configures whether s reads a sequence of top-level values
// (true) or exactly one value (false). See Options.Streaming.
func (s *Stream) SetStreaming(ok bool) { s.streaming = ok }

// Streaming reports whether s is in streaming mode.
func (s *Stream) Streaming() bool { return s.streaming }

// Close releases the storage held by s. It is safe to call Close at any
// time, including after an error or more than once. After Close, Next and
// Peek report Error. Close does not close the underlying Source.
func (s *Stream) Close() {
	s.stack.release()
	s.buf.release()
	s.tbuf = nil
	s.peeked = false
	s.closed = true
}

// Next advances s to the next token of the input and returns its type.  At
// the end of a complete top-level value, Next returns Done.
//
// Once Next has returned Error, every later call returns Error without
// consuming input, until Reset is called.
func (s *Stream) Next() Token {
	if s.closed {
		s.latch(ErrClosed, nil, "stream closed")
		return Error
	} else if s.err != nil {
		return Error
	} else if s.peeked {
		s.peeked = false
		return s.next
	}
	if err := s.buf.reset(); err != nil {
		s.noMemory(err)
		return Error
	}
	if s.ntokens > 0 && s.stack.depth() == 0 {
		return s.endOfValue()
	}

	c := s.skipSpace()
	top := s.stack.top()
	switch {
	case top == nil:
		return s.readValue(c)
	case top.Kind == ArrayStart:
		return s.nextElement(top, c)
	default:
		return s.nextMember(top, c)
	}
}

// Peek returns the type of the next token of the input without consuming it.
// Peek scans the token as Next would: the text, line, and position of s
// reflect the peeked token. The following call to Next returns the same
// token without scanning again.
func (s *Stream) Peek() Token {
	if s.peeked {
		return s.next
	}
	tok := s.Next()
	s.next, s.peeked = tok, true
	return tok
}

// Reset clears the error state of s and prepares it to read another
// top-level value. Reset must only be called at the boundary of a top-level
// value, that is, when Depth reports 0. The effect of calling it elsewhere
// is unspecified.
func (s *Stream) Reset() {
	s.stack.clear()
	s.ntokens = 0
	s.err = nil
	if s.peeked && (s.next == Done || s.next == Error) {
		s.peeked = false
	}
}

// Skip consumes the next value of the input, including all the tokens of a
// nested array or object, and returns the type of its first token. If Skip
// encounters Error or Done first, it returns that token instead.
func (s *Stream) Skip() Token {
	first := s.Next()
	var depth int
	for tok := first; ; tok = s.Next() {
		switch tok {
		case Error, Done:
			return tok
		case ObjectStart, ArrayStart:
			depth++
		case ObjectEnd, ArrayEnd:
			if depth > 0 {
				depth--
			}
		}
		if depth == 0 {
			return first
		}
	}
}

// SkipUntil skips values of the input until it finds one whose first token
// is want, and returns want. If it encounters Error or Done first, it returns
// that token instead.
func (s *Stream) SkipUntil(want Token) Token {
	for {
		tok := s.Skip()
		if tok == want || tok == Error || tok == Done {
			return tok
		}
	}
}

// Text returns the text of the current token. For a String token this is the
// decoded string without quotation marks; for a Number it is the number as
// written in the input. For all other tokens Text is empty.
//
// The returned slice aliases storage owned by s, and is only valid until the
// next call of Next, Peek, Skip, or SkipUntil. The caller must copy the
// contents if they are needed beyond that (see Copy).
func (s *Stream) Text() []byte { return s.buf.bytes() }

// Mem returns a read-only view of the text of the current token, with the same
// lifetime as the result of Text.
func (s *Stream) Mem() mem.RO { return mem.B(s.buf.bytes()) }

// Copy returns a copy of the text of the current token, or nil if the text is
// empty. Small copies share blocks of storage held by s until Close. That
// storage is not charged to the Allocator.
func (s *Stream) Copy() []byte {
	text := s.buf.bytes()
	if len(text) == 0 {
		return nil
	}
	return s.copyOf(text)
}

// Number returns the value of the current Number token as a float64. If the
// value is out of range, the result is ±Inf. The result is only meaningful
// when the current token is a Number.
func (s *Stream) Number() float64 {
	v, _ := mem.ParseFloat(s.Mem(), 64)
	return v
}

// Int64 returns the value of the current Number token as an int64, or reports
// an error if the number is not an integer in range.
func (s *Stream) Int64() (int64, error) { return mem.ParseInt(s.Mem(), 10, 64) }

// Line reports the current line number of the input, 1-based.
func (s *Stream) Line() int { return s.line }

// Pos reports the number of bytes of input consumed so far.
func (s *Stream) Pos() int { return s.pos }

// Depth reports the number of arrays and objects currently open.
func (s *Stream) Depth() int { return s.stack.depth() }

// Context reports the kind (ArrayStart or ObjectStart) and count of the
// innermost open array or object. At the top level it returns (Done, 0).
// See Frame for the meaning of the count.
func (s *Stream) Context() (Token, int) {
	if top := s.stack.top(); top != nil {
		return top.Kind, top.Count
	}
	return Done, 0
}

// Err returns the error recorded by s, or nil. A non-nil error has concrete
// type *SyntaxError.
func (s *Stream) Err() error {
	if s.err == nil {
		return nil
	}
	return s.err
}

// Source returns the source of input for s. A caller may read bytes directly
// from the source between top-level values, for example to consume a
// delimiter that is not part of the JSON grammar.
func (s *Stream) Source() Source { return s.src }

// endOfValue handles the input following a complete top-level value.
func (s *Stream) endOfValue() Token {
	c := s.peek()
	for isSpace(c) {
		s.get()
		if c == '\n' {
			s.line++
		}
		c = s.peek()
	}
	if s.err != nil {
		return Error // read failure
	} else if c != eof && !s.streaming {
		return s.fail(ErrGrammar, "unexpected byte after value, %s", showByte(c))
	}
	return Done
}

// readValue scans a value starting with c.
func (s *Stream) readValue(c int) Token {
	s.ntokens++
	switch {
	case c == eof && s.stack.depth() == 0:
		// No value has begun, so the error also reports io.EOF.
		s.latch(ErrTruncated, io.EOF, "unexpected end of data")
		return Error
	case c == eof:
		return s.fail(ErrTruncated, "unexpected end of data")
	case c == '{':
		return s.push(ObjectStart)
	case c == '[':
		return s.push(ArrayStart)
	case c == '"':
		return s.token(String, s.readString())
	case c == 't':
		return s.token(True, s.readLiteral(litTrue, True))
	case c == 'f':
		return s.token(False, s.readLiteral(litFalse, False))
	case c == 'n':
		return s.token(Null, s.readLiteral(litNull, Null))
	case c == '-' || isDigit(c):
		return s.token(Number, s.readNumber(c))
	}
	return s.fail(ErrGrammar, "unexpected byte, %s", showByte(c))
}

// nextElement scans the next token inside an array.
func (s *Stream) nextElement(top *Frame, c int) Token {
	switch {
	case c == ']':
		return s.pop(c, ArrayStart)
	case top.Count == 0:
		top.Count++
		return s.readValue(c)
	case c == ',':
		top.Count++
		return s.readValue(s.skipSpace())
	case c == eof:
		return s.fail(ErrTruncated, "unexpected end of data")
	}
	return s.fail(ErrGrammar, "expected ',' or ']', got %s", showByte(c))
}

// nextMember scans the next token inside an object.
func (s *Stream) nextMember(top *Frame, c int) Token {
	switch {
	case top.Count == 0:
		if c == '}' {
			return s.pop(c, ObjectStart)
		}
		return s.readKey(c, "expected property name or '}'")

	case top.Count%2 == 0:
		// A value is complete; expect a comma and a key, or the end.
		switch c {
		case '}':
			return s.pop(c, ObjectStart)
		case ',':
			return s.readKey(s.skipSpace(), "expected property name")
		case eof:
			return s.fail(ErrTruncated, "unexpected end of data")
		}
		return s.fail(ErrGrammar, "expected ',' or '}', got %s", showByte(c))

	case c == ':':
		top.Count++
		return s.readValue(s.skipSpace())
	case c == eof:
		return s.fail(ErrTruncated, "unexpected end of data")
	}
	return s.fail(ErrGrammar, "expected ':' after property name, got %s", showByte(c))
}

// readKey scans an object key starting with c.
func (s *Stream) readKey(c int, want string) Token {
	if c == eof {
		return s.fail(ErrTruncated, "unexpected end of data")
	} else if c != '"' {
		return s.fail(ErrGrammar, "%s, got %s", want, showByte(c))
	}
	tok := s.readValue(c)
	if tok == String {
		s.stack.top().Count++
	}
	return tok
}

func (s *Stream) push(kind Token) Token {
	if err := s.stack.push(kind); err != nil {
		s.noMemory(err)
		return Error
	}
	return kind
}

func (s *Stream) pop(c int, kind Token) Token {
	end, ok := s.stack.pop(kind)
	if !ok {
		return s.fail(ErrGrammar, "unexpected byte, %s", showByte(c))
	}
	return end
}

// skipSpace consumes whitespace and returns the first byte following it.
func (s *Stream) skipSpace() int {
	for {
		c := s.get()
		if !isSpace(c) {
			return c
		} else if c == '\n' {
			s.line++
		}
	}
}

// get consumes and returns the next byte of input, or eof.
func (s *Stream) get() int {
	b, err := s.src.Get()
	if err != nil {
		s.readError(err)
		return eof
	}
	s.pos++
	return int(b)
}

// peek returns the next byte of input without consuming it, or eof.
func (s *Stream) peek() int {
	b, err := s.src.Peek()
	if err != nil {
		s.readError(err)
		return eof
	}
	return int(b)
}

func (s *Stream) readError(err error) {
	if err != io.EOF {
		s.latch(ErrRead, err, "read error: "+err.Error())
	}
}

// token returns tok if err == nil and no error was latched while scanning,
// otherwise Error. A failed read while looking past the end of a number
// latches an error without failing the scan.
func (s *Stream) token(tok Token, err error) Token {
	if err != nil || s.err != nil {
		return Error
	}
	return tok
}

// fail records an error as failf does, and returns Error.
func (s *Stream) fail(class error, msg string, args ...any) Token {
	s.failf(class, msg, args...)
	return Error
}

func (s *Stream) copyOf(text []byte) []byte {
	const minBlockSlop = 4
	const smallSizeFraction = 16
	const bufBlockBytes = 16384

	// For values bigger than smallSizeFraction of the block size, don't bother
	// batching, make an outright copy.
	if len(text) >= bufBlockBytes/smallSizeFraction {
		return append([]byte(nil), text...)
	}

	// Look for a block with space enough to hold a copy of text.
	i := 0
	for i < len(s.tbuf) {
		if n := len(s.tbuf[i]) + len(text); n < cap(s.tbuf[i]) {
			break
		} else if cap(s.tbuf[i])-len(s.tbuf[i]) < minBlockSlop {
			// There is no room in this block, but it is nearly-enough full.
			// Allocate a fresh block at this location and release the old one.
			s.tbuf[i] = make([]byte, 0, bufBlockBytes)
			break
		}
		i++
	}
	if i == len(s.tbuf) {
		s.tbuf = append(s.tbuf, make([]byte, 0, bufBlockBytes))
	}
	p := len(s.tbuf[i])
	s.tbuf[i] = append(s.tbuf[i], text...)
	return s.tbuf[i][p : p+len(text) : p+len(text)]
}
