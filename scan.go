// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jtok

import "go4.org/mem"

// escapes maps the byte following a backslash to its replacement.  A zero
// entry marks an invalid escape; \u is handled separately.
var escapes = [256]byte{
	'"':  '"',
	'\\': '\\',
	'/':  '/',
	'b':  '\b',
	'f':  '\f',
	'n':  '\n',
	'r':  '\r',
	't':  '\t',
}

// readString scans the remainder of a string whose open quote has already
// been consumed, leaving its decoded text in the token buffer.
func (s *Stream) readString() error {
	for {
		c := s.get()
		switch {
		case c == eof:
			return s.failf(ErrTruncated, "unterminated string literal")
		case c == '"':
			return nil
		case c == '\\':
			if err := s.readEscape(); err != nil {
				return err
			}
		case c >= 0x80:
			if err := s.readUTF8(byte(c)); err != nil {
				return err
			}
		case c < ' ':
			return s.failf(ErrEncoding, "unescaped control character in string")
		default:
			if err := s.put(byte(c)); err != nil {
				return err
			}
		}
	}
}

func (s *Stream) readEscape() error {
	c := s.get()
	if c == eof {
		return s.failf(ErrTruncated, "unterminated string literal in escape")
	} else if c == 'u' {
		return s.readUnicode()
	} else if r := escapes[c]; r != 0 {
		return s.put(r)
	}
	return s.failf(ErrGrammar, "bad escaped byte, %s", showByte(c))
}

// readNumber scans a number whose first byte (a digit or "-") has already
// been consumed, leaving its text in the token buffer.
func (s *Stream) readNumber(c int) error {
	if err := s.put(byte(c)); err != nil {
		return err
	}
	if c == '-' {
		// A sign must be followed by at least one digit.
		c = s.get()
		if c == eof {
			return s.failf(ErrTruncated, "unexpected end of data in number")
		} else if !isDigit(c) {
			return s.failf(ErrGrammar, "unexpected byte in number, %s", showByte(c))
		} else if err := s.put(byte(c)); err != nil {
			return err
		}
	}

	// A leading 0 stands alone; any other leading digit begins a run.
	if c != '0' {
		if _, err := s.readDigits(); err != nil {
			return err
		}
	}

	if s.peek() == '.' {
		s.get()
		if err := s.put('.'); err != nil {
			return err
		} else if err := s.requireDigits(); err != nil {
			return err
		}
	}

	if c := s.peek(); c == 'e' || c == 'E' {
		s.get()
		if err := s.put(byte(c)); err != nil {
			return err
		}
		if c := s.peek(); c == '+' || c == '-' {
			s.get()
			if err := s.put(byte(c)); err != nil {
				return err
			}
		}
		if err := s.requireDigits(); err != nil {
			return err
		}
	}
	return nil
}

// readDigits consumes a possibly-empty run of decimal digits and reports how
// many were read.
func (s *Stream) readDigits() (int, error) {
	var nr int
	for isDigit(s.peek()) {
		if err := s.put(byte(s.get())); err != nil {
			return nr, err
		}
		nr++
	}
	return nr, nil
}

// requireDigits consumes a non-empty run of decimal digits.
func (s *Stream) requireDigits() error {
	nr, err := s.readDigits()
	if err != nil {
		return err
	} else if nr == 0 {
		c := s.peek()
		if c == eof {
			return s.failf(ErrTruncated, "unexpected end of data in number")
		}
		return s.failf(ErrGrammar, "unexpected byte in number, %s", showByte(c))
	}
	return nil
}

var (
	litTrue  = mem.S("true")
	litFalse = mem.S("false")
	litNull  = mem.S("null")
)

// readLiteral consumes the remainder of the constant want, whose first byte
// has already been consumed. Every byte must match exactly.
func (s *Stream) readLiteral(want mem.RO, tok Token) error {
	for i := 1; i < want.Len(); i++ {
		c := s.get()
		if c == eof {
			return s.failf(ErrTruncated, "unexpected end of data in %v", tok)
		} else if c != int(want.At(i)) {
			return s.failf(ErrGrammar, "unexpected byte in %v, %s", tok, showByte(c))
		}
	}
	return nil
}

// put appends bs to the token buffer.
func (s *Stream) put(bs ...byte) error {
	for _, b := range bs {
		if err := s.buf.add(b); err != nil {
			return s.noMemory(err)
		}
	}
	return nil
}

func isDigit(c int) bool { return c >= '0' && c <= '9' }

func isSpace(c int) bool { return c == ' ' || c == '\t' || c == '\r' || c == '\n' }
