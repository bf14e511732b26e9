// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jtok

import (
	"unicode"
	"unicode/utf16"
	"unicode/utf8"
)

// encodeRune appends the UTF-8 encoding of cp to the token buffer.
func (s *Stream) encodeRune(cp rune) error {
	if utf16.IsSurrogate(cp) {
		return s.failf(ErrEncoding, "invalid codepoint %06x", cp)
	} else if cp < 0 || cp > unicode.MaxRune {
		return s.failf(ErrEncoding, "can't encode UTF-8 for %06x", cp)
	}
	var buf [utf8.UTFMax]byte
	n := utf8.EncodeRune(buf[:], cp)
	return s.put(buf[:n]...)
}

// readUnicode decodes the remainder of a \u escape, whose "\u" has already
// been consumed. A high surrogate must be followed immediately by a \u escape
// for a low surrogate.
func (s *Stream) readUnicode() error {
	cp, err := s.readHex4()
	if err != nil {
		return err
	}
	switch {
	case isHighSurrogate(cp):
		for _, want := range []byte{'\\', 'u'} {
			c := s.get()
			if c == eof {
				return s.failf(ErrTruncated, "unterminated string literal in unicode")
			} else if c != int(want) {
				return s.failf(ErrEncoding, "invalid continuation for surrogate pair: %s, expected %q",
					showByte(c), rune(want))
			}
		}
		lo, err := s.readHex4()
		if err != nil {
			return err
		} else if !isLowSurrogate(lo) {
			return s.failf(ErrEncoding,
				"invalid surrogate pair continuation \\u%04x out of range (dc00-dfff)", lo)
		}
		cp = utf16.DecodeRune(cp, lo)

	case isLowSurrogate(cp):
		return s.failf(ErrEncoding, "dangling surrogate \\u%04x", cp)
	}
	return s.encodeRune(cp)
}

// readHex4 reads exactly 4 hexadecimal digits from the input.
func (s *Stream) readHex4() (rune, error) {
	var cp rune
	for range 4 {
		c := s.get()
		if c == eof {
			return 0, s.failf(ErrTruncated, "unterminated string literal in unicode")
		}
		v := hexValue(c)
		if v < 0 {
			return 0, s.failf(ErrGrammar, "bad escape unicode byte, %s", showByte(c))
		}
		cp = cp<<4 | rune(v)
	}
	return cp, nil
}

// readUTF8 reads the continuation bytes of a multi-byte UTF-8 sequence whose
// lead byte has already been consumed, and copies the sequence verbatim to
// the token buffer if it is legal.
func (s *Stream) readUTF8(lead byte) error {
	n := seqLength(lead)
	if n == 0 {
		return s.failf(ErrEncoding, "illegal UTF-8 lead byte 0x%02x", lead)
	}
	var seq [utf8.UTFMax]byte
	seq[0] = lead
	for i := 1; i < n; i++ {
		c := s.get()
		if c == eof {
			return s.failf(ErrTruncated, "unterminated string literal")
		}
		seq[i] = byte(c)
	}
	if !isLegalUTF8(seq[:n]) {
		return s.failf(ErrEncoding, "illegal UTF-8 sequence")
	}
	return s.put(seq[:n]...)
}

// seqLength reports the length of the UTF-8 sequence introduced by lead, or 0
// if lead cannot begin a sequence. Continuation bytes (80-BF), the overlong
// leads C0 and C1, and leads above F4 are all rejected.
func seqLength(lead byte) int {
	switch {
	case lead < 0x80:
		return 1
	case lead < 0xC2:
		return 0
	case lead < 0xE0:
		return 2
	case lead < 0xF0:
		return 3
	case lead < 0xF5:
		return 4
	}
	return 0
}

// isLegalUTF8 reports whether seq is a well-formed UTF-8 sequence, whose
// length matches its lead byte.
func isLegalUTF8(seq []byte) bool {
	// The second byte has tighter bounds for some leads, to exclude overlong
	// forms (E0, F0), surrogates (ED), and values past U+10FFFF (F4).
	lo, hi := byte(0x80), byte(0xBF)
	switch seq[0] {
	case 0xE0:
		lo = 0xA0
	case 0xED:
		hi = 0x9F
	case 0xF0:
		lo = 0x90
	case 0xF4:
		hi = 0x8F
	}
	if seq[1] < lo || seq[1] > hi {
		return false
	}
	for _, c := range seq[2:] {
		if c < 0x80 || c > 0xBF {
			return false
		}
	}
	return true
}

func isHighSurrogate(cp rune) bool { return cp >= 0xD800 && cp <= 0xDBFF }
func isLowSurrogate(cp rune) bool  { return cp >= 0xDC00 && cp <= 0xDFFF }

func hexValue(c int) int {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10
	}
	return -1
}
