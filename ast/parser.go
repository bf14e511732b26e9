// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package ast

import (
	"errors"
	"fmt"
	"io"

	"github.com/creachadair/jtok"
)

// Parse parses and returns the JSON values from r, which may contain any
// number of top-level values separated by optional whitespace. In case of
// error, any complete values already parsed are returned along with the
// error.
func Parse(r io.Reader) ([]Value, error) {
	s := jtok.OpenReader(r, &jtok.Options{Streaming: true})
	defer s.Close()

	var b builder
	var vs []Value
	for {
		v, err := b.parse(s)
		if errors.Is(err, io.EOF) {
			return vs, nil
		} else if err != nil {
			return vs, err
		}
		vs = append(vs, v)
		s.Reset()
	}
}

// ParseSingle parses and returns a single JSON value from r. It is an error
// if r contains anything other than whitespace after the value.
func ParseSingle(r io.Reader) (Value, error) {
	s := jtok.OpenReader(r, nil)
	defer s.Close()
	return ParseStream(s)
}

// ParseStream parses and returns the next value from s, which may begin at
// any position where a value is permitted, including inside an array or
// after an object key. If the value is a complete top-level value, ParseStream
// also consumes the Done that follows it; otherwise s is left positioned
// after the value. If s is in streaming mode, the caller must Reset s before
// parsing another top-level value.
func ParseStream(s *jtok.Stream) (Value, error) {
	var b builder
	return b.parse(s)
}

// A builder constructs syntax trees from the tokens of a stream.
type builder struct {
	stk  []Value // open *Object, *Array, and *Member values
	tbuf [][]byte
}

func (b *builder) parse(s *jtok.Stream) (Value, error) {
	b.stk = b.stk[:0]
	for {
		var v Value
		switch tok := s.Next(); tok {
		case jtok.Error:
			return nil, s.Err()

		case jtok.ObjectStart:
			b.push(new(Object))
			continue

		case jtok.ArrayStart:
			b.push(new(Array))
			continue

		case jtok.ObjectEnd, jtok.ArrayEnd:
			if len(b.stk) == 0 {
				return nil, fmt.Errorf("at line %d: unexpected %v before value", s.Line(), tok)
			}
			switch t := b.pop().(type) {
			case *Object:
				v = *t
			case *Array:
				v = *t
			}

		case jtok.String:
			// An odd count means the string just read is an object key.
			if kind, n := s.Context(); kind == jtok.ObjectStart && n%2 == 1 {
				if len(b.stk) == 0 {
					return nil, fmt.Errorf("at line %d: unexpected object key before value", s.Line())
				}
				b.push(&Member{Key: string(s.Text())})
				continue
			}
			v = Quoted{text: b.intern(s.Text())}

		case jtok.Number:
			v = Number{text: b.intern(s.Text())}

		case jtok.True, jtok.False:
			v = Bool(tok == jtok.True)

		case jtok.Null:
			v = Null

		default:
			return nil, fmt.Errorf("at line %d: unexpected %v before value", s.Line(), tok)
		}

		if len(b.stk) != 0 {
			b.reduce(v)
			continue
		}
		if s.Depth() == 0 {
			if tok := s.Next(); tok != jtok.Done {
				return nil, s.Err()
			}
		}
		return v, nil
	}
}

// reduce adds the complete value v to the innermost open value.
func (b *builder) reduce(v Value) {
	switch t := b.top().(type) {
	case *Member:
		t.Value = v
		b.pop()
		obj := b.top().(*Object)
		*obj = append(*obj, t)
	case *Array:
		*t = append(*t, v)
	default:
		panic(fmt.Sprintf("unexpected %T on the stack", t))
	}
}

func (b *builder) top() Value { return b.stk[len(b.stk)-1] }

func (b *builder) pop() Value {
	last := b.top()
	b.stk = b.stk[:len(b.stk)-1]
	return last
}

func (b *builder) push(v Value) { b.stk = append(b.stk, v) }

// intern interns a copy of text and returns a slice of the copy.  Allocations
// are batched to reduce allocation overhead.
func (b *builder) intern(text []byte) []byte {
	const bufBlockBytes = 8192

	if len(text) >= bufBlockBytes/16 {
		return append([]byte(nil), text...)
	}

	i := 0
	for i < len(b.tbuf) {
		if len(b.tbuf[i])+len(text) <= cap(b.tbuf[i]) {
			break
		}
		i++
	}
	if i == len(b.tbuf) {
		b.tbuf = append(b.tbuf, make([]byte, 0, bufBlockBytes))
	}
	p := len(b.tbuf[i])
	b.tbuf[i] = append(b.tbuf[i], text...)
	return b.tbuf[i][p : p+len(text) : p+len(text)]
}
