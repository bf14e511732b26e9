// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

// Package cursor implements traversal over the AST of a JSON value.
package cursor

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/creachadair/jtok/ast"
)

// Path traverses a sequential path into the structure of v where path elements
// are as documented for the Cursor.Down method.  This is a convenience wrapper
// for creating a cursor, applying path, and retrieving its value.
func Path[T ast.Value](v ast.Value, path ...any) (T, error) {
	c := New(v).Down(path...)
	var result T
	if err := c.Err(); err != nil {
		return result, err
	}
	t, ok := c.Value().(T)
	if !ok {
		return result, fmt.Errorf("wrong value type %T", c.Value())
	}
	return t, nil
}

// ParsePath parses a slash-separated path string into path elements suitable
// for Cursor.Down. Elements that parse as decimal integers become array
// indices; all others become object keys. A leading slash is ignored, and an
// empty string denotes the empty path.
//
// For example, "/items/-1/name" is equivalent to []any{"items", -1, "name"}.
func ParsePath(s string) []any {
	s = strings.TrimPrefix(s, "/")
	if s == "" {
		return nil
	}
	var path []any
	for _, elt := range strings.Split(s, "/") {
		if z, err := strconv.Atoi(elt); err == nil {
			path = append(path, z)
		} else {
			path = append(path, elt)
		}
	}
	return path
}

// A Cursor is a pointer that navigates into the structure of an ast.Value.
type Cursor struct {
	org ast.Value
	stk []ast.Value
	err error
}

// New constructs a new Cursor to traverse the structure of origin.
func New(origin ast.Value) *Cursor { return &Cursor{org: origin} }

// Origin returns the origin value of c.
func (c *Cursor) Origin() ast.Value { return c.org }

// AtOrigin reports whether c is at its origin.
func (c *Cursor) AtOrigin() bool { return len(c.stk) == 0 }

// Value reports the current value under the cursor. If the cursor rests on an
// object member, Value returns the *ast.Member.
func (c *Cursor) Value() ast.Value {
	if c.AtOrigin() {
		return c.org
	}
	return c.stk[len(c.stk)-1]
}

// Path reports the complete sequence of values from the origin to the current
// location in c.
func (c *Cursor) Path() []ast.Value {
	return append([]ast.Value{c.org}, c.stk...)
}

// Err reports the error from the most recent traversal operation, if any.
func (c *Cursor) Err() error { return c.err }

// Up moves the cursor one position upward in the structure, if possible.
// It returns c to permit chaining.
func (c *Cursor) Up() *Cursor {
	if n := len(c.stk); n > 0 {
		c.stk = c.stk[:n-1]
	}
	return c
}

// Reset resets the cursor to its origin and clears its error.
func (c *Cursor) Reset() { c.stk = c.stk[:0]; c.err = nil }

// Down traverses a sequential path into the structure of c starting from the
// current value, where path elements are either strings (denoting object
// keys), integers (denoting offsets into arrays), functions (see below), or
// nil.  If the path cannot be completely consumed, traversal stops at the
// last value reached and an error is recorded. Use Err to recover the error.
//
// If a path element is a string, the corresponding value must be an object,
// and the string resolves an object member with that name. If this is the last
// element of the path, the cursor rests on the *ast.Member; otherwise,
// subsequent path elements continue from the value of that member. Use a nil
// path element to step from a member to its value.
//
// If a path element is an integer, the corresponding value must be an array or
// object, and the integer resolves to an index in the array or object.
// Negative indices count backward from the end (-1 is last, -2 second last).
//
// If a path element is a function, the function is executed and its result
// becomes the next value in the sequence. The function must have a signature
//
//	func(ast.Value) (ast.Value, error)
func (c *Cursor) Down(path ...any) *Cursor {
	c.err = nil
	cur := c.Value()
	for i, elt := range path {
		if m, ok := cur.(*ast.Member); ok {
			cur = c.push(m.Value)
		}

		switch t := elt.(type) {
		case string:
			o, ok := cur.(ast.Object)
			if !ok {
				return c.setErrorf(i, "cannot traverse %T with %q", cur, elt)
			}
			m := o.Find(t)
			if m == nil {
				return c.setErrorf(i, "key %q not found", t)
			}
			cur = c.push(m)

		case int:
			switch e := cur.(type) {
			case ast.Array:
				j, ok := fixArrayBound(len(e), t)
				if !ok {
					return c.setErrorf(i, "array index %d out of bounds (n=%d)", t, len(e))
				}
				cur = c.push(e[j])
			case ast.Object:
				j, ok := fixArrayBound(len(e), t)
				if !ok {
					return c.setErrorf(i, "object index %d out of bounds (n=%d)", t, len(e))
				}
				cur = c.push(e[j])
			default:
				return c.setErrorf(i, "cannot traverse %T with %v", cur, elt)
			}

		case func(ast.Value) (ast.Value, error):
			next, err := t(cur)
			if err != nil {
				c.err = fmt.Errorf("path element %d: %w", i, err)
				return c
			}
			cur = c.push(next)

		case nil:
			// The member, if any, was already resolved above.

		default:
			return c.setErrorf(i, "invalid path element %T", elt)
		}
	}
	return c
}

func (c *Cursor) push(v ast.Value) ast.Value { c.stk = append(c.stk, v); return v }

func (c *Cursor) setErrorf(i int, msg string, args ...any) *Cursor {
	c.err = fmt.Errorf("path element %d: %s", i, fmt.Sprintf(msg, args...))
	return c
}

func fixArrayBound(n, i int) (int, bool) {
	if i < 0 {
		i += n
	}
	return i, i >= 0 && i < n
}
