// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

// Package ast defines an abstract syntax tree for JSON values, and a parser
// that constructs syntax trees from a jtok.Stream.
package ast

import (
	"fmt"
	"math"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/creachadair/jtok/internal/escape"
	"go4.org/mem"
)

// A Value is an arbitrary JSON value.
type Value interface {
	// JSON returns the compact JSON encoding of the value.
	JSON() string
}

// An Object is a collection of key-value members.
type Object []*Member

// Find returns the first member of o with the given key, or nil.
func (o Object) Find(key string) *Member {
	for _, m := range o {
		if m.Key == key {
			return m
		}
	}
	return nil
}

// Len reports the number of members in o.
func (o Object) Len() int { return len(o) }

// JSON satisfies the Value interface.
func (o Object) JSON() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, m := range o {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(m.JSON())
	}
	sb.WriteByte('}')
	return sb.String()
}

// A Member is a single key-value pair belonging to an Object.
type Member struct {
	Key   string
	Value Value
}

// Field constructs an object member with the given key and value.  The value
// is converted as by ToValue.
func Field(key string, value any) *Member { return &Member{Key: key, Value: ToValue(value)} }

// JSON satisfies the Value interface.
func (m *Member) JSON() string {
	buf := escape.Quote(mem.S(m.Key))
	buf = append(buf, ':')
	return string(append(buf, m.Value.JSON()...))
}

// An Array is a sequence of values.
type Array []Value

// ArrayOf constructs an array of the given values, each converted as by
// ToValue.
func ArrayOf(vs ...any) Array {
	a := make(Array, len(vs))
	for i, v := range vs {
		a[i] = ToValue(v)
	}
	return a
}

// Len reports the number of elements in a.
func (a Array) Len() int { return len(a) }

// JSON satisfies the Value interface.
func (a Array) JSON() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, v := range a {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(v.JSON())
	}
	sb.WriteByte(']')
	return sb.String()
}

// A Quoted is a string value. Its text is stored decoded.
type Quoted struct{ text []byte }

// String constructs a string value with the given text.
func String(s string) Quoted { return Quoted{text: []byte(s)} }

// Unquote returns the decoded text of q.
func (q Quoted) Unquote() string { return string(q.text) }

// Len reports the length of the decoded text of q in bytes.
func (q Quoted) Len() int { return len(q.text) }

// JSON satisfies the Value interface.
func (q Quoted) JSON() string { return string(escape.Quote(mem.B(q.text))) }

// A Number is a numeric value, stored as its JSON text.
type Number struct{ text []byte }

// Int constructs a number with the given integer value.
func Int(z int64) Number { return Number{text: strconv.AppendInt(nil, z, 10)} }

// Float constructs a number with the given floating-point value.  It panics
// if f is NaN or infinite, which JSON cannot represent.
func Float(f float64) Number {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		panic(fmt.Sprintf("invalid JSON number %v", f))
	}
	return Number{text: strconv.AppendFloat(nil, f, 'g', -1, 64)}
}

// IsInt reports whether n is written as an integer in range for int64.
func (n Number) IsInt() bool {
	_, err := mem.ParseInt(mem.B(n.text), 10, 64)
	return err == nil
}

// Int64 returns the value of n as an int64. It panics if n is not an integer
// (see IsInt).
func (n Number) Int64() int64 {
	v, err := mem.ParseInt(mem.B(n.text), 10, 64)
	if err != nil {
		panic(err)
	}
	return v
}

// Float64 returns the value of n as a float64.
func (n Number) Float64() float64 {
	v, err := mem.ParseFloat(mem.B(n.text), 64)
	if err != nil && !math.IsInf(v, 0) {
		panic(err)
	}
	return v
}

// JSON satisfies the Value interface.
func (n Number) JSON() string { return string(n.text) }

// A Bool is a Boolean constant, true or false.
type Bool bool

// JSON satisfies the Value interface.
func (b Bool) JSON() string {
	if b {
		return "true"
	}
	return "false"
}

type null struct{}

func (null) JSON() string { return "null" }

// Null is the null constant.
var Null Value = null{}

// ToValue converts a Go value into a Value. It understands nil, Value, bool,
// string, the built-in integer and floating-point types, []any, and
// map[string]any, recursively. Object members are ordered by key.
// ToValue panics for any other type.
func ToValue(v any) Value {
	switch t := v.(type) {
	case nil:
		return Null
	case Value:
		return t
	case bool:
		return Bool(t)
	case string:
		return String(t)
	case float32:
		return Float(float64(t))
	case float64:
		return Float(t)
	case []any:
		return ArrayOf(t...)
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		o := make(Object, len(keys))
		for i, k := range keys {
			o[i] = Field(k, ToValue(t[k]))
		}
		return o
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Int(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return Number{text: strconv.AppendUint(nil, rv.Uint(), 10)}
	}
	panic(fmt.Sprintf("unsupported value type %T", v))
}
