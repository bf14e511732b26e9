// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jtok

// Token is the type of a token produced by a Stream.
type Token byte

// Constants defining the valid Token values.
const (
	Error       Token = iota // an error occurred; see Stream.Err
	Done                     // the current top-level value is complete
	ObjectStart              // left brace "{"
	ObjectEnd                // right brace "}"
	ArrayStart               // left square bracket "["
	ArrayEnd                 // right square bracket "]"
	String                   // quoted string
	Number                   // number
	True                     // constant: true
	False                    // constant: false
	Null                     // constant: null
)

var tokenStr = [...]string{
	Error:       "error",
	Done:        "done",
	ObjectStart: `"{"`,
	ObjectEnd:   `"}"`,
	ArrayStart:  `"["`,
	ArrayEnd:    `"]"`,
	String:      "string",
	Number:      "number",
	True:        "true",
	False:       "false",
	Null:        "null",
}

func (t Token) String() string {
	v := int(t)
	if v >= len(tokenStr) {
		return "invalid token"
	}
	return tokenStr[v]
}

// IsValue reports whether t is a scalar value token, one of String, Number,
// True, False, or Null.
func (t Token) IsValue() bool { return t >= String && t <= Null }
