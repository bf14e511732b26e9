// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jtok

import "unsafe"

const initialStackSize = 8

// A Frame records the state of one open array or object.
type Frame struct {
	// Kind is ArrayStart for an array, ObjectStart for an object.
	Kind Token

	// For an array, Count is the number of elements read so far.  For an
	// object, Count is the number of keys and values read so far, so that an
	// odd count means a value is due after the next colon.
	Count int
}

var frameSize = int(unsafe.Sizeof(Frame{}))

// A stack is the stack of open frames, innermost last.
type stack struct {
	frames []Frame
	alloc  Allocator
}

// push adds a new frame of the given kind.
func (k *stack) push(kind Token) error {
	if n := len(k.frames); n == cap(k.frames) {
		size := max(2*n, initialStackSize)
		if err := k.alloc.Reserve((size - n) * frameSize); err != nil {
			return err
		}
		grown := make([]Frame, n, size)
		copy(grown, k.frames)
		k.frames = grown
	}
	k.frames = append(k.frames, Frame{Kind: kind})
	return nil
}

// pop removes the innermost frame, which must have the given kind, and
// returns the token that ends it. It reports false if the stack is empty or
// the innermost frame has a different kind.
func (k *stack) pop(kind Token) (Token, bool) {
	n := len(k.frames)
	if n == 0 || k.frames[n-1].Kind != kind {
		return Error, false
	}
	k.frames = k.frames[:n-1]
	if kind == ArrayStart {
		return ArrayEnd, true
	}
	return ObjectEnd, true
}

// top returns the innermost frame, or nil if the stack is empty.  The
// pointer is invalidated by the next push.
func (k *stack) top() *Frame {
	if n := len(k.frames); n > 0 {
		return &k.frames[n-1]
	}
	return nil
}

func (k *stack) depth() int { return len(k.frames) }

func (k *stack) clear() { k.frames = k.frames[:0] }

func (k *stack) release() {
	if k.frames != nil {
		k.alloc.Release(cap(k.frames) * frameSize)
		k.frames = nil
	}
}
