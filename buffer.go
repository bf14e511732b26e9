// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jtok

const initialBufferSize = 1024

// A buffer accumulates the text of the current token. Its storage is reused
// from one token to the next, and doubles in capacity when full.
type buffer struct {
	data  []byte
	alloc Allocator
}

// reset discards the contents of b, allocating its initial storage on the
// first call.
func (b *buffer) reset() error {
	if b.data == nil {
		if err := b.alloc.Reserve(initialBufferSize); err != nil {
			return err
		}
		b.data = make([]byte, 0, initialBufferSize)
	}
	b.data = b.data[:0]
	return nil
}

// add appends c to the contents of b.
func (b *buffer) add(c byte) error {
	if n := len(b.data); n == cap(b.data) {
		size := max(2*n, initialBufferSize)
		if err := b.alloc.Reserve(size - n); err != nil {
			return err
		}
		grown := make([]byte, n, size)
		copy(grown, b.data)
		b.data = grown
	}
	b.data = append(b.data, c)
	return nil
}

// bytes returns a view of the contents of b. The view is valid until the
// next call to reset or add.
func (b *buffer) bytes() []byte { return b.data }

// release discards the storage of b.
func (b *buffer) release() {
	if b.data != nil {
		b.alloc.Release(cap(b.data))
		b.data = nil
	}
}
