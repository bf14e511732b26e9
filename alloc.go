// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jtok

import "fmt"

// An Allocator accounts for the storage a Stream uses for its lexeme buffer
// and nesting stack. The Stream calls Reserve before it grows either region
// and Release when the storage is discarded. If Reserve reports an error,
// the growth does not happen and the Stream reports an out-of-memory error.
//
// A nil Allocator in Options places no limit on storage.
type Allocator interface {
	// Reserve requests n additional bytes of storage.
	Reserve(n int) error

	// Release returns n bytes of previously-reserved storage.
	Release(n int)
}

type unlimited struct{}

func (unlimited) Reserve(int) error { return nil }
func (unlimited) Release(int)       {}

// A Limit is an Allocator that refuses to reserve more than a fixed total
// number of bytes. A Limit may be shared among several streams that are
// used by a single goroutine.
type Limit struct {
	max, used int
}

// NewLimit constructs a Limit that permits at most max bytes to be reserved
// at once.
func NewLimit(max int) *Limit { return &Limit{max: max} }

// Reserve implements part of the Allocator interface.
func (l *Limit) Reserve(n int) error {
	if l.used+n > l.max {
		return fmt.Errorf("reserve %d bytes: %d of %d in use", n, l.used, l.max)
	}
	l.used += n
	return nil
}

// Release implements part of the Allocator interface.
func (l *Limit) Release(n int) { l.used = max(l.used-n, 0) }

// InUse reports the number of bytes currently reserved from l.
func (l *Limit) InUse() int { return l.used }
