// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jtok

import (
	"github.com/creachadair/jtok/internal/escape"

	"go4.org/mem"
)

// Quote encodes src as a JSON string value. The contents are escaped and
// double quotation marks are added. Quote is the inverse of the decoding a
// Stream applies to String tokens.
func Quote(src []byte) string { return string(escape.Quote(mem.B(src))) }
