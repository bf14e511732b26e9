// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package jtok

import (
	"bytes"
	"fmt"

	"github.com/tailscale/hujson"
)

// OpenJWCC constructs a new Stream that consumes a single value from data,
// which may contain comments and trailing commas ("JSON with commas and
// comments", JWCC). Comments and trailing commas are replaced by whitespace
// before tokenizing, so the line numbers and positions reported by the Stream
// match the original input. Streaming mode is not supported for JWCC input.
//
// OpenJWCC does not modify data. It reports an error if data is not a valid
// JWCC value.
func OpenJWCC(data []byte, opts *Options) (*Stream, error) {
	std, err := hujson.Standardize(bytes.Clone(data))
	if err != nil {
		return nil, fmt.Errorf("standardize JWCC: %w", err)
	}
	var o Options
	if opts != nil {
		o = *opts
	}
	o.Streaming = false
	return OpenBuffer(std, &o), nil
}
