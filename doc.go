// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

// Package jtok implements a pull tokenizer for JSON.
//
// # Tokenizing
//
// A Stream reads JSON from a Source and reports one token per call to Next.
// The stream checks the structure of its input as it goes, using an explicit
// stack of open arrays and objects rather than recursion, so nesting depth is
// limited only by memory:
//
//	s := jtok.OpenReader(input, nil)
//	defer s.Close()
//	for tok := s.Next(); tok != jtok.Done; tok = s.Next() {
//	   if tok == jtok.Error {
//	      log.Fatalf("Tokenizing failed: %v", s.Err())
//	   }
//	   log.Printf("Next token: %v %q", tok, s.Text())
//	}
//
// For String and Number tokens, Text reports the decoded text of the
// token. Escape sequences in strings are replaced, including surrogate pairs,
// and raw UTF-8 in strings is checked for validity. The text is only valid
// until the next call to Next; use Copy to retain it.
//
// Peek reports the next token without consuming it. Skip and SkipUntil
// consume whole values at a time.
//
// # Errors
//
// Errors are sticky: once Next reports Error, it continues to do so without
// consuming input. The error, of concrete type *SyntaxError, is available
// from Err, and its class can be checked with errors.Is:
//
//	if errors.Is(s.Err(), jtok.ErrTruncated) {
//	   log.Print("Input ended early")
//	}
//
// # Streaming
//
// By default a Stream reads exactly one top-level value. In streaming mode,
// it reads a sequence of values, reporting Done after each. The caller calls
// Reset to continue with the next value:
//
//	s := jtok.OpenReader(feed, &jtok.Options{Streaming: true})
//	for {
//	   tok := s.Next()
//	   if tok == jtok.Done {
//	      s.Reset()
//	      continue
//	   } else if tok == jtok.Error {
//	      break
//	   }
//	   // ...
//	}
//
// At the end of the input, the first Next after a Reset reports Error with
// class ErrTruncated.
package jtok
