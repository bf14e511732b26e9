// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

// Program jtok is a command-line tool for inspecting JSON with the jtok
// tokenizer.
//
// Usage:
//
//	jtok [flags] tokens      # print the token stream of each input value
//	jtok [flags] pretty      # pretty-print each input value
//	jtok [flags] get <path>  # print the value at path in each input value
//
// Input is read from stdin, and may contain any number of JSON values.
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/creachadair/jtok"
	"github.com/creachadair/jtok/ast"
	"github.com/creachadair/jtok/ast/cursor"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

func main() {
	fd := os.Stdout.Fd()
	os.Exit(run(os.Args[1:], env{
		stdin:  os.Stdin,
		stdout: colorable.NewColorableStdout(),
		stderr: os.Stderr,
		tty:    isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd),
	}))
}

// env carries the I/O environment of the program.
type env struct {
	stdin          io.Reader
	stdout, stderr io.Writer
	tty            bool // stdout is a terminal
}

type settings struct {
	color     bool
	showPos   bool
	jwcc      bool
	maxMemory int
}

func (s settings) options(streaming bool) *jtok.Options {
	opts := &jtok.Options{Streaming: streaming}
	if s.maxMemory > 0 {
		opts.Allocator = jtok.NewLimit(s.maxMemory)
	}
	return opts
}

func run(args []string, e env) int {
	fs := flag.NewFlagSet("jtok", flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	colorMode := fs.String("color", "auto", "colorize output: auto, always, never")
	showPos := fs.Bool("pos", false, "tokens: show the line and offset of each token")
	useJWCC := fs.Bool("jwcc", false, "accept comments and trailing commas (single value only)")
	maxMemory := fs.Int("max-memory", 0, "limit tokenizer storage to this many bytes (0 means no limit)")
	fs.Usage = func() {
		fmt.Fprint(e.stderr, `Usage: jtok [flags] <command> [args]

Commands:
  tokens       print the token stream of each input value
  pretty       pretty-print each input value
  get <path>   print the value at a slash-separated path, e.g. /items/0/name

Flags:
`)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	cfg := settings{showPos: *showPos, jwcc: *useJWCC, maxMemory: *maxMemory}
	switch *colorMode {
	case "always":
		cfg.color = true
	case "never":
	case "auto":
		cfg.color = e.tty
	default:
		fmt.Fprintf(e.stderr, "jtok: invalid -color value %q (use auto, always, or never)\n", *colorMode)
		return 2
	}

	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}
	w := bufio.NewWriter(e.stdout)
	var err error
	switch cmd, rest := fs.Arg(0), fs.Args()[1:]; cmd {
	case "tokens":
		err = runTokens(cfg, e.stdin, w)
	case "pretty":
		err = runPretty(cfg, e.stdin, w)
	case "get":
		if len(rest) != 1 {
			fmt.Fprintln(e.stderr, "jtok: usage: get <path>")
			return 2
		}
		err = runGet(cfg, e.stdin, w, rest[0])
	default:
		fmt.Fprintf(e.stderr, "jtok: unknown command %q\n", cmd)
		return 2
	}
	if ferr := w.Flush(); err == nil {
		err = ferr
	}
	if err != nil {
		fmt.Fprintf(e.stderr, "jtok: %v\n", err)
		return 1
	}
	return 0
}

// open returns a stream for the input. In JWCC mode the input must contain a
// single value.
func open(cfg settings, r io.Reader) (*jtok.Stream, error) {
	if !cfg.jwcc {
		return jtok.OpenReader(r, cfg.options(true)), nil
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return jtok.OpenJWCC(data, cfg.options(false))
}

// eachValue calls f for each top-level value of s, and reports the first
// error from f or s. Reaching the end of the input is not an error.
func eachValue(s *jtok.Stream, f func() error) error {
	for {
		if tok := s.Peek(); tok == jtok.Error {
			if err := s.Err(); !errors.Is(err, io.EOF) {
				return err
			}
			return nil
		}
		if err := f(); err != nil {
			return err
		} else if !s.Streaming() {
			return nil
		}
		s.Reset()
	}
}

// runTokens prints one line per token, in the manner of a test expectation.
func runTokens(cfg settings, r io.Reader, w io.Writer) error {
	s, err := open(cfg, r)
	if err != nil {
		return err
	}
	defer s.Close()
	c := colors(cfg.color)

	return eachValue(s, func() error {
		for {
			tok := s.Next()
			if tok == jtok.Error {
				return s.Err()
			}
			if cfg.showPos {
				fmt.Fprintf(w, "%d:%d\t", s.Line(), s.Pos())
			}
			fmt.Fprint(w, strings.Repeat("  ", depthBefore(s, tok)))
			switch tok {
			case jtok.String:
				fmt.Fprintf(w, "%s %s\n", tok, c.paint(c.str, jtok.Quote(s.Text())))
			case jtok.Number:
				fmt.Fprintf(w, "%s %s\n", tok, c.paint(c.num, string(s.Text())))
			default:
				fmt.Fprintln(w, tok)
			}
			if tok == jtok.Done {
				return nil
			}
		}
	})
}

// depthBefore reports the nesting depth at which tok appears.
func depthBefore(s *jtok.Stream, tok jtok.Token) int {
	if tok == jtok.ObjectStart || tok == jtok.ArrayStart {
		return s.Depth() - 1
	}
	return s.Depth()
}

// runPretty writes an indented rendering of each value.
func runPretty(cfg settings, r io.Reader, w io.Writer) error {
	s, err := open(cfg, r)
	if err != nil {
		return err
	}
	defer s.Close()
	p := &printer{w: w, c: colors(cfg.color)}

	return eachValue(s, func() error {
		if err := p.value(s); err != nil {
			return err
		}
		_, err := io.WriteString(w, "\n")
		return err
	})
}

// runGet prints the value at path in each value.
func runGet(cfg settings, r io.Reader, w io.Writer, path string) error {
	s, err := open(cfg, r)
	if err != nil {
		return err
	}
	defer s.Close()
	elts := cursor.ParsePath(path)

	return eachValue(s, func() error {
		v, err := ast.ParseStream(s)
		if err != nil {
			return err
		}
		c := cursor.New(v).Down(elts...)
		if err := c.Err(); err != nil {
			return fmt.Errorf("line %d: %w", s.Line(), err)
		}
		out := c.Value()
		if m, ok := out.(*ast.Member); ok {
			out = m.Value
		}
		_, err = fmt.Fprintln(w, out.JSON())
		return err
	})
}

// A printer renders the tokens of a value with indentation.
type printer struct {
	w io.Writer
	c palette
}

func (p *printer) indent(depth int) {
	io.WriteString(p.w, "\n"+strings.Repeat("  ", depth))
}

// value writes the next value of s, through the Done that ends it.
func (p *printer) value(s *jtok.Stream) error {
	for {
		tok := s.Next()
		switch tok {
		case jtok.Error:
			return s.Err()
		case jtok.Done:
			return nil

		case jtok.ObjectStart, jtok.ArrayStart:
			open, end := "{", jtok.ObjectEnd
			if tok == jtok.ArrayStart {
				open, end = "[", jtok.ArrayEnd
			}
			// Peeking at the first element may change the depth.
			depth := s.Depth()
			if s.Peek() == end {
				s.Next()
				io.WriteString(p.w, open+closer(end))
				p.separate(s)
				continue
			}
			io.WriteString(p.w, open)
			p.indent(depth)

		case jtok.ObjectEnd, jtok.ArrayEnd:
			p.indent(s.Depth())
			io.WriteString(p.w, closer(tok))
			p.separate(s)

		case jtok.String:
			text := jtok.Quote(s.Text())
			if kind, n := s.Context(); kind == jtok.ObjectStart && n%2 == 1 {
				io.WriteString(p.w, p.c.paint(p.c.key, text)+": ")
				continue
			}
			io.WriteString(p.w, p.c.paint(p.c.str, text))
			p.separate(s)

		case jtok.Number:
			io.WriteString(p.w, p.c.paint(p.c.num, string(s.Text())))
			p.separate(s)

		default:
			io.WriteString(p.w, p.c.paint(p.c.lit, tok.String()))
			p.separate(s)
		}
	}
}

// separate writes a separator following a value, if another value follows
// it in the same array or object.
func (p *printer) separate(s *jtok.Stream) {
	depth := s.Depth()
	if depth == 0 {
		return
	}
	switch s.Peek() {
	case jtok.ObjectEnd, jtok.ArrayEnd, jtok.Error:
		return
	}
	io.WriteString(p.w, ",")
	p.indent(depth)
}

func closer(end jtok.Token) string {
	if end == jtok.ObjectEnd {
		return "}"
	}
	return "]"
}

// ANSI terminal color codes.
const (
	reset      = "\x1b[0m"
	green      = "\x1b[32m"
	yellow     = "\x1b[33m"
	brightBlue = "\x1b[94m"
	dimWhite   = "\x1b[2;37m"
)

type palette struct {
	on                 bool
	key, str, num, lit string
}

func colors(on bool) palette {
	return palette{on: on, key: brightBlue, str: green, num: yellow, lit: dimWhite}
}

func (p palette) paint(code, text string) string {
	if !p.on {
		return text
	}
	return code + text + reset
}
