// Copyright 2023 the wifijoin Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package prompt separates operator input from the connection flow, so
// the flow can be driven by scripted input in tests without a terminal.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"
)

var (
	// ErrCanceled means the operator backed out of a menu with an
	// empty line.
	ErrCanceled = errors.New("canceled by user")
	// ErrInvalidSelection means a menu reply outside the presented
	// range.
	ErrInvalidSelection = errors.New("invalid selection")
)

// LineReader reads operator input. ReadPassword must suppress echo.
type LineReader interface {
	ReadLine(msg string) (string, error)
	ReadPassword(msg string) (string, error)
}

// Terminal reads from standard input.
type Terminal struct {
	r *bufio.Reader
}

func NewTerminal() *Terminal {
	return &Terminal{r: bufio.NewReader(os.Stdin)}
}

func (t *Terminal) ReadLine(msg string) (string, error) {
	fmt.Print(msg)
	line, err := t.r.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (t *Terminal) ReadPassword(msg string) (string, error) {
	fmt.Print(msg)
	pass, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", err
	}
	return string(pass), nil
}

var _ = LineReader(&Script{})

// Script replays canned input lines, one per read; for tests.
type Script struct {
	Lines []string
}

func (s *Script) next() (string, error) {
	if len(s.Lines) == 0 {
		return "", io.EOF
	}
	line := s.Lines[0]
	s.Lines = s.Lines[1:]
	return line, nil
}

func (s *Script) ReadLine(string) (string, error)     { return s.next() }
func (s *Script) ReadPassword(string) (string, error) { return s.next() }

// Choose presents items as a 1-based numbered menu and reads one
// selection, returning its zero-based index. An empty line is
// ErrCanceled; anything else outside 1..len(items) is
// ErrInvalidSelection.
func Choose(in LineReader, title string, items []string) (int, error) {
	fmt.Println(title)
	for i, item := range items {
		fmt.Printf("[%d] %s\n", i+1, item)
	}
	line, err := in.ReadLine("> ")
	if err != nil {
		return -1, err
	}
	if line == "" {
		return -1, ErrCanceled
	}
	c, err := strconv.Atoi(line)
	if err != nil || c < 1 || c > len(items) {
		return -1, fmt.Errorf("%q is not a valid entry number: %w", line, ErrInvalidSelection)
	}
	return c - 1, nil
}
