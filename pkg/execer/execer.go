// Copyright 2023 the wifijoin Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package execer is the boundary to external commands. Everything the
// tool does to the host's network stack goes through a Runner, so tests
// can substitute a recording stub and assert exact invocations.
package execer

import (
	"bytes"
	"context"
	"io"
	"os/exec"
)

// Runner executes a named command. Run reports only the exit status;
// Output also captures standard output, for query commands.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) error
	Output(ctx context.Context, name string, args ...string) (string, error)
}

var _ = Runner(&ExecRunner{})

// ExecRunner runs commands on the host. Stdout and Stderr, when set,
// receive the command's streams in addition to any capture.
type ExecRunner struct {
	Stdout, Stderr io.Writer
}

func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout, cmd.Stderr = r.Stdout, r.Stderr
	return cmd.Run()
}

func (r *ExecRunner) Output(ctx context.Context, name string, args ...string) (string, error) {
	// Need a local copy of exec's output to parse.
	var execOutput bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &execOutput
	if r.Stdout != nil {
		cmd.Stdout = io.MultiWriter(&execOutput, r.Stdout)
	}
	cmd.Stderr = r.Stderr
	err := cmd.Run()
	return execOutput.String(), err
}

// Result is one canned reply a Recorder hands out.
type Result struct {
	Out string
	Err error
}

var _ = Runner(&Recorder{})

// Recorder is a Runner for tests. It records every invocation and
// replays canned Results per command name, consumed in order. A command
// with no canned Result succeeds with empty output.
type Recorder struct {
	Calls   [][]string
	Results map[string][]Result
}

func (r *Recorder) take(name string) Result {
	q := r.Results[name]
	if len(q) == 0 {
		return Result{}
	}
	res := q[0]
	r.Results[name] = q[1:]
	return res
}

func (r *Recorder) Run(ctx context.Context, name string, args ...string) error {
	r.Calls = append(r.Calls, append([]string{name}, args...))
	return r.take(name).Err
}

func (r *Recorder) Output(ctx context.Context, name string, args ...string) (string, error) {
	r.Calls = append(r.Calls, append([]string{name}, args...))
	res := r.take(name)
	return res.Out, res.Err
}

// Called reports whether any recorded invocation ran name.
func (r *Recorder) Called(name string) bool {
	for _, c := range r.Calls {
		if c[0] == name {
			return true
		}
	}
	return false
}
