// Copyright (c) 2022 EPAM Systems, Inc.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package lifecycle

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrTimeout            = errors.New("Timed out")
	ErrInterrupted        = errors.New("Interrupted")
	ErrNoWorkingDirectory = errors.New("No working directory")
	ErrEmptyCommand       = errors.New("Empty command")
)

// SpawnError means the program never started: nothing was run and no stream
// was read.
type SpawnError struct {
	Program string
	Err     error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("Unable to start `%s`: %v", e.Program, e.Err)
}

func (e *SpawnError) Unwrap() error {
	return e.Err
}

type Options struct {
	// Dir is the working directory of the sub-process; mandatory.
	Dir string
	// Timeout of zero means no deadline besides the one on the context.
	Timeout time.Duration
	// Env is appended to the current process environment.
	Env []string
}

// Result of a program that ran to completion. A non-zero exit code is not an
// error. Stdout and Stderr are nil in streaming mode.
type Result struct {
	ID       string
	Args     []string
	ExitCode int
	Stdout   []byte
	Stderr   []byte
	Duration time.Duration
}

func (r *Result) Success() bool {
	return r.ExitCode == 0
}

// Channel identifies the output stream a line came from.
type Channel int

const (
	Stdout Channel = iota
	Stderr
)

func (s Channel) String() string {
	if s == Stderr {
		return "stderr"
	}
	return "stdout"
}

// Line is one line of sub-process output without the line terminator.
type Line struct {
	Stream Channel
	Text   string
}

type Sink func(Line)

type Outcome struct {
	Result *Result
	Err    error
}
