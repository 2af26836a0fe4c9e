// Copyright (c) 2022 EPAM Systems, Inc.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package lifecycle

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/epam/dappctl/cmd/dappctl/config"
)

// Invoke runs argv in opts.Dir and returns the exit code together with
// complete stdout and stderr.
func Invoke(ctx context.Context, argv []string, opts Options) (*Result, error) {
	return execImplementation(ctx, argv, opts, nil)
}

// Stream runs argv in opts.Dir and calls sink once per output line as it is
// produced. Calls to sink are serialized; lines of one stream arrive in order
// but stdout and stderr lines are not ordered relative to each other.
func Stream(ctx context.Context, argv []string, opts Options, sink Sink) (*Result, error) {
	if sink == nil {
		sink = func(Line) {}
	}
	return execImplementation(ctx, argv, opts, sink)
}

// Go starts the invocation on a separate goroutine and returns a channel that
// receives exactly one Outcome. With a nil sink the outcome carries captured
// output, otherwise lines are streamed to sink.
func Go(ctx context.Context, argv []string, opts Options, sink Sink) <-chan Outcome {
	done := make(chan Outcome, 1)
	go func() {
		defer close(done)
		var outcome Outcome
		if sink == nil {
			outcome.Result, outcome.Err = Invoke(ctx, argv, opts)
		} else {
			outcome.Result, outcome.Err = Stream(ctx, argv, opts, sink)
		}
		done <- outcome
	}()
	return done
}

func goWait(routine func()) chan struct{} {
	ch := make(chan struct{})
	go func() {
		routine()
		close(ch)
	}()
	return ch
}

func checkWorkingDirectory(program, dir string) error {
	if dir == "" {
		return &SpawnError{Program: program, Err: ErrNoWorkingDirectory}
	}
	info, err := os.Stat(dir)
	if err != nil {
		return &SpawnError{Program: program, Err: fmt.Errorf("Working directory: %w", err)}
	}
	if !info.IsDir() {
		return &SpawnError{Program: program, Err: fmt.Errorf("Working directory `%s` is not a directory", dir)}
	}
	return nil
}

func contextError(ctx context.Context, program string, timeout time.Duration) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		if timeout > 0 {
			return fmt.Errorf("%w: `%s` did not finish in %v", ErrTimeout, program, timeout)
		}
		return fmt.Errorf("%w: `%s` did not finish before deadline", ErrTimeout, program)
	}
	return fmt.Errorf("%w: `%s` was cancelled: %w", ErrInterrupted, program, ctx.Err())
}

func execImplementation(ctx context.Context, argv []string, opts Options, sink Sink) (*Result, error) {
	if len(argv) == 0 || argv[0] == "" {
		return nil, &SpawnError{Err: ErrEmptyCommand}
	}
	program := argv[0]
	if err := checkWorkingDirectory(program, opts.Dir); err != nil {
		return nil, err
	}
	if ctx.Err() != nil {
		return nil, contextError(ctx, program, opts.Timeout)
	}
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	impl := exec.CommandContext(ctx, program, argv[1:]...)
	impl.Dir = opts.Dir
	if len(opts.Env) > 0 {
		impl.Env = append(os.Environ(), opts.Env...)
	}
	stdoutImpl, err := impl.StdoutPipe()
	if err != nil {
		return nil, &SpawnError{Program: program, Err: fmt.Errorf("Unable to obtain sub-process stdout pipe: %w", err)}
	}
	stderrImpl, err := impl.StderrPipe()
	if err != nil {
		return nil, &SpawnError{Program: program, Err: fmt.Errorf("Unable to obtain sub-process stderr pipe: %w", err)}
	}

	id := uuid.NewString()
	if config.Debug {
		log.Printf("--- Invocation: %s", id)
		log.Printf("--- Dir: %s", impl.Dir)
		log.Printf("--- File: %s", impl.Path)
		if len(argv) > 1 {
			log.Printf("--- Args: %q", argv[1:])
		}
	}

	started := time.Now()
	// Start closes both pipes on failure, nothing is read
	if err := impl.Start(); err != nil {
		if ctx.Err() != nil {
			return nil, contextError(ctx, program, opts.Timeout)
		}
		return nil, &SpawnError{Program: program, Err: err}
	}

	// CommandContext kills the process on cancellation; closing our ends of
	// the pipes also unblocks readers when a grandchild keeps them open.
	unwatch := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			stdoutImpl.Close()
			stderrImpl.Close()
		case <-unwatch:
		}
	}()

	var stdoutBuffer, stderrBuffer bytes.Buffer
	var stdoutErr, stderrErr error
	if sink == nil {
		stdoutComplete := goWait(func() { _, stdoutErr = io.Copy(&stdoutBuffer, stdoutImpl) })
		stderrComplete := goWait(func() { _, stderrErr = io.Copy(&stderrBuffer, stderrImpl) })
		<-stdoutComplete
		<-stderrComplete
	} else {
		var mutex sync.Mutex
		emit := func(line Line) {
			mutex.Lock()
			defer mutex.Unlock()
			sink(line)
		}
		stdoutComplete := goWait(func() { stdoutErr = scanLines(stdoutImpl, Stdout, emit) })
		stderrComplete := goWait(func() { stderrErr = scanLines(stderrImpl, Stderr, emit) })
		<-stdoutComplete
		<-stderrComplete
	}
	close(unwatch)

	// Wait must follow the reads: it closes the pipes once the process exits.
	waitErr := impl.Wait()
	duration := time.Since(started)

	if ctx.Err() != nil {
		if config.Debug {
			log.Printf("--- Invocation %s stopped after %v: %v", id, duration, ctx.Err())
		}
		return nil, contextError(ctx, program, opts.Timeout)
	}

	exitCode := 0
	if waitErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(waitErr, &exitErr) {
			return nil, fmt.Errorf("Unable to wait for `%s`: %w", program, waitErr)
		}
		exitCode = exitErr.ExitCode()
	}
	if readErr := firstReadError(stdoutErr, stderrErr); readErr != nil {
		return nil, fmt.Errorf("Unable to read `%s` output: %w", program, readErr)
	}

	if config.Debug {
		log.Printf("--- Invocation %s exit code %d in %v", id, exitCode, duration)
	}

	result := &Result{
		ID:       id,
		Args:     append([]string(nil), argv...),
		ExitCode: exitCode,
		Duration: duration,
	}
	if sink == nil {
		result.Stdout = stdoutBuffer.Bytes()
		result.Stderr = stderrBuffer.Bytes()
	}
	return result, nil
}

func scanLines(reader io.Reader, stream Channel, emit func(Line)) error {
	buffered := bufio.NewReaderSize(reader, 64*1024)
	for {
		text, err := buffered.ReadString('\n')
		if len(text) > 0 {
			text = strings.TrimSuffix(text, "\n")
			text = strings.TrimSuffix(text, "\r")
			emit(Line{Stream: stream, Text: text})
		}
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
	}
}

func firstReadError(errs ...error) error {
	for _, err := range errs {
		if err != nil && !errors.Is(err, os.ErrClosed) {
			return err
		}
	}
	return nil
}
