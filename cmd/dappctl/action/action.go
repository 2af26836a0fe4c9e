// Copyright (c) 2022 EPAM Systems, Inc.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package action

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/epam/dappctl/cmd/dappctl/config"
	"github.com/epam/dappctl/cmd/dappctl/dockerapp"
	"github.com/epam/dappctl/cmd/dappctl/lifecycle"
	"github.com/epam/dappctl/cmd/dappctl/report"
	"github.com/epam/dappctl/cmd/dappctl/settings"
)

type Mode int

const (
	Aggregate Mode = iota
	Streaming
)

// FromSettings snapshots a settings record into a request for sub, to be run
// in dir. The init subcommand takes nothing from the record.
func FromSettings(sub dockerapp.Subcommand, record settings.Record, dir string) dockerapp.Request {
	req := dockerapp.Request{Subcommand: sub, WorkingDirectory: dir}
	if sub == dockerapp.Init {
		return req
	}
	req.AppPath = record.Path
	req.Overrides = dockerapp.Lines(record.Overrides)
	if sub == dockerapp.Deploy {
		req.Orchestrator = dockerapp.Orchestrator(record.Orchestrator)
		req.KubeconfigPath = record.Kubeconfig
		req.Namespace = record.Namespace
		req.StackName = record.Name
	}
	return req
}

// ReportedError is returned by Run for every outcome other than success. The
// outcome was already delivered to the presenter or notifier.
type ReportedError struct {
	Kind     report.Kind
	ExitCode int
	Err      error
}

func (e *ReportedError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("docker-app exited with code %d", e.ExitCode)
}

func (e *ReportedError) Unwrap() error {
	return e.Err
}

var exitCodes = map[report.Kind]int{
	report.SpawnFailure: 127,
	report.Timeout:      124,
	report.Interrupted:  130,
}

type Runner struct {
	// Program replaces docker-app in the built command when set.
	Program   string
	Timeout   time.Duration
	Mode      Mode
	Echo      bool
	Presenter report.Presenter
	Notifier  report.Notifier
}

// Run builds, invokes and reports one request. Render output is always shown
// since it is the product of the command.
func (r *Runner) Run(ctx context.Context, req dockerapp.Request) (report.Kind, error) {
	argv := dockerapp.Build(req)
	if r.Program != "" {
		argv[0] = r.Program
	}
	if config.Verbose {
		log.Printf("Running %s", dockerapp.String(argv))
	}
	opts := lifecycle.Options{Dir: req.WorkingDirectory, Timeout: r.Timeout}
	titles := report.TitlesFor(req.Subcommand)

	var res *lifecycle.Result
	var err error
	var kind report.Kind
	if r.Mode == Streaming {
		streamer := report.NewStreamer(r.Notifier, titles)
		res, err = lifecycle.Stream(ctx, argv, opts, streamer.Line)
		kind = streamer.Finish(res, err)
	} else {
		outcome := <-lifecycle.Go(ctx, argv, opts, nil)
		res, err = outcome.Result, outcome.Err
		msg := report.Compose(titles, res, err, r.Echo || req.Subcommand == dockerapp.Render)
		r.Presenter.Present(msg)
		kind = msg.Kind
	}

	if config.Debug && res != nil {
		log.Printf("Invocation %s finished in %v: %s", res.ID, res.Duration, kind)
	}
	if kind == report.Success {
		return kind, nil
	}
	exitCode := 1
	if res != nil && res.ExitCode != 0 {
		exitCode = res.ExitCode
	} else if code, exist := exitCodes[kind]; exist {
		exitCode = code
	}
	return kind, &ReportedError{Kind: kind, ExitCode: exitCode, Err: err}
}
