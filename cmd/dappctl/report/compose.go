// Copyright (c) 2022 EPAM Systems, Inc.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package report

import (
	"errors"
	"fmt"
	"strings"

	"github.com/epam/dappctl/cmd/dappctl/dockerapp"
	"github.com/epam/dappctl/cmd/dappctl/lifecycle"
)

type Titles struct {
	Success     string
	Failure     string
	SuccessText string
	FailureText string
}

var titles = map[dockerapp.Subcommand]Titles{
	dockerapp.Render: {
		Success:     "Rendered Application",
		Failure:     "Render Failure",
		FailureText: "Application render failed",
	},
	dockerapp.Init: {
		Success:     "Application creation result",
		Failure:     "Application creation result",
		SuccessText: "Application successfully created.",
		FailureText: "Application creation failed, check event log for more information",
	},
	dockerapp.Deploy: {
		Success:     "Docker Application Deploy",
		Failure:     "Deploy Failure",
		SuccessText: "Application deployed.",
		FailureText: "Application deployment failed",
	},
}

func TitlesFor(sub dockerapp.Subcommand) Titles {
	if t, exist := titles[sub]; exist {
		return t
	}
	return Titles{
		Success:     fmt.Sprintf("docker-app %s", sub),
		Failure:     fmt.Sprintf("docker-app %s failure", sub),
		FailureText: fmt.Sprintf("docker-app %s failed", sub),
	}
}

func Classify(res *lifecycle.Result, err error) Kind {
	var spawnErr *lifecycle.SpawnError
	switch {
	case err == nil && res == nil:
		return Failure
	case err == nil && res.ExitCode == 0:
		return Success
	case err == nil:
		return NonZeroExit
	case errors.As(err, &spawnErr):
		return SpawnFailure
	case errors.Is(err, lifecycle.ErrTimeout):
		return Timeout
	case errors.Is(err, lifecycle.ErrInterrupted):
		return Interrupted
	}
	return Failure
}

// Compose turns an aggregate outcome into one message. On a non-zero exit the
// text carries stderr then stdout; on success output is included only when
// echo is set.
func Compose(t Titles, res *lifecycle.Result, err error, echo bool) Message {
	kind, title, summary, severity := summarize(t, res, err)
	text := summary
	switch kind {
	case NonZeroExit:
		text = joinNonEmpty(summary, combinedOutput(res))
	case Success:
		if echo {
			text = joinNonEmpty(summary, combinedOutput(res))
		}
		if text == "" {
			text = "Done"
		}
	}
	return Message{Title: title, Text: text, Severity: severity, Kind: kind}
}

func summarize(t Titles, res *lifecycle.Result, err error) (Kind, string, string, Severity) {
	kind := Classify(res, err)
	switch kind {
	case Success:
		return kind, t.Success, t.SuccessText, Info
	case NonZeroExit:
		return kind, t.Failure, fmt.Sprintf("%s: exit code %d", t.FailureText, res.ExitCode), Error
	case SpawnFailure:
		return kind, t.Failure, fmt.Sprintf("docker-app invocation failed with %v", err), Error
	case Timeout:
		return kind, t.Failure, fmt.Sprintf("docker-app invocation timed out: %v", err), Error
	case Interrupted:
		return kind, t.Failure, "docker-app invocation interrupted", Error
	}
	if err == nil {
		err = errors.New("no result")
	}
	return kind, t.Failure, fmt.Sprintf("docker-app invocation failed: %v", err), Error
}

func combinedOutput(res *lifecycle.Result) string {
	if res == nil {
		return ""
	}
	return strings.TrimRight(string(res.Stderr)+string(res.Stdout), "\n")
}

func joinNonEmpty(parts ...string) string {
	nonEmpty := make([]string, 0, len(parts))
	for _, part := range parts {
		if part != "" {
			nonEmpty = append(nonEmpty, part)
		}
	}
	return strings.Join(nonEmpty, "\n")
}
