// Copyright (c) 2022 EPAM Systems, Inc.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package dockerapp

import (
	"strings"
)

// Build turns a request into the docker-app argument list, program name first.
// It never fails: a request missing required fields yields a degenerate but
// well-formed command and validation is left to the caller.
func Build(req Request) []string {
	args := []string{Program, string(req.Subcommand)}

	switch req.Subcommand {
	case Init:
		args = append(args, req.Name)
		args = appendIfSet(args, "-d", req.Description)
		args = appendEach(args, "-m", req.Maintainers)
		args = appendIfSet(args, "-c", req.ComposeFile)
		if req.SingleFile {
			args = append(args, "--single-file")
		}

	case Render:
		args = appendIfSet(args, "", req.AppPath)
		args = appendEach(args, "-s", req.Overrides)
		args = appendEach(args, "-f", req.SettingsFiles)
		args = appendIfSet(args, "-o", req.OutputFile)

	case Deploy:
		args = appendIfSet(args, "", req.AppPath)
		orchestrator := req.Orchestrator
		if orchestrator == "" {
			orchestrator = DefaultOrchestrator
		}
		args = append(args, "--orchestrator="+string(orchestrator))
		args = appendIfSet(args, "--kubeconfig", req.KubeconfigPath)
		args = appendIfSet(args, "--namespace", req.Namespace)
		args = appendIfSet(args, "--name", req.StackName)
		args = appendEach(args, "-s", req.Overrides)
		args = appendEach(args, "-f", req.SettingsFiles)

	default:
		args = appendIfSet(args, "", req.AppPath)
	}

	return args
}

func appendIfSet(args []string, flag, value string) []string {
	if value == "" {
		return args
	}
	if flag != "" {
		args = append(args, flag)
	}
	return append(args, value)
}

func appendEach(args []string, flag string, values []string) []string {
	for _, value := range values {
		if value != "" {
			args = append(args, flag, value)
		}
	}
	return args
}

// String renders argv for humans, single-quoting tokens a shell would split.
// The result is only a preview: invocations always pass argv as a list.
func String(argv []string) string {
	quoted := make([]string, 0, len(argv))
	for _, arg := range argv {
		quoted = append(quoted, quote(arg))
	}
	return strings.Join(quoted, " ")
}

func quote(arg string) string {
	if arg == "" {
		return "''"
	}
	if strings.IndexFunc(arg, needsQuote) == -1 {
		return arg
	}
	return "'" + strings.ReplaceAll(arg, "'", `'\''`) + "'"
}

func needsQuote(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return false
	}
	return !strings.ContainsRune("-_=./:,@+%", r)
}
