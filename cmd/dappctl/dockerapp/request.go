// Copyright (c) 2022 EPAM Systems, Inc.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package dockerapp

import (
	"fmt"

	"github.com/epam/dappctl/cmd/dappctl/util"
)

const Program = "docker-app"

type Subcommand string

const (
	Init   Subcommand = "init"
	Render Subcommand = "render"
	Deploy Subcommand = "deploy"
)

var Subcommands = []Subcommand{Init, Render, Deploy}

func ParseSubcommand(str string) (Subcommand, error) {
	for _, sub := range Subcommands {
		if string(sub) == str {
			return sub, nil
		}
	}
	return "", fmt.Errorf("Unknown docker-app subcommand `%s`; expected one of init, render, deploy", str)
}

type Orchestrator string

const (
	Swarm      Orchestrator = "swarm"
	Kubernetes Orchestrator = "kubernetes"

	DefaultOrchestrator = Swarm
)

func ParseOrchestrator(str string) (Orchestrator, error) {
	switch Orchestrator(str) {
	case "":
		return DefaultOrchestrator, nil
	case Swarm, Kubernetes:
		return Orchestrator(str), nil
	}
	return "", fmt.Errorf("Unknown orchestrator `%s`; expected swarm or kubernetes", str)
}

// Request is the structured user intent for one docker-app invocation.
// Multi-line text fields are carried as one entry per line; empty entries are
// dropped by Build.
type Request struct {
	Subcommand       Subcommand
	AppPath          string
	Orchestrator     Orchestrator
	Overrides        []string
	SettingsFiles    []string
	KubeconfigPath   string
	Namespace        string
	StackName        string
	OutputFile       string
	WorkingDirectory string

	// init only
	Name        string
	Description string
	Maintainers []string
	ComposeFile string
	SingleFile  bool
}

// Lines splits a multi-line text field, such as overrides typed one per line,
// into Request entries.
func Lines(text string) []string {
	return util.NonEmptyLines(text)
}
