// Copyright (c) 2022 EPAM Systems, Inc.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package config

import (
	"log"
	"os"
	"time"

	"github.com/mattn/go-isatty"
)

var (
	ConfigFile      string
	SettingsFile    string
	SettingsBackend string = "yaml"
	ProjectDir      string

	DockerAppBin        string = "docker-app"
	DockerAppMinVersion string = "0.6.0"
	Timeout             time.Duration

	Stream       bool
	Echo         bool
	OutputFormat string = "text"

	Verbose bool
	Debug   bool
	Trace   bool

	LogDestination string
	TtyMode        string
	Tty            bool
	TtyForced      bool

	AggWarnings bool
)

func Update() {
	if LogDestination == "stdout" {
		log.SetOutput(os.Stdout)
	} else if LogDestination != "stderr" {
		log.Fatalf("Unknown --log-destination `%s`", LogDestination)
	}

	if Trace {
		Debug = true
	}
	if Debug {
		Verbose = true
	}

	switch SettingsBackend {
	case "yaml", "sqlite":
	default:
		log.Fatalf("Unknown --settings-backend `%s`", SettingsBackend)
	}

	switch OutputFormat {
	case "text", "json":
	default:
		log.Fatalf("Unknown --format `%s`", OutputFormat)
	}

	if Timeout < 0 {
		log.Fatalf("Negative --timeout `%v`", Timeout)
	}

	tty := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsTerminal(os.Stderr.Fd())
	switch TtyMode {
	case "true":
		Tty = true
		TtyForced = !tty
	case "false":
		Tty = false
	case "autodetect":
		Tty = tty
	default:
		log.Fatalf("Unknown --tty `%s`", TtyMode)
	}
}
