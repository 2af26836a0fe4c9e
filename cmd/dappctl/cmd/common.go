// Copyright (c) 2022 EPAM Systems, Inc.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package cmd

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/epam/dappctl/cmd/dappctl/action"
	"github.com/epam/dappctl/cmd/dappctl/config"
	"github.com/epam/dappctl/cmd/dappctl/dockerapp"
	"github.com/epam/dappctl/cmd/dappctl/report"
	"github.com/epam/dappctl/cmd/dappctl/scope"
	"github.com/epam/dappctl/cmd/dappctl/settings"
)

var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// session is the scope of the current project with its saved settings.
type session struct {
	scope  scope.Scope
	store  settings.Store
	record settings.Record
}

func openSession() (*session, error) {
	sc, err := scope.Resolve(config.ProjectDir)
	if err != nil {
		return nil, err
	}
	store, err := settings.Open(config.SettingsBackend, config.SettingsFile)
	if err != nil {
		return nil, err
	}
	record, err := store.Load(sc.ID)
	if err != nil {
		store.Close()
		return nil, err
	}
	if config.Debug {
		log.Printf("Project scope %s (git: %v)", sc.ID, sc.Git)
	}
	return &session{scope: sc, store: store, record: record}, nil
}

func (s *session) save() error {
	if err := s.store.Save(s.scope.ID, s.record); err != nil {
		return err
	}
	if config.Verbose {
		log.Printf("Settings saved for %s", s.scope.ID)
	}
	return nil
}

func (s *session) close() {
	if err := s.store.Close(); err != nil {
		log.Printf("Unable to close settings store: %v", err)
	}
}

func newRunner() *action.Runner {
	runner := &action.Runner{
		Program: config.DockerAppBin,
		Timeout: config.Timeout,
		Echo:    config.Echo,
	}
	if config.Stream {
		runner.Mode = action.Streaming
	}
	if config.OutputFormat == "json" {
		sink := report.NewJSON(stdout)
		runner.Presenter, runner.Notifier = sink, sink
	} else {
		sink := report.NewConsole(stdout, stderr)
		runner.Presenter, runner.Notifier = sink, sink
	}
	return runner
}

// appSettingsFlags are the settings render and deploy take from the command
// line in preference to the saved ones.
type appSettingsFlags struct {
	overrides     []string
	settingsFiles []string
	save          bool
}

func (f *appSettingsFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringArrayVarP(&f.overrides, "set", "s", nil,
		"Override a parameter value: -s key=value; repeat for more. Replaces the saved overrides")
	cmd.Flags().StringArrayVarP(&f.settingsFiles, "settings-file", "f", nil,
		"docker-app parameters file; repeat for more")
	cmd.Flags().BoolVar(&f.save, "save", false, "Save settings given on the command line for the project")
}

// apply merges command line values into the session record: the positional
// application path and the overrides when given.
func (f *appSettingsFlags) apply(cmd *cobra.Command, args []string, s *session) {
	if len(args) > 0 {
		s.record.Path = args[0]
	}
	if cmd.Flags().Changed("set") {
		s.record.Overrides = strings.Join(f.overrides, "\n")
	}
}

func runAction(cmd *cobra.Command, req dockerapp.Request) error {
	_, err := newRunner().Run(cmd.Context(), req)
	return err
}

func stringFlag(cmd *cobra.Command, name string, target *string, value string) {
	if cmd.Flags().Changed(name) {
		*target = value
	}
}

func printKeyValues(w io.Writer, m map[string]string, keys []string) {
	for _, key := range keys {
		value := m[key]
		if strings.Contains(value, "\n") {
			fmt.Fprintf(w, "%s:\n", key)
			for _, line := range strings.Split(value, "\n") {
				fmt.Fprintf(w, "\t%s\n", line)
			}
			continue
		}
		fmt.Fprintf(w, "%s: %s\n", key, value)
	}
}
