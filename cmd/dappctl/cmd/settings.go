// Copyright (c) 2022 EPAM Systems, Inc.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/epam/dappctl/cmd/dappctl/config"
	"github.com/epam/dappctl/cmd/dappctl/settings"
	"github.com/epam/dappctl/cmd/dappctl/util"
)

var settingsCmd = &cobra.Command{
	Use:   "settings <show | get | set | reset | scopes> ...",
	Short: "Show and edit project settings",
	Long: `Show and edit settings saved for the project: ` + strings.Join(settings.Keys, ", ") + `.

Overrides are one key=value per line.`,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show all settings of the project",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return settingsShow()
	},
}

var settingsGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print one setting",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return settingsGet(args[0])
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key=value> ...",
	Short: "Change settings, all at once",
	Long: `Change settings, all at once. Use \n in a value to separate lines:

	dappctl settings set orchestrator=kubernetes namespace=prod 'overrides=a=1\nb=2'`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return settingsSet(args)
	},
}

var settingsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset settings of the project to defaults",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return settingsReset()
	},
}

var settingsScopesCmd = &cobra.Command{
	Use:   "scopes",
	Short: "List projects with saved settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return settingsScopes()
	},
}

func settingsShow() error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.close()

	if config.OutputFormat == "json" {
		out, err := json.MarshalIndent(s.record.Map(), "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "%s\n", out)
		return nil
	}
	fmt.Fprintf(stdout, "%s\n", util.HighlightColor(s.scope.ID))
	printKeyValues(stdout, s.record.Map(), settings.Keys)
	return nil
}

func settingsGet(key string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.close()

	value, err := s.record.Get(key)
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, value)
	return nil
}

func parseAssignments(args []string) (map[string]string, error) {
	assignments := make(map[string]string, len(args))
	for _, arg := range args {
		kv := strings.SplitN(arg, "=", 2)
		if len(kv) != 2 {
			return nil, fmt.Errorf("Argument `%s` is not key=value", arg)
		}
		assignments[kv[0]] = strings.ReplaceAll(kv[1], `\n`, "\n")
	}
	return assignments, nil
}

func settingsSet(args []string) error {
	assignments, err := parseAssignments(args)
	if err != nil {
		return err
	}

	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.close()

	var errs []error
	for _, key := range util.SortedKeys(assignments) {
		if err := s.record.Set(key, assignments[key]); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return errors.New(util.Errors("; ", errs...))
	}
	return s.save()
}

func settingsReset() error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.close()

	s.record = settings.Default()
	return s.save()
}

func settingsScopes() error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.close()

	lister, ok := s.store.(settings.Lister)
	if !ok {
		return fmt.Errorf("Settings backend `%s` cannot list projects", config.SettingsBackend)
	}
	scopes, err := lister.Scopes()
	if err != nil {
		return err
	}
	for _, id := range scopes {
		if id == s.scope.ID {
			id = util.HighlightColor(id)
		}
		fmt.Fprintln(stdout, id)
	}
	return nil
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsGetCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsResetCmd)
	settingsCmd.AddCommand(settingsScopesCmd)
	RootCmd.AddCommand(settingsCmd)
}
