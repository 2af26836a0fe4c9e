// Copyright (c) 2022 EPAM Systems, Inc.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/epam/dappctl/cmd/dappctl/action"
	"github.com/epam/dappctl/cmd/dappctl/dockerapp"
)

var (
	renderFlags  appSettingsFlags
	renderOutput string
)

var renderCmd = &cobra.Command{
	Use:   "render [app] [-s key=value]... [-f parameters.yml]... [-o output.yml]",
	Short: "Render Docker Application to Compose file",
	Long: `Render Docker Application to Compose file with docker-app render.

Application path and overrides not given on the command line are taken from
the project settings, see dappctl settings.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return render(cmd, args)
	},
}

func render(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.close()

	renderFlags.apply(cmd, args, s)
	if renderFlags.save {
		if err := s.save(); err != nil {
			return err
		}
	}

	req := action.FromSettings(dockerapp.Render, s.record, s.scope.Root)
	req.SettingsFiles = renderFlags.settingsFiles
	req.OutputFile = renderOutput
	return runAction(cmd, req)
}

func init() {
	renderFlags.register(renderCmd)
	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "", "Write rendered Compose file instead of printing it")
	RootCmd.AddCommand(renderCmd)
}
