// Copyright (c) 2022 EPAM Systems, Inc.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/epam/dappctl/cmd/dappctl/config"
	"github.com/epam/dappctl/cmd/dappctl/lifecycle"
	"github.com/epam/dappctl/cmd/dappctl/scope"
	"github.com/epam/dappctl/cmd/dappctl/util"
)

var checkCmd = &cobra.Command{
	Use:   "check [--min-version 0.6.0]",
	Short: "Check docker-app is installed and recent enough",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return check(cmd)
	},
}

func check(cmd *cobra.Command) error {
	sc, err := scope.Resolve(config.ProjectDir)
	if err != nil {
		return err
	}
	req, err := lifecycle.DockerAppRequirement(config.DockerAppBin, config.DockerAppMinVersion)
	if err != nil {
		return err
	}
	detected, err := lifecycle.CheckRequirement(cmd.Context(), req, sc.Root)
	if err != nil {
		return err
	}
	msg := fmt.Sprintf("%s version %s", config.DockerAppBin, detected)
	if req.MinVersion != nil {
		msg = fmt.Sprintf("%s satisfies >= %s", msg, req.MinVersion)
	}
	fmt.Fprintln(stdout, util.SuccessColor(msg))
	return nil
}

func init() {
	checkCmd.Flags().StringVar(&config.DockerAppMinVersion, "min-version", config.DockerAppMinVersion,
		"Minimal docker-app version; empty to accept any")
	RootCmd.AddCommand(checkCmd)
}
