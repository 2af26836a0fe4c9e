// Copyright (c) 2022 EPAM Systems, Inc.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/epam/dappctl/cmd/dappctl/config"
	"github.com/epam/dappctl/cmd/dappctl/dockerapp"
	"github.com/epam/dappctl/cmd/dappctl/scope"
)

var (
	initDescription string
	initMaintainers []string
	initComposeFile string
	initSingleFile  bool
)

var initCmd = &cobra.Command{
	Use:   "init <name> [--description text] [-m maintainer]... [-c docker-compose.yml] [--single-file]",
	Short: "Initialize Docker Application definition",
	Long: `Initialize Docker Application definition in the project directory with docker-app init.

Maintainers are given as name:email, repeat -m for more.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return initApp(cmd, args)
	},
}

func initApp(cmd *cobra.Command, args []string) error {
	sc, err := scope.Resolve(config.ProjectDir)
	if err != nil {
		return err
	}
	req := dockerapp.Request{
		Subcommand:       dockerapp.Init,
		Name:             args[0],
		Description:      initDescription,
		Maintainers:      initMaintainers,
		ComposeFile:      initComposeFile,
		SingleFile:       initSingleFile,
		WorkingDirectory: sc.Root,
	}
	return runAction(cmd, req)
}

func init() {
	// -d is --debug
	initCmd.Flags().StringVar(&initDescription, "description", "", "Application description")
	initCmd.Flags().StringArrayVarP(&initMaintainers, "maintainer", "m", nil, "Maintainer name:email; repeat for more")
	initCmd.Flags().StringVarP(&initComposeFile, "compose-file", "c", "", "Compose file to start from")
	initCmd.Flags().BoolVar(&initSingleFile, "single-file", false, "Create a single-file application")
	RootCmd.AddCommand(initCmd)
}
