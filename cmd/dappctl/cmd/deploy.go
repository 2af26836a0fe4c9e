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
	deployFlags        appSettingsFlags
	deployOrchestrator string
	deployKubeconfig   string
	deployNamespace    string
	deployStackName    string
)

var deployCmd = &cobra.Command{
	Use:   "deploy [app] [--orchestrator swarm|kubernetes] [--kubeconfig path] [--namespace ns] [--name stack] [-s key=value]...",
	Short: "Deploy Docker Application",
	Long: `Deploy Docker Application to Swarm or Kubernetes with docker-app deploy.

Settings not given on the command line are taken from the project settings.
Orchestrator defaults to swarm.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return deploy(cmd, args)
	},
}

func deploy(cmd *cobra.Command, args []string) error {
	if cmd.Flags().Changed("orchestrator") {
		if _, err := dockerapp.ParseOrchestrator(deployOrchestrator); err != nil {
			return err
		}
	}

	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.close()

	deployFlags.apply(cmd, args, s)
	stringFlag(cmd, "orchestrator", &s.record.Orchestrator, deployOrchestrator)
	stringFlag(cmd, "kubeconfig", &s.record.Kubeconfig, deployKubeconfig)
	stringFlag(cmd, "namespace", &s.record.Namespace, deployNamespace)
	stringFlag(cmd, "name", &s.record.Name, deployStackName)
	if deployFlags.save {
		if err := s.save(); err != nil {
			return err
		}
	}

	req := action.FromSettings(dockerapp.Deploy, s.record, s.scope.Root)
	req.SettingsFiles = deployFlags.settingsFiles
	return runAction(cmd, req)
}

func init() {
	deployFlags.register(deployCmd)
	deployCmd.Flags().StringVar(&deployOrchestrator, "orchestrator", "", "Orchestrator: swarm or kubernetes")
	deployCmd.Flags().StringVar(&deployKubeconfig, "kubeconfig", "", "Kubernetes config file")
	deployCmd.Flags().StringVar(&deployNamespace, "namespace", "", "Kubernetes namespace")
	deployCmd.Flags().StringVar(&deployStackName, "name", "", "Stack name")
	RootCmd.AddCommand(deployCmd)
}
