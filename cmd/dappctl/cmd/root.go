// Copyright (c) 2022 EPAM Systems, Inc.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/epam/dappctl/cmd/dappctl/action"
	"github.com/epam/dappctl/cmd/dappctl/config"
	"github.com/epam/dappctl/cmd/dappctl/lifecycle"
	"github.com/epam/dappctl/cmd/dappctl/util"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "dappctl",
	Short: "dappctl drives docker-app with per-project settings",
	Long: `dappctl drives the docker-app CLI:
- render, deploy, and init Docker Application packages;
- per-project settings (application path, orchestrator, kubeconfig, overrides, namespace, stack name)
  remembered between runs;
- aggregated or streaming reports, as text or JSON for editor integrations`,
	SilenceUsage:  true,
	SilenceErrors: true,

	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		config.Update()
		if config.Debug {
			log.Print(util.FullVersion())
		}
	},

	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		util.PrintAllWarnings()
	},
}

func Execute() {
	ctx, stop := lifecycle.WatchInterrupt(context.Background())
	err := RootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		util.PrintAllWarnings()
		var reported *action.ReportedError
		if errors.As(err, &reported) {
			// already presented
			os.Exit(reported.ExitCode)
		}
		fmt.Fprintln(os.Stderr, util.ErrorColor(err.Error()))
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	RootCmd.PersistentFlags().StringVar(&config.ConfigFile, "config", "", "Config file (default is $HOME/.dappctl.{yaml,json})")
	RootCmd.PersistentFlags().StringVarP(&config.ProjectDir, "project", "p", "",
		"Project directory, the settings scope and docker-app working directory (default is the git worktree or current directory)")
	RootCmd.PersistentFlags().StringVar(&config.SettingsFile, "settings", "",
		"Settings store file (default is $HOME/.dappctl-settings.yaml or $HOME/.dappctl-settings.db)")
	RootCmd.PersistentFlags().StringVar(&config.SettingsBackend, "settings-backend", config.SettingsBackend, "Settings store: yaml or sqlite")

	RootCmd.PersistentFlags().StringVar(&config.DockerAppBin, "docker-app", config.DockerAppBin, "Path to docker-app binary. Or set DAPPCTL_DOCKER_APP")
	RootCmd.PersistentFlags().DurationVar(&config.Timeout, "timeout", 0, "Kill docker-app after the duration, ex. 5m; 0 waits forever")
	RootCmd.PersistentFlags().BoolVar(&config.Stream, "stream", false, "Report docker-app output line by line as it is produced")
	RootCmd.PersistentFlags().StringVar(&config.OutputFormat, "format", config.OutputFormat, "Report format: text or json")
	RootCmd.PersistentFlags().BoolVar(&config.Echo, "echo", false, "Include docker-app output in successful reports")

	RootCmd.PersistentFlags().BoolVarP(&config.Verbose, "verbose", "v", false, "Verbose mode")
	RootCmd.PersistentFlags().BoolVarP(&config.Debug, "debug", "d", false, "Print debug info. Or set DAPPCTL_DEBUG=1")
	RootCmd.PersistentFlags().BoolVar(&config.Trace, "trace", false, "Print detailed trace info. Or set DAPPCTL_TRACE=1")
	RootCmd.PersistentFlags().StringVar(&config.LogDestination, "log-destination", "stderr", "stderr or stdout")
	RootCmd.PersistentFlags().StringVar(&config.TtyMode, "tty", "autodetect", "Terminal mode for colors, etc. true / false. Or set DAPPCTL_TTY")

	RootCmd.PersistentFlags().BoolVar(&config.AggWarnings, "all-warnings", true, "Repeat all warnings before exit")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	home, err := homedir.Dir()
	if err != nil {
		util.Warn("Unable to determine HOME directory: %v", err)
	}
	if config.ConfigFile != "" {
		viper.SetConfigFile(config.ConfigFile)
	} else if err == nil {
		viper.AddConfigPath(home)
		viper.SetConfigName(".dappctl")
	}

	viper.SetEnvPrefix("dappctl")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()

	if err = viper.ReadInConfig(); err == nil {
		if config.Verbose {
			log.Printf("Using config file %s", viper.ConfigFileUsed())
		}
	} else if config.ConfigFile != "" {
		util.Warn("Unable to read config file `%s`: %v", config.ConfigFile, err)
	}

	// flags given on the command line take precedence over env and config file
	flags := RootCmd.PersistentFlags()
	setString := func(name string, target *string) {
		if v := viper.GetString(name); v != "" && !flags.Changed(name) {
			*target = v
		}
	}
	setBool := func(name string, target *bool) {
		if viper.GetBool(name) && !flags.Changed(name) {
			*target = true
		}
	}
	setBool("debug", &config.Debug)
	setBool("trace", &config.Trace)
	setBool("verbose", &config.Verbose)
	setBool("stream", &config.Stream)
	setBool("echo", &config.Echo)
	setString("tty", &config.TtyMode)
	setString("docker-app", &config.DockerAppBin)
	setString("project", &config.ProjectDir)
	setString("settings", &config.SettingsFile)
	setString("settings-backend", &config.SettingsBackend)
	setString("format", &config.OutputFormat)
	if d := viper.GetDuration("timeout"); d != 0 && !flags.Changed("timeout") {
		config.Timeout = d
	}
}
