package action_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/epam/dappctl/cmd/dappctl/action"
	"github.com/epam/dappctl/cmd/dappctl/dockerapp"
	"github.com/epam/dappctl/cmd/dappctl/report"
	"github.com/epam/dappctl/cmd/dappctl/settings"
)

const (
	helperEnv     = "DAPPCTL_ACTION_HELPER"
	helperExitEnv = "DAPPCTL_ACTION_HELPER_EXIT"
	helperWaitEnv = "DAPPCTL_ACTION_HELPER_SLEEP"
)

// With helperEnv set the test binary acts as docker-app: it prints its
// arguments to stdout, one line to stderr, and exits with helperExitEnv.
func TestMain(m *testing.M) {
	if os.Getenv(helperEnv) == "1" {
		if wait, err := time.ParseDuration(os.Getenv(helperWaitEnv)); err == nil {
			time.Sleep(wait)
		}
		for _, arg := range os.Args[1:] {
			fmt.Fprintln(os.Stdout, arg)
		}
		fmt.Fprintln(os.Stderr, "from stderr")
		code, _ := strconv.Atoi(os.Getenv(helperExitEnv))
		os.Exit(code)
	}
	os.Exit(m.Run())
}

type recorder struct {
	messages []report.Message
	events   []report.Event
}

func (r *recorder) Present(msg report.Message) { r.messages = append(r.messages, msg) }
func (r *recorder) Notify(event report.Event)  { r.events = append(r.events, event) }

func helperRunner(t *testing.T, mode action.Mode, exitCode int) (*action.Runner, *recorder) {
	exe, err := os.Executable()
	require.NoError(t, err)
	t.Setenv(helperEnv, "1")
	t.Setenv(helperExitEnv, strconv.Itoa(exitCode))
	rec := &recorder{}
	return &action.Runner{Program: exe, Mode: mode, Presenter: rec, Notifier: rec}, rec
}

func TestFromSettings(t *testing.T) {
	record := settings.Record{
		Path:         "./myapp",
		Orchestrator: "kubernetes",
		Kubeconfig:   "/home/me/.kube/config",
		Overrides:    "a=1\r\n\r\nb=2\n",
		Namespace:    "prod",
		Name:         "stack",
	}

	render := action.FromSettings(dockerapp.Render, record, "/work")
	assert.Equal(t, dockerapp.Request{
		Subcommand:       dockerapp.Render,
		AppPath:          "./myapp",
		Overrides:        []string{"a=1", "b=2"},
		WorkingDirectory: "/work",
	}, render)

	deploy := action.FromSettings(dockerapp.Deploy, record, "/work")
	assert.Equal(t, dockerapp.Kubernetes, deploy.Orchestrator)
	assert.Equal(t, "/home/me/.kube/config", deploy.KubeconfigPath)
	assert.Equal(t, "prod", deploy.Namespace)
	assert.Equal(t, "stack", deploy.StackName)

	initReq := action.FromSettings(dockerapp.Init, record, "/work")
	assert.Equal(t, dockerapp.Request{Subcommand: dockerapp.Init, WorkingDirectory: "/work"}, initReq)
}

func TestFromSettingsToArgv(t *testing.T) {
	record := settings.Record{Path: "./myapp", Orchestrator: "kubernetes", Namespace: "prod", Overrides: "a=1\n\nb=2"}
	argv := dockerapp.Build(action.FromSettings(dockerapp.Deploy, record, "/work"))
	assert.Equal(t, []string{"docker-app", "deploy", "./myapp", "--orchestrator=kubernetes",
		"--namespace", "prod", "-s", "a=1", "-s", "b=2"}, argv)

	argv = dockerapp.Build(action.FromSettings(dockerapp.Deploy, settings.Default(), "/work"))
	assert.Equal(t, []string{"docker-app", "deploy", "--orchestrator=swarm"}, argv)
}

func TestRunAggregateSuccess(t *testing.T) {
	runner, rec := helperRunner(t, action.Aggregate, 0)
	req := dockerapp.Request{Subcommand: dockerapp.Render, AppPath: "./my app", Overrides: []string{"msg=hello world"},
		WorkingDirectory: t.TempDir()}

	kind, err := runner.Run(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, report.Success, kind)
	require.Len(t, rec.messages, 1)
	assert.Empty(t, rec.events)
	msg := rec.messages[0]
	assert.Equal(t, "Rendered Application", msg.Title)
	assert.Equal(t, report.Info, msg.Severity)
	assert.Equal(t, "from stderr\nrender\n./my app\n-s\nmsg=hello world", msg.Text)
}

func TestRunAggregateNonZeroExit(t *testing.T) {
	runner, rec := helperRunner(t, action.Aggregate, 3)
	req := dockerapp.Request{Subcommand: dockerapp.Deploy, WorkingDirectory: t.TempDir()}

	kind, err := runner.Run(context.Background(), req)
	assert.Equal(t, report.NonZeroExit, kind)
	var reported *action.ReportedError
	require.True(t, errors.As(err, &reported))
	assert.Equal(t, 3, reported.ExitCode)
	require.Len(t, rec.messages, 1)
	assert.Equal(t, report.Error, rec.messages[0].Severity)
	assert.Contains(t, rec.messages[0].Text, "from stderr\ndeploy\n--orchestrator=swarm")
}

func TestRunSpawnFailure(t *testing.T) {
	rec := &recorder{}
	runner := &action.Runner{Program: filepath.Join(t.TempDir(), "docker-app"), Presenter: rec, Notifier: rec}

	kind, err := runner.Run(context.Background(), dockerapp.Request{Subcommand: dockerapp.Render, WorkingDirectory: t.TempDir()})
	assert.Equal(t, report.SpawnFailure, kind)
	var reported *action.ReportedError
	require.True(t, errors.As(err, &reported))
	assert.Equal(t, 127, reported.ExitCode)
	require.Len(t, rec.messages, 1, "spawn failure is reported once")
	assert.Contains(t, rec.messages[0].Text, "docker-app invocation failed with")

	rec = &recorder{}
	runner.Presenter, runner.Notifier, runner.Mode = rec, rec, action.Streaming
	kind, _ = runner.Run(context.Background(), dockerapp.Request{Subcommand: dockerapp.Render, WorkingDirectory: t.TempDir()})
	assert.Equal(t, report.SpawnFailure, kind)
	require.Len(t, rec.events, 1)
	assert.True(t, rec.events[0].Final)
}

func TestRunWithoutWorkingDirectory(t *testing.T) {
	runner, rec := helperRunner(t, action.Aggregate, 0)
	kind, err := runner.Run(context.Background(), dockerapp.Request{Subcommand: dockerapp.Render})
	assert.Equal(t, report.SpawnFailure, kind)
	assert.Error(t, err)
	assert.Len(t, rec.messages, 1)
}

func TestRunStreaming(t *testing.T) {
	runner, rec := helperRunner(t, action.Streaming, 0)
	req := dockerapp.Request{Subcommand: dockerapp.Init, Name: "hello", Maintainers: []string{"dev"},
		WorkingDirectory: t.TempDir()}

	kind, err := runner.Run(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, report.Success, kind)
	assert.Empty(t, rec.messages)

	var stdout, stderr []string
	for _, event := range rec.events[:len(rec.events)-1] {
		assert.False(t, event.Final)
		if event.Severity == report.Info {
			stdout = append(stdout, event.Text)
		} else {
			stderr = append(stderr, event.Text)
		}
	}
	assert.Equal(t, []string{"init", "hello", "-m", "dev"}, stdout)
	assert.Equal(t, []string{"from stderr"}, stderr)
	final := rec.events[len(rec.events)-1]
	assert.True(t, final.Final)
	assert.Equal(t, "Application successfully created.", final.Text)
}

func TestRunTimeout(t *testing.T) {
	runner, rec := helperRunner(t, action.Aggregate, 0)
	t.Setenv(helperWaitEnv, "30s")
	runner.Timeout = 300 * time.Millisecond

	kind, err := runner.Run(context.Background(), dockerapp.Request{Subcommand: dockerapp.Render, WorkingDirectory: t.TempDir()})
	assert.Equal(t, report.Timeout, kind)
	var reported *action.ReportedError
	require.True(t, errors.As(err, &reported))
	assert.Equal(t, 124, reported.ExitCode)
	require.Len(t, rec.messages, 1)
	assert.Equal(t, report.Error, rec.messages[0].Severity)
}
