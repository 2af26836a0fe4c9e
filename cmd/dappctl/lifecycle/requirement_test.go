package lifecycle

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/hashicorp/go-version"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var dockerAppVerTpl = "Version:               %s\nGit commit:            a0bcd6b\nBuilt:                 Wed Mar 13 21:49:18 2019\nOS/Arch:               linux/amd64\nExperimental:          off\nRenderers:             none\n"

func formatDockerAppVersion(version string) []byte {
	return []byte(fmt.Sprintf(dockerAppVerTpl, version))
}

func TestCheckRequiresBinVersion(t *testing.T) {
	min, _ := version.NewVersion("0.6.0")
	req := Requirement{Program: "docker-app", MinVersion: min}

	_, err := checkRequiresBinVersion(req, formatDockerAppVersion("v0.6.0"))
	assert.NoError(t, err, "When versions are equal, checkRequiresBinVersion should not return validation error")

	_, err = checkRequiresBinVersion(req, formatDockerAppVersion("v0.4.1"))
	assert.Error(t, err, "When version is less than required, checkRequiresBinVersion should return validation error")

	detected, err := checkRequiresBinVersion(req, formatDockerAppVersion("v0.10.0"))
	assert.NoError(t, err, "When version number starts with 1 but actually is 10 there should be no error")
	assert.Equal(t, "0.10.0", detected.String())

	detected, err = checkRequiresBinVersion(req, formatDockerAppVersion("v0.8.0-beta1"))
	assert.NoError(t, err)
	assert.Equal(t, "0.8.0-beta1", detected.String())

	_, err = checkRequiresBinVersion(req, []byte("command not understood"))
	assert.Error(t, err, "When no version is printed, checkRequiresBinVersion should return error")

	_, err = checkRequiresBinVersion(Requirement{Program: "docker-app"}, formatDockerAppVersion("v0.1.0"))
	assert.NoError(t, err, "Without minimal version any version is accepted")
}

func TestParseVersion(t *testing.T) {
	tests := []struct {
		name   string
		output string
		want   string
	}{
		{"Should parse labelled version", "Version: v0.8.0\n", "0.8.0"},
		{"Should parse lower case label", "version:   1.2\n", "1.2.0"},
		{"Should parse bare version", "docker-app 0.9.1 (linux)", "0.9.1"},
		{"Should prefer labelled version", "Built with go1.12.1\nVersion: v0.6.0", "0.6.0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseVersion([]byte(tt.output))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestDockerAppRequirement(t *testing.T) {
	req, err := DockerAppRequirement("docker-app", "0.6.0")
	require.NoError(t, err)
	assert.Equal(t, []string{"version"}, req.Args)
	assert.Equal(t, "0.6.0", req.MinVersion.String())

	req, err = DockerAppRequirement("docker-app", "")
	require.NoError(t, err)
	assert.Nil(t, req.MinVersion)

	_, err = DockerAppRequirement("docker-app", "not-a-version")
	assert.Error(t, err)
}

func TestCheckRequirement(t *testing.T) {
	t.Setenv(helperEnv, "1")
	exe, err := os.Executable()
	require.NoError(t, err)
	min, _ := version.NewVersion("0.6.0")

	detected, err := CheckRequirement(context.Background(),
		Requirement{Program: exe, Args: []string{"version", "v0.8.0"}, MinVersion: min}, t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "0.8.0", detected.String())

	_, err = CheckRequirement(context.Background(),
		Requirement{Program: exe, Args: []string{"version", "v0.5.0"}, MinVersion: min}, t.TempDir())
	assert.Error(t, err)

	_, err = CheckRequirement(context.Background(),
		Requirement{Program: exe, Args: []string{"exit", "4"}, MinVersion: min}, t.TempDir())
	assert.Error(t, err)
}
