package scope

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-git/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tempDir(t *testing.T) string {
	dir, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	return dir
}

func TestResolvePlainDirectory(t *testing.T) {
	dir := tempDir(t)
	s, err := Resolve(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, s.ID)
	assert.Equal(t, dir, s.Root)
	assert.False(t, s.Git)
}

func TestResolveGitWorktree(t *testing.T) {
	root := tempDir(t)
	_, err := git.PlainInit(root, false)
	require.NoError(t, err)
	sub := filepath.Join(root, "services", "web")
	require.NoError(t, os.MkdirAll(sub, 0755))

	tests := []struct {
		name string
		dir  string
	}{
		{"Should resolve worktree root to itself", root},
		{"Should resolve nested directory to worktree root", sub},
		{"Should resolve unclean path to worktree root", sub + "/../web/."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Resolve(tt.dir)
			require.NoError(t, err)
			assert.Equal(t, root, s.ID)
			assert.Equal(t, root, s.Root)
			assert.True(t, s.Git)
		})
	}
}

func TestResolveDistinctProjects(t *testing.T) {
	a := tempDir(t)
	b := tempDir(t)
	sa, err := Resolve(a)
	require.NoError(t, err)
	sb, err := Resolve(b)
	require.NoError(t, err)
	assert.NotEqual(t, sa.ID, sb.ID)
}

func TestResolveErrors(t *testing.T) {
	dir := tempDir(t)
	_, err := Resolve(filepath.Join(dir, "missing"))
	assert.Error(t, err)

	file := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))
	_, err = Resolve(file)
	assert.Error(t, err)
}

func TestResolveCurrentDirectory(t *testing.T) {
	s, err := Resolve("")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(s.Root))
}
