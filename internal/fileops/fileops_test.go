package fileops

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMemWorkspace(t *testing.T, files map[string]string) (*Workspace, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	for path, content := range files {
		require.NoError(t, afero.WriteFile(fs, filepath.Join("/work", path), []byte(content), 0644))
	}
	return NewWorkspace(fs, "/work"), fs
}

func TestWorkspaceResolve(t *testing.T) {
	ws := NewWorkspace(afero.NewMemMapFs(), "/work")
	assert.Equal(t, "/work/a/b.txt", ws.Resolve("a/b.txt"))
	assert.Equal(t, "/abs/c.txt", ws.Resolve("/abs/c.txt"))
	assert.Equal(t, "/work", ws.Root())
}

func TestWorkspaceReadFile(t *testing.T) {
	ws, _ := newMemWorkspace(t, map[string]string{"a.txt": "hello\nworld"})

	content, err := ws.ReadFile("a.txt")
	require.NoError(t, err)
	assert.Equal(t, "hello\nworld", content)

	_, err = ws.ReadFile("missing.txt")
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestWorkspaceReadFileRejectsDirectory(t *testing.T) {
	ws, fs := newMemWorkspace(t, nil)
	require.NoError(t, fs.MkdirAll("/work/dir", 0755))

	_, err := ws.ReadFile("dir")
	assert.ErrorContains(t, err, "is a directory")
}

func TestWorkspaceWriteFileCreatesDirectories(t *testing.T) {
	ws, fs := newMemWorkspace(t, nil)

	require.NoError(t, ws.WriteFile("nested/deep/new.txt", "content"))

	data, err := afero.ReadFile(fs, "/work/nested/deep/new.txt")
	require.NoError(t, err)
	assert.Equal(t, "content", string(data))
	assert.True(t, ws.IsFile("nested/deep/new.txt"))
}

func TestWorkspaceWriteFileKeepsMode(t *testing.T) {
	ws, fs := newMemWorkspace(t, nil)
	require.NoError(t, afero.WriteFile(fs, "/work/run.sh", []byte("#!/bin/sh"), 0755))

	require.NoError(t, ws.WriteFile("run.sh", "#!/bin/sh\necho hi"))

	info, err := fs.Stat("/work/run.sh")
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0755), info.Mode().Perm())
}

func TestWorkspaceRemoveFile(t *testing.T) {
	ws, _ := newMemWorkspace(t, map[string]string{"gone.txt": "x"})

	require.NoError(t, ws.RemoveFile("gone.txt"))
	assert.False(t, ws.Exists("gone.txt"))

	assert.Error(t, ws.RemoveFile("gone.txt"))
}

func TestWorkspaceGetFileMissing(t *testing.T) {
	ws, _ := newMemWorkspace(t, nil)

	info, err := ws.GetFile("nope.txt")
	require.NoError(t, err)
	assert.False(t, info.Exists)
}

func TestOSWorkspaceSymlink(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "target.txt"), []byte("data"), 0644))
	if err := os.Symlink("target.txt", filepath.Join(dir, "link.txt")); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	ws := NewWorkspace(afero.NewOsFs(), dir)
	info, err := ws.GetFile("link.txt")
	require.NoError(t, err)
	assert.True(t, info.IsSymlink)
	assert.Equal(t, "data", info.Content)
}
