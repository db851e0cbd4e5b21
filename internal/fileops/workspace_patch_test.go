package fileops_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/epuerta/apply-patch-go/internal/fileops"
	"github.com/epuerta/apply-patch-go/internal/patch"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessPatchOnDisk(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "main.go"), []byte("package main\n\nfunc main() {\n\tprintln(1)\n}\n"), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(root, "old.txt"), []byte("bye\n"), 0644))

	ws := fileops.NewWorkspace(afero.NewOsFs(), root)
	result, err := patch.ProcessPatch(`*** Begin Patch
*** Update File: main.go
*** Move to: cmd/app/main.go
@@ func main() {
-	println(1)
+	println(2)
*** Add File: docs/README.md
+# app
*** Delete File: old.txt
*** End Patch`, ws.ReadFile, ws.WriteFile, ws.RemoveFile)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Fuzz)

	moved, err := os.ReadFile(filepath.Join(root, "cmd/app/main.go"))
	require.NoError(t, err)
	assert.Equal(t, "package main\n\nfunc main() {\n\tprintln(2)\n}\n", string(moved))

	readme, err := os.ReadFile(filepath.Join(root, "docs/README.md"))
	require.NoError(t, err)
	assert.Equal(t, "# app", string(readme))

	assert.NoFileExists(t, filepath.Join(root, "main.go"))
	assert.NoFileExists(t, filepath.Join(root, "old.txt"))
}

func TestProcessPatchMissingFileLeavesTreeAlone(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/work/a.txt", []byte("a"), 0644))
	ws := fileops.NewWorkspace(fs, "/work")

	_, err := patch.ProcessPatch(`*** Begin Patch
*** Add File: b.txt
+b
*** Update File: missing.txt
@@
-x
+y
*** End Patch`, ws.ReadFile, ws.WriteFile, ws.RemoveFile)
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.False(t, patch.IsDiffError(err))

	exists, err := afero.Exists(fs, "/work/b.txt")
	require.NoError(t, err)
	assert.False(t, exists)
}
