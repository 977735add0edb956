package filex

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) func() {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	return func() { _ = os.Chdir(old) }
}

func TestEnsureDir_RelativeResolvesAgainstCWD(t *testing.T) {
	tmp := t.TempDir()
	defer chdir(t, tmp)()

	got, err := EnsureDir("files_manager")
	require.NoError(t, err)

	want := filepath.Join(tmp, "files_manager")
	require.Equal(t, want, got)

	fi, err := os.Stat(want)
	require.NoError(t, err)
	require.True(t, fi.IsDir(), "should create a directory")

	if runtime.GOOS != "windows" {
		perm := fi.Mode().Perm()
		require.Equal(t, os.FileMode(0o700), perm&0o700)
	}
}

func TestEnsureDir_AbsoluteWithParents(t *testing.T) {
	want := filepath.Join(t.TempDir(), "a", "b", "c")

	got, err := EnsureDir(want)
	require.NoError(t, err)
	require.Equal(t, want, got)

	again, err := EnsureDir(want)
	require.NoError(t, err)
	require.Equal(t, got, again)
}

func TestEnsureDir_FailsIfFileWithSameNameExists(t *testing.T) {
	tmp := t.TempDir()
	defer chdir(t, tmp)()

	require.NoError(t, os.WriteFile("files_manager", []byte("x"), 0o660))

	_, err := EnsureDir("files_manager")
	require.Error(t, err, "should fail when a file exists with the same name")
}

func TestWriteFile_ReplacesContent(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "blob")

	require.NoError(t, WriteFile(p, []byte("first"), 0o640))
	require.NoError(t, WriteFile(p, []byte("second"), 0o640))

	b, err := os.ReadFile(p)
	require.NoError(t, err)
	require.Equal(t, "second", string(b))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp files must not be left behind")
}

func TestWriteFile_MissingDir(t *testing.T) {
	err := WriteFile(filepath.Join(t.TempDir(), "nope", "blob"), []byte("x"), 0o640)
	require.Error(t, err)
}
