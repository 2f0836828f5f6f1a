// pkg/filesystem/handler_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: Memory FS, OS FS (temp dir)
// PURPOSE: Test file handler operations used by relocation and rewriting

package filesystem_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/mozart/pkg/errors"
	"github.com/arthur-debert/mozart/pkg/filesystem"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHandler(t *testing.T) (*filesystem.Handler, afero.Fs) {
	t.Helper()
	fs := filesystem.NewMemory()
	require.NoError(t, fs.MkdirAll("/work", 0755))
	return filesystem.NewHandler(fs, "/work"), fs
}

func TestHandler_Path(t *testing.T) {
	h, _ := newHandler(t)

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"relative", "src/Dependencies", "/work/src/Dependencies"},
		{"absolute_outside_root", "/elsewhere/file.php", "/elsewhere/file.php"},
		{"absolute_inside_root", "/work/classes", "/work/classes"},
		{"root_itself", "/work", "/work"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, h.Path(tt.in))
		})
	}
}

func TestHandler_ReadExistingFile(t *testing.T) {
	h, fs := newHandler(t)
	require.NoError(t, afero.WriteFile(fs, "/work/test.txt", []byte("Test content"), 0644))

	content, err := h.ReadFile("test.txt")
	require.NoError(t, err)
	assert.Equal(t, "Test content", content)
}

func TestHandler_ReadMissingFile(t *testing.T) {
	h, _ := newHandler(t)

	_, err := h.ReadFile("nonexistent.txt")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrFileOperation))
	assert.Contains(t, err.Error(), "Failed to read file")
}

func TestHandler_WriteFileCreatesParents(t *testing.T) {
	h, fs := newHandler(t)

	require.NoError(t, h.WriteFile("deep/nested/test_write.txt", "Written content"))

	data, err := afero.ReadFile(fs, "/work/deep/nested/test_write.txt")
	require.NoError(t, err)
	assert.Equal(t, "Written content", string(data))
}

func TestHandler_CreateAndDeleteDirectory(t *testing.T) {
	h, _ := newHandler(t)

	require.NoError(t, h.CreateDirectory("test_directory"))
	assert.True(t, h.IsDir("test_directory"))

	require.NoError(t, h.DeleteDirectory("test_directory"))
	assert.False(t, h.Exists("test_directory"))

	// Deleting again is a no-op
	assert.NoError(t, h.DeleteDirectory("test_directory"))
}

func TestHandler_IsDirectoryEmpty(t *testing.T) {
	h, fs := newHandler(t)
	require.NoError(t, fs.MkdirAll("/work/empty_dir", 0755))
	require.NoError(t, afero.WriteFile(fs, "/work/non_empty_dir/file.txt", []byte("content"), 0644))

	assert.True(t, h.IsDirectoryEmpty("empty_dir"))
	assert.False(t, h.IsDirectoryEmpty("non_empty_dir"))
	assert.False(t, h.IsDirectoryEmpty("missing_dir"))
}

func TestHandler_FilesFromPath(t *testing.T) {
	h, fs := newHandler(t)
	require.NoError(t, afero.WriteFile(fs, "/work/subdir/file2.txt", []byte("content2"), 0644))
	require.NoError(t, afero.WriteFile(fs, "/work/subdir/file1.txt", []byte("content1"), 0644))
	require.NoError(t, afero.WriteFile(fs, "/work/subdir/inner/file3.txt", []byte("content3"), 0644))

	files, err := h.FilesFromPath("subdir")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"/work/subdir/file1.txt",
		"/work/subdir/file2.txt",
		"/work/subdir/inner/file3.txt",
	}, files)

	missing, err := h.FilesFromPath("nowhere")
	require.NoError(t, err)
	assert.Empty(t, missing)

	single, err := h.FilesFromPath("subdir/file1.txt")
	require.NoError(t, err)
	assert.Equal(t, []string{"/work/subdir/file1.txt"}, single)
}

func TestHandler_GetFile(t *testing.T) {
	h, fs := newHandler(t)
	require.NoError(t, afero.WriteFile(fs, "/work/subdir/target.txt", []byte("target"), 0644))
	require.NoError(t, afero.WriteFile(fs, "/work/subdir/other.txt", []byte("other"), 0644))

	files, err := h.GetFile("subdir", "target.txt")
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "/work/subdir/target.txt", files[0])
}

func TestHandler_CopyFile(t *testing.T) {
	h, fs := newHandler(t)
	require.NoError(t, afero.WriteFile(fs, "/work/source.txt", []byte("Source content"), 0640))

	require.NoError(t, h.CopyFile("source.txt", "copy/dest.txt"))

	data, err := afero.ReadFile(fs, "/work/copy/dest.txt")
	require.NoError(t, err)
	assert.Equal(t, "Source content", string(data))
}

func TestHandler_CopyTreePreservesRelativePaths(t *testing.T) {
	h, fs := newHandler(t)
	require.NoError(t, afero.WriteFile(fs, "/work/vendor/a/b/src/One.php", []byte("<?php // one"), 0644))
	require.NoError(t, afero.WriteFile(fs, "/work/vendor/a/b/src/Sub/Two.php", []byte("<?php // two"), 0644))

	require.NoError(t, h.CopyTree("vendor/a/b/src", "deps/a/b/src"))

	files, err := h.FilesFromPath("deps")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"/work/deps/a/b/src/One.php",
		"/work/deps/a/b/src/Sub/Two.php",
	}, files)
}

func TestHandler_CopyTreeMissingSource(t *testing.T) {
	h, _ := newHandler(t)

	err := h.CopyTree("vendor/missing", "deps/missing")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrFileOperation))
}

func TestHandler_CanonicalOnOS(t *testing.T) {
	root := t.TempDir()
	realDir := filepath.Join(root, "real")
	require.NoError(t, os.MkdirAll(realDir, 0755))
	link := filepath.Join(root, "link")
	if err := os.Symlink(realDir, link); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	h := filesystem.NewHandler(filesystem.NewOS(), root)
	want, err := filepath.EvalSymlinks(realDir)
	require.NoError(t, err)
	assert.Equal(t, want, h.Canonical(link))
	assert.Equal(t, h.Canonical(realDir), h.Canonical(link))
}
