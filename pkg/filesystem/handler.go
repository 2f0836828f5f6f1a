package filesystem

import (
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/arthur-debert/mozart/pkg/errors"
	"github.com/spf13/afero"
)

// Handler performs the file operations of a run relative to a root directory.
type Handler struct {
	fs   afero.Fs
	root string
}

// NewHandler creates a handler over fs rooted at root (usually the working
// directory of the host project).
func NewHandler(fs afero.Fs, root string) *Handler {
	if fs == nil {
		fs = NewOS()
	}
	return &Handler{fs: fs, root: filepath.Clean(root)}
}

// Fs returns the underlying filesystem.
func (h *Handler) Fs() afero.Fs {
	return h.fs
}

// Root returns the directory relative paths are resolved against.
func (h *Handler) Root() string {
	return h.root
}

// Path resolves p against the root. Absolute paths are returned cleaned.
func (h *Handler) Path(p string) string {
	if filepath.IsAbs(p) || h.root == "" || h.root == "." {
		return filepath.Clean(p)
	}
	return filepath.Join(h.root, p)
}

// Canonical returns the identity form of p: absolute, cleaned and, on the OS
// filesystem, with symlinks evaluated.
func (h *Handler) Canonical(p string) string {
	abs := h.Path(p)
	if a, err := filepath.Abs(abs); err == nil {
		abs = a
	}
	if _, ok := h.fs.(*afero.OsFs); ok {
		if resolved, err := filepath.EvalSymlinks(abs); err == nil {
			return resolved
		}
	}
	return abs
}

// ReadFile returns the content of the file at p.
func (h *Handler) ReadFile(p string) (string, error) {
	data, err := afero.ReadFile(h.fs, h.Path(p))
	if err != nil {
		return "", errors.Wrap(err, errors.ErrFileOperation, "Failed to read file").
			WithDetail("path", p)
	}
	return string(data), nil
}

// WriteFile writes content to p, creating parent directories as needed.
func (h *Handler) WriteFile(p, content string) error {
	full := h.Path(p)
	perm := os.FileMode(0644)
	if info, err := h.fs.Stat(full); err == nil {
		perm = info.Mode().Perm()
	}
	if err := h.fs.MkdirAll(filepath.Dir(full), 0755); err != nil {
		return errors.Wrap(err, errors.ErrFileOperation, "Failed to create directory").
			WithDetail("path", filepath.Dir(p))
	}
	if err := afero.WriteFile(h.fs, full, []byte(content), perm); err != nil {
		return errors.Wrap(err, errors.ErrFileOperation, "Failed to write file").
			WithDetail("path", p)
	}
	return nil
}

// CreateDirectory creates p and any missing parents.
func (h *Handler) CreateDirectory(p string) error {
	if err := h.fs.MkdirAll(h.Path(p), 0755); err != nil {
		return errors.Wrap(err, errors.ErrFileOperation, "Failed to create directory").
			WithDetail("path", p)
	}
	return nil
}

// DeleteDirectory removes p recursively. A missing directory is not an error.
func (h *Handler) DeleteDirectory(p string) error {
	full := h.Path(p)
	if !h.Exists(full) {
		return nil
	}
	if err := h.fs.RemoveAll(full); err != nil {
		return errors.Wrap(err, errors.ErrFileOperation, "Failed to delete directory").
			WithDetail("path", p)
	}
	return nil
}

// IsDirectoryEmpty reports whether p is an existing directory without entries.
func (h *Handler) IsDirectoryEmpty(p string) bool {
	full := h.Path(p)
	if !h.IsDir(full) {
		return false
	}
	empty, err := afero.IsEmpty(h.fs, full)
	return err == nil && empty
}

// Exists reports whether anything exists at p.
func (h *Handler) Exists(p string) bool {
	ok, err := afero.Exists(h.fs, h.Path(p))
	return err == nil && ok
}

// IsDir reports whether p is an existing directory.
func (h *Handler) IsDir(p string) bool {
	ok, err := afero.DirExists(h.fs, h.Path(p))
	return err == nil && ok
}

// FilesFromPath lists every regular file below p in lexical order. A missing
// path yields no files; a single file yields itself.
func (h *Handler) FilesFromPath(p string) ([]string, error) {
	full := h.Path(p)
	info, err := h.fs.Stat(full)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrFileOperation, "Failed to read path").
			WithDetail("path", p)
	}
	if !info.IsDir() {
		return []string{full}, nil
	}

	var files []string
	err = afero.Walk(h.fs, full, func(path string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if fi.Mode().IsRegular() {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrFileOperation, "Failed to walk directory").
			WithDetail("path", p)
	}
	sort.Strings(files)
	return files, nil
}

// GetFile returns the files below dir whose base name is name.
func (h *Handler) GetFile(dir, name string) ([]string, error) {
	files, err := h.FilesFromPath(dir)
	if err != nil {
		return nil, err
	}
	var matches []string
	for _, f := range files {
		if filepath.Base(f) == name {
			matches = append(matches, f)
		}
	}
	return matches, nil
}

// CopyFile copies src to dst, preserving the file mode.
func (h *Handler) CopyFile(src, dst string) error {
	srcPath, dstPath := h.Path(src), h.Path(dst)

	in, err := h.fs.Open(srcPath)
	if err != nil {
		return errors.Wrap(err, errors.ErrFileOperation, "Failed to open source file").
			WithDetail("path", src)
	}
	defer func() { _ = in.Close() }()

	info, err := in.Stat()
	if err != nil {
		return errors.Wrap(err, errors.ErrFileOperation, "Failed to stat source file").
			WithDetail("path", src)
	}

	if err := h.fs.MkdirAll(filepath.Dir(dstPath), 0755); err != nil {
		return errors.Wrap(err, errors.ErrFileOperation, "Failed to create directory").
			WithDetail("path", filepath.Dir(dst))
	}

	out, err := h.fs.OpenFile(dstPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, info.Mode().Perm())
	if err != nil {
		return errors.Wrap(err, errors.ErrFileOperation, "Failed to create file").
			WithDetail("path", dst)
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return errors.Wrap(err, errors.ErrFileOperation, "Failed to copy file").
			WithDetail("source", src).
			WithDetail("target", dst)
	}
	if err := out.Close(); err != nil {
		return errors.Wrap(err, errors.ErrFileOperation, "Failed to close file").
			WithDetail("path", dst)
	}
	return nil
}

// CopyTree copies src to dst. When src is a directory its internal relative
// paths are preserved below dst.
func (h *Handler) CopyTree(src, dst string) error {
	srcPath, dstPath := h.Path(src), h.Path(dst)

	info, err := h.fs.Stat(srcPath)
	if err != nil {
		return errors.Wrap(err, errors.ErrFileOperation, "Failed to read source path").
			WithDetail("path", src)
	}
	if !info.IsDir() {
		return h.CopyFile(srcPath, dstPath)
	}

	files, err := h.FilesFromPath(srcPath)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return h.CreateDirectory(dstPath)
	}
	for _, f := range files {
		rel, err := filepath.Rel(srcPath, f)
		if err != nil {
			return errors.Wrap(err, errors.ErrInternal, "Failed to compute relative path").
				WithDetail("path", f)
		}
		if err := h.CopyFile(f, filepath.Join(dstPath, rel)); err != nil {
			return err
		}
	}
	return nil
}

// Rel returns p relative to base, slash separated.
func (h *Handler) Rel(base, p string) (string, error) {
	rel, err := filepath.Rel(h.Path(base), h.Path(p))
	if err != nil {
		return "", err
	}
	return filepath.ToSlash(rel), nil
}
