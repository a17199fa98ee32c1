// Package workspace provides the file tree the annotator works on: a small
// read/write filesystem abstraction, eligibility rules, and a deterministic
// walker.
package workspace

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// ErrRootInaccessible is returned when the root directory cannot be used.
var ErrRootInaccessible = errors.New("root directory is not accessible")

// ErrNotDirectory is wrapped into ErrRootInaccessible when root is a file.
var ErrNotDirectory = errors.New("not a directory")

// defaultFileMode is used when writing a file whose mode cannot be determined.
const defaultFileMode fs.FileMode = 0o644

// File operations reported by FileAccessError.
const (
	OpRead  = "read"
	OpWrite = "write"
	OpWalk  = "walk"
)

// FileAccessError reports a failed read, write, or directory listing of a
// single path. It never aborts a run on its own.
type FileAccessError struct {
	Op   string
	Path string
	Err  error
}

// Error implements error.
func (e *FileAccessError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying cause.
func (e *FileAccessError) Unwrap() error {
	return e.Err
}

// FileSystem is a tree of slash-separated paths that can be walked, read and
// overwritten.
type FileSystem interface {
	fs.ReadDirFS
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte) error
}

// OSFS is a FileSystem rooted at a directory on disk.
type OSFS struct {
	root string
	fsys fs.FS
}

var _ FileSystem = (*OSFS)(nil)

// NewOSFS returns a FileSystem rooted at root. It fails with
// ErrRootInaccessible when root does not exist or is not a directory.
func NewOSFS(root string) (*OSFS, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRootInaccessible, err)
	}

	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s: %w", ErrRootInaccessible, root, ErrNotDirectory)
	}

	return &OSFS{root: root, fsys: os.DirFS(root)}, nil
}

// Root returns the directory the filesystem is rooted at.
func (o *OSFS) Root() string {
	return o.root
}

// Open implements fs.FS.
func (o *OSFS) Open(name string) (fs.File, error) {
	return o.fsys.Open(name) //nolint:wrapcheck // fs.PathError already carries the path.
}

// ReadDir implements fs.ReadDirFS.
func (o *OSFS) ReadDir(name string) ([]fs.DirEntry, error) {
	return fs.ReadDir(o.fsys, name) //nolint:wrapcheck // fs.PathError already carries the path.
}

// ReadFile reads the named file in full.
func (o *OSFS) ReadFile(name string) ([]byte, error) {
	return fs.ReadFile(o.fsys, name) //nolint:wrapcheck // fs.PathError already carries the path.
}

// WriteFile replaces the named file's content, keeping its permission bits.
func (o *OSFS) WriteFile(name string, data []byte) error {
	if !fs.ValidPath(name) {
		return &fs.PathError{Op: "write", Path: name, Err: fs.ErrInvalid}
	}

	path := filepath.Join(o.root, filepath.FromSlash(name))

	mode := defaultFileMode

	info, err := os.Stat(path)
	if err == nil {
		mode = info.Mode().Perm()
	}

	return os.WriteFile(path, data, mode) //nolint:wrapcheck // fs.PathError already carries the path.
}
