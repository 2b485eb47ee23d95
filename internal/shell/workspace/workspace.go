package workspace

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

const (
	dirPerm  os.FileMode = 0o755
	filePerm os.FileMode = 0o644
)

// Workspace reads and writes files relative to a project root.
// All paths passed to its methods are relative to Root.
type Workspace struct {
	fs   afero.Fs
	root string
}

// New creates a Workspace on fs rooted at root.
func New(fsys afero.Fs, root string) *Workspace {
	return &Workspace{fs: fsys, root: filepath.Clean(root)}
}

// FS returns the underlying filesystem.
func (w *Workspace) FS() afero.Fs {
	return w.fs
}

// Root returns the project root.
func (w *Workspace) Root() string {
	return w.root
}

// Path returns the full path of rel.
func (w *Workspace) Path(rel string) string {
	if filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(w.root, rel)
}

// Exists reports whether rel exists.
func (w *Workspace) Exists(rel string) bool {
	_, err := w.fs.Stat(w.Path(rel))
	return err == nil
}

// ReadOptional returns the content of rel. A missing file is not an error:
// it returns ok=false. Any other failure is reported.
func (w *Workspace) ReadOptional(rel string) (content string, ok bool, err error) {
	data, err := afero.ReadFile(w.fs, w.Path(rel))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("%w: %s: %v", ErrReadFailed, w.Path(rel), err)
	}
	return string(data), true, nil
}

// WriteFile writes content to rel, creating parent directories as needed.
// Existing files are overwritten.
func (w *Workspace) WriteFile(rel, content string) error {
	path := w.Path(rel)
	if err := w.fs.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		return &WriteError{Op: "mkdir", Path: filepath.Dir(path), Err: err}
	}
	if err := afero.WriteFile(w.fs, path, []byte(content), filePerm); err != nil {
		return &WriteError{Op: "write", Path: path, Err: err}
	}
	return nil
}
