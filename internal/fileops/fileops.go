package fileops

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

const (
	defaultFileMode os.FileMode = 0644
	defaultDirMode  os.FileMode = 0755
)

// FileInfo represents information about a file
type FileInfo struct {
	Path      string
	Content   string
	Size      int64
	Mode      os.FileMode
	IsDir     bool
	ModTime   int64
	Exists    bool
	IsSymlink bool
}

// Workspace reads, writes and removes files relative to a root directory.
// Its ReadFile, WriteFile and RemoveFile methods are the collaborators the
// patch processor is given.
type Workspace struct {
	fs   afero.Fs
	root string
}

// NewWorkspace creates a workspace over fs rooted at root.
func NewWorkspace(fs afero.Fs, root string) *Workspace {
	return &Workspace{fs: fs, root: root}
}

// Root returns the workspace root.
func (w *Workspace) Root() string {
	return w.root
}

// Resolve turns a patch path into a filesystem path. Absolute paths are kept.
func (w *Workspace) Resolve(path string) string {
	if filepath.IsAbs(path) || w.root == "" {
		return filepath.Clean(path)
	}
	return filepath.Join(w.root, path)
}

// GetFile reads a file and returns its contents and metadata. A missing file
// is reported with Exists=false and no error.
func (w *Workspace) GetFile(path string) (*FileInfo, error) {
	resolved := w.Resolve(path)

	info, isSymlink, err := w.lstat(resolved)
	if err != nil {
		if os.IsNotExist(err) {
			return &FileInfo{Path: path, Exists: false}, nil
		}
		return nil, fmt.Errorf("error getting file info: %w", err)
	}

	fileInfo := &FileInfo{
		Path:      path,
		Size:      info.Size(),
		Mode:      info.Mode(),
		IsDir:     info.IsDir(),
		ModTime:   info.ModTime().Unix(),
		Exists:    true,
		IsSymlink: isSymlink,
	}

	if isSymlink {
		target, err := w.fs.Stat(resolved)
		if err != nil {
			return nil, fmt.Errorf("error getting symlink target info: %w", err)
		}
		fileInfo.IsDir = target.IsDir()
		fileInfo.Size = target.Size()
		fileInfo.Mode = target.Mode()
	}

	if fileInfo.IsDir {
		return fileInfo, nil
	}

	content, err := afero.ReadFile(w.fs, resolved)
	if err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}
	fileInfo.Content = string(content)

	return fileInfo, nil
}

func (w *Workspace) lstat(path string) (os.FileInfo, bool, error) {
	if lstater, ok := w.fs.(afero.Lstater); ok {
		info, _, err := lstater.LstatIfPossible(path)
		if err != nil {
			return nil, false, err
		}
		return info, info.Mode()&os.ModeSymlink != 0, nil
	}
	info, err := w.fs.Stat(path)
	return info, false, err
}

// ReadFile returns the content of an existing regular file.
func (w *Workspace) ReadFile(path string) (string, error) {
	info, err := w.GetFile(path)
	if err != nil {
		return "", err
	}
	if !info.Exists {
		return "", fmt.Errorf("file not found: %s: %w", path, os.ErrNotExist)
	}
	if info.IsDir {
		return "", fmt.Errorf("%s is a directory", path)
	}
	return info.Content, nil
}

// WriteFile writes content to a file, creating parent directories. An
// existing file keeps its permissions.
func (w *Workspace) WriteFile(path, content string) error {
	resolved := w.Resolve(path)

	if err := w.fs.MkdirAll(filepath.Dir(resolved), defaultDirMode); err != nil {
		return fmt.Errorf("error creating directories: %w", err)
	}

	mode := defaultFileMode
	if info, err := w.fs.Stat(resolved); err == nil {
		if info.IsDir() {
			return fmt.Errorf("cannot write %s: is a directory", path)
		}
		mode = info.Mode().Perm()
	}

	if err := afero.WriteFile(w.fs, resolved, []byte(content), mode); err != nil {
		return fmt.Errorf("error writing file: %w", err)
	}

	return nil
}

// RemoveFile deletes a regular file.
func (w *Workspace) RemoveFile(path string) error {
	resolved := w.Resolve(path)

	info, err := w.fs.Stat(resolved)
	if err != nil {
		return fmt.Errorf("cannot delete %s: %w", path, err)
	}
	if info.IsDir() {
		return errors.New("cannot delete " + path + ": is a directory")
	}

	if err := w.fs.Remove(resolved); err != nil {
		return fmt.Errorf("error deleting file: %w", err)
	}
	return nil
}

// Exists checks if a file or directory exists
func (w *Workspace) Exists(path string) bool {
	_, err := w.fs.Stat(w.Resolve(path))
	return err == nil
}

// IsFile checks if a path is a regular file
func (w *Workspace) IsFile(path string) bool {
	info, err := w.fs.Stat(w.Resolve(path))
	return err == nil && !info.IsDir()
}
