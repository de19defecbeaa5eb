// Package adapter contains infrastructure adapters for the levelsweep CLI.
package adapter

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"

	m "github.com/mapforge/levelsweep/internal/model"
)

// LevelFSAdapter abstracts filesystem operations the engine relies on when
// scanning and mutating level trees. Hiding direct `os` access keeps the
// domain logic testable against an in-memory filesystem.
type LevelFSAdapter interface {
	// Walk traverses the tree under root, invoking fn for every entry.
	Walk(root m.Path, fn FilepathWalkFunc) error

	// ReadFile loads a file from disk and returns its contents.
	ReadFile(path m.Path) ([]byte, error)

	// WriteFile writes content to a file with the given permissions.
	WriteFile(path m.Path, content []byte, perm os.FileMode) error

	// SpliceFile atomically replaces the contents of an existing file:
	// content is written to a temp file in the same directory, then renamed
	// over the original.
	SpliceFile(path m.Path, content []byte) error

	// Remove deletes a single file.
	Remove(path m.Path) error

	// Stat returns metadata for a path.
	Stat(path m.Path) (os.FileInfo, error)

	// Exists reports whether a path exists.
	Exists(path m.Path) bool

	// MkdirAll creates a directory tree.
	MkdirAll(path m.Path, perm os.FileMode) error
}

// FilepathWalkFunc mirrors the callback shape used by filepath.Walk. It is
// defined here to avoid leaking the standard-library type into the domain.
type FilepathWalkFunc func(path string, info os.FileInfo, err error) error

// BillyFSAdapter backs LevelFSAdapter with any billy filesystem: the real
// disk in production, memfs in tests.
type BillyFSAdapter struct {
	fs billy.Filesystem
}

// NewLocalFSAdapter constructs an adapter over the host filesystem.
func NewLocalFSAdapter() *BillyFSAdapter {
	return &BillyFSAdapter{fs: osfs.New("/")}
}

// NewBillyFSAdapter constructs an adapter over the provided filesystem.
func NewBillyFSAdapter(fs billy.Filesystem) *BillyFSAdapter {
	return &BillyFSAdapter{fs: fs}
}

// Walk iterates over every entry under root.
func (a *BillyFSAdapter) Walk(root m.Path, fn FilepathWalkFunc) error {
	return util.Walk(a.fs, string(root), func(path string, info os.FileInfo, err error) error {
		return fn(path, info, err)
	})
}

// ReadFile loads file contents.
func (a *BillyFSAdapter) ReadFile(path m.Path) ([]byte, error) {
	return util.ReadFile(a.fs, string(path))
}

// WriteFile writes content to a file, creating parent directories as needed.
func (a *BillyFSAdapter) WriteFile(path m.Path, content []byte, perm os.FileMode) error {
	if err := a.fs.MkdirAll(filepath.Dir(string(path)), 0o750); err != nil {
		return err
	}

	return util.WriteFile(a.fs, string(path), content, perm)
}

// SpliceFile atomically replaces the contents of path.
func (a *BillyFSAdapter) SpliceFile(path m.Path, content []byte) error {
	dir := filepath.Dir(string(path))

	tmp, err := util.TempFile(a.fs, dir, ".levelsweep-")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	tmpName := tmp.Name()

	if _, err := tmp.Write(content); err != nil {
		_ = tmp.Close()
		_ = a.fs.Remove(tmpName)

		return fmt.Errorf("write temp file: %w", err)
	}

	if err := tmp.Close(); err != nil {
		_ = a.fs.Remove(tmpName)

		return fmt.Errorf("close temp file: %w", err)
	}

	if err := a.fs.Rename(tmpName, string(path)); err != nil {
		_ = a.fs.Remove(tmpName)

		return fmt.Errorf("rename temp file over %s: %w", path, err)
	}

	return nil
}

// Remove deletes a single file.
func (a *BillyFSAdapter) Remove(path m.Path) error {
	return a.fs.Remove(string(path))
}

// Stat returns metadata for the given path.
func (a *BillyFSAdapter) Stat(path m.Path) (os.FileInfo, error) {
	return a.fs.Stat(string(path))
}

// Exists reports whether the path exists.
func (a *BillyFSAdapter) Exists(path m.Path) bool {
	_, err := a.fs.Stat(string(path))

	return err == nil
}

// MkdirAll creates a directory tree.
func (a *BillyFSAdapter) MkdirAll(path m.Path, perm os.FileMode) error {
	return a.fs.MkdirAll(string(path), perm)
}
