// Package tempfile tracks the temporary files created while handling a single
// request so they can all be removed when the request ends.
package tempfile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"
)

// Prefix is prepended to every file created through a Scope. Sweep uses it to
// find leftovers from a crashed process.
const Prefix = "menubot-"

// Scope owns the temporary files of one request.
// Cleanup is safe to call more than once.
type Scope struct {
	dir string

	mu    sync.Mutex
	paths []string
}

// NewScope returns a scope creating files in dir, or in os.TempDir when dir is empty.
func NewScope(dir string) *Scope {
	if dir == "" {
		dir = os.TempDir()
	}
	return &Scope{dir: dir}
}

// Dir returns the directory files are created in.
func (s *Scope) Dir() string {
	return s.dir
}

// Create opens a new temporary file whose name ends in suffix (for example
// ".ogg"). The caller closes the file; the scope removes it.
func (s *Scope) Create(suffix string) (*os.File, error) {
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	f, err := os.CreateTemp(s.dir, Prefix+"*"+suffix)
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}

	s.mu.Lock()
	s.paths = append(s.paths, f.Name())
	s.mu.Unlock()

	return f, nil
}

// Remove deletes one tracked file ahead of Cleanup.
func (s *Scope) Remove(path string) error {
	s.mu.Lock()
	for i, p := range s.paths {
		if p == path {
			s.paths = append(s.paths[:i], s.paths[i+1:]...)
			break
		}
	}
	s.mu.Unlock()

	return removeFile(path)
}

// Paths returns the files still tracked by the scope.
func (s *Scope) Paths() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.paths...)
}

// Cleanup removes every tracked file. Files that are already gone are ignored.
func (s *Scope) Cleanup() error {
	s.mu.Lock()
	paths := s.paths
	s.paths = nil
	s.mu.Unlock()

	var errList []error
	for _, p := range paths {
		if err := removeFile(p); err != nil {
			errList = append(errList, err)
		}
	}
	return errors.Join(errList...)
}

func removeFile(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove %s: %w", path, err)
	}
	return nil
}
