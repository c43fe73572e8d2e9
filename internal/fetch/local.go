package fetch

import (
	"context"
	"fmt"
	"os"
)

// LocalSource serves a package file already on disk.
type LocalSource struct {
	path string
}

// NewLocalSource returns a source for a local file path.
func NewLocalSource(path string) *LocalSource {
	return &LocalSource{path: path}
}

// Fetch validates that the path points at a regular file.
func (s *LocalSource) Fetch(_ context.Context) (string, error) {
	info, err := os.Stat(s.path)
	if err != nil {
		return "", fmt.Errorf("cannot access %s: %w", s.path, err)
	}
	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("%s is not a regular file", s.path)
	}
	return s.path, nil
}

// Cleanup is a no-op: the file belongs to the caller.
func (s *LocalSource) Cleanup() {}
