package content

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// FSStore implements Store over a local directory tree.
//
// Paths handed to ReadFile are resolved relative to the store's base path.
// The store does not guard against traversal itself: the protocol layer
// rejects any path containing a parent-directory component before delegating
// here.
//
// Thread safety:
// Reads are independent filesystem operations and are safe to issue
// concurrently.
type FSStore struct {
	basePath string
}

// NewFSStore creates a filesystem-backed content store rooted at basePath.
//
// The base directory is created with permissions 0755 if it does not exist,
// so a fresh deployment serves an empty tree instead of failing at startup.
func NewFSStore(ctx context.Context, basePath string) (*FSStore, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create content root: %w", err)
	}

	return &FSStore{basePath: basePath}, nil
}

// BasePath returns the root directory documents are served from.
func (s *FSStore) BasePath() string {
	return s.basePath
}

// ReadFile returns the contents of the document at the given relative path.
//
// Any read failure collapses to ErrNotFound: absence, permission errors and
// directories are indistinguishable to the caller, which keeps the 404
// surface free of information leaks.
func (s *FSStore) ReadFile(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	full := filepath.Join(s.basePath, filepath.FromSlash(path))

	info, err := os.Stat(full)
	if err != nil || info.IsDir() {
		return nil, ErrNotFound
	}

	data, err := os.ReadFile(full)
	if err != nil {
		return nil, ErrNotFound
	}

	return data, nil
}
