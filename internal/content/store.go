package content

import (
	"context"
	"errors"
)

// ErrNotFound reports that a requested document does not exist or cannot be
// read. Callers translate it to a 404; the error carries no detail about why
// the document is unavailable.
var ErrNotFound = errors.New("content not found")

// Store defines the interface for retrieving static document bytes.
//
// The store is a black box to the protocol layer: it maps a relative path to
// bytes or ErrNotFound. Path sanitization happens before the store is
// consulted, so implementations never see parent-directory components.
type Store interface {
	// ReadFile returns the full contents of the document at the given
	// relative path. Returns ErrNotFound if the document is absent or
	// unreadable.
	ReadFile(ctx context.Context, path string) ([]byte, error)
}
