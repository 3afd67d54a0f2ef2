// Package storage holds utility bill attachments, addressable by the
// opaque key stored on the bill row.
package storage

import (
	"context"
	"errors"
	"io"
	"path/filepath"

	"github.com/google/uuid"
)

// ErrNotFound is returned when no blob exists for a key
var ErrNotFound = errors.New("blob not found")

// Store reads and writes attachment blobs
type Store interface {
	// Put stores the blob under key, overwriting any previous content.
	Put(ctx context.Context, key string, r io.Reader) error
	// Get returns the blob as a byte stream. The caller closes it.
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	// Delete removes the blob. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}

// NewKey generates an opaque blob key, preserving the original file
// extension so downloads keep a sensible type.
func NewKey(filename string) string {
	return uuid.NewString() + filepath.Ext(filename)
}
