// Package content stores raw file bytes. A write returns an opaque path
// that is kept in the file record; size variants live next to it under
// "<path>_<size>".
package content

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/filesmanager/internal/server/models"
)

// ErrContentNotFound is returned by Read when nothing is stored at path.
var ErrContentNotFound = errors.New("content not found")

// Store is the content store adapter.
type Store interface {
	Write(ctx context.Context, contentID string, data []byte, fileType models.FileType) (string, error)
	Read(ctx context.Context, path string, fileType models.FileType) ([]byte, error)
	// WriteVariant stores the size variant of the content at path.
	WriteVariant(ctx context.Context, path string, size int, data []byte) error
	// Delete removes the content at path. Missing content is not an error.
	Delete(ctx context.Context, path string) error
	Ping(ctx context.Context) error
}

// VariantPath returns the path of the size variant of path.
func VariantPath(path string, size int) string {
	return fmt.Sprintf("%s_%d", path, size)
}
