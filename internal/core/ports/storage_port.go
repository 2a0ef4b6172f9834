package ports

import (
	"context"
	"io"
)

// ObjectStorage stores bike images. Upload returns a public URL. Callers
// treat failures as a non-fatal degradation and substitute a placeholder.
type ObjectStorage interface {
	Upload(ctx context.Context, file io.Reader, filename, contentType string, size int64) (string, error)
	Delete(ctx context.Context, fileURL string) error
	Available() bool
}
